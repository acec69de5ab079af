package reporting

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kvasirsec/sinkhound/api/schemas"
)

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func sampleFinding(class schemas.VulnerabilityClass, severity schemas.Severity) schemas.Finding {
	return schemas.Finding{
		ID:       "e4f2",
		Check:    "xss",
		Class:    class,
		Severity: severity,
		Message:  "unsanitized dynamic value reaches innerHTML",
		Location: schemas.Location{
			File: "app.js", Line: 12, Column: 4,
			StartByte: 120, EndByte: 150,
			Snippet: "el.innerHTML = req.query.html;",
		},
		Remediation: []string{"Assign text via textContent instead of markup via innerHTML."},
		Fixes: []schemas.AlternativeFix{
			{Label: "refactor", Template: "Replace innerHTML with textContent."},
		},
	}
}

func TestTextReporter(t *testing.T) {
	buf := &bufferCloser{}
	r := newTextReporter(buf)

	require.NoError(t, r.Write([]schemas.Finding{sampleFinding(schemas.ClassXSS, schemas.SeverityCritical)}))
	require.NoError(t, r.Close())

	out := buf.String()
	assert.Contains(t, out, "[CRITICAL] xss  app.js:12:4")
	assert.Contains(t, out, "unsanitized dynamic value reaches innerHTML")
	assert.Contains(t, out, "> el.innerHTML = req.query.html;")
	assert.Contains(t, out, "fix (refactor):")
	assert.Contains(t, out, "1 finding(s)")
	assert.True(t, buf.closed)
}

func TestJSONReporter(t *testing.T) {
	buf := &bufferCloser{}
	r := newJSONReporter(buf, "1.2.3")

	require.NoError(t, r.Write([]schemas.Finding{sampleFinding(schemas.ClassXSS, schemas.SeverityHigh)}))
	require.NoError(t, r.Close())

	var report jsonReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "sinkhound", report.Tool)
	assert.Equal(t, "1.2.3", report.Version)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, schemas.SeverityHigh, report.Findings[0].Severity)
}

func TestJSONReporterEmptyFindings(t *testing.T) {
	buf := &bufferCloser{}
	r := newJSONReporter(buf, "1.2.3")
	require.NoError(t, r.Close())

	assert.Contains(t, buf.String(), `"findings": []`)
}

func TestSARIFReporter(t *testing.T) {
	buf := &bufferCloser{}
	r := NewSARIFReporter(buf, "1.2.3", zaptest.NewLogger(t))

	findings := []schemas.Finding{
		sampleFinding(schemas.ClassXSS, schemas.SeverityCritical),
		sampleFinding(schemas.ClassXSS, schemas.SeverityMedium),
		sampleFinding(schemas.ClassCommandInjection, schemas.SeverityHigh),
	}
	require.NoError(t, r.Write(findings))
	require.NoError(t, r.Close())

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	run := doc.Runs[0]
	assert.Equal(t, "sinkhound", run.Tool.Driver.Name)

	// Two XSS findings share one rule; command injection gets its own.
	require.Len(t, run.Tool.Driver.Rules, 2)
	require.Len(t, run.Results, 3)
	assert.Equal(t, "SINKHOUND-XSS", run.Results[0].RuleID)
	assert.Equal(t, "error", run.Results[0].Level)
	assert.Equal(t, "warning", run.Results[1].Level)
	assert.Equal(t, "SINKHOUND-COMMAND-INJECTION", run.Results[2].RuleID)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New("xml", "stdout", "1.0", zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}
