package reporting

import (
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/kvasirsec/sinkhound/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonReport is the envelope the JSON reporter emits on Close.
type jsonReport struct {
	Tool        string            `json:"tool"`
	Version     string            `json:"version"`
	GeneratedAt time.Time         `json:"generated_at"`
	Findings    []schemas.Finding `json:"findings"`
}

type jsonReporter struct {
	writer  io.WriteCloser
	version string
	buffer  []schemas.Finding
}

func newJSONReporter(writer io.WriteCloser, version string) *jsonReporter {
	return &jsonReporter{writer: writer, version: version}
}

func (r *jsonReporter) Write(findings []schemas.Finding) error {
	r.buffer = append(r.buffer, findings...)
	return nil
}

func (r *jsonReporter) Close() error {
	report := jsonReport{
		Tool:        "sinkhound",
		Version:     r.version,
		GeneratedAt: time.Now().UTC(),
		Findings:    r.buffer,
	}
	if report.Findings == nil {
		report.Findings = []schemas.Finding{}
	}

	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	encodeErr := encoder.Encode(report)
	closeErr := r.writer.Close()

	if encodeErr != nil {
		return fmt.Errorf("failed to encode JSON report: %w", encodeErr)
	}
	return closeErr
}
