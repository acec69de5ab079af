package reporting

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/reporting/sarif"
)

// Constants for tool identification in the SARIF report.
const (
	ToolName     = "sinkhound"
	ToolInfoURI  = "https://github.com/kvasirsec/sinkhound"
	SARIFVersion = "2.1.0"
	SARIFSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
)

// ruleIDSanitizer replaces characters not safe in SARIF rule IDs. Alphanumerics,
// underscore and dot pass through; everything else collapses to one hyphen.
var ruleIDSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_.]+`)

// SARIFReporter implements Reporter for the SARIF 2.1.0 format. It is safe
// for concurrent Write calls.
type SARIFReporter struct {
	writer io.WriteCloser
	logger *zap.Logger

	mu  sync.Mutex
	log *sarif.Log
	// rules maps a rule ID to its registered descriptor index.
	rules map[string]bool
}

// NewSARIFReporter creates a reporter that buffers results and writes the
// complete SARIF log on Close.
func NewSARIFReporter(writer io.WriteCloser, toolVersion string, logger *zap.Logger) *SARIFReporter {
	log := &sarif.Log{
		Version: SARIFVersion,
		Schema:  SARIFSchema,
		Runs: []*sarif.Run{
			{
				Tool: &sarif.Tool{
					Driver: &sarif.ToolComponent{
						Name:           ToolName,
						Version:        pString(toolVersion),
						InformationURI: pString(ToolInfoURI),
						Rules:          []*sarif.ReportingDescriptor{},
					},
				},
				Results: []*sarif.Result{},
			},
		},
	}

	return &SARIFReporter{
		writer: writer,
		logger: logger.Named("sarif"),
		log:    log,
		rules:  make(map[string]bool),
	}
}

// Write converts findings into SARIF results and adds them to the log.
func (r *SARIFReporter) Write(findings []schemas.Finding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run := r.log.Runs[0]
	for _, finding := range findings {
		ruleID := r.ensureRule(finding)

		run.Results = append(run.Results, &sarif.Result{
			RuleID:    ruleID,
			Message:   &sarif.Message{Text: pString(finding.Message)},
			Level:     mapSeverityToSARIFLevel(finding.Severity),
			Locations: createLocations(finding),
		})
	}
	return nil
}

// Close finalizes the SARIF log and writes it to the output writer.
func (r *SARIFReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug("finalizing SARIF report",
		zap.Int("results", len(r.log.Runs[0].Results)),
		zap.Int("rules", len(r.log.Runs[0].Tool.Driver.Rules)))

	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")

	encodeErr := encoder.Encode(r.log)
	closeErr := r.writer.Close()

	if encodeErr != nil {
		return fmt.Errorf("failed to encode SARIF output: %w", encodeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close output writer: %w", closeErr)
	}
	return nil
}

// ensureRule registers one rule per (check, class) pair and returns its ID.
// Must be called holding the mutex.
func (r *SARIFReporter) ensureRule(finding schemas.Finding) string {
	base := strings.ToUpper(string(finding.Class))
	base = strings.Trim(ruleIDSanitizer.ReplaceAllString(base, "-"), "-")
	if base == "" {
		base = "GENERIC-SINK"
	}
	ruleID := "SINKHOUND-" + base

	if r.rules[ruleID] {
		return ruleID
	}
	r.rules[ruleID] = true

	help := strings.Join(finding.Remediation, "\n")
	driver := r.log.Runs[0].Tool.Driver
	driver.Rules = append(driver.Rules, &sarif.ReportingDescriptor{
		ID:               ruleID,
		Name:             pString(string(finding.Class)),
		ShortDescription: &sarif.MultiformatMessageString{Text: pString(string(finding.Class))},
		FullDescription:  &sarif.MultiformatMessageString{Text: pString(finding.Message)},
		Help:             &sarif.MultiformatMessageString{Text: pString(help)},
		Properties: &sarif.PropertyBag{
			"tags":  []string{"security", "sinkhound"},
			"check": finding.Check,
		},
	})
	return ruleID
}

func createLocations(finding schemas.Finding) []*sarif.Location {
	region := &sarif.Region{
		StartLine:   finding.Location.Line,
		StartColumn: finding.Location.Column,
	}
	if finding.Location.Snippet != "" {
		region.Snippet = &sarif.ArtifactContent{Text: pString(finding.Location.Snippet)}
	}

	return []*sarif.Location{
		{
			PhysicalLocation: &sarif.PhysicalLocation{
				ArtifactLocation: &sarif.ArtifactLocation{URI: pString(finding.Location.File)},
				Region:           region,
			},
		},
	}
}

func mapSeverityToSARIFLevel(severity schemas.Severity) sarif.Level {
	switch severity {
	case schemas.SeverityCritical, schemas.SeverityHigh:
		return sarif.LevelError
	case schemas.SeverityMedium:
		return sarif.LevelWarning
	default:
		return sarif.LevelNote
	}
}

// pString returns a pointer to the given string. Helper for optional SARIF
// fields.
func pString(s string) *string {
	return &s
}
