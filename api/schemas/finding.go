// Package schemas defines the public record types emitted by the analysis
// engine. These are the only types a reporting collaborator needs.
package schemas

// Severity is the risk level attached to a finding.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// rank orders severities for sorting and comparison. Unknown values sort last.
var rank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// MoreSevere reports whether s is strictly more severe than other.
func (s Severity) MoreSevere(other Severity) bool {
	ri, ok := rank[s]
	if !ok {
		return false
	}
	rj, ok := rank[other]
	if !ok {
		return true
	}
	return ri < rj
}

// VulnerabilityClass identifies the category of weakness a sink belongs to.
type VulnerabilityClass string

const (
	ClassCommandInjection  VulnerabilityClass = "command-injection"
	ClassArgumentInjection VulnerabilityClass = "argument-injection"
	ClassPathInjection     VulnerabilityClass = "path-injection"
	ClassCodeInjection     VulnerabilityClass = "code-injection"
	ClassReDoS             VulnerabilityClass = "redos"
	ClassXSS               VulnerabilityClass = "xss"
	ClassOpenRedirect      VulnerabilityClass = "open-redirect"
	ClassMissingHeader     VulnerabilityClass = "missing-header"
	ClassInsecureCookie    VulnerabilityClass = "insecure-cookie"

	// ClassGenericSink is synthesized when a dangerous-looking call has no
	// catalog entry. It guarantees a finding is still produced.
	ClassGenericSink VulnerabilityClass = "generic-dynamic-sink"
)

// Location anchors a finding to a span of source text.
type Location struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	StartByte int    `json:"start_byte"`
	EndByte   int    `json:"end_byte"`
	Snippet   string `json:"snippet,omitempty"`
}

// AlternativeFix is an advisory fix suggestion. It is explanatory text only;
// the engine never rewrites code.
type AlternativeFix struct {
	Label    string `json:"label"`
	Template string `json:"template"`
}

// Finding is one reported security issue. Findings are ephemeral: they are
// produced per traversal pass and never persisted by the core.
type Finding struct {
	ID       string             `json:"id"`
	Check    string             `json:"check"`
	Class    VulnerabilityClass `json:"class"`
	Severity Severity           `json:"severity"`
	Message  string             `json:"message"`
	Location Location           `json:"location"`

	// Remediation is the ordered checklist for fixing the issue.
	Remediation []string `json:"remediation"`

	// Fixes are zero or more advisory alternatives, never applied.
	Fixes []AlternativeFix `json:"fixes,omitempty"`

	// Sanitizer is set when a recognized sanitizer was close but the finding
	// was still emitted (for example literal-structure ReDoS reports).
	Sanitizer string `json:"sanitizer,omitempty"`
}
