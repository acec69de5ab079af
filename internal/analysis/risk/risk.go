// Package risk maps (pattern danger × taint verdict) to a finding severity.
package risk

import (
	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/analysis/catalog"
	"github.com/kvasirsec/sinkhound/internal/analysis/taint"
)

// Classify applies the severity matrix: CRITICAL when the pattern is
// intrinsically dangerous AND the value is dynamic-and-unsanitized; HIGH when
// exactly one of those holds; MEDIUM for any other reportable case (for
// example a structurally-literal nested-quantifier regex).
func Classify(pattern catalog.SinkPattern, verdict taint.Verdict) schemas.Severity {
	hot := verdict.Hot()
	switch {
	case pattern.Dangerous && hot:
		return schemas.SeverityCritical
	case pattern.Dangerous || hot:
		return schemas.SeverityHigh
	default:
		return schemas.SeverityMedium
	}
}

// ClassifyGeneric grades a synthesized generic-sink descriptor: HIGH when the
// value is dynamic and unsanitized, MEDIUM otherwise. A catalog miss still
// yields some finding rather than silently passing.
func ClassifyGeneric(verdict taint.Verdict) schemas.Severity {
	if verdict.Hot() {
		return schemas.SeverityHigh
	}
	return schemas.SeverityMedium
}
