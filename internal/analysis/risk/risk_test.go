package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/analysis/catalog"
	"github.com/kvasirsec/sinkhound/internal/analysis/taint"
)

func TestClassify(t *testing.T) {
	hot := taint.Verdict{Dynamic: true, Sanitized: false}
	cold := taint.Verdict{Dynamic: true, Sanitized: true}

	testCases := []struct {
		name      string
		dangerous bool
		verdict   taint.Verdict
		want      schemas.Severity
	}{
		{"dangerous and hot", true, hot, schemas.SeverityCritical},
		{"dangerous but intercepted", true, cold, schemas.SeverityHigh},
		{"hot on a non-dangerous sink", false, hot, schemas.SeverityHigh},
		{"neither", false, cold, schemas.SeverityMedium},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pattern := catalog.SinkPattern{Name: "sink", Dangerous: tc.dangerous}
			assert.Equal(t, tc.want, Classify(pattern, tc.verdict))
		})
	}
}

func TestClassifyGeneric(t *testing.T) {
	assert.Equal(t, schemas.SeverityHigh, ClassifyGeneric(taint.Verdict{Dynamic: true}))
	assert.Equal(t, schemas.SeverityMedium, ClassifyGeneric(taint.Verdict{Dynamic: true, Sanitized: true}))
}
