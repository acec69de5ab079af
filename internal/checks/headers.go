package checks

import (
	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/analysis/catalog"
	"github.com/kvasirsec/sinkhound/internal/config"
	"github.com/kvasirsec/sinkhound/internal/engine"
)

// MissingHeaders audits response-header coverage per lexical scope: any
// header-setting call triggers one audit of its enclosing function body, and
// at most one finding is emitted per scope no matter how many calls it
// contains.
func MissingHeaders(cfg config.AnalysisConfig) engine.Check {
	check := base(cfg, "missing-headers")
	check.Class = schemas.ClassMissingHeader
	check.Catalog = catalog.New()
	check.Audit = &engine.ScopeAudit{
		MethodNames: map[string]bool{
			"setHeader": true,
			"set":       true,
			"writeHead": true,
			"header":    true,
		},
		RequiredHeaders: cfg.RequiredHeaders,
	}
	return check
}
