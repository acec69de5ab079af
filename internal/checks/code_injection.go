package checks

import (
	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/analysis/catalog"
	"github.com/kvasirsec/sinkhound/internal/config"
	"github.com/kvasirsec/sinkhound/internal/engine"
)

// CodeInjection flags dynamic code evaluation: eval and friends, the
// Function constructor, and string-bodied timers.
func CodeInjection(cfg config.AnalysisConfig) engine.Check {
	patterns := []catalog.SinkPattern{
		{
			Name: "eval", Match: "eval",
			Class: schemas.ClassCodeInjection, Dangerous: true,
			Alternatives: []string{"JSON.parse", "a lookup table of functions"},
			BadExample:   "eval(userCode)",
			GoodExample:  "JSON.parse(userJson)",
			Effort:       "1h", BaseTier: schemas.SeverityHigh,
		},
		{
			Name: "Function", Match: "Function",
			Class: schemas.ClassCodeInjection, Dangerous: true,
			Alternatives: []string{"a statically declared function"},
			BadExample:   "new Function(body)",
			GoodExample:  "const handler = () => { ... }",
			Effort:       "1h", BaseTier: schemas.SeverityHigh,
		},
		{
			Name: "execScript", Match: "execScript",
			Class: schemas.ClassCodeInjection, Dangerous: true,
			Effort: "1h", BaseTier: schemas.SeverityHigh,
		},
		{
			Name: "setTimeout", Match: "setTimeout",
			Class:        schemas.ClassCodeInjection,
			Alternatives: []string{"setTimeout with a function reference"},
			BadExample:   "setTimeout(code, 100)",
			GoodExample:  "setTimeout(() => work(), 100)",
			Effort:       "15m", BaseTier: schemas.SeverityMedium,
		},
		{
			Name: "setInterval", Match: "setInterval",
			Class:        schemas.ClassCodeInjection,
			Alternatives: []string{"setInterval with a function reference"},
			Effort:       "15m", BaseTier: schemas.SeverityMedium,
		},
		{
			Name: "vm.runInNewContext", Match: "runInNewContext",
			Class: schemas.ClassCodeInjection, Dangerous: true,
			Effort: "2h", BaseTier: schemas.SeverityHigh,
		},
	}
	for _, extra := range cfg.ExtraEvalNames {
		patterns = append(patterns, catalog.SinkPattern{
			Name: extra, Match: extra,
			Class: schemas.ClassCodeInjection, Dangerous: true,
			Effort: "1h", BaseTier: schemas.SeverityHigh,
		})
	}

	check := base(cfg, "code-injection")
	check.Class = schemas.ClassCodeInjection
	check.Catalog = catalog.New(patterns...)
	return check
}
