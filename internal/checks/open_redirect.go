package checks

import (
	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/analysis/catalog"
	"github.com/kvasirsec/sinkhound/internal/config"
	"github.com/kvasirsec/sinkhound/internal/engine"
)

// OpenRedirect flags navigation driven by dynamic URLs, client side
// (location mutation) and server side (res.redirect).
func OpenRedirect(cfg config.AnalysisConfig) engine.Check {
	patterns := []catalog.SinkPattern{
		{
			Name: "location.href", Match: "href", Property: true,
			Class: schemas.ClassOpenRedirect,
			Alternatives: []string{"navigation to an allowlisted absolute URL"},
			BadExample:   "location.href = req.query.next",
			GoodExample:  "location.href = ALLOWED[req.query.next] || '/'",
			Effort:       "30m", BaseTier: schemas.SeverityMedium,
		},
		{
			// Bare "assign"/"replace" collide with Object.assign and
			// String.replace, so these two match the rendered call text.
			Name: "location.assign", Match: `(window\s*\.\s*)?location\s*\.\s*assign\s*\(`, Regexp: true,
			Class:  schemas.ClassOpenRedirect,
			Effort: "30m", BaseTier: schemas.SeverityMedium,
		},
		{
			Name: "location.replace", Match: `(window\s*\.\s*)?location\s*\.\s*replace\s*\(`, Regexp: true,
			Class:  schemas.ClassOpenRedirect,
			Effort: "30m", BaseTier: schemas.SeverityMedium,
		},
		{
			Name: "window.open", Match: "open",
			Class:  schemas.ClassOpenRedirect,
			Effort: "30m", BaseTier: schemas.SeverityMedium,
		},
		{
			Name: "res.redirect", Match: "redirect",
			Class:        schemas.ClassOpenRedirect,
			Alternatives: []string{"redirect via an index of known targets"},
			BadExample:   "res.redirect(req.query.url)",
			GoodExample:  "res.redirect(TARGETS[req.query.page] || '/')",
			Effort:       "30m", BaseTier: schemas.SeverityMedium,
		},
	}

	check := base(cfg, "open-redirect")
	check.Class = schemas.ClassOpenRedirect
	check.Catalog = catalog.New(patterns...)
	return check
}
