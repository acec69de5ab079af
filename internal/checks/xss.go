package checks

import (
	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/analysis/catalog"
	"github.com/kvasirsec/sinkhound/internal/config"
	"github.com/kvasirsec/sinkhound/internal/engine"
)

// XSS flags unsanitized HTML injection through markup-writing properties and
// calls.
func XSS(cfg config.AnalysisConfig) engine.Check {
	patterns := []catalog.SinkPattern{
		{
			Name: "innerHTML", Match: "innerHTML", Property: true,
			Class: schemas.ClassXSS, Dangerous: true,
			Alternatives: []string{"textContent", "insertAdjacentText"},
			BadExample:   "el.innerHTML = userHtml",
			GoodExample:  "el.textContent = userText",
			Effort:       "20m", BaseTier: schemas.SeverityHigh,
		},
		{
			Name: "outerHTML", Match: "outerHTML", Property: true,
			Class: schemas.ClassXSS, Dangerous: true,
			Alternatives: []string{"replaceWith with a built element"},
			Effort:       "20m", BaseTier: schemas.SeverityHigh,
		},
		{
			Name: "iframe.srcdoc", Match: "srcdoc", Property: true,
			Class: schemas.ClassXSS, Dangerous: true,
			Effort: "30m", BaseTier: schemas.SeverityHigh,
		},
		{
			// Full-path match only: a bare .write( is any stream.
			Name: "document.write", Match: "document.write",
			Class: schemas.ClassXSS, Dangerous: true,
			Alternatives: []string{"DOM construction via createElement/append"},
			BadExample:   "document.write(html)",
			GoodExample:  "container.append(buildNode(data))",
			Effort:       "45m", BaseTier: schemas.SeverityHigh,
		},
		{
			Name: "document.writeln", Match: "writeln",
			Class: schemas.ClassXSS, Dangerous: true,
			Effort: "45m", BaseTier: schemas.SeverityHigh,
		},
		{
			Name: "insertAdjacentHTML", Match: "insertAdjacentHTML",
			Class: schemas.ClassXSS, Dangerous: true,
			Alternatives: []string{"insertAdjacentText", "insertAdjacentElement"},
			Effort:       "20m", BaseTier: schemas.SeverityHigh,
		},
		{
			// jQuery-style markup setter; name-only match is accepted noise.
			Name: "jquery.html", Match: "html",
			Class:  schemas.ClassXSS,
			Effort: "20m", BaseTier: schemas.SeverityMedium,
		},
	}

	check := base(cfg, "xss")
	check.Class = schemas.ClassXSS
	check.Catalog = catalog.New(patterns...)
	return check
}
