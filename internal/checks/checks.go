// Package checks declares the concrete security checks. Each check is a
// thin configuration of the generic engine: a sink catalog plus per-class
// hooks. The shared machinery (traversal, taint resolution, risk grading,
// emission) lives in internal/engine and is identical across checks.
package checks

import (
	"github.com/kvasirsec/sinkhound/internal/analysis/catalog"
	"github.com/kvasirsec/sinkhound/internal/analysis/taint"
	"github.com/kvasirsec/sinkhound/internal/config"
	"github.com/kvasirsec/sinkhound/internal/engine"
)

// All returns the enabled checks for a configuration.
func All(cfg config.AnalysisConfig) []engine.Check {
	var out []engine.Check
	if cfg.Checks.CommandInjection {
		out = append(out, CommandInjection(cfg))
	}
	if cfg.Checks.CodeInjection {
		out = append(out, CodeInjection(cfg))
	}
	if cfg.Checks.Redos {
		out = append(out, Redos(cfg))
	}
	if cfg.Checks.XSS {
		out = append(out, XSS(cfg))
	}
	if cfg.Checks.OpenRedirect {
		out = append(out, OpenRedirect(cfg))
	}
	if cfg.Checks.InsecureCookie {
		out = append(out, InsecureCookie(cfg))
	}
	if cfg.Checks.MissingHeaders {
		out = append(out, MissingHeaders(cfg))
	}
	return out
}

// base fills the hooks every check shares from the configuration surface.
func base(cfg config.AnalysisConfig, name string) engine.Check {
	return engine.Check{
		Name: name,
		Taint: taint.Config{
			TrustedLibraries: cfg.TrustedLibraries,
			LookBack:         cfg.LookBack,
		},
		AllowLiteralArguments:      cfg.AllowLiteralArguments,
		AllowLiteralArrayArguments: cfg.AllowLiteralArrayArguments,
		Strategy:                   catalog.Strategy(cfg.RemediationStrategy),
		IgnoreTexts:                cfg.IgnorePatterns,
	}
}
