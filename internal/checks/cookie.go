package checks

import (
	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/analysis/catalog"
	"github.com/kvasirsec/sinkhound/internal/config"
	"github.com/kvasirsec/sinkhound/internal/engine"
)

// InsecureCookie flags cookie writes built from dynamic values.
func InsecureCookie(cfg config.AnalysisConfig) engine.Check {
	patterns := []catalog.SinkPattern{
		{
			Name: "document.cookie", Match: "cookie", Property: true,
			Class: schemas.ClassInsecureCookie,
			Alternatives: []string{
				"the CookieStore API with explicit attributes",
				"server-set cookies with HttpOnly and Secure",
			},
			BadExample:  "document.cookie = 'session=' + token",
			GoodExample: "cookieStore.set({name: 'session', value: token, secure: true})",
			Effort:      "30m", BaseTier: schemas.SeverityMedium,
		},
		{
			Name: "res.cookie", Match: "cookie",
			Class:        schemas.ClassInsecureCookie,
			Alternatives: []string{"res.cookie with {httpOnly: true, secure: true, sameSite: 'lax'}"},
			BadExample:   "res.cookie('session', token)",
			GoodExample:  "res.cookie('session', token, {httpOnly: true, secure: true})",
			Effort:       "15m", BaseTier: schemas.SeverityMedium,
		},
	}

	check := base(cfg, "insecure-cookie")
	check.Class = schemas.ClassInsecureCookie
	check.Catalog = catalog.New(patterns...)
	return check
}
