package catalog

import (
	"fmt"

	"github.com/kvasirsec/sinkhound/api/schemas"
)

// Strategy selects which advisory fixes are attached to a finding.
type Strategy string

const (
	StrategyRemove   Strategy = "remove"
	StrategyRefactor Strategy = "refactor"
	StrategyValidate Strategy = "validate"
	// StrategyAuto picks per class: refactor when safe alternatives exist,
	// validate otherwise.
	StrategyAuto Strategy = "auto"
)

// remediationSteps is the fixed per-class ordered checklist.
var remediationSteps = map[schemas.VulnerabilityClass][]string{
	schemas.ClassCommandInjection: {
		"Replace shell string interpolation with an argument-vector API (execFile/spawn without a shell).",
		"Validate the dynamic portion against an allowlist of expected values.",
		"Quote or reject arguments containing shell metacharacters.",
		"Run the subprocess with the least privilege the task allows.",
	},
	schemas.ClassArgumentInjection: {
		"Pass untrusted values only as positional arguments, never as flags.",
		"Prefix user-controlled arguments with '--' to stop option parsing.",
		"Allowlist the set of flags the caller may influence.",
	},
	schemas.ClassPathInjection: {
		"Resolve the path and verify it stays inside the intended root.",
		"Reject path separators and '..' segments in user input.",
		"Use opaque identifiers instead of raw file names where possible.",
	},
	schemas.ClassCodeInjection: {
		"Remove the dynamic code construction entirely if possible.",
		"Replace string-bodied timers and eval with function references.",
		"Parse structured data with JSON.parse instead of evaluating it.",
	},
	schemas.ClassReDoS: {
		"Build the expression from a fixed set of vetted patterns.",
		"Bound the length of user-supplied pattern text before compiling.",
		"Avoid nested quantifiers such as (a+)+ in the pattern.",
		"Consider a linear-time matcher (RE2-style) for untrusted patterns.",
	},
	schemas.ClassXSS: {
		"Assign text via textContent instead of markup via innerHTML.",
		"If markup is required, sanitize it with a maintained library first.",
		"Encode untrusted data for the HTML context it lands in.",
		"Serve a restrictive Content-Security-Policy as a backstop.",
	},
	schemas.ClassOpenRedirect: {
		"Redirect only to relative paths or an allowlist of hosts.",
		"Compare the target hostname against the expected value before navigating.",
		"Map user input to redirect targets through an index, not a raw URL.",
	},
	schemas.ClassMissingHeader: {
		"Set every required security header before the response is committed.",
		"Prefer centralized middleware over per-handler header calls.",
		"Verify header coverage in an integration test.",
	},
	schemas.ClassInsecureCookie: {
		"Set HttpOnly and Secure on cookies carrying session state.",
		"Scope cookies with SameSite and an explicit Path.",
		"Never build cookie strings from unencoded user input.",
	},
}

// genericSteps is the fallback checklist for an unrecognized class.
var genericSteps = []string{
	"Identify where the value flowing into this call originates.",
	"If the origin is user-controlled, validate it against an allowlist.",
	"Prefer an API variant that treats its input as data, not syntax.",
	"Add a sanitization step from a maintained library before the call.",
	"Add a regression test covering the hostile input shape.",
}

// Remediation returns the ordered remediation checklist for a class, falling
// back to the generic five-step list when the class is unrecognized.
func Remediation(class schemas.VulnerabilityClass) []string {
	if steps, ok := remediationSteps[class]; ok {
		out := make([]string, len(steps))
		copy(out, steps)
		return out
	}
	out := make([]string, len(genericSteps))
	copy(out, genericSteps)
	return out
}

// Fixes renders the advisory alternative-fix descriptors for a pattern under
// the configured strategy. Every fix is explanatory text; none is a
// guaranteed-safe rewrite.
func Fixes(p SinkPattern, strategy Strategy) []schemas.AlternativeFix {
	if strategy == StrategyAuto {
		if len(p.Alternatives) > 0 {
			strategy = StrategyRefactor
		} else {
			strategy = StrategyValidate
		}
	}

	var fixes []schemas.AlternativeFix
	switch strategy {
	case StrategyRemove:
		fixes = append(fixes, schemas.AlternativeFix{
			Label:    "remove",
			Template: fmt.Sprintf("Remove the call to %s; the surrounding logic rarely needs it. Estimated effort: %s.", p.Name, effortOrDefault(p)),
		})
	case StrategyRefactor:
		for _, alt := range p.Alternatives {
			fixes = append(fixes, schemas.AlternativeFix{
				Label:    "refactor",
				Template: fmt.Sprintf("Replace %s with %s.", p.Name, alt),
			})
		}
		if len(fixes) == 0 {
			fixes = append(fixes, schemas.AlternativeFix{
				Label:    "refactor",
				Template: fmt.Sprintf("Restructure the caller so %s receives only compile-time constants.", p.Name),
			})
		}
	case StrategyValidate:
		fixes = append(fixes, schemas.AlternativeFix{
			Label:    "validate",
			Template: fmt.Sprintf("Validate the value reaching %s against an allowlist before the call.", p.Name),
		})
	}

	if p.GoodExample != "" {
		fixes = append(fixes, schemas.AlternativeFix{
			Label:    "example",
			Template: fmt.Sprintf("Unsafe: %s\nSafer: %s", p.BadExample, p.GoodExample),
		})
	}
	return fixes
}

func effortOrDefault(p SinkPattern) string {
	if p.Effort != "" {
		return p.Effort
	}
	return "unknown"
}
