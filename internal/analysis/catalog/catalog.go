// Package catalog holds the static tables of dangerous API shapes consumed by
// the check engine. A catalog is immutable once built and queried by exact
// name or regex match, first match wins in table order.
package catalog

import (
	"regexp"
	"strings"

	"github.com/kvasirsec/sinkhound/api/schemas"
)

// SinkPattern identifies one dangerous API shape and carries the metadata
// needed to turn a match into an actionable finding.
type SinkPattern struct {
	// Name is the canonical identifier, e.g. "child_process.exec".
	Name string

	// Match is the member/constructor name to compare against, or a regular
	// expression over the rendered source of the call when Regexp is true.
	Match  string
	Regexp bool

	// Property marks assignment sinks (innerHTML = ...) as opposed to call
	// sinks (exec(...)).
	Property bool

	Class schemas.VulnerabilityClass

	// Dangerous marks patterns that are intrinsically unsafe regardless of
	// taint, e.g. eval or a shell-out helper.
	Dangerous bool

	// Alternatives lists safer APIs in preference order.
	Alternatives []string

	BadExample  string
	GoodExample string

	// Effort is the estimated remediation effort as free text ("30m", "2h").
	Effort string

	BaseTier schemas.Severity

	re *regexp.Regexp
}

// Catalog is an ordered, append-only set of sink patterns.
type Catalog struct {
	patterns []SinkPattern
}

// New builds a catalog. Regex matchers that fail to compile degrade to plain
// substring matching rather than aborting the check (the same recovery the
// engine applies to ignore patterns).
func New(patterns ...SinkPattern) *Catalog {
	c := &Catalog{patterns: make([]SinkPattern, 0, len(patterns))}
	for _, p := range patterns {
		if p.Regexp {
			// re stays nil on a compile error; MatchRendered then treats
			// Match as a plain substring.
			p.re, _ = regexp.Compile(p.Match)
		}
		c.patterns = append(c.patterns, p)
	}
	return c
}

// Append returns a new catalog with extra name-matched patterns added after
// the existing ones. Used for config-supplied additional sink names.
func (c *Catalog) Append(patterns ...SinkPattern) *Catalog {
	all := make([]SinkPattern, 0, len(c.patterns)+len(patterns))
	all = append(all, c.patterns...)
	all = append(all, patterns...)
	return New(all...)
}

// Patterns exposes the table in catalog order.
func (c *Catalog) Patterns() []SinkPattern {
	return c.patterns
}

// MatchCall finds the first call-sink pattern whose name matcher equals the
// callee's last path element (or whose canonical name equals the full
// flattened path).
func (c *Catalog) MatchCall(name, fullPath string) (SinkPattern, bool) {
	return c.matchName(name, fullPath, false)
}

// MatchProperty finds the first assignment-sink pattern for a property path.
func (c *Catalog) MatchProperty(name, fullPath string) (SinkPattern, bool) {
	return c.matchName(name, fullPath, true)
}

func (c *Catalog) matchName(name, fullPath string, property bool) (SinkPattern, bool) {
	for _, p := range c.patterns {
		if p.Regexp || p.Property != property {
			continue
		}
		if p.Match == name || p.Name == fullPath {
			return p, true
		}
	}
	return SinkPattern{}, false
}

// MatchRendered finds the first regex pattern matching the rendered source
// text of a call. Patterns whose regex failed to compile match as plain
// substrings.
func (c *Catalog) MatchRendered(rendered string) (SinkPattern, bool) {
	for _, p := range c.patterns {
		if !p.Regexp {
			continue
		}
		if p.re != nil {
			if p.re.MatchString(rendered) {
				return p, true
			}
			continue
		}
		if p.Match != "" && strings.Contains(rendered, p.Match) {
			return p, true
		}
	}
	return SinkPattern{}, false
}

// Generic synthesizes a fallback descriptor for a sink call with no catalog
// entry, so unresolved taint still produces a finding instead of silently
// passing.
func Generic(name string) SinkPattern {
	return SinkPattern{
		Name:      name,
		Match:     name,
		Class:     schemas.ClassGenericSink,
		Dangerous: false,
		Alternatives: []string{
			"a purpose-built API that does not interpret its input",
		},
		Effort:   "1h",
		BaseTier: schemas.SeverityMedium,
	}
}
