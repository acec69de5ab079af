package checks

import (
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/analysis/astutil"
	"github.com/kvasirsec/sinkhound/internal/analysis/catalog"
	"github.com/kvasirsec/sinkhound/internal/config"
	"github.com/kvasirsec/sinkhound/internal/engine"
)

// nestedQuantifier spots the classic catastrophic-backtracking shape: a
// quantified group that is itself quantified, e.g. (a+)+ or (\w*)*.
var nestedQuantifier = regexp.MustCompile(`\([^)]*[+*][^)]*\)\s*[+*{]`)

// Redos flags RegExp construction from dynamic pattern text, and literal
// patterns whose structure invites catastrophic backtracking.
func Redos(cfg config.AnalysisConfig) engine.Check {
	patterns := []catalog.SinkPattern{
		{
			Name: "RegExp", Match: "RegExp",
			Class: schemas.ClassReDoS,
			Alternatives: []string{
				"a fixed set of precompiled expressions",
				"a linear-time matcher for untrusted patterns",
			},
			BadExample:  "new RegExp(userPattern)",
			GoodExample: "PATTERNS[userChoice] // vetted table",
			Effort:      "45m", BaseTier: schemas.SeverityMedium,
		},
	}

	maxLen := cfg.MaxPatternLength
	check := base(cfg, "redos")
	check.Class = schemas.ClassReDoS
	check.Catalog = catalog.New(patterns...)
	check.Literal = func(_ catalog.SinkPattern, args []*sitter.Node, source []byte) (string, bool) {
		if len(args) == 0 || args[0].Type() != "string" {
			return "", false
		}
		literal := strings.Trim(astutil.NodeContent(args[0], source), "\"'`")
		if nestedQuantifier.MatchString(literal) {
			return "regular expression contains a nested quantifier prone to catastrophic backtracking", true
		}
		if maxLen > 0 && len(literal) > maxLen {
			return fmt.Sprintf("regular expression pattern exceeds the tolerated length of %d characters", maxLen), true
		}
		return "", false
	}
	return check
}
