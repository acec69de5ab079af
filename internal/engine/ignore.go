package engine

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// textMatcher is an ignore pattern: a regex when it compiles, a plain
// substring otherwise. The fallback keeps a malformed configuration value
// from ever aborting a traversal.
type textMatcher struct {
	re      *regexp.Regexp
	literal string
}

func (m textMatcher) matches(text string) bool {
	if m.re != nil {
		return m.re.MatchString(text)
	}
	return m.literal != "" && strings.Contains(text, m.literal)
}

func compileIgnores(patterns []string, logger *zap.Logger) []textMatcher {
	var out []textMatcher
	for _, p := range patterns {
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			logger.Debug("ignore pattern is not a valid regex, using substring match",
				zap.String("pattern", p), zap.Error(err))
			out = append(out, textMatcher{literal: p})
			continue
		}
		out = append(out, textMatcher{re: re})
	}
	return out
}
