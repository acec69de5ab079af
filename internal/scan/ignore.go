package scan

import (
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ignoreMatcher answers whether a repo-relative path is excluded by the
// project's ignore file (gitignore syntax, including negations).
type ignoreMatcher struct {
	patterns []gitignore.Pattern
}

// loadIgnore reads the ignore file at path. A missing file yields an empty
// matcher; that is the common case and not an error.
func loadIgnore(path string) (*ignoreMatcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ignoreMatcher{}, nil
		}
		return nil, err
	}

	m := &ignoreMatcher{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.patterns = append(m.patterns, gitignore.ParsePattern(line, nil))
	}
	return m, nil
}

func (m *ignoreMatcher) Match(rel string, isDir bool) bool {
	if len(m.patterns) == 0 {
		return false
	}
	parts := strings.Split(rel, "/")
	matched := false
	for _, p := range m.patterns {
		switch p.Match(parts, isDir) {
		case gitignore.Exclude:
			matched = true
		case gitignore.Include:
			matched = false
		}
	}
	return matched
}
