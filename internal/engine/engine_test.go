package engine

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/analysis/catalog"
	"github.com/kvasirsec/sinkhound/internal/analysis/taint"
)

func parseJS(t *testing.T, src string) (*sitter.Node, []byte) {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)
	t.Cleanup(func() {
		tree.Close()
		parser.Close()
	})
	return tree.RootNode(), []byte(src)
}

func execCheck() Check {
	return Check{
		Name:  "command-injection",
		Class: schemas.ClassCommandInjection,
		Catalog: catalog.New(catalog.SinkPattern{
			Name: "child_process.exec", Match: "exec",
			Class: schemas.ClassCommandInjection, Dangerous: true,
			Alternatives: []string{"execFile with an argument array"},
		}),
		Taint: taint.Config{TrustedLibraries: []string{"dompurify"}},
	}
}

func run(t *testing.T, check Check, src string) []schemas.Finding {
	t.Helper()
	root, source := parseJS(t, src)
	return New(check, zaptest.NewLogger(t)).Run("app.js", source, root)
}

func TestRunDangerousSinkWithHotArgument(t *testing.T) {
	src := "const cp = require('child_process');\n" +
		"app.get('/run', (req, res) => {\n" +
		"  cp.exec(`ls ${req.query.dir}`);\n" +
		"});\n"

	findings := run(t, execCheck(), src)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, schemas.SeverityCritical, f.Severity)
	assert.Equal(t, schemas.ClassCommandInjection, f.Class)
	assert.Equal(t, "command-injection", f.Check)
	assert.Equal(t, 3, f.Location.Line)
	assert.NotEmpty(t, f.ID)
	assert.NotEmpty(t, f.Remediation)
	assert.NotEmpty(t, f.Fixes)
}

func TestRunSanitizedArgumentSuppressed(t *testing.T) {
	findings := run(t, execCheck(), `exec(DOMPurify.sanitize(cmd));`)
	assert.Empty(t, findings)
}

func TestRunLiteralArguments(t *testing.T) {
	t.Run("dangerous sink reports without the exemption", func(t *testing.T) {
		findings := run(t, execCheck(), `exec("rm -rf /");`)
		require.Len(t, findings, 1)
		assert.Equal(t, schemas.SeverityHigh, findings[0].Severity)
		assert.Contains(t, findings[0].Message, "constant arguments")
	})

	t.Run("allow flag exempts the static call", func(t *testing.T) {
		check := execCheck()
		check.AllowLiteralArguments = true
		assert.Empty(t, run(t, check, `exec("ls -la");`))
	})

	t.Run("array flag is separate from the plain flag", func(t *testing.T) {
		check := execCheck()
		check.AllowLiteralArguments = true

		findings := run(t, check, `exec("ls", ["-l", "-a"]);`)
		require.Len(t, findings, 1, "the array argument is not covered by the plain flag")
		assert.Equal(t, schemas.SeverityHigh, findings[0].Severity)

		check.AllowLiteralArrayArguments = true
		assert.Empty(t, run(t, check, `exec("ls", ["-l", "-a"]);`))
	})

	t.Run("harmless sink stays silent on static calls", func(t *testing.T) {
		check := execCheck()
		patterns := check.Catalog.Patterns()
		patterns[0].Dangerous = false
		check.Catalog = catalog.New(patterns...)
		assert.Empty(t, run(t, check, `exec("ls -la");`))
	})

	t.Run("no arguments", func(t *testing.T) {
		assert.Empty(t, run(t, execCheck(), `exec();`))
	})
}

func TestRunOneFindingPerSinkNode(t *testing.T) {
	// Two hot arguments still yield a single finding for the call.
	findings := run(t, execCheck(), `exec(cmdA, cmdB);`)
	assert.Len(t, findings, 1)
}

func TestRunIsIdempotent(t *testing.T) {
	src := "exec(`ls ${dir}`);\nexec(other);\n"
	root, source := parseJS(t, src)
	logger := zaptest.NewLogger(t)

	first := New(execCheck(), logger).Run("app.js", source, root)
	second := New(execCheck(), logger).Run("app.js", source, root)

	require.Len(t, first, 2)
	diff := cmp.Diff(first, second, cmpopts.IgnoreFields(schemas.Finding{}, "ID"))
	assert.Empty(t, diff, "repeat runs over an unchanged tree must agree")
}

func TestRunPropertySink(t *testing.T) {
	check := Check{
		Name:  "xss",
		Class: schemas.ClassXSS,
		Catalog: catalog.New(catalog.SinkPattern{
			Name: "innerHTML", Match: "innerHTML", Property: true,
			Class: schemas.ClassXSS, Dangerous: true,
		}),
	}

	t.Run("hot assignment", func(t *testing.T) {
		findings := run(t, check, `el.innerHTML = req.query.html;`)
		require.Len(t, findings, 1)
		assert.Equal(t, schemas.SeverityCritical, findings[0].Severity)
	})

	t.Run("static assignment reports while not exempt", func(t *testing.T) {
		findings := run(t, check, `el.innerHTML = "<b>hi</b>";`)
		require.Len(t, findings, 1)
		assert.Equal(t, schemas.SeverityHigh, findings[0].Severity)
	})

	t.Run("static assignment with the exemption", func(t *testing.T) {
		exempt := check
		exempt.AllowLiteralArguments = true
		assert.Empty(t, run(t, exempt, `el.innerHTML = "<b>hi</b>";`))
	})

	t.Run("unrelated property", func(t *testing.T) {
		assert.Empty(t, run(t, check, `el.textContent = req.query.html;`))
	})
}

func TestRunIgnoreTexts(t *testing.T) {
	check := execCheck()
	check.IgnoreTexts = []string{`legacyMigration`}

	findings := run(t, check, `exec(legacyMigrationCmd);`)
	assert.Empty(t, findings)

	// An invalid regex degrades to substring matching instead of dropping
	// the suppression.
	check.IgnoreTexts = []string{`legacy(`}
	findings = run(t, check, `exec(legacyCmd);`)
	assert.Len(t, findings, 1, "substring 'legacy(' does not occur in the call text")
}

func TestRunGenericFallback(t *testing.T) {
	genericCheck := func() Check {
		check := execCheck()
		check.GenericSignatures = []*regexp.Regexp{regexp.MustCompile(`(?i)\b\w*Helper\s*\(`)}
		return check
	}

	t.Run("hot argument grades high", func(t *testing.T) {
		findings := run(t, genericCheck(), `customExecHelper(userInput);`)
		require.Len(t, findings, 1)
		assert.Equal(t, schemas.ClassCommandInjection, findings[0].Class)
		assert.Equal(t, schemas.SeverityHigh, findings[0].Severity)
	})

	t.Run("sanitized argument is silent", func(t *testing.T) {
		assert.Empty(t, run(t, genericCheck(), `customExecHelper(escapeShell(cmd));`))
	})

	t.Run("static call grades medium without the exemption", func(t *testing.T) {
		findings := run(t, genericCheck(), `customExecHelper("ls");`)
		require.Len(t, findings, 1)
		assert.Equal(t, schemas.SeverityMedium, findings[0].Severity)
	})

	t.Run("static call with the exemption is silent", func(t *testing.T) {
		check := genericCheck()
		check.AllowLiteralArguments = true
		assert.Empty(t, run(t, check, `customExecHelper("ls");`))
	})
}

func TestRunScopeAudit(t *testing.T) {
	audit := &ScopeAudit{
		MethodNames:     map[string]bool{"setHeader": true},
		RequiredHeaders: []string{"Content-Security-Policy", "X-Frame-Options"},
	}
	check := Check{Name: "missing-headers", Class: schemas.ClassMissingHeader, Catalog: catalog.New(), Audit: audit}

	t.Run("one finding per scope", func(t *testing.T) {
		src := `function handler(res) {
  res.setHeader('X-Frame-Options', 'DENY');
  res.setHeader('Cache-Control', 'no-store');
}`
		findings := run(t, check, src)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "Content-Security-Policy")
		assert.NotContains(t, findings[0].Message, "X-Frame-Options")
		assert.Equal(t, schemas.SeverityMedium, findings[0].Severity)
	})

	t.Run("complete scope is silent", func(t *testing.T) {
		src := `function handler(res) {
  res.setHeader('Content-Security-Policy', "default-src 'self'");
  res.setHeader('X-Frame-Options', 'DENY');
}`
		assert.Empty(t, run(t, check, src))
	})

	t.Run("scopes audit independently", func(t *testing.T) {
		src := `function a(res) { res.setHeader('X-Frame-Options', 'DENY'); }
function b(res) { res.setHeader('X-Frame-Options', 'DENY'); }`
		findings := run(t, check, src)
		assert.Len(t, findings, 2)
	})

	t.Run("ignore patterns suppress audited calls", func(t *testing.T) {
		ignoring := check
		ignoring.IgnoreTexts = []string{`setHeader`}
		src := `function handler(res) {
  res.setHeader('Cache-Control', 'no-store');
}`
		assert.Empty(t, run(t, ignoring, src))
	})
}

func TestRunNilRoot(t *testing.T) {
	e := New(execCheck(), zaptest.NewLogger(t))
	assert.Nil(t, e.Run("app.js", nil, nil))
}
