package scope

import (
	"context"
	"fmt"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func firstOfType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() == nodeType {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstOfType(node.Child(i), nodeType); found != nil {
			return found
		}
	}
	return nil
}

func TestEnclosing(t *testing.T) {
	t.Run("call inside function", func(t *testing.T) {
		root, _ := parseJS(t, `function handler(req) { exec(req.query.cmd); }`)
		call := firstOfType(root, "call_expression")
		require.NotNil(t, call)

		boundary := Enclosing(call)
		require.NotNil(t, boundary)
		assert.Equal(t, "function_declaration", boundary.Type())
	})

	t.Run("top level falls back to program", func(t *testing.T) {
		root, _ := parseJS(t, `exec(cmd);`)
		call := firstOfType(root, "call_expression")

		boundary := Enclosing(call)
		require.NotNil(t, boundary)
		assert.Equal(t, "program", boundary.Type())
	})

	t.Run("arrow function opens a scope", func(t *testing.T) {
		root, _ := parseJS(t, `const h = (req) => { exec(req.query.cmd); };`)
		call := firstOfType(root, "call_expression")

		boundary := Enclosing(call)
		require.NotNil(t, boundary)
		assert.Equal(t, "arrow_function", boundary.Type())
	})
}

func TestKey(t *testing.T) {
	root, _ := parseJS(t, `function a() {} function b() {}`)
	first := firstOfType(root, "function_declaration")
	require.NotNil(t, first)

	key := Key(first)
	assert.Equal(t, fmt.Sprintf("%d:%d", first.StartByte(), first.EndByte()), key)
	assert.Empty(t, Key(nil))
}

func TestPreceding(t *testing.T) {
	var b strings.Builder
	b.WriteString("function f(dir) {\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "  const s%d = %d;\n", i, i)
	}
	b.WriteString("  exec(dir);\n}\n")

	root, source := parseJS(t, b.String())
	call := firstOfType(root, "call_expression")
	require.NotNil(t, call)
	boundary := Enclosing(call)

	t.Run("window is bounded and nearest first", func(t *testing.T) {
		stmts := Preceding(call, boundary, 5)
		require.Len(t, stmts, 5)
		assert.Contains(t, stmts[0].Content(source), "s7")
		assert.Contains(t, stmts[4].Content(source), "s3")
	})

	t.Run("statements past the window are unseen", func(t *testing.T) {
		stmts := Preceding(call, boundary, 5)
		for _, s := range stmts {
			assert.NotContains(t, s.Content(source), "s0")
		}
	})

	t.Run("first statement has nothing preceding", func(t *testing.T) {
		root, _ := parseJS(t, `function f(dir) { exec(dir); }`)
		call := firstOfType(root, "call_expression")
		assert.Nil(t, Preceding(call, Enclosing(call), 5))
	})

	t.Run("zero limit", func(t *testing.T) {
		assert.Nil(t, Preceding(call, boundary, 0))
	})
}
