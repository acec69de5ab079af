package astutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenPropertyAccess(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		nodeType string
		want     []string
	}{
		{"dotted chain", `window.location.hash;`, "member_expression", []string{"window", "location", "hash"}},
		{"string subscript", `obj["prop"];`, "subscript_expression", []string{"obj", "prop"}},
		{"this base", `this.handler;`, "member_expression", []string{"this", "handler"}},
		{"computed index", `obj[key];`, "subscript_expression", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root, source := parseJS(t, tc.src)
			node := firstOfType(root, tc.nodeType)
			require.NotNil(t, node)
			assert.Equal(t, tc.want, FlattenPropertyAccess(node, source))
		})
	}

	t.Run("call base cannot flatten", func(t *testing.T) {
		root, source := parseJS(t, `getWindow().location;`)
		node := firstOfType(root, "member_expression")
		assert.Nil(t, FlattenPropertyAccess(node, source))
	})
}

func TestLocation(t *testing.T) {
	src := "const a = 1;\n  eval(code);\n"
	root, source := parseJS(t, src)
	call := firstOfType(root, "call_expression")
	require.NotNil(t, call)

	loc := Location("app.js", call, source)
	assert.Equal(t, "app.js", loc.File)
	assert.Equal(t, 2, loc.Line)
	assert.Equal(t, 2, loc.Column)
	assert.Equal(t, "eval(code);", loc.Snippet)
	assert.Greater(t, loc.EndByte, loc.StartByte)
}

func TestLocationNilNode(t *testing.T) {
	loc := Location("app.js", nil, nil)
	assert.Equal(t, "app.js", loc.File)
	assert.Zero(t, loc.Line)
}
