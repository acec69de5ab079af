// Package astutil contains the pure node predicates shared by every check:
// dynamism classification, sink matching and sanitizer recognition. All
// predicates are name/shape heuristics over Tree-sitter nodes; they never
// consult types and accept false positives/negatives by design.
package astutil

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// genericSanitizerVerbs are call-name fragments treated as sanitizing even
// when the owning library is unknown.
var genericSanitizerVerbs = []string{"sanitize", "purify", "escape", "validate"}

// NodeContent extracts the source text of a node.
func NodeContent(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return node.Content(source)
}

// IsLiteral reports whether a node is a compile-time literal: a string,
// number, boolean, null/undefined, or a template string with no embedded
// expression.
func IsLiteral(node *sitter.Node, source []byte) bool {
	if node == nil {
		return false
	}
	switch node.Type() {
	case "string", "number", "true", "false", "null", "undefined", "regex":
		return true
	case "template_string":
		return !templateHasSubstitution(node)
	case "unary_expression":
		// -1, +1 and similar constant expressions.
		arg := node.ChildByFieldName("argument")
		return IsLiteral(arg, source)
	case "parenthesized_expression":
		return IsLiteral(unwrapParens(node), source)
	}
	return false
}

// IsLiteralArray reports whether a node is an array literal whose every
// element is itself a literal.
func IsLiteralArray(node *sitter.Node, source []byte) bool {
	if node == nil || node.Type() != "array" {
		return false
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "[", "]", ",", "comment":
			continue
		}
		if !IsLiteral(child, source) {
			return false
		}
	}
	return true
}

// IsDynamicValue reports whether a node can carry attacker-influenced data:
// a template with at least one embedded expression, a string concatenation
// via +, or any named binding (identifiers are always dynamic, only literals
// are exempt). Malformed or absent nodes classify as not dynamic so a broken
// tree under-reports instead of crashing the pass.
func IsDynamicValue(node *sitter.Node, source []byte) bool {
	if node == nil || node.IsNull() {
		return false
	}

	switch node.Type() {
	case "string", "number", "true", "false", "null", "undefined", "regex":
		return false

	case "template_string":
		return templateHasSubstitution(node)

	case "array":
		return !IsLiteralArray(node, source)

	case "binary_expression":
		// Either side being dynamic poisons the whole expression, whatever the
		// operator; literal-only arithmetic and concatenation stay static.
		return IsDynamicValue(node.ChildByFieldName("left"), source) ||
			IsDynamicValue(node.ChildByFieldName("right"), source)

	case "parenthesized_expression":
		return IsDynamicValue(unwrapParens(node), source)

	case "identifier", "member_expression", "subscript_expression", "this",
		"shorthand_property_identifier":
		return true

	case "call_expression", "new_expression", "await_expression",
		"ternary_expression", "object":
		return true

	case "arrow_function", "function", "function_expression",
		"generator_function", "function_declaration":
		// Function values are not dynamic strings; string-bodied timer abuse
		// is covered by the string/template cases above.
		return false

	case "unary_expression":
		return IsDynamicValue(node.ChildByFieldName("argument"), source)

	case "ERROR", "comment":
		return false
	}

	// Unknown expression kinds are conservatively dynamic; only literals earn
	// an exemption.
	return true
}

// HasOnlyLiteralArguments reports whether every argument is a literal or an
// array of literals.
func HasOnlyLiteralArguments(args []*sitter.Node, source []byte) bool {
	for _, arg := range args {
		if IsLiteral(arg, source) || IsLiteralArray(arg, source) {
			continue
		}
		return false
	}
	return true
}

// CallArguments parses a call's arguments node into expression nodes,
// skipping punctuation.
func CallArguments(callNode *sitter.Node) []*sitter.Node {
	if callNode == nil {
		return nil
	}
	argsNode := callNode.ChildByFieldName("arguments")
	if argsNode == nil {
		return nil
	}
	var args []*sitter.Node
	for i := 0; i < int(argsNode.ChildCount()); i++ {
		child := argsNode.Child(i)
		switch child.Type() {
		case "(", ")", ",", "comment":
			continue
		}
		args = append(args, child)
	}
	return args
}

// Callee returns the function expression of a call or constructor node.
func Callee(callNode *sitter.Node) *sitter.Node {
	if callNode == nil {
		return nil
	}
	switch callNode.Type() {
	case "call_expression", "new_expression":
		if fn := callNode.ChildByFieldName("function"); fn != nil {
			return fn
		}
		// new_expression may name the constructor instead.
		return callNode.ChildByFieldName("constructor")
	}
	return nil
}

// CalleeName returns the last path element of a call target ("exec" for
// child_process.exec(...)) and the full dotted path, when statically known.
func CalleeName(callNode *sitter.Node, source []byte) (name, fullPath string, ok bool) {
	callee := Callee(callNode)
	if callee == nil {
		return "", "", false
	}
	path := FlattenPropertyAccess(callee, source)
	if len(path) == 0 {
		return "", "", false
	}
	return path[len(path)-1], strings.Join(path, "."), true
}

// IsSanitizerCall reports whether a call's target name, or its owning object
// name, case-insensitively contains a trusted library fragment or a generic
// sanitizer verb. This is a pure name heuristic.
func IsSanitizerCall(callNode *sitter.Node, trusted []string, source []byte) (string, bool) {
	if callNode == nil {
		return "", false
	}
	if callNode.Type() != "call_expression" && callNode.Type() != "new_expression" {
		return "", false
	}

	callee := Callee(callNode)
	path := FlattenPropertyAccess(callee, source)
	if len(path) == 0 {
		return "", false
	}

	for _, segment := range path {
		lower := strings.ToLower(segment)
		for _, lib := range trusted {
			if lib != "" && strings.Contains(lower, strings.ToLower(lib)) {
				return strings.Join(path, "."), true
			}
		}
		for _, verb := range genericSanitizerVerbs {
			if strings.Contains(lower, verb) {
				return strings.Join(path, "."), true
			}
		}
	}
	return "", false
}

func templateHasSubstitution(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "template_substitution" {
			return true
		}
	}
	return false
}

func unwrapParens(node *sitter.Node) *sitter.Node {
	expr := node.ChildByFieldName("expression")
	if expr == nil && node.ChildCount() > 2 {
		expr = node.Child(1)
	}
	return expr
}
