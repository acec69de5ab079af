// Package scope resolves the lexical boundary used for sanitizer look-back:
// the nearest enclosing function body, or the whole program when a node sits
// at top level.
package scope

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// DefaultLookBack is the bounded statement window consulted when searching
// for validation preceding a sink.
const DefaultLookBack = 5

var functionKinds = map[string]bool{
	"function_declaration":           true,
	"function":                       true,
	"function_expression":            true,
	"arrow_function":                 true,
	"generator_function":             true,
	"generator_function_declaration": true,
	"method_definition":              true,
}

// IsFunctionLike reports whether a node opens a new lexical scope for the
// purposes of look-back.
func IsFunctionLike(node *sitter.Node) bool {
	return node != nil && functionKinds[node.Type()]
}

// Enclosing walks parent links from node until it reaches a function-like
// node or the program root, and returns that boundary. Termination is
// guaranteed by tree depth; the walk never ascends past the root.
func Enclosing(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	current := node.Parent()
	var last *sitter.Node = node
	for current != nil {
		if IsFunctionLike(current) {
			return current
		}
		last = current
		current = current.Parent()
	}
	// last is the program root.
	return last
}

// Body returns the statement sequence of a scope boundary: the statement
// block of a function, or the program node itself.
func Body(boundary *sitter.Node) *sitter.Node {
	if boundary == nil {
		return nil
	}
	if IsFunctionLike(boundary) {
		return boundary.ChildByFieldName("body")
	}
	return boundary
}

// Key derives a stable identity for a scope within a single pass. It is span
// based, not pointer based, so deduplication does not depend on object
// identity.
func Key(boundary *sitter.Node) string {
	if boundary == nil {
		return ""
	}
	return fmt.Sprintf("%d:%d", boundary.StartByte(), boundary.EndByte())
}

// Preceding returns up to limit statements immediately before the statement
// containing node within boundary, nearest first. When the body is not a
// statement sequence, or node is the first statement, it returns nil. The
// bounded window intentionally ignores validation performed further away or
// inside nested conditionals.
func Preceding(node, boundary *sitter.Node, limit int) []*sitter.Node {
	if node == nil || boundary == nil || limit <= 0 {
		return nil
	}
	body := Body(boundary)
	if body == nil {
		return nil
	}

	anchor := containingStatement(node, body)
	if anchor == nil {
		return nil
	}

	// Collect the body's statement children in order, then walk back from
	// the anchor.
	var stmts []*sitter.Node
	anchorIdx := -1
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		if child.StartByte() == anchor.StartByte() && child.EndByte() == anchor.EndByte() {
			anchorIdx = len(stmts)
		}
		stmts = append(stmts, child)
	}
	if anchorIdx <= 0 {
		return nil
	}

	var out []*sitter.Node
	for i := anchorIdx - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, stmts[i])
	}
	return out
}

// containingStatement ascends from node to the direct child of body that
// contains it.
func containingStatement(node, body *sitter.Node) *sitter.Node {
	current := node
	for current != nil {
		parent := current.Parent()
		if parent == nil {
			return nil
		}
		if parent.StartByte() == body.StartByte() && parent.EndByte() == body.EndByte() && parent.Type() == body.Type() {
			return current
		}
		current = parent
	}
	return nil
}
