package astutil

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kvasirsec/sinkhound/api/schemas"
)

// FlattenPropertyAccess flattens a chain of member and subscript accesses
// into path segments (window.location.hash or obj['prop'] become
// ["window","location","hash"] / ["obj","prop"]). Computed indices cannot be
// flattened and return nil.
func FlattenPropertyAccess(node *sitter.Node, source []byte) []string {
	var path []string
	current := node

	for {
		if current == nil {
			return nil
		}

		switch current.Type() {
		case "identifier":
			return append([]string{NodeContent(current, source)}, path...)
		case "this":
			return append([]string{"this"}, path...)

		case "member_expression":
			object := current.ChildByFieldName("object")
			property := current.ChildByFieldName("property")
			if property == nil || object == nil {
				return nil
			}
			if property.Type() == "identifier" || property.Type() == "property_identifier" {
				path = append([]string{NodeContent(property, source)}, path...)
				current = object
			} else {
				return nil
			}

		case "subscript_expression":
			object := current.ChildByFieldName("object")
			index := current.ChildByFieldName("index")
			if index == nil || object == nil {
				return nil
			}
			if index.Type() == "string" {
				raw := NodeContent(index, source)
				path = append([]string{strings.Trim(raw, "\"'`")}, path...)
				current = object
			} else {
				return nil
			}

		default:
			return nil
		}
	}
}

// Location converts a node position to the schema form, including the line
// snippet around the node.
func Location(filename string, node *sitter.Node, source []byte) schemas.Location {
	if node == nil {
		return schemas.Location{File: filename}
	}

	startByte := int(node.StartByte())
	endByte := int(node.EndByte())
	point := node.StartPoint()

	snippet := ""
	if endByte <= len(source) && startByte < endByte {
		lineStart := findLineStart(source, startByte)
		lineEnd := findLineEnd(source, startByte)
		if lineStart >= 0 && lineEnd > lineStart {
			snippet = strings.TrimSpace(string(source[lineStart:lineEnd]))
		} else {
			snippet = node.Content(source)
		}
	}

	return schemas.Location{
		File:      filename,
		Line:      int(point.Row) + 1,
		Column:    int(point.Column),
		StartByte: startByte,
		EndByte:   endByte,
		Snippet:   snippet,
	}
}

func findLineStart(source []byte, idx int) int {
	if idx >= len(source) {
		if len(source) == 0 {
			return 0
		}
		idx = len(source) - 1
	}
	if idx < 0 {
		return 0
	}
	for i := idx; i >= 0; i-- {
		if source[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

func findLineEnd(source []byte, idx int) int {
	for i := idx; i < len(source); i++ {
		if source[i] == '\n' {
			return i
		}
	}
	return len(source)
}
