package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// pyExtractor extracts function declarations and calls from Python sources.
// Calls are attributed to the nearest enclosing function definition; calls
// at module or class level have no caller and are skipped.
type pyExtractor struct{}

func (e *pyExtractor) Extract(root *tree_sitter.Node, source []byte) ([]Declaration, []Call) {
	var decls []Declaration
	var calls []Call
	e.walk(root, source, "", &decls, &calls)
	return decls, calls
}

func (e *pyExtractor) walk(node *tree_sitter.Node, source []byte, enclosing string, decls *[]Declaration, calls *[]Call) {
	current := enclosing

	switch node.Kind() {
	case "function_definition":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			name := nameNode.Utf8Text(source)
			*decls = append(*decls, Declaration{
				Name: name,
				Line: int(node.StartPosition().Row) + 1,
			})
			current = name
		}

	case "call":
		if enclosing != "" {
			if callee := pyCallee(node, source); callee != "" {
				*calls = append(*calls, Call{Caller: enclosing, Callee: callee})
			}
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		e.walk(child, source, current, decls, calls)
	}
}

// pyCallee returns the lexical callee name of a call node: the identifier
// for f(), or the attribute tail for obj.f().
func pyCallee(node *tree_sitter.Node, source []byte) string {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return ""
	}
	switch fnNode.Kind() {
	case "identifier":
		return fnNode.Utf8Text(source)
	case "attribute":
		if attr := fnNode.ChildByFieldName("attribute"); attr != nil {
			return attr.Utf8Text(source)
		}
	}
	return ""
}
