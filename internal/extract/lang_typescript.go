package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// tsExtractor extracts function and method declarations and calls from
// TypeScript sources. Arrow functions bound to names are not tracked as
// declarations; only declared functions and class methods are.
type tsExtractor struct{}

func (e *tsExtractor) Extract(root *tree_sitter.Node, source []byte) ([]Declaration, []Call) {
	var decls []Declaration
	var calls []Call
	e.walk(root, source, "", &decls, &calls)
	return decls, calls
}

func (e *tsExtractor) walk(node *tree_sitter.Node, source []byte, enclosing string, decls *[]Declaration, calls *[]Call) {
	current := enclosing

	switch node.Kind() {
	case "function_declaration", "method_definition":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			name := nameNode.Utf8Text(source)
			*decls = append(*decls, Declaration{
				Name: name,
				Line: int(node.StartPosition().Row) + 1,
			})
			current = name
		}

	case "call_expression":
		if enclosing != "" {
			if callee := tsCallee(node, source); callee != "" {
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

// tsCallee returns the callee name of a call expression: the identifier for
// f(), or the property tail for obj.f().
func tsCallee(node *tree_sitter.Node, source []byte) string {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return ""
	}
	switch fnNode.Kind() {
	case "identifier":
		return fnNode.Utf8Text(source)
	case "member_expression":
		if prop := fnNode.ChildByFieldName("property"); prop != nil {
			return prop.Utf8Text(source)
		}
	}
	return ""
}
