package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// goExtractor extracts function and method declarations and calls from Go
// sources. Methods are recorded by bare name, matching the lexical
// resolution model used across languages.
type goExtractor struct{}

func (e *goExtractor) Extract(root *tree_sitter.Node, source []byte) ([]Declaration, []Call) {
	var decls []Declaration
	var calls []Call
	e.walk(root, source, "", &decls, &calls)
	return decls, calls
}

func (e *goExtractor) walk(node *tree_sitter.Node, source []byte, enclosing string, decls *[]Declaration, calls *[]Call) {
	current := enclosing

	switch node.Kind() {
	case "function_declaration", "method_declaration":
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
			if callee := goCallee(node, source); callee != "" {
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

// goCallee returns the callee name of a call expression: the identifier for
// f(), or the selector field for pkg.F() and recv.M().
func goCallee(node *tree_sitter.Node, source []byte) string {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return ""
	}
	switch fnNode.Kind() {
	case "identifier":
		return fnNode.Utf8Text(source)
	case "selector_expression":
		if field := fnNode.ChildByFieldName("field"); field != nil {
			return field.Utf8Text(source)
		}
	}
	return ""
}
