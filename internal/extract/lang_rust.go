package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// rsExtractor extracts function declarations and calls from Rust sources.
// Functions inside impl blocks are recorded by bare name.
type rsExtractor struct{}

func (e *rsExtractor) Extract(root *tree_sitter.Node, source []byte) ([]Declaration, []Call) {
	var decls []Declaration
	var calls []Call
	e.walk(root, source, "", &decls, &calls)
	return decls, calls
}

func (e *rsExtractor) walk(node *tree_sitter.Node, source []byte, enclosing string, decls *[]Declaration, calls *[]Call) {
	current := enclosing

	switch node.Kind() {
	case "function_item":
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
			if callee := rsCallee(node, source); callee != "" {
				*calls = append(*calls, Call{Caller: enclosing, Callee: callee})
			}
		}

	case "macro_invocation":
		// println! and friends are not function dependencies
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		e.walk(child, source, current, decls, calls)
	}
}

// rsCallee returns the callee name of a call expression: the identifier for
// f(), the field tail for x.f(), or the final segment for a::b::f().
func rsCallee(node *tree_sitter.Node, source []byte) string {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return ""
	}
	switch fnNode.Kind() {
	case "identifier":
		return fnNode.Utf8Text(source)
	case "field_expression":
		if field := fnNode.ChildByFieldName("field"); field != nil {
			return field.Utf8Text(source)
		}
	case "scoped_identifier":
		if name := fnNode.ChildByFieldName("name"); name != nil {
			return name.Utf8Text(source)
		}
	}
	return ""
}
