package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func sliceContent(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := int(node.StartByte())
	end := int(node.EndByte())
	if start < 0 || end < start || end > len(source) {
		return ""
	}
	return string(source[start:end])
}

// namedChildren returns the named children of node, dropping comments.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && !isIgnorableNode(child) {
			out = append(out, child)
		}
	}
	return out
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	children := namedChildren(node)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// hasTrailingToken reports whether the last child of node is the anonymous
// token tok, as in "print a," or "(a,)".
func hasTrailingToken(node *sitter.Node, tok string) bool {
	if node == nil || node.ChildCount() == 0 {
		return false
	}
	last := node.Child(node.ChildCount() - 1)
	return last != nil && !last.IsNamed() && last.Kind() == tok
}

func isIgnorableNode(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	return node.Kind() == "comment"
}

// errorAt formats a parser error with the 1-based position of node.
func errorAt(node *sitter.Node, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if node == nil {
		return fmt.Errorf("parser: %s", msg)
	}
	pos := node.StartPosition()
	return fmt.Errorf("parser: %d:%d: %s", pos.Row+1, pos.Column+1, msg)
}

func unsupportedNode(node *sitter.Node) error {
	return errorAt(node, "unsupported %s", node.Kind())
}
