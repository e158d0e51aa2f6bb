package codewriter

import "cytree/writer-go/pkg/ast"

type rule func(w *Writer, n ast.Node) error

// ruleSet maps node kinds and categories to rendering rules. Sets are built
// once at package init and only read afterwards.
type ruleSet struct {
	byKind     map[ast.NodeType]rule
	byCategory map[ast.Category]rule
}

func newRuleSet() *ruleSet {
	return &ruleSet{
		byKind:     make(map[ast.NodeType]rule),
		byCategory: make(map[ast.Category]rule),
	}
}

// extend copies rs so that a derived writer can add and override rules.
func (rs *ruleSet) extend() *ruleSet {
	out := newRuleSet()
	for k, r := range rs.byKind {
		out.byKind[k] = r
	}
	for c, r := range rs.byCategory {
		out.byCategory[c] = r
	}
	return out
}

func (rs *ruleSet) kind(k ast.NodeType, r rule) {
	rs.byKind[k] = r
}

func (rs *ruleSet) category(c ast.Category, r rule) {
	rs.byCategory[c] = r
}

// resolve picks the exact rule for n's kind, falling back through the kind's
// categories from most to least specific.
func (rs *ruleSet) resolve(n ast.Node) (rule, bool) {
	kind := n.NodeType()
	if r, ok := rs.byKind[kind]; ok {
		return r, true
	}
	for _, cat := range ast.Lineage(kind) {
		if r, ok := rs.byCategory[cat]; ok {
			return r, true
		}
	}
	return nil, false
}

// on adapts a typed rule. A node registered under the wrong kind is a
// coverage failure rather than a panic.
func on[T ast.Node](fn func(w *Writer, n T) error) rule {
	return func(w *Writer, n ast.Node) error {
		typed, ok := n.(T)
		if !ok {
			return &CoverageError{Kind: n.NodeType(), Node: n}
		}
		return fn(w, typed)
	}
}

// skip renders nothing.
func skip(*Writer, ast.Node) error { return nil }
