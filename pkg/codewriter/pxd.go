package codewriter

import "cytree/writer-go/pkg/ast"

var pxdRules = buildPxdRules(declarationRules)

// buildPxdRules narrows the declaration rules to an interface view. Plain
// statements disappear, and function definitions shrink to signatures.
func buildPxdRules(base *ruleSet) *ruleSet {
	rs := base.extend()
	rs.category(ast.CategoryStatement, skip)
	rs.category(ast.CategoryFuncDef, (*Writer).pxdFuncDef)
	return rs
}

// pxdFuncDef writes a C function signature without its body. Inline
// functions and Python-level functions have no interface form.
func (w *Writer) pxdFuncDef(n ast.Node) error {
	def, ok := n.(*ast.CFuncDef)
	if !ok || def.HasModifier("inline") {
		return nil
	}
	if err := w.cFuncSignature(def); err != nil {
		return err
	}
	w.endLine("")
	return nil
}
