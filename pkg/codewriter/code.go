package codewriter

import (
	"fmt"

	"cytree/writer-go/pkg/ast"
)

var codeRules = buildCodeRules(declarationRules)

func buildCodeRules(base *ruleSet) *ruleSet {
	rs := base.extend()

	rs.kind(ast.NodeExprStat, on((*Writer).exprStat))
	rs.kind(ast.NodeSingleAssignment, on((*Writer).singleAssignment))
	rs.kind(ast.NodeCascadedAssignment, on((*Writer).cascadedAssignment))
	rs.kind(ast.NodeInPlaceAssignment, on((*Writer).inPlaceAssignment))
	rs.kind(ast.NodePrintStat, on((*Writer).printStat))
	rs.kind(ast.NodeForInStat, on((*Writer).forInStat))
	rs.kind(ast.NodeIfStat, on((*Writer).ifStat))
	rs.kind(ast.NodeWhileStat, on((*Writer).whileStat))
	rs.kind(ast.NodeWithStat, on((*Writer).withStat))
	rs.kind(ast.NodeTryFinallyStat, on((*Writer).tryFinallyStat))
	rs.kind(ast.NodeTryExceptStat, on((*Writer).tryExceptStat))
	rs.kind(ast.NodeExceptClause, on((*Writer).exceptClause))
	rs.kind(ast.NodeReturnStat, on((*Writer).returnStat))
	rs.kind(ast.NodeRaiseStat, on((*Writer).raiseStat))
	rs.kind(ast.NodeReraiseStat, on((*Writer).reraiseStat))
	rs.kind(ast.NodeBreakStat, on((*Writer).breakStat))
	rs.kind(ast.NodeContinueStat, on((*Writer).continueStat))
	rs.kind(ast.NodeImportStat, on((*Writer).importStat))
	rs.kind(ast.NodeFromImportStat, on((*Writer).fromImportStat))
	rs.kind(ast.NodeTempsBlock, on((*Writer).tempsBlock))
	rs.kind(ast.NodeCFuncDef, on((*Writer).cFuncDef))

	rs.kind(ast.NodeTempRef, on((*Writer).tempRef))
	rs.kind(ast.NodeComparison, on((*Writer).comparison))
	rs.kind(ast.NodeIndex, on((*Writer).index))
	rs.kind(ast.NodeSimpleCall, on((*Writer).simpleCall))
	rs.kind(ast.NodeGeneralCall, on((*Writer).generalCall))
	rs.category(ast.CategoryCoercion, (*Writer).coercion)

	return rs
}

// Statements

func (w *Writer) exprStat(n *ast.ExprStat) error {
	w.startLine("")
	if err := w.visit(n.Expr); err != nil {
		return err
	}
	w.endLine("")
	return nil
}

func (w *Writer) singleAssignment(n *ast.SingleAssignment) error {
	w.startLine("")
	if err := w.visit(n.LHS); err != nil {
		return err
	}
	w.put(" = ")
	if err := w.visit(n.RHS); err != nil {
		return err
	}
	w.endLine("")
	return nil
}

func (w *Writer) cascadedAssignment(n *ast.CascadedAssignment) error {
	w.startLine("")
	for _, lhs := range n.LHSList {
		if err := w.visit(lhs); err != nil {
			return err
		}
		w.put(" = ")
	}
	if err := w.visit(n.RHS); err != nil {
		return err
	}
	w.endLine("")
	return nil
}

func (w *Writer) inPlaceAssignment(n *ast.InPlaceAssignment) error {
	w.startLine("")
	if err := w.visit(n.LHS); err != nil {
		return err
	}
	w.put(" " + n.Operator + "= ")
	if err := w.visit(n.RHS); err != nil {
		return err
	}
	w.endLine("")
	return nil
}

func (w *Writer) printStat(n *ast.PrintStat) error {
	w.startLine("print ")
	if err := emitList(w, n.Args, false); err != nil {
		return err
	}
	if n.SuppressNewline {
		w.put(",")
	}
	w.endLine("")
	return nil
}

// loopTarget renders a name, or a tuple target as a bare unpacking list.
func (w *Writer) loopTarget(target ast.Expression) error {
	if tuple, ok := target.(*ast.TupleDisplay); ok {
		return emitList(w, tuple.Args, false)
	}
	return w.visit(target)
}

func (w *Writer) elseClause(body ast.Statement) error {
	if body == nil {
		return nil
	}
	return w.clause("else", body)
}

func (w *Writer) forInStat(n *ast.ForInStat) error {
	w.startLine("for ")
	if err := w.loopTarget(n.Target); err != nil {
		return err
	}
	w.put(" in ")
	if err := w.visit(n.Sequence); err != nil {
		return err
	}
	w.endLine(":")
	if err := w.block(n.Body); err != nil {
		return err
	}
	return w.elseClause(n.ElseClause)
}

func (w *Writer) ifStat(n *ast.IfStat) error {
	if len(n.IfClauses) == 0 {
		return unsupported(n.NodeType(), "if statement without clauses")
	}
	for i, clause := range n.IfClauses {
		if i == 0 {
			w.startLine("if ")
		} else {
			w.startLine("elif ")
		}
		if err := w.visit(clause.Condition); err != nil {
			return err
		}
		w.endLine(":")
		if err := w.block(clause.Body); err != nil {
			return err
		}
	}
	return w.elseClause(n.ElseClause)
}

func (w *Writer) whileStat(n *ast.WhileStat) error {
	w.startLine("while ")
	if err := w.visit(n.Condition); err != nil {
		return err
	}
	w.endLine(":")
	if err := w.block(n.Body); err != nil {
		return err
	}
	return w.elseClause(n.ElseClause)
}

func (w *Writer) withStat(n *ast.WithStat) error {
	w.startLine("with ")
	if err := w.visit(n.Manager); err != nil {
		return err
	}
	if n.Target != nil {
		w.put(" as ")
		if err := w.visit(n.Target); err != nil {
			return err
		}
	}
	w.endLine(":")
	return w.block(n.Body)
}

func (w *Writer) tryFinallyStat(n *ast.TryFinallyStat) error {
	if err := w.clause("try", n.Body); err != nil {
		return err
	}
	return w.clause("finally", n.FinallyClause)
}

func (w *Writer) tryExceptStat(n *ast.TryExceptStat) error {
	if err := w.clause("try", n.Body); err != nil {
		return err
	}
	for _, clause := range n.ExceptClauses {
		if err := w.visit(clause); err != nil {
			return err
		}
	}
	return w.elseClause(n.ElseClause)
}

func (w *Writer) exceptClause(n *ast.ExceptClause) error {
	if n.Pattern == nil && n.Target != nil {
		return unsupported(n.NodeType(), "except target without a pattern")
	}
	w.startLine("except")
	if n.Pattern != nil {
		w.put(" ")
		if err := w.visit(n.Pattern); err != nil {
			return err
		}
	}
	if n.Target != nil {
		w.put(", ")
		if err := w.visit(n.Target); err != nil {
			return err
		}
	}
	w.endLine(":")
	return w.block(n.Body)
}

func (w *Writer) returnStat(n *ast.ReturnStat) error {
	if n.Value == nil {
		w.line("return")
		return nil
	}
	w.startLine("return ")
	if err := w.visit(n.Value); err != nil {
		return err
	}
	w.endLine("")
	return nil
}

func (w *Writer) raiseStat(n *ast.RaiseStat) error {
	if n.ExcType == nil {
		if n.ExcValue != nil || n.ExcTB != nil || n.Cause != nil {
			return unsupported(n.NodeType(), "raise operands without an exception type")
		}
		w.line("raise")
		return nil
	}
	if n.Cause != nil && (n.ExcValue != nil || n.ExcTB != nil) {
		return unsupported(n.NodeType(), "raise with both a cause and a value or traceback")
	}
	if n.ExcTB != nil && n.ExcValue == nil {
		return unsupported(n.NodeType(), "raise with a traceback but no value")
	}
	w.startLine("raise ")
	for i, operand := range []ast.Expression{n.ExcType, n.ExcValue, n.ExcTB} {
		if operand == nil {
			break
		}
		if i > 0 {
			w.put(", ")
		}
		if err := w.visit(operand); err != nil {
			return err
		}
	}
	if n.Cause != nil {
		w.put(" from ")
		if err := w.visit(n.Cause); err != nil {
			return err
		}
	}
	w.endLine("")
	return nil
}

func (w *Writer) reraiseStat(*ast.ReraiseStat) error {
	w.line("raise")
	return nil
}

func (w *Writer) breakStat(*ast.BreakStat) error {
	w.line("break")
	return nil
}

func (w *Writer) continueStat(*ast.ContinueStat) error {
	w.line("continue")
	return nil
}

func (w *Writer) importStat(n *ast.ImportStat) error {
	w.startLine("import " + n.ModuleName)
	if n.AsName != "" {
		w.put(" as " + n.AsName)
	}
	w.endLine("")
	return nil
}

func (w *Writer) fromImportStat(n *ast.FromImportStat) error {
	for _, name := range n.ImportedNames {
		if name.Kind != "" {
			return unsupported(n.NodeType(), "%s import of %q", name.Kind, name.Name)
		}
	}
	w.startLine("from " + n.ModuleName + " import ")
	w.importedNames(n.ImportedNames)
	w.endLine("")
	return nil
}

// tempsBlock names the block's temporaries $<block>_<slot>. Block indices
// grow with every visited block so names never repeat within one Write.
func (w *Writer) tempsBlock(n *ast.TempsBlock) error {
	for slot, handle := range n.Temps {
		w.tempNames[handle] = fmt.Sprintf("$%d_%d", w.tempBlockIndex, slot)
	}
	w.tempBlockIndex++
	return w.visit(n.Body)
}

func (w *Writer) cFuncDef(n *ast.CFuncDef) error {
	if err := w.cFuncSignature(n); err != nil {
		return err
	}
	if n.Body == nil {
		w.endLine("")
		return nil
	}
	w.endLine(":")
	return w.block(n.Body)
}

// cFuncSignature starts the line with the keyword phrase, qualifiers,
// optional return type and declarator of n. The caller ends the line.
func (w *Writer) cFuncSignature(n *ast.CFuncDef) error {
	if n.Overridable {
		w.startLine("cpdef ")
	} else {
		w.startLine("cdef ")
	}
	if !n.Visibility.IsDefault() {
		w.put(string(n.Visibility) + " ")
	}
	if n.API {
		w.put("api ")
	}
	for _, mod := range n.Modifiers {
		w.put(mod + " ")
	}
	if !isAnonymousType(n.BaseType) {
		if err := w.visit(n.BaseType); err != nil {
			return err
		}
		w.put(" ")
	}
	return w.visit(n.Declarator)
}

// Expressions

func (w *Writer) tempRef(n *ast.TempRef) error {
	name, ok := w.tempNames[n.Handle]
	if !ok {
		return unsupported(n.NodeType(), "temporary used outside its allocation block")
	}
	w.put(name)
	return nil
}

func (w *Writer) comparison(n *ast.Comparison) error {
	if err := w.operand(n.Operand1); err != nil {
		return err
	}
	w.put(" " + n.Operator + " ")
	if err := w.operand(n.Operand2); err != nil {
		return err
	}
	for _, link := range n.Cascade {
		w.put(" " + link.Operator + " ")
		if err := w.operand(link.Operand); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) index(n *ast.Index) error {
	if err := w.primary(n.Base); err != nil {
		return err
	}
	w.put("[")
	if err := w.visit(n.Index); err != nil {
		return err
	}
	w.put("]")
	return nil
}

// primary writes the callee of a call or the base of an index, parenthesized
// unless it is an atom, attribute access, call or index.
func (w *Writer) primary(fn ast.Expression) error {
	switch {
	case ast.IsAtomic(fn), ast.HasCategory(fn.NodeType(), ast.CategoryCall):
		return w.visit(fn)
	}
	switch fn.(type) {
	case *ast.Attribute, *ast.Index:
		return w.visit(fn)
	}
	w.put("(")
	if err := w.visit(fn); err != nil {
		return err
	}
	w.put(")")
	return nil
}

func (w *Writer) simpleCall(n *ast.SimpleCall) error {
	if err := w.primary(n.Function); err != nil {
		return err
	}
	args := n.Args
	if len(args) == 0 && n.ArgTuple != nil {
		args = n.ArgTuple.Args
	}
	w.put("(")
	if err := emitList(w, args, false); err != nil {
		return err
	}
	w.put(")")
	return nil
}

func (w *Writer) generalCall(n *ast.GeneralCall) error {
	switch {
	case len(n.KeywordArgs) > 0:
		return unsupported(n.NodeType(), "keyword arguments")
	case n.StarStarArg != nil:
		return unsupported(n.NodeType(), "double-splat argument")
	case n.StarArg != nil && len(n.PositionalArgs) > 0:
		return unsupported(n.NodeType(), "positional arguments mixed with a splatted sequence")
	}
	if err := w.primary(n.Function); err != nil {
		return err
	}
	w.put("(")
	if n.StarArg != nil {
		w.put("*")
		if err := w.visit(n.StarArg); err != nil {
			return err
		}
	} else if err := emitList(w, n.PositionalArgs, false); err != nil {
		return err
	}
	w.put(")")
	return nil
}

// coercion renders only the wrapped operand.
func (w *Writer) coercion(n ast.Node) error {
	switch c := n.(type) {
	case *ast.CoerceToBoolean:
		return w.visit(c.Arg)
	case *ast.CoerceToTemp:
		return w.visit(c.Arg)
	default:
		return &CoverageError{Kind: n.NodeType(), Node: n}
	}
}
