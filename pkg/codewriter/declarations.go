package codewriter

import (
	"strings"

	"cytree/writer-go/pkg/ast"
)

var declarationRules = buildDeclarationRules()

func buildDeclarationRules() *ruleSet {
	rs := newRuleSet()

	rs.kind(ast.NodeModule, on((*Writer).module))
	rs.kind(ast.NodeStatList, on((*Writer).statList))
	rs.kind(ast.NodeCDefExtern, on((*Writer).cDefExtern))

	rs.kind(ast.NodeCNameDeclarator, on((*Writer).cNameDeclarator))
	rs.kind(ast.NodeCPtrDeclarator, on((*Writer).cPtrDeclarator))
	rs.kind(ast.NodeCReferenceDeclarator, on((*Writer).cReferenceDeclarator))
	rs.kind(ast.NodeCArrayDeclarator, on((*Writer).cArrayDeclarator))
	rs.kind(ast.NodeCFuncDeclarator, on((*Writer).cFuncDeclarator))

	rs.kind(ast.NodeCSimpleBaseType, on((*Writer).cSimpleBaseType))
	rs.kind(ast.NodeCComplexBaseType, on((*Writer).cComplexBaseType))
	rs.kind(ast.NodeCNestedBaseType, on((*Writer).cNestedBaseType))
	rs.kind(ast.NodeTemplatedType, on((*Writer).templatedType))

	rs.kind(ast.NodeCVarDef, on((*Writer).cVarDef))
	rs.kind(ast.NodeCStructOrUnionDef, on((*Writer).cStructOrUnionDef))
	rs.kind(ast.NodeCppClassDef, on((*Writer).cppClassDef))
	rs.kind(ast.NodeCEnumDef, on((*Writer).cEnumDef))
	rs.kind(ast.NodeCEnumDefItem, on((*Writer).cEnumDefItem))
	rs.kind(ast.NodeCTypeDef, on((*Writer).cTypeDef))
	rs.kind(ast.NodeCClassDef, on((*Writer).cClassDef))
	rs.kind(ast.NodePyClassDef, on((*Writer).pyClassDef))
	rs.category(ast.CategoryFuncDef, (*Writer).funcDef)
	rs.kind(ast.NodeCArgDecl, on((*Writer).cArgDecl))
	rs.kind(ast.NodeCImportStat, on((*Writer).cImportStat))
	rs.kind(ast.NodeFromCImportStat, on((*Writer).fromCImportStat))
	rs.kind(ast.NodeDecorator, on((*Writer).decorator))

	rs.kind(ast.NodePassStat, on((*Writer).passStat))
	rs.kind(ast.NodeAssertStat, on((*Writer).assertStat))

	rs.kind(ast.NodeName, on((*Writer).name))
	rs.category(ast.CategoryConstant, (*Writer).constant)
	rs.kind(ast.NodeStringLiteral, on((*Writer).stringLiteral))
	rs.kind(ast.NodeUnicodeLiteral, on((*Writer).unicodeLiteral))
	rs.kind(ast.NodeBytesLiteral, on((*Writer).bytesLiteral))
	rs.kind(ast.NodeNotExpression, on((*Writer).notExpression))
	rs.category(ast.CategoryBinop, (*Writer).binop)
	rs.kind(ast.NodeAttribute, on((*Writer).attribute))
	rs.kind(ast.NodeListDisplay, on((*Writer).listDisplay))
	rs.kind(ast.NodeTupleDisplay, on((*Writer).tupleDisplay))

	return rs
}

func (w *Writer) module(n *ast.Module) error {
	if n.Body == nil {
		return nil
	}
	return w.visit(n.Body)
}

func (w *Writer) statList(n *ast.StatList) error {
	if len(n.Stats) == 0 {
		w.line("pass")
		return w.err
	}
	for _, stat := range n.Stats {
		if err := w.visit(stat); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) cDefExtern(n *ast.CDefExtern) error {
	file := "*"
	if n.IncludeFile != "" {
		quoted, err := cName(n.NodeType(), n.IncludeFile)
		if err != nil {
			return err
		}
		file = quoted
	}
	w.putLine("cdef extern from " + file + ":")
	return w.block(n.Body)
}

// Declarators

func (w *Writer) cNameDeclarator(n *ast.CNameDeclarator) error {
	w.put(n.Name)
	if n.CName != "" {
		quoted, err := cName(n.NodeType(), n.CName)
		if err != nil {
			return err
		}
		w.put(" " + quoted)
	}
	return nil
}

func (w *Writer) cPtrDeclarator(n *ast.CPtrDeclarator) error {
	w.put("*")
	return w.visit(n.Base)
}

func (w *Writer) cReferenceDeclarator(n *ast.CReferenceDeclarator) error {
	w.put("&")
	return w.visit(n.Base)
}

// suffixBase renders the base of an array or function declarator. Pointer
// and reference bases bind looser than the suffix and need parentheses.
func (w *Writer) suffixBase(base ast.Declarator) error {
	switch base.(type) {
	case *ast.CPtrDeclarator, *ast.CReferenceDeclarator:
		w.put("(")
		if err := w.visit(base); err != nil {
			return err
		}
		w.put(")")
		return nil
	default:
		return w.visit(base)
	}
}

func (w *Writer) cArrayDeclarator(n *ast.CArrayDeclarator) error {
	if err := w.suffixBase(n.Base); err != nil {
		return err
	}
	w.put("[")
	if n.Dimension != nil {
		if err := w.visit(n.Dimension); err != nil {
			return err
		}
	}
	w.put("]")
	return nil
}

func (w *Writer) cFuncDeclarator(n *ast.CFuncDeclarator) error {
	switch {
	case n.ExceptionValue != nil || n.ExceptionCheck:
		return unsupported(n.NodeType(), "exception specification")
	case n.NoGil || n.WithGil:
		return unsupported(n.NodeType(), "gil annotation")
	case n.CallingConvention != "":
		return unsupported(n.NodeType(), "calling convention %q", n.CallingConvention)
	}
	if err := w.suffixBase(n.Base); err != nil {
		return err
	}
	w.put("(")
	if err := emitList(w, n.Args, false); err != nil {
		return err
	}
	w.put(")")
	return nil
}

// Base types

func (w *Writer) cSimpleBaseType(n *ast.CSimpleBaseType) error {
	for _, part := range n.ModulePath {
		w.put(part + ".")
	}
	if n.IsBasicCType {
		switch n.Signedness {
		case ast.SignednessDefault:
		case ast.SignednessUnsigned, ast.SignednessSigned:
			w.put(string(n.Signedness) + " ")
		default:
			return unsupported(n.NodeType(), "signedness %q", n.Signedness)
		}
		if n.Longness < 0 {
			w.put(strings.Repeat("short ", -n.Longness))
		} else if n.Longness > 0 {
			w.put(strings.Repeat("long ", n.Longness))
		}
	}
	w.put(n.Name)
	return nil
}

func (w *Writer) cComplexBaseType(n *ast.CComplexBaseType) error {
	w.put("(")
	if err := w.visit(n.BaseType); err != nil {
		return err
	}
	if err := w.visit(n.Declarator); err != nil {
		return err
	}
	w.put(")")
	return nil
}

func (w *Writer) cNestedBaseType(n *ast.CNestedBaseType) error {
	if err := w.visit(n.BaseType); err != nil {
		return err
	}
	w.put("." + n.Name)
	return nil
}

func (w *Writer) templatedType(n *ast.TemplatedType) error {
	if len(n.KeywordArgs) > 0 {
		return unsupported(n.NodeType(), "keyword template arguments")
	}
	if err := w.visit(n.BaseType); err != nil {
		return err
	}
	w.put("[")
	if err := emitList(w, n.PositionalArgs, false); err != nil {
		return err
	}
	w.put("]")
	return nil
}

// isAnonymousType reports whether bt renders as nothing, as untyped
// arguments do.
func isAnonymousType(bt ast.BaseType) bool {
	if bt == nil {
		return true
	}
	simple, ok := bt.(*ast.CSimpleBaseType)
	return ok && simple.Name == "" && len(simple.ModulePath) == 0
}

// Declarations

func (w *Writer) cVarDef(n *ast.CVarDef) error {
	w.startLine("cdef ")
	if !n.Visibility.IsDefault() {
		w.put(string(n.Visibility) + " ")
	}
	if err := w.visit(n.BaseType); err != nil {
		return err
	}
	w.put(" ")
	if err := emitList(w, n.Declarators, true); err != nil {
		return err
	}
	w.endLine("")
	return nil
}

// container renders "decl name "cname"extras:" and an indented body of
// attributes, or a single pass line when they produce nothing.
func container[T ast.Node](w *Writer, kind ast.NodeType, decl, name, cname, extras string, attributes []T) error {
	w.startLine(decl)
	if name != "" {
		w.put(" " + name)
		if cname != "" {
			quoted, err := cName(kind, cname)
			if err != nil {
				return err
			}
			w.put(" " + quoted)
		}
	}
	w.endLine(extras + ":")
	w.numIndents++
	defer func() { w.numIndents-- }()
	before := len(w.result.Lines)
	for _, attr := range attributes {
		if err := w.visit(attr); err != nil {
			return err
		}
	}
	if len(w.result.Lines) == before {
		w.putLine("pass")
	}
	return w.err
}

func declKeyword(typedef bool) string {
	if typedef {
		return "ctypedef "
	}
	return "cdef "
}

func (w *Writer) cStructOrUnionDef(n *ast.CStructOrUnionDef) error {
	if n.Kind != "struct" && n.Kind != "union" {
		return unsupported(n.NodeType(), "container kind %q", n.Kind)
	}
	decl := declKeyword(n.Typedef)
	switch n.Visibility {
	case "", ast.VisibilityPrivate:
	case ast.VisibilityPublic:
		decl += "public "
	default:
		return unsupported(n.NodeType(), "visibility %q", n.Visibility)
	}
	if n.Packed {
		decl += "packed "
	}
	decl += n.Kind
	return container(w, n.NodeType(), decl, n.Name, n.CName, "", n.Attributes)
}

func (w *Writer) cppClassDef(n *ast.CppClassDef) error {
	var extras string
	if len(n.Templates) > 0 {
		extras = "[" + strings.Join(n.Templates, ", ") + "]"
	}
	if len(n.BaseClasses) > 0 {
		extras += "(" + strings.Join(n.BaseClasses, ", ") + ")"
	}
	return container(w, n.NodeType(), "cdef cppclass", n.Name, n.CName, extras, n.Attributes)
}

func (w *Writer) cEnumDef(n *ast.CEnumDef) error {
	decl := declKeyword(n.Typedef)
	switch n.Visibility {
	case "", ast.VisibilityPrivate:
	case ast.VisibilityPublic:
		decl += "public "
	default:
		return unsupported(n.NodeType(), "visibility %q", n.Visibility)
	}
	return container(w, n.NodeType(), decl+"enum", n.Name, n.CName, "", n.Items)
}

func (w *Writer) cEnumDefItem(n *ast.CEnumDefItem) error {
	w.startLine(n.Name)
	if n.CName != "" {
		quoted, err := cName(n.NodeType(), n.CName)
		if err != nil {
			return err
		}
		w.put(" " + quoted)
	}
	if n.Value != nil {
		w.put(" = ")
		if err := w.visit(n.Value); err != nil {
			return err
		}
	}
	w.endLine("")
	return nil
}

func (w *Writer) cTypeDef(n *ast.CTypeDef) error {
	w.startLine("ctypedef ")
	if err := w.visit(n.BaseType); err != nil {
		return err
	}
	w.put(" ")
	if err := w.visit(n.Declarator); err != nil {
		return err
	}
	w.endLine("")
	return nil
}

func (w *Writer) decorators(decorators []*ast.Decorator) error {
	for _, d := range decorators {
		if err := w.visit(d); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) cClassDef(n *ast.CClassDef) error {
	if n.ModuleName != "" {
		return unsupported(n.NodeType(), "class declared in module %q", n.ModuleName)
	}
	if err := w.decorators(n.Decorators); err != nil {
		return err
	}
	w.startLine("cdef class " + n.ClassName)
	if n.BaseClassName != "" {
		w.put("(")
		if n.BaseClassModule != "" {
			w.put(n.BaseClassModule + ".")
		}
		w.put(n.BaseClassName + ")")
	}
	w.endLine(":")
	return w.block(n.Body)
}

func (w *Writer) pyClassDef(n *ast.PyClassDef) error {
	if err := w.decorators(n.Decorators); err != nil {
		return err
	}
	w.startLine("class " + n.Name)
	if len(n.Bases) > 0 {
		w.put("(")
		if err := emitList(w, n.Bases, false); err != nil {
			return err
		}
		w.put(")")
	}
	w.endLine(":")
	return w.block(n.Body)
}

// funcDef is the category rule for function definitions. Only Python-level
// functions are declaration-shaped here; C functions need a writer that
// knows their signature form.
func (w *Writer) funcDef(n ast.Node) error {
	def, ok := n.(*ast.DefFunction)
	if !ok {
		return &CoverageError{Kind: n.NodeType(), Node: n}
	}
	if err := w.decorators(def.Decorators); err != nil {
		return err
	}
	w.startLine("def " + def.Name + "(")
	if err := emitList(w, def.Args, false); err != nil {
		return err
	}
	argNum := len(def.Args)
	if def.StarArg != nil {
		if argNum > 0 {
			w.put(", ")
		}
		w.put("*" + def.StarArg.Name)
		argNum++
	}
	if def.StarStarArg != nil {
		if argNum > 0 {
			w.put(", ")
		}
		w.put("**" + def.StarStarArg.Name)
	}
	w.endLine("):")
	return w.block(def.Body)
}

func (w *Writer) cArgDecl(n *ast.CArgDecl) error {
	if simple, ok := n.BaseType.(*ast.CSimpleBaseType); ok && simple.IsSelfArg {
		w.put("self")
		return nil
	}
	if !isAnonymousType(n.BaseType) {
		if err := w.visit(n.BaseType); err != nil {
			return err
		}
		w.put(" ")
	}
	if err := w.visit(n.Declarator); err != nil {
		return err
	}
	if n.Default != nil {
		w.put(" = ")
		return w.visit(n.Default)
	}
	return nil
}

func (w *Writer) cImportStat(n *ast.CImportStat) error {
	w.startLine("cimport " + n.ModuleName)
	if n.AsName != "" {
		w.put(" as " + n.AsName)
	}
	w.endLine("")
	return nil
}

func (w *Writer) fromCImportStat(n *ast.FromCImportStat) error {
	for _, name := range n.ImportedNames {
		if name.Kind != "" {
			return unsupported(n.NodeType(), "%s import of %q", name.Kind, name.Name)
		}
	}
	w.startLine("from " + n.ModuleName + " cimport ")
	w.importedNames(n.ImportedNames)
	w.endLine("")
	return nil
}

func (w *Writer) importedNames(names []*ast.ImportedName) {
	for i, name := range names {
		if i > 0 {
			w.put(", ")
		}
		w.put(name.Name)
		if name.Alias != "" {
			w.put(" as " + name.Alias)
		}
	}
}

func (w *Writer) decorator(n *ast.Decorator) error {
	w.startLine("@")
	if err := w.visit(n.Decorator); err != nil {
		return err
	}
	w.endLine("")
	return nil
}

func (w *Writer) passStat(*ast.PassStat) error {
	w.line("pass")
	return nil
}

func (w *Writer) assertStat(n *ast.AssertStat) error {
	w.startLine("assert ")
	if err := w.visit(n.Cond); err != nil {
		return err
	}
	if n.Value != nil {
		w.put(", ")
		if err := w.visit(n.Value); err != nil {
			return err
		}
	}
	w.endLine("")
	return nil
}

// Expressions

func (w *Writer) name(n *ast.Name) error {
	w.put(n.Name)
	return nil
}

// constant renders every literal whose source form is fixed by its value.
func (w *Writer) constant(n ast.Node) error {
	switch c := n.(type) {
	case *ast.IntLiteral:
		w.put(c.Value)
	case *ast.FloatLiteral:
		w.put(c.Value)
	case *ast.BoolLiteral:
		if c.Value {
			w.put("True")
		} else {
			w.put("False")
		}
	case *ast.NoneLiteral:
		w.put("None")
	case *ast.NullLiteral:
		w.put("NULL")
	default:
		return &CoverageError{Kind: n.NodeType(), Node: n}
	}
	return nil
}

func (w *Writer) stringLiteral(n *ast.StringLiteral) error {
	text, err := textLiteral(n.NodeType(), n.Value)
	if err != nil {
		return err
	}
	w.put(text)
	return nil
}

func (w *Writer) unicodeLiteral(n *ast.UnicodeLiteral) error {
	text, err := textLiteral(n.NodeType(), n.Value)
	if err != nil {
		return err
	}
	w.put("u" + text)
	return nil
}

func (w *Writer) bytesLiteral(n *ast.BytesLiteral) error {
	w.put("b" + quoteBytes(n.Value))
	return nil
}

func (w *Writer) notExpression(n *ast.NotExpression) error {
	w.put("(not ")
	if err := w.visit(n.Operand); err != nil {
		return err
	}
	w.put(")")
	return nil
}

// binop renders "operand1 op operand2" for arithmetic and boolean operators.
func (w *Writer) binop(n ast.Node) error {
	var (
		op          string
		left, right ast.Expression
	)
	switch b := n.(type) {
	case *ast.BinaryOperation:
		op, left, right = b.Operator, b.Operand1, b.Operand2
	case *ast.BoolOperation:
		op, left, right = b.Operator, b.Operand1, b.Operand2
	default:
		return &CoverageError{Kind: n.NodeType(), Node: n}
	}
	if err := w.operand(left); err != nil {
		return err
	}
	w.put(" " + op + " ")
	return w.operand(right)
}

// operand parenthesizes operator expressions nested inside another operator
// expression so the tree's grouping survives.
func (w *Writer) operand(e ast.Expression) error {
	if !isCompound(e) {
		return w.visit(e)
	}
	w.put("(")
	if err := w.visit(e); err != nil {
		return err
	}
	w.put(")")
	return nil
}

func isCompound(e ast.Expression) bool {
	for {
		switch c := e.(type) {
		case *ast.CoerceToBoolean:
			e = c.Arg
		case *ast.CoerceToTemp:
			e = c.Arg
		case *ast.BinaryOperation, *ast.BoolOperation, *ast.Comparison:
			return true
		default:
			return false
		}
	}
}

func (w *Writer) attribute(n *ast.Attribute) error {
	if _, nested := n.Obj.(*ast.Attribute); nested || ast.IsAtomic(n.Obj) {
		if err := w.visit(n.Obj); err != nil {
			return err
		}
	} else {
		w.put("(")
		if err := w.visit(n.Obj); err != nil {
			return err
		}
		w.put(")")
	}
	w.put("." + n.Attribute)
	return nil
}

func (w *Writer) listDisplay(n *ast.ListDisplay) error {
	w.put("[")
	if err := emitList(w, n.Args, false); err != nil {
		return err
	}
	w.put("]")
	return nil
}

func (w *Writer) tupleDisplay(n *ast.TupleDisplay) error {
	w.put("(")
	if err := emitList(w, n.Args, false); err != nil {
		return err
	}
	if len(n.Args) == 1 {
		w.put(",")
	}
	w.put(")")
	return nil
}
