package fixtures

import (
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	"cytree/writer-go/pkg/ast"
)

// decoder turns one generic document into nodes. The first error wins and
// later lookups become no-ops.
type decoder struct {
	temps map[string]*ast.TempHandle
	err   error
}

func (d *decoder) fail(path, format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("fixtures: %s: %s", path, fmt.Sprintf(format, args...))
	}
}

type object struct {
	d    *decoder
	path string
	m    map[string]any
}

func (o object) at(key string) string { return o.path + "." + key }

func (d *decoder) node(raw any, path string) ast.Node {
	if d.err != nil {
		return nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		d.fail(path, "expected node mapping, got %T", raw)
		return nil
	}
	typ, _ := m["type"].(string)
	if typ == "" {
		d.fail(path, "node without type")
		return nil
	}
	o := object{d: d, path: path + "<" + typ + ">", m: m}
	n := o.decode(ast.NodeType(typ))
	if d.err != nil {
		return nil
	}
	return n
}

func (o object) decode(kind ast.NodeType) ast.Node {
	switch kind {
	case ast.NodeModule:
		return ast.NewModule(o.stat("body"))
	case ast.NodeStatList:
		return ast.NewStatList(list[ast.Statement](o, "stats", "statement")...)

	// Expressions
	case ast.NodeName:
		return ast.NewName(o.str("name"))
	case ast.NodeIntLiteral:
		return ast.NewIntLiteral(o.literal("value"))
	case ast.NodeFloatLiteral:
		return ast.NewFloatLiteral(o.literal("value"))
	case ast.NodeBoolLiteral:
		return ast.NewBoolLiteral(o.boolean("value"))
	case ast.NodeNoneLiteral:
		return ast.NewNoneLiteral()
	case ast.NodeNullLiteral:
		return ast.NewNullLiteral()
	case ast.NodeStringLiteral:
		return ast.NewStringLiteral(o.str("value"))
	case ast.NodeUnicodeLiteral:
		return ast.NewUnicodeLiteral(o.str("value"))
	case ast.NodeBytesLiteral:
		return ast.NewBytesLiteral(o.str("value"))
	case ast.NodeTempRef:
		return ast.NewTempRef(o.d.handle(o.m["handle"], o.at("handle")))
	case ast.NodeListDisplay:
		return ast.NewListDisplay(list[ast.Expression](o, "args", "expression")...)
	case ast.NodeTupleDisplay:
		return ast.NewTupleDisplay(list[ast.Expression](o, "args", "expression")...)
	case ast.NodeNotExpression:
		return ast.NewNotExpression(o.expr("operand"))
	case ast.NodeBinaryOperation:
		return ast.NewBinaryOperation(o.str("operator"), o.expr("operand1"), o.expr("operand2"))
	case ast.NodeBoolOperation:
		return ast.NewBoolOperation(o.str("operator"), o.expr("operand1"), o.expr("operand2"))
	case ast.NodeComparison:
		return ast.NewComparison(o.str("operator"), o.expr("operand1"), o.expr("operand2"), o.cascade()...)
	case ast.NodeAttribute:
		return ast.NewAttribute(o.expr("obj"), o.str("attribute"))
	case ast.NodeIndex:
		return ast.NewIndex(o.expr("base"), o.expr("index"))
	case ast.NodeSimpleCall:
		call := ast.NewSimpleCall(o.expr("function"), list[ast.Expression](o, "args", "expression")...)
		call.ArgTuple = as[*ast.TupleDisplay](o, "argTuple", o.child("argTuple", false), "tuple display")
		return call
	case ast.NodeKeywordArgument:
		return ast.NewKeywordArgument(o.str("name"), o.expr("value"))
	case ast.NodeGeneralCall:
		return ast.NewGeneralCall(
			o.expr("function"),
			list[ast.Expression](o, "positionalArgs", "expression"),
			o.optExpr("starArg"),
			list[*ast.KeywordArgument](o, "keywordArgs", "keyword argument"),
			o.optExpr("starStarArg"),
		)
	case ast.NodeCoerceToBoolean:
		return ast.NewCoerceToBoolean(o.expr("arg"))
	case ast.NodeCoerceToTemp:
		return ast.NewCoerceToTemp(o.expr("arg"))

	// Statements
	case ast.NodeExprStat:
		return ast.NewExprStat(o.expr("expr"))
	case ast.NodeSingleAssignment:
		return ast.NewSingleAssignment(o.expr("lhs"), o.expr("rhs"))
	case ast.NodeCascadedAssignment:
		return ast.NewCascadedAssignment(list[ast.Expression](o, "lhsList", "expression"), o.expr("rhs"))
	case ast.NodeInPlaceAssignment:
		return ast.NewInPlaceAssignment(o.str("operator"), o.expr("lhs"), o.expr("rhs"))
	case ast.NodePrintStat:
		return ast.NewPrintStat(list[ast.Expression](o, "args", "expression"), o.boolean("suppressNewline"))
	case ast.NodeForInStat:
		return ast.NewForInStat(o.expr("target"), o.expr("sequence"), o.stat("body"), o.optStat("elseClause"))
	case ast.NodeIfClause:
		return ast.NewIfClause(o.expr("condition"), o.stat("body"))
	case ast.NodeIfStat:
		return ast.NewIfStat(list[*ast.IfClause](o, "ifClauses", "if clause"), o.optStat("elseClause"))
	case ast.NodeWhileStat:
		return ast.NewWhileStat(o.expr("condition"), o.stat("body"), o.optStat("elseClause"))
	case ast.NodeWithStat:
		return ast.NewWithStat(o.expr("manager"), o.optExpr("target"), o.stat("body"))
	case ast.NodeTryFinallyStat:
		return ast.NewTryFinallyStat(o.stat("body"), o.stat("finallyClause"))
	case ast.NodeExceptClause:
		return ast.NewExceptClause(o.optExpr("pattern"), o.optExpr("target"), o.stat("body"))
	case ast.NodeTryExceptStat:
		return ast.NewTryExceptStat(o.stat("body"), list[*ast.ExceptClause](o, "exceptClauses", "except clause"), o.optStat("elseClause"))
	case ast.NodeReturnStat:
		return ast.NewReturnStat(o.optExpr("value"))
	case ast.NodeRaiseStat:
		return ast.NewRaiseStat(o.optExpr("excType"), o.optExpr("excValue"), o.optExpr("excTb"), o.optExpr("cause"))
	case ast.NodeReraiseStat:
		return ast.NewReraiseStat()
	case ast.NodeBreakStat:
		return ast.NewBreakStat()
	case ast.NodeContinueStat:
		return ast.NewContinueStat()
	case ast.NodePassStat:
		return ast.NewPassStat()
	case ast.NodeAssertStat:
		return ast.NewAssertStat(o.expr("cond"), o.optExpr("value"))
	case ast.NodeImportStat:
		return ast.NewImportStat(o.str("moduleName"), o.str("asName"))
	case ast.NodeFromImportStat:
		return ast.NewFromImportStat(o.str("moduleName"), o.importedNames()...)
	case ast.NodeTempsBlock:
		return ast.NewTempsBlock(o.handles("temps"), o.stat("body"))
	case ast.NodeDecorator:
		return ast.NewDecorator(o.expr("decorator"))
	}
	return o.decodeDefinition(kind)
}

func (o object) decodeDefinition(kind ast.NodeType) ast.Node {
	switch kind {
	case ast.NodeCDefExtern:
		return ast.NewCDefExtern(o.str("includeFile"), o.stat("body"))

	// Declarators
	case ast.NodeCNameDeclarator:
		d := ast.NewCNameDeclarator(o.str("name"), o.optExpr("default"))
		d.CName = o.str("cname")
		return d
	case ast.NodeCPtrDeclarator:
		return ast.NewCPtrDeclarator(o.declarator("base"))
	case ast.NodeCReferenceDeclarator:
		return ast.NewCReferenceDeclarator(o.declarator("base"))
	case ast.NodeCArrayDeclarator:
		return ast.NewCArrayDeclarator(o.declarator("base"), o.optExpr("dimension"))
	case ast.NodeCFuncDeclarator:
		d := ast.NewCFuncDeclarator(o.declarator("base"), list[*ast.CArgDecl](o, "args", "argument")...)
		d.ExceptionValue = o.optExpr("exceptionValue")
		d.ExceptionCheck = o.boolean("exceptionCheck")
		d.NoGil = o.boolean("nogil")
		d.WithGil = o.boolean("withGil")
		d.CallingConvention = o.str("callingConvention")
		return d

	// Base types
	case ast.NodeCSimpleBaseType:
		bt := ast.NewCSimpleBaseType(o.str("name"))
		bt.ModulePath = o.strs("modulePath")
		bt.IsBasicCType = o.boolean("isBasicCType")
		bt.Signedness = ast.Signedness(o.str("signedness"))
		bt.Longness = o.integer("longness")
		bt.IsSelfArg = o.boolean("isSelfArg")
		return bt
	case ast.NodeCComplexBaseType:
		return ast.NewCComplexBaseType(o.baseType("baseType"), o.declarator("declarator"))
	case ast.NodeCNestedBaseType:
		return ast.NewCNestedBaseType(o.baseType("baseType"), o.str("name"))
	case ast.NodeTemplatedType:
		tt := ast.NewTemplatedType(o.baseType("baseType"), list[ast.Node](o, "positionalArgs", "node")...)
		tt.KeywordArgs = list[*ast.KeywordArgument](o, "keywordArgs", "keyword argument")
		return tt

	// Declarations
	case ast.NodeCVarDef:
		def := ast.NewCVarDef(o.baseType("baseType"), list[ast.Declarator](o, "declarators", "declarator")...)
		def.Visibility = ast.Visibility(o.str("visibility"))
		return def
	case ast.NodeCStructOrUnionDef:
		def := ast.NewCStructOrUnionDef(o.str("kind"), o.str("name"), list[ast.Statement](o, "attributes", "statement")...)
		def.CName = o.str("cname")
		def.Typedef = o.boolean("typedef")
		def.Visibility = ast.Visibility(o.str("visibility"))
		def.Packed = o.boolean("packed")
		return def
	case ast.NodeCppClassDef:
		def := ast.NewCppClassDef(o.str("name"), o.strs("templates"), o.strs("baseClasses"), list[ast.Statement](o, "attributes", "statement")...)
		def.CName = o.str("cname")
		return def
	case ast.NodeCEnumDefItem:
		item := ast.NewCEnumDefItem(o.str("name"), o.optExpr("value"))
		item.CName = o.str("cname")
		return item
	case ast.NodeCEnumDef:
		def := ast.NewCEnumDef(o.str("name"), list[*ast.CEnumDefItem](o, "items", "enum item")...)
		def.CName = o.str("cname")
		def.Typedef = o.boolean("typedef")
		def.Visibility = ast.Visibility(o.str("visibility"))
		return def
	case ast.NodeCTypeDef:
		return ast.NewCTypeDef(o.baseType("baseType"), o.declarator("declarator"))
	case ast.NodeCClassDef:
		def := ast.NewCClassDef(o.str("className"), o.stat("body"))
		def.ModuleName = o.str("moduleName")
		def.BaseClassModule = o.str("baseClassModule")
		def.BaseClassName = o.str("baseClassName")
		def.Decorators = list[*ast.Decorator](o, "decorators", "decorator")
		return def
	case ast.NodePyClassDef:
		def := ast.NewPyClassDef(o.str("name"), list[ast.Expression](o, "bases", "expression"), o.stat("body"))
		def.Decorators = list[*ast.Decorator](o, "decorators", "decorator")
		return def

	// Functions
	case ast.NodeCArgDecl:
		return ast.NewCArgDecl(o.optBaseType("baseType"), o.declarator("declarator"), o.optExpr("default"))
	case ast.NodeDefFunction:
		fn := ast.NewDefFunction(o.str("name"), list[*ast.CArgDecl](o, "args", "argument"), o.stat("body"))
		fn.StarArg = as[*ast.Name](o, "starArg", o.child("starArg", false), "name")
		fn.StarStarArg = as[*ast.Name](o, "starStarArg", o.child("starStarArg", false), "name")
		fn.Decorators = list[*ast.Decorator](o, "decorators", "decorator")
		return fn
	case ast.NodeCFuncDef:
		fn := ast.NewCFuncDef(o.optBaseType("baseType"), o.declarator("declarator"), o.optStat("body"))
		fn.Visibility = ast.Visibility(o.str("visibility"))
		fn.Overridable = o.boolean("overridable")
		fn.API = o.boolean("api")
		fn.Modifiers = o.strs("modifiers")
		return fn
	case ast.NodeCImportStat:
		return ast.NewCImportStat(o.str("moduleName"), o.str("asName"))
	case ast.NodeFromCImportStat:
		return ast.NewFromCImportStat(o.str("moduleName"), o.importedNames()...)
	}
	o.d.fail(o.path, "unknown node type %q", kind)
	return nil
}

// Children

func (o object) child(key string, required bool) ast.Node {
	raw, ok := o.m[key]
	if !ok || raw == nil {
		if required {
			o.d.fail(o.at(key), "missing")
		}
		return nil
	}
	return o.d.node(raw, o.at(key))
}

// as narrows n to T. Absent children stay the zero value so optional
// interface fields remain untyped nil.
func as[T any](o object, key string, n ast.Node, what string) T {
	var zero T
	if n == nil {
		return zero
	}
	v, ok := n.(T)
	if !ok {
		o.d.fail(o.at(key), "expected %s, got %s", what, n.NodeType())
		return zero
	}
	return v
}

func list[T any](o object, key, what string) []T {
	raw, ok := o.m[key]
	if !ok || raw == nil {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		o.d.fail(o.at(key), "expected list, got %T", raw)
		return nil
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("%s[%d]", o.at(key), i)
		n := o.d.node(item, path)
		if n == nil {
			return nil
		}
		v, ok := n.(T)
		if !ok {
			o.d.fail(path, "expected %s, got %s", what, n.NodeType())
			return nil
		}
		out = append(out, v)
	}
	return out
}

func (o object) expr(key string) ast.Expression {
	return as[ast.Expression](o, key, o.child(key, true), "expression")
}

func (o object) optExpr(key string) ast.Expression {
	return as[ast.Expression](o, key, o.child(key, false), "expression")
}

func (o object) stat(key string) ast.Statement {
	return as[ast.Statement](o, key, o.child(key, true), "statement")
}

func (o object) optStat(key string) ast.Statement {
	return as[ast.Statement](o, key, o.child(key, false), "statement")
}

func (o object) declarator(key string) ast.Declarator {
	return as[ast.Declarator](o, key, o.child(key, true), "declarator")
}

func (o object) baseType(key string) ast.BaseType {
	return as[ast.BaseType](o, key, o.child(key, true), "base type")
}

func (o object) optBaseType(key string) ast.BaseType {
	return as[ast.BaseType](o, key, o.child(key, false), "base type")
}

func (o object) cascade() []*ast.CmpLink {
	raw, _ := o.m["cascade"].([]any)
	links := make([]*ast.CmpLink, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			o.d.fail(fmt.Sprintf("%s[%d]", o.at("cascade"), i), "expected mapping, got %T", item)
			return nil
		}
		link := object{d: o.d, path: fmt.Sprintf("%s[%d]", o.at("cascade"), i), m: m}
		links = append(links, &ast.CmpLink{Operator: link.str("operator"), Operand: link.expr("operand")})
	}
	return links
}

// importedNames accepts plain strings or {name, alias, kind} mappings.
func (o object) importedNames() []*ast.ImportedName {
	raw, _ := o.m["importedNames"].([]any)
	names := make([]*ast.ImportedName, 0, len(raw))
	for i, item := range raw {
		path := fmt.Sprintf("%s[%d]", o.at("importedNames"), i)
		switch v := item.(type) {
		case string:
			names = append(names, &ast.ImportedName{Name: v})
		case map[string]any:
			entry := object{d: o.d, path: path, m: v}
			names = append(names, &ast.ImportedName{Name: entry.str("name"), Alias: entry.str("alias"), Kind: entry.str("kind")})
		default:
			o.d.fail(path, "expected imported name, got %T", item)
			return nil
		}
	}
	return names
}

// Temporaries

func (d *decoder) handle(raw any, path string) *ast.TempHandle {
	var id string
	switch v := raw.(type) {
	case string:
		id = v
	case map[string]any:
		id, _ = v["id"].(string)
	}
	if id == "" {
		d.fail(path, "expected temporary handle id, got %T", raw)
		return nil
	}
	h, ok := d.temps[id]
	if !ok {
		h = ast.NewTempHandle(id)
		d.temps[id] = h
	}
	return h
}

func (o object) handles(key string) []*ast.TempHandle {
	raw, _ := o.m[key].([]any)
	out := make([]*ast.TempHandle, 0, len(raw))
	for i, item := range raw {
		out = append(out, o.d.handle(item, fmt.Sprintf("%s[%d]", o.at(key), i)))
	}
	return out
}

// Scalars

func (o object) str(key string) string {
	raw, ok := o.m[key]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		o.d.fail(o.at(key), "expected string, got %T", raw)
	}
	return s
}

func (o object) strs(key string) []string {
	raw, ok := o.m[key]
	if !ok || raw == nil {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		o.d.fail(o.at(key), "expected list of strings, got %T", raw)
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			o.d.fail(fmt.Sprintf("%s[%d]", o.at(key), i), "expected string, got %T", item)
			return nil
		}
		out = append(out, s)
	}
	return out
}

func (o object) boolean(key string) bool {
	raw, ok := o.m[key]
	if !ok || raw == nil {
		return false
	}
	b, ok := raw.(bool)
	if !ok {
		o.d.fail(o.at(key), "expected bool, got %T", raw)
	}
	return b
}

func (o object) integer(key string) int {
	switch v := o.m[key].(type) {
	case nil:
		return 0
	case int:
		return v
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			o.d.fail(o.at(key), "expected integer, got %s", v)
		}
		return n
	case float64:
		if v != float64(int(v)) {
			o.d.fail(o.at(key), "expected integer, got %v", v)
		}
		return int(v)
	default:
		o.d.fail(o.at(key), "expected integer, got %T", v)
		return 0
	}
}

// literal returns the source text of a numeric literal. Strings are kept
// verbatim so that forms like "0x1F" or "1.50" survive; bare numbers are
// accepted for convenience.
func (o object) literal(key string) string {
	switch v := o.m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		o.d.fail(o.at(key), "expected literal value, got %T", v)
		return ""
	}
}
