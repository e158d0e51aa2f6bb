package ast

import "sort"

// Category names a capability group shared by several node kinds. Rendering
// rules may be registered for a category and are then used by every kind
// whose lineage contains it.
type Category string

const (
	CategoryNode       Category = "Node"
	CategoryStatement  Category = "Statement"
	CategoryExpression Category = "Expression"
	CategoryAtomic     Category = "Atomic"
	CategoryConstant   Category = "Constant"
	CategoryBinop      Category = "Binop"
	CategoryCall       Category = "Call"
	CategorySequence   Category = "Sequence"
	CategoryCoercion   Category = "Coercion"
	CategoryFuncDef    Category = "FuncDef"
	CategoryDeclarator Category = "Declarator"
	CategoryBaseType   Category = "BaseType"
)

var (
	atomicConstant = []Category{CategoryConstant, CategoryAtomic, CategoryExpression}
	plainStatement = []Category{CategoryStatement}
	plainExpr      = []Category{CategoryExpression}
)

// lineage lists every kind's categories from most to least specific.
// CategoryNode is implied as the final entry.
var lineage = map[NodeType][]Category{
	NodeModule:   nil,
	NodeStatList: plainStatement,

	NodeName:            {CategoryAtomic, CategoryExpression},
	NodeIntLiteral:      atomicConstant,
	NodeFloatLiteral:    atomicConstant,
	NodeBoolLiteral:     atomicConstant,
	NodeNoneLiteral:     atomicConstant,
	NodeNullLiteral:     atomicConstant,
	NodeStringLiteral:   atomicConstant,
	NodeUnicodeLiteral:  atomicConstant,
	NodeBytesLiteral:    atomicConstant,
	NodeTempRef:         {CategoryAtomic, CategoryExpression},
	NodeListDisplay:     {CategorySequence, CategoryExpression},
	NodeTupleDisplay:    {CategorySequence, CategoryExpression},
	NodeNotExpression:   plainExpr,
	NodeBinaryOperation: {CategoryBinop, CategoryExpression},
	NodeBoolOperation:   {CategoryBinop, CategoryExpression},
	NodeComparison:      plainExpr,
	NodeAttribute:       plainExpr,
	NodeIndex:           plainExpr,
	NodeSimpleCall:      {CategoryCall, CategoryExpression},
	NodeGeneralCall:     {CategoryCall, CategoryExpression},
	NodeKeywordArgument: nil,
	NodeCoerceToBoolean: {CategoryCoercion, CategoryExpression},
	NodeCoerceToTemp:    {CategoryCoercion, CategoryExpression},

	NodeExprStat:           plainStatement,
	NodeSingleAssignment:   plainStatement,
	NodeCascadedAssignment: plainStatement,
	NodeInPlaceAssignment:  plainStatement,
	NodePrintStat:          plainStatement,
	NodeForInStat:          plainStatement,
	NodeIfStat:             plainStatement,
	NodeIfClause:           nil,
	NodeWhileStat:          plainStatement,
	NodeWithStat:           plainStatement,
	NodeTryFinallyStat:     plainStatement,
	NodeTryExceptStat:      plainStatement,
	NodeExceptClause:       nil,
	NodeReturnStat:         plainStatement,
	NodeRaiseStat:          plainStatement,
	NodeReraiseStat:        plainStatement,
	NodeBreakStat:          plainStatement,
	NodeContinueStat:       plainStatement,
	NodePassStat:           plainStatement,
	NodeAssertStat:         plainStatement,
	NodeImportStat:         plainStatement,
	NodeFromImportStat:     plainStatement,
	NodeTempsBlock:         plainStatement,
	NodeDecorator:          nil,

	NodeCDefExtern:           plainStatement,
	NodeCNameDeclarator:      {CategoryDeclarator},
	NodeCPtrDeclarator:       {CategoryDeclarator},
	NodeCReferenceDeclarator: {CategoryDeclarator},
	NodeCArrayDeclarator:     {CategoryDeclarator},
	NodeCFuncDeclarator:      {CategoryDeclarator},
	NodeCSimpleBaseType:      {CategoryBaseType},
	NodeCComplexBaseType:     {CategoryBaseType},
	NodeCNestedBaseType:      {CategoryBaseType},
	NodeTemplatedType:        {CategoryBaseType},
	NodeCVarDef:              plainStatement,
	NodeCStructOrUnionDef:    plainStatement,
	NodeCppClassDef:          plainStatement,
	NodeCEnumDef:             plainStatement,
	NodeCEnumDefItem:         plainStatement,
	NodeCTypeDef:             plainStatement,
	NodeCClassDef:            plainStatement,
	NodePyClassDef:           plainStatement,
	NodeDefFunction:          {CategoryFuncDef, CategoryStatement},
	NodeCFuncDef:             {CategoryFuncDef, CategoryStatement},
	NodeCArgDecl:             nil,
	NodeCImportStat:          plainStatement,
	NodeFromCImportStat:      plainStatement,
}

// Lineage returns the categories of kind ordered from most to least
// specific, always ending with CategoryNode. Unknown kinds only belong to
// CategoryNode.
func Lineage(kind NodeType) []Category {
	cats := lineage[kind]
	out := make([]Category, 0, len(cats)+1)
	out = append(out, cats...)
	return append(out, CategoryNode)
}

// HasCategory reports whether kind belongs to cat.
func HasCategory(kind NodeType, cat Category) bool {
	if cat == CategoryNode {
		return true
	}
	for _, c := range lineage[kind] {
		if c == cat {
			return true
		}
	}
	return false
}

// IsAtomic reports whether n is a name, literal, or other atomic expression.
func IsAtomic(n Node) bool {
	return n != nil && HasCategory(n.NodeType(), CategoryAtomic)
}

// KnownNodeType reports whether kind is part of the node hierarchy.
func KnownNodeType(kind NodeType) bool {
	_, ok := lineage[kind]
	return ok
}

// AllNodeTypes lists every known kind in lexical order.
func AllNodeTypes() []NodeType {
	out := make([]NodeType, 0, len(lineage))
	for kind := range lineage {
		out = append(out, kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
