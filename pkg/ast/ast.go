package ast

type NodeType string

const (
	NodeModule   NodeType = "Module"
	NodeStatList NodeType = "StatList"

	// Expressions
	NodeName            NodeType = "Name"
	NodeIntLiteral      NodeType = "IntLiteral"
	NodeFloatLiteral    NodeType = "FloatLiteral"
	NodeBoolLiteral     NodeType = "BoolLiteral"
	NodeNoneLiteral     NodeType = "NoneLiteral"
	NodeNullLiteral     NodeType = "NullLiteral"
	NodeStringLiteral   NodeType = "StringLiteral"
	NodeUnicodeLiteral  NodeType = "UnicodeLiteral"
	NodeBytesLiteral    NodeType = "BytesLiteral"
	NodeTempRef         NodeType = "TempRef"
	NodeListDisplay     NodeType = "ListDisplay"
	NodeTupleDisplay    NodeType = "TupleDisplay"
	NodeNotExpression   NodeType = "NotExpression"
	NodeBinaryOperation NodeType = "BinaryOperation"
	NodeBoolOperation   NodeType = "BoolOperation"
	NodeComparison      NodeType = "Comparison"
	NodeAttribute       NodeType = "Attribute"
	NodeIndex           NodeType = "Index"
	NodeSimpleCall      NodeType = "SimpleCall"
	NodeGeneralCall     NodeType = "GeneralCall"
	NodeKeywordArgument NodeType = "KeywordArgument"
	NodeCoerceToBoolean NodeType = "CoerceToBoolean"
	NodeCoerceToTemp    NodeType = "CoerceToTemp"

	// Statements
	NodeExprStat           NodeType = "ExprStat"
	NodeSingleAssignment   NodeType = "SingleAssignment"
	NodeCascadedAssignment NodeType = "CascadedAssignment"
	NodeInPlaceAssignment  NodeType = "InPlaceAssignment"
	NodePrintStat          NodeType = "PrintStat"
	NodeForInStat          NodeType = "ForInStat"
	NodeIfStat             NodeType = "IfStat"
	NodeIfClause           NodeType = "IfClause"
	NodeWhileStat          NodeType = "WhileStat"
	NodeWithStat           NodeType = "WithStat"
	NodeTryFinallyStat     NodeType = "TryFinallyStat"
	NodeTryExceptStat      NodeType = "TryExceptStat"
	NodeExceptClause       NodeType = "ExceptClause"
	NodeReturnStat         NodeType = "ReturnStat"
	NodeRaiseStat          NodeType = "RaiseStat"
	NodeReraiseStat        NodeType = "ReraiseStat"
	NodeBreakStat          NodeType = "BreakStat"
	NodeContinueStat       NodeType = "ContinueStat"
	NodePassStat           NodeType = "PassStat"
	NodeAssertStat         NodeType = "AssertStat"
	NodeImportStat         NodeType = "ImportStat"
	NodeFromImportStat     NodeType = "FromImportStat"
	NodeTempsBlock         NodeType = "TempsBlock"
	NodeDecorator          NodeType = "Decorator"

	// Declarations
	NodeCDefExtern           NodeType = "CDefExtern"
	NodeCNameDeclarator      NodeType = "CNameDeclarator"
	NodeCPtrDeclarator       NodeType = "CPtrDeclarator"
	NodeCReferenceDeclarator NodeType = "CReferenceDeclarator"
	NodeCArrayDeclarator     NodeType = "CArrayDeclarator"
	NodeCFuncDeclarator      NodeType = "CFuncDeclarator"
	NodeCSimpleBaseType      NodeType = "CSimpleBaseType"
	NodeCComplexBaseType     NodeType = "CComplexBaseType"
	NodeCNestedBaseType      NodeType = "CNestedBaseType"
	NodeTemplatedType        NodeType = "TemplatedType"
	NodeCVarDef              NodeType = "CVarDef"
	NodeCStructOrUnionDef    NodeType = "CStructOrUnionDef"
	NodeCppClassDef          NodeType = "CppClassDef"
	NodeCEnumDef             NodeType = "CEnumDef"
	NodeCEnumDefItem         NodeType = "CEnumDefItem"
	NodeCTypeDef             NodeType = "CTypeDef"
	NodeCClassDef            NodeType = "CClassDef"
	NodePyClassDef           NodeType = "PyClassDef"
	NodeDefFunction          NodeType = "DefFunction"
	NodeCFuncDef             NodeType = "CFuncDef"
	NodeCArgDecl             NodeType = "CArgDecl"
	NodeCImportStat          NodeType = "CImportStat"
	NodeFromCImportStat      NodeType = "FromCImportStat"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Declarator is a type-constructor wrapper around a base declarator. The
// innermost declarator names the declared entity and may carry a default.
type Declarator interface {
	Node
	declaratorNode()
	DefaultValue() Expression
}

type declaratorMarker struct{}

func (declaratorMarker) declaratorNode() {}

type BaseType interface {
	Node
	baseTypeNode()
}

type baseTypeMarker struct{}

func (baseTypeMarker) baseTypeNode() {}

// TempHandle identifies a compiler-generated intermediate value. Identity is
// the pointer; ID only serves serialized trees.
type TempHandle struct {
	ID string `json:"id"`
}

func NewTempHandle(id string) *TempHandle {
	return &TempHandle{ID: id}
}

// Module root

type Module struct {
	nodeImpl

	Body Statement `json:"body"`
}

func NewModule(body Statement) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule), Body: body}
}

type StatList struct {
	nodeImpl
	statementMarker

	Stats []Statement `json:"stats"`
}

func NewStatList(stats ...Statement) *StatList {
	return &StatList{nodeImpl: newNodeImpl(NodeStatList), Stats: stats}
}
