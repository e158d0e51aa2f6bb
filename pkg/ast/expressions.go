package ast

type Name struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewName(name string) *Name {
	return &Name{nodeImpl: newNodeImpl(NodeName), Name: name}
}

// Literals keep their numeric source text so that suffixes and radix
// prefixes survive serialization.

type IntLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewIntLiteral(value string) *IntLiteral {
	return &IntLiteral{nodeImpl: newNodeImpl(NodeIntLiteral), Value: value}
}

type FloatLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewFloatLiteral(value string) *FloatLiteral {
	return &FloatLiteral{nodeImpl: newNodeImpl(NodeFloatLiteral), Value: value}
}

type BoolLiteral struct {
	nodeImpl
	expressionMarker

	Value bool `json:"value"`
}

func NewBoolLiteral(value bool) *BoolLiteral {
	return &BoolLiteral{nodeImpl: newNodeImpl(NodeBoolLiteral), Value: value}
}

type NoneLiteral struct {
	nodeImpl
	expressionMarker
}

func NewNoneLiteral() *NoneLiteral {
	return &NoneLiteral{nodeImpl: newNodeImpl(NodeNoneLiteral)}
}

type NullLiteral struct {
	nodeImpl
	expressionMarker
}

func NewNullLiteral() *NullLiteral {
	return &NullLiteral{nodeImpl: newNodeImpl(NodeNullLiteral)}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type UnicodeLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewUnicodeLiteral(value string) *UnicodeLiteral {
	return &UnicodeLiteral{nodeImpl: newNodeImpl(NodeUnicodeLiteral), Value: value}
}

// BytesLiteral holds raw bytes; Value is not required to be valid UTF-8.
type BytesLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewBytesLiteral(value string) *BytesLiteral {
	return &BytesLiteral{nodeImpl: newNodeImpl(NodeBytesLiteral), Value: value}
}

type TempRef struct {
	nodeImpl
	expressionMarker

	Handle *TempHandle `json:"handle"`
}

func NewTempRef(handle *TempHandle) *TempRef {
	return &TempRef{nodeImpl: newNodeImpl(NodeTempRef), Handle: handle}
}

// Displays

type ListDisplay struct {
	nodeImpl
	expressionMarker

	Args []Expression `json:"args"`
}

func NewListDisplay(args ...Expression) *ListDisplay {
	return &ListDisplay{nodeImpl: newNodeImpl(NodeListDisplay), Args: args}
}

type TupleDisplay struct {
	nodeImpl
	expressionMarker

	Args []Expression `json:"args"`
}

func NewTupleDisplay(args ...Expression) *TupleDisplay {
	return &TupleDisplay{nodeImpl: newNodeImpl(NodeTupleDisplay), Args: args}
}

// Operators

type NotExpression struct {
	nodeImpl
	expressionMarker

	Operand Expression `json:"operand"`
}

func NewNotExpression(operand Expression) *NotExpression {
	return &NotExpression{nodeImpl: newNodeImpl(NodeNotExpression), Operand: operand}
}

type BinaryOperation struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Operand1 Expression `json:"operand1"`
	Operand2 Expression `json:"operand2"`
}

func NewBinaryOperation(operator string, left, right Expression) *BinaryOperation {
	return &BinaryOperation{nodeImpl: newNodeImpl(NodeBinaryOperation), Operator: operator, Operand1: left, Operand2: right}
}

// BoolOperation is a short-circuiting "and"/"or".
type BoolOperation struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Operand1 Expression `json:"operand1"`
	Operand2 Expression `json:"operand2"`
}

func NewBoolOperation(operator string, left, right Expression) *BoolOperation {
	return &BoolOperation{nodeImpl: newNodeImpl(NodeBoolOperation), Operator: operator, Operand1: left, Operand2: right}
}

// CmpLink continues a comparison from the previous link's operand.
type CmpLink struct {
	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

// Comparison is a chained comparison: Operand1 Operator Operand2 followed by
// each cascade link, all sharing the previous operand.
type Comparison struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Operand1 Expression `json:"operand1"`
	Operand2 Expression `json:"operand2"`
	Cascade  []*CmpLink `json:"cascade,omitempty"`
}

func NewComparison(operator string, left, right Expression, cascade ...*CmpLink) *Comparison {
	return &Comparison{nodeImpl: newNodeImpl(NodeComparison), Operator: operator, Operand1: left, Operand2: right, Cascade: cascade}
}

type Attribute struct {
	nodeImpl
	expressionMarker

	Obj       Expression `json:"obj"`
	Attribute string     `json:"attribute"`
}

func NewAttribute(obj Expression, attribute string) *Attribute {
	return &Attribute{nodeImpl: newNodeImpl(NodeAttribute), Obj: obj, Attribute: attribute}
}

type Index struct {
	nodeImpl
	expressionMarker

	Base  Expression `json:"base"`
	Index Expression `json:"index"`
}

func NewIndex(base, index Expression) *Index {
	return &Index{nodeImpl: newNodeImpl(NodeIndex), Base: base, Index: index}
}

// Calls

// SimpleCall takes positional arguments only, either as Args or as a
// captured ArgTuple when Args is empty.
type SimpleCall struct {
	nodeImpl
	expressionMarker

	Function Expression    `json:"function"`
	Args     []Expression  `json:"args,omitempty"`
	ArgTuple *TupleDisplay `json:"argTuple,omitempty"`
}

func NewSimpleCall(function Expression, args ...Expression) *SimpleCall {
	return &SimpleCall{nodeImpl: newNodeImpl(NodeSimpleCall), Function: function, Args: args}
}

type KeywordArgument struct {
	nodeImpl

	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

func NewKeywordArgument(name string, value Expression) *KeywordArgument {
	return &KeywordArgument{nodeImpl: newNodeImpl(NodeKeywordArgument), Name: name, Value: value}
}

// GeneralCall passes either PositionalArgs or a single splatted StarArg.
type GeneralCall struct {
	nodeImpl
	expressionMarker

	Function       Expression         `json:"function"`
	PositionalArgs []Expression       `json:"positionalArgs,omitempty"`
	StarArg        Expression         `json:"starArg,omitempty"`
	KeywordArgs    []*KeywordArgument `json:"keywordArgs,omitempty"`
	StarStarArg    Expression         `json:"starStarArg,omitempty"`
}

func NewGeneralCall(function Expression, positional []Expression, starArg Expression, keywordArgs []*KeywordArgument, starStarArg Expression) *GeneralCall {
	return &GeneralCall{nodeImpl: newNodeImpl(NodeGeneralCall), Function: function, PositionalArgs: positional, StarArg: starArg, KeywordArgs: keywordArgs, StarStarArg: starStarArg}
}

// Coercions inserted by analysis. They have no syntax of their own.

type CoerceToBoolean struct {
	nodeImpl
	expressionMarker

	Arg Expression `json:"arg"`
}

func NewCoerceToBoolean(arg Expression) *CoerceToBoolean {
	return &CoerceToBoolean{nodeImpl: newNodeImpl(NodeCoerceToBoolean), Arg: arg}
}

type CoerceToTemp struct {
	nodeImpl
	expressionMarker

	Arg Expression `json:"arg"`
}

func NewCoerceToTemp(arg Expression) *CoerceToTemp {
	return &CoerceToTemp{nodeImpl: newNodeImpl(NodeCoerceToTemp), Arg: arg}
}
