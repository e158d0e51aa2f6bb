package ast

type ExprStat struct {
	nodeImpl
	statementMarker

	Expr Expression `json:"expr"`
}

func NewExprStat(expr Expression) *ExprStat {
	return &ExprStat{nodeImpl: newNodeImpl(NodeExprStat), Expr: expr}
}

// Assignments

type SingleAssignment struct {
	nodeImpl
	statementMarker

	LHS Expression `json:"lhs"`
	RHS Expression `json:"rhs"`
}

func NewSingleAssignment(lhs, rhs Expression) *SingleAssignment {
	return &SingleAssignment{nodeImpl: newNodeImpl(NodeSingleAssignment), LHS: lhs, RHS: rhs}
}

// CascadedAssignment assigns RHS to every target: a = b = rhs.
type CascadedAssignment struct {
	nodeImpl
	statementMarker

	LHSList []Expression `json:"lhsList"`
	RHS     Expression   `json:"rhs"`
}

func NewCascadedAssignment(lhsList []Expression, rhs Expression) *CascadedAssignment {
	return &CascadedAssignment{nodeImpl: newNodeImpl(NodeCascadedAssignment), LHSList: lhsList, RHS: rhs}
}

type InPlaceAssignment struct {
	nodeImpl
	statementMarker

	Operator string     `json:"operator"`
	LHS      Expression `json:"lhs"`
	RHS      Expression `json:"rhs"`
}

func NewInPlaceAssignment(operator string, lhs, rhs Expression) *InPlaceAssignment {
	return &InPlaceAssignment{nodeImpl: newNodeImpl(NodeInPlaceAssignment), Operator: operator, LHS: lhs, RHS: rhs}
}

// PrintStat is the legacy print statement. SuppressNewline corresponds to a
// trailing comma.
type PrintStat struct {
	nodeImpl
	statementMarker

	Args            []Expression `json:"args"`
	SuppressNewline bool         `json:"suppressNewline,omitempty"`
}

func NewPrintStat(args []Expression, suppressNewline bool) *PrintStat {
	return &PrintStat{nodeImpl: newNodeImpl(NodePrintStat), Args: args, SuppressNewline: suppressNewline}
}

// Control flow

// ForInStat iterates Sequence binding Target, which is a name or a tuple for
// unpacking. ElseClause runs when the loop was not left through break.
type ForInStat struct {
	nodeImpl
	statementMarker

	Target     Expression `json:"target"`
	Sequence   Expression `json:"sequence"`
	Body       Statement  `json:"body"`
	ElseClause Statement  `json:"elseClause,omitempty"`
}

func NewForInStat(target, sequence Expression, body, elseClause Statement) *ForInStat {
	return &ForInStat{nodeImpl: newNodeImpl(NodeForInStat), Target: target, Sequence: sequence, Body: body, ElseClause: elseClause}
}

type IfClause struct {
	nodeImpl

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewIfClause(condition Expression, body Statement) *IfClause {
	return &IfClause{nodeImpl: newNodeImpl(NodeIfClause), Condition: condition, Body: body}
}

// IfStat holds the if clause followed by any elif clauses.
type IfStat struct {
	nodeImpl
	statementMarker

	IfClauses  []*IfClause `json:"ifClauses"`
	ElseClause Statement   `json:"elseClause,omitempty"`
}

func NewIfStat(clauses []*IfClause, elseClause Statement) *IfStat {
	return &IfStat{nodeImpl: newNodeImpl(NodeIfStat), IfClauses: clauses, ElseClause: elseClause}
}

type WhileStat struct {
	nodeImpl
	statementMarker

	Condition  Expression `json:"condition"`
	Body       Statement  `json:"body"`
	ElseClause Statement  `json:"elseClause,omitempty"`
}

func NewWhileStat(condition Expression, body, elseClause Statement) *WhileStat {
	return &WhileStat{nodeImpl: newNodeImpl(NodeWhileStat), Condition: condition, Body: body, ElseClause: elseClause}
}

type WithStat struct {
	nodeImpl
	statementMarker

	Manager Expression `json:"manager"`
	Target  Expression `json:"target,omitempty"`
	Body    Statement  `json:"body"`
}

func NewWithStat(manager, target Expression, body Statement) *WithStat {
	return &WithStat{nodeImpl: newNodeImpl(NodeWithStat), Manager: manager, Target: target, Body: body}
}

// Exceptions

type TryFinallyStat struct {
	nodeImpl
	statementMarker

	Body          Statement `json:"body"`
	FinallyClause Statement `json:"finallyClause"`
}

func NewTryFinallyStat(body, finallyClause Statement) *TryFinallyStat {
	return &TryFinallyStat{nodeImpl: newNodeImpl(NodeTryFinallyStat), Body: body, FinallyClause: finallyClause}
}

type ExceptClause struct {
	nodeImpl

	Pattern Expression `json:"pattern,omitempty"`
	Target  Expression `json:"target,omitempty"`
	Body    Statement  `json:"body"`
}

func NewExceptClause(pattern, target Expression, body Statement) *ExceptClause {
	return &ExceptClause{nodeImpl: newNodeImpl(NodeExceptClause), Pattern: pattern, Target: target, Body: body}
}

type TryExceptStat struct {
	nodeImpl
	statementMarker

	Body          Statement       `json:"body"`
	ExceptClauses []*ExceptClause `json:"exceptClauses"`
	ElseClause    Statement       `json:"elseClause,omitempty"`
}

func NewTryExceptStat(body Statement, clauses []*ExceptClause, elseClause Statement) *TryExceptStat {
	return &TryExceptStat{nodeImpl: newNodeImpl(NodeTryExceptStat), Body: body, ExceptClauses: clauses, ElseClause: elseClause}
}

type ReturnStat struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value,omitempty"`
}

func NewReturnStat(value Expression) *ReturnStat {
	return &ReturnStat{nodeImpl: newNodeImpl(NodeReturnStat), Value: value}
}

// RaiseStat raises ExcType, optionally with a value and traceback in the
// legacy comma form, or chained from Cause.
type RaiseStat struct {
	nodeImpl
	statementMarker

	ExcType  Expression `json:"excType,omitempty"`
	ExcValue Expression `json:"excValue,omitempty"`
	ExcTB    Expression `json:"excTb,omitempty"`
	Cause    Expression `json:"cause,omitempty"`
}

func NewRaiseStat(excType, excValue, excTB, cause Expression) *RaiseStat {
	return &RaiseStat{nodeImpl: newNodeImpl(NodeRaiseStat), ExcType: excType, ExcValue: excValue, ExcTB: excTB, Cause: cause}
}

type ReraiseStat struct {
	nodeImpl
	statementMarker
}

func NewReraiseStat() *ReraiseStat {
	return &ReraiseStat{nodeImpl: newNodeImpl(NodeReraiseStat)}
}

type BreakStat struct {
	nodeImpl
	statementMarker
}

func NewBreakStat() *BreakStat {
	return &BreakStat{nodeImpl: newNodeImpl(NodeBreakStat)}
}

type ContinueStat struct {
	nodeImpl
	statementMarker
}

func NewContinueStat() *ContinueStat {
	return &ContinueStat{nodeImpl: newNodeImpl(NodeContinueStat)}
}

type PassStat struct {
	nodeImpl
	statementMarker
}

func NewPassStat() *PassStat {
	return &PassStat{nodeImpl: newNodeImpl(NodePassStat)}
}

type AssertStat struct {
	nodeImpl
	statementMarker

	Cond  Expression `json:"cond"`
	Value Expression `json:"value,omitempty"`
}

func NewAssertStat(cond, value Expression) *AssertStat {
	return &AssertStat{nodeImpl: newNodeImpl(NodeAssertStat), Cond: cond, Value: value}
}

// Imports

// ImportedName is one entry of a from-import. Kind is only set by
// declaration imports that name a struct, union, or class.
type ImportedName struct {
	Name  string `json:"name"`
	Alias string `json:"alias,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

type ImportStat struct {
	nodeImpl
	statementMarker

	ModuleName string `json:"moduleName"`
	AsName     string `json:"asName,omitempty"`
}

func NewImportStat(moduleName, asName string) *ImportStat {
	return &ImportStat{nodeImpl: newNodeImpl(NodeImportStat), ModuleName: moduleName, AsName: asName}
}

type FromImportStat struct {
	nodeImpl
	statementMarker

	ModuleName    string          `json:"moduleName"`
	ImportedNames []*ImportedName `json:"importedNames"`
}

func NewFromImportStat(moduleName string, names ...*ImportedName) *FromImportStat {
	return &FromImportStat{nodeImpl: newNodeImpl(NodeFromImportStat), ModuleName: moduleName, ImportedNames: names}
}

// Temporaries

// TempsBlock introduces Temps for the duration of Body.
type TempsBlock struct {
	nodeImpl
	statementMarker

	Temps []*TempHandle `json:"temps"`
	Body  Statement     `json:"body"`
}

func NewTempsBlock(temps []*TempHandle, body Statement) *TempsBlock {
	return &TempsBlock{nodeImpl: newNodeImpl(NodeTempsBlock), Temps: temps, Body: body}
}

type Decorator struct {
	nodeImpl

	Decorator Expression `json:"decorator"`
}

func NewDecorator(decorator Expression) *Decorator {
	return &Decorator{nodeImpl: newNodeImpl(NodeDecorator), Decorator: decorator}
}
