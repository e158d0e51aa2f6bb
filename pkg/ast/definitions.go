package ast

type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilityPublic   Visibility = "public"
	VisibilityReadonly Visibility = "readonly"
	VisibilityExtern   Visibility = "extern"
)

// IsDefault reports whether v needs no qualifier in source.
func (v Visibility) IsDefault() bool {
	return v == "" || v == VisibilityPrivate
}

type Signedness string

const (
	SignednessDefault  Signedness = ""
	SignednessUnsigned Signedness = "unsigned"
	SignednessSigned   Signedness = "signed"
)

// External blocks

// CDefExtern wraps declarations taken from IncludeFile, or from no header
// when IncludeFile is empty.
type CDefExtern struct {
	nodeImpl
	statementMarker

	IncludeFile string    `json:"includeFile,omitempty"`
	Body        Statement `json:"body"`
}

func NewCDefExtern(includeFile string, body Statement) *CDefExtern {
	return &CDefExtern{nodeImpl: newNodeImpl(NodeCDefExtern), IncludeFile: includeFile, Body: body}
}

// Declarators

type CNameDeclarator struct {
	nodeImpl
	declaratorMarker

	Name    string     `json:"name"`
	CName   string     `json:"cname,omitempty"`
	Default Expression `json:"default,omitempty"`
}

func NewCNameDeclarator(name string, def Expression) *CNameDeclarator {
	return &CNameDeclarator{nodeImpl: newNodeImpl(NodeCNameDeclarator), Name: name, Default: def}
}

func (d *CNameDeclarator) DefaultValue() Expression { return d.Default }

type CPtrDeclarator struct {
	nodeImpl
	declaratorMarker

	Base Declarator `json:"base"`
}

func NewCPtrDeclarator(base Declarator) *CPtrDeclarator {
	return &CPtrDeclarator{nodeImpl: newNodeImpl(NodeCPtrDeclarator), Base: base}
}

func (d *CPtrDeclarator) DefaultValue() Expression { return baseDefault(d.Base) }

type CReferenceDeclarator struct {
	nodeImpl
	declaratorMarker

	Base Declarator `json:"base"`
}

func NewCReferenceDeclarator(base Declarator) *CReferenceDeclarator {
	return &CReferenceDeclarator{nodeImpl: newNodeImpl(NodeCReferenceDeclarator), Base: base}
}

func (d *CReferenceDeclarator) DefaultValue() Expression { return baseDefault(d.Base) }

// CArrayDeclarator is unbounded when Dimension is nil.
type CArrayDeclarator struct {
	nodeImpl
	declaratorMarker

	Base      Declarator `json:"base"`
	Dimension Expression `json:"dimension,omitempty"`
}

func NewCArrayDeclarator(base Declarator, dimension Expression) *CArrayDeclarator {
	return &CArrayDeclarator{nodeImpl: newNodeImpl(NodeCArrayDeclarator), Base: base, Dimension: dimension}
}

func (d *CArrayDeclarator) DefaultValue() Expression { return baseDefault(d.Base) }

// CFuncDeclarator declares a function taking Args. Exception specifications,
// GIL annotations and calling conventions are carried so that writers can
// reject them.
type CFuncDeclarator struct {
	nodeImpl
	declaratorMarker

	Base              Declarator  `json:"base"`
	Args              []*CArgDecl `json:"args"`
	ExceptionValue    Expression  `json:"exceptionValue,omitempty"`
	ExceptionCheck    bool        `json:"exceptionCheck,omitempty"`
	NoGil             bool        `json:"nogil,omitempty"`
	WithGil           bool        `json:"withGil,omitempty"`
	CallingConvention string      `json:"callingConvention,omitempty"`
}

func NewCFuncDeclarator(base Declarator, args ...*CArgDecl) *CFuncDeclarator {
	return &CFuncDeclarator{nodeImpl: newNodeImpl(NodeCFuncDeclarator), Base: base, Args: args}
}

func (d *CFuncDeclarator) DefaultValue() Expression { return baseDefault(d.Base) }

func baseDefault(base Declarator) Expression {
	if base == nil {
		return nil
	}
	return base.DefaultValue()
}

// Base types

// CSimpleBaseType names a type. Signedness and Longness only apply when
// IsBasicCType is set; negative Longness means "short", positive "long".
type CSimpleBaseType struct {
	nodeImpl
	baseTypeMarker

	Name         string     `json:"name"`
	ModulePath   []string   `json:"modulePath,omitempty"`
	IsBasicCType bool       `json:"isBasicCType,omitempty"`
	Signedness   Signedness `json:"signedness,omitempty"`
	Longness     int        `json:"longness,omitempty"`
	IsSelfArg    bool       `json:"isSelfArg,omitempty"`
}

func NewCSimpleBaseType(name string) *CSimpleBaseType {
	return &CSimpleBaseType{nodeImpl: newNodeImpl(NodeCSimpleBaseType), Name: name}
}

// NewCBasicType builds a basic C type such as "unsigned long long int".
func NewCBasicType(name string, signedness Signedness, longness int) *CSimpleBaseType {
	return &CSimpleBaseType{nodeImpl: newNodeImpl(NodeCSimpleBaseType), Name: name, IsBasicCType: true, Signedness: signedness, Longness: longness}
}

type CComplexBaseType struct {
	nodeImpl
	baseTypeMarker

	BaseType   BaseType   `json:"baseType"`
	Declarator Declarator `json:"declarator"`
}

func NewCComplexBaseType(baseType BaseType, declarator Declarator) *CComplexBaseType {
	return &CComplexBaseType{nodeImpl: newNodeImpl(NodeCComplexBaseType), BaseType: baseType, Declarator: declarator}
}

type CNestedBaseType struct {
	nodeImpl
	baseTypeMarker

	BaseType BaseType `json:"baseType"`
	Name     string   `json:"name"`
}

func NewCNestedBaseType(baseType BaseType, name string) *CNestedBaseType {
	return &CNestedBaseType{nodeImpl: newNodeImpl(NodeCNestedBaseType), BaseType: baseType, Name: name}
}

// TemplatedType applies template arguments, which are base types or
// expressions, to BaseType.
type TemplatedType struct {
	nodeImpl
	baseTypeMarker

	BaseType       BaseType           `json:"baseType"`
	PositionalArgs []Node             `json:"positionalArgs"`
	KeywordArgs    []*KeywordArgument `json:"keywordArgs,omitempty"`
}

func NewTemplatedType(baseType BaseType, args ...Node) *TemplatedType {
	return &TemplatedType{nodeImpl: newNodeImpl(NodeTemplatedType), BaseType: baseType, PositionalArgs: args}
}

// Declarations

type CVarDef struct {
	nodeImpl
	statementMarker

	BaseType    BaseType     `json:"baseType"`
	Declarators []Declarator `json:"declarators"`
	Visibility  Visibility   `json:"visibility,omitempty"`
}

func NewCVarDef(baseType BaseType, declarators ...Declarator) *CVarDef {
	return &CVarDef{nodeImpl: newNodeImpl(NodeCVarDef), BaseType: baseType, Declarators: declarators}
}

type CStructOrUnionDef struct {
	nodeImpl
	statementMarker

	Name       string      `json:"name,omitempty"`
	CName      string      `json:"cname,omitempty"`
	Kind       string      `json:"kind"`
	Typedef    bool        `json:"typedef,omitempty"`
	Visibility Visibility  `json:"visibility,omitempty"`
	Packed     bool        `json:"packed,omitempty"`
	Attributes []Statement `json:"attributes"`
}

func NewCStructOrUnionDef(kind, name string, attributes ...Statement) *CStructOrUnionDef {
	return &CStructOrUnionDef{nodeImpl: newNodeImpl(NodeCStructOrUnionDef), Kind: kind, Name: name, Attributes: attributes}
}

type CppClassDef struct {
	nodeImpl
	statementMarker

	Name        string      `json:"name"`
	CName       string      `json:"cname,omitempty"`
	Templates   []string    `json:"templates,omitempty"`
	BaseClasses []string    `json:"baseClasses,omitempty"`
	Attributes  []Statement `json:"attributes"`
}

func NewCppClassDef(name string, templates, baseClasses []string, attributes ...Statement) *CppClassDef {
	return &CppClassDef{nodeImpl: newNodeImpl(NodeCppClassDef), Name: name, Templates: templates, BaseClasses: baseClasses, Attributes: attributes}
}

type CEnumDefItem struct {
	nodeImpl
	statementMarker

	Name  string     `json:"name"`
	CName string     `json:"cname,omitempty"`
	Value Expression `json:"value,omitempty"`
}

func NewCEnumDefItem(name string, value Expression) *CEnumDefItem {
	return &CEnumDefItem{nodeImpl: newNodeImpl(NodeCEnumDefItem), Name: name, Value: value}
}

type CEnumDef struct {
	nodeImpl
	statementMarker

	Name       string          `json:"name,omitempty"`
	CName      string          `json:"cname,omitempty"`
	Typedef    bool            `json:"typedef,omitempty"`
	Visibility Visibility      `json:"visibility,omitempty"`
	Items      []*CEnumDefItem `json:"items"`
}

func NewCEnumDef(name string, items ...*CEnumDefItem) *CEnumDef {
	return &CEnumDef{nodeImpl: newNodeImpl(NodeCEnumDef), Name: name, Items: items}
}

type CTypeDef struct {
	nodeImpl
	statementMarker

	BaseType   BaseType   `json:"baseType"`
	Declarator Declarator `json:"declarator"`
}

func NewCTypeDef(baseType BaseType, declarator Declarator) *CTypeDef {
	return &CTypeDef{nodeImpl: newNodeImpl(NodeCTypeDef), BaseType: baseType, Declarator: declarator}
}

// CClassDef is an extension type. ModuleName is only set for types declared
// in another module.
type CClassDef struct {
	nodeImpl
	statementMarker

	ClassName       string       `json:"className"`
	ModuleName      string       `json:"moduleName,omitempty"`
	BaseClassModule string       `json:"baseClassModule,omitempty"`
	BaseClassName   string       `json:"baseClassName,omitempty"`
	Decorators      []*Decorator `json:"decorators,omitempty"`
	Body            Statement    `json:"body"`
}

func NewCClassDef(className string, body Statement) *CClassDef {
	return &CClassDef{nodeImpl: newNodeImpl(NodeCClassDef), ClassName: className, Body: body}
}

type PyClassDef struct {
	nodeImpl
	statementMarker

	Name       string       `json:"name"`
	Bases      []Expression `json:"bases,omitempty"`
	Decorators []*Decorator `json:"decorators,omitempty"`
	Body       Statement    `json:"body"`
}

func NewPyClassDef(name string, bases []Expression, body Statement) *PyClassDef {
	return &PyClassDef{nodeImpl: newNodeImpl(NodePyClassDef), Name: name, Bases: bases, Body: body}
}

// Functions

type CArgDecl struct {
	nodeImpl

	BaseType   BaseType   `json:"baseType,omitempty"`
	Declarator Declarator `json:"declarator"`
	Default    Expression `json:"default,omitempty"`
}

func NewCArgDecl(baseType BaseType, declarator Declarator, def Expression) *CArgDecl {
	return &CArgDecl{nodeImpl: newNodeImpl(NodeCArgDecl), BaseType: baseType, Declarator: declarator, Default: def}
}

// NewPyArg builds an untyped argument.
func NewPyArg(name string, def Expression) *CArgDecl {
	return NewCArgDecl(nil, NewCNameDeclarator(name, nil), def)
}

// DefFunction is a Python-level function. StarArg and StarStarArg are the
// optional *args and **kwargs parameters.
type DefFunction struct {
	nodeImpl
	statementMarker

	Name        string       `json:"name"`
	Args        []*CArgDecl  `json:"args"`
	StarArg     *Name        `json:"starArg,omitempty"`
	StarStarArg *Name        `json:"starStarArg,omitempty"`
	Decorators  []*Decorator `json:"decorators,omitempty"`
	Body        Statement    `json:"body"`
}

func NewDefFunction(name string, args []*CArgDecl, body Statement) *DefFunction {
	return &DefFunction{nodeImpl: newNodeImpl(NodeDefFunction), Name: name, Args: args, Body: body}
}

type CFuncDef struct {
	nodeImpl
	statementMarker

	BaseType    BaseType   `json:"baseType,omitempty"`
	Declarator  Declarator `json:"declarator"`
	Body        Statement  `json:"body,omitempty"`
	Visibility  Visibility `json:"visibility,omitempty"`
	Overridable bool       `json:"overridable,omitempty"`
	API         bool       `json:"api,omitempty"`
	Modifiers   []string   `json:"modifiers,omitempty"`
}

func NewCFuncDef(baseType BaseType, declarator Declarator, body Statement) *CFuncDef {
	return &CFuncDef{nodeImpl: newNodeImpl(NodeCFuncDef), BaseType: baseType, Declarator: declarator, Body: body}
}

// HasModifier reports whether mod (e.g. "inline") is among the modifiers.
func (f *CFuncDef) HasModifier(mod string) bool {
	for _, m := range f.Modifiers {
		if m == mod {
			return true
		}
	}
	return false
}

// Declaration imports

type CImportStat struct {
	nodeImpl
	statementMarker

	ModuleName string `json:"moduleName"`
	AsName     string `json:"asName,omitempty"`
}

func NewCImportStat(moduleName, asName string) *CImportStat {
	return &CImportStat{nodeImpl: newNodeImpl(NodeCImportStat), ModuleName: moduleName, AsName: asName}
}

type FromCImportStat struct {
	nodeImpl
	statementMarker

	ModuleName    string          `json:"moduleName"`
	ImportedNames []*ImportedName `json:"importedNames"`
}

func NewFromCImportStat(moduleName string, names ...*ImportedName) *FromCImportStat {
	return &FromCImportStat{nodeImpl: newNodeImpl(NodeFromCImportStat), ModuleName: moduleName, ImportedNames: names}
}
