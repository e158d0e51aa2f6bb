package codewriter_test

import (
	"errors"
	"testing"

	"cytree/writer-go/pkg/ast"
	"cytree/writer-go/pkg/codewriter"
)

func cname(s string) *ast.CNameDeclarator { return ast.NewCNameDeclarator(s, nil) }
func ctype(s string) *ast.CSimpleBaseType { return ast.NewCSimpleBaseType(s) }

func writeDecl(t *testing.T, tree ast.Node) []string {
	t.Helper()
	res, err := codewriter.NewDeclarationWriter(codewriter.Options{}).Write(tree)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	return res.Lines
}

func writePxd(t *testing.T, tree ast.Node) []string {
	t.Helper()
	lines, err := codewriter.WriteDeclarations(tree)
	if err != nil {
		t.Fatalf("WriteDeclarations: %v", err)
	}
	return lines
}

func TestVarDefDeclarators(t *testing.T) {
	cases := []struct {
		name string
		def  *ast.CVarDef
		want string
	}{
		{"pointer and default", ast.NewCVarDef(ctype("int"), ast.NewCPtrDeclarator(cname("p")), ast.NewCNameDeclarator("n", intLit("0"))), "cdef int *p, n = 0"},
		{"array of pointers", ast.NewCVarDef(ctype("char"), ast.NewCPtrDeclarator(ast.NewCArrayDeclarator(cname("argv"), intLit("4")))), "cdef char *argv[4]"},
		{"pointer to array", ast.NewCVarDef(ctype("char"), ast.NewCArrayDeclarator(ast.NewCPtrDeclarator(cname("buf")), intLit("4"))), "cdef char (*buf)[4]"},
		{"open array", ast.NewCVarDef(ctype("double"), ast.NewCArrayDeclarator(cname("xs"), nil)), "cdef double xs[]"},
		{"reference", ast.NewCVarDef(ctype("Foo"), ast.NewCReferenceDeclarator(cname("f"))), "cdef Foo &f"},
		{"pointer default", ast.NewCVarDef(ctype("void"), ast.NewCPtrDeclarator(ast.NewCNameDeclarator("p", ast.NewNullLiteral()))), "cdef void *p = NULL"},
		{"function pointer", ast.NewCVarDef(ctype("int"), ast.NewCFuncDeclarator(ast.NewCPtrDeclarator(cname("cb")), ast.NewCArgDecl(ctype("void"), ast.NewCPtrDeclarator(cname("")), nil))), "cdef int (*cb)(void *)"},
		{"unsigned long long", ast.NewCVarDef(ast.NewCBasicType("int", ast.SignednessUnsigned, 2), cname("big")), "cdef unsigned long long int big"},
		{"short", ast.NewCVarDef(ast.NewCBasicType("int", ast.SignednessDefault, -1), cname("s")), "cdef short int s"},
		{"templated", ast.NewCVarDef(ast.NewTemplatedType(ctype("vector"), ctype("int")), cname("v")), "cdef vector[int] v"},
		{"nested", ast.NewCVarDef(ast.NewCNestedBaseType(ctype("vector"), "iterator"), cname("it")), "cdef vector.iterator it"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectLines(t, writeDecl(t, tc.def), tc.want)
		})
	}
}

func TestVarDefVisibilityAndModulePath(t *testing.T) {
	file := ctype("FILE")
	file.ModulePath = []string{"libc", "stdio"}
	def := ast.NewCVarDef(file, ast.NewCPtrDeclarator(cname("fp")))
	def.Visibility = ast.VisibilityPublic
	expectLines(t, writeDecl(t, def), "cdef public libc.stdio.FILE *fp")
}

func TestCNameDeclaratorLinkageName(t *testing.T) {
	d := cname("fopen_")
	d.CName = "fopen"
	expectLines(t, writeDecl(t, ast.NewCVarDef(ctype("int"), d)), `cdef int fopen_ "fopen"`)
}

func TestContainers(t *testing.T) {
	point := ast.NewCStructOrUnionDef("struct", "Point",
		ast.NewCVarDef(ctype("double"), cname("x")),
		ast.NewCVarDef(ctype("double"), cname("y")),
	)
	empty := ast.NewCStructOrUnionDef("union", "Empty")
	empty.Typedef = true
	packed := ast.NewCStructOrUnionDef("struct", "Header", ast.NewCVarDef(ctype("char"), cname("tag")))
	packed.Visibility = ast.VisibilityPublic
	packed.Packed = true
	color := ast.NewCEnumDef("Color", ast.NewCEnumDefItem("RED", nil), ast.NewCEnumDefItem("GREEN", intLit("2")))
	vector := ast.NewCppClassDef("vector", []string{"T"}, []string{"base"})

	tree := ast.NewCDefExtern("stdio.h", stats(point, empty, packed, color, vector))
	expectLines(t, writeDecl(t, tree),
		`cdef extern from "stdio.h":`,
		"    cdef struct Point:",
		"        cdef double x",
		"        cdef double y",
		"    ctypedef union Empty:",
		"        pass",
		"    cdef public packed struct Header:",
		"        cdef char tag",
		"    cdef enum Color:",
		"        RED",
		"        GREEN = 2",
		"    cdef cppclass vector[T](base):",
		"        pass",
	)
}

func TestExternWithoutHeader(t *testing.T) {
	tree := ast.NewCDefExtern("", stats(ast.NewCTypeDef(ctype("int"), cname("myint"))))
	expectLines(t, writeDecl(t, tree), "cdef extern from *:", "    ctypedef int myint")
}

func TestContainerRejectsReadonlyVisibility(t *testing.T) {
	def := ast.NewCStructOrUnionDef("struct", "S")
	def.Visibility = ast.VisibilityReadonly
	if _, err := codewriter.WriteDeclarations(def); !errors.Is(err, codewriter.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestFunctionDeclaratorRejectsAnnotations(t *testing.T) {
	cases := map[string]func(*ast.CFuncDeclarator){
		"except":     func(d *ast.CFuncDeclarator) { d.ExceptionValue = intLit("-1") },
		"check":      func(d *ast.CFuncDeclarator) { d.ExceptionCheck = true },
		"nogil":      func(d *ast.CFuncDeclarator) { d.NoGil = true },
		"with gil":   func(d *ast.CFuncDeclarator) { d.WithGil = true },
		"convention": func(d *ast.CFuncDeclarator) { d.CallingConvention = "__stdcall" },
	}
	for label, mutate := range cases {
		t.Run(label, func(t *testing.T) {
			decl := ast.NewCFuncDeclarator(cname("f"))
			mutate(decl)
			fn := ast.NewCFuncDef(ctype("int"), decl, nil)
			_, err := codewriter.WriteDeclarations(fn)
			var unsupported *codewriter.UnsupportedError
			if !errors.As(err, &unsupported) || unsupported.Kind != ast.NodeCFuncDeclarator {
				t.Fatalf("expected UnsupportedError for CFuncDeclarator, got %v", err)
			}
		})
	}
}

func TestTemplatedTypeRejectsKeywordArguments(t *testing.T) {
	tt := ast.NewTemplatedType(ctype("vector"), ctype("int"))
	tt.KeywordArgs = []*ast.KeywordArgument{ast.NewKeywordArgument("alloc", name("a"))}
	if _, err := codewriter.WriteDeclarations(ast.NewCVarDef(tt, cname("v"))); !errors.Is(err, codewriter.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestClassesAndDefFunctions(t *testing.T) {
	method := ast.NewDefFunction("f", []*ast.CArgDecl{
		ast.NewPyArg("a", nil),
		ast.NewPyArg("b", intLit("1")),
	}, stats(ast.NewPassStat()))
	method.StarArg = name("args")
	method.StarStarArg = name("kwargs")

	cls := ast.NewCClassDef("Foo", stats(method))
	cls.BaseClassModule = "base"
	cls.BaseClassName = "Bar"
	cls.Decorators = []*ast.Decorator{ast.NewDecorator(ast.NewAttribute(name("cython"), "final"))}

	py := ast.NewPyClassDef("Plain", []ast.Expression{name("object")}, ast.NewStatList())

	expectLines(t, writeDecl(t, stats(cls, py)),
		"@cython.final",
		"cdef class Foo(base.Bar):",
		"    def f(a, b = 1, *args, **kwargs):",
		"        pass",
		"class Plain(object):",
		"    pass",
	)
}

func TestSelfArgument(t *testing.T) {
	self := ctype("")
	self.IsSelfArg = true
	fn := ast.NewDefFunction("m", []*ast.CArgDecl{
		ast.NewCArgDecl(self, cname("self"), nil),
		ast.NewCArgDecl(ctype("int"), cname("n"), nil),
	}, ast.NewStatList())
	expectLines(t, writeDecl(t, fn), "def m(self, int n):", "    pass")
}

func TestExternClassIsUnsupported(t *testing.T) {
	cls := ast.NewCClassDef("ndarray", ast.NewStatList())
	cls.ModuleName = "numpy"
	if _, err := codewriter.WriteDeclarations(cls); !errors.Is(err, codewriter.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestDeclarationImports(t *testing.T) {
	tree := stats(
		ast.NewCImportStat("numpy", "cnp"),
		ast.NewFromCImportStat("libc.stdlib", &ast.ImportedName{Name: "malloc"}, &ast.ImportedName{Name: "free", Alias: "release"}),
		ast.NewAssertStat(name("ok"), ast.NewStringLiteral("broken")),
	)
	expectLines(t, writeDecl(t, tree),
		"cimport numpy as cnp",
		"from libc.stdlib cimport malloc, free as release",
		"assert ok, 'broken'",
	)

	kinded := ast.NewFromCImportStat("mod", &ast.ImportedName{Name: "S", Kind: "struct"})
	if _, err := codewriter.WriteDeclarations(kinded); !errors.Is(err, codewriter.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestDeclarationWriterReportsUnhandledNodes(t *testing.T) {
	_, err := codewriter.NewDeclarationWriter(codewriter.Options{}).Write(call("f"))
	if !errors.Is(err, codewriter.ErrUnhandledNode) {
		t.Fatalf("expected ErrUnhandledNode, got %v", err)
	}
	var coverage *codewriter.CoverageError
	if !errors.As(err, &coverage) || coverage.Kind != ast.NodeExprStat {
		t.Fatalf("expected CoverageError for ExprStat, got %#v", err)
	}

	cfunc := ast.NewCFuncDef(ctype("int"), ast.NewCFuncDeclarator(cname("f")), nil)
	if _, err := codewriter.NewDeclarationWriter(codewriter.Options{}).Write(cfunc); !errors.Is(err, codewriter.ErrUnhandledNode) {
		t.Fatalf("expected ErrUnhandledNode for C function, got %v", err)
	}
}

func TestPxdSignatures(t *testing.T) {
	add := ast.NewCFuncDef(ctype("int"), ast.NewCFuncDeclarator(cname("add"),
		ast.NewCArgDecl(ctype("int"), cname("a"), nil),
		ast.NewCArgDecl(ctype("int"), cname("b"), nil),
	), stats(ast.NewReturnStat(ast.NewBinaryOperation("+", name("a"), name("b")))))

	exported := ast.NewCFuncDef(nil, ast.NewCFuncDeclarator(cname("run")), stats(call("work")))
	exported.Overridable = true
	exported.Visibility = ast.VisibilityPublic
	exported.API = true

	expectLines(t, writePxd(t, stats(add, exported)),
		"cdef int add(int a, int b)",
		"cpdef public api run()",
	)
}

func TestPxdSkipsInlineFunctions(t *testing.T) {
	fn := ast.NewCFuncDef(ctype("int"), ast.NewCFuncDeclarator(cname("fast")), stats(ast.NewReturnStat(intLit("1"))))
	fn.Modifiers = []string{"inline"}
	if lines := writePxd(t, fn); len(lines) != 0 {
		t.Fatalf("expected no lines for inline function, got %q", lines)
	}
}

func TestPxdSuppressesBodiesAndStatements(t *testing.T) {
	method := ast.NewDefFunction("helper", nil, stats(call("noop")))
	sig := ast.NewCFuncDef(ctype("double"), ast.NewCFuncDeclarator(cname("area")), stats(ast.NewReturnStat(intLit("0"))))
	cls := ast.NewCClassDef("Shape", stats(
		ast.NewCVarDef(ctype("double"), cname("w")),
		method,
		sig,
	))
	tree := ast.NewModule(stats(
		ast.NewCImportStat("cython", ""),
		call("setup"),
		ast.NewSingleAssignment(name("x"), intLit("1")),
		cls,
	))
	expectLines(t, writePxd(t, tree),
		"cimport cython",
		"cdef class Shape:",
		"    cdef double w",
		"    cdef double area()",
	)
}

func TestPxdSuppressedClassBodiesRenderPass(t *testing.T) {
	inline := ast.NewCFuncDef(ctype("int"), ast.NewCFuncDeclarator(cname("fast")), stats(ast.NewReturnStat(intLit("1"))))
	inline.Modifiers = []string{"inline"}
	tree := ast.NewModule(stats(
		ast.NewCClassDef("Foo", stats(
			ast.NewSingleAssignment(name("x"), intLit("1")),
			ast.NewDefFunction("f", nil, stats(ast.NewPassStat())),
		)),
		ast.NewPyClassDef("Bar", []ast.Expression{name("object")}, stats(inline)),
		ast.NewCDefExtern("", stats(call("setup"))),
	))
	expectLines(t, writePxd(t, tree),
		"cdef class Foo:",
		"    pass",
		"class Bar(object):",
		"    pass",
		"cdef extern from *:",
		"    pass",
	)
}

func TestCNamesUseLiteralEscapes(t *testing.T) {
	renamed := ast.NewCNameDeclarator("n", nil)
	renamed.CName = "say \"n\"\a"
	tree := ast.NewCDefExtern("dir\\x.h", stats(ast.NewCVarDef(ctype("int"), renamed)))
	expectLines(t, writeDecl(t, tree),
		`cdef extern from "dir\\x.h":`,
		`    cdef int n "say \"n\"\x07"`,
	)

	bad := ast.NewCNameDeclarator("m", nil)
	bad.CName = "\xff"
	if _, err := codewriter.WriteDeclarations(ast.NewCVarDef(ctype("int"), bad)); !errors.Is(err, codewriter.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
