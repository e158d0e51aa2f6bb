package codewriter_test

import (
	"errors"
	"reflect"
	"testing"

	"cytree/writer-go/pkg/ast"
	"cytree/writer-go/pkg/codewriter"
)

func name(s string) *ast.Name                { return ast.NewName(s) }
func intLit(s string) *ast.IntLiteral        { return ast.NewIntLiteral(s) }
func stats(s ...ast.Statement) ast.Statement { return ast.NewStatList(s...) }

func call(fn string, args ...ast.Expression) ast.Statement {
	return ast.NewExprStat(ast.NewSimpleCall(name(fn), args...))
}

func writeCode(t *testing.T, tree ast.Node) []string {
	t.Helper()
	lines, err := codewriter.WriteCode(tree)
	if err != nil {
		t.Fatalf("WriteCode: %v", err)
	}
	return lines
}

func expectLines(t *testing.T, got []string, want ...string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected lines\n got: %q\nwant: %q", got, want)
	}
}

func TestEmptyStatListRendersPass(t *testing.T) {
	expectLines(t, writeCode(t, ast.NewStatList()), "pass")
}

func TestForInLoop(t *testing.T) {
	loop := ast.NewForInStat(name("x"), name("xs"), ast.NewStatList(), nil)
	expectLines(t, writeCode(t, loop), "for x in xs:", "    pass")
}

func TestForInTupleTargetWithElse(t *testing.T) {
	loop := ast.NewForInStat(
		ast.NewTupleDisplay(name("a"), name("b")),
		name("pairs"),
		stats(call("f", name("a"))),
		stats(ast.NewBreakStat()),
	)
	expectLines(t, writeCode(t, loop),
		"for a, b in pairs:",
		"    f(a)",
		"else:",
		"    break",
	)
}

func TestAssignments(t *testing.T) {
	tree := stats(
		ast.NewSingleAssignment(name("a"), intLit("1")),
		ast.NewCascadedAssignment([]ast.Expression{name("a"), name("b")}, intLit("1")),
		ast.NewInPlaceAssignment("+", name("x"), intLit("2")),
		ast.NewInPlaceAssignment("<<", name("y"), name("n")),
	)
	expectLines(t, writeCode(t, tree),
		"a = 1",
		"a = b = 1",
		"x += 2",
		"y <<= n",
	)
}

func TestPrintStatement(t *testing.T) {
	tree := stats(
		ast.NewPrintStat([]ast.Expression{name("a"), ast.NewStringLiteral("b")}, false),
		ast.NewPrintStat([]ast.Expression{name("a")}, true),
	)
	expectLines(t, writeCode(t, tree), "print a, 'b'", "print a,")
}

func TestIfElifElse(t *testing.T) {
	tree := ast.NewIfStat([]*ast.IfClause{
		ast.NewIfClause(ast.NewComparison("<", name("x"), intLit("0")), stats(ast.NewReturnStat(intLit("-1")))),
		ast.NewIfClause(ast.NewComparison("==", name("x"), intLit("0")), stats(ast.NewReturnStat(intLit("0")))),
	}, stats(ast.NewReturnStat(intLit("1"))))
	expectLines(t, writeCode(t, tree),
		"if x < 0:",
		"    return -1",
		"elif x == 0:",
		"    return 0",
		"else:",
		"    return 1",
	)
}

func TestWhileWithElseAndNesting(t *testing.T) {
	inner := ast.NewIfStat([]*ast.IfClause{
		ast.NewIfClause(name("done"), stats(ast.NewBreakStat())),
	}, nil)
	loop := ast.NewWhileStat(ast.NewBoolLiteral(true), stats(inner, ast.NewContinueStat()), stats(call("cleanup")))
	expectLines(t, writeCode(t, loop),
		"while True:",
		"    if done:",
		"        break",
		"    continue",
		"else:",
		"    cleanup()",
	)
}

func TestWithStatement(t *testing.T) {
	tree := stats(
		ast.NewWithStat(ast.NewSimpleCall(name("open"), name("p")), name("f"), stats(call("use", name("f")))),
		ast.NewWithStat(name("lock"), nil, ast.NewStatList()),
	)
	expectLines(t, writeCode(t, tree),
		"with open(p) as f:",
		"    use(f)",
		"with lock:",
		"    pass",
	)
}

func TestTryStatements(t *testing.T) {
	tree := stats(
		ast.NewTryExceptStat(
			stats(call("risky")),
			[]*ast.ExceptClause{
				ast.NewExceptClause(name("ValueError"), name("e"), stats(ast.NewReraiseStat())),
				ast.NewExceptClause(nil, nil, ast.NewStatList()),
			},
			stats(call("ok")),
		),
		ast.NewTryFinallyStat(stats(call("work")), stats(call("release"))),
	)
	expectLines(t, writeCode(t, tree),
		"try:",
		"    risky()",
		"except ValueError, e:",
		"    raise",
		"except:",
		"    pass",
		"else:",
		"    ok()",
		"try:",
		"    work()",
		"finally:",
		"    release()",
	)
}

func TestExceptTargetRequiresPattern(t *testing.T) {
	tree := ast.NewTryExceptStat(
		stats(ast.NewPassStat()),
		[]*ast.ExceptClause{ast.NewExceptClause(nil, name("e"), stats(ast.NewPassStat()))},
		nil,
	)
	_, err := codewriter.WriteCode(tree)
	var unsupported *codewriter.UnsupportedError
	if !errors.As(err, &unsupported) || unsupported.Kind != ast.NodeExceptClause {
		t.Fatalf("expected UnsupportedError for ExceptClause, got %v", err)
	}
}

func TestTextLiteralsRejectInvalidUTF8(t *testing.T) {
	for _, lit := range []ast.Expression{
		ast.NewStringLiteral("bad\xffbyte"),
		ast.NewUnicodeLiteral("\xc3"),
	} {
		if _, err := codewriter.WriteCode(ast.NewExprStat(lit)); !errors.Is(err, codewriter.ErrUnsupported) {
			t.Errorf("%s: expected ErrUnsupported, got %v", lit.NodeType(), err)
		}
	}
	expectLines(t, writeCode(t, ast.NewExprStat(ast.NewBytesLiteral("bad\xffbyte"))), `b'bad\xffbyte'`)
}

func TestReturnAndRaiseForms(t *testing.T) {
	tree := stats(
		ast.NewReturnStat(nil),
		ast.NewReturnStat(name("x")),
		ast.NewRaiseStat(name("E"), nil, nil, nil),
		ast.NewRaiseStat(name("E"), name("v"), name("tb"), nil),
		ast.NewRaiseStat(name("E"), nil, nil, name("cause")),
		ast.NewRaiseStat(nil, nil, nil, nil),
	)
	expectLines(t, writeCode(t, tree),
		"return",
		"return x",
		"raise E",
		"raise E, v, tb",
		"raise E from cause",
		"raise",
	)
}

func TestRaiseRejectsCauseWithValue(t *testing.T) {
	_, err := codewriter.WriteCode(ast.NewRaiseStat(name("E"), name("v"), nil, name("c")))
	if !errors.Is(err, codewriter.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestImports(t *testing.T) {
	tree := stats(
		ast.NewImportStat("os", ""),
		ast.NewImportStat("numpy", "np"),
		ast.NewFromImportStat("os.path", &ast.ImportedName{Name: "join"}, &ast.ImportedName{Name: "exists", Alias: "ex"}),
	)
	expectLines(t, writeCode(t, tree),
		"import os",
		"import numpy as np",
		"from os.path import join, exists as ex",
	)
}

func TestExpressions(t *testing.T) {
	cases := []struct {
		name string
		expr ast.Expression
		want string
	}{
		{"cascade", ast.NewComparison("<", name("a"), name("b"), &ast.CmpLink{Operator: "<=", Operand: name("c")}), "a < b <= c"},
		{"index", ast.NewIndex(name("a"), intLit("0")), "a[0]"},
		{"index chain", ast.NewIndex(ast.NewIndex(name("a"), intLit("0")), intLit("1")), "a[0][1]"},
		{"index of binop", ast.NewIndex(ast.NewBinaryOperation("+", name("a"), name("b")), intLit("0")), "(a + b)[0]"},
		{"nested binop", ast.NewBinaryOperation("*", ast.NewBinaryOperation("+", name("a"), name("b")), name("c")), "(a + b) * c"},
		{"coerced operand", ast.NewBinaryOperation("-", name("a"), ast.NewCoerceToTemp(ast.NewBinaryOperation("-", name("b"), name("c")))), "a - (b - c)"},
		{"comparison of comparison", ast.NewComparison("==", ast.NewComparison("<", name("a"), name("b")), name("c")), "(a < b) == c"},
		{"boolop of comparison", ast.NewBoolOperation("and", ast.NewComparison("<", name("a"), name("b")), name("c")), "(a < b) and c"},
		{"not", ast.NewNotExpression(name("x")), "(not x)"},
		{"boolop", ast.NewBoolOperation("and", name("a"), name("b")), "a and b"},
		{"attribute of name", ast.NewAttribute(name("a"), "b"), "a.b"},
		{"attribute chain", ast.NewAttribute(ast.NewAttribute(name("a"), "b"), "c"), "a.b.c"},
		{"attribute of binop", ast.NewAttribute(ast.NewBinaryOperation("+", name("a"), name("b")), "real"), "(a + b).real"},
		{"attribute of call", ast.NewAttribute(ast.NewSimpleCall(name("f")), "x"), "(f()).x"},
		{"method call", ast.NewSimpleCall(ast.NewAttribute(name("s"), "strip")), "s.strip()"},
		{"call of binop", ast.NewSimpleCall(ast.NewBinaryOperation("+", name("f"), name("g")), name("x")), "(f + g)(x)"},
		{"call chain", ast.NewSimpleCall(ast.NewSimpleCall(name("f"), name("a")), name("b")), "f(a)(b)"},
		{"splat", ast.NewGeneralCall(name("f"), nil, name("args"), nil, nil), "f(*args)"},
		{"general positional", ast.NewGeneralCall(name("f"), []ast.Expression{name("a"), name("b")}, nil, nil, nil), "f(a, b)"},
		{"list", ast.NewListDisplay(intLit("1"), intLit("2")), "[1, 2]"},
		{"empty list", ast.NewListDisplay(), "[]"},
		{"singleton tuple", ast.NewTupleDisplay(name("a")), "(a,)"},
		{"coerce to boolean", ast.NewCoerceToBoolean(name("flag")), "flag"},
		{"coerce to temp", ast.NewCoerceToTemp(ast.NewBinaryOperation("*", name("a"), intLit("2"))), "a * 2"},
		{"none", ast.NewNoneLiteral(), "None"},
		{"null", ast.NewNullLiteral(), "NULL"},
		{"false", ast.NewBoolLiteral(false), "False"},
		{"float", ast.NewFloatLiteral("1.5e3"), "1.5e3"},
		{"string", ast.NewStringLiteral("it's"), `"it's"`},
		{"unicode", ast.NewUnicodeLiteral("héllo"), "u'héllo'"},
		{"bytes", ast.NewBytesLiteral("a\x00\n"), `b'a\x00\n'`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectLines(t, writeCode(t, ast.NewExprStat(tc.expr)), tc.want)
		})
	}
}

func TestSimpleCallUsesArgumentBundle(t *testing.T) {
	c := ast.NewSimpleCall(name("f"))
	c.ArgTuple = ast.NewTupleDisplay(name("a"), name("b"))
	expectLines(t, writeCode(t, ast.NewExprStat(c)), "f(a, b)")
}

func TestGeneralCallRejectsKeywordArguments(t *testing.T) {
	kw := []*ast.KeywordArgument{ast.NewKeywordArgument("k", intLit("1"))}
	tree := ast.NewExprStat(ast.NewGeneralCall(name("f"), nil, nil, kw, nil))

	res, err := codewriter.NewCodeWriter(codewriter.Options{}).Write(tree)
	if res != nil {
		t.Fatalf("expected no result on failure, got %q", res.Lines)
	}
	if !errors.Is(err, codewriter.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	var unsupported *codewriter.UnsupportedError
	if !errors.As(err, &unsupported) || unsupported.Kind != ast.NodeGeneralCall {
		t.Fatalf("expected UnsupportedError for GeneralCall, got %#v", err)
	}
}

func TestGeneralCallRejectsDoubleSplat(t *testing.T) {
	tree := ast.NewExprStat(ast.NewGeneralCall(name("f"), nil, nil, nil, name("kw")))
	if _, err := codewriter.WriteCode(tree); !errors.Is(err, codewriter.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestTempNamesAreBlockScoped(t *testing.T) {
	h0, h1, h2 := ast.NewTempHandle("t0"), ast.NewTempHandle("t1"), ast.NewTempHandle("t2")
	tree := stats(
		ast.NewTempsBlock([]*ast.TempHandle{h0, h1}, stats(
			ast.NewSingleAssignment(ast.NewTempRef(h0), intLit("1")),
			ast.NewSingleAssignment(ast.NewTempRef(h1), ast.NewTempRef(h0)),
		)),
		ast.NewTempsBlock([]*ast.TempHandle{h2}, stats(
			ast.NewSingleAssignment(ast.NewTempRef(h2), intLit("2")),
		)),
	)
	expectLines(t, writeCode(t, tree),
		"$0_0 = 1",
		"$0_1 = $0_0",
		"$1_0 = 2",
	)
}

func TestNestedTempBlocksNeverCollide(t *testing.T) {
	outer, inner := ast.NewTempHandle("outer"), ast.NewTempHandle("inner")
	tree := ast.NewTempsBlock([]*ast.TempHandle{outer}, stats(
		ast.NewTempsBlock([]*ast.TempHandle{inner}, stats(
			ast.NewSingleAssignment(ast.NewTempRef(inner), ast.NewTempRef(outer)),
		)),
	))
	expectLines(t, writeCode(t, tree), "$1_0 = $0_0")
}

func TestTempNamesRestartPerWrite(t *testing.T) {
	h := ast.NewTempHandle("t")
	tree := ast.NewTempsBlock([]*ast.TempHandle{h}, ast.NewExprStat(ast.NewTempRef(h)))
	w := codewriter.NewCodeWriter(codewriter.Options{})
	for i := 0; i < 2; i++ {
		res, err := w.Write(tree)
		if err != nil {
			t.Fatalf("Write #%d: %v", i, err)
		}
		expectLines(t, res.Lines, "$0_0")
	}
}

func TestTempRefOutsideBlock(t *testing.T) {
	tree := ast.NewExprStat(ast.NewTempRef(ast.NewTempHandle("stray")))
	if _, err := codewriter.WriteCode(tree); !errors.Is(err, codewriter.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestCFunctionWithBody(t *testing.T) {
	decl := ast.NewCFuncDeclarator(ast.NewCNameDeclarator("add", nil),
		ast.NewCArgDecl(ast.NewCSimpleBaseType("int"), ast.NewCNameDeclarator("a", nil), nil),
		ast.NewCArgDecl(ast.NewCSimpleBaseType("int"), ast.NewCNameDeclarator("b", nil), intLit("0")),
	)
	fn := ast.NewCFuncDef(ast.NewCSimpleBaseType("int"), decl,
		stats(ast.NewReturnStat(ast.NewBinaryOperation("+", name("a"), name("b")))))
	expectLines(t, writeCode(t, fn),
		"cdef int add(int a, int b = 0):",
		"    return a + b",
	)
}

func TestCustomIndent(t *testing.T) {
	tree := ast.NewIfStat([]*ast.IfClause{ast.NewIfClause(name("x"), stats(call("f")))}, nil)
	res, err := codewriter.NewCodeWriter(codewriter.Options{Indent: "\t"}).Write(tree)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	expectLines(t, res.Lines, "if x:", "\tf()")
	if got := res.String(); got != "if x:\n\tf()" {
		t.Fatalf("String() = %q", got)
	}
}

func TestLineBreakInNameIsRejected(t *testing.T) {
	_, err := codewriter.WriteCode(ast.NewExprStat(name("a\nb")))
	if !errors.Is(err, codewriter.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestNilChildFails(t *testing.T) {
	_, err := codewriter.WriteCode(ast.NewSingleAssignment(name("a"), nil))
	if err == nil {
		t.Fatalf("expected error for missing child")
	}
}
