package fixtures_test

import (
	"errors"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"cytree/writer-go/pkg/ast"
	"cytree/writer-go/pkg/codewriter"
	"cytree/writer-go/pkg/fixtures"
)

func TestLoadJSONSharesTempHandles(t *testing.T) {
	tree, err := fixtures.Load(filepath.Join("testdata", "loop.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	mod, ok := tree.(*ast.Module)
	if !ok {
		t.Fatalf("expected *ast.Module, got %T", tree)
	}
	block := mod.Body.(*ast.StatList).Stats[1].(*ast.TempsBlock)
	loop := block.Body.(*ast.ForInStat)
	body := loop.Body.(*ast.StatList)
	assigned := body.Stats[0].(*ast.SingleAssignment).LHS.(*ast.TempRef).Handle
	printed := body.Stats[1].(*ast.PrintStat).Args[1].(*ast.TempRef).Handle
	if assigned != block.Temps[0] || printed != block.Temps[0] {
		t.Fatalf("expected every reference to t0 to share one handle")
	}

	lines, err := codewriter.WriteCode(tree)
	if err != nil {
		t.Fatalf("WriteCode: %v", err)
	}
	want := []string{
		"import sys",
		"for i, x in enumerate(xs):",
		"    $0_0 = x * 2",
		"    print i, $0_0",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("unexpected lines\n got: %q\nwant: %q", lines, want)
	}
}

func TestLoadYAMLDeclarations(t *testing.T) {
	tree, err := fixtures.Load(filepath.Join("testdata", "point.pxd.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	lines, err := codewriter.WriteDeclarations(tree)
	if err != nil {
		t.Fatalf("WriteDeclarations: %v", err)
	}
	want := []string{
		`cdef extern from "point.h":`,
		"    ctypedef struct Point:",
		"        cdef double x, y",
		"cdef double norm(Point *p)",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("unexpected lines\n got: %q\nwant: %q", lines, want)
	}
}

func TestEncodeJSONRoundTrip(t *testing.T) {
	h := ast.NewTempHandle("tmp")
	ptrDef := ast.NewCVarDef(ast.NewCBasicType("int", ast.SignednessUnsigned, -1), ast.NewCPtrDeclarator(ast.NewCNameDeclarator("p", ast.NewNullLiteral())))
	ptrDef.Visibility = ast.VisibilityPublic
	tree := ast.NewModule(ast.NewStatList(
		ptrDef,
		ast.NewTempsBlock([]*ast.TempHandle{h}, ast.NewStatList(
			ast.NewSingleAssignment(ast.NewTempRef(h), ast.NewComparison("<", ast.NewName("a"), ast.NewName("b"), &ast.CmpLink{Operator: "<", Operand: ast.NewName("c")})),
			ast.NewIfStat([]*ast.IfClause{ast.NewIfClause(ast.NewTempRef(h), ast.NewStatList(ast.NewReturnStat(nil)))}, nil),
		)),
		ast.NewFromImportStat("os", &ast.ImportedName{Name: "path", Alias: "p"}),
	))

	before, err := codewriter.WriteCode(tree)
	if err != nil {
		t.Fatalf("WriteCode: %v", err)
	}
	data, err := fixtures.EncodeJSON(tree)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	decoded, err := fixtures.DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v\n%s", err, data)
	}
	after, err := codewriter.WriteCode(decoded)
	if err != nil {
		t.Fatalf("WriteCode(decoded): %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("round trip changed output\nbefore: %q\n after: %q", before, after)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown type", `{"type": "Lambda"}`, `unknown node type "Lambda"`},
		{"missing type", `{"name": "x"}`, "node without type"},
		{"missing child", `{"type": "ExprStat"}`, "$<ExprStat>.expr: missing"},
		{"wrong category", `{"type": "ExprStat", "expr": {"type": "PassStat"}}`, "expected expression, got PassStat"},
		{"bad list", `{"type": "StatList", "stats": {"type": "PassStat"}}`, "expected list"},
		{"bad handle", `{"type": "TempRef", "handle": 3}`, "expected temporary handle id"},
		{"trailing data", `{"type": "PassStat"} {}`, "trailing data"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fixtures.DecodeJSON([]byte(tc.doc))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := fixtures.Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
