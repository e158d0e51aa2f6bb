package parser_test

import (
	"reflect"
	"strings"
	"testing"

	"cytree/writer-go/pkg/ast"
	"cytree/writer-go/pkg/codewriter"
	"cytree/writer-go/pkg/parser"
)

func newParser(t *testing.T) *parser.ModuleParser {
	t.Helper()
	mp, err := parser.NewModuleParser()
	if err != nil {
		t.Fatalf("NewModuleParser: %v", err)
	}
	t.Cleanup(func() { mp.Close() })
	return mp
}

func TestParseModuleBuildsStatements(t *testing.T) {
	mp := newParser(t)
	mod, err := mp.ParseModule([]byte("# leading comment\nx = 1\nprint x,\n"))
	if err != nil {
		t.Fatalf("ParseModule returned error: %v", err)
	}
	body, ok := mod.Body.(*ast.StatList)
	if !ok {
		t.Fatalf("expected StatList body, got %T", mod.Body)
	}
	if len(body.Stats) != 2 {
		t.Fatalf("expected two statements, got %d", len(body.Stats))
	}
	assign, ok := body.Stats[0].(*ast.SingleAssignment)
	if !ok {
		t.Fatalf("expected SingleAssignment, got %T", body.Stats[0])
	}
	if name, ok := assign.LHS.(*ast.Name); !ok || name.Name != "x" {
		t.Fatalf("unexpected assignment target %#v", assign.LHS)
	}
	ps, ok := body.Stats[1].(*ast.PrintStat)
	if !ok || !ps.SuppressNewline {
		t.Fatalf("expected print with suppressed newline, got %#v", body.Stats[1])
	}
}

func TestParseModuleRejectsSyntaxErrors(t *testing.T) {
	mp := newParser(t)
	if _, err := mp.ParseModule([]byte("if x\n    pass\n")); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestParseModuleRejectsUnsupportedNodes(t *testing.T) {
	mp := newParser(t)
	for _, src := range []string{
		"lambda x: x\n",
		"x[1:2]\n",
		"print >>f, x\n",
		"from . import x\n",
		"r'raw'\n",
	} {
		if _, err := mp.ParseModule([]byte(src)); err == nil {
			t.Errorf("expected %q to be rejected", src)
		}
	}
}

// The writer's output must parse back into a tree that writes identically.
func TestRoundTripIsStable(t *testing.T) {
	sources := map[string]string{
		"assignments": `a = 1
a = b = c
x += 2
y <<= n
`,
		"control flow": `for i, x in enumerate(xs):
    if x < 0:
        continue
    elif 0 <= x < 10:
        print i, x
    else:
        break
else:
    pass
while not done:
    step()
`,
		"exceptions": `try:
    risky()
except ValueError, e:
    raise
except:
    pass
else:
    ok()
try:
    work()
finally:
    release()
raise E, v
raise E from cause
`,
		"expressions": `x = (a + b).real
y = s.strip()
z = [1, 2, (3,)]
w = f(*args)
v = d[k]
u = u'caf\xe9'
t = b'\x00\n'
q = 'it\'s'
e = 'bell\x07\x85 snow\u2603'
r = (a + b) * c - d
g = (a < b) and not c
n = None
m = -1
`,
		"definitions": `import os
import numpy as np
from os.path import join, exists as ex
@decorate
def f(a, b = 1, *args, **kwargs):
    return a
class Plain(object):
    pass
with open(p) as fh:
    assert fh, 'closed'
`,
	}
	mp := newParser(t)
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			first, err := mp.ParseModule([]byte(src))
			if err != nil {
				t.Fatalf("ParseModule: %v", err)
			}
			written, err := codewriter.WriteCode(first)
			if err != nil {
				t.Fatalf("WriteCode: %v", err)
			}
			second, err := mp.ParseModule([]byte(strings.Join(written, "\n") + "\n"))
			if err != nil {
				t.Fatalf("re-parse of %q: %v", written, err)
			}
			rewritten, err := codewriter.WriteCode(second)
			if err != nil {
				t.Fatalf("WriteCode(second): %v", err)
			}
			if !reflect.DeepEqual(written, rewritten) {
				t.Fatalf("round trip not stable\nfirst:  %q\nsecond: %q", written, rewritten)
			}
		})
	}
}

func TestParsedComparisonCascade(t *testing.T) {
	mod, err := parser.ParseModule([]byte("a < b not in c\n"))
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	stat := mod.Body.(*ast.StatList).Stats[0].(*ast.ExprStat)
	cmp, ok := stat.Expr.(*ast.Comparison)
	if !ok {
		t.Fatalf("expected Comparison, got %T", stat.Expr)
	}
	if cmp.Operator != "<" || len(cmp.Cascade) != 1 || cmp.Cascade[0].Operator != "not in" {
		t.Fatalf("unexpected comparison %#v", cmp)
	}
	lines, err := codewriter.WriteCode(mod)
	if err != nil {
		t.Fatalf("WriteCode: %v", err)
	}
	if len(lines) != 1 || lines[0] != "a < b not in c" {
		t.Fatalf("unexpected lines %q", lines)
	}
}
