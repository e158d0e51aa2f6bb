package codewriter

import (
	"testing"

	"cytree/writer-go/pkg/ast"
)

func TestQuoteText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "''"},
		{"plain", "'plain'"},
		{"it's", `"it's"`},
		{`say "hi"`, `'say "hi"'`},
		{`both ' and "`, `'both \' and "'`},
		{"tab\there", `'tab\there'`},
		{`back\slash`, `'back\\slash'`},
		{"bell\a", `'bell\x07'`},
		{"naïve", "'naïve'"},
		{" ", `' '`},
		{"\U000e0001", `'\U000e0001'`},
	}
	for _, tc := range cases {
		if got := quoteText(tc.in); got != tc.want {
			t.Errorf("quoteText(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestQuoteBytes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"abc", "'abc'"},
		{"\x00\x7f", `'\x00\x7f'`},
		{"caf\xc3\xa9", `'caf\xc3\xa9'`},
		{"it's", `"it's"`},
		{"\r\n", `'\r\n'`},
	}
	for _, tc := range cases {
		if got := quoteBytes(tc.in); got != tc.want {
			t.Errorf("quoteBytes(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestResolvePrefersKindOverCategory(t *testing.T) {
	pass := ast.NewPassStat()
	if _, ok := pxdRules.resolve(pass); !ok {
		t.Fatalf("expected a rule for PassStat")
	}
	lines, err := WriteDeclarations(ast.NewStatList(pass, ast.NewExprStat(ast.NewName("x"))))
	if err != nil {
		t.Fatalf("WriteDeclarations: %v", err)
	}
	if len(lines) != 1 || lines[0] != "pass" {
		t.Fatalf("expected kind rule to win over statement skip, got %q", lines)
	}
}

func TestDerivedRuleSetsDoNotLeak(t *testing.T) {
	stat := ast.NewExprStat(ast.NewName("x"))
	if _, ok := declarationRules.resolve(stat); ok {
		t.Fatalf("declaration rules must not see rules added by derived writers")
	}
	if _, ok := codeRules.resolve(stat); !ok {
		t.Fatalf("code rules should handle ExprStat")
	}
}

func TestEveryKnownNodeResolvesInCodeWriter(t *testing.T) {
	for kind := range lineageKinds() {
		if _, ok := codeRules.byKind[kind]; ok {
			continue
		}
		found := false
		for _, cat := range ast.Lineage(kind) {
			if _, ok := codeRules.byCategory[cat]; ok {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("code writer has no rule for %s", kind)
		}
	}
}

func lineageKinds() map[ast.NodeType]struct{} {
	out := make(map[ast.NodeType]struct{})
	for _, kind := range ast.AllNodeTypes() {
		switch kind {
		case ast.NodeIfClause, ast.NodeKeywordArgument:
			// Rendered by their owners.
			continue
		}
		out[kind] = struct{}{}
	}
	return out
}
