// Package codewriter serializes a typed AST back to source lines.
//
// Three writers share one dispatch engine: the declaration writer knows
// declaration-shaped constructs, the code writer adds every executable
// statement and expression, and the pxd writer restricts the declaration
// writer to an interface view without bodies or inline functions.
package codewriter

import (
	"fmt"
	"strings"

	"cytree/writer-go/pkg/ast"
)

const DefaultIndent = "    "

type Options struct {
	// Indent is the unit repeated once per nesting level.
	Indent string
}

// Writer walks one tree and collects its lines. A Writer is not safe for
// concurrent use; each Write starts from fresh state.
type Writer struct {
	rules  *ruleSet
	indent string

	result         *LinesResult
	numIndents     int
	tempNames      map[*ast.TempHandle]string
	tempBlockIndex int
	err            error
}

func newWriter(rules *ruleSet, opts Options) *Writer {
	indent := opts.Indent
	if indent == "" {
		indent = DefaultIndent
	}
	return &Writer{rules: rules, indent: indent}
}

// NewDeclarationWriter renders declaration-shaped constructs only.
func NewDeclarationWriter(opts Options) *Writer {
	return newWriter(declarationRules, opts)
}

// NewCodeWriter renders complete executable source.
func NewCodeWriter(opts Options) *Writer {
	return newWriter(codeRules, opts)
}

// NewPxdWriter renders signatures and type declarations, suppressing bodies
// and inline functions.
func NewPxdWriter(opts Options) *Writer {
	return newWriter(pxdRules, opts)
}

// WriteCode is shorthand for a default code writer.
func WriteCode(tree ast.Node) ([]string, error) {
	res, err := NewCodeWriter(Options{}).Write(tree)
	if err != nil {
		return nil, err
	}
	return res.Lines, nil
}

// WriteDeclarations is shorthand for a default pxd writer.
func WriteDeclarations(tree ast.Node) ([]string, error) {
	res, err := NewPxdWriter(Options{}).Write(tree)
	if err != nil {
		return nil, err
	}
	return res.Lines, nil
}

// Write serializes tree. On error no result is returned; whatever had been
// produced is discarded.
func (w *Writer) Write(tree ast.Node) (*LinesResult, error) {
	w.result = NewLinesResult()
	w.numIndents = 0
	w.tempNames = make(map[*ast.TempHandle]string)
	w.tempBlockIndex = 0
	w.err = nil

	if err := w.visit(tree); err != nil {
		return nil, err
	}
	if pending := w.result.Pending(); pending != "" {
		return nil, fmt.Errorf("codewriter: unterminated line %q", pending)
	}
	return w.result, nil
}

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return w.err
}

func (w *Writer) visit(n ast.Node) error {
	if w.err != nil {
		return w.err
	}
	if n == nil {
		return w.fail(fmt.Errorf("codewriter: nil node"))
	}
	r, ok := w.rules.resolve(n)
	if !ok {
		return w.fail(&CoverageError{Kind: n.NodeType(), Node: n})
	}
	depth := w.numIndents
	if err := r(w, n); err != nil {
		return w.fail(err)
	}
	if w.numIndents != depth {
		return w.fail(fmt.Errorf("codewriter: %s left indentation at %d, entered at %d", n.NodeType(), w.numIndents, depth))
	}
	return w.err
}

// Line assembly

func (w *Writer) startLine(s string) {
	w.put(strings.Repeat(w.indent, w.numIndents) + s)
}

func (w *Writer) put(s string) {
	if strings.ContainsAny(s, "\r\n") {
		w.fail(&UnsupportedError{Construct: fmt.Sprintf("line break inside rendered text %q", s)})
		return
	}
	w.result.Put(s)
}

func (w *Writer) putLine(s string) {
	w.startLine(s)
	w.result.Newline()
}

func (w *Writer) endLine(s string) {
	w.put(s)
	w.result.Newline()
}

func (w *Writer) line(s string) {
	w.startLine(s)
	w.endLine("")
}

// block renders body one level deeper. A body that produces no lines, such
// as a class whose members the pxd rules all suppress, becomes "pass".
func (w *Writer) block(body ast.Node) error {
	w.numIndents++
	before := len(w.result.Lines)
	err := w.visit(body)
	if err == nil && len(w.result.Lines) == before {
		w.line("pass")
	}
	w.numIndents--
	return err
}

// clause renders "header:" followed by the indented body.
func (w *Writer) clause(header string, body ast.Node) error {
	w.line(header + ":")
	return w.block(body)
}

type defaulted interface {
	DefaultValue() ast.Expression
}

// emitList visits items separated by ", ". With withDefaults, items that
// carry a default are followed by " = " and the default.
func emitList[T ast.Node](w *Writer, items []T, withDefaults bool) error {
	for i, item := range items {
		if i > 0 {
			w.put(", ")
		}
		if err := w.visit(item); err != nil {
			return err
		}
		if !withDefaults {
			continue
		}
		if d, ok := any(item).(defaulted); ok {
			if def := d.DefaultValue(); def != nil {
				w.put(" = ")
				if err := w.visit(def); err != nil {
					return err
				}
			}
		}
	}
	return w.err
}
