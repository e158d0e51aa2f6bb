package codewriter

import "strings"

// LinesResult accumulates committed lines plus one line in progress.
type LinesResult struct {
	Lines []string

	current strings.Builder
}

// NewLinesResult returns an empty buffer.
func NewLinesResult() *LinesResult {
	return &LinesResult{}
}

// Put appends s to the line in progress.
func (r *LinesResult) Put(s string) {
	r.current.WriteString(s)
}

// Newline commits the line in progress, even when it is empty.
func (r *LinesResult) Newline() {
	r.Lines = append(r.Lines, r.current.String())
	r.current.Reset()
}

func (r *LinesResult) PutLine(s string) {
	r.Put(s)
	r.Newline()
}

// Pending returns the uncommitted text.
func (r *LinesResult) Pending() string {
	return r.current.String()
}

// String joins the committed lines with "\n".
func (r *LinesResult) String() string {
	return strings.Join(r.Lines, "\n")
}
