package codewriter

import (
	"errors"
	"fmt"

	"cytree/writer-go/pkg/ast"
)

var (
	// ErrUnhandledNode matches every *CoverageError.
	ErrUnhandledNode = errors.New("node not handled by serializer")
	// ErrUnsupported matches every *UnsupportedError.
	ErrUnsupported = errors.New("unsupported construct")
)

// CoverageError reports a node for which no rule exists at any level of its
// kind's lineage.
type CoverageError struct {
	Kind ast.NodeType
	Node ast.Node
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("codewriter: node not handled by serializer: %s (%T)", e.Kind, e.Node)
}

func (e *CoverageError) Unwrap() error { return ErrUnhandledNode }

// UnsupportedError reports a recognised node carrying a field combination
// the serializer refuses to render.
type UnsupportedError struct {
	Kind      ast.NodeType
	Construct string
}

func (e *UnsupportedError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("codewriter: unsupported construct: %s", e.Construct)
	}
	return fmt.Sprintf("codewriter: unsupported construct in %s: %s", e.Kind, e.Construct)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

func unsupported(kind ast.NodeType, format string, args ...any) error {
	return &UnsupportedError{Kind: kind, Construct: fmt.Sprintf(format, args...)}
}
