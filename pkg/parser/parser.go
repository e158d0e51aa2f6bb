// Package parser reads the executable subset of the target syntax back into
// pkg/ast trees. It exists to check that written code parses to an
// equivalent tree; declaration-only constructs are not recognised.
package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"cytree/writer-go/pkg/ast"
	"cytree/writer-go/pkg/parser/language"
)

// ModuleParser wraps a tree-sitter parser configured for Python sources.
type ModuleParser struct {
	parser *sitter.Parser
}

// NewModuleParser constructs a parser with the grammar loaded.
func NewModuleParser() (*ModuleParser, error) {
	lang := language.Python()
	if lang == nil {
		return nil, fmt.Errorf("parser: python language not available")
	}

	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}

	return &ModuleParser{parser: p}, nil
}

// Close releases parser resources.
func (p *ModuleParser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
}

// ParseModule parses source into a module whose body is a statement list.
func (p *ModuleParser) ParseModule(source []byte) (*ast.Module, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}

	tree := p.parser.Parse(source, nil)
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.Kind() != "module" {
		return nil, fmt.Errorf("parser: unexpected root node")
	}
	if root.HasError() {
		return nil, fmt.Errorf("parser: syntax errors present")
	}

	body, err := parseBlock(root, source)
	if err != nil {
		return nil, err
	}
	return ast.NewModule(body), nil
}

// ParseModule is shorthand for a one-off parser.
func ParseModule(source []byte) (*ast.Module, error) {
	p, err := NewModuleParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ParseModule(source)
}

// parseBlock collects the statements of a module or block node.
func parseBlock(node *sitter.Node, source []byte) (*ast.StatList, error) {
	stats := make([]ast.Statement, 0)
	for _, child := range namedChildren(node) {
		parsed, err := parseStatement(child, source)
		if err != nil {
			return nil, err
		}
		stats = append(stats, parsed...)
	}
	return ast.NewStatList(stats...), nil
}

// parseBody parses the block named by field, or an empty list when the
// clause is absent.
func parseBody(node *sitter.Node, field string, source []byte) (*ast.StatList, error) {
	block := node.ChildByFieldName(field)
	if block == nil {
		return nil, errorAt(node, "%s missing %s", node.Kind(), field)
	}
	return parseBlock(block, source)
}

// parseElse returns the body of an else_clause child, or nil.
func parseElse(node *sitter.Node, source []byte) (ast.Statement, error) {
	for _, child := range namedChildren(node) {
		if child.Kind() != "else_clause" {
			continue
		}
		body, err := parseBody(child, "body", source)
		if err != nil {
			return nil, err
		}
		return body, nil
	}
	return nil, nil
}
