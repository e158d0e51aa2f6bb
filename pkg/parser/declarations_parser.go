package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"cytree/writer-go/pkg/ast"
)

func parseDecoratedDefinition(node *sitter.Node, source []byte) (ast.Statement, error) {
	var decorators []*ast.Decorator
	for _, child := range namedChildren(node) {
		if child.Kind() != "decorator" {
			continue
		}
		expr, err := parseExpression(firstNamedChild(child), source)
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, ast.NewDecorator(expr))
	}
	def := node.ChildByFieldName("definition")
	if def == nil {
		return nil, errorAt(node, "decorator without definition")
	}
	switch def.Kind() {
	case "function_definition":
		return parseFunctionDefinition(def, decorators, source)
	case "class_definition":
		return parseClassDefinition(def, decorators, source)
	default:
		return nil, unsupportedNode(def)
	}
}

func parseFunctionDefinition(node *sitter.Node, decorators []*ast.Decorator, source []byte) (ast.Statement, error) {
	if strings.HasPrefix(sliceContent(node, source), "async") {
		return nil, errorAt(node, "async functions are not supported")
	}
	if node.ChildByFieldName("return_type") != nil {
		return nil, errorAt(node, "return annotations are not supported")
	}
	name := sliceContent(node.ChildByFieldName("name"), source)
	body, err := parseBody(node, "body", source)
	if err != nil {
		return nil, err
	}
	fn := ast.NewDefFunction(name, nil, body)
	fn.Decorators = decorators
	if err := parseParameters(node.ChildByFieldName("parameters"), fn, source); err != nil {
		return nil, err
	}
	return fn, nil
}

// parseParameters fills the positional, *args and **kwargs parameters of fn.
func parseParameters(node *sitter.Node, fn *ast.DefFunction, source []byte) error {
	for _, param := range namedChildren(node) {
		switch param.Kind() {
		case "identifier":
			fn.Args = append(fn.Args, ast.NewPyArg(sliceContent(param, source), nil))
		case "default_parameter":
			def, err := parseExpression(param.ChildByFieldName("value"), source)
			if err != nil {
				return err
			}
			fn.Args = append(fn.Args, ast.NewPyArg(sliceContent(param.ChildByFieldName("name"), source), def))
		case "list_splat_pattern":
			fn.StarArg = ast.NewName(sliceContent(firstNamedChild(param), source))
		case "dictionary_splat_pattern":
			fn.StarStarArg = ast.NewName(sliceContent(firstNamedChild(param), source))
		default:
			return unsupportedNode(param)
		}
	}
	return nil
}

func parseClassDefinition(node *sitter.Node, decorators []*ast.Decorator, source []byte) (ast.Statement, error) {
	name := sliceContent(node.ChildByFieldName("name"), source)
	var bases []ast.Expression
	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		var err error
		if bases, err = parseExpressionList(namedChildren(supers), source); err != nil {
			return nil, err
		}
	}
	body, err := parseBody(node, "body", source)
	if err != nil {
		return nil, err
	}
	def := ast.NewPyClassDef(name, bases, body)
	def.Decorators = decorators
	return def, nil
}
