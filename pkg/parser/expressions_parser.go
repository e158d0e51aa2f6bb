package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"cytree/writer-go/pkg/ast"
)

func parseExpression(node *sitter.Node, source []byte) (ast.Expression, error) {
	if node == nil {
		return nil, errorAt(nil, "missing expression")
	}
	switch node.Kind() {
	case "identifier":
		return ast.NewName(sliceContent(node, source)), nil
	case "integer":
		return ast.NewIntLiteral(sliceContent(node, source)), nil
	case "float":
		return ast.NewFloatLiteral(sliceContent(node, source)), nil
	case "true":
		return ast.NewBoolLiteral(true), nil
	case "false":
		return ast.NewBoolLiteral(false), nil
	case "none":
		return ast.NewNoneLiteral(), nil
	case "string":
		return parseStringLiteral(node, source)
	case "parenthesized_expression":
		inner := firstNamedChild(node)
		if inner == nil {
			return nil, errorAt(node, "empty parentheses")
		}
		return parseExpression(inner, source)
	case "tuple", "expression_list", "pattern_list", "tuple_pattern":
		args, err := parseExpressionList(namedChildren(node), source)
		if err != nil {
			return nil, err
		}
		return ast.NewTupleDisplay(args...), nil
	case "list", "list_pattern":
		args, err := parseExpressionList(namedChildren(node), source)
		if err != nil {
			return nil, err
		}
		return ast.NewListDisplay(args...), nil
	case "not_operator":
		operand, err := parseExpression(node.ChildByFieldName("argument"), source)
		if err != nil {
			return nil, err
		}
		return ast.NewNotExpression(operand), nil
	case "unary_operator":
		return parseUnaryOperator(node, source)
	case "binary_operator", "boolean_operator":
		return parseBinaryOperator(node, source)
	case "comparison_operator":
		return parseComparison(node, source)
	case "attribute":
		obj, err := parseExpression(node.ChildByFieldName("object"), source)
		if err != nil {
			return nil, err
		}
		return ast.NewAttribute(obj, sliceContent(node.ChildByFieldName("attribute"), source)), nil
	case "subscript":
		return parseSubscript(node, source)
	case "call":
		return parseCall(node, source)
	default:
		return nil, unsupportedNode(node)
	}
}

// parseTarget parses an assignment or loop target. Bare tuple targets keep
// their tuple shape.
func parseTarget(node *sitter.Node, source []byte) (ast.Expression, error) {
	if node == nil {
		return nil, errorAt(nil, "missing target")
	}
	return parseExpression(node, source)
}

func parseExpressionList(nodes []*sitter.Node, source []byte) ([]ast.Expression, error) {
	out := make([]ast.Expression, 0, len(nodes))
	for _, n := range nodes {
		expr, err := parseExpression(n, source)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

// parseUnaryOperator only folds a sign into a numeric literal; other unary
// operators have no node kind.
func parseUnaryOperator(node *sitter.Node, source []byte) (ast.Expression, error) {
	op := sliceContent(node.ChildByFieldName("operator"), source)
	arg := node.ChildByFieldName("argument")
	if op != "-" || arg == nil {
		return nil, unsupportedNode(node)
	}
	switch arg.Kind() {
	case "integer":
		return ast.NewIntLiteral("-" + sliceContent(arg, source)), nil
	case "float":
		return ast.NewFloatLiteral("-" + sliceContent(arg, source)), nil
	default:
		return nil, unsupportedNode(node)
	}
}

func parseBinaryOperator(node *sitter.Node, source []byte) (ast.Expression, error) {
	left, err := parseExpression(node.ChildByFieldName("left"), source)
	if err != nil {
		return nil, err
	}
	right, err := parseExpression(node.ChildByFieldName("right"), source)
	if err != nil {
		return nil, err
	}
	op := sliceContent(node.ChildByFieldName("operator"), source)
	if op == "" {
		return nil, errorAt(node, "operator missing")
	}
	if node.Kind() == "boolean_operator" {
		return ast.NewBoolOperation(op, left, right), nil
	}
	return ast.NewBinaryOperation(op, left, right), nil
}

// parseComparison walks operands and operator tokens in order. Two-token
// operators such as "not in" are joined with a space.
func parseComparison(node *sitter.Node, source []byte) (ast.Expression, error) {
	var (
		operands  []ast.Expression
		operators []string
		pending   []string
	)
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || isIgnorableNode(child) {
			continue
		}
		if !child.IsNamed() {
			pending = append(pending, sliceContent(child, source))
			continue
		}
		if len(operands) > 0 {
			if len(pending) == 0 {
				return nil, errorAt(child, "comparison operand without operator")
			}
			operators = append(operators, strings.Join(pending, " "))
			pending = pending[:0]
		}
		expr, err := parseExpression(child, source)
		if err != nil {
			return nil, err
		}
		operands = append(operands, expr)
	}
	if len(operands) < 2 || len(operators) != len(operands)-1 {
		return nil, errorAt(node, "malformed comparison")
	}
	cascade := make([]*ast.CmpLink, 0, len(operands)-2)
	for i := 2; i < len(operands); i++ {
		cascade = append(cascade, &ast.CmpLink{Operator: operators[i-1], Operand: operands[i]})
	}
	return ast.NewComparison(operators[0], operands[0], operands[1], cascade...), nil
}

func parseSubscript(node *sitter.Node, source []byte) (ast.Expression, error) {
	base, err := parseExpression(node.ChildByFieldName("value"), source)
	if err != nil {
		return nil, err
	}
	children := namedChildren(node)
	if len(children) != 2 {
		return nil, errorAt(node, "only single subscripts are supported")
	}
	if children[1].Kind() == "slice" {
		return nil, unsupportedNode(children[1])
	}
	index, err := parseExpression(children[1], source)
	if err != nil {
		return nil, err
	}
	return ast.NewIndex(base, index), nil
}

// parseCall yields a simple call for positional arguments and a general call
// for any splat or keyword argument.
func parseCall(node *sitter.Node, source []byte) (ast.Expression, error) {
	fn, err := parseExpression(node.ChildByFieldName("function"), source)
	if err != nil {
		return nil, err
	}
	argsNode := node.ChildByFieldName("arguments")
	if argsNode == nil || argsNode.Kind() != "argument_list" {
		return nil, errorAt(node, "unsupported call arguments")
	}

	var (
		positional  []ast.Expression
		starArg     ast.Expression
		keywords    []*ast.KeywordArgument
		starStarArg ast.Expression
		general     bool
	)
	for _, child := range namedChildren(argsNode) {
		switch child.Kind() {
		case "list_splat":
			general = true
			if starArg, err = parseExpression(firstNamedChild(child), source); err != nil {
				return nil, err
			}
		case "dictionary_splat":
			general = true
			if starStarArg, err = parseExpression(firstNamedChild(child), source); err != nil {
				return nil, err
			}
		case "keyword_argument":
			general = true
			value, err := parseExpression(child.ChildByFieldName("value"), source)
			if err != nil {
				return nil, err
			}
			keywords = append(keywords, ast.NewKeywordArgument(sliceContent(child.ChildByFieldName("name"), source), value))
		default:
			expr, err := parseExpression(child, source)
			if err != nil {
				return nil, err
			}
			positional = append(positional, expr)
		}
	}
	if !general {
		return ast.NewSimpleCall(fn, positional...), nil
	}
	return ast.NewGeneralCall(fn, positional, starArg, keywords, starStarArg), nil
}
