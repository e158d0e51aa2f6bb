package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"cytree/writer-go/pkg/ast"
)

// parseStatement maps one statement node. Multi-name imports expand to
// several statements, so the result is a slice.
func parseStatement(node *sitter.Node, source []byte) ([]ast.Statement, error) {
	one := func(stmt ast.Statement, err error) ([]ast.Statement, error) {
		if err != nil {
			return nil, err
		}
		return []ast.Statement{stmt}, nil
	}

	switch node.Kind() {
	case "expression_statement":
		return one(parseExpressionStatement(node, source))
	case "print_statement":
		return one(parsePrintStatement(node, source))
	case "for_statement":
		return one(parseForStatement(node, source))
	case "if_statement":
		return one(parseIfStatement(node, source))
	case "while_statement":
		return one(parseWhileStatement(node, source))
	case "with_statement":
		return one(parseWithStatement(node, source))
	case "try_statement":
		return one(parseTryStatement(node, source))
	case "return_statement":
		return one(parseReturnStatement(node, source))
	case "raise_statement":
		return one(parseRaiseStatement(node, source))
	case "assert_statement":
		return one(parseAssertStatement(node, source))
	case "pass_statement":
		return []ast.Statement{ast.NewPassStat()}, nil
	case "break_statement":
		return []ast.Statement{ast.NewBreakStat()}, nil
	case "continue_statement":
		return []ast.Statement{ast.NewContinueStat()}, nil
	case "import_statement":
		return parseImportStatement(node, source)
	case "import_from_statement":
		return one(parseImportFromStatement(node, source))
	case "function_definition":
		return one(parseFunctionDefinition(node, nil, source))
	case "class_definition":
		return one(parseClassDefinition(node, nil, source))
	case "decorated_definition":
		return one(parseDecoratedDefinition(node, source))
	default:
		return nil, unsupportedNode(node)
	}
}

func parseExpressionStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	children := namedChildren(node)
	if len(children) != 1 {
		return nil, errorAt(node, "expected a single expression statement")
	}
	inner := children[0]
	switch inner.Kind() {
	case "assignment":
		return parseAssignment(inner, source)
	case "augmented_assignment":
		return parseAugmentedAssignment(inner, source)
	}
	expr, err := parseExpression(inner, source)
	if err != nil {
		return nil, err
	}
	return ast.NewExprStat(expr), nil
}

// parseAssignment folds "a = b = 1", nested right-recursively by the
// grammar, into single or cascaded assignment.
func parseAssignment(node *sitter.Node, source []byte) (ast.Statement, error) {
	var targets []ast.Expression
	current := node
	for current != nil && current.Kind() == "assignment" {
		if current.ChildByFieldName("type") != nil {
			return nil, errorAt(current, "annotated assignment is not supported")
		}
		lhs, err := parseTarget(current.ChildByFieldName("left"), source)
		if err != nil {
			return nil, err
		}
		targets = append(targets, lhs)
		current = current.ChildByFieldName("right")
	}
	if current == nil {
		return nil, errorAt(node, "assignment missing value")
	}
	rhs, err := parseExpression(current, source)
	if err != nil {
		return nil, err
	}
	if len(targets) == 1 {
		return ast.NewSingleAssignment(targets[0], rhs), nil
	}
	return ast.NewCascadedAssignment(targets, rhs), nil
}

func parseAugmentedAssignment(node *sitter.Node, source []byte) (ast.Statement, error) {
	lhs, err := parseTarget(node.ChildByFieldName("left"), source)
	if err != nil {
		return nil, err
	}
	rhs, err := parseExpression(node.ChildByFieldName("right"), source)
	if err != nil {
		return nil, err
	}
	op := strings.TrimSuffix(sliceContent(node.ChildByFieldName("operator"), source), "=")
	if op == "" {
		return nil, errorAt(node, "augmented assignment missing operator")
	}
	return ast.NewInPlaceAssignment(op, lhs, rhs), nil
}

func parsePrintStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	args := make([]ast.Expression, 0)
	for _, child := range namedChildren(node) {
		if child.Kind() == "chevron" {
			return nil, errorAt(child, "print redirection is not supported")
		}
		expr, err := parseExpression(child, source)
		if err != nil {
			return nil, err
		}
		args = append(args, expr)
	}
	return ast.NewPrintStat(args, hasTrailingToken(node, ",")), nil
}

func parseForStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	target, err := parseTarget(node.ChildByFieldName("left"), source)
	if err != nil {
		return nil, err
	}
	seq, err := parseExpression(node.ChildByFieldName("right"), source)
	if err != nil {
		return nil, err
	}
	body, err := parseBody(node, "body", source)
	if err != nil {
		return nil, err
	}
	elseClause, err := parseElseField(node, source)
	if err != nil {
		return nil, err
	}
	return ast.NewForInStat(target, seq, body, elseClause), nil
}

// parseElseField reads the else clause stored under the "alternative" field
// of loops.
func parseElseField(node *sitter.Node, source []byte) (ast.Statement, error) {
	alt := node.ChildByFieldName("alternative")
	if alt == nil {
		return nil, nil
	}
	body, err := parseBody(alt, "body", source)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func parseIfStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	cond, err := parseExpression(node.ChildByFieldName("condition"), source)
	if err != nil {
		return nil, err
	}
	body, err := parseBody(node, "consequence", source)
	if err != nil {
		return nil, err
	}
	clauses := []*ast.IfClause{ast.NewIfClause(cond, body)}
	for _, child := range namedChildren(node) {
		if child.Kind() != "elif_clause" {
			continue
		}
		cond, err := parseExpression(child.ChildByFieldName("condition"), source)
		if err != nil {
			return nil, err
		}
		body, err := parseBody(child, "consequence", source)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, ast.NewIfClause(cond, body))
	}
	elseClause, err := parseElse(node, source)
	if err != nil {
		return nil, err
	}
	return ast.NewIfStat(clauses, elseClause), nil
}

func parseWhileStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	cond, err := parseExpression(node.ChildByFieldName("condition"), source)
	if err != nil {
		return nil, err
	}
	body, err := parseBody(node, "body", source)
	if err != nil {
		return nil, err
	}
	elseClause, err := parseElseField(node, source)
	if err != nil {
		return nil, err
	}
	return ast.NewWhileStat(cond, body, elseClause), nil
}

func parseWithStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	var clause *sitter.Node
	for _, child := range namedChildren(node) {
		if child.Kind() == "with_clause" {
			clause = child
		}
	}
	items := namedChildren(clause)
	if len(items) != 1 {
		return nil, errorAt(node, "with statement needs exactly one item")
	}
	value := items[0].ChildByFieldName("value")
	if value == nil {
		value = firstNamedChild(items[0])
	}
	if value == nil {
		return nil, errorAt(items[0], "with item missing value")
	}

	var manager, target ast.Expression
	var err error
	if value.Kind() == "as_pattern" {
		parts := namedChildren(value)
		if len(parts) != 2 {
			return nil, errorAt(value, "malformed as pattern")
		}
		if manager, err = parseExpression(parts[0], source); err != nil {
			return nil, err
		}
		alias := parts[1]
		if alias.Kind() == "as_pattern_target" {
			alias = firstNamedChild(alias)
		}
		if target, err = parseTarget(alias, source); err != nil {
			return nil, err
		}
	} else if manager, err = parseExpression(value, source); err != nil {
		return nil, err
	}

	body, err := parseBody(node, "body", source)
	if err != nil {
		return nil, err
	}
	return ast.NewWithStat(manager, target, body), nil
}

func parseTryStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	body, err := parseBody(node, "body", source)
	if err != nil {
		return nil, err
	}
	var (
		clauses    []*ast.ExceptClause
		elseClause ast.Statement
		finally    ast.Statement
	)
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "except_clause":
			clause, err := parseExceptClause(child, source)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, clause)
		case "else_clause":
			if elseClause, err = parseBody(child, "body", source); err != nil {
				return nil, err
			}
		case "finally_clause":
			block := firstBlock(child)
			if block == nil {
				return nil, errorAt(child, "finally clause missing body")
			}
			if finally, err = parseBlock(block, source); err != nil {
				return nil, err
			}
		case "except_group_clause":
			return nil, unsupportedNode(child)
		}
	}

	if finally == nil {
		return ast.NewTryExceptStat(body, clauses, elseClause), nil
	}
	if len(clauses) == 0 && elseClause == nil {
		return ast.NewTryFinallyStat(body, finally), nil
	}
	inner := ast.NewTryExceptStat(body, clauses, elseClause)
	return ast.NewTryFinallyStat(ast.NewStatList(inner), finally), nil
}

func firstBlock(node *sitter.Node) *sitter.Node {
	for _, child := range namedChildren(node) {
		if child.Kind() == "block" {
			return child
		}
	}
	return nil
}

// parseExceptClause accepts "except", "except E", "except E, e" and
// "except E as e".
func parseExceptClause(node *sitter.Node, source []byte) (*ast.ExceptClause, error) {
	var (
		exprs []ast.Expression
		block *sitter.Node
	)
	for _, child := range namedChildren(node) {
		if child.Kind() == "block" {
			block = child
			continue
		}
		if child.Kind() == "as_pattern" {
			parts := namedChildren(child)
			if len(parts) != 2 {
				return nil, errorAt(child, "malformed as pattern")
			}
			pattern, err := parseExpression(parts[0], source)
			if err != nil {
				return nil, err
			}
			alias := parts[1]
			if alias.Kind() == "as_pattern_target" {
				alias = firstNamedChild(alias)
			}
			target, err := parseTarget(alias, source)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, pattern, target)
			continue
		}
		expr, err := parseExpression(child, source)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	if block == nil {
		return nil, errorAt(node, "except clause missing body")
	}
	if len(exprs) > 2 {
		return nil, errorAt(node, "except clause has too many operands")
	}
	body, err := parseBlock(block, source)
	if err != nil {
		return nil, err
	}
	var pattern, target ast.Expression
	if len(exprs) > 0 {
		pattern = exprs[0]
	}
	if len(exprs) > 1 {
		target = exprs[1]
	}
	return ast.NewExceptClause(pattern, target, body), nil
}

func parseReturnStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	value := firstNamedChild(node)
	if value == nil {
		return ast.NewReturnStat(nil), nil
	}
	expr, err := parseExpression(value, source)
	if err != nil {
		return nil, err
	}
	return ast.NewReturnStat(expr), nil
}

// parseRaiseStatement handles the bare form, "raise T", the legacy
// "raise T, V[, TB]" form and "raise T from C".
func parseRaiseStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	causeNode := node.ChildByFieldName("cause")
	var operands []*sitter.Node
	for _, child := range namedChildren(node) {
		if causeNode != nil && child.StartByte() == causeNode.StartByte() && child.EndByte() == causeNode.EndByte() {
			continue
		}
		if child.Kind() == "expression_list" {
			operands = append(operands, namedChildren(child)...)
			continue
		}
		operands = append(operands, child)
	}
	if len(operands) == 0 {
		if causeNode != nil {
			return nil, errorAt(node, "raise cause without exception")
		}
		return ast.NewReraiseStat(), nil
	}
	if len(operands) > 3 {
		return nil, errorAt(node, "raise takes at most three operands")
	}
	exprs := make([]ast.Expression, 3)
	for i, operand := range operands {
		expr, err := parseExpression(operand, source)
		if err != nil {
			return nil, err
		}
		exprs[i] = expr
	}
	var cause ast.Expression
	if causeNode != nil {
		expr, err := parseExpression(causeNode, source)
		if err != nil {
			return nil, err
		}
		cause = expr
	}
	return ast.NewRaiseStat(exprs[0], exprs[1], exprs[2], cause), nil
}

func parseAssertStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	children := namedChildren(node)
	if len(children) == 0 || len(children) > 2 {
		return nil, errorAt(node, "assert takes one or two operands")
	}
	cond, err := parseExpression(children[0], source)
	if err != nil {
		return nil, err
	}
	var msg ast.Expression
	if len(children) == 2 {
		if msg, err = parseExpression(children[1], source); err != nil {
			return nil, err
		}
	}
	return ast.NewAssertStat(cond, msg), nil
}

func parseImportStatement(node *sitter.Node, source []byte) ([]ast.Statement, error) {
	children := namedChildren(node)
	stats := make([]ast.Statement, 0, len(children))
	for _, child := range children {
		name, err := parseImportedName(child, source)
		if err != nil {
			return nil, err
		}
		stats = append(stats, ast.NewImportStat(name.Name, name.Alias))
	}
	return stats, nil
}

func parseImportFromStatement(node *sitter.Node, source []byte) (ast.Statement, error) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return nil, errorAt(node, "from-import missing module")
	}
	if moduleNode.Kind() == "relative_import" {
		return nil, errorAt(moduleNode, "relative imports are not supported")
	}
	names := make([]*ast.ImportedName, 0)
	for _, child := range namedChildren(node) {
		if child.StartByte() == moduleNode.StartByte() {
			continue
		}
		if child.Kind() == "wildcard_import" {
			return nil, errorAt(child, "wildcard imports are not supported")
		}
		name, err := parseImportedName(child, source)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return ast.NewFromImportStat(sliceContent(moduleNode, source), names...), nil
}

func parseImportedName(node *sitter.Node, source []byte) (*ast.ImportedName, error) {
	switch node.Kind() {
	case "dotted_name":
		return &ast.ImportedName{Name: sliceContent(node, source)}, nil
	case "aliased_import":
		name := node.ChildByFieldName("name")
		alias := node.ChildByFieldName("alias")
		if name == nil || alias == nil {
			return nil, errorAt(node, "malformed aliased import")
		}
		return &ast.ImportedName{Name: sliceContent(name, source), Alias: sliceContent(alias, source)}, nil
	default:
		return nil, unsupportedNode(node)
	}
}
