// parser.go — precedence-climbing parser over the token queue.
//
// OVERVIEW
// --------
// The parser turns the token stream into an ordered list of statement
// expressions. Infix operators are handled by precedence climbing:
// expression(min) parses one prefix term, then keeps folding infix operators
// whose precedence exceeds min, recursing at the operator's own level. That
// yields left-associative trees with correct binding and no backtracking.
//
// Precedence names are an ordered list; an operator's level is the position
// of its name in that list (+1 so LOWEST is 1). Rearranging precedences means
// editing the list, never renumbering.
//
// The first structural violation aborts parsing with a *ParseError carrying
// the offending line and an expected-vs-actual message. There is no recovery
// and no partial AST.
package boomerang

import (
	"fmt"
	"strconv"
)

// Precedence names, lowest first.
const (
	LOWEST   = "LOWEST"
	PASSIGN  = "ASSIGN"
	COMPARE  = "COMPARE"
	SUM      = "SUM"
	PRODUCT  = "PRODUCT"
	EXPONENT = "EXPONENT"
	SEND     = "SEND"
)

var precedences = []string{
	LOWEST,
	PASSIGN,
	COMPARE,
	SUM,
	PRODUCT,
	EXPONENT,
	SEND,
}

var infixPrecedence = map[TokenType]string{
	POINTER:  SEND,
	INDEX:    SEND,
	PLUS:     SUM,
	MINUS:    SUM,
	BANG:     SUM,
	OR:       SUM,
	AND:      SUM,
	XOR:      SUM,
	MULTIPLY: PRODUCT,
	DIVIDE:   PRODUCT,
	MOD:      PRODUCT,
	POW:      EXPONENT,
	EQ:       COMPARE,
	NE:       COMPARE,
	LT:       COMPARE,
	LE:       COMPARE,
	GT:       COMPARE,
	GE:       COMPARE,
	IN:       COMPARE,
}

// ParseError is a syntax error. Parsing aborts on the first one.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at line %d: %s", e.Line, e.Msg)
}

func unexpectedToken(line int, expected TokenType, actual Token) error {
	return &ParseError{
		Line: line,
		Msg:  fmt.Sprintf("expected %s (%q), got %s (%q)", expected, tokenLiterals[expected], actual.Type, actual.Literal),
	}
}

// Parser consumes a TokenQueue and produces the statement list.
type Parser struct {
	tokens *TokenQueue
}

func NewParser(tokens *TokenQueue) *Parser {
	return &Parser{tokens: tokens}
}

// Parse reads statements until EOF. Every statement must be terminated with a
// SEMICOLON token.
func (p *Parser) Parse() ([]Expression, error) {
	var statements []Expression
	for p.current().Type != EOF {
		expr, err := p.expression(LOWEST)
		if err != nil {
			return nil, err
		}
		if err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		p.advance()
		statements = append(statements, expr)
	}
	return statements, nil
}

func (p *Parser) current() Token { return p.tokens.Current() }
func (p *Parser) peek() Token    { return p.tokens.Peek() }
func (p *Parser) advance()       { p.tokens.Advance() }

func (p *Parser) expect(tt TokenType) error {
	if p.current().Type != tt {
		return unexpectedToken(p.current().Line, tt, p.current())
	}
	return nil
}

// precedenceLevel maps a precedence name to its integer level (index + 1, so
// LOWEST is 1).
func precedenceLevel(name string) int {
	for i, p := range precedences {
		if p == name {
			return i + 1
		}
	}
	panic("unknown precedence name: " + name)
}

// nextPrecedenceLevel is the level of the current (potential infix) token, or
// LOWEST when the token is not an infix operator.
func (p *Parser) nextPrecedenceLevel() int {
	name, ok := infixPrecedence[p.current().Type]
	if !ok {
		name = LOWEST
	}
	return precedenceLevel(name)
}

func (p *Parser) expression(precedenceName string) (Expression, error) {
	level := precedenceLevel(precedenceName)

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for level < p.nextPrecedenceLevel() {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parsePrefix() (Expression, error) {
	switch {
	case p.current().Type == IDENTIFIER && p.peek().Type == ASSIGN:
		return p.parseAssign()
	case p.current().Type == MINUS, p.current().Type == PLUS, p.current().Type == BANG:
		return p.parseUnary()
	case p.current().Type == OPEN_PAREN:
		return p.parseGrouped()
	case p.current().Type == NUMBER:
		return p.parseNumber()
	case p.current().Type == STRING:
		tok := p.current()
		p.advance()
		return NewString(tok.Line, tok.Literal), nil
	case p.current().Type == BOOLEAN:
		tok := p.current()
		p.advance()
		return NewBoolean(tok.Line, tok.Literal == "true"), nil
	case p.current().Type == IDENTIFIER:
		return p.parseIdentifier(), nil
	case p.current().Type == FUNCTION:
		return p.parseFunction()
	case p.current().Type == WHEN:
		return p.parseWhen()
	}
	tok := p.current()
	return nil, &ParseError{
		Line: tok.Line,
		Msg:  fmt.Sprintf("invalid token: %s (%q)", tok.Type, tok.Literal),
	}
}

func (p *Parser) parseInfix(left Expression) (Expression, error) {
	op := p.current()
	p.advance()

	// Postfix operators consume no right operand.
	if op.Type == BANG {
		return NewFactorial(op.Line, left), nil
	}

	name, ok := infixPrecedence[op.Type]
	if !ok {
		name = LOWEST
	}
	right, err := p.expression(name)
	if err != nil {
		return nil, err
	}
	return NewBinaryExpression(op.Line, left, op, right), nil
}

func (p *Parser) parseNumber() (Expression, error) {
	tok := p.current()
	p.advance()
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		// The lexer only emits digit runs, so this is unreachable for real
		// token streams.
		return nil, &ParseError{Line: tok.Line, Msg: fmt.Sprintf("invalid number literal %q", tok.Literal)}
	}
	return NewNumber(tok.Line, value), nil
}

func (p *Parser) parseUnary() (Expression, error) {
	op := p.current()
	p.advance()
	operand, err := p.expression(LOWEST)
	if err != nil {
		return nil, err
	}
	return NewUnaryExpression(op.Line, op, operand), nil
}

// parseGrouped handles everything that starts with "(": the empty list "()",
// a parenthesized expression, or a list literal. Which one it is only becomes
// clear after the first inner expression: a following comma switches into
// list accumulation, a closing paren ends a grouped expression.
func (p *Parser) parseGrouped() (Expression, error) {
	open := p.current()
	p.advance()

	if p.current().Type == CLOSED_PAREN {
		p.advance()
		return NewList(open.Line, nil), nil
	}

	expr, err := p.expression(LOWEST)
	if err != nil {
		return nil, err
	}

	switch p.current().Type {
	case CLOSED_PAREN:
		p.advance()
		return expr, nil
	case COMMA:
		p.advance()
		return p.parseList(open.Line, expr)
	}
	return nil, unexpectedToken(p.current().Line, CLOSED_PAREN, p.current())
}

func (p *Parser) parseList(line int, first Expression) (Expression, error) {
	values := []Expression{first}
	for {
		if p.current().Type == CLOSED_PAREN {
			p.advance()
			break
		}

		expr, err := p.expression(LOWEST)
		if err != nil {
			return nil, err
		}
		values = append(values, expr)

		if p.current().Type == CLOSED_PAREN {
			p.advance()
			break
		}
		if err := p.expect(COMMA); err != nil {
			return nil, err
		}
		p.advance()
	}
	return NewList(line, values), nil
}

func (p *Parser) parseIdentifier() Expression {
	tok := p.current()
	p.advance()
	if IsBuiltinName(tok.Literal) {
		return NewBuiltinFunction(tok.Line, tok.Literal)
	}
	return NewIdentifier(tok.Line, tok.Literal)
}

func (p *Parser) parseAssign() (Expression, error) {
	name := p.current()
	p.advance()

	if err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	p.advance()

	value, err := p.expression(LOWEST)
	if err != nil {
		return nil, err
	}
	return NewAssignment(name.Line, name.Literal, value), nil
}

// parseFunction parses "function (a, b): body". Parameters must be plain
// identifiers.
func (p *Parser) parseFunction() (Expression, error) {
	line := p.current().Line
	p.advance() // skip "function"

	if err := p.expect(OPEN_PAREN); err != nil {
		return nil, err
	}
	p.advance()

	var params []*Identifier
	for {
		if p.current().Type == CLOSED_PAREN {
			p.advance()
			break
		}

		expr, err := p.expression(LOWEST)
		if err != nil {
			return nil, err
		}
		param, ok := expr.(*Identifier)
		if !ok {
			return nil, &ParseError{
				Line: expr.LineNumber(),
				Msg:  fmt.Sprintf("unsupported type %s for function parameter, expected Identifier", TypeName(expr)),
			}
		}
		params = append(params, param)

		if p.current().Type == CLOSED_PAREN {
			p.advance()
			break
		}
		if err := p.expect(COMMA); err != nil {
			return nil, err
		}
		p.advance()
	}

	if err := p.expect(COLON); err != nil {
		return nil, err
	}
	p.advance()

	body, err := p.expression(LOWEST)
	if err != nil {
		return nil, err
	}
	return NewFunction(line, params, body), nil
}

// parseWhen parses both forms of the when expression:
//
//	when expr: is case: result ... else: result    (switch)
//	when: cond: result ... else: result            (if/else-if chain)
//
// In the if/else-if form the subject defaults to the literal true, so each
// case condition is matched by boolean truth.
func (p *Parser) parseWhen() (Expression, error) {
	line := p.current().Line
	p.advance() // skip "when"

	var subject Expression
	isSwitch := p.current().Type != COLON
	if isSwitch {
		expr, err := p.expression(LOWEST)
		if err != nil {
			return nil, err
		}
		subject = expr
	} else {
		subject = NewBoolean(line, true)
	}

	if err := p.expect(COLON); err != nil {
		return nil, err
	}
	p.advance()

	var cases []CaseExpression
	for {
		if isSwitch {
			if err := p.expect(IS); err != nil {
				return nil, err
			}
			p.advance()
		}

		condition, err := p.expression(LOWEST)
		if err != nil {
			return nil, err
		}

		if err := p.expect(COLON); err != nil {
			return nil, err
		}
		p.advance()

		result, err := p.expression(LOWEST)
		if err != nil {
			return nil, err
		}
		cases = append(cases, CaseExpression{Condition: condition, Result: result})

		if p.current().Type == ELSE {
			break
		}
	}

	if err := p.expect(ELSE); err != nil {
		return nil, err
	}
	elseLine := p.current().Line
	p.advance()

	if err := p.expect(COLON); err != nil {
		return nil, err
	}
	p.advance()

	elseResult, err := p.expression(LOWEST)
	if err != nil {
		return nil, err
	}

	// The else guard is a copy of the subject stamped with the else line, so
	// it always matches when reached and errors there blame the right line.
	elseCondition := subject.Clone().WithLine(elseLine)
	cases = append(cases, CaseExpression{Condition: elseCondition, Result: elseResult})

	return NewWhen(line, subject, cases), nil
}
