package parser

import (
	"strconv"
	"strings"

	"github.com/specialistvlad/equigrid/internal/ast"
)

// parser is a recursive-descent parser over the tokens of a single line.
type parser struct {
	l      *lexer
	source string

	curToken  Token
	peekToken Token
}

func newParser(source string, line int) *parser {
	p := &parser{l: newLexer(source, line), source: source}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *parser) errorf(tok Token, format string, args ...any) *ParseError {
	return errorAt(tok, p.source, format, args...)
}

// ParseEquation parses a single `name = expression` line.
func ParseEquation(line string) (string, ast.Expr, error) {
	name, expr, perr := parseEquationLine(line, 1)
	if perr != nil {
		return "", nil, perr
	}
	// A nil *ParseError must not become a non-nil error.
	return name, expr, nil
}

// ParseExpression parses a bare right-hand side such as "2 * (x + 1)".
func ParseExpression(text string) (ast.Expr, error) {
	p := newParser(text, 1)
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return expr, nil
}

func parseEquationLine(line string, lineNo int) (string, ast.Expr, *ParseError) {
	p := newParser(line, lineNo)

	if p.curToken.Type != SYMBOL {
		if p.curToken.Type == ASSIGN {
			return "", nil, p.errorf(p.curToken, "missing equation name before '='")
		}
		if strings.Contains(line, "=") {
			return "", nil, p.errorf(p.curToken, "left-hand side must be a single symbol")
		}
		return "", nil, p.errorf(p.curToken, "expected equation name, got %s", p.curToken.describe())
	}
	name := p.curToken.Literal

	if p.peekToken.Type != ASSIGN {
		if strings.Contains(line, "=") {
			return "", nil, p.errorf(p.peekToken, "left-hand side must be a single symbol")
		}
		return "", nil, p.errorf(p.peekToken, "expected '=' after equation name")
	}
	p.nextToken()
	p.nextToken()

	expr, err := p.parseExpr()
	if err != nil {
		return "", nil, err
	}
	if err := p.expectEnd(); err != nil {
		return "", nil, err
	}
	return name, expr, nil
}

// expectEnd reports tokens left over after a complete expression.
func (p *parser) expectEnd() *ParseError {
	switch p.curToken.Type {
	case EOF:
		return nil
	case RPAREN:
		return p.errorf(p.curToken, "unmatched ')'")
	case ILLEGAL:
		return p.errorf(p.curToken, "illegal character %q", p.curToken.Literal)
	default:
		return p.errorf(p.curToken, "unexpected trailing token %s", p.curToken.describe())
	}
}

// expr := term (("+"|"-") term)*
func (p *parser) parseExpr() (ast.Expr, *ParseError) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.curToken.Type == PLUS || p.curToken.Type == MINUS {
		op := ast.Add
		if p.curToken.Type == MINUS {
			op = ast.Sub
		}
		p.nextToken()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// term := factor (("*"|"/") factor)*
func (p *parser) parseTerm() (ast.Expr, *ParseError) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.curToken.Type == STAR || p.curToken.Type == SLASH {
		op := ast.Mul
		if p.curToken.Type == SLASH {
			op = ast.Div
		}
		p.nextToken()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// factor := NUMBER | SYMBOL | "(" expr ")"
func (p *parser) parseFactor() (ast.Expr, *ParseError) {
	tok := p.curToken
	switch tok.Type {
	case NUMBER:
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid number %q: %v", tok.Literal, err)
		}
		p.nextToken()
		return &ast.Constant{Value: v}, nil
	case SYMBOL:
		p.nextToken()
		return &ast.Symbol{Name: tok.Literal}, nil
	case LPAREN:
		p.nextToken()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.curToken.Type != RPAREN {
			return nil, p.errorf(p.curToken, "expected ')', got %s", p.curToken.describe())
		}
		p.nextToken()
		return inner, nil
	case ILLEGAL:
		return nil, p.errorf(tok, "illegal character %q", tok.Literal)
	case EOF:
		return nil, p.errorf(tok, "unexpected end of input, expected a number, symbol or '('")
	default:
		return nil, p.errorf(tok, "unexpected %s, expected a number, symbol or '('", tok.describe())
	}
}
