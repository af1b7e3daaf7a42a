package expr

import (
	"strconv"

	"github.com/wippyai/variant/errors"
)

// MaxDepth bounds operator nesting in parsed input.
const MaxDepth = 256

const (
	_ int = iota
	precLowest
	precSum     // + -
	precProduct // * / %
	precPrefix  // -x
	precPower   // ^
)

var precedences = map[tokenType]int{
	tokPlus:    precSum,
	tokMinus:   precSum,
	tokStar:    precProduct,
	tokSlash:   precProduct,
	tokPercent: precProduct,
	tokCaret:   precPower,
}

type parser struct {
	lex       *lexer
	curToken  token
	peekToken token
	depth     int
	err       error
}

// Parse parses src into an expression tree. The error reports the column of
// the first problem.
func Parse(src string) (Expr, error) {
	p := &parser{lex: newLexer(src)}
	p.nextToken()
	p.nextToken()

	e := p.parseExpression(precLowest)
	if p.err == nil && p.peekToken.typ != tokEOF {
		p.fail(p.peekToken, "unexpected %s after expression", p.peekToken.typ)
	}
	if p.err != nil {
		return Expr{}, p.err
	}
	return e, nil
}

// MustParse is Parse for sources known to be valid.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lex.next()
}

func (p *parser) fail(tok token, format string, args ...any) {
	if p.err != nil {
		return
	}
	p.err = errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
		Path("column " + strconv.Itoa(tok.column)).
		Detail(format, args...).
		Build()
}

func (p *parser) expectPeek(t tokenType) bool {
	if p.peekToken.typ != t {
		p.fail(p.peekToken, "expected %s, found %s", t, p.peekToken.typ)
		return false
	}
	p.nextToken()
	return true
}

func (p *parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.typ]; ok {
		return prec
	}
	return precLowest
}

func (p *parser) parseExpression(precedence int) Expr {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxDepth {
		p.fail(p.curToken, "expression too complex: nesting depth limit exceeded")
		return Expr{}
	}

	left := p.parsePrefix()
	for p.err == nil && precedence < p.peekPrecedence() {
		p.nextToken()
		left = p.parseInfix(left)
	}
	return left
}

func (p *parser) parsePrefix() Expr {
	tok := p.curToken
	switch tok.typ {
	case tokNumber:
		v, err := strconv.ParseFloat(tok.literal, 64)
		if err != nil {
			p.fail(tok, "invalid number %q", tok.literal)
			return Expr{}
		}
		return NewNum(v)
	case tokIdent:
		if p.peekToken.typ == tokLParen {
			return p.parseCall()
		}
		return NewVar(tok.literal)
	case tokMinus:
		p.nextToken()
		return NewOp("neg", p.parseExpression(precPrefix))
	case tokPlus:
		p.nextToken()
		return p.parseExpression(precPrefix)
	case tokLParen:
		p.nextToken()
		e := p.parseExpression(precLowest)
		p.expectPeek(tokRParen)
		return e
	case tokIllegal:
		p.fail(tok, "illegal character %q", tok.literal)
	default:
		p.fail(tok, "unexpected %s", tok.typ)
	}
	return Expr{}
}

func (p *parser) parseInfix(left Expr) Expr {
	op := p.curToken
	precedence := precedences[op.typ]
	if op.typ == tokCaret {
		// right-associative
		precedence--
	}
	p.nextToken()
	right := p.parseExpression(precedence)
	return NewOp(op.literal, left, right)
}

func (p *parser) parseCall() Expr {
	name := p.curToken.literal
	p.nextToken() // (

	var args []Expr
	if p.peekToken.typ == tokRParen {
		p.nextToken()
		return NewOp(name, args...)
	}

	p.nextToken()
	args = append(args, p.parseExpression(precLowest))
	for p.err == nil && p.peekToken.typ == tokComma {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(precLowest))
	}
	p.expectPeek(tokRParen)
	return NewOp(name, args...)
}
