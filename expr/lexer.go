package expr

import (
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokIllegal
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokCaret
	tokLParen
	tokRParen
	tokComma
)

var tokenNames = map[tokenType]string{
	tokEOF:     "end of input",
	tokIllegal: "illegal character",
	tokNumber:  "number",
	tokIdent:   "identifier",
	tokPlus:    "'+'",
	tokMinus:   "'-'",
	tokStar:    "'*'",
	tokSlash:   "'/'",
	tokPercent: "'%'",
	tokCaret:   "'^'",
	tokLParen:  "'('",
	tokRParen:  "')'",
	tokComma:   "','",
}

func (t tokenType) String() string {
	return tokenNames[t]
}

type token struct {
	typ     tokenType
	literal string
	column  int
}

type lexer struct {
	input        string
	position     int  // start of ch
	readPosition int  // after ch
	ch           rune // 0 at end of input
	column       int
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	l.position = l.readPosition
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.readPosition += w
	l.column++
}

func (l *lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *lexer) next() token {
	for unicode.IsSpace(l.ch) {
		l.readChar()
	}

	tok := token{column: l.column, literal: string(l.ch)}
	switch l.ch {
	case 0:
		tok.typ, tok.literal = tokEOF, ""
		return tok
	case '+':
		tok.typ = tokPlus
	case '-':
		tok.typ = tokMinus
	case '*':
		tok.typ = tokStar
	case '/':
		tok.typ = tokSlash
	case '%':
		tok.typ = tokPercent
	case '^':
		tok.typ = tokCaret
	case '(':
		tok.typ = tokLParen
	case ')':
		tok.typ = tokRParen
	case ',':
		tok.typ = tokComma
	default:
		switch {
		case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
			tok.typ, tok.literal = tokNumber, l.readNumber()
			return tok
		case isLetter(l.ch):
			tok.typ, tok.literal = tokIdent, l.readIdent()
			return tok
		}
		tok.typ = tokIllegal
	}
	l.readChar()
	return tok
}

func (l *lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return l.input[start:l.position]
}

func (l *lexer) readIdent() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
