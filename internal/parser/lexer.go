package parser

// lexer scans a single line of equation text.
type lexer struct {
	input   string
	line    int
	pos     int // current position (points to ch)
	readPos int // next reading position
	ch      byte
}

func newLexer(input string, line int) *lexer {
	l := &lexer{input: input, line: line}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.pos + 1}
}

// NextToken returns the next token, or EOF once the line is exhausted.
func (l *lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.position()
	single := func(tt TokenType) Token {
		tok := Token{Type: tt, Literal: string(l.ch), Pos: pos}
		l.readChar()
		return tok
	}

	switch {
	case l.ch == 0:
		return Token{Type: EOF, Pos: pos}
	case isDigit(l.ch), l.ch == '-' && isDigit(l.peekChar()):
		return Token{Type: NUMBER, Literal: l.readNumber(), Pos: pos}
	case isLetter(l.ch):
		return Token{Type: SYMBOL, Literal: l.readSymbol(), Pos: pos}
	}

	switch l.ch {
	case '+':
		return single(PLUS)
	case '-':
		return single(MINUS)
	case '*':
		return single(STAR)
	case '/':
		return single(SLASH)
	case '(':
		return single(LPAREN)
	case ')':
		return single(RPAREN)
	case '=':
		return single(ASSIGN)
	default:
		return single(ILLEGAL)
	}
}

func (l *lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// readNumber consumes -?\d+(\.\d+)?. A trailing '.' without digits is left
// for the next token.
func (l *lexer) readNumber() string {
	start := l.pos
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

func (l *lexer) readSymbol() string {
	start := l.pos
	for isLetter(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// IsSymbol reports whether s is a valid SYMBOL token.
func IsSymbol(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	return true
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
