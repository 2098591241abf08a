// lexer.go: single forward pass over Boomerang source text.
package boomerang

import (
	"fmt"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Literals & identifiers
	NUMBER
	STRING
	BOOLEAN
	IDENTIFIER

	// Operators
	PLUS
	MINUS
	MULTIPLY
	DIVIDE
	MOD
	POW // "**"
	BANG    // "!": prefix not, postfix factorial
	ASSIGN  // "="
	EQ      // "=="
	NE      // "!="
	LT      // "<"
	LE      // "<="
	GT      // ">"
	GE      // ">="
	AND     // "&&"
	OR      // "||"
	XOR     // "^"
	POINTER // "<-"
	INDEX   // "@"

	// Punctuation
	OPEN_PAREN
	CLOSED_PAREN
	COMMA
	COLON
	SEMICOLON

	// Keywords
	FUNCTION
	WHEN
	IS
	ELSE
	IN
)

var tokenTypeNames = map[TokenType]string{
	EOF:          "EOF",
	NUMBER:       "NUMBER",
	STRING:       "STRING",
	BOOLEAN:      "BOOLEAN",
	IDENTIFIER:   "IDENTIFIER",
	PLUS:         "PLUS",
	MINUS:        "MINUS",
	MULTIPLY:     "MULTIPLY",
	DIVIDE:       "DIVIDE",
	MOD:          "MOD",
	POW:          "POW",
	BANG:         "BANG",
	ASSIGN:       "ASSIGN",
	EQ:           "EQ",
	NE:           "NE",
	LT:           "LT",
	LE:           "LE",
	GT:           "GT",
	GE:           "GE",
	AND:          "AND",
	OR:           "OR",
	XOR:          "XOR",
	POINTER:      "POINTER",
	INDEX:        "INDEX",
	OPEN_PAREN:   "OPEN_PAREN",
	CLOSED_PAREN: "CLOSED_PAREN",
	COMMA:        "COMMA",
	COLON:        "COLON",
	SEMICOLON:    "SEMICOLON",
	FUNCTION:     "FUNCTION",
	WHEN:         "WHEN",
	IS:           "IS",
	ELSE:         "ELSE",
	IN:           "IN",
}

func (tt TokenType) String() string {
	if name, ok := tokenTypeNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a lexical token. Equality is structural.
type Token struct {
	Type    TokenType
	Literal string // raw text slice (decoded value for strings)
	Line    int
}

func NewToken(tt TokenType, literal string, line int) Token {
	return Token{Type: tt, Literal: literal, Line: line}
}

// keywords map
var keywords = map[string]TokenType{
	"function": FUNCTION,
	"when":     WHEN,
	"is":       IS,
	"else":     ELSE,
	"in":       IN,
	"true":     BOOLEAN,
	"false":    BOOLEAN,
}

// Canonical literal spellings, used when synthesizing tokens and in
// expected-vs-actual parse errors.
var tokenLiterals = map[TokenType]string{
	EOF:          "",
	PLUS:         "+",
	MINUS:        "-",
	MULTIPLY:     "*",
	DIVIDE:       "/",
	MOD:          "%",
	POW:          "**",
	BANG:         "!",
	ASSIGN:       "=",
	EQ:           "==",
	NE:           "!=",
	LT:           "<",
	LE:           "<=",
	GT:           ">",
	GE:           ">=",
	AND:          "&&",
	OR:           "||",
	XOR:          "^",
	POINTER:      "<-",
	INDEX:        "@",
	OPEN_PAREN:   "(",
	CLOSED_PAREN: ")",
	COMMA:        ",",
	COLON:        ":",
	SEMICOLON:    ";",
	FUNCTION:     "function",
	WHEN:         "when",
	IS:           "is",
	ELSE:         "else",
	IN:           "in",
}

// Lexer scans a Boomerang source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, literal string, line int) Token {
	tok := Token{Type: tt, Literal: literal, Line: line}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.advance()
			l.start = l.cur
		default:
			return
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// ----- errors -----

type LexError struct {
	Line int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at line %d: %s", e.Line, e.Msg)
}

func (l *Lexer) errAt(line int, msg string) error {
	return &LexError{Line: line, Msg: msg}
}

// ----- scanners -----

// scanString parses a double-quoted string. No escape processing; the closing
// quote ends the literal.
func (l *Lexer) scanString() (string, error) {
	startLine := l.line
	l.advance() // consume opening quote

	contentStart := l.cur
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == '"' {
			return l.src[contentStart : l.cur-1], nil
		}
	}
	return "", l.errAt(startLine, "string was not terminated")
}

// scanNumber parses a digit run with at most one embedded decimal point.
func (l *Lexer) scanNumber() (string, error) {
	startLine := l.line
	sawDot := false
	for {
		b, ok := l.peek()
		if !ok {
			break
		}
		if isDigit(b) {
			l.advance()
			continue
		}
		if b == '.' {
			// A '.' only continues the number when a digit follows.
			next, okNext := l.peekN(1)
			if !okNext || !isDigit(next) {
				break
			}
			if sawDot {
				return "", l.errAt(startLine, "invalid number with multiple decimal points")
			}
			sawDot = true
			l.advance()
			continue
		}
		break
	}
	return l.src[l.start:l.cur], nil
}

func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// skipLineComment eats '#' comments until '\n' or EOF.
func (l *Lexer) skipLineComment() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

// skipBlockComment eats a '/* ... */' comment, which may span lines.
func (l *Lexer) skipBlockComment() error {
	startLine := l.line
	l.advance() // consume '*'
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == '*' {
			if b, ok := l.peek(); ok && b == '/' {
				l.advance()
				return nil
			}
		}
	}
	return l.errAt(startLine, "block comment was not terminated")
}

// twoChar consumes the next byte and returns withNext when it matches want;
// otherwise the single-character token type is returned. Symbols are matched
// longest-first this way ("<-" before "<", "==" before "=").
func (l *Lexer) twoChar(want byte, withNext, without TokenType) TokenType {
	if b, ok := l.peek(); ok && b == want {
		l.advance()
		return withNext
	}
	return without
}

// ----- main scanner -----

func (l *Lexer) scanToken() (Token, error) {
	for {
		l.skipWhitespace()
		l.start = l.cur
		line := l.line

		if l.isAtEnd() {
			return l.addToken(EOF, "", line), nil
		}

		ch, _ := l.advance()

		switch ch {
		case '(':
			return l.addToken(OPEN_PAREN, "(", line), nil
		case ')':
			return l.addToken(CLOSED_PAREN, ")", line), nil
		case ',':
			return l.addToken(COMMA, ",", line), nil
		case ':':
			return l.addToken(COLON, ":", line), nil
		case ';':
			return l.addToken(SEMICOLON, ";", line), nil
		case '+':
			return l.addToken(PLUS, "+", line), nil
		case '-':
			return l.addToken(MINUS, "-", line), nil
		case '*':
			tt := l.twoChar('*', POW, MULTIPLY)
			return l.addToken(tt, tokenLiterals[tt], line), nil
		case '%':
			return l.addToken(MOD, "%", line), nil
		case '^':
			return l.addToken(XOR, "^", line), nil
		case '@':
			return l.addToken(INDEX, "@", line), nil
		case '/':
			if b, ok := l.peek(); ok && b == '*' {
				if err := l.skipBlockComment(); err != nil {
					return Token{}, err
				}
				continue
			}
			return l.addToken(DIVIDE, "/", line), nil
		case '#':
			l.skipLineComment()
			continue
		case '=':
			tt := l.twoChar('=', EQ, ASSIGN)
			return l.addToken(tt, tokenLiterals[tt], line), nil
		case '!':
			tt := l.twoChar('=', NE, BANG)
			return l.addToken(tt, tokenLiterals[tt], line), nil
		case '>':
			tt := l.twoChar('=', GE, GT)
			return l.addToken(tt, tokenLiterals[tt], line), nil
		case '<':
			if b, ok := l.peek(); ok && b == '-' {
				l.advance()
				return l.addToken(POINTER, "<-", line), nil
			}
			tt := l.twoChar('=', LE, LT)
			return l.addToken(tt, tokenLiterals[tt], line), nil
		case '&':
			if b, ok := l.peek(); ok && b == '&' {
				l.advance()
				return l.addToken(AND, "&&", line), nil
			}
			return Token{}, l.errAt(line, "unexpected character: '&'")
		case '|':
			if b, ok := l.peek(); ok && b == '|' {
				l.advance()
				return l.addToken(OR, "||", line), nil
			}
			return Token{}, l.errAt(line, "unexpected character: '|'")
		case '"':
			l.cur = l.start // rewind so scanString sees the opening quote
			text, err := l.scanString()
			if err != nil {
				return Token{}, err
			}
			return l.addToken(STRING, text, line), nil
		}

		if isDigit(ch) {
			l.cur = l.start
			text, err := l.scanNumber()
			if err != nil {
				return Token{}, err
			}
			return l.addToken(NUMBER, text, line), nil
		}

		if isAlpha(ch) {
			l.cur = l.start
			lex := l.scanIdentifier()
			if tt, ok := keywords[lex]; ok {
				return l.addToken(tt, lex, line), nil
			}
			return l.addToken(IDENTIFIER, lex, line), nil
		}

		return Token{}, l.errAt(line, fmt.Sprintf("unexpected character: %q", ch))
	}
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}
