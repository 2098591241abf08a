// token_queue.go: one-token lookahead buffer between the lexer and the parser.
package boomerang

// TokenQueue materializes the lexer's output and exposes the cursor operations
// the parser needs: the current token, one token of lookahead, and manual
// injection of synthesized tokens (implicit statement terminators).
type TokenQueue struct {
	tokens []Token
	pos    int
}

func NewTokenQueue(tokens []Token) *TokenQueue {
	return &TokenQueue{tokens: tokens}
}

// Current returns the token at the cursor. The lexer always appends EOF, so a
// cursor past the end means the parser advanced beyond EOF, which is a bug in
// the parser rather than in user input.
func (q *TokenQueue) Current() Token {
	if q.pos >= len(q.tokens) {
		panic("token queue: advanced past EOF")
	}
	return q.tokens[q.pos]
}

// Peek returns the token one past the cursor, or the final EOF token when
// there is nothing further to look at.
func (q *TokenQueue) Peek() Token {
	if q.pos+1 >= len(q.tokens) {
		return q.tokens[len(q.tokens)-1]
	}
	return q.tokens[q.pos+1]
}

func (q *TokenQueue) Advance() {
	q.Current() // bounds check
	q.pos++
}

// Inject synthesizes a token of the given type just before the trailing EOF.
// Used to add the implicit SEMICOLON for interactive input that omits it.
func (q *TokenQueue) Inject(tt TokenType) {
	end := q.tokens[len(q.tokens)-1]
	tok := Token{Type: tt, Literal: tokenLiterals[tt], Line: end.Line}
	q.tokens = append(q.tokens[:len(q.tokens)-1], tok, end)
}

// EndsWith reports whether the token just before the trailing EOF has the
// given type. Callers use it to decide whether Inject is needed.
func (q *TokenQueue) EndsWith(tt TokenType) bool {
	if len(q.tokens) < 2 {
		return false
	}
	return q.tokens[len(q.tokens)-2].Type == tt
}
