package rpncalc

import (
	"strconv"
	"strings"
)

// Token is a lexical token of an infix expression or an RPN sequence.
type Token struct {
	// Kind is the type of token.
	Kind TokenKind
	// Text is the operator symbol, parenthesis, or number lexeme. Number
	// lexemes include a folded sign, if any.
	Text string
	// Value is the value of a TokenNum.
	Value float64
	// Pos is the 1-based rune column where the token starts. Tokens the lexer
	// synthesizes take the position of the token that follows them.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the type of a token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenNum is a number, possibly with a folded sign.
	TokenNum
	// TokenOp is an operator or function name.
	TokenOp
	// TokenOpen is (.
	TokenOpen
	// TokenClose is ).
	TokenClose
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=TokenKind -trimprefix=Token

// FormatRPN renders a token sequence as space-separated text.
func FormatRPN(rpn []Token) string {
	var b strings.Builder
	for i, tok := range rpn {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

// ParseRPN splits space-separated RPN text into tokens. Fields written the way
// FormatRPN writes numbers, an optional - followed by a decimal literal, become
// TokenNum. Every other field becomes a TokenOp, which the evaluator rejects if
// the symbol is unknown, so "NaN", "inf", and "1e3" are not numbers.
func ParseRPN(text string) []Token {
	var r []Token
	col := 1
	fields := strings.Fields(text)
	for _, f := range fields {
		// Find the field's column in the original text.
		k := strings.Index(text, f)
		col += len([]rune(text[:k]))
		text = text[k+len(f):]
		tok := Token{Kind: TokenOp, Text: f, Pos: col}
		if v, ok := literal(f); ok {
			tok.Kind = TokenNum
			tok.Value = v
		}
		r = append(r, tok)
		col += len([]rune(f))
	}
	return r
}

// literal parses a field of RPN text as a number if it has the form of a
// signed decimal literal and fits in a float64.
func literal(f string) (float64, bool) {
	src := []rune(f)
	i := 0
	if len(src) > 1 && src[0] == '-' {
		i = 1
	}
	if !isDigit(src[i]) && src[i] != '.' {
		return 0, false
	}
	if _, k, err := scanNumber(src, i); err != nil || k != len(src) {
		return 0, false
	}
	v, err := strconv.ParseFloat(f, 64)
	return v, err == nil
}
