package rpncalc

import (
	"strconv"
	"unicode"
)

// Lexer splits infix expressions into tokens. A Lexer holds no state besides
// its table, so one Lexer may tokenize any number of expressions
// concurrently.
type Lexer struct {
	table *Table
}

// NewLexer creates a lexer that recognizes the operators in table.
func NewLexer(table *Table) *Lexer {
	return &Lexer{table: table}
}

// Tokenize scans an expression into tokens. It returns ErrNoExpression if expr
// is blank.
//
// Signs in unary position are folded into number literals, so "--5" is the
// single token 5. A negative sign before a function or parenthesis becomes the
// operator UnaryMinus. A * token is inserted between adjacent values like
// "2(3)" and "2sin(4)", but not across whitespace.
//
// Literals must fit in a float64. One too large to represent, like a string of
// 400 nines, fails with ErrNumberRange.
func (l *Lexer) Tokenize(expr string) ([]Token, error) {
	src := []rune(expr)
	var toks []Token
	gap := false
	for i := 0; i < len(src); {
		if unicode.IsSpace(src[i]) {
			gap = true
			i++
			continue
		}
		n := len(toks)
		var err error
		toks, i, err = l.scan(src, i, toks)
		if err != nil {
			return nil, err
		}
		if !gap {
			toks = l.implicitMul(toks, n)
		}
		gap = false
	}
	if len(toks) == 0 {
		return nil, ErrNoExpression
	}
	return toks, nil
}

// scan reads the tokens starting at src[i], appends them to toks, and returns
// the position after them.
func (l *Lexer) scan(src []rune, i int, toks []Token) ([]Token, int, error) {
	r := src[i]
	switch {
	case unicode.IsLetter(r):
		return l.scanFunc(src, i, toks)
	case r == '(':
		return append(toks, Token{Kind: TokenOpen, Text: "(", Pos: i + 1}), i + 1, nil
	case r == ')':
		return append(toks, Token{Kind: TokenClose, Text: ")", Pos: i + 1}), i + 1, nil
	case isDigit(r), r == '.':
		return l.scanSigned(src, i, toks)
	case isSign(r) && unaryContext(toks):
		return l.scanSigned(src, i, toks)
	}
	if s := string(r); l.table.IsOperator(s) {
		return append(toks, Token{Kind: TokenOp, Text: s, Pos: i + 1}), i + 1, nil
	}
	return toks, i, &LexError{Col: i + 1, Text: string(r), Err: ErrUnexpectedChar}
}

// scanFunc reads a function name.
func (l *Lexer) scanFunc(src []rune, i int, toks []Token) ([]Token, int, error) {
	j := i
	for j < len(src) && unicode.IsLetter(src[j]) {
		j++
	}
	name := string(src[i:j])
	if !l.table.IsFunction(name) {
		return toks, i, &LexError{Col: i + 1, Text: name, Err: ErrUnknownFunction}
	}
	return append(toks, Token{Kind: TokenOp, Text: name, Pos: i + 1}), j, nil
}

// scanSigned reads a run of zero or more signs and the factor they apply to.
func (l *Lexer) scanSigned(src []rune, i int, toks []Token) ([]Token, int, error) {
	neg, j := signRun(src, i)
	if j >= len(src) {
		return toks, j, &SyntaxError{Col: i + 1, Text: string(src[i]), Err: ErrOperatorPlacement}
	}
	switch r := src[j]; {
	case isDigit(r), r == '.':
		lexeme, k, err := scanNumber(src, j)
		if err != nil {
			return toks, k, err
		}
		v, perr := strconv.ParseFloat(lexeme, 64)
		if perr != nil {
			// The lexeme is well formed, so only its magnitude can be wrong.
			return toks, k, &LexError{Col: j + 1, Text: lexeme, Err: ErrNumberRange}
		}
		if neg {
			v = -v
			lexeme = "-" + lexeme
		}
		return append(toks, Token{Kind: TokenNum, Text: lexeme, Value: v, Pos: i + 1}), k, nil
	case unicode.IsLetter(r):
		if neg {
			toks = append(toks, Token{Kind: TokenOp, Text: UnaryMinus, Pos: i + 1})
		}
		return l.scanFunc(src, j, toks)
	case r == '(':
		if neg {
			toks = append(toks, Token{Kind: TokenOp, Text: UnaryMinus, Pos: i + 1})
		}
		return append(toks, Token{Kind: TokenOpen, Text: "(", Pos: j + 1}), j + 1, nil
	default:
		// A sign run followed by something that can't take a sign, like "-*".
		return toks, j, &SyntaxError{Col: j + 1, Text: string(r), Err: ErrOperatorPlacement}
	}
}

// signRun reads a run of + and - signs, possibly separated by whitespace.
// neg is true if the run contains an odd number of minus signs. The result
// position is that of the first rune after the run and any whitespace
// following it.
func signRun(src []rune, i int) (neg bool, next int) {
	for ; i < len(src); i++ {
		switch r := src[i]; {
		case r == '-':
			neg = !neg
		case r == '+', unicode.IsSpace(r):
			// do nothing
		default:
			return neg, i
		}
	}
	return neg, i
}

// scanNumber reads an unsigned decimal literal: digits, optionally followed by
// a point and more digits.
func scanNumber(src []rune, i int) (string, int, error) {
	j := i
	var dot bool
	var whole, frac int
	for ; j < len(src); j++ {
		r := src[j]
		if isDigit(r) {
			if dot {
				frac++
			} else {
				whole++
			}
			continue
		}
		if r != '.' {
			break
		}
		if dot {
			return "", j + 1, &LexError{Col: i + 1, Text: string(src[i : j+1]), Err: ErrMalformedNumber}
		}
		dot = true
	}
	if whole == 0 || dot && frac == 0 {
		return "", j, &LexError{Col: i + 1, Text: string(src[i:j]), Err: ErrMalformedNumber}
	}
	return string(src[i:j]), j, nil
}

// implicitMul inserts a * token before toks[n] if toks[n-1] and toks[n] are
// adjacent values.
func (l *Lexer) implicitMul(toks []Token, n int) []Token {
	if n == 0 || n >= len(toks) {
		return toks
	}
	if !leftValue(toks[n-1]) || !l.rightValue(toks[n]) {
		return toks
	}
	toks = append(toks, Token{})
	copy(toks[n+1:], toks[n:])
	toks[n] = Token{Kind: TokenOp, Text: "*", Pos: toks[n+1].Pos}
	return toks
}

// leftValue returns whether a token can end an operand.
func leftValue(tok Token) bool {
	return tok.Kind == TokenNum || tok.Kind == TokenClose
}

// rightValue returns whether a token can begin an operand. Functions begin an
// operand, but since they need an argument list, they don't end one.
func (l *Lexer) rightValue(tok Token) bool {
	switch tok.Kind {
	case TokenNum, TokenOpen:
		return true
	case TokenOp:
		return l.table.IsFunction(tok.Text)
	default:
		return false
	}
}

// unaryContext returns whether a sign at the end of toks would be unary.
func unaryContext(toks []Token) bool {
	if len(toks) == 0 {
		return true
	}
	k := toks[len(toks)-1].Kind
	return k == TokenOp || k == TokenOpen
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isSign(r rune) bool {
	return r == '+' || r == '-'
}
