package reference

import (
	"errors"
	"io"
	"strconv"
	"unicode"
)

// lexToken is a token of the reference grammar. pos is the 1-based column of
// its first rune.
type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an unsigned decimal number.
	tokenNum
	// tokenIdent is a function name.
	tokenIdent
	// tokenOp is one of + - * / ^.
	tokenOp
	// tokenOpen is (.
	tokenOpen
	// tokenClose is ).
	tokenClose
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=tokenKind -trimprefix=token

// lexer hands out the tokens of a buffered input one at a time, with room for
// one token of pushback.
type lexer struct {
	src  []rune
	at   int
	err  error
	back lexToken
}

// lex buffers all of src. A read error is returned from the first call to
// next.
func lex(src io.RuneScanner) *lexer {
	l := lexer{}
	for {
		r, _, err := src.ReadRune()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				l.err = err
			}
			return &l
		}
		l.src = append(l.src, r)
	}
}

// push returns a token to the lexer so that next produces it again.
func (l *lexer) push(tok lexToken) {
	if l.back.kind != tokenNone {
		panic("reference: pushback is full")
	}
	l.back = tok
}

// must takes back the pushed token.
func (l *lexer) must() lexToken {
	tok := l.back
	if tok.kind == tokenNone {
		panic("reference: pushback is empty")
	}
	l.back = lexToken{}
	return tok
}

// next produces the next token, or an EOF token once the input is exhausted.
func (l *lexer) next() (lexToken, error) {
	if l.back.kind != tokenNone {
		return l.must(), nil
	}
	if l.err != nil {
		return lexToken{}, l.err
	}
	i := l.at
	for i < len(l.src) && unicode.IsSpace(l.src[i]) {
		i++
	}
	tok, at, err := tokenAt(l.src, i)
	l.at = at
	return tok, err
}

// tokenAt scans the token starting at src[i] and returns the index after it.
func tokenAt(src []rune, i int) (lexToken, int, error) {
	tok := lexToken{pos: i + 1}
	if i >= len(src) {
		tok.kind = tokenEOF
		return tok, i, nil
	}
	switch r := src[i]; {
	case isDigit(r), r == '.':
		j, err := numberEnd(src, i)
		if err != nil {
			return tok, j, err
		}
		tok.text, tok.kind = string(src[i:j]), tokenNum
		return tok, j, nil
	case unicode.IsLetter(r):
		j := i + 1
		for j < len(src) && unicode.IsLetter(src[j]) {
			j++
		}
		tok.text, tok.kind = string(src[i:j]), tokenIdent
		return tok, j, nil
	case r == '(':
		tok.kind = tokenOpen
	case r == ')':
		tok.kind = tokenClose
	case r == '+', r == '-', r == '*', r == '/', r == '^':
		tok.kind = tokenOp
	default:
		return tok, i + 1, &LexError{Col: i + 1, Text: string(r)}
	}
	tok.text = string(src[i])
	return tok, i + 1, nil
}

// numberEnd finds the end of the decimal literal starting at src[i]. Both the
// integer part and, if there is a point, the fraction must be non-empty.
func numberEnd(src []rune, i int) (int, error) {
	digits := func(j int) int {
		for j < len(src) && isDigit(src[j]) {
			j++
		}
		return j
	}
	j := digits(i)
	if j >= len(src) || src[j] != '.' {
		return j, nil
	}
	k := digits(j + 1)
	if j == i || k == j+1 {
		col := k
		if k < len(src) {
			col++
		}
		return k, &LexError{Col: col, Text: string(src[i:min(k+1, len(src))]), Number: true}
	}
	if k < len(src) && src[k] == '.' {
		return k + 1, &LexError{Col: k + 1, Text: string(src[i : k+1]), Number: true}
	}
	return k, nil
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// LexError reports a rune that can't begin a token or a malformed number.
type LexError struct {
	// Col is the column of the offending rune, or of the last rune if the
	// input ended too soon.
	Col int
	// Text is the offending text.
	Text string
	// Number is set when Text is a malformed number.
	Number bool
}

func (err *LexError) Error() string {
	if err.Number {
		return errpos(err.Col, "malformed number "+strconv.Quote(err.Text))
	}
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Text))
}
