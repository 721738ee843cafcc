package rpncalc

import (
	"errors"
	"strconv"
)

// ErrNoExpression indicates that there was nothing to evaluate. It is not a
// failure of the expression; callers should generally treat it as a no-op.
var ErrNoExpression = errors.New("no expression")

// Lexical failures. LexError unwraps to one of these.
var (
	ErrUnexpectedChar  = errors.New("unexpected character")
	ErrMalformedNumber = errors.New("malformed number")
	ErrNumberRange     = errors.New("number out of range")
	ErrUnknownFunction = errors.New("unknown function")
)

// Syntax failures. SyntaxError unwraps to one of these.
var (
	ErrMismatchedParen   = errors.New("mismatched parenthesis")
	ErrOperatorPlacement = errors.New("illegal operator placement")
	ErrMalformedCall     = errors.New("malformed function call")
	ErrEmptyGroup        = errors.New("empty parentheses")
)

// Evaluation failures. EvalError unwraps to one of these.
var (
	ErrInsufficientOperands = errors.New("insufficient operands")
	ErrUnknownToken         = errors.New("unknown token")
	ErrMalformedExpression  = errors.New("malformed expression")
)

// Arithmetic failures. ArithmeticError unwraps to one of these.
var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrDomain         = errors.New("argument outside domain")
)

// LexError indicates input that could not be split into tokens. It implements
// InputError.
type LexError struct {
	// Col is the position of the first rune of the offending text.
	Col int
	// Text is the text the lexer was scanning when it failed.
	Text string
	// Err is the sentinel describing the failure.
	Err error
}

func (err *LexError) Error() string {
	return errpos(err.Col, err.Err.Error()+" "+strconv.Quote(err.Text))
}

func (err *LexError) Unwrap() error {
	return err.Err
}

func (err *LexError) Pos() int {
	return err.Col
}

// SyntaxError indicates tokens that do not form an expression, such as
// mismatched parentheses or a function without an argument list. It
// implements InputError.
type SyntaxError struct {
	// Col is the position of the token that revealed the problem.
	Col int
	// Text is that token's text. It is empty at the end of input.
	Text string
	// Err is the sentinel describing the failure.
	Err error
}

func (err *SyntaxError) Error() string {
	if err.Text == "" {
		return errpos(err.Col, err.Err.Error()+" at end of input")
	}
	return errpos(err.Col, err.Err.Error()+" at "+strconv.Quote(err.Text))
}

func (err *SyntaxError) Unwrap() error {
	return err.Err
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// EvalError indicates an RPN sequence that cannot be executed. It implements
// InputError.
type EvalError struct {
	// Col is the source position of Token, or 0 if the failure concerns the
	// whole sequence or the token has no source position.
	Col int
	// Token is the text of the token being executed, if any.
	Token string
	// Err is the sentinel describing the failure.
	Err error
}

func (err *EvalError) Error() string {
	msg := err.Err.Error()
	if err.Token != "" {
		msg += " for " + strconv.Quote(err.Token)
	}
	if err.Col <= 0 {
		return msg
	}
	return errpos(err.Col, msg)
}

func (err *EvalError) Unwrap() error {
	return err.Err
}

func (err *EvalError) Pos() int {
	return err.Col
}

// ArithmeticError indicates a numeric failure inside an operator, principally
// division by a denominator too close to zero.
type ArithmeticError struct {
	// Op is the symbol of the operator that failed.
	Op string
	// X is the offending operand.
	X float64
	// Err is the sentinel describing the failure.
	Err error
}

func (err *ArithmeticError) Error() string {
	return err.Err.Error() + " in " + err.Op + " (" + strconv.FormatFloat(err.X, 'g', -1, 64) + ")"
}

func (err *ArithmeticError) Unwrap() error {
	return err.Err
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// malformed input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*EvalError)(nil)
)

// Error kinds reported by Kind.
const (
	KindLexical    = "lexical"
	KindSyntax     = "syntax"
	KindEvaluation = "evaluation"
	KindArithmetic = "arithmetic"
)

// Kind classifies an error returned from this package. The result is the empty
// string for nil, ErrNoExpression, and errors from elsewhere.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.As(err, new(*LexError)):
		return KindLexical
	case errors.As(err, new(*SyntaxError)):
		return KindSyntax
	case errors.As(err, new(*EvalError)):
		return KindEvaluation
	case errors.As(err, new(*ArithmeticError)):
		return KindArithmetic
	default:
		return ""
	}
}
