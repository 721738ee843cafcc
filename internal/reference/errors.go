package reference

import (
	"math/big"
	"strconv"
)

// BracketError is an error indicating mismatched parentheses in the input.
type BracketError struct {
	// Col is the position of the unmatched parenthesis, or of the end of the
	// input for a parenthesis that was never closed.
	Col int
	// Close is whether the unmatched parenthesis is a close parenthesis.
	Close bool
}

func (err *BracketError) Error() string {
	if err.Close {
		return errpos(err.Col, "close parenthesis with no open parenthesis")
	}
	return errpos(err.Col, "open parenthesis with no close parenthesis")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// OperandError is an error indicating that an operand was expected but the
// input had something else.
type OperandError struct {
	// Col is the position of the unexpected token.
	Col int
	// Text is the unexpected token, or the empty string at the end of input.
	Text string
}

func (err *OperandError) Error() string {
	if err.Text == "" {
		return errpos(err.Col, "expected operand at end of input")
	}
	return errpos(err.Col, "expected operand, got "+strconv.Quote(err.Text))
}

func (err *OperandError) Pos() int {
	return err.Col
}

// CallError is an error indicating a misused function name.
type CallError struct {
	// Col is the position of the function name.
	Col int
	// Func is the name.
	Func string
	// Unknown is whether the name is not a function at all.
	Unknown bool
}

func (err *CallError) Error() string {
	if err.Unknown {
		return errpos(err.Col, "unknown function "+strconv.Quote(err.Func))
	}
	return errpos(err.Col, "function "+strconv.Quote(err.Func)+" needs a parenthesized argument")
}

func (err *CallError) Pos() int {
	return err.Col
}

// DomainError is an error returned when an operator or function is applied to
// arguments outside its domain, including division by zero.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Func is the operator or function name.
	Func string
}

func (err *DomainError) Error() string {
	return err.X.String() + " outside domain of " + err.Func
}

// InputError is an error that occurs at a particular position in the input.
type InputError interface {
	error
	// Pos returns the 1-based column of the error.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*CallError)(nil)
)

func (err *LexError) Pos() int {
	return err.Col
}

func errpos(col int, msg string) string {
	return "column " + strconv.Itoa(col) + ": " + msg
}
