// Package rpncalc implements a floating-point calculator for infix arithmetic
// expressions.
//
// An expression like "2*(3+sin(4))" goes through three stages: a Lexer turns
// the text into tokens, a Converter reorders the tokens into Reverse Polish
// Notation with the shunting-yard algorithm, and an Evaluator executes the
// RPN on a stack of float64 values. A Validator may reject malformed text
// before any of that happens. The operators each stage knows about come from
// a Table, which is built once and never modified, so a single Calculator can
// serve any number of goroutines.
//
// The syntax is what you'd type into a pocket calculator. Signs stack, so
// "--5" is 5. Adjacent values multiply, so "2(3)" and "2sin(0)" are products,
// although "2 3" is an error rather than 6 or 23. Functions always take a
// parenthesized argument.
package rpncalc
