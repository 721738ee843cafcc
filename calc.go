package rpncalc

import (
	"strings"

	"go.uber.org/zap"
)

// Calculator evaluates infix expressions by tokenizing them, converting them
// to RPN, and executing the RPN. A Calculator is safe for concurrent use.
type Calculator struct {
	table *Table
	lex   *Lexer
	conv  *Converter
	eval  *Evaluator
	valid *Validator
	log   *zap.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithTable sets the operator table. The default is DefaultTable().
func WithTable(t *Table) Option {
	return func(c *Calculator) {
		c.table = t
	}
}

// WithValidator runs v over each expression before tokenizing it. By default
// there is no validation.
func WithValidator(v *Validator) Option {
	return func(c *Calculator) {
		c.valid = v
	}
}

// WithLogger sets a logger for tracing evaluation at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(c *Calculator) {
		c.log = l
	}
}

// New creates a calculator.
func New(opts ...Option) *Calculator {
	c := Calculator{table: DefaultTable(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	c.lex = NewLexer(c.table)
	c.conv = NewConverter(c.table)
	c.eval = NewEvaluator(c.table)
	return &c
}

// Table returns the calculator's operator table.
func (c *Calculator) Table() *Table {
	return c.table
}

// Compile validates and tokenizes an expression and returns its RPN form.
func (c *Calculator) Compile(expr string) ([]Token, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrNoExpression
	}
	if c.valid != nil {
		if err := c.valid.Validate(expr); err != nil {
			return nil, err
		}
	}
	toks, err := c.lex.Tokenize(expr)
	if err != nil {
		return nil, err
	}
	rpn, err := c.conv.Convert(toks)
	if err != nil {
		return nil, err
	}
	if ce := c.log.Check(zap.DebugLevel, "compiled expression"); ce != nil {
		ce.Write(
			zap.String("expr", expr),
			zap.Int("tokens", len(toks)),
			zap.String("rpn", FormatRPN(rpn)),
		)
	}
	return rpn, nil
}

// Evaluate computes the value of an infix expression. Blank input yields
// ErrNoExpression. Other errors are a *LexError, *SyntaxError, *EvalError, or
// *ArithmeticError.
func (c *Calculator) Evaluate(expr string) (float64, error) {
	rpn, err := c.Compile(expr)
	if err != nil {
		return 0, err
	}
	return c.run(rpn)
}

// EvaluateRPN computes the value of space-separated RPN text, as produced by
// FormatRPN.
func (c *Calculator) EvaluateRPN(text string) (float64, error) {
	rpn := ParseRPN(text)
	if len(rpn) == 0 {
		return 0, ErrNoExpression
	}
	return c.run(rpn)
}

func (c *Calculator) run(rpn []Token) (float64, error) {
	r, err := c.eval.Evaluate(rpn)
	if err != nil {
		c.log.Debug("evaluation failed", zap.String("rpn", FormatRPN(rpn)), zap.Error(err))
		return 0, err
	}
	c.log.Debug("evaluated", zap.String("rpn", FormatRPN(rpn)), zap.Float64("result", r))
	return r, nil
}

var std = New()

// Evaluate computes the value of an infix expression using the default
// operators and no validation.
func Evaluate(expr string) (float64, error) {
	return std.Evaluate(expr)
}
