package rpncalc

import (
	"math"
	"sort"
	"strconv"
	"unicode"
)

// Arity is the number of operands an operator consumes.
type Arity int8

const (
	Unary  Arity = 1
	Binary Arity = 2
)

// Assoc is the associativity of an operator.
type Assoc int8

const (
	Left Assoc = iota
	Right
)

// Operator describes an operator or function that can appear in an
// expression.
type Operator struct {
	// Symbol is the text of the operator, e.g. "+" or "sin".
	Symbol string
	// Prec is the precedence. Higher is more binding.
	Prec int
	// Assoc decides grouping between operators of equal precedence.
	Assoc Assoc
	// Arity is the number of operands Eval receives.
	Arity Arity
	// Func marks an operator written as a named call, like sin(x). Functions
	// have alphabetic symbols and are always unary.
	Func bool
	// Eval computes the result. args has exactly Arity elements in source
	// order, so for binary operators args[0] is the left operand.
	Eval func(args []float64) (float64, error)
}

// Symbols of the synthetic unary sign operators. The lexer emits UnaryMinus
// for a negative sign applied to a function or parenthesized term.
const (
	UnaryMinus = "u-"
	UnaryPlus  = "u+"
)

// DefaultEpsilon is the magnitude below which a denominator counts as zero.
const DefaultEpsilon = 1e-10

// Table maps symbols to operators. A Table never changes after it is built,
// so it is safe to share among any number of goroutines.
type Table struct {
	ops map[string]Operator
	eps float64
}

// Lookup returns the operator for a symbol.
func (t *Table) Lookup(sym string) (Operator, bool) {
	op, ok := t.ops[sym]
	return op, ok
}

// IsOperator returns whether sym names an operator or function in the table.
func (t *Table) IsOperator(sym string) bool {
	_, ok := t.ops[sym]
	return ok
}

// IsFunction returns whether sym names a function, i.e. an operator that
// requires a following parenthesized argument.
func (t *Table) IsFunction(sym string) bool {
	return t.ops[sym].Func
}

// Symbols returns the symbols in the table in sorted order.
func (t *Table) Symbols() []string {
	r := make([]string, 0, len(t.ops))
	for k := range t.ops {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Epsilon returns the division threshold the table was built with.
func (t *Table) Epsilon() float64 {
	return t.eps
}

// Builder collects operators into a Table. Builders are for program startup;
// a Table returned from a builder is unaffected by later registrations.
type Builder struct {
	ops map[string]Operator
	eps float64
}

// NewBuilder creates an empty builder. A non-positive epsilon selects
// DefaultEpsilon.
func NewBuilder(epsilon float64) *Builder {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Builder{ops: make(map[string]Operator), eps: epsilon}
}

// Register adds an operator. It is an error to register the same symbol twice
// or to register a malformed operator.
func (b *Builder) Register(op Operator) error {
	if err := checkOperator(op); err != nil {
		return err
	}
	if _, ok := b.ops[op.Symbol]; ok {
		return &DuplicateSymbolError{Symbol: op.Symbol}
	}
	b.ops[op.Symbol] = op
	return nil
}

// Epsilon returns the division threshold operators registered through b
// should use.
func (b *Builder) Epsilon() float64 {
	return b.eps
}

// Table returns a snapshot of the registered operators.
func (b *Builder) Table() *Table {
	t := Table{ops: make(map[string]Operator, len(b.ops)), eps: b.eps}
	for k, v := range b.ops {
		t.ops[k] = v
	}
	return &t
}

func checkOperator(op Operator) error {
	if op.Symbol == "" {
		return &OperatorDefError{Symbol: op.Symbol, Reason: "empty symbol"}
	}
	if op.Arity != Unary && op.Arity != Binary {
		return &OperatorDefError{Symbol: op.Symbol, Reason: "arity must be 1 or 2, not " + strconv.Itoa(int(op.Arity))}
	}
	if op.Eval == nil {
		return &OperatorDefError{Symbol: op.Symbol, Reason: "no Eval function"}
	}
	if op.Func {
		if op.Arity != Unary {
			return &OperatorDefError{Symbol: op.Symbol, Reason: "functions must be unary"}
		}
		for _, r := range op.Symbol {
			if !unicode.IsLetter(r) {
				return &OperatorDefError{Symbol: op.Symbol, Reason: "function names must be letters"}
			}
		}
		return nil
	}
	if op.Symbol == UnaryMinus || op.Symbol == UnaryPlus {
		return nil
	}
	rs := []rune(op.Symbol)
	if len(rs) != 1 {
		return &OperatorDefError{Symbol: op.Symbol, Reason: "operator symbols must be a single rune"}
	}
	switch r := rs[0]; {
	case r == '(', r == ')', r == '.', unicode.IsDigit(r), unicode.IsSpace(r):
		return &OperatorDefError{Symbol: op.Symbol, Reason: "invalid rune " + strconv.QuoteRune(r)}
	case unicode.IsLetter(r):
		// The lexer reads every run of letters as a function name.
		return &OperatorDefError{Symbol: op.Symbol, Reason: "alphabetic operators must be functions"}
	}
	return nil
}

// DuplicateSymbolError is returned when registering a symbol that is already
// registered.
type DuplicateSymbolError struct {
	Symbol string
}

func (err *DuplicateSymbolError) Error() string {
	return "operator already registered for symbol " + strconv.Quote(err.Symbol)
}

// OperatorDefError is returned when registering a malformed operator.
type OperatorDefError struct {
	Symbol string
	Reason string
}

func (err *OperatorDefError) Error() string {
	return "invalid operator " + strconv.Quote(err.Symbol) + ": " + err.Reason
}

// NewTable creates a table containing the default operators plus extra ones.
// A non-positive epsilon selects DefaultEpsilon.
func NewTable(epsilon float64, extra ...Operator) (*Table, error) {
	b := NewBuilder(epsilon)
	for _, op := range defaultOperators(b.Epsilon()) {
		if err := b.Register(op); err != nil {
			return nil, err
		}
	}
	for _, op := range extra {
		if err := b.Register(op); err != nil {
			return nil, err
		}
	}
	return b.Table(), nil
}

var defaultTable = func() *Table {
	t, err := NewTable(DefaultEpsilon)
	if err != nil {
		panic("rpncalc: building default table: " + err.Error())
	}
	return t
}()

// DefaultTable returns the table of default operators: + - * / with the usual
// precedences, the sign operators u- and u+, and the functions sin and cos.
func DefaultTable() *Table {
	return defaultTable
}

func defaultOperators(eps float64) []Operator {
	return []Operator{
		{Symbol: "+", Prec: 1, Assoc: Left, Arity: Binary, Eval: func(a []float64) (float64, error) {
			return a[0] + a[1], nil
		}},
		{Symbol: "-", Prec: 1, Assoc: Left, Arity: Binary, Eval: func(a []float64) (float64, error) {
			return a[0] - a[1], nil
		}},
		{Symbol: "*", Prec: 2, Assoc: Left, Arity: Binary, Eval: func(a []float64) (float64, error) {
			return a[0] * a[1], nil
		}},
		{Symbol: "/", Prec: 2, Assoc: Left, Arity: Binary, Eval: divide(eps)},
		{Symbol: UnaryMinus, Prec: 3, Assoc: Right, Arity: Unary, Eval: func(a []float64) (float64, error) {
			return -a[0], nil
		}},
		{Symbol: UnaryPlus, Prec: 3, Assoc: Right, Arity: Unary, Eval: func(a []float64) (float64, error) {
			return a[0], nil
		}},
		{Symbol: "sin", Prec: 3, Assoc: Right, Arity: Unary, Func: true, Eval: monadic(math.Sin)},
		{Symbol: "cos", Prec: 3, Assoc: Right, Arity: Unary, Func: true, Eval: monadic(math.Cos)},
	}
}

func divide(eps float64) func([]float64) (float64, error) {
	return func(a []float64) (float64, error) {
		if math.Abs(a[1]) < eps {
			return 0, &ArithmeticError{Op: "/", X: a[1], Err: ErrDivisionByZero}
		}
		return a[0] / a[1], nil
	}
}

// monadic wraps a function of one variable that cannot fail.
func monadic(f func(float64) float64) func([]float64) (float64, error) {
	return func(a []float64) (float64, error) {
		return f(a[0]), nil
	}
}
