package rpncalc

import (
	"math"
	"sort"
)

// Power returns the exponentiation operator ^. It binds tighter than the sign
// operators and groups right to left, so 2^3^2 is 2^(3^2). A negative base
// with a non-integer exponent is outside its domain.
//
// Signs are folded into number literals, so -2^2 is (-2)^2 but -(2)^2 is
// -(2^2).
func Power() Operator {
	return Operator{
		Symbol: "^",
		Prec:   4,
		Assoc:  Right,
		Arity:  Binary,
		Eval: func(a []float64) (float64, error) {
			if a[0] < 0 && a[1] != math.Trunc(a[1]) {
				return 0, &ArithmeticError{Op: "^", X: a[0], Err: ErrDomain}
			}
			return math.Pow(a[0], a[1]), nil
		},
	}
}

// Function creates a function operator from a function of one variable.
// domain reports whether an argument is acceptable; if it is nil, every
// argument is.
func Function(name string, f func(float64) float64, domain func(float64) bool) Operator {
	return Operator{
		Symbol: name,
		Prec:   3,
		Assoc:  Right,
		Arity:  Unary,
		Func:   true,
		Eval: func(a []float64) (float64, error) {
			if domain != nil && !domain(a[0]) {
				return 0, &ArithmeticError{Op: name, X: a[0], Err: ErrDomain}
			}
			return f(a[0]), nil
		},
	}
}

var builtins = map[string]Operator{
	"tan":  Function("tan", math.Tan, nil),
	"sqrt": Function("sqrt", math.Sqrt, func(x float64) bool { return x >= 0 }),
	"exp":  Function("exp", math.Exp, nil),
	"ln":   Function("ln", math.Log, func(x float64) bool { return x > 0 }),
	"abs":  Function("abs", math.Abs, nil),
}

// Builtin returns an optional function that is not in the default table. The
// available names are listed by Builtins.
func Builtin(name string) (Operator, bool) {
	op, ok := builtins[name]
	return op, ok
}

// Builtins lists the names of the optional functions in sorted order.
func Builtins() []string {
	r := make([]string, 0, len(builtins))
	for k := range builtins {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}
