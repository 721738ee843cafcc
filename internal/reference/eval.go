package reference

import (
	"errors"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// DefaultPrec is the precision in bits used when a context is created without
// one.
const DefaultPrec = 128

// Context holds the settings and working stack for evaluating expressions. It
// is not safe to use a Context concurrently.
type Context struct {
	stack []*big.Float
	prec  uint
	eps   *big.Float
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	precopt uint
	epsopt  float64
)

func (precopt) ctxOption() {}
func (epsopt) ctxOption()  {}

// Prec sets the precision of calculations.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// Epsilon sets the magnitude below which a divisor counts as zero.
func Epsilon(eps float64) ContextOption {
	return epsopt(eps)
}

// NewContext creates a new evaluation context. The default precision is
// DefaultPrec, and the default epsilon is 1e-10.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{prec: DefaultPrec}
	eps := 1e-10
	for _, opt := range opts {
		switch opt := opt.(type) {
		case precopt:
			ctx.prec = uint(opt)
		case epsopt:
			eps = float64(opt)
		case nil:
		default:
			panic("reference: unknown option type")
		}
	}
	ctx.eps = new(big.Float).SetPrec(ctx.prec).SetFloat64(eps)
	return &ctx
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Eval parses and evaluates an expression.
func (ctx *Context) Eval(src io.RuneScanner) (r *big.Float, err error) {
	n, err := parse(src)
	if err != nil {
		return nil, err
	}
	ctx.stack = ctx.stack[:0]
	defer func() {
		// Operations like Inf-Inf panic with ErrNaN rather than returning.
		if x := recover(); x != nil {
			nan, ok := x.(big.ErrNaN)
			if !ok {
				panic(x)
			}
			r, err = nil, nan
		}
	}()
	if err := n.eval(ctx); err != nil {
		return nil, err
	}
	if len(ctx.stack) != 1 {
		panic("reference: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
	return ctx.stack[0], nil
}

func (ctx *Context) push() *big.Float {
	r := new(big.Float).SetPrec(ctx.prec)
	ctx.stack = append(ctx.stack, r)
	return r
}

// pop removes the top from the stack and returns it.
func (ctx *Context) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// eval pushes the node's value to the context's stack.
func (n *node) eval(ctx *Context) error {
	switch n.kind {
	case nodeNum:
		if _, _, err := ctx.push().Parse(n.name, 10); err != nil {
			panic("reference: invalid number: " + n.name + " (" + err.Error() + ")")
		}
		return nil
	case nodeCall:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		v := ctx.top()
		return funcs[n.name](v, v)
	case nodeNeg:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		v := ctx.top()
		v.Neg(v)
		return nil
	}
	if err := n.left.eval(ctx); err != nil {
		return err
	}
	if err := n.right.eval(ctx); err != nil {
		return err
	}
	r := ctx.pop()
	l := ctx.top()
	switch n.kind {
	case nodeAdd:
		l.Add(l, r)
	case nodeSub:
		l.Sub(l, r)
	case nodeMul:
		l.Mul(l, r)
	case nodeDiv:
		if new(big.Float).Abs(r).Cmp(ctx.eps) < 0 {
			return &DomainError{X: r, Func: "/"}
		}
		l.Quo(l, r)
	case nodePow:
		return pow(l, l, r)
	default:
		panic("reference: invalid AST node " + n.kind.String())
	}
	return nil
}

// pow sets z to x^y. A negative base requires an integer exponent.
func pow(z, x, y *big.Float) error {
	switch x.Sign() {
	case 0:
		switch y.Sign() {
		case 1:
			z.SetInt64(0)
		case 0:
			z.SetInt64(1)
		default:
			z.SetInf(false)
		}
		return nil
	case 1:
		bigfloat.Pow(z, x, y)
		return nil
	}
	if !y.IsInt() {
		return &DomainError{X: new(big.Float).Copy(x), Func: "^"}
	}
	yi, _ := y.Int(nil)
	odd := yi.Bit(0) == 1
	bigfloat.Pow(z, new(big.Float).Abs(x), y)
	if odd {
		z.Neg(z)
	}
	return nil
}

// funcs are the functions the reference evaluator knows. Each sets its first
// argument to the result of applying the function to its second.
var funcs = map[string]func(z, x *big.Float) error{
	"sin": viaFloat64("sin", math.Sin),
	"cos": viaFloat64("cos", math.Cos),
	"tan": viaFloat64("tan", math.Tan),
	"sqrt": func(z, x *big.Float) error {
		if x.Sign() < 0 {
			return &DomainError{X: new(big.Float).Copy(x), Func: "sqrt"}
		}
		z.Sqrt(x)
		return nil
	},
	"exp": func(z, x *big.Float) error {
		bigfloat.Exp(z, x)
		return nil
	},
	"ln": func(z, x *big.Float) error {
		if x.Sign() <= 0 {
			return &DomainError{X: new(big.Float).Copy(x), Func: "ln"}
		}
		bigfloat.Log(z, x)
		return nil
	},
	"abs": func(z, x *big.Float) error {
		z.Abs(x)
		return nil
	},
}

// viaFloat64 adapts a float64 function. The trigonometric functions have no
// arbitrary-precision implementation, so they are only as exact as math.
func viaFloat64(name string, f func(float64) float64) func(z, x *big.Float) error {
	return func(z, x *big.Float) error {
		v, _ := x.Float64()
		r := f(v)
		if math.IsNaN(r) {
			return &DomainError{X: new(big.Float).Copy(x), Func: name}
		}
		z.SetFloat64(r)
		return nil
	}
}

// Functions lists the function names the reference evaluator understands.
func Functions() []string {
	return []string{"abs", "cos", "exp", "ln", "sin", "sqrt", "tan"}
}

// EvalString is a shortcut to parse and evaluate a string expression with a
// new context.
func EvalString(src string, opts ...ContextOption) (*big.Float, error) {
	return NewContext(opts...).Eval(strings.NewReader(src))
}

// Float64 evaluates an expression and rounds the result to the nearest
// float64.
func Float64(src string, opts ...ContextOption) (float64, error) {
	r, err := EvalString(src, opts...)
	if err != nil {
		return 0, err
	}
	f, _ := r.Float64()
	return f, nil
}

// IsDomain returns whether err is a domain error, including division by zero
// and undefined results like Inf-Inf.
func IsDomain(err error) bool {
	return errors.As(err, new(*DomainError)) || errors.As(err, new(big.ErrNaN))
}
