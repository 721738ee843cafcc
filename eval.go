package rpncalc

import "errors"

// Evaluator executes RPN sequences. Each call to Evaluate uses its own stack,
// so an Evaluator is safe for concurrent use.
type Evaluator struct {
	table *Table
}

// NewEvaluator creates an evaluator that applies the operators in table.
func NewEvaluator(table *Table) *Evaluator {
	return &Evaluator{table: table}
}

// Evaluate executes an RPN sequence and returns the single value it leaves.
// Missing operands are an error; they are never taken to be zero.
func (e *Evaluator) Evaluate(rpn []Token) (float64, error) {
	if len(rpn) == 0 {
		return 0, ErrNoExpression
	}
	stack := make([]float64, 0, len(rpn)/2+1)
	var buf [2]float64
	for _, tok := range rpn {
		switch tok.Kind {
		case TokenNum:
			stack = append(stack, tok.Value)
		case TokenOp:
			op, ok := e.table.Lookup(tok.Text)
			if !ok {
				return 0, &EvalError{Col: tok.Pos, Token: tok.Text, Err: ErrUnknownToken}
			}
			n := int(op.Arity)
			if len(stack) < n {
				return 0, &EvalError{Col: tok.Pos, Token: tok.Text, Err: ErrInsufficientOperands}
			}
			// Copy the operands out so that Eval can't hold on to the stack.
			args := buf[:n]
			copy(args, stack[len(stack)-n:])
			r, err := op.Eval(args)
			if err != nil {
				return 0, arithmetic(op.Symbol, args, err)
			}
			stack = append(stack[:len(stack)-n], r)
		default:
			return 0, &EvalError{Col: tok.Pos, Token: tok.Text, Err: ErrUnknownToken}
		}
	}
	if len(stack) != 1 {
		return 0, &EvalError{Err: ErrMalformedExpression}
	}
	return stack[0], nil
}

// arithmetic ensures that a failure from an operator is an ArithmeticError.
func arithmetic(sym string, args []float64, err error) error {
	if errors.As(err, new(*ArithmeticError)) {
		return err
	}
	return &ArithmeticError{Op: sym, X: args[len(args)-1], Err: err}
}
