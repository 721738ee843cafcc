package rpncalc

// Converter reorders infix tokens into RPN using the shunting-yard algorithm.
// Like Lexer, it keeps no state between calls.
type Converter struct {
	table *Table
}

// NewConverter creates a converter that uses table for precedence and
// associativity.
func NewConverter(table *Table) *Converter {
	return &Converter{table: table}
}

// pending is an entry on the parse stack: either an operator or the marker
// for an open parenthesis.
type pending struct {
	tok   Token
	op    Operator
	paren bool
}

// Convert returns the RPN form of an infix token sequence. The result contains
// only TokenNum and TokenOp tokens.
func (c *Converter) Convert(toks []Token) ([]Token, error) {
	if len(toks) == 0 {
		return nil, ErrNoExpression
	}
	out := make([]Token, 0, len(toks))
	var stack []pending
	for i, tok := range toks {
		switch tok.Kind {
		case TokenNum:
			out = append(out, tok)
		case TokenOp:
			op, ok := c.table.Lookup(tok.Text)
			if !ok {
				return nil, &EvalError{Col: tok.Pos, Token: tok.Text, Err: ErrUnknownToken}
			}
			if op.Func && (i+1 >= len(toks) || toks[i+1].Kind != TokenOpen) {
				return nil, &SyntaxError{Col: tok.Pos, Text: tok.Text, Err: ErrMalformedCall}
			}
			out, stack = pushOperator(out, stack, tok, op)
		case TokenOpen:
			stack = append(stack, pending{tok: tok, paren: true})
		case TokenClose:
			if i > 0 && toks[i-1].Kind == TokenOpen {
				return nil, c.emptyGroup(stack, tok)
			}
			var err error
			out, stack, err = closeParen(out, stack, tok)
			if err != nil {
				return nil, err
			}
		default:
			return nil, &EvalError{Col: tok.Pos, Token: tok.Text, Err: ErrUnknownToken}
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.paren {
			return nil, &SyntaxError{Col: top.tok.Pos, Text: top.tok.Text, Err: ErrMismatchedParen}
		}
		out = append(out, top.tok)
		stack = stack[:len(stack)-1]
	}
	return out, nil
}

// pushOperator moves operators that bind at least as tightly as op from the
// stack to the output, then pushes op. Unary operators have no left operand,
// so they never displace anything.
func pushOperator(out []Token, stack []pending, tok Token, op Operator) ([]Token, []pending) {
	for op.Arity == Binary && len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.paren {
			break
		}
		// Right-associative operators stack onto equal precedence rather than
		// popping it.
		if op.Assoc == Left && op.Prec > top.op.Prec || op.Assoc == Right && op.Prec >= top.op.Prec {
			break
		}
		out = append(out, top.tok)
		stack = stack[:len(stack)-1]
	}
	return out, append(stack, pending{tok: tok, op: op})
}

// closeParen pops operators to the output until the matching open parenthesis.
// If the parenthesis held a function's argument, the function follows it.
func closeParen(out []Token, stack []pending, tok Token) ([]Token, []pending, error) {
	for {
		if len(stack) == 0 {
			return nil, nil, &SyntaxError{Col: tok.Pos, Text: tok.Text, Err: ErrMismatchedParen}
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.paren {
			break
		}
		out = append(out, top.tok)
	}
	if n := len(stack); n > 0 && stack[n-1].op.Func && stack[n-1].op.Arity == Unary {
		out = append(out, stack[n-1].tok)
		stack = stack[:n-1]
	}
	return out, stack, nil
}

// emptyGroup builds the error for "()". The error is about the call if the
// parentheses belong to a function.
func (c *Converter) emptyGroup(stack []pending, tok Token) error {
	if n := len(stack); n >= 2 && stack[n-1].paren && stack[n-2].op.Func {
		f := stack[n-2].tok
		return &SyntaxError{Col: f.Pos, Text: f.Text, Err: ErrMalformedCall}
	}
	return &SyntaxError{Col: tok.Pos, Text: tok.Text, Err: ErrEmptyGroup}
}
