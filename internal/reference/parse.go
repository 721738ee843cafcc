package reference

import "io"

// Expr = num | Call | Neg | Add | Sub | Mul | Div | Pow | Mul2 | '(' Expr ')'
// Call = funcname '(' Expr ')'
// Neg = sign { sign } Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr
// Mul2 = Expr Expr
// Div = Expr '/' Expr
// Pow = Expr '^' Expr
//
// A run of signs directly before a number folds into the number, so -2^2 is
// (-2)^2. Before anything else, an odd run of signs negates with lower
// precedence than ^, so -(2)^2 is -(2^2).

// parse parses a complete expression.
func parse(src io.RuneScanner) (*node, error) {
	scan := lex(src)
	n, err := parseterm(scan, exprprec)
	if err != nil {
		return nil, err
	}
	switch tok := scan.must(); tok.kind {
	case tokenEOF:
	case tokenClose:
		return nil, &BracketError{Col: tok.pos, Close: true}
	default:
		panic("reference: parseterm stopped on " + tok.String())
	}
	return n, nil
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF.
func parseterm(scan *lexer, until operator) (*node, error) {
	n, err := parselhs(scan, until)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		var prec operator
		switch tok.kind {
		case tokenNum, tokenIdent, tokenOpen:
			// (parsed) x -> (parsed) * (x)
			scan.push(tok)
			prec = termprec
			if !prec.moreBinding(until) {
				return n, nil
			}
		case tokenOp:
			prec = binop(tok.text)
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
		case tokenClose, tokenEOF:
			scan.push(tok)
			return n, nil
		default:
			panic("reference: unknown token: " + tok.String())
		}
		rhs, err := parseterm(scan, prec)
		if err != nil {
			return nil, err
		}
		n = &node{kind: prec.op, left: n, right: rhs}
	}
}

// parselhs parses the first component of a term, where operators are unary.
func parselhs(scan *lexer, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		return &node{kind: nodeNum, name: tok.text}, nil
	case tokenIdent:
		if _, ok := funcs[tok.text]; !ok {
			return nil, &CallError{Col: tok.pos, Func: tok.text, Unknown: true}
		}
		open, err := scan.next()
		if err != nil {
			return nil, err
		}
		if open.kind != tokenOpen {
			return nil, &CallError{Col: tok.pos, Func: tok.text}
		}
		arg, err := parsegroup(scan)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeCall, name: tok.text, left: arg}, nil
	case tokenOpen:
		return parsegroup(scan)
	case tokenOp:
		return parsesigns(scan, tok, until)
	case tokenClose:
		return nil, &OperandError{Col: tok.pos, Text: tok.text}
	case tokenEOF:
		return nil, &OperandError{Col: tok.pos}
	default:
		panic("reference: unknown token: " + tok.String())
	}
}

// parsegroup parses the remainder of a parenthesized expression after the
// open parenthesis.
func parsegroup(scan *lexer) (*node, error) {
	n, err := parseterm(scan, exprprec)
	if err != nil {
		return nil, err
	}
	end := scan.must()
	if end.kind != tokenClose {
		return nil, &BracketError{Col: end.pos}
	}
	return n, nil
}

// parsesigns parses a run of signs starting with first and the operand they
// apply to.
func parsesigns(scan *lexer, first lexToken, until operator) (*node, error) {
	neg := false
	tok := first
	for {
		switch tok.text {
		case "-":
			neg = !neg
		case "+":
		default:
			return nil, &OperandError{Col: tok.pos, Text: tok.text}
		}
		var err error
		tok, err = scan.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenOp {
			break
		}
	}
	if tok.kind == tokenNum {
		if neg {
			tok.text = "-" + tok.text
		}
		return &node{kind: nodeNum, name: tok.text}, nil
	}
	scan.push(tok)
	if !neg {
		return parselhs(scan, until)
	}
	prec := negprec
	if !prec.moreBinding(until) {
		// x^-(y) -> x^(-(y))
		prec.prec, prec.right = until.prec, until.right
	}
	rhs, err := parseterm(scan, prec)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeNeg, left: rhs}, nil
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right is whether the operator is right-associative.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. Every operator the lexer
// produces is a binary operator.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		panic("reference: unknown operator " + text)
	}
}

var (
	// termprec is the precedence of implicit multiplication.
	termprec = operator{5, false, nodeMul}
	// negprec is the precedence of negation applied to anything but a number.
	negprec = operator{10, true, nodeNeg}
	// exprprec is the precedence required to parse an entire subexpression.
	exprprec = operator{-128, true, nodeNone}
)
