package rpncalc

import "unicode"

// Check is a single validation of expression text. It returns nil if the
// expression passes.
type Check func(expr string) error

// Validator runs checks over expression text before it is tokenized. The
// lexer, converter, and evaluator reject malformed input on their own;
// validation rejects some of it earlier and with syntax errors.
type Validator struct {
	checks []Check
}

// NewValidator creates a validator that runs checks in order.
func NewValidator(checks ...Check) *Validator {
	return &Validator{checks: checks}
}

// DefaultValidator creates a validator that checks, in order, that the
// expression is not blank, parentheses balance, no binary operator starts or
// ends the expression, no two binary operators are adjacent unless the second
// begins a sign run applied to an operand, and every function is followed by a non-empty argument list.
func DefaultValidator(table *Table) *Validator {
	return NewValidator(
		CheckNotBlank,
		CheckParens,
		CheckPlacement(table),
		CheckAdjacent(table),
		CheckCalls(table),
	)
}

// Validate returns the first failure among the validator's checks.
func (v *Validator) Validate(expr string) error {
	for _, c := range v.checks {
		if err := c(expr); err != nil {
			return err
		}
	}
	return nil
}

// CheckNotBlank fails with ErrNoExpression on blank text.
func CheckNotBlank(expr string) error {
	if len(compact(expr)) == 0 {
		return ErrNoExpression
	}
	return nil
}

// CheckParens checks that parentheses balance.
func CheckParens(expr string) error {
	var open []int
	for _, c := range compact(expr) {
		switch c.r {
		case '(':
			open = append(open, c.col)
		case ')':
			if len(open) == 0 {
				return &SyntaxError{Col: c.col, Text: ")", Err: ErrMismatchedParen}
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		return &SyntaxError{Col: open[len(open)-1], Text: "(", Err: ErrMismatchedParen}
	}
	return nil
}

// CheckPlacement creates a check that the expression neither starts with a
// binary operator other than a sign nor ends with any binary operator.
func CheckPlacement(table *Table) Check {
	return func(expr string) error {
		s := compact(expr)
		if len(s) == 0 {
			return nil
		}
		if first := s[0]; isBinary(table, first.r) && !isSign(first.r) {
			return &SyntaxError{Col: first.col, Text: string(first.r), Err: ErrOperatorPlacement}
		}
		if last := s[len(s)-1]; isBinary(table, last.r) {
			return &SyntaxError{Col: last.col, Text: string(last.r), Err: ErrOperatorPlacement}
		}
		return nil
	}
}

// CheckAdjacent creates a check that no two binary operators are adjacent.
// A run of signs after an operator is allowed when an operand follows it,
// since the signs then belong to that operand, as in "2*-3" or "2/-(1)".
func CheckAdjacent(table *Table) Check {
	return func(expr string) error {
		s := compact(expr)
		for i := 1; i < len(s); i++ {
			a, b := s[i-1].r, s[i].r
			if !isBinary(table, a) || !isBinary(table, b) {
				continue
			}
			if isSign(b) && signsOperand(s, i) {
				continue
			}
			return &SyntaxError{Col: s[i].col, Text: string(b), Err: ErrOperatorPlacement}
		}
		return nil
	}
}

// signsOperand returns whether the run of signs at s[i] is followed by
// something that can begin an operand.
func signsOperand(s []posRune, i int) bool {
	for i < len(s) && isSign(s[i].r) {
		i++
	}
	if i >= len(s) {
		return false
	}
	r := s[i].r
	return isDigit(r) || r == '.' || r == '(' || unicode.IsLetter(r)
}

// CheckCalls creates a check that every function name is followed by a
// parenthesized argument list that is not empty.
func CheckCalls(table *Table) Check {
	return func(expr string) error {
		s := compact(expr)
		for i := 0; i < len(s); {
			if !unicode.IsLetter(s[i].r) {
				i++
				continue
			}
			j := i
			name := make([]rune, 0, 8)
			for j < len(s) && unicode.IsLetter(s[j].r) {
				name = append(name, s[j].r)
				j++
			}
			if table.IsFunction(string(name)) {
				if j >= len(s) || s[j].r != '(' || j+1 < len(s) && s[j+1].r == ')' {
					return &SyntaxError{Col: s[i].col, Text: string(name), Err: ErrMalformedCall}
				}
			}
			i = j
		}
		return nil
	}
}

// posRune is a non-space rune with its column in the original text.
type posRune struct {
	r   rune
	col int
}

// compact removes whitespace from expr, remembering columns.
func compact(expr string) []posRune {
	var s []posRune
	col := 0
	for _, r := range expr {
		col++
		if unicode.IsSpace(r) {
			continue
		}
		s = append(s, posRune{r: r, col: col})
	}
	return s
}

// isBinary returns whether r is the symbol of a binary operator.
func isBinary(table *Table, r rune) bool {
	op, ok := table.Lookup(string(r))
	return ok && op.Arity == Binary
}
