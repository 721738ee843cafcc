package rpncalc_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/rpncalc"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  error
		pos  int
	}{
		{"ok", "3+4*2", nil, 0},
		{"ok-signs", "2--3", nil, 0},
		{"ok-spaced-signs", "1+ +2", nil, 0},
		{"ok-leading-sign", "-1", nil, 0},
		{"ok-call", "sin (0)", nil, 0},
		{"ok-unknown-name", "foo", nil, 0},
		{"blank", " \t", rpncalc.ErrNoExpression, 0},
		{"unclosed", "(1", rpncalc.ErrMismatchedParen, 1},
		{"unopened", "1)", rpncalc.ErrMismatchedParen, 2},
		{"crossed", ")(", rpncalc.ErrMismatchedParen, 1},
		{"leading-op", "*1", rpncalc.ErrOperatorPlacement, 1},
		{"trailing-op", "1 + ", rpncalc.ErrOperatorPlacement, 3},
		{"trailing-sign", "1-", rpncalc.ErrOperatorPlacement, 2},
		{"adjacent", "1*/2", rpncalc.ErrOperatorPlacement, 3},
		{"sign-after-op", "2*-3", nil, 0},
		{"sign-before-group", "2/-(1)", nil, 0},
		{"sign-before-call", "(1)*-sin(0)", nil, 0},
		{"plus-after-op", "3*+2", nil, 0},
		{"sign-run-after-op", "3* - -2", nil, 0},
		{"sign-then-op", "2*-*3", rpncalc.ErrOperatorPlacement, 3},
		{"sign-then-close", "(2*-)", rpncalc.ErrOperatorPlacement, 4},
		{"bare-func", "sin", rpncalc.ErrMalformedCall, 1},
		{"func-no-paren", "1+cos 2", rpncalc.ErrMalformedCall, 3},
		{"empty-call", "sin()", rpncalc.ErrMalformedCall, 1},
		{"parens-first", "(*1", rpncalc.ErrMismatchedParen, 1},
	}
	v := rpncalc.DefaultValidator(rpncalc.DefaultTable())
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := v.Validate(c.src)
			if !errors.Is(err, c.err) {
				t.Fatalf("wrong error for %q: want %v, got %v", c.src, c.err, err)
			}
			if c.pos == 0 {
				return
			}
			var serr *rpncalc.SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("%q gave %T, not *SyntaxError", c.src, err)
			}
			if serr.Pos() != c.pos {
				t.Errorf("wrong position for %q: want %d, got %d", c.src, c.pos, serr.Pos())
			}
		})
	}
}

func TestValidatorCustom(t *testing.T) {
	short := errors.New("too short")
	v := rpncalc.NewValidator(rpncalc.CheckNotBlank, func(expr string) error {
		if len(expr) < 3 {
			return short
		}
		return nil
	})
	if err := v.Validate(""); !errors.Is(err, rpncalc.ErrNoExpression) {
		t.Errorf("checks ran out of order: %v", err)
	}
	if err := v.Validate("1"); !errors.Is(err, short) {
		t.Errorf("custom check didn't run: %v", err)
	}
	if err := v.Validate("1+2"); err != nil {
		t.Errorf("valid expression failed: %v", err)
	}
	if err := rpncalc.NewValidator().Validate(""); err != nil {
		t.Errorf("empty validator failed: %v", err)
	}
}

func TestCalculatorValidation(t *testing.T) {
	table := rpncalc.DefaultTable()
	strict := rpncalc.New(rpncalc.WithValidator(rpncalc.DefaultValidator(table)))
	for _, src := range []string{"2*-3", "3*+2", "2/-(1)", "(1)*-sin(0)"} {
		want, err := rpncalc.Evaluate(src)
		if err != nil {
			t.Fatalf("%q failed without validation: %v", src, err)
		}
		got, err := strict.Evaluate(src)
		if err != nil || got != want {
			t.Errorf("validating calculator gave %g, %v for %q; want %g", got, err, src, want)
		}
	}
	_, err := strict.Evaluate("1*/2")
	if !errors.Is(err, rpncalc.ErrOperatorPlacement) {
		t.Errorf("validating calculator accepted 1*/2: %v", err)
	}
	_, err = strict.Evaluate("3+")
	if rpncalc.Kind(err) != rpncalc.KindSyntax {
		t.Errorf("validating calculator gave %v for 3+", err)
	}
	r, err := strict.Evaluate("2*(0-3)")
	if err != nil || r != -6 {
		t.Errorf("validating calculator gave %g, %v", r, err)
	}
}
