//go:build go1.18
// +build go1.18

package rpncalc_test

import (
	"errors"
	"math"
	"testing"

	"github.com/zephyrtronium/rpncalc"
)

func FuzzEvaluate(f *testing.F) {
	f.Add("3+4*2")
	f.Add("--5")
	f.Add("2(3)")
	f.Add("2sin(0)")
	f.Add("-(1+2)*cos(3)")
	f.Add("1/0")
	f.Add("((")
	calc := rpncalc.New()
	f.Fuzz(func(t *testing.T, s string) {
		r, err := calc.Evaluate(s)
		if err != nil {
			if rpncalc.Kind(err) == "" && !errors.Is(err, rpncalc.ErrNoExpression) {
				t.Errorf("%q gave unclassified error %v", s, err)
			}
			return
		}
		rpn, err := calc.Compile(s)
		if err != nil {
			t.Fatalf("%q evaluated but didn't compile: %v", s, err)
		}
		q, err := calc.EvaluateRPN(rpncalc.FormatRPN(rpn))
		if err != nil {
			t.Fatalf("RPN of %q failed: %v", s, err)
		}
		if r != q && !(math.IsNaN(r) && math.IsNaN(q)) {
			t.Errorf("%q gave %g directly and %g through RPN", s, r, q)
		}
	})
}
