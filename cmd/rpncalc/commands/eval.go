package commands

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zephyrtronium/rpncalc"
	"github.com/zephyrtronium/rpncalc/internal/console"
	"github.com/zephyrtronium/rpncalc/internal/reference"
	"github.com/zephyrtronium/rpncalc/internal/repl"
)

type evalOptions struct {
	file   string
	rpn    bool
	verify bool
}

func newEvalCommand(a *app) *cobra.Command {
	opts := &evalOptions{}
	cmd := &cobra.Command{
		Use:   "eval [expr...]",
		Short: "Evaluate an expression",
		Long: `Evaluate the expression formed by joining the arguments with spaces, or with
--file, each non-blank line of a file.`,
		Example: `  rpncalc eval '3+4*2'
  rpncalc eval --rpn -- '-(1+2)*3'
  rpncalc eval --file exprs.txt --verify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			exprs, err := opts.expressions(args)
			if err != nil {
				return err
			}
			return runEval(cmd, a, opts, exprs)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "evaluate each line of a file")
	cmd.Flags().BoolVar(&opts.rpn, "rpn", false, "print the RPN form before each result")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "check each result against the high-precision reference evaluator")
	return cmd
}

func (opts *evalOptions) expressions(args []string) ([]string, error) {
	if opts.file == "" {
		if len(args) == 0 {
			return nil, errors.New("nothing to evaluate")
		}
		return []string{strings.Join(args, " ")}, nil
	}
	if len(args) != 0 {
		return nil, errors.New("eval takes either arguments or --file, not both")
	}
	f, err := console.NewFileReader(opts.file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var exprs []string
	for {
		line, err := f.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return exprs, nil
			}
			return nil, err
		}
		if line = strings.TrimSpace(line); line != "" {
			exprs = append(exprs, line)
		}
	}
}

func runEval(cmd *cobra.Command, a *app, opts *evalOptions, exprs []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, expr := range exprs {
		r, rpn, err := evalOne(a, expr)
		if errors.Is(err, rpncalc.ErrNoExpression) {
			continue
		}
		if err == nil && opts.verify {
			err = verify(a, expr, r)
		}
		if err != nil {
			failed++
			fmt.Fprintln(cmd.ErrOrStderr(), repl.Render(err))
			continue
		}
		if opts.rpn {
			fmt.Fprintln(out, rpn)
		}
		fmt.Fprintln(out, strconv.FormatFloat(r, 'g', -1, 64))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d expressions failed", failed, len(exprs))
	}
	return nil
}

// evalOne compiles expr, validating it if the calculator is configured to, and
// runs the RPN text so that what --rpn prints is what was evaluated.
func evalOne(a *app, expr string) (float64, string, error) {
	rpn, err := a.calc.Compile(expr)
	if err != nil {
		return 0, "", err
	}
	text := rpncalc.FormatRPN(rpn)
	r, err := a.calc.EvaluateRPN(text)
	return r, text, err
}

// VerifyError reports a result that the reference evaluator disagrees with.
type VerifyError struct {
	Expr      string
	Got, Want float64
	// Err is the reference evaluator's error, if it failed.
	Err error
}

func (err *VerifyError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("verify %q: got %g, but reference evaluation failed: %v", err.Expr, err.Got, err.Err)
	}
	return fmt.Sprintf("verify %q: got %g, reference gives %g", err.Expr, err.Got, err.Want)
}

func (err *VerifyError) Unwrap() error {
	return err.Err
}

// verify recomputes expr at high precision and checks that r agrees with it
// to within float64 rounding of intermediate results.
func verify(a *app, expr string, r float64) error {
	want, err := reference.Float64(expr, reference.Epsilon(a.calc.Table().Epsilon()))
	if err != nil {
		return &VerifyError{Expr: expr, Got: r, Err: err}
	}
	if !agree(r, want) {
		a.log.Warn("verification failed", zap.String("expr", expr), zap.Float64("result", r), zap.Float64("reference", want))
		return &VerifyError{Expr: expr, Got: r, Want: want}
	}
	a.log.Debug("verified", zap.String("expr", expr), zap.Float64("reference", want))
	return nil
}

func agree(a, b float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) || math.IsNaN(a) || math.IsNaN(b) {
		return a == b || math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
