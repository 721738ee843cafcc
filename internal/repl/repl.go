// Package repl runs the interactive calculator loop. Lines accumulate into an
// expression until enough blank lines in a row ask for evaluation, and a few
// more end the session.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/zephyrtronium/rpncalc"
	"github.com/zephyrtronium/rpncalc/internal/config"
	"github.com/zephyrtronium/rpncalc/internal/console"
)

// Runner is one REPL session.
type Runner struct {
	cfg  *config.Config
	calc *rpncalc.Calculator
	in   console.LineReader
	out  console.Printer
	log  *zap.Logger
}

// New creates a runner. Validation, if any, is the calculator's; see
// config.Config.Calculator. log may be nil.
func New(cfg *config.Config, calc *rpncalc.Calculator, in console.LineReader, out console.Printer, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, calc: calc, in: in, out: out, log: log}
}

// Run reads and evaluates until the exit threshold of blank lines or the end
// of input. Cancelling ctx stops the loop before the next line is read; a
// read already in progress is not interrupted.
func (r *Runner) Run(ctx context.Context) error {
	r.welcome()
	var buf []string
	blanks := 0
	for blanks < r.cfg.REPL.ExitThreshold {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := r.in.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return fmt.Errorf("repl: %w", err)
			}
			if len(buf) > 0 {
				r.Process(strings.Join(buf, " "))
			}
			break
		}
		line = strings.TrimSpace(line)
		if line != "" {
			buf = append(buf, line)
			blanks = 0
			continue
		}
		blanks++
		if blanks == r.cfg.REPL.EvalThreshold {
			r.Process(strings.Join(buf, " "))
			buf = buf[:0]
		}
	}
	r.out.Println(r.cfg.Messages.Exit)
	r.log.Info("session ended")
	return nil
}

func (r *Runner) welcome() {
	r.out.Println(r.cfg.App.Name + " v" + r.cfg.App.Version)
	r.out.Println(r.cfg.Messages.Welcome)
	r.out.Println("")
}

// Process evaluates and displays one expression. No failure is
// returned; every error is displayed.
func (r *Runner) Process(expr string) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		r.out.Error(r.cfg.Messages.Empty)
		return
	}
	v, err := r.calc.Evaluate(expr)
	if err != nil {
		r.fail(expr, err)
		return
	}
	r.log.Info("evaluated", zap.String("expr", expr), zap.Float64("result", v))
	r.out.Result(fmt.Sprintf(r.cfg.Output.RecordFormat, r.cfg.Messages.ResultPrefix, v, expr))
}

func (r *Runner) fail(expr string, err error) {
	r.log.Warn("evaluation failed", zap.String("expr", expr), zap.String("kind", rpncalc.Kind(err)), zap.Error(err))
	r.out.Error(Render(err))
}

var tags = map[string]string{
	rpncalc.KindLexical:    "[LEX]",
	rpncalc.KindSyntax:     "[SYNTAX]",
	rpncalc.KindEvaluation: "[EVAL]",
	rpncalc.KindArithmetic: "[MATH]",
}

// Render formats an error for display with a tag naming its kind.
func Render(err error) string {
	tag, ok := tags[rpncalc.Kind(err)]
	if !ok {
		tag = "[UNEXPECTED]"
	}
	return tag + " " + err.Error()
}
