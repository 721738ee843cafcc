package repl_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zephyrtronium/rpncalc"
	"github.com/zephyrtronium/rpncalc/internal/config"
	"github.com/zephyrtronium/rpncalc/internal/repl"
)

// lines is a LineReader over fixed input.
type lines struct {
	l   []string
	err error
}

func (s *lines) ReadLine() (string, error) {
	if len(s.l) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	r := s.l[0]
	s.l = s.l[1:]
	return r, nil
}

type entry struct {
	kind string
	text string
}

// recorder is a Printer that remembers what it was given.
type recorder struct {
	out []entry
}

func (p *recorder) Println(s string) { p.out = append(p.out, entry{"msg", s}) }
func (p *recorder) Result(s string)  { p.out = append(p.out, entry{"result", s}) }
func (p *recorder) Error(s string)   { p.out = append(p.out, entry{"error", s}) }

// body drops the welcome banner and the exit message.
func (p *recorder) body() []entry {
	if len(p.out) < 4 {
		return nil
	}
	return p.out[3 : len(p.out)-1]
}

func run(t *testing.T, cfg *config.Config, input ...string) *recorder {
	t.Helper()
	calc, err := cfg.Calculator(nil)
	require.NoError(t, err)
	out := &recorder{}
	r := repl.New(cfg, calc, &lines{l: input}, out, nil)
	require.NoError(t, r.Run(context.Background()))
	return out
}

func TestRunBanner(t *testing.T) {
	cfg := config.Default()
	out := run(t, cfg, "", "", "")
	require.Len(t, out.out, 5)
	assert.Equal(t, entry{"msg", "rpncalc v" + config.Version}, out.out[0])
	assert.Equal(t, entry{"msg", cfg.Messages.Welcome}, out.out[1])
	assert.Equal(t, entry{"msg", ""}, out.out[2])
	assert.Equal(t, entry{"error", cfg.Messages.Empty}, out.out[3])
	assert.Equal(t, entry{"msg", cfg.Messages.Exit}, out.out[4])
}

func TestRunThresholds(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []entry
	}{
		{
			name:  "single line",
			input: []string{"3+4*2", "", ""},
			want:  []entry{{"result", "Result: 11.0000   [3+4*2]"}},
		},
		{
			name:  "joined lines",
			input: []string{"  3 +", "4", "", "", "*2", "", ""},
			want: []entry{
				{"result", "Result: 7.0000   [3 + 4]"},
				{"error", "[EVAL] 1: insufficient operands for \"*\""},
			},
		},
		{
			name:  "one blank continues",
			input: []string{"1+", "", "2", "", ""},
			want:  []entry{{"result", "Result: 3.0000   [1+ 2]"}},
		},
		{
			name:  "whitespace is blank",
			input: []string{"2(3)", " \t", "   "},
			want:  []entry{{"result", "Result: 6.0000   [2(3)]"}},
		},
		{
			name:  "exit before eval",
			input: []string{"", "", "", "1+1", "", ""},
			want:  []entry{{"error", "Nothing to evaluate."}},
		},
		{
			name:  "eof flushes",
			input: []string{"5/2"},
			want:  []entry{{"result", "Result: 2.5000   [5/2]"}},
		},
		{
			name:  "eof empty",
			input: []string{"7", "", "", "  "},
			want:  []entry{{"result", "Result: 7.0000   [7]"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Validate = false
			out := run(t, cfg, tt.input...)
			assert.Equal(t, tt.want, out.body())
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		tag  string
	}{
		{"lexical", "2 $ 3", "[LEX]"},
		{"syntax", "(1+2", "[SYNTAX]"},
		{"validation", "1*/2", "[SYNTAX]"},
		{"evaluation", "2 3", "[EVAL]"},
		{"arithmetic", "1/0", "[MATH]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, config.Default(), tt.expr, "", "", "1+1", "", "")
			body := out.body()
			require.Len(t, body, 2, "an error must not end the session")
			assert.Equal(t, "error", body[0].kind)
			assert.Contains(t, body[0].text, tt.tag+" ")
			assert.Equal(t, entry{"result", "Result: 2.0000   [1+1]"}, body[1])
		})
	}
}

func TestRunConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.REPL.EvalThreshold = 1
	cfg.REPL.ExitThreshold = 2
	cfg.Messages.ResultPrefix = "="
	cfg.Output.RecordFormat = "%s %g (%s)"
	cfg.Operators.Power = true
	cfg.Operators.Functions = []string{"sqrt"}
	out := run(t, cfg, "sqrt(16)^2", "", "2^10", "", "", "ignored", "")
	assert.Equal(t, []entry{
		{"result", "= 16 (sqrt(16)^2)"},
		{"result", "= 1024 (2^10)"},
	}, out.body())
}

func TestRunReadError(t *testing.T) {
	boom := errors.New("boom")
	cfg := config.Default()
	r := repl.New(cfg, rpncalc.New(), &lines{l: []string{"1"}, err: boom}, &recorder{}, nil)
	err := r.Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRunCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := &recorder{}
	r := repl.New(config.Default(), rpncalc.New(), &lines{l: []string{"1", "", ""}}, out, nil)
	err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, out.out, 3, "only the banner is written")
}

func TestRunLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	out := &recorder{}
	r := repl.New(config.Default(), rpncalc.New(), &lines{l: []string{"1+2", "", "", "1/0", "", ""}}, out, zap.New(core))
	require.NoError(t, r.Run(context.Background()))

	ok := logs.FilterMessage("evaluated").All()
	require.Len(t, ok, 1)
	assert.Equal(t, "1+2", ok[0].ContextMap()["expr"])
	bad := logs.FilterMessage("evaluation failed").All()
	require.Len(t, bad, 1)
	assert.Equal(t, zap.WarnLevel, bad[0].Level)
	assert.Equal(t, rpncalc.KindArithmetic, bad[0].ContextMap()["kind"])
}

func TestRender(t *testing.T) {
	_, err := rpncalc.Evaluate("1/0")
	assert.Equal(t, "[MATH] "+err.Error(), repl.Render(err))
	assert.Equal(t, "[UNEXPECTED] other", repl.Render(errors.New("other")))
}

func TestRunValidation(t *testing.T) {
	tests := []struct {
		name     string
		validate bool
		expr     string
		want     entry
	}{
		{"signed operand", true, "2*-3", entry{"result", "Result: -6.0000   [2*-3]"}},
		{"signed group", true, "2/-(1)", entry{"result", "Result: -2.0000   [2/-(1)]"}},
		{"adjacent operators", true, "1*/2", entry{"error", "[SYNTAX] "}},
		{"adjacent operators unchecked", false, "1*/2", entry{"error", "[EVAL] "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Validate = tt.validate
			body := run(t, cfg, tt.expr, "", "").body()
			require.Len(t, body, 1)
			assert.Equal(t, tt.want.kind, body[0].kind)
			assert.Contains(t, body[0].text, tt.want.text)
		})
	}
}
