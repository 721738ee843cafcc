package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quietConfig writes a config file that turns off the log file, followed by
// any extra settings.
func quietConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rpncalc.yaml")
	content := "log:\n  file: \"\"\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errs bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errs)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errs.String(), err
}

func TestEval(t *testing.T) {
	cfg := quietConfig(t, "")
	powCfg := quietConfig(t, "operators:\n  power: true\n  functions: [sqrt]\n")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "single",
			args: []string{"eval", "--config", cfg, "3+4*2"},
			want: "11\n",
		},
		{
			name: "joined",
			args: []string{"eval", "--config", cfg, "(1+2)", "*", "3"},
			want: "9\n",
		},
		{
			name: "rpn",
			args: []string{"eval", "--config", cfg, "--rpn", "--", "-(1+2)*3"},
			want: "1 2 + u- 3 *\n-9\n",
		},
		{
			name: "verify",
			args: []string{"eval", "--config", cfg, "--verify", "2*(3+4)/7"},
			want: "2\n",
		},
		{
			name: "power",
			args: []string{"eval", "--config", powCfg, "--verify", "2^10+sqrt(16)"},
			want: "1028\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	cfg := quietConfig(t, "")
	lax := quietConfig(t, "validate: false\n")
	tests := []struct {
		name string
		args []string
		tag  string
	}{
		{
			name: "division",
			args: []string{"eval", "--config", cfg, "1/0"},
			tag:  "[MATH]",
		},
		{
			name: "validation",
			args: []string{"eval", "--config", cfg, "1*/2"},
			tag:  "[SYNTAX]",
		},
		{
			name: "unbalanced",
			args: []string{"eval", "--config", lax, "(1+2"},
			tag:  "[SYNTAX]",
		},
		{
			name: "unvalidated",
			args: []string{"eval", "--config", lax, "1*/2"},
			tag:  "[EVAL]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errs, err := execute(t, "", tt.args...)
			assert.Error(t, err)
			assert.Empty(t, out)
			assert.Contains(t, errs, tt.tag)
		})
	}
}

func TestEvalSignedOperands(t *testing.T) {
	tests := []struct {
		name     string
		validate string
	}{
		{name: "validated", validate: "validate: true\n"},
		{name: "unvalidated", validate: "validate: false\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := quietConfig(t, tt.validate)
			out, errs, err := execute(t, "", "eval", "--config", cfg, "--", "2*-3+3*+2+2/-(1)+(1)*-sin(0)")
			require.NoError(t, err)
			assert.Empty(t, errs)
			assert.Equal(t, "-2\n", out)
		})
	}
}

func TestEvalBlank(t *testing.T) {
	cfg := quietConfig(t, "")
	out, errs, err := execute(t, "", "eval", "--config", cfg, " ")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, errs)
}

func TestEvalFile(t *testing.T) {
	cfg := quietConfig(t, "")
	exprs := filepath.Join(t.TempDir(), "exprs.txt")
	require.NoError(t, os.WriteFile(exprs, []byte("1+1\n\n  2*3  \n4/0\n-(2)\n"), 0o644))

	out, errs, err := execute(t, "", "eval", "--config", cfg, "--file", exprs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 4")
	assert.Equal(t, "2\n6\n-2\n", out)
	assert.Contains(t, errs, "[MATH]")

	_, _, err = execute(t, "", "eval", "--config", cfg, "--file", exprs, "1+1")
	assert.Error(t, err, "arguments and --file together")
	_, _, err = execute(t, "", "eval", "--config", cfg)
	assert.Error(t, err, "no expression")
}

func TestRPN(t *testing.T) {
	cfg := quietConfig(t, "")
	out, _, err := execute(t, "", "rpn", "--config", cfg, "--", "3", "4", "2", "*", "+")
	require.NoError(t, err)
	assert.Equal(t, "11\n", out)

	_, _, err = execute(t, "", "rpn", "--config", cfg, "--", "1", "+")
	assert.Error(t, err)
}

func TestREPL(t *testing.T) {
	cfg := quietConfig(t, "")
	tests := []struct {
		name string
		args []string
	}{
		{name: "default", args: []string{"--config", cfg}},
		{name: "subcommand", args: []string{"repl", "--config", cfg}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "1+\n2\n\n\n3*\n", tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, "rpncalc v1.0.0")
			assert.Contains(t, out, "Result: 3.0000   [1+ 2]")
			assert.Contains(t, out, "[SYNTAX]")
			assert.Contains(t, out, "Exiting calculator.")
		})
	}
}

func TestREPLFiles(t *testing.T) {
	cfg := quietConfig(t, "")
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	outPath := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(in, []byte("6/3\n\n\n\n"), 0o644))

	out, _, err := execute(t, "", "repl", "--config", cfg, "--input", in, "--output", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Result: 2.0000   [6/3]")
}

func TestVersion(t *testing.T) {
	cfg := quietConfig(t, "app:\n  version: 2.0.0\n")
	out, _, err := execute(t, "", "version", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "rpncalc v2.0.0\n", out)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "rpncalc.yaml")
	out, _, err := execute(t, "", "config", "init", path)
	require.NoError(t, err)
	assert.Equal(t, "wrote "+path+"\n", out)
	assert.FileExists(t, path)

	_, _, err = execute(t, "", "config", "init", path)
	assert.Error(t, err, "init must not overwrite")

	out, _, err = execute(t, "", "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "eval_threshold: 2")
}

func TestBadConfig(t *testing.T) {
	cfg := quietConfig(t, "repl:\n  eval_threshold: 3\n  exit_threshold: 3\n")
	_, _, err := execute(t, "", "eval", "--config", cfg, "1")
	assert.Error(t, err)

	// config subcommands work even when the file is broken.
	out, _, err := execute(t, "", "config", "init", filepath.Join(t.TempDir(), "x.yaml"))
	assert.NoError(t, err)
	assert.NotEmpty(t, out)
}
