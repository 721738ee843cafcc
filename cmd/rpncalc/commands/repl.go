package commands

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/rpncalc/internal/console"
	"github.com/zephyrtronium/rpncalc/internal/repl"
)

type replOptions struct {
	input  string
	output string
}

func newREPLCommand(a *app) *cobra.Command {
	opts := &replOptions{}
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive calculator",
		Long: `Start the interactive calculator. Lines accumulate into one expression;
two blank lines evaluate it and three end the session (both configurable).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, a, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "read lines from a file instead of standard input")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "append output to a file instead of standard output")
	return cmd
}

func runREPL(cmd *cobra.Command, a *app, opts *replOptions) error {
	var in console.LineReader
	if opts.input != "" {
		f, err := console.NewFileReader(opts.input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	} else {
		in = console.NewConsoleReader(cmd.InOrStdin(), promptWriter(cmd, opts), a.cfg.REPL.Prompt)
	}

	var out console.Printer
	if opts.output != "" {
		f, err := console.NewFilePrinter(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	} else {
		colored := a.cfg.Output.Color && !color.NoColor && cmd.OutOrStdout() == os.Stdout
		out = console.NewConsolePrinter(cmd.OutOrStdout(), colored)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	err := repl.New(a.cfg, a.calc, in, out, a.log).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// promptWriter is where prompts go. Prompts are noise in an output file.
func promptWriter(cmd *cobra.Command, opts *replOptions) io.Writer {
	if opts.output != "" {
		return io.Discard
	}
	return cmd.OutOrStdout()
}
