// Package commands implements the rpncalc command line.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zephyrtronium/rpncalc"
	"github.com/zephyrtronium/rpncalc/internal/config"
	"github.com/zephyrtronium/rpncalc/internal/logger"
)

// app holds what every command needs once flags are parsed.
type app struct {
	cfgPath  string
	logLevel string

	cfg  *config.Config
	log  *zap.Logger
	calc *rpncalc.Calculator
}

// NewRootCmd creates the root command. Run without a subcommand, it starts the
// REPL.
func NewRootCmd() *cobra.Command {
	a := &app{}
	repl := newREPLCommand(a)
	rootCmd := &cobra.Command{
		Use:               "rpncalc",
		Short:             "Evaluate arithmetic expressions by way of RPN",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
		RunE:              repl.RunE,
	}
	rootCmd.Flags().AddFlagSet(repl.Flags())
	rootCmd.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default searches for rpncalc.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(
		repl,
		newEvalCommand(a),
		newRPNCommand(a),
		newConfigCommand(),
		newVersionCommand(a),
	)
	return rootCmd
}

// setup loads the configuration and builds the logger and calculator.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	log, err := logger.New(cfg.Logger())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log.With(zap.String("command", cmd.Name()))
	a.calc, err = cfg.Calculator(a.log)
	if err != nil {
		return err
	}
	a.log.Debug("configured", zap.Strings("operators", a.calc.Table().Symbols()), zap.Bool("validate", cfg.Validate))
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", a.cfg.App.Name, a.cfg.App.Version)
		},
	}
}
