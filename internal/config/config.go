// Package config loads calculator settings with viper. Every key has a
// default, so a config file is optional.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/zephyrtronium/rpncalc"
	"github.com/zephyrtronium/rpncalc/internal/logger"
)

// Config is the full application configuration.
type Config struct {
	App       App       `yaml:"app"`
	REPL      REPL      `yaml:"repl"`
	Messages  Messages  `yaml:"messages"`
	Output    Output    `yaml:"output"`
	Operators Operators `yaml:"operators"`
	Validate  bool      `yaml:"validate"`
	Log       Log       `yaml:"log"`
}

// App identifies the program.
type App struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// REPL holds the interactive loop's thresholds.
type REPL struct {
	// EvalThreshold is the number of consecutive blank lines that evaluates
	// the buffered expression.
	EvalThreshold int `yaml:"eval_threshold" mapstructure:"eval_threshold"`
	// ExitThreshold is the number of consecutive blank lines that ends the
	// loop.
	ExitThreshold int    `yaml:"exit_threshold" mapstructure:"exit_threshold"`
	Prompt        string `yaml:"prompt"`
}

// Messages are the fixed texts the REPL prints.
type Messages struct {
	Welcome      string `yaml:"welcome"`
	Exit         string `yaml:"exit"`
	Empty        string `yaml:"empty"`
	ResultPrefix string `yaml:"result_prefix" mapstructure:"result_prefix"`
}

// Output controls result rendering.
type Output struct {
	// RecordFormat is a fmt format taking the result prefix, the value, and
	// the expression, in that order.
	RecordFormat string `yaml:"record_format" mapstructure:"record_format"`
	Color        bool   `yaml:"color"`
}

// Operators selects the operator table.
type Operators struct {
	// Functions are optional functions to add to sin and cos.
	Functions []string `yaml:"functions"`
	// Power enables the ^ operator.
	Power   bool    `yaml:"power"`
	Epsilon float64 `yaml:"epsilon"`
}

// Log configures the log file.
type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	Compress   bool   `yaml:"compress"`
	Stderr     bool   `yaml:"stderr"`
}

// Version is the program version reported when the config doesn't override
// it.
const Version = "1.0.0"

// EnvPrefix is the prefix of environment variables that override config
// keys, e.g. RPNCALC_REPL_EVAL_THRESHOLD.
const EnvPrefix = "RPNCALC"

// Default returns the default configuration.
func Default() *Config {
	l := logger.DefaultConfig()
	return &Config{
		App: App{Name: "rpncalc", Version: Version},
		REPL: REPL{
			EvalThreshold: 2,
			ExitThreshold: 3,
			Prompt:        "> ",
		},
		Messages: Messages{
			Welcome:      "Enter numbers, operators, or a full expression (two blank lines evaluate, three exit):",
			Exit:         "Exiting calculator.",
			Empty:        "Nothing to evaluate.",
			ResultPrefix: "Result:",
		},
		Output: Output{
			RecordFormat: "%s %.4f   [%s]",
			Color:        true,
		},
		Operators: Operators{Epsilon: rpncalc.DefaultEpsilon},
		Validate:  true,
		Log: Log{
			Level:      l.Level,
			File:       l.FileName,
			MaxSize:    l.MaxSize,
			MaxAge:     l.MaxAge,
			MaxBackups: l.MaxBackups,
			Compress:   l.Compress,
		},
	}
}

// setDefaults registers every default with v, so that unmarshaling and
// environment lookups see all keys.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("app.name", d.App.Name)
	v.SetDefault("app.version", d.App.Version)
	v.SetDefault("repl.eval_threshold", d.REPL.EvalThreshold)
	v.SetDefault("repl.exit_threshold", d.REPL.ExitThreshold)
	v.SetDefault("repl.prompt", d.REPL.Prompt)
	v.SetDefault("messages.welcome", d.Messages.Welcome)
	v.SetDefault("messages.exit", d.Messages.Exit)
	v.SetDefault("messages.empty", d.Messages.Empty)
	v.SetDefault("messages.result_prefix", d.Messages.ResultPrefix)
	v.SetDefault("output.record_format", d.Output.RecordFormat)
	v.SetDefault("output.color", d.Output.Color)
	v.SetDefault("operators.functions", d.Operators.Functions)
	v.SetDefault("operators.power", d.Operators.Power)
	v.SetDefault("operators.epsilon", d.Operators.Epsilon)
	v.SetDefault("validate", d.Validate)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_age", d.Log.MaxAge)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.compress", d.Log.Compress)
	v.SetDefault("log.stderr", d.Log.Stderr)
}

// Load reads the configuration. If path is empty, Load looks for rpncalc.yaml
// in the working directory, $HOME/.rpncalc, and /etc/rpncalc, and a missing
// file is not an error. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("rpncalc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.rpncalc")
		v.AddConfigPath("/etc/rpncalc")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Check reports settings that can't work.
func (c *Config) Check() error {
	if c.REPL.EvalThreshold < 1 {
		return fmt.Errorf("repl.eval_threshold must be positive, not %d", c.REPL.EvalThreshold)
	}
	if c.REPL.ExitThreshold <= c.REPL.EvalThreshold {
		return fmt.Errorf("repl.exit_threshold (%d) must exceed repl.eval_threshold (%d)", c.REPL.ExitThreshold, c.REPL.EvalThreshold)
	}
	if c.Operators.Epsilon < 0 {
		return fmt.Errorf("operators.epsilon must not be negative, not %g", c.Operators.Epsilon)
	}
	for _, name := range c.Operators.Functions {
		if _, ok := rpncalc.Builtin(name); !ok {
			return fmt.Errorf("operators.functions: unknown function %q (have %s)", name, strings.Join(rpncalc.Builtins(), ", "))
		}
	}
	return nil
}

// Table builds the operator table the configuration selects.
func (c *Config) Table() (*rpncalc.Table, error) {
	var extra []rpncalc.Operator
	if c.Operators.Power {
		extra = append(extra, rpncalc.Power())
	}
	for _, name := range c.Operators.Functions {
		op, ok := rpncalc.Builtin(name)
		if !ok {
			return nil, fmt.Errorf("unknown function %q", name)
		}
		extra = append(extra, op)
	}
	t, err := rpncalc.NewTable(c.Operators.Epsilon, extra...)
	if err != nil {
		return nil, fmt.Errorf("building operator table: %w", err)
	}
	return t, nil
}

// Calculator builds a calculator over the configured table. If validation is
// enabled, the calculator checks each expression with the default validator
// before evaluating it. log may be nil.
func (c *Config) Calculator(log *zap.Logger) (*rpncalc.Calculator, error) {
	table, err := c.Table()
	if err != nil {
		return nil, err
	}
	opts := []rpncalc.Option{rpncalc.WithTable(table)}
	if log != nil {
		opts = append(opts, rpncalc.WithLogger(log))
	}
	if c.Validate {
		opts = append(opts, rpncalc.WithValidator(rpncalc.DefaultValidator(table)))
	}
	return rpncalc.New(opts...), nil
}

// Logger converts the log settings for package logger.
func (c *Config) Logger() *logger.Config {
	return &logger.Config{
		Level:      c.Log.Level,
		FileName:   c.Log.File,
		MaxSize:    c.Log.MaxSize,
		MaxAge:     c.Log.MaxAge,
		MaxBackups: c.Log.MaxBackups,
		Compress:   c.Log.Compress,
		Stderr:     c.Log.Stderr,
	}
}
