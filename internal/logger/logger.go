// Package logger builds the application's zap logger, writing JSON lines to a
// rotating file.
package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes where and how much to log.
type Config struct {
	// Level is a zap level name such as "debug" or "INFO".
	Level string
	// FileName is the log file. If it is empty, nothing is written to a file.
	FileName   string
	MaxSize    int
	MaxAge     int
	MaxBackups int
	Compress   bool
	// Stderr tees log lines to standard error.
	Stderr bool
}

// DefaultConfig returns the logging defaults.
func DefaultConfig() *Config {
	return &Config{
		Level:      "INFO",
		FileName:   "./logs/rpncalc.log",
		MaxSize:    10,
		MaxAge:     30,
		MaxBackups: 3,
		Compress:   true,
	}
}

// New creates a logger from cfg. With neither a file nor stderr, the logger
// discards everything.
func New(cfg *Config) (*zap.Logger, error) {
	level := new(zapcore.Level)
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	var sinks []zapcore.WriteSyncer
	if cfg.FileName != "" {
		sinks = append(sinks, getLogWriter(cfg))
	}
	if cfg.Stderr {
		sinks = append(sinks, zapcore.Lock(os.Stderr))
	}
	if len(sinks) == 0 {
		return zap.NewNop(), nil
	}
	core := zapcore.NewCore(getEncoder(), zapcore.NewMultiWriteSyncer(sinks...), level)
	return zap.New(core, zap.AddCaller()), nil
}

// NewWriter creates a logger writing to w, for tests and tools that collect
// log output themselves.
func NewWriter(w io.Writer, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(getEncoder(), zapcore.AddSync(w), level)
	return zap.New(core)
}

func getEncoder() zapcore.Encoder {
	encodeConfig := zap.NewProductionEncoderConfig()
	encodeConfig.TimeKey = "time"
	encodeConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encodeConfig.EncodeDuration = zapcore.SecondsDurationEncoder
	encodeConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encodeConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewJSONEncoder(encodeConfig)
}

func getLogWriter(cfg *Config) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FileName,
		MaxAge:     cfg.MaxAge,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	})
}
