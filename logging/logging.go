// Package logging collects conventions for the construction of zap loggers
// used across our various codebases. Behavior is controlled by two
// environment variables: LOG_FORMAT ("development" for human-readable
// console output, anything else for production JSON) and LOG_LEVEL.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var baseLogger = zap.Must(NewConfig().Build())

type contextKey int

const contextFieldsKey contextKey = iota

func NewConfig() zap.Config {
	var config zap.Config

	if os.Getenv("LOG_FORMAT") == "development" {
		config = newDevelopmentConfig()
	} else {
		config = newProductionConfig()
	}

	if level, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if lvl, err := zap.ParseAtomicLevel(level); err == nil {
			config.Level = lvl
		}
	}

	return config
}

func newDevelopmentConfig() zap.Config {
	encoderConfig := newEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.NameKey = ""

	return zap.Config{
		Level:             zap.NewAtomicLevelAt(zap.DebugLevel),
		Development:       true,
		DisableStacktrace: true,
		Encoding:          "console",
		EncoderConfig:     encoderConfig,
		OutputPaths:       []string{"stderr"},
	}
}

func newProductionConfig() zap.Config {
	return zap.Config{
		Level:       zap.NewAtomicLevelAt(zap.InfoLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:      "json",
		EncoderConfig: newEncoderConfig(),
		OutputPaths:   []string{"stdout"},
	}
}

func newEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "severity",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// New creates a named child of the base logger so log output can be traced
// back to the package that emitted it.
func New(name string) *zap.Logger {
	return baseLogger.Named(name)
}

func GetFields(ctx context.Context) []zap.Field {
	f := ctx.Value(contextFieldsKey)
	if f == nil {
		return []zap.Field{}
	}
	return f.([]zap.Field)
}

func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	f := GetFields(ctx)
	f = append(f, fields...)
	return context.WithValue(ctx, contextFieldsKey, f)
}
