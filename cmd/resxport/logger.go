package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the console logger. The level is warn unless
// RESXPORT_LOG_LEVEL says otherwise; verbose forces debug.
func newLogger(w io.Writer, verbose bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if env := os.Getenv("RESXPORT_LOG_LEVEL"); env != "" {
		parsed, err := zapcore.ParseLevel(env)
		if err != nil {
			return nil, fmt.Errorf("invalid RESXPORT_LOG_LEVEL %q: %w", env, err)
		}
		level = parsed
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core), nil
}

// catalogLogger adapts a zap sugared logger to catalog.Logger.
type catalogLogger struct {
	log *zap.SugaredLogger
}

func newCatalogLogger(log *zap.SugaredLogger) *catalogLogger {
	return &catalogLogger{log: log}
}

func (l *catalogLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l *catalogLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Infow(msg, keysAndValues...)
}

func (l *catalogLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warnw(msg, keysAndValues...)
}

func (l *catalogLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, keysAndValues...)
}
