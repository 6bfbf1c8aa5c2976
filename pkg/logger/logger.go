package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger returns a Logger writing through zap. Production environments get
// the JSON encoder, everything else the colored console encoder.
func NewLogger(env string, level int) *zapLogger {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level >= SILENCE {
		return &zapLogger{sugar: zap.NewNop().Sugar()}
	}

	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}

	return &zapLogger{sugar: l.Sugar()}
}

// NewNopLogger discards everything, it is used by tests.
func NewNopLogger() *zapLogger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

func zapLevel(level int) zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARNING:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func (l *zapLogger) Debugf(msg string, a ...any) {
	l.sugar.Debugf(msg, a...)
}

func (l *zapLogger) Infof(msg string, a ...any) {
	l.sugar.Infof(msg, a...)
}

func (l *zapLogger) Warnf(msg string, a ...any) {
	l.sugar.Warnf(msg, a...)
}

func (l *zapLogger) Errorf(msg string, a ...any) {
	l.sugar.Errorf(msg, a...)
}

func (l *zapLogger) Sync() error {
	return l.sugar.Sync()
}
