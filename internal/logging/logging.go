package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	level       zap.AtomicLevel
	development bool
	output      io.Writer
}

// Option configures New.
type Option func(*options)

// WithLevel shares an atomic level with the logger so the level can be changed
// after construction (for example when the configuration reloads).
func WithLevel(level zap.AtomicLevel) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithDevelopment switches to the human-readable console encoder.
func WithDevelopment(enabled bool) Option {
	return func(o *options) {
		o.development = enabled
	}
}

// WithOutput redirects log output (primarily for tests). Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// New creates a structured logger. Production output is JSON with ISO8601
// timestamps; development output uses the console encoder.
func New(opts ...Option) (*zap.Logger, error) {
	o := options{level: zap.NewAtomicLevelAt(zapcore.InfoLevel)}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	if o.development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = o.level
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = "stacktrace"

	if o.output != nil {
		var encoder zapcore.Encoder
		if o.development {
			encoder = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
		} else {
			encoder = zapcore.NewJSONEncoder(cfg.EncoderConfig)
		}
		core := zapcore.NewCore(encoder, zapcore.AddSync(o.output), o.level)
		return zap.New(core, zap.AddCaller()), nil
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a configuration log level onto a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// SetLevel applies a configuration log level to an atomic level.
func SetLevel(level zap.AtomicLevel, name string) error {
	l, err := ParseLevel(name)
	if err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}
