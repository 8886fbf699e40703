package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide zap logger. Subsystems take a named child via
// Component.
type Logger struct {
	*zap.Logger
}

// Config selects level, format and sinks. Development switches to colored
// console output with stack traces on warnings.
type Config struct {
	Level       string
	Development bool
	OutputPaths []string // defaults to stdout
}

// CLIConfig logs to stderr in console format so stdout stays free for
// command output.
func CLIConfig(level string) Config {
	return Config{Level: level, Development: true, OutputPaths: []string{"stderr"}}
}

func New(cfg Config) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.MessageKey = "message"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: logger}, nil
}

// NewNop discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func (l *Logger) Component(name string) *zap.Logger {
	return l.Logger.Named(name)
}

// ParseLevel accepts zap level names in any case. Unknown names return
// InfoLevel with an error.
func ParseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}
