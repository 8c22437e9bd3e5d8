package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new structured logger writing to stdout
func New(env string) (*zap.Logger, error) {
	return build(env, []string{"stdout"}, zapcore.DebugLevel)
}

// NewCLI creates a logger for the storefront CLI. Command output owns
// stdout, so log lines go to stderr and only warnings surface outside
// development.
func NewCLI(env string) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if env == "development" {
		level = zapcore.InfoLevel
	}
	return build(env, []string{"stderr"}, level)
}

func build(env string, outputs []string, level zapcore.Level) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Encoding = "json"
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level > config.Level.Level() {
		config.Level = zap.NewAtomicLevelAt(level)
	}
	config.OutputPaths = outputs
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}
