package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New builds a sugared zap logger. "prod"/"production" emits JSON at info,
// anything else uses the development console encoder at debug.
func New(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.DisableStacktrace = true

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return zapLogger.Sugar(), nil
}

// Nop is handy in tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
