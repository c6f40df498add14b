package config

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger builds the logger described by l. Logging goes to stderr; an
// empty level returns a no-op logger.
func (l LogSettings) Logger() (*zap.Logger, error) {

	if l.Level == "" {
		return zap.NewNop(), nil
	}

	lvl, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log.level")
	}

	cfg := zap.NewProductionConfig()
	if strings.ToLower(l.Format) != "json" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}
