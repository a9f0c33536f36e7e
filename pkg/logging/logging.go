// Package logging builds the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logger built by the last successful Setup; nil before that.
var Logger *zap.Logger

// Setup builds the logger for one process. Debug selects zap's development
// configuration; otherwise production JSON at info level is written to
// stderr. The app name and version are attached to every entry.
func Setup(debug bool, appName, appVersion string) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop(), err
	}

	Logger = logger
	zap.ReplaceGlobals(logger)
	return logger, nil
}
