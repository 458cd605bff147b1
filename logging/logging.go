// Package logging builds the zap logger shared by the commands.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to stdout. Debug lowers the level and
// adds caller information.
func New(debug bool) (*zap.SugaredLogger, error) {
	z := zap.NewDevelopmentConfig()
	z.OutputPaths = []string{"stdout"}
	z.ErrorOutputPaths = []string{"stderr"}
	z.DisableStacktrace = true
	z.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if debug {
		z.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		z.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		z.DisableCaller = true
	}

	logger, err := z.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}
