package logging

import (
	"go.uber.org/zap"
)

// DebugLogFile is where --debug writes its log
const DebugLogFile = "quietcut-debug.log"

// NewLogger returns a development logger writing to path when debug is set,
// otherwise a no-op logger so the terminal UI is left alone.
func NewLogger(debug bool, path string) (*zap.SugaredLogger, error) {
	if !debug {
		return zap.NewNop().Sugar(), nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.CallerKey = "caller"

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
