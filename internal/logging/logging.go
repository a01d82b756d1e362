package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ishanwen-byte/evoenv-go/internal/constants"
	"github.com/ishanwen-byte/evoenv-go/internal/types"
)

// New builds a logger from the log configuration
func New(config types.LogConfig, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	level := logrus.InfoLevel
	if config.Level != "" {
		parsed, err := logrus.ParseLevel(config.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to parse log level: %w", err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch config.Format {
	case "", constants.LogFormatText:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case constants.LogFormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format: %s", config.Format)
	}

	return logger, nil
}

// Discard returns a logger that drops everything, for tests and quiet runs
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
