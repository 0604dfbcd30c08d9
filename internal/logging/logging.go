// Package logging builds the logrus logger shared across the service
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"CampusHire-backend/internal/config"
)

// New creates a logger from the logging configuration.
// An unknown level falls back to info.
func New(cfg config.Logging) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// Discard returns a logger that drops every entry, for tests
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
