package auth

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"CampusHire-backend/internal/config"
)

// Values for the status field of an auth attempt
const (
	StatusSuccess = "Success"
	StatusFail    = "Fail"
)

// AttemptLogger appends authentication attempts to a dedicated log file
type AttemptLogger struct {
	log  *logrus.Logger
	file *os.File
}

// NewAttemptLogger opens the auth log when cfg.AuthLog is set.
// Otherwise attempts are discarded.
func NewAttemptLogger(cfg config.Logging) (*AttemptLogger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	logger.SetOutput(io.Discard)
	a := &AttemptLogger{log: logger}

	if cfg.AuthLog {
		if err := os.MkdirAll(filepath.Dir(cfg.AuthLogFile), 0o750); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.AuthLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, err
		}
		logger.SetOutput(f)
		a.file = f
	}
	return a, nil
}

// Close closes the auth log file, if one was opened. Later attempts are discarded.
func (a *AttemptLogger) Close() error {
	if a == nil || a.file == nil {
		return nil
	}
	a.log.SetOutput(io.Discard)
	err := a.file.Close()
	a.file = nil
	return err
}

// NewAttemptLoggerTo writes attempts to w
func NewAttemptLoggerTo(w io.Writer) *AttemptLogger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(w)
	return &AttemptLogger{log: logger}
}

// LogAuthAttempt records one authentication attempt.
// authType is Local for email and password, identifier is usually the email.
func (a *AttemptLogger) LogAuthAttempt(level logrus.Level, authType string, status string, identifier string, message string) {
	if a == nil {
		return
	}
	entry := a.log.WithFields(logrus.Fields{
		"auth_type": authType,
		"status":    status,
	})
	if identifier != "" {
		entry = entry.WithField("identifier", identifier)
	}
	entry.Log(level, message)
}
