// Package logging configures logrus and bridges store notifications
// into log entries.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"docfront/internal/config"
	"docfront/internal/notify"
)

// New returns a logger writing one JSON object per line to stdout, using
// ts/level/msg keys. LOG_FORMAT=text switches to logrus' text output.
func New(cfg config.LogConfig) *logrus.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg config.LogConfig, w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	if cfg.Format == "text" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "ts",
			},
		})
	}
	return l
}

// Hook logs every store notification: errors at error level, successes
// at info, silent loads at debug.
func Hook(l logrus.FieldLogger) notify.Hook {
	return notify.HookFunc(func(_ context.Context, n notify.Notification) {
		entry := l.WithFields(logrus.Fields{
			"op":      string(n.Op),
			"outcome": string(n.Level),
		})
		switch n.Level {
		case notify.LevelError:
			entry.WithError(n.Err).Error(n.Message)
		case notify.LevelSuccess:
			entry.Info(n.Message)
		default:
			entry.Debug(n.Message)
		}
	})
}
