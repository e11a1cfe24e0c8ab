// Package log provides the shared structured logger for the module.
// Decode advisories (truncated strings, repaired tables, unknown CRS codes)
// are reported here rather than through return values so that library
// callers keep a clean error surface.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var std = logrus.New()

func init() {
	std.SetOutput(os.Stderr)
	std.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	std.SetLevel(logrus.WarnLevel)
}

// StandardLogger returns the logger shared by the whole module.
func StandardLogger() *logrus.Logger {
	return std
}

// SetLevel adjusts the verbosity of the shared logger.
func SetLevel(level logrus.Level) {
	std.SetLevel(level)
}

// SetOutput redirects log output, e.g. to a conversion report file.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// With returns an entry carrying structured fields.
func With(fields logrus.Fields) *logrus.Entry {
	return std.WithFields(fields)
}
