package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Configure it once at startup.
var Log = logrus.New()

func init() {
	Log.SetOutput(os.Stdout)
}

// Configure sets level and output format ("json" or "text").
func Configure(level, format string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// WithComponent tags entries with the component that produced them.
func WithComponent(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
