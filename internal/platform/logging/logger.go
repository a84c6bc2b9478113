package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level string
	// Optional path of a rotated log file. Logs also go to stderr.
	File string
}

// Setup configures the standard logrus logger.
func Setup(opts Options) {
	var out io.Writer = os.Stderr
	if f := strings.TrimSpace(opts.File); f != "" {
		rotator := &lumberjack.Logger{
			Filename:   f,
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stderr, rotator)
	}

	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
