package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
)

// Options select where and how much to log.
type Options struct {
	Level      string
	File       string // empty logs to stdout
	MaxSize    int    // megabytes
	MaxBackups int
	MaxAge     int // days
}

// Setup initializes Logrus, writing to a rotating file when one is configured.
func Setup(opts Options) io.Writer {
	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   true,
		}
	}

	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
		logrus.WithError(err).Warn("Unknown log level, using info.")
	}
	logrus.SetLevel(level)
	return out
}
