package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Options struct
type Options struct {
	Level      string
	Format     string // text | json
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Setup configures the package-level logrus logger.
// With a File set, entries go to stdout and to a rotated file.
// The returned closer releases the file and is never nil.
func Setup(opts Options) (io.Closer, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if opts.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if opts.File == "" {
		logrus.SetOutput(os.Stdout)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return nopCloser{}, err
	}

	rotator := NewRotatingFile(opts.File, opts.MaxSizeMB, opts.MaxBackups, opts.MaxAgeDays, opts.Compress)
	logrus.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return rotator, nil
}

// NewRotatingFile returns a size-rotated file writer
func NewRotatingFile(path string, maxSizeMB, maxBackups, maxAgeDays int, compress bool) *lumberjack.Logger {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if maxBackups <= 0 {
		maxBackups = 3
	}
	if maxAgeDays <= 0 {
		maxAgeDays = 28
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   compress,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
