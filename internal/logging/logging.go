// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log/v2"
	"github.com/zulandar/bookmarky/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing to stderr and, when cfg.File is set, to a
// size-rotated log file. The returned Closer flushes and closes that file.
func New(cfg config.LogConfig, stderr io.Writer) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}

	var (
		out    = stderr
		closer io.Closer = nopCloser{}
	)
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		out = io.MultiWriter(stderr, rotator)
		closer = rotator
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return logger, closer, nil
}

// Component returns a child logger tagged with a component prefix.
func Component(logger *log.Logger, name string) *log.Logger {
	return logger.WithPrefix(name)
}
