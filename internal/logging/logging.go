// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	File       string // log file path; empty logs to the console writer
	Verbose    bool   // debug level
	MaxSize    int    // Max size in megabytes
	MaxBackups int    // Max number of backups
	MaxAge     int    // Max age in days
	Compress   bool   // Compress backups
}

func DefaultConfig() Config {
	return Config{
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}
}

// Level maps the verbose flag to a slog level.
func (c Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// New builds a logger. Console output drops timestamps. A log file gets full
// records and rotates through lumberjack. The returned closer flushes the file.
func New(c Config, console io.Writer) (*slog.Logger, io.Closer, error) {
	if c.File == "" {
		h := slog.NewTextHandler(console, &slog.HandlerOptions{
			Level: c.Level(),
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{}
				}
				return a
			},
		})
		return slog.New(h), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(c.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	w := &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()})), w, nil
}

// Setup installs the logger built from c as the slog default.
func Setup(c Config, console io.Writer) (io.Closer, error) {
	logger, closer, err := New(c, console)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
