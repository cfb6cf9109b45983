package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Config{}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", "file", "a.dart")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record logged without verbose: %q", out)
	}
	if !strings.Contains(out, "msg=shown file=a.dart") {
		t.Errorf("warn record missing: %q", out)
	}
	if strings.Contains(out, "time=") {
		t.Errorf("console output should drop timestamps: %q", out)
	}
}

func TestVerboseLevel(t *testing.T) {
	if got := (Config{Verbose: true}).Level(); got != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", got)
	}
}

func TestFileLogger(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "linemod.log")
	c := DefaultConfig()
	c.File = file
	c.Verbose = true

	var console bytes.Buffer
	logger, closer, err := New(c, &console)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("scanning", "path", "lib/a.dart")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "msg=scanning path=lib/a.dart") {
		t.Errorf("log file missing record: %q", data)
	}
	if console.Len() != 0 {
		t.Errorf("console should be empty when logging to a file, got %q", console.String())
	}
}
