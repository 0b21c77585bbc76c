package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"
)

const (
	logFilePrefix = "materihub-"
	logTimeLayout = "2006-01-02T15-04-05.000"
)

// NewLogger returns a JSON logger on stdout, teed into a fresh file under
// LogDir when one is configured. Close the returned io.Closer on exit.
func NewLogger(cfg *Config) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: levelFor(cfg.Environment)}

	if cfg.LogDir == "" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts)), io.NopCloser(nil), nil
	}

	f, err := SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewJSONHandler(io.MultiWriter(os.Stdout, f), opts)), f, nil
}

func levelFor(env string) slog.Level {
	if env == "dev" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// SetupLogFile opens a new timestamped file in dir and prunes the directory
// down to maxFiles (0 keeps everything). The caller closes the file.
func SetupLogFile(dir string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := logFilePrefix + time.Now().Format(logTimeLayout) + ".log"
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	if maxFiles > 0 {
		if err := pruneLogs(dir, maxFiles); err != nil {
			fmt.Fprintf(os.Stderr, "warning: prune old logs: %v\n", err)
		}
	}
	return f, nil
}

// pruneLogs deletes the oldest log files beyond keep. Names embed the
// creation time, so lexical order is chronological.
func pruneLogs(dir string, keep int) error {
	files, err := filepath.Glob(filepath.Join(dir, logFilePrefix+"*.log"))
	if err != nil {
		return err
	}
	slices.Sort(files)

	for len(files) > keep {
		if err := os.Remove(files[0]); err != nil {
			return fmt.Errorf("remove %s: %w", files[0], err)
		}
		files = files[1:]
	}
	return nil
}
