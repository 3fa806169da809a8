package log

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

var (
	mu      sync.Mutex
	current *os.File
)

// Init installs the process-wide slog default: a JSON handler at the
// requested level, writing to stderr or, when logFile is set, to an
// append-opened file that is reopened on SIGHUP so external rotation
// works:
//
//	mv galaxy.log galaxy.bak && kill -HUP <pid>
func Init(level, logFile string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	out := os.Stderr
	if logFile != "" {
		fh, err := openLogFile(logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
		} else {
			out = fh
			current = fh
			setupRotation(logFile, opts)
		}
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(out, opts)))
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func setupRotation(path string, opts *slog.HandlerOptions) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	go func() {
		for range sigs {
			fh, err := openLogFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not reopen log file: %v\n", err)
				continue
			}
			mu.Lock()
			if current != nil {
				current.Close()
			}
			current = fh
			mu.Unlock()
			slog.SetDefault(slog.New(slog.NewJSONHandler(fh, opts)))
		}
	}()
}

// Close releases the log file, if one was opened.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		_ = current.Close()
		current = nil
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
