package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// New returns the process logger: colored tint output for dev builds, JSON otherwise.
func New(level slog.Level, appEnv string, version string, appName string) *slog.Logger {
	return newWithWriter(os.Stdout, level, appEnv, version, appName)
}

func newWithWriter(w io.Writer, level slog.Level, appEnv string, version string, appName string) *slog.Logger {
	if version == "dev" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(h).With(
		"app", appName,
		"version", version,
		"env", appEnv,
	)
}
