package logger

import (
	"log/slog"
	"os"
)

var Logger *slog.Logger

func Init() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	Logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(Logger)
}

// log returns the initialized logger, falling back to slog's default so
// callers (and tests) don't have to care whether Init ran.
func log() *slog.Logger {
	if Logger == nil {
		return slog.Default()
	}
	return Logger
}

// With returns a child logger tagged with a component name.
func With(component string) *slog.Logger {
	return log().With("component", component)
}

func Info(msg string, args ...any) {
	log().Info(msg, args...)
}

func Error(msg string, args ...any) {
	log().Error(msg, args...)
}

func Debug(msg string, args ...any) {
	log().Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	log().Warn(msg, args...)
}
