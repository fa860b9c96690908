package logger

import (
	"io"
	"log/slog"
	"strings"

	"subspend/internal/config"
)

// New builds the process logger for env. Unknown envs fall back to local.
func New(env string, w io.Writer) *slog.Logger {
	var log *slog.Logger
	switch strings.ToLower(env) {
	case config.EnvDev:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case config.EnvProd:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return log
}

// NewText is a plain text logger at a fixed level, used by the CLI.
func NewText(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
