package logger

import (
	"log/slog"
	"os"
)

// New возвращает JSON-логгер сервиса. В dev включается debug и
// источник вызова в каждой записи, чтобы проще искать место ошибки.
func New(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "dev" {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
