package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// SetupLogger builds the root logger for the given environment.
// Local runs log human-readable text to stdout; dev and prod log JSON,
// duplicated to a file under logPath when the directory is writable.
func SetupLogger(env, logPath string) *slog.Logger {
	var out io.Writer = os.Stdout

	if env != envLocal && logPath != "" {
		file, err := os.OpenFile(
			filepath.Join(logPath, "led-rental-bot.log"),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644,
		)
		if err == nil {
			out = io.MultiWriter(os.Stdout, file)
		}
	}

	switch env {
	case envDev:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// AdminNotifier forwards critical log lines to the admin chat.
type AdminNotifier interface {
	SendMessage(msg string)
}

// SetupTelegramHandler wraps the logger so records at or above minLevel
// are also pushed to the admin Telegram chat.
func SetupTelegramHandler(log *slog.Logger, notifier AdminNotifier, minLevel slog.Level) *slog.Logger {
	return slog.New(&telegramHandler{
		next:     log.Handler(),
		notifier: notifier,
		minLevel: minLevel,
	})
}

type telegramHandler struct {
	next     slog.Handler
	notifier AdminNotifier
	minLevel slog.Level
}

func (h *telegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *telegramHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.minLevel && r.Level >= slog.LevelError && h.notifier != nil {
		h.notifier.SendMessage(r.Level.String() + ": " + r.Message)
	}
	return h.next.Handle(ctx, r)
}

func (h *telegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &telegramHandler{next: h.next.WithAttrs(attrs), notifier: h.notifier, minLevel: h.minLevel}
}

func (h *telegramHandler) WithGroup(name string) slog.Handler {
	return &telegramHandler{next: h.next.WithGroup(name), notifier: h.notifier, minLevel: h.minLevel}
}
