package sl

import (
	"log/slog"
	"strings"
)

// Err wraps an error as a slog attribute.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Module tags log records with the emitting module name.
func Module(name string) slog.Attr {
	return slog.Attr{
		Key:   "module",
		Value: slog.StringValue(name),
	}
}

// Secret masks a sensitive value, keeping only the first characters.
func Secret(key, value string) slog.Attr {
	masked := value
	if len(value) > 6 {
		masked = value[:4] + strings.Repeat("*", len(value)-4)
	}
	return slog.Attr{
		Key:   key,
		Value: slog.StringValue(masked),
	}
}
