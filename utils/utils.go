package utils

import (
	"log/slog"
)

// Loge logs a non-nil error at error level.
func Loge(e error) {
	if e != nil {
		slog.Error("", "error", e)
	}
}

func Logwe(e error) {
	if e != nil {
		slog.Warn("", "error", e)
	}
}

func Logde(e error) {
	if e != nil {
		slog.Debug("", "error", e)
	}
}
