package utils

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	buf := &bytes.Buffer{}
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(old) })
	return buf
}

func TestLogHelpersSkipNil(t *testing.T) {
	buf := captureLogs(t)
	Loge(nil)
	Logwe(nil)
	Logde(nil)
	assert.Empty(t, buf.String())
}

func TestLogHelpersLevels(t *testing.T) {
	buf := captureLogs(t)
	Loge(errors.New("bus down"))
	Logwe(errors.New("no peer"))
	Logde(errors.New("stale"))

	out := buf.String()
	assert.Contains(t, out, `level=ERROR msg="" error="bus down"`)
	assert.Contains(t, out, `level=WARN msg="" error="no peer"`)
	assert.Contains(t, out, "level=DEBUG msg=\"\" error=stale")
}
