package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Handler:   slog.NewTextHandler(&buf, nil),
		Component: ComponentImport,
	})

	logger.Info("batch stored", FieldRowCount, 3)

	out := buf.String()
	if !strings.Contains(out, "component=import") {
		t.Errorf("missing component tag: %q", out)
	}
	if !strings.Contains(out, "row_count=3") {
		t.Errorf("missing field: %q", out)
	}
}

func TestSetDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	logger := New(Config{
		Handler:   slog.NewTextHandler(&buf, nil),
		Component: ComponentApp,
	})
	SetDefault(logger)

	slog.Info("starting up")
	if !strings.Contains(buf.String(), "starting up") {
		t.Errorf("default logger not installed: %q", buf.String())
	}
}
