package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewProvidesJSONLogger(t *testing.T) {
	l := New("info")
	if l == nil {
		t.Fatal("expected logger, got nil")
	}

	if !l.Enabled(context.Background(), slog.LevelInfo) {
		t.Errorf("expected info level to be enabled")
	}
	if l.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("did not expect debug level to be enabled")
	}

	if _, ok := l.Handler().(*slog.JSONHandler); !ok {
		t.Fatalf("expected JSON handler, got %T", l.Handler())
	}
}

func TestNewWithWriterTagsRecords(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "debug")
	l.Debug("order synced", slog.String("order_id", "o-1"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log record: %v", err)
	}
	if record["app"] != "escrowdesk" {
		t.Errorf("expected app attribute, got %v", record["app"])
	}
	if record["msg"] != "order synced" || record["order_id"] != "o-1" {
		t.Errorf("unexpected record %v", record)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
