package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithContextCarriesAttrs(t *testing.T) {
	var buf bytes.Buffer
	defaultLogger = slog.New(slog.NewTextHandler(&buf, nil))
	defer func() { defaultLogger = nil }()

	ctx := NewContext(context.Background(), "request_id", "r-1")
	ctx = NewContext(ctx, "user_id", "u-1")
	WithContext(ctx).Info("hello")

	out := buf.String()
	if !strings.Contains(out, "request_id=r-1") || !strings.Contains(out, "user_id=u-1") {
		t.Fatalf("attrs missing from %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("debug") != slog.LevelDebug || parseLevel("bogus") != slog.LevelInfo {
		t.Fatal("unexpected level mapping")
	}
}
