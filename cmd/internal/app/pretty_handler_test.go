package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestStripANSI(t *testing.T) {
	t.Parallel()

	in := ansiBlue + "INFO" + ansiReset + " plain " + ansiRed + "ERR" + ansiReset
	got := stripANSI(in)
	want := "INFO plain ERR"
	if got != want {
		t.Fatalf("stripANSI()=%q want=%q", got, want)
	}
}

func renderPretty(t *testing.T, color bool, build func(*slog.Logger) *slog.Logger) string {
	t.Helper()

	var buf bytes.Buffer
	h := newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, color)
	log := build(slog.New(h))

	r := slog.NewRecord(time.Date(2026, 5, 1, 12, 4, 5, 123_000_000, time.UTC), slog.LevelWarn, "http.request", 0)
	r.AddAttrs(
		slog.String("method", "get"),
		slog.String("path", "/todos/1"),
		slog.Int("status", 404),
		slog.String("status_class", "4xx"),
		slog.Int64("duration_ms", 3),
		slog.String("note", "two words"),
	)
	if err := log.Handler().Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	return buf.String()
}

func TestPrettyHandler_Line(t *testing.T) {
	t.Parallel()

	got := renderPretty(t, false, func(l *slog.Logger) *slog.Logger { return l })
	want := `12:04:05.123 [WARN] http.request method=GET path=/todos/1 status=404 class=4xx duration=3ms note="two words"` + "\n"
	if got != want {
		t.Fatalf("line mismatch:\n got=%q\nwant=%q", got, want)
	}
}

func TestPrettyHandler_ColorStripsToPlain(t *testing.T) {
	t.Parallel()

	plain := renderPretty(t, false, func(l *slog.Logger) *slog.Logger { return l })
	colored := renderPretty(t, true, func(l *slog.Logger) *slog.Logger { return l })
	if colored == plain {
		t.Fatalf("expected escape codes in colored output")
	}
	if stripANSI(colored) != plain {
		t.Fatalf("stripped colored output differs:\n%q\n%q", stripANSI(colored), plain)
	}
}

func TestPrettyHandler_AttrsAndGroups(t *testing.T) {
	t.Parallel()

	got := renderPretty(t, false, func(l *slog.Logger) *slog.Logger {
		return l.With("component", "api").WithGroup("req").With("id", "01J")
	})

	if !strings.Contains(got, " component=api req.id=01J req.method=GET") {
		t.Fatalf("attrs not prefixed as expected: %q", got)
	}
	if strings.Contains(got, "req.component") {
		t.Fatalf("attr added before the group was grouped: %q", got)
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := newPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}, false)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should be enabled at warn level")
	}
}
