// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return m
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"DEBUG":    zerolog.DebugLevel,
		" info ":   zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"bogus":    zerolog.InfoLevel,
		"":         zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit(t *testing.T) {
	prev := Logger()
	defer func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}()

	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})

	Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info written at warn level: %s", buf.String())
	}
	Warn().Str("k", "v").Msg("kept")
	m := decode(t, &buf)
	if m["message"] != "kept" || m["k"] != "v" || m["level"] != "warn" {
		t.Errorf("entry = %v", m)
	}
	if _, ok := m["time"]; !ok {
		t.Error("timestamp missing")
	}
}

func TestComponent(t *testing.T) {
	prev := Logger()
	defer SetLogger(prev)

	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	l := Component("pricing")
	l.Info().Msg("quoted")
	if m := decode(t, &buf); m["component"] != "pricing" {
		t.Errorf("component = %v", m["component"])
	}
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")

	Ctx(ctx).Info().Msg("hello")
	m := decode(t, &buf)
	if m["request_id"] != "req-1" || m["correlation_id"] != "corr-1" {
		t.Errorf("entry = %v", m)
	}

	if RequestIDFromContext(context.Background()) != "" || CorrelationIDFromContext(context.Background()) != "" {
		t.Error("empty context should have no ids")
	}
}

func TestNewIDs(t *testing.T) {
	if a, b := NewRequestID(), NewRequestID(); a == b || len(a) != 36 {
		t.Errorf("request ids %q %q", a, b)
	}
	if id := NewCorrelationID(); len(id) != 8 {
		t.Errorf("correlation id %q", id)
	}
}

func TestSlogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(NewTestLogger(&buf)))

	logger.With("service", "warmer").WithGroup("event").Warn("restart",
		"attempt", 3,
		"backoff", 2*time.Second,
		"err", errors.New("boom"),
		slog.Group("svc", "name", "http"),
	)
	m := decode(t, &buf)
	if m["level"] != "warn" || m["message"] != "restart" {
		t.Errorf("entry = %v", m)
	}
	if m["service"] != "warmer" || m["event.attempt"] != float64(3) || m["event.err"] != "boom" {
		t.Errorf("attrs = %v", m)
	}
	if m["event.svc.name"] != "http" {
		t.Errorf("group attr missing: %v", m)
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	h := NewSlogHandler(NewTestLogger(&buf).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled")
	}
	slog.New(h).Info("dropped")
	if strings.TrimSpace(buf.String()) != "" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestGlobalEntries(t *testing.T) {
	prev := Logger()
	defer func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}()

	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})

	Debug().Str("path", "config.yaml").Msg("watching")
	if m := decode(t, &buf); m["level"] != "debug" || m["path"] != "config.yaml" {
		t.Errorf("debug entry = %v", m)
	}
	buf.Reset()

	Err(errors.New("upstream gone")).Msg("serve failed")
	if m := decode(t, &buf); m["level"] != "error" || m["error"] != "upstream gone" {
		t.Errorf("err entry = %v", m)
	}
}
