package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"development", "production", "prod", ""} {
		log, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		if log == nil || log.SugaredLogger == nil {
			t.Fatalf("New(%q) returned nil logger", mode)
		}
	}
}

func TestRedactsCredentialFields(t *testing.T) {
	log, logs := observedLogger()
	log.Info("connecting", "api_key", "super-secret", "host", "db.local")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["api_key"] != "[REDACTED]" {
		t.Fatalf("api_key = %v, want redacted", fields["api_key"])
	}
	if fields["host"] != "db.local" {
		t.Fatalf("host = %v", fields["host"])
	}
}

func TestWithCarriesFields(t *testing.T) {
	log, logs := observedLogger()
	log.With("service", "NoteService").Warn("slow query")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].ContextMap()["service"] != "NoteService" {
		t.Fatalf("fields = %v", entries[0].ContextMap())
	}
}
