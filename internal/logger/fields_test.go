package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithFieldsHandlesNilLogger(t *testing.T) {
	t.Parallel()

	if WithFields(nil) == nil {
		t.Fatal("expected a non-nil logger")
	}
	if WithFields(nil, zap.String("k", "v")) == nil {
		t.Fatal("expected a non-nil logger with fields")
	}
}

func TestWithAdvisorFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	log := WithAdvisorFields(zap.New(core), "gemini", "gemini-2.5-flash")
	log.Info("entry")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields[FieldAdvisor] != "gemini" {
		t.Fatalf("unexpected advisor field: %v", fields)
	}
	if fields[FieldAdvisorModel] != "gemini-2.5-flash" {
		t.Fatalf("unexpected advisor model field: %v", fields)
	}
}

func TestWithAdvisorFieldsSkipsBlankValues(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	WithAdvisorFields(zap.New(core), "  ", "").Info("entry")

	if fields := logs.All()[0].ContextMap(); len(fields) != 0 {
		t.Fatalf("expected no advisor fields, got %v", fields)
	}

	if WithAdvisorFields(nil, "", "") == nil {
		t.Fatal("expected a no-op logger for a nil input")
	}
}
