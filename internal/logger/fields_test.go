package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithCommonFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	enriched := WithCommonFields(log, "  dashscope  ", "dashscope-app:demo")
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "dashscope" {
		t.Fatalf("expected provider field to be dashscope, got %q", ctx[FieldProvider])
	}

	if ctx[FieldModel] != "dashscope-app:demo" {
		t.Fatalf("expected model field to be dashscope-app:demo, got %q", ctx[FieldModel])
	}
}

func TestWithCommonFieldsSkipsEmptyValues(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	WithCommonFields(log, "   ", "").Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if len(entries[0].Context) != 0 {
		t.Fatalf("expected no fields, got %+v", entries[0].Context)
	}
}

func TestWithCommonFieldsNilLogger(t *testing.T) {
	enriched := WithCommonFields(nil, "gemini", "model-x")
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	// Logging with the fallback logger must not panic.
	enriched.Info("another log")
}
