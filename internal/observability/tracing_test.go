package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.ServiceName != "carve" {
		t.Fatalf("expected service name 'carve', got %s", cfg.ServiceName)
	}
	if cfg.SampleRate != 1.0 {
		t.Fatalf("expected sample rate 1.0, got %f", cfg.SampleRate)
	}
}

func TestInitTracing_NoEndpoint(t *testing.T) {
	ctx := context.Background()
	tp, err := InitTracing(ctx, &TracingConfig{
		ServiceName: "test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp == nil {
		t.Fatal("expected non-nil tracer provider")
	}
	if tp.Tracer() == nil {
		t.Fatal("expected non-nil tracer")
	}
	if err := tp.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestInitTracing_NilConfig(t *testing.T) {
	tp, err := InitTracing(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp == nil {
		t.Fatal("expected non-nil tracer provider")
	}
}

// recordSpans runs fn against an in-memory recorder and returns its spans.
func recordSpans(t *testing.T, fn func(sdktrace.ReadWriteSpan)) []sdktrace.ReadOnlySpan {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	_, span := tp.Tracer(TracerName).Start(context.Background(), "test")
	fn(span.(sdktrace.ReadWriteSpan))
	span.End()
	return sr.Ended()
}

func attr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestStartSpans(t *testing.T) {
	ctx, run := StartRunSpan(context.Background(), "Dashboard.tsx", 3)
	if run == nil {
		t.Fatal("expected non-nil run span")
	}
	_, unit := StartUnitSpan(ctx, "UsersTab", 359, 728)
	if unit == nil {
		t.Fatal("expected non-nil unit span")
	}
	unit.End()
	run.End()
}

func TestRecordUnitResult(t *testing.T) {
	spans := recordSpans(t, func(s sdktrace.ReadWriteSpan) {
		RecordUnitResult(s, "out/UsersTab.tsx", "created", 1024, 5, []string{"formatDate"})
	})
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if v, ok := attr(spans[0], "unit.outcome"); !ok || v.AsString() != "created" {
		t.Errorf("unexpected unit.outcome %v", v)
	}
	if v, ok := attr(spans[0], "unit.dropped"); !ok || len(v.AsStringSlice()) != 1 {
		t.Errorf("unexpected unit.dropped %v", v)
	}
}

func TestRecordRunResult_FailureSetsStatus(t *testing.T) {
	spans := recordSpans(t, func(s sdktrace.ReadWriteSpan) {
		RecordRunResult(s, 2, 1)
	})
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status())
	}

	spans = recordSpans(t, func(s sdktrace.ReadWriteSpan) {
		RecordRunResult(s, 3, 0)
	})
	if spans[0].Status().Code == codes.Error {
		t.Error("expected no error status on clean run")
	}
}

func TestRecordError(t *testing.T) {
	spans := recordSpans(t, func(s sdktrace.ReadWriteSpan) {
		RecordError(s, nil)
	})
	if spans[0].Status().Code == codes.Error {
		t.Error("nil error should not set status")
	}

	spans = recordSpans(t, func(s sdktrace.ReadWriteSpan) {
		RecordError(s, errors.New("out of range"))
	})
	if spans[0].Status().Code != codes.Error || spans[0].Status().Description != "out of range" {
		t.Errorf("unexpected status %v", spans[0].Status())
	}
	if len(spans[0].Events()) != 1 {
		t.Errorf("expected recorded error event, got %d", len(spans[0].Events()))
	}
}
