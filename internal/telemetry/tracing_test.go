package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func TestStartSpan(t *testing.T) {
	exp, cleanup := setupTracerProvider(t)
	defer cleanup()

	ctx, span := StartSpan(context.Background(), "test-operation")
	if !span.IsRecording() {
		t.Error("expected span to be recording")
	}
	if TraceID(ctx) == "" {
		t.Error("expected context to carry a trace ID")
	}
	span.End()

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 exported span, got %d", len(spans))
	}
	if spans[0].Name != "test-operation" {
		t.Errorf("expected span name test-operation, got %s", spans[0].Name)
	}
}

func TestAddSpanAttributes(t *testing.T) {
	t.Run("sets attributes on the span", func(t *testing.T) {
		exp, cleanup := setupTracerProvider(t)
		defer cleanup()

		_, span := StartSpan(context.Background(), "attr-span")
		AddSpanAttributes(span, attribute.String("order.id", "o1"))
		span.End()

		spans := exp.GetSpans()
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}

		found := false
		for _, attr := range spans[0].Attributes {
			if attr.Key == "order.id" && attr.Value.AsString() == "o1" {
				found = true
			}
		}
		if !found {
			t.Error("expected order.id attribute on span")
		}
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		AddSpanAttributes(nil, attribute.String("k", "v"))
	})
}

func TestAddSpanEvent(t *testing.T) {
	exp, cleanup := setupTracerProvider(t)
	defer cleanup()

	_, span := StartSpan(context.Background(), "event-span")
	AddSpanEvent(span, "order.dispatched", attribute.String("order.id", "o1"))
	span.End()

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if len(spans[0].Events) != 1 || spans[0].Events[0].Name != "order.dispatched" {
		t.Errorf("expected order.dispatched event, got %+v", spans[0].Events)
	}

	AddSpanEvent(nil, "ignored")
}

func TestRecordSpanError(t *testing.T) {
	t.Run("records error and sets error status", func(t *testing.T) {
		exp, cleanup := setupTracerProvider(t)
		defer cleanup()

		_, span := StartSpan(context.Background(), "failing-span")
		RecordSpanError(span, errors.New("boom"))
		span.End()

		spans := exp.GetSpans()
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}
		if spans[0].Status.Code != codes.Error {
			t.Errorf("expected error status, got %v", spans[0].Status.Code)
		}
		if spans[0].Status.Description != "boom" {
			t.Errorf("expected status description boom, got %q", spans[0].Status.Description)
		}
		if len(spans[0].Events) != 1 {
			t.Errorf("expected an exception event, got %d events", len(spans[0].Events))
		}
	})

	t.Run("nil error leaves span untouched", func(t *testing.T) {
		exp, cleanup := setupTracerProvider(t)
		defer cleanup()

		_, span := StartSpan(context.Background(), "ok-span")
		RecordSpanError(span, nil)
		span.End()

		spans := exp.GetSpans()
		if spans[0].Status.Code == codes.Error {
			t.Error("expected no error status for nil error")
		}
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		RecordSpanError(nil, errors.New("ignored"))
	})
}

func TestSetSpanSuccess(t *testing.T) {
	exp, cleanup := setupTracerProvider(t)
	defer cleanup()

	_, span := StartSpan(context.Background(), "ok-span")
	SetSpanSuccess(span)
	span.End()

	spans := exp.GetSpans()
	if spans[0].Status.Code != codes.Ok {
		t.Errorf("expected ok status, got %v", spans[0].Status.Code)
	}

	SetSpanSuccess(nil)
}

func TestTraceAndSpanIDs(t *testing.T) {
	t.Run("empty without active span", func(t *testing.T) {
		ctx := context.Background()
		if TraceID(ctx) != "" {
			t.Error("expected empty trace ID")
		}
		if SpanID(ctx) != "" {
			t.Error("expected empty span ID")
		}
	})

	t.Run("populated inside a span", func(t *testing.T) {
		_, cleanup := setupTracerProvider(t)
		defer cleanup()

		ctx, span := StartSpan(context.Background(), "id-span")
		defer span.End()

		if len(TraceID(ctx)) != 32 {
			t.Errorf("expected 32-char trace ID, got %q", TraceID(ctx))
		}
		if len(SpanID(ctx)) != 16 {
			t.Errorf("expected 16-char span ID, got %q", SpanID(ctx))
		}
	})
}
