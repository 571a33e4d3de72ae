package telemetry

import (
	"context"
	"errors"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing service name",
			mutate:  func(c *Config) { c.ServiceName = "" },
			wantErr: ErrMissingServiceName,
		},
		{
			name:    "missing service version",
			mutate:  func(c *Config) { c.ServiceVersion = "" },
			wantErr: ErrMissingServiceVersion,
		},
		{
			name:    "sample rate below range",
			mutate:  func(c *Config) { c.SampleRate = -0.1 },
			wantErr: ErrInvalidSampleRate,
		},
		{
			name:    "sample rate above range",
			mutate:  func(c *Config) { c.SampleRate = 1.1 },
			wantErr: ErrInvalidSampleRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected error to wrap ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestInitialize(t *testing.T) {
	t.Run("with tracing only", func(t *testing.T) {
		tel, cleanup := setupTelemetryWithTracing(t)
		defer cleanup()

		if tel.TracerProvider() == nil {
			t.Error("expected tracer provider to be set")
		}
		if tel.MeterProvider() != nil {
			t.Error("expected meter provider to be nil")
		}
	})

	t.Run("with metrics only", func(t *testing.T) {
		tel, cleanup := setupTelemetryWithMetrics(t)
		defer cleanup()

		if tel.MeterProvider() == nil {
			t.Error("expected meter provider to be set")
		}
		if tel.TracerProvider() != nil {
			t.Error("expected tracer provider to be nil")
		}
	})

	t.Run("with tracing and metrics", func(t *testing.T) {
		tel, cleanup := setupTelemetryWithBoth(t)
		defer cleanup()

		if tel.TracerProvider() == nil {
			t.Error("expected tracer provider to be set")
		}
		if tel.MeterProvider() == nil {
			t.Error("expected meter provider to be set")
		}
	})

	t.Run("with everything disabled", func(t *testing.T) {
		cfg := testConfig()
		tel, err := Initialize(context.Background(), cfg)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tel.TracerProvider() != nil || tel.MeterProvider() != nil {
			t.Error("expected no providers when tracing and metrics are disabled")
		}
		if err := tel.Shutdown(context.Background()); err != nil {
			t.Errorf("shutdown failed: %v", err)
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		cfg := testConfig()
		cfg.ServiceName = ""
		if _, err := Initialize(context.Background(), cfg); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want sdktrace.Sampler
	}{
		{"zero rate never samples", 0.0, sdktrace.NeverSample()},
		{"negative rate never samples", -1.0, sdktrace.NeverSample()},
		{"full rate always samples", 1.0, sdktrace.AlwaysSample()},
		{"above full rate always samples", 2.0, sdktrace.AlwaysSample()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler := createSampler(tt.rate)
			if sampler.Description() != tt.want.Description() {
				t.Errorf("expected sampler %q, got %q", tt.want.Description(), sampler.Description())
			}
		})
	}

	t.Run("partial rate is parent based ratio", func(t *testing.T) {
		sampler := createSampler(0.5)
		want := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.5))
		if sampler.Description() != want.Description() {
			t.Errorf("expected sampler %q, got %q", want.Description(), sampler.Description())
		}
	})
}

func TestShutdown(t *testing.T) {
	t.Run("shuts down cleanly", func(t *testing.T) {
		cfg := testConfig()
		cfg.EnableTracing = true
		cfg.EnableMetrics = true

		tel, err := Initialize(context.Background(), cfg,
			WithTraceExporter(NewNoopTraceExporter()),
			WithMetricExporter(NewNoopMetricExporter()),
		)
		if err != nil {
			t.Fatalf("failed to initialize telemetry: %v", err)
		}

		if err := tel.Shutdown(context.Background()); err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	})

	t.Run("empty telemetry shuts down without error", func(t *testing.T) {
		tel := &Telemetry{}
		if err := tel.Shutdown(context.Background()); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}
