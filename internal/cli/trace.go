package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/matzehuels/sceneforge/pkg/observability"
)

// startTracing installs OpenTelemetry hooks that log every finished span.
// It returns a function flushing the provider and restoring no-op hooks.
func (c *CLI) startTracing(cfg TraceConfig) func() {
	if !cfg.Enabled {
		return func() {}
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(&logExporter{logger: c.Logger}),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", appName))),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	hooks := observability.NewTracingHooks(tp.Tracer(appName))
	observability.SetEditorHooks(hooks)
	observability.SetPersistHooks(hooks)
	observability.SetRenderHooks(hooks)

	return func() {
		observability.Reset()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}
}

// logExporter writes finished spans to the CLI logger.
type logExporter struct {
	logger *log.Logger
}

func (e *logExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		kv := []any{"span", s.Name(), "took", s.EndTime().Sub(s.StartTime()).Round(time.Microsecond)}
		for _, a := range s.Attributes() {
			kv = append(kv, string(a.Key), a.Value.Emit())
		}
		if st := s.Status(); st.Description != "" {
			kv = append(kv, "error", st.Description)
		}
		e.logger.Info("trace", kv...)
	}
	return nil
}

func (e *logExporter) Shutdown(ctx context.Context) error { return nil }
