package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// TracingHooks turns hook events into OpenTelemetry spans. Hooks fire after
// the fact, so each span is back-dated to the start of the operation.
type TracingHooks struct {
	tracer trace.Tracer
}

// NewTracingHooks returns hooks that record spans on tracer.
func NewTracingHooks(tracer trace.Tracer) *TracingHooks {
	return &TracingHooks{tracer: tracer}
}

// OnMutation implements EditorHooks.
func (h *TracingHooks) OnMutation(ctx context.Context, op, objectID string, err error) {
	h.record(ctx, "editor."+op, 0, err, attribute.String("object.id", objectID))
}

// OnLoad implements PersistHooks.
func (h *TracingHooks) OnLoad(ctx context.Context, backend, path string, d time.Duration, err error) {
	h.record(ctx, "persist.load", d, err,
		attribute.String("persist.backend", backend),
		attribute.String("persist.path", path))
}

// OnSave implements PersistHooks.
func (h *TracingHooks) OnSave(ctx context.Context, backend, path string, size int, d time.Duration, err error) {
	h.record(ctx, "persist.save", d, err,
		attribute.String("persist.backend", backend),
		attribute.String("persist.path", path),
		attribute.Int("persist.bytes", size))
}

// OnSync implements RenderHooks.
func (h *TracingHooks) OnSync(ctx context.Context, objectCount int, d time.Duration) {
	h.record(ctx, "render.sync", d, nil, attribute.Int("render.objects", objectCount))
}

// OnPick implements RenderHooks.
func (h *TracingHooks) OnPick(ctx context.Context, hit bool, d time.Duration) {
	h.record(ctx, "render.pick", d, nil, attribute.Bool("render.hit", hit))
}

func (h *TracingHooks) record(ctx context.Context, name string, d time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, span := h.tracer.Start(ctx, name,
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(attrs...))

	switch {
	case err == nil:
	case sferrors.IsCanceled(err):
		span.SetAttributes(attribute.Bool("canceled", true))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, sferrors.UserMessage(err))
	}
	span.End(trace.WithTimestamp(end))
}

var (
	_ EditorHooks  = (*TracingHooks)(nil)
	_ PersistHooks = (*TracingHooks)(nil)
	_ RenderHooks  = (*TracingHooks)(nil)
)
