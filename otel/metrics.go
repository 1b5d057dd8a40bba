// Package otel provides OpenTelemetry integration for schemapad editor
// events and persistence.
package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/schemapad/schemapad"
)

// MetricsHandler translates editor change events into OpenTelemetry metrics.
// It records counters for mutations and rejected connections, plus a save
// counter and duration histogram fed by the persistence layer.
type MetricsHandler struct {
	mutations     metric.Int64Counter
	edgeRejects   metric.Int64Counter
	saves         metric.Int64Counter
	saveFailures  metric.Int64Counter
	saveDurations metric.Float64Histogram
}

// NewMetricsHandler creates a MetricsHandler that uses the given meter to
// create its instruments.
func NewMetricsHandler(meter metric.Meter) (*MetricsHandler, error) {
	mutations, err := meter.Int64Counter("schemapad.editor.mutations",
		metric.WithDescription("Number of editor mutations by kind"),
	)
	if err != nil {
		return nil, err
	}

	edgeRejects, err := meter.Int64Counter("schemapad.editor.edge_rejections",
		metric.WithDescription("Number of rejected connection attempts"),
	)
	if err != nil {
		return nil, err
	}

	saves, err := meter.Int64Counter("schemapad.store.saves",
		metric.WithDescription("Number of document saves"),
	)
	if err != nil {
		return nil, err
	}

	saveFailures, err := meter.Int64Counter("schemapad.store.save_failures",
		metric.WithDescription("Number of failed document saves"),
	)
	if err != nil {
		return nil, err
	}

	saveDurations, err := meter.Float64Histogram("schemapad.store.save_duration",
		metric.WithDescription("Duration of document saves in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &MetricsHandler{
		mutations:     mutations,
		edgeRejects:   edgeRejects,
		saves:         saves,
		saveFailures:  saveFailures,
		saveDurations: saveDurations,
	}, nil
}

// Handle records an editor change event. It implements
// schemapad.EventHandler semantics and is safe to chain with other
// observers.
func (h *MetricsHandler) Handle(e schemapad.Event) {
	ctx := context.Background()
	if e.Kind == schemapad.EventEdgeRejected {
		h.edgeRejects.Add(ctx, 1)
		return
	}
	h.mutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", e.Kind.String()),
	))
}

// RecordSave records one save attempt and its duration.
func (h *MetricsHandler) RecordSave(elapsed time.Duration, err error) {
	ctx := context.Background()
	if err != nil {
		h.saveFailures.Add(ctx, 1)
		return
	}
	h.saves.Add(ctx, 1)
	h.saveDurations.Record(ctx, elapsed.Seconds())
}
