package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/schemapad/schemapad"
	padotel "github.com/schemapad/schemapad/otel"
)

// newTestMeter returns a meter backed by a manual reader for collecting metrics in tests.
func newTestMeter() (*metric.ManualReader, *metric.MeterProvider) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	return reader, mp
}

// collectMetrics reads all metrics from the reader.
func collectMetrics(t *testing.T, reader *metric.ManualReader) *metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return &rm
}

// findMetric searches for a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == name {
				return &scope.Metrics[i]
			}
		}
	}
	return nil
}

func TestMetricsHandler_CountsMutationsByKind(t *testing.T) {
	reader, mp := newTestMeter()
	h, err := padotel.NewMetricsHandler(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetricsHandler: %v", err)
	}

	now := time.Now()
	h.Handle(schemapad.Event{Kind: schemapad.EventNodeAdded, EntityID: "n1", Time: now})
	h.Handle(schemapad.Event{Kind: schemapad.EventNodeAdded, EntityID: "n2", Time: now})
	h.Handle(schemapad.Event{Kind: schemapad.EventEdgeAdded, EntityID: "e1", Time: now})

	rm := collectMetrics(t, reader)

	m := findMetric(rm, "schemapad.editor.mutations")
	if m == nil {
		t.Fatal("schemapad.editor.mutations metric not found")
	}
	sumData, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64] data, got %T", m.Data)
	}
	// One data point per event kind.
	if len(sumData.DataPoints) != 2 {
		t.Fatalf("expected 2 data points, got %d", len(sumData.DataPoints))
	}
	var total int64
	for _, dp := range sumData.DataPoints {
		total += dp.Value
	}
	if total != 3 {
		t.Errorf("expected 3 mutations total, got %d", total)
	}
}

func TestMetricsHandler_CountsEdgeRejections(t *testing.T) {
	reader, mp := newTestMeter()
	h, err := padotel.NewMetricsHandler(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetricsHandler: %v", err)
	}

	h.Handle(schemapad.Event{Kind: schemapad.EventEdgeRejected, Time: time.Now()})
	h.Handle(schemapad.Event{Kind: schemapad.EventEdgeRejected, Time: time.Now()})

	rm := collectMetrics(t, reader)

	rej := findMetric(rm, "schemapad.editor.edge_rejections")
	if rej == nil {
		t.Fatal("schemapad.editor.edge_rejections metric not found")
	}
	sumData, ok := rej.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64] data, got %T", rej.Data)
	}
	if len(sumData.DataPoints) != 1 || sumData.DataPoints[0].Value != 2 {
		t.Errorf("expected 1 data point with value 2, got %+v", sumData.DataPoints)
	}

	// Rejections do not count as mutations.
	mut := findMetric(rm, "schemapad.editor.mutations")
	if mut != nil {
		if md, ok := mut.Data.(metricdata.Sum[int64]); ok {
			for _, dp := range md.DataPoints {
				if dp.Value != 0 {
					t.Errorf("mutations counted %d, want 0", dp.Value)
				}
			}
		}
	}
}

func TestMetricsHandler_RecordSave(t *testing.T) {
	reader, mp := newTestMeter()
	h, err := padotel.NewMetricsHandler(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetricsHandler: %v", err)
	}

	h.RecordSave(200*time.Millisecond, nil)
	h.RecordSave(0, errors.New("disk full"))

	rm := collectMetrics(t, reader)

	saves := findMetric(rm, "schemapad.store.saves")
	if saves == nil {
		t.Fatal("schemapad.store.saves metric not found")
	}
	if sumData, ok := saves.Data.(metricdata.Sum[int64]); !ok || sumData.DataPoints[0].Value != 1 {
		t.Errorf("saves = %+v, want 1", saves.Data)
	}

	failures := findMetric(rm, "schemapad.store.save_failures")
	if failures == nil {
		t.Fatal("schemapad.store.save_failures metric not found")
	}
	if sumData, ok := failures.Data.(metricdata.Sum[int64]); !ok || sumData.DataPoints[0].Value != 1 {
		t.Errorf("failures = %+v, want 1", failures.Data)
	}

	dur := findMetric(rm, "schemapad.store.save_duration")
	if dur == nil {
		t.Fatal("schemapad.store.save_duration metric not found")
	}
	histData, ok := dur.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("expected Histogram[float64] data, got %T", dur.Data)
	}
	if len(histData.DataPoints) != 1 || histData.DataPoints[0].Count != 1 {
		t.Fatalf("expected 1 duration recorded, got %+v", histData.DataPoints)
	}
	if histData.DataPoints[0].Sum != 0.2 {
		t.Errorf("expected duration sum 0.2s, got %f", histData.DataPoints[0].Sum)
	}
}
