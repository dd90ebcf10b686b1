// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// sampleCount reads the observation count of one histogram series.
func sampleCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	m, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("%T is not a prometheus.Metric", o)
	}
	var pb dto.Metric
	if err := m.Write(&pb); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return pb.GetHistogram().GetSampleCount()
}

func TestRecordEngineCall(t *testing.T) {
	before := testutil.ToFloat64(EngineRequests.WithLabelValues("pricing", "quote", OutcomeSuccess))

	RecordEngineCall("pricing", "quote", OutcomeSuccess, 3*time.Millisecond)
	RecordEngineCall("pricing", "quote", OutcomeSuccess, 5*time.Millisecond)

	after := testutil.ToFloat64(EngineRequests.WithLabelValues("pricing", "quote", OutcomeSuccess))
	if after-before != 2 {
		t.Errorf("expected 2 recorded calls, got %v", after-before)
	}
}

func TestRecordEngineCall_ObservesDuration(t *testing.T) {
	before := sampleCount(t, EngineDuration.WithLabelValues("analytics", "demand"))
	RecordEngineCall("analytics", "demand", OutcomeSuccess, 12*time.Millisecond)
	if got := sampleCount(t, EngineDuration.WithLabelValues("analytics", "demand")); got != before+1 {
		t.Errorf("duration samples = %d, want %d", got, before+1)
	}
}

func TestRecordConfidence_Clamps(t *testing.T) {
	// Out-of-range values must not panic and are folded into the band.
	RecordConfidence("analytics", "demand", -5)
	RecordConfidence("analytics", "demand", 150)
	RecordConfidence("analytics", "demand", 55)
}

func TestRecordPriceQuote(t *testing.T) {
	tests := []struct {
		name     string
		original float64
		dynamic  float64
		bound    string
	}{
		{"no change", 20, 20, ""},
		{"max bound", 20, 25, "max"},
		{"min bound", 20, 16, "min"},
		{"zero original", 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before float64
			if tt.bound != "" {
				before = testutil.ToFloat64(PricingClamped.WithLabelValues(tt.bound))
			}
			RecordPriceQuote(tt.original, tt.dynamic, tt.bound)
			if tt.bound != "" {
				after := testutil.ToFloat64(PricingClamped.WithLabelValues(tt.bound))
				if after-before != 1 {
					t.Errorf("clamp counter delta = %v, want 1", after-before)
				}
			}
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/chat", "200"))
	RecordAPIRequest("GET", "/api/v1/chat", "200", 10*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/chat", "200"))
	if after != before+1 {
		t.Errorf("api requests = %v, want %v", after, before+1)
	}
}
