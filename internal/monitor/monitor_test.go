package monitor

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abhip2006/clearway/internal/events"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestMonitorCountsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus()
	metrics := NewEngineMetrics()

	var mu sync.Mutex
	var alerts []string
	m := &Monitor{
		Bus:     bus,
		Metrics: metrics,
		AlertFn: func(s string) {
			mu.Lock()
			alerts = append(alerts, s)
			mu.Unlock()
		},
	}
	m.Start(ctx)

	bus.Publish(events.EventAssessmentRecorded, "PRED_RISK_abc")
	bus.Publish(events.EventSimulationDone, "FUND_001")
	bus.Publish(events.EventFeatureFallback, "INVESTOR:INV_404")
	bus.Publish(events.EventRiskAlert, "investor INV_002 assessed TIER_5 (score 90)")

	waitFor(t, func() bool {
		s := metrics.GetSnapshot()
		return s.AssessmentsRecorded == 1 && s.SimulationsRun == 1 &&
			s.FeatureFallbacks == 1 && s.RiskAlerts == 1
	})

	mu.Lock()
	defer mu.Unlock()
	if len(alerts) != 1 || !strings.Contains(alerts[0], "INV_002") {
		t.Errorf("alerts %v", alerts)
	}
}

func TestLatencyHistogram(t *testing.T) {
	h := NewLatencyHistogram(4)
	for _, v := range []float64{10, 20, 30, 40} {
		h.Record(v)
	}

	stats := h.Stats()
	if stats.Count != 4 || stats.Min != 10 || stats.Max != 40 || stats.Avg != 25 {
		t.Errorf("stats %+v", stats)
	}

	// Window slides: the oldest sample drops off.
	h.Record(50)
	stats = h.Stats()
	if stats.Count != 4 || stats.Min != 20 || stats.Max != 50 {
		t.Errorf("stats after slide %+v", stats)
	}
}

func TestTimerRecords(t *testing.T) {
	h := NewLatencyHistogram(10)
	timer := NewTimer(h)
	time.Sleep(time.Millisecond)
	if timer.Stop() <= 0 {
		t.Error("non-positive elapsed time")
	}
	if h.Stats().Count != 1 {
		t.Error("timer did not record a sample")
	}
}
