// Package monitor observes engine events: it counts assessments,
// simulations and feature fallbacks, and surfaces high-tier risk
// alerts through a pluggable alert sink.
package monitor

import (
	"context"
	"log"
	"time"

	"github.com/abhip2006/clearway/internal/events"
)

// Monitor watches engine events and maintains metrics.
type Monitor struct {
	Bus     *events.Bus
	Metrics *EngineMetrics
	AlertFn func(string)
}

// Start subscribes to the engine's event topics until ctx is done.
func (m *Monitor) Start(ctx context.Context) {
	if m.Bus == nil {
		log.Println("monitor not fully configured; skipping")
		return
	}
	if m.Metrics == nil {
		m.Metrics = NewEngineMetrics()
	}

	m.watch(ctx, events.EventRiskAlert, func(payload any) {
		m.Metrics.IncrementAlerts()
		if m.AlertFn != nil {
			m.AlertFn(formatAlert(payload))
		}
	})
	m.watch(ctx, events.EventAssessmentRecorded, func(any) {
		m.Metrics.IncrementAssessments()
	})
	m.watch(ctx, events.EventSimulationDone, func(any) {
		m.Metrics.IncrementSimulations()
	})
	m.watch(ctx, events.EventFeatureFallback, func(payload any) {
		m.Metrics.IncrementFallbacks()
		log.Printf("monitor: feature fallback for %v", payload)
	})
}

func (m *Monitor) watch(ctx context.Context, e events.Event, handle func(any)) {
	stream, unsub := m.Bus.Subscribe(e, 50)
	go func() {
		defer unsub()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-stream:
				if !ok {
					return
				}
				handle(msg)
			}
		}
	}()
}

func formatAlert(msg any) string {
	return "[" + time.Now().Format(time.RFC3339) + "] " + toString(msg)
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		return "alert triggered"
	}
}
