package events

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewBus()
	ch, unsub := bus.Subscribe(EventRiskAlert, 1)
	defer unsub()

	bus.Publish(EventRiskAlert, "alert")

	select {
	case got := <-ch:
		if got != "alert" {
			t.Errorf("payload %v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no payload delivered")
	}
}

func TestPublishDropsWhenSubscriberFull(t *testing.T) {
	bus := NewBus()
	ch, unsub := bus.Subscribe(EventSimulationDone, 1)
	defer unsub()

	bus.Publish(EventSimulationDone, "FUND_001")
	// Buffer is full; the broker must drop rather than block.
	bus.Publish(EventSimulationDone, "FUND_002")

	if got := <-ch; got != "FUND_001" {
		t.Errorf("first payload %v", got)
	}
	select {
	case got := <-ch:
		t.Errorf("unexpected second payload %v", got)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, unsub := bus.Subscribe(EventAssessmentRecorded, 1)
	unsub()

	if _, ok := <-ch; ok {
		t.Error("channel open after unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	bus.Publish(EventAssessmentRecorded, "PRED_RISK_x")
}
