package trend

import (
	"context"
	"errors"
	"testing"
)

type fakeHistory struct {
	score int
	ok    bool
	err   error
}

func (f *fakeHistory) PreviousScore(ctx context.Context, entityID, excludeID string) (int, bool, error) {
	return f.score, f.ok, f.err
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		history       fakeHistory
		currentScore  int
		wantPrevious  int
		wantTrend     Direction
		wantMagnitude int
	}{
		{
			name:          "no prior assessment is stable",
			history:       fakeHistory{ok: false},
			currentScore:  40,
			wantPrevious:  40,
			wantTrend:     Stable,
			wantMagnitude: 0,
		},
		{
			name:          "rise above band deteriorates",
			history:       fakeHistory{score: 30, ok: true},
			currentScore:  40,
			wantPrevious:  30,
			wantTrend:     Deteriorating,
			wantMagnitude: 10,
		},
		{
			name:          "drop below band improves",
			history:       fakeHistory{score: 50, ok: true},
			currentScore:  42,
			wantPrevious:  50,
			wantTrend:     Improving,
			wantMagnitude: 8,
		},
		{
			name:          "exactly +5 stays stable",
			history:       fakeHistory{score: 30, ok: true},
			currentScore:  35,
			wantPrevious:  30,
			wantTrend:     Stable,
			wantMagnitude: 5,
		},
		{
			name:          "exactly -5 stays stable",
			history:       fakeHistory{score: 35, ok: true},
			currentScore:  30,
			wantPrevious:  35,
			wantTrend:     Stable,
			wantMagnitude: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTracker(&tt.history)
			got, err := tracker.Evaluate(context.Background(), "INV001", "", tt.currentScore)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if got.PreviousScore != tt.wantPrevious {
				t.Errorf("PreviousScore=%d, expected %d", got.PreviousScore, tt.wantPrevious)
			}
			if got.Trend != tt.wantTrend {
				t.Errorf("Trend=%s, expected %s", got.Trend, tt.wantTrend)
			}
			if got.Magnitude != tt.wantMagnitude {
				t.Errorf("Magnitude=%d, expected %d", got.Magnitude, tt.wantMagnitude)
			}
		})
	}
}

func TestEvaluatePropagatesLookupError(t *testing.T) {
	lookupErr := errors.New("db closed")
	tracker := NewTracker(&fakeHistory{err: lookupErr})

	if _, err := tracker.Evaluate(context.Background(), "INV001", "", 10); !errors.Is(err, lookupErr) {
		t.Errorf("expected wrapped lookup error, got %v", err)
	}
}
