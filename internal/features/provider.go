// Package features supplies point-in-time feature vectors for scoring
// and simulation. The engine never computes features itself; it reads
// snapshots from the external feature store and falls back to a
// documented default vector when an entity has never been featurized.
package features

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/abhip2006/clearway/internal/events"
	"github.com/abhip2006/clearway/pkg/cache"
	"github.com/abhip2006/clearway/pkg/db"
)

// Entity types recognized by the feature store.
const (
	EntityInvestor = "INVESTOR"
	EntityFund     = "FUND"
)

// Snapshot is a read-only feature vector for one entity at one point in
// time. Values holds named numeric signals; Returns holds the fund's
// historical period returns (empty for investors).
type Snapshot struct {
	Values    map[string]float64
	Returns   []float64
	Timestamp time.Time
	Defaulted bool // true when the default table was substituted
}

// Value returns a named feature, or fallback when absent.
func (s *Snapshot) Value(name string, fallback float64) float64 {
	if v, ok := s.Values[name]; ok {
		return v
	}
	return fallback
}

// Provider supplies the latest feature snapshot for an entity.
type Provider interface {
	GetFeatures(ctx context.Context, entityType, entityID string) (*Snapshot, error)
}

// InvestorDefaults returns the documented default vector substituted
// when an investor has no feature-store record.
func InvestorDefaults() map[string]float64 {
	return map[string]float64{
		"late_payment_count":      1,
		"missed_payment_count":    0,
		"on_time_payment_rate":    0.9,
		"avg_payment_delay_days":  1.5,
		"current_balance":         1000000,
		"account_growth_rate":     0.08,
		"leverage_ratio":          0.3,
		"liquidity_risk":          0.15,
		"recent_sentiment_score":  0.6,
		"sentiment_trend":         0,
		"communication_frequency": 5,
		"portfolio_concentration": 0.4,
		"portfolio_volatility":    0.18,
		"diversification_score":   0.7,
	}
}

// FundDefaults returns the documented default fund snapshot.
func FundDefaults() ([]float64, map[string]float64) {
	returns := []float64{0.08, 0.12, -0.03, 0.15, 0.09}
	values := map[string]float64{
		"volatility":        0.18,
		"sharpe_ratio":      0.95,
		"max_drawdown":      -0.12,
		"correlation_sp500": 0.65,
	}
	return returns, values
}

// defaultSnapshot builds the substituted snapshot for an entity type.
func defaultSnapshot(entityType string) *Snapshot {
	snap := &Snapshot{Timestamp: time.Now().UTC(), Defaulted: true}
	switch entityType {
	case EntityFund:
		snap.Returns, snap.Values = FundDefaults()
	default:
		snap.Values = InvestorDefaults()
	}
	return snap
}

// StoreProvider reads snapshots from the SQLite feature store, caching
// recent reads. Missing entities resolve to the default table; only
// malformed rows surface as errors.
type StoreProvider struct {
	queries *db.FeatureStoreQueries
	cache   *cache.ShardedSnapshotCache
	bus     *events.Bus
}

// NewStoreProvider creates a provider over the feature store. cacheTTL
// bounds snapshot staleness; bus may be nil when fallback events are
// not wanted.
func NewStoreProvider(queries *db.FeatureStoreQueries, cacheTTL time.Duration, bus *events.Bus) *StoreProvider {
	return &StoreProvider{
		queries: queries,
		cache:   cache.NewShardedSnapshotCache(cacheTTL),
		bus:     bus,
	}
}

// GetFeatures returns the latest snapshot for an entity. Absence of a
// feature-store row is not an error: the documented defaults are
// substituted and a fallback event is published for observability.
func (p *StoreProvider) GetFeatures(ctx context.Context, entityType, entityID string) (*Snapshot, error) {
	key := entityType + ":" + entityID
	if cached, ok := p.cache.Get(key); ok {
		if snap, ok := cached.(*Snapshot); ok {
			return snap, nil
		}
	}

	rec, err := p.queries.Latest(ctx, entityType, entityID)
	if errors.Is(err, db.ErrNotFound) {
		log.Printf("features: no record for %s %s, using defaults", entityType, entityID)
		if p.bus != nil {
			p.bus.Publish(events.EventFeatureFallback, key)
		}
		return defaultSnapshot(entityType), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load features for %s %s: %w", entityType, entityID, err)
	}

	snap, err := decodeRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("decode features for %s %s: %w", entityType, entityID, err)
	}
	p.cache.Set(key, snap)
	return snap, nil
}

func decodeRecord(rec *db.FeatureRecord) (*Snapshot, error) {
	snap := &Snapshot{Timestamp: rec.Timestamp}
	if err := json.Unmarshal([]byte(rec.Features), &snap.Values); err != nil {
		return nil, err
	}
	if rec.Returns != "" {
		if err := json.Unmarshal([]byte(rec.Returns), &snap.Returns); err != nil {
			return nil, err
		}
	}
	return snap, nil
}
