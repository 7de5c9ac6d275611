package db

import "time"

// RiskModel represents a registry entry for a deployed risk model.
type RiskModel struct {
	ModelID   string
	ModelName string
	ModelType string
	Version   string
	Status    string // DEVELOPMENT, STAGING, PRODUCTION, ARCHIVED
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FeatureRecord is one point-in-time feature vector for an entity.
// Features holds a JSON object of named numeric values; Returns holds
// an optional JSON array of historical period returns (funds only).
type FeatureRecord struct {
	ID         int64
	EntityType string
	EntityID   string
	Features   string
	Returns    string
	Timestamp  time.Time
}

// RiskPrediction is a persisted risk assessment row.
type RiskPrediction struct {
	PredictionID        string
	ModelID             string
	RiskType            string
	RiskHorizon         string
	EntityID            string
	RiskProbability     float64
	RiskScore           int
	PreviousRiskScore   int
	RiskTier            string
	RiskTrend           string
	TrendMagnitude      int
	TopRiskFactors      string // JSON array of {factor, weight}
	EstimatedLoss       float64
	ExposurePercentage  float64
	ContributingMetrics string // JSON object (fund assessments)
	RecommendedActions  string // JSON array of strings
	Timestamp           time.Time
}
