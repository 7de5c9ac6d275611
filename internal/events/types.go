package events

// Event enumerates high-level topics inside the risk engine.
type Event string

const (
	// EventAssessmentRecorded fires after an assessment is persisted.
	// Payload: the persisted assessment ID.
	EventAssessmentRecorded Event = "assessment.recorded"

	// EventRiskAlert fires for TIER_4/TIER_5 default-risk results.
	// Payload: a human-readable alert string.
	EventRiskAlert Event = "risk_alert"

	// EventFeatureFallback fires when a missing feature-store record is
	// replaced by the default vector. Payload: "ENTITY_TYPE:entity_id".
	EventFeatureFallback Event = "feature.fallback"

	// EventSimulationDone fires when a Monte Carlo run completes.
	// Payload: the fund ID.
	EventSimulationDone Event = "simulation.done"
)
