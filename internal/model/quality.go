package model

// SignalType identifies a quality signal family
type SignalType string

const (
	SignalActorResolution   SignalType = "actor_resolution"
	SignalAttribution       SignalType = "attribution_coverage"
	SignalTemporalAnchoring SignalType = "temporal_anchoring"
	SignalQuarantineRate    SignalType = "quarantine_rate"
	SignalAmbiguity         SignalType = "ambiguity"
)

// SignalSeverity grades a quality signal
type SignalSeverity string

const (
	SignalInfo     SignalSeverity = "info"
	SignalWarning  SignalSeverity = "warning"
	SignalCritical SignalSeverity = "critical"
)

// Signal is one diagnostic quality measurement with its raw data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// Quality is the aggregate transformation-quality assessment.
// The index is informational only; it never gates pipeline behavior.
type Quality struct {
	Index      int      `json:"index"` // 0-100
	Confidence string   `json:"confidence"`
	Signals    []Signal `json:"signals,omitempty"`
}
