package model

// EventType is the coarse verb taxonomy for extracted events
type EventType string

const (
	EventAction      EventType = "action"       // Physical action
	EventVerbal      EventType = "verbal"       // Speech act
	EventMovement    EventType = "movement"     // Motion/travel
	EventObservation EventType = "observation"  // Perception ("I saw ...")
	EventStateChange EventType = "state_change" // Became/started/stopped
)

// EventClassification carries the post-extraction classification pass
// results. Fields are set once by the classifier and never mutated after.
type EventClassification struct {
	CameraFriendly       bool    `json:"is_camera_friendly"`
	CameraReason         string  `json:"camera_reason,omitempty"`
	CameraConfidence     float64 `json:"camera_confidence,omitempty"`
	FollowUp             bool    `json:"is_follow_up"`
	Fragment             bool    `json:"is_fragment"`
	SourceDerived        bool    `json:"is_source_derived"`
	ContainsQuote        bool    `json:"contains_quote"`
	ContainsInterpretive bool    `json:"contains_interpretive"`
}

// Event is an actor/verb/target occurrence extracted from a parsed clause.
// Actor/target are entity ids, never raw pronoun text.
type Event struct {
	ID             string              `json:"id"`
	Type           EventType           `json:"type"`
	Description    string              `json:"description"` // Neutral description
	Verb           string              `json:"verb"`
	SpanIDs        []string            `json:"span_ids,omitempty"` // Supporting statement/segment ids
	Confidence     float64             `json:"confidence"`
	ActorID        string              `json:"actor_id,omitempty"`
	ActorLabel     string              `json:"actor_label,omitempty"`
	TargetID       string              `json:"target_id,omitempty"`
	TargetLabel    string              `json:"target_label,omitempty"`
	TemporalMarker string              `json:"temporal_marker,omitempty"`
	Uncertain      bool                `json:"uncertain,omitempty"`
	Classification EventClassification `json:"classification"`
}

// SpeechAct is one attributable quoted utterance
type SpeechAct struct {
	ID           string `json:"id"`
	SegmentID    string `json:"segment_id"`
	SpeakerID    string `json:"speaker_id,omitempty"` // Entity id, empty when unattributed
	SpeakerLabel string `json:"speaker_label,omitempty"`
	Quote        string `json:"quote"`    // Inner text, quote marks stripped
	Verbatim     bool   `json:"verbatim"` // Direct quote vs reported speech
}
