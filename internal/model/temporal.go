package model

// AnchorType classifies how a temporal expression anchors an event in time
type AnchorType string

const (
	AnchorTime     AnchorType = "time"     // Absolute clock time
	AnchorDate     AnchorType = "date"     // Absolute calendar date
	AnchorSequence AnchorType = "sequence" // "then", "after that"
	AnchorDuring   AnchorType = "during"   // "while", "as"
	AnchorNextDay  AnchorType = "next_day" // "the next day", "the following morning"
	AnchorGap      AnchorType = "gap"      // "N minutes later", duration markers
)

// TemporalExpression is a normalized time/date/relative/duration reference
type TemporalExpression struct {
	ID         string     `json:"id"`
	SegmentID  string     `json:"segment_id"`
	Text       string     `json:"text"` // Original surface text
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Anchor     AnchorType `json:"anchor_type"`
	Normalized string     `json:"normalized,omitempty"` // ISO form where applicable
	Minutes    int        `json:"minutes,omitempty"`    // Duration estimate for gap anchors
	Days       int        `json:"days,omitempty"`       // Day increment for multi-day anchors
}

// AllenRelation is one of the 13 canonical interval relations
type AllenRelation string

const (
	RelBefore       AllenRelation = "before"
	RelAfter        AllenRelation = "after"
	RelDuring       AllenRelation = "during"
	RelContains     AllenRelation = "contains"
	RelMeets        AllenRelation = "meets"
	RelMetBy        AllenRelation = "met_by"
	RelOverlaps     AllenRelation = "overlaps"
	RelOverlappedBy AllenRelation = "overlapped_by"
	RelStarts       AllenRelation = "starts"
	RelStartedBy    AllenRelation = "started_by"
	RelFinishes     AllenRelation = "finishes"
	RelFinishedBy   AllenRelation = "finished_by"
	RelEquals       AllenRelation = "equals"
)

// Inverse returns the converse relation (A rel B implies B inverse A)
func (r AllenRelation) Inverse() AllenRelation {
	switch r {
	case RelBefore:
		return RelAfter
	case RelAfter:
		return RelBefore
	case RelDuring:
		return RelContains
	case RelContains:
		return RelDuring
	case RelMeets:
		return RelMetBy
	case RelMetBy:
		return RelMeets
	case RelOverlaps:
		return RelOverlappedBy
	case RelOverlappedBy:
		return RelOverlaps
	case RelStarts:
		return RelStartedBy
	case RelStartedBy:
		return RelStarts
	case RelFinishes:
		return RelFinishedBy
	case RelFinishedBy:
		return RelFinishes
	default:
		return RelEquals
	}
}

// Display returns the simplified human label used in rendered reports.
// The 13 canonical relations collapse to 7 display forms.
func (r AllenRelation) Display() string {
	switch r {
	case RelBefore, RelMeets:
		return "then"
	case RelAfter, RelMetBy:
		return "after"
	case RelDuring, RelStarts, RelFinishes:
		return "during"
	case RelContains, RelStartedBy, RelFinishedBy:
		return "throughout"
	case RelOverlaps:
		return "overlapping"
	case RelOverlappedBy:
		return "overlapped by"
	default:
		return "at the same time as"
	}
}

// RelationEvidence identifies what justified a temporal relation
type RelationEvidence string

const (
	EvidenceNarrativeOrder RelationEvidence = "narrative_order"
	EvidenceExplicitMarker RelationEvidence = "explicit_marker"
)

// TemporalRelationship is a pairwise Allen relation between two events
type TemporalRelationship struct {
	ID           string           `json:"id"`
	FromEventID  string           `json:"from_event_id"`
	ToEventID    string           `json:"to_event_id"`
	Relation     AllenRelation    `json:"relation"`
	Evidence     RelationEvidence `json:"evidence_type"`
	EvidenceText string           `json:"evidence_text,omitempty"`
	GapMinutes   int              `json:"gap_minutes,omitempty"` // Duration marker estimate
}

// TimeSource records how a timeline entry got its time
type TimeSource string

const (
	TimeExplicit TimeSource = "explicit" // Consumed an absolute expression
	TimeRelative TimeSource = "relative" // Positioned by a relative marker
	TimeInferred TimeSource = "inferred" // Narrative order only
)

// TimelineEntry places one event on the reconstructed timeline
type TimelineEntry struct {
	ID             string     `json:"id"`
	EventID        string     `json:"event_id"`
	GroupID        string     `json:"group_id,omitempty"`
	AbsoluteTime   string     `json:"absolute_time,omitempty"` // Original surface text
	AbsoluteDate   string     `json:"absolute_date,omitempty"`
	RelativeTime   string     `json:"relative_time,omitempty"`
	NormalizedTime string     `json:"normalized_time,omitempty"` // ISO form
	DayOffset      int        `json:"day_offset"`                // 0 = incident day
	Source         TimeSource `json:"time_source"`
	Confidence     float64    `json:"time_confidence"`
	SequenceOrder  int        `json:"sequence_order"`
	GapBeforeID    string     `json:"gap_before_id,omitempty"` // Gap preceding this entry
}

// GapType classifies the interval between adjacent timeline entries
type GapType string

const (
	GapExplained   GapType = "explained"    // Covered by a relative-time marker
	GapUnexplained GapType = "unexplained"  // Computable gap with no explanation
	GapDayBoundary GapType = "day_boundary" // Day offset changed
	GapUncertain   GapType = "uncertain"    // Unconstrained, inferred times on a side
	GapNone        GapType = "none"
)

// TimeGap is the interval between two adjacent timeline entries.
// Created once per adjacent pair during gap detection, never mutated after.
type TimeGap struct {
	ID                    string  `json:"id"`
	AfterEntryID          string  `json:"after_entry_id"`  // Earlier entry
	BeforeEntryID         string  `json:"before_entry_id"` // Later entry
	Type                  GapType `json:"gap_type"`
	EstimatedMinutes      int     `json:"estimated_minutes,omitempty"`
	Explanation           string  `json:"explanation,omitempty"`
	RequiresInvestigation bool    `json:"requires_investigation"`
	SuggestedQuestion     string  `json:"suggested_question,omitempty"`
}
