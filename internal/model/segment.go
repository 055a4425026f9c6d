package model

// SpeakerType identifies whose voice a segment carries
type SpeakerType string

const (
	SpeakerNarrator SpeakerType = "narrator" // First-person reporter narration
	SpeakerSubject  SpeakerType = "subject"  // Quoted subject of the report
	SpeakerOfficer  SpeakerType = "officer"  // Quoted officer/authority
	SpeakerWitness  SpeakerType = "witness"  // Quoted third-party witness
)

// ContextLabel is a lexically-detected annotation on a segment.
// Labels are additive: a segment may carry several at once.
type ContextLabel string

const (
	ContextDirectQuote    ContextLabel = "DIRECT_QUOTE"    // Contains quoted speech
	ContextPhysicalForce  ContextLabel = "PHYSICAL_FORCE"  // Describes physical contact/force
	ContextChargeDesc     ContextLabel = "CHARGE_DESC"     // Describes charges or citations
	ContextOpinionOnly    ContextLabel = "OPINION_ONLY"    // Pure opinion, no observable content
	ContextMedical        ContextLabel = "MEDICAL"         // Medical treatment or injury language
	ContextLegalProcess   ContextLabel = "LEGAL_PROCESS"   // Filings, complaints, legal process
	ContextTemporalMarker ContextLabel = "TEMPORAL_MARKER" // Carries an explicit time reference
	ContextProfanity      ContextLabel = "PROFANITY"       // Invective or profane language
)

// TransformRecord documents one text transformation applied during rendering
type TransformRecord struct {
	Original    string `json:"original"`              // The span that was changed
	Replacement string `json:"replacement"`           // What it became (may be empty)
	Reason      string `json:"reason"`                // Machine reason code
	RuleID      string `json:"rule_id,omitempty"`     // Policy rule that caused it
	Start       int    `json:"start"`                 // Offset into the segment text
	End         int    `json:"end"`
}

// Segment is one sentence-level unit of the original narrative.
// Text is verbatim and never changes after creation; annotations and the
// neutralized rendering attach alongside it.
type Segment struct {
	ID          string            `json:"id"`
	Text        string            `json:"text"`                   // Verbatim original text
	Start       int               `json:"start"`                  // Character offset into input
	End         int               `json:"end"`
	Labels      []ContextLabel    `json:"labels,omitempty"`       // Context annotations
	QuoteDepth  int               `json:"quote_depth"`            // Quote nesting depth
	Speaker     SpeakerType       `json:"speaker"`
	NeutralText string            `json:"neutral_text,omitempty"` // Post-policy rendering
	Transforms  []TransformRecord `json:"transforms,omitempty"`   // Ordered transform trail
}

// HasLabel reports whether the segment carries the given context label
func (s *Segment) HasLabel(label ContextLabel) bool {
	for _, l := range s.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// AddLabel attaches a context label if not already present
func (s *Segment) AddLabel(label ContextLabel) {
	if !s.HasLabel(label) {
		s.Labels = append(s.Labels, label)
	}
}
