package model

// EntityType is the coarse kind of a resolved entity
type EntityType string

const (
	EntityPerson  EntityType = "person"
	EntityVehicle EntityType = "vehicle"
	EntityObject  EntityType = "object"
	EntityUnknown EntityType = "unknown"
)

// EntityRole is the narrative role an entity plays
type EntityRole string

const (
	RoleReporter    EntityRole = "reporter"
	RoleSubject     EntityRole = "subject"
	RoleWitness     EntityRole = "witness"
	RoleAuthority   EntityRole = "authority"
	RoleInstitution EntityRole = "institution"
	RoleObject      EntityRole = "object"
	RoleUnknown     EntityRole = "unknown"
)

// ParticipationTier distinguishes incident actors from later or
// merely-mentioned parties
type ParticipationTier string

const (
	TierIncident     ParticipationTier = "incident"
	TierPostIncident ParticipationTier = "post_incident"
	TierMentioned    ParticipationTier = "mentioned"
)

// MentionRef points at one textual occurrence of an entity.
// Exactly one of SpanID/TextFallback is set: SpanID when the mention
// resolved to a known span, TextFallback when only the literal text is
// available. Consumers must handle both arms.
type MentionRef struct {
	SpanID       string `json:"span_id,omitempty"`
	TextFallback string `json:"text_fallback,omitempty"`
}

// Resolved reports whether the reference carries a span id
func (r MentionRef) Resolved() bool {
	return r.SpanID != ""
}

// String returns the span id or the literal fallback for display
func (r MentionRef) String() string {
	if r.SpanID != "" {
		return r.SpanID
	}
	return "text:" + r.TextFallback
}

// Entity is a resolved actor or object. Entities are never deleted once
// created; exclusion from rendering is recorded, not destruction.
type Entity struct {
	ID       string            `json:"id"`
	Type     EntityType        `json:"type"`
	Label    string            `json:"label"` // Display label ("Officer Jenkins", "Reporter")
	Role     EntityRole        `json:"role"`
	Tier     ParticipationTier `json:"tier"`
	Mentions []MentionRef      `json:"mentions,omitempty"` // Ordered as discovered
	Badge    string            `json:"badge,omitempty"`    // Badge/identifier when extracted
	Excluded bool              `json:"excluded,omitempty"` // Excluded from rendering, not merged
	ExcludeReason string       `json:"exclude_reason,omitempty"`
}

// AddMention appends a mention reference in discovery order
func (e *Entity) AddMention(ref MentionRef) {
	e.Mentions = append(e.Mentions, ref)
}

// MentionType classifies the surface form of a mention
type MentionType string

const (
	MentionProperName  MentionType = "proper_name"
	MentionPronoun     MentionType = "pronoun"
	MentionTitle       MentionType = "title"
	MentionGenericNoun MentionType = "generic_noun"
)

// Gender is the grammatical gender feature of a pronoun mention
type Gender string

const (
	GenderMasculine Gender = "masculine"
	GenderFeminine  Gender = "feminine"
	GenderNeuter    Gender = "neuter"
	GenderUnknown   Gender = "unknown"
)

// Number is the grammatical number feature of a pronoun mention
type Number string

const (
	NumberSingular Number = "singular"
	NumberPlural   Number = "plural"
)

// Mention records one textual occurrence of an entity reference
type Mention struct {
	ID         string      `json:"id"`
	SegmentID  string      `json:"segment_id"`
	Start      int         `json:"start"` // Offset into the original input
	End        int         `json:"end"`
	Text       string      `json:"text"`
	Type       MentionType `json:"type"`
	Gender     Gender      `json:"gender,omitempty"` // Pronoun mentions only
	Number     Number      `json:"number,omitempty"`
	EntityID   string      `json:"entity_id,omitempty"` // Empty when unresolved
	Confidence float64     `json:"confidence,omitempty"`
}

// CoreferenceChain groups all mentions resolved to one entity
type CoreferenceChain struct {
	ID              string   `json:"id"`
	EntityID        string   `json:"entity_id"`
	MentionIDs      []string `json:"mention_ids"`
	HasProperAnchor bool     `json:"has_proper_anchor"` // At least one proper-name mention
}

// UncertaintyMarker surfaces an ambiguity the pipeline refused to resolve
// silently: multiple live coreference candidates, an unresolvable actor, etc.
type UncertaintyMarker struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"` // "ambiguous_pronoun", "unresolved_actor", ...
	SegmentID  string   `json:"segment_id,omitempty"`
	Text       string   `json:"text"`     // The ambiguous surface text
	Position   int      `json:"position"` // Offset into the original input
	Candidates []string `json:"candidates,omitempty"` // Entity labels, most recent first
	Reason     string   `json:"reason"`
}
