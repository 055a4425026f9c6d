package model

// ClauseType classifies the syntactic role of a decomposed clause
type ClauseType string

const (
	ClauseRoot        ClauseType = "root"        // Main clause of the sentence
	ClauseCoordinated ClauseType = "coordinated" // Joined by a coordinating conjunction
	ClauseAdverbial   ClauseType = "adverbial"   // Subordinate clause ("because ...")
	ClauseComplement  ClauseType = "complement"  // Clausal complement ("said that ...")
)

// TypeHint is the coarse pre-classification assigned by the decomposer,
// refined later by the epistemic tagger
type TypeHint string

const (
	HintObservation    TypeHint = "observation"
	HintClaim          TypeHint = "claim"
	HintInterpretation TypeHint = "interpretation"
	HintQuote          TypeHint = "quote"
)

// StatementSource identifies who speaks a statement
type StatementSource string

const (
	SourceReporter     StatementSource = "reporter"
	SourceWitness      StatementSource = "witness"
	SourceMedical      StatementSource = "medical"
	SourceInvestigator StatementSource = "investigator"
	SourceDocument     StatementSource = "document"
	SourceOfficer      StatementSource = "officer"
)

// EpistemicType is the closed taxonomy of evidentiary statement classes.
// Classification is priority-ordered: the most dangerous/most specific
// category wins when a statement matches several pattern sets.
type EpistemicType string

const (
	EpistemicConspiracyClaim     EpistemicType = "conspiracy_claim"      // Unfalsifiable claim
	EpistemicLegalClaimDirect    EpistemicType = "legal_claim_direct"    // Bare legal conclusion
	EpistemicLegalClaimAdmin     EpistemicType = "legal_claim_admin"     // Administrative/IA outcome
	EpistemicLegalClaimCausation EpistemicType = "legal_claim_causation" // Causation phrasing
	EpistemicLegalClaimAttorney  EpistemicType = "legal_claim_attorney"  // Attorney-opinion framing
	EpistemicMedicalFinding      EpistemicType = "medical_finding"       // Provider-documented finding
	EpistemicInterpretation      EpistemicType = "interpretation"        // Intent/certainty inference
	EpistemicSelfReport          EpistemicType = "self_report"           // Reporter internal state
	EpistemicAdminAction         EpistemicType = "admin_action"          // Filing/call by the reporter
	EpistemicDirectEvent         EpistemicType = "direct_event"          // Observable action (default)
	EpistemicQuote               EpistemicType = "quote"                 // Verbatim quoted speech
)

// SelfReportSubtype refines self_report statements by content
type SelfReportSubtype string

const (
	SelfReportGeneral       SelfReportSubtype = "general"
	SelfReportStateAcute    SelfReportSubtype = "state_acute"         // Pain/fear in the moment
	SelfReportStateInjury   SelfReportSubtype = "state_injury"        // Physical injury
	SelfReportStatePsych    SelfReportSubtype = "state_psychological" // Ongoing psychological state
	SelfReportSocioeconomic SelfReportSubtype = "state_socioeconomic" // Job/housing/financial impact
)

// RoutingBucket is the output section family a statement class routes to
type RoutingBucket string

const (
	BucketObserved       RoutingBucket = "observed"
	BucketReported       RoutingBucket = "reported"
	BucketInterpretive   RoutingBucket = "interpretive"
	BucketLegal          RoutingBucket = "legal"
	BucketMedical        RoutingBucket = "medical"
	BucketAdministrative RoutingBucket = "administrative"
	BucketQuoted         RoutingBucket = "quoted"
	BucketQuarantined    RoutingBucket = "quarantined"
)

// RoutingBucket maps an epistemic type to its output section family.
// The switch is exhaustive over the closed taxonomy.
func (t EpistemicType) RoutingBucket() RoutingBucket {
	switch t {
	case EpistemicDirectEvent:
		return BucketObserved
	case EpistemicSelfReport:
		return BucketReported
	case EpistemicInterpretation:
		return BucketInterpretive
	case EpistemicLegalClaimDirect, EpistemicLegalClaimAdmin,
		EpistemicLegalClaimCausation, EpistemicLegalClaimAttorney:
		return BucketLegal
	case EpistemicMedicalFinding:
		return BucketMedical
	case EpistemicAdminAction:
		return BucketAdministrative
	case EpistemicQuote:
		return BucketQuoted
	case EpistemicConspiracyClaim:
		return BucketQuarantined
	default:
		return BucketQuarantined
	}
}

// IsLegalClaim reports whether the type is one of the four legal sub-types
func (t EpistemicType) IsLegalClaim() bool {
	switch t {
	case EpistemicLegalClaimDirect, EpistemicLegalClaimAdmin,
		EpistemicLegalClaimCausation, EpistemicLegalClaimAttorney:
		return true
	}
	return false
}

// Valid reports whether t is a member of the closed taxonomy
func (t EpistemicType) Valid() bool {
	switch t {
	case EpistemicConspiracyClaim, EpistemicLegalClaimDirect, EpistemicLegalClaimAdmin,
		EpistemicLegalClaimCausation, EpistemicLegalClaimAttorney, EpistemicMedicalFinding,
		EpistemicInterpretation, EpistemicSelfReport, EpistemicAdminAction,
		EpistemicDirectEvent, EpistemicQuote:
		return true
	}
	return false
}

// Polarity classifies how a statement asserts its content
type Polarity string

const (
	PolarityAsserted     Polarity = "asserted"
	PolarityDenied       Polarity = "denied"
	PolarityUncertain    Polarity = "uncertain"
	PolarityHypothetical Polarity = "hypothetical"
)

// EvidenceSource labels where a statement's backing comes from
type EvidenceSource string

const (
	EvidenceDirectObservation EvidenceSource = "direct_observation"
	EvidenceSelfReport        EvidenceSource = "self_report"
	EvidenceThirdParty        EvidenceSource = "third_party"
	EvidenceDocument          EvidenceSource = "document"
	EvidenceInference         EvidenceSource = "inference"
)

// ProvenanceStatus records how strongly a statement claims to be backed.
// Statements default to reported; verified is only assigned when the text
// itself asserts external confirmation, and the invariant layer quarantines
// a verified statement whose only backing source is the reporter.
type ProvenanceStatus string

const (
	ProvenanceReported ProvenanceStatus = "reported" // As told by the reporter
	ProvenanceVerified ProvenanceStatus = "verified" // Text asserts external confirmation
)

// StatementFlag marks a condition detected on a statement
type StatementFlag string

const (
	FlagFragment        StatementFlag = "fragment"         // Not a standalone sentence
	FlagActorUnresolved StatementFlag = "actor_unresolved" // Bare pronoun survived resolution
	FlagAberrated       StatementFlag = "aberrated"        // Quarantined, no text exposed
	FlagAttributed      StatementFlag = "attributed"       // Rephrased with attribution
	FlagQuoteSplit      StatementFlag = "quote_split"      // Split from a quote+interpretation compound
	FlagInterpretiveTail StatementFlag = "interpretive_tail" // Interpretive remainder of a split
)

// AtomicStatement is one predicate extracted from a segment.
// Epistemic fields are set once by the tagger and never mutated again;
// attribution attaches new derived text rather than rewriting Text.
type AtomicStatement struct {
	ID        string     `json:"id"`
	SegmentID string     `json:"segment_id"`
	Text      string     `json:"text"` // Verbatim clause text
	Start     int        `json:"start"`
	End       int        `json:"end"`
	Clause    ClauseType `json:"clause"`
	Connector string     `json:"connector,omitempty"` // Leading cc/mark word, stored separately
	Hint      TypeHint   `json:"hint"`
	Confidence float64   `json:"confidence"`

	// Epistemic bundle
	Source         StatementSource   `json:"source"`
	Epistemic      EpistemicType     `json:"epistemic_type"`
	Subtype        SelfReportSubtype `json:"subtype,omitempty"`
	Polarity       Polarity          `json:"polarity"`
	Evidence       EvidenceSource    `json:"evidence_source"`
	Provenance     ProvenanceStatus  `json:"provenance"`
	Flags          []StatementFlag   `json:"flags,omitempty"`
	DerivedFrom    []string          `json:"derived_from,omitempty"` // Provenance links, earlier ids only

	// Attribution output (never replaces Text)
	AttributedText    string `json:"attributed_text,omitempty"`
	ExtractedTerm     string `json:"extracted_term,omitempty"`
	ActorResolvedText string `json:"actor_resolved_text,omitempty"`
}

// HasFlag reports whether the statement carries the given flag
func (s *AtomicStatement) HasFlag(flag StatementFlag) bool {
	for _, f := range s.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// AddFlag attaches a flag if not already present
func (s *AtomicStatement) AddFlag(flag StatementFlag) {
	if !s.HasFlag(flag) {
		s.Flags = append(s.Flags, flag)
	}
}

// DisplayText returns the safest text for downstream consumers: the
// attributed paraphrase when present, otherwise the actor-resolved text,
// otherwise the verbatim clause. Aberrated statements expose nothing.
func (s *AtomicStatement) DisplayText() string {
	if s.HasFlag(FlagAberrated) {
		return ""
	}
	if s.AttributedText != "" {
		return s.AttributedText
	}
	if s.ActorResolvedText != "" {
		return s.ActorResolvedText
	}
	return s.Text
}
