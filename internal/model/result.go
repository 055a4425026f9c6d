package model

import "time"

// Status is the overall outcome of a transformation
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial" // Completed but failed packaging validation
	StatusRefused Status = "refused" // A policy rule with action=refuse matched
	StatusError   Status = "error"   // A pass failed; later passes did not run
)

// DiagLevel grades a diagnostic
type DiagLevel string

const (
	DiagError   DiagLevel = "error"
	DiagWarning DiagLevel = "warning"
	DiagInfo    DiagLevel = "info"
)

// Diagnostic codes emitted by the pipeline
const (
	CodePassError        = "PASS_ERROR"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodePolicyRefusal    = "POLICY_REFUSAL"
	CodeRuleMatched      = "RULE_MATCHED"
)

// Diagnostic is one machine-readable note about a transformation
type Diagnostic struct {
	Level       DiagLevel `json:"level"`
	Code        string    `json:"code"`
	Message     string    `json:"message"`
	Pass        string    `json:"pass,omitempty"` // Source pass name
	AffectedIDs []string  `json:"affected_ids,omitempty"`
}

// TransformRequest is the input contract for one transformation
type TransformRequest struct {
	RequestID string            `json:"request_id,omitempty"`
	Text      string            `json:"text"`
	SourceURL string            `json:"source_url,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Exclusion records why an atom was routed out of a section
type Exclusion struct {
	ID      string `json:"id"`
	Section string `json:"section"`
	Reason  string `json:"reason"`
}

// Selection section names. Quarantine buckets render separately.
const (
	SectionObservedEvents   = "observed_events"
	SectionReported         = "reported_statements"
	SectionInterpretations  = "interpretations"
	SectionLegalClaims      = "legal_claims"
	SectionMedical          = "medical"
	SectionAdministrative   = "administrative"
	SectionQuotes           = "quotes"
	SectionTimeline         = "timeline"
	SectionEntities         = "entities"
	SectionOpenQuestions    = "open_questions"
)

// SelectionMode controls how strictly content routes to primary sections
type SelectionMode string

const (
	ModeStrict SelectionMode = "strict" // Only invariant-clean, camera-friendly content
	ModeFull   SelectionMode = "full"   // Everything, with classification metadata
)

// SelectionResult is pure routing output: per-section ordered atom id lists
// plus reason-tagged exclusions. It holds no independent state and never
// copies or mutates atoms.
type SelectionResult struct {
	Mode       SelectionMode       `json:"mode"`
	Sections   map[string][]string `json:"sections"`
	Exclusions []Exclusion         `json:"exclusions,omitempty"`
}

// TransformResult is the complete output contract of one transformation
type TransformResult struct {
	RequestID string    `json:"request_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	Segments      []Segment              `json:"segments"`
	Statements    []AtomicStatement      `json:"statements"`
	Entities      []Entity               `json:"entities"`
	Mentions      []Mention              `json:"mentions,omitempty"`
	Chains        []CoreferenceChain     `json:"chains,omitempty"`
	Uncertainties []UncertaintyMarker    `json:"uncertainty_markers,omitempty"`
	Events        []Event                `json:"events"`
	SpeechActs    []SpeechAct            `json:"speech_acts,omitempty"`
	Expressions   []TemporalExpression   `json:"temporal_expressions,omitempty"`
	Relationships []TemporalRelationship `json:"temporal_relationships,omitempty"`
	Timeline      []TimelineEntry        `json:"timeline,omitempty"`
	Gaps          []TimeGap              `json:"time_gaps,omitempty"`
	Decisions     []PolicyDecision       `json:"policy_decisions,omitempty"`
	Quarantine    []QuarantineItem       `json:"quarantine,omitempty"`
	Selection     SelectionResult        `json:"selection"`
	Diagnostics   []Diagnostic           `json:"diagnostics,omitempty"`
	Trace         []string               `json:"trace,omitempty"` // Ordered pass log
	Quality       Quality                `json:"quality"`
	RenderedText  string                 `json:"rendered_text,omitempty"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional, never affects the IR
}

// LLMSummary is an optional plain-language summary of the rendered report.
// It is generated after selection and never feeds back into the IR.
type LLMSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
