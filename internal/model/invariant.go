package model

// Severity grades an invariant's consequence on failure
type Severity string

const (
	SeverityHard Severity = "HARD" // Failure quarantines the content
	SeveritySoft Severity = "SOFT" // Failure renders with a warning
	SeverityInfo Severity = "INFO" // Failure is logged only
)

// InvariantResult is the outcome of checking one invariant against one item
type InvariantResult struct {
	InvariantID string   `json:"invariant_id"`
	ContentID   string   `json:"content_id"`
	Passed      bool     `json:"passed"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message,omitempty"`
}

// QuarantineItem bundles content that failed a HARD invariant, with all
// failure messages, under the invariant's designated bucket. Quarantined
// content never appears in a main rendered section.
type QuarantineItem struct {
	Bucket      string   `json:"bucket"`
	ContentID   string   `json:"content_id"`
	ContentKind string   `json:"content_kind"` // "event", "quote", "statement"
	Preview     string   `json:"preview"`      // Human preview, never raw aberrated text
	Failures    []string `json:"failures"`     // Every failure message, not just the first
}
