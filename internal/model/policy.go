package model

// MatchType selects how a policy rule's patterns are matched
type MatchType string

const (
	MatchKeyword   MatchType = "keyword"    // Word-boundary match
	MatchPhrase    MatchType = "phrase"     // Literal substring
	MatchRegex     MatchType = "regex"      // User-supplied regular expression
	MatchQuoted    MatchType = "quoted"     // Inside quoted spans
	MatchSpanLabel MatchType = "span_label" // Matches segments carrying a context label
)

// RuleAction is what a matched rule does to the text
type RuleAction string

const (
	ActionRemove   RuleAction = "remove"   // Delete the matched span
	ActionReplace  RuleAction = "replace"  // Substitute the configured literal
	ActionReframe  RuleAction = "reframe"  // Template with {original} substitution
	ActionFlag     RuleAction = "flag"     // Record only, no text change
	ActionRefuse   RuleAction = "refuse"   // Halt the whole transformation
	ActionPreserve RuleAction = "preserve" // Explicitly keep, no text change
)

// MatchSpec describes what a rule matches
type MatchSpec struct {
	Type          MatchType `yaml:"type" json:"type"`
	Patterns      []string  `yaml:"patterns" json:"patterns"`
	Context       []string  `yaml:"context,omitempty" json:"context,omitempty"` // Words required within ±50 chars
	CaseSensitive bool      `yaml:"case_sensitive,omitempty" json:"case_sensitive,omitempty"`
}

// RuleCondition gates rule applicability by segment context labels
type RuleCondition struct {
	ContextIncludes []string `yaml:"context_includes,omitempty" json:"context_includes,omitempty"` // All must be present
	ContextExcludes []string `yaml:"context_excludes,omitempty" json:"context_excludes,omitempty"` // None may be present
}

// RuleDiagnostic is emitted when a rule matches and always_diagnose is set
type RuleDiagnostic struct {
	Level   string `yaml:"level,omitempty" json:"level,omitempty"`
	Code    string `yaml:"code,omitempty" json:"code,omitempty"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// PolicyRule is one deterministic text-transformation rule.
// Rules evaluate in priority-descending order; within one priority,
// matches apply in position-ascending order.
type PolicyRule struct {
	ID              string         `yaml:"id" json:"id"`
	Category        string         `yaml:"category,omitempty" json:"category,omitempty"`
	Priority        int            `yaml:"priority" json:"priority"`
	Description     string         `yaml:"description,omitempty" json:"description,omitempty"`
	Match           MatchSpec      `yaml:"match" json:"match"`
	Condition       RuleCondition  `yaml:"condition,omitempty" json:"condition,omitempty"`
	Action          RuleAction     `yaml:"action" json:"action"`
	Replacement     string         `yaml:"replacement,omitempty" json:"replacement,omitempty"`
	ReframeTemplate string         `yaml:"reframe_template,omitempty" json:"reframe_template,omitempty"`
	Diagnostic      RuleDiagnostic `yaml:"diagnostic,omitempty" json:"diagnostic,omitempty"`
	Enabled         *bool          `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// IsEnabled reports whether the rule is active (enabled unless set to false)
func (r *PolicyRule) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// RulesetSettings are ruleset-wide knobs
type RulesetSettings struct {
	MinConfidence  float64 `yaml:"min_confidence,omitempty" json:"min_confidence,omitempty"`
	AlwaysDiagnose bool    `yaml:"always_diagnose,omitempty" json:"always_diagnose,omitempty"`
	AllowOverride  bool    `yaml:"allow_override,omitempty" json:"allow_override,omitempty"`
}

// ValidationCheck is a post-hoc check run against rendered output
type ValidationCheck struct {
	ID      string   `yaml:"id,omitempty" json:"id,omitempty"`
	Type    string   `yaml:"type" json:"type"` // "forbidden_terms" or "required_subset"
	Terms   []string `yaml:"terms" json:"terms"`
	Message string   `yaml:"message,omitempty" json:"message,omitempty"`
}

// Ruleset is a parsed policy ruleset file
type Ruleset struct {
	Version     string            `yaml:"version" json:"version"`
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Settings    RulesetSettings   `yaml:"settings,omitempty" json:"settings,omitempty"`
	Rules       []PolicyRule      `yaml:"rules" json:"rules"`
	Validation  []ValidationCheck `yaml:"validation,omitempty" json:"validation,omitempty"`
}

// PolicyDecision is an immutable record of one rule's match outcome
type PolicyDecision struct {
	RuleID      string     `json:"rule_id"`
	Action      RuleAction `json:"action"`
	Reason      string     `json:"reason"`
	AffectedIDs []string   `json:"affected_ids,omitempty"`
}
