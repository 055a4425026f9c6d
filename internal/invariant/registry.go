// Package invariant checks structural invariants over the extracted IR and
// quarantines content that fails a HARD check. Every registered invariant
// runs against every applicable item; quarantine items collect all failure
// messages, not just the first.
package invariant

import (
	"github.com/pvoloshyn/veridian/internal/model"
)

// Check is one registered invariant
type Check struct {
	ID       string
	Severity model.Severity
	Bucket   string // Quarantine bucket for HARD failures
	Kind     string // Content kind it applies to: "event", "quote", "statement"
	Run      func(in *Input) []model.InvariantResult
}

// Input is everything the checks may read. Checks never mutate it.
type Input struct {
	Segments   []model.Segment
	Statements []model.AtomicStatement
	Entities   []model.Entity
	Events     []model.Event
	SpeechActs []model.SpeechAct
}

// Engine holds the registered checks in a fixed order
type Engine struct {
	checks []Check
}

// NewEngine registers the standard invariant set
func NewEngine() *Engine {
	return &Engine{checks: standardChecks()}
}

// Register appends a custom check after the standard set
func (e *Engine) Register(c Check) {
	e.checks = append(e.checks, c)
}

// Run evaluates every check and returns all results plus the quarantine
// list built from HARD failures. An item failing several HARD checks yields
// one quarantine entry carrying every message.
func (e *Engine) Run(in *Input) ([]model.InvariantResult, []model.QuarantineItem) {
	var results []model.InvariantResult
	for _, c := range e.checks {
		for _, r := range c.Run(in) {
			r.InvariantID = c.ID
			r.Severity = c.Severity
			results = append(results, r)
		}
	}
	return results, quarantineFrom(results, e.checks, in)
}

// quarantineFrom groups HARD failures by content id
func quarantineFrom(results []model.InvariantResult, checks []Check, in *Input) []model.QuarantineItem {
	meta := make(map[string]Check, len(checks))
	for _, c := range checks {
		meta[c.ID] = c
	}

	byContent := make(map[string]*model.QuarantineItem)
	var order []string
	for _, r := range results {
		if r.Passed || r.Severity != model.SeverityHard {
			continue
		}
		item, ok := byContent[r.ContentID]
		if !ok {
			c := meta[r.InvariantID]
			item = &model.QuarantineItem{
				Bucket:      c.Bucket,
				ContentID:   r.ContentID,
				ContentKind: c.Kind,
				Preview:     previewOf(r.ContentID, c.Kind, in),
			}
			byContent[r.ContentID] = item
			order = append(order, r.ContentID)
		}
		item.Failures = append(item.Failures, r.Message)
	}

	out := make([]model.QuarantineItem, 0, len(order))
	for _, id := range order {
		out = append(out, *byContent[id])
	}
	return out
}

// previewOf builds a short human preview. Aberrated statements never leak
// their raw text.
func previewOf(id, kind string, in *Input) string {
	const maxPreview = 80
	clip := func(s string) string {
		if len(s) > maxPreview {
			return s[:maxPreview] + "..."
		}
		return s
	}
	switch kind {
	case "event":
		for _, ev := range in.Events {
			if ev.ID == id {
				return clip(ev.Description)
			}
		}
	case "quote":
		for _, sa := range in.SpeechActs {
			if sa.ID == id {
				return clip(sa.Quote)
			}
		}
	case "statement":
		for i := range in.Statements {
			if in.Statements[i].ID == id {
				return clip(in.Statements[i].DisplayText())
			}
		}
	}
	return ""
}
