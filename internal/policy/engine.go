package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pvoloshyn/veridian/internal/model"
)

// Engine applies a compiled ruleset to segments. The verbatim segment text
// is never mutated; transformations build each segment's NeutralText with a
// full transform trail.
type Engine struct {
	ruleset *model.Ruleset
	rules   []compiledRule
}

type compiledRule struct {
	rule    *model.PolicyRule
	matcher *matcher
}

// Outcome is the result of one engine run over all segments
type Outcome struct {
	Refused     bool
	RefusalRule string
	Decisions   []model.PolicyDecision
	Diagnostics []model.Diagnostic
}

// NewEngine compiles the ruleset's enabled rules, priority-descending.
// Rules at equal priority keep their file order.
func NewEngine(rs *model.Ruleset) *Engine {
	e := &Engine{ruleset: rs}
	for i := range rs.Rules {
		r := &rs.Rules[i]
		if !r.IsEnabled() {
			continue
		}
		e.rules = append(e.rules, compiledRule{rule: r, matcher: compileMatcher(r.Match)})
	}
	sort.SliceStable(e.rules, func(i, j int) bool {
		return e.rules[i].rule.Priority > e.rules[j].rule.Priority
	})
	return e
}

// Apply runs every rule over every segment. A refuse-action match stops the
// run immediately; the caller is responsible for discarding partial output.
func (e *Engine) Apply(segments []model.Segment) Outcome {
	var out Outcome
	for i := range segments {
		seg := &segments[i]
		if seg.NeutralText == "" {
			seg.NeutralText = seg.Text
		}
		claimed := make([]matchSpan, 0, 4)

		for _, cr := range e.rules {
			if !conditionHolds(cr.rule.Condition, seg) {
				continue
			}
			spans := e.findRuleSpans(cr, seg)
			// First match wins: a span claimed by a higher-priority rule
			// is off limits
			spans = dropOverlapping(spans, claimed)
			if len(spans) == 0 {
				continue
			}

			if cr.rule.Action == model.ActionRefuse {
				out.Refused = true
				out.RefusalRule = cr.rule.ID
				out.Decisions = append(out.Decisions, model.PolicyDecision{
					RuleID:      cr.rule.ID,
					Action:      model.ActionRefuse,
					Reason:      cr.rule.Description,
					AffectedIDs: []string{seg.ID},
				})
				return out
			}

			e.applyRule(cr, seg, spans, &out)
			claimed = append(claimed, spans...)
		}
	}
	return out
}

// findRuleSpans locates the rule's matches in the segment's working text.
// Span-label rules claim the entire segment.
func (e *Engine) findRuleSpans(cr compiledRule, seg *model.Segment) []matchSpan {
	if cr.rule.Match.Type == model.MatchSpanLabel {
		for _, p := range cr.rule.Match.Patterns {
			if seg.HasLabel(model.ContextLabel(p)) {
				return []matchSpan{{0, len(seg.NeutralText), seg.NeutralText}}
			}
		}
		return nil
	}
	return cr.matcher.find(seg.NeutralText)
}

// applyRule rewrites the matched spans right to left and records the trail
func (e *Engine) applyRule(cr compiledRule, seg *model.Segment, spans []matchSpan, out *Outcome) {
	rule := cr.rule
	var affected []string

	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		replacement, changed := renderAction(rule, s.text)
		if changed {
			seg.NeutralText = seg.NeutralText[:s.start] + replacement + seg.NeutralText[s.end:]
		}
		seg.Transforms = append(seg.Transforms, model.TransformRecord{
			Original:    s.text,
			Replacement: replacement,
			Reason:      string(rule.Action),
			RuleID:      rule.ID,
			Start:       s.start,
			End:         s.end,
		})
		affected = append(affected, seg.ID)
	}

	if rule.Action == model.ActionRemove {
		seg.NeutralText = collapseSpaces(seg.NeutralText)
	}

	out.Decisions = append(out.Decisions, model.PolicyDecision{
		RuleID:      rule.ID,
		Action:      rule.Action,
		Reason:      rule.Description,
		AffectedIDs: dedupe(affected),
	})

	if e.ruleset.Settings.AlwaysDiagnose || rule.Diagnostic.Message != "" {
		out.Diagnostics = append(out.Diagnostics, model.Diagnostic{
			Level:       diagLevel(rule.Diagnostic.Level),
			Code:        diagCode(rule.Diagnostic.Code),
			Message:     diagMessage(rule, len(spans)),
			Pass:        "policy",
			AffectedIDs: []string{seg.ID},
		})
	}
}

// renderAction computes the replacement text for one matched span
func renderAction(rule *model.PolicyRule, matched string) (string, bool) {
	switch rule.Action {
	case model.ActionRemove:
		return "", true
	case model.ActionReplace:
		return rule.Replacement, true
	case model.ActionReframe:
		return strings.ReplaceAll(rule.ReframeTemplate, "{original}", matched), true
	default: // flag, preserve
		return matched, false
	}
}

func conditionHolds(c model.RuleCondition, seg *model.Segment) bool {
	for _, inc := range c.ContextIncludes {
		if !seg.HasLabel(model.ContextLabel(inc)) {
			return false
		}
	}
	for _, exc := range c.ContextExcludes {
		if seg.HasLabel(model.ContextLabel(exc)) {
			return false
		}
	}
	return true
}

func dropOverlapping(spans, claimed []matchSpan) []matchSpan {
	if len(claimed) == 0 {
		return spans
	}
	kept := spans[:0]
	for _, s := range spans {
		overlaps := false
		for _, c := range claimed {
			if s.start < c.end && c.start < s.end {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, s)
		}
	}
	return kept
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func diagLevel(level string) model.DiagLevel {
	switch level {
	case "error":
		return model.DiagError
	case "warning":
		return model.DiagWarning
	default:
		return model.DiagInfo
	}
}

func diagCode(code string) string {
	if code != "" {
		return code
	}
	return model.CodeRuleMatched
}

func diagMessage(rule *model.PolicyRule, count int) string {
	if rule.Diagnostic.Message != "" {
		return rule.Diagnostic.Message
	}
	return fmt.Sprintf("rule %s matched %d span(s)", rule.ID, count)
}
