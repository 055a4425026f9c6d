package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pvoloshyn/veridian/internal/model"
)

var validActions = map[model.RuleAction]bool{
	model.ActionRemove: true, model.ActionReplace: true, model.ActionReframe: true,
	model.ActionFlag: true, model.ActionRefuse: true, model.ActionPreserve: true,
}

var validMatchTypes = map[model.MatchType]bool{
	model.MatchKeyword: true, model.MatchPhrase: true, model.MatchRegex: true,
	model.MatchQuoted: true, model.MatchSpanLabel: true,
}

// LoadRuleset parses and validates a YAML ruleset file
func LoadRuleset(path string) (*model.Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}
	var rs model.Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parse ruleset %s: %w", filepath.Base(path), err)
	}
	if errs := ValidateRuleset(&rs); len(errs) > 0 {
		return nil, fmt.Errorf("invalid ruleset %s: %s", filepath.Base(path), strings.Join(errs, "; "))
	}
	return &rs, nil
}

// ValidateRuleset checks structural validity and returns every problem
// found, not just the first
func ValidateRuleset(rs *model.Ruleset) []string {
	var errs []string
	if rs.Name == "" {
		errs = append(errs, "missing name")
	}
	if rs.Version == "" {
		errs = append(errs, "missing version")
	}
	seen := make(map[string]bool, len(rs.Rules))
	for i := range rs.Rules {
		r := &rs.Rules[i]
		prefix := fmt.Sprintf("rule %q", r.ID)
		if r.ID == "" {
			prefix = fmt.Sprintf("rule #%d", i+1)
			errs = append(errs, prefix+": missing id")
		} else if seen[r.ID] {
			errs = append(errs, prefix+": duplicate id")
		}
		seen[r.ID] = true

		if !validActions[r.Action] {
			errs = append(errs, fmt.Sprintf("%s: unknown action %q", prefix, r.Action))
		}
		if !validMatchTypes[r.Match.Type] {
			errs = append(errs, fmt.Sprintf("%s: unknown match type %q", prefix, r.Match.Type))
		}
		if len(r.Match.Patterns) == 0 && r.Match.Type != model.MatchQuoted {
			errs = append(errs, prefix+": no patterns")
		}
		if r.Action == model.ActionReplace && r.Replacement == "" {
			errs = append(errs, prefix+": replace action without replacement")
		}
		if r.Action == model.ActionReframe && !strings.Contains(r.ReframeTemplate, "{original}") {
			errs = append(errs, prefix+": reframe template must contain {original}")
		}
	}
	for i, v := range rs.Validation {
		if v.Type != "forbidden_terms" && v.Type != "required_subset" {
			errs = append(errs, fmt.Sprintf("validation #%d: unknown type %q", i+1, v.Type))
		}
		if len(v.Terms) == 0 {
			errs = append(errs, fmt.Sprintf("validation #%d: no terms", i+1))
		}
	}
	return errs
}

// RunValidation executes the ruleset's post-hoc checks against rendered
// output. forbidden_terms fails when any term survives; required_subset
// fails when output words are not all drawn from the term set.
func RunValidation(rs *model.Ruleset, rendered string) []model.Diagnostic {
	lower := strings.ToLower(rendered)
	var diags []model.Diagnostic
	for _, check := range rs.Validation {
		switch check.Type {
		case "forbidden_terms":
			for _, term := range check.Terms {
				if strings.Contains(lower, strings.ToLower(term)) {
					diags = append(diags, model.Diagnostic{
						Level:   model.DiagError,
						Code:    model.CodeValidationFailed,
						Message: failMessage(check, fmt.Sprintf("forbidden term %q present in output", term)),
						Pass:    "policy",
					})
				}
			}
		case "required_subset":
			allowed := make(map[string]bool, len(check.Terms))
			for _, t := range check.Terms {
				allowed[strings.ToLower(t)] = true
			}
			for _, word := range strings.Fields(lower) {
				if !allowed[strings.Trim(word, `.,!?:;"'()`)] {
					diags = append(diags, model.Diagnostic{
						Level:   model.DiagError,
						Code:    model.CodeValidationFailed,
						Message: failMessage(check, fmt.Sprintf("word %q outside required subset", word)),
						Pass:    "policy",
					})
					break
				}
			}
		}
	}
	return diags
}

func failMessage(check model.ValidationCheck, fallback string) string {
	if check.Message != "" {
		return check.Message
	}
	return fallback
}
