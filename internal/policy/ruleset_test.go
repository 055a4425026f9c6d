package policy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pvoloshyn/veridian/internal/model"
)

func writeTempYAML(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestValidateRuleset_ReportsEveryProblem(t *testing.T) {
	rs := &model.Ruleset{
		Rules: []model.PolicyRule{
			{
				// Missing id, unknown action, unknown match type, no patterns
				Action: "explode",
				Match:  model.MatchSpec{Type: "fuzzy"},
			},
			{
				ID:     "dup",
				Action: model.ActionReplace, // Missing replacement
				Match:  model.MatchSpec{Type: model.MatchKeyword, Patterns: []string{"x"}},
			},
			{
				ID:     "dup",
				Action: model.ActionReframe, // Template without {original}
				Match:  model.MatchSpec{Type: model.MatchKeyword, Patterns: []string{"y"}},
			},
		},
		Validation: []model.ValidationCheck{
			{Type: "nonsense"},
		},
	}

	errs := ValidateRuleset(rs)
	joined := strings.Join(errs, "\n")
	for _, want := range []string{
		"missing name",
		"missing version",
		"missing id",
		"duplicate id",
		`unknown action "explode"`,
		`unknown match type "fuzzy"`,
		"no patterns",
		"replace action without replacement",
		"reframe template must contain {original}",
		`unknown type "nonsense"`,
		"no terms",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected error containing %q, got:\n%s", want, joined)
		}
	}
}

func TestValidateRuleset_QuotedNeedsNoPatterns(t *testing.T) {
	rs := &model.Ruleset{
		Name: "ok", Version: "1",
		Rules: []model.PolicyRule{
			{
				ID:     "quotes",
				Action: model.ActionPreserve,
				Match:  model.MatchSpec{Type: model.MatchQuoted},
			},
		},
	}
	if errs := ValidateRuleset(rs); len(errs) != 0 {
		t.Errorf("expected valid ruleset, got %v", errs)
	}
}

func TestLoadRuleset_RoundTrip(t *testing.T) {
	path := writeTempYAML(t, "rules.yaml", `
version: "1"
name: civilian-complaints
description: Baseline neutralization rules
settings:
  always_diagnose: true
rules:
  - id: remove-invective
    priority: 100
    action: remove
    match:
      type: keyword
      patterns: [pig, thug]
  - id: attribute-force
    priority: 80
    action: reframe
    reframe_template: "reporter characterizes this as {original}"
    match:
      type: phrase
      patterns: ["excessive force"]
`)

	rs, err := LoadRuleset(path)
	if err != nil {
		t.Fatalf("LoadRuleset: %v", err)
	}
	if rs.Name != "civilian-complaints" {
		t.Errorf("unexpected name %q", rs.Name)
	}
	if len(rs.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rs.Rules))
	}
	if !rs.Settings.AlwaysDiagnose {
		t.Error("settings not parsed")
	}
	if rs.Rules[0].Match.Patterns[1] != "thug" {
		t.Errorf("patterns not parsed: %v", rs.Rules[0].Match.Patterns)
	}
}

func TestLoadRuleset_InvalidFileFails(t *testing.T) {
	path := writeTempYAML(t, "bad.yaml", `
version: "1"
name: broken
rules:
  - id: r1
    action: replace
    match:
      type: keyword
      patterns: [x]
`)

	if _, err := LoadRuleset(path); err == nil {
		t.Fatal("expected validation error for replace without replacement")
	}
}

func TestLoadRuleset_MissingFile(t *testing.T) {
	if _, err := LoadRuleset(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRunValidation_ForbiddenTerms(t *testing.T) {
	rs := &model.Ruleset{
		Validation: []model.ValidationCheck{
			{Type: "forbidden_terms", Terms: []string{"thug", "pig"}},
		},
	}

	diags := RunValidation(rs, "The officer, described as a THUG, approached.")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Code != model.CodeValidationFailed {
		t.Errorf("unexpected code %s", diags[0].Code)
	}

	if diags := RunValidation(rs, "The officer approached."); len(diags) != 0 {
		t.Errorf("clean output should pass, got %d diagnostics", len(diags))
	}
}

func TestRunValidation_RequiredSubset(t *testing.T) {
	rs := &model.Ruleset{
		Validation: []model.ValidationCheck{
			{Type: "required_subset", Terms: []string{"the", "officer", "stopped", "me"}},
		},
	}

	if diags := RunValidation(rs, "The officer stopped me."); len(diags) != 0 {
		t.Errorf("in-subset output should pass, got %v", diags)
	}
	if diags := RunValidation(rs, "The officer tackled me."); len(diags) != 1 {
		t.Errorf("out-of-subset word should fail once, got %d", len(diags))
	}
}
