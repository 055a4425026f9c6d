package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pvoloshyn/veridian/internal/model"
)

const baseRulesYAML = `
version: "1"
name: base
rules:
  - id: remove-invective
    priority: 100
    action: remove
    match:
      type: keyword
      patterns: [pig]
  - id: flag-medical
    priority: 50
    action: flag
    match:
      type: keyword
      patterns: [concussion]
`

func TestLoadDomain_ExtendsAndAppends(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(baseRulesYAML), 0644); err != nil {
		t.Fatalf("write base: %v", err)
	}
	domainPath := filepath.Join(dir, "domain.yaml")
	domainYAML := `
name: police-misconduct
extends: base.yaml
transformations:
  - id: attribute-force
    priority: 80
    action: reframe
    reframe_template: "alleged {original}"
    match:
      type: phrase
      patterns: ["excessive force"]
`
	if err := os.WriteFile(domainPath, []byte(domainYAML), 0644); err != nil {
		t.Fatalf("write domain: %v", err)
	}

	rs, err := LoadDomain(domainPath)
	if err != nil {
		t.Fatalf("LoadDomain: %v", err)
	}
	if rs.Name != "police-misconduct" {
		t.Errorf("domain name should win, got %q", rs.Name)
	}
	if len(rs.Rules) != 3 {
		t.Fatalf("expected base rules plus domain rule, got %d", len(rs.Rules))
	}
	if rs.Rules[2].ID != "attribute-force" {
		t.Errorf("domain rule should append after base rules, got %q", rs.Rules[2].ID)
	}
}

func TestLoadDomain_SameIDReplacesInPlace(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(baseRulesYAML), 0644); err != nil {
		t.Fatalf("write base: %v", err)
	}
	domainPath := filepath.Join(dir, "domain.yaml")
	domainYAML := `
name: stricter
extends: base.yaml
transformations:
  - id: flag-medical
    priority: 90
    action: remove
    match:
      type: keyword
      patterns: [concussion, fracture]
`
	if err := os.WriteFile(domainPath, []byte(domainYAML), 0644); err != nil {
		t.Fatalf("write domain: %v", err)
	}

	rs, err := LoadDomain(domainPath)
	if err != nil {
		t.Fatalf("LoadDomain: %v", err)
	}
	if len(rs.Rules) != 2 {
		t.Fatalf("override should not grow the rule list, got %d", len(rs.Rules))
	}
	if rs.Rules[1].Action != model.ActionRemove || rs.Rules[1].Priority != 90 {
		t.Errorf("base rule not replaced: %+v", rs.Rules[1])
	}
}

func TestLoadDomain_WithoutExtends(t *testing.T) {
	path := writeTempYAML(t, "standalone.yaml", `
name: standalone
transformations:
  - id: only-rule
    priority: 10
    action: preserve
    match:
      type: quoted
`)

	rs, err := LoadDomain(path)
	if err != nil {
		t.Fatalf("LoadDomain: %v", err)
	}
	if len(rs.Rules) != 1 || rs.Rules[0].ID != "only-rule" {
		t.Errorf("unexpected rules: %+v", rs.Rules)
	}
	if rs.Version == "" {
		t.Error("standalone domain should get a default version")
	}
}

func TestLoadDomain_BrokenExtends(t *testing.T) {
	path := writeTempYAML(t, "domain.yaml", `
name: broken
extends: missing.yaml
`)

	if _, err := LoadDomain(path); err == nil {
		t.Fatal("expected error for missing base ruleset")
	}
}
