package policy

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pvoloshyn/veridian/internal/model"
)

// DomainConfig is a higher-level domain profile that compiles down to a
// ruleset. A domain may extend a base ruleset file; its own transformations
// append after the base's rules.
type DomainConfig struct {
	Name            string            `yaml:"name"`
	Description     string            `yaml:"description,omitempty"`
	Extends         string            `yaml:"extends,omitempty"` // Base ruleset path, relative to this file
	Settings        *model.RulesetSettings `yaml:"settings,omitempty"`
	Transformations []model.PolicyRule     `yaml:"transformations,omitempty"`
	Validation      []model.ValidationCheck `yaml:"validation,omitempty"`
}

// LoadDomain reads a domain profile and resolves its extends chain into one
// flat ruleset. Each transformation becomes one policy rule unchanged.
func LoadDomain(path string) (*model.Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read domain: %w", err)
	}
	var dc DomainConfig
	if err := yaml.Unmarshal(data, &dc); err != nil {
		return nil, fmt.Errorf("parse domain %s: %w", filepath.Base(path), err)
	}

	base := &model.Ruleset{Version: "1", Name: dc.Name, Description: dc.Description}
	if dc.Extends != "" {
		resolved := dc.Extends
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(filepath.Dir(path), resolved)
		}
		base, err = LoadRuleset(resolved)
		if err != nil {
			return nil, fmt.Errorf("extends %s: %w", dc.Extends, err)
		}
		base.Name = dc.Name
		if dc.Description != "" {
			base.Description = dc.Description
		}
	}

	merged := mergeDomain(base, &dc)
	if errs := ValidateRuleset(merged); len(errs) > 0 {
		return nil, fmt.Errorf("invalid domain %s: %v", filepath.Base(path), errs)
	}
	return merged, nil
}

// mergeDomain appends domain rules after the base's and lets the domain
// override settings. A domain rule sharing an id with a base rule replaces
// it in place.
func mergeDomain(base *model.Ruleset, dc *DomainConfig) *model.Ruleset {
	out := *base
	out.Rules = append([]model.PolicyRule(nil), base.Rules...)

	index := make(map[string]int, len(out.Rules))
	for i, r := range out.Rules {
		index[r.ID] = i
	}
	for _, r := range dc.Transformations {
		if i, ok := index[r.ID]; ok {
			out.Rules[i] = r
			continue
		}
		out.Rules = append(out.Rules, r)
	}

	if dc.Settings != nil {
		out.Settings = *dc.Settings
	}
	out.Validation = append(out.Validation, dc.Validation...)
	return &out
}
