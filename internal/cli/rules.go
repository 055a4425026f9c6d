package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pvoloshyn/veridian/internal/model"
	"github.com/pvoloshyn/veridian/internal/policy"
)

var rulesAsDomain bool

// rulesCmd groups ruleset management commands
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate policy rulesets",
}

// rulesValidateCmd checks a ruleset or domain file without running it
var rulesValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate a ruleset or domain profile YAML file",
	Long: `Validate parses the given YAML file and reports every structural
problem found: missing ids, unknown actions or match types, empty pattern
lists, and malformed reframe templates.

Example:
  veridian rules validate rules.yaml
  veridian rules validate profile.yaml --domain`,
	Args: cobra.ExactArgs(1),
	RunE: runRulesValidate,
}

// rulesShowCmd prints a loaded ruleset's effective rules in order
var rulesShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show a ruleset's effective rules in evaluation order",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesShow,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesShowCmd)

	rulesValidateCmd.Flags().BoolVar(&rulesAsDomain, "domain", false, "treat the file as a domain profile")
	rulesShowCmd.Flags().BoolVar(&rulesAsDomain, "domain", false, "treat the file as a domain profile")
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	_, err := loadRulesFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "INVALID %s\n  %v\n", path, err)
		return fmt.Errorf("validation failed")
	}
	fmt.Printf("OK %s\n", path)
	return nil
}

func runRulesShow(cmd *cobra.Command, args []string) error {
	rs, err := loadRulesFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Ruleset: %s (version %s)\n", rs.Name, rs.Version)
	if rs.Description != "" {
		fmt.Printf("%s\n", rs.Description)
	}
	fmt.Printf("\nRules (%d), priority-descending:\n", len(rs.Rules))
	for _, r := range rs.Rules {
		state := ""
		if !r.IsEnabled() {
			state = " [disabled]"
		}
		fmt.Printf("  %4d  %-30s %-10s %s%s\n", r.Priority, r.ID, r.Action, r.Match.Type, state)
	}
	if len(rs.Validation) > 0 {
		fmt.Printf("\nValidation checks: %d\n", len(rs.Validation))
	}
	return nil
}

func loadRulesFile(path string) (*model.Ruleset, error) {
	if rulesAsDomain {
		return policy.LoadDomain(path)
	}
	return policy.LoadRuleset(path)
}
