package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pvoloshyn/veridian/internal/logging"
	"github.com/pvoloshyn/veridian/internal/model"
	"github.com/pvoloshyn/veridian/internal/pipeline"
	"github.com/pvoloshyn/veridian/internal/report"
)

func newRenderer(cfg *model.Config) *report.Renderer {
	return report.NewRenderer(cfg.Output.IncludeFooter)
}

var (
	outJSON     string
	outMD       string
	rulesetPath string
	domainPath  string
	mode        string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	noRobots    bool
	insecureTLS bool
	httpProxy   string
	httpsProxy  string
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// transformCmd represents the transform command
var transformCmd = &cobra.Command{
	Use:   "transform <file|url|->",
	Short: "Transform one narrative into a structured neutral report",
	Long: `Transform reads a first-person narrative from a file, a URL, or stdin
and produces a structured report:
- Sentence segmentation with quote integrity
- Clause-level epistemic classification
- Entity, actor, and coreference resolution
- Event extraction with timeline and gap detection
- Deterministic policy transformation with a full audit trail

Example:
  veridian transform complaint.txt
  veridian transform complaint.txt --ruleset rules.yaml --md report.md
  veridian transform https://example.org/statement.html --mode full
  cat narrative.txt | veridian transform -`,
	Args: cobra.ExactArgs(1),
	RunE: runTransform,
}

func init() {
	rootCmd.AddCommand(transformCmd)

	// Output flags
	transformCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	transformCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	transformCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Policy flags
	transformCmd.Flags().StringVar(&rulesetPath, "ruleset", "", "policy ruleset YAML path")
	transformCmd.Flags().StringVar(&domainPath, "domain", "", "domain profile YAML path (overrides --ruleset)")
	transformCmd.Flags().StringVar(&mode, "mode", "strict", "selection mode (strict, full)")

	// HTTP flags (URL sources)
	transformCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall transform timeout")
	transformCmd.Flags().StringVar(&userAgent, "ua", "Veridian/0.2 (+https://github.com/pvoloshyn/veridian)", "HTTP User-Agent")
	transformCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	transformCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable ruleset caching")
	transformCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	transformCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")
	transformCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	transformCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// LLM flags
	transformCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	transformCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	transformCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runTransform(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	log, err := logging.New(verbose)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	p := pipeline.NewPipeline(cfg, log)

	var result *model.TransformResult
	switch {
	case source == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		result = p.Transform(ctx, &model.TransformRequest{Text: string(data)})

	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		result, err = p.TransformURL(ctx, source)
		if err != nil {
			return fmt.Errorf("transform failed: %w", err)
		}

	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		result = p.Transform(ctx, &model.TransformRequest{Text: string(data)})
	}

	return writeOutputs(cfg, result)
}

// buildConfig assembles the configuration from flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.HTTP.RespectRobots = !noRobots
	cfg.Cache.Enabled = !noCache
	cfg.Policy.RulesetPath = rulesetPath
	cfg.Policy.DomainPath = domainPath
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	switch model.SelectionMode(mode) {
	case model.ModeStrict, model.ModeFull:
		cfg.Selection.Mode = model.SelectionMode(mode)
	default:
		return nil, fmt.Errorf("unknown mode %q (strict, full)", mode)
	}

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}
	return cfg, nil
}

// writeOutputs renders the result per the output configuration
func writeOutputs(cfg *model.Config, result *model.TransformResult) error {
	renderer := newRenderer(cfg)

	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(result)

	if result.Status == model.StatusRefused {
		return fmt.Errorf("transformation refused by policy")
	}
	if result.Status == model.StatusError {
		return fmt.Errorf("transformation failed (see diagnostics in output)")
	}
	return nil
}
