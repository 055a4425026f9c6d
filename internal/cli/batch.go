package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pvoloshyn/veridian/internal/logging"
	"github.com/pvoloshyn/veridian/internal/pipeline"
	"github.com/pvoloshyn/veridian/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Transform multiple narratives from a list file in parallel",
	Long: `Batch reads sources from a list file (one per line, files or URLs) and
transforms them concurrently with a configurable worker count. URL fetches
are rate limited per domain.

Example:
  veridian batch sources.txt
  veridian batch sources.txt --concurrency 8 --output-dir ./reports
  veridian batch sources.txt --ruleset rules.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./veridian-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().StringVar(&rulesetPath, "ruleset", "", "policy ruleset YAML path")
	batchCmd.Flags().StringVar(&domainPath, "domain", "", "domain profile YAML path (overrides --ruleset)")
	batchCmd.Flags().StringVar(&mode, "mode", "strict", "selection mode (strict, full)")
	batchCmd.Flags().StringVar(&userAgent, "ua", "Veridian/0.2 (+https://github.com/pvoloshyn/veridian)", "HTTP User-Agent")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable ruleset caching")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	listFile := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	timeout = batchTimeout
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency

	log, err := logging.New(verbose)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg, log)
	limiter := worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst)
	processor := worker.NewBatchProcessor(p, limiter, concurrency)

	fmt.Fprintf(os.Stderr, "Processing %s with %d workers\n", listFile, concurrency)

	results, err := processor.ProcessFile(ctx, listFile)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := newRenderer(cfg)
	success, failure := 0, 0
	for _, r := range results {
		if r.Error != nil {
			failure++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", r.Source, r.Error)
			continue
		}
		success++

		slug := sanitizeFilename(r.Source)
		jsonPath := filepath.Join(outputDir, slug+".json")
		if err := renderer.RenderJSON(r.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: write JSON: %v\n", r.Source, err)
			continue
		}
		mdPath := filepath.Join(outputDir, slug+".md")
		if err := renderer.RenderMarkdown(r.Result, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: write Markdown: %v\n", r.Source, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "OK   %s (%s, quality %d/100)\n", r.Source, r.Result.Status, r.Result.Quality.Index)
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d total, %d ok, %d failed, output in %s\n",
		len(results), success, failure, outputDir)
	return nil
}

// sanitizeFilename turns a source path or URL into a safe file name
func sanitizeFilename(source string) string {
	s := source
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.TrimSuffix(filepath.Base(s), filepath.Ext(s))
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	s = replacer.Replace(s)
	if s == "" || s == "." {
		s = "report"
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
