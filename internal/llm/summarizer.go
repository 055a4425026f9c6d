package llm

import (
	"context"
	"fmt"

	"github.com/pvoloshyn/veridian/internal/model"
)

// Summarizer wraps a provider and produces the optional LLMSummary attached
// to a finished result. A nil provider means summarization is disabled.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer from configuration
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// GenerateSummary produces the summary for a finished result. Refused
// results never reach the provider.
func (s *Summarizer) GenerateSummary(ctx context.Context, res *model.TransformResult) (*model.LLMSummary, error) {
	if !s.IsEnabled() {
		return nil, nil
	}
	if res.Status == model.StatusRefused {
		return nil, fmt.Errorf("refused results are not summarized")
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Result:    res,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	summary := &model.LLMSummary{
		Enabled:   true,
		Provider:  s.provider.Name(),
		Model:     resp.Model,
		SummaryMD: resp.Summary,
	}
	if res.Status == model.StatusPartial {
		summary.Warnings = append(summary.Warnings, "result failed packaging validation; summary may be incomplete")
	}
	return summary, nil
}

// RenderSeparateMarkdown formats the summary as its own markdown document
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}
	md := fmt.Sprintf("# Summary (%s/%s)\n\n%s\n", summary.Provider, summary.Model, summary.SummaryMD)
	for _, w := range summary.Warnings {
		md += fmt.Sprintf("\n> Warning: %s\n", w)
	}
	return md
}
