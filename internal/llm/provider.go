// Package llm generates an optional plain-language summary of a finished
// report. The summary is produced after selection and rendering and never
// feeds back into the pipeline's intermediate representation.
package llm

import (
	"context"
	"fmt"

	"github.com/pvoloshyn/veridian/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a summary of the transformation result
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Result is the finished transformation to summarize
	Result *model.TransformResult

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, OpenAI-compatible servers)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:   60,
		MaxTokens: 1024,
	}
}

// BuildPrompt constructs the default summarization prompt. The prompt
// forbids the model from upgrading claims to facts and from referencing
// quarantined content, which is withheld from the input entirely.
func BuildPrompt(res *model.TransformResult) string {
	prompt := fmt.Sprintf(`You are summarizing a structured incident report. The report separates
directly observed events from reported statements, interpretations, and
legal or medical claims.

CRITICAL RULES:
1. Never present a claim, interpretation, or self-report as established fact.
2. Preserve the report's own attributions ("the reporter states", "per the provider").
3. Do not invent names, times, or events absent from the report.
4. If the report marks something uncertain or ambiguous, keep it uncertain.
5. Do not speculate about content the report excluded.

Report overview:
- Status: %s
- Observed events: %d
- Entities: %d
- Timeline entries: %d
- Open questions: %d
- Quality index: %d/100 (%s)

Report body:
%s

Provide a 4-6 sentence neutral summary.`,
		res.Status,
		len(res.Selection.Sections[model.SectionObservedEvents]),
		len(res.Entities),
		len(res.Timeline),
		len(res.Selection.Sections[model.SectionOpenQuestions]),
		res.Quality.Index,
		res.Quality.Confidence,
		res.RenderedText)
	return prompt
}
