package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pvoloshyn/veridian/internal/model"
)

type fakeProvider struct {
	lastReq   SummarizeRequest
	called    int
	summary   string
	err       error
	available bool
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	f.called++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &SummarizeResponse{Summary: f.summary, Model: "fake-small", TokensUsed: 42}, nil
}

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return f.available }

func successResult() *model.TransformResult {
	return &model.TransformResult{
		RequestID:    "req-123",
		Status:       model.StatusSuccess,
		Entities:     []model.Entity{{ID: "ent_1"}, {ID: "ent_2"}},
		Timeline:     []model.TimelineEntry{{ID: "tl_1"}},
		Quality:      model.Quality{Index: 87, Confidence: "high"},
		RenderedText: "## Observed events\n\n1. Officer Jenkins grabbed my arm\n",
		Selection: model.SelectionResult{
			Sections: map[string][]string{
				model.SectionObservedEvents: {"evt_1", "evt_2"},
				model.SectionOpenQuestions:  {"um_1"},
			},
		},
	}
}

func TestNewProvider_DisabledAndUnknown(t *testing.T) {
	p, err := NewProvider(Config{Provider: ""})
	if p != nil || err != nil {
		t.Errorf("empty provider disables summarization, got %v, %v", p, err)
	}

	if _, err := NewProvider(Config{Provider: "claude"}); err == nil {
		t.Error("unknown provider names must be rejected")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(successResult())

	for _, want := range []string{
		"CRITICAL RULES:",
		"Status: success",
		"Observed events: 2",
		"Entities: 2",
		"Timeline entries: 1",
		"Open questions: 1",
		"Quality index: 87/100 (high)",
		"Officer Jenkins grabbed my arm",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSummarizer_DisabledIsNilSafe(t *testing.T) {
	var s *Summarizer
	if s.IsEnabled() {
		t.Error("nil summarizer is disabled")
	}
	summary, err := s.GenerateSummary(context.Background(), successResult())
	if summary != nil || err != nil {
		t.Errorf("disabled summarizer yields nothing, got %v, %v", summary, err)
	}
}

func TestSummarizer_GenerateSummary(t *testing.T) {
	fp := &fakeProvider{summary: "A neutral account of the stop.", available: true}
	s := &Summarizer{provider: fp, config: Config{Model: "fake-small", MaxTokens: 256}}

	summary, err := s.GenerateSummary(context.Background(), successResult())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !summary.Enabled || summary.Provider != "fake" || summary.Model != "fake-small" {
		t.Errorf("unexpected summary envelope %+v", summary)
	}
	if summary.SummaryMD != "A neutral account of the stop." {
		t.Errorf("got %q", summary.SummaryMD)
	}
	if len(summary.Warnings) != 0 {
		t.Errorf("clean result carries no warnings, got %v", summary.Warnings)
	}
	if fp.lastReq.MaxTokens != 256 {
		t.Errorf("config limits should reach the provider, got %d", fp.lastReq.MaxTokens)
	}
}

func TestSummarizer_RefusedNeverReachesProvider(t *testing.T) {
	fp := &fakeProvider{summary: "should not happen"}
	s := &Summarizer{provider: fp, config: Config{}}

	res := successResult()
	res.Status = model.StatusRefused
	if _, err := s.GenerateSummary(context.Background(), res); err == nil {
		t.Fatal("refused results must not be summarized")
	}
	if fp.called != 0 {
		t.Error("provider must not be called for refused results")
	}
}

func TestSummarizer_PartialResultWarns(t *testing.T) {
	fp := &fakeProvider{summary: "partial summary"}
	s := &Summarizer{provider: fp, config: Config{}}

	res := successResult()
	res.Status = model.StatusPartial
	summary, err := s.GenerateSummary(context.Background(), res)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(summary.Warnings) != 1 || !strings.Contains(summary.Warnings[0], "may be incomplete") {
		t.Errorf("partial results warn, got %v", summary.Warnings)
	}
}

func TestSummarizer_ProviderErrorWrapped(t *testing.T) {
	fp := &fakeProvider{err: errors.New("model overloaded")}
	s := &Summarizer{provider: fp, config: Config{}}

	_, err := s.GenerateSummary(context.Background(), successResult())
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("provider errors should surface, got %v", err)
	}
}

func TestRenderSeparateMarkdown(t *testing.T) {
	if md := RenderSeparateMarkdown(nil); md != "" {
		t.Errorf("nil summary renders nothing, got %q", md)
	}
	if md := RenderSeparateMarkdown(&model.LLMSummary{Enabled: false}); md != "" {
		t.Errorf("disabled summary renders nothing, got %q", md)
	}

	md := RenderSeparateMarkdown(&model.LLMSummary{
		Enabled:   true,
		Provider:  "fake",
		Model:     "fake-small",
		SummaryMD: "A neutral account.",
		Warnings:  []string{"result failed packaging validation; summary may be incomplete"},
	})
	if !strings.Contains(md, "# Summary (fake/fake-small)") {
		t.Errorf("missing header: %q", md)
	}
	if !strings.Contains(md, "A neutral account.") || !strings.Contains(md, "> Warning:") {
		t.Errorf("missing body or warning: %q", md)
	}
}
