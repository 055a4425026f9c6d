package report

import (
	"strings"
	"testing"
	"time"

	"github.com/pvoloshyn/veridian/internal/model"
)

func baseResult() *model.TransformResult {
	return &model.TransformResult{
		RequestID: "req-123",
		Status:    model.StatusSuccess,
		CreatedAt: time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC),
		Quality:   model.Quality{Index: 87, Confidence: "high"},
		Selection: model.SelectionResult{Sections: map[string][]string{}},
	}
}

func TestRenderer_RefusedRendersNothingButDiagnostics(t *testing.T) {
	r := NewRenderer(true)
	res := baseResult()
	res.Status = model.StatusRefused
	res.Events = []model.Event{
		{ID: "evt_1", Description: "he grabbed my arm"},
	}
	res.Selection.Sections[model.SectionObservedEvents] = []string{"evt_1"}
	res.Diagnostics = []model.Diagnostic{
		{Level: model.DiagError, Code: "POLICY_REFUSAL", Message: "refused by rule refuse-threat"},
	}

	md := r.BuildMarkdown(res)
	if !strings.Contains(md, "Transformation refused by policy. No content is rendered.") {
		t.Error("expected refusal notice")
	}
	if strings.Contains(md, "grabbed my arm") {
		t.Error("refused reports must not render content")
	}
	if !strings.Contains(md, "POLICY_REFUSAL") {
		t.Error("diagnostics should still render")
	}
}

func TestRenderer_SectionsFollowSelection(t *testing.T) {
	r := NewRenderer(false)
	res := baseResult()
	res.Events = []model.Event{
		{ID: "evt_1", Description: "Officer Jenkins grabbed my arm", TemporalMarker: "then"},
		{ID: "evt_2", Description: "excluded event"},
	}
	res.Statements = []model.AtomicStatement{
		{ID: "stmt_1", Text: "I was scared.", Epistemic: model.EpistemicSelfReport},
	}
	res.SpeechActs = []model.SpeechAct{
		{ID: "sa_1", SpeakerLabel: "Officer Jenkins", Quote: "Stop resisting"},
	}
	res.Selection.Sections[model.SectionObservedEvents] = []string{"evt_1"}
	res.Selection.Sections[model.SectionReported] = []string{"stmt_1"}
	res.Selection.Sections[model.SectionQuotes] = []string{"sa_1"}

	md := r.BuildMarkdown(res)
	if !strings.Contains(md, "## Observed Events") {
		t.Error("expected observed events section")
	}
	if !strings.Contains(md, "1. Officer Jenkins grabbed my arm _(then)_") {
		t.Errorf("unexpected event line in:\n%s", md)
	}
	if strings.Contains(md, "excluded event") {
		t.Error("unselected event must not render")
	}
	if !strings.Contains(md, "- I was scared.") {
		t.Error("expected reported statement")
	}
	if !strings.Contains(md, `Officer Jenkins: "Stop resisting"`) {
		t.Error("expected attributed quote")
	}
}

func TestRenderer_EmptySectionsSkipped(t *testing.T) {
	r := NewRenderer(false)
	res := baseResult()

	md := r.BuildMarkdown(res)
	for _, heading := range []string{"## Observed Events", "## Quotes", "## Timeline", "## Entities", "## Quarantined Content"} {
		if strings.Contains(md, heading) {
			t.Errorf("empty section %q should be skipped", heading)
		}
	}
}

func TestRenderer_QuarantineRendersCountsOnly(t *testing.T) {
	r := NewRenderer(false)
	res := baseResult()
	res.Quarantine = []model.QuarantineItem{
		{ContentID: "stmt_1", Bucket: "aberrated_content", Failures: []string{"content excluded as unverifiable"}},
		{ContentID: "evt_1", Bucket: "events_without_actor"},
		{ContentID: "evt_2", Bucket: "events_without_actor"},
	}

	md := r.BuildMarkdown(res)
	if !strings.Contains(md, "- aberrated_content: 1 item(s)") {
		t.Errorf("expected aberrated bucket count in:\n%s", md)
	}
	if !strings.Contains(md, "- events_without_actor: 2 item(s)") {
		t.Errorf("expected grouped bucket count in:\n%s", md)
	}
}

func TestRenderer_TimelineWithGapAnnotation(t *testing.T) {
	r := NewRenderer(false)
	res := baseResult()
	res.Events = []model.Event{
		{ID: "evt_1", Description: "the stop began"},
		{ID: "evt_2", Description: "backup arrived"},
	}
	res.Timeline = []model.TimelineEntry{
		{ID: "tl_1", EventID: "evt_1", AbsoluteTime: "11:00 PM", SequenceOrder: 1},
		{ID: "tl_2", EventID: "evt_2", SequenceOrder: 2, GapBeforeID: "gap_1"},
	}
	res.Gaps = []model.TimeGap{
		{ID: "gap_1", Type: model.GapUnexplained, EstimatedMinutes: 30},
	}
	res.Selection.Sections[model.SectionTimeline] = []string{"tl_1", "tl_2"}

	md := r.BuildMarkdown(res)
	if !strings.Contains(md, "1. 11:00 PM: the stop began") {
		t.Errorf("expected anchored timeline line in:\n%s", md)
	}
	if !strings.Contains(md, "2. unspecified time: backup arrived") {
		t.Errorf("expected unanchored timeline line in:\n%s", md)
	}
	if !strings.Contains(md, "gap before: unexplained (~30 min)") {
		t.Errorf("expected gap annotation in:\n%s", md)
	}
}

func TestRenderer_OpenQuestions(t *testing.T) {
	r := NewRenderer(false)
	res := baseResult()
	res.Uncertainties = []model.UncertaintyMarker{
		{ID: "um_1", Kind: "ambiguous_pronoun", Reason: "pronoun could refer to several entities", Candidates: []string{"Officer Jenkins", "Officer Smith"}},
	}
	res.Gaps = []model.TimeGap{
		{ID: "gap_1", RequiresInvestigation: true, SuggestedQuestion: "What happened during the 30 minutes?"},
	}
	res.Selection.Sections[model.SectionOpenQuestions] = []string{"um_1", "gap_1"}

	md := r.BuildMarkdown(res)
	if !strings.Contains(md, "candidates: Officer Jenkins, Officer Smith") {
		t.Errorf("expected candidates in:\n%s", md)
	}
	if !strings.Contains(md, "What happened during the 30 minutes?") {
		t.Errorf("expected gap question in:\n%s", md)
	}
}

func TestRenderer_FooterToggle(t *testing.T) {
	res := baseResult()

	with := NewRenderer(true).BuildMarkdown(res)
	if !strings.Contains(with, "*Generated by veridian") {
		t.Error("expected footer when enabled")
	}

	without := NewRenderer(false).BuildMarkdown(res)
	if strings.Contains(without, "*Generated by veridian") {
		t.Error("footer should be absent when disabled")
	}
}

func TestRenderer_AberratedStatementTextNeverRenders(t *testing.T) {
	r := NewRenderer(false)
	res := baseResult()
	res.Statements = []model.AtomicStatement{
		{
			ID: "stmt_1", Text: "those pigs planned this",
			Epistemic: model.EpistemicConspiracyClaim,
			Flags:     []model.StatementFlag{model.FlagAberrated},
		},
	}
	// Even if routing mistakenly places it in a section, the display text is
	// empty and the line is dropped
	res.Selection.Sections[model.SectionReported] = []string{"stmt_1"}

	md := r.BuildMarkdown(res)
	if strings.Contains(md, "pigs planned") {
		t.Errorf("aberrated text leaked:\n%s", md)
	}
}
