package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pvoloshyn/veridian/internal/model"
)

// Renderer writes the transformation result as markdown and JSON
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the complete result as indented JSON
func (r *Renderer) RenderJSON(res *model.TransformResult, path string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes the markdown report to a file
func (r *Renderer) RenderMarkdown(res *model.TransformResult, path string) error {
	md := r.BuildMarkdown(res)
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// BuildMarkdown assembles the full markdown report. Section order is fixed;
// empty sections are skipped. Quarantined content renders as counts and
// previews only, never as raw text.
func (r *Renderer) BuildMarkdown(res *model.TransformResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Incident Report %s\n\n", res.RequestID)
	fmt.Fprintf(&b, "- Status: **%s**\n", res.Status)
	fmt.Fprintf(&b, "- Generated: %s\n", res.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Quality index: %d/100 (%s confidence)\n\n", res.Quality.Index, res.Quality.Confidence)

	if res.Status == model.StatusRefused {
		b.WriteString("Transformation refused by policy. No content is rendered.\n")
		r.appendDiagnostics(&b, res.Diagnostics)
		return b.String()
	}

	lookup := newLookup(res)

	r.appendEvents(&b, res, lookup)
	r.appendStatementSection(&b, res, lookup, model.SectionReported, "Reported Statements")
	r.appendStatementSection(&b, res, lookup, model.SectionInterpretations, "Interpretations")
	r.appendStatementSection(&b, res, lookup, model.SectionLegalClaims, "Legal Claims")
	r.appendStatementSection(&b, res, lookup, model.SectionMedical, "Medical")
	r.appendStatementSection(&b, res, lookup, model.SectionAdministrative, "Administrative Actions")
	r.appendQuotes(&b, res, lookup)
	r.appendTimeline(&b, res, lookup)
	r.appendEntities(&b, res, lookup)
	r.appendOpenQuestions(&b, res, lookup)
	r.appendQuarantine(&b, res)
	r.appendDiagnostics(&b, res.Diagnostics)

	if r.includeFooter {
		b.WriteString("\n---\n*Generated by veridian. Verbatim source text is preserved in the JSON output.*\n")
	}
	return b.String()
}

// RenderSummary prints a short stdout summary
func (r *Renderer) RenderSummary(res *model.TransformResult) {
	fmt.Printf("\nStatus:     %s\n", res.Status)
	fmt.Printf("Segments:   %d\n", len(res.Segments))
	fmt.Printf("Statements: %d\n", len(res.Statements))
	fmt.Printf("Entities:   %d\n", len(res.Entities))
	fmt.Printf("Events:     %d\n", len(res.Events))
	fmt.Printf("Quarantine: %d\n", len(res.Quarantine))
	fmt.Printf("Quality:    %d/100 (%s)\n", res.Quality.Index, res.Quality.Confidence)
	for _, s := range res.Quality.Signals {
		if s.Severity == model.SignalCritical || s.Severity == model.SignalWarning {
			fmt.Printf("  ! %s: %s\n", s.Type, s.Description)
		}
	}
}

// lookup indexes the IR by id for section rendering
type lookup struct {
	statements map[string]*model.AtomicStatement
	events     map[string]*model.Event
	quotes     map[string]*model.SpeechAct
	entities   map[string]*model.Entity
	timeline   map[string]*model.TimelineEntry
	gaps       map[string]*model.TimeGap
	markers    map[string]*model.UncertaintyMarker
}

func newLookup(res *model.TransformResult) *lookup {
	l := &lookup{
		statements: make(map[string]*model.AtomicStatement, len(res.Statements)),
		events:     make(map[string]*model.Event, len(res.Events)),
		quotes:     make(map[string]*model.SpeechAct, len(res.SpeechActs)),
		entities:   make(map[string]*model.Entity, len(res.Entities)),
		timeline:   make(map[string]*model.TimelineEntry, len(res.Timeline)),
		gaps:       make(map[string]*model.TimeGap, len(res.Gaps)),
		markers:    make(map[string]*model.UncertaintyMarker, len(res.Uncertainties)),
	}
	for i := range res.Statements {
		l.statements[res.Statements[i].ID] = &res.Statements[i]
	}
	for i := range res.Events {
		l.events[res.Events[i].ID] = &res.Events[i]
	}
	for i := range res.SpeechActs {
		l.quotes[res.SpeechActs[i].ID] = &res.SpeechActs[i]
	}
	for i := range res.Entities {
		l.entities[res.Entities[i].ID] = &res.Entities[i]
	}
	for i := range res.Timeline {
		l.timeline[res.Timeline[i].ID] = &res.Timeline[i]
	}
	for i := range res.Gaps {
		l.gaps[res.Gaps[i].ID] = &res.Gaps[i]
	}
	for i := range res.Uncertainties {
		l.markers[res.Uncertainties[i].ID] = &res.Uncertainties[i]
	}
	return l
}

func (r *Renderer) appendEvents(b *strings.Builder, res *model.TransformResult, l *lookup) {
	ids := res.Selection.Sections[model.SectionObservedEvents]
	if len(ids) == 0 {
		return
	}
	b.WriteString("## Observed Events\n\n")
	for i, id := range ids {
		ev := l.events[id]
		if ev == nil {
			continue
		}
		line := fmt.Sprintf("%d. %s", i+1, ev.Description)
		if ev.TemporalMarker != "" {
			line += fmt.Sprintf(" _(%s)_", ev.TemporalMarker)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func (r *Renderer) appendStatementSection(b *strings.Builder, res *model.TransformResult, l *lookup, section, title string) {
	ids := res.Selection.Sections[section]
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, id := range ids {
		st := l.statements[id]
		if st == nil {
			continue
		}
		text := st.DisplayText()
		if text == "" {
			continue
		}
		fmt.Fprintf(b, "- %s\n", text)
	}
	b.WriteString("\n")
}

func (r *Renderer) appendQuotes(b *strings.Builder, res *model.TransformResult, l *lookup) {
	ids := res.Selection.Sections[model.SectionQuotes]
	if len(ids) == 0 {
		return
	}
	b.WriteString("## Quotes\n\n")
	for _, id := range ids {
		sa := l.quotes[id]
		if sa == nil {
			continue
		}
		speaker := sa.SpeakerLabel
		if speaker == "" {
			speaker = "Unattributed"
		}
		fmt.Fprintf(b, "- %s: %q\n", speaker, sa.Quote)
	}
	b.WriteString("\n")
}

func (r *Renderer) appendTimeline(b *strings.Builder, res *model.TransformResult, l *lookup) {
	ids := res.Selection.Sections[model.SectionTimeline]
	if len(ids) == 0 {
		return
	}
	b.WriteString("## Timeline\n\n")
	for _, id := range ids {
		entry := l.timeline[id]
		if entry == nil {
			continue
		}
		ev := l.events[entry.EventID]
		desc := entry.EventID
		if ev != nil {
			desc = ev.Description
		}
		when := timeLabel(entry)
		fmt.Fprintf(b, "%d. %s: %s\n", entry.SequenceOrder, when, desc)
		if gap := l.gaps[entry.GapBeforeID]; gap != nil && gap.Type != model.GapNone && gap.Type != model.GapExplained {
			fmt.Fprintf(b, "   - gap before: %s", gap.Type)
			if gap.EstimatedMinutes > 0 {
				fmt.Fprintf(b, " (~%d min)", gap.EstimatedMinutes)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
}

func timeLabel(entry *model.TimelineEntry) string {
	switch {
	case entry.AbsoluteTime != "":
		label := entry.AbsoluteTime
		if entry.DayOffset > 0 {
			label += fmt.Sprintf(" (day +%d)", entry.DayOffset)
		}
		return label
	case entry.RelativeTime != "":
		return entry.RelativeTime
	case entry.DayOffset > 0:
		return fmt.Sprintf("day +%d", entry.DayOffset)
	default:
		return "unspecified time"
	}
}

func (r *Renderer) appendEntities(b *strings.Builder, res *model.TransformResult, l *lookup) {
	ids := res.Selection.Sections[model.SectionEntities]
	if len(ids) == 0 {
		return
	}
	b.WriteString("## Entities\n\n")
	for _, id := range ids {
		e := l.entities[id]
		if e == nil {
			continue
		}
		line := fmt.Sprintf("- **%s** (%s", e.Label, e.Role)
		if e.Badge != "" {
			line += ", badge " + e.Badge
		}
		line += fmt.Sprintf(", %d mention(s))", len(e.Mentions))
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func (r *Renderer) appendOpenQuestions(b *strings.Builder, res *model.TransformResult, l *lookup) {
	ids := res.Selection.Sections[model.SectionOpenQuestions]
	if len(ids) == 0 {
		return
	}
	b.WriteString("## Open Questions\n\n")
	for _, id := range ids {
		if m := l.markers[id]; m != nil {
			fmt.Fprintf(b, "- %s: %s", m.Kind, m.Reason)
			if len(m.Candidates) > 0 {
				fmt.Fprintf(b, " (candidates: %s)", strings.Join(m.Candidates, ", "))
			}
			b.WriteString("\n")
			continue
		}
		if g := l.gaps[id]; g != nil && g.SuggestedQuestion != "" {
			fmt.Fprintf(b, "- %s\n", g.SuggestedQuestion)
		}
	}
	b.WriteString("\n")
}

// appendQuarantine summarizes quarantined content by bucket. Previews come
// from the quarantine items, which already exclude aberrated raw text.
func (r *Renderer) appendQuarantine(b *strings.Builder, res *model.TransformResult) {
	if len(res.Quarantine) == 0 {
		return
	}
	buckets := make(map[string]int)
	var order []string
	for _, q := range res.Quarantine {
		if _, ok := buckets[q.Bucket]; !ok {
			order = append(order, q.Bucket)
		}
		buckets[q.Bucket]++
	}
	b.WriteString("## Quarantined Content\n\n")
	for _, bucket := range order {
		fmt.Fprintf(b, "- %s: %d item(s)\n", bucket, buckets[bucket])
	}
	b.WriteString("\n")
}

func (r *Renderer) appendDiagnostics(b *strings.Builder, diags []model.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	b.WriteString("## Diagnostics\n\n")
	for _, d := range diags {
		fmt.Fprintf(b, "- [%s] %s: %s\n", d.Level, d.Code, d.Message)
	}
	b.WriteString("\n")
}
