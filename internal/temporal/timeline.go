package temporal

import (
	"fmt"

	"github.com/pvoloshyn/veridian/internal/model"
)

// TimelineBuilder places events on a single reconstructed timeline. Each
// explicit time expression is consumed by at most one entry; once claimed it
// never anchors a later event.
type TimelineBuilder struct{}

// NewTimelineBuilder creates the timeline construction pass
func NewTimelineBuilder() *TimelineBuilder {
	return &TimelineBuilder{}
}

// Build walks events in narrative order, claiming explicit expressions whose
// span falls inside the event's supporting clause, carrying day offsets
// forward, and marking how each entry's time was obtained.
func (b *TimelineBuilder) Build(events []model.Event, expressions []model.TemporalExpression, statements []model.AtomicStatement) []model.TimelineEntry {
	spans := statementSpans(statements)
	consumed := make(map[string]bool, len(expressions))
	entries := make([]model.TimelineEntry, 0, len(events))

	dayOffset := 0
	for i := range events {
		ev := &events[i]
		entry := model.TimelineEntry{
			ID:            fmt.Sprintf("tl_%d", i+1),
			EventID:       ev.ID,
			Source:        model.TimeInferred,
			Confidence:    0.5,
			SequenceOrder: i + 1,
		}

		start, end := spanOf(ev, spans)
		for j := range expressions {
			exp := &expressions[j]
			if consumed[exp.ID] || exp.Start < start || exp.End > end {
				continue
			}
			switch exp.Anchor {
			case model.AnchorTime:
				entry.AbsoluteTime = exp.Text
				entry.NormalizedTime = exp.Normalized
				entry.Source = model.TimeExplicit
				entry.Confidence = 0.95
				consumed[exp.ID] = true
			case model.AnchorDate:
				entry.AbsoluteDate = exp.Normalized
				if entry.Source != model.TimeExplicit {
					entry.Source = model.TimeExplicit
					entry.Confidence = 0.95
				}
				consumed[exp.ID] = true
			case model.AnchorNextDay:
				dayOffset++
				entry.RelativeTime = exp.Text
				if entry.Source == model.TimeInferred {
					entry.Source = model.TimeRelative
					entry.Confidence = 0.7
				}
				consumed[exp.ID] = true
			case model.AnchorGap:
				dayOffset += exp.Days
				entry.RelativeTime = exp.Text
				if entry.Source == model.TimeInferred {
					entry.Source = model.TimeRelative
					entry.Confidence = 0.7
				}
				consumed[exp.ID] = true
			case model.AnchorSequence, model.AnchorDuring:
				if entry.RelativeTime == "" {
					entry.RelativeTime = exp.Text
				}
				if entry.Source == model.TimeInferred {
					entry.Source = model.TimeRelative
					entry.Confidence = 0.7
				}
				consumed[exp.ID] = true
			}
		}

		entry.DayOffset = dayOffset
		entries = append(entries, entry)
	}
	return entries
}

func statementSpans(statements []model.AtomicStatement) map[string][2]int {
	out := make(map[string][2]int, len(statements))
	for _, st := range statements {
		out[st.ID] = [2]int{st.Start, st.End}
	}
	return out
}

func spanOf(ev *model.Event, spans map[string][2]int) (int, int) {
	for _, id := range ev.SpanIDs {
		if s, ok := spans[id]; ok {
			return s[0], s[1]
		}
	}
	return 0, -1
}
