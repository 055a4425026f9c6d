package temporal

import (
	"fmt"

	"github.com/pvoloshyn/veridian/internal/model"
)

// RelationBuilder derives pairwise Allen relations between adjacent events.
// Narrative order is the default ordering evidence; explicit markers between
// two events override it.
type RelationBuilder struct{}

// NewRelationBuilder creates the pairwise relation pass
func NewRelationBuilder() *RelationBuilder {
	return &RelationBuilder{}
}

// Build emits one relation per adjacent event pair, in narrative order.
// A sequence or duration marker attached to the later event upgrades the
// evidence from narrative_order to explicit_marker; a during marker flips
// the relation to DURING.
func (b *RelationBuilder) Build(events []model.Event, expressions []model.TemporalExpression, statements []model.AtomicStatement) []model.TemporalRelationship {
	if len(events) < 2 {
		return nil
	}
	positions := eventPositions(events, statements)

	var rels []model.TemporalRelationship
	for i := 0; i+1 < len(events); i++ {
		from, to := &events[i], &events[i+1]
		rel := model.TemporalRelationship{
			ID:          fmt.Sprintf("rel_%d", i+1),
			FromEventID: from.ID,
			ToEventID:   to.ID,
			Relation:    model.RelBefore,
			Evidence:    model.EvidenceNarrativeOrder,
		}
		if exp := markerBetween(expressions, positions[from.ID], positions[to.ID]); exp != nil {
			rel.Evidence = model.EvidenceExplicitMarker
			rel.EvidenceText = exp.Text
			switch exp.Anchor {
			case model.AnchorDuring:
				rel.Relation = model.RelDuring
			case model.AnchorGap:
				rel.GapMinutes = exp.Minutes
			}
		}
		rels = append(rels, rel)
	}
	return rels
}

// eventPositions maps each event to its supporting statement's start offset
func eventPositions(events []model.Event, statements []model.AtomicStatement) map[string]int {
	starts := make(map[string]int, len(statements))
	for _, st := range statements {
		starts[st.ID] = st.Start
	}
	out := make(map[string]int, len(events))
	for _, ev := range events {
		pos := 0
		for _, id := range ev.SpanIDs {
			if s, ok := starts[id]; ok {
				pos = s
				break
			}
		}
		out[ev.ID] = pos
	}
	return out
}

// markerBetween finds an ordering marker positioned after the earlier event
// starts and before the later event's clause ends
func markerBetween(expressions []model.TemporalExpression, fromPos, toPos int) *model.TemporalExpression {
	if toPos <= fromPos {
		return nil
	}
	var best *model.TemporalExpression
	for i := range expressions {
		exp := &expressions[i]
		switch exp.Anchor {
		case model.AnchorSequence, model.AnchorDuring, model.AnchorGap, model.AnchorNextDay:
		default:
			continue
		}
		// The marker governs the later clause, so it may sit a few
		// characters into it ("Then he twisted it")
		if exp.Start > fromPos && exp.Start <= toPos+len(exp.Text)+1 {
			if best == nil || exp.Start > best.Start {
				best = exp
			}
		}
	}
	return best
}
