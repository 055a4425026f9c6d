package temporal

import (
	"testing"

	"github.com/pvoloshyn/veridian/internal/model"
)

func relationFixture() ([]model.Event, []model.AtomicStatement) {
	statements := []model.AtomicStatement{
		{ID: "stmt_1", Start: 0, End: 30},
		{ID: "stmt_2", Start: 31, End: 60},
		{ID: "stmt_3", Start: 61, End: 80},
	}
	events := []model.Event{
		{ID: "evt_1", SpanIDs: []string{"stmt_1"}},
		{ID: "evt_2", SpanIDs: []string{"stmt_2"}},
		{ID: "evt_3", SpanIDs: []string{"stmt_3"}},
	}
	return events, statements
}

func TestRelationBuilder_NarrativeOrderDefault(t *testing.T) {
	b := NewRelationBuilder()
	events, statements := relationFixture()

	rels := b.Build(events, nil, statements)
	if len(rels) != 2 {
		t.Fatalf("expected 2 relations for 3 events, got %d", len(rels))
	}
	for i, rel := range rels {
		if rel.Relation != model.RelBefore {
			t.Errorf("relation %d: expected before, got %s", i, rel.Relation)
		}
		if rel.Evidence != model.EvidenceNarrativeOrder {
			t.Errorf("relation %d: expected narrative_order, got %s", i, rel.Evidence)
		}
	}
	if rels[0].FromEventID != "evt_1" || rels[0].ToEventID != "evt_2" {
		t.Errorf("unexpected pairing: %s -> %s", rels[0].FromEventID, rels[0].ToEventID)
	}
}

func TestRelationBuilder_ExplicitMarkerUpgrade(t *testing.T) {
	b := NewRelationBuilder()
	events, statements := relationFixture()
	// "Then" opens the third clause
	exprs := []model.TemporalExpression{
		{ID: "tex_1", Anchor: model.AnchorSequence, Text: "Then", Start: 61, End: 65},
	}

	rels := b.Build(events, exprs, statements)
	if len(rels) != 2 {
		t.Fatalf("expected 2 relations, got %d", len(rels))
	}
	if rels[0].Evidence != model.EvidenceNarrativeOrder {
		t.Errorf("first pair should stay narrative_order, got %s", rels[0].Evidence)
	}
	if rels[1].Evidence != model.EvidenceExplicitMarker {
		t.Errorf("second pair should be explicit_marker, got %s", rels[1].Evidence)
	}
	if rels[1].Relation != model.RelBefore {
		t.Errorf("sequence marker keeps before relation, got %s", rels[1].Relation)
	}
	if rels[1].EvidenceText != "Then" {
		t.Errorf("expected evidence text %q, got %q", "Then", rels[1].EvidenceText)
	}
}

func TestRelationBuilder_DuringMarkerFlipsRelation(t *testing.T) {
	b := NewRelationBuilder()
	events, statements := relationFixture()
	exprs := []model.TemporalExpression{
		{ID: "tex_1", Anchor: model.AnchorDuring, Text: "while", Start: 61, End: 66},
	}

	rels := b.Build(events, exprs, statements)
	if rels[1].Relation != model.RelDuring {
		t.Errorf("during marker should flip relation to during, got %s", rels[1].Relation)
	}
	if rels[1].Evidence != model.EvidenceExplicitMarker {
		t.Errorf("expected explicit_marker, got %s", rels[1].Evidence)
	}
}

func TestRelationBuilder_DurationMarkerCarriesGapMinutes(t *testing.T) {
	b := NewRelationBuilder()
	events, statements := relationFixture()
	exprs := []model.TemporalExpression{
		{ID: "tex_1", Anchor: model.AnchorGap, Text: "10 minutes later", Start: 35, End: 51, Minutes: 10},
	}

	rels := b.Build(events, exprs, statements)
	if rels[0].GapMinutes != 10 {
		t.Errorf("expected gap minutes 10, got %d", rels[0].GapMinutes)
	}
	if rels[0].Relation != model.RelBefore {
		t.Errorf("duration marker keeps before relation, got %s", rels[0].Relation)
	}
}

func TestRelationBuilder_FewerThanTwoEvents(t *testing.T) {
	b := NewRelationBuilder()
	events, statements := relationFixture()

	if rels := b.Build(events[:1], nil, statements); rels != nil {
		t.Errorf("expected nil for single event, got %d relations", len(rels))
	}
	if rels := b.Build(nil, nil, statements); rels != nil {
		t.Errorf("expected nil for no events, got %d relations", len(rels))
	}
}

func TestAllenRelation_Inverse(t *testing.T) {
	tests := []struct {
		rel, want model.AllenRelation
	}{
		{model.RelBefore, model.RelAfter},
		{model.RelAfter, model.RelBefore},
		{model.RelDuring, model.RelContains},
		{model.RelMeets, model.RelMetBy},
		{model.RelOverlaps, model.RelOverlappedBy},
		{model.RelEquals, model.RelEquals},
	}
	for _, tt := range tests {
		if got := tt.rel.Inverse(); got != tt.want {
			t.Errorf("%s.Inverse() = %s, want %s", tt.rel, got, tt.want)
		}
	}
}
