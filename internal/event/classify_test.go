package event

import (
	"testing"

	"github.com/pvoloshyn/veridian/internal/model"
)

func classifyOne(t *testing.T, ev model.Event, st model.AtomicStatement, seg model.Segment) model.Event {
	t.Helper()
	events := []model.Event{ev}
	NewClassifier().Classify(events, []model.AtomicStatement{st}, []model.Segment{seg})
	return events[0]
}

func TestClassifier_CameraFriendly(t *testing.T) {
	ev := classifyOne(t,
		model.Event{ID: "evt_1", Type: model.EventAction, ActorID: "ent_2",
			ActorLabel: "Officer Jenkins", SpanIDs: []string{"stmt_1", "seg_1"}},
		model.AtomicStatement{ID: "stmt_1", Text: "Officer Jenkins grabbed my arm.",
			Epistemic: model.EpistemicDirectEvent},
		model.Segment{ID: "seg_1"},
	)
	cls := ev.Classification
	if !cls.CameraFriendly {
		t.Fatalf("clean physical action should be camera friendly: %+v", cls)
	}
	if cls.CameraReason != "observable action with resolved actor" || cls.CameraConfidence != 0.9 {
		t.Errorf("unexpected reasoning %q at %.2f", cls.CameraReason, cls.CameraConfidence)
	}
}

func TestClassifier_ObservationNeverCameraFriendly(t *testing.T) {
	ev := classifyOne(t,
		model.Event{ID: "evt_1", Type: model.EventObservation, ActorID: "ent_1",
			ActorLabel: "Reporter", SpanIDs: []string{"stmt_1", "seg_1"}},
		model.AtomicStatement{ID: "stmt_1", Text: "I saw the second officer laugh.",
			Epistemic: model.EpistemicDirectEvent},
		model.Segment{ID: "seg_1"},
	)
	cls := ev.Classification
	if cls.CameraFriendly || cls.CameraReason != "not an externally observable action" {
		t.Errorf("internal observations fail camera test first, got %+v", cls)
	}
}

func TestClassifier_UnresolvedActorBlocks(t *testing.T) {
	ev := classifyOne(t,
		model.Event{ID: "evt_1", Type: model.EventAction, SpanIDs: []string{"stmt_1", "seg_1"}},
		model.AtomicStatement{ID: "stmt_1", Text: "He shoved me hard.",
			Epistemic: model.EpistemicDirectEvent},
		model.Segment{ID: "seg_1"},
	)
	cls := ev.Classification
	if cls.CameraFriendly || cls.CameraReason != "actor unresolved" || cls.CameraConfidence != 0.95 {
		t.Errorf("missing actor blocks camera rendering, got %+v", cls)
	}
}

func TestClassifier_ActorUnresolvedFlagBlocks(t *testing.T) {
	ev := classifyOne(t,
		model.Event{ID: "evt_1", Type: model.EventAction, ActorLabel: "the man",
			SpanIDs: []string{"stmt_1", "seg_1"}},
		model.AtomicStatement{ID: "stmt_1", Text: "He shoved me hard.",
			Epistemic: model.EpistemicDirectEvent,
			Flags:     []model.StatementFlag{model.FlagActorUnresolved}},
		model.Segment{ID: "seg_1"},
	)
	if ev.Classification.CameraFriendly || ev.Classification.CameraReason != "actor unresolved" {
		t.Errorf("flagged statement blocks camera rendering, got %+v", ev.Classification)
	}
}

func TestClassifier_FragmentBlocks(t *testing.T) {
	ev := classifyOne(t,
		model.Event{ID: "evt_1", Type: model.EventAction, ActorID: "ent_2",
			ActorLabel: "Officer Jenkins", SpanIDs: []string{"stmt_1", "seg_1"}},
		model.AtomicStatement{ID: "stmt_1", Text: "but twisted it",
			Epistemic: model.EpistemicDirectEvent,
			Flags:     []model.StatementFlag{model.FlagFragment}},
		model.Segment{ID: "seg_1"},
	)
	cls := ev.Classification
	if !cls.Fragment {
		t.Error("fragment flag should carry into the classification")
	}
	if cls.CameraFriendly || cls.CameraReason != "supporting statement is a fragment" {
		t.Errorf("fragments are not camera friendly, got %+v", cls)
	}
}

func TestClassifier_InterpretiveContent(t *testing.T) {
	// Epistemic type marks it
	ev := classifyOne(t,
		model.Event{ID: "evt_1", Type: model.EventAction, ActorID: "ent_2",
			ActorLabel: "Officer Jenkins", SpanIDs: []string{"stmt_1", "seg_1"}},
		model.AtomicStatement{ID: "stmt_1", Text: "He was trying to scare me.",
			Epistemic: model.EpistemicInterpretation},
		model.Segment{ID: "seg_1"},
	)
	if !ev.Classification.ContainsInterpretive || ev.Classification.CameraFriendly {
		t.Errorf("interpretation is not camera friendly, got %+v", ev.Classification)
	}

	// Surface cue marks it even on a direct event
	ev = classifyOne(t,
		model.Event{ID: "evt_1", Type: model.EventAction, ActorID: "ent_2",
			ActorLabel: "Officer Jenkins", SpanIDs: []string{"stmt_1", "seg_1"}},
		model.AtomicStatement{ID: "stmt_1", Text: "He clearly slammed the door at me.",
			Epistemic: model.EpistemicDirectEvent},
		model.Segment{ID: "seg_1"},
	)
	if !ev.Classification.ContainsInterpretive {
		t.Errorf("interpretive cue word should mark the event, got %+v", ev.Classification)
	}
}

func TestClassifier_UncertainActor(t *testing.T) {
	ev := classifyOne(t,
		model.Event{ID: "evt_1", Type: model.EventAction, ActorLabel: "the driver",
			Uncertain: true, SpanIDs: []string{"stmt_1", "seg_1"}},
		model.AtomicStatement{ID: "stmt_1", Text: "The driver yelled at me.",
			Epistemic: model.EpistemicDirectEvent},
		model.Segment{ID: "seg_1"},
	)
	cls := ev.Classification
	if cls.CameraFriendly || cls.CameraReason != "actor uncertain" || cls.CameraConfidence != 0.8 {
		t.Errorf("uncertain actor reduces to a soft block, got %+v", cls)
	}
}

func TestClassifier_FollowUpAndProvenance(t *testing.T) {
	ev := classifyOne(t,
		model.Event{ID: "evt_1", Type: model.EventAction, ActorID: "ent_1",
			ActorLabel: "Reporter", SpanIDs: []string{"stmt_1", "seg_1"}},
		model.AtomicStatement{ID: "stmt_1", Text: "I filed a complaint the next morning.",
			Epistemic: model.EpistemicAdminAction, DerivedFrom: []string{"stmt_0"}},
		model.Segment{ID: "seg_1", Labels: []model.ContextLabel{model.ContextLegalProcess}},
	)
	cls := ev.Classification
	if !cls.FollowUp {
		t.Error("administrative actions are follow-ups")
	}
	if !cls.SourceDerived {
		t.Error("derived statements should mark the event source-derived")
	}
}

func TestClassifier_QuoteLabelCarries(t *testing.T) {
	ev := classifyOne(t,
		model.Event{ID: "evt_1", Type: model.EventVerbal, ActorID: "ent_2",
			ActorLabel: "Officer Jenkins", SpanIDs: []string{"stmt_1", "seg_1"}},
		model.AtomicStatement{ID: "stmt_1", Text: `He yelled "stop resisting" at me.`,
			Epistemic: model.EpistemicDirectEvent},
		model.Segment{ID: "seg_1", Labels: []model.ContextLabel{model.ContextDirectQuote}},
	)
	if !ev.Classification.ContainsQuote {
		t.Error("direct-quote segment label should carry into the classification")
	}
}
