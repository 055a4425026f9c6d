package invariant

import (
	"strings"
	"testing"

	"github.com/pvoloshyn/veridian/internal/model"
)

func TestEngine_AllChecksPassOnCleanInput(t *testing.T) {
	e := NewEngine()
	in := &Input{
		Events: []model.Event{
			{ID: "evt_1", ActorID: "ent_2", Verb: "grabbed", Description: "Officer Jenkins grabbed my arm"},
		},
		Statements: []model.AtomicStatement{
			{ID: "stmt_1", Text: "Officer Jenkins grabbed my arm.", Epistemic: model.EpistemicDirectEvent},
		},
		SpeechActs: []model.SpeechAct{
			{ID: "sa_1", SpeakerID: "ent_2", Quote: "Stop resisting"},
		},
	}

	results, quarantine := e.Run(in)
	if len(quarantine) != 0 {
		t.Fatalf("clean input should not quarantine anything, got %d items", len(quarantine))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %s failed on clean input: %s", r.InvariantID, r.Message)
		}
	}
}

func TestEngine_EventWithoutActorQuarantines(t *testing.T) {
	e := NewEngine()
	in := &Input{
		Events: []model.Event{
			{ID: "evt_1", Verb: "grabbed", Description: "someone grabbed my arm"},
		},
	}

	_, quarantine := e.Run(in)
	if len(quarantine) != 1 {
		t.Fatalf("expected 1 quarantine item, got %d", len(quarantine))
	}
	q := quarantine[0]
	if q.Bucket != "events_without_actor" {
		t.Errorf("unexpected bucket %q", q.Bucket)
	}
	if q.ContentID != "evt_1" || q.ContentKind != "event" {
		t.Errorf("unexpected identity: %s / %s", q.ContentID, q.ContentKind)
	}
	if q.Preview != "someone grabbed my arm" {
		t.Errorf("unexpected preview %q", q.Preview)
	}
}

func TestEngine_UncertainActorFailsActorCheck(t *testing.T) {
	e := NewEngine()
	in := &Input{
		Events: []model.Event{
			{ID: "evt_1", ActorLabel: "an officer", Uncertain: true, Verb: "pushed", Description: "an officer pushed me"},
		},
	}

	_, quarantine := e.Run(in)
	if len(quarantine) != 1 {
		t.Fatalf("uncertain actor should quarantine, got %d items", len(quarantine))
	}
}

func TestEngine_PlaceholderActorLabelsQuarantine(t *testing.T) {
	e := NewEngine()
	labels := []string{"an unidentified man", "unknown officer", "he", "them", "She"}
	for _, label := range labels {
		in := &Input{
			Events: []model.Event{
				{ID: "evt_1", ActorLabel: label, Verb: "pushed", Description: label + " pushed me"},
			},
		}
		_, quarantine := e.Run(in)
		if len(quarantine) != 1 {
			t.Errorf("actor label %q should quarantine, got %d items", label, len(quarantine))
			continue
		}
		if quarantine[0].Bucket != "events_without_actor" {
			t.Errorf("actor label %q: unexpected bucket %q", label, quarantine[0].Bucket)
		}
	}

	// A named actor whose label merely contains a pronoun substring passes
	in := &Input{
		Events: []model.Event{
			{ID: "evt_1", ActorLabel: "Officer Sheridan", Verb: "pushed", Description: "Officer Sheridan pushed me"},
		},
	}
	if _, quarantine := e.Run(in); len(quarantine) != 0 {
		t.Errorf("named actor should pass, got %d items", len(quarantine))
	}
}

func TestEngine_VerifiedClaimNeedsNonReporterBacking(t *testing.T) {
	e := NewEngine()

	reporterOnly := &Input{
		Statements: []model.AtomicStatement{
			{
				ID: "stmt_1", Text: "It is confirmed that he planned this.",
				Epistemic:  model.EpistemicDirectEvent,
				Source:     model.SourceReporter,
				Evidence:   model.EvidenceDirectObservation,
				Provenance: model.ProvenanceVerified,
			},
		},
	}
	_, quarantine := e.Run(reporterOnly)
	if len(quarantine) != 1 || quarantine[0].Bucket != "unverified_claims" {
		t.Fatalf("reporter-only verification should land in unverified_claims, got %+v", quarantine)
	}

	documentBacked := &Input{
		Statements: []model.AtomicStatement{
			{
				ID: "stmt_1", Text: "The report confirms he was on duty.",
				Epistemic:  model.EpistemicDirectEvent,
				Source:     model.SourceReporter,
				Evidence:   model.EvidenceDocument,
				Provenance: model.ProvenanceVerified,
			},
		},
	}
	if _, quarantine := e.Run(documentBacked); len(quarantine) != 0 {
		t.Errorf("document-backed verification should pass, got %d items", len(quarantine))
	}

	derivedFromWitness := &Input{
		Statements: []model.AtomicStatement{
			{
				ID: "stmt_1", Text: "The witness said she saw him push me.",
				Epistemic: model.EpistemicDirectEvent,
				Source:    model.SourceWitness,
				Evidence:  model.EvidenceThirdParty,
			},
			{
				ID: "stmt_2", Text: "That confirmed what happened.",
				Epistemic:   model.EpistemicDirectEvent,
				Source:      model.SourceReporter,
				Evidence:    model.EvidenceDirectObservation,
				Provenance:  model.ProvenanceVerified,
				DerivedFrom: []string{"stmt_1"},
			},
		},
	}
	if _, quarantine := e.Run(derivedFromWitness); len(quarantine) != 0 {
		t.Errorf("verification derived from a witness statement should pass, got %d items", len(quarantine))
	}
}

func TestEngine_MultipleHardFailuresGroupOnOneItem(t *testing.T) {
	e := NewEngine()
	in := &Input{
		Events: []model.Event{
			{
				ID: "evt_1", Description: "but twisted it",
				Classification: model.EventClassification{Fragment: true},
			},
		},
	}

	_, quarantine := e.Run(in)
	if len(quarantine) != 1 {
		t.Fatalf("failures on one item should group, got %d items", len(quarantine))
	}
	q := quarantine[0]
	if len(q.Failures) != 2 {
		t.Fatalf("expected 2 grouped failures, got %d: %v", len(q.Failures), q.Failures)
	}
	// First failing check names the bucket
	if q.Bucket != "events_without_actor" {
		t.Errorf("bucket should come from the first failing check, got %q", q.Bucket)
	}
}

func TestEngine_SoftFailureNeverQuarantines(t *testing.T) {
	e := NewEngine()
	in := &Input{
		Events: []model.Event{
			// Actor resolved, not a fragment, but no verb: only the SOFT check fails
			{ID: "evt_1", ActorID: "ent_2", Description: "something happened"},
		},
	}

	results, quarantine := e.Run(in)
	if len(quarantine) != 0 {
		t.Fatalf("soft failures must not quarantine, got %d items", len(quarantine))
	}
	var sawVerbFailure bool
	for _, r := range results {
		if r.InvariantID == "EVENT_HAS_VERB" && !r.Passed {
			sawVerbFailure = true
			if r.Severity != model.SeveritySoft {
				t.Errorf("expected soft severity, got %s", r.Severity)
			}
		}
	}
	if !sawVerbFailure {
		t.Error("expected EVENT_HAS_VERB to fail")
	}
}

func TestEngine_UnattributedQuoteQuarantines(t *testing.T) {
	e := NewEngine()
	in := &Input{
		SpeechActs: []model.SpeechAct{
			{ID: "sa_1", Quote: "get down"},
		},
	}

	_, quarantine := e.Run(in)
	if len(quarantine) != 1 {
		t.Fatalf("expected 1 quarantine item, got %d", len(quarantine))
	}
	if quarantine[0].Bucket != "unattributed_quotes" {
		t.Errorf("unexpected bucket %q", quarantine[0].Bucket)
	}
	if quarantine[0].Preview != "get down" {
		t.Errorf("unexpected preview %q", quarantine[0].Preview)
	}
}

func TestEngine_LegalClaimNeedsProvenanceOrAttribution(t *testing.T) {
	e := NewEngine()

	bare := &Input{
		Statements: []model.AtomicStatement{
			{ID: "stmt_1", Text: "This was excessive force.", Epistemic: model.EpistemicLegalClaimDirect},
		},
	}
	_, quarantine := e.Run(bare)
	if len(quarantine) != 1 || quarantine[0].Bucket != "unsupported_claims" {
		t.Fatalf("bare legal claim should land in unsupported_claims, got %+v", quarantine)
	}

	attributed := &Input{
		Statements: []model.AtomicStatement{
			{
				ID: "stmt_1", Text: "This was excessive force.",
				Epistemic:      model.EpistemicLegalClaimDirect,
				AttributedText: "reporter characterizes the level of force used as excessive force",
			},
		},
	}
	if _, quarantine := e.Run(attributed); len(quarantine) != 0 {
		t.Errorf("attributed legal claim should pass, got %d items", len(quarantine))
	}

	derived := &Input{
		Statements: []model.AtomicStatement{
			{
				ID: "stmt_2", Text: "so it was unlawful",
				Epistemic:   model.EpistemicLegalClaimDirect,
				DerivedFrom: []string{"stmt_1"},
			},
		},
	}
	if _, quarantine := e.Run(derived); len(quarantine) != 0 {
		t.Errorf("claim with provenance should pass, got %d items", len(quarantine))
	}
}

func TestEngine_AberratedStatementAlwaysQuarantinesWithEmptyPreview(t *testing.T) {
	e := NewEngine()
	in := &Input{
		Statements: []model.AtomicStatement{
			{
				ID: "stmt_1", Text: "those fucking pigs planned this",
				Epistemic: model.EpistemicConspiracyClaim,
				Flags:     []model.StatementFlag{model.FlagAberrated},
			},
		},
	}

	_, quarantine := e.Run(in)
	if len(quarantine) != 1 {
		t.Fatalf("expected 1 quarantine item, got %d", len(quarantine))
	}
	q := quarantine[0]
	if q.Bucket != "aberrated_content" {
		t.Errorf("unexpected bucket %q", q.Bucket)
	}
	if q.Preview != "" {
		t.Errorf("aberrated content must not leak raw text, got %q", q.Preview)
	}
	found := false
	for _, msg := range q.Failures {
		if strings.Contains(msg, "unverifiable") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the unverifiable message, got %v", q.Failures)
	}
}

func TestEngine_MedicalAttributionIsSoft(t *testing.T) {
	e := NewEngine()
	in := &Input{
		Statements: []model.AtomicStatement{
			{ID: "stmt_1", Text: "I have a concussion.", Epistemic: model.EpistemicMedicalFinding},
		},
	}

	results, quarantine := e.Run(in)
	if len(quarantine) != 0 {
		t.Errorf("medical attribution is soft and must not quarantine, got %d", len(quarantine))
	}
	var failed bool
	for _, r := range results {
		if r.InvariantID == "MEDICAL_HAS_ATTRIBUTION" && !r.Passed {
			failed = true
		}
	}
	if !failed {
		t.Error("expected MEDICAL_HAS_ATTRIBUTION to fail without attribution")
	}
}

func TestEngine_RegisterCustomCheck(t *testing.T) {
	e := NewEngine()
	e.Register(Check{
		ID: "ALWAYS_FAILS", Severity: model.SeverityHard,
		Bucket: "custom", Kind: "event",
		Run: func(in *Input) []model.InvariantResult {
			return []model.InvariantResult{{ContentID: "evt_1", Passed: false, Message: "custom failure"}}
		},
	})
	in := &Input{
		Events: []model.Event{
			{ID: "evt_1", ActorID: "ent_2", Verb: "ran", Description: "he ran"},
		},
	}

	_, quarantine := e.Run(in)
	if len(quarantine) != 1 || quarantine[0].Bucket != "custom" {
		t.Fatalf("custom check should quarantine into its bucket, got %+v", quarantine)
	}
}

func TestPreviewClipsLongText(t *testing.T) {
	long := strings.Repeat("a", 120)
	in := &Input{
		Events: []model.Event{{ID: "evt_1", Description: long}},
	}

	got := previewOf("evt_1", "event", in)
	if len(got) != 83 {
		t.Errorf("expected 80 chars plus ellipsis, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}
