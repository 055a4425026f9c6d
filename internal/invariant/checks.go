package invariant

import (
	"fmt"
	"strings"

	"github.com/pvoloshyn/veridian/internal/model"
)

// standardChecks is the built-in invariant set. Order is stable so results
// and quarantine buckets are deterministic.
func standardChecks() []Check {
	return []Check{
		{
			ID: "EVENT_HAS_ACTOR", Severity: model.SeverityHard,
			Bucket: "events_without_actor", Kind: "event",
			Run: checkEventHasActor,
		},
		{
			ID: "EVENT_NOT_FRAGMENT", Severity: model.SeverityHard,
			Bucket: "fragment_events", Kind: "event",
			Run: checkEventNotFragment,
		},
		{
			ID: "EVENT_HAS_VERB", Severity: model.SeveritySoft,
			Kind: "event",
			Run:  checkEventHasVerb,
		},
		{
			ID: "QUOTE_HAS_SPEAKER", Severity: model.SeverityHard,
			Bucket: "unattributed_quotes", Kind: "quote",
			Run: checkQuoteHasSpeaker,
		},
		{
			ID: "CLAIM_HAS_PROVENANCE", Severity: model.SeverityHard,
			Bucket: "unsupported_claims", Kind: "statement",
			Run: checkClaimHasProvenance,
		},
		{
			ID: "VERIFIED_HAS_EVIDENCE", Severity: model.SeverityHard,
			Bucket: "unverified_claims", Kind: "statement",
			Run: checkVerifiedHasEvidence,
		},
		{
			ID: "ABERRATED_QUARANTINED", Severity: model.SeverityHard,
			Bucket: "aberrated_content", Kind: "statement",
			Run: checkAberrated,
		},
		{
			ID: "MEDICAL_HAS_ATTRIBUTION", Severity: model.SeveritySoft,
			Kind: "statement",
			Run:  checkMedicalAttribution,
		},
		{
			ID: "STATEMENT_TYPE_VALID", Severity: model.SeverityInfo,
			Kind: "statement",
			Run:  checkStatementTypeValid,
		},
	}
}

// An event rendered as observed must have a resolved actor: present, not a
// bare pronoun, and not an unidentified/unknown placeholder
func checkEventHasActor(in *Input) []model.InvariantResult {
	var out []model.InvariantResult
	for i := range in.Events {
		ev := &in.Events[i]
		ok := (ev.ActorID != "" || ev.ActorLabel != "") && !ev.Uncertain &&
			actorResolved(ev.ActorLabel)
		out = append(out, model.InvariantResult{
			ContentID: ev.ID, Passed: ok,
			Message: failUnless(ok, "event has no resolved actor"),
		})
	}
	return out
}

var barePronouns = map[string]bool{
	"he": true, "she": true, "they": true, "it": true,
	"him": true, "her": true, "them": true,
}

// actorResolved rejects labels that name nobody. An empty label is allowed
// here when an ActorID is present; presence is checked by the caller.
func actorResolved(label string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	if barePronouns[l] {
		return false
	}
	if strings.Contains(l, "unidentified") || strings.Contains(l, "unknown") {
		return false
	}
	return true
}

// An event built from a sentence fragment cannot stand alone
func checkEventNotFragment(in *Input) []model.InvariantResult {
	var out []model.InvariantResult
	for i := range in.Events {
		ev := &in.Events[i]
		ok := !ev.Classification.Fragment
		out = append(out, model.InvariantResult{
			ContentID: ev.ID, Passed: ok,
			Message: failUnless(ok, "supporting statement is a sentence fragment"),
		})
	}
	return out
}

func checkEventHasVerb(in *Input) []model.InvariantResult {
	var out []model.InvariantResult
	for i := range in.Events {
		ev := &in.Events[i]
		ok := ev.Verb != ""
		out = append(out, model.InvariantResult{
			ContentID: ev.ID, Passed: ok,
			Message: failUnless(ok, "event has no identified verb"),
		})
	}
	return out
}

// A verbatim quote rendered in the quotes section must name its speaker
func checkQuoteHasSpeaker(in *Input) []model.InvariantResult {
	var out []model.InvariantResult
	for i := range in.SpeechActs {
		sa := &in.SpeechActs[i]
		ok := sa.SpeakerID != ""
		out = append(out, model.InvariantResult{
			ContentID: sa.ID, Passed: ok,
			Message: failUnless(ok, "quote has no attributable speaker"),
		})
	}
	return out
}

// A legal or medical claim must carry provenance links or attribution
func checkClaimHasProvenance(in *Input) []model.InvariantResult {
	var out []model.InvariantResult
	for i := range in.Statements {
		st := &in.Statements[i]
		if !st.Epistemic.IsLegalClaim() {
			continue
		}
		ok := len(st.DerivedFrom) > 0 || st.AttributedText != ""
		out = append(out, model.InvariantResult{
			ContentID: st.ID, Passed: ok,
			Message: failUnless(ok, fmt.Sprintf("%s claim has neither provenance nor attribution", st.Epistemic)),
		})
	}
	return out
}

// A statement asserting verification must be backed by something other than
// the reporter: a document or third-party evidence source, a non-reporter
// speaker, or a provenance link to a non-reporter statement
func checkVerifiedHasEvidence(in *Input) []model.InvariantResult {
	byID := make(map[string]*model.AtomicStatement, len(in.Statements))
	for i := range in.Statements {
		byID[in.Statements[i].ID] = &in.Statements[i]
	}

	var out []model.InvariantResult
	for i := range in.Statements {
		st := &in.Statements[i]
		if st.Provenance != model.ProvenanceVerified {
			continue
		}
		ok := st.Source != model.SourceReporter ||
			st.Evidence == model.EvidenceDocument ||
			st.Evidence == model.EvidenceThirdParty
		if !ok {
			for _, id := range st.DerivedFrom {
				if from := byID[id]; from != nil && from.Source != model.SourceReporter {
					ok = true
					break
				}
			}
		}
		out = append(out, model.InvariantResult{
			ContentID: st.ID, Passed: ok,
			Message: failUnless(ok, "verification claim backed only by the reporter"),
		})
	}
	return out
}

// Aberrated statements always quarantine; their raw text is never rendered
func checkAberrated(in *Input) []model.InvariantResult {
	var out []model.InvariantResult
	for i := range in.Statements {
		st := &in.Statements[i]
		if !st.HasFlag(model.FlagAberrated) {
			continue
		}
		out = append(out, model.InvariantResult{
			ContentID: st.ID, Passed: false,
			Message: "content excluded as unverifiable",
		})
	}
	return out
}

func checkMedicalAttribution(in *Input) []model.InvariantResult {
	var out []model.InvariantResult
	for i := range in.Statements {
		st := &in.Statements[i]
		if st.Epistemic != model.EpistemicMedicalFinding {
			continue
		}
		ok := st.AttributedText != ""
		out = append(out, model.InvariantResult{
			ContentID: st.ID, Passed: ok,
			Message: failUnless(ok, "medical finding lacks provider attribution"),
		})
	}
	return out
}

func checkStatementTypeValid(in *Input) []model.InvariantResult {
	var out []model.InvariantResult
	for i := range in.Statements {
		st := &in.Statements[i]
		ok := st.Epistemic.Valid()
		out = append(out, model.InvariantResult{
			ContentID: st.ID, Passed: ok,
			Message: failUnless(ok, fmt.Sprintf("unknown epistemic type %q", st.Epistemic)),
		})
	}
	return out
}

func failUnless(ok bool, msg string) string {
	if ok {
		return ""
	}
	return msg
}
