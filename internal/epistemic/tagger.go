// Package epistemic classifies atomic statements into the closed
// evidentiary taxonomy, attaches polarity and evidence-source labels,
// rephrases or quarantines dangerous content, and links derived statements
// back to the observations that justify them.
package epistemic

import (
	"regexp"

	"github.com/pvoloshyn/veridian/internal/model"
)

// Tagger performs priority-ordered epistemic classification. The pattern
// tables evaluate most-dangerous/most-specific first so a statement that
// matches several categories resolves deterministically.
type Tagger struct {
	conspiracy     []*regexp.Regexp
	legalDirect    []*regexp.Regexp
	legalAdmin     []*regexp.Regexp
	legalCausation []*regexp.Regexp
	legalAttorney  []*regexp.Regexp
	medical        []*regexp.Regexp
	interpretation []*regexp.Regexp
	selfReport     []*regexp.Regexp
	adminAction    []*regexp.Regexp

	srAcute    []*regexp.Regexp
	srInjury   []*regexp.Regexp
	srPsych    []*regexp.Regexp
	srSocio    []*regexp.Regexp

	denied       []*regexp.Regexp
	uncertain    []*regexp.Regexp
	hypothetical []*regexp.Regexp

	evDocument   []*regexp.Regexp
	evThirdParty []*regexp.Regexp
	verified     []*regexp.Regexp

	srcMedical      *regexp.Regexp
	srcWitness      *regexp.Regexp
	srcInvestigator *regexp.Regexp
	srcDocument     *regexp.Regexp
	srcOfficer      *regexp.Regexp
}

// NewTagger compiles the standard pattern tables
func NewTagger() *Tagger {
	return &Tagger{
		conspiracy: compile(
			`(?i)\balways protect (their|each other)`,
			`(?i)\bcover.?up\b`,
			`(?i)\bproves?\b.*\bconspiracy\b`,
			`(?i)\bthey('re| are) all (in on it|corrupt|lying)\b`,
			`(?i)\bthe (whole )?(system|department) is (rigged|corrupt)\b`,
		),
		legalDirect: compile(
			`(?i)\bexcessive force\b`,
			`(?i)\bracial(ly)? profil(e|ed|ing)\b`,
			`(?i)\bpolice brutality\b`,
			`(?i)\bfalse arrest\b`,
			`(?i)\bunlawful(ly)?\b`,
			`(?i)\billegal(ly)?\b`,
			`(?i)\bassault(ed)?\b`,
			`(?i)\bbattery\b`,
			`(?i)\bviolat(ed|ion of) my (civil )?rights\b`,
			`(?i)\bharass(ed|ment)\b`,
			`(?i)\bdiscriminat(ed|ion)\b`,
		),
		legalAdmin: compile(
			`(?i)\binternal affairs\b.*\b(sustained|unfounded|exonerated|found|concluded)\b`,
			`(?i)\bcomplaint was (sustained|unfounded|dismissed)\b`,
			`(?i)\b(suspended|disciplined|terminated|reprimanded)\b`,
			`(?i)\bthe department (found|ruled|concluded)\b`,
		),
		legalCausation: compile(
			`(?i)\bcaused by\b`,
			`(?i)\bas a (direct )?result of\b`,
			`(?i)\bresulting in\b`,
			`(?i)\bdue to the (incident|assault|injury|stop)\b`,
			`(?i)\bled to my\b`,
		),
		legalAttorney: compile(
			`(?i)\b(my|our|an|the) (attorney|lawyer|counsel)\b`,
			`(?i)\blegal opinion\b`,
		),
		medical: compile(
			`(?i)\bdiagnosed with\b`,
			`(?i)\bmedical records? (show|state|document|confirm)\b`,
			`(?i)\b(doctor|physician|nurse|provider|hospital|er)\b.*\b(diagnosed|documented|noted|found|confirmed|treated)\b`,
		),
		interpretation: compile(
			`(?i)\bobviously\b`,
			`(?i)\bclearly\b.*\b(wanted|meant|trying|intended)\b`,
			`(?i)\bdeliberately\b`,
			`(?i)\bintentionally\b`,
			`(?i)\bon purpose\b`,
			`(?i)\b(wanted|meant|intended) to\b`,
			`(?i)\btrying to (hurt|scare|intimidate|punish|teach)\b`,
			`(?i)\bmust have\b`,
			`(?i)\bi could tell\b`,
		),
		selfReport: compile(
			`(?i)\bi (felt|feel)\b`,
			`(?i)\bi was (scared|afraid|terrified|humiliated|in pain|hurt|shaking|panicking|embarrassed)\b`,
			`(?i)\bmy \w+ (hurt|hurts|ached|aches|was (bleeding|swollen|bruised|numb))\b`,
			`(?i)\bi (can't|cannot|couldn't) (sleep|work|eat|focus|concentrate)\b`,
			`(?i)\bi (lost|am losing)\b.*\b(job|work|income|apartment|housing)\b`,
			`(?i)\bi have (nightmares|anxiety|flashbacks|panic attacks)\b`,
		),
		adminAction: compile(
			`(?i)\bi (filed|called|reported|submitted|requested|contacted|visited|emailed|mailed)\b`,
			`(?i)\bi (went to|spoke (to|with)) the (precinct|station|department|office)\b`,
		),

		srAcute: compile(`(?i)\b(scared|afraid|terrified|panick?ing|in pain|shaking|frozen|fear)\b`),
		srInjury: compile(`(?i)\b(hurt|bruis|bleed|bleeding|swollen|sprain|fractur|numb|injur|sore|ache)\b`),
		srPsych: compile(`(?i)\b(nightmares?|anxiety|anxious|depress|sleep|flashbacks?|ptsd|panic attacks?|therapy)\b`),
		srSocio: compile(`(?i)\b(job|work|income|fired|evicted|rent|housing|money|bills)\b`),

		denied: compile(
			`(?i)\b(did|do|does) not\b`,
			`(?i)\b(didn't|don't|doesn't|wasn't|weren't|isn't|aren't)\b`,
			`(?i)\bnever\b`,
			`(?i)\bdenied\b`,
			`(?i)\bat no (point|time)\b`,
		),
		uncertain: compile(
			`(?i)\bi think\b`,
			`(?i)\bi believe\b`,
			`(?i)\bmaybe\b`,
			`(?i)\bperhaps\b`,
			`(?i)\bpossibly\b`,
			`(?i)\bseemed (like|to)\b`,
			`(?i)\bmight have\b`,
			`(?i)\bnot (entirely )?sure\b`,
			`(?i)\bi don't remember exactly\b`,
		),
		hypothetical: compile(
			`(?i)\bwould have\b`,
			`(?i)\bcould have\b.*\bif\b`,
			`(?i)\bif .* (would|could)\b`,
		),

		evDocument: compile(
			`(?i)\b(records?|reports?|documents?|citation|paperwork|transcript) (show|shows|state|states|say|says|confirm|confirms)\b`,
			`(?i)\baccording to the (report|record|document|citation)\b`,
		),
		evThirdParty: compile(
			`(?i)\b(witness|bystander|passenger|neighbor)\b`,
			`(?i)\b(someone|my \w+) (told|saw|heard)\b`,
		),
		verified: compile(
			`(?i)\b(verified|confirmed|corroborated|substantiated)\b`,
			`(?i)\b(proves?|proved|proven)\b`,
			`(?i)\bon (the )?record\b`,
			`(?i)\bit is a fact\b`,
		),

		srcMedical:      regexp.MustCompile(`(?i)\b(doctor|physician|nurse|provider|hospital)\b.*\b(said|told|diagnosed|documented|noted|found|confirmed)\b`),
		srcWitness:      regexp.MustCompile(`(?i)\b(witness|bystander)\b.*\b(said|told|stated|saw)\b`),
		srcInvestigator: regexp.MustCompile(`(?i)\b(investigator|detective|internal affairs)\b.*\b(said|found|concluded|ruled)\b`),
		srcDocument:     regexp.MustCompile(`(?i)\b(records?|reports?|documents?|citation)\b.*\b(show|state|say|confirm)`),
		srcOfficer:      regexp.MustCompile(`(?i)\b(officer|sergeant|deputy|detective)\b.*\b(said|told|stated|yelled|shouted|claimed)\b`),
	}
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

func matchAny(res []*regexp.Regexp, text string) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Tag classifies every statement's epistemic bundle in place. Fields are
// set exactly once here and never mutated by later passes.
func (t *Tagger) Tag(statements []model.AtomicStatement, segments []model.Segment) {
	segByID := make(map[string]*model.Segment, len(segments))
	for i := range segments {
		segByID[segments[i].ID] = &segments[i]
	}

	for i := range statements {
		st := &statements[i]
		seg := segByID[st.SegmentID]

		st.Epistemic = t.classify(st, seg)
		if st.Epistemic == model.EpistemicSelfReport {
			st.Subtype = t.selfReportSubtype(st.Text)
		}
		st.Polarity = t.polarity(st.Text)
		st.Evidence = t.evidenceSource(st)
		st.Source = t.speakerSource(st, seg)
		st.Provenance = t.provenanceStatus(st.Text)
	}
}

// provenanceStatus reads verification language off the statement text.
// Denied statements stay reported; "never verified" is not a verification.
func (t *Tagger) provenanceStatus(text string) model.ProvenanceStatus {
	if matchAny(t.verified, text) && !matchAny(t.denied, text) {
		return model.ProvenanceVerified
	}
	return model.ProvenanceReported
}

// classify runs the precedence chain: conspiracy, the four legal sub-types,
// medical finding, interpretation, self-report, admin action, then the
// direct-event default.
func (t *Tagger) classify(st *model.AtomicStatement, seg *model.Segment) model.EpistemicType {
	if st.Hint == model.HintQuote {
		return model.EpistemicQuote
	}
	text := st.Text
	switch {
	case matchAny(t.conspiracy, text):
		return model.EpistemicConspiracyClaim
	case matchAny(t.legalDirect, text):
		return model.EpistemicLegalClaimDirect
	case matchAny(t.legalAdmin, text):
		return model.EpistemicLegalClaimAdmin
	case matchAny(t.legalCausation, text):
		return model.EpistemicLegalClaimCausation
	case matchAny(t.legalAttorney, text):
		return model.EpistemicLegalClaimAttorney
	case matchAny(t.medical, text):
		return model.EpistemicMedicalFinding
	case matchAny(t.interpretation, text):
		return model.EpistemicInterpretation
	case matchAny(t.selfReport, text):
		return model.EpistemicSelfReport
	case matchAny(t.adminAction, text):
		return model.EpistemicAdminAction
	default:
		return model.EpistemicDirectEvent
	}
}

func (t *Tagger) selfReportSubtype(text string) model.SelfReportSubtype {
	switch {
	case matchAny(t.srPsych, text):
		return model.SelfReportStatePsych
	case matchAny(t.srInjury, text):
		return model.SelfReportStateInjury
	case matchAny(t.srAcute, text):
		return model.SelfReportStateAcute
	case matchAny(t.srSocio, text):
		return model.SelfReportSocioeconomic
	default:
		return model.SelfReportGeneral
	}
}

func (t *Tagger) polarity(text string) model.Polarity {
	switch {
	case matchAny(t.denied, text):
		return model.PolarityDenied
	case matchAny(t.hypothetical, text):
		return model.PolarityHypothetical
	case matchAny(t.uncertain, text):
		return model.PolarityUncertain
	default:
		return model.PolarityAsserted
	}
}

func (t *Tagger) evidenceSource(st *model.AtomicStatement) model.EvidenceSource {
	switch {
	case matchAny(t.evDocument, st.Text) || st.Epistemic == model.EpistemicLegalClaimAdmin:
		return model.EvidenceDocument
	case matchAny(t.evThirdParty, st.Text):
		return model.EvidenceThirdParty
	case st.Epistemic == model.EpistemicSelfReport:
		return model.EvidenceSelfReport
	case st.Epistemic == model.EpistemicInterpretation || st.Epistemic == model.EpistemicConspiracyClaim:
		return model.EvidenceInference
	default:
		return model.EvidenceDirectObservation
	}
}

func (t *Tagger) speakerSource(st *model.AtomicStatement, seg *model.Segment) model.StatementSource {
	text := st.Text
	switch {
	case t.srcMedical.MatchString(text):
		return model.SourceMedical
	case t.srcInvestigator.MatchString(text):
		return model.SourceInvestigator
	case t.srcWitness.MatchString(text):
		return model.SourceWitness
	case t.srcDocument.MatchString(text):
		return model.SourceDocument
	case st.Hint == model.HintQuote && seg != nil && seg.Speaker == model.SpeakerOfficer:
		return model.SourceOfficer
	case t.srcOfficer.MatchString(text):
		return model.SourceOfficer
	default:
		return model.SourceReporter
	}
}
