package epistemic

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pvoloshyn/veridian/internal/model"
)

// Attributor decides, for each classified statement, whether its content
// must be quarantined (aberration: no text exposed downstream), rephrased
// into a safely-attributable paraphrase, or passed through. The original
// statement text is never rewritten in place; derived text attaches
// alongside.
type Attributor struct {
	invective  []*regexp.Regexp
	legalTerms []legalTerm
	intentRe   *regexp.Regexp
}

type legalTerm struct {
	re    *regexp.Regexp
	term  string
	frame string // Attributed paraphrase, {term} substituted
}

// NewAttributor builds the standard term and pattern tables
func NewAttributor() *Attributor {
	return &Attributor{
		invective: compile(
			`(?i)\b(asshole|bastard|bitch|fucking|scum|pig|thug)\b`,
			`(?i)\b(all (cops|officers) are)\b`,
		),
		legalTerms: []legalTerm{
			{regexp.MustCompile(`(?i)\bexcessive force\b`), "excessive force",
				"reporter characterizes the level of force used as {term}"},
			{regexp.MustCompile(`(?i)\bracial(ly)? profil(e|ed|ing)\b`), "racial profiling",
				"reporter characterizes the stop as {term}"},
			{regexp.MustCompile(`(?i)\bpolice brutality\b`), "police brutality",
				"reporter characterizes the encounter as {term}"},
			{regexp.MustCompile(`(?i)\bfalse arrest\b`), "false arrest",
				"reporter characterizes the arrest as a {term}"},
			{regexp.MustCompile(`(?i)\bassault(ed)?\b`), "assault",
				"reporter characterizes the contact as {term}"},
			{regexp.MustCompile(`(?i)\bharass(ed|ment)\b`), "harassment",
				"reporter characterizes the conduct as {term}"},
			{regexp.MustCompile(`(?i)\bunlawful(ly)?\b`), "unlawful conduct",
				"reporter characterizes the conduct as {term}"},
			{regexp.MustCompile(`(?i)\bdiscriminat(ed|ion)\b`), "discrimination",
				"reporter characterizes the treatment as {term}"},
		},
		intentRe: regexp.MustCompile(`(?i)\b(deliberately|intentionally|on purpose|wanted to|meant to|trying to)\b`),
	}
}

// Apply processes every statement in place, attaching aberration flags or
// attributed paraphrases. Statements are never deleted.
func (a *Attributor) Apply(statements []model.AtomicStatement) []model.PolicyDecision {
	var decisions []model.PolicyDecision
	for i := range statements {
		st := &statements[i]

		// Unfalsifiable or invective content: quarantine, expose nothing
		if st.Epistemic == model.EpistemicConspiracyClaim || matchAny(a.invective, st.Text) {
			st.AddFlag(model.FlagAberrated)
			decisions = append(decisions, model.PolicyDecision{
				RuleID:      "attribution.aberrate",
				Action:      model.ActionRemove,
				Reason:      "unattributable dangerous content quarantined",
				AffectedIDs: []string{st.ID},
			})
			continue
		}

		// Extractable legal term: attributed paraphrase, term kept as metadata
		if lt, ok := a.findLegalTerm(st.Text); ok {
			st.ExtractedTerm = lt.term
			st.AttributedText = strings.ReplaceAll(lt.frame, "{term}", lt.term)
			st.AddFlag(model.FlagAttributed)
			decisions = append(decisions, model.PolicyDecision{
				RuleID:      "attribution.rephrase_legal",
				Action:      model.ActionReframe,
				Reason:      fmt.Sprintf("legal term %q reframed as reporter characterization", lt.term),
				AffectedIDs: []string{st.ID},
			})
			continue
		}

		// Intent/motive framing: attributed inference
		if st.Epistemic == model.EpistemicInterpretation {
			if loc := a.intentRe.FindStringIndex(st.Text); loc != nil {
				st.AttributedText = "reporter infers " + lowerFirst(st.Text)
			} else {
				st.AttributedText = "reporter perceives " + lowerFirst(st.Text)
			}
			st.AddFlag(model.FlagAttributed)
			decisions = append(decisions, model.PolicyDecision{
				RuleID:      "attribution.rephrase_interpretation",
				Action:      model.ActionReframe,
				Reason:      "interpretive content reframed as reporter inference",
				AffectedIDs: []string{st.ID},
			})
		}
	}
	return decisions
}

func (a *Attributor) findLegalTerm(text string) (legalTerm, bool) {
	for _, lt := range a.legalTerms {
		if lt.re.MatchString(text) {
			return lt, true
		}
	}
	return legalTerm{}, false
}

func lowerFirst(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if s[0] >= 'A' && s[0] <= 'Z' {
		return string(s[0]+32) + s[1:]
	}
	return s
}
