package segment

import (
	"regexp"
	"strings"

	"github.com/pvoloshyn/veridian/internal/model"
)

// detector is one lexical context detector. Detectors are independent and
// additive: a segment may match several.
type detector struct {
	label    model.ContextLabel
	patterns []*regexp.Regexp
}

// Annotator tags segments with context labels using ordered lexical
// detectors
type Annotator struct {
	detectors []detector
}

// NewAnnotator creates the standard detector set
func NewAnnotator() *Annotator {
	return &Annotator{
		detectors: []detector{
			{model.ContextDirectQuote, compileAll(
				`"[^"]+"`,
				`“[^”]+”`,
			)},
			{model.ContextPhysicalForce, compileAll(
				`(?i)\b(grabbed|pushed|shoved|hit|struck|slammed|kicked|punched|twisted|threw|choked|tackled|pinned|dragged|handcuffed|wrestled|restrained)\b`,
				`(?i)\b(force|forcibly|forced)\b`,
			)},
			{model.ContextChargeDesc, compileAll(
				`(?i)\b(charged with|cited for|citation|arrested for|booked|booking|resisting arrest|disorderly conduct)\b`,
			)},
			{model.ContextOpinionOnly, compileAll(
				`(?i)\b(i think|i believe|in my opinion|i feel like|it seemed|obviously|clearly|definitely)\b`,
			)},
			{model.ContextMedical, compileAll(
				`(?i)\b(doctor|hospital|nurse|diagnosed|injur(y|ies|ed)|bruis(e|es|ed|ing)|x.?ray|treatment|emergency room|medical|prescri(bed|ption)|therapist|therapy)\b`,
			)},
			{model.ContextLegalProcess, compileAll(
				`(?i)\b(filed|complaint|internal affairs|lawsuit|attorney|lawyer|court|sue|sued|legal action|report number)\b`,
			)},
			{model.ContextTemporalMarker, compileAll(
				`(?i)\b\d{1,2}:\d{2}\s*(am|pm|a\.m\.|p\.m\.)?\b`,
				`(?i)\b(the next day|the following (day|morning|week)|later that (day|night)|\d+\s+(minutes?|hours?|days?|weeks?|months?)\s+later)\b`,
			)},
			{model.ContextProfanity, compileAll(
				`(?i)\b(asshole|bastard|bitch|fucking|fuck|shit|pig|thug|scum)\b`,
			)},
		},
	}
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// Annotate applies every detector to every segment, attaching zero or more
// labels. It also refines the speaker type for quoted segments.
func (a *Annotator) Annotate(segments []model.Segment) {
	for i := range segments {
		seg := &segments[i]
		for _, d := range a.detectors {
			for _, re := range d.patterns {
				if re.MatchString(seg.Text) {
					seg.AddLabel(d.label)
					break
				}
			}
		}
		if seg.HasLabel(model.ContextDirectQuote) {
			seg.Speaker = quoteSpeaker(seg.Text)
		}
	}
}

// quoteSpeaker classifies whose voice a quoted segment carries by the
// attribution text outside the quote marks
func quoteSpeaker(text string) model.SpeakerType {
	outside := text
	if idx := strings.IndexAny(text, `"“`); idx >= 0 {
		outside = text[:idx]
	}
	lower := strings.ToLower(outside)
	switch {
	case strings.Contains(lower, "officer") || strings.Contains(lower, "sergeant") ||
		strings.Contains(lower, "deputy") || strings.Contains(lower, "detective"):
		return model.SpeakerOfficer
	case strings.Contains(lower, "witness") || strings.Contains(lower, "bystander"):
		return model.SpeakerWitness
	case strings.Contains(lower, " i ") || strings.HasPrefix(lower, "i "):
		return model.SpeakerNarrator
	default:
		return model.SpeakerSubject
	}
}
