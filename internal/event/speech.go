package event

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pvoloshyn/veridian/internal/model"
)

var quoteSpanRe = regexp.MustCompile(`"([^"]+)"|“([^”]+)”`)

// ExtractSpeechActs finds attributable quoted utterances. The speaker is
// the entity mentioned in the attribution text before the quote; a quote
// with no resolvable speaker stays unattributed and is caught later by the
// quote-has-speaker invariant.
func ExtractSpeechActs(segments []model.Segment, mentions []model.Mention, entities []model.Entity) []model.SpeechAct {
	labels := make(map[string]string, len(entities))
	roles := make(map[string]model.EntityRole, len(entities))
	for _, e := range entities {
		labels[e.ID] = e.Label
		roles[e.ID] = e.Role
	}

	var acts []model.SpeechAct
	next := 1
	for i := range segments {
		seg := &segments[i]
		if !seg.HasLabel(model.ContextDirectQuote) {
			continue
		}
		for _, m := range quoteSpanRe.FindAllStringSubmatchIndex(seg.Text, -1) {
			inner := firstGroup(seg.Text, m)
			act := model.SpeechAct{
				ID:        fmt.Sprintf("sa_%d", next),
				SegmentID: seg.ID,
				Quote:     inner,
				Verbatim:  true,
			}
			if id := speakerBefore(seg, seg.Start+m[0], mentions); id != "" {
				act.SpeakerID = id
				act.SpeakerLabel = labels[id]
			}
			next++
			acts = append(acts, act)
		}
	}
	return acts
}

func firstGroup(text string, m []int) string {
	if m[2] >= 0 {
		return text[m[2]:m[3]]
	}
	return text[m[4]:m[5]]
}

// speakerBefore finds the last non-reporter mention preceding the quote in
// the same segment; a narrator-voiced quote falls back to the reporter.
func speakerBefore(seg *model.Segment, quoteStart int, mentions []model.Mention) string {
	best := ""
	bestPos := -1
	reporter := ""
	for _, m := range mentions {
		if m.SegmentID != seg.ID || m.EntityID == "" || m.Start >= quoteStart {
			continue
		}
		if m.Type == model.MentionPronoun && strings.EqualFold(m.Text, "i") {
			reporter = m.EntityID
			continue
		}
		if m.Start > bestPos {
			best = m.EntityID
			bestPos = m.Start
		}
	}
	if best != "" {
		return best
	}
	if seg.Speaker == model.SpeakerNarrator {
		return reporter
	}
	return ""
}
