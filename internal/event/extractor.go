// Package event derives actor/verb/target structured events from parsed
// clauses, extracts attributable speech acts, and classifies events for
// rendering (camera-friendly, follow-up, fragment, source-derived).
package event

import (
	"fmt"
	"strings"

	"github.com/pvoloshyn/veridian/internal/model"
	"github.com/pvoloshyn/veridian/internal/nlp"
)

var (
	verbalVerbs   = setOf("said told yelled screamed shouted asked ordered demanded stated claimed replied answered denied")
	movementVerbs = setOf("walked ran drove fled arrived left went came approached entered exited returned stood sat")
	observeVerbs  = setOf("saw watched noticed observed heard")
	stateVerbs    = setOf("became started began stopped fell happened")
)

func setOf(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}

// Extractor derives events and speech acts from classified statements
type Extractor struct{}

// NewExtractor creates a new event extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract builds one event per eventful statement. Actor and target are
// entity references resolved through mentions; raw pronoun text never
// reaches an event.
func (x *Extractor) Extract(parse *nlp.Parse, statements []model.AtomicStatement, mentions []model.Mention, entities []model.Entity) []model.Event {
	labels := make(map[string]string, len(entities))
	for _, e := range entities {
		labels[e.ID] = e.Label
	}

	var events []model.Event
	next := 1
	for i := range statements {
		st := &statements[i]
		if st.HasFlag(model.FlagAberrated) || st.Epistemic == model.EpistemicQuote {
			continue
		}
		switch st.Epistemic {
		case model.EpistemicDirectEvent, model.EpistemicAdminAction, model.EpistemicInterpretation:
		default:
			continue
		}

		pred, sent := findPredicate(parse, st)
		if pred < 0 {
			continue
		}
		verb := sent.Tokens[pred].Lower

		ev := model.Event{
			ID:          fmt.Sprintf("evt_%d", next),
			Type:        verbType(verb),
			Verb:        verb,
			Description: strings.TrimRight(st.DisplayText(), "."),
			SpanIDs:     []string{st.ID, st.SegmentID},
			Confidence:  st.Confidence,
		}

		if subj := findDep(sent, pred, nlp.DepNsubj); subj >= 0 {
			if id := entityAt(mentions, sent.Tokens[subj].Start); id != "" {
				ev.ActorID = id
				ev.ActorLabel = labels[id]
			} else if sent.Tokens[subj].POS != nlp.POSPron {
				ev.ActorLabel = sent.Tokens[subj].Text
			} else {
				ev.Uncertain = true
			}
		} else {
			ev.Uncertain = true
		}

		if obj := findDepAny(sent, pred, nlp.DepDobj, nlp.DepPobj); obj >= 0 {
			if id := entityAt(mentions, sent.Tokens[obj].Start); id != "" {
				ev.TargetID = id
				ev.TargetLabel = labels[id]
			} else if sent.Tokens[obj].POS != nlp.POSPron {
				ev.TargetLabel = sent.Tokens[obj].Text
			}
		}

		if marker := temporalMarker(st.Text); marker != "" {
			ev.TemporalMarker = marker
		}

		next++
		events = append(events, ev)
	}
	return events
}

// findPredicate locates the clause-head token inside the statement's span
func findPredicate(parse *nlp.Parse, st *model.AtomicStatement) (int, *nlp.Sentence) {
	for si := range parse.Sentences {
		sent := &parse.Sentences[si]
		if sent.Start >= st.End || sent.End <= st.Start {
			continue
		}
		for ti := range sent.Tokens {
			t := &sent.Tokens[ti]
			if t.Start < st.Start || t.End > st.End {
				continue
			}
			switch t.Dep {
			case nlp.DepRoot, nlp.DepConj, nlp.DepAdvcl, nlp.DepCcomp:
				return ti, sent
			}
		}
	}
	return -1, nil
}

func findDep(sent *nlp.Sentence, head int, dep nlp.DepLabel) int {
	for _, c := range sent.Tokens[head].Children {
		if sent.Tokens[c].Dep == dep {
			return c
		}
	}
	return -1
}

func findDepAny(sent *nlp.Sentence, head int, deps ...nlp.DepLabel) int {
	for _, d := range deps {
		if i := findDep(sent, head, d); i >= 0 {
			return i
		}
	}
	return -1
}

// entityAt finds the entity a mention at this offset resolved to
func entityAt(mentions []model.Mention, offset int) string {
	for _, m := range mentions {
		if offset >= m.Start && offset < m.End {
			return m.EntityID
		}
	}
	return ""
}

func verbType(verb string) model.EventType {
	switch {
	case verbalVerbs[verb]:
		return model.EventVerbal
	case movementVerbs[verb]:
		return model.EventMovement
	case observeVerbs[verb]:
		return model.EventObservation
	case stateVerbs[verb]:
		return model.EventStateChange
	default:
		return model.EventAction
	}
}

func temporalMarker(text string) string {
	lower := strings.ToLower(text)
	for _, marker := range []string{"then", "while", "after that", "the next day", "later"} {
		if strings.Contains(lower, marker) {
			return marker
		}
	}
	return ""
}
