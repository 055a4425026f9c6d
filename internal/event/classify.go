package event

import (
	"regexp"

	"github.com/pvoloshyn/veridian/internal/model"
)

// Classifier runs the post-extraction classification pass. Classification
// fields are set once per event and never mutated afterwards.
type Classifier struct {
	interpretiveRe *regexp.Regexp
	pronounRe      *regexp.Regexp
}

// NewClassifier creates the event classifier
func NewClassifier() *Classifier {
	return &Classifier{
		interpretiveRe: regexp.MustCompile(`(?i)\b(obviously|clearly|deliberately|intentionally|on purpose|wanted to|must have|seemed)\b`),
		pronounRe:      regexp.MustCompile(`(?i)^(he|she|they|it|him|her|them)\b`),
	}
}

// Classify fills every event's classification bundle from the statements
// that support it.
func (c *Classifier) Classify(events []model.Event, statements []model.AtomicStatement, segments []model.Segment) {
	stByID := make(map[string]*model.AtomicStatement, len(statements))
	for i := range statements {
		stByID[statements[i].ID] = &statements[i]
	}
	segByID := make(map[string]*model.Segment, len(segments))
	for i := range segments {
		segByID[segments[i].ID] = &segments[i]
	}

	for i := range events {
		ev := &events[i]
		st, seg := supportOf(ev, stByID, segByID)

		cls := model.EventClassification{}
		if st != nil {
			cls.Fragment = st.HasFlag(model.FlagFragment)
			cls.SourceDerived = len(st.DerivedFrom) > 0
			cls.ContainsInterpretive = st.Epistemic == model.EpistemicInterpretation ||
				st.HasFlag(model.FlagInterpretiveTail) || c.interpretiveRe.MatchString(st.Text)
			cls.FollowUp = st.Epistemic == model.EpistemicAdminAction
		}
		if seg != nil {
			cls.ContainsQuote = seg.HasLabel(model.ContextDirectQuote)
			if seg.HasLabel(model.ContextLegalProcess) && !seg.HasLabel(model.ContextPhysicalForce) {
				cls.FollowUp = true
			}
		}

		cls.CameraFriendly, cls.CameraReason, cls.CameraConfidence = c.cameraFriendly(ev, cls, st)
		ev.Classification = cls
	}
}

// cameraFriendly: a purely observable physical/verbal action with a
// resolved actor and no interpretive content
func (c *Classifier) cameraFriendly(ev *model.Event, cls model.EventClassification, st *model.AtomicStatement) (bool, string, float64) {
	switch {
	case ev.Type == model.EventObservation || ev.Type == model.EventStateChange:
		return false, "not an externally observable action", 0.9
	case ev.ActorID == "" && ev.ActorLabel == "":
		return false, "actor unresolved", 0.95
	case st != nil && st.HasFlag(model.FlagActorUnresolved):
		return false, "actor unresolved", 0.95
	case cls.Fragment:
		return false, "supporting statement is a fragment", 0.9
	case cls.ContainsInterpretive:
		return false, "contains interpretive framing", 0.85
	case ev.Uncertain:
		return false, "actor uncertain", 0.8
	default:
		return true, "observable action with resolved actor", 0.9
	}
}

func supportOf(ev *model.Event, stByID map[string]*model.AtomicStatement, segByID map[string]*model.Segment) (*model.AtomicStatement, *model.Segment) {
	var st *model.AtomicStatement
	var seg *model.Segment
	for _, id := range ev.SpanIDs {
		if s, ok := stByID[id]; ok && st == nil {
			st = s
		}
		if g, ok := segByID[id]; ok && seg == nil {
			seg = g
		}
	}
	return st, seg
}
