// Package selection routes extracted atoms into rendered output sections.
// Selection is pure routing: it copies nothing, mutates nothing, and records
// a reason for every exclusion it makes.
package selection

import (
	"github.com/pvoloshyn/veridian/internal/model"
)

// Selector routes atoms by mode. STRICT keeps only invariant-clean,
// camera-friendly content in primary sections; FULL routes everything and
// relies on per-atom classification metadata downstream.
type Selector struct {
	mode model.SelectionMode
}

// NewSelector creates a selector in the given mode
func NewSelector(mode model.SelectionMode) *Selector {
	return &Selector{mode: mode}
}

// Input is the read-only view the selector works from
type Input struct {
	Statements    []model.AtomicStatement
	Events        []model.Event
	SpeechActs    []model.SpeechAct
	Entities      []model.Entity
	Timeline      []model.TimelineEntry
	Gaps          []model.TimeGap
	Uncertainties []model.UncertaintyMarker
	Quarantine    []model.QuarantineItem
}

// Select produces the section routing. Quarantined content never enters a
// primary section regardless of mode.
func (s *Selector) Select(in *Input) model.SelectionResult {
	res := model.SelectionResult{
		Mode:     s.mode,
		Sections: make(map[string][]string),
	}
	quarantined := make(map[string]bool, len(in.Quarantine))
	for _, q := range in.Quarantine {
		quarantined[q.ContentID] = true
	}

	s.routeEvents(in, &res, quarantined)
	s.routeStatements(in, &res, quarantined)
	s.routeQuotes(in, &res, quarantined)
	s.routeEntities(in, &res)
	s.routeTimeline(in, &res)
	s.routeOpenQuestions(in, &res)
	return res
}

func (s *Selector) routeEvents(in *Input, res *model.SelectionResult, quarantined map[string]bool) {
	for i := range in.Events {
		ev := &in.Events[i]
		if quarantined[ev.ID] {
			res.Exclusions = append(res.Exclusions, model.Exclusion{
				ID: ev.ID, Section: model.SectionObservedEvents, Reason: "quarantined",
			})
			continue
		}
		if s.mode == model.ModeStrict && !ev.Classification.CameraFriendly {
			res.Exclusions = append(res.Exclusions, model.Exclusion{
				ID: ev.ID, Section: model.SectionObservedEvents,
				Reason: ev.Classification.CameraReason,
			})
			continue
		}
		res.Sections[model.SectionObservedEvents] = append(res.Sections[model.SectionObservedEvents], ev.ID)
	}
}

func (s *Selector) routeStatements(in *Input, res *model.SelectionResult, quarantined map[string]bool) {
	for i := range in.Statements {
		st := &in.Statements[i]
		section, ok := sectionFor(st.Epistemic.RoutingBucket())
		if quarantined[st.ID] || !ok {
			res.Exclusions = append(res.Exclusions, model.Exclusion{
				ID: st.ID, Section: section, Reason: exclusionReason(st, quarantined[st.ID]),
			})
			continue
		}
		// Observed and quoted statements render through their events and
		// speech acts, not twice
		if section == model.SectionObservedEvents || section == model.SectionQuotes {
			continue
		}
		if s.mode == model.ModeStrict && st.HasFlag(model.FlagFragment) {
			res.Exclusions = append(res.Exclusions, model.Exclusion{
				ID: st.ID, Section: section, Reason: "sentence fragment",
			})
			continue
		}
		res.Sections[section] = append(res.Sections[section], st.ID)
	}
}

func (s *Selector) routeQuotes(in *Input, res *model.SelectionResult, quarantined map[string]bool) {
	for i := range in.SpeechActs {
		sa := &in.SpeechActs[i]
		if quarantined[sa.ID] {
			res.Exclusions = append(res.Exclusions, model.Exclusion{
				ID: sa.ID, Section: model.SectionQuotes, Reason: "quarantined",
			})
			continue
		}
		res.Sections[model.SectionQuotes] = append(res.Sections[model.SectionQuotes], sa.ID)
	}
}

func (s *Selector) routeEntities(in *Input, res *model.SelectionResult) {
	for i := range in.Entities {
		e := &in.Entities[i]
		if e.Excluded {
			res.Exclusions = append(res.Exclusions, model.Exclusion{
				ID: e.ID, Section: model.SectionEntities, Reason: e.ExcludeReason,
			})
			continue
		}
		res.Sections[model.SectionEntities] = append(res.Sections[model.SectionEntities], e.ID)
	}
}

func (s *Selector) routeTimeline(in *Input, res *model.SelectionResult) {
	for i := range in.Timeline {
		res.Sections[model.SectionTimeline] = append(res.Sections[model.SectionTimeline], in.Timeline[i].ID)
	}
}

// routeOpenQuestions gathers uncertainty markers and investigation-worthy
// gaps into one section
func (s *Selector) routeOpenQuestions(in *Input, res *model.SelectionResult) {
	for i := range in.Uncertainties {
		res.Sections[model.SectionOpenQuestions] = append(res.Sections[model.SectionOpenQuestions], in.Uncertainties[i].ID)
	}
	for i := range in.Gaps {
		if in.Gaps[i].RequiresInvestigation {
			res.Sections[model.SectionOpenQuestions] = append(res.Sections[model.SectionOpenQuestions], in.Gaps[i].ID)
		}
	}
}

// sectionFor maps a routing bucket to its rendered section. The quarantined
// bucket has no primary section.
func sectionFor(b model.RoutingBucket) (string, bool) {
	switch b {
	case model.BucketObserved:
		return model.SectionObservedEvents, true
	case model.BucketReported:
		return model.SectionReported, true
	case model.BucketInterpretive:
		return model.SectionInterpretations, true
	case model.BucketLegal:
		return model.SectionLegalClaims, true
	case model.BucketMedical:
		return model.SectionMedical, true
	case model.BucketAdministrative:
		return model.SectionAdministrative, true
	case model.BucketQuoted:
		return model.SectionQuotes, true
	default:
		return "", false
	}
}

func exclusionReason(st *model.AtomicStatement, quarantined bool) string {
	if quarantined {
		return "quarantined"
	}
	if st.HasFlag(model.FlagAberrated) {
		return "content excluded as unverifiable"
	}
	return "no primary section for " + string(st.Epistemic.RoutingBucket())
}
