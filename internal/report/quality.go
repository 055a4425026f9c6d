// Package report computes the transformation-quality assessment and renders
// the final report as markdown and JSON.
package report

import (
	"fmt"

	"github.com/pvoloshyn/veridian/internal/model"
)

// Assessor calculates the quality index and generates signals
type Assessor struct{}

// NewAssessor creates a new quality assessor
func NewAssessor() *Assessor {
	return &Assessor{}
}

// Assess computes the aggregate quality index and its diagnostic signals.
// The assessment reads the finished IR and never modifies it.
func (a *Assessor) Assess(res *model.TransformResult) model.Quality {
	var signals []model.Signal

	// 1. Actor resolution (0-30 points)
	actorScore, actorSignal := a.actorResolution(res.Events)
	signals = append(signals, actorSignal)

	// 2. Attribution coverage (0-25 points)
	attrScore, attrSignal := a.attributionCoverage(res.Statements)
	signals = append(signals, attrSignal)

	// 3. Temporal anchoring (0-25 points)
	timeScore, timeSignal := a.temporalAnchoring(res.Timeline)
	signals = append(signals, timeSignal)

	// 4. Quarantine rate (0-20 points)
	quarScore, quarSignal := a.quarantineRate(res.Quarantine, res.Events, res.Statements)
	signals = append(signals, quarSignal)

	// 5. Ambiguity (penalty)
	penalty, ambSignal := a.ambiguityPenalty(res.Uncertainties)
	if penalty > 0 {
		signals = append(signals, ambSignal)
	}

	total := actorScore + attrScore + timeScore + quarScore - penalty
	if total < 0 {
		total = 0
	}

	return model.Quality{
		Index:      total,
		Confidence: a.confidence(total, len(res.Events), len(res.Uncertainties)),
		Signals:    signals,
	}
}

// actorResolution scores how many events have a resolved actor (0-30)
func (a *Assessor) actorResolution(events []model.Event) (int, model.Signal) {
	if len(events) == 0 {
		return 0, model.Signal{
			Type:        model.SignalActorResolution,
			Severity:    model.SignalWarning,
			Description: "No events extracted",
			Data:        map[string]interface{}{"events": 0},
		}
	}
	resolved := 0
	for _, ev := range events {
		if (ev.ActorID != "" || ev.ActorLabel != "") && !ev.Uncertain {
			resolved++
		}
	}
	ratio := float64(resolved) / float64(len(events))
	score := int(ratio * 30)

	severity := model.SignalInfo
	if ratio < 0.5 {
		severity = model.SignalCritical
	} else if ratio < 0.8 {
		severity = model.SignalWarning
	}

	return score, model.Signal{
		Type:        model.SignalActorResolution,
		Severity:    severity,
		Description: fmt.Sprintf("Resolved actors: %d/%d events", resolved, len(events)),
		Data: map[string]interface{}{
			"resolved": resolved,
			"events":   len(events),
			"ratio":    ratio,
			"score":    score,
		},
	}
}

// attributionCoverage scores how many claims carry attribution (0-25)
func (a *Assessor) attributionCoverage(statements []model.AtomicStatement) (int, model.Signal) {
	claims := 0
	attributed := 0
	for i := range statements {
		st := &statements[i]
		if !st.Epistemic.IsLegalClaim() && st.Epistemic != model.EpistemicMedicalFinding {
			continue
		}
		claims++
		if st.AttributedText != "" {
			attributed++
		}
	}
	if claims == 0 {
		return 25, model.Signal{
			Type:        model.SignalAttribution,
			Severity:    model.SignalInfo,
			Description: "No legal or medical claims present",
			Data:        map[string]interface{}{"claims": 0, "score": 25},
		}
	}
	ratio := float64(attributed) / float64(claims)
	score := int(ratio * 25)

	severity := model.SignalInfo
	if ratio < 1.0 {
		severity = model.SignalWarning
	}

	return score, model.Signal{
		Type:        model.SignalAttribution,
		Severity:    severity,
		Description: fmt.Sprintf("Attributed claims: %d/%d", attributed, claims),
		Data: map[string]interface{}{
			"attributed": attributed,
			"claims":     claims,
			"ratio":      ratio,
			"score":      score,
		},
	}
}

// temporalAnchoring scores explicit and relative time coverage (0-25)
func (a *Assessor) temporalAnchoring(timeline []model.TimelineEntry) (int, model.Signal) {
	if len(timeline) == 0 {
		return 12, model.Signal{
			Type:        model.SignalTemporalAnchoring,
			Severity:    model.SignalInfo,
			Description: "No timeline entries (assuming moderate)",
			Data:        map[string]interface{}{"entries": 0, "score": 12},
		}
	}
	explicit, relative := 0, 0
	for _, e := range timeline {
		switch e.Source {
		case model.TimeExplicit:
			explicit++
		case model.TimeRelative:
			relative++
		}
	}
	weighted := float64(explicit*2+relative) / float64(len(timeline)*2)
	score := int(weighted * 25)

	severity := model.SignalInfo
	if explicit == 0 {
		severity = model.SignalWarning
	}

	return score, model.Signal{
		Type:        model.SignalTemporalAnchoring,
		Severity:    severity,
		Description: fmt.Sprintf("Time anchoring: %d explicit, %d relative, %d inferred", explicit, relative, len(timeline)-explicit-relative),
		Data: map[string]interface{}{
			"explicit": explicit,
			"relative": relative,
			"entries":  len(timeline),
			"score":    score,
		},
	}
}

// quarantineRate scores how much content survived quarantine (0-20)
func (a *Assessor) quarantineRate(quarantine []model.QuarantineItem, events []model.Event, statements []model.AtomicStatement) (int, model.Signal) {
	total := len(events) + len(statements)
	if total == 0 {
		return 0, model.Signal{
			Type:        model.SignalQuarantineRate,
			Severity:    model.SignalWarning,
			Description: "No content extracted",
			Data:        map[string]interface{}{"quarantined": 0},
		}
	}
	ratio := float64(len(quarantine)) / float64(total)
	score := int((1 - ratio) * 20)
	if score < 0 {
		score = 0
	}

	severity := model.SignalInfo
	if ratio > 0.5 {
		severity = model.SignalCritical
	} else if ratio > 0.2 {
		severity = model.SignalWarning
	}

	return score, model.Signal{
		Type:        model.SignalQuarantineRate,
		Severity:    severity,
		Description: fmt.Sprintf("Quarantined: %d of %d items", len(quarantine), total),
		Data: map[string]interface{}{
			"quarantined": len(quarantine),
			"total":       total,
			"ratio":       ratio,
			"score":       score,
		},
	}
}

// ambiguityPenalty deducts 3 points per unresolved ambiguity, capped at 15
func (a *Assessor) ambiguityPenalty(markers []model.UncertaintyMarker) (int, model.Signal) {
	if len(markers) == 0 {
		return 0, model.Signal{}
	}
	penalty := len(markers) * 3
	if penalty > 15 {
		penalty = 15
	}
	return penalty, model.Signal{
		Type:        model.SignalAmbiguity,
		Severity:    model.SignalWarning,
		Description: fmt.Sprintf("%d unresolved ambiguities", len(markers)),
		Data: map[string]interface{}{
			"markers": len(markers),
			"penalty": penalty,
		},
	}
}

func (a *Assessor) confidence(index, eventCount, ambiguities int) string {
	if eventCount == 0 {
		return "low"
	}
	if ambiguities > 2 {
		return "low-medium"
	}
	switch {
	case index >= 80:
		return "high"
	case index >= 60:
		return "medium"
	default:
		return "low"
	}
}
