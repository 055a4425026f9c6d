package temporal

import (
	"fmt"
	"strconv"

	"github.com/pvoloshyn/veridian/internal/model"
)

// Gap classification thresholds
const (
	unexplainedThresholdMinutes = 5
)

// GapDetector classifies the interval between each adjacent timeline pair
// and generates investigation questions for gaps that need them.
type GapDetector struct{}

// NewGapDetector creates the gap detection pass
func NewGapDetector() *GapDetector {
	return &GapDetector{}
}

// Detect examines every adjacent entry pair. Precedence: a day-boundary
// change dominates; a relative-time marker on the later entry explains the
// gap; a computable gap over the threshold is unexplained; equal computed
// times with an inferred side are uncertain. Adjacent entries with no
// temporal signal are the same narrative beat and produce no gap.
func (d *GapDetector) Detect(entries []model.TimelineEntry, events []model.Event) []model.TimeGap {
	descs := make(map[string]string, len(events))
	for _, ev := range events {
		descs[ev.ID] = ev.Description
	}

	var gaps []model.TimeGap
	next := 1
	for i := 0; i+1 < len(entries); i++ {
		earlier, later := &entries[i], &entries[i+1]
		gap := d.classify(earlier, later, descs)
		if gap == nil {
			continue
		}
		gap.ID = fmt.Sprintf("gap_%d", next)
		gap.AfterEntryID = earlier.ID
		gap.BeforeEntryID = later.ID
		later.GapBeforeID = gap.ID
		next++
		gaps = append(gaps, *gap)
	}
	return gaps
}

func (d *GapDetector) classify(earlier, later *model.TimelineEntry, descs map[string]string) *model.TimeGap {
	from := descs[earlier.EventID]
	to := descs[later.EventID]

	if later.DayOffset != earlier.DayOffset {
		g := &model.TimeGap{
			Type:             model.GapDayBoundary,
			EstimatedMinutes: (later.DayOffset - earlier.DayOffset) * 24 * 60,
			Explanation:      later.RelativeTime,
		}
		if later.RelativeTime == "" {
			g.RequiresInvestigation = true
			g.SuggestedQuestion = fmt.Sprintf("What happened between %q and %q on the intervening day(s)?", from, to)
		}
		return g
	}

	if later.RelativeTime != "" {
		return &model.TimeGap{
			Type:        model.GapExplained,
			Explanation: later.RelativeTime,
		}
	}

	if minutes, ok := elapsedMinutes(earlier.NormalizedTime, later.NormalizedTime); ok {
		if minutes > unexplainedThresholdMinutes {
			return &model.TimeGap{
				Type:                  model.GapUnexplained,
				EstimatedMinutes:      minutes,
				RequiresInvestigation: true,
				SuggestedQuestion:     fmt.Sprintf("What happened during the %d minutes between %q and %q?", minutes, from, to),
			}
		}
		if minutes == 0 && (earlier.Source == model.TimeInferred || later.Source == model.TimeInferred) {
			return &model.TimeGap{
				Type:                  model.GapUncertain,
				RequiresInvestigation: true,
				SuggestedQuestion:     fmt.Sprintf("How much time passed between %q and %q?", from, to),
			}
		}
		return nil
	}

	// No computable interval and no markers: same narrative beat
	return nil
}

// elapsedMinutes computes the same-day interval between two normalized
// T HH:MM:SS values
func elapsedMinutes(a, b string) (int, bool) {
	ma, okA := clockMinutes(a)
	mb, okB := clockMinutes(b)
	if !okA || !okB {
		return 0, false
	}
	diff := mb - ma
	if diff < 0 {
		diff += 24 * 60
	}
	return diff, true
}

func clockMinutes(norm string) (int, bool) {
	if len(norm) != len("Thh:mm:ss") || norm[0] != 'T' {
		return 0, false
	}
	h, errH := strconv.Atoi(norm[1:3])
	m, errM := strconv.Atoi(norm[4:6])
	if errH != nil || errM != nil {
		return 0, false
	}
	return h*60 + m, true
}
