// Package temporal implements the four-stage temporal reasoner: expression
// extraction and normalization, pairwise Allen-interval relations, global
// timeline ordering, and gap detection with generated investigation
// questions.
package temporal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pvoloshyn/veridian/internal/model"
)

// ExpressionExtractor detects and normalizes temporal expressions
type ExpressionExtractor struct {
	clockRe    *regexp.Regexp
	dateRe     *regexp.Regexp
	sequenceRe *regexp.Regexp
	duringRe   *regexp.Regexp
	nextDayRe  *regexp.Regexp
	durationRe *regexp.Regexp
	noonRe     *regexp.Regexp
}

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
}

// NewExpressionExtractor compiles the standard expression patterns
func NewExpressionExtractor() *ExpressionExtractor {
	return &ExpressionExtractor{
		clockRe:    regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm|a\.m\.|p\.m\.)?`),
		dateRe:     regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})`),
		sequenceRe: regexp.MustCompile(`(?i)\b(then|after that|afterwards|next,)\b`),
		duringRe:   regexp.MustCompile(`(?i)\b(while|meanwhile|at the same time)\b`),
		nextDayRe:  regexp.MustCompile(`(?i)\b(the next day|the following (?:day|morning|week)|next morning)\b`),
		durationRe: regexp.MustCompile(`(?i)\b(\d+|a few|several|a couple of)\s+(minutes?|hours?|days?|weeks?|months?)\s+later\b`),
		noonRe:     regexp.MustCompile(`(?i)\b(noon|midnight)\b`),
	}
}

// Extract finds every temporal expression in every segment, normalizing
// clock times to 24-hour T-form and dates to YYYY-MM-DD.
func (x *ExpressionExtractor) Extract(segments []model.Segment) []model.TemporalExpression {
	var out []model.TemporalExpression
	next := 1

	add := func(seg *model.Segment, start, end int, anchor model.AnchorType, normalized string, minutes, days int) {
		out = append(out, model.TemporalExpression{
			ID:         fmt.Sprintf("tex_%d", next),
			SegmentID:  seg.ID,
			Text:       seg.Text[start:end],
			Start:      seg.Start + start,
			End:        seg.Start + end,
			Anchor:     anchor,
			Normalized: normalized,
			Minutes:    minutes,
			Days:       days,
		})
		next++
	}

	for i := range segments {
		seg := &segments[i]

		// Duration markers first so "10 minutes later" is not also a
		// bare sequence match
		durSpans := x.durationRe.FindAllStringSubmatchIndex(seg.Text, -1)
		for _, m := range durSpans {
			count := seg.Text[m[2]:m[3]]
			unit := strings.ToLower(seg.Text[m[4]:m[5]])
			minutes, days := durationEstimate(count, unit)
			anchor := model.AnchorGap
			add(seg, m[0], m[1], anchor, "", minutes, days)
		}

		for _, m := range x.clockRe.FindAllStringSubmatchIndex(seg.Text, -1) {
			hour, _ := strconv.Atoi(seg.Text[m[2]:m[3]])
			minute, _ := strconv.Atoi(seg.Text[m[4]:m[5]])
			meridiem := ""
			if m[6] >= 0 {
				meridiem = strings.ToLower(strings.ReplaceAll(seg.Text[m[6]:m[7]], ".", ""))
			}
			add(seg, m[0], m[1], model.AnchorTime, normalizeClock(hour, minute, meridiem), 0, 0)
		}

		for _, m := range x.noonRe.FindAllStringSubmatchIndex(seg.Text, -1) {
			word := strings.ToLower(seg.Text[m[2]:m[3]])
			norm := "T12:00:00"
			if word == "midnight" {
				norm = "T00:00:00"
			}
			add(seg, m[0], m[1], model.AnchorTime, norm, 0, 0)
		}

		for _, m := range x.dateRe.FindAllStringSubmatchIndex(seg.Text, -1) {
			month := monthNumbers[strings.ToLower(seg.Text[m[2]:m[3]])]
			day, _ := strconv.Atoi(seg.Text[m[4]:m[5]])
			year, _ := strconv.Atoi(seg.Text[m[6]:m[7]])
			add(seg, m[0], m[1], model.AnchorDate, fmt.Sprintf("%04d-%02d-%02d", year, month, day), 0, 0)
		}

		for _, m := range x.nextDayRe.FindAllStringIndex(seg.Text, -1) {
			add(seg, m[0], m[1], model.AnchorNextDay, "", 0, 1)
		}

		for _, m := range x.sequenceRe.FindAllStringSubmatchIndex(seg.Text, -1) {
			if insideAny(m[0], durSpans) {
				continue
			}
			add(seg, m[0], m[1], model.AnchorSequence, "", 0, 0)
		}

		for _, m := range x.duringRe.FindAllStringIndex(seg.Text, -1) {
			add(seg, m[0], m[1], model.AnchorDuring, "", 0, 0)
		}
	}
	return out
}

// normalizeClock converts a 12-hour reading to T HH:MM:SS form.
// 12:00 PM is noon, 12:00 AM is midnight.
func normalizeClock(hour, minute int, meridiem string) string {
	switch meridiem {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return fmt.Sprintf("T%02d:%02d:00", hour, minute)
}

// durationEstimate converts a duration phrase into minutes and whole days.
// "a few minutes" is read as about 5, "a few hours" as about 180.
func durationEstimate(count, unit string) (minutes, days int) {
	n := 0
	switch strings.ToLower(count) {
	case "a few", "several":
		n = 3
	case "a couple of":
		n = 2
	default:
		n, _ = strconv.Atoi(count)
	}
	switch {
	case strings.HasPrefix(unit, "minute"):
		if strings.EqualFold(count, "a few") || strings.EqualFold(count, "several") {
			return 5, 0
		}
		return n, 0
	case strings.HasPrefix(unit, "hour"):
		return n * 60, 0
	case strings.HasPrefix(unit, "day"):
		return 0, n
	case strings.HasPrefix(unit, "week"):
		return 0, n * 7
	case strings.HasPrefix(unit, "month"):
		return 0, n * 30
	}
	return 0, 0
}

func insideAny(pos int, spans [][]int) bool {
	for _, s := range spans {
		if pos >= s[0] && pos < s[1] {
			return true
		}
	}
	return false
}
