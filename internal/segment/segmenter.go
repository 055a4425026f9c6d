// Package segment splits normalized narrative text into sentence-level
// segments, merging sentence candidates that fall inside quotation marks so
// a direct quote is never split mid-sentence, and annotates each segment
// with lexically-detected context labels.
package segment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pvoloshyn/veridian/internal/model"
	"github.com/pvoloshyn/veridian/internal/nlp"
)

// Segmenter builds segments from parsed sentence boundaries
type Segmenter struct{}

// NewSegmenter creates a new segmenter
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// QuoteRange is one top-level quoted span, offsets inclusive of the marks
type QuoteRange struct {
	Start int
	End   int
}

var wsRun = regexp.MustCompile(`[ \t]+`)
var paraRun = regexp.MustCompile(`\n{2,}`)

// Normalize collapses whitespace runs while preserving paragraph breaks.
// Input is expected to already be Unicode-NFC.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = paraRun.ReplaceAllString(text, "\x00")
	text = strings.ReplaceAll(text, "\n", " ")
	text = wsRun.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "\x00", "\n\n")
	return strings.TrimSpace(text)
}

// QuoteRanges computes all top-level double-quoted span ranges. Straight
// and curly quote marks are recognized; an unclosed quote extends to the
// end of the text.
func QuoteRanges(text string) []QuoteRange {
	var ranges []QuoteRange
	open := -1
	for i := 0; i < len(text); {
		r, size := decodeQuote(text[i:])
		switch {
		case open < 0 && (r == "\"" || r == "“"):
			open = i
		case open >= 0 && (r == "\"" || r == "”"):
			ranges = append(ranges, QuoteRange{Start: open, End: i + size})
			open = -1
		}
		i += size
	}
	if open >= 0 {
		ranges = append(ranges, QuoteRange{Start: open, End: len(text)})
	}
	return ranges
}

func decodeQuote(s string) (string, int) {
	if strings.HasPrefix(s, "“") {
		return "“", len("“")
	}
	if strings.HasPrefix(s, "”") {
		return "”", len("”")
	}
	return s[:1], 1
}

// Segment splits the text into quote-respecting sentence segments. A
// sentence candidate whose end falls inside a quote range is extended
// forward until it no longer intersects any quote boundary, so a quoted
// passage spanning internal sentence-final punctuation stays one segment.
// The operation is idempotent: segmenting already-merged boundaries again
// yields the same segments.
func (s *Segmenter) Segment(text string, parse *nlp.Parse) []model.Segment {
	quotes := QuoteRanges(text)

	type cand struct{ start, end int }
	var cands []cand
	for _, sent := range parse.Sentences {
		cands = append(cands, cand{sent.Start, sent.End})
	}

	var merged []cand
	for i := 0; i < len(cands); {
		cur := cands[i]
		j := i + 1
		for crossesQuote(cur.end, quotes) && j < len(cands) {
			cur.end = cands[j].end
			j++
		}
		merged = append(merged, cur)
		i = j
	}

	segments := make([]model.Segment, 0, len(merged))
	for i, c := range merged {
		// Include trailing terminator punctuation the parser may have
		// left just past the final token
		end := c.end
		for end < len(text) && isTerminator(text[end]) {
			end++
		}
		seg := model.Segment{
			ID:      fmt.Sprintf("seg_%d", i+1),
			Text:    text[c.start:end],
			Start:   c.start,
			End:     end,
			Speaker: model.SpeakerNarrator,
		}
		if depth := quoteDepth(c.start, end, quotes); depth > 0 {
			seg.QuoteDepth = depth
		}
		segments = append(segments, seg)
	}
	return segments
}

// crossesQuote reports whether offset falls strictly inside a quote range
func crossesQuote(offset int, quotes []QuoteRange) bool {
	for _, q := range quotes {
		if offset > q.Start && offset < q.End {
			return true
		}
	}
	return false
}

func quoteDepth(start, end int, quotes []QuoteRange) int {
	for _, q := range quotes {
		if q.Start >= start && q.End <= end {
			return 1
		}
	}
	return 0
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?' || b == '"'
}

// ContainsQuote reports whether any quote range lies entirely inside
// [start, end). Used by the no-segment-splits-a-quote property check.
func ContainsQuote(start, end int, quotes []QuoteRange) bool {
	for _, q := range quotes {
		if q.Start >= start && q.End <= end {
			return true
		}
	}
	return false
}
