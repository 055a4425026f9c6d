package segment

import (
	"context"
	"testing"

	"github.com/pvoloshyn/veridian/internal/model"
	"github.com/pvoloshyn/veridian/internal/nlp"
)

func parseAndSegment(t *testing.T, text string) []model.Segment {
	t.Helper()
	parse, err := nlp.NewHeuristicParser().Parse(context.Background(), text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return NewSegmenter().Segment(text, parse)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello   world", "hello world"},
		{"line one\nline two", "line one line two"},
		{"para one\n\npara two", "para one\n\npara two"},
		{"para one\n\n\n\npara two", "para one\n\npara two"},
		{"  trimmed  ", "trimmed"},
		{"crlf\r\nhere", "crlf here"},
		{"tabs\t\there", "tabs here"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuoteRanges_Straight(t *testing.T) {
	text := `He said "stop now" and left.`
	ranges := QuoteRanges(text)
	if len(ranges) != 1 {
		t.Fatalf("expected 1 range, got %d", len(ranges))
	}
	if text[ranges[0].Start:ranges[0].End] != `"stop now"` {
		t.Errorf("unexpected range text %q", text[ranges[0].Start:ranges[0].End])
	}
}

func TestQuoteRanges_Curly(t *testing.T) {
	text := "She said “wait here” and “get down” twice."
	ranges := QuoteRanges(text)
	if len(ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(ranges))
	}
}

func TestQuoteRanges_UnclosedExtendsToEnd(t *testing.T) {
	text := `He yelled "get down and never finished`
	ranges := QuoteRanges(text)
	if len(ranges) != 1 {
		t.Fatalf("expected 1 range, got %d", len(ranges))
	}
	if ranges[0].End != len(text) {
		t.Errorf("unclosed quote should extend to end, got %d", ranges[0].End)
	}
}

func TestSegment_PlainSentences(t *testing.T) {
	text := "At 11:30 PM, I was walking home. Officer Jenkins grabbed my arm. Then he twisted it."
	segs := parseAndSegment(t, text)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if segs[0].ID != "seg_1" || segs[2].ID != "seg_3" {
		t.Errorf("unexpected ids %s/%s", segs[0].ID, segs[2].ID)
	}
	if segs[1].Text != "Officer Jenkins grabbed my arm." {
		t.Errorf("unexpected second segment %q", segs[1].Text)
	}
	for _, seg := range segs {
		if text[seg.Start:seg.End] != seg.Text {
			t.Errorf("segment %s offsets do not match text: %q", seg.ID, seg.Text)
		}
	}
}

func TestSegment_QuoteNeverSplit(t *testing.T) {
	text := `He grabbed me. "Stop resisting," he yelled. I froze.`
	segs := parseAndSegment(t, text)

	quotes := QuoteRanges(text)
	if len(quotes) != 1 {
		t.Fatalf("fixture should contain 1 quote, got %d", len(quotes))
	}
	// Each quote must sit entirely inside exactly one segment
	containing := 0
	for _, seg := range segs {
		if ContainsQuote(seg.Start, seg.End, quotes) {
			containing++
		}
	}
	if containing != 1 {
		t.Errorf("quote should be whole inside exactly one segment, got %d", containing)
	}
}

func TestSegment_MultiSentenceQuoteMerges(t *testing.T) {
	text := `The officer said "Get down. Do it now." and pushed me.`
	segs := parseAndSegment(t, text)

	quotes := QuoteRanges(text)
	for _, q := range quotes {
		found := false
		for _, seg := range segs {
			if q.Start >= seg.Start && q.End <= seg.End {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("quote %q split across segments", text[q.Start:q.End])
		}
	}
}

func TestSegment_QuoteDepthSet(t *testing.T) {
	text := `He yelled "get down" at me. Nothing else happened.`
	segs := parseAndSegment(t, text)
	if len(segs) < 2 {
		t.Fatalf("expected at least 2 segments, got %d", len(segs))
	}
	if segs[0].QuoteDepth != 1 {
		t.Errorf("quoted segment should have depth 1, got %d", segs[0].QuoteDepth)
	}
	if segs[1].QuoteDepth != 0 {
		t.Errorf("plain segment should have depth 0, got %d", segs[1].QuoteDepth)
	}
}

func TestSegment_Idempotent(t *testing.T) {
	text := `He grabbed me. "Stop resisting," he yelled. I froze.`
	first := parseAndSegment(t, text)
	second := parseAndSegment(t, text)
	if len(first) != len(second) {
		t.Fatalf("segmentation not stable: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Errorf("segment %d differs: %q vs %q", i, first[i].Text, second[i].Text)
		}
	}
}
