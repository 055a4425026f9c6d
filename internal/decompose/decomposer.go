// Package decompose splits each segment into atomic statements, one
// predicate per statement, using the dependency parse. Clause heads are
// the sentence root plus coordinated (conj), adverbial (advcl) and
// complement (ccomp) predicates; each head yields one statement whose text
// is the head's subtree minus tokens belonging to other clause heads and
// minus the leading connector word.
package decompose

import (
	"fmt"
	"strings"

	"github.com/pvoloshyn/veridian/internal/model"
	"github.com/pvoloshyn/veridian/internal/nlp"
	"github.com/pvoloshyn/veridian/internal/segment"
)

// Decomposer extracts atomic statements from parsed segments
type Decomposer struct{}

// NewDecomposer creates a new decomposer
func NewDecomposer() *Decomposer {
	return &Decomposer{}
}

// Decompose walks every segment and returns its atomic statements in
// reading order. A segment entirely inside direct-quote context becomes a
// single verbatim QUOTE statement, bypassing clause decomposition.
func (d *Decomposer) Decompose(text string, segments []model.Segment, parse *nlp.Parse) []model.AtomicStatement {
	quotes := segment.QuoteRanges(text)
	var statements []model.AtomicStatement
	next := 1

	for si := range segments {
		seg := &segments[si]

		if fullyQuoted(seg.Text) {
			statements = append(statements, model.AtomicStatement{
				ID:         fmt.Sprintf("stmt_%d", next),
				SegmentID:  seg.ID,
				Text:       seg.Text,
				Start:      seg.Start,
				End:        seg.End,
				Clause:     model.ClauseRoot,
				Hint:       model.HintQuote,
				Confidence: 1.0,
			})
			next++
			continue
		}

		for _, sent := range sentencesIn(parse, seg) {
			for _, st := range d.decomposeSentence(text, seg, sent, quotes) {
				st.ID = fmt.Sprintf("stmt_%d", next)
				next++
				statements = append(statements, st)
			}
		}
	}
	return statements
}

// sentencesIn returns the parsed sentences overlapping the segment. After
// quote-merge a segment may cover several parser sentences.
func sentencesIn(parse *nlp.Parse, seg *model.Segment) []*nlp.Sentence {
	var out []*nlp.Sentence
	for i := range parse.Sentences {
		s := &parse.Sentences[i]
		if s.Start < seg.End && s.End > seg.Start {
			out = append(out, s)
		}
	}
	return out
}

func (d *Decomposer) decomposeSentence(text string, seg *model.Segment, sent *nlp.Sentence, quotes []segment.QuoteRange) []model.AtomicStatement {
	heads := clauseHeads(sent)
	if len(heads) == 0 {
		return nil
	}
	headSet := make(map[int]bool, len(heads))
	for _, h := range heads {
		headSet[h] = true
	}

	var out []model.AtomicStatement
	for _, h := range heads {
		connector := ""

		// Keep only tokens whose nearest clause head is h; tokens under a
		// nested conj/advcl/ccomp predicate belong to that clause, so the
		// statements never overlap. The leading connector word is stored
		// separately.
		var kept []int
		for _, ti := range sent.Subtree(h) {
			t := sent.Tokens[ti]
			if (t.Dep == nlp.DepCC || t.Dep == nlp.DepMark) && t.Head == h {
				connector = t.Lower
				continue
			}
			if owningHead(sent, headSet, ti) != h {
				continue
			}
			kept = append(kept, ti)
		}
		if len(kept) == 0 {
			continue
		}

		// Removed tokens can leave the kept set non-contiguous; the
		// statement is the contiguous token run around its head.
		run := contiguousRun(kept, h)
		start := sent.Tokens[run[0]].Start
		end := sent.Tokens[run[len(run)-1]].End
		clauseText := strings.TrimSpace(text[start:end])
		if clauseText == "" {
			continue
		}

		clauseType, confidence := classifyClause(sent.Tokens[h].Dep)
		st := model.AtomicStatement{
			SegmentID:  seg.ID,
			Text:       clauseText,
			Start:      start,
			End:        end,
			Clause:     clauseType,
			Connector:  connector,
			Hint:       hintFor(clauseType, start, end, quotes),
			Confidence: confidence,
		}
		out = append(out, st)
	}
	return out
}

// owningHead walks the head links up from ti and returns the first clause
// head reached. Every token resolves to exactly one head.
func owningHead(sent *nlp.Sentence, headSet map[int]bool, ti int) int {
	for steps := 0; steps <= len(sent.Tokens); steps++ {
		if headSet[ti] {
			return ti
		}
		next := sent.Tokens[ti].Head
		if next == ti {
			return -1
		}
		ti = next
	}
	return -1
}

// contiguousRun returns the longest run of consecutive token indices in
// kept that contains h. kept is ascending.
func contiguousRun(kept []int, h int) []int {
	pos := 0
	for i, ti := range kept {
		if ti == h {
			pos = i
			break
		}
	}
	lo, hi := pos, pos
	for lo > 0 && kept[lo-1] == kept[lo]-1 {
		lo--
	}
	for hi < len(kept)-1 && kept[hi+1] == kept[hi]+1 {
		hi++
	}
	return kept[lo : hi+1]
}

// clauseHeads returns the indices of the sentence's clause head tokens in
// position order: the root plus every conj/advcl/ccomp predicate.
func clauseHeads(sent *nlp.Sentence) []int {
	var heads []int
	for i := range sent.Tokens {
		switch sent.Tokens[i].Dep {
		case nlp.DepRoot, nlp.DepConj, nlp.DepAdvcl, nlp.DepCcomp:
			heads = append(heads, i)
		}
	}
	return heads
}

func classifyClause(dep nlp.DepLabel) (model.ClauseType, float64) {
	switch dep {
	case nlp.DepConj:
		return model.ClauseCoordinated, 0.85
	case nlp.DepAdvcl:
		return model.ClauseAdverbial, 0.8
	case nlp.DepCcomp:
		return model.ClauseComplement, 0.8
	default:
		return model.ClauseRoot, 0.9
	}
}

// hintFor assigns the coarse pre-classification the epistemic tagger
// refines later
func hintFor(clause model.ClauseType, start, end int, quotes []segment.QuoteRange) model.TypeHint {
	for _, q := range quotes {
		if start >= q.Start && end <= q.End {
			return model.HintQuote
		}
	}
	switch clause {
	case model.ClauseAdverbial, model.ClauseComplement:
		return model.HintClaim
	default:
		return model.HintObservation
	}
}

// fullyQuoted reports whether a segment's trimmed text is one quoted span
func fullyQuoted(text string) bool {
	t := strings.TrimSpace(text)
	if len(t) < 2 {
		return false
	}
	openStraight := strings.HasPrefix(t, `"`) && strings.Count(t, `"`) == 2 && strings.HasSuffix(strings.TrimRight(t, ".!?"), `"`)
	openCurly := strings.HasPrefix(t, "“") && strings.HasSuffix(strings.TrimRight(t, ".!?"), "”")
	return openStraight || openCurly
}
