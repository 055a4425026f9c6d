package epistemic

import "github.com/pvoloshyn/veridian/internal/model"

// Linker populates derived_from provenance links: interpretive and
// structurally-derived statements point back at the earlier observations or
// claims in the same segment that justify them. Links are additive
// metadata; a statement's own classification never changes here.
type Linker struct{}

// NewLinker creates a provenance linker
func NewLinker() *Linker {
	return &Linker{}
}

var causalConnectors = map[string]bool{
	"because": true,
	"since":   true,
	"as":      true,
}

// Link fills DerivedFrom for every derived statement. Candidate sources
// are restricted to root/coordinated statements occurring earlier in the
// same segment; derived_from ids therefore always precede the statement in
// segment order.
func (l *Linker) Link(statements []model.AtomicStatement) {
	// Group indices per segment, preserving order
	bySegment := make(map[string][]int)
	var segOrder []string
	for i := range statements {
		sid := statements[i].SegmentID
		if _, seen := bySegment[sid]; !seen {
			segOrder = append(segOrder, sid)
		}
		bySegment[sid] = append(bySegment[sid], i)
	}

	for _, sid := range segOrder {
		idxs := bySegment[sid]
		for pos, i := range idxs {
			st := &statements[i]
			if !isDerived(st) {
				continue
			}

			if causalConnectors[st.Connector] {
				// Causal connector pulls in all earlier root+coordinated
				// statements in the segment
				for _, j := range idxs[:pos] {
					src := &statements[j]
					if src.Clause == model.ClauseRoot || src.Clause == model.ClauseCoordinated {
						st.DerivedFrom = append(st.DerivedFrom, src.ID)
					}
				}
				continue
			}

			// Structural derivation without a causal signal: nearest earlier
			// root/coordinated statement
			if linked := nearestSource(statements, idxs[:pos]); linked != "" {
				st.DerivedFrom = append(st.DerivedFrom, linked)
				continue
			}

			// No clause-structural signal at all: fall back to all preceding
			// claim/observation statements in the segment
			for _, j := range idxs[:pos] {
				src := &statements[j]
				if src.Hint == model.HintClaim || src.Hint == model.HintObservation {
					st.DerivedFrom = append(st.DerivedFrom, src.ID)
				}
			}
		}
	}
}

func isDerived(st *model.AtomicStatement) bool {
	switch st.Clause {
	case model.ClauseAdverbial, model.ClauseComplement:
		return true
	}
	return st.Epistemic == model.EpistemicInterpretation
}

func nearestSource(statements []model.AtomicStatement, earlier []int) string {
	for k := len(earlier) - 1; k >= 0; k-- {
		src := &statements[earlier[k]]
		if src.Clause == model.ClauseRoot || src.Clause == model.ClauseCoordinated {
			return src.ID
		}
	}
	return ""
}
