// Package nlp defines the upstream parser contract the pipeline consumes:
// sentence boundaries, per-token part-of-speech and dependency labels with
// head links, and named-entity spans. The pipeline never re-implements
// parsing; any backend satisfying Parser plugs in. A deterministic
// heuristic backend ships with the module so transformations run with no
// external service.
package nlp

import "context"

// POS is a coarse part-of-speech tag
type POS string

const (
	POSNoun  POS = "NOUN"
	POSPropn POS = "PROPN"
	POSPron  POS = "PRON"
	POSVerb  POS = "VERB"
	POSAux   POS = "AUX"
	POSAdj   POS = "ADJ"
	POSAdv   POS = "ADV"
	POSAdp   POS = "ADP"
	POSDet   POS = "DET"
	POSNum   POS = "NUM"
	POSPunct POS = "PUNCT"
	POSCconj POS = "CCONJ"
	POSSconj POS = "SCONJ"
	POSOther POS = "X"
)

// DepLabel is a dependency relation label
type DepLabel string

const (
	DepRoot   DepLabel = "root"
	DepConj   DepLabel = "conj"
	DepCC     DepLabel = "cc"
	DepAdvcl  DepLabel = "advcl"
	DepMark   DepLabel = "mark"
	DepCcomp  DepLabel = "ccomp"
	DepNsubj  DepLabel = "nsubj"
	DepDobj   DepLabel = "dobj"
	DepPobj   DepLabel = "pobj"
	DepDet    DepLabel = "det"
	DepAmod   DepLabel = "amod"
	DepAdvmod DepLabel = "advmod"
	DepPrep   DepLabel = "prep"
	DepAux    DepLabel = "aux"
	DepPunct  DepLabel = "punct"
	DepDep    DepLabel = "dep"
)

// Token is one parsed token with absolute character offsets into the input
type Token struct {
	Index    int      `json:"index"` // Position within the sentence
	Text     string   `json:"text"`
	Lower    string   `json:"lower"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	POS      POS      `json:"pos"`
	Dep      DepLabel `json:"dep"`
	Head     int      `json:"head"` // Sentence-local index; root points at itself
	Children []int    `json:"children,omitempty"`
}

// Sentence is one parsed sentence with its token list
type Sentence struct {
	Index  int     `json:"index"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Text   string  `json:"text"`
	Tokens []Token `json:"tokens"`
	Root   int     `json:"root"` // Index of the root token
}

// Subtree returns the indices of tok and everything attached below it,
// in ascending order.
func (s *Sentence) Subtree(tok int) []int {
	if tok < 0 || tok >= len(s.Tokens) {
		return nil
	}
	seen := make(map[int]bool)
	stack := []int{tok}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, s.Tokens[cur].Children...)
	}
	out := make([]int, 0, len(seen))
	for i := range s.Tokens {
		if seen[i] {
			out = append(out, i)
		}
	}
	return out
}

// EntitySpan is a named-entity span detected by the backend
type EntitySpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	Kind  string `json:"kind"` // "PERSON", "BADGE", ...
}

// Parse is the complete structured output for one input text
type Parse struct {
	Text      string       `json:"text"`
	Sentences []Sentence   `json:"sentences"`
	Entities  []EntitySpan `json:"entities,omitempty"`
}

// Parser is the upstream NLP collaborator contract
type Parser interface {
	Parse(ctx context.Context, text string) (*Parse, error)
}
