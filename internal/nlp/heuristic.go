package nlp

import (
	"context"
	"regexp"
	"strings"
)

// HeuristicParser is the built-in deterministic parsing backend: a regex
// tokenizer, lexicon-driven part-of-speech tagging, and a shallow
// dependency approximation good enough for clause decomposition. It exists
// so the pipeline runs without an external NLP service; a richer backend
// can replace it behind the Parser interface.
type HeuristicParser struct{}

// NewHeuristicParser creates the built-in parsing backend
func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{}
}

var tokenRe = regexp.MustCompile(`[A-Za-z0-9']+|[^\sA-Za-z0-9]`)

var (
	pronouns = wordSet("i me he him she it they them we us you myself himself herself themselves who whom someone anyone everybody nobody")
	possessives = wordSet("my his her its their our your mine hers ours yours whose")
	determiners = wordSet("the a an this these those each every another some any no")
	auxiliaries = wordSet("was were is are am be been being did do does had has have will would could should shall may might must can")
	cconjs      = wordSet("and but or nor so yet")
	sconjs      = wordSet("because since although though while when after before if unless until once whereas that which as")
	adpositions = wordSet("in on at by with from to into of for over under near during against toward towards off onto around through behind beside above below across along inside outside without")
	adverbs     = wordSet("then there here now very too also never not suddenly again later immediately soon afterwards meanwhile next still just only already yesterday today tonight")
	timeNouns   = wordSet("am pm a.m p.m oclock noon midnight morning afternoon evening night day week month year minute minutes hour hours")
	commonVerbs = wordSet("grabbed twisted pushed shoved hit struck slammed kicked punched threw pulled dragged pinned tackled choked squeezed said told yelled screamed shouted asked ordered demanded stated claimed denied refused replied answered walked ran drove arrived left fled approached entered exited returned stopped stood sat went came got took put gave saw watched noticed observed heard felt became started began happened called filed reported submitted requested contacted visited examined treated diagnosed prescribed handcuffed arrested searched detained cited charged released used pointed aimed wanted tried knew thought believed remember remembered fell grabbed lost found showed proved caused suffered experienced")
	speechVerbs = wordSet("said told stated claimed yelled screamed shouted asked replied answered denied admitted testified reported wrote")
	abbrevs     = wordSet("mr mrs ms dr st vs etc jr sr no lt sgt det capt approx")
)

func wordSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}

// Parse tokenizes, splits sentences, tags and builds the shallow
// dependency structure for the given text.
func (p *HeuristicParser) Parse(ctx context.Context, text string) (*Parse, error) {
	raw := tokenize(text)
	bounds := sentenceBounds(text, raw)

	parse := &Parse{Text: text}
	for si, b := range bounds {
		toks := make([]Token, 0, b.hi-b.lo)
		for _, rt := range raw[b.lo:b.hi] {
			toks = append(toks, Token{
				Text:  rt.text,
				Lower: strings.ToLower(rt.text),
				Start: rt.start,
				End:   rt.end,
			})
		}
		for i := range toks {
			toks[i].Index = i
		}
		sent := Sentence{
			Index:  si,
			Start:  toks[0].Start,
			End:    toks[len(toks)-1].End,
			Tokens: toks,
		}
		sent.Text = text[sent.Start:sent.End]
		tagPOS(sent.Tokens)
		buildDeps(&sent)
		parse.Sentences = append(parse.Sentences, sent)
	}

	parse.Entities = findEntities(text)
	return parse, nil
}

type rawToken struct {
	text       string
	start, end int
}

func tokenize(text string) []rawToken {
	idx := tokenRe.FindAllStringIndex(text, -1)
	out := make([]rawToken, 0, len(idx))
	for _, pair := range idx {
		out = append(out, rawToken{text: text[pair[0]:pair[1]], start: pair[0], end: pair[1]})
	}
	return out
}

type bound struct{ lo, hi int }

// sentenceBounds finds sentence-final terminators, guarding against
// abbreviations and decimal/clock numbers.
func sentenceBounds(text string, toks []rawToken) []bound {
	var bounds []bound
	lo := 0
	for i, t := range toks {
		if t.text != "." && t.text != "!" && t.text != "?" {
			continue
		}
		// Decimal or clock number: digit on both sides with no space
		if t.text == "." && i > 0 && i+1 < len(toks) &&
			isDigit(toks[i-1].text) && isDigit(toks[i+1].text) && toks[i+1].start == t.end {
			continue
		}
		// Abbreviation guard
		if t.text == "." && i > 0 {
			prev := strings.ToLower(toks[i-1].text)
			if abbrevs[prev] || len(prev) == 1 {
				continue
			}
		}
		// Must be followed by end of input, or whitespace then capital/quote/digit
		if i+1 < len(toks) {
			next := toks[i+1]
			if next.start == t.end {
				continue // No whitespace after terminator
			}
			r := next.text[0]
			if !(r >= 'A' && r <= 'Z') && r != '"' && !strings.HasPrefix(next.text, "“") && !(r >= '0' && r <= '9') {
				continue
			}
		}
		if i+1 > lo {
			bounds = append(bounds, bound{lo, i + 1})
		}
		lo = i + 1
	}
	if lo < len(toks) {
		bounds = append(bounds, bound{lo, len(toks)})
	}
	return bounds
}

func isDigit(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func tagPOS(toks []Token) {
	firstWord := -1
	for i := range toks {
		if isWord(toks[i].Text) {
			firstWord = i
			break
		}
	}

	for i := range toks {
		t := &toks[i]
		switch {
		case !isWord(t.Text):
			t.POS = POSPunct
		case isDigit(t.Text):
			t.POS = POSNum
		case pronouns[t.Lower], possessives[t.Lower]:
			t.POS = POSPron
		case determiners[t.Lower]:
			t.POS = POSDet
		case auxiliaries[t.Lower]:
			t.POS = POSAux
		case cconjs[t.Lower]:
			t.POS = POSCconj
		case sconjs[t.Lower]:
			t.POS = POSSconj
		case adpositions[t.Lower]:
			t.POS = POSAdp
		case adverbs[t.Lower]:
			t.POS = POSAdv
		case timeNouns[t.Lower]:
			t.POS = POSNoun
		case commonVerbs[t.Lower]:
			t.POS = POSVerb
		case strings.HasSuffix(t.Lower, "ly") && len(t.Lower) > 4:
			t.POS = POSAdv
		case isCapitalized(t.Text) && i != firstWord:
			t.POS = POSPropn
		case strings.HasSuffix(t.Lower, "ed") && len(t.Lower) > 4:
			t.POS = POSVerb
		case strings.HasSuffix(t.Lower, "ing") && len(t.Lower) > 5 && i > 0 && toks[i-1].POS == POSAux:
			t.POS = POSVerb
		case isCapitalized(t.Text) && i == firstWord && i+1 < len(toks) && isCapitalized(toks[i+1].Text):
			t.POS = POSPropn
		default:
			t.POS = POSNoun
		}
	}
}

func isWord(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func isCapitalized(s string) bool {
	return len(s) > 1 && s[0] >= 'A' && s[0] <= 'Z' && s[1] >= 'a' && s[1] <= 'z'
}

// clause is a contiguous token region headed by one predicate
type clause struct {
	start, end int // Token index range [start, end)
	pred       int // Predicate token index, -1 if none
	connector  int // Leading cc/mark token index, -1 if none
	kind       DepLabel
}

// buildDeps assigns a shallow dependency structure: the sentence splits
// into clause regions at conjunctions that introduce a new predicate, every
// token attaches to its clause predicate, and subjects/objects are the
// nearest nominals around each predicate.
func buildDeps(s *Sentence) {
	toks := s.Tokens
	clauses := splitClauses(toks)

	rootPred := -1
	for ci, c := range clauses {
		if c.pred < 0 {
			continue
		}
		if rootPred < 0 {
			rootPred = c.pred
			clauses[ci].kind = DepRoot
		}
	}
	if rootPred < 0 {
		rootPred = 0
	}
	s.Root = rootPred

	for i := range toks {
		toks[i].Head = rootPred
		toks[i].Dep = DepDep
	}

	for _, c := range clauses {
		pred := c.pred
		if pred < 0 {
			pred = rootPred
		}
		if c.pred >= 0 {
			toks[c.pred].Dep = c.kind
			if c.kind == DepRoot {
				toks[c.pred].Head = c.pred
			} else {
				toks[c.pred].Head = rootPred
			}
		}
		if c.connector >= 0 {
			if toks[c.connector].POS == POSCconj {
				toks[c.connector].Dep = DepCC
			} else {
				toks[c.connector].Dep = DepMark
			}
			toks[c.connector].Head = pred
		}

		subj, obj := -1, -1
		sawAdp := false
		for i := c.start; i < c.end; i++ {
			if i == c.pred || i == c.connector {
				continue
			}
			t := &toks[i]
			t.Head = pred
			switch {
			case t.POS == POSPunct:
				t.Dep = DepPunct
			case t.POS == POSAux:
				t.Dep = DepAux
			case t.POS == POSDet || possessives[t.Lower]:
				t.Dep = DepDet
			case t.POS == POSAdj:
				t.Dep = DepAmod
			case t.POS == POSAdv:
				t.Dep = DepAdvmod
			case t.POS == POSAdp:
				t.Dep = DepPrep
				if c.pred >= 0 && i > c.pred {
					sawAdp = true
				}
			case isNominal(t):
				if c.pred >= 0 && i < c.pred {
					subj = i // Last nominal before the predicate
				} else if c.pred >= 0 && i > c.pred && obj < 0 {
					obj = i
					if sawAdp {
						t.Dep = DepPobj
					} else {
						t.Dep = DepDobj
					}
					continue
				}
				t.Dep = DepDep
			}
		}
		if subj >= 0 {
			toks[subj].Dep = DepNsubj
		}
	}

	// Root points at itself; everyone else contributes to Children
	for i := range toks {
		h := toks[i].Head
		if h == i {
			continue
		}
		toks[h].Children = append(toks[h].Children, i)
	}
}

func isNominal(t *Token) bool {
	if possessives[t.Lower] {
		return false
	}
	return t.POS == POSNoun || t.POS == POSPropn || t.POS == POSPron
}

// splitClauses cuts the token list at conjunctions followed by a fresh
// predicate. The connector stays with the clause it introduces.
func splitClauses(toks []Token) []clause {
	var clauses []clause
	cur := clause{start: 0, pred: -1, connector: -1, kind: DepRoot}

	predAfter := func(from int) int {
		for i := from; i < len(toks); i++ {
			if toks[i].POS == POSCconj || toks[i].POS == POSSconj {
				return -1
			}
			if toks[i].POS == POSVerb {
				return i
			}
		}
		return -1
	}

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		isConn := t.POS == POSCconj || t.POS == POSSconj
		if isConn && cur.pred >= 0 && predAfter(i+1) >= 0 {
			cur.end = i
			clauses = append(clauses, cur)

			kind := DepConj
			if t.POS == POSSconj {
				kind = DepAdvcl
				if t.Lower == "that" && cur.pred >= 0 && speechVerbs[toks[cur.pred].Lower] {
					kind = DepCcomp
				}
			}
			cur = clause{start: i, pred: -1, connector: i, kind: kind}
			continue
		}
		if t.POS == POSVerb && cur.pred < 0 {
			cur.pred = i
		}
	}
	// Fall back to an auxiliary predicate for verbless clauses ("he was angry")
	cur.end = len(toks)
	clauses = append(clauses, cur)
	for ci := range clauses {
		if clauses[ci].pred >= 0 {
			continue
		}
		for i := clauses[ci].start; i < clauses[ci].end; i++ {
			if toks[i].POS == POSAux {
				clauses[ci].pred = i
				break
			}
		}
	}
	return clauses
}

var (
	titleNameRe = regexp.MustCompile(`\b(Officer|Sergeant|Detective|Deputy|Lieutenant|Captain|Chief|Nurse|Doctor|Dr\.|Mr\.|Mrs\.|Ms\.)\s+([A-Z][a-zA-Z]+)`)
	badgeRe     = regexp.MustCompile(`(?i)badge\s*(?:number|#|no\.?)?\s*(\d+)`)
)

// findEntities detects title+name person spans and badge identifiers
func findEntities(text string) []EntitySpan {
	var spans []EntitySpan
	for _, m := range titleNameRe.FindAllStringIndex(text, -1) {
		spans = append(spans, EntitySpan{
			Start: m[0], End: m[1], Text: text[m[0]:m[1]], Kind: "PERSON",
		})
	}
	for _, m := range badgeRe.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, EntitySpan{
			Start: m[0], End: m[1], Text: text[m[2]:m[3]], Kind: "BADGE",
		})
	}
	return spans
}

// PronounFeatures returns the gender/number features of a pronoun surface
// form, for recency-window coreference matching.
func PronounFeatures(lower string) (gender, number string) {
	switch lower {
	case "he", "him", "his", "himself":
		return "masculine", "singular"
	case "she", "her", "hers", "herself":
		return "feminine", "singular"
	case "it", "its", "itself":
		return "neuter", "singular"
	case "they", "them", "their", "theirs", "themselves":
		return "unknown", "plural"
	default:
		return "unknown", "singular"
	}
}

// IsThirdPersonPronoun reports whether the form needs coreference resolution
func IsThirdPersonPronoun(lower string) bool {
	switch lower {
	case "he", "him", "his", "she", "her", "hers", "it", "its", "they", "them", "their":
		return true
	}
	return false
}

// IsFirstPersonPronoun reports whether the form refers to the reporter
func IsFirstPersonPronoun(lower string) bool {
	switch lower {
	case "i", "me", "my", "mine", "myself", "we", "us", "our", "ours":
		return true
	}
	return false
}
