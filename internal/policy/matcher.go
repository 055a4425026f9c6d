// Package policy loads YAML rulesets and applies deterministic text
// transformation rules to segments. Rules evaluate in priority-descending
// order, matches apply right to left so earlier offsets stay valid, and the
// first rule to claim a span wins.
package policy

import (
	"regexp"
	"strings"

	"github.com/pvoloshyn/veridian/internal/model"
)

// contextWindow is how far around a match the context words may appear
const contextWindow = 50

// matchSpan is one located match inside a segment's text
type matchSpan struct {
	start, end int
	text       string
}

// matcher evaluates one compiled MatchSpec against segment text
type matcher struct {
	spec     model.MatchSpec
	keywords []*regexp.Regexp // Compiled word-boundary patterns for keyword type
	regexes  []*regexp.Regexp // User regexes, invalid ones skipped at load
}

var quotedSpanRe = regexp.MustCompile(`"[^"]*"|“[^”]*”|'[^']*'`)

// compileMatcher prepares a spec for repeated evaluation. Invalid regex
// patterns are dropped rather than failing the whole ruleset.
func compileMatcher(spec model.MatchSpec) *matcher {
	m := &matcher{spec: spec}
	flags := "(?i)"
	if spec.CaseSensitive {
		flags = ""
	}
	switch spec.Type {
	case model.MatchKeyword:
		for _, p := range spec.Patterns {
			re, err := regexp.Compile(flags + `\b` + regexp.QuoteMeta(p) + `\b`)
			if err == nil {
				m.keywords = append(m.keywords, re)
			}
		}
	case model.MatchRegex:
		for _, p := range spec.Patterns {
			re, err := regexp.Compile(flags + p)
			if err == nil {
				m.regexes = append(m.regexes, re)
			}
		}
	}
	return m
}

// find returns every match of the match spec inside text, position-ascending
func (m *matcher) find(text string) []matchSpan {
	var spans []matchSpan
	switch m.spec.Type {
	case model.MatchKeyword:
		for _, re := range m.keywords {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				spans = append(spans, matchSpan{loc[0], loc[1], text[loc[0]:loc[1]]})
			}
		}
	case model.MatchPhrase:
		for _, p := range m.spec.Patterns {
			spans = append(spans, substrings(text, p, m.spec.CaseSensitive)...)
		}
	case model.MatchRegex:
		for _, re := range m.regexes {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				spans = append(spans, matchSpan{loc[0], loc[1], text[loc[0]:loc[1]]})
			}
		}
	case model.MatchQuoted:
		for _, loc := range quotedSpanRe.FindAllStringIndex(text, -1) {
			inner := text[loc[0]:loc[1]]
			if len(m.spec.Patterns) == 0 {
				spans = append(spans, matchSpan{loc[0], loc[1], inner})
				continue
			}
			for _, p := range m.spec.Patterns {
				if containsFold(inner, p, m.spec.CaseSensitive) {
					spans = append(spans, matchSpan{loc[0], loc[1], inner})
					break
				}
			}
		}
	}

	if len(m.spec.Context) > 0 {
		spans = m.filterByContext(text, spans)
	}
	sortSpans(spans)
	return spans
}

// filterByContext keeps only matches with every required context word nearby
func (m *matcher) filterByContext(text string, spans []matchSpan) []matchSpan {
	kept := spans[:0]
	for _, s := range spans {
		lo := s.start - contextWindow
		if lo < 0 {
			lo = 0
		}
		hi := s.end + contextWindow
		if hi > len(text) {
			hi = len(text)
		}
		window := strings.ToLower(text[lo:hi])
		all := true
		for _, c := range m.spec.Context {
			if !strings.Contains(window, strings.ToLower(c)) {
				all = false
				break
			}
		}
		if all {
			kept = append(kept, s)
		}
	}
	return kept
}

func substrings(text, needle string, caseSensitive bool) []matchSpan {
	hay, pat := text, needle
	if !caseSensitive {
		hay = strings.ToLower(text)
		pat = strings.ToLower(needle)
	}
	var spans []matchSpan
	for from := 0; ; {
		i := strings.Index(hay[from:], pat)
		if i < 0 {
			break
		}
		start := from + i
		spans = append(spans, matchSpan{start, start + len(pat), text[start : start+len(pat)]})
		from = start + len(pat)
	}
	return spans
}

func containsFold(hay, needle string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(hay, needle)
	}
	return strings.Contains(strings.ToLower(hay), strings.ToLower(needle))
}

func sortSpans(spans []matchSpan) {
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].start < spans[j-1].start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
}
