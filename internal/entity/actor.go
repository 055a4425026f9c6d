package entity

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pvoloshyn/veridian/internal/model"
)

// ActorResolver rewrites atomic-statement text so every actor reference is
// a resolved entity label or an explicit unresolved flag, detects sentence
// fragments, and splits quote+interpretation compound statements.
type ActorResolver struct {
	quoteInterpRe *regexp.Regexp
	leadPronounRe *regexp.Regexp
}

// Connector words that mark a fragment when they begin a statement
var fragmentLeads = map[string]bool{
	"but": true, "and": true, "or": true, "which": true, "who": true,
	"suddenly": true, "because": true, "although": true, "since": true,
	"while": true, "that": true,
}

// NewActorResolver creates a new actor resolution pass
func NewActorResolver() *ActorResolver {
	return &ActorResolver{
		quoteInterpRe: regexp.MustCompile(`^(.*?["“][^"”]+["”])\s*,?\s*(which|that)\s+(.+)$`),
		leadPronounRe: regexp.MustCompile(`(?i)^(he|she|they|it|him|her|them)\b`),
	}
}

// Apply rewrites every statement and returns any new statements produced by
// quote/interpretation splitting. nextID is the next free statement number.
func (a *ActorResolver) Apply(statements []model.AtomicStatement, mentions []model.Mention, entities []model.Entity, nextID int) []model.AtomicStatement {
	labels := make(map[string]string, len(entities))
	for _, e := range entities {
		labels[e.ID] = e.Label
	}

	var split []model.AtomicStatement
	for i := range statements {
		st := &statements[i]

		st.ActorResolvedText = a.substitute(st, mentions, labels)

		// Fragment detection runs regardless of resolution success
		if isFragment(st.Text) {
			st.AddFlag(model.FlagFragment)
		}

		// Quote + interpretation compounds split into a clean quote and a
		// separately-flagged interpretive tail
		if m := a.quoteInterpRe.FindStringSubmatch(st.Text); m != nil && strings.ContainsAny(st.Text, `"“`) {
			quotePart := strings.TrimSpace(m[1])
			tail := strings.TrimSpace(m[3])
			st.ActorResolvedText = a.substituteText(quotePart, st.Start, mentions, labels)
			st.AddFlag(model.FlagQuoteSplit)

			split = append(split, model.AtomicStatement{
				ID:         fmt.Sprintf("stmt_%d", nextID),
				SegmentID:  st.SegmentID,
				Text:       tail,
				Start:      st.Start + strings.Index(st.Text, m[3]),
				End:        st.End,
				Clause:     model.ClauseAdverbial,
				Hint:       model.HintInterpretation,
				Confidence: 0.7,
				Source:     st.Source,
				Epistemic:  model.EpistemicInterpretation,
				Polarity:   model.PolarityAsserted,
				Evidence:   model.EvidenceInference,
				Flags:      []model.StatementFlag{model.FlagInterpretiveTail},
				DerivedFrom: []string{st.ID},
			})
			nextID++
		}

		// A surviving bare subject pronoun means the actor never resolved
		if a.leadPronounRe.MatchString(strings.TrimSpace(st.ActorResolvedText)) {
			st.AddFlag(model.FlagActorUnresolved)
		}
	}
	return split
}

// substitute rewrites the statement's span using resolved pronoun mentions
func (a *ActorResolver) substitute(st *model.AtomicStatement, mentions []model.Mention, labels map[string]string) string {
	type repl struct {
		start, end int
		text       string
	}
	var repls []repl
	for _, m := range mentions {
		if m.Type != model.MentionPronoun || m.EntityID == "" {
			continue
		}
		if m.Start < st.Start || m.End > st.End {
			continue
		}
		label := labels[m.EntityID]
		if label == "" {
			continue
		}
		if possessives[strings.ToLower(m.Text)] {
			label += "'s"
		}
		repls = append(repls, repl{m.Start - st.Start, m.End - st.Start, label})
	}
	if len(repls) == 0 {
		return st.Text
	}

	// Right-to-left so earlier offsets stay valid
	sort.Slice(repls, func(i, j int) bool { return repls[i].start > repls[j].start })
	out := st.Text
	for _, r := range repls {
		if r.start < 0 || r.end > len(out) {
			continue
		}
		out = out[:r.start] + r.text + out[r.end:]
	}
	return out
}

// substituteText is the offset-based variant for split quote components
func (a *ActorResolver) substituteText(text string, base int, mentions []model.Mention, labels map[string]string) string {
	st := model.AtomicStatement{Text: text, Start: base, End: base + len(text)}
	return a.substitute(&st, mentions, labels)
}

var possessives = map[string]bool{
	"my": true, "his": true, "her": true, "its": true, "their": true,
	"our": true, "your": true,
}

// isFragment reports whether text cannot stand alone: it starts with a
// coordinating/subordinating connector or is shorter than three words
func isFragment(text string) bool {
	words := strings.Fields(text)
	if len(words) < 3 {
		return true
	}
	first := strings.ToLower(strings.Trim(words[0], `",.“”`))
	return fragmentLeads[first]
}
