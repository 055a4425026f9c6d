// Package entity extracts candidate entities from the narrative, builds
// coreference chains linking proper names to pronouns with a recency-based
// gender/number heuristic, and rewrites statement text so every actor
// reference is either a resolved entity label or an explicit unresolved
// flag. Ambiguity is always surfaced, never silently resolved: a pronoun
// with more than one live candidate produces an uncertainty marker.
package entity

import (
	"fmt"
	"strings"

	"github.com/pvoloshyn/veridian/internal/model"
	"github.com/pvoloshyn/veridian/internal/nlp"
)

// windowCapacity is the recency window size for pronoun candidates
const windowCapacity = 5

// maxNamedCandidates caps how many candidates an ambiguity marker names
const maxNamedCandidates = 3

var policeRanks = map[string]bool{
	"officer": true, "sergeant": true, "detective": true, "deputy": true,
	"lieutenant": true, "captain": true, "chief": true, "trooper": true, "cop": true,
}

var medicalTitles = map[string]bool{
	"doctor": true, "dr": true, "nurse": true, "physician": true, "paramedic": true,
}

var genericRoles = map[string]bool{
	"driver": true, "passenger": true, "manager": true, "clerk": true,
	"employee": true, "supervisor": true, "neighbor": true, "bystander": true,
	"witness": true, "man": true, "woman": true, "guy": true, "lady": true,
	"teenager": true, "cashier": true, "pedestrian": true, "customer": true,
	"guard": true,
}

var vehicleNouns = map[string]bool{
	"car": true, "vehicle": true, "truck": true, "van": true, "cruiser": true,
	"motorcycle": true, "bus": true,
}

// Result is the complete coreference output
type Result struct {
	Entities      []model.Entity
	Mentions      []model.Mention
	Chains        []model.CoreferenceChain
	Uncertainties []model.UncertaintyMarker
}

// Resolver builds entities and coreference chains from a parse
type Resolver struct{}

// NewResolver creates a new resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// resolution is the internal working state for one document
type resolution struct {
	res       *Result
	byLabel   map[string]int // Lowercased label -> entity index
	gender    map[string]model.Gender
	window    []string // Entity ids, most recent last; capacity windowCapacity
	lastAuth  string   // Most recent authority entity id
	nextEnt   int
	nextMen   int
	nextUM    int
	segments  []model.Segment
}

// Resolve extracts entities, mentions, chains and uncertainty markers.
// Candidates build in strict order: the reporter entity is seeded
// unconditionally first, named entities come from identifier extraction,
// and generic-subject entities are created on first unresolvable mention.
func (r *Resolver) Resolve(text string, parse *nlp.Parse, segments []model.Segment) *Result {
	st := &resolution{
		res:      &Result{},
		byLabel:  make(map[string]int),
		gender:   make(map[string]model.Gender),
		nextEnt:  1,
		nextMen:  1,
		nextUM:   1,
		segments: segments,
	}

	// 1. Reporter entity, always first
	st.addEntity(model.Entity{
		Type:  model.EntityPerson,
		Label: "Reporter",
		Role:  model.RoleReporter,
		Tier:  model.TierIncident,
	})

	// 2. Named entities from extracted identifiers
	r.seedNamed(st, parse)

	// 3. Token walk: classify every nominal mention
	for si := range parse.Sentences {
		r.walkSentence(st, text, &parse.Sentences[si])
	}

	r.buildChains(st)
	return st.res
}

func (st *resolution) addEntity(e model.Entity) string {
	e.ID = fmt.Sprintf("ent_%d", st.nextEnt)
	st.nextEnt++
	st.res.Entities = append(st.res.Entities, e)
	st.byLabel[strings.ToLower(e.Label)] = len(st.res.Entities) - 1
	return e.ID
}

func (st *resolution) entity(id string) *model.Entity {
	for i := range st.res.Entities {
		if st.res.Entities[i].ID == id {
			return &st.res.Entities[i]
		}
	}
	return nil
}

func (st *resolution) reporterID() string { return st.res.Entities[0].ID }

// seedNamed creates entities for PERSON spans and attaches badge
// identifiers to the most recent authority entity, merging by exact label.
func (r *Resolver) seedNamed(st *resolution, parse *nlp.Parse) {
	for _, span := range parse.Entities {
		switch span.Kind {
		case "PERSON":
			lower := strings.ToLower(span.Text)
			if _, exists := st.byLabel[lower]; exists {
				continue
			}
			role := model.RoleSubject
			first := strings.ToLower(strings.TrimSuffix(strings.Fields(span.Text)[0], "."))
			if policeRanks[first] {
				role = model.RoleAuthority
			} else if medicalTitles[first] {
				role = model.RoleWitness
			}
			id := st.addEntity(model.Entity{
				Type:  model.EntityPerson,
				Label: span.Text,
				Role:  role,
				Tier:  model.TierIncident,
			})
			if role == model.RoleAuthority {
				st.lastAuth = id
			}
		case "BADGE":
			if st.lastAuth != "" {
				if e := st.entity(st.lastAuth); e != nil && e.Badge == "" {
					e.Badge = span.Text
				}
			}
		}
	}
}

func (r *Resolver) walkSentence(st *resolution, text string, sent *nlp.Sentence) {
	toks := sent.Tokens
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.POS == nlp.POSPron && nlp.IsFirstPersonPronoun(t.Lower):
			r.attach(st, st.reporterID(), t, model.MentionPronoun, 1.0)

		case t.POS == nlp.POSPron && nlp.IsThirdPersonPronoun(t.Lower):
			r.resolvePronoun(st, t)

		case t.POS == nlp.POSPropn:
			i = r.resolveProperName(st, sent, i)

		case t.POS == nlp.POSNoun && policeRanks[t.Lower]:
			// Bare authority title: most recent authority, or a new one
			if i+1 < len(toks) && toks[i+1].POS == nlp.POSPropn {
				break // Title+name handled by identifier extraction
			}
			if st.lastAuth == "" {
				st.lastAuth = st.addEntity(model.Entity{
					Type:  model.EntityPerson,
					Label: strings.ToUpper(t.Lower[:1]) + t.Lower[1:],
					Role:  model.RoleAuthority,
					Tier:  model.TierIncident,
				})
			}
			r.attach(st, st.lastAuth, t, model.MentionTitle, 0.8)

		case t.POS == nlp.POSNoun && genericRoles[t.Lower]:
			// Generic-subject noun: distinct individual unless the same
			// surface noun was already promoted
			id := st.lookupLabel("the " + t.Lower)
			if id == "" {
				id = st.addEntity(model.Entity{
					Type:  model.EntityPerson,
					Label: "the " + t.Lower,
					Role:  model.RoleSubject,
					Tier:  model.TierIncident,
				})
			}
			r.attach(st, id, t, model.MentionGenericNoun, 0.75)

		case t.POS == nlp.POSNoun && vehicleNouns[t.Lower]:
			id := st.lookupLabel("the " + t.Lower)
			if id == "" {
				id = st.addEntity(model.Entity{
					Type:  model.EntityVehicle,
					Label: "the " + t.Lower,
					Role:  model.RoleObject,
					Tier:  model.TierIncident,
				})
			}
			r.attach(st, id, t, model.MentionGenericNoun, 0.75)
		}
	}
}

// resolvePronoun applies the recency window. One compatible candidate
// resolves cleanly; several produce an uncertainty marker naming the top
// candidates while still attaching to the most recent one.
func (r *Resolver) resolvePronoun(st *resolution, t nlp.Token) {
	gender, number := nlp.PronounFeatures(t.Lower)

	var candidates []string
	for _, id := range st.window {
		if st.compatible(id, gender, number) {
			candidates = append(candidates, id)
		}
	}

	switch len(candidates) {
	case 0:
		// Unresolved: recorded as a mention with no entity; the actor
		// resolution pass flags it
		r.record(st, "", t, model.MentionPronoun, 0, gender, number)
	case 1:
		id := candidates[0]
		r.record(st, id, t, model.MentionPronoun, 0.9, gender, number)
		st.learnGender(id, gender)
	default:
		// Most recent candidate wins, but the ambiguity is reported
		id := candidates[len(candidates)-1]
		r.record(st, id, t, model.MentionPronoun, 0.5, gender, number)

		labels := make([]string, 0, maxNamedCandidates)
		for k := len(candidates) - 1; k >= 0 && len(labels) < maxNamedCandidates; k-- {
			if e := st.entity(candidates[k]); e != nil {
				labels = append(labels, e.Label)
			}
		}
		st.res.Uncertainties = append(st.res.Uncertainties, model.UncertaintyMarker{
			ID:         fmt.Sprintf("um_%d", st.nextUM),
			Kind:       "ambiguous_pronoun",
			SegmentID:  st.segmentAt(t.Start),
			Text:       t.Text,
			Position:   t.Start,
			Candidates: labels,
			Reason: fmt.Sprintf("%d entities match %q by gender and number; resolved to most recent",
				len(candidates), t.Text),
		})
	}
}

// resolveProperName attaches a proper-name run to an existing entity when
// any label word matches, otherwise creates a fresh person entity. Returns
// the index of the last consumed token.
func (r *Resolver) resolveProperName(st *resolution, sent *nlp.Sentence, i int) int {
	toks := sent.Tokens
	j := i
	for j+1 < len(toks) && toks[j+1].POS == nlp.POSPropn {
		j++
	}
	first, last := toks[i], toks[j]

	// Match against existing entity labels word by word. Title words are
	// skipped so two officers never collapse into one entity.
	for ei := range st.res.Entities {
		e := &st.res.Entities[ei]
		for _, w := range strings.Fields(strings.ToLower(e.Label)) {
			if policeRanks[w] || medicalTitles[w] {
				continue
			}
			if w == first.Lower || w == last.Lower {
				r.attachSpan(st, e.ID, first.Start, last.End, spanTextOf(toks, i, j), model.MentionProperName, 0.95)
				return j
			}
		}
	}

	id := st.addEntity(model.Entity{
		Type:  model.EntityPerson,
		Label: spanTextOf(toks, i, j),
		Role:  model.RoleSubject,
		Tier:  model.TierIncident,
	})
	r.attachSpan(st, id, first.Start, last.End, spanTextOf(toks, i, j), model.MentionProperName, 0.9)
	return j
}

func spanTextOf(toks []nlp.Token, i, j int) string {
	parts := make([]string, 0, j-i+1)
	for k := i; k <= j; k++ {
		parts = append(parts, toks[k].Text)
	}
	return strings.Join(parts, " ")
}

func (r *Resolver) attach(st *resolution, entityID string, t nlp.Token, mt model.MentionType, conf float64) {
	r.record(st, entityID, t, mt, conf, "", "")
}

func (r *Resolver) record(st *resolution, entityID string, t nlp.Token, mt model.MentionType, conf float64, gender, number string) {
	men := model.Mention{
		ID:         fmt.Sprintf("men_%d", st.nextMen),
		SegmentID:  st.segmentAt(t.Start),
		Start:      t.Start,
		End:        t.End,
		Text:       t.Text,
		Type:       mt,
		EntityID:   entityID,
		Confidence: conf,
	}
	if gender != "" {
		men.Gender = model.Gender(gender)
	}
	if number != "" {
		men.Number = model.Number(number)
	}
	st.nextMen++
	st.res.Mentions = append(st.res.Mentions, men)

	if entityID != "" {
		if e := st.entity(entityID); e != nil {
			e.AddMention(model.MentionRef{SpanID: men.ID})
			if e.Role != model.RoleReporter && e.Type == model.EntityPerson {
				st.touch(entityID)
			}
		}
	}
}

func (r *Resolver) attachSpan(st *resolution, entityID string, start, end int, text string, mt model.MentionType, conf float64) {
	men := model.Mention{
		ID:         fmt.Sprintf("men_%d", st.nextMen),
		SegmentID:  st.segmentAt(start),
		Start:      start,
		End:        end,
		Text:       text,
		Type:       mt,
		EntityID:   entityID,
		Confidence: conf,
	}
	st.nextMen++
	st.res.Mentions = append(st.res.Mentions, men)
	if e := st.entity(entityID); e != nil {
		e.AddMention(model.MentionRef{SpanID: men.ID})
		if e.Role != model.RoleReporter && e.Type == model.EntityPerson {
			st.touch(entityID)
		}
	}
}

// touch moves an entity to the most-recent end of the window
func (st *resolution) touch(id string) {
	for i, w := range st.window {
		if w == id {
			st.window = append(st.window[:i], st.window[i+1:]...)
			break
		}
	}
	st.window = append(st.window, id)
	if len(st.window) > windowCapacity {
		st.window = st.window[len(st.window)-windowCapacity:]
	}
}

func (st *resolution) lookupLabel(label string) string {
	if idx, ok := st.byLabel[strings.ToLower(label)]; ok {
		return st.res.Entities[idx].ID
	}
	return ""
}

func (st *resolution) learnGender(id string, gender string) {
	if gender != "unknown" && st.gender[id] == "" {
		st.gender[id] = model.Gender(gender)
	}
}

// compatible checks gender/number compatibility between a pronoun and a
// windowed entity. Person entities with unlearned gender match either
// gendered pronoun; "it" only matches non-person entities.
func (st *resolution) compatible(id string, gender, number string) bool {
	e := st.entity(id)
	if e == nil {
		return false
	}
	if number == "plural" {
		return e.Role == model.RoleInstitution
	}
	if gender == "neuter" {
		return e.Type != model.EntityPerson
	}
	if e.Type != model.EntityPerson {
		return false
	}
	known := st.gender[id]
	return known == "" || known == model.Gender(gender)
}

func (st *resolution) segmentAt(offset int) string {
	for i := range st.segments {
		if offset >= st.segments[i].Start && offset < st.segments[i].End {
			return st.segments[i].ID
		}
	}
	return ""
}

// buildChains groups mentions per entity; text-fallback refs are added for
// entities seeded from identifiers whose spans never matched a token.
func (r *Resolver) buildChains(st *resolution) {
	byEntity := make(map[string][]string)
	proper := make(map[string]bool)
	for _, m := range st.res.Mentions {
		if m.EntityID == "" {
			continue
		}
		byEntity[m.EntityID] = append(byEntity[m.EntityID], m.ID)
		if m.Type == model.MentionProperName || m.Type == model.MentionTitle {
			proper[m.EntityID] = true
		}
	}

	chain := 1
	for i := range st.res.Entities {
		e := &st.res.Entities[i]
		ids := byEntity[e.ID]
		if len(ids) == 0 {
			// No span ever resolved: keep a text fallback rather than
			// silently dropping the reference
			e.AddMention(model.MentionRef{TextFallback: e.Label})
			continue
		}
		st.res.Chains = append(st.res.Chains, model.CoreferenceChain{
			ID:              fmt.Sprintf("ch_%d", chain),
			EntityID:        e.ID,
			MentionIDs:      ids,
			HasProperAnchor: proper[e.ID],
		})
		chain++
	}
}
