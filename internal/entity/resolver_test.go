package entity

import (
	"context"
	"testing"

	"github.com/pvoloshyn/veridian/internal/model"
	"github.com/pvoloshyn/veridian/internal/nlp"
	"github.com/pvoloshyn/veridian/internal/segment"
)

func resolve(t *testing.T, text string) *Result {
	t.Helper()
	parse, err := nlp.NewHeuristicParser().Parse(context.Background(), text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	segs := segment.NewSegmenter().Segment(text, parse)
	return NewResolver().Resolve(text, parse, segs)
}

func entityByLabel(res *Result, label string) *model.Entity {
	for i := range res.Entities {
		if res.Entities[i].Label == label {
			return &res.Entities[i]
		}
	}
	return nil
}

func TestResolver_ReporterAlwaysFirst(t *testing.T) {
	res := resolve(t, "Nothing happened that night.")
	if len(res.Entities) == 0 {
		t.Fatal("expected at least the reporter entity")
	}
	if res.Entities[0].ID != "ent_1" || res.Entities[0].Role != model.RoleReporter {
		t.Errorf("first entity should be the reporter, got %+v", res.Entities[0])
	}
}

func TestResolver_CleanPronounResolution(t *testing.T) {
	res := resolve(t, "At 11:30 PM, I was walking home. Officer Jenkins grabbed my arm. Then he twisted it.")

	if len(res.Entities) != 2 {
		t.Fatalf("expected reporter and Officer Jenkins, got %d entities", len(res.Entities))
	}
	jenkins := entityByLabel(res, "Officer Jenkins")
	if jenkins == nil {
		t.Fatal("Officer Jenkins entity missing")
	}
	if jenkins.Role != model.RoleAuthority {
		t.Errorf("rank title implies authority role, got %s", jenkins.Role)
	}

	var he *model.Mention
	for i := range res.Mentions {
		if res.Mentions[i].Text == "he" {
			he = &res.Mentions[i]
		}
	}
	if he == nil {
		t.Fatal("expected a mention for the pronoun")
	}
	if he.EntityID != jenkins.ID {
		t.Errorf("he should resolve to Officer Jenkins, got %s", he.EntityID)
	}
	if he.Confidence != 0.9 {
		t.Errorf("single-candidate resolution scores 0.9, got %.2f", he.Confidence)
	}
	if len(res.Uncertainties) != 0 {
		t.Errorf("unambiguous pronoun must not raise markers, got %d", len(res.Uncertainties))
	}
}

func TestResolver_AmbiguousPronounRaisesMarker(t *testing.T) {
	res := resolve(t, "Officer Jenkins stopped me. Officer Smith arrived. He shouted.")

	if len(res.Uncertainties) != 1 {
		t.Fatalf("two live candidates should raise one marker, got %d", len(res.Uncertainties))
	}
	um := res.Uncertainties[0]
	if um.ID != "um_1" || um.Kind != "ambiguous_pronoun" {
		t.Errorf("unexpected marker identity %s/%s", um.ID, um.Kind)
	}
	if len(um.Candidates) != 2 || um.Candidates[0] != "Officer Smith" {
		t.Errorf("candidates should list most recent first, got %v", um.Candidates)
	}

	// The pronoun still attaches, at reduced confidence, to the most recent
	smith := entityByLabel(res, "Officer Smith")
	var he *model.Mention
	for i := range res.Mentions {
		if res.Mentions[i].Text == "He" {
			he = &res.Mentions[i]
		}
	}
	if he == nil || he.EntityID != smith.ID {
		t.Fatalf("ambiguous pronoun should attach to most recent candidate, got %+v", he)
	}
	if he.Confidence != 0.5 {
		t.Errorf("ambiguous resolution scores 0.5, got %.2f", he.Confidence)
	}
}

func TestResolver_NeuterPronounNeverMatchesPerson(t *testing.T) {
	res := resolve(t, "Officer Jenkins grabbed my arm. Then he twisted it.")

	var it *model.Mention
	for i := range res.Mentions {
		if res.Mentions[i].Text == "it" {
			it = &res.Mentions[i]
		}
	}
	if it == nil {
		t.Fatal("expected a mention for it")
	}
	if it.EntityID != "" {
		t.Errorf("neuter pronoun must not resolve to a person, got %s", it.EntityID)
	}
	if len(res.Uncertainties) != 0 {
		t.Errorf("zero candidates is unresolved, not ambiguous, got %d markers", len(res.Uncertainties))
	}
}

func TestResolver_BadgeAttachesToAuthority(t *testing.T) {
	res := resolve(t, "Officer Jenkins showed badge number 4412 and walked away.")

	jenkins := entityByLabel(res, "Officer Jenkins")
	if jenkins == nil {
		t.Fatal("Officer Jenkins entity missing")
	}
	if jenkins.Badge != "4412" {
		t.Errorf("badge should attach to the most recent authority, got %q", jenkins.Badge)
	}
}

func TestResolver_GenericRoleNoun(t *testing.T) {
	res := resolve(t, "The driver yelled at me.")

	driver := entityByLabel(res, "the driver")
	if driver == nil {
		t.Fatalf("expected a generic-subject entity, got %+v", res.Entities)
	}
	if driver.Role != model.RoleSubject {
		t.Errorf("generic nouns get subject role, got %s", driver.Role)
	}
}

func TestResolver_GenderLearnedFromResolution(t *testing.T) {
	// After "she" resolves to Rivera, "he" cannot match her anymore
	res := resolve(t, "Officer Rivera stopped me. She asked for my license. Officer Diaz arrived and he laughed.")

	rivera := entityByLabel(res, "Officer Rivera")
	diaz := entityByLabel(res, "Officer Diaz")
	if rivera == nil || diaz == nil {
		t.Fatalf("expected both officers, got %+v", res.Entities)
	}
	var he *model.Mention
	for i := range res.Mentions {
		if res.Mentions[i].Text == "he" {
			he = &res.Mentions[i]
		}
	}
	if he == nil {
		t.Fatal("expected a mention for he")
	}
	if he.EntityID != diaz.ID {
		t.Errorf("he should resolve to Officer Diaz after gender is learned, got %s", he.EntityID)
	}
	if len(res.Uncertainties) != 0 {
		t.Errorf("gender filtering should leave one candidate, got %d markers", len(res.Uncertainties))
	}
}

func TestResolver_ChainsGroupMentions(t *testing.T) {
	res := resolve(t, "Officer Jenkins stopped me. He shouted.")

	jenkins := entityByLabel(res, "Officer Jenkins")
	var chain *model.CoreferenceChain
	for i := range res.Chains {
		if res.Chains[i].EntityID == jenkins.ID {
			chain = &res.Chains[i]
		}
	}
	if chain == nil {
		t.Fatal("expected a chain for Officer Jenkins")
	}
	if len(chain.MentionIDs) != 2 {
		t.Errorf("chain should hold the name and the pronoun, got %d mentions", len(chain.MentionIDs))
	}
	if !chain.HasProperAnchor {
		t.Error("a name-anchored chain should be marked as such")
	}
}

func TestResolver_MentionsCarrySegmentIDs(t *testing.T) {
	res := resolve(t, "Officer Jenkins stopped me. He shouted.")
	for _, m := range res.Mentions {
		if m.SegmentID == "" {
			t.Errorf("mention %q missing segment id", m.Text)
		}
	}
}
