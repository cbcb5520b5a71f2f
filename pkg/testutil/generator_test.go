package testutil

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/javamaster/pkg/content"
)

func TestCatalogIsValid(t *testing.T) {
	tests := []struct {
		name string
		cfg  GeneratorConfig
	}{
		{"default", DefaultConfig()},
		{"single_section", GeneratorConfig{Seed: 1, Topics: 2, SectionsPerLesson: 1}},
		{"many", GeneratorConfig{Seed: 7, Topics: 12, SectionsPerLesson: 9, LessonlessTopics: 3, Challenges: 4, CasesPerChallenge: 5}},
		{"no_challenges", GeneratorConfig{Seed: 3, Topics: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.cfg).Catalog()
			if err := content.Validate(c); err != nil {
				t.Fatalf("generated catalog invalid: %v", err)
			}
			AssertNoDuplicateTopicIDs(t, c.Topics)
			AssertTopicsValid(t, c.Topics)
		})
	}
}

func TestCatalogShape(t *testing.T) {
	c := New(GeneratorConfig{Seed: 9, Topics: 5, SectionsPerLesson: 4, LessonlessTopics: 2, Challenges: 2, CasesPerChallenge: 6}).Catalog()

	if len(c.Topics) != 5 {
		t.Errorf("topics = %d, want 5", len(c.Topics))
	}
	if len(c.Lessons) != 3 {
		t.Errorf("lessons = %d, want 3", len(c.Lessons))
	}
	for _, l := range c.Lessons {
		if len(l.Sections) != 4 {
			t.Errorf("lesson %s sections = %d, want 4", l.ID, len(l.Sections))
		}
	}
	for _, ch := range c.Challenges {
		if len(ch.Cases) != 6 || len(ch.MockResults) != 6 {
			t.Errorf("challenge %s cases/pattern = %d/%d, want 6/6", ch.ID, len(ch.Cases), len(ch.MockResults))
		}
	}
}

func TestDeterministic(t *testing.T) {
	a := New(DefaultConfig()).Catalog()
	b := New(DefaultConfig()).Catalog()
	AssertJSONEqual(t, a.Topics, b.Topics)
	AssertJSONEqual(t, a.Challenges, b.Challenges)
}

func TestWriteCatalogFileLoads(t *testing.T) {
	path := WriteCatalogFile(t, t.TempDir(), "catalog.yaml", NewDefault().Catalog())

	r, err := content.Load(path)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	if r.Origin() != path {
		t.Errorf("origin = %q, want %q", r.Origin(), path)
	}
	if len(r.Topics()) != 4 {
		t.Errorf("topics = %d, want 4", len(r.Topics()))
	}
}

func TestWordsAvoidKeywords(t *testing.T) {
	g := NewDefault()
	for i := 0; i < 20; i++ {
		w := g.Words(6)
		for _, rule := range MentorScript().Rules {
			for _, kw := range rule.Keywords {
				if strings.Contains(w, kw) {
					t.Fatalf("words %q contain keyword %q", w, kw)
				}
			}
		}
	}
}
