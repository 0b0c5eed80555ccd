package resume

import (
	"testing"
)

func TestRefineStripsEnumeration(t *testing.T) {
	rec := &Record{
		Experiences: []Experience{{
			ID: "exp-1", Company: "Acme", Title: "Engineer",
			Description: []string{
				"Go, Kubernetes, PostgreSQL, Redis",
				"Designed the ingestion pipeline that cut costs by 40%",
			},
		}},
	}

	rep := Refine(rec, DefaultRefinerConfig())

	if rep.LinesStripped != 1 {
		t.Fatalf("lines stripped = %d, want 1", rep.LinesStripped)
	}
	desc := rec.Experiences[0].Description
	if len(desc) != 1 || desc[0] != "Designed the ingestion pipeline that cut costs by 40%" {
		t.Errorf("description = %v", desc)
	}
	if len(rec.Skills) != 4 {
		t.Errorf("skills = %v, want 4 folded tokens", rec.Skills)
	}
}

func TestRefineKeepsNarrative(t *testing.T) {
	lines := []string{
		"Led the migration of our monolith to services",
		"Worked with stakeholders to define the roadmap",
	}
	rec := &Record{Experiences: []Experience{{ID: "e", Company: "A", Title: "T", Description: lines}}}

	rep := Refine(rec, DefaultRefinerConfig())

	if rep.LinesStripped != 0 {
		t.Errorf("stripped %d narrative lines", rep.LinesStripped)
	}
	if len(rec.Experiences[0].Description) != 2 {
		t.Errorf("description = %v", rec.Experiences[0].Description)
	}
}

func TestRefineFoldsIntoExistingSkills(t *testing.T) {
	rec := &Record{
		Skills: []string{"Go"},
		Experiences: []Experience{{
			ID: "e", Company: "A", Title: "T",
			Description: []string{"go, Rust, TypeScript"},
		}},
	}

	rep := Refine(rec, DefaultRefinerConfig())

	// "go" already present under case-fold, only Rust and TypeScript fold.
	if len(rep.SkillsFolded) != 2 {
		t.Errorf("folded = %v", rep.SkillsFolded)
	}
	if len(rec.Skills) != 3 {
		t.Errorf("skills = %v", rec.Skills)
	}
}

func TestRefineSoftSkills(t *testing.T) {
	rec := &Record{
		Experiences: []Experience{{
			ID: "e", Company: "A", Title: "T",
			Description: []string{"Mentored four junior engineers and presented results quarterly"},
		}},
	}

	rep := Refine(rec, DefaultRefinerConfig())

	if len(rec.Experiences[0].Description) != 1 {
		t.Error("narrative line must be retained verbatim")
	}
	want := map[string]bool{"Mentoring": true, "Communication": true}
	for _, s := range rep.SoftSkillsSeen {
		if !want[s] {
			t.Errorf("unexpected soft skill %q", s)
		}
		delete(want, s)
	}
	if len(want) != 0 {
		t.Errorf("missing soft skills: %v", want)
	}
}

func TestRefineSingleTokenNeverStripped(t *testing.T) {
	rec := &Record{
		Experiences: []Experience{{
			ID: "e", Company: "A", Title: "T",
			Description: []string{"Kubernetes"},
		}},
	}

	rep := Refine(rec, DefaultRefinerConfig())

	if rep.LinesStripped != 0 {
		t.Error("single word line stripped")
	}
}

func TestClassifyEnumerationRatio(t *testing.T) {
	cfg := DefaultRefinerConfig()

	tests := []struct {
		name string
		line string
		want bool
	}{
		{"pure enumeration", "Go, Rust, Redis", true},
		{"symbols in tokens", "C++, C#, Node.js, CI/CD", true},
		{"two-word tokens", "Google Cloud, Apache Kafka", true},
		{"narrative marker", "Go and Rust, mostly backend", false},
		{"sentence", "Responsible for maintaining the billing system", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := classifyEnumeration(tt.line, cfg)
			if got != tt.want {
				t.Errorf("classifyEnumeration(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestRefineTunableRatio(t *testing.T) {
	// A strict ratio rejects a line a loose ratio accepts.
	line := "Go, Rust, implemented billing subsystem quickly"

	if _, ok := classifyEnumeration(line, RefinerConfig{EnumRatio: 0.9, MaxTokenLen: 60, MinTokens: 2}); ok {
		t.Error("strict ratio should reject the mixed line")
	}
	if _, ok := classifyEnumeration(line, RefinerConfig{EnumRatio: 0.3, MaxTokenLen: 60, MinTokens: 2}); !ok {
		t.Error("loose ratio should accept the mixed line")
	}
}
