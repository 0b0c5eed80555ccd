package resume

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeStrictJSON(t *testing.T) {
	p, err := Normalize(`{"operation":"patch","skills":["Go","Redis"]}`)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Op != OpPatch {
		t.Errorf("op = %q, want patch", p.Op)
	}
	if len(p.SkillsAdd) != 2 || p.SkillsAdd[0] != "Go" {
		t.Errorf("skills_add = %v", p.SkillsAdd)
	}
}

func TestNormalizeFencedBlock(t *testing.T) {
	raw := "Here is the patch you asked for:\n```json\n{\"op\":\"clear\",\"sections\":[\"skills\"]}\n```\nLet me know."
	p, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Op != OpClear {
		t.Errorf("op = %q, want clear", p.Op)
	}
	if len(p.Sections) != 1 || p.Sections[0] != SectionSkills {
		t.Errorf("sections = %v", p.Sections)
	}
}

func TestNormalizeLightRepair(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"smart quotes", `{“operation”: “patch”, “skills”: [“Go”]}`},
		{"trailing comma", `{"operation": "patch", "skills": ["Go"],}`},
		{"bare keys", `{operation: "patch", skills: ["Go"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Normalize(tt.raw)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if len(p.SkillsAdd) != 1 || p.SkillsAdd[0] != "Go" {
				t.Errorf("skills_add = %v, want [Go]", p.SkillsAdd)
			}
		})
	}
}

func TestNormalizeBraceExtraction(t *testing.T) {
	raw := `Sure! I would apply this change: {"operation":"remove","experience":{"company":"Acme Corp"}} — does that look right?`
	p, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Op != OpRemove {
		t.Errorf("op = %q, want remove", p.Op)
	}
	if p.Experience == nil || p.Experience.Company != "Acme Corp" {
		t.Errorf("experience = %+v", p.Experience)
	}
}

func TestNormalizeBraceExtractionHonorsStrings(t *testing.T) {
	// The brace inside the string value must not end the scan early.
	raw := `prefix {"operation":"patch","summary":"Built {fast} systems"} suffix`
	p, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Summary == nil || p.Summary.Text != "Built {fast} systems" {
		t.Errorf("summary = %+v", p.Summary)
	}
}

func TestNormalizeIntentScan(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, p *Patch)
	}{
		{
			name: "clear skills",
			raw:  "Please clear skills for me",
			check: func(t *testing.T, p *Patch) {
				if p.Op != OpClear || len(p.Sections) != 1 || p.Sections[0] != SectionSkills {
					t.Errorf("got %+v", p)
				}
			},
		},
		{
			name: "remove skill",
			raw:  `remove skill "Perl"`,
			check: func(t *testing.T, p *Patch) {
				if p.Op != OpRemove || len(p.SkillsRemove) != 1 || p.SkillsRemove[0] != "Perl" {
					t.Errorf("got %+v", p)
				}
			},
		},
		{
			name: "remove company",
			raw:  "delete the Initech entry",
			check: func(t *testing.T, p *Patch) {
				if p.Op != OpRemove || p.Experience == nil || !strings.Contains(p.Experience.Company, "Initech") {
					t.Errorf("got %+v", p)
				}
			},
		},
		{
			name: "update summary",
			raw:  "update summary to Senior engineer with 10 years of experience",
			check: func(t *testing.T, p *Patch) {
				if p.Summary == nil || !strings.HasPrefix(p.Summary.Text, "Senior engineer") {
					t.Errorf("got %+v", p)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Normalize(tt.raw)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			tt.check(t, p)
		})
	}
}

func TestNormalizeUnusable(t *testing.T) {
	_, err := Normalize("thanks, happy to help!")
	if err == nil {
		t.Fatal("expected error for unusable payload")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if !errors.Is(err, ErrNoPayload) {
		t.Error("expected ErrNoPayload in chain")
	}
}

func TestNormalizeParseErrorTruncatesRaw(t *testing.T) {
	long := strings.Repeat("x", 500)
	_, err := Normalize(long)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(err.Error()) > 300 {
		t.Errorf("error message too long: %d chars", len(err.Error()))
	}
}

func TestNormalizeOpAliases(t *testing.T) {
	tests := []struct {
		raw  string
		want Op
	}{
		{`{"op":"overwrite"}`, OpReplace},
		{`{"action":"delete"}`, OpRemove},
		{`{"type":"empty"}`, OpClear},
		{`{"mode":"reorganise"}`, OpReorganize},
		{`{"op":"add"}`, OpPatch},
		{`{"op":"definitely-not-an-op"}`, OpPatch},
		{`{}`, OpPatch},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			p, err := Normalize(tt.raw)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if p.Op != tt.want {
				t.Errorf("op = %q, want %q", p.Op, tt.want)
			}
		})
	}
}

func TestNormalizeDurationPrecedence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"explicit duration wins", `{"experience":{"company":"A","duration":"2020-2022","start":"2019"}}`, "2020-2022"},
		{"explicit empty clears", `{"experience":{"company":"A","duration":"","years":"2020"}}`, ""},
		{"alias synonym", `{"experience":{"company":"A","period":"2021-2023"}}`, "2021-2023"},
		{"start end pair", `{"experience":{"company":"A","start":"Jan 2020","end":"Mar 2022"}}`, "Jan 2020 – Mar 2022"},
		{"start only", `{"experience":{"company":"A","start":"Jan 2020"}}`, "Jan 2020 – Present"},
		{"end only", `{"experience":{"company":"A","end":"Mar 2022"}}`, "Mar 2022"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Normalize(tt.raw)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if p.Experience == nil || p.Experience.Duration == nil {
				t.Fatalf("duration missing: %+v", p.Experience)
			}
			if *p.Experience.Duration != tt.want {
				t.Errorf("duration = %q, want %q", *p.Experience.Duration, tt.want)
			}
		})
	}
}

func TestNormalizeDurationAbsent(t *testing.T) {
	p, err := Normalize(`{"experience":{"company":"A","title":"Dev"}}`)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Experience.Duration != nil {
		t.Errorf("duration = %q, want nil", *p.Experience.Duration)
	}
}

func TestNormalizeSkillsShapes(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantAdd    int
		wantRemove int
	}{
		{"flat list", `{"skills":["Go","Rust"]}`, 2, 0},
		{"add remove object", `{"skills":{"add":["Go"],"remove":["Perl"]}}`, 1, 1},
		{"csv string", `{"skills":"Go, Rust, TypeScript"}`, 3, 0},
		{"aliased keys", `{"skills_add":["Go"],"remove_skills":["Perl"]}`, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Normalize(tt.raw)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if len(p.SkillsAdd) != tt.wantAdd || len(p.SkillsRemove) != tt.wantRemove {
				t.Errorf("add=%v remove=%v", p.SkillsAdd, p.SkillsRemove)
			}
		})
	}
}

func TestNormalizeExperienceAliases(t *testing.T) {
	raw := `{"jobs":[{"employer":"Acme","role":"Engineer","highlights":["Did things"]}]}`
	p, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(p.Experiences) != 1 {
		t.Fatalf("experiences = %d, want 1", len(p.Experiences))
	}
	e := p.Experiences[0]
	if e.Company != "Acme" || e.Title != "Engineer" || len(e.Description) != 1 {
		t.Errorf("delta = %+v", e)
	}
}

func TestRepairJSON(t *testing.T) {
	t.Run("valid passes through", func(t *testing.T) {
		out, err := RepairJSON(`{"a":1}`)
		if err != nil || out != `{"a":1}` {
			t.Errorf("got %q, %v", out, err)
		}
	})
	t.Run("repairs trailing comma", func(t *testing.T) {
		out, err := RepairJSON(`{"a":1,}`)
		if err != nil {
			t.Fatalf("RepairJSON: %v", err)
		}
		if strings.Contains(out, ",}") {
			t.Errorf("comma survived: %q", out)
		}
	})
	t.Run("rejects prose", func(t *testing.T) {
		if _, err := RepairJSON("no json here at all"); err == nil {
			t.Error("expected error")
		}
	})
}
