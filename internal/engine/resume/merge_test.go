package resume

import (
	"reflect"
	"testing"
)

func sampleRecord() *Record {
	return &Record{
		Contact: Contact{Name: "Ada Lovelace", Email: "ada@example.com"},
		Summary: "Engineer.",
		Experiences: []Experience{
			{ID: "exp-1", Company: "Acme", Title: "Engineer", Duration: "2020-2022", Description: []string{"Built the thing"}},
			{ID: "exp-2", Company: "Initech", Title: "Senior Engineer", Description: []string{"Led migrations"}},
		},
		Educations: []Education{
			{ID: "edu-1", School: "MIT", Degree: "BSc", Duration: "2012-2016"},
		},
		Skills: []string{"Go", "Redis"},
	}
}

func TestApplyUpsertByID(t *testing.T) {
	rec := sampleRecord()
	dur := "2020-2023"
	p := &Patch{Op: OpPatch, Experience: &ExperienceDelta{
		ID:          "exp-1",
		Duration:    &dur,
		Description: []string{"Shipped v2"},
	}}

	rep := Apply(rec, p)

	if rep.ExperiencesUpdated != 1 || rep.ExperiencesAdded != 0 {
		t.Errorf("report = %+v", rep)
	}
	if rec.Experiences[0].Duration != "2020-2023" {
		t.Errorf("duration = %q", rec.Experiences[0].Duration)
	}
	if len(rec.Experiences[0].Description) != 2 {
		t.Errorf("description = %v", rec.Experiences[0].Description)
	}
}

func TestApplyUpsertByIdentity(t *testing.T) {
	rec := sampleRecord()
	p := &Patch{Op: OpPatch, Experience: &ExperienceDelta{
		Company:     "acme", // folds onto "Acme"
		Title:       "ENGINEER",
		Description: []string{"New line"},
	}}

	rep := Apply(rec, p)

	if rep.ExperiencesUpdated != 1 {
		t.Fatalf("expected identity match, report = %+v", rep)
	}
	if len(rec.Experiences) != 2 {
		t.Errorf("experience count = %d, want 2", len(rec.Experiences))
	}
}

func TestApplyUpsertInsertsNew(t *testing.T) {
	rec := sampleRecord()
	p := &Patch{Op: OpPatch, Experience: &ExperienceDelta{
		Company: "Globex",
		Title:   "Staff Engineer",
	}}

	rep := Apply(rec, p)

	if rep.ExperiencesAdded != 1 {
		t.Fatalf("report = %+v", rep)
	}
	added := rec.Experiences[2]
	if added.ID == "" {
		t.Error("new entry should get a stable id")
	}
	if added.Company != "Globex" {
		t.Errorf("company = %q", added.Company)
	}
}

func TestApplyUpsertNoIdentitySkipped(t *testing.T) {
	rec := sampleRecord()
	p := &Patch{Op: OpPatch, Experience: &ExperienceDelta{Description: []string{"orphan line"}}}

	rep := Apply(rec, p)

	if rep.Changed() {
		t.Errorf("nothing should change, report = %+v", rep)
	}
	if len(rep.Notes) == 0 {
		t.Error("expected a skip note")
	}
}

func TestApplyIdempotent(t *testing.T) {
	p := &Patch{Op: OpPatch,
		Experience: &ExperienceDelta{ID: "exp-1", Description: []string{"Shipped v2"}},
		SkillsAdd:  []string{"Kubernetes", "GO"},
	}

	rec := sampleRecord()
	Apply(rec, p)
	first := rec.Clone()

	rep := Apply(rec, p)

	if !reflect.DeepEqual(rec, first) {
		t.Error("second application changed the record")
	}
	if rep.SkillsAdded != 0 || rep.LinesAdded != 0 {
		t.Errorf("second application reported changes: %+v", rep)
	}
}

func TestApplySkillsCaseFoldDedup(t *testing.T) {
	rec := sampleRecord()
	p := &Patch{Op: OpPatch, SkillsAdd: []string{"go", " GO ", "Rust"}}

	rep := Apply(rec, p)

	if rep.SkillsAdded != 1 {
		t.Errorf("skills added = %d, want 1 (only Rust)", rep.SkillsAdded)
	}
	if len(rec.Skills) != 3 {
		t.Errorf("skills = %v", rec.Skills)
	}
}

func TestApplyExplicitEmptyDurationClears(t *testing.T) {
	rec := sampleRecord()
	empty := ""
	p := &Patch{Op: OpPatch, Experience: &ExperienceDelta{ID: "exp-1", Duration: &empty}}

	Apply(rec, p)

	if rec.Experiences[0].Duration != "" {
		t.Errorf("duration = %q, want cleared", rec.Experiences[0].Duration)
	}
}

func TestApplyAbsentDurationKept(t *testing.T) {
	rec := sampleRecord()
	p := &Patch{Op: OpPatch, Experience: &ExperienceDelta{ID: "exp-1", Description: []string{"x"}}}

	Apply(rec, p)

	if rec.Experiences[0].Duration != "2020-2022" {
		t.Errorf("duration = %q, want untouched", rec.Experiences[0].Duration)
	}
}

func TestApplySummaryModes(t *testing.T) {
	tests := []struct {
		mode SummaryMode
		want string
	}{
		{SummaryReplace, "New summary."},
		{SummaryAppend, "Engineer. New summary."},
		{SummaryPrepend, "New summary. Engineer."},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			rec := sampleRecord()
			p := &Patch{Op: OpPatch, Summary: &SummaryEdit{Mode: tt.mode, Text: "New summary."}}
			rep := Apply(rec, p)
			if rec.Summary != tt.want {
				t.Errorf("summary = %q, want %q", rec.Summary, tt.want)
			}
			if !rep.SummaryChanged {
				t.Error("SummaryChanged not set")
			}
		})
	}
}

func TestApplyReplaceOmittedSectionsUntouched(t *testing.T) {
	rec := sampleRecord()
	p := &Patch{Op: OpReplace, SkillsAdd: []string{"Python"}}

	Apply(rec, p)

	if len(rec.Skills) != 1 || rec.Skills[0] != "Python" {
		t.Errorf("skills = %v", rec.Skills)
	}
	if len(rec.Experiences) != 2 {
		t.Error("experiences should be untouched by omission")
	}
	if rec.Summary != "Engineer." {
		t.Error("summary should be untouched by omission")
	}
}

func TestApplyReset(t *testing.T) {
	rec := sampleRecord()
	rep := Apply(rec, &Patch{Op: OpReset})

	if len(rec.Experiences) != 0 || len(rec.Skills) != 0 || rec.Summary != "" {
		t.Errorf("record not empty: %+v", rec)
	}
	if len(rep.Cleared) != 5 {
		t.Errorf("cleared = %v", rep.Cleared)
	}
}

func TestApplyClearSections(t *testing.T) {
	rec := sampleRecord()
	rep := Apply(rec, &Patch{Op: OpClear, Sections: []Section{SectionSkills, SectionSummary}})

	if rec.Skills != nil || rec.Summary != "" {
		t.Errorf("sections not cleared: %+v", rec)
	}
	if len(rec.Experiences) != 2 {
		t.Error("experiences should survive")
	}
	if len(rep.Cleared) != 2 {
		t.Errorf("cleared = %v", rep.Cleared)
	}
}

func TestApplyRemoveLooseCompanyMatch(t *testing.T) {
	rec := sampleRecord()
	p := &Patch{Op: OpRemove, Experience: &ExperienceDelta{Company: "initech"}}

	rep := Apply(rec, p)

	if rep.ExperiencesRemoved != 1 {
		t.Fatalf("report = %+v", rep)
	}
	if len(rec.Experiences) != 1 || rec.Experiences[0].Company != "Acme" {
		t.Errorf("experiences = %+v", rec.Experiences)
	}
}

func TestApplyRemoveMissingIsNoop(t *testing.T) {
	rec := sampleRecord()
	p := &Patch{Op: OpRemove, Experience: &ExperienceDelta{Company: "Hooli"}}

	rep := Apply(rec, p)

	if rep.Changed() {
		t.Errorf("report = %+v", rep)
	}
	if len(rep.Notes) == 0 {
		t.Error("expected a not-found note")
	}
	if len(rec.Experiences) != 2 {
		t.Error("record changed on missing target")
	}
}

func TestApplyRemoveLine(t *testing.T) {
	t.Run("by index", func(t *testing.T) {
		rec := sampleRecord()
		idx := 0
		p := &Patch{Op: OpRemove, RemoveLine: &LineRef{ExperienceID: "exp-1", Index: &idx}}
		rep := Apply(rec, p)
		if rep.LinesRemoved != 1 || len(rec.Experiences[0].Description) != 0 {
			t.Errorf("rep=%+v desc=%v", rep, rec.Experiences[0].Description)
		}
	})
	t.Run("index out of range", func(t *testing.T) {
		rec := sampleRecord()
		idx := 9
		p := &Patch{Op: OpRemove, RemoveLine: &LineRef{ExperienceID: "exp-1", Index: &idx}}
		rep := Apply(rec, p)
		if rep.LinesRemoved != 0 || len(rep.Notes) == 0 {
			t.Errorf("rep=%+v", rep)
		}
	})
	t.Run("by match", func(t *testing.T) {
		rec := sampleRecord()
		p := &Patch{Op: OpRemove, RemoveLine: &LineRef{ExperienceID: "exp-2", Match: "migrations"}}
		rep := Apply(rec, p)
		if rep.LinesRemoved != 1 || len(rec.Experiences[1].Description) != 0 {
			t.Errorf("rep=%+v", rep)
		}
	})
}

func TestApplyRewritePreservesID(t *testing.T) {
	rec := sampleRecord()
	p := &Patch{Op: OpRewrite, Experience: &ExperienceDelta{
		ID:          "exp-1",
		NewCompany:  "Acme Global",
		NewTitle:    "Principal Engineer",
		Description: []string{"Completely new line"},
	}}

	rep := Apply(rec, p)

	e := rec.Experiences[0]
	if e.ID != "exp-1" {
		t.Errorf("id changed to %q", e.ID)
	}
	if e.Company != "Acme Global" || e.Title != "Principal Engineer" {
		t.Errorf("entry = %+v", e)
	}
	if len(e.Description) != 1 || e.Description[0] != "Completely new line" {
		t.Errorf("description = %v", e.Description)
	}
	if len(rep.Notes) == 0 {
		t.Error("rename should be noted")
	}
}

func TestApplyReorganizeByOrder(t *testing.T) {
	rec := sampleRecord()
	p := &Patch{Op: OpReorganize, Order: []string{"Initech|Senior Engineer", "exp-1"}}

	Apply(rec, p)

	if rec.Experiences[0].ID != "exp-2" || rec.Experiences[1].ID != "exp-1" {
		t.Errorf("order = %s, %s", rec.Experiences[0].ID, rec.Experiences[1].ID)
	}
}

func TestApplyReorganizeUnlistedKeptAtEnd(t *testing.T) {
	rec := sampleRecord()
	p := &Patch{Op: OpReorganize, Order: []string{"exp-2"}}

	Apply(rec, p)

	if len(rec.Experiences) != 2 {
		t.Fatalf("entries lost: %d", len(rec.Experiences))
	}
	if rec.Experiences[0].ID != "exp-2" || rec.Experiences[1].ID != "exp-1" {
		t.Errorf("order = %s, %s", rec.Experiences[0].ID, rec.Experiences[1].ID)
	}
}

func TestApplyReorganizeFullObjectsPreserveMatchedIDs(t *testing.T) {
	rec := sampleRecord()
	p := &Patch{Op: OpReorganize, Experiences: []ExperienceDelta{
		{Company: "Initech", Title: "Senior Engineer"},
		{Company: "Acme", Title: "Engineer"},
	}}

	Apply(rec, p)

	if rec.Experiences[0].ID != "exp-2" || rec.Experiences[1].ID != "exp-1" {
		t.Errorf("stable ids not preserved: %s, %s", rec.Experiences[0].ID, rec.Experiences[1].ID)
	}
}

func TestApplyContactPartial(t *testing.T) {
	rec := sampleRecord()
	phone := "+1 555 0100"
	p := &Patch{Op: OpPatch, Contact: &ContactDelta{Phone: &phone}}

	rep := Apply(rec, p)

	if !rep.ContactChanged {
		t.Error("ContactChanged not set")
	}
	if rec.Contact.Phone != phone || rec.Contact.Name != "Ada Lovelace" {
		t.Errorf("contact = %+v", rec.Contact)
	}
}
