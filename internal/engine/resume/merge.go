package resume

import (
	"fmt"
	"strings"
)

// MergeReport summarizes what one patch application changed. Merge
// conflicts are never fatal: anything that could not be applied lands
// in Notes and the rest of the patch still goes through.
type MergeReport struct {
	Op                 Op        `json:"operation"`
	ExperiencesAdded   int       `json:"experiences_added,omitempty"`
	ExperiencesUpdated int       `json:"experiences_updated,omitempty"`
	ExperiencesRemoved int       `json:"experiences_removed,omitempty"`
	EducationsAdded    int       `json:"educations_added,omitempty"`
	EducationsUpdated  int       `json:"educations_updated,omitempty"`
	EducationsRemoved  int       `json:"educations_removed,omitempty"`
	SkillsAdded        int       `json:"skills_added,omitempty"`
	SkillsRemoved      int       `json:"skills_removed,omitempty"`
	LinesAdded         int       `json:"lines_added,omitempty"`
	LinesRemoved       int       `json:"lines_removed,omitempty"`
	SummaryChanged     bool      `json:"summary_changed,omitempty"`
	ContactChanged     bool      `json:"contact_changed,omitempty"`
	Cleared            []Section `json:"cleared,omitempty"`
	Notes              []string  `json:"notes,omitempty"`
}

func (r *MergeReport) note(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// Changed reports whether the patch had any effect on the record.
func (r *MergeReport) Changed() bool {
	return r.ExperiencesAdded+r.ExperiencesUpdated+r.ExperiencesRemoved+
		r.EducationsAdded+r.EducationsUpdated+r.EducationsRemoved+
		r.SkillsAdded+r.SkillsRemoved+r.LinesAdded+r.LinesRemoved > 0 ||
		r.SummaryChanged || r.ContactChanged || len(r.Cleared) > 0
}

// Apply merges a canonical patch into the record. Dispatch is
// exhaustive over the operation tags; unknown tags were already
// reduced to OpPatch by the normalizer.
func Apply(rec *Record, p *Patch) *MergeReport {
	rep := &MergeReport{Op: p.Op}
	switch p.Op {
	case OpReplace:
		applyReplace(rec, p, rep)
	case OpReset:
		*rec = Record{}
		rep.Cleared = []Section{SectionExperiences, SectionEducations, SectionSkills, SectionSummary, SectionContact}
	case OpRemove:
		applyRemove(rec, p, rep)
	case OpClear:
		clearSections(rec, p.Sections, rep)
	case OpRewrite:
		applyRewrite(rec, p, rep)
	case OpReorganize:
		applyReorganize(rec, p, rep)
	case OpPatch:
		applyUpsert(rec, p, rep)
	default:
		applyUpsert(rec, p, rep)
	}
	return rep
}

// --- upsert (patch / add / update) ---

func applyUpsert(rec *Record, p *Patch, rep *MergeReport) {
	for _, d := range collectExperiences(p) {
		upsertExperience(rec, d, rep)
	}
	for _, d := range collectEducations(p) {
		upsertEducation(rec, d, rep)
	}
	for _, s := range p.SkillsAdd {
		if rec.AddSkill(s) {
			rep.SkillsAdded++
		}
	}
	for _, s := range p.SkillsRemove {
		if rec.RemoveSkill(s) {
			rep.SkillsRemoved++
		}
	}
	applySummary(rec, p.Summary, rep)
	applyContact(rec, p.Contact, rep)
}

func collectExperiences(p *Patch) []ExperienceDelta {
	var out []ExperienceDelta
	if p.Experience != nil {
		out = append(out, *p.Experience)
	}
	return append(out, p.Experiences...)
}

func collectEducations(p *Patch) []EducationDelta {
	var out []EducationDelta
	if p.Education != nil {
		out = append(out, *p.Education)
	}
	return append(out, p.Educations...)
}

// upsertExperience matches by id first, then by normalized
// (company, title); on match it merges fields — explicit presence
// wins, including an explicit empty duration — and appends genuinely
// new description lines. On no match it inserts a new entry.
func upsertExperience(rec *Record, d ExperienceDelta, rep *MergeReport) {
	idx := rec.findExperience(d.ID, d.Company, d.Title)
	if idx < 0 {
		if d.Company == "" && d.Title == "" {
			rep.note("experience with no identity skipped")
			return
		}
		e := deltaToExperience(d)
		rec.Experiences = append(rec.Experiences, e)
		rep.ExperiencesAdded++
		rep.LinesAdded += len(e.Description)
		return
	}

	e := &rec.Experiences[idx]
	if d.NewCompany != "" && d.NewCompany != e.Company {
		rep.note("experience %q renamed to %q", e.Company, d.NewCompany)
		e.Company = d.NewCompany
	}
	if d.NewTitle != "" {
		e.Title = d.NewTitle
	}
	if d.Duration != nil {
		e.Duration = *d.Duration
	}
	if d.Location != nil {
		e.Location = *d.Location
	}
	var added int
	e.Description, added = mergeLines(e.Description, d.Description)
	rep.LinesAdded += added
	rep.ExperiencesUpdated++
}

func upsertEducation(rec *Record, d EducationDelta, rep *MergeReport) {
	idx := rec.findEducation(d.ID, d.School, d.Degree)
	if idx < 0 {
		if d.School == "" && d.Degree == "" {
			rep.note("education with no identity skipped")
			return
		}
		e := deltaToEducation(d)
		rec.Educations = append(rec.Educations, e)
		rep.EducationsAdded++
		rep.LinesAdded += len(e.Description)
		return
	}

	e := &rec.Educations[idx]
	if d.Duration != nil {
		e.Duration = *d.Duration
	}
	if d.Location != nil {
		e.Location = *d.Location
	}
	var added int
	e.Description, added = mergeLines(e.Description, d.Description)
	rep.LinesAdded += added
	rep.EducationsUpdated++
}

func deltaToExperience(d ExperienceDelta) Experience {
	e := Experience{
		ID:          d.ID,
		Company:     d.Company,
		Title:       d.Title,
		Description: dedupeLines(d.Description),
	}
	if e.ID == "" {
		e.ID = NewExperienceID()
	}
	if d.NewCompany != "" {
		e.Company = d.NewCompany
	}
	if d.NewTitle != "" {
		e.Title = d.NewTitle
	}
	if d.Duration != nil {
		e.Duration = *d.Duration
	}
	if d.Location != nil {
		e.Location = *d.Location
	}
	return e
}

func deltaToEducation(d EducationDelta) Education {
	e := Education{
		ID:          d.ID,
		School:      d.School,
		Degree:      d.Degree,
		Description: dedupeLines(d.Description),
	}
	if e.ID == "" {
		e.ID = NewExperienceID()
	}
	if d.Duration != nil {
		e.Duration = *d.Duration
	}
	if d.Location != nil {
		e.Location = *d.Location
	}
	return e
}

func applySummary(rec *Record, edit *SummaryEdit, rep *MergeReport) {
	if edit == nil {
		return
	}
	text := strings.TrimSpace(edit.Text)
	before := rec.Summary
	switch edit.Mode {
	case SummaryAppend:
		if text != "" {
			rec.Summary = strings.TrimSpace(rec.Summary + " " + text)
		}
	case SummaryPrepend:
		if text != "" {
			rec.Summary = strings.TrimSpace(text + " " + rec.Summary)
		}
	default:
		rec.Summary = text
	}
	rep.SummaryChanged = rec.Summary != before
}

func applyContact(rec *Record, d *ContactDelta, rep *MergeReport) {
	if d == nil {
		return
	}
	before := rec.Contact
	if d.Name != nil {
		rec.Contact.Name = *d.Name
	}
	if d.Email != nil {
		rec.Contact.Email = *d.Email
	}
	if d.Phone != nil {
		rec.Contact.Phone = *d.Phone
	}
	if d.Location != nil {
		rec.Contact.Location = *d.Location
	}
	if d.Title != nil {
		rec.Contact.Title = *d.Title
	}
	rep.ContactChanged = rec.Contact != before
}

// --- replace / clear ---

// applyReplace swaps out whole sections for the payload's content.
// Sections absent from the payload are untouched (never destructive
// by omission).
func applyReplace(rec *Record, p *Patch, rep *MergeReport) {
	if exps := collectExperiences(p); len(exps) > 0 {
		rec.Experiences = rec.Experiences[:0]
		for _, d := range exps {
			e := deltaToExperience(d)
			rec.Experiences = append(rec.Experiences, e)
			rep.ExperiencesAdded++
		}
	}
	if edus := collectEducations(p); len(edus) > 0 {
		rec.Educations = rec.Educations[:0]
		for _, d := range edus {
			rec.Educations = append(rec.Educations, deltaToEducation(d))
			rep.EducationsAdded++
		}
	}
	if len(p.SkillsAdd) > 0 {
		rec.Skills = nil
		for _, s := range p.SkillsAdd {
			if rec.AddSkill(s) {
				rep.SkillsAdded++
			}
		}
	}
	applySummary(rec, p.Summary, rep)
	applyContact(rec, p.Contact, rep)
}

func clearSections(rec *Record, sections []Section, rep *MergeReport) {
	for _, s := range sections {
		switch s {
		case SectionExperiences:
			rec.Experiences = nil
		case SectionEducations:
			rec.Educations = nil
		case SectionSkills:
			rec.Skills = nil
		case SectionSummary:
			rec.Summary = ""
		case SectionContact:
			rec.Contact = Contact{}
		default:
			rep.note("unknown section %q ignored", s)
			continue
		}
		rep.Cleared = append(rep.Cleared, s)
	}
}

// --- remove ---

func applyRemove(rec *Record, p *Patch, rep *MergeReport) {
	if p.RemoveLine != nil {
		removeLine(rec, p.RemoveLine, rep)
	}
	for _, s := range p.SkillsRemove {
		if rec.RemoveSkill(s) {
			rep.SkillsRemoved++
		} else {
			rep.note("skill %q not found, nothing changed", s)
		}
	}
	for _, d := range collectExperiences(p) {
		removeExperience(rec, d, rep)
	}
	for _, d := range collectEducations(p) {
		idx := rec.findEducation(d.ID, d.School, d.Degree)
		if idx < 0 {
			rep.note("education %q / %q not found, nothing changed", d.School, d.Degree)
			continue
		}
		rec.Educations = append(rec.Educations[:idx], rec.Educations[idx+1:]...)
		rep.EducationsRemoved++
	}
	if len(p.Sections) > 0 {
		clearSections(rec, p.Sections, rep)
	}
}

// removeExperience tries the strict identity match first, then a loose
// company-only fold match so natural-language intents ("remove Acme")
// can resolve.
func removeExperience(rec *Record, d ExperienceDelta, rep *MergeReport) {
	idx := rec.findExperience(d.ID, d.Company, d.Title)
	if idx < 0 && d.Company != "" {
		key := foldKey(d.Company)
		for i := range rec.Experiences {
			have := foldKey(rec.Experiences[i].Company)
			if have == key || strings.Contains(have, key) {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		rep.note("experience %q / %q not found, nothing changed", d.Company, d.Title)
		return
	}
	rec.Experiences = append(rec.Experiences[:idx], rec.Experiences[idx+1:]...)
	rep.ExperiencesRemoved++
}

func removeLine(rec *Record, ref *LineRef, rep *MergeReport) {
	idx := rec.findExperience(ref.ExperienceID, ref.Company, ref.Title)
	if idx < 0 {
		rep.note("remove_line: experience not found, nothing changed")
		return
	}
	e := &rec.Experiences[idx]
	if ref.Index != nil {
		i := *ref.Index
		if i < 0 || i >= len(e.Description) {
			rep.note("remove_line: index %d out of range, nothing changed", i)
			return
		}
		e.Description = append(e.Description[:i], e.Description[i+1:]...)
		rep.LinesRemoved++
		return
	}
	if ref.Match != "" {
		key := foldKey(ref.Match)
		for i, l := range e.Description {
			if strings.Contains(foldKey(l), key) {
				e.Description = append(e.Description[:i], e.Description[i+1:]...)
				rep.LinesRemoved++
				return
			}
		}
		rep.note("remove_line: no line matching %q, nothing changed", ref.Match)
	}
}

// --- rewrite ---

// applyRewrite replaces an entry's fields wholesale while preserving
// its stable identity; unspecified fields survive. A company change is
// tracked explicitly via NewCompany.
func applyRewrite(rec *Record, p *Patch, rep *MergeReport) {
	for _, d := range collectExperiences(p) {
		idx := rec.findExperience(d.ID, d.Company, d.Title)
		if idx < 0 {
			rep.note("rewrite: experience %q / %q not found, nothing changed", d.Company, d.Title)
			continue
		}
		e := &rec.Experiences[idx]
		if d.NewCompany != "" && d.NewCompany != e.Company {
			rep.note("experience %q renamed to %q", e.Company, d.NewCompany)
			e.Company = d.NewCompany
		}
		if d.NewTitle != "" {
			e.Title = d.NewTitle
		}
		if d.Duration != nil {
			e.Duration = *d.Duration
		}
		if d.Location != nil {
			e.Location = *d.Location
		}
		if d.Description != nil {
			removed := len(e.Description)
			e.Description = dedupeLines(d.Description)
			rep.LinesRemoved += removed
			rep.LinesAdded += len(e.Description)
		}
		rep.ExperiencesUpdated++
	}
	applySummary(rec, p.Summary, rep)
	applyContact(rec, p.Contact, rep)
}

// --- reorganize ---

// applyReorganize rebuilds the experience list: either wholesale from
// full objects (stable ids preserved where identities match) or by
// reordering existing entries along a list of identity keys. Entries
// not mentioned keep their relative order at the end.
func applyReorganize(rec *Record, p *Patch, rep *MergeReport) {
	switch {
	case len(p.Experiences) > 0:
		next := make([]Experience, 0, len(p.Experiences))
		for _, d := range p.Experiences {
			e := deltaToExperience(d)
			if idx := rec.findExperience(d.ID, d.Company, d.Title); idx >= 0 {
				e.ID = rec.Experiences[idx].ID
				rep.ExperiencesUpdated++
			} else {
				rep.ExperiencesAdded++
			}
			next = append(next, e)
		}
		rec.Experiences = next
	case len(p.Order) > 0:
		var next []Experience
		used := make([]bool, len(rec.Experiences))
		for _, key := range p.Order {
			idx := matchIdentityKey(rec, key, used)
			if idx < 0 {
				rep.note("reorganize: no experience matching %q", key)
				continue
			}
			used[idx] = true
			next = append(next, rec.Experiences[idx])
		}
		for i, e := range rec.Experiences {
			if !used[i] {
				next = append(next, e)
			}
		}
		rec.Experiences = next
		rep.ExperiencesUpdated += len(p.Order)
	}

	if len(p.SkillsAdd) > 0 {
		rec.Skills = nil
		for _, s := range p.SkillsAdd {
			if rec.AddSkill(s) {
				rep.SkillsAdded++
			}
		}
	}
	applySummary(rec, p.Summary, rep)
	applyContact(rec, p.Contact, rep)
}

// matchIdentityKey resolves a reorganize key: a stable id, a
// "company|title" pair, or a bare company name.
func matchIdentityKey(rec *Record, key string, used []bool) int {
	for i := range rec.Experiences {
		if !used[i] && rec.Experiences[i].ID == key {
			return i
		}
	}
	company, title, _ := strings.Cut(key, "|")
	for i := range rec.Experiences {
		if used[i] {
			continue
		}
		e := &rec.Experiences[i]
		if title != "" {
			if identityKey(e.Company, e.Title) == identityKey(company, title) {
				return i
			}
			continue
		}
		if foldKey(e.Company) == foldKey(company) {
			return i
		}
	}
	return -1
}
