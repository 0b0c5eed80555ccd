// Package resume implements the domain-level resume record, the patch
// normalizer that canonicalizes loosely-structured external payloads,
// the merge engine that applies canonical patches, and the content
// refiner that separates technology enumerations from narrative lines.
package resume

import (
	"strings"

	"github.com/google/uuid"
)

// Contact is the resume contact block.
type Contact struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Title    string `json:"title,omitempty"`
}

// Experience is one work entry. Identity for upserts is ID first, else
// the normalized (company, title) pair.
type Experience struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	Title       string   `json:"title"`
	Duration    string   `json:"duration,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description []string `json:"description,omitempty"`
}

// Education is one education entry, parallel in shape to Experience
// (institution, degree).
type Education struct {
	ID          string   `json:"id"`
	School      string   `json:"school"`
	Degree      string   `json:"degree"`
	Duration    string   `json:"duration,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description []string `json:"description,omitempty"`
}

// Record is the flat domain object the merge engine operates on.
// Invariants: the skills list and each entry's description lines hold
// no two values equal after case-fold + trim.
type Record struct {
	Contact     Contact      `json:"contact"`
	Summary     string       `json:"summary,omitempty"`
	Experiences []Experience `json:"experiences,omitempty"`
	Educations  []Education  `json:"educations,omitempty"`
	Skills      []string     `json:"skills,omitempty"`
}

// foldKey is the canonical form used for all case-insensitive
// comparisons (skills, description lines, identity keys). Unicode
// lowercasing applies to every cased script; uncased scripts compare
// byte-exact after trimming.
func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// identityKey builds the fallback upsert key from two name parts.
func identityKey(a, b string) string {
	return foldKey(a) + "\x00" + foldKey(b)
}

// NewExperienceID allocates a stable entry id.
func NewExperienceID() string { return uuid.NewString() }

// EnsureIDs assigns ids to entries that arrived without one, e.g. from
// externally structured payloads. Existing ids are kept.
func (r *Record) EnsureIDs() {
	for i := range r.Experiences {
		if r.Experiences[i].ID == "" {
			r.Experiences[i].ID = uuid.NewString()
		}
	}
	for i := range r.Educations {
		if r.Educations[i].ID == "" {
			r.Educations[i].ID = uuid.NewString()
		}
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{
		Contact: r.Contact,
		Summary: r.Summary,
	}
	c.Experiences = make([]Experience, len(r.Experiences))
	for i, e := range r.Experiences {
		c.Experiences[i] = e
		c.Experiences[i].Description = append([]string(nil), e.Description...)
	}
	c.Educations = make([]Education, len(r.Educations))
	for i, e := range r.Educations {
		c.Educations[i] = e
		c.Educations[i].Description = append([]string(nil), e.Description...)
	}
	c.Skills = append([]string(nil), r.Skills...)
	return c
}

// AddSkill appends a skill unless an entry equal under case-fold+trim
// already exists. Reports whether the skill was added.
func (r *Record) AddSkill(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	key := foldKey(s)
	for _, have := range r.Skills {
		if foldKey(have) == key {
			return false
		}
	}
	r.Skills = append(r.Skills, s)
	return true
}

// RemoveSkill deletes the skill matching name under case-fold+trim.
func (r *Record) RemoveSkill(name string) bool {
	key := foldKey(name)
	for i, have := range r.Skills {
		if foldKey(have) == key {
			r.Skills = append(r.Skills[:i], r.Skills[i+1:]...)
			return true
		}
	}
	return false
}

// findExperience locates an entry by id first, then by normalized
// (company, title) identity. Returns -1 when absent.
func (r *Record) findExperience(id, company, title string) int {
	if id != "" {
		for i := range r.Experiences {
			if r.Experiences[i].ID == id {
				return i
			}
		}
	}
	if company == "" && title == "" {
		return -1
	}
	key := identityKey(company, title)
	for i := range r.Experiences {
		if identityKey(r.Experiences[i].Company, r.Experiences[i].Title) == key {
			return i
		}
	}
	return -1
}

// findEducation locates an entry by id first, then by normalized
// (school, degree) identity.
func (r *Record) findEducation(id, school, degree string) int {
	if id != "" {
		for i := range r.Educations {
			if r.Educations[i].ID == id {
				return i
			}
		}
	}
	if school == "" && degree == "" {
		return -1
	}
	key := identityKey(school, degree)
	for i := range r.Educations {
		if identityKey(r.Educations[i].School, r.Educations[i].Degree) == key {
			return i
		}
	}
	return -1
}

// mergeLines appends the genuinely new lines of add onto have,
// preserving existing order and rejecting duplicates under
// case-fold+trim.
func mergeLines(have, add []string) (out []string, added int) {
	out = have
	seen := make(map[string]bool, len(have))
	for _, l := range have {
		seen[foldKey(l)] = true
	}
	for _, l := range add {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		key := foldKey(l)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
		added++
	}
	return out, added
}

// dedupeLines drops duplicate lines under case-fold+trim, keeping the
// first occurrence.
func dedupeLines(lines []string) []string {
	var out []string
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		key := foldKey(l)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}
