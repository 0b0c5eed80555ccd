package resume

// Op is the canonical patch operation tag. The merge engine dispatches
// on it exhaustively; adding an operation means touching that switch.
type Op string

const (
	OpPatch      Op = "patch" // default: per-entity upsert
	OpReplace    Op = "replace"
	OpReset      Op = "reset"
	OpRemove     Op = "remove"
	OpClear      Op = "clear"
	OpRewrite    Op = "rewrite"
	OpReorganize Op = "reorganize"
)

// Section names a clearable/removable region of the record.
type Section string

const (
	SectionExperiences Section = "experiences"
	SectionEducations  Section = "educations"
	SectionSkills      Section = "skills"
	SectionSummary     Section = "summary"
	SectionContact     Section = "contact"
)

// SummaryMode selects how a summary edit combines with the current text.
type SummaryMode string

const (
	SummaryReplace SummaryMode = "replace"
	SummaryAppend  SummaryMode = "append"
	SummaryPrepend SummaryMode = "prepend"
)

// ExperienceDelta is a partial experience update. Pointer fields
// distinguish "absent" from "explicitly empty": a nil Duration leaves
// the current value, an explicit "" clears it.
type ExperienceDelta struct {
	ID          string   `json:"id,omitempty"`
	Company     string   `json:"company,omitempty"`
	Title       string   `json:"title,omitempty"`
	NewCompany  string   `json:"new_company,omitempty"` // rewrite may change identity; tracked explicitly
	NewTitle    string   `json:"new_title,omitempty"`
	Duration    *string  `json:"duration,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Description []string `json:"description,omitempty"`
}

// EducationDelta mirrors ExperienceDelta for education entries.
type EducationDelta struct {
	ID          string   `json:"id,omitempty"`
	School      string   `json:"school,omitempty"`
	Degree      string   `json:"degree,omitempty"`
	Duration    *string  `json:"duration,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Description []string `json:"description,omitempty"`
}

// ContactDelta is a partial contact update.
type ContactDelta struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	Title    *string `json:"title,omitempty"`
}

// SummaryEdit is a summary change with an explicit combine mode.
type SummaryEdit struct {
	Mode SummaryMode `json:"mode"`
	Text string      `json:"text"`
}

// LineRef targets one description line inside an experience, either by
// 0-based index or by fuzzy text match (case-fold substring).
type LineRef struct {
	ExperienceID string `json:"experience_id,omitempty"`
	Company      string `json:"company,omitempty"`
	Title        string `json:"title,omitempty"`
	Index        *int   `json:"index,omitempty"`
	Match        string `json:"match,omitempty"`
}

// Patch is the canonical, normalized external update. Only the fields
// relevant to Op are populated; unpopulated fields are no-ops, never
// destructive by omission.
type Patch struct {
	Op Op `json:"operation"`

	Experience  *ExperienceDelta  `json:"experience,omitempty"`
	Experiences []ExperienceDelta `json:"experiences,omitempty"`
	Education   *EducationDelta   `json:"education,omitempty"`
	Educations  []EducationDelta  `json:"educations,omitempty"`

	SkillsAdd    []string `json:"skills_add,omitempty"`
	SkillsRemove []string `json:"skills_remove,omitempty"`

	Summary *SummaryEdit  `json:"summary,omitempty"`
	Contact *ContactDelta `json:"contact,omitempty"`

	Sections   []Section `json:"sections,omitempty"` // clear / remove section targets
	RemoveLine *LineRef  `json:"remove_line,omitempty"`

	// Order lists identity keys ("id" or "company|title") for
	// reorganize when Experiences is not given in full.
	Order []string `json:"order,omitempty"`
}

// IsZero reports whether the patch carries no effective payload beyond
// its operation tag.
func (p *Patch) IsZero() bool {
	return p.Experience == nil && len(p.Experiences) == 0 &&
		p.Education == nil && len(p.Educations) == 0 &&
		len(p.SkillsAdd) == 0 && len(p.SkillsRemove) == 0 &&
		p.Summary == nil && p.Contact == nil &&
		len(p.Sections) == 0 && p.RemoveLine == nil && len(p.Order) == 0
}
