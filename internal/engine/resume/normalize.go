package resume

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// ParseError reports an unrecoverable normalization failure. It
// carries the offending raw payload for diagnostics; callers decide
// whether to surface it or retry.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	raw := e.Raw
	if len(raw) > 200 {
		raw = raw[:200] + "..."
	}
	return fmt.Sprintf("normalize patch: %v (raw: %s)", e.Err, raw)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrNoPayload means no structured region and no recognizable
// natural-language intent was found in the input.
var ErrNoPayload = errors.New("no usable payload")

// Normalize converts a raw model response — free text possibly
// containing a fenced or delimited quasi-JSON block — into one
// canonical Patch.
//
// Fallback chain, each step tried only when the previous fails:
//  1. strict parse of the fenced/delimited region
//  2. light repair (smart quotes, trailing commas, bare keys), reparse
//  3. library repair pass over the region, reparse
//  4. brace-balanced substring extraction from the full text, reparse
//  5. no braces at all: scan for natural-language intents
func Normalize(raw string) (*Patch, error) {
	region := extractRegion(raw)

	if m, ok := parseObject(region); ok {
		return canonicalize(m), nil
	}
	if m, ok := parseObject(lightRepair(region)); ok {
		return canonicalize(m), nil
	}
	if fixed, err := jsonrepair.RepairJSON(region); err == nil {
		if m, ok := parseObject(fixed); ok {
			return canonicalize(m), nil
		}
	}
	if sub, ok := braceBalanced(raw); ok {
		if m, ok := parseObject(sub); ok {
			return canonicalize(m), nil
		}
		if fixed, err := jsonrepair.RepairJSON(sub); err == nil {
			if m, ok := parseObject(fixed); ok {
				return canonicalize(m), nil
			}
		}
	}
	if !strings.Contains(raw, "{") {
		if p := scanIntents(raw); p != nil {
			return p, nil
		}
	}
	return nil, &ParseError{Raw: raw, Err: ErrNoPayload}
}

// NormalizeObject canonicalizes an already-decoded payload with
// possibly inconsistent field aliases.
func NormalizeObject(m map[string]any) *Patch {
	return canonicalize(m)
}

// RepairJSON runs the same repair ladder as Normalize but returns the
// repaired JSON text instead of a Patch, for callers decoding into
// their own types.
func RepairJSON(raw string) (string, error) {
	region := extractRegion(raw)
	if validDocument(region) {
		return region, nil
	}
	if fixed := lightRepair(region); validDocument(fixed) {
		return fixed, nil
	}
	if fixed, err := jsonrepair.RepairJSON(region); err == nil && validDocument(fixed) {
		return fixed, nil
	}
	if sub, ok := braceBalanced(raw); ok {
		if validDocument(sub) {
			return sub, nil
		}
		if fixed, err := jsonrepair.RepairJSON(sub); err == nil && validDocument(fixed) {
			return fixed, nil
		}
	}
	return "", &ParseError{Raw: raw, Err: ErrNoPayload}
}

// validDocument accepts only structured JSON — an object or array.
// Repair passes happily coerce prose into a bare string literal, which
// is valid JSON but never a usable payload.
func validDocument(s string) bool {
	t := strings.TrimSpace(s)
	if t == "" || (t[0] != '{' && t[0] != '[') {
		return false
	}
	return json.Valid([]byte(t))
}

// --- region extraction ---

// extractRegion returns the fenced block body when the text carries
// one, otherwise the trimmed text itself.
func extractRegion(raw string) string {
	s := strings.TrimSpace(raw)
	start := strings.Index(s, "```")
	if start < 0 {
		return s
	}
	rest := s[start+3:]
	// Skip a language tag like "json" up to the first newline.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && nl < 20 && !strings.ContainsAny(rest[:nl], "{}") {
		rest = rest[nl+1:]
	}
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

func parseObject(s string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, m != nil
}

var (
	smartQuoteReplacer = strings.NewReplacer(
		"“", `"`, "”", `"`, "‘", "'", "’", "'",
	)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_\-]*)\s*:`)
)

// lightRepair applies the cheap mechanical fixes: smart quotes,
// trailing commas, unquoted keys, collapsed inter-line whitespace.
func lightRepair(s string) string {
	s = smartQuoteReplacer.Replace(s)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = bareKeyRe.ReplaceAllString(s, `$1"$2":`)
	s = strings.TrimSpace(s)
	return s
}

// braceBalanced scans for the first '{' and returns the substring up
// to its matching close, honoring strings and escapes.
func braceBalanced(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inStr := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inStr {
			switch c {
			case '\\':
				i++
			case '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// --- canonicalization ---

func canonicalize(m map[string]any) *Patch {
	p := &Patch{Op: opFor(getStr(m, "operation", "op", "action", "type", "mode"))}

	if em := getMap(m, "experience", "exp", "job", "position", "entry"); em != nil {
		d := experienceDelta(em)
		p.Experience = &d
	}
	for _, em := range getMapList(m, "experiences", "jobs", "positions", "entries", "work", "work_experience", "workExperience") {
		p.Experiences = append(p.Experiences, experienceDelta(em))
	}
	if em := getMap(m, "education", "edu"); em != nil {
		d := educationDelta(em)
		p.Education = &d
	}
	for _, em := range getMapList(m, "educations", "education_entries", "schools") {
		p.Educations = append(p.Educations, educationDelta(em))
	}

	p.SkillsAdd, p.SkillsRemove = skillsDelta(m)
	p.Summary = summaryEdit(m)
	p.Contact = contactDelta(m)
	p.Sections = sectionList(m)

	if lm := getMap(m, "remove_line", "removeLine", "delete_line", "line"); lm != nil {
		ref := LineRef{
			ExperienceID: getStr(lm, "experience_id", "experienceId", "id"),
			Company:      getStr(lm, "company", "employer", "organization"),
			Title:        getStr(lm, "title", "role", "position"),
			Match:        getStr(lm, "match", "text", "contains"),
		}
		if idx, ok := getInt(lm, "index", "line", "line_index", "lineIndex"); ok {
			ref.Index = &idx
		}
		p.RemoveLine = &ref
	}

	for _, v := range getList(m, "order", "sequence", "new_order", "newOrder") {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			p.Order = append(p.Order, strings.TrimSpace(s))
		}
	}
	return p
}

// opFor reduces the many historical operation spellings to one tag.
func opFor(s string) Op {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace", "overwrite", "set":
		return OpReplace
	case "reset":
		return OpReset
	case "remove", "delete":
		return OpRemove
	case "clear", "empty":
		return OpClear
	case "rewrite":
		return OpRewrite
	case "reorganize", "reorganise", "reorder":
		return OpReorganize
	default:
		// patch / add / update / merge / "" all mean upsert.
		return OpPatch
	}
}

func experienceDelta(m map[string]any) ExperienceDelta {
	d := ExperienceDelta{
		ID:         getStr(m, "id", "experience_id", "experienceId", "uuid"),
		Company:    getStr(m, "company", "employer", "organization", "org"),
		Title:      getStr(m, "title", "role", "position", "job_title", "jobTitle"),
		NewCompany: getStr(m, "new_company", "newCompany", "rename_company", "renameCompany"),
		NewTitle:   getStr(m, "new_title", "newTitle", "rename_title"),
		Duration:   reconcileDuration(m),
		Location:   getStrPtr(m, "location", "city", "place"),
	}
	d.Description = stringList(m, "description", "descriptions", "bullets", "highlights", "details", "lines", "responsibilities")
	return d
}

func educationDelta(m map[string]any) EducationDelta {
	d := EducationDelta{
		ID:       getStr(m, "id", "education_id", "educationId", "uuid"),
		School:   getStr(m, "school", "institution", "university", "college"),
		Degree:   getStr(m, "degree", "qualification", "program", "field"),
		Duration: reconcileDuration(m),
		Location: getStrPtr(m, "location", "city", "place"),
	}
	d.Description = stringList(m, "description", "descriptions", "bullets", "highlights", "details", "lines")
	return d
}

// reconcileDuration reduces the historical date-range spellings to one
// canonical field. Precedence: explicit combined "duration" > alias
// synonyms > start/end pair > single-ended pair ("start – Present").
// No usable signal yields nil (explicitly absent, not empty).
func reconcileDuration(m map[string]any) *string {
	if v, ok := lookup(m, "duration"); ok {
		if s, ok := v.(string); ok {
			s = strings.TrimSpace(s)
			return &s // explicit empty string is a deliberate clear
		}
	}
	for _, key := range []string{"years", "date", "dates", "period", "date_range", "daterange", "dateRange", "timeframe", "time_range", "timeRange"} {
		if s := getStr(m, key); s != "" {
			return &s
		}
	}
	start := getStr(m, "start_date", "startDate", "start", "from", "since")
	end := getStr(m, "end_date", "endDate", "end", "to", "until")
	switch {
	case start != "" && end != "":
		s := start + " – " + end
		return &s
	case start != "":
		s := start + " – Present"
		return &s
	case end != "":
		return &end
	}
	return nil
}

// skillsDelta accepts "skills" as a flat list (meaning add), as an
// {add, remove} object, or as separate aliased keys.
func skillsDelta(m map[string]any) (add, remove []string) {
	if v, ok := lookup(m, "skills", "skillset", "technologies", "tech"); ok {
		switch t := v.(type) {
		case []any:
			add = append(add, toStrings(t)...)
		case map[string]any:
			add = append(add, stringList(t, "add", "added", "new")...)
			remove = append(remove, stringList(t, "remove", "removed", "delete")...)
		case string:
			for _, s := range strings.Split(t, ",") {
				if s = strings.TrimSpace(s); s != "" {
					add = append(add, s)
				}
			}
		}
	}
	add = append(add, stringList(m, "skills_add", "add_skills", "skillsAdd", "addSkills", "new_skills")...)
	remove = append(remove, stringList(m, "skills_remove", "remove_skills", "skillsRemove", "removeSkills")...)
	return add, remove
}

func summaryEdit(m map[string]any) *SummaryEdit {
	if v, ok := lookup(m, "summary", "about", "profile", "objective"); ok {
		switch t := v.(type) {
		case string:
			return &SummaryEdit{Mode: SummaryReplace, Text: t}
		case map[string]any:
			edit := &SummaryEdit{
				Mode: SummaryMode(strings.ToLower(getStr(t, "mode", "edit", "how"))),
				Text: getStr(t, "text", "content", "value"),
			}
			switch edit.Mode {
			case SummaryReplace, SummaryAppend, SummaryPrepend:
			default:
				edit.Mode = SummaryReplace
			}
			return edit
		}
	}
	if s := getStr(m, "summary_append", "append_summary", "summaryAppend"); s != "" {
		return &SummaryEdit{Mode: SummaryAppend, Text: s}
	}
	if s := getStr(m, "summary_prepend", "prepend_summary", "summaryPrepend"); s != "" {
		return &SummaryEdit{Mode: SummaryPrepend, Text: s}
	}
	return nil
}

func contactDelta(m map[string]any) *ContactDelta {
	cm := getMap(m, "contact", "contacts", "personal", "person")
	if cm == nil {
		return nil
	}
	d := &ContactDelta{
		Name:     getStrPtr(cm, "name", "full_name", "fullName"),
		Email:    getStrPtr(cm, "email", "mail", "e-mail"),
		Phone:    getStrPtr(cm, "phone", "tel", "telephone", "mobile"),
		Location: getStrPtr(cm, "location", "city", "address"),
		Title:    getStrPtr(cm, "title", "headline", "role"),
	}
	if d.Name == nil && d.Email == nil && d.Phone == nil && d.Location == nil && d.Title == nil {
		return nil
	}
	return d
}

func sectionList(m map[string]any) []Section {
	var names []string
	if v, ok := lookup(m, "sections", "clear", "clear_sections", "clearSections", "section"); ok {
		switch t := v.(type) {
		case string:
			names = append(names, t)
		case []any:
			names = toStrings(t)
		}
	}
	var out []Section
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "experience", "experiences", "work":
			out = append(out, SectionExperiences)
		case "education", "educations":
			out = append(out, SectionEducations)
		case "skill", "skills":
			out = append(out, SectionSkills)
		case "summary", "about":
			out = append(out, SectionSummary)
		case "contact", "contacts":
			out = append(out, SectionContact)
		}
	}
	return out
}

// --- natural-language intent fallback ---

// scanIntents synthesizes a minimal patch from deletion/update
// keywords when the payload has no structured region at all.
func scanIntents(raw string) *Patch {
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)

	for _, section := range []struct {
		name Section
		word string
	}{
		{SectionSkills, "skills"},
		{SectionSummary, "summary"},
		{SectionExperiences, "experience"},
		{SectionEducations, "education"},
		{SectionContact, "contact"},
	} {
		if strings.Contains(lower, "clear "+section.word) || strings.Contains(lower, "clear the "+section.word) {
			return &Patch{Op: OpClear, Sections: []Section{section.name}}
		}
	}

	for _, trigger := range []string{"remove skill", "delete skill", "drop skill"} {
		if i := strings.Index(lower, trigger); i >= 0 {
			name := strings.Trim(strings.TrimSpace(text[i+len(trigger):]), `"'.`)
			if name != "" {
				return &Patch{Op: OpRemove, SkillsRemove: []string{name}}
			}
		}
	}

	for _, trigger := range []string{"remove ", "delete "} {
		if i := strings.Index(lower, trigger); i >= 0 {
			target := strings.Trim(strings.TrimSpace(text[i+len(trigger):]), `"'.`)
			target = strings.TrimPrefix(target, "the ")
			if target != "" {
				return &Patch{Op: OpRemove, Experience: &ExperienceDelta{Company: target}}
			}
		}
	}

	for _, trigger := range []string{"update summary to", "set summary to", "summary:"} {
		if i := strings.Index(lower, trigger); i >= 0 {
			txt := strings.Trim(strings.TrimSpace(text[i+len(trigger):]), `"'`)
			if txt != "" {
				return &Patch{Op: OpPatch, Summary: &SummaryEdit{Mode: SummaryReplace, Text: txt}}
			}
		}
	}
	return nil
}

// --- loose accessors ---

func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func getStr(m map[string]any, keys ...string) string {
	if v, ok := lookup(m, keys...); ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// getStrPtr distinguishes an explicitly-present string (possibly
// empty) from an absent one.
func getStrPtr(m map[string]any, keys ...string) *string {
	if v, ok := lookup(m, keys...); ok {
		if s, ok := v.(string); ok {
			s = strings.TrimSpace(s)
			return &s
		}
	}
	return nil
}

func getInt(m map[string]any, keys ...string) (int, bool) {
	if v, ok := lookup(m, keys...); ok {
		switch t := v.(type) {
		case float64:
			return int(t), true
		case string:
			var n int
			if _, err := fmt.Sscanf(strings.TrimSpace(t), "%d", &n); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func getMap(m map[string]any, keys ...string) map[string]any {
	if v, ok := lookup(m, keys...); ok {
		if mm, ok := v.(map[string]any); ok {
			return mm
		}
	}
	return nil
}

func getList(m map[string]any, keys ...string) []any {
	if v, ok := lookup(m, keys...); ok {
		if l, ok := v.([]any); ok {
			return l
		}
	}
	return nil
}

func getMapList(m map[string]any, keys ...string) []map[string]any {
	var out []map[string]any
	for _, v := range getList(m, keys...) {
		if mm, ok := v.(map[string]any); ok {
			out = append(out, mm)
		}
	}
	return out
}

// stringList accepts either a JSON array of strings or a single
// string under any of the keys.
func stringList(m map[string]any, keys ...string) []string {
	if v, ok := lookup(m, keys...); ok {
		switch t := v.(type) {
		case []any:
			return toStrings(t)
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return []string{s}
			}
		}
	}
	return nil
}

func toStrings(l []any) []string {
	var out []string
	for _, v := range l {
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
