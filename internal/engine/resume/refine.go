package resume

import (
	"regexp"
	"strings"
)

// RefinerConfig holds the tunable classification thresholds. The
// defaults match the historical behavior; tests exercise other values.
type RefinerConfig struct {
	// EnumRatio is the minimum share of tokens that must look like
	// short technology tokens for a line to count as an enumeration.
	EnumRatio float64
	// MaxTokenLen caps the length of an enumeration token.
	MaxTokenLen int
	// MinTokens is the minimum token count for an enumeration line; a
	// single word is never stripped.
	MinTokens int
}

// DefaultRefinerConfig returns the standard thresholds.
func DefaultRefinerConfig() RefinerConfig {
	return RefinerConfig{EnumRatio: 0.6, MaxTokenLen: 60, MinTokens: 2}
}

// RefineReport summarizes one refinement pass.
type RefineReport struct {
	LinesStripped  int      `json:"lines_stripped"`
	SkillsFolded   []string `json:"skills_folded,omitempty"`
	SoftSkillsSeen []string `json:"soft_skills,omitempty"`
}

// softSkillPhrases maps narrative phrase fragments to soft-skill
// labels. Matching is case-insensitive substring; the retained text is
// never altered.
var softSkillPhrases = []struct {
	phrase string
	label  string
}{
	{"led a team", "Leadership"},
	{"led the team", "Leadership"},
	{"team lead", "Leadership"},
	{"managed a team", "Team Management"},
	{"managed the team", "Team Management"},
	{"direct reports", "People Management"},
	{"mentored", "Mentoring"},
	{"coached", "Mentoring"},
	{"cross-functional", "Collaboration"},
	{"collaborated", "Collaboration"},
	{"stakeholder", "Stakeholder Management"},
	{"presented", "Communication"},
	{"communicated", "Communication"},
	{"negotiated", "Negotiation"},
	{"prioritized", "Prioritization"},
	{"roadmap", "Product Planning"},
	{"hired", "Hiring"},
	{"recruited", "Hiring"},
	{"onboarded", "Onboarding"},
}

// enumTokenRe matches a technology-ish token: letters, digits and the
// symbol characters common in tool names (C++, C#, Node.js, CI/CD),
// with at most one internal space ("Google Cloud").
var enumTokenRe = regexp.MustCompile(`^[A-Za-z0-9+#.\-/]+(?: [A-Za-z0-9+#.\-/]+)?$`)

// narrativeMarkers are function words that technology enumerations
// essentially never contain; one of them flags a line as prose.
var narrativeMarkers = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "of": true,
	"to": true, "in": true, "for": true, "with": true, "on": true,
	"that": true, "which": true, "our": true, "their": true, "we": true,
	"i": true, "by": true, "from": true, "was": true, "were": true, "is": true,
}

// Refine runs the classification pass over every experience and
// education entry: description lines that are disguised technology
// enumerations are stripped and their tokens folded into the skills
// set; narrative lines are retained verbatim and scanned for
// soft-skill phrases.
//
// The pass is lossy by design — stripped lines are gone — so callers
// run it only on freshly-ingested content, never retroactively on
// user-edited text.
func Refine(rec *Record, cfg RefinerConfig) *RefineReport {
	if cfg.EnumRatio <= 0 {
		cfg = DefaultRefinerConfig()
	}
	rep := &RefineReport{}

	for i := range rec.Experiences {
		rec.Experiences[i].Description = refineLines(rec, rec.Experiences[i].Description, cfg, rep)
	}
	for i := range rec.Educations {
		rec.Educations[i].Description = refineLines(rec, rec.Educations[i].Description, cfg, rep)
	}
	return rep
}

func refineLines(rec *Record, lines []string, cfg RefinerConfig, rep *RefineReport) []string {
	var kept []string
	for _, line := range lines {
		if tokens, ok := classifyEnumeration(line, cfg); ok {
			rep.LinesStripped++
			for _, tok := range tokens {
				if rec.AddSkill(tok) {
					rep.SkillsFolded = append(rep.SkillsFolded, tok)
				}
			}
			continue
		}
		kept = append(kept, line)
		for _, label := range softSkillsIn(line) {
			if rec.AddSkill(label) {
				rep.SoftSkillsSeen = append(rep.SoftSkillsSeen, label)
			}
		}
	}
	return kept
}

// classifyEnumeration splits a line on the common list separators and
// reports whether it is enumeration-like: at least cfg.EnumRatio of
// its tokens match the short technology-token shape and none of its
// words is a narrative marker.
func classifyEnumeration(line string, cfg RefinerConfig) (tokens []string, ok bool) {
	for _, w := range strings.Fields(strings.ToLower(line)) {
		if narrativeMarkers[strings.Trim(w, ".,;:")] {
			return nil, false
		}
	}

	parts := splitEnumeration(line)
	if len(parts) < cfg.MinTokens {
		return nil, false
	}
	matched := 0
	for _, p := range parts {
		if len(p) <= cfg.MaxTokenLen && enumTokenRe.MatchString(p) {
			matched++
		}
	}
	if float64(matched) < cfg.EnumRatio*float64(len(parts)) {
		return nil, false
	}
	for _, p := range parts {
		if len(p) <= cfg.MaxTokenLen && enumTokenRe.MatchString(p) {
			tokens = append(tokens, p)
		}
	}
	return tokens, true
}

var enumSeparatorRe = regexp.MustCompile(`\s*[,;|•·]\s*`)

func splitEnumeration(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, ".")
	var out []string
	for _, p := range enumSeparatorRe.Split(line, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func softSkillsIn(line string) []string {
	lower := strings.ToLower(line)
	var out []string
	for _, ss := range softSkillPhrases {
		if strings.Contains(lower, ss.phrase) {
			out = append(out, ss.label)
		}
	}
	return out
}
