package resume

import (
	"strings"

	"github.com/anatolykoptev/go_resume/internal/engine/doc"
)

// The presentation tree and the domain record are two projections of
// the same document. BuildForest renders the record as a tree;
// RecordFromForest derives the record back from a tree snapshot, which
// is how undo/redo restores domain state from a tree-only snapshot.

const sectionHint = "section"

// BuildForest projects the record into an ordered forest of section
// containers. Entry containers reuse the entry's stable id, so an
// unchanged entry keeps its node identity across rebuilds.
func BuildForest(rec *Record) []*doc.Node {
	var roots []*doc.Node

	contact := doc.NewNode(doc.NodeSpec{
		Kind:  doc.KindContainer,
		Text:  "Contact",
		Hints: map[string]string{sectionHint: string(SectionContact)},
	})
	for _, kv := range []struct{ key, val string }{
		{"name", rec.Contact.Name},
		{"title", rec.Contact.Title},
		{"email", rec.Contact.Email},
		{"phone", rec.Contact.Phone},
		{"location", rec.Contact.Location},
	} {
		if kv.val == "" {
			continue
		}
		contact.Children = append(contact.Children, doc.NewNode(doc.NodeSpec{
			Kind:  doc.KindKeyValue,
			Text:  kv.val,
			Hints: map[string]string{"key": kv.key},
		}))
	}
	roots = append(roots, contact)

	summary := doc.NewNode(doc.NodeSpec{
		Kind:  doc.KindContainer,
		Text:  "Summary",
		Hints: map[string]string{sectionHint: string(SectionSummary)},
	})
	if rec.Summary != "" {
		summary.Children = append(summary.Children, doc.NewNode(doc.NodeSpec{
			Kind: doc.KindParagraph,
			Text: rec.Summary,
		}))
	}
	roots = append(roots, summary)

	exp := doc.NewNode(doc.NodeSpec{
		Kind:  doc.KindContainer,
		Text:  "Experience",
		Hints: map[string]string{sectionHint: string(SectionExperiences)},
	})
	for _, e := range rec.Experiences {
		entry := &doc.Node{
			ID:   e.ID,
			Kind: doc.KindContainer,
			Text: e.Title,
			Meta: doc.Meta{Company: e.Company, Duration: e.Duration, Location: e.Location},
		}
		for _, line := range e.Description {
			entry.Children = append(entry.Children, doc.NewNode(doc.NodeSpec{
				Kind: doc.KindListItem,
				Text: line,
			}))
		}
		exp.Children = append(exp.Children, entry)
	}
	roots = append(roots, exp)

	edu := doc.NewNode(doc.NodeSpec{
		Kind:  doc.KindContainer,
		Text:  "Education",
		Hints: map[string]string{sectionHint: string(SectionEducations)},
	})
	for _, e := range rec.Educations {
		entry := &doc.Node{
			ID:   e.ID,
			Kind: doc.KindContainer,
			Text: e.Degree,
			Meta: doc.Meta{Company: e.School, Duration: e.Duration, Location: e.Location},
		}
		for _, line := range e.Description {
			entry.Children = append(entry.Children, doc.NewNode(doc.NodeSpec{
				Kind: doc.KindListItem,
				Text: line,
			}))
		}
		edu.Children = append(edu.Children, entry)
	}
	roots = append(roots, edu)

	skills := doc.NewNode(doc.NodeSpec{
		Kind:  doc.KindGrid,
		Text:  "Skills",
		Hints: map[string]string{sectionHint: string(SectionSkills)},
	})
	for _, s := range rec.Skills {
		skills.Children = append(skills.Children, doc.NewNode(doc.NodeSpec{
			Kind: doc.KindListItem,
			Text: s,
		}))
	}
	roots = append(roots, skills)

	return roots
}

// RecordFromForest derives the domain record from a tree snapshot.
// Nodes outside the recognized section containers are ignored; a tree
// with no section hints yields an empty record, not an error.
func RecordFromForest(roots []*doc.Node) *Record {
	rec := &Record{}
	for _, root := range roots {
		switch Section(root.Hints[sectionHint]) {
		case SectionContact:
			for _, kv := range root.Children {
				switch kv.Hints["key"] {
				case "name":
					rec.Contact.Name = kv.Text
				case "title":
					rec.Contact.Title = kv.Text
				case "email":
					rec.Contact.Email = kv.Text
				case "phone":
					rec.Contact.Phone = kv.Text
				case "location":
					rec.Contact.Location = kv.Text
				}
			}
		case SectionSummary:
			var parts []string
			for _, ch := range root.Children {
				if strings.TrimSpace(ch.Text) != "" {
					parts = append(parts, strings.TrimSpace(ch.Text))
				}
			}
			rec.Summary = strings.Join(parts, " ")
		case SectionExperiences:
			for _, entry := range root.Children {
				e := Experience{
					ID:       entry.ID,
					Title:    entry.Text,
					Company:  entry.Meta.Company,
					Duration: entry.Meta.Duration,
					Location: entry.Meta.Location,
				}
				lines := make([]string, 0, len(entry.Children))
				for _, line := range entry.Children {
					lines = append(lines, line.Text)
				}
				// Tree edits can introduce case-fold duplicates; the record
				// never holds two equal lines.
				e.Description = dedupeLines(lines)
				rec.Experiences = append(rec.Experiences, e)
			}
		case SectionEducations:
			for _, entry := range root.Children {
				e := Education{
					ID:       entry.ID,
					Degree:   entry.Text,
					School:   entry.Meta.Company,
					Duration: entry.Meta.Duration,
					Location: entry.Meta.Location,
				}
				lines := make([]string, 0, len(entry.Children))
				for _, line := range entry.Children {
					lines = append(lines, line.Text)
				}
				e.Description = dedupeLines(lines)
				rec.Educations = append(rec.Educations, e)
			}
		case SectionSkills:
			for _, ch := range root.Children {
				rec.AddSkill(ch.Text)
			}
		}
	}
	return rec
}
