package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/anatolykoptev/go_resume/internal/engine/doc"
	"github.com/anatolykoptev/go_resume/internal/engine/resume"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	Init(Config{HistoryMax: 10})
	InitCache("", time.Minute, 100, 5*time.Minute)

	s := NewSession(&resume.Record{
		Contact: resume.Contact{Name: "Jane Doe"},
		Summary: "Backend engineer.",
		Experiences: []resume.Experience{
			{ID: "exp-1", Company: "Acme", Title: "Engineer", Description: []string{"Built the billing pipeline"}},
		},
		Skills: []string{"Go"},
	})
	t.Cleanup(s.Close)
	return s
}

func TestSessionDo(t *testing.T) {
	s := newTestSession(t)

	id := summaryParagraphID(t, s)
	err := s.Do("tree_update", "edit summary", func(tr *doc.Tree) error {
		return tr.Update(id, doc.Fields{Text: strPtr("Platform engineer.")})
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got := s.Record().Summary; got != "Platform engineer." {
		t.Errorf("summary = %q, record not re-derived", got)
	}

	_, canUndo, canRedo := s.HistoryState()
	if !canUndo || canRedo {
		t.Errorf("canUndo=%v canRedo=%v after one edit", canUndo, canRedo)
	}
}

func TestSessionDoFailureRecordsNothing(t *testing.T) {
	s := newTestSession(t)

	err := s.Do("tree_remove", "remove missing", func(tr *doc.Tree) error {
		return tr.Remove("no-such-id")
	})
	if !errors.Is(err, doc.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, canUndo, _ := historyFlags(s); canUndo {
		t.Error("failed mutation must not push history")
	}
}

func TestSessionUndoRedo(t *testing.T) {
	s := newTestSession(t)

	if err := s.Undo(); !errors.Is(err, doc.ErrNothingToUndo) {
		t.Fatalf("undo on fresh session: %v", err)
	}

	id := summaryParagraphID(t, s)
	if err := s.Do("tree_update", "edit", func(tr *doc.Tree) error {
		return tr.Update(id, doc.Fields{Text: strPtr("Changed.")})
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := s.Record().Summary; got != "Backend engineer." {
		t.Errorf("after undo summary = %q", got)
	}

	if err := s.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := s.Record().Summary; got != "Changed." {
		t.Errorf("after redo summary = %q", got)
	}
	if err := s.Redo(); !errors.Is(err, doc.ErrNothingToRedo) {
		t.Errorf("redo at tip: %v", err)
	}
}

func TestSessionApplyPatch(t *testing.T) {
	s := newTestSession(t)

	rep, _, err := s.ApplyPatch(`{"skills": ["Kubernetes", "go"]}`)
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if rep.SkillsAdded != 1 {
		t.Errorf("skills added = %d, want 1 (go is a duplicate)", rep.SkillsAdded)
	}
	rec := s.Record()
	if len(rec.Skills) != 2 || rec.Skills[1] != "Kubernetes" {
		t.Errorf("skills = %v", rec.Skills)
	}

	// The merge landed in history, so it undoes like any tree action.
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := s.Record().Skills; len(got) != 1 {
		t.Errorf("after undo skills = %v", got)
	}
}

func TestSessionApplyPatchRefinesNewLines(t *testing.T) {
	s := newTestSession(t)

	payload := `{"experiences": [{"company": "Acme", "title": "Engineer",
		"description": ["Python, Terraform, Ansible, Grafana", "Mentored two junior engineers"]}]}`
	rep, ref, err := s.ApplyPatch(payload)
	if err != nil {
		t.Fatal(err)
	}
	if rep.LinesAdded != 2 {
		t.Fatalf("lines added = %d", rep.LinesAdded)
	}
	if ref == nil || ref.LinesStripped != 1 {
		t.Fatalf("refine report = %+v, want the enumeration stripped", ref)
	}

	rec := s.Record()
	for _, skill := range []string{"Python", "Terraform", "Ansible", "Grafana"} {
		if !hasSkill(rec, skill) {
			t.Errorf("skill %q not folded from enumeration", skill)
		}
	}
	if got := rec.Experiences[0].Description; len(got) != 2 || got[1] != "Mentored two junior engineers" {
		t.Errorf("descriptions = %v", got)
	}
}

func TestSessionApplyPatchUnparseable(t *testing.T) {
	s := newTestSession(t)

	if _, _, err := s.ApplyPatch("total nonsense with no intent"); err == nil {
		t.Error("expected normalization failure")
	}
	if _, canUndo, _ := historyFlags(s); canUndo {
		t.Error("failed patch must not push history")
	}
}

func TestSessionResetRecord(t *testing.T) {
	s := newTestSession(t)

	s.ResetRecord(&resume.Record{Summary: "Fresh start."})
	if got := s.Record().Summary; got != "Fresh start." {
		t.Errorf("summary = %q", got)
	}

	// The previous state is one undo away.
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := s.Record().Contact.Name; got != "Jane Doe" {
		t.Errorf("after undo name = %q", got)
	}
}

func TestSessionInspect(t *testing.T) {
	s := newTestSession(t)

	t.Run("whole forest", func(t *testing.T) {
		views, err := s.Inspect("", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(views) != 5 {
			t.Fatalf("root views = %d", len(views))
		}
		if views[0].Text != "Contact" || views[0].Address != "0" {
			t.Errorf("first root = %+v", views[0])
		}
	})

	t.Run("single subtree", func(t *testing.T) {
		views, err := s.Inspect("2.0", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(views) != 1 || views[0].Company != "Acme" {
			t.Errorf("views = %+v", views)
		}
		if len(views[0].Children) != 1 {
			t.Errorf("children = %+v", views[0].Children)
		}
	})

	t.Run("depth limited", func(t *testing.T) {
		views, err := s.Inspect("2", 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(views[0].Children) != 0 {
			t.Error("depth 1 must not descend")
		}
	})

	t.Run("malformed address", func(t *testing.T) {
		if _, err := s.Inspect("01.x", 0); !errors.Is(err, doc.ErrInvalidPosition) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("missing address", func(t *testing.T) {
		if _, err := s.Inspect("9.9", 0); !errors.Is(err, doc.ErrNotFound) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestSessionRender(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	art, stale, err := s.Render(ctx)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if stale {
		t.Error("synchronous render is never stale")
	}
	if art.HTML == "" || art.CSS == "" {
		t.Error("empty artifact")
	}

	// Second call for the same tree content is served from cache.
	art2, _, err := s.Render(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if art2.HTML != art.HTML {
		t.Error("cached artifact differs")
	}
}

func TestSessionRenderTracksEdits(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	edit := func(text string) {
		t.Helper()
		id := summaryParagraphID(t, s)
		if err := s.Do("tree_update", "edit", func(tr *doc.Tree) error {
			return tr.Update(id, doc.Fields{Text: strPtr(text)})
		}); err != nil {
			t.Fatal(err)
		}
	}

	edit("State alpha.")
	art, _, err := s.Render(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(art.HTML, "State alpha.") {
		t.Fatalf("first render missing edited text:\n%s", art.HTML)
	}

	// Undo then edit again: the new state occupies the history slot the
	// first edit held, so the cache must key on content, not position.
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	edit("State beta.")

	art, _, err = s.Render(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(art.HTML, "State alpha.") {
		t.Error("render served the superseded state")
	}
	if !strings.Contains(art.HTML, "State beta.") {
		t.Errorf("render missing current text:\n%s", art.HTML)
	}
}

func TestSessionApplyPatchObject(t *testing.T) {
	s := newTestSession(t)

	rep, _, err := s.ApplyPatchObject(map[string]any{
		"skills": []any{"Kubernetes", "go"},
	})
	if err != nil {
		t.Fatalf("ApplyPatchObject: %v", err)
	}
	if rep.SkillsAdded != 1 {
		t.Errorf("skills added = %d, want 1 (go is a duplicate)", rep.SkillsAdded)
	}
	if !hasSkill(s.Record(), "Kubernetes") {
		t.Errorf("skills = %v", s.Record().Skills)
	}
}

func TestSessionApplyPatchObjectEmpty(t *testing.T) {
	s := newTestSession(t)

	if _, _, err := s.ApplyPatchObject(map[string]any{}); !errors.Is(err, resume.ErrNoPayload) {
		t.Fatalf("err = %v, want ErrNoPayload", err)
	}
	if _, canUndo, _ := historyFlags(s); canUndo {
		t.Error("rejected object must not push history")
	}

	// Destructive ops with a section list pass the zero guard.
	if _, _, err := s.ApplyPatchObject(map[string]any{"op": "clear", "sections": []any{"skills"}}); err != nil {
		t.Fatalf("clear object: %v", err)
	}
	if got := s.Record().Skills; len(got) != 0 {
		t.Errorf("after clear skills = %v", got)
	}
}

func TestSessionRegistry(t *testing.T) {
	s := newTestSession(t)
	before := SessionCount()
	RegisterSession(s)

	if got := SessionCount(); got != before+1 {
		t.Errorf("session count = %d, want %d", got, before+1)
	}

	got, err := LookupSession(s.ID)
	if err != nil {
		t.Fatalf("LookupSession: %v", err)
	}
	if got != s {
		t.Error("lookup returned a different session")
	}

	CloseSession(s.ID)
	if _, err := LookupSession(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("after close err = %v", err)
	}
	if got := SessionCount(); got != before {
		t.Errorf("session count after close = %d, want %d", got, before)
	}
}

// summaryParagraphID finds the paragraph node under the summary section.
func summaryParagraphID(t *testing.T, s *Session) string {
	t.Helper()
	for _, root := range s.Roots() {
		if root.Text == "Summary" && len(root.Children) > 0 {
			return root.Children[0].ID
		}
	}
	t.Fatal("summary paragraph not found")
	return ""
}

func historyFlags(s *Session) ([]doc.EntrySummary, bool, bool) {
	return s.HistoryState()
}

func hasSkill(rec *resume.Record, name string) bool {
	for _, s := range rec.Skills {
		if s == name {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }
