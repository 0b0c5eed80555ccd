package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/anatolykoptev/go_resume/internal/engine/doc"
	"github.com/anatolykoptev/go_resume/internal/engine/resume"
)

// Session is one editable resume: the domain record, its tree
// projection, the undo/redo history and the background renderer.
//
// The record and the tree are kept in lockstep: every mutation path
// re-derives one from the other before the history entry is pushed, so
// restoring any snapshot restores both.
type Session struct {
	ID string

	mu   sync.Mutex
	rec  *resume.Record
	tree *doc.Tree
	hist *doc.History

	refresh *RefreshQueue
}

// NewSession builds a session around a structured record. The initial
// state is recorded as history entry zero.
func NewSession(rec *resume.Record) *Session {
	rec.EnsureIDs()
	roots := resume.BuildForest(rec)
	tree := doc.NewTree(roots)

	max := cfg.HistoryMax
	if max <= 0 {
		max = doc.DefaultHistoryMax
	}
	hist := doc.NewHistory(max)
	hist.Apply(doc.NewHistoryEntry(tree.Roots(), tree.Numbering(), "imported", "import"))

	s := &Session{
		ID:   uuid.NewString(),
		rec:  rec,
		tree: tree,
		hist: hist,
	}
	s.refresh = NewRefreshQueue(s.renderCurrent)
	s.refresh.Schedule()
	return s
}

// Record returns a deep copy of the current domain record.
func (s *Session) Record() *resume.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Clone()
}

// Roots returns a snapshot of the current tree.
func (s *Session) Roots() []*doc.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return doc.CloneForest(s.tree.Roots())
}

// Do runs one tree mutation under the session lock. On success the
// record is re-derived from the tree, a history entry is pushed and a
// background render is scheduled. On failure nothing is recorded.
func (s *Session) Do(action, description string, fn func(*doc.Tree) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.tree); err != nil {
		IncrTreeActionErrors()
		return err
	}
	IncrTreeActions()

	s.rec = resume.RecordFromForest(s.tree.Roots())
	s.hist.Apply(doc.NewHistoryEntry(s.tree.Roots(), s.tree.Numbering(), description, action))
	s.refresh.Schedule()
	return nil
}

// ApplyPatch normalizes a raw payload, merges it into the record and
// re-projects the tree. Freshly merged description lines go through the
// enumeration refiner; lines that predate this patch are not touched.
func (s *Session) ApplyPatch(payload string) (*resume.MergeReport, *resume.RefineReport, error) {
	p, err := resume.Normalize(payload)
	if err != nil {
		IncrPatchParseErrors()
		return nil, nil, err
	}
	IncrPatchesNormalized()
	return s.applyPatch(p)
}

// ApplyPatchObject merges an already-decoded patch object, skipping the
// payload repair chain. An object with no recognized fields under the
// default upsert operation is rejected as unusable.
func (s *Session) ApplyPatchObject(obj map[string]any) (*resume.MergeReport, *resume.RefineReport, error) {
	p := resume.NormalizeObject(obj)
	if p.IsZero() && p.Op == resume.OpPatch {
		IncrPatchParseErrors()
		return nil, nil, fmt.Errorf("patch object: %w", resume.ErrNoPayload)
	}
	IncrPatchesNormalized()
	return s.applyPatch(p)
}

func (s *Session) applyPatch(p *resume.Patch) (*resume.MergeReport, *resume.RefineReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rep := resume.Apply(s.rec, p)
	IncrPatchesMerged()

	var ref *resume.RefineReport
	if rep.LinesAdded > 0 || rep.ExperiencesAdded > 0 || rep.EducationsAdded > 0 {
		ref = resume.Refine(s.rec, refinerConfig())
	}

	if !rep.Changed() {
		slog.Debug("patch had no effect", slog.String("session", s.ID), slog.String("op", string(rep.Op)))
		return rep, ref, nil
	}

	s.tree.Restore(resume.BuildForest(s.rec))
	s.hist.Apply(doc.NewHistoryEntry(s.tree.Roots(), s.tree.Numbering(), describePatch(rep), "patch"))
	s.refresh.Schedule()
	return rep, ref, nil
}

// ResetRecord replaces the whole record, e.g. on re-import.
func (s *Session) ResetRecord(rec *resume.Record) {
	rec.EnsureIDs()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = rec
	s.tree.Restore(resume.BuildForest(rec))
	s.hist.Apply(doc.NewHistoryEntry(s.tree.Roots(), s.tree.Numbering(), "reset", "reset"))
	s.refresh.Schedule()
}

// Undo steps back one history entry and restores both projections.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.hist.Undo()
	if err != nil {
		return err
	}
	IncrUndos()
	s.restoreEntry(e)
	return nil
}

// Redo steps forward one history entry.
func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.hist.Redo()
	if err != nil {
		return err
	}
	IncrRedos()
	s.restoreEntry(e)
	return nil
}

func (s *Session) restoreEntry(e *doc.HistoryEntry) {
	s.tree.Restore(e.Snapshot())
	s.rec = resume.RecordFromForest(s.tree.Roots())
	s.refresh.Schedule()
}

// HistoryState returns the retained snapshots plus navigation flags.
func (s *Session) HistoryState() ([]doc.EntrySummary, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.List(), s.hist.CanUndo(), s.hist.CanRedo()
}

// Inspect resolves an address to its subtree view, depth-limited when
// depth > 0. Empty address means the whole forest.
func (s *Session) Inspect(addr string, depth int) ([]NodeView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if addr == "" {
		views := make([]NodeView, 0, len(s.tree.Roots()))
		for i, r := range s.tree.Roots() {
			views = append(views, nodeView(r, strconv.Itoa(i), depth))
		}
		return views, nil
	}
	if !doc.ValidAddress(addr) {
		return nil, fmt.Errorf("inspect %q: %w", addr, doc.ErrInvalidPosition)
	}
	n, ok := s.tree.Get(addr)
	if !ok {
		return nil, fmt.Errorf("inspect %q: %w", addr, doc.ErrNotFound)
	}
	return []NodeView{nodeView(n, addr, depth)}, nil
}

// AddressOf maps a stable node id to its current address.
func (s *Session) AddressOf(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Addresses().AddressOf(id)
}

// Len returns the current node count.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Len()
}

// Render returns the latest render artifact. The cache is keyed by
// tree content, so a rewind to a previously rendered state hits and a
// history position reused after branch truncation or eviction cannot
// serve another state's artifact.
func (s *Session) Render(ctx context.Context) (RenderArtifact, bool, error) {
	s.mu.Lock()
	roots := doc.CloneForest(s.tree.Roots())
	s.mu.Unlock()
	key := renderKey(roots)

	if art, ok := CacheLoadJSON[RenderArtifact](ctx, key); ok {
		return art, false, nil
	}

	art, err := RenderDocument(roots)
	if err != nil {
		return RenderArtifact{}, false, err
	}
	CacheStoreJSON(ctx, key, art)
	return art, false, nil
}

// renderKey fingerprints a forest snapshot. Node ids, text, metadata
// and order all feed the key; map keys marshal sorted, so equal trees
// produce equal keys.
func renderKey(roots []*doc.Node) string {
	data, err := json.Marshal(roots)
	if err != nil {
		// Unreachable for the node types in use; render uncached.
		return CacheKey("render", uuid.NewString())
	}
	return CacheKey("render", string(data))
}

// renderCurrent is the refresh queue worker: render the state as of
// now and cache it under its content fingerprint.
func (s *Session) renderCurrent(ctx context.Context) {
	s.mu.Lock()
	roots := doc.CloneForest(s.tree.Roots())
	s.mu.Unlock()

	art, err := RenderDocument(roots)
	if err != nil {
		slog.Warn("background render failed", slog.String("session", s.ID), slog.Any("error", err))
		return
	}
	CacheStoreJSON(ctx, renderKey(roots), art)
}

// Close stops the session's background renderer.
func (s *Session) Close() {
	s.refresh.Stop()
}

func nodeView(n *doc.Node, addr string, depth int) NodeView {
	v := NodeView{
		Address:  addr,
		ID:       n.ID,
		Kind:     string(n.Kind),
		Text:     n.Text,
		Company:  n.Meta.Company,
		Duration: n.Meta.Duration,
		Location: n.Meta.Location,
		Hints:    n.Hints,
	}
	if depth == 1 {
		return v
	}
	childDepth := 0
	if depth > 1 {
		childDepth = depth - 1
	}
	for i, ch := range n.Children {
		v.Children = append(v.Children, nodeView(ch, doc.ChildAddress(addr, i), childDepth))
	}
	return v
}

// refinerConfig maps engine config onto the classifier thresholds,
// falling back to the standard values for unset fields.
func refinerConfig() resume.RefinerConfig {
	rc := resume.DefaultRefinerConfig()
	if cfg.EnumRatio > 0 {
		rc.EnumRatio = cfg.EnumRatio
	}
	if cfg.EnumMaxTokenLen > 0 {
		rc.MaxTokenLen = cfg.EnumMaxTokenLen
	}
	return rc
}

func describePatch(rep *resume.MergeReport) string {
	switch {
	case rep.Op == resume.OpReset:
		return "reset record"
	case len(rep.Cleared) > 0:
		return fmt.Sprintf("cleared %d section(s)", len(rep.Cleared))
	case rep.ExperiencesAdded+rep.EducationsAdded > 0:
		return fmt.Sprintf("added %d entries", rep.ExperiencesAdded+rep.EducationsAdded)
	case rep.ExperiencesRemoved+rep.EducationsRemoved > 0:
		return fmt.Sprintf("removed %d entries", rep.ExperiencesRemoved+rep.EducationsRemoved)
	default:
		return fmt.Sprintf("applied %s patch", rep.Op)
	}
}
