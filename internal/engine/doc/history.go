package doc

import "time"

// HistoryEntry is an immutable snapshot: a fully-cloned forest plus
// the numbering index at that point. The history stack is the sole
// long-lived owner of the snapshot data; Snapshot() hands out clones.
type HistoryEntry struct {
	roots       []*Node
	numbering   *Numbering
	Description string
	Action      string
	At          time.Time
}

// NewHistoryEntry clones the forest and captures the numbering index.
func NewHistoryEntry(roots []*Node, num *Numbering, description, action string) *HistoryEntry {
	return &HistoryEntry{
		roots:       CloneForest(roots),
		numbering:   num.Clone(),
		Description: description,
		Action:      action,
		At:          time.Now().UTC(),
	}
}

// Snapshot returns a deep clone of the stored forest, safe to install
// as the live tree.
func (e *HistoryEntry) Snapshot() []*Node { return CloneForest(e.roots) }

// Numbering returns the numbering index captured with the snapshot.
func (e *HistoryEntry) Numbering() *Numbering { return e.numbering }

// History is a bounded linear undo/redo log. index points at the
// currently-displayed snapshot.
type History struct {
	entries []*HistoryEntry
	index   int
	max     int
}

// DefaultHistoryMax bounds the stack when no limit is configured.
const DefaultHistoryMax = 50

// NewHistory creates an empty history bounded to max entries
// (DefaultHistoryMax when max <= 0).
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistoryMax
	}
	return &History{index: -1, max: max}
}

// Apply records a new snapshot. Any redo branch beyond the current
// index is discarded; the oldest entry is evicted once the bound is
// exceeded.
func (h *History) Apply(e *HistoryEntry) {
	if h.index < len(h.entries)-1 {
		h.entries = h.entries[:h.index+1]
	}
	h.entries = append(h.entries, e)
	h.index = len(h.entries) - 1
	if len(h.entries) > h.max {
		over := len(h.entries) - h.max
		h.entries = h.entries[over:]
		h.index -= over
	}
}

// Undo steps back one snapshot and returns it.
func (h *History) Undo() (*HistoryEntry, error) {
	if h.index <= 0 {
		return nil, ErrNothingToUndo
	}
	h.index--
	return h.entries[h.index], nil
}

// Redo steps forward one snapshot and returns it.
func (h *History) Redo() (*HistoryEntry, error) {
	if h.index >= len(h.entries)-1 {
		return nil, ErrNothingToRedo
	}
	h.index++
	return h.entries[h.index], nil
}

// Current returns the snapshot at the cursor, nil when empty.
func (h *History) Current() *HistoryEntry {
	if h.index < 0 || h.index >= len(h.entries) {
		return nil
	}
	return h.entries[h.index]
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Len returns the number of retained snapshots.
func (h *History) Len() int { return len(h.entries) }

// Index returns the cursor position (-1 when empty).
func (h *History) Index() int { return h.index }

// EntrySummary describes one retained snapshot for listing.
type EntrySummary struct {
	Index       int       `json:"index"`
	Description string    `json:"description"`
	Action      string    `json:"action,omitempty"`
	At          time.Time `json:"at"`
	Current     bool      `json:"current"`
	Nodes       int       `json:"nodes"`
}

// List returns summaries of all retained snapshots, oldest first.
func (h *History) List() []EntrySummary {
	out := make([]EntrySummary, len(h.entries))
	for i, e := range h.entries {
		out[i] = EntrySummary{
			Index:       i,
			Description: e.Description,
			Action:      e.Action,
			At:          e.At,
			Current:     i == h.index,
			Nodes:       e.numbering.Len(),
		}
	}
	return out
}
