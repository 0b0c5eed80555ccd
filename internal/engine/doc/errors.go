package doc

import "errors"

// Structural errors raised by the action layer. All are returned
// synchronously and leave the tree unchanged; callers match them with
// errors.Is.
var (
	// ErrNotFound — the referenced node or parent id is absent.
	ErrNotFound = errors.New("node not found")

	// ErrInvalidPosition — insert/move position is out of bounds.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidPermutation — reorder input is not a permutation of the
	// current children.
	ErrInvalidPermutation = errors.New("invalid permutation")

	// ErrCycleRejected — a move would make a node a descendant of itself.
	ErrCycleRejected = errors.New("cycle rejected")
)

// History errors.
var (
	// ErrNothingToUndo — undo called at the oldest retained snapshot.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo — redo called at the newest snapshot.
	ErrNothingToRedo = errors.New("nothing to redo")
)
