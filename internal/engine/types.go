package engine

// --- Tool input types ---

type ImportInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Session to import into (default: creates a new session)"`
	HTML      string `json:"html,omitempty" jsonschema:"Raw resume HTML to extract and structure"`
	Text      string `json:"text,omitempty" jsonschema:"Plain resume text (used when html is empty)"`
}

type SessionInput struct {
	SessionID string `json:"session_id" jsonschema:"Session id returned by resume_import"`
}

type TreeUpdateInput struct {
	SessionID string            `json:"session_id" jsonschema:"Session id"`
	NodeID    string            `json:"node_id" jsonschema:"Stable node id to update"`
	Kind      string            `json:"kind,omitempty" jsonschema:"New node kind (heading, paragraph, list_item, key_value, container, grid)"`
	Text      string            `json:"text,omitempty" jsonschema:"New text content"`
	Company   string            `json:"company,omitempty" jsonschema:"New company metadata"`
	Duration  string            `json:"duration,omitempty" jsonschema:"New duration metadata"`
	Location  string            `json:"location,omitempty" jsonschema:"New location metadata"`
	Hints     map[string]string `json:"hints,omitempty" jsonschema:"Rendering hints to merge into the node"`
}

type TreeRemoveInput struct {
	SessionID string `json:"session_id" jsonschema:"Session id"`
	NodeID    string `json:"node_id" jsonschema:"Stable node id to remove (with its subtree)"`
}

type TreeMoveInput struct {
	SessionID string `json:"session_id" jsonschema:"Session id"`
	NodeID    string `json:"node_id" jsonschema:"Stable node id to move"`
	ParentID  string `json:"parent_id" jsonschema:"Destination parent node id, or 0 for root level"`
	Position  int    `json:"position" jsonschema:"Insertion index among the destination's children"`
}

type TreeAppendInput struct {
	SessionID string `json:"session_id" jsonschema:"Session id"`
	ParentID  string `json:"parent_id" jsonschema:"Parent node id, or 0 for root level"`
	Kind      string `json:"kind" jsonschema:"Node kind for the new child"`
	Text      string `json:"text,omitempty" jsonschema:"Text content for the new child"`
}

type TreeReorderInput struct {
	SessionID string   `json:"session_id" jsonschema:"Session id"`
	ParentID  string   `json:"parent_id" jsonschema:"Parent whose children are reordered, or 0 for root level"`
	Order     []string `json:"order" jsonschema:"Permutation of the parent's child node ids"`
}

type TreeInspectInput struct {
	SessionID string `json:"session_id" jsonschema:"Session id"`
	Address   string `json:"address,omitempty" jsonschema:"Dotted positional address to inspect (default: whole tree)"`
	Depth     int    `json:"depth,omitempty" jsonschema:"Max depth below the addressed node (0 = unlimited)"`
}

type PatchProposeInput struct {
	SessionID   string `json:"session_id" jsonschema:"Session id"`
	Instruction string `json:"instruction" jsonschema:"Natural-language editing instruction"`
}

type PatchApplyInput struct {
	SessionID string         `json:"session_id" jsonschema:"Session id"`
	Payload   string         `json:"payload,omitempty" jsonschema:"Patch payload: JSON, quasi-JSON, or free text around a JSON block"`
	Patch     map[string]any `json:"patch,omitempty" jsonschema:"Pre-structured patch object; skips payload repair"`
}

type HistoryListInput struct {
	SessionID string `json:"session_id" jsonschema:"Session id"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Max entries returned, newest last (default: all)"`
}

// --- Tool output types ---

type ImportOutput struct {
	SessionID   string `json:"session_id"`
	Contact     string `json:"contact,omitempty"`
	Experiences int    `json:"experiences"`
	Educations  int    `json:"educations"`
	Skills      int    `json:"skills"`
	Nodes       int    `json:"nodes"`
}

// NodeView is the read-model of one tree node, address included.
type NodeView struct {
	Address  string            `json:"address"`
	ID       string            `json:"id"`
	Kind     string            `json:"kind"`
	Text     string            `json:"text,omitempty"`
	Company  string            `json:"company,omitempty"`
	Duration string            `json:"duration,omitempty"`
	Location string            `json:"location,omitempty"`
	Hints    map[string]string `json:"hints,omitempty"`
	Children []NodeView        `json:"children,omitempty"`
}

type TreeOutput struct {
	SessionID string     `json:"session_id"`
	Nodes     []NodeView `json:"nodes"`
	Total     int        `json:"total"`
}

type ActionOutput struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
	NodeID    string `json:"node_id,omitempty"`
	Address   string `json:"address,omitempty"`
	Total     int    `json:"total"`
}

type PatchProposeOutput struct {
	SessionID string `json:"session_id"`
	// Instruction is the (possibly rewritten) instruction the patch was
	// generated from.
	Instruction string `json:"instruction"`
	Payload     string `json:"payload"`
}

type PatchApplyOutput struct {
	SessionID          string   `json:"session_id"`
	Op                 string   `json:"op"`
	ExperiencesAdded   int      `json:"experiences_added"`
	ExperiencesUpdated int      `json:"experiences_updated"`
	ExperiencesRemoved int      `json:"experiences_removed"`
	EducationsAdded    int      `json:"educations_added"`
	EducationsUpdated  int      `json:"educations_updated"`
	SkillsAdded        int      `json:"skills_added"`
	SkillsRemoved      int      `json:"skills_removed"`
	SummaryChanged     bool     `json:"summary_changed"`
	ContactChanged     bool     `json:"contact_changed"`
	Cleared            []string `json:"cleared,omitempty"`
	SkillsExtracted    int      `json:"skills_extracted"`
	LinesRewritten     int      `json:"lines_rewritten"`
	Notes              []string `json:"notes,omitempty"`
}

type HistoryItem struct {
	Index       int    `json:"index"`
	Action      string `json:"action"`
	Description string `json:"description"`
	At          string `json:"at"`
	Current     bool   `json:"current"`
}

type HistoryOutput struct {
	SessionID string        `json:"session_id"`
	Entries   []HistoryItem `json:"entries"`
	CanUndo   bool          `json:"can_undo"`
	CanRedo   bool          `json:"can_redo"`
}

type RenderOutput struct {
	SessionID string `json:"session_id"`
	HTML      string `json:"html"`
	CSS       string `json:"css"`
	Stale     bool   `json:"stale"`
}
