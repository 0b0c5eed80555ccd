package resumeserver

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_resume/internal/engine"
	"github.com/anatolykoptev/go_resume/internal/engine/doc"
)

func registerHistoryUndo(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "history_undo",
		Description: "Step back one edit. Restores the previous tree snapshot and the resume record derived from it.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.SessionInput) (*mcp.CallToolResult, engine.HistoryOutput, error) {
		return historyStep(input, func(s *engine.Session) error { return s.Undo() })
	})
}

func registerHistoryRedo(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "history_redo",
		Description: "Step forward one edit, if an undo left redoable entries. Any new edit after an undo discards the redo branch.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.SessionInput) (*mcp.CallToolResult, engine.HistoryOutput, error) {
		return historyStep(input, func(s *engine.Session) error { return s.Redo() })
	})
}

func historyStep(input engine.SessionInput, step func(*engine.Session) error) (*mcp.CallToolResult, engine.HistoryOutput, error) {
	if input.SessionID == "" {
		return nil, engine.HistoryOutput{}, errors.New("session_id is required")
	}
	s, err := engine.LookupSession(input.SessionID)
	if err != nil {
		return nil, engine.HistoryOutput{}, err
	}
	if err := step(s); err != nil {
		return nil, engine.HistoryOutput{}, err
	}
	return nil, historyOutput(s, 0), nil
}

func registerHistoryList(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "history_list",
		Description: "List retained snapshots oldest first, with the current position marked. The stack is bounded; the oldest entries are evicted first.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.HistoryListInput) (*mcp.CallToolResult, engine.HistoryOutput, error) {
		if input.SessionID == "" {
			return nil, engine.HistoryOutput{}, errors.New("session_id is required")
		}
		s, err := engine.LookupSession(input.SessionID)
		if err != nil {
			return nil, engine.HistoryOutput{}, err
		}
		return nil, historyOutput(s, input.Limit), nil
	})
}

func historyOutput(s *engine.Session, limit int) engine.HistoryOutput {
	entries, canUndo, canRedo := s.HistoryState()
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	items := make([]engine.HistoryItem, len(entries))
	for i, e := range entries {
		items[i] = historyItem(e)
	}
	return engine.HistoryOutput{
		SessionID: s.ID,
		Entries:   items,
		CanUndo:   canUndo,
		CanRedo:   canRedo,
	}
}

func historyItem(e doc.EntrySummary) engine.HistoryItem {
	return engine.HistoryItem{
		Index:       e.Index,
		Action:      e.Action,
		Description: e.Description,
		At:          e.At.Format(time.RFC3339),
		Current:     e.Current,
	}
}
