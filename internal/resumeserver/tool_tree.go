package resumeserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_resume/internal/engine"
	"github.com/anatolykoptev/go_resume/internal/engine/doc"
)

func registerTreeInspect(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "tree_inspect",
		Description: "Inspect the document tree. Returns nodes with their dotted positional addresses, stable ids, kinds, text and metadata. Optionally scoped to one address and depth-limited.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.TreeInspectInput) (*mcp.CallToolResult, engine.TreeOutput, error) {
		if input.SessionID == "" {
			return nil, engine.TreeOutput{}, errors.New("session_id is required")
		}
		s, err := engine.LookupSession(input.SessionID)
		if err != nil {
			return nil, engine.TreeOutput{}, err
		}
		views, err := s.Inspect(input.Address, input.Depth)
		if err != nil {
			return nil, engine.TreeOutput{}, err
		}
		return nil, engine.TreeOutput{
			SessionID: s.ID,
			Nodes:     views,
			Total:     s.Len(),
		}, nil
	})
}

func registerTreeUpdate(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "tree_update",
		Description: "Update one node in place: kind, text, company/duration/location metadata, rendering hints. Fields left empty are not touched. Recorded in history.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.TreeUpdateInput) (*mcp.CallToolResult, engine.ActionOutput, error) {
		if input.SessionID == "" || input.NodeID == "" {
			return nil, engine.ActionOutput{}, errors.New("session_id and node_id are required")
		}
		s, err := engine.LookupSession(input.SessionID)
		if err != nil {
			return nil, engine.ActionOutput{}, err
		}

		f := doc.Fields{Hints: input.Hints}
		if input.Kind != "" {
			k := doc.Kind(input.Kind)
			if !doc.ValidKind(k) {
				return nil, engine.ActionOutput{}, fmt.Errorf("unknown kind %q", input.Kind)
			}
			f.Kind = &k
		}
		if input.Text != "" {
			f.Text = &input.Text
		}
		if input.Company != "" {
			f.Company = &input.Company
		}
		if input.Duration != "" {
			f.Duration = &input.Duration
		}
		if input.Location != "" {
			f.Location = &input.Location
		}

		err = s.Do("update", fmt.Sprintf("updated node %s", input.NodeID), func(t *doc.Tree) error {
			return t.Update(input.NodeID, f)
		})
		if err != nil {
			return nil, engine.ActionOutput{}, err
		}
		addr, _ := s.AddressOf(input.NodeID)
		return nil, engine.ActionOutput{
			SessionID: s.ID,
			Action:    "update",
			NodeID:    input.NodeID,
			Address:   addr,
			Total:     s.Len(),
		}, nil
	})
}

func registerTreeRemove(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "tree_remove",
		Description: "Remove a node and its entire subtree. Recorded in history; sibling addresses shift down.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.TreeRemoveInput) (*mcp.CallToolResult, engine.ActionOutput, error) {
		if input.SessionID == "" || input.NodeID == "" {
			return nil, engine.ActionOutput{}, errors.New("session_id and node_id are required")
		}
		s, err := engine.LookupSession(input.SessionID)
		if err != nil {
			return nil, engine.ActionOutput{}, err
		}
		err = s.Do("remove", fmt.Sprintf("removed node %s", input.NodeID), func(t *doc.Tree) error {
			return t.Remove(input.NodeID)
		})
		if err != nil {
			return nil, engine.ActionOutput{}, err
		}
		return nil, engine.ActionOutput{
			SessionID: s.ID,
			Action:    "remove",
			NodeID:    input.NodeID,
			Total:     s.Len(),
		}, nil
	})
}

func registerTreeMove(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "tree_move",
		Description: "Move a node under a new parent at the given position. Moving a node into its own subtree is rejected. parent_id 0 means the top level.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.TreeMoveInput) (*mcp.CallToolResult, engine.ActionOutput, error) {
		if input.SessionID == "" || input.NodeID == "" {
			return nil, engine.ActionOutput{}, errors.New("session_id and node_id are required")
		}
		s, err := engine.LookupSession(input.SessionID)
		if err != nil {
			return nil, engine.ActionOutput{}, err
		}
		err = s.Do("move", fmt.Sprintf("moved node %s", input.NodeID), func(t *doc.Tree) error {
			return t.Move(input.NodeID, input.ParentID, input.Position)
		})
		if err != nil {
			return nil, engine.ActionOutput{}, err
		}
		addr, _ := s.AddressOf(input.NodeID)
		return nil, engine.ActionOutput{
			SessionID: s.ID,
			Action:    "move",
			NodeID:    input.NodeID,
			Address:   addr,
			Total:     s.Len(),
		}, nil
	})
}

func registerTreeAppend(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "tree_append",
		Description: "Append a new child node under a parent. parent_id 0 appends at the top level. Returns the new node's id and address.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.TreeAppendInput) (*mcp.CallToolResult, engine.ActionOutput, error) {
		if input.SessionID == "" {
			return nil, engine.ActionOutput{}, errors.New("session_id is required")
		}
		k := doc.Kind(input.Kind)
		if !doc.ValidKind(k) {
			return nil, engine.ActionOutput{}, fmt.Errorf("unknown kind %q", input.Kind)
		}
		s, err := engine.LookupSession(input.SessionID)
		if err != nil {
			return nil, engine.ActionOutput{}, err
		}

		var created *doc.Node
		err = s.Do("append", fmt.Sprintf("appended %s node", input.Kind), func(t *doc.Tree) error {
			n, err := t.AppendChild(input.ParentID, doc.NodeSpec{Kind: k, Text: input.Text})
			if err != nil {
				return err
			}
			created = n
			return nil
		})
		if err != nil {
			return nil, engine.ActionOutput{}, err
		}
		addr, _ := s.AddressOf(created.ID)
		return nil, engine.ActionOutput{
			SessionID: s.ID,
			Action:    "append",
			NodeID:    created.ID,
			Address:   addr,
			Total:     s.Len(),
		}, nil
	})
}

func registerTreeReorder(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "tree_reorder",
		Description: "Reorder the children of a parent. order must be a complete permutation of the current child ids; anything else is rejected without changing the tree.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.TreeReorderInput) (*mcp.CallToolResult, engine.ActionOutput, error) {
		if input.SessionID == "" || len(input.Order) == 0 {
			return nil, engine.ActionOutput{}, errors.New("session_id and order are required")
		}
		s, err := engine.LookupSession(input.SessionID)
		if err != nil {
			return nil, engine.ActionOutput{}, err
		}
		err = s.Do("reorder", fmt.Sprintf("reordered %d children", len(input.Order)), func(t *doc.Tree) error {
			return t.Reorder(input.ParentID, input.Order)
		})
		if err != nil {
			return nil, engine.ActionOutput{}, err
		}
		return nil, engine.ActionOutput{
			SessionID: s.ID,
			Action:    "reorder",
			NodeID:    input.ParentID,
			Total:     s.Len(),
		}, nil
	})
}
