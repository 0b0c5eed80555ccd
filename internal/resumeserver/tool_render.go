package resumeserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_resume/internal/engine"
)

func registerRenderRefresh(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_refresh",
		Description: "Return the rendered resume as self-contained HTML plus its stylesheet. Renders are refreshed in the background after every edit; this returns the artifact for the current state, rendering synchronously when the background pass has not landed yet.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.SessionInput) (*mcp.CallToolResult, engine.RenderOutput, error) {
		if input.SessionID == "" {
			return nil, engine.RenderOutput{}, errors.New("session_id is required")
		}
		s, err := engine.LookupSession(input.SessionID)
		if err != nil {
			return nil, engine.RenderOutput{}, err
		}

		art, stale, err := s.Render(ctx)
		if err != nil {
			return nil, engine.RenderOutput{}, err
		}
		return nil, engine.RenderOutput{
			SessionID: s.ID,
			HTML:      art.HTML,
			CSS:       art.CSS,
			Stale:     stale,
		}, nil
	})
}
