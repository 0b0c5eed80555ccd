// Package resumeserver exposes the resume editing engine as MCP tools:
// document import, tree-level editing, AI patch application, undo/redo
// history and render refresh.
package resumeserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers all resume editing tools on the given MCP server.
func RegisterTools(server *mcp.Server) {
	registerResumeImport(server)
	registerResumeGet(server)
	registerResumeReset(server)
	registerTreeInspect(server)
	registerTreeUpdate(server)
	registerTreeRemove(server)
	registerTreeMove(server)
	registerTreeAppend(server)
	registerTreeReorder(server)
	registerPatchPropose(server)
	registerPatchApply(server)
	registerHistoryUndo(server)
	registerHistoryRedo(server)
	registerHistoryList(server)
	registerRenderRefresh(server)
}
