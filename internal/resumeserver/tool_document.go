package resumeserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_resume/internal/engine"
	"github.com/anatolykoptev/go_resume/internal/engine/resume"
)

func registerResumeImport(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resume_import",
		Description: "Import a resume from HTML or plain text. Extracts the text, structures it into contact/summary/experience/education/skills, builds the editable document tree and returns the session id for all further operations.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ImportInput) (*mcp.CallToolResult, engine.ImportOutput, error) {
		if input.HTML == "" && input.Text == "" {
			return nil, engine.ImportOutput{}, errors.New("html or text is required")
		}

		rec, err := importRecord(ctx, input.HTML, input.Text)
		if err != nil {
			engine.IncrImportErrors()
			return nil, engine.ImportOutput{}, err
		}
		engine.IncrImports()

		var s *engine.Session
		if input.SessionID != "" {
			s, err = engine.LookupSession(input.SessionID)
			if err != nil {
				return nil, engine.ImportOutput{}, err
			}
			s.ResetRecord(rec)
		} else {
			s = engine.NewSession(rec)
			engine.RegisterSession(s)
		}

		return nil, engine.ImportOutput{
			SessionID:   s.ID,
			Contact:     rec.Contact.Name,
			Experiences: len(rec.Experiences),
			Educations:  len(rec.Educations),
			Skills:      len(rec.Skills),
			Nodes:       s.Len(),
		}, nil
	})
}

// importRecord runs extraction and structuring, with a cache on the
// structuring step keyed by the extracted text.
func importRecord(ctx context.Context, html, text string) (*resume.Record, error) {
	if html != "" {
		extracted, err := engine.ExtractText(html)
		if err != nil {
			return nil, err
		}
		text = extracted
	}

	cacheKey := engine.CacheKey("structure", text)
	if rec, ok := engine.CacheLoadJSON[*resume.Record](ctx, cacheKey); ok && rec != nil {
		return rec, nil
	}

	var rec *resume.Record
	err := engine.TrackOperation(ctx, "structure_resume", func(ctx context.Context) error {
		var serr error
		rec, serr = engine.StructureResume(ctx, text)
		return serr
	})
	if err != nil {
		return nil, err
	}
	resume.Refine(rec, resume.DefaultRefinerConfig())
	engine.CacheStoreJSON(ctx, cacheKey, rec)
	return rec, nil
}

func registerResumeGet(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resume_get",
		Description: "Return the current structured resume record for a session: contact, summary, experiences, educations, skills.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.SessionInput) (*mcp.CallToolResult, *resume.Record, error) {
		if input.SessionID == "" {
			return nil, nil, errors.New("session_id is required")
		}
		s, err := engine.LookupSession(input.SessionID)
		if err != nil {
			return nil, nil, err
		}
		return nil, s.Record(), nil
	})
}

func registerResumeReset(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resume_reset",
		Description: "Reset a session to an empty resume. The previous state stays reachable through history_undo.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.SessionInput) (*mcp.CallToolResult, engine.ActionOutput, error) {
		if input.SessionID == "" {
			return nil, engine.ActionOutput{}, errors.New("session_id is required")
		}
		s, err := engine.LookupSession(input.SessionID)
		if err != nil {
			return nil, engine.ActionOutput{}, err
		}
		s.ResetRecord(&resume.Record{})
		return nil, engine.ActionOutput{
			SessionID: s.ID,
			Action:    "reset",
			Total:     s.Len(),
		}, nil
	})
}
