package resumeserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_resume/internal/engine"
	"github.com/anatolykoptev/go_resume/internal/engine/resume"
)

func registerPatchPropose(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "patch_propose",
		Description: "Ask the AI for a patch implementing a natural-language instruction against the current resume. Returns the raw payload; apply it with patch_apply, which tolerates malformed JSON.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.PatchProposeInput) (*mcp.CallToolResult, engine.PatchProposeOutput, error) {
		if input.SessionID == "" {
			return nil, engine.PatchProposeOutput{}, errors.New("session_id is required")
		}
		if input.Instruction == "" {
			return nil, engine.PatchProposeOutput{}, errors.New("instruction is required")
		}
		s, err := engine.LookupSession(input.SessionID)
		if err != nil {
			return nil, engine.PatchProposeOutput{}, err
		}

		// Terse instructions ("shorter", "more senior") are expanded
		// before patch generation; failures fall back to the original.
		instruction := engine.RewriteInstruction(ctx, input.Instruction)

		payload, err := engine.ProposePatch(ctx, s.Record(), instruction)
		if err != nil {
			return nil, engine.PatchProposeOutput{}, err
		}
		return nil, engine.PatchProposeOutput{
			SessionID:   s.ID,
			Instruction: instruction,
			Payload:     payload,
		}, nil
	})
}

func registerPatchApply(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "patch_apply",
		Description: "Apply a patch to the resume. Accepts either a raw payload (JSON, quasi-JSON, or free text around a JSON block, run through the repair chain) or a pre-structured patch object. Duplicate skills and lines are folded, entries are matched by id or company+title. Returns a report of what changed.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.PatchApplyInput) (*mcp.CallToolResult, engine.PatchApplyOutput, error) {
		if input.SessionID == "" {
			return nil, engine.PatchApplyOutput{}, errors.New("session_id is required")
		}
		if input.Payload == "" && input.Patch == nil {
			return nil, engine.PatchApplyOutput{}, errors.New("payload or patch is required")
		}
		s, err := engine.LookupSession(input.SessionID)
		if err != nil {
			return nil, engine.PatchApplyOutput{}, err
		}

		var (
			rep *resume.MergeReport
			ref *resume.RefineReport
		)
		if input.Patch != nil {
			rep, ref, err = s.ApplyPatchObject(input.Patch)
		} else {
			rep, ref, err = s.ApplyPatch(input.Payload)
		}
		if err != nil {
			return nil, engine.PatchApplyOutput{}, err
		}

		out := engine.PatchApplyOutput{
			SessionID:          s.ID,
			Op:                 string(rep.Op),
			ExperiencesAdded:   rep.ExperiencesAdded,
			ExperiencesUpdated: rep.ExperiencesUpdated,
			ExperiencesRemoved: rep.ExperiencesRemoved,
			EducationsAdded:    rep.EducationsAdded,
			EducationsUpdated:  rep.EducationsUpdated,
			SkillsAdded:        rep.SkillsAdded,
			SkillsRemoved:      rep.SkillsRemoved,
			SummaryChanged:     rep.SummaryChanged,
			ContactChanged:     rep.ContactChanged,
			Cleared:            sectionNames(rep.Cleared),
			Notes:              rep.Notes,
		}
		if ref != nil {
			out.SkillsExtracted = len(ref.SkillsFolded)
			out.LinesRewritten = ref.LinesStripped
		}
		return nil, out, nil
	})
}

func sectionNames(sections []resume.Section) []string {
	if len(sections) == 0 {
		return nil
	}
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = string(s)
	}
	return out
}
