package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go-kit/llm"

	"github.com/anatolykoptev/go_resume/internal/engine/resume"
)

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CallLLM sends a prompt using the configured temperature and max_tokens,
// retrying transient network failures.
func CallLLM(ctx context.Context, system, prompt string) (string, error) {
	metrics.LLMCalls.Add(1)
	if cfg.LLMTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LLMTimeout)
		defer cancel()
	}
	resp, err := RetryDo(ctx, DefaultRetryConfig, func() (string, error) {
		return cfg.LLMClient.Complete(ctx, system, prompt)
	})
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", err
	}
	return stripFences(resp), nil
}

// maxStructureRunes caps how much extracted text goes into the
// structuring prompt.
const maxStructureRunes = 30000

// StructureResume asks the LLM to convert raw resume text into a structured
// record. The response is parsed through the same repair chain used for
// patches, so mildly malformed model output still produces a record.
func StructureResume(ctx context.Context, text string) (*resume.Record, error) {
	prompt := fmt.Sprintf(structurePrompt, TruncateRunes(text, maxStructureRunes, "…"))
	raw, err := CallLLM(ctx, structureSystem, prompt)
	if err != nil {
		return nil, fmt.Errorf("structure resume: %w", err)
	}

	var rec resume.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		repaired, rerr := resume.RepairJSON(raw)
		if rerr != nil {
			return nil, fmt.Errorf("structure resume: parse failed: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &rec); err != nil {
			return nil, fmt.Errorf("structure resume: parse failed after repair: %w", err)
		}
	}
	rec.EnsureIDs()
	return &rec, nil
}

// ProposePatch asks the LLM to produce a patch payload for the given
// instruction against the current record. The raw model output is returned
// untouched: normalization is the caller's concern, so a broken payload can
// still be surfaced in parse errors.
func ProposePatch(ctx context.Context, rec *resume.Record, instruction string) (string, error) {
	snapshot, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("propose patch: marshal record: %w", err)
	}
	prompt := fmt.Sprintf(patchPrompt, snapshot, instruction)

	raw, err := CallLLM(ctx, patchSystem, prompt)
	if err != nil {
		return "", fmt.Errorf("propose patch: %w", err)
	}
	return raw, nil
}

// RewriteInstruction uses the LLM to expand a terse user instruction into an
// explicit editing instruction. Falls back to the original on any failure.
func RewriteInstruction(ctx context.Context, instruction string) string {
	prompt := fmt.Sprintf(rewriteInstructionPrompt, instruction)
	metrics.LLMCalls.Add(1)
	raw, err := cfg.LLMClient.Complete(ctx, "", prompt,
		llm.WithChatTemperature(0.3),
		llm.WithChatMaxTokens(150),
	)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return instruction
	}
	rewritten := strings.TrimSpace(stripFences(raw))
	if rewritten == "" || len(rewritten) > 400 || strings.Contains(rewritten, "\n") {
		return instruction
	}
	return rewritten
}
