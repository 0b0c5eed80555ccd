package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	Imports           atomic.Int64
	ImportErrors      atomic.Int64
	TreeActions       atomic.Int64
	TreeActionErrors  atomic.Int64
	Undos             atomic.Int64
	Redos             atomic.Int64
	PatchesNormalized atomic.Int64
	PatchParseErrors  atomic.Int64
	PatchesMerged     atomic.Int64
	LLMCalls          atomic.Int64
	LLMErrors         atomic.Int64
	Renders           atomic.Int64
	RenderErrors      atomic.Int64
}

// Incrementors for sub-packages and tool handlers.
func IncrImports()           { metrics.Imports.Add(1) }
func IncrImportErrors()      { metrics.ImportErrors.Add(1) }
func IncrTreeActions()       { metrics.TreeActions.Add(1) }
func IncrTreeActionErrors()  { metrics.TreeActionErrors.Add(1) }
func IncrUndos()             { metrics.Undos.Add(1) }
func IncrRedos()             { metrics.Redos.Add(1) }
func IncrPatchesNormalized() { metrics.PatchesNormalized.Add(1) }
func IncrPatchParseErrors()  { metrics.PatchParseErrors.Add(1) }
func IncrPatchesMerged()     { metrics.PatchesMerged.Add(1) }

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"imports":            metrics.Imports.Load(),
		"import_errors":      metrics.ImportErrors.Load(),
		"tree_actions":       metrics.TreeActions.Load(),
		"tree_action_errors": metrics.TreeActionErrors.Load(),
		"undos":              metrics.Undos.Load(),
		"redos":              metrics.Redos.Load(),
		"patches_normalized": metrics.PatchesNormalized.Load(),
		"patch_parse_errors": metrics.PatchParseErrors.Load(),
		"patches_merged":     metrics.PatchesMerged.Load(),
		"llm_calls":          metrics.LLMCalls.Load(),
		"llm_errors":         metrics.LLMErrors.Load(),
		"renders":            metrics.Renders.Load(),
		"render_errors":      metrics.RenderErrors.Load(),
		"cache_hits":         hits,
		"cache_misses":       misses,
		"sessions":           int64(SessionCount()),
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"imports", "import_errors",
		"tree_actions", "tree_action_errors",
		"undos", "redos",
		"patches_normalized", "patch_parse_errors", "patches_merged",
		"llm_calls", "llm_errors",
		"renders", "render_errors",
		"cache_hits", "cache_misses",
		"sessions",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
