package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int
	LLMTimeout         time.Duration

	// MinDocumentChars is the hard precondition for imports: extracted
	// text shorter than this is an unreadable document.
	MinDocumentChars int

	// HistoryMax bounds the undo/redo stack per session.
	HistoryMax int

	// Classifier thresholds (see resume.RefinerConfig).
	EnumRatio       float64
	EnumMaxTokenLen int

	// RenderTemplate is the default template for render refreshes.
	RenderTemplate string

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	HTTPClient *http.Client
	LLMClient  *llm.Client
}

var cfg Config

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
}
