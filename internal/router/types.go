package router

import "github.com/ayushchhipa1509/OCI-COPILOT/internal/model"

// Config tunes the router for one deployment.
type Config struct {
	Model             string  // per-stage model override, empty uses provider default
	Temperature       float64 // defaults to RouterTemperature
	NormalizerEnabled bool    // adds an LLM typo pass when the patterns miss
}

// RouterOutput is the structured classification of one user turn.
type RouterOutput struct {
	NormalizedQuery string       `json:"-"` // computed locally, never by the LLM
	Intent          model.Intent `json:"intent"`
	IsExecutable    bool         `json:"is_executable"`
	Confidence      int          `json:"confidence"` // 0-100
	Reasoning       string       `json:"reasoning"`  // Optional: Why this intent was chosen
}
