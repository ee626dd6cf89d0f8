package router

import (
	"context"

	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/llmprovider"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

// Router classifies a user turn into an intent before any plan exists.
type Router interface {
	Classify(ctx context.Context, message string, conversationHistory []string) (RouterOutput, error)
}

// SemanticRouter classifies user intent, preferring deterministic
// patterns and falling back to the LLM for everything ambiguous.
type SemanticRouter struct {
	llm *llmprovider.Manager
	l   pkgLog.Logger
	cfg Config
}

var _ Router = (*SemanticRouter)(nil)

// New creates a new SemanticRouter
// Convention: Factory function returns concrete type (not interface) for internal packages
func New(llm *llmprovider.Manager, l pkgLog.Logger, cfg Config) *SemanticRouter {
	if cfg.Temperature == 0 {
		cfg.Temperature = RouterTemperature
	}
	return &SemanticRouter{
		llm: llm,
		l:   l,
		cfg: cfg,
	}
}
