package composer

import (
	"context"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/memory"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/llmprovider"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

// Composer produces the user-facing reply that ends every turn. It
// never fails: when the LLM is unavailable it degrades to
// deterministic phrasing, and step errors are always surfaced
// verbatim. It also retires spent plans and resumes deferred ones.
type Composer interface {
	Compose(ctx context.Context, state *model.SessionState) string
}

type implComposer struct {
	llm *llmprovider.Manager
	mem memory.Manager // nil disables semantic recall in answers
	l   pkgLog.Logger
	cfg Config
}

var _ Composer = (*implComposer)(nil)

// New creates a composer.
func New(llm *llmprovider.Manager, mem memory.Manager, l pkgLog.Logger, cfg Config) Composer {
	if cfg.Temperature == 0 {
		cfg.Temperature = ComposeTemperature
	}
	return &implComposer{
		llm: llm,
		mem: mem,
		l:   l,
		cfg: cfg,
	}
}
