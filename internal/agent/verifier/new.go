package verifier

import (
	"context"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/llmprovider"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

// Verifier reviews the active plan before execution. A plan gets at
// most one correction round: the first rejection sends feedback back
// to the planner, the second gives up.
type Verifier interface {
	Verify(ctx context.Context, state *model.SessionState) error
}

type implVerifier struct {
	llm *llmprovider.Manager
	l   pkgLog.Logger
	cfg Config
}

var _ Verifier = (*implVerifier)(nil)

// New creates a verifier.
func New(llm *llmprovider.Manager, l pkgLog.Logger, cfg Config) Verifier {
	if cfg.Temperature == 0 {
		cfg.Temperature = VerifyTemperature
	}
	return &implVerifier{
		llm: llm,
		l:   l,
		cfg: cfg,
	}
}
