package planner

import (
	"context"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/llmprovider"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

// Planner turns a classified request into an executable plan on the
// session state. Build failures are recorded on the state, never
// retried here.
type Planner interface {
	Build(ctx context.Context, state *model.SessionState) error
}

type implPlanner struct {
	llm *llmprovider.Manager
	l   pkgLog.Logger
	cfg Config
}

var _ Planner = (*implPlanner)(nil)

// New creates a planner.
func New(llm *llmprovider.Manager, l pkgLog.Logger, cfg Config) Planner {
	if cfg.Temperature == 0 {
		cfg.Temperature = PlanTemperature
	}
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = MaxPlanSteps
	}
	return &implPlanner{
		llm: llm,
		l:   l,
		cfg: cfg,
	}
}
