package supervisor

import (
	"context"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

// Supervisor decides which stage handles the session next. Interpret runs
// once at turn entry to read the user's reply against any suspension point;
// Next is then called between stages until it returns StageTerminal.
type Supervisor interface {
	Interpret(ctx context.Context, state *model.SessionState)
	Next(ctx context.Context, state *model.SessionState) model.Stage
}

type implSupervisor struct {
	l pkgLog.Logger
}

var _ Supervisor = (*implSupervisor)(nil)

func New(l pkgLog.Logger) *implSupervisor {
	return &implSupervisor{l: l}
}
