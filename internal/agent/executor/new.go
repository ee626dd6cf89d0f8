package executor

import (
	"context"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/memory"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/ocigateway"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

// Executor runs a verified plan against the automation gateway,
// isolating step failures and halting only on fatal errors.
type Executor interface {
	Execute(ctx context.Context, state *model.SessionState) error
}

// Recorder notes executed destructive steps on an external change
// calendar. Best effort, failures never affect the turn.
type Recorder interface {
	RecordChange(ctx context.Context, step model.Step, result model.StepResult)
}

type implExecutor struct {
	gateway  ocigateway.IGateway
	cache    *memory.LookupCache // nil disables read-through caching
	recorder Recorder            // nil disables change recording
	l        pkgLog.Logger
	cfg      Config
}

var _ Executor = (*implExecutor)(nil)

// New creates an executor.
func New(gateway ocigateway.IGateway, cache *memory.LookupCache, recorder Recorder, l pkgLog.Logger, cfg Config) Executor {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &implExecutor{
		gateway:  gateway,
		cache:    cache,
		recorder: recorder,
		l:        l,
		cfg:      cfg,
	}
}
