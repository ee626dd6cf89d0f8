package orchestrator

import (
	"sync"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/composer"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/executor"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/planner"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/resolver"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/supervisor"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/verifier"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/memory"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/router"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

// Pipeline bundles the stage implementations the turn driver sequences.
type Pipeline struct {
	Supervisor supervisor.Supervisor
	Classifier router.Router
	Planner    planner.Planner
	Resolver   resolver.Resolver
	Verifier   verifier.Verifier
	Executor   executor.Executor
	Composer   composer.Composer
}

type Orchestrator struct {
	pipe Pipeline
	mem  memory.Manager
	l    pkgLog.Logger
	cfg  Config

	sessions   map[string]*session
	sessionsMu sync.Mutex
}

func New(pipe Pipeline, mem memory.Manager, l pkgLog.Logger, cfg Config) *Orchestrator {
	if cfg.RoutingBudget <= 0 {
		cfg.RoutingBudget = supervisor.DefaultRoutingBudget
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = DefaultHistoryTurns
	}

	o := &Orchestrator{
		pipe:     pipe,
		mem:      mem,
		l:        l,
		cfg:      cfg,
		sessions: make(map[string]*session),
	}

	go o.cleanupExpiredSessions()

	return o
}
