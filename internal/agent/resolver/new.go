package resolver

import (
	"context"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/datemath"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

// Resolver merges parameter values from a user reply into the active
// plan. It only ever fills gaps: resolved values are never overwritten
// and steps that do not miss a name are never touched.
type Resolver interface {
	Resolve(ctx context.Context, state *model.SessionState) error
}

type implResolver struct {
	l     pkgLog.Logger
	dates *datemath.Parser // nil disables time phrase canonicalization
}

var _ Resolver = (*implResolver)(nil)

// New creates a resolver. dates may be nil.
func New(l pkgLog.Logger, dates *datemath.Parser) Resolver {
	return &implResolver{l: l, dates: dates}
}
