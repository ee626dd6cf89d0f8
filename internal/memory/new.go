package memory

import (
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

type implManager struct {
	l        pkgLog.Logger
	store    SessionStore
	cache    *LookupCache
	recaller Recaller // nil when vector infra is unconfigured
}

var _ Manager = (*implManager)(nil)

// New creates a memory manager. recaller may be nil.
func New(l pkgLog.Logger, store SessionStore, cache *LookupCache, recaller Recaller) Manager {
	return &implManager{
		l:        l,
		store:    store,
		cache:    cache,
		recaller: recaller,
	}
}
