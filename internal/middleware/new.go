package middleware

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/ayushchhipa1509/OCI-COPILOT/config"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

const (
	// maxTrackedSources caps how many distinct callers the rate
	// limiter tracks; beyond that the least recent fall out.
	maxTrackedSources = 1000

	// sourceTTL drops limiters for callers idle this long.
	sourceTTL = 5 * time.Minute
)

// Middleware guards the chat delivery routes.
type Middleware struct {
	l        log.Logger
	cfg      config.ChatConfig
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func New(l log.Logger, cfg config.ChatConfig) Middleware {
	perMin := cfg.RateLimitPerMin
	if perMin <= 0 {
		perMin = 60
	}
	burst := perMin / 10
	if burst < 1 {
		burst = 1
	}

	return Middleware{
		l:        l,
		cfg:      cfg,
		limiters: expirable.NewLRU[string, *rate.Limiter](maxTrackedSources, nil, sourceTTL),
		rate:     rate.Limit(float64(perMin) / 60.0),
		burst:    burst,
	}
}
