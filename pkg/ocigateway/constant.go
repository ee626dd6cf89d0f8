package ocigateway

import "time"

const (
	// DefaultTimeout is the per-call HTTP timeout
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSec is the client-side rate limit
	DefaultRequestsPerSec = 5.0

	// DefaultBurst is the client-side burst allowance
	DefaultBurst = 10

	invokePath = "/v1/invoke"
)
