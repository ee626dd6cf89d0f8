package ocigateway

import "context"

// IGateway defines the interface for the cloud automation gateway.
// The gateway hides pagination, multi-region iteration, and resource
// shapes behind a single invoke contract.
type IGateway interface {
	// Invoke performs one cloud operation. On failure the returned error
	// is a *CallError carrying the failure kind.
	Invoke(ctx context.Context, req InvokeRequest) (any, error)
}

// New creates a new gateway client with the given configuration
func New(cfg Config) (IGateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newGatewayImpl(cfg), nil
}
