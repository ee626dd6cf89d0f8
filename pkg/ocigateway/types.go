package ocigateway

import (
	"fmt"
	"net/http"
)

// Config holds gateway client configuration
type Config struct {
	URL            string
	AccessToken    string
	RequestsPerSec float64
	Burst          int
	HTTPClient     *http.Client
}

// Validate validates the configuration and fills defaults.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("ocigateway: URL is required")
	}
	if c.RequestsPerSec <= 0 {
		c.RequestsPerSec = DefaultRequestsPerSec
	}
	if c.Burst <= 0 {
		c.Burst = DefaultBurst
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return nil
}

// InvokeRequest is the body for POST /v1/invoke.
type InvokeRequest struct {
	Service string         `json:"service"`
	Action  string         `json:"action"`
	Params  map[string]any `json:"params,omitempty"`
}

// invokeResponse is the success body.
type invokeResponse struct {
	Data any `json:"data"`
}

// errorBody is the failure body. Both fields are optional; a gateway
// that returns neither gets its kind derived from the HTTP status.
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
