package ocigateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

// gatewayImpl is the internal implementation of IGateway
type gatewayImpl struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

var _ IGateway = (*gatewayImpl)(nil)

func newGatewayImpl(cfg Config) *gatewayImpl {
	return &gatewayImpl{
		baseURL:     cfg.URL,
		accessToken: cfg.AccessToken,
		httpClient:  cfg.HTTPClient,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
	}
}

// SetBaseURL overrides the gateway endpoint for testing purposes.
func (g *gatewayImpl) SetBaseURL(url string) {
	g.baseURL = url
}

// Invoke performs one cloud operation via POST /v1/invoke.
func (g *gatewayImpl) Invoke(ctx context.Context, req InvokeRequest) (any, error) {
	if req.Service == "" || req.Action == "" {
		return nil, &CallError{Kind: KindFatal, Message: "invoke requires service and action"}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, &CallError{Kind: KindTransient, Message: fmt.Sprintf("rate limiter wait: %v", err)}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &CallError{Kind: KindFatal, Message: fmt.Sprintf("marshal invoke request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+invokePath, bytes.NewBuffer(body))
	if err != nil {
		return nil, &CallError{Kind: KindFatal, Message: fmt.Sprintf("build invoke request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.accessToken)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		// Transport failures and timeouts are retryable by nature.
		return nil, &CallError{Kind: KindTransient, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CallError{Kind: KindTransient, Message: fmt.Sprintf("read invoke response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return nil, classify(resp.StatusCode, eb)
	}

	var result invokeResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &CallError{Kind: KindTransient, Message: fmt.Sprintf("decode invoke response: %v", err)}
	}

	return result.Data, nil
}
