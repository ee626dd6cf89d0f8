package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	ngrokDetectAttempts = 10
	ngrokDetectInterval = 3 * time.Second
)

// ngrokTunnelsResponse matches the /api/tunnels response from the ngrok local API.
type ngrokTunnelsResponse struct {
	Tunnels []ngrokTunnel `json:"tunnels"`
}

type ngrokTunnel struct {
	PublicURL string `json:"public_url"`
	Proto     string `json:"proto"`
}

// detectNgrokURL queries the ngrok local API for the public tunnel URL
// so the Telegram webhook can be registered without manual config. It
// retries because ngrok may still be starting when the service boots.
func detectNgrokURL(ctx context.Context, ngrokAPIBase string) (string, error) {
	url := ngrokAPIBase + "/api/tunnels"
	client := &http.Client{Timeout: 5 * time.Second}

	for attempt := 1; attempt <= ngrokDetectAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", fmt.Errorf("failed to create ngrok API request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			if attempt < ngrokDetectAttempts {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(ngrokDetectInterval):
					continue
				}
			}
			return "", fmt.Errorf("ngrok API not reachable after %d attempts: %w", ngrokDetectAttempts, err)
		}

		tunnels, err := decodeTunnels(resp)
		if err != nil {
			return "", err
		}

		// Prefer HTTPS tunnels; Telegram refuses plain HTTP webhooks.
		for _, t := range tunnels.Tunnels {
			if t.Proto == "https" {
				return t.PublicURL, nil
			}
		}
		if len(tunnels.Tunnels) > 0 {
			return tunnels.Tunnels[0].PublicURL, nil
		}

		// No tunnels yet, ngrok is still starting up.
		if attempt < ngrokDetectAttempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(ngrokDetectInterval):
			}
		}
	}

	return "", fmt.Errorf("ngrok has no active tunnels after %d attempts", ngrokDetectAttempts)
}

func decodeTunnels(resp *http.Response) (ngrokTunnelsResponse, error) {
	defer resp.Body.Close()

	var tunnels ngrokTunnelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tunnels); err != nil {
		return tunnels, fmt.Errorf("failed to decode ngrok API response: %w", err)
	}
	return tunnels, nil
}
