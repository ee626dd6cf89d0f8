package llmprovider

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ayushchhipa1509/OCI-COPILOT/config"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/deepseek"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/gemini"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/qwen"
)

// InitializeProviders creates a provider manager from configuration.
// Providers are tried in priority order (lower number first). Providers
// that fail to initialize are skipped with a warning so a bad API key for
// one vendor does not take the whole service down.
func InitializeProviders(cfg config.LLMConfig, logger pkgLog.Logger) (*Manager, error) {
	ctx := context.Background()

	enabled := make([]config.ProviderConfig, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}

	sort.Slice(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	providers := make([]Provider, 0, len(enabled))
	for _, pc := range enabled {
		provider, err := createProvider(pc)
		if err != nil {
			logger.Warnf(ctx, "llmprovider: skipping provider %s: %v", pc.Name, err)
			continue
		}
		providers = append(providers, provider)
		logger.Infof(ctx, "llmprovider: initialized %s (model=%s, priority=%d)",
			pc.Name, provider.Model(), pc.Priority)
	}

	if len(providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	managerCfg := Config{
		FallbackEnabled: cfg.FallbackEnabled,
		RetryAttempts:   cfg.RetryAttempts,
		RetryDelay:      parseDuration(cfg.RetryDelay, time.Second),
		MaxTotalTimeout: parseDuration(cfg.MaxTotalTimeout, 60*time.Second),
	}

	return NewManager(providers, managerCfg, logger), nil
}

func createProvider(pc config.ProviderConfig) (Provider, error) {
	switch pc.Name {
	case "gemini":
		client, err := gemini.New(gemini.Config{
			APIKey: pc.APIKey,
			Model:  pc.Model,
			APIURL: pc.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return NewGeminiAdapter(client), nil

	case "deepseek":
		client, err := deepseek.New(deepseek.Config{
			APIKey:  pc.APIKey,
			Model:   pc.Model,
			BaseURL: pc.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return NewDeepSeekAdapter(client), nil

	case "qwen", "alibaba":
		client, err := qwen.New(qwen.Config{
			APIKey:  pc.APIKey,
			Model:   pc.Model,
			BaseURL: pc.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return NewQwenAdapter(client), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", pc.Name)
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
