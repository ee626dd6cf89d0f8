package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Copilot specifics
	Gateway        GatewayConfig
	Agent          AgentConfig
	Memory         MemoryConfig
	Qdrant         QdrantConfig
	Voyage         VoyageConfig
	Telegram       TelegramConfig
	GoogleCalendar GoogleCalendarConfig

	// LLM Provider Abstraction
	LLM LLMConfig

	// Chat API protection
	Chat ChatConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// GatewayConfig points at the automation gateway that performs the actual
// cloud operations.
type GatewayConfig struct {
	URL            string
	AccessToken    string
	Timeout        string // Go duration string, per-call
	RequestsPerSec float64
	Burst          int
}

// AgentConfig bounds the turn orchestrator.
type AgentConfig struct {
	RoutingBudget     int    // max router decisions per turn
	ExecutorWorkers   int    // pool size for all-safe plans
	SessionTTL        string // idle expiry, Go duration string
	NormalizerEnabled bool
}

// MemoryConfig controls the session memory store.
type MemoryConfig struct {
	Dir       string
	CacheTTL  string // Go duration string
	CacheSize int
}

type QdrantConfig struct {
	URL            string
	CollectionName string
	VectorSize     int
}

type VoyageConfig struct {
	APIKey string
}

type TelegramConfig struct {
	BotToken   string
	WebhookURL string
}

type GoogleCalendarConfig struct {
	CredentialsPath string
	TokenPath       string
	CalendarID      string
	Timezone        string
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig      `yaml:"providers"`
	FallbackEnabled bool                  `yaml:"fallback_enabled"`
	RetryAttempts   int                   `yaml:"retry_attempts"`
	RetryDelay      string                `yaml:"retry_delay"`
	MaxTotalTimeout string                `yaml:"max_total_timeout"` // global timeout for the entire fallback chain
	Stages          map[string]StageModel `yaml:"stages"`            // per-stage model pinning, keyed by stage name
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// StageModel overrides model choice and sampling for one orchestration stage.
type StageModel struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// ChatConfig protects the chat API endpoint.
type ChatConfig struct {
	APIKey          string
	AllowedIPs      []string
	RateLimitPerMin int
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/oci-copilot/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/oci-copilot/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Automation gateway
	cfg.Gateway.URL = viper.GetString("gateway.url")
	cfg.Gateway.AccessToken = expandEnvVar(viper.GetString("gateway.access_token"))
	cfg.Gateway.Timeout = viper.GetString("gateway.timeout")
	cfg.Gateway.RequestsPerSec = viper.GetFloat64("gateway.requests_per_sec")
	cfg.Gateway.Burst = viper.GetInt("gateway.burst")
	if gatewayURL := viper.GetString("gateway_url"); gatewayURL != "" {
		cfg.Gateway.URL = gatewayURL
	}
	if gatewayToken := viper.GetString("gateway_access_token"); gatewayToken != "" {
		cfg.Gateway.AccessToken = gatewayToken
	}

	// Agent bounds
	cfg.Agent.RoutingBudget = viper.GetInt("agent.routing_budget")
	cfg.Agent.ExecutorWorkers = viper.GetInt("agent.executor_workers")
	cfg.Agent.SessionTTL = viper.GetString("agent.session_ttl")
	cfg.Agent.NormalizerEnabled = viper.GetBool("agent.normalizer_enabled")

	// Memory store
	cfg.Memory.Dir = viper.GetString("memory.dir")
	cfg.Memory.CacheTTL = viper.GetString("memory.cache_ttl")
	cfg.Memory.CacheSize = viper.GetInt("memory.cache_size")

	// Vector recall
	cfg.Qdrant.URL = viper.GetString("qdrant.url")
	cfg.Qdrant.CollectionName = viper.GetString("qdrant.collection_name")
	cfg.Qdrant.VectorSize = viper.GetInt("qdrant.vector_size")
	if qdrantURL := viper.GetString("qdrant_url"); qdrantURL != "" {
		cfg.Qdrant.URL = qdrantURL
	}

	cfg.Voyage.APIKey = viper.GetString("voyage.api_key")
	if voyageKey := viper.GetString("voyage_api_key"); voyageKey != "" {
		cfg.Voyage.APIKey = voyageKey
	}

	// Telegram delivery
	cfg.Telegram.BotToken = viper.GetString("telegram.bot_token")
	cfg.Telegram.WebhookURL = viper.GetString("telegram.webhook_url")
	if tgToken := viper.GetString("telegram_bot_token"); tgToken != "" {
		cfg.Telegram.BotToken = tgToken
	}

	// Change calendar
	cfg.GoogleCalendar.CredentialsPath = viper.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.TokenPath = viper.GetString("google_calendar.token_path")
	cfg.GoogleCalendar.CalendarID = viper.GetString("google_calendar.calendar_id")
	cfg.GoogleCalendar.Timezone = viper.GetString("google_calendar.timezone")
	if googleCreds := viper.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.GoogleCalendar.CredentialsPath = googleCreds
	}

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = viper.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = viper.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = viper.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = viper.GetString("llm.max_total_timeout")

	// Load provider configurations
	if viper.IsSet("llm.providers") {
		providersRaw := viper.Get("llm.providers")
		if providersList, ok := providersRaw.([]interface{}); ok {
			for _, p := range providersList {
				if providerMap, ok := p.(map[string]interface{}); ok {
					provider := ProviderConfig{
						Name:     getStringFromMap(providerMap, "name"),
						Enabled:  getBoolFromMap(providerMap, "enabled"),
						Priority: getIntFromMap(providerMap, "priority"),
						APIKey:   expandEnvVar(getStringFromMap(providerMap, "api_key")),
						BaseURL:  getStringFromMap(providerMap, "base_url"),
						Model:    getStringFromMap(providerMap, "model"),
						Timeout:  getStringFromMap(providerMap, "timeout"),
					}
					cfg.LLM.Providers = append(cfg.LLM.Providers, provider)
				}
			}
		}
	}

	if len(cfg.LLM.Providers) == 0 {
		return nil, fmt.Errorf("no LLM providers configured - please add llm.providers section to config.yaml")
	}

	// Per-stage model pinning (optional)
	if viper.IsSet("llm.stages") {
		stagesRaw := viper.GetStringMap("llm.stages")
		cfg.LLM.Stages = make(map[string]StageModel, len(stagesRaw))
		for stage, raw := range stagesRaw {
			if stageMap, ok := raw.(map[string]interface{}); ok {
				cfg.LLM.Stages[stage] = StageModel{
					Model:       getStringFromMap(stageMap, "model"),
					Temperature: getFloatFromMap(stageMap, "temperature"),
				}
			}
		}
	}

	// Chat protection
	cfg.Chat.APIKey = expandEnvVar(viper.GetString("chat.api_key"))
	cfg.Chat.RateLimitPerMin = viper.GetInt("chat.rate_limit_per_min")

	// Split allowed IPs since viper might not parse array seamlessly from env
	var ips []string
	if rawIps := viper.GetString("chat.allowed_ips"); rawIps != "" {
		for _, ip := range strings.Split(rawIps, ",") {
			ip = strings.TrimSpace(ip)
			if ip != "" {
				ips = append(ips, ip)
			}
		}
	}
	cfg.Chat.AllowedIPs = ips

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("gateway.timeout", "30s")
	viper.SetDefault("gateway.requests_per_sec", 5.0)
	viper.SetDefault("gateway.burst", 10)

	viper.SetDefault("agent.routing_budget", 25)
	viper.SetDefault("agent.executor_workers", 3)
	viper.SetDefault("agent.session_ttl", "30m")
	viper.SetDefault("agent.normalizer_enabled", true)

	viper.SetDefault("memory.dir", "./data/memory")
	viper.SetDefault("memory.cache_ttl", "300s")
	viper.SetDefault("memory.cache_size", 512)

	viper.SetDefault("qdrant.collection_name", "copilot_memory")
	viper.SetDefault("qdrant.vector_size", 1024)

	viper.SetDefault("google_calendar.timezone", "UTC")

	viper.SetDefault("chat.rate_limit_per_min", 60)

	// LLM defaults
	viper.SetDefault("llm.fallback_enabled", true)
	viper.SetDefault("llm.retry_attempts", 3)
	viper.SetDefault("llm.retry_delay", "1s")
	viper.SetDefault("llm.max_total_timeout", "60s")
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		// Try viper first (handles both env and config)
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		// Try lowercase version
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		// Try direct os.Getenv as last resort
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		if i, ok := val.(int); ok {
			return i
		}
		// Handle float64 from JSON unmarshaling
		if f, ok := val.(float64); ok {
			return int(f)
		}
	}
	return 0
}

func getFloatFromMap(m map[string]interface{}, key string) float64 {
	if val, ok := m[key]; ok {
		if f, ok := val.(float64); ok {
			return f
		}
		if i, ok := val.(int); ok {
			return float64(i)
		}
	}
	return 0
}
