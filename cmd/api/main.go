package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayushchhipa1509/OCI-COPILOT/config"
	_ "github.com/ayushchhipa1509/OCI-COPILOT/docs" // Swagger docs
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/composer"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/executor"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/orchestrator"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/planner"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/resolver"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/supervisor"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/verifier"
	tgDelivery "github.com/ayushchhipa1509/OCI-COPILOT/internal/chat/delivery/telegram"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/httpserver"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/memory"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/router"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/datemath"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/gcalendar"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/llmprovider"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/ocigateway"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/qdrant"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/telegram"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/voyage"
)

// @title       OCI Copilot API
// @description Conversational cloud operations: chat over REST or Telegram, plans verified and confirmed before execution.
// @version     1
// @host        localhost:8080
// @schemes     http
// @securityDefinitions.apikey ApiKeyAuth
// @in          header
// @name        X-API-Key
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting OCI Copilot...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Gateway URL: %s", cfg.Gateway.URL)

	// 3. LLM providers
	llm, err := llmprovider.InitializeProviders(cfg.LLM, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}

	// 4. Automation gateway
	gateway, err := ocigateway.New(ocigateway.Config{
		URL:            cfg.Gateway.URL,
		AccessToken:    cfg.Gateway.AccessToken,
		RequestsPerSec: cfg.Gateway.RequestsPerSec,
		Burst:          cfg.Gateway.Burst,
		HTTPClient:     &http.Client{Timeout: parseDuration(cfg.Gateway.Timeout, 30*time.Second)},
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize gateway client: ", err)
		return
	}

	// 5. Session memory
	store, err := memory.NewFileStore(cfg.Memory.Dir)
	if err != nil {
		logger.Error(ctx, "Failed to open memory store: ", err)
		return
	}
	cache := memory.NewLookupCache(cfg.Memory.CacheSize, parseDuration(cfg.Memory.CacheTTL, 5*time.Minute))

	var recaller memory.Recaller
	if cfg.Voyage.APIKey != "" && cfg.Qdrant.URL != "" {
		embedder, vErr := voyage.New(cfg.Voyage.APIKey)
		if vErr != nil {
			logger.Warnf(ctx, "Vector recall not available (optional): %v", vErr)
		} else {
			vr := memory.NewVectorRecall(logger, embedder, qdrant.NewClient(cfg.Qdrant.URL), cfg.Qdrant.CollectionName, cfg.Qdrant.VectorSize)
			vr.Bootstrap(ctx)
			recaller = vr
			logger.Info(ctx, "✅ Vector recall initialized")
		}
	}

	mem := memory.New(logger, store, cache, recaller)

	// 6. Change calendar recorder (optional)
	var recorder executor.Recorder
	if cfg.GoogleCalendar.CredentialsPath != "" {
		calendarClient, calErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath, cfg.GoogleCalendar.TokenPath)
		if calErr != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", calErr)
			logger.Warn(ctx, "→ Run `go run scripts/gcal-auth/main.go` to generate token.json")
		} else {
			recorder = executor.NewCalendarRecorder(calendarClient, cfg.GoogleCalendar.CalendarID, cfg.GoogleCalendar.Timezone, logger)
			logger.Info(ctx, "✅ Change calendar initialized")
		}
	}

	// 7. Stage pipeline
	timezone := cfg.GoogleCalendar.Timezone
	dates, dtErr := datemath.NewParser(timezone)
	if dtErr != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", timezone, dtErr)
		dates, _ = datemath.NewParser("UTC")
	}

	pipe := orchestrator.Pipeline{
		Supervisor: supervisor.New(logger),
		Classifier: router.New(llm, logger, router.Config{
			Model:             stageModel(cfg, "classifier"),
			Temperature:       stageTemperature(cfg, "classifier"),
			NormalizerEnabled: cfg.Agent.NormalizerEnabled,
		}),
		Planner: planner.New(llm, logger, planner.Config{
			Model:       stageModel(cfg, "planner"),
			Temperature: stageTemperature(cfg, "planner"),
		}),
		Resolver: resolver.New(logger, dates),
		Verifier: verifier.New(llm, logger, verifier.Config{
			Model:       stageModel(cfg, "verifier"),
			Temperature: stageTemperature(cfg, "verifier"),
		}),
		Executor: executor.New(gateway, cache, recorder, logger, executor.Config{
			Workers: cfg.Agent.ExecutorWorkers,
		}),
		Composer: composer.New(llm, mem, logger, composer.Config{
			Model:       stageModel(cfg, "composer"),
			Temperature: stageTemperature(cfg, "composer"),
			Timezone:    timezone,
		}),
	}

	orch := orchestrator.New(pipe, mem, logger, orchestrator.Config{
		RoutingBudget: cfg.Agent.RoutingBudget,
		SessionTTL:    parseDuration(cfg.Agent.SessionTTL, 0),
	})

	// 8. Telegram delivery (optional)
	var telegramHandler tgDelivery.Handler
	if cfg.Telegram.BotToken != "" {
		telegramBot := telegram.NewBot(cfg.Telegram.BotToken)
		telegramHandler = tgDelivery.New(logger, orch, telegramBot)

		// Register webhook: auto-detect ngrok or fall back to manual config
		webhookURL := cfg.Telegram.WebhookURL
		if webhookURL == "" {
			ngrokURL, ngrokErr := detectNgrokURL(ctx, "http://ngrok:4040")
			if ngrokErr != nil {
				logger.Warnf(ctx, "Could not detect ngrok URL: %v", ngrokErr)
			} else {
				webhookURL = ngrokURL + "/webhook/telegram"
				logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
			}
		}

		if webhookURL != "" {
			if whErr := telegramBot.SetWebhook(webhookURL); whErr != nil {
				logger.Warnf(ctx, "Failed to set Telegram webhook: %v", whErr)
			} else {
				logger.Infof(ctx, "✅ Telegram webhook registered at %s", webhookURL)
			}
		}
	} else {
		logger.Warn(ctx, "Telegram delivery skipped: TELEGRAM_BOT_TOKEN is missing")
	}

	// 9. HTTP server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		ChatUseCase:     orch,
		ChatConfig:      cfg.Chat,
		TelegramHandler: telegramHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 10. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

func stageModel(cfg *config.Config, stage string) string {
	if sm, ok := cfg.LLM.Stages[stage]; ok {
		return sm.Model
	}
	return ""
}

func stageTemperature(cfg *config.Config, stage string) float64 {
	if sm, ok := cfg.LLM.Stages[stage]; ok {
		return sm.Temperature
	}
	return 0
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
