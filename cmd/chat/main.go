package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ayushchhipa1509/OCI-COPILOT/config"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/composer"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/executor"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/orchestrator"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/planner"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/resolver"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/supervisor"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/verifier"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/memory"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/router"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/datemath"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/llmprovider"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/ocigateway"
)

// Terminal chat against the same turn pipeline the API serves. Handy
// for trying prompts and watching plans without a bot or curl.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        "warn", // keep the terminal readable
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llm, err := llmprovider.InitializeProviders(cfg.LLM, logger)
	if err != nil {
		fmt.Println("Failed to initialize LLM providers: ", err)
		os.Exit(1)
	}

	gateway, err := ocigateway.New(ocigateway.Config{
		URL:            cfg.Gateway.URL,
		AccessToken:    cfg.Gateway.AccessToken,
		RequestsPerSec: cfg.Gateway.RequestsPerSec,
		Burst:          cfg.Gateway.Burst,
		HTTPClient:     &http.Client{Timeout: parseDuration(cfg.Gateway.Timeout, 30*time.Second)},
	})
	if err != nil {
		fmt.Println("Failed to initialize gateway client: ", err)
		os.Exit(1)
	}

	store, err := memory.NewFileStore(cfg.Memory.Dir)
	if err != nil {
		fmt.Println("Failed to open memory store: ", err)
		os.Exit(1)
	}
	cache := memory.NewLookupCache(cfg.Memory.CacheSize, parseDuration(cfg.Memory.CacheTTL, 5*time.Minute))
	mem := memory.New(logger, store, cache, nil)

	timezone := cfg.GoogleCalendar.Timezone
	dates, dtErr := datemath.NewParser(timezone)
	if dtErr != nil {
		dates, _ = datemath.NewParser("UTC")
	}

	pipe := orchestrator.Pipeline{
		Supervisor: supervisor.New(logger),
		Classifier: router.New(llm, logger, router.Config{NormalizerEnabled: cfg.Agent.NormalizerEnabled}),
		Planner:    planner.New(llm, logger, planner.Config{}),
		Resolver:   resolver.New(logger, dates),
		Verifier:   verifier.New(llm, logger, verifier.Config{}),
		Executor:   executor.New(gateway, cache, nil, logger, executor.Config{Workers: cfg.Agent.ExecutorWorkers}),
		Composer:   composer.New(llm, mem, logger, composer.Config{Timezone: timezone}),
	}

	orch := orchestrator.New(pipe, mem, logger, orchestrator.Config{
		RoutingBudget: cfg.Agent.RoutingBudget,
	})

	sessionID := uuid.NewString()
	fmt.Println("OCI Copilot interactive chat. Type /quit or Ctrl+D to exit.")
	fmt.Printf("session: %s\n\n", sessionID)

	scanner := bufio.NewScanner(os.Stdin)
	prompt := "you> "
	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}

		out, err := orch.ProcessTurn(ctx, sessionID, line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}

		fmt.Printf("\ncopilot> %s\n\n", out.Reply)

		switch out.Awaiting {
		case model.AwaitingConfirmation:
			prompt = "confirm (yes/no)> "
		case model.AwaitingParameters:
			prompt = "details> "
		default:
			prompt = "you> "
		}
	}

	fmt.Println("\nbye")
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
