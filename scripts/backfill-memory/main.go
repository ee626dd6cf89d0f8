package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayushchhipa1509/OCI-COPILOT/config"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/memory"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
	pkgQdrant "github.com/ayushchhipa1509/OCI-COPILOT/pkg/qdrant"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/voyage"
)

// Re-indexes every persisted session turn into the vector store. Run
// once after enabling Voyage/Qdrant on a deployment that already has
// session history on disk; the live service only indexes new turns.
//
// Usage: go run scripts/backfill-memory/main.go [memory-dir]
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	dir := cfg.Memory.Dir
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if cfg.Voyage.APIKey == "" || cfg.Qdrant.URL == "" {
		fmt.Println("Voyage API key and Qdrant URL must be configured for backfill")
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        "info",
		Mode:         "development",
		ColorEnabled: true,
	})

	ctx := context.Background()

	embedder, err := voyage.New(cfg.Voyage.APIKey)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize Voyage API: %v", err)
	}

	recall := memory.NewVectorRecall(logger, embedder, pkgQdrant.NewClient(cfg.Qdrant.URL), cfg.Qdrant.CollectionName, cfg.Qdrant.VectorSize)
	recall.Bootstrap(ctx)

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		logger.Fatalf(ctx, "Failed to list session files: %v", err)
	}

	logger.Infof(ctx, "Found %d session files under %s", len(files), dir)

	sessions, turns := 0, 0
	for _, path := range files {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			logger.Errorf(ctx, "Failed to read %s: %v", path, readErr)
			continue
		}

		var state model.SessionState
		if jsonErr := json.Unmarshal(data, &state); jsonErr != nil {
			logger.Errorf(ctx, "Failed to decode %s: %v", path, jsonErr)
			continue
		}
		if state.Memory == nil || len(state.Memory.ShortTerm) == 0 {
			continue
		}

		for _, turn := range state.Memory.ShortTerm {
			recall.Index(ctx, turn.UserInput, map[string]any{
				"session_id": state.SessionID,
				"intent":     string(turn.Intent),
			})
			turns++
		}
		sessions++
		logger.Infof(ctx, "Indexed session %s (%d turns)", state.SessionID, len(state.Memory.ShortTerm))
	}

	logger.Infof(ctx, "Backfill complete! %d turns from %d sessions indexed.", turns, sessions)
}
