package chat

import (
	"context"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/orchestrator"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// ProcessTurn runs one conversational turn for the session and
	// returns the reply together with what the agent now waits for.
	ProcessTurn(ctx context.Context, sessionID, userInput string) (*orchestrator.TurnResult, error)
}
