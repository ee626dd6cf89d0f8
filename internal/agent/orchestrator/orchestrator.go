package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/agent/supervisor"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
)

// ProcessTurn runs one complete user turn: load state, interpret the
// input against any suspension point, walk the stages until the
// supervisor ends the turn, record the exchange, persist. Turns of the
// same session never interleave.
func (o *Orchestrator) ProcessTurn(ctx context.Context, sessionID, userInput string) (*TurnResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%s: %s", LogPrefixProcessTurn, ErrMsgEmptySessID)
	}
	if strings.TrimSpace(userInput) == "" {
		return nil, fmt.Errorf("%s: %s", LogPrefixProcessTurn, ErrMsgEmptyInput)
	}

	sess := o.acquire(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	state, err := o.mem.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", LogPrefixProcessTurn, ErrMsgLoadFailed, err)
	}

	state.ResetTurn(userInput)
	o.pipe.Supervisor.Interpret(ctx, state)

	reply := o.runStages(ctx, state)

	state.Memory.ShortTerm = append(state.Memory.ShortTerm, model.TurnRecord{
		UserInput: userInput,
		Reply:     reply,
		Intent:    state.Intent,
		At:        time.Now(),
	})
	if err := o.mem.Save(ctx, state); err != nil {
		// the reply already exists, losing one save must not eat it
		o.l.Errorf(ctx, "%s: save failed for session %s: %v", LogPrefixProcessTurn, sessionID, err)
	}

	return &TurnResult{
		SessionID: sessionID,
		Reply:     reply,
		Intent:    state.Intent,
		Awaiting:  state.Awaiting,
	}, nil
}

// runStages walks the decision table until the turn is terminal. A spent
// routing budget aborts the walk and surfaces the error through the
// composer like any other plan failure.
func (o *Orchestrator) runStages(ctx context.Context, state *model.SessionState) string {
	budget := supervisor.NewBudget(o.cfg.RoutingBudget)
	var reply string

	for {
		stage := o.pipe.Supervisor.Next(ctx, state)
		if stage == model.StageTerminal {
			break
		}

		if err := budget.Spend(stage, state.ActivePlan); err != nil {
			o.l.Errorf(ctx, "%s: session %s aborted: %v", LogPrefixProcessTurn, state.SessionID, err)
			state.PlanError = err.Error()
			reply = o.pipe.Composer.Compose(ctx, state)
			state.LastStage = model.StageComposer
			break
		}
		state.RoutingHops++

		switch stage {
		case model.StageClassifier:
			o.classify(ctx, state)
		case model.StagePlanner:
			o.guard(ctx, state, o.pipe.Planner.Build(ctx, state))
		case model.StageResolver:
			o.guard(ctx, state, o.pipe.Resolver.Resolve(ctx, state))
		case model.StageVerifier:
			o.guard(ctx, state, o.pipe.Verifier.Verify(ctx, state))
		case model.StageExecutor:
			o.guard(ctx, state, o.pipe.Executor.Execute(ctx, state))
		case model.StageComposer:
			reply = o.pipe.Composer.Compose(ctx, state)
		}
		state.LastStage = stage
	}

	return reply
}

// classify runs the intent classifier with recent history, taught
// preferences and semantic recall for context.
func (o *Orchestrator) classify(ctx context.Context, state *model.SessionState) {
	turns := state.Memory.LastTurns(o.cfg.HistoryTurns)
	history := make([]string, 0, len(turns)*2)
	for _, turn := range turns {
		history = append(history,
			"user: "+turn.UserInput,
			"assistant: "+turn.Reply,
		)
	}
	for _, name := range sortedKeys(state.Memory.Preferences) {
		history = append(history, "preference "+name+": "+state.Memory.Preferences[name])
	}
	if hits := o.mem.Recall(ctx, state.UserInput, 3); len(hits) > 0 {
		for _, hit := range hits {
			history = append(history, "recalled: "+hit)
		}
	}

	out, err := o.pipe.Classifier.Classify(ctx, state.UserInput, history)
	if err != nil {
		o.l.Warnf(ctx, "%s: classify failed for session %s: %v", LogPrefixProcessTurn, state.SessionID, err)
		state.Intent = model.IntentQuestion
		state.IsExecutable = false
		state.NormalizedQuery = state.UserInput
		return
	}

	state.NormalizedQuery = out.NormalizedQuery
	state.Intent = out.Intent
	state.IsExecutable = out.IsExecutable
}

// guard folds an unexpected stage error into the plan error so the
// composer can surface it. Stages normally record their own failures.
func (o *Orchestrator) guard(ctx context.Context, state *model.SessionState, err error) {
	if err == nil {
		return
	}
	o.l.Errorf(ctx, "%s: stage error for session %s: %v", LogPrefixProcessTurn, state.SessionID, err)
	if state.PlanError == "" {
		state.PlanError = err.Error()
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
