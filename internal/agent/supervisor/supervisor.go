package supervisor

import (
	"context"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
)

// Interpret reads the new user input against the session's suspension
// point. A granted confirmation, a cancellation, or a topic switch is
// applied to the state here so Next can route on plain predicates.
func (s *implSupervisor) Interpret(ctx context.Context, state *model.SessionState) {
	awaiting := state.Awaiting
	state.Awaiting = model.AwaitingNone

	if state.ActivePlan == nil || awaiting == model.AwaitingNone {
		return
	}

	switch awaiting {
	case model.AwaitingConfirmation:
		switch {
		case isConfirmation(state.UserInput):
			state.ActivePlan.Confirmed = true
			state.ConfirmationPending = false
			s.l.Infof(ctx, "%s: session %s confirmed plan %s", LogPrefixInterpret, state.SessionID, state.ActivePlan.ID)
		case isCancellation(state.UserInput):
			s.cancelActive(ctx, state)
		case looksLikeNewRequest(state.UserInput):
			s.deferActive(ctx, state)
		default:
			// unclear reply, the composer asks again
			s.l.Debugf(ctx, "%s: session %s kept confirmation pending, input %q", LogPrefixInterpret, state.SessionID, state.UserInput)
		}
	case model.AwaitingParameters:
		switch {
		case isCancellation(state.UserInput):
			s.cancelActive(ctx, state)
		case looksLikeNewRequest(state.UserInput):
			s.deferActive(ctx, state)
		default:
			// treated as a parameter reply, the resolver takes it
		}
	}
}

// Next picks the stage that handles the session now. It is called after
// every stage until it returns StageTerminal.
func (s *implSupervisor) Next(ctx context.Context, state *model.SessionState) model.Stage {
	stage := s.route(state)
	s.l.Debugf(ctx, "%s: session %s from %q to %q", LogPrefixNext, state.SessionID, state.LastStage, stage)
	return stage
}

// route is the decision table. Order matters: a finished composer ends the
// turn, errors and cancellations beat everything else, and a plan walks
// parameters, confirmation, verification, execution in that order.
func (s *implSupervisor) route(state *model.SessionState) model.Stage {
	if state.LastStage == model.StageComposer {
		return model.StageTerminal
	}
	if state.PlanError != "" || state.Cancelled {
		return model.StageComposer
	}
	if state.LastStage == model.StageExecutor {
		return model.StageComposer
	}

	plan := state.ActivePlan
	if plan == nil {
		if state.LastStage == model.StageClassifier {
			if state.IsExecutable {
				return model.StagePlanner
			}
			return model.StageComposer
		}
		return model.StageClassifier
	}

	if plan.HasMissingParameters() {
		// a fresh build or a resolver pass that left gaps suspends the
		// turn with questions; a new turn gives the reply to the resolver
		if state.LastStage == model.StagePlanner || state.LastStage == model.StageResolver {
			return model.StageComposer
		}
		return model.StageResolver
	}

	if plan.HasDestructive() && !plan.Confirmed {
		return model.StageComposer
	}

	if !plan.Verified {
		if state.LastStage == model.StageVerifier {
			if len(state.VerifierFeedback) > 0 {
				return model.StagePlanner
			}
			return model.StageComposer
		}
		return model.StageVerifier
	}

	return model.StageExecutor
}

// cancelActive drops the active plan and lets the composer acknowledge.
func (s *implSupervisor) cancelActive(ctx context.Context, state *model.SessionState) {
	id := state.ActivePlan.ID
	state.ClearActivePlan()
	state.Cancelled = true
	s.l.Infof(ctx, "%s: session %s cancelled plan %s", LogPrefixInterpret, state.SessionID, id)
}

// deferActive parks the active plan untouched on the deferred stack so the
// new request can run first.
func (s *implSupervisor) deferActive(ctx context.Context, state *model.SessionState) {
	plan := state.ActivePlan
	state.PushDeferred(plan)
	state.ClearActivePlan()
	s.l.Infof(ctx, "%s: session %s deferred plan %s for a new request", LogPrefixInterpret, state.SessionID, plan.ID)
}
