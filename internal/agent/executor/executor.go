package executor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/memory"
	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/ocigateway"
)

// Execute runs the active plan in declared order. A failed step never
// stops the others unless its error is fatal, in which case the
// remaining steps are recorded as skipped. Read-only plans with
// several steps run on a bounded pool, results reassembled in order.
func (e *implExecutor) Execute(ctx context.Context, state *model.SessionState) error {
	plan := state.ActivePlan
	if plan == nil {
		state.PlanError = ErrMsgNoPlan
		return nil
	}
	if !plan.Verified {
		state.PlanError = ErrMsgNotVerified
		return nil
	}
	if plan.HasDestructive() && !plan.Confirmed {
		// Last line of defense for the confirmation invariant.
		state.PlanError = ErrMsgNotConfirmed
		e.l.Errorf(ctx, "%s: refused unconfirmed destructive plan %s", LogPrefixExecute, plan.ID)
		return nil
	}

	var results []model.StepResult
	if !plan.HasDestructive() && len(plan.Steps) > 1 && e.cfg.Workers > 1 {
		results = e.runPooled(ctx, plan)
	} else {
		results = e.runSequential(ctx, plan)
	}

	state.StepResults = results
	e.recordActions(state, results)

	summary := model.Summarize(results)
	e.l.Infof(ctx, "%s: plan %s done: %d ok, %d failed, %d skipped",
		LogPrefixExecute, plan.ID, summary.Succeeded, summary.Failed, summary.Skipped)
	return nil
}

func (e *implExecutor) runSequential(ctx context.Context, plan *model.Plan) []model.StepResult {
	results := make([]model.StepResult, 0, len(plan.Steps))
	halted := false

	for i, step := range plan.Steps {
		if halted || ctx.Err() != nil {
			results = append(results, model.StepResult{StepIndex: i, Status: model.StepStatusSkipped})
			continue
		}

		res := e.runStep(ctx, i, step)
		results = append(results, res)

		if res.Status == model.StepStatusError && res.Error != nil && res.Error.Kind == model.ErrorKindFatal {
			e.l.Warnf(ctx, "%s: fatal error at step %d, halting plan %s", LogPrefixExecute, i+1, plan.ID)
			halted = true
		}

		if step.SafetyTier == model.SafetyTierDestructive {
			if res.Status == model.StepStatusOK && e.cache != nil {
				e.cache.Purge()
			}
			e.record(ctx, step, res)
		}
	}
	return results
}

func (e *implExecutor) runPooled(ctx context.Context, plan *model.Plan) []model.StepResult {
	results := make([]model.StepResult, len(plan.Steps))
	sem := make(chan struct{}, e.cfg.Workers)
	var wg sync.WaitGroup

	for i, step := range plan.Steps {
		wg.Add(1)
		go func(i int, step model.Step) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = e.runStep(ctx, i, step)
		}(i, step)
	}
	wg.Wait()

	return results
}

// runStep invokes one gateway call, serving safe steps from the
// lookup cache when possible.
func (e *implExecutor) runStep(ctx context.Context, index int, step model.Step) model.StepResult {
	cacheable := step.SafetyTier == model.SafetyTierSafe && e.cache != nil

	var fingerprint string
	if cacheable {
		fingerprint = memory.Fingerprint(step.Service, step.Action, step.Params)
		if data, ok := e.cache.Get(fingerprint); ok {
			e.l.Debugf(ctx, "%s: cache hit for %s/%s", LogPrefixExecute, step.Service, step.Action)
			return model.StepResult{StepIndex: index, Status: model.StepStatusOK, Data: data}
		}
	}

	data, err := e.gateway.Invoke(ctx, ocigateway.InvokeRequest{
		Service: step.Service,
		Action:  step.Action,
		Params:  step.Params,
	})
	if err != nil {
		stepErr := classify(err)
		e.l.Warnf(ctx, "%s: step %d %s/%s failed (%s): %s",
			LogPrefixExecute, index+1, step.Service, step.Action, stepErr.Kind, stepErr.Message)
		return model.StepResult{StepIndex: index, Status: model.StepStatusError, Error: stepErr}
	}

	if cacheable {
		e.cache.Set(fingerprint, data)
	}
	return model.StepResult{StepIndex: index, Status: model.StepStatusOK, Data: data}
}

// classify maps a gateway error onto the step error taxonomy.
func classify(err error) *model.StepError {
	var callErr *ocigateway.CallError
	if errors.As(err, &callErr) {
		return &model.StepError{Kind: model.ErrorKind(callErr.Kind), Message: callErr.Message}
	}
	return &model.StepError{Kind: model.ErrorKindTransient, Message: err.Error()}
}

// record notes a destructive step on the change calendar.
func (e *implExecutor) record(ctx context.Context, step model.Step, result model.StepResult) {
	if e.recorder == nil {
		return
	}
	e.recorder.RecordChange(ctx, step, result)
}

// recordActions appends executed steps to the session action history.
func (e *implExecutor) recordActions(state *model.SessionState, results []model.StepResult) {
	if state.Memory == nil {
		state.Memory = model.NewMemory()
	}
	plan := state.ActivePlan
	now := time.Now()
	for _, res := range results {
		if res.Status == model.StepStatusSkipped {
			continue
		}
		if res.StepIndex >= len(plan.Steps) {
			continue
		}
		step := plan.Steps[res.StepIndex]
		state.Memory.RecentActions = append(state.Memory.RecentActions, model.ActionRecord{
			Service: step.Service,
			Action:  step.Action,
			Status:  res.Status,
			At:      now,
		})
	}
}
