package model

import "time"

// Intent is the classified purpose of a user turn.
type Intent string

const (
	IntentAction    Intent = "action"    // mutate cloud resources
	IntentRetrieval Intent = "retrieval" // list/inspect cloud resources
	IntentQuestion  Intent = "question"  // general question, no cloud call
)

// Awaiting marks why a turn ended without a terminal answer.
type Awaiting string

const (
	AwaitingNone         Awaiting = "none"
	AwaitingConfirmation Awaiting = "confirmation"
	AwaitingParameters   Awaiting = "parameters"
)

// Stage identifies one orchestration stage.
type Stage string

const (
	StageClassifier Stage = "classifier"
	StagePlanner    Stage = "planner"
	StageResolver   Stage = "resolver"
	StageVerifier   Stage = "verifier"
	StageExecutor   Stage = "executor"
	StageComposer   Stage = "composer"
	StageTerminal   Stage = "terminal"
)

// Choice is one entry of a numbered option list offered to the user,
// selectable by replying with its number.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SessionState is the per-conversation record threaded through a turn and
// persisted between turns. The supervisor is the only component that decides
// stage transitions over it.
type SessionState struct {
	SessionID string `json:"session_id"`

	// Current turn
	UserInput       string `json:"user_input"`
	NormalizedQuery string `json:"normalized_query"`
	IsExecutable    bool   `json:"is_executable"`
	Intent          Intent `json:"intent"`

	// Plan lifecycle
	ActivePlan        *Plan                `json:"active_plan,omitempty"`
	DeferredPlans     []*Plan              `json:"deferred_plans,omitempty"`
	PendingParameters map[string]ParamSpec `json:"pending_parameters,omitempty"`
	ChoiceList        []Choice             `json:"choice_list,omitempty"`
	ChoiceParam       string               `json:"choice_param,omitempty"` // parameter the choice list answers
	VerifyRetries     int                  `json:"verify_retries"`
	VerifierFeedback  []string             `json:"verifier_feedback,omitempty"`
	PlanError         string               `json:"plan_error,omitempty"`

	// Execution
	StepResults         []StepResult `json:"step_results,omitempty"`
	ConfirmationPending bool         `json:"confirmation_pending"`

	// Turn bookkeeping
	Awaiting    Awaiting `json:"awaiting"`
	LastStage   Stage    `json:"last_stage"`
	RoutingHops int      `json:"routing_hops"`
	Cancelled   bool     `json:"cancelled,omitempty"`

	Memory *Memory `json:"memory,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSessionState returns a fresh session record.
func NewSessionState(sessionID string) *SessionState {
	now := time.Now()
	return &SessionState{
		SessionID: sessionID,
		Awaiting:  AwaitingNone,
		Memory:    NewMemory(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PushDeferred parks the active plan on top of the deferred stack.
func (s *SessionState) PushDeferred(p *Plan) {
	if p == nil {
		return
	}
	s.DeferredPlans = append(s.DeferredPlans, p)
}

// PopDeferred removes and returns the most recently deferred plan, or nil.
func (s *SessionState) PopDeferred() *Plan {
	n := len(s.DeferredPlans)
	if n == 0 {
		return nil
	}
	p := s.DeferredPlans[n-1]
	s.DeferredPlans = s.DeferredPlans[:n-1]
	return p
}

// PeekDeferred returns the most recently deferred plan without removing it.
func (s *SessionState) PeekDeferred() *Plan {
	n := len(s.DeferredPlans)
	if n == 0 {
		return nil
	}
	return s.DeferredPlans[n-1]
}

// ResetTurn clears the per-turn fields before routing a new user input.
// Plan lifecycle fields survive so gathering and confirmation can resume.
func (s *SessionState) ResetTurn(userInput string) {
	s.UserInput = userInput
	s.NormalizedQuery = ""
	s.StepResults = nil
	s.RoutingHops = 0
	s.LastStage = ""
	s.Cancelled = false
	s.UpdatedAt = time.Now()
}

// ClearActivePlan drops the active plan and every field tied to it.
// Deferred plans are untouched.
func (s *SessionState) ClearActivePlan() {
	s.ActivePlan = nil
	s.PendingParameters = nil
	s.ChoiceList = nil
	s.ChoiceParam = ""
	s.VerifyRetries = 0
	s.VerifierFeedback = nil
	s.PlanError = ""
	s.ConfirmationPending = false
	s.Awaiting = AwaitingNone
}
