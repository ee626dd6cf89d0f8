package supervisor

import (
	"errors"
	"fmt"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
)

// ErrRoutingBudgetExceeded means the decision table kept sending the turn
// back to the same stage for the same plan. It is terminal for the turn.
var ErrRoutingBudgetExceeded = errors.New("RoutingBudgetExceeded")

// Budget tracks per-turn stage visits keyed by stage and plan fingerprint.
// It is not safe for concurrent use; each turn gets its own Budget.
type Budget struct {
	limit  int
	visits map[string]int
}

func NewBudget(limit int) *Budget {
	if limit <= 0 {
		limit = DefaultRoutingBudget
	}
	return &Budget{
		limit:  limit,
		visits: make(map[string]int),
	}
}

// Spend records one visit to stage for the given plan and fails once the
// same (stage, plan) pair has been visited more than the limit allows.
func (b *Budget) Spend(stage model.Stage, plan *model.Plan) error {
	key := string(stage)
	if plan != nil {
		key += "/" + plan.Fingerprint()
	}
	b.visits[key]++
	if b.visits[key] > b.limit {
		return fmt.Errorf("%w: stage %s visited %d times for the same plan in one turn", ErrRoutingBudgetExceeded, stage, b.visits[key])
	}
	return nil
}
