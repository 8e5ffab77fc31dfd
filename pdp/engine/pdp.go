// pdp/engine/pdp.go
package engine

import (
	"context"
	"sync/atomic"

	logger "github.com/verdictsec/verdict/logging"
	"github.com/verdictsec/verdict/pdp/model"
	"go.uber.org/zap"
)

// DecisionPoint is the PDP: it walks the immutable policy tree for each
// request and resolves the raw decision to the outward Permit/Deny contract.
// The root is held behind an atomic pointer so a reload swaps in a complete
// new tree while in-flight evaluations keep the one they started with. Safe
// for concurrent use.
type DecisionPoint struct {
	root atomic.Pointer[model.PolicySet]
}

func NewDecisionPoint(root *model.PolicySet) *DecisionPoint {
	dp := &DecisionPoint{}
	dp.root.Store(root)
	return dp
}

// Evaluate returns the final decision for the request: Permit or Deny only.
// NotApplicable and Indeterminate are mapped to Deny here, at the boundary,
// and nowhere else; intermediate nodes must keep them distinct for the
// combining fold. Any ambiguity degrades toward Deny, never toward Permit.
func (dp *DecisionPoint) Evaluate(ctx context.Context, rctx *model.AttributeContext) model.Decision {
	raw := dp.EvaluateRaw(ctx, rctx)
	if raw == model.Permit {
		return model.Permit
	}
	if raw != model.Deny {
		logger.Debug("Decision resolved to deny at boundary",
			zap.String("raw", raw.String()))
	}
	return model.Deny
}

// EvaluateRaw returns the undamped decision of the root policy set, including
// NotApplicable and Indeterminate. Used by audit and tests.
func (dp *DecisionPoint) EvaluateRaw(_ context.Context, rctx *model.AttributeContext) model.Decision {
	return EvalPolicySet(dp.root.Load(), rctx)
}

// Swap atomically replaces the root policy set. The previous tree is
// returned so callers can log what was replaced.
func (dp *DecisionPoint) Swap(root *model.PolicySet) *model.PolicySet {
	return dp.root.Swap(root)
}

// Root returns the currently active policy set.
func (dp *DecisionPoint) Root() *model.PolicySet {
	return dp.root.Load()
}
