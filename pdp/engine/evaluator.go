// pdp/engine/evaluator.go
package engine

import (
	logger "github.com/verdictsec/verdict/logging"
	"github.com/verdictsec/verdict/pdp/model"
	"go.uber.org/zap"
)

// EvalRule evaluates one rule: target gate, then condition, then effect.
// Pure function of (rule, context).
func EvalRule(r model.Rule, rctx *model.AttributeContext) model.Decision {
	if !EvalTarget(r.Target, rctx) {
		return model.NotApplicable
	}

	switch EvalCondition(r.Condition, rctx) {
	case model.CondIndeterminate:
		logger.Debug("Rule condition indeterminate", zap.String("rule", r.ID))
		return model.Indeterminate
	case model.CondFalse:
		return model.NotApplicable
	}

	return r.Effect.Decision()
}

// EvalPolicy evaluates a policy: if the policy target does not match, the
// rules are never visited, so unrelated rules cannot contribute spurious
// Indeterminate results. Otherwise the rule decisions are folded with
// deny-overrides.
func EvalPolicy(p *model.Policy, rctx *model.AttributeContext) model.Decision {
	if !EvalTarget(p.Target, rctx) {
		return model.NotApplicable
	}

	decision := combineDenyOverrides(len(p.Rules), func(i int) model.Decision {
		return EvalRule(p.Rules[i], rctx)
	})
	logger.Debug("Policy evaluated",
		zap.String("policy", p.ID),
		zap.String("decision", decision.String()))
	return decision
}

// EvalPolicySet evaluates a policy set recursively. The combining semantics
// are identical at both levels, so nested policy sets compose without
// special-casing.
func EvalPolicySet(ps *model.PolicySet, rctx *model.AttributeContext) model.Decision {
	if !EvalTarget(ps.Target, rctx) {
		return model.NotApplicable
	}

	return combineDenyOverrides(len(ps.Children), func(i int) model.Decision {
		switch child := ps.Children[i].(type) {
		case *model.Policy:
			return EvalPolicy(child, rctx)
		case *model.PolicySet:
			return EvalPolicySet(child, rctx)
		}
		// Node is a closed sum; the loader only builds the two cases above.
		return model.Indeterminate
	})
}

// combineDenyOverrides folds child decisions: the first Deny wins and
// short-circuits; otherwise any Indeterminate wins over Permit, since a rule
// that might have denied could not be resolved; otherwise any Permit wins;
// otherwise NotApplicable. This is the only combining algorithm the engine
// implements (permit-overrides, first-applicable and only-one-applicable are
// deliberately unsupported and rejected at load time).
func combineDenyOverrides(n int, eval func(int) model.Decision) model.Decision {
	sawIndeterminate := false
	sawPermit := false

	for i := 0; i < n; i++ {
		switch eval(i) {
		case model.Deny:
			return model.Deny
		case model.Indeterminate:
			sawIndeterminate = true
		case model.Permit:
			sawPermit = true
		}
	}

	if sawIndeterminate {
		return model.Indeterminate
	}
	if sawPermit {
		return model.Permit
	}
	return model.NotApplicable
}
