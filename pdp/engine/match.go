// pdp/engine/match.go
package engine

import (
	"github.com/verdictsec/verdict/pdp/model"
)

// MatchAttr reports whether the designated attribute exists in the context
// and equals the literal (membership for set-typed attributes). A missing
// attribute is simply no match; targets only route evaluation.
func MatchAttr(m model.Match, rctx *model.AttributeContext) bool {
	v, ok := rctx.Get(m.Category, m.AttributeID)
	if !ok {
		return false
	}
	return v.Matches(m.Value)
}

// EvalTarget evaluates a disjunction of conjunctions of matches. An empty
// target is universal. Targets never yield Indeterminate: a request lacking
// the designated attribute conservatively does not match.
func EvalTarget(t model.Target, rctx *model.AttributeContext) bool {
	if len(t) == 0 {
		return true
	}
	for _, allOf := range t {
		if matchAllOf(allOf, rctx) {
			return true
		}
	}
	return false
}

func matchAllOf(allOf model.AllOf, rctx *model.AttributeContext) bool {
	for _, m := range allOf {
		if !MatchAttr(m, rctx) {
			return false
		}
	}
	return true
}

// EvalCondition evaluates a rule condition. A nil condition is True. Any
// reference to an attribute absent from the context yields Indeterminate,
// never False: a rule that might have denied must not quietly disappear.
func EvalCondition(c *model.Condition, rctx *model.AttributeContext) model.TriState {
	if c == nil {
		return model.CondTrue
	}

	left, ok := rctx.Get(c.Left.Category, c.Left.AttributeID)
	if !ok {
		return model.CondIndeterminate
	}

	switch c.Op {
	case model.OpEquals:
		var right model.AttributeValue
		if c.Right != nil {
			right, ok = rctx.Get(c.Right.Category, c.Right.AttributeID)
			if !ok {
				return model.CondIndeterminate
			}
		} else {
			right = *c.Literal
		}
		if left.Equal(right) {
			return model.CondTrue
		}
		return model.CondFalse

	case model.OpNotIn:
		if left.Kind() == model.KindStringSet {
			for _, member := range c.Set {
				if left.Contains(member) {
					return model.CondFalse
				}
			}
			return model.CondTrue
		}
		for _, member := range c.Set {
			if left.Equal(model.StringValue(member)) {
				return model.CondFalse
			}
		}
		return model.CondTrue
	}

	// Unreachable for trees built by the loader.
	return model.CondIndeterminate
}
