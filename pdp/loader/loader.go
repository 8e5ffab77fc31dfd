// pdp/loader/loader.go
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	verdict_errors "github.com/verdictsec/verdict/errors"
	logger "github.com/verdictsec/verdict/logging"
	"github.com/verdictsec/verdict/pdp/model"
	"go.uber.org/zap"
)

// LoadFile reads a policy set definition from a JSON file and builds the
// evaluation tree.
func LoadFile(path string) (*model.PolicySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", verdict_errors.ErrPolicyFileNotFound, path)
		}
		return nil, err
	}

	var def PolicySetDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", verdict_errors.ErrMalformedDefinition, err)
	}

	ps, err := LoadPolicySet(def)
	if err != nil {
		return nil, err
	}

	logger.Info("Policy set loaded",
		zap.String("file", path),
		zap.String("policySet", ps.ID))
	return ps, nil
}

// LoadPolicySet converts a definition into an immutable policy set tree.
// All structural errors (duplicate ids, unknown combining algorithm, unknown
// category, unknown effect, malformed conditions) are fatal here; a tree that
// loads never fails structurally at evaluation time.
func LoadPolicySet(def PolicySetDefinition) (*model.PolicySet, error) {
	seen := make(map[string]struct{})
	return buildPolicySet(def, seen)
}

func buildPolicySet(def PolicySetDefinition, seen map[string]struct{}) (*model.PolicySet, error) {
	if def.ID == "" {
		return nil, fmt.Errorf("%w: policy set without id", verdict_errors.ErrMalformedDefinition)
	}
	if err := claimID(def.ID, seen); err != nil {
		return nil, err
	}
	if err := checkAlgorithm(def.Algorithm); err != nil {
		return nil, fmt.Errorf("policy set %s: %w", def.ID, err)
	}

	target, err := buildTarget(def.Target)
	if err != nil {
		return nil, fmt.Errorf("policy set %s: %w", def.ID, err)
	}

	children := make([]model.Node, 0, len(def.Policies)+len(def.PolicySets))
	for _, pd := range def.Policies {
		p, err := buildPolicy(pd, seen)
		if err != nil {
			return nil, err
		}
		children = append(children, p)
	}
	for _, psd := range def.PolicySets {
		nested, err := buildPolicySet(psd, seen)
		if err != nil {
			return nil, err
		}
		children = append(children, nested)
	}

	return &model.PolicySet{
		ID:          def.ID,
		Description: def.Description,
		Target:      target,
		Children:    children,
		Algorithm:   model.AlgorithmDenyOverrides,
	}, nil
}

func buildPolicy(def PolicyDefinition, seen map[string]struct{}) (*model.Policy, error) {
	if def.ID == "" {
		return nil, fmt.Errorf("%w: policy without id", verdict_errors.ErrMalformedDefinition)
	}
	if err := claimID(def.ID, seen); err != nil {
		return nil, err
	}
	if err := checkAlgorithm(def.Algorithm); err != nil {
		return nil, fmt.Errorf("policy %s: %w", def.ID, err)
	}

	target, err := buildTarget(def.Target)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", def.ID, err)
	}

	ruleIDs := make(map[string]struct{}, len(def.Rules))
	rules := make([]model.Rule, 0, len(def.Rules))
	for _, rd := range def.Rules {
		r, err := buildRule(rd)
		if err != nil {
			return nil, fmt.Errorf("policy %s: %w", def.ID, err)
		}
		if _, dup := ruleIDs[r.ID]; dup {
			return nil, fmt.Errorf("policy %s: %w: rule %s", def.ID, verdict_errors.ErrDuplicateID, r.ID)
		}
		ruleIDs[r.ID] = struct{}{}
		rules = append(rules, r)
	}

	return &model.Policy{
		ID:          def.ID,
		Description: def.Description,
		Target:      target,
		Rules:       rules,
		Algorithm:   model.AlgorithmDenyOverrides,
	}, nil
}

func buildRule(def RuleDefinition) (model.Rule, error) {
	if def.ID == "" {
		return model.Rule{}, fmt.Errorf("%w: rule without id", verdict_errors.ErrMalformedDefinition)
	}

	var effect model.Effect
	switch def.Effect {
	case "Permit":
		effect = model.EffectPermit
	case "Deny":
		effect = model.EffectDeny
	default:
		return model.Rule{}, fmt.Errorf("rule %s: %w: %q", def.ID, verdict_errors.ErrUnknownEffect, def.Effect)
	}

	target, err := buildTarget(def.Target)
	if err != nil {
		return model.Rule{}, fmt.Errorf("rule %s: %w", def.ID, err)
	}

	condition, err := buildCondition(def.Condition)
	if err != nil {
		return model.Rule{}, fmt.Errorf("rule %s: %w", def.ID, err)
	}

	return model.Rule{
		ID:          def.ID,
		Description: def.Description,
		Target:      target,
		Condition:   condition,
		Effect:      effect,
	}, nil
}

func buildTarget(def [][]MatchDefinition) (model.Target, error) {
	if len(def) == 0 {
		return nil, nil
	}
	target := make(model.Target, 0, len(def))
	for _, allOfDef := range def {
		allOf := make(model.AllOf, 0, len(allOfDef))
		for _, md := range allOfDef {
			category, err := model.ParseCategory(md.Category)
			if err != nil {
				return nil, err
			}
			if md.Attribute == "" {
				return nil, fmt.Errorf("%w: match without attribute", verdict_errors.ErrMalformedDefinition)
			}
			allOf = append(allOf, model.Match{
				Category:    category,
				AttributeID: md.Attribute,
				Value:       model.StringValue(md.Value),
			})
		}
		target = append(target, allOf)
	}
	return target, nil
}

func buildCondition(def *ConditionDefinition) (*model.Condition, error) {
	if def == nil {
		return nil, nil
	}

	left, err := buildRef(def.Left)
	if err != nil {
		return nil, err
	}

	switch def.Op {
	case "equals":
		if (def.Right == nil) == (def.Value == nil) {
			return nil, fmt.Errorf("%w: equals needs exactly one of right/value", verdict_errors.ErrMalformedCondition)
		}
		cond := &model.Condition{Op: model.OpEquals, Left: left}
		if def.Right != nil {
			right, err := buildRef(*def.Right)
			if err != nil {
				return nil, err
			}
			cond.Right = &right
		} else {
			literal := model.StringValue(*def.Value)
			cond.Literal = &literal
		}
		return cond, nil

	case "not-in":
		if len(def.Set) == 0 {
			return nil, fmt.Errorf("%w: not-in needs a non-empty set", verdict_errors.ErrMalformedCondition)
		}
		set := make([]string, len(def.Set))
		copy(set, def.Set)
		return &model.Condition{Op: model.OpNotIn, Left: left, Set: set}, nil

	default:
		return nil, fmt.Errorf("%w: unknown op %q", verdict_errors.ErrMalformedCondition, def.Op)
	}
}

func buildRef(def AttributeRefDefinition) (model.AttributeRef, error) {
	category, err := model.ParseCategory(def.Category)
	if err != nil {
		return model.AttributeRef{}, err
	}
	if def.Attribute == "" {
		return model.AttributeRef{}, fmt.Errorf("%w: reference without attribute", verdict_errors.ErrMalformedCondition)
	}
	return model.AttributeRef{Category: category, AttributeID: def.Attribute}, nil
}

func claimID(id string, seen map[string]struct{}) error {
	if _, dup := seen[id]; dup {
		return fmt.Errorf("%w: %s", verdict_errors.ErrDuplicateID, id)
	}
	seen[id] = struct{}{}
	return nil
}

func checkAlgorithm(name string) error {
	if name != string(model.AlgorithmDenyOverrides) {
		return fmt.Errorf("%w: %q", verdict_errors.ErrUnknownAlgorithm, name)
	}
	return nil
}
