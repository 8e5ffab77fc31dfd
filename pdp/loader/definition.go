// pdp/loader/definition.go
package loader

// Definitions are the declarative, JSON-tagged shape of a policy set as it
// appears in the policy file. The loader converts them into the immutable
// evaluation tree, rejecting structural problems before the set ever becomes
// active.

type MatchDefinition struct {
	Category  string `json:"category"`
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

type AttributeRefDefinition struct {
	Category  string `json:"category"`
	Attribute string `json:"attribute"`
}

// ConditionDefinition supports two operators:
//   - "equals": left against either a second reference ("right") or a
//     literal string ("value")
//   - "not-in": left against a literal string set ("set")
type ConditionDefinition struct {
	Op    string                  `json:"op"`
	Left  AttributeRefDefinition  `json:"left"`
	Right *AttributeRefDefinition `json:"right,omitempty"`
	Value *string                 `json:"value,omitempty"`
	Set   []string                `json:"set,omitempty"`
}

type RuleDefinition struct {
	ID          string               `json:"id"`
	Description string               `json:"description,omitempty"`
	Effect      string               `json:"effect"`
	Target      [][]MatchDefinition  `json:"target,omitempty"`
	Condition   *ConditionDefinition `json:"condition,omitempty"`
}

type PolicyDefinition struct {
	ID          string              `json:"id"`
	Description string              `json:"description,omitempty"`
	Algorithm   string              `json:"algorithm"`
	Target      [][]MatchDefinition `json:"target,omitempty"`
	Rules       []RuleDefinition    `json:"rules"`
}

// PolicySetDefinition nests arbitrarily: children are the listed policies
// followed by the listed policy sets, in declaration order.
type PolicySetDefinition struct {
	ID          string                `json:"id"`
	Description string                `json:"description,omitempty"`
	Algorithm   string                `json:"algorithm"`
	Target      [][]MatchDefinition   `json:"target,omitempty"`
	Policies    []PolicyDefinition    `json:"policies,omitempty"`
	PolicySets  []PolicySetDefinition `json:"policy_sets,omitempty"`
}
