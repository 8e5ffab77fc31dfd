// pdp/model/policy.go
package model

// Effect is the decision a rule produces when its target and condition match.
type Effect int

const (
	EffectPermit Effect = iota
	EffectDeny
)

func (e Effect) String() string {
	if e == EffectPermit {
		return "Permit"
	}
	return "Deny"
}

// Decision maps a rule effect to the corresponding decision value.
func (e Effect) Decision() Decision {
	if e == EffectPermit {
		return Permit
	}
	return Deny
}

// CombiningAlgorithm names how child decisions are folded into one.
// Only deny-overrides is supported; the loader rejects anything else.
type CombiningAlgorithm string

const AlgorithmDenyOverrides CombiningAlgorithm = "deny-overrides"

// Match is a single equality/membership predicate against one attribute.
type Match struct {
	Category    Category
	AttributeID string
	Value       AttributeValue
}

// AllOf is a conjunction of matches.
type AllOf []Match

// Target is a disjunction of conjunctions (AnyOf of AllOf). An empty Target
// is universal and matches every request.
type Target []AllOf

// AttributeRef designates an attribute by (category, id) without a value.
type AttributeRef struct {
	Category    Category
	AttributeID string
}

// ConditionOp discriminates the supported condition forms.
type ConditionOp int

const (
	// OpEquals compares the left reference against either a second reference
	// or a literal value.
	OpEquals ConditionOp = iota
	// OpNotIn is true when the left reference's value is not a member of the
	// literal string set.
	OpNotIn
)

// Condition is a secondary guard evaluated only after a rule's target
// matches. Exactly one of Right and Literal is set for OpEquals; Set is used
// by OpNotIn. The loader enforces well-formedness.
type Condition struct {
	Op      ConditionOp
	Left    AttributeRef
	Right   *AttributeRef
	Literal *AttributeValue
	Set     []string
}

// Rule is the smallest decision unit. Rules are owned by their parent policy
// and immutable after construction.
type Rule struct {
	ID          string
	Description string
	Target      Target
	Condition   *Condition
	Effect      Effect
}

// Node is a child of a policy set: either a Policy or a nested PolicySet.
// The sum is closed; the engine type-switches over the two concrete types.
type Node interface {
	NodeID() string
	isNode()
}

// Policy is an ordered set of rules sharing a target.
type Policy struct {
	ID          string
	Description string
	Target      Target
	Rules       []Rule
	Algorithm   CombiningAlgorithm
}

func (p *Policy) NodeID() string { return p.ID }
func (p *Policy) isNode()        {}

// PolicySet is an ordered set of policies or nested policy sets. The root
// PolicySet is built once at load time and treated as immutable thereafter,
// so evaluation needs no locking.
type PolicySet struct {
	ID          string
	Description string
	Target      Target
	Children    []Node
	Algorithm   CombiningAlgorithm
}

func (ps *PolicySet) NodeID() string { return ps.ID }
func (ps *PolicySet) isNode()        {}
