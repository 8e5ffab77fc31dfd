// pdp/model/decision.go
package model

import "fmt"

// Decision is the outcome of evaluating a rule, policy, or policy set.
// NotApplicable and Indeterminate are internal: the decision point resolves
// both to Deny before a decision crosses the engine boundary.
type Decision int

const (
	NotApplicable Decision = iota
	Permit
	Deny
	Indeterminate
)

var decisionStrings = [...]string{"NotApplicable", "Permit", "Deny", "Indeterminate"}

func (d Decision) String() string {
	if d >= 0 && int(d) < len(decisionStrings) {
		return decisionStrings[d]
	}
	return fmt.Sprintf("unknown(%d)", int(d))
}

// Permitted reports whether the decision grants access. Only an explicit
// Permit does.
func (d Decision) Permitted() bool {
	return d == Permit
}

// TriState is the result of condition evaluation. A condition referencing a
// missing attribute is Indeterminate, which is distinct from false: it must
// poison the combining fold rather than silently make the rule inapplicable.
type TriState int

const (
	CondFalse TriState = iota
	CondTrue
	CondIndeterminate
)

var triStateStrings = [...]string{"False", "True", "Indeterminate"}

func (t TriState) String() string {
	if t >= 0 && int(t) < len(triStateStrings) {
		return triStateStrings[t]
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}
