// audit/model.go
package audit

import "time"

// DecisionLog is one evaluated authorization decision as recorded for the
// audit trail.
type DecisionLog struct {
	RequestID     string    `json:"request_id"`
	Timestamp     time.Time `json:"timestamp"`
	Username      string    `json:"username"`
	Role          string    `json:"role"`
	Action        string    `json:"action"`
	ResourceOwner string    `json:"resource_owner,omitempty"`
	TargetRole    string    `json:"target_role,omitempty"`
	Decision      string    `json:"decision"`
	RawDecision   string    `json:"raw_decision"`
}
