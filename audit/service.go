// audit/service.go
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/verdictsec/verdict/util"
)

type Service interface {
	LogDecision(ctx context.Context, log DecisionLog) error
	QueryDecisions(ctx context.Context, from, to time.Time, username, action string) ([]DecisionLog, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogDecision(ctx context.Context, log DecisionLog) error {
	return s.repo.LogDecision(ctx, log)
}

func (s *service) QueryDecisions(ctx context.Context, from, to time.Time, username, action string) ([]DecisionLog, error) {
	return s.repo.QueryDecisions(ctx, from, to, username, action)
}

// SubscribeToDecisions wires the audit trail to the event bus: every decision
// the enforcement layer publishes is recorded.
func SubscribeToDecisions(bus *util.EventBus, s Service) {
	bus.Subscribe(util.EventDecisionEvaluated, func(ctx context.Context, e util.Event) error {
		log, ok := e.Payload.(DecisionLog)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s", e.Payload, e.Type)
		}
		return s.LogDecision(ctx, log)
	})
}
