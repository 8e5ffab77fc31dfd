// pep/enforcer.go

// Package pep is the enforcement adapter: it intercepts requests, asks the
// decision point whether the subject may perform the action, and rejects
// everything that is not explicitly permitted.
package pep

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verdictsec/verdict/audit"
	logger "github.com/verdictsec/verdict/logging"
	"github.com/verdictsec/verdict/pdp/engine"
	"github.com/verdictsec/verdict/pdp/model"
	"github.com/verdictsec/verdict/util"
)

// Enforcer binds a decision point to HTTP handlers and to programmatic
// checks. Decision events are published on the bus for auditing when a bus
// is configured.
type Enforcer struct {
	pdp *engine.DecisionPoint
	bus *util.EventBus
}

func NewEnforcer(pdp *engine.DecisionPoint, bus *util.EventBus) *Enforcer {
	return &Enforcer{pdp: pdp, bus: bus}
}

// Option adjusts how Enforce resolves resource attributes from the request.
type Option func(*enforceOptions)

type enforceOptions struct {
	resourceOwnerParam string
	targetRoleParam    string
}

// WithResourceOwnerParam names the path parameter holding the resource
// owner. When the parameter is absent the "user" query parameter is tried,
// and finally the authenticated subject itself: operating on your own files
// is the default.
func WithResourceOwnerParam(name string) Option {
	return func(o *enforceOptions) { o.resourceOwnerParam = name }
}

// WithTargetRoleParam names the path parameter holding the role of the user
// an administrative action is aimed at.
func WithTargetRoleParam(name string) Option {
	return func(o *enforceOptions) { o.targetRoleParam = name }
}

// Enforce guards a route with the given action. The authenticated subject
// must already be on the request context (see middleware.SubjectAuth).
// Anything but an explicit Permit aborts the request with 403.
func (e *Enforcer) Enforce(action string, opts ...Option) gin.HandlerFunc {
	var options enforceOptions
	for _, opt := range opts {
		opt(&options)
	}

	return func(c *gin.Context) {
		subject, ok := util.GetSubjectFromContext(c)
		if !ok {
			logger.Warn("No authenticated subject on request", zap.String("action", action))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		resourceOwner := ""
		if options.resourceOwnerParam != "" {
			resourceOwner = c.Param(options.resourceOwnerParam)
			if resourceOwner == "" {
				resourceOwner = c.Query("user")
			}
		}
		if resourceOwner == "" {
			resourceOwner = subject.Username
		}

		targetRole := ""
		if options.targetRoleParam != "" {
			targetRole = c.Param(options.targetRoleParam)
		}

		req := CheckRequest{
			Username:      subject.Username,
			Role:          subject.Role,
			Action:        action,
			ResourceOwner: resourceOwner,
			TargetRole:    targetRole,
		}

		permitted, err := e.Check(c, req)
		if err != nil {
			util.RespondWithError(c, http.StatusInternalServerError, "Authorization check failed", err)
			c.Abort()
			return
		}

		if !permitted {
			logger.Warn("Access denied by authorization policy",
				zap.String("username", subject.Username),
				zap.String("role", subject.Role),
				zap.String("action", action),
				zap.String("resourceOwner", resourceOwner))
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied by authorization policy"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CheckRequest is a programmatic authorization question. ResourceOwner and
// TargetRole are optional; rules that reference them while they are absent
// come out Indeterminate and therefore denied.
type CheckRequest struct {
	Username      string
	Role          string
	Action        string
	ResourceOwner string
	TargetRole    string
}

// Check evaluates the request against the active policy tree and returns
// whether it is permitted. The decision is published for auditing.
func (e *Enforcer) Check(ctx context.Context, req CheckRequest) (bool, error) {
	attrs := []model.Attribute{
		{Category: model.CategorySubject, ID: "username", Value: model.StringValue(req.Username)},
		{Category: model.CategorySubject, ID: "role", Value: model.StringValue(req.Role)},
		{Category: model.CategoryAction, ID: "action", Value: model.StringValue(req.Action)},
	}
	if req.ResourceOwner != "" {
		attrs = append(attrs, model.Attribute{
			Category: model.CategoryResource, ID: "resource-owner", Value: model.StringValue(req.ResourceOwner),
		})
	}
	if req.TargetRole != "" {
		attrs = append(attrs, model.Attribute{
			Category: model.CategoryResource, ID: "target-role", Value: model.StringValue(req.TargetRole),
		})
	}

	rctx, err := model.NewAttributeContext(attrs...)
	if err != nil {
		return false, err
	}

	raw := e.pdp.EvaluateRaw(ctx, rctx)
	decision := model.Deny
	if raw == model.Permit {
		decision = model.Permit
	}

	logger.Info("Authorization decision",
		zap.String("username", req.Username),
		zap.String("role", req.Role),
		zap.String("action", req.Action),
		zap.String("decision", decision.String()))

	e.publish(ctx, req, decision, raw)
	return decision.Permitted(), nil
}

func (e *Enforcer) publish(ctx context.Context, req CheckRequest, decision, raw model.Decision) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(ctx, util.EventDecisionEvaluated, audit.DecisionLog{
		RequestID:     uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		Username:      req.Username,
		Role:          req.Role,
		Action:        req.Action,
		ResourceOwner: req.ResourceOwner,
		TargetRole:    req.TargetRole,
		Decision:      decision.String(),
		RawDecision:   raw.String(),
	})
}
