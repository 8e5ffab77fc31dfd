// controller/decision_controller.go
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/verdictsec/verdict/audit"
	verdict_errors "github.com/verdictsec/verdict/errors"
	"github.com/verdictsec/verdict/pdp/engine"
	"github.com/verdictsec/verdict/pdp/model"
	"github.com/verdictsec/verdict/util"
)

// DecisionController exposes the PDP as a service: remote enforcement points
// POST an access request and get back permit or deny, nothing else.
type DecisionController struct {
	pdp *engine.DecisionPoint
	bus *util.EventBus
}

func NewDecisionController(pdp *engine.DecisionPoint, bus *util.EventBus) *DecisionController {
	return &DecisionController{pdp: pdp, bus: bus}
}

// RegisterRoutes registers the API routes
func (dc *DecisionController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/decisions", dc.Decide)
}

type decisionResponse struct {
	RequestID string `json:"request_id"`
	Decision  string `json:"decision"`
}

// Decide endpoint
func (dc *DecisionController) Decide(c *gin.Context) {
	var request model.AccessRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access request", verdict_errors.ErrInvalidRequestData)
		return
	}

	rctx, err := request.Context()
	if err != nil {
		switch {
		case errors.Is(err, verdict_errors.ErrDuplicateAttribute),
			errors.Is(err, verdict_errors.ErrUnknownCategory):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid access request", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to build request context", verdict_errors.ErrInternalServer)
		}
		return
	}

	raw := dc.pdp.EvaluateRaw(c, rctx)
	decision := model.Deny
	if raw == model.Permit {
		decision = model.Permit
	}

	requestID := uuid.NewString()
	if dc.bus != nil {
		dc.bus.Publish(c, util.EventDecisionEvaluated, audit.DecisionLog{
			RequestID:     requestID,
			Timestamp:     time.Now().UTC(),
			Username:      request.Subject["username"],
			Role:          request.Subject["role"],
			Action:        request.Action,
			ResourceOwner: request.Resource["resource-owner"],
			TargetRole:    request.Resource["target-role"],
			Decision:      decision.String(),
			RawDecision:   raw.String(),
		})
	}

	c.JSON(http.StatusOK, decisionResponse{
		RequestID: requestID,
		Decision:  decision.String(),
	})
}
