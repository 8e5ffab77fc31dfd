// controller/policy_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	verdict_errors "github.com/verdictsec/verdict/errors"
	logger "github.com/verdictsec/verdict/logging"
	"github.com/verdictsec/verdict/pdp/engine"
	"github.com/verdictsec/verdict/pdp/loader"
	"github.com/verdictsec/verdict/pdp/model"
	"github.com/verdictsec/verdict/util"
)

// PolicyController exposes introspection of the active policy tree and a
// reload operation that swaps in a freshly loaded tree atomically.
type PolicyController struct {
	pdp        *engine.DecisionPoint
	bus        *util.EventBus
	policyFile string
}

func NewPolicyController(pdp *engine.DecisionPoint, bus *util.EventBus, policyFile string) *PolicyController {
	return &PolicyController{
		pdp:        pdp,
		bus:        bus,
		policyFile: policyFile,
	}
}

// RegisterRoutes registers the API routes
func (pc *PolicyController) RegisterRoutes(r *gin.RouterGroup) {
	policies := r.Group("/policies")
	{
		policies.GET("", pc.DescribePolicies)
		policies.POST("/reload", pc.ReloadPolicies)
	}
}

type policySetSummary struct {
	ID          string          `json:"id"`
	Description string          `json:"description,omitempty"`
	Algorithm   string          `json:"algorithm"`
	Policies    []policySummary `json:"policies,omitempty"`
	// Nested policy sets, if any.
	PolicySets []policySetSummary `json:"policy_sets,omitempty"`
}

type policySummary struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Rules       int    `json:"rules"`
}

// DescribePolicies endpoint
func (pc *PolicyController) DescribePolicies(c *gin.Context) {
	c.JSON(http.StatusOK, summarizePolicySet(pc.pdp.Root()))
}

// ReloadPolicies endpoint. A failed load leaves the active tree untouched:
// the swap only happens once the new tree built completely.
func (pc *PolicyController) ReloadPolicies(c *gin.Context) {
	root, err := loader.LoadFile(pc.policyFile)
	if err != nil {
		switch {
		case errors.Is(err, verdict_errors.ErrPolicyFileNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Policy file not found", err)
		case errors.Is(err, verdict_errors.ErrDuplicateID),
			errors.Is(err, verdict_errors.ErrUnknownAlgorithm),
			errors.Is(err, verdict_errors.ErrUnknownEffect),
			errors.Is(err, verdict_errors.ErrUnknownCategory),
			errors.Is(err, verdict_errors.ErrMalformedCondition),
			errors.Is(err, verdict_errors.ErrMalformedDefinition):
			util.RespondWithError(c, http.StatusUnprocessableEntity, "Invalid policy definition", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to reload policies", verdict_errors.ErrInternalServer)
		}
		return
	}

	previous := pc.pdp.Swap(root)
	logger.Info("Policy set reloaded",
		zap.String("policySet", root.ID),
		zap.String("previous", previous.ID))

	if pc.bus != nil {
		pc.bus.Publish(c, util.EventPolicyReloaded, root.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"policy_set": root.ID,
		"previous":   previous.ID,
	})
}

func summarizePolicySet(ps *model.PolicySet) policySetSummary {
	summary := policySetSummary{
		ID:          ps.ID,
		Description: ps.Description,
		Algorithm:   string(ps.Algorithm),
	}
	for _, child := range ps.Children {
		switch node := child.(type) {
		case *model.Policy:
			summary.Policies = append(summary.Policies, policySummary{
				ID:          node.ID,
				Description: node.Description,
				Rules:       len(node.Rules),
			})
		case *model.PolicySet:
			summary.PolicySets = append(summary.PolicySets, summarizePolicySet(node))
		}
	}
	return summary
}
