// controller/controllers.go
package controller

import (
	"github.com/verdictsec/verdict/pdp/engine"
	"github.com/verdictsec/verdict/pep"
	"github.com/verdictsec/verdict/util"
)

type Controllers struct {
	Decision *DecisionController
	Policy   *PolicyController
	Files    *FilesController
}

func NewControllers(
	pdp *engine.DecisionPoint,
	enforcer *pep.Enforcer,
	bus *util.EventBus,
	policyFile string,
) *Controllers {
	return &Controllers{
		Decision: NewDecisionController(pdp, bus),
		Policy:   NewPolicyController(pdp, bus, policyFile),
		Files:    NewFilesController(enforcer),
	}
}
