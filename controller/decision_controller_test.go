// controller/decision_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdictsec/verdict/controller"
	logger "github.com/verdictsec/verdict/logging"
	"github.com/verdictsec/verdict/pdp/engine"
	"github.com/verdictsec/verdict/pdp/loader"
)

func TestMain(m *testing.M) {
	logger.InitTestLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testDefinition() loader.PolicySetDefinition {
	return loader.PolicySetDefinition{
		ID:        "fileshare-root",
		Algorithm: "deny-overrides",
		Policies: []loader.PolicyDefinition{
			{
				ID:        "user-policy",
				Algorithm: "deny-overrides",
				Target:    [][]loader.MatchDefinition{{{Category: "subject", Attribute: "role", Value: "user"}}},
				Rules: []loader.RuleDefinition{
					{
						ID: "user-can-upload", Effect: "Permit",
						Target: [][]loader.MatchDefinition{{{Category: "action", Attribute: "action", Value: "upload"}}},
					},
				},
			},
			{
				ID:        "moderator-policy",
				Algorithm: "deny-overrides",
				Target:    [][]loader.MatchDefinition{{{Category: "subject", Attribute: "role", Value: "moderator"}}},
				Rules: []loader.RuleDefinition{
					{
						ID: "moderator-cannot-upload", Effect: "Deny",
						Target: [][]loader.MatchDefinition{{{Category: "action", Attribute: "action", Value: "upload"}}},
					},
				},
			},
		},
	}
}

func newTestDecisionPoint(t *testing.T) *engine.DecisionPoint {
	t.Helper()
	root, err := loader.LoadPolicySet(testDefinition())
	require.NoError(t, err)
	return engine.NewDecisionPoint(root)
}

func TestDecisionController(t *testing.T) {
	pdp := newTestDecisionPoint(t)
	decisionController := controller.NewDecisionController(pdp, nil)

	router := gin.New()
	api := router.Group("/")
	decisionController.RegisterRoutes(api)

	decide := func(t *testing.T, body string) (int, map[string]string) {
		t.Helper()
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/decisions", strings.NewReader(body))
		router.ServeHTTP(w, req)

		var response map[string]string
		json.NewDecoder(w.Body).Decode(&response)
		return w.Code, response
	}

	t.Run("Permit", func(t *testing.T) {
		code, response := decide(t, `{
			"subject": {"username": "alice", "role": "user"},
			"action": "upload"
		}`)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Permit", response["decision"])
		assert.NotEmpty(t, response["request_id"])
	})

	t.Run("Deny", func(t *testing.T) {
		code, response := decide(t, `{
			"subject": {"username": "bob", "role": "moderator"},
			"action": "upload"
		}`)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Deny", response["decision"])
	})

	t.Run("NoApplicablePolicyDenies", func(t *testing.T) {
		code, response := decide(t, `{
			"subject": {"username": "mallory", "role": "guest"},
			"action": "upload"
		}`)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Deny", response["decision"])
	})

	t.Run("InvalidBody", func(t *testing.T) {
		code, _ := decide(t, `{"action": 7}`)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("MissingActionRejected", func(t *testing.T) {
		code, _ := decide(t, `{"subject": {"role": "user"}}`)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
