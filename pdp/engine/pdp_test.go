// pdp/engine/pdp_test.go
package engine_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdictsec/verdict/pdp/engine"
	"github.com/verdictsec/verdict/pdp/loader"
	"github.com/verdictsec/verdict/pdp/model"
)

func actionTarget(actions ...string) [][]loader.MatchDefinition {
	target := make([][]loader.MatchDefinition, 0, len(actions))
	for _, a := range actions {
		target = append(target, []loader.MatchDefinition{
			{Category: "action", Attribute: "action", Value: a},
		})
	}
	return target
}

func roleTarget(role string) [][]loader.MatchDefinition {
	return [][]loader.MatchDefinition{{{Category: "subject", Attribute: "role", Value: role}}}
}

// fileshareDefinition mirrors the shipped policy set: users manage their own
// files, moderators curate but cannot upload, admins administer accounts but
// never touch file content.
func fileshareDefinition() loader.PolicySetDefinition {
	ownership := &loader.ConditionDefinition{
		Op:    "equals",
		Left:  loader.AttributeRefDefinition{Category: "subject", Attribute: "username"},
		Right: &loader.AttributeRefDefinition{Category: "resource", Attribute: "resource-owner"},
	}
	quotaGuard := &loader.ConditionDefinition{
		Op:   "not-in",
		Left: loader.AttributeRefDefinition{Category: "resource", Attribute: "target-role"},
		Set:  []string{"admin", "moderator"},
	}

	return loader.PolicySetDefinition{
		ID:        "fileshare-root",
		Algorithm: "deny-overrides",
		Policies: []loader.PolicyDefinition{
			{
				ID:        "user-policy",
				Algorithm: "deny-overrides",
				Target:    roleTarget("user"),
				Rules: []loader.RuleDefinition{
					{ID: "user-can-upload", Effect: "Permit", Target: actionTarget("upload")},
					{ID: "user-own-files", Effect: "Permit", Target: actionTarget("list", "download", "delete"), Condition: ownership},
				},
			},
			{
				ID:        "moderator-policy",
				Algorithm: "deny-overrides",
				Target:    roleTarget("moderator"),
				Rules: []loader.RuleDefinition{
					{ID: "moderator-cannot-upload", Effect: "Deny", Target: actionTarget("upload")},
					{ID: "moderator-manage-files", Effect: "Permit", Target: actionTarget("list", "download", "delete")},
				},
			},
			{
				ID:        "admin-policy",
				Algorithm: "deny-overrides",
				Target:    roleTarget("admin"),
				Rules: []loader.RuleDefinition{
					{ID: "admin-cannot-access-files", Effect: "Deny", Target: actionTarget("upload", "download", "list", "delete", "mkdir", "bin")},
					{ID: "admin-update-quota", Effect: "Permit", Target: actionTarget("update-quota"), Condition: quotaGuard},
					{ID: "admin-list-users", Effect: "Permit", Target: actionTarget("list-users")},
				},
			},
		},
	}
}

func fileshareDecisionPoint(t *testing.T) *engine.DecisionPoint {
	t.Helper()
	root, err := loader.LoadPolicySet(fileshareDefinition())
	require.NoError(t, err)
	return engine.NewDecisionPoint(root)
}

func requestContext(t *testing.T, username, role, action string, resource map[string]string) *model.AttributeContext {
	t.Helper()
	attrs := []model.Attribute{
		subjectAttr("username", username),
		subjectAttr("role", role),
		actionAttr(action),
	}
	for id, v := range resource {
		attrs = append(attrs, resourceAttr(id, v))
	}
	return mustContext(t, attrs...)
}

func TestDecisionPointScenarios(t *testing.T) {
	pdp := fileshareDecisionPoint(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		role     string
		action   string
		resource map[string]string
		expected model.Decision
	}{
		{
			name:     "user uploads own file",
			username: "alice", role: "user", action: "upload",
			expected: model.Permit,
		},
		{
			name:     "moderator may not upload",
			username: "bob", role: "moderator", action: "upload",
			expected: model.Deny,
		},
		{
			name:     "user lists own files",
			username: "alice", role: "user", action: "list",
			resource: map[string]string{"resource-owner": "alice"},
			expected: model.Permit,
		},
		{
			name:     "user may not list another user's files",
			username: "alice", role: "user", action: "list",
			resource: map[string]string{"resource-owner": "bob"},
			expected: model.Deny,
		},
		{
			name:     "admin may not change a moderator's quota",
			username: "charlie", role: "admin", action: "update-quota",
			resource: map[string]string{"target-role": "moderator"},
			expected: model.Deny,
		},
		{
			name:     "admin may not list files",
			username: "charlie", role: "admin", action: "list",
			expected: model.Deny,
		},
		{
			name:     "admin updates a user's quota",
			username: "charlie", role: "admin", action: "update-quota",
			resource: map[string]string{"target-role": "user"},
			expected: model.Permit,
		},
		{
			name:     "unknown role gets nothing",
			username: "mallory", role: "guest", action: "upload",
			expected: model.Deny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := requestContext(t, tt.username, tt.role, tt.action, tt.resource)
			assert.Equal(t, tt.expected, pdp.Evaluate(ctx, rctx))
		})
	}
}

func TestDecisionPointBoundaryMapping(t *testing.T) {
	pdp := fileshareDecisionPoint(t)
	ctx := context.Background()

	t.Run("NotApplicableBecomesDeny", func(t *testing.T) {
		rctx := requestContext(t, "alice", "user", "reboot", nil)
		assert.Equal(t, model.NotApplicable, pdp.EvaluateRaw(ctx, rctx))
		assert.Equal(t, model.Deny, pdp.Evaluate(ctx, rctx))
	})

	t.Run("IndeterminateBecomesDeny", func(t *testing.T) {
		// Ownership rule references resource-owner, which is absent.
		rctx := requestContext(t, "alice", "user", "list", nil)
		assert.Equal(t, model.Indeterminate, pdp.EvaluateRaw(ctx, rctx))
		assert.Equal(t, model.Deny, pdp.Evaluate(ctx, rctx))
	})
}

func TestDecisionPointDeterminism(t *testing.T) {
	pdp := fileshareDecisionPoint(t)
	ctx := context.Background()
	rctx := requestContext(t, "alice", "user", "list", map[string]string{"resource-owner": "alice"})

	first := pdp.Evaluate(ctx, rctx)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, pdp.Evaluate(ctx, rctx))
	}
}

func TestDecisionPointConcurrency(t *testing.T) {
	pdp := fileshareDecisionPoint(t)
	ctx := context.Background()

	rctx := requestContext(t, "alice", "user", "upload", nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, model.Permit, pdp.Evaluate(ctx, rctx))
		}()
	}
	wg.Wait()
}

func TestDecisionPointSwap(t *testing.T) {
	pdp := fileshareDecisionPoint(t)
	ctx := context.Background()
	rctx := requestContext(t, "alice", "user", "upload", nil)

	require.Equal(t, model.Permit, pdp.Evaluate(ctx, rctx))

	lockdown, err := loader.LoadPolicySet(loader.PolicySetDefinition{
		ID:        "lockdown",
		Algorithm: "deny-overrides",
		Policies: []loader.PolicyDefinition{
			{
				ID:        "deny-everything",
				Algorithm: "deny-overrides",
				Rules:     []loader.RuleDefinition{{ID: "deny-all", Effect: "Deny"}},
			},
		},
	})
	require.NoError(t, err)

	previous := pdp.Swap(lockdown)
	assert.Equal(t, "fileshare-root", previous.ID)
	assert.Equal(t, "lockdown", pdp.Root().ID)
	assert.Equal(t, model.Deny, pdp.Evaluate(ctx, rctx))
}
