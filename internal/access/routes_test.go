package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexuscomply/pkg/domain"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
	}{
		{"/licenses", "/licenses"},
		{"/licenses/", "/licenses"},
		{"/licenses/new", "/licenses/new"},
		{"/licenses/17", "/licenses/{id}"},
		{"/licenses/17/edit", "/licenses/{id}/edit"},
		{"/reset-password/abc", "/reset-password/{token}"},
	}
	for _, tt := range tests {
		route, ok := Match(tt.path)
		require.True(t, ok, tt.path)
		assert.Equal(t, tt.pattern, route.Pattern, tt.path)
	}

	_, ok := Match("/licenses/17/history")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	t.Run("unauthenticated access to gated route redirects to login", func(t *testing.T) {
		assert.Equal(t, RedirectLogin, Resolve("/licenses", nil))
		assert.Equal(t, LoginPath, RedirectLogin.Target())
	})

	t.Run("network engineer is sent away from licenses", func(t *testing.T) {
		p := principal(domain.RoleNetworkEngineer)
		for _, path := range []string{"/licenses", "/licenses/new", "/licenses/3", "/licenses/3/edit"} {
			assert.Equal(t, RedirectDashboard, Resolve(path, p), path)
		}
	})

	t.Run("license roles are let through", func(t *testing.T) {
		for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleNetworkAdmin, domain.RoleProcurementOfficer} {
			assert.Equal(t, Allow, Resolve("/licenses/3/edit", principal(role)), role)
		}
	})

	t.Run("public routes never redirect", func(t *testing.T) {
		assert.Equal(t, Allow, Resolve("/forgot-password", nil))
		assert.Equal(t, Allow, Resolve("/reset-password/tok", nil))
	})

	t.Run("forced password change redirects everything but the change view", func(t *testing.T) {
		p := principal(domain.RoleAdmin)
		p.PasswordChangeRequired = true
		assert.Equal(t, RedirectChangePassword, Resolve("/licenses", p))
		assert.Equal(t, RedirectChangePassword, Resolve("/dashboard", p))
		assert.Equal(t, Allow, Resolve("/change-password", p))
	})

	t.Run("unknown paths behave like the dashboard", func(t *testing.T) {
		assert.Equal(t, RedirectLogin, Resolve("/nowhere", nil))
		assert.Equal(t, Allow, Resolve("/nowhere", principal(domain.RoleProductOwner)))
	})
}

func TestNavigation(t *testing.T) {
	assert.Nil(t, Navigation(nil))

	paths := func(items []NavItem) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.Path)
		}
		return out
	}

	assert.Equal(t, []string{"/dashboard", "/licenses", "/devices", "/vendors", "/users", "/reports"},
		paths(Navigation(principal(domain.RoleAdmin))))
	assert.Equal(t, []string{"/dashboard", "/devices"},
		paths(Navigation(principal(domain.RoleNetworkEngineer))))
	assert.Equal(t, []string{"/dashboard", "/vendors"},
		paths(Navigation(principal(domain.RoleProcurementLead))))
}
