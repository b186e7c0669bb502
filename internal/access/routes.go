package access

import (
	"strings"

	"nexuscomply/pkg/domain"
)

// Landing paths used by redirects.
const (
	LoginPath          = "/login"
	DashboardPath      = "/dashboard"
	ChangePasswordPath = "/change-password"
)

// Decision is the outcome of resolving a route for a principal.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectDashboard
	RedirectChangePassword
)

// Target returns the redirect location for a redirect decision, "" for Allow.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectDashboard:
		return DashboardPath
	case RedirectChangePassword:
		return ChangePasswordPath
	default:
		return ""
	}
}

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectDashboard:
		return "redirect_dashboard"
	case RedirectChangePassword:
		return "redirect_change_password"
	default:
		return "unknown"
	}
}

// changePassword stays reachable while a password change is forced.
var changePassword = Capability{ResourceAccount, ActionUpdate}

// Route is one navigable console view.
type Route struct {
	Pattern string
	Title   string
	// Menu marks top-level entries shown in navigation.
	Menu       bool
	Public     bool
	Capability Capability
}

// routeTable is matched in order; literal segments must precede {param} siblings.
var routeTable = []Route{
	{Pattern: LoginPath, Title: "Sign in", Public: true},
	{Pattern: "/forgot-password", Title: "Forgot password", Public: true},
	{Pattern: "/reset-password", Title: "Reset password", Public: true},
	{Pattern: "/reset-password/{token}", Title: "Reset password", Public: true},

	{Pattern: DashboardPath, Title: "Dashboard", Menu: true, Capability: Capability{ResourceDashboard, ActionView}},
	{Pattern: ChangePasswordPath, Title: "Change password", Capability: changePassword},

	{Pattern: "/licenses", Title: "Licenses", Menu: true, Capability: Capability{ResourceLicenses, ActionView}},
	{Pattern: "/licenses/new", Title: "New license", Capability: Capability{ResourceLicenses, ActionCreate}},
	{Pattern: "/licenses/export.xlsx", Title: "Export licenses", Capability: Capability{ResourceLicenses, ActionExport}},
	{Pattern: "/licenses/{id}", Title: "License", Capability: Capability{ResourceLicenses, ActionView}},
	{Pattern: "/licenses/{id}/edit", Title: "Edit license", Capability: Capability{ResourceLicenses, ActionUpdate}},

	{Pattern: "/devices", Title: "Devices", Menu: true, Capability: Capability{ResourceDevices, ActionView}},
	{Pattern: "/devices/new", Title: "New device", Capability: Capability{ResourceDevices, ActionCreate}},
	{Pattern: "/devices/{id}", Title: "Device", Capability: Capability{ResourceDevices, ActionView}},
	{Pattern: "/devices/{id}/edit", Title: "Edit device", Capability: Capability{ResourceDevices, ActionUpdate}},

	{Pattern: "/vendors", Title: "Vendors", Menu: true, Capability: Capability{ResourceVendors, ActionView}},
	{Pattern: "/vendors/new", Title: "New vendor", Capability: Capability{ResourceVendors, ActionCreate}},
	{Pattern: "/vendors/{id}/edit", Title: "Edit vendor", Capability: Capability{ResourceVendors, ActionUpdate}},

	{Pattern: "/users", Title: "Users", Menu: true, Capability: Capability{ResourceUsers, ActionView}},
	{Pattern: "/users/new", Title: "New user", Capability: Capability{ResourceUsers, ActionCreate}},
	{Pattern: "/users/{id}/edit", Title: "Edit user", Capability: Capability{ResourceUsers, ActionUpdate}},

	{Pattern: "/reports", Title: "Reports", Menu: true, Capability: Capability{ResourceReports, ActionView}},
}

// Routes returns a copy of the route table.
func Routes() []Route {
	out := make([]Route, len(routeTable))
	copy(out, routeTable)
	return out
}

// Match finds the route for a concrete path.
func Match(path string) (Route, bool) {
	for _, r := range routeTable {
		if matchPattern(r.Pattern, path) {
			return r, true
		}
	}
	return Route{}, false
}

// Resolve decides whether p may open path. Unknown paths resolve like the
// dashboard: any authenticated principal is let through and the view layer
// answers 404.
func Resolve(path string, p *domain.Principal) Decision {
	route, ok := Match(path)
	if !ok {
		route = Route{Pattern: path, Capability: Capability{ResourceDashboard, ActionView}}
	}
	return Decide(route, p)
}

// Decide applies the gate to an already matched route.
func Decide(route Route, p *domain.Principal) Decision {
	if route.Public {
		return Allow
	}
	if p == nil {
		return RedirectLogin
	}
	if p.PasswordChangeRequired && route.Capability != changePassword {
		return RedirectChangePassword
	}
	if !Permits(p, route.Capability.Resource, route.Capability.Action) {
		return RedirectDashboard
	}
	return Allow
}

// NavItem is one visible menu entry.
type NavItem struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// Navigation lists the menu entries p may open. Entries p cannot open are
// left out rather than shown disabled.
func Navigation(p *domain.Principal) []NavItem {
	if p == nil {
		return nil
	}
	items := make([]NavItem, 0, len(routeTable))
	for _, r := range routeTable {
		if !r.Menu {
			continue
		}
		if Permits(p, r.Capability.Resource, r.Capability.Action) {
			items = append(items, NavItem{Path: r.Pattern, Title: r.Title})
		}
	}
	return items
}

func matchPattern(pattern, path string) bool {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], "{") && strings.HasSuffix(ps[i], "}") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
