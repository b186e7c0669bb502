package access

import "nexuscomply/pkg/domain"

// Resource is a console area.
type Resource string

// Action is something a principal can do on a resource.
type Action string

const (
	ResourceDashboard Resource = "dashboard"
	ResourceAccount   Resource = "account"
	ResourceLicenses  Resource = "licenses"
	ResourceDevices   Resource = "devices"
	ResourceVendors   Resource = "vendors"
	ResourceUsers     Resource = "users"
	ResourceReports   Resource = "reports"
)

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
)

// Capability names one (resource, action) pair.
type Capability struct {
	Resource Resource
	Action   Action
}

func (c Capability) String() string {
	return string(c.Resource) + ":" + string(c.Action)
}

var (
	licenseEditors = RolesOf(domain.RoleAdmin, domain.RoleNetworkAdmin, domain.RoleProcurementOfficer)
	deviceViewers  = RolesOf(domain.RoleAdmin, domain.RoleNetworkAdmin, domain.RoleNetworkEngineer, domain.RoleOperationsManager)
	deviceEditors  = RolesOf(domain.RoleAdmin, domain.RoleNetworkAdmin)
	vendorEditors  = RolesOf(domain.RoleAdmin, domain.RoleProcurementOfficer, domain.RoleProcurementLead)
	adminsOnly     = RolesOf(domain.RoleAdmin)
	reportViewers  = RolesOf(domain.RoleAdmin, domain.RoleITAuditor, domain.RoleComplianceOfficer,
		domain.RoleComplianceLead, domain.RoleSecurityHead)
)

// capabilities is the one table every gate decision consults.
// A missing entry denies.
var capabilities = map[Capability]Roles{
	{ResourceDashboard, ActionView}: AnyAuthenticated,
	{ResourceAccount, ActionUpdate}: AnyAuthenticated,

	{ResourceLicenses, ActionView}:   licenseEditors,
	{ResourceLicenses, ActionExport}: licenseEditors,
	{ResourceLicenses, ActionCreate}: licenseEditors,
	{ResourceLicenses, ActionUpdate}: licenseEditors,
	{ResourceLicenses, ActionDelete}: RolesOf(domain.RoleAdmin, domain.RoleProcurementOfficer),

	{ResourceDevices, ActionView}:   deviceViewers,
	{ResourceDevices, ActionCreate}: deviceEditors,
	{ResourceDevices, ActionUpdate}: deviceEditors,
	{ResourceDevices, ActionDelete}: adminsOnly,

	{ResourceVendors, ActionView}:   vendorEditors,
	{ResourceVendors, ActionCreate}: vendorEditors,
	{ResourceVendors, ActionUpdate}: vendorEditors,
	{ResourceVendors, ActionDelete}: adminsOnly,

	{ResourceUsers, ActionView}:   adminsOnly,
	{ResourceUsers, ActionCreate}: adminsOnly,
	{ResourceUsers, ActionUpdate}: adminsOnly,
	{ResourceUsers, ActionDelete}: adminsOnly,

	{ResourceReports, ActionView}: reportViewers,
}

// RequiredRoles returns the role set for a capability. ok is false for
// capabilities absent from the table.
func RequiredRoles(c Capability) (roles Roles, ok bool) {
	roles, ok = capabilities[c]
	return roles, ok
}

// Permits reports whether p may perform action on resource.
func Permits(p *domain.Principal, resource Resource, action Action) bool {
	roles, ok := capabilities[Capability{resource, action}]
	if !ok {
		return false
	}
	return CanAccess(p, roles)
}

// PermittedActions filters candidates down to what p may do on resource,
// preserving order. Denied actions are omitted, never returned disabled.
func PermittedActions(p *domain.Principal, resource Resource, candidates ...Action) []Action {
	out := make([]Action, 0, len(candidates))
	for _, a := range candidates {
		if Permits(p, resource, a) {
			out = append(out, a)
		}
	}
	return out
}
