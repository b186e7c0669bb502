package domain

import "strings"

// Role is the closed set of console roles issued by the backend.
type Role string

const (
	RoleAdmin              Role = "ADMIN"
	RoleNetworkAdmin       Role = "NETWORK_ADMIN"
	RoleNetworkEngineer    Role = "NETWORK_ENGINEER"
	RoleProcurementOfficer Role = "PROCUREMENT_OFFICER"
	RoleProcurementLead    Role = "PROCUREMENT_LEAD"
	RoleITAuditor          Role = "IT_AUDITOR"
	RoleComplianceOfficer  Role = "COMPLIANCE_OFFICER"
	RoleComplianceLead     Role = "COMPLIANCE_LEAD"
	RoleSecurityHead       Role = "SECURITY_HEAD"
	RoleProductOwner       Role = "PRODUCT_OWNER"
	RolePartnerManager     Role = "PARTNER_MANAGER"
	RoleOperationsManager  Role = "OPERATIONS_MANAGER"
)

// AllRoles lists every known role in display order.
var AllRoles = []Role{
	RoleAdmin,
	RoleNetworkAdmin,
	RoleNetworkEngineer,
	RoleProcurementOfficer,
	RoleProcurementLead,
	RoleITAuditor,
	RoleComplianceOfficer,
	RoleComplianceLead,
	RoleSecurityHead,
	RoleProductOwner,
	RolePartnerManager,
	RoleOperationsManager,
}

// roleAliases maps legacy spellings still emitted by older backend builds.
var roleAliases = map[string]Role{
	"PROCURMENT_LEAD": RoleProcurementLead,
}

// IsValid returns true if the role is a known value.
func (r Role) IsValid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole normalizes s and resolves it to a known role.
// aliased is true when s used a legacy spelling.
func ParseRole(s string) (role Role, aliased bool, ok bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.TrimPrefix(norm, "ROLE_")
	if r := Role(norm); r.IsValid() {
		return r, false, true
	}
	if r, found := roleAliases[norm]; found {
		return r, true, true
	}
	return "", false, false
}
