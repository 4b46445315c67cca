package models

import "strings"

// Roles a user can hold. Residents are the default; everything above
// resident carries extra capabilities over incidents and rewards.
const (
	RoleResident = "resident"
	RoleStaff    = "staff"
	RoleReporter = "reporter"
	RoleOfficer  = "officer"
	RoleAdmin    = "admin"
)

// ValidRoles is the closed set of assignable roles.
var ValidRoles = map[string]bool{
	RoleResident: true,
	RoleStaff:    true,
	RoleReporter: true,
	RoleOfficer:  true,
	RoleAdmin:    true,
}

// roleAliases maps common external spellings onto canonical roles. Kept
// separate from ValidRoles so the alias table can grow without widening
// the assignable set.
var roleAliases = map[string]string{
	"police":     RoleOfficer,
	"journalist": RoleReporter,
	"press":      RoleReporter,
	"moderator":  RoleStaff,
	"user":       RoleResident,
	"citizen":    RoleResident,
	"neighbor":   RoleResident,
}

// CanonicalRole normalizes a requested role name. The boolean reports
// whether the result is an assignable role.
func CanonicalRole(role string) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(role))
	if cleaned == "" {
		return "", false
	}
	if alias, ok := roleAliases[cleaned]; ok {
		cleaned = alias
	}
	return cleaned, ValidRoles[cleaned]
}

// sensitiveRoles require a reviewed role request before assignment.
var sensitiveRoles = map[string]bool{
	RoleStaff:    true,
	RoleReporter: true,
	RoleOfficer:  true,
}

// RequiresManualApproval reports whether elevation to the role must go
// through the role-request review queue.
func RequiresManualApproval(role string) bool {
	return sensitiveRoles[role]
}

// verifierRoles receive the new-incident verification alert and are
// trusted to confirm or escalate incidents.
var verifierRoles = map[string]bool{
	RoleAdmin:    true,
	RoleReporter: true,
	RoleOfficer:  true,
}

// approverRoles may change an incident's verification status.
var approverRoles = map[string]bool{
	RoleAdmin:    true,
	RoleStaff:    true,
	RoleReporter: true,
	RoleOfficer:  true,
}

// moderatorRoles may hide/unhide incidents and see hidden ones.
var moderatorRoles = map[string]bool{
	RoleAdmin:   true,
	RoleOfficer: true,
}

// redemptionReviewerRoles decide pending reward redemptions.
var redemptionReviewerRoles = map[string]bool{
	RoleAdmin: true,
	RoleStaff: true,
}

// roleRequestReviewerRoles decide pending role elevation requests.
var roleRequestReviewerRoles = map[string]bool{
	RoleAdmin:   true,
	RoleOfficer: true,
}

func IsVerifierRole(role string) bool           { return verifierRoles[role] }
func IsApproverRole(role string) bool           { return approverRoles[role] }
func IsModeratorRole(role string) bool          { return moderatorRoles[role] }
func IsRedemptionReviewerRole(role string) bool { return redemptionReviewerRoles[role] }
func IsRoleRequestReviewerRole(role string) bool {
	return roleRequestReviewerRoles[role]
}

// VerifierRoleNames returns the verifier set as a slice, for repository
// IN-clauses when fanning out alerts.
func VerifierRoleNames() []string {
	return []string{RoleAdmin, RoleReporter, RoleOfficer}
}
