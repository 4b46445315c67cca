package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalRole(t *testing.T) {
	cases := []struct {
		in    string
		role  string
		valid bool
	}{
		{"resident", RoleResident, true},
		{"OFFICER", RoleOfficer, true},
		{"  admin  ", RoleAdmin, true},
		{"police", RoleOfficer, true},
		{"journalist", RoleReporter, true},
		{"press", RoleReporter, true},
		{"moderator", RoleStaff, true},
		{"user", RoleResident, true},
		{"citizen", RoleResident, true},
		{"neighbor", RoleResident, true},
		{"warlord", "warlord", false},
		{"", "", false},
	}
	for _, tc := range cases {
		role, ok := CanonicalRole(tc.in)
		require.Equal(t, tc.valid, ok, "input=%q", tc.in)
		require.Equal(t, tc.role, role, "input=%q", tc.in)
	}
}

func TestRequiresManualApproval(t *testing.T) {
	require.False(t, RequiresManualApproval(RoleResident))
	require.True(t, RequiresManualApproval(RoleStaff))
	require.True(t, RequiresManualApproval(RoleReporter))
	require.True(t, RequiresManualApproval(RoleOfficer))
	// Admin never flows through the request queue at all.
	require.False(t, RequiresManualApproval(RoleAdmin))
}

func TestCapabilitySets(t *testing.T) {
	require.True(t, IsVerifierRole(RoleAdmin))
	require.True(t, IsVerifierRole(RoleReporter))
	require.True(t, IsVerifierRole(RoleOfficer))
	require.False(t, IsVerifierRole(RoleStaff))
	require.False(t, IsVerifierRole(RoleResident))

	require.True(t, IsApproverRole(RoleStaff))
	require.False(t, IsApproverRole(RoleResident))

	require.True(t, IsModeratorRole(RoleAdmin))
	require.True(t, IsModeratorRole(RoleOfficer))
	require.False(t, IsModeratorRole(RoleStaff))

	require.True(t, IsRedemptionReviewerRole(RoleStaff))
	require.False(t, IsRedemptionReviewerRole(RoleOfficer))

	require.True(t, IsRoleRequestReviewerRole(RoleOfficer))
	require.False(t, IsRoleRequestReviewerRole(RoleStaff))
}
