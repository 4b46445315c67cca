package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/techagentng/civicsafety/models"
)

type roleRequestFixture struct {
	auth     *fakeAuthRepo
	requests *fakeRoleRequestRepo
	service  RoleRequestService
}

func newRoleRequestFixture(t *testing.T) *roleRequestFixture {
	t.Helper()
	auth := newFakeAuthRepo()
	requests := newFakeRoleRequestRepo(auth)
	return &roleRequestFixture{
		auth:     auth,
		requests: requests,
		service:  NewRoleRequestService(requests, auth),
	}
}

func (f *roleRequestFixture) addUser(role string) *models.User {
	return f.auth.addUser(&models.User{
		Email:       role + "@example.com",
		DisplayName: role,
		Role:        role,
	})
}

func TestQueueRequest_SensitiveRoleQueuesPending(t *testing.T) {
	f := newRoleRequestFixture(t)
	user := f.addUser(models.RoleResident)

	request, applied, err := f.service.QueueRequest(user, &models.RoleRequestCreate{
		Role:          "officer",
		Justification: "Precinct 4 community liaison",
	})
	require.NoError(t, err)
	require.False(t, applied)
	require.Equal(t, models.RoleRequestPending, request.Status)
	require.Equal(t, models.RoleOfficer, request.RequestedRole)
	// Role only changes after review.
	require.Equal(t, models.RoleResident, f.auth.users[user.ID].Role)
}

func TestQueueRequest_AliasesCanonicalize(t *testing.T) {
	f := newRoleRequestFixture(t)
	user := f.addUser(models.RoleResident)

	request, _, err := f.service.QueueRequest(user, &models.RoleRequestCreate{Role: "Police"})
	require.NoError(t, err)
	require.Equal(t, models.RoleOfficer, request.RequestedRole)

	request, _, err = f.service.QueueRequest(user, &models.RoleRequestCreate{Role: "journalist"})
	require.NoError(t, err)
	require.Equal(t, models.RoleReporter, request.RequestedRole)
}

func TestQueueRequest_SinglePendingPerUser(t *testing.T) {
	f := newRoleRequestFixture(t)
	user := f.addUser(models.RoleResident)

	first, _, err := f.service.QueueRequest(user, &models.RoleRequestCreate{Role: "officer"})
	require.NoError(t, err)

	second, _, err := f.service.QueueRequest(user, &models.RoleRequestCreate{
		Role:          "reporter",
		Justification: "Changed my mind",
	})
	require.NoError(t, err)

	// The pending request is refreshed in place, not duplicated.
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, models.RoleReporter, second.RequestedRole)
	require.Len(t, f.requests.requests, 1)
}

func TestQueueRequest_AdminNotRequestable(t *testing.T) {
	f := newRoleRequestFixture(t)
	user := f.addUser(models.RoleResident)

	_, _, err := f.service.QueueRequest(user, &models.RoleRequestCreate{Role: "admin"})
	require.Error(t, err)

	_, _, err = f.service.QueueRequest(user, &models.RoleRequestCreate{Role: "warlord"})
	require.Error(t, err)
}

func TestQueueRequest_ResidentAppliedDirectly(t *testing.T) {
	f := newRoleRequestFixture(t)
	user := f.addUser(models.RoleStaff)

	request, applied, err := f.service.QueueRequest(user, &models.RoleRequestCreate{Role: "resident"})
	require.NoError(t, err)
	require.True(t, applied)
	require.Nil(t, request)
	require.Equal(t, models.RoleResident, f.auth.users[user.ID].Role)
}

func TestQueueRequest_AlreadyHeldRole(t *testing.T) {
	f := newRoleRequestFixture(t)
	user := f.addUser(models.RoleOfficer)

	_, _, err := f.service.QueueRequest(user, &models.RoleRequestCreate{Role: "officer"})
	require.Error(t, err)
}

func TestResolve_ApproveAssignsRole(t *testing.T) {
	f := newRoleRequestFixture(t)
	user := f.addUser(models.RoleResident)
	reviewer := f.addUser(models.RoleAdmin)

	request, _, err := f.service.QueueRequest(user, &models.RoleRequestCreate{Role: "officer"})
	require.NoError(t, err)

	resolved, err := f.service.Resolve(reviewer, request.ID, &models.RoleRequestDecision{
		Action: "approve",
		Notes:  "Verified with the precinct",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleRequestApproved, resolved.Status)
	require.NotNil(t, resolved.DecidedAt)
	require.Equal(t, models.RoleOfficer, f.auth.users[user.ID].Role)
}

func TestResolve_ApproveWithRoleOverride(t *testing.T) {
	f := newRoleRequestFixture(t)
	user := f.addUser(models.RoleResident)
	reviewer := f.addUser(models.RoleOfficer)

	request, _, err := f.service.QueueRequest(user, &models.RoleRequestCreate{Role: "officer"})
	require.NoError(t, err)

	_, err = f.service.Resolve(reviewer, request.ID, &models.RoleRequestDecision{
		Action: "approve",
		Role:   "staff",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleStaff, f.auth.users[user.ID].Role)
}

func TestResolve_DenyLeavesRole(t *testing.T) {
	f := newRoleRequestFixture(t)
	user := f.addUser(models.RoleResident)
	reviewer := f.addUser(models.RoleAdmin)

	request, _, err := f.service.QueueRequest(user, &models.RoleRequestCreate{Role: "reporter"})
	require.NoError(t, err)

	resolved, err := f.service.Resolve(reviewer, request.ID, &models.RoleRequestDecision{Action: "deny"})
	require.NoError(t, err)
	require.Equal(t, models.RoleRequestDenied, resolved.Status)
	require.Equal(t, models.RoleResident, f.auth.users[user.ID].Role)

	// A decided request cannot be decided again.
	_, err = f.service.Resolve(reviewer, request.ID, &models.RoleRequestDecision{Action: "approve"})
	require.Error(t, err)
}

func TestResolve_ReviewerGate(t *testing.T) {
	f := newRoleRequestFixture(t)
	user := f.addUser(models.RoleResident)
	staff := f.addUser(models.RoleStaff)

	request, _, err := f.service.QueueRequest(user, &models.RoleRequestCreate{Role: "officer"})
	require.NoError(t, err)

	// Staff review redemptions, not role requests.
	_, err = f.service.Resolve(staff, request.ID, &models.RoleRequestDecision{Action: "approve"})
	require.Error(t, err)

	_, err = f.service.ListRequests(staff, "", 0)
	require.Error(t, err)
}
