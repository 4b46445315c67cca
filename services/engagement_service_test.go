package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/techagentng/civicsafety/models"
)

type engagementFixture struct {
	*incidentFixture
	engagement *fakeEngagementRepo
	service    EngagementService
}

func newEngagementFixture(t *testing.T) *engagementFixture {
	t.Helper()
	base := newIncidentFixture(t)
	engagement := newFakeEngagementRepo()
	return &engagementFixture{
		incidentFixture: base,
		engagement:      engagement,
		service:         NewEngagementService(engagement, base.incidents),
	}
}

func TestAddComment(t *testing.T) {
	f := newEngagementFixture(t)
	reporter := f.addUser(models.RoleResident)
	commenter := f.addUser(models.RoleResident)

	incident, err := f.incidentFixture.service.CreateIncident(&models.IncidentCreateRequest{
		Category:    "Lost / Found Pet",
		Description: "Grey tabby wandering",
	}, reporter)
	require.NoError(t, err)

	comment, err := f.service.AddComment(incident.ID, commenter, &models.CommentCreateRequest{
		Body: "Saw it near the park entrance",
	})
	require.NoError(t, err)
	require.Equal(t, commenter.ID, comment.User.ID)

	comments, err := f.service.ListComments(incident.ID, commenter, 0)
	require.NoError(t, err)
	require.Len(t, comments, 1)
}

func TestReactToIncident_UpsertAndClear(t *testing.T) {
	f := newEngagementFixture(t)
	reporter := f.addUser(models.RoleResident)
	viewer := f.addUser(models.RoleResident)

	incident, err := f.incidentFixture.service.CreateIncident(&models.IncidentCreateRequest{
		Category:    "Street Racing",
		Description: "Cars doing laps",
	}, reporter)
	require.NoError(t, err)

	status, err := f.service.ReactToIncident(incident.ID, viewer, &models.ReactionUpdate{Action: "like"})
	require.NoError(t, err)
	require.Equal(t, int64(1), status.LikesCount)
	require.NotNil(t, status.ViewerReaction)
	require.Equal(t, models.ReactionLike, *status.ViewerReaction)

	// Switching replaces the row instead of adding a second one.
	status, err = f.service.ReactToIncident(incident.ID, viewer, &models.ReactionUpdate{Action: "unlike"})
	require.NoError(t, err)
	require.Equal(t, int64(0), status.LikesCount)
	require.Equal(t, int64(1), status.UnlikesCount)

	status, err = f.service.ReactToIncident(incident.ID, viewer, &models.ReactionUpdate{Action: "clear"})
	require.NoError(t, err)
	require.Equal(t, int64(0), status.LikesCount)
	require.Equal(t, int64(0), status.UnlikesCount)
	require.Nil(t, status.ViewerReaction)
}

func TestReactToIncident_HiddenIncidentNotFound(t *testing.T) {
	f := newEngagementFixture(t)
	reporter := f.addUser(models.RoleResident)
	officer := f.addUser(models.RoleOfficer)

	incident, err := f.incidentFixture.service.CreateIncident(&models.IncidentCreateRequest{
		Category:    "Fireworks",
		Description: "Nightly fireworks",
	}, reporter)
	require.NoError(t, err)
	require.NoError(t, f.incidentFixture.service.SetHidden(incident.ID, true, officer))

	_, err = f.service.ReactToIncident(incident.ID, reporter, &models.ReactionUpdate{Action: "like"})
	require.Error(t, err)

	_, err = f.service.AddComment(incident.ID, reporter, &models.CommentCreateRequest{Body: "hello"})
	require.Error(t, err)
}

func TestReactToComment(t *testing.T) {
	f := newEngagementFixture(t)
	reporter := f.addUser(models.RoleResident)

	incident, err := f.incidentFixture.service.CreateIncident(&models.IncidentCreateRequest{
		Category:    "Pothole / Road Hazard",
		Description: "Deep pothole on Maple",
	}, reporter)
	require.NoError(t, err)

	comment, err := f.service.AddComment(incident.ID, reporter, &models.CommentCreateRequest{Body: "Marked with a cone"})
	require.NoError(t, err)

	status, err := f.service.ReactToComment(comment.ID, reporter, &models.ReactionUpdate{Action: "like"})
	require.NoError(t, err)
	require.Equal(t, int64(1), status.LikesCount)

	_, err = f.service.ReactToComment(9999, reporter, &models.ReactionUpdate{Action: "like"})
	require.Error(t, err)
}
