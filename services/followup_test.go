package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/techagentng/civicsafety/models"
)

func TestInitialFollowUpDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	due := InitialFollowUpDue(now, nil)
	require.NotNil(t, due)
	require.Equal(t, now.Add(30*time.Minute), *due)

	due = InitialFollowUpDue(now, boolPtr(true))
	require.NotNil(t, due)
	require.Equal(t, now.Add(30*time.Minute), *due)

	require.Nil(t, InitialFollowUpDue(now, boolPtr(false)))
}

func TestNextFollowUpDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := now.Add(10 * time.Minute)

	// Unanswered leaves the deadline alone.
	require.Equal(t, &current, NextFollowUpDue(now, nil, &current))

	// Confirmed ongoing extends the watch.
	due := NextFollowUpDue(now, boolPtr(true), &current)
	require.NotNil(t, due)
	require.Equal(t, now.Add(120*time.Minute), *due)

	// Confirmed over clears it.
	require.Nil(t, NextFollowUpDue(now, boolPtr(false), &current))
}

func TestNeedsFollowUp(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	require.False(t, NeedsFollowUp(&models.Incident{Status: models.StatusUnverified}, now))
	require.False(t, NeedsFollowUp(&models.Incident{Status: models.StatusUnverified, FollowUpDueAt: &future}, now))
	require.True(t, NeedsFollowUp(&models.Incident{Status: models.StatusUnverified, FollowUpDueAt: &past}, now))
	require.True(t, NeedsFollowUp(&models.Incident{Status: models.StatusCommunityConfirm, FollowUpDueAt: &past}, now))

	// Resolved statuses never need a re-check, even with a stale deadline.
	require.False(t, NeedsFollowUp(&models.Incident{Status: models.StatusResolved, FollowUpDueAt: &past}, now))
	require.False(t, NeedsFollowUp(&models.Incident{Status: models.StatusOfficialConfirmed, FollowUpDueAt: &past}, now))
}
