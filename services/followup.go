package services

import (
	"time"

	"github.com/techagentng/civicsafety/models"
)

// Follow-up scheduling windows. A fresh report gets a short re-check
// window; a follow-up confirming activity extends the watch.
const (
	FollowUpInitialWindow  = 30 * time.Minute
	FollowUpExtendedWindow = 120 * time.Minute
)

// InitialFollowUpDue decides the first re-check deadline at creation.
// An explicit "no longer happening" answer needs no follow-up; anything
// else (ongoing or unanswered) gets the initial window.
func InitialFollowUpDue(now time.Time, stillHappening *bool) *time.Time {
	if stillHappening != nil && !*stillHappening {
		return nil
	}
	due := now.Add(FollowUpInitialWindow)
	return &due
}

// NextFollowUpDue applies a follow-up's answer to the current deadline:
// confirmed ongoing resets the watch to the extended window, confirmed
// over clears it, and an unanswered prompt leaves it untouched.
func NextFollowUpDue(now time.Time, stillHappening *bool, current *time.Time) *time.Time {
	if stillHappening == nil {
		return current
	}
	if !*stillHappening {
		return nil
	}
	due := now.Add(FollowUpExtendedWindow)
	return &due
}

// NeedsFollowUp reports whether an incident's re-check is overdue. The
// resolved statuses never need follow-up regardless of the deadline.
func NeedsFollowUp(incident *models.Incident, now time.Time) bool {
	if incident.FollowUpDueAt == nil {
		return false
	}
	if models.ResolvedStatuses[incident.Status] {
		return false
	}
	return !incident.FollowUpDueAt.After(now)
}
