package services

import "github.com/techagentng/civicsafety/models"

// Membership ladder, ordered by ascending threshold.
type membershipTier struct {
	Name      string
	Threshold int
}

var tierLadder = []membershipTier{
	{"Neighbor Scout", 0},
	{"Signal Verified", 50},
	{"Community Sentinel", 120},
	{"Civic Guardian", 250},
}

// DetermineMembershipTier returns the highest tier the balance meets.
func DetermineMembershipTier(points int) string {
	if points < 0 {
		points = 0
	}
	tier := tierLadder[0].Name
	for _, candidate := range tierLadder {
		if points >= candidate.Threshold {
			tier = candidate.Name
		} else {
			break
		}
	}
	return tier
}

// MembershipTierProgress reports the current tier plus the gap to the
// next one; the next fields are nil at the top of the ladder.
func MembershipTierProgress(points int) models.TierProgress {
	if points < 0 {
		points = 0
	}

	current := tierLadder[0]
	var next *membershipTier
	for i, candidate := range tierLadder {
		if points >= candidate.Threshold {
			current = candidate
			if i+1 < len(tierLadder) {
				next = &tierLadder[i+1]
			} else {
				next = nil
			}
		} else {
			next = &tierLadder[i]
			break
		}
	}

	progress := models.TierProgress{
		Current:          current.Name,
		CurrentThreshold: current.Threshold,
	}
	if next != nil {
		remaining := next.Threshold - points
		if remaining < 0 {
			remaining = 0
		}
		progress.Next = &next.Name
		progress.NextThreshold = &next.Threshold
		progress.PointsToNext = &remaining
	}
	return progress
}

// Total points an incident should have earned once it reaches a status.
var statusRewardTargets = map[string]int{
	models.StatusCommunityConfirm:  10,
	models.StatusOfficialConfirmed: 20,
	models.StatusResolved:          25,
}

const (
	credibilityBonusThreshold = 0.65
	credibilityBonusPoints    = 5
)

// RewardTargetForStatus returns the cumulative reward an incident earns
// at the given status; high-credibility reports earn a flat bonus on
// top of any rewarding status.
func RewardTargetForStatus(status string, credibilityScore float64) int {
	base := statusRewardTargets[status]
	if base == 0 {
		return 0
	}
	if credibilityScore >= credibilityBonusThreshold {
		return base + credibilityBonusPoints
	}
	return base
}
