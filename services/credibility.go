package services

import (
	"strings"

	"github.com/techagentng/civicsafety/models"
)

// Creation-time credibility heuristic weights. The score rewards
// structured signals: an answered prompt is worth more than free text.
const (
	credibilityBase           = 0.35
	credibilityLocationBonus  = 0.15
	credibilityPromptBonus    = 0.12
	credibilitySentimentBonus = 0.08
	credibilityContactBonus   = 0.12
	credibilityFloor          = 0.20
	credibilityCeiling        = 0.95
)

// InitialCredibility computes the trust score for a new incident from
// its structured fields. Deterministic, called once at creation; the
// result always lands in [0.20, 0.95].
func InitialCredibility(req *models.IncidentCreateRequest) float64 {
	score := credibilityBase

	if strings.TrimSpace(req.LocationText) != "" {
		score += credibilityLocationBonus
	}

	for _, prompt := range []*bool{req.StillHappening, req.PoliceSeen, req.FeelSafeNow} {
		if prompt != nil {
			score += credibilityPromptBonus
		}
	}

	if req.SafetySentiment != nil && strings.TrimSpace(*req.SafetySentiment) != "" {
		score += credibilitySentimentBonus
	}

	contacted := strings.TrimSpace(req.ContactedAuthorities)
	if contacted != "" && contacted != models.ContactedUnknown && contacted != models.ContactedNone {
		score += credibilityContactBonus
	}

	if score < credibilityFloor {
		score = credibilityFloor
	}
	if score > credibilityCeiling {
		score = credibilityCeiling
	}
	return score
}

// ClampCredibility bounds a manually edited score to [0, 1].
func ClampCredibility(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
