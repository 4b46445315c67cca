package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/techagentng/civicsafety/models"
)

func boolPtr(b bool) *bool      { return &b }
func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestInitialCredibility_BareReport(t *testing.T) {
	req := &models.IncidentCreateRequest{
		Category:    "Package Theft",
		Description: "Package taken from porch",
	}
	require.InDelta(t, 0.35, InitialCredibility(req), 1e-9)
}

func TestInitialCredibility_FullyAnsweredReportHitsCeiling(t *testing.T) {
	req := &models.IncidentCreateRequest{
		Category:             "Non-Fatal Shooting",
		Description:          "Shots heard near the intersection",
		LocationText:         "5th & Juniper",
		StillHappening:       boolPtr(true),
		PoliceSeen:           boolPtr(false),
		FeelSafeNow:          boolPtr(false),
		ContactedAuthorities: models.Contacted911,
		SafetySentiment:      strPtr("unsafe"),
	}
	// 0.35 + 0.15 + 3*0.12 + 0.08 + 0.12 = 1.06, clamped to the ceiling.
	require.InDelta(t, 0.95, InitialCredibility(req), 1e-9)
}

func TestInitialCredibility_ContactBonusExcludesUnknownAndNone(t *testing.T) {
	for _, contacted := range []string{models.ContactedUnknown, models.ContactedNone, ""} {
		req := &models.IncidentCreateRequest{
			Category:             "Fireworks",
			Description:          "Loud bangs",
			ContactedAuthorities: contacted,
		}
		require.InDelta(t, 0.35, InitialCredibility(req), 1e-9, "contacted=%q", contacted)
	}

	req := &models.IncidentCreateRequest{
		Category:             "Fireworks",
		Description:          "Loud bangs",
		ContactedAuthorities: models.ContactedServiceRequest,
	}
	require.InDelta(t, 0.47, InitialCredibility(req), 1e-9)
}

func TestInitialCredibility_PromptBonusPerAnsweredPrompt(t *testing.T) {
	req := &models.IncidentCreateRequest{
		Category:       "Streetlight Outage",
		Description:    "Dark corner",
		StillHappening: boolPtr(false),
		PoliceSeen:     boolPtr(false),
	}
	// An answered "no" counts the same as an answered "yes".
	require.InDelta(t, 0.35+2*0.12, InitialCredibility(req), 1e-9)
}

func TestClampCredibility(t *testing.T) {
	require.Equal(t, 0.0, ClampCredibility(-0.4))
	require.Equal(t, 1.0, ClampCredibility(1.7))
	require.Equal(t, 0.5, ClampCredibility(0.5))
}
