package models

import (
	"time"

	"github.com/google/uuid"
)

// Incident verification statuses. Transitions between any of these are
// allowed for approver roles; the lattice is deliberately permissive so
// moderators can correct mistakes.
const (
	StatusUnverified        = "unverified"
	StatusCommunityConfirm  = "community-confirmed"
	StatusOfficialConfirmed = "official-confirmed"
	StatusResolved          = "resolved"
)

// AllowedStatuses is the closed set a status update may target.
var AllowedStatuses = map[string]bool{
	StatusUnverified:        true,
	StatusCommunityConfirm:  true,
	StatusOfficialConfirmed: true,
	StatusResolved:          true,
}

// ResolvedStatuses no longer participate in follow-up scheduling.
var ResolvedStatuses = map[string]bool{
	StatusOfficialConfirmed: true,
	StatusResolved:          true,
}

// Incident segment classification.
const (
	IncidentTypePolice      = "police"
	IncidentTypeCommunity   = "community"
	IncidentTypePublicOrder = "public-order"
)

var ValidIncidentTypes = map[string]bool{
	IncidentTypePolice:      true,
	IncidentTypeCommunity:   true,
	IncidentTypePublicOrder: true,
}

// How the reporter interacted with authorities.
const (
	ContactedUnknown        = "unknown"
	ContactedNone           = "none"
	ContactedServiceRequest = "service-request"
	Contacted911            = "911"
	ContactedNotNeeded      = "not-needed"
)

var ValidContactedAuthorities = map[string]bool{
	ContactedUnknown:        true,
	ContactedNone:           true,
	ContactedServiceRequest: true,
	Contacted911:            true,
	ContactedNotNeeded:      true,
}

var ValidSafetySentiments = map[string]bool{
	"safe":   true,
	"uneasy": true,
	"unsafe": true,
	"unsure": true,
}

// Incident is a single community-submitted report of an event.
type Incident struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt *time.Time `json:"updated_at"`

	Category     string `json:"category" gorm:"type:varchar(100);index"`
	Description  string `json:"description" gorm:"type:varchar(2000)"`
	IncidentType string `json:"incident_type" gorm:"type:varchar(50);index;default:community"`

	LocationText string   `json:"location_text" gorm:"type:varchar(255)"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`

	// Community prompts: tri-state, nil means unanswered.
	StillHappening       *bool   `json:"still_happening"`
	FeelSafeNow          *bool   `json:"feel_safe_now"`
	PoliceSeen           *bool   `json:"police_seen"`
	ContactedAuthorities string  `json:"contacted_authorities" gorm:"type:varchar(25);default:unknown"`
	SafetySentiment      *string `json:"safety_sentiment" gorm:"type:varchar(25)"`

	Status              string     `json:"status" gorm:"type:varchar(50);default:unverified"`
	CredibilityScore    float64    `json:"credibility_score"`
	ReporterAlias       string     `json:"reporter_alias" gorm:"type:varchar(50)"`
	FollowUpDueAt       *time.Time `json:"follow_up_due_at" gorm:"index"`
	RewardPointsAwarded int        `json:"reward_points_awarded" gorm:"default:0"`

	VerificationAlertSent bool `json:"-" gorm:"default:false"`
	IsHidden              bool `json:"is_hidden" gorm:"default:false;index"`

	ReporterID *uint `json:"reporter_id"`
	Reporter   *User `json:"-" gorm:"foreignKey:ReporterID"`

	FollowUps []IncidentFollowUp `json:"follow_ups" gorm:"foreignKey:IncidentID;constraint:OnDelete:CASCADE"`
}

// IncidentFollowUp is an immutable timeline entry snapshotting the
// incident's condition at a point in time.
type IncidentFollowUp struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	IncidentID uuid.UUID `json:"incident_id" gorm:"type:uuid;not null;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	Status               string  `json:"status" gorm:"type:varchar(50);not null"`
	Notes                string  `json:"notes" gorm:"type:varchar(2000)"`
	StillHappening       *bool   `json:"still_happening"`
	ContactedAuthorities string  `json:"contacted_authorities" gorm:"type:varchar(25)"`
	FeelSafeNow          *bool   `json:"feel_safe_now"`
	SafetySentiment      *string `json:"safety_sentiment" gorm:"type:varchar(25)"`
	CreatedBy            string  `json:"created_by" gorm:"type:varchar(50)"`
}

type IncidentCreateRequest struct {
	Category             string   `json:"category" binding:"required,max=100" conform:"trim"`
	Description          string   `json:"description" binding:"required,max=2000" conform:"trim"`
	IncidentType         string   `json:"incident_type" conform:"trim,lower"`
	LocationText         string   `json:"location_text" binding:"max=255" conform:"trim"`
	Lat                  *float64 `json:"lat"`
	Lng                  *float64 `json:"lng"`
	StillHappening       *bool    `json:"still_happening"`
	FeelSafeNow          *bool    `json:"feel_safe_now"`
	PoliceSeen           *bool    `json:"police_seen"`
	ContactedAuthorities string   `json:"contacted_authorities" conform:"trim,lower"`
	SafetySentiment      *string  `json:"safety_sentiment"`
	ReporterAlias        string   `json:"reporter_alias" binding:"max=50" conform:"trim"`
}

// IncidentUpdateRequest is the explicit whitelist of patchable fields.
// Status, awarded points and the hidden flag deliberately have no entry
// here; they move only through their dedicated operations.
type IncidentUpdateRequest struct {
	Category             *string  `json:"category" binding:"omitempty,max=100"`
	Description          *string  `json:"description" binding:"omitempty,max=2000"`
	IncidentType         *string  `json:"incident_type"`
	LocationText         *string  `json:"location_text" binding:"omitempty,max=255"`
	Lat                  *float64 `json:"lat"`
	Lng                  *float64 `json:"lng"`
	StillHappening       *bool    `json:"still_happening"`
	FeelSafeNow          *bool    `json:"feel_safe_now"`
	PoliceSeen           *bool    `json:"police_seen"`
	ContactedAuthorities *string  `json:"contacted_authorities"`
	SafetySentiment      *string  `json:"safety_sentiment"`
	ReporterAlias        *string  `json:"reporter_alias" binding:"omitempty,max=50"`
	CredibilityScore     *float64 `json:"credibility_score"`
}

type FollowUpCreateRequest struct {
	Status               string  `json:"status" binding:"required,max=50" conform:"trim,lower"`
	Notes                string  `json:"notes" binding:"max=2000" conform:"trim"`
	StillHappening       *bool   `json:"still_happening"`
	ContactedAuthorities string  `json:"contacted_authorities" conform:"trim,lower"`
	FeelSafeNow          *bool   `json:"feel_safe_now"`
	SafetySentiment      *string `json:"safety_sentiment"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required" conform:"trim,lower"`
}

// IncidentFilter captures the list endpoint's query parameters.
type IncidentFilter struct {
	Status        string
	Category      string
	IncidentType  string
	NeedsFollowUp bool
	IncludeHidden bool
	Limit         int
}

// IncidentStats is the aggregate dashboard payload.
type IncidentStats struct {
	Total                int64            `json:"total"`
	ByStatus             map[string]int64 `json:"by_status"`
	ByType               map[string]int64 `json:"by_type"`
	ActiveFollowUp       int64            `json:"active_follow_up"`
	PromptCompletionRate float64          `json:"prompt_completion_rate"`
	SentimentBreakdown   map[string]int64 `json:"sentiment_breakdown"`
	AvgCredibility       float64          `json:"avg_credibility"`
}
