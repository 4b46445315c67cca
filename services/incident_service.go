package services

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/civicsafety/config"
	"github.com/techagentng/civicsafety/db"
	apiError "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
	"gorm.io/gorm"
)

type IncidentService interface {
	CreateIncident(req *models.IncidentCreateRequest, reporter *models.User) (*models.Incident, error)
	GetIncident(id uuid.UUID, viewer *models.User) (*models.Incident, error)
	ListIncidents(filter models.IncidentFilter, viewer *models.User) ([]models.Incident, error)
	UpdateIncident(id uuid.UUID, req *models.IncidentUpdateRequest, viewer *models.User) (*models.Incident, error)
	UpdateStatus(id uuid.UUID, status string, actor *models.User) (*models.Incident, error)
	AddFollowUp(id uuid.UUID, req *models.FollowUpCreateRequest, actor *models.User) (*models.IncidentFollowUp, error)
	SetHidden(id uuid.UUID, hidden bool, actor *models.User) error
	GetStats() (*models.IncidentStats, error)
}

type incidentService struct {
	Config           *config.Config
	Catalog          *config.Catalog
	incidentRepo     db.IncidentRepository
	authRepo         db.AuthRepository
	notificationRepo db.NotificationRepository
}

func NewIncidentService(
	incidentRepo db.IncidentRepository,
	authRepo db.AuthRepository,
	notificationRepo db.NotificationRepository,
	catalog *config.Catalog,
	conf *config.Config,
) IncidentService {
	return &incidentService{
		Config:           conf,
		Catalog:          catalog,
		incidentRepo:     incidentRepo,
		authRepo:         authRepo,
		notificationRepo: notificationRepo,
	}
}

func canSeeHidden(viewer *models.User) bool {
	return viewer != nil && models.IsModeratorRole(viewer.Role)
}

func (s *incidentService) CreateIncident(req *models.IncidentCreateRequest, reporter *models.User) (*models.Incident, error) {
	if err := models.NormalizeStrings(req); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, apiError.New("category is required", http.StatusBadRequest)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, apiError.New("description is required", http.StatusBadRequest)
	}

	incidentType := req.IncidentType
	if incidentType == "" {
		incidentType = models.IncidentTypeCommunity
	}
	if !models.ValidIncidentTypes[incidentType] {
		return nil, apiError.Newf(http.StatusBadRequest, "unsupported incident type %q", incidentType)
	}

	contacted := req.ContactedAuthorities
	if contacted == "" {
		contacted = models.ContactedUnknown
	}
	if !models.ValidContactedAuthorities[contacted] {
		return nil, apiError.Newf(http.StatusBadRequest, "unsupported contacted_authorities %q", contacted)
	}

	if req.SafetySentiment != nil && !models.ValidSafetySentiments[*req.SafetySentiment] {
		return nil, apiError.Newf(http.StatusBadRequest, "unsupported safety_sentiment %q", *req.SafetySentiment)
	}

	now := time.Now().UTC()
	incident := &models.Incident{
		ID:                   uuid.New(),
		Category:             req.Category,
		Description:          req.Description,
		IncidentType:         incidentType,
		LocationText:         req.LocationText,
		Lat:                  req.Lat,
		Lng:                  req.Lng,
		StillHappening:       req.StillHappening,
		FeelSafeNow:          req.FeelSafeNow,
		PoliceSeen:           req.PoliceSeen,
		ContactedAuthorities: contacted,
		SafetySentiment:      req.SafetySentiment,
		Status:               models.StatusUnverified,
		CredibilityScore:     InitialCredibility(req),
		ReporterAlias:        req.ReporterAlias,
		FollowUpDueAt:        InitialFollowUpDue(now, req.StillHappening),
	}
	if reporter != nil {
		reporterID := reporter.ID
		incident.ReporterID = &reporterID
	}

	// Backfill coordinates for recognized location names.
	if incident.Lat == nil || incident.Lng == nil {
		if lat, lng, ok := s.Catalog.LookupKnownCoordinates(incident.LocationText); ok {
			if incident.Lat == nil {
				incident.Lat = &lat
			}
			if incident.Lng == nil {
				incident.Lng = &lng
			}
		}
	}

	if err := s.incidentRepo.CreateIncident(incident); err != nil {
		return nil, err
	}

	if err := s.sendVerificationAlert(incident, reporter); err != nil {
		return nil, err
	}
	return incident, nil
}

// sendVerificationAlert fans a notification out to every verifier-role
// user when a non-verifier reports an incident. The alert flag's
// check-and-set guarantees the fan-out fires at most once per incident.
func (s *incidentService) sendVerificationAlert(incident *models.Incident, reporter *models.User) error {
	if reporter != nil && models.IsVerifierRole(reporter.Role) {
		return nil
	}

	won, err := s.incidentRepo.MarkVerificationAlertSent(incident.ID)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	verifiers, err := s.authRepo.ListUsersByRoles(models.VerifierRoleNames())
	if err != nil {
		return err
	}

	incidentID := incident.ID
	message := fmt.Sprintf("New %s incident reported: %s", incident.IncidentType, incident.Category)
	notifications := make([]models.Notification, 0, len(verifiers))
	for _, verifier := range verifiers {
		if reporter != nil && verifier.ID == reporter.ID {
			continue
		}
		notifications = append(notifications, models.Notification{
			RecipientID: verifier.ID,
			IncidentID:  &incidentID,
			Message:     message,
			Status:      models.NotificationUnread,
		})
	}
	return s.notificationRepo.CreateNotifications(notifications)
}

func (s *incidentService) GetIncident(id uuid.UUID, viewer *models.User) (*models.Incident, error) {
	incident, err := s.incidentRepo.GetIncidentByID(id, canSeeHidden(viewer))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("incident not found", http.StatusNotFound)
		}
		return nil, err
	}
	return incident, nil
}

func (s *incidentService) ListIncidents(filter models.IncidentFilter, viewer *models.User) ([]models.Incident, error) {
	filter.IncludeHidden = filter.IncludeHidden && canSeeHidden(viewer)
	return s.incidentRepo.ListIncidents(filter)
}

// UpdateIncident applies a whitelisted partial update. Status, awarded
// points and the hidden flag are not patchable here.
func (s *incidentService) UpdateIncident(id uuid.UUID, req *models.IncidentUpdateRequest, viewer *models.User) (*models.Incident, error) {
	if _, err := s.GetIncident(id, viewer); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.Category != nil {
		if strings.TrimSpace(*req.Category) == "" {
			return nil, apiError.New("category cannot be empty", http.StatusBadRequest)
		}
		updates["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, apiError.New("description cannot be empty", http.StatusBadRequest)
		}
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.IncidentType != nil {
		if !models.ValidIncidentTypes[*req.IncidentType] {
			return nil, apiError.Newf(http.StatusBadRequest, "unsupported incident type %q", *req.IncidentType)
		}
		updates["incident_type"] = *req.IncidentType
	}
	if req.LocationText != nil {
		updates["location_text"] = strings.TrimSpace(*req.LocationText)
	}
	if req.Lat != nil {
		updates["lat"] = *req.Lat
	}
	if req.Lng != nil {
		updates["lng"] = *req.Lng
	}
	if req.StillHappening != nil {
		updates["still_happening"] = *req.StillHappening
	}
	if req.FeelSafeNow != nil {
		updates["feel_safe_now"] = *req.FeelSafeNow
	}
	if req.PoliceSeen != nil {
		updates["police_seen"] = *req.PoliceSeen
	}
	if req.ContactedAuthorities != nil {
		if !models.ValidContactedAuthorities[*req.ContactedAuthorities] {
			return nil, apiError.Newf(http.StatusBadRequest, "unsupported contacted_authorities %q", *req.ContactedAuthorities)
		}
		updates["contacted_authorities"] = *req.ContactedAuthorities
	}
	if req.SafetySentiment != nil {
		if !models.ValidSafetySentiments[*req.SafetySentiment] {
			return nil, apiError.Newf(http.StatusBadRequest, "unsupported safety_sentiment %q", *req.SafetySentiment)
		}
		updates["safety_sentiment"] = *req.SafetySentiment
	}
	if req.ReporterAlias != nil {
		updates["reporter_alias"] = strings.TrimSpace(*req.ReporterAlias)
	}
	if req.CredibilityScore != nil {
		updates["credibility_score"] = ClampCredibility(*req.CredibilityScore)
	}

	if len(updates) > 0 {
		if err := s.incidentRepo.UpdateIncidentFields(id, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apiError.New("incident not found", http.StatusNotFound)
			}
			return nil, err
		}
	}
	return s.GetIncident(id, viewer)
}

// UpdateStatus moves the incident through the verification machine for
// an approver and settles any reward progress the new status earns.
func (s *incidentService) UpdateStatus(id uuid.UUID, status string, actor *models.User) (*models.Incident, error) {
	if actor == nil || !models.IsApproverRole(actor.Role) {
		return nil, apiError.ErrForbidden
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.AllowedStatuses[status] {
		return nil, apiError.Newf(http.StatusBadRequest, "unsupported status %q", status)
	}

	incident, err := s.GetIncident(id, actor)
	if err != nil {
		return nil, err
	}

	target := RewardTargetForStatus(status, incident.CredibilityScore)
	updated, err := s.incidentRepo.UpdateStatusAndProgress(id, status, target)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("incident not found", http.StatusNotFound)
		}
		return nil, err
	}
	return updated, nil
}

// AddFollowUp appends a timeline entry, refreshes the prompts the
// follow-up answered, reschedules the re-check deadline and applies the
// status transition the follow-up reports.
func (s *incidentService) AddFollowUp(id uuid.UUID, req *models.FollowUpCreateRequest, actor *models.User) (*models.IncidentFollowUp, error) {
	if err := models.NormalizeStrings(req); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	incident, err := s.GetIncident(id, actor)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if !models.AllowedStatuses[status] {
		return nil, apiError.Newf(http.StatusBadRequest, "unsupported status %q", status)
	}
	if req.ContactedAuthorities != "" && !models.ValidContactedAuthorities[req.ContactedAuthorities] {
		return nil, apiError.Newf(http.StatusBadRequest, "unsupported contacted_authorities %q", req.ContactedAuthorities)
	}
	if req.SafetySentiment != nil && !models.ValidSafetySentiments[*req.SafetySentiment] {
		return nil, apiError.Newf(http.StatusBadRequest, "unsupported safety_sentiment %q", *req.SafetySentiment)
	}

	createdBy := incident.ReporterAlias
	if actor != nil {
		createdBy = actor.DisplayName
	}
	followUp := &models.IncidentFollowUp{
		IncidentID:           incident.ID,
		Status:               status,
		Notes:                req.Notes,
		StillHappening:       req.StillHappening,
		ContactedAuthorities: req.ContactedAuthorities,
		FeelSafeNow:          req.FeelSafeNow,
		SafetySentiment:      req.SafetySentiment,
		CreatedBy:            createdBy,
	}

	updates := map[string]interface{}{"status": status}
	if req.StillHappening != nil {
		updates["still_happening"] = *req.StillHappening
	}
	if req.FeelSafeNow != nil {
		updates["feel_safe_now"] = *req.FeelSafeNow
	}
	if req.ContactedAuthorities != "" {
		updates["contacted_authorities"] = req.ContactedAuthorities
	}
	if req.SafetySentiment != nil {
		updates["safety_sentiment"] = *req.SafetySentiment
	}

	now := time.Now().UTC()
	nextDue := NextFollowUpDue(now, req.StillHappening, incident.FollowUpDueAt)
	if req.StillHappening != nil {
		if nextDue == nil {
			updates["follow_up_due_at"] = nil
		} else {
			updates["follow_up_due_at"] = *nextDue
		}
	}

	target := RewardTargetForStatus(status, incident.CredibilityScore)
	if err := s.incidentRepo.ApplyFollowUp(followUp, updates, target); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("incident not found", http.StatusNotFound)
		}
		return nil, err
	}
	return followUp, nil
}

// SetHidden toggles the moderation flag; it never touches status or
// rewards.
func (s *incidentService) SetHidden(id uuid.UUID, hidden bool, actor *models.User) error {
	if actor == nil || !models.IsModeratorRole(actor.Role) {
		return apiError.ErrForbidden
	}
	if err := s.incidentRepo.SetHidden(id, hidden); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("incident not found", http.StatusNotFound)
		}
		return err
	}
	return nil
}

func (s *incidentService) GetStats() (*models.IncidentStats, error) {
	return s.incidentRepo.GetIncidentStats()
}
