package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/civicsafety/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IncidentRepository interface {
	CreateIncident(incident *models.Incident) error
	GetIncidentByID(id uuid.UUID, includeHidden bool) (*models.Incident, error)
	ListIncidents(filter models.IncidentFilter) ([]models.Incident, error)
	ListIncidentsByReporter(reporterID uint, limit int) ([]models.Incident, error)
	CountIncidentsByReporter(reporterID uint, statuses []string) (int64, error)
	UpdateIncidentFields(id uuid.UUID, updates map[string]interface{}) error
	UpdateStatusAndProgress(id uuid.UUID, status string, target int) (*models.Incident, error)
	ApplyFollowUp(followUp *models.IncidentFollowUp, updates map[string]interface{}, target int) error
	SetHidden(id uuid.UUID, hidden bool) error
	MarkVerificationAlertSent(id uuid.UUID) (bool, error)
	GetIncidentStats() (*models.IncidentStats, error)
}

type incidentRepo struct {
	DB *gorm.DB
}

func NewIncidentRepo(db *GormDB) IncidentRepository {
	return &incidentRepo{db.DB}
}

// visible scopes reads to non-hidden rows unless the caller holds
// moderation capability, so the soft-hide check lives in one place.
func visible(includeHidden bool) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if includeHidden {
			return tx
		}
		return tx.Where("is_hidden = ?", false)
	}
}

func (r *incidentRepo) CreateIncident(incident *models.Incident) error {
	if incident.ID == uuid.Nil {
		incident.ID = uuid.New()
	}
	if err := r.DB.Create(incident).Error; err != nil {
		return errors.Wrap(err, "creating incident")
	}
	return nil
}

func (r *incidentRepo) GetIncidentByID(id uuid.UUID, includeHidden bool) (*models.Incident, error) {
	var incident models.Incident
	err := r.DB.Scopes(visible(includeHidden)).
		Preload("FollowUps", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		First(&incident, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

func (r *incidentRepo) ListIncidents(filter models.IncidentFilter) ([]models.Incident, error) {
	q := r.DB.Scopes(visible(filter.IncludeHidden)).
		Preload("FollowUps", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Order("created_at DESC")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.IncidentType != "" {
		q = q.Where("incident_type = ?", filter.IncidentType)
	}
	if filter.NeedsFollowUp {
		q = q.Where("follow_up_due_at IS NOT NULL").
			Where("follow_up_due_at <= ?", time.Now().UTC()).
			Where("status NOT IN ?", resolvedStatusList())
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var incidents []models.Incident
	if err := q.Limit(limit).Find(&incidents).Error; err != nil {
		return nil, errors.Wrap(err, "listing incidents")
	}
	return incidents, nil
}

func resolvedStatusList() []string {
	statuses := make([]string, 0, len(models.ResolvedStatuses))
	for status := range models.ResolvedStatuses {
		statuses = append(statuses, status)
	}
	return statuses
}

func (r *incidentRepo) ListIncidentsByReporter(reporterID uint, limit int) ([]models.Incident, error) {
	var incidents []models.Incident
	err := r.DB.Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Limit(limit).
		Find(&incidents).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing reporter incidents")
	}
	return incidents, nil
}

func (r *incidentRepo) CountIncidentsByReporter(reporterID uint, statuses []string) (int64, error) {
	q := r.DB.Model(&models.Incident{}).Where("reporter_id = ?", reporterID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "counting reporter incidents")
	}
	return count, nil
}

func (r *incidentRepo) UpdateIncidentFields(id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := r.DB.Model(&models.Incident{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return errors.Wrap(result.Error, "updating incident")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// progressRewardTx awards the incremental difference between target and
// what the incident has already earned, exactly once per threshold
// crossing. The gate runs against the locked row so concurrent duplicate
// transitions cannot double-post.
func progressRewardTx(tx *gorm.DB, incident *models.Incident, target int) error {
	if incident.ReporterID == nil || target <= incident.RewardPointsAwarded {
		return nil
	}
	delta := target - incident.RewardPointsAwarded
	entry := &models.RewardLedgerEntry{
		UserID:      *incident.ReporterID,
		Delta:       delta,
		Source:      models.SourceStatusProgress,
		Description: "Incident " + incident.ID.String() + " reached " + incident.Status,
		Status:      models.EntryStatusPosted,
	}
	if err := postEntryTx(tx, entry); err != nil {
		return err
	}
	if err := tx.Model(&models.Incident{}).Where("id = ?", incident.ID).
		Update("reward_points_awarded", target).Error; err != nil {
		return errors.Wrap(err, "raising awarded points")
	}
	incident.RewardPointsAwarded = target
	return nil
}

func (r *incidentRepo) UpdateStatusAndProgress(id uuid.UUID, status string, target int) (*models.Incident, error) {
	var incident models.Incident
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&incident, "id = ?", id).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(&incident).Updates(map[string]interface{}{
			"status":     status,
			"updated_at": now,
		}).Error; err != nil {
			return errors.Wrap(err, "updating incident status")
		}
		incident.Status = status
		incident.UpdatedAt = &now
		return progressRewardTx(tx, &incident, target)
	})
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

func (r *incidentRepo) ApplyFollowUp(followUp *models.IncidentFollowUp, updates map[string]interface{}, target int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var incident models.Incident
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&incident, "id = ?", followUp.IncidentID).Error; err != nil {
			return err
		}
		if err := tx.Create(followUp).Error; err != nil {
			return errors.Wrap(err, "creating follow-up")
		}
		updates["updated_at"] = time.Now().UTC()
		if err := tx.Model(&incident).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "applying follow-up updates")
		}
		if status, ok := updates["status"].(string); ok {
			incident.Status = status
		}
		return progressRewardTx(tx, &incident, target)
	})
}

func (r *incidentRepo) SetHidden(id uuid.UUID, hidden bool) error {
	return r.UpdateIncidentFields(id, map[string]interface{}{"is_hidden": hidden})
}

// MarkVerificationAlertSent flips the alert flag and reports whether
// this call won the check-and-set, so the fan-out fires at most once.
func (r *incidentRepo) MarkVerificationAlertSent(id uuid.UUID) (bool, error) {
	result := r.DB.Model(&models.Incident{}).
		Where("id = ? AND verification_alert_sent = ?", id, false).
		Update("verification_alert_sent", true)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "marking verification alert")
	}
	return result.RowsAffected > 0, nil
}

func (r *incidentRepo) GetIncidentStats() (*models.IncidentStats, error) {
	stats := &models.IncidentStats{
		ByStatus:           map[string]int64{},
		ByType:             map[string]int64{},
		SentimentBreakdown: map[string]int64{},
	}

	base := func() *gorm.DB {
		return r.DB.Model(&models.Incident{}).Scopes(visible(false))
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, errors.Wrap(err, "counting incidents")
	}

	type groupCount struct {
		Key   string
		Count int64
	}

	var statusRows []groupCount
	if err := base().Select("status AS key, COUNT(id) AS count").
		Group("status").Scan(&statusRows).Error; err != nil {
		return nil, errors.Wrap(err, "grouping by status")
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Key] = row.Count
	}

	var typeRows []groupCount
	if err := base().Select("incident_type AS key, COUNT(id) AS count").
		Group("incident_type").Scan(&typeRows).Error; err != nil {
		return nil, errors.Wrap(err, "grouping by type")
	}
	for _, row := range typeRows {
		stats.ByType[row.Key] = row.Count
	}

	var sentimentRows []groupCount
	if err := base().Select("safety_sentiment AS key, COUNT(id) AS count").
		Where("safety_sentiment IS NOT NULL").
		Group("safety_sentiment").Scan(&sentimentRows).Error; err != nil {
		return nil, errors.Wrap(err, "grouping by sentiment")
	}
	for _, row := range sentimentRows {
		stats.SentimentBreakdown[row.Key] = row.Count
	}

	var promptAnswered int64
	if err := base().
		Where("still_happening IS NOT NULL OR police_seen IS NOT NULL OR feel_safe_now IS NOT NULL").
		Count(&promptAnswered).Error; err != nil {
		return nil, errors.Wrap(err, "counting answered prompts")
	}
	if stats.Total > 0 {
		stats.PromptCompletionRate = float64(promptAnswered) / float64(stats.Total)
	}

	if err := base().
		Where("follow_up_due_at IS NOT NULL").
		Where("follow_up_due_at <= ?", time.Now().UTC()).
		Where("status NOT IN ?", resolvedStatusList()).
		Count(&stats.ActiveFollowUp).Error; err != nil {
		return nil, errors.Wrap(err, "counting active follow-ups")
	}

	var avg *float64
	if err := base().Select("AVG(credibility_score)").Scan(&avg).Error; err != nil {
		return nil, errors.Wrap(err, "averaging credibility")
	}
	if avg != nil {
		stats.AvgCredibility = *avg
	}

	return stats, nil
}
