package db

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/civicsafety/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository covers comments and like/unlike reactions on
// incidents and comments.
type EngagementRepository interface {
	CreateComment(comment *models.IncidentComment) error
	ListComments(incidentID uuid.UUID, limit int) ([]models.IncidentComment, error)
	GetCommentByID(id uint) (*models.IncidentComment, error)
	SetIncidentReaction(incidentID uuid.UUID, userID uint, value string) error
	ClearIncidentReaction(incidentID uuid.UUID, userID uint) error
	IncidentReactionStatus(incidentID uuid.UUID, viewerID uint) (*models.ReactionStatus, error)
	SetCommentReaction(commentID uint, userID uint, value string) error
	ClearCommentReaction(commentID uint, userID uint) error
	CommentReactionStatus(commentID uint, viewerID uint) (*models.ReactionStatus, error)
	CountLikesReceivedByReporter(reporterID uint) (int64, error)
	CountLikesForIncident(incidentID uuid.UUID) (int64, error)
}

type engagementRepo struct {
	DB *gorm.DB
}

func NewEngagementRepo(db *GormDB) EngagementRepository {
	return &engagementRepo{db.DB}
}

func (r *engagementRepo) CreateComment(comment *models.IncidentComment) error {
	if err := r.DB.Create(comment).Error; err != nil {
		return errors.Wrap(err, "creating comment")
	}
	return nil
}

func (r *engagementRepo) ListComments(incidentID uuid.UUID, limit int) ([]models.IncidentComment, error) {
	if limit <= 0 {
		limit = 50
	}
	var comments []models.IncidentComment
	err := r.DB.Preload("User").
		Where("incident_id = ?", incidentID).
		Order("created_at ASC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing comments")
	}
	return comments, nil
}

func (r *engagementRepo) GetCommentByID(id uint) (*models.IncidentComment, error) {
	var comment models.IncidentComment
	if err := r.DB.Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// SetIncidentReaction upserts on the (incident, user) unique pair so a
// viewer holds at most one reaction per incident.
func (r *engagementRepo) SetIncidentReaction(incidentID uuid.UUID, userID uint, value string) error {
	reaction := models.IncidentReaction{
		IncidentID: incidentID,
		UserID:     userID,
		Value:      value,
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "incident_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
	}).Create(&reaction).Error
	if err != nil {
		return errors.Wrap(err, "setting incident reaction")
	}
	return nil
}

func (r *engagementRepo) ClearIncidentReaction(incidentID uuid.UUID, userID uint) error {
	err := r.DB.Where("incident_id = ? AND user_id = ?", incidentID, userID).
		Delete(&models.IncidentReaction{}).Error
	if err != nil {
		return errors.Wrap(err, "clearing incident reaction")
	}
	return nil
}

func (r *engagementRepo) IncidentReactionStatus(incidentID uuid.UUID, viewerID uint) (*models.ReactionStatus, error) {
	status := &models.ReactionStatus{}

	err := r.DB.Model(&models.IncidentReaction{}).
		Where("incident_id = ? AND value = ?", incidentID, models.ReactionLike).
		Count(&status.LikesCount).Error
	if err != nil {
		return nil, errors.Wrap(err, "counting incident likes")
	}
	err = r.DB.Model(&models.IncidentReaction{}).
		Where("incident_id = ? AND value = ?", incidentID, models.ReactionUnlike).
		Count(&status.UnlikesCount).Error
	if err != nil {
		return nil, errors.Wrap(err, "counting incident unlikes")
	}

	if viewerID != 0 {
		var viewer models.IncidentReaction
		err = r.DB.Where("incident_id = ? AND user_id = ?", incidentID, viewerID).
			First(&viewer).Error
		switch {
		case err == nil:
			status.ViewerReaction = &viewer.Value
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return nil, errors.Wrap(err, "loading viewer reaction")
		}
	}
	return status, nil
}

func (r *engagementRepo) SetCommentReaction(commentID uint, userID uint, value string) error {
	reaction := models.CommentReaction{
		CommentID: commentID,
		UserID:    userID,
		Value:     value,
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
	}).Create(&reaction).Error
	if err != nil {
		return errors.Wrap(err, "setting comment reaction")
	}
	return nil
}

func (r *engagementRepo) ClearCommentReaction(commentID uint, userID uint) error {
	err := r.DB.Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&models.CommentReaction{}).Error
	if err != nil {
		return errors.Wrap(err, "clearing comment reaction")
	}
	return nil
}

func (r *engagementRepo) CommentReactionStatus(commentID uint, viewerID uint) (*models.ReactionStatus, error) {
	status := &models.ReactionStatus{}

	err := r.DB.Model(&models.CommentReaction{}).
		Where("comment_id = ? AND value = ?", commentID, models.ReactionLike).
		Count(&status.LikesCount).Error
	if err != nil {
		return nil, errors.Wrap(err, "counting comment likes")
	}
	err = r.DB.Model(&models.CommentReaction{}).
		Where("comment_id = ? AND value = ?", commentID, models.ReactionUnlike).
		Count(&status.UnlikesCount).Error
	if err != nil {
		return nil, errors.Wrap(err, "counting comment unlikes")
	}

	if viewerID != 0 {
		var viewer models.CommentReaction
		err = r.DB.Where("comment_id = ? AND user_id = ?", commentID, viewerID).
			First(&viewer).Error
		switch {
		case err == nil:
			status.ViewerReaction = &viewer.Value
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return nil, errors.Wrap(err, "loading viewer comment reaction")
		}
	}
	return status, nil
}

func (r *engagementRepo) CountLikesReceivedByReporter(reporterID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.IncidentReaction{}).
		Joins("JOIN incidents ON incidents.id = incident_reactions.incident_id").
		Where("incidents.reporter_id = ? AND incident_reactions.value = ?", reporterID, models.ReactionLike).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "counting likes received")
	}
	return count, nil
}

func (r *engagementRepo) CountLikesForIncident(incidentID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB.Model(&models.IncidentReaction{}).
		Where("incident_id = ? AND value = ?", incidentID, models.ReactionLike).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "counting incident likes")
	}
	return count, nil
}
