package db

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	apiError "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRequestRepository interface {
	QueuePendingRequest(userID uint, role string, justification string) (*models.RoleRequest, error)
	GetRequestByID(id uint) (*models.RoleRequest, error)
	ListRequests(statusFilter string, limit int) ([]models.RoleRequest, error)
	ResolveRequest(requestID uint, status string, reviewerID uint, notes string, assignRole string) (*models.RoleRequest, error)
}

type roleRequestRepo struct {
	DB *gorm.DB
}

func NewRoleRequestRepo(db *GormDB) RoleRequestRepository {
	return &roleRequestRepo{db.DB}
}

// QueuePendingRequest refreshes the user's live pending request in place
// or creates one. The pending row is locked so concurrent submissions
// cannot grow a queue for one user.
func (r *roleRequestRepo) QueuePendingRequest(userID uint, role string, justification string) (*models.RoleRequest, error) {
	var request models.RoleRequest
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND status = ?", userID, models.RoleRequestPending).
			Order("created_at DESC").
			First(&request).Error
		switch {
		case err == nil:
			updates := map[string]interface{}{
				"requested_role": role,
				"decided_at":     nil,
				"reviewer_id":    nil,
				"reviewer_notes": "",
			}
			if justification != "" {
				updates["justification"] = justification
			}
			if err := tx.Model(&request).Updates(updates).Error; err != nil {
				return errors.Wrap(err, "refreshing pending role request")
			}
			request.RequestedRole = role
			if justification != "" {
				request.Justification = justification
			}
			request.DecidedAt = nil
			request.ReviewerID = nil
			request.ReviewerNotes = ""
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			request = models.RoleRequest{
				UserID:        userID,
				RequestedRole: role,
				Justification: justification,
				Status:        models.RoleRequestPending,
			}
			if err := tx.Create(&request).Error; err != nil {
				return errors.Wrap(err, "creating role request")
			}
			return nil
		default:
			return errors.Wrap(err, "looking up pending role request")
		}
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *roleRequestRepo) GetRequestByID(id uint) (*models.RoleRequest, error) {
	var request models.RoleRequest
	err := r.DB.Preload("User").Preload("Reviewer").First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *roleRequestRepo) ListRequests(statusFilter string, limit int) ([]models.RoleRequest, error) {
	q := r.DB.Preload("User").Preload("Reviewer").Order("created_at DESC")
	if statusFilter != "" {
		q = q.Where("status = ?", statusFilter)
	}
	if limit <= 0 {
		limit = 100
	}
	var requests []models.RoleRequest
	if err := q.Limit(limit).Find(&requests).Error; err != nil {
		return nil, errors.Wrap(err, "listing role requests")
	}
	return requests, nil
}

// ResolveRequest settles a pending request. Approval assigns the role to
// the requesting user in the same transaction, so the request state and
// the user's role can never disagree.
func (r *roleRequestRepo) ResolveRequest(requestID uint, status string, reviewerID uint, notes string, assignRole string) (*models.RoleRequest, error) {
	var request models.RoleRequest
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, requestID).Error; err != nil {
			return err
		}
		if request.Status != models.RoleRequestPending {
			return apiError.New("request already resolved", http.StatusConflict)
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"status":         status,
			"reviewer_id":    reviewerID,
			"reviewer_notes": notes,
			"decided_at":     now,
		}
		if err := tx.Model(&request).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "resolving role request")
		}
		request.Status = status
		request.ReviewerID = &reviewerID
		request.ReviewerNotes = notes
		request.DecidedAt = &now

		if assignRole != "" {
			result := tx.Model(&models.User{}).
				Where("id = ?", request.UserID).
				Update("role", assignRole)
			if result.Error != nil {
				return errors.Wrap(result.Error, "assigning approved role")
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetRequestByID(requestID)
}
