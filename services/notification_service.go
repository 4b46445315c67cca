package services

import (
	"net/http"

	"github.com/techagentng/civicsafety/db"
	apiError "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
)

type NotificationService interface {
	List(user *models.User, statusFilter string, limit int) ([]models.Notification, error)
	MarkRead(user *models.User, notificationID uint) (*models.Notification, error)
	UnreadCount(user *models.User) (int64, error)
}

type notificationService struct {
	notificationRepo db.NotificationRepository
}

func NewNotificationService(notificationRepo db.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) List(user *models.User, statusFilter string, limit int) ([]models.Notification, error) {
	if statusFilter != "" && statusFilter != models.NotificationUnread && statusFilter != models.NotificationRead {
		return nil, apiError.Newf(http.StatusBadRequest, "unsupported status %q", statusFilter)
	}
	return s.notificationRepo.ListByRecipient(user.ID, statusFilter, limit)
}

// MarkRead is idempotent; re-reading a read notification keeps the
// original read_at timestamp.
func (s *notificationService) MarkRead(user *models.User, notificationID uint) (*models.Notification, error) {
	notification, err := s.notificationRepo.MarkRead(notificationID, user.ID)
	if err != nil {
		return nil, apiError.New("notification not found", http.StatusNotFound)
	}
	return notification, nil
}

func (s *notificationService) UnreadCount(user *models.User) (int64, error) {
	return s.notificationRepo.CountUnread(user.ID)
}
