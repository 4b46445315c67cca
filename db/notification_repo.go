package db

import (
	"time"

	"github.com/pkg/errors"
	"github.com/techagentng/civicsafety/models"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateNotifications(notifications []models.Notification) error
	ListByRecipient(recipientID uint, statusFilter string, limit int) ([]models.Notification, error)
	MarkRead(notificationID uint, recipientID uint) (*models.Notification, error)
	CountUnread(recipientID uint) (int64, error)
}

type notificationRepo struct {
	DB *gorm.DB
}

func NewNotificationRepo(db *GormDB) NotificationRepository {
	return &notificationRepo{db.DB}
}

func (r *notificationRepo) CreateNotifications(notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := r.DB.Create(&notifications).Error; err != nil {
		return errors.Wrap(err, "creating notifications")
	}
	return nil
}

func (r *notificationRepo) ListByRecipient(recipientID uint, statusFilter string, limit int) ([]models.Notification, error) {
	q := r.DB.Where("recipient_id = ?", recipientID).Order("created_at DESC")
	if statusFilter != "" {
		q = q.Where("status = ?", statusFilter)
	}
	if limit <= 0 {
		limit = 20
	}
	var notifications []models.Notification
	if err := q.Limit(limit).Find(&notifications).Error; err != nil {
		return nil, errors.Wrap(err, "listing notifications")
	}
	return notifications, nil
}

// MarkRead is idempotent: re-reading a read notification is a no-op.
func (r *notificationRepo) MarkRead(notificationID uint, recipientID uint) (*models.Notification, error) {
	var notification models.Notification
	err := r.DB.Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		First(&notification).Error
	if err != nil {
		return nil, err
	}

	if notification.Status != models.NotificationRead {
		now := time.Now().UTC()
		updates := map[string]interface{}{
			"status":  models.NotificationRead,
			"read_at": now,
		}
		if err := r.DB.Model(&notification).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "marking notification read")
		}
		notification.Status = models.NotificationRead
		notification.ReadAt = &now
	}
	return &notification, nil
}

func (r *notificationRepo) CountUnread(recipientID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND status = ?", recipientID, models.NotificationUnread).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "counting unread notifications")
	}
	return count, nil
}
