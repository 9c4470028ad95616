package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/complianceguard/regdash/internal/models"
)

// Notification type tags, carried over from the original feed.
const (
	NotificationSystem = "시스템"
	NotificationError  = "오류"
)

// ListNotifications returns up to limit notifications, newest first.
func ListNotifications(db *gorm.DB, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var notifications []models.Notification
	err := db.Order("created_at DESC, notification_id DESC").Limit(limit).Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// CreateNotification appends an entry to the feed. metadata may be nil.
func CreateNotification(db *gorm.DB, kind, title, message string, metadata any) (*models.Notification, error) {
	n := &models.Notification{
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("notification metadata: %w", err)
		}
		n.Metadata.JSON = raw
	}
	if err := db.Create(n).Error; err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// MarkNotificationRead flags one notification as read.
func MarkNotificationRead(db *gorm.DB, id uint64) error {
	result := db.Model(&models.Notification{}).
		Where("notification_id = ?", id).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
