package models

import "time"

// Notification is one entry of the in-app notification feed.
type Notification struct {
	NotificationID uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Type           string    `gorm:"size:64;not null" json:"type"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Message        string    `gorm:"type:text;not null" json:"message"`
	IsRead         bool      `gorm:"not null;default:false" json:"isRead"`
	Metadata       JSON      `json:"metadata,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TableName overrides the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
