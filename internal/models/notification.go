package models

import "time"

// Notification kinds
const (
	NotifyConnectionRequest  = "connection_request"
	NotifyConnectionAdded    = "connection_added"
	NotifyConnectionAccepted = "connection_accepted"
	NotifyConnectionRemoved  = "connection_removed"
	NotifyMetricRecorded     = "metric_recorded"
	NotifyMetricUpdated      = "metric_updated"
	NotifyMetricDeleted      = "metric_deleted"
)

// Notification is a persisted, best effort message for RecipientID.
type Notification struct {
	NotificationID string    `gorm:"primaryKey;size:36" json:"id"`
	RecipientID    string    `gorm:"size:64;not null;index" json:"recipientId"`
	Kind           string    `gorm:"size:32;not null" json:"kind"`
	Message        string    `gorm:"size:512;not null" json:"message"`
	Link           string    `gorm:"size:255" json:"link,omitempty"`
	TriggeredBy    string    `gorm:"size:64" json:"triggeredBy"`
	Payload        JSON      `json:"payload,omitempty"`
	Read           bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TableName overrides the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
