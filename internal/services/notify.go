package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var notificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "growthdb",
	Name:      "notifications_failed_total",
	Help:      "Notifications the sink failed to accept, by kind.",
}, []string{"kind"})

// NotificationInput is one message for the notification sink.
type NotificationInput struct {
	RecipientID string
	Kind        string
	Message     string
	Link        string
	TriggeredBy string
	Payload     map[string]any
}

// Notifier is the write-only notification sink.
type Notifier interface {
	Notify(ctx context.Context, n NotificationInput) error
}

// Dispatcher delivers to a Notifier without ever failing the caller.
// Sink errors are logged and counted.
type Dispatcher struct {
	sink Notifier
	log  zerolog.Logger
}

// NewDispatcher wraps sink. A nil sink disables notifications.
func NewDispatcher(sink Notifier, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{sink: sink, log: log.With().Str("component", "notify").Logger()}
}

// Send hands n to the sink.
func (d *Dispatcher) Send(ctx context.Context, n NotificationInput) {
	if d == nil || d.sink == nil || n.RecipientID == "" {
		return
	}
	if err := d.sink.Notify(context.WithoutCancel(ctx), n); err != nil {
		notificationsFailed.WithLabelValues(n.Kind).Inc()
		d.log.Warn().Err(err).
			Str("kind", n.Kind).
			Str("recipient", n.RecipientID).
			Msg("notification dropped")
	}
}

// NotificationStore persists notifications and serves them back to recipients.
type NotificationStore struct {
	db *gorm.DB
}

// NewNotificationStore creates a gorm backed sink.
func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// Notify implements Notifier.
func (s *NotificationStore) Notify(ctx context.Context, n NotificationInput) error {
	if strings.TrimSpace(n.Message) == "" {
		return fmt.Errorf("notification message is required")
	}
	row := models.Notification{
		NotificationID: uuid.NewString(),
		RecipientID:    n.RecipientID,
		Kind:           n.Kind,
		Message:        n.Message,
		Link:           n.Link,
		TriggeredBy:    n.TriggeredBy,
	}
	if len(n.Payload) > 0 {
		payload, err := models.JSONOf(n.Payload)
		if err != nil {
			return fmt.Errorf("encode notification payload: %w", err)
		}
		row.Payload = payload
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// List returns the actor's notifications, newest first.
func (s *NotificationStore) List(ctx context.Context, actor models.Actor, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Where("recipient_id = ?", actor.ID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	out := []models.Notification{}
	if err := q.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// MarkRead marks one of the actor's notifications as read.
func (s *NotificationStore) MarkRead(ctx context.Context, actor models.Actor, id string) error {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("notification_id = ? AND recipient_id = ?", id, actor.ID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return types.NotFound("notification %s not found", id)
	}
	return nil
}
