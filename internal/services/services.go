package services

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Services wires the domain services over one database.
type Services struct {
	Users         *UserService
	Graph         *RelationshipGraph
	Metrics       *MetricStore
	Profiles      *ProfileService
	Growth        *GrowthService
	Nutrition     *NutritionEngine
	Notifications *NotificationStore
}

// New builds every service. Notifications are persisted to db.
func New(db *gorm.DB, log zerolog.Logger, notesMax int) *Services {
	notifications := NewNotificationStore(db)
	return NewWithSink(db, log, notesMax, notifications)
}

// NewWithSink is New with a caller supplied notification sink.
func NewWithSink(db *gorm.DB, log zerolog.Logger, notesMax int, sink Notifier) *Services {
	dispatcher := NewDispatcher(sink, log)
	users := NewUserService(db)
	graph := NewRelationshipGraph(db, users, dispatcher, log)
	metrics := NewMetricStore(db, graph, users, dispatcher, log, notesMax)
	profiles := NewProfileService(db, graph)

	return &Services{
		Users:         users,
		Graph:         graph,
		Metrics:       metrics,
		Profiles:      profiles,
		Growth:        NewGrowthService(metrics, profiles),
		Nutrition:     NewNutritionEngine(db, graph, log, notesMax),
		Notifications: NewNotificationStore(db),
	}
}
