package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/growthdb/internal/config"
	"github.com/localnerve/growthdb/internal/middleware"
	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/services"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Set groups every route handler.
type Set struct {
	Connections   *ConnectionHandler
	Metrics       *MetricHandler
	Profiles      *ProfileHandler
	Nutrition     *NutritionHandler
	Notifications *NotificationHandler
	Health        *HealthHandler
}

// RegisterRoutes mounts the API on api. Everything except /health runs behind auth.
func RegisterRoutes(api fiber.Router, h Set, auth fiber.Handler) {
	api.Get("/health", h.Health.Health)

	secured := api.Group("", auth)

	secured.Get("/connections", h.Connections.ListConnections)
	secured.Get("/connections/pending", h.Connections.ListPending)
	secured.Post("/connections/requests", middleware.RequireRole(models.RoleParent), h.Connections.SendRequest)
	secured.Post("/connections/direct", middleware.RequireRole(models.RoleProvider), h.Connections.AddDirect)
	secured.Post("/connections/:id/accept", h.Connections.Accept)
	secured.Delete("/connections/:id/pending", h.Connections.DeletePending)
	secured.Delete("/connections/:id", h.Connections.DeleteAccepted)
	secured.Get("/subjects", middleware.RequireRole(models.RoleProvider), h.Connections.ListSubjects)

	secured.Post("/metrics/:kind/:subjectId", h.Metrics.AddEntry)
	secured.Get("/metrics/:kind/:subjectId", h.Metrics.GetHistory)
	secured.Patch("/metrics/:kind/:subjectId/entries/:entryId", h.Metrics.UpdateEntry)
	secured.Delete("/metrics/:kind/:subjectId/entries/:entryId", h.Metrics.DeleteEntry)

	// curves first, "curves" would otherwise match :kind
	secured.Get("/growth/curves/:kind", h.Metrics.GetCurves)
	secured.Get("/growth/:kind/:subjectId", h.Metrics.GetOverlay)

	secured.Put("/profile", h.Profiles.PutProfile)
	secured.Get("/profile/:subjectId", h.Profiles.GetProfile)
	secured.Put("/me", h.Profiles.PutMe)

	secured.Get("/nutrition/fluids", h.Nutrition.ListFluids)
	secured.Post("/nutrition/fluids", h.Nutrition.CreateFluids)
	secured.Get("/nutrition/fluids/summary", h.Nutrition.SummarizeFluids)
	secured.Patch("/nutrition/fluids/:id", h.Nutrition.UpdateFluid)
	secured.Delete("/nutrition/fluids/:id", h.Nutrition.DeleteFluid)

	secured.Get("/nutrition/solids", h.Nutrition.ListSolids)
	secured.Post("/nutrition/solids", h.Nutrition.CreateSolids)
	secured.Get("/nutrition/solids/summary", h.Nutrition.SummarizeSolids)
	secured.Patch("/nutrition/solids/:id", h.Nutrition.UpdateSolid)
	secured.Delete("/nutrition/solids/:id", h.Nutrition.DeleteSolid)

	secured.Get("/notifications", h.Notifications.ListNotifications)
	secured.Post("/notifications/:id/read", h.Notifications.MarkRead)
}

// NewSet builds the handlers over svc.
func NewSet(svc *services.Services, cfg *config.Config, db *gorm.DB, log zerolog.Logger) Set {
	return Set{
		Connections:   &ConnectionHandler{Graph: svc.Graph, Metrics: svc.Metrics, Log: log},
		Metrics:       &MetricHandler{Metrics: svc.Metrics, Growth: svc.Growth, Log: log},
		Profiles:      &ProfileHandler{Profiles: svc.Profiles, Users: svc.Users, Log: log},
		Nutrition:     &NutritionHandler{Engine: svc.Nutrition, Log: log},
		Notifications: &NotificationHandler{Store: svc.Notifications, Log: log},
		Health:        &HealthHandler{Config: cfg, DB: db, Log: log},
	}
}
