package services

import (
	"context"
	"fmt"
	"time"

	"github.com/localnerve/growthdb/internal/config"
	"github.com/localnerve/growthdb/internal/utils"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Authorizer   string            `json:"authorizer"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// Healthy reports whether every dependency is reachable.
func (r HealthCheckResult) Healthy() bool {
	return r.Status == "healthy"
}

// HealthCheck checks the database and, in authorizer mode, the Authorizer service.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, log zerolog.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}
	fail := func(msg string) {
		result.Status = "unhealthy"
		if result.ErrorMessage == "" {
			result.ErrorMessage = msg
		} else {
			result.ErrorMessage += "; " + msg
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		fail(fmt.Sprintf("Database connection error: %v", err))
		log.Error().Err(err).Msg("health check failed: database connection")
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			fail(fmt.Sprintf("Database ping failed: %v", err))
			log.Error().Err(err).Msg("health check failed: database ping")
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	switch cfg.AuthMode {
	case config.AuthModeAuthorizer:
		if err := utils.PingAuthorizer(ctx, cfg.AuthzURL); err != nil {
			result.Authorizer = "unreachable"
			result.Details["authorizer_error"] = err.Error()
			fail(fmt.Sprintf("Authorizer ping failed: %v", err))
			log.Error().Err(err).Msg("health check failed: authorizer ping")
		} else {
			result.Authorizer = "ok"
			result.Details["authorizer_url"] = cfg.AuthzURL
		}
	default:
		result.Authorizer = "disabled"
	}

	if result.Healthy() {
		log.Debug().Msg("health check passed")
	}
	return result
}
