package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/growthdb/internal/config"
	"github.com/localnerve/growthdb/internal/middleware"
	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/services"
	"github.com/localnerve/growthdb/internal/testhelpers"
	"github.com/rs/zerolog"
)

func setupApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()
	users := services.NewUserService(testhelpers.OpenTestDB(t))

	app := fiber.New()
	app.Use(middleware.Authenticate(cfg, users, zerolog.Nop()))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(c.Locals(middleware.ActorKey))
	})
	app.Get("/providers-only", middleware.RequireRole(models.RoleProvider), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestHeaderAuthentication(t *testing.T) {
	app := setupApp(t, &config.Config{AuthMode: config.AuthModeHeader})

	resp := testhelpers.Do(t, app, http.MethodGet, "/whoami", &models.Actor{ID: "u1", Role: "Provider", Name: "Dr. Lee"}, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	var actor models.Actor
	testhelpers.ParseJSON(t, resp, &actor)
	if actor.ID != "u1" || actor.Role != models.RoleProvider || actor.Name != "Dr. Lee" {
		t.Errorf("unexpected actor: %+v", actor)
	}

	// a later request without a name keeps the stored one
	resp = testhelpers.Do(t, app, http.MethodGet, "/whoami", &models.Actor{ID: "u1", Role: models.RoleProvider}, nil)
	testhelpers.ParseJSON(t, resp, &actor)
	if actor.Name != "Dr. Lee" {
		t.Errorf("expected stored name, got %q", actor.Name)
	}
}

func TestHeaderAuthenticationRejects(t *testing.T) {
	app := setupApp(t, &config.Config{AuthMode: config.AuthModeHeader})

	resp := testhelpers.Do(t, app, http.MethodGet, "/whoami", nil, nil)
	testhelpers.AssertStatus(t, resp, http.StatusUnauthorized)

	resp = testhelpers.Do(t, app, http.MethodGet, "/whoami", &models.Actor{ID: "u1", Role: "nurse"}, nil)
	testhelpers.AssertStatus(t, resp, http.StatusUnauthorized)
}

func TestSessionModeRequiresCookie(t *testing.T) {
	app := setupApp(t, &config.Config{AuthMode: config.AuthModeAuthorizer, AuthzURL: "http://127.0.0.1:1", AuthzClientID: "c"})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil), -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	testhelpers.AssertStatus(t, resp, http.StatusUnauthorized)
}

func TestRequireRole(t *testing.T) {
	app := setupApp(t, &config.Config{AuthMode: config.AuthModeHeader})

	resp := testhelpers.Do(t, app, http.MethodGet, "/providers-only", &models.Actor{ID: "p1", Role: models.RoleParent}, nil)
	testhelpers.AssertStatus(t, resp, http.StatusForbidden)

	resp = testhelpers.Do(t, app, http.MethodGet, "/providers-only", &models.Actor{ID: "d1", Role: models.RoleProvider}, nil)
	testhelpers.AssertStatus(t, resp, http.StatusNoContent)
}
