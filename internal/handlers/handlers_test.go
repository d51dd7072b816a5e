package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/growthdb/internal/config"
	"github.com/localnerve/growthdb/internal/handlers"
	"github.com/localnerve/growthdb/internal/middleware"
	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/services"
	"github.com/localnerve/growthdb/internal/testhelpers"
	"github.com/localnerve/growthdb/internal/utils"
	"github.com/rs/zerolog"
)

var (
	parent   = &models.Actor{ID: "parent-1", Role: models.RoleParent, Name: "Pat"}
	other    = &models.Actor{ID: "parent-2", Role: models.RoleParent, Name: "Oli"}
	provider = &models.Actor{ID: "provider-1", Role: models.RoleProvider, Name: "Dr. Reyes"}
)

// setupApp wires every route over a fresh in-memory database with header authentication
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testhelpers.OpenTestDB(t)
	log := zerolog.Nop()
	cfg := &config.Config{DBType: "sqlite-go", DBDatabase: "test", AuthMode: config.AuthModeHeader, NotesMaxLength: 500}

	svc := services.New(db, log, cfg.NotesMaxLength)
	app := fiber.New()
	handlers.RegisterRoutes(app.Group("/api"), handlers.NewSet(svc, cfg, db, log), middleware.Authenticate(cfg, svc.Users, log))
	return app
}

// login makes the actor known to the service, as the first authenticated request would
func login(t *testing.T, app *fiber.App, actor *models.Actor) {
	t.Helper()
	resp := testhelpers.Do(t, app, http.MethodGet, "/api/connections", actor, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
}

func connect(t *testing.T, app *fiber.App) models.Connection {
	t.Helper()
	login(t, app, provider)

	resp := testhelpers.Do(t, app, http.MethodPost, "/api/connections/requests", parent, map[string]string{"providerId": provider.ID})
	testhelpers.AssertStatus(t, resp, http.StatusCreated)
	var conn models.Connection
	testhelpers.ParseJSON(t, resp, &conn)

	resp = testhelpers.Do(t, app, http.MethodPost, fmt.Sprintf("/api/connections/%s/accept", conn.ConnectionID), provider, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	testhelpers.ParseJSON(t, resp, &conn)
	return conn
}

func TestUnauthenticated(t *testing.T) {
	app := setupApp(t)

	resp := testhelpers.Do(t, app, http.MethodGet, "/api/connections", nil, nil)
	testhelpers.AssertStatus(t, resp, http.StatusUnauthorized)

	var body utils.ErrorResponseStruct
	testhelpers.ParseJSON(t, resp, &body)
	if body.Type != "unauthenticated" || body.Ok {
		t.Errorf("unexpected error body: %+v", body)
	}

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/connections", &models.Actor{ID: "x", Role: "admin"}, nil)
	testhelpers.AssertStatus(t, resp, http.StatusUnauthorized)
}

func TestHealthIsPublic(t *testing.T) {
	app := setupApp(t)

	resp := testhelpers.Do(t, app, http.MethodGet, "/api/health", nil, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)

	var result services.HealthCheckResult
	testhelpers.ParseJSON(t, resp, &result)
	if !result.Healthy() || result.Database != "ok" || result.Authorizer != "disabled" {
		t.Errorf("unexpected health result: %+v", result)
	}
}

func TestConnectionRoutes(t *testing.T) {
	app := setupApp(t)
	conn := connect(t, app)

	if conn.Status != models.ConnectionAccepted {
		t.Fatalf("expected accepted connection, got %s", conn.Status)
	}

	// second accept is a state error
	resp := testhelpers.Do(t, app, http.MethodPost, fmt.Sprintf("/api/connections/%s/accept", conn.ConnectionID), provider, nil)
	testhelpers.AssertStatus(t, resp, http.StatusConflict)

	// duplicate request
	resp = testhelpers.Do(t, app, http.MethodPost, "/api/connections/requests", parent, map[string]string{"providerId": provider.ID})
	testhelpers.AssertStatus(t, resp, http.StatusConflict)

	// providers cannot send requests, parents cannot add directly
	resp = testhelpers.Do(t, app, http.MethodPost, "/api/connections/requests", provider, map[string]string{"providerId": "p"})
	testhelpers.AssertStatus(t, resp, http.StatusForbidden)
	resp = testhelpers.Do(t, app, http.MethodPost, "/api/connections/direct", parent, map[string]string{"parentId": "p"})
	testhelpers.AssertStatus(t, resp, http.StatusForbidden)

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/subjects", provider, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	var subjects []services.ConnectedSubject
	testhelpers.ParseJSON(t, resp, &subjects)
	if len(subjects) != 1 || subjects[0].SubjectID != parent.ID || subjects[0].Name != "Pat" {
		t.Errorf("unexpected subjects: %+v", subjects)
	}

	resp = testhelpers.Do(t, app, http.MethodDelete, "/api/connections/"+conn.ConnectionID, parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusForbidden)

	resp = testhelpers.Do(t, app, http.MethodDelete, "/api/connections/"+conn.ConnectionID, provider, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	testhelpers.AssertNoContent(t, resp)

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/metrics/weight/"+parent.ID, provider, nil)
	testhelpers.AssertStatus(t, resp, http.StatusForbidden)
}

func TestPendingRoutes(t *testing.T) {
	app := setupApp(t)
	login(t, app, provider)

	resp := testhelpers.Do(t, app, http.MethodPost, "/api/connections/requests", parent, map[string]string{"providerId": provider.ID})
	testhelpers.AssertStatus(t, resp, http.StatusCreated)
	var conn models.Connection
	testhelpers.ParseJSON(t, resp, &conn)

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/connections/pending", provider, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	var pending services.PendingConnections
	testhelpers.ParseJSON(t, resp, &pending)
	if len(pending.Incoming) != 1 || len(pending.Outgoing) != 0 {
		t.Errorf("unexpected pending lists: %+v", pending)
	}

	resp = testhelpers.Do(t, app, http.MethodDelete, fmt.Sprintf("/api/connections/%s/pending", conn.ConnectionID), other, nil)
	testhelpers.AssertStatus(t, resp, http.StatusForbidden)

	resp = testhelpers.Do(t, app, http.MethodDelete, fmt.Sprintf("/api/connections/%s/pending", conn.ConnectionID), parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusNoContent)

	resp = testhelpers.Do(t, app, http.MethodPost, fmt.Sprintf("/api/connections/%s/accept", conn.ConnectionID), provider, nil)
	testhelpers.AssertStatus(t, resp, http.StatusNotFound)
}

func TestMetricRoutes(t *testing.T) {
	app := setupApp(t)
	connect(t, app)
	target := "/api/metrics/weight/" + parent.ID

	resp := testhelpers.Do(t, app, http.MethodPost, target, parent, map[string]any{"value": "0"})
	testhelpers.AssertStatus(t, resp, http.StatusBadRequest)
	var invalid utils.ErrorResponseStruct
	testhelpers.ParseJSON(t, resp, &invalid)
	if invalid.Field != "value" || invalid.Bound == "" {
		t.Errorf("expected value bound in error, got %+v", invalid)
	}

	resp = testhelpers.Do(t, app, http.MethodPost, target, parent, map[string]any{"value": 3.9, "dateRecorded": "2024-02-01"})
	testhelpers.AssertStatus(t, resp, http.StatusCreated)
	var first services.EntryResult
	testhelpers.ParseJSON(t, resp, &first)

	resp = testhelpers.Do(t, app, http.MethodPost, target, provider, map[string]any{"value": "3.5", "dateRecorded": "2024-01-20"})
	testhelpers.AssertStatus(t, resp, http.StatusCreated)
	var second services.EntryResult
	testhelpers.ParseJSON(t, resp, &second)
	if second.Position != 0 || second.Version != 2 {
		t.Errorf("expected position 0 at version 2, got %d at %d", second.Position, second.Version)
	}

	resp = testhelpers.Do(t, app, http.MethodGet, target, provider, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	var history services.History
	testhelpers.ParseJSON(t, resp, &history)
	if len(history.Entries) != 2 || history.Entries[0].EntryID != second.Entry.EntryID {
		t.Errorf("unexpected history: %+v", history)
	}

	// the parent did not author the provider's entry
	entryURL := fmt.Sprintf("%s/entries/%s", target, second.Entry.EntryID)
	resp = testhelpers.Do(t, app, http.MethodPatch, entryURL, parent, map[string]any{"value": 3.6})
	testhelpers.AssertStatus(t, resp, http.StatusForbidden)

	resp = testhelpers.Do(t, app, http.MethodPatch, entryURL, provider, map[string]any{"notes": "rechecked"})
	testhelpers.AssertStatus(t, resp, http.StatusOK)

	resp = testhelpers.Do(t, app, http.MethodDelete, entryURL, provider, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	var deleted utils.SuccessResponseStruct
	testhelpers.ParseJSON(t, resp, &deleted)
	if !deleted.Ok || deleted.NewVersion != 4 {
		t.Errorf("unexpected delete response: %+v", deleted)
	}

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/metrics/weight/"+other.ID, parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusForbidden)

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/metrics/shoe-size/"+parent.ID, parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusBadRequest)
}

func TestBreastfeedingDuration(t *testing.T) {
	app := setupApp(t)
	target := "/api/metrics/breastfeeding/" + parent.ID

	resp := testhelpers.Do(t, app, http.MethodPost, target, parent, map[string]any{"duration": 12, "side": "left"})
	testhelpers.AssertStatus(t, resp, http.StatusCreated)
	var res services.EntryResult
	testhelpers.ParseJSON(t, resp, &res)
	if res.Entry.Value != 12 || res.Entry.Side != "left" {
		t.Errorf("unexpected entry: %+v", res.Entry)
	}

	resp = testhelpers.Do(t, app, http.MethodPost, target, parent, map[string]any{"duration": 12})
	testhelpers.AssertStatus(t, resp, http.StatusBadRequest)
}

func TestGrowthRoutes(t *testing.T) {
	app := setupApp(t)

	resp := testhelpers.Do(t, app, http.MethodPut, "/api/profile", parent, map[string]string{
		"childName": "Kit", "dateOfBirth": "2024-01-15", "gender": "female",
	})
	testhelpers.AssertStatus(t, resp, http.StatusOK)

	resp = testhelpers.Do(t, app, http.MethodPost, "/api/metrics/height/"+parent.ID, parent, map[string]any{"value": 53.7, "dateRecorded": "2024-02-15"})
	testhelpers.AssertStatus(t, resp, http.StatusCreated)

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/growth/height/"+parent.ID, parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	var overlay services.GrowthOverlay
	testhelpers.ParseJSON(t, resp, &overlay)
	if len(overlay.Points) != 1 || overlay.Points[0].AgeMonths != 1 || overlay.Points[0].Percentiles == nil {
		t.Fatalf("unexpected overlay: %+v", overlay)
	}

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/growth/curves/weight?gender=male", parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	var curves []handlers.CurveResponse
	testhelpers.ParseJSON(t, resp, &curves)
	if len(curves) != 1 || curves[0].Gender != "male" || len(curves[0].Rows) == 0 {
		t.Errorf("unexpected curves: %+v", curves)
	}

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/growth/curves/Weight?gender=Female", parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	curves = nil
	testhelpers.ParseJSON(t, resp, &curves)
	if len(curves) != 1 || curves[0].Metric != "weight" || curves[0].Gender != "female" {
		t.Errorf("unexpected curves for mixed case kind: %+v", curves)
	}

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/growth/curves/breastfeeding", parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusBadRequest)
}

func TestProfileRoutes(t *testing.T) {
	app := setupApp(t)

	resp := testhelpers.Do(t, app, http.MethodPut, "/api/profile", provider, map[string]string{
		"childName": "Kit", "dateOfBirth": "2024-01-15", "gender": "female",
	})
	testhelpers.AssertStatus(t, resp, http.StatusForbidden)

	resp = testhelpers.Do(t, app, http.MethodPut, "/api/profile", parent, map[string]string{
		"childName": "Kit", "dateOfBirth": "not a date", "gender": "female",
	})
	testhelpers.AssertStatus(t, resp, http.StatusBadRequest)

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/profile/"+parent.ID, parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusNotFound)

	resp = testhelpers.Do(t, app, http.MethodPut, "/api/me", parent, map[string]string{"name": "Patricia"})
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	var me models.Actor
	testhelpers.ParseJSON(t, resp, &me)
	if me.Name != "Patricia" || me.Role != models.RoleParent {
		t.Errorf("unexpected actor: %+v", me)
	}
}

func TestNutritionRoutes(t *testing.T) {
	app := setupApp(t)
	connect(t, app)

	// a single object and an array are both accepted
	resp := testhelpers.Do(t, app, http.MethodPost, "/api/nutrition/fluids", parent, map[string]any{
		"childName": "Kit", "fluidType": "milk", "amount": "120", "unit": "ml", "time": "2024-06-01T08:00:00Z",
	})
	testhelpers.AssertStatus(t, resp, http.StatusCreated)

	resp = testhelpers.Do(t, app, http.MethodPost, "/api/nutrition/fluids", parent, []map[string]any{
		{"childName": "Kit", "fluidType": "milk", "amount": 80, "unit": "ml", "time": "2024-06-01T12:00:00Z"},
		{"childName": "Kit", "fluidType": "water", "amount": 20, "unit": "ml", "time": "2024-06-02T09:00:00Z"},
	})
	testhelpers.AssertStatus(t, resp, http.StatusCreated)
	var created []models.FluidRecord
	testhelpers.ParseJSON(t, resp, &created)
	if len(created) != 2 {
		t.Fatalf("expected 2 records, got %d", len(created))
	}

	resp = testhelpers.Do(t, app, http.MethodPost, "/api/nutrition/fluids", provider, map[string]any{
		"childName": "Kit", "fluidType": "milk", "amount": 1, "unit": "ml",
	})
	testhelpers.AssertStatus(t, resp, http.StatusForbidden)

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/nutrition/fluids?endDate=2024-06-01", parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	var firstDay []models.FluidRecord
	testhelpers.ParseJSON(t, resp, &firstDay)
	if len(firstDay) != 2 {
		t.Errorf("expected the whole first day, got %d records", len(firstDay))
	}

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/nutrition/fluids/summary?parentId="+parent.ID, provider, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	var summary services.FluidSummary
	testhelpers.ParseJSON(t, resp, &summary)
	if summary.TotalRecords != 3 || len(summary.ByFluidType) != 2 || summary.ByFluidType[0].TotalAmount != 200 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/nutrition/fluids?parentId="+parent.ID, other, nil)
	testhelpers.AssertStatus(t, resp, http.StatusForbidden)

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/nutrition/fluids?startDate=yesterday", parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusBadRequest)

	resp = testhelpers.Do(t, app, http.MethodPatch, "/api/nutrition/fluids/"+created[1].RecordID, other, map[string]any{"amount": 25})
	testhelpers.AssertStatus(t, resp, http.StatusForbidden)

	resp = testhelpers.Do(t, app, http.MethodPatch, "/api/nutrition/fluids/"+created[1].RecordID, parent, map[string]any{"amount": 25})
	testhelpers.AssertStatus(t, resp, http.StatusOK)

	resp = testhelpers.Do(t, app, http.MethodDelete, "/api/nutrition/fluids/"+created[1].RecordID, parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusNoContent)
}

func TestSolidRoutes(t *testing.T) {
	app := setupApp(t)

	resp := testhelpers.Do(t, app, http.MethodPost, "/api/nutrition/solids", parent, map[string]any{
		"childName": "Kit", "foodType": "fruit", "foodName": "pear", "amount": 30, "unit": "g",
		"time": "2024-06-01T18:30:00Z", "reaction": "none",
	})
	testhelpers.AssertStatus(t, resp, http.StatusCreated)
	var created []models.SolidRecord
	testhelpers.ParseJSON(t, resp, &created)
	if len(created) != 1 || created[0].MealTime != models.MealDinner {
		t.Fatalf("unexpected solid records: %+v", created)
	}

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/nutrition/solids/summary", parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	var summary services.SolidSummary
	testhelpers.ParseJSON(t, resp, &summary)
	if summary.TotalRecords != 1 || len(summary.ByMealTime) != 1 || summary.ByMealTime[0].Key != models.MealDinner {
		t.Errorf("unexpected summary: %+v", summary)
	}

	resp = testhelpers.Do(t, app, http.MethodPatch, "/api/nutrition/solids/"+created[0].RecordID, parent, map[string]any{"mealTime": "brunch"})
	testhelpers.AssertStatus(t, resp, http.StatusBadRequest)

	resp = testhelpers.Do(t, app, http.MethodDelete, "/api/nutrition/solids/missing", parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusNotFound)
}

func TestNotificationRoutes(t *testing.T) {
	app := setupApp(t)
	connect(t, app)

	resp := testhelpers.Do(t, app, http.MethodGet, "/api/notifications?unread=true", parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	var inbox []models.Notification
	testhelpers.ParseJSON(t, resp, &inbox)
	if len(inbox) != 1 || inbox[0].Kind != models.NotifyConnectionAccepted {
		t.Fatalf("unexpected inbox: %+v", inbox)
	}

	resp = testhelpers.Do(t, app, http.MethodPost, fmt.Sprintf("/api/notifications/%s/read", inbox[0].NotificationID), provider, nil)
	testhelpers.AssertStatus(t, resp, http.StatusNotFound)

	resp = testhelpers.Do(t, app, http.MethodPost, fmt.Sprintf("/api/notifications/%s/read", inbox[0].NotificationID), parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusNoContent)

	resp = testhelpers.Do(t, app, http.MethodGet, "/api/notifications?unread=true", parent, nil)
	testhelpers.AssertStatus(t, resp, http.StatusOK)
	testhelpers.ParseJSON(t, resp, &inbox)
	if len(inbox) != 0 {
		t.Errorf("expected no unread notifications, got %d", len(inbox))
	}
}
