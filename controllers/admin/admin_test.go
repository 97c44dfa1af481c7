package admin

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"event-guard/config"
	"event-guard/database"
	"event-guard/middleware"
	eventModel "event-guard/models/event"
	registrationModel "event-guard/models/registration"
	userModel "event-guard/models/user"
	"event-guard/services/token"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *token.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	tokens := token.NewService(&config.Config{
		JWTSecret:     "test-secret",
		TokenTTL:      48 * time.Hour,
		ShortTokenTTL: 30 * time.Minute,
	})

	h := NewAdminController(db)

	app := fiber.New()
	group := app.Group("/admin").Use(middleware.RequireRoles(tokens, userModel.RoleAdmin))
	group.Get("/users", h.Users)
	group.Get("/events", h.Events)
	group.Get("/registrations", h.Registrations)

	return app, db, tokens
}

func seedUser(t *testing.T, db *gorm.DB, tokens *token.Service, role userModel.Role) (*userModel.User, string) {
	t.Helper()

	u := &userModel.User{
		Uuid:        uuid.NewString(),
		Name:        "User " + uuid.NewString()[:8],
		Email:       uuid.NewString()[:8] + "@example.com",
		Role:        role,
		OtpVerified: true,
		IsActive:    true,
	}
	require.NoError(t, db.Create(u).Error)

	signed, err := tokens.Sign(u)
	require.NoError(t, err)
	return u, signed
}

func getJSON(t *testing.T, app *fiber.App, path, bearer string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest("GET", path, bytes.NewReader(nil))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app, db, tokens := newTestApp(t)
	_, organizerToken := seedUser(t, db, tokens, userModel.RoleOrganizer)
	_, participantToken := seedUser(t, db, tokens, userModel.RoleParticipant)

	for _, path := range []string{"/admin/users", "/admin/events", "/admin/registrations"} {
		status, _ := getJSON(t, app, path, organizerToken)
		assert.Equal(t, fiber.StatusForbidden, status, path)

		status, _ = getJSON(t, app, path, participantToken)
		assert.Equal(t, fiber.StatusForbidden, status, path)

		status, _ = getJSON(t, app, path, "")
		assert.Equal(t, fiber.StatusUnauthorized, status, path)
	}
}

func TestAdminUsersPaginated(t *testing.T) {
	app, db, tokens := newTestApp(t)
	_, adminToken := seedUser(t, db, tokens, userModel.RoleAdmin)

	for i := 0; i < 12; i++ {
		seedUser(t, db, tokens, userModel.RoleParticipant)
	}

	status, body := getJSON(t, app, "/admin/users?page=1&limit=10", adminToken)
	require.Equal(t, fiber.StatusOK, status)

	assert.Len(t, body["data"].([]interface{}), 10)
	pagination := body["pagination"].(map[string]interface{})
	// 12 participants plus the admin itself.
	assert.Equal(t, float64(13), pagination["total"])
	assert.Equal(t, float64(2), pagination["totalPages"])
}

func TestAdminEventsIncludeOrganizer(t *testing.T) {
	app, db, tokens := newTestApp(t)
	_, adminToken := seedUser(t, db, tokens, userModel.RoleAdmin)
	organizer, _ := seedUser(t, db, tokens, userModel.RoleOrganizer)

	require.NoError(t, db.Create(&eventModel.Event{
		Title:           "Expo",
		Date:            time.Now().Add(24 * time.Hour),
		MaxParticipants: 50,
		Status:          eventModel.StatusUpcoming,
		OrganizerID:     organizer.ID,
	}).Error)

	status, body := getJSON(t, app, "/admin/events", adminToken)
	require.Equal(t, fiber.StatusOK, status)

	items := body["data"].([]interface{})
	require.Len(t, items, 1)

	item := items[0].(map[string]interface{})
	org := item["organizer"].(map[string]interface{})
	assert.Equal(t, organizer.Name, org["name"])
}

func TestAdminRegistrationsIncludeEventAndUser(t *testing.T) {
	app, db, tokens := newTestApp(t)
	_, adminToken := seedUser(t, db, tokens, userModel.RoleAdmin)
	organizer, _ := seedUser(t, db, tokens, userModel.RoleOrganizer)
	participant, _ := seedUser(t, db, tokens, userModel.RoleParticipant)

	ev := &eventModel.Event{
		Title:           "Expo",
		Date:            time.Now().Add(24 * time.Hour),
		MaxParticipants: 50,
		Status:          eventModel.StatusUpcoming,
		OrganizerID:     organizer.ID,
	}
	require.NoError(t, db.Create(ev).Error)
	require.NoError(t, db.Create(&registrationModel.EventRegistration{
		EventID: ev.ID, UserID: participant.ID,
	}).Error)

	status, body := getJSON(t, app, "/admin/registrations", adminToken)
	require.Equal(t, fiber.StatusOK, status)

	items := body["data"].([]interface{})
	require.Len(t, items, 1)

	item := items[0].(map[string]interface{})
	assert.NotNil(t, item["event"])
	assert.NotNil(t, item["user"])
}
