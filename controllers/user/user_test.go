package user

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

	h := NewUserController(db)

	app := fiber.New()
	group := app.Group("/user").Use(middleware.RequireAuth(tokens))
	group.Get("/me", h.Me)
	group.Put("/me", h.UpdateMe)

	return app, db, tokens
}

func seedUser(t *testing.T, db *gorm.DB, tokens *token.Service) (*userModel.User, string) {
	t.Helper()

	u := &userModel.User{
		Uuid:               uuid.NewString(),
		Name:               "Alice",
		Email:              "alice@example.com",
		Role:               userModel.RoleParticipant,
		OtpVerified:        true,
		IsActive:           true,
		EmailNotifications: true,
	}
	require.NoError(t, db.Create(u).Error)

	signed, err := tokens.Sign(u)
	require.NoError(t, err)
	return u, signed
}

func doRequest(t *testing.T, app *fiber.App, method, path, bearer string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var raw []byte
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
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

func TestMeRequiresAuth(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, _ := doRequest(t, app, "GET", "/user/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestMeReturnsProfileWithoutPasswordHash(t *testing.T) {
	app, db, tokens := newTestApp(t)
	hash := "not-a-real-hash"
	u, bearer := seedUser(t, db, tokens)
	require.NoError(t, db.Model(u).Update("password_hash", hash).Error)

	status, body := doRequest(t, app, "GET", "/user/me", bearer, nil)
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Alice", data["name"])
	assert.Equal(t, "alice@example.com", data["email"])
	_, leaked := data["password_hash"]
	assert.False(t, leaked)
}

func TestMeWithStaleToken(t *testing.T) {
	app, db, tokens := newTestApp(t)
	u, bearer := seedUser(t, db, tokens)
	require.NoError(t, db.Delete(u).Error)

	status, _ := doRequest(t, app, "GET", "/user/me", bearer, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUpdateMePartial(t *testing.T) {
	app, db, tokens := newTestApp(t)
	u, bearer := seedUser(t, db, tokens)

	status, _ := doRequest(t, app, "PUT", "/user/me", bearer, fiber.Map{
		"name":                "Alice Renamed",
		"email_notifications": false,
	})
	require.Equal(t, fiber.StatusOK, status)

	var stored userModel.User
	require.NoError(t, db.First(&stored, u.ID).Error)
	assert.Equal(t, "Alice Renamed", stored.Name)
	assert.False(t, stored.EmailNotifications)
	// Untouched fields keep their values.
	assert.True(t, stored.IsActive)
	assert.Equal(t, "alice@example.com", stored.Email)
}

func TestUpdateMeRejectsEmptyName(t *testing.T) {
	app, db, tokens := newTestApp(t)
	_, bearer := seedUser(t, db, tokens)

	status, _ := doRequest(t, app, "PUT", "/user/me", bearer, fiber.Map{"name": ""})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestUpdateMeSetsAvatar(t *testing.T) {
	app, db, tokens := newTestApp(t)
	u, bearer := seedUser(t, db, tokens)

	status, _ := doRequest(t, app, "PUT", "/user/me", bearer, fiber.Map{
		"avatar_url": "https://cdn.example.com/me.png",
	})
	require.Equal(t, fiber.StatusOK, status)

	var stored userModel.User
	require.NoError(t, db.First(&stored, u.ID).Error)
	assert.Equal(t, "https://cdn.example.com/me.png", stored.Avatar())
}
