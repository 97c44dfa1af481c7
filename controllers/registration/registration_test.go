package registration

import (
	"bytes"
	"encoding/json"
	"fmt"
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

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	tokens *token.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		TokenTTL:      48 * time.Hour,
		ShortTokenTTL: 30 * time.Minute,
	}
	tokens := token.NewService(cfg)

	h := NewRegistrationController(db)

	app := fiber.New()
	app.Post("/participants/:eventId/join", middleware.RequireRoles(tokens,
		userModel.RoleParticipant), h.Join)
	app.Post("/participants/:eventId/leave", middleware.RequireRoles(tokens,
		userModel.RoleParticipant), h.Leave)
	app.Get("/registrations/organizer", middleware.RequireRoles(tokens,
		userModel.RoleAdmin, userModel.RoleOrganizer), h.OrganizerIndex)
	app.Get("/registrations/participant", middleware.RequireRoles(tokens,
		userModel.RoleParticipant), h.ParticipantIndex)

	return &testEnv{app: app, db: db, tokens: tokens}
}

func (e *testEnv) createUser(t *testing.T, role userModel.Role) (*userModel.User, string) {
	t.Helper()

	u := &userModel.User{
		Uuid:        uuid.NewString(),
		Name:        "User " + uuid.NewString()[:8],
		Email:       uuid.NewString()[:8] + "@example.com",
		Role:        role,
		OtpVerified: true,
		IsActive:    true,
	}
	require.NoError(t, e.db.Create(u).Error)

	signed, err := e.tokens.Sign(u)
	require.NoError(t, err)
	return u, signed
}

func (e *testEnv) createEvent(t *testing.T, organizerID uint, maxParticipants int) *eventModel.Event {
	t.Helper()

	ev := &eventModel.Event{
		Title:           "Test Event",
		Date:            time.Now().Add(72 * time.Hour),
		MaxParticipants: maxParticipants,
		Status:          eventModel.StatusUpcoming,
		OrganizerID:     organizerID,
	}
	require.NoError(t, e.db.Create(ev).Error)
	return ev
}

func (e *testEnv) request(t *testing.T, method, path, bearer string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(nil))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func TestJoinRequiresParticipantRole(t *testing.T) {
	env := newTestEnv(t)
	organizer, organizerToken := env.createUser(t, userModel.RoleOrganizer)
	ev := env.createEvent(t, organizer.ID, 100)

	status, _ := env.request(t, "POST", fmt.Sprintf("/participants/%d/join", ev.ID), organizerToken)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = env.request(t, "POST", fmt.Sprintf("/participants/%d/join", ev.ID), "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestJoinAndLeave(t *testing.T) {
	env := newTestEnv(t)
	organizer, _ := env.createUser(t, userModel.RoleOrganizer)
	participant, participantToken := env.createUser(t, userModel.RoleParticipant)
	ev := env.createEvent(t, organizer.ID, 100)

	status, _ := env.request(t, "POST", fmt.Sprintf("/participants/%d/join", ev.ID), participantToken)
	assert.Equal(t, fiber.StatusCreated, status)

	var count int64
	require.NoError(t, env.db.Model(&registrationModel.EventRegistration{}).
		Where("event_id = ? AND user_id = ?", ev.ID, participant.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	status, _ = env.request(t, "POST", fmt.Sprintf("/participants/%d/leave", ev.ID), participantToken)
	assert.Equal(t, fiber.StatusOK, status)

	require.NoError(t, env.db.Model(&registrationModel.EventRegistration{}).
		Where("event_id = ? AND user_id = ?", ev.ID, participant.ID).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestJoinUnknownEvent(t *testing.T) {
	env := newTestEnv(t)
	_, participantToken := env.createUser(t, userModel.RoleParticipant)

	status, _ := env.request(t, "POST", "/participants/9999/join", participantToken)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestJoinTwiceIsRejected(t *testing.T) {
	env := newTestEnv(t)
	organizer, _ := env.createUser(t, userModel.RoleOrganizer)
	_, participantToken := env.createUser(t, userModel.RoleParticipant)
	ev := env.createEvent(t, organizer.ID, 100)

	status, _ := env.request(t, "POST", fmt.Sprintf("/participants/%d/join", ev.ID), participantToken)
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = env.request(t, "POST", fmt.Sprintf("/participants/%d/join", ev.ID), participantToken)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestJoinFullEvent(t *testing.T) {
	env := newTestEnv(t)
	organizer, _ := env.createUser(t, userModel.RoleOrganizer)
	_, firstToken := env.createUser(t, userModel.RoleParticipant)
	_, secondToken := env.createUser(t, userModel.RoleParticipant)
	ev := env.createEvent(t, organizer.ID, 1)

	status, _ := env.request(t, "POST", fmt.Sprintf("/participants/%d/join", ev.ID), firstToken)
	require.Equal(t, fiber.StatusCreated, status)

	status, body := env.request(t, "POST", fmt.Sprintf("/participants/%d/join", ev.ID), secondToken)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Event is full", body["message"])
}

func TestLeaveWithoutRegistration(t *testing.T) {
	env := newTestEnv(t)
	organizer, _ := env.createUser(t, userModel.RoleOrganizer)
	_, participantToken := env.createUser(t, userModel.RoleParticipant)
	ev := env.createEvent(t, organizer.ID, 100)

	status, _ := env.request(t, "POST", fmt.Sprintf("/participants/%d/leave", ev.ID), participantToken)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestOrganizerIndexScopedToOwnEvents(t *testing.T) {
	env := newTestEnv(t)
	organizer, organizerToken := env.createUser(t, userModel.RoleOrganizer)
	other, _ := env.createUser(t, userModel.RoleOrganizer)
	p1, _ := env.createUser(t, userModel.RoleParticipant)
	p2, _ := env.createUser(t, userModel.RoleParticipant)

	ownEvent := env.createEvent(t, organizer.ID, 100)
	otherEvent := env.createEvent(t, other.ID, 100)

	require.NoError(t, env.db.Create(&registrationModel.EventRegistration{
		EventID: ownEvent.ID, UserID: p1.ID,
	}).Error)
	require.NoError(t, env.db.Create(&registrationModel.EventRegistration{
		EventID: otherEvent.ID, UserID: p2.ID,
	}).Error)

	status, body := env.request(t, "GET", "/registrations/organizer", organizerToken)
	require.Equal(t, fiber.StatusOK, status)

	items := body["data"].([]interface{})
	require.Len(t, items, 1)

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total"])
}

func TestParticipantIndexListsOwnRegistrations(t *testing.T) {
	env := newTestEnv(t)
	organizer, _ := env.createUser(t, userModel.RoleOrganizer)
	participant, participantToken := env.createUser(t, userModel.RoleParticipant)
	other, _ := env.createUser(t, userModel.RoleParticipant)

	ev1 := env.createEvent(t, organizer.ID, 100)
	ev2 := env.createEvent(t, organizer.ID, 100)

	require.NoError(t, env.db.Create(&registrationModel.EventRegistration{
		EventID: ev1.ID, UserID: participant.ID,
	}).Error)
	require.NoError(t, env.db.Create(&registrationModel.EventRegistration{
		EventID: ev2.ID, UserID: participant.ID,
	}).Error)
	require.NoError(t, env.db.Create(&registrationModel.EventRegistration{
		EventID: ev1.ID, UserID: other.ID,
	}).Error)

	status, body := env.request(t, "GET", "/registrations/participant", participantToken)
	require.Equal(t, fiber.StatusOK, status)

	items := body["data"].([]interface{})
	require.Len(t, items, 2)

	// Each row carries its event for display.
	first := items[0].(map[string]interface{})
	assert.NotNil(t, first["event"])
}
