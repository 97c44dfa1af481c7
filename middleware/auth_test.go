package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-guard/config"
	userModel "event-guard/models/user"
	"event-guard/services/token"
)

func newTokens() *token.Service {
	return token.NewService(&config.Config{
		JWTSecret:     "test-secret",
		TokenTTL:      48 * time.Hour,
		ShortTokenTTL: 30 * time.Minute,
	})
}

func signFor(t *testing.T, tokens *token.Service, role userModel.Role) string {
	t.Helper()
	signed, err := tokens.Sign(&userModel.User{ID: 7, Name: "Test", Role: role})
	require.NoError(t, err)
	return signed
}

func newProtectedApp(tokens *token.Service, roles ...userModel.Role) *fiber.App {
	app := fiber.New()
	app.Get("/protected", RequireRoles(tokens, roles...), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": UserID(c)})
	})
	return app
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	app := newProtectedApp(newTokens())

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthRejectsMalformedHeader(t *testing.T) {
	app := newProtectedApp(newTokens())

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	app := newProtectedApp(newTokens())

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthAcceptsBearerToken(t *testing.T) {
	tokens := newTokens()
	app := newProtectedApp(tokens)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(t, tokens, userModel.RoleParticipant))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuthAcceptsAccessCookie(t *testing.T) {
	tokens := newTokens()
	app := newProtectedApp(tokens)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access", Value: signFor(t, tokens, userModel.RoleParticipant)})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRolesEnforcesRoleSet(t *testing.T) {
	tokens := newTokens()
	app := newProtectedApp(tokens, userModel.RoleAdmin, userModel.RoleOrganizer)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(t, tokens, userModel.RoleParticipant))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(t, tokens, userModel.RoleOrganizer))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
