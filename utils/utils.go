package utils

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"event-guard/constants"
	"event-guard/types"
)

// ParsePagination reads page and limit query params, clamping them to sane
// bounds.
func ParsePagination(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", constants.DefaultPage)
	limit = c.QueryInt("limit", constants.DefaultLimit)
	if page < 1 {
		page = constants.DefaultPage
	}
	if limit < 1 {
		limit = constants.DefaultLimit
	}
	if limit > constants.MaxLimit {
		limit = constants.MaxLimit
	}
	return page, limit
}

const passwordHashCost = 10

// HashPassword hashes a plaintext password for storage.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NormalizeEmail lowercases and trims an email address. All storage and
// lookups go through this so the unique constraint is case-insensitive in
// practice.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// credentialFields are masked out of persisted request logs.
var credentialFields = []string{"password", "newPassword", "code"}

// sanitizeRequestBody masks credential fields in a JSON request body before
// it is written to the logs table.
func sanitizeRequestBody(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		// Not JSON (e.g. multipart upload); don't persist raw bytes.
		if len(body) == 0 {
			return ""
		}
		return "[non-json body omitted]"
	}

	for _, field := range credentialFields {
		if _, ok := payload[field]; ok {
			payload[field] = "********"
		}
	}

	masked, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(masked)
}

// CreateSanitizedLogEntry creates a deep copied and sanitized log entry for
// the async logger. Credential fields are masked before they ever leave the
// request path.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	// Deep copies: fiber reuses request buffers after the handler returns.
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))
	clientIP := string([]byte(c.IP()))
	requestBody := sanitizeRequestBody(c.Body())
	responseBody := string(append([]byte(nil), c.Response().Body()...))

	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          method,
		URL:             url,
		ClientIP:        clientIP,
		RequestBody:     requestBody,
		ResponseBody:    responseBody,
		RequestHeaders:  string(requestHeaders),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}
