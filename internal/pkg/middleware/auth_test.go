package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dobosmarton/gaffer-app/internal/pkg/identity"
	"github.com/dobosmarton/gaffer-app/internal/pkg/usercontext"
)

func newProtectedApp(t *testing.T, authStatus int, userID string) *fiber.App {
	t.Helper()

	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authStatus != http.StatusOK {
			w.WriteHeader(authStatus)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": userID})
	}))
	t.Cleanup(authServer.Close)
	t.Setenv("AUTH_API_URL", authServer.URL)

	app := fiber.New()
	app.Get("/protected", RequireUser(identity.NewClient()), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": usercontext.GetUserID(c)})
	})
	return app
}

func TestRequireUserAllowsValidToken(t *testing.T) {
	app := newProtectedApp(t, http.StatusOK, "user-123")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "user-123", body["user_id"])
}

func TestRequireUserRejectsMissingHeader(t *testing.T) {
	app := newProtectedApp(t, http.StatusOK, "user-123")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireUserRejectsMalformedHeader(t *testing.T) {
	app := newProtectedApp(t, http.StatusOK, "user-123")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireUserRejectsExpiredToken(t *testing.T) {
	app := newProtectedApp(t, http.StatusUnauthorized, "")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
