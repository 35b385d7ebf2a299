package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer jwt-token", r.Header.Get("Authorization"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		json.NewEncoder(w).Encode(map[string]string{
			"id":    "user-123",
			"email": "coach@example.com",
		})
	}))
	defer server.Close()

	t.Setenv("AUTH_API_URL", server.URL)
	t.Setenv("AUTH_API_KEY", "service-key")
	client := NewClient()

	user, err := client.ResolveUser(context.Background(), "jwt-token")
	require.NoError(t, err)
	assert.Equal(t, "user-123", user.ID)
	assert.Equal(t, "coach@example.com", user.Email)
}

func TestResolveUserRejectedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid JWT"}`))
	}))
	defer server.Close()

	t.Setenv("AUTH_API_URL", server.URL)
	client := NewClient()

	_, err := client.ResolveUser(context.Background(), "expired-token")
	assert.Error(t, err)
}

func TestResolveUserEmptyID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"email": "coach@example.com"})
	}))
	defer server.Close()

	t.Setenv("AUTH_API_URL", server.URL)
	client := NewClient()

	_, err := client.ResolveUser(context.Background(), "token")
	assert.Error(t, err)
}
