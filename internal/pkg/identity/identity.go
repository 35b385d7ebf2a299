package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dobosmarton/gaffer-app/internal/pkg/env"
)

// User is the subset of the auth provider's user object we care about
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Client verifies bearer tokens against the external auth service. Every
// authenticated request carries a JWT issued by that service; we resolve it to
// a user ID instead of validating signatures locally.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL:    env.GetEnv("AUTH_API_URL", ""),
		apiKey:     env.GetEnv("AUTH_API_KEY", ""),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ResolveUser exchanges an access token for the user it belongs to. Returns an
// error for expired, malformed or revoked tokens.
func (c *Client) ResolveUser(ctx context.Context, accessToken string) (*User, error) {
	requestURL := fmt.Sprintf("%s/auth/v1/user", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("auth service rejected token (status %d): %s", resp.StatusCode, string(body))
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode auth service response: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("auth service returned no user id")
	}
	return &user, nil
}
