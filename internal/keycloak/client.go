// Package keycloak is a minimal client for the identity provider's REST
// API. It covers the three calls the backend needs: obtaining an admin
// token, creating a user, and deleting a user again when a registration
// has to be rolled back.
package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"todolist/internal/config"
)

// Client talks to the Keycloak admin and token endpoints.
type Client struct {
	adminURL   string
	tokenURL   string
	realm      string
	adminUser  string
	adminPass  string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		adminURL:  strings.TrimRight(cfg.KeycloakAdminURL, "/"),
		tokenURL:  strings.TrimRight(cfg.KeycloakTokenURL, "/"),
		realm:     cfg.KeycloakRealm,
		adminUser: cfg.KeycloakAdminUsername,
		adminPass: cfg.KeycloakAdminPassword,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// UserRepresentation is the payload for user creation.
type UserRepresentation struct {
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	Enabled     bool         `json:"enabled"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	Credentials []Credential `json:"credentials"`
}

// Credential is a single credential entry of a user representation.
type Credential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

type tokenRequest struct {
	ClientID  string `json:"client_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	GrantType string `json:"grant_type"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// AdminToken obtains a bearer token for the admin-cli client through the
// password grant.
func (c *Client) AdminToken(ctx context.Context) (string, error) {
	body, err := json.Marshal(tokenRequest{
		ClientID:  "admin-cli",
		Username:  c.adminUser,
		Password:  c.adminPass,
		GrantType: "password",
	})
	if err != nil {
		return "", fmt.Errorf("marshal token request: %w", err)
	}
	url := c.tokenURL + "/realms/master/protocol/openid-connect/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request admin token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("admin token request failed: %s: %s", resp.Status, readBody(resp.Body))
	}
	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	return tok.AccessToken, nil
}

// CreateUser registers the user in the configured realm and returns the
// remote user id, taken from the Location header of the 201 response.
func (c *Client) CreateUser(ctx context.Context, token string, user UserRepresentation) (string, error) {
	body, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("marshal user representation: %w", err)
	}
	url := c.adminURL + "/admin/realms/" + c.realm + "/users"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build create user request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create remote user: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("remote registration failed: %s: %s", resp.Status, readBody(resp.Body))
	}
	// Keycloak answers 201 with Location: .../users/{id} and an empty body.
	return path.Base(resp.Header.Get("Location")), nil
}

// DeleteUser removes a user from the realm. Only used to roll back a
// registration whose local insert failed.
func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	url := c.adminURL + "/admin/realms/" + c.realm + "/users/" + id
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("build delete user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete remote user: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote delete failed: %s: %s", resp.Status, readBody(resp.Body))
	}
	return nil
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	return strings.TrimSpace(string(b))
}
