package auth

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"CampusHire-backend/internal/config"
	"CampusHire-backend/internal/utilities"
)

// TestAuthConfig is the auth config used across package tests
var TestAuthConfig = config.Auth{
	SecretKey:        "test-secret-key",
	Issuer:           "CampusHire",
	AccessTTL:        time.Hour,
	BlacklistBackend: config.BackendMemory,
}

// GetAccessToken is a helper function to obtain an access token for a user by simulating a login API call.
// It returns the access token as a string and any error encountered during the process.
func GetAccessToken(
	t testing.TB,
	handler *LocalAuthHandler,
	email string,
	password string,
) (string, error) {
	t.Helper()
	rec, resp, err := utilities.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	if rec.Code != http.StatusOK {
		return "", fmt.Errorf("login Failed: status %d, body: %s", rec.Code, rec.Body.String())
	}
	token, ok := resp["access_token"].(string)
	if !ok || token == "" {
		return "", fmt.Errorf("login Failed: no access_token in response: %s", rec.Body.String())
	}
	return token, nil
}
