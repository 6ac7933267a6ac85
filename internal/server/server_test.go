package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"microblog/internal/auth"
	"microblog/internal/config"
	"microblog/internal/models"
	"microblog/internal/testutil"
)

func newTestApp(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:       "handler-test-secret",
		TokenTTLSeconds: 3600,
		AllowedOrigins:  "*",
		UsersPerPage:    10,
		PostsPerPage:    10,
		CommentsPerPage: 10,
	}
	db := testutil.OpenDB(t)
	s := newServerWithDB(cfg, db)

	// Routes only; the prometheus middleware registers global
	// collectors and cannot be set up once per test.
	app := fiber.New()
	s.SetupRoutes(app)
	return app, s, db
}

func bearerFor(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := auth.IssueToken(user, s.config.JWTSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func basicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// doJSON runs one request through the app and decodes the JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path, authHeader string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return resp, nil
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		// Some endpoints return a bare JSON string.
		return resp, nil
	}
	return resp, body
}

// registerUser creates an account with a real password hash so the
// token flow works end to end.
func registerUser(t *testing.T, db *gorm.DB, username, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
