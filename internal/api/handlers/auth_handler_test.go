package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/tweetgenie/configs"
	"github.com/maheshrc27/tweetgenie/internal/models"
	"github.com/maheshrc27/tweetgenie/internal/service"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
	"github.com/maheshrc27/tweetgenie/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthConfig = config.Config{
	SecretKey:         "access-secret-0123456789",
	RefreshSecretKey:  "refresh-secret-0123456789",
	CookieName:        "accessToken",
	RefreshCookieName: "refreshToken",
}

// stubAuth accepts exactly one email/password pair.
type stubAuth struct {
	service.AuthService
}

func (stubAuth) Login(_ context.Context, email, password string) (*models.User, error) {
	if email == "erin@example.com" && password == "secret1" {
		return &models.User{ID: 9, Name: "Erin", Email: email}, nil
	}
	return nil, service.ErrInvalidCredentials
}

func (stubAuth) Signup(_ context.Context, _ transfer.SignupRequest) error {
	return nil
}

func newAuthApp() *fiber.App {
	h := NewAuthHandler(testAuthConfig, stubAuth{})
	app := fiber.New()
	app.Post("/auth/signup", h.Signup)
	app.Post("/auth/login", h.Login)
	app.Post("/auth/refresh", h.Refresh)
	app.Post("/auth/logout", h.Logout)
	return app
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestLoginSetsSessionCookies(t *testing.T) {
	app := newAuthApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/login", fiber.Map{
		"email":    "erin@example.com",
		"password": "secret1",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	access := cookieValue(resp, "accessToken")
	claims, err := utils.ValidateToken(testAuthConfig.SecretKey, access)
	require.NoError(t, err)
	assert.Equal(t, "9", claims.UserID)

	refresh := cookieValue(resp, "refreshToken")
	_, err = utils.ValidateToken(testAuthConfig.RefreshSecretKey, refresh)
	assert.NoError(t, err)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app := newAuthApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/login", fiber.Map{
		"email":    "erin@example.com",
		"password": "nope",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, cookieValue(resp, "accessToken"))
}

func TestSignupValidatesBody(t *testing.T) {
	app := newAuthApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/signup", fiber.Map{
		"name":     "Erin",
		"email":    "not-an-email",
		"password": "secret1",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp)["success"])
}

func TestRefresh(t *testing.T) {
	app := newAuthApp()

	refresh, err := utils.GenerateToken(testAuthConfig.RefreshSecretKey, "9", utils.RefreshTokenDuration)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	claims, err := utils.ValidateToken(testAuthConfig.SecretKey, cookieValue(resp, "accessToken"))
	require.NoError(t, err)
	assert.Equal(t, "9", claims.UserID)

	// an access token is not accepted as a refresh token
	access, err := utils.GenerateToken(testAuthConfig.SecretKey, "9", utils.AccessTokenDuration)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: access})
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
