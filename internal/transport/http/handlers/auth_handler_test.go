package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sumit-9900/backend-project/internal/repository/memory"
	"github.com/Sumit-9900/backend-project/internal/service"
	"github.com/Sumit-9900/backend-project/internal/token"
	"github.com/Sumit-9900/backend-project/internal/transport/http/middleware"
)

type fakeUploader struct {
	fail bool
}

func (f *fakeUploader) Upload(ctx context.Context, localPath string) (string, error) {
	if f.fail {
		return "", fmt.Errorf("upload failed")
	}
	return "https://media.example.com/" + localPath, nil
}

// newTestServer wires the full HTTP surface against an in-memory repository.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tokens, err := token.NewManager("access-secret", "refresh-secret", 15*time.Minute, 240*time.Hour)
	require.NoError(t, err)

	repo := memory.NewUserRepo()
	uploader := &fakeUploader{}

	authService := service.NewAuthService(repo, tokens, uploader)
	userService := service.NewUserService(repo, uploader)

	authHandler := NewAuthHandler(authService, zap.NewNop())
	userHandler := NewUserHandler(userService, zap.NewNop())
	auth := middleware.Auth(tokens)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/users/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/users/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/users/refresh-token", authHandler.RefreshToken)
	mux.Handle("POST /api/v1/users/logout", auth(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("POST /api/v1/users/change-password", auth(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("GET /api/v1/users/current-user", auth(http.HandlerFunc(userHandler.CurrentUser)))
	mux.Handle("POST /api/v1/users/update-user-details", auth(http.HandlerFunc(userHandler.UpdateDetails)))
	mux.Handle("POST /api/v1/users/update-user-avatar", auth(http.HandlerFunc(userHandler.UpdateAvatar)))
	mux.Handle("POST /api/v1/users/update-user-cover-image", auth(http.HandlerFunc(userHandler.UpdateCoverImage)))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func registerForm(t *testing.T, withAvatar bool) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("username", "Alice"))
	require.NoError(t, mw.WriteField("email", "alice@example.com"))
	require.NoError(t, mw.WriteField("fullName", "Alice A"))
	require.NoError(t, mw.WriteField("password", "secret123"))

	if withAvatar {
		fw, err := mw.CreateFormFile("avatar", "avatar.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake-png-bytes"))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doRegister(t *testing.T, srv *httptest.Server) map[string]any {
	t.Helper()

	body, contentType := registerForm(t, true)
	resp, err := http.Post(srv.URL+"/api/v1/users/register", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return decodeEnvelope(t, resp)
}

func doLogin(t *testing.T, srv *httptest.Server) (*http.Response, map[string]any) {
	t.Helper()

	body := strings.NewReader(`{"username": "alice", "password": "secret123"}`)
	resp, err := http.Post(srv.URL+"/api/v1/users/login", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return resp, decodeEnvelope(t, resp)
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestRegisterEndpoint(t *testing.T) {
	srv := newTestServer(t)

	envelope := doRegister(t, srv)
	assert.Equal(t, float64(http.StatusCreated), envelope["statusCode"])
	assert.Equal(t, true, envelope["success"])

	user, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "refresh_token")
}

func TestRegisterEndpoint_MissingAvatar(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := registerForm(t, false)
	resp, err := http.Post(srv.URL+"/api/v1/users/register", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, false, envelope["success"])
	assert.Nil(t, envelope["data"])
}

func TestRegisterEndpoint_Duplicate(t *testing.T) {
	srv := newTestServer(t)
	doRegister(t, srv)

	body, contentType := registerForm(t, true)
	resp, err := http.Post(srv.URL+"/api/v1/users/register", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginEndpoint_SetsCookies(t *testing.T) {
	srv := newTestServer(t)
	doRegister(t, srv)

	resp, envelope := doLogin(t, srv)

	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])

	for _, name := range []string{"accessToken", "refreshToken"} {
		var found *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == name {
				found = c
			}
		}
		require.NotNil(t, found, "cookie %s must be set", name)
		assert.NotEmpty(t, found.Value)
		assert.True(t, found.HttpOnly)
		assert.True(t, found.Secure)
	}
}

func TestLoginEndpoint_WrongPassword(t *testing.T) {
	srv := newTestServer(t)
	doRegister(t, srv)

	body := strings.NewReader(`{"username": "alice", "password": "wrong-password"}`)
	resp, err := http.Post(srv.URL+"/api/v1/users/login", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshEndpoint_RotatesAndRejectsReplay(t *testing.T) {
	srv := newTestServer(t)
	doRegister(t, srv)
	loginResp, _ := doLogin(t, srv)

	refresh := cookieValue(loginResp, "refreshToken")
	require.NotEmpty(t, refresh)

	// First refresh succeeds.
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/users/refresh-token", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Replaying the superseded token fails.
	req, err = http.NewRequest(http.MethodPost, srv.URL+"/api/v1/users/refresh-token", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshEndpoint_FromBody(t *testing.T) {
	srv := newTestServer(t)
	doRegister(t, srv)
	loginResp, _ := doLogin(t, srv)

	refresh := cookieValue(loginResp, "refreshToken")
	body := strings.NewReader(`{"refreshToken": "` + refresh + `"}`)
	resp, err := http.Post(srv.URL+"/api/v1/users/refresh-token", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefreshEndpoint_MissingToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/users/refresh-token", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutEndpoint_InvalidatesRefreshToken(t *testing.T) {
	srv := newTestServer(t)
	doRegister(t, srv)
	loginResp, _ := doLogin(t, srv)

	access := cookieValue(loginResp, "accessToken")
	refresh := cookieValue(loginResp, "refreshToken")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/users/logout", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Cleared cookies come back expired.
	for _, c := range resp.Cookies() {
		assert.Empty(t, c.Value)
	}

	// Refreshing with the pre-logout token now fails.
	req, err = http.NewRequest(http.MethodPost, srv.URL+"/api/v1/users/refresh-token", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChangePasswordEndpoint(t *testing.T) {
	srv := newTestServer(t)
	doRegister(t, srv)
	loginResp, _ := doLogin(t, srv)
	access := cookieValue(loginResp, "accessToken")

	body := strings.NewReader(`{"oldPassword": "secret123", "newPassword": "newsecret456"}`)
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/users/change-password", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChangePasswordEndpoint_SamePassword(t *testing.T) {
	srv := newTestServer(t)
	doRegister(t, srv)
	loginResp, _ := doLogin(t, srv)
	access := cookieValue(loginResp, "accessToken")

	body := strings.NewReader(`{"oldPassword": "secret123", "newPassword": "secret123"}`)
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/users/change-password", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
