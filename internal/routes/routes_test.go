package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Nate5599/homework-helper/internal/handlers"
	"github.com/Nate5599/homework-helper/internal/mailer"
	"github.com/Nate5599/homework-helper/internal/middleware"
	"github.com/Nate5599/homework-helper/internal/repository"
	"github.com/Nate5599/homework-helper/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	dir := t.TempDir()
	sugar := zap.NewNop().Sugar()

	repo, err := repository.NewFileUserRepo(filepath.Join(dir, "users.json"), sugar)
	require.NoError(t, err)
	mail := mailer.NewClient("", 0, "", "", "")
	sessions := middleware.NewSessionManager("test-secret", "hh_session", time.Hour)

	authSvc := services.NewAuthService(repo, mail, sugar, 600*time.Second, 4, true, true)
	profileSvc := services.NewProfileService(repo, sugar, filepath.Join(dir, "uploads"), 512, 4)
	studySvc := services.NewStudyService(repo, sugar)
	answerSvc := services.NewAnswerService(repo, sugar)

	app := fiber.New()
	Setup(app,
		handlers.NewAuthHandler(authSvc, sessions, sugar),
		handlers.NewProfileHandler(profileSvc, sugar),
		handlers.NewStudyHandler(studySvc, answerSvc, sugar),
		sessions,
	)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, cookie *http.Cookie) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "hh_session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/api/v1/me", "/api/v1/history", "/api/v1/flashcards", "/api/v1/planner"} {
		resp := doJSON(t, app, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
	resp := doJSON(t, app, http.MethodPost, "/api/v1/ask", map[string]string{"question": "q"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignupLoginAndAskFlow(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"username": "alice",
		"email":    "a@x.com",
		"password": "pw1",
		"consent":  true,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "/onboarding", body["redirect"])
	cookie := sessionCookie(t, resp)

	// session identifies alice
	resp = doJSON(t, app, http.MethodGet, "/api/v1/me", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode(t, resp)
	assert.Equal(t, "alice", me["username"])
	assert.Equal(t, true, me["first_login"])

	// ask records history
	resp = doJSON(t, app, http.MethodPost, "/api/v1/ask", map[string]string{"question": "what is 2+2", "mode": "explain"}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ask := decode(t, resp)
	assert.Equal(t, "[TEST MODE] Step-by-step explanation for: what is 2+2", ask["answer"])

	resp = doJSON(t, app, http.MethodGet, "/api/v1/history", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hist := decode(t, resp)
	assert.Len(t, hist["history"], 1)

	// case-insensitive identifier login routes to onboarding until completed
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"identifier": "A@X.COM",
		"password":   "pw1",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode(t, resp)
	assert.Equal(t, "/onboarding", body["redirect"])

	resp = doJSON(t, app, http.MethodPost, "/api/v1/onboarding", map[string]string{"display_name": "Alice A."}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"identifier": "alice",
		"password":   "pw1",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode(t, resp)
	assert.Equal(t, "/", body["redirect"])
}

func TestLoginErrorResponses(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"username": "alice", "email": "a@x.com", "password": "pw1", "consent": true,
	}, nil)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"identifier": "nobody", "password": "pw1",
	}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"identifier": "alice", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEmailOTPEndpoints(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"username": "alice", "email": "a@x.com", "password": "pw1", "consent": true,
	}, nil)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/login/email/request", map[string]string{"email": "a@x.com"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "a*@x.com", body["email"])
	code, _ := body["dev_code"].(string)
	require.Len(t, code, 6)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login/email/verify", map[string]string{
		"email": "a@x.com", "code": code,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sessionCookie(t, resp)

	// unknown email is distinguished from a bad code
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login/email/request", map[string]string{"email": "ghost@x.com"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProviderEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/auth/dev/google", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "google_user", body["username"])
	sessionCookie(t, resp)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/auth/dev/myspace", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFlashcardAndPlannerEndpoints(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"username": "alice", "email": "a@x.com", "password": "pw1", "consent": true,
	}, nil)
	cookie := sessionCookie(t, resp)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/flashcards", map[string]string{"front": "f", "back": "b"}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// missing fields are rejected
	resp = doJSON(t, app, http.MethodPost, "/api/v1/flashcards", map[string]string{"front": "f"}, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/flashcards", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Len(t, body["flashcards"], 1)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/planner", map[string]string{"title": "essay", "date": "2026-09-01"}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, http.MethodGet, "/api/v1/planner", nil, cookie)
	body = decode(t, resp)
	assert.Len(t, body["planner"], 1)
}

func TestLogoutClearsCookie(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == "hh_session" {
			assert.Empty(t, c.Value)
		}
	}
}
