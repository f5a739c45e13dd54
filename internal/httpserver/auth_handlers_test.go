package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pokeru-app/backend/internal/blocklist"
	mwauth "github.com/pokeru-app/backend/internal/middleware/auth"
	"github.com/pokeru-app/backend/internal/models"
	"github.com/pokeru-app/backend/internal/repo"
	"github.com/pokeru-app/backend/internal/service"
	"github.com/pokeru-app/backend/internal/tokens"

	"github.com/alicebob/miniredis/v2"
)

type stubMailer struct {
	html string
	sent int
}

func (m *stubMailer) Send(_ context.Context, _ []string, _, html string) error {
	m.html = html
	m.sent++
	return nil
}

type testServer struct {
	e      *echo.Echo
	svc    *service.AuthService
	mailer *stubMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Game{}))

	codec, err := tokens.NewCodec([]byte("test-secret"), "HS256", 15*time.Minute, 48*time.Hour)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	bl := blocklist.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { bl.Close() })

	gormRepo := &repo.GormRepo{DB: db}
	mailer := &stubMailer{}
	authSvc := &service.AuthService{
		Repo:       gormRepo,
		Codec:      codec,
		Safe:       tokens.NewSafeCodec([]byte("test-secret"), time.Hour),
		Blocklist:  bl,
		Mailer:     mailer,
		Domain:     "localhost:8080",
		APIVersion: "v1",
		JTIExpiry:  time.Hour,
	}
	gameSvc := &service.GameService{Repo: gormRepo}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler: &AuthHTTP{Svc: authSvc},
		GameHandler: &GameHTTP{Svc: gameSvc},
		Guard:       &mwauth.TokenGuard{Codec: codec, Blocklist: bl},
		Roles:       &mwauth.RoleGate{Users: gormRepo},
		APIVersion:  "v1",
	})

	return &testServer{e: e, svc: authSvc, mailer: mailer}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

var signupBody = map[string]string{
	"email":            "a@tulane.edu",
	"username":         "bob123",
	"password":         "secret1",
	"confirm_password": "secret1",
}

// signupVerified registers bob123 and flips the verification flag
// directly in storage so login succeeds.
func (s *testServer) signupVerified(t *testing.T) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", signupBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	user, err := s.svc.Repo.GetUserByUsername(context.Background(), "bob123")
	require.NoError(t, err)
	user.IsVerified = true
	require.NoError(t, s.svc.Repo.SaveUser(context.Background(), user))
}

func (s *testServer) login(t *testing.T) (access, refresh string) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "bob123",
		"password": "secret1",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	access, _ = resp["access_token"].(string)
	refresh, _ = resp["refresh_token"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	return access, refresh
}

func TestSignupEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", signupBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "bob123", user.Username)
	require.Equal(t, "Tulane University", user.College)
	require.Equal(t, "basic_user", user.Role)
	require.False(t, user.IsVerified)
	require.NotContains(t, rec.Body.String(), "secret1")

	rec = s.do(t, http.MethodPost, "/api/v1/auth/signup", signupBody, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "already exists")

	bad := map[string]string{
		"email":            "b@example.com",
		"username":         "carol",
		"password":         "secret1",
		"confirm_password": "secret1",
	}
	rec = s.do(t, http.MethodPost, "/api/v1/auth/signup", bad, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginUnverifiedEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", signupBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "bob123",
		"password": "secret1",
	}, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "verify your account")
	require.Equal(t, 1, s.mailer.sent)
}

func TestVerifyEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", signupBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "bob123",
		"password": "secret1",
	}, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	const marker = "/api/v1/auth/verify/"
	i := strings.Index(s.mailer.html, marker)
	require.GreaterOrEqual(t, i, 0)
	token := s.mailer.html[i+len(marker):]
	token = token[:strings.IndexByte(token, '\'')]

	rec = s.do(t, http.MethodGet, marker+token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	access, _ := s.login(t)
	require.NotEmpty(t, access)

	rec = s.do(t, http.MethodGet, marker+"garbage", nil, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMeEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.signupVerified(t)
	access, _ := s.login(t)

	rec := s.do(t, http.MethodGet, "/api/v1/auth/me", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "bob123")

	rec = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	s := newTestServer(t)
	s.signupVerified(t)
	access, _ := s.login(t)

	rec := s.do(t, http.MethodGet, "/api/v1/auth/me", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/auth/logout", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, access)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid or revoked token")
}

func TestRefreshEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.signupVerified(t)
	access, refresh := s.login(t)

	rec := s.do(t, http.MethodGet, "/api/v1/auth/refresh_token", nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["access_token"])

	// An access token is the wrong kind here.
	rec = s.do(t, http.MethodGet, "/api/v1/auth/refresh_token", nil, access)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "please provide a refresh token")
}

func TestPasswordResetEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.signupVerified(t)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/password-reset-request", map[string]string{
		"email": "a@tulane.edu",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Unknown addresses receive the same response.
	rec = s.do(t, http.MethodPost, "/api/v1/auth/password-reset-request", map[string]string{
		"email": "ghost@tulane.edu",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	const marker = "/api/v1/auth/password-reset-confirm/"
	i := strings.Index(s.mailer.html, marker)
	require.GreaterOrEqual(t, i, 0)
	token := s.mailer.html[i+len(marker):]
	token = token[:strings.IndexByte(token, '\'')]

	rec = s.do(t, http.MethodPost, marker+token, map[string]string{
		"new_password":         "newsecret",
		"confirm_new_password": "other",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// The last reset mail went to the unknown address, so confirming
	// with its token reports an unknown user.
	rec = s.do(t, http.MethodPost, marker+token, map[string]string{
		"new_password":         "newsecret",
		"confirm_new_password": "newsecret",
	}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditProfileEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.signupVerified(t)
	access, _ := s.login(t)

	rec := s.do(t, http.MethodPatch, "/api/v1/auth/edit-profile", map[string]string{
		"username": "",
	}, access)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/v1/auth/edit-profile", map[string]string{
		"username": "bobby",
	}, access)
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := s.svc.Repo.GetUserByUsername(context.Background(), "bobby")
	require.NoError(t, err)
	require.Equal(t, "a@tulane.edu", user.Email)
}

func TestDeleteAccountEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.signupVerified(t)
	access, _ := s.login(t)

	rec := s.do(t, http.MethodDelete, "/api/v1/auth/delete-account", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := s.svc.Repo.GetUserByUsername(context.Background(), "bob123")
	require.ErrorIs(t, err, repo.ErrUserNotFound)
}
