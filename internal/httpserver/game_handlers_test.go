package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pokeru-app/backend/internal/models"
	"github.com/pokeru-app/backend/internal/tokens"
)

var gameBody = map[string]any{
	"title":     "Friday Night Holdem",
	"game_time": "2026-09-04 19:30",
	"location":  "LBC Room 212",
	"buy_in":    20,
	"host":      "bob123",
}

func TestGameRoutesRequireVerifiedUser(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/games", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// An unverified account carries a decodable token but must not
	// reach the game handlers.
	rec = s.do(t, http.MethodPost, "/api/v1/auth/signup", signupBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	user, err := s.svc.Repo.GetUserByUsername(context.Background(), "bob123")
	require.NoError(t, err)
	token, err := s.svc.Codec.Issue(tokens.UserSnapshot{
		Username: user.Username,
		UserUID:  user.UID.String(),
		Role:     user.Role,
	}, 0, false)
	require.NoError(t, err)

	rec = s.do(t, http.MethodGet, "/api/v1/games", nil, token)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "account not verified")
}

func TestGameCRUDEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.signupVerified(t)
	access, _ := s.login(t)

	rec := s.do(t, http.MethodPost, "/api/v1/games", gameBody, access)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "Friday Night Holdem", created.Title)
	require.Equal(t, 20, created.BuyIn)

	rec = s.do(t, http.MethodGet, "/api/v1/games", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), created.UID.String())

	rec = s.do(t, http.MethodGet, "/api/v1/games/"+created.UID.String(), nil, access)
	require.Equal(t, http.StatusOK, rec.Code)

	update := map[string]any{
		"title":     "Saturday Rebuy",
		"game_time": "2026-09-05 20:00",
		"location":  "LBC Room 212",
		"buy_in":    40,
	}
	rec = s.do(t, http.MethodPatch, "/api/v1/games/"+created.UID.String(), update, access)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "Saturday Rebuy", updated.Title)
	require.Equal(t, "bob123", updated.Host)

	rec = s.do(t, http.MethodDelete, "/api/v1/games/"+created.UID.String(), nil, access)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/games/"+created.UID.String(), nil, access)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGameEndpointValidation(t *testing.T) {
	s := newTestServer(t)
	s.signupVerified(t)
	access, _ := s.login(t)

	bad := map[string]any{
		"title":     "Midnight Game",
		"game_time": "tomorrow-ish",
		"location":  "Dorm Lounge",
		"buy_in":    10,
		"host":      "bob123",
	}
	rec := s.do(t, http.MethodPost, "/api/v1/games", bad, access)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/games/not-a-uuid", nil, access)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid game uid")
}
