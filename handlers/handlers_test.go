package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"streakTrackerAPI/internal/auth"
	"streakTrackerAPI/internal/cache"
	"streakTrackerAPI/internal/events"
	"streakTrackerAPI/internal/store"
	"streakTrackerAPI/internal/streak"
	"streakTrackerAPI/middleware"
	"streakTrackerAPI/services"
)

type testServer struct {
	router *mux.Router
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	loc, err := time.LoadLocation(streak.DefaultTimezone)
	require.NoError(t, err)

	st := store.NewMemoryStore()
	tokens := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	dispatcher := services.NewEventDispatcher(events.LogPublisher{}, 1, 16)
	t.Cleanup(func() { dispatcher.Close() })

	authHandler := NewAuthHandler(services.NewUserService(st, tokens))
	streakHandler := NewStreakHandler(services.NewStreakService(st, streak.NewEngine(loc, streak.GapTolerant), cache.NoopCache{}, dispatcher))
	taskHandler := NewTaskHandler(services.NewTaskService(st))

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(tokens))

	authHandler.RegisterRoutes(api, protected)
	streakHandler.RegisterRoutes(protected)
	taskHandler.RegisterRoutes(protected)

	return &testServer{router: r}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// signup registers and logs in, returning the bearer token.
func (s *testServer) signup(t *testing.T, email string) string {
	t.Helper()

	rr := s.do(t, "POST", "/api/auth/register", "", map[string]string{
		"name": "Asha", "email": email, "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(t, "POST", "/api/auth/login", "", map[string]string{
		"email": email, "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst))
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rr, &body)
	return body["error"]
}
