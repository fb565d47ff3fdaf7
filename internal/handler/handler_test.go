package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetings-api/internal/handler"
	"meetings-api/internal/middleware"
	"meetings-api/internal/model"
	"meetings-api/internal/store"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func setup(t *testing.T) (http.Handler, store.Store) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(st.Close)
	require.NoError(t, st.Migrate(ctx))
	return handler.NewRouter(handler.New(st, quiet), handler.RouterOptions{}), st
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func createUser(t *testing.T, h http.Handler, email, name string) model.User {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/users", map[string]string{"email": email, "name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.User](t, rec)
}

func meetingBody(userID string) map[string]any {
	return map[string]any{
		"title":       "Team Standup",
		"description": "Daily team sync meeting",
		"startTime":   "2025-11-01T09:00:00Z",
		"endTime":     "2025-11-01T09:30:00Z",
		"location":    "Conference Room A",
		"userId":      userID,
	}
}

// ----- greeting + health -----

func TestHello(t *testing.T) {
	h, _ := setup(t)

	tests := []struct {
		path, want string
	}{
		{"/hello", "Hello, World"},
		{"/hello?name=", "Hello, World"},
		{"/hello?name=testName", "Hello, testName"},
		{"/hello?name=Ada%20Lovelace", "Hello, Ada Lovelace"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, decode[map[string]string](t, rec)["message"])
		})
	}
}

func TestHealthConnected(t *testing.T) {
	h, _ := setup(t)

	rec := do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "connected", body["database"])
	assert.NotContains(t, body, "error")
	_, err := time.Parse(time.RFC3339Nano, body["timestamp"])
	assert.NoError(t, err)
}

func TestHealthDisconnected(t *testing.T) {
	h, st := setup(t)
	st.Close()

	rec := do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "disconnected", body["database"])
	assert.NotEmpty(t, body["error"])
	assert.NotEmpty(t, body["timestamp"])
}

// ----- users -----

func TestCreateAndGetUser(t *testing.T) {
	h, _ := setup(t)

	rec := do(t, h, http.MethodPost, "/users", map[string]string{"email": "a@b.com", "name": "A"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[map[string]any](t, rec)
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "a@b.com", created["email"])
	assert.Equal(t, "A", created["name"])
	assert.NotContains(t, created, "meetings")

	rec = do(t, h, http.MethodGet, "/users/"+created["id"].(string), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, created["id"], got["id"])
	assert.Equal(t, []any{}, got["meetings"])
}

func TestCreateUserWithoutName(t *testing.T) {
	h, _ := setup(t)

	rec := do(t, h, http.MethodPost, "/users", map[string]string{"email": "noname@b.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Contains(t, body, "name")
	assert.Nil(t, body["name"])
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	h, _ := setup(t)
	createUser(t, h, "dup@b.com", "First")

	rec := do(t, h, http.MethodPost, "/users", map[string]string{"email": "dup@b.com", "name": "Second"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, errorOf(t, rec))
}

func TestCreateUserValidation(t *testing.T) {
	h, _ := setup(t)

	tests := []struct {
		name string
		body any
	}{
		{"empty body", nil},
		{"missing email", map[string]string{"name": "X"}},
		{"blank email", map[string]string{"email": "  "}},
		{"email wrong type", `{"email": 42}`},
		{"malformed json", `{"email":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/users", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, errorOf(t, rec))
		})
	}
}

func TestGetUserNotFound(t *testing.T) {
	h, _ := setup(t)

	for _, id := range []string{uuid.New().String(), "not-an-id"} {
		rec := do(t, h, http.MethodGet, "/users/"+id, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", errorOf(t, rec))
	}
}

func TestListUsersNestsMeetings(t *testing.T) {
	h, _ := setup(t)

	rec := do(t, h, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	john := createUser(t, h, "john@example.com", "John Doe")
	createUser(t, h, "jane@example.com", "Jane Smith")
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/meetings", meetingBody(john.ID)).Code)

	rec = do(t, h, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]model.UserWithMeetings](t, rec)
	require.Len(t, users, 2)
	assert.Equal(t, john.ID, users[0].ID)
	require.Len(t, users[0].Meetings, 1)
	assert.Equal(t, "Team Standup", users[0].Meetings[0].Title)
	assert.Empty(t, users[1].Meetings)
}

func TestListUsersStoreError(t *testing.T) {
	h, st := setup(t)
	st.Close()

	rec := do(t, h, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, errorOf(t, rec))
}

// ----- meetings -----

func TestCreateMeeting(t *testing.T) {
	h, _ := setup(t)
	u := createUser(t, h, "a@b.com", "A")

	rec := do(t, h, http.MethodPost, "/meetings", meetingBody(u.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	m := decode[model.MeetingWithUser](t, rec)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "Team Standup", m.Title)
	assert.Equal(t, "Daily team sync meeting", *m.Description)
	assert.Equal(t, "Conference Room A", *m.Location)
	assert.Equal(t, u.ID, m.UserID)
	assert.Equal(t, u.ID, m.User.ID)
	assert.Equal(t, "a@b.com", m.User.Email)
	assert.True(t, m.StartTime.Equal(time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)))
	assert.True(t, m.EndTime.Equal(time.Date(2025, 11, 1, 9, 30, 0, 0, time.UTC)))

	rec = do(t, h, http.MethodGet, "/meetings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]model.MeetingWithUser](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, m.ID, list[0].ID)
	assert.Equal(t, u.ID, list[0].User.ID)
	assert.Equal(t, "A", *list[0].User.Name)
}

func TestCreateMeetingUnknownUser(t *testing.T) {
	h, _ := setup(t)

	rec := do(t, h, http.MethodPost, "/meetings", meetingBody(uuid.New().String()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, errorOf(t, rec))

	rec = do(t, h, http.MethodGet, "/meetings", nil)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCreateMeetingTimeFormats(t *testing.T) {
	h, _ := setup(t)
	u := createUser(t, h, "a@b.com", "A")
	want := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start any
	}{
		{"rfc3339 utc", "2025-11-01T09:00:00Z"},
		{"rfc3339 offset", "2025-11-01T10:00:00+01:00"},
		{"fractional", "2025-11-01T09:00:00.000Z"},
		{"zoneless", "2025-11-01T09:00:00"},
		{"epoch millis", want.UnixMilli()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := meetingBody(u.ID)
			body["startTime"] = tt.start
			rec := do(t, h, http.MethodPost, "/meetings", body)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			m := decode[model.MeetingWithUser](t, rec)
			assert.True(t, m.StartTime.Equal(want), m.StartTime)
		})
	}
}

func TestCreateMeetingStartAfterEnd(t *testing.T) {
	h, _ := setup(t)
	u := createUser(t, h, "a@b.com", "A")

	body := meetingBody(u.ID)
	body["startTime"], body["endTime"] = body["endTime"], body["startTime"]
	rec := do(t, h, http.MethodPost, "/meetings", body)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateMeetingOptionalFields(t *testing.T) {
	h, _ := setup(t)
	u := createUser(t, h, "a@b.com", "A")

	body := meetingBody(u.ID)
	delete(body, "description")
	delete(body, "location")
	rec := do(t, h, http.MethodPost, "/meetings", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Nil(t, got["description"])
	assert.Nil(t, got["location"])
}

func TestCreateMeetingValidation(t *testing.T) {
	h, _ := setup(t)
	u := createUser(t, h, "a@b.com", "A")

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing title", func(b map[string]any) { delete(b, "title") }},
		{"missing start", func(b map[string]any) { delete(b, "startTime") }},
		{"null end", func(b map[string]any) { b["endTime"] = nil }},
		{"bad start", func(b map[string]any) { b["startTime"] = "next tuesday" }},
		{"start wrong type", func(b map[string]any) { b["startTime"] = true }},
		{"missing user", func(b map[string]any) { delete(b, "userId") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := meetingBody(u.ID)
			tt.mutate(body)
			rec := do(t, h, http.MethodPost, "/meetings", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, errorOf(t, rec))
		})
	}
}

func TestGetMeeting(t *testing.T) {
	h, _ := setup(t)
	u := createUser(t, h, "a@b.com", "A")
	created := decode[model.MeetingWithUser](t, do(t, h, http.MethodPost, "/meetings", meetingBody(u.ID)))

	rec := do(t, h, http.MethodGet, "/meetings/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[model.MeetingWithUser](t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, u.Email, got.User.Email)

	rec = do(t, h, http.MethodGet, "/users/"+u.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	owner := decode[model.UserWithMeetings](t, rec)
	require.Len(t, owner.Meetings, 1)
	assert.Equal(t, created.ID, owner.Meetings[0].ID)
}

func TestGetMeetingNotFound(t *testing.T) {
	h, _ := setup(t)

	rec := do(t, h, http.MethodGet, "/meetings/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Meeting not found", errorOf(t, rec))
}

// ----- transport -----

func TestCORSHeaders(t *testing.T) {
	h, _ := setup(t)

	rec := do(t, h, http.MethodGet, "/hello", nil)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/users", nil)
	req.Header.Set("Access-Control-Request-Method", "POST")
	pre := httptest.NewRecorder()
	h.ServeHTTP(pre, req)
	assert.Equal(t, http.StatusNoContent, pre.Code)
}

func TestUnknownRoute(t *testing.T) {
	h, _ := setup(t)

	rec := do(t, h, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", errorOf(t, rec))

	rec = do(t, h, http.MethodDelete, "/users", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCreateRateLimited(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(st.Close)
	require.NoError(t, st.Migrate(ctx))

	rl := middleware.NewRateLimiter(0.001, 1)
	t.Cleanup(rl.Close)
	h := handler.NewRouter(handler.New(st, quiet), handler.RouterOptions{WriteLimiter: rl})

	createUser(t, h, "first@b.com", "A")
	rec := do(t, h, http.MethodPost, "/users", map[string]string{"email": "second@b.com"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// reads are not limited
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/users", nil).Code)
}
