package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubmock/internal/adapters/auth"
	"clubmock/internal/domain"
	"clubmock/internal/storage"
	"clubmock/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestAPI(t *testing.T) (*API, *store.Store) {
	t.Helper()
	kv, err := storage.OpenFile(t.TempDir())
	require.NoError(t, err)
	st := store.New(kv, testLogger())
	st.Load()
	passwords := auth.NewPlainVerifier()
	require.NoError(t, st.SeedIfEmpty(passwords.Hash))
	api := New(st, auth.NewDemoCodec(), passwords, testLogger(), Options{})
	return api, st
}

// refusingTransport fails the test when the emulator lets a request through.
type refusingTransport struct {
	t *testing.T
}

func (rt refusingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.t.Fatalf("request to %s reached the base transport", req.URL)
	return nil, nil
}

// stubTransport records pass-through calls.
type stubTransport struct {
	called int
}

func (st *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	st.called++
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"X-Live-Backend": []string{"yes"}},
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Request:    req,
	}, nil
}

func newTestTransport(t *testing.T) (*Transport, *store.Store) {
	t.Helper()
	api, st := newTestAPI(t)
	return NewTransport(Emulated, api, refusingTransport{t: t}), st
}

func doJSON(t *testing.T, tr http.RoundTripper, method, url, token string, payload any) (int, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Transport: tr}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

func loginToken(t *testing.T, tr http.RoundTripper, email, password string) string {
	t.Helper()
	status, body := doJSON(t, tr, http.MethodPost, "http://localhost/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status, "login failed: %s", body)
	var resp struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var e struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Message
}

func TestTransport_EndToEnd(t *testing.T) {
	tr, _ := newTestTransport(t)

	// Register a new student.
	status, body := doJSON(t, tr, http.MethodPost, "http://localhost/api/auth/register", "", map[string]string{
		"email":     "newstudent@nu.edu.eg",
		"password":  "pw123456",
		"firstName": "Nour",
		"lastName":  "Said",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.NotContains(t, string(body), `"password"`, "registration response must not leak the password")

	var reg struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &reg))
	require.NotEmpty(t, reg.Token)
	assert.Equal(t, domain.RoleStudent, reg.User.Role)

	// The token resolves back to the same user.
	status, body = doJSON(t, tr, http.MethodGet, "http://localhost/api/auth/me", reg.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var me domain.User
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, reg.User.ID, me.ID)

	// Students cannot create clubs.
	status, _ = doJSON(t, tr, http.MethodPost, "http://localhost/api/clubs", reg.Token, map[string]string{
		"name":  "Robotics Club",
		"email": "robotics@nu.edu.eg",
	})
	assert.Equal(t, http.StatusForbidden, status)

	// The seeded admin can.
	adminToken := loginToken(t, tr, "admin@nu.edu.eg", "admin123")
	status, body = doJSON(t, tr, http.MethodPost, "http://localhost/api/clubs", adminToken, map[string]string{
		"name":  "Robotics Club",
		"email": "robotics@nu.edu.eg",
	})
	require.Equal(t, http.StatusCreated, status)
	var club domain.Club
	require.NoError(t, json.Unmarshal(body, &club))
	assert.NotEmpty(t, club.ID)
	assert.True(t, club.IsActive, "isActive defaults to true")
	assert.Equal(t, 0, club.MemberCount)
	assert.Equal(t, "TBD", club.President)
	assert.Equal(t, "General", club.Category)
}

func TestTransport_RegisterValidation(t *testing.T) {
	tr, _ := newTestTransport(t)

	tests := []struct {
		name        string
		payload     map[string]string
		wantMessage string
	}{
		{
			name:        "missing fields",
			payload:     map[string]string{"email": "a@nu.edu.eg"},
			wantMessage: "Missing required fields: email, password, firstName, lastName",
		},
		{
			name: "non-institutional email",
			payload: map[string]string{
				"email": "a@gmail.com", "password": "pw", "firstName": "A", "lastName": "B",
			},
			wantMessage: "Email must be a NU email address (@nu.edu.eg)",
		},
		{
			name: "duplicate email",
			payload: map[string]string{
				"email": "student1@nu.edu.eg", "password": "pw", "firstName": "A", "lastName": "B",
			},
			wantMessage: "Email already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, tr, http.MethodPost, "http://localhost/api/auth/register", "", tt.payload)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.wantMessage, errorMessage(t, body))
		})
	}
}

func TestTransport_LoginDoesNotLeakEmailExistence(t *testing.T) {
	tr, _ := newTestTransport(t)

	status, body := doJSON(t, tr, http.MethodPost, "http://localhost/api/auth/login", "", map[string]string{
		"email": "student1@nu.edu.eg", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	wrongPassword := errorMessage(t, body)

	status, body = doJSON(t, tr, http.MethodPost, "http://localhost/api/auth/login", "", map[string]string{
		"email": "ghost@nu.edu.eg", "password": "whatever",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	unknownEmail := errorMessage(t, body)

	assert.Equal(t, wrongPassword, unknownEmail, "both failures must yield the same message")

	status, _ = doJSON(t, tr, http.MethodPost, "http://localhost/api/auth/login", "", map[string]string{
		"email": "student1@nu.edu.eg",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTransport_Me(t *testing.T) {
	tr, _ := newTestTransport(t)

	status, body := doJSON(t, tr, http.MethodGet, "http://localhost/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized - no token provided", errorMessage(t, body))

	status, body = doJSON(t, tr, http.MethodGet, "http://localhost/api/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized - invalid token", errorMessage(t, body))
}

func TestTransport_ClubCRUD(t *testing.T) {
	tr, _ := newTestTransport(t)
	adminToken := loginToken(t, tr, "admin@nu.edu.eg", "admin123")

	// Reads are public, query strings are fine.
	status, body := doJSON(t, tr, http.MethodGet, "http://localhost/api/clubs?category=all", "", nil)
	require.Equal(t, http.StatusOK, status)
	var clubs []domain.Club
	require.NoError(t, json.Unmarshal(body, &clubs))
	assert.Len(t, clubs, 2)

	status, _ = doJSON(t, tr, http.MethodGet, "http://localhost/api/clubs/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Update merges partial fields.
	status, body = doJSON(t, tr, http.MethodPut, "http://localhost/api/clubs/1", adminToken, map[string]any{
		"name": "Tech & Innovation Club",
	})
	require.Equal(t, http.StatusOK, status)
	var updated domain.Club
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "Tech & Innovation Club", updated.Name)
	assert.Equal(t, "Technology", updated.Category)

	status, _ = doJSON(t, tr, http.MethodPut, "http://localhost/api/clubs/missing", adminToken, map[string]any{"name": "X"})
	assert.Equal(t, http.StatusNotFound, status)

	// Delete is admin-gated and idempotence-free: second call is a 404.
	status, _ = doJSON(t, tr, http.MethodDelete, "http://localhost/api/clubs/2", "", nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = doJSON(t, tr, http.MethodDelete, "http://localhost/api/clubs/2", adminToken, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = doJSON(t, tr, http.MethodDelete, "http://localhost/api/clubs/2", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTransport_EventCreateDefaults(t *testing.T) {
	tr, _ := newTestTransport(t)
	adminToken := loginToken(t, tr, "admin@nu.edu.eg", "admin123")

	status, body := doJSON(t, tr, http.MethodPost, "http://localhost/api/events", adminToken, map[string]any{
		"clubId": "1",
		"title":  "Career Fair",
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields: clubId, title, startDate, endDate", errorMessage(t, body))

	start := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
	status, body = doJSON(t, tr, http.MethodPost, "http://localhost/api/events", adminToken, map[string]any{
		"clubId":    "1",
		"title":     "Career Fair",
		"startDate": start,
		"endDate":   start,
	})
	require.Equal(t, http.StatusCreated, status)
	var event domain.Event
	require.NoError(t, json.Unmarshal(body, &event))
	assert.Equal(t, "TBD", event.Location)
	assert.Equal(t, 50, event.Capacity)
	assert.Equal(t, 0, event.AttendeeCount)
}

func TestTransport_AdminResourcesFullyGated(t *testing.T) {
	tr, _ := newTestTransport(t)
	studentToken := loginToken(t, tr, "student1@nu.edu.eg", "student123")
	adminToken := loginToken(t, tr, "admin@nu.edu.eg", "admin123")

	for _, url := range []string{
		"http://localhost/api/admins",
		"http://localhost/api/board-members",
		"http://localhost/api/committees",
	} {
		status, _ := doJSON(t, tr, http.MethodGet, url, studentToken, nil)
		assert.Equal(t, http.StatusForbidden, status, "student read of %s", url)
		status, _ = doJSON(t, tr, http.MethodGet, url, "", nil)
		assert.Equal(t, http.StatusForbidden, status, "anonymous read of %s", url)
		status, _ = doJSON(t, tr, http.MethodGet, url, adminToken, nil)
		assert.Equal(t, http.StatusOK, status, "admin read of %s", url)
	}
}

func TestTransport_CommitteeMemberRoutes(t *testing.T) {
	tr, _ := newTestTransport(t)
	adminToken := loginToken(t, tr, "admin@nu.edu.eg", "admin123")

	status, body := doJSON(t, tr, http.MethodPost, "http://localhost/api/committees/1/members", adminToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required field: userId", errorMessage(t, body))

	status, _ = doJSON(t, tr, http.MethodPost, "http://localhost/api/committees/1/members", adminToken, map[string]string{"userId": "3"})
	assert.Equal(t, http.StatusNoContent, status)

	// The member list is a set: a second add reports failure.
	status, _ = doJSON(t, tr, http.MethodPost, "http://localhost/api/committees/1/members", adminToken, map[string]string{"userId": "3"})
	assert.Equal(t, http.StatusNotFound, status)

	// The sub-route is not swallowed by committee CRUD: the committee
	// itself is still retrievable and holds the member exactly once.
	status, body = doJSON(t, tr, http.MethodGet, "http://localhost/api/committees/1", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var committee domain.Committee
	require.NoError(t, json.Unmarshal(body, &committee))
	assert.Equal(t, []string{"2", "3"}, committee.Members)

	status, _ = doJSON(t, tr, http.MethodDelete, "http://localhost/api/committees/1/members/3", adminToken, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = doJSON(t, tr, http.MethodDelete, "http://localhost/api/committees/1/members/3", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTransport_MethodNotAllowed(t *testing.T) {
	tr, _ := newTestTransport(t)

	status, _ := doJSON(t, tr, http.MethodPatch, "http://localhost/api/clubs", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)

	status, _ = doJSON(t, tr, http.MethodPost, "http://localhost/api/auth/me", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)

	status, _ = doJSON(t, tr, http.MethodPut, "http://localhost/api/events/1", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestTransport_PassThroughWhenUnmatched(t *testing.T) {
	api, _ := newTestAPI(t)
	base := &stubTransport{}
	tr := NewTransport(Emulated, api, base)

	status, _ := doJSON(t, tr, http.MethodGet, "http://localhost/metrics", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, base.called)
}

func TestTransport_LiveBackendMode(t *testing.T) {
	api, _ := newTestAPI(t)
	base := &stubTransport{}
	tr := NewTransport(LiveBackend, api, base)

	// Even matching routes go to the real backend in live mode.
	status, _ := doJSON(t, tr, http.MethodGet, "http://localhost/api/clubs", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, base.called)
}

func TestTransport_LatencyHonorsCancellation(t *testing.T) {
	api, _ := newTestAPI(t)
	api.readLatency = 5 * time.Second
	tr := NewTransport(Emulated, api, refusingTransport{t: t})

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://localhost/api/clubs", nil)
	require.NoError(t, err)
	cancel()

	start := time.Now()
	_, err = tr.RoundTrip(req)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestModeFromString(t *testing.T) {
	mode, err := ModeFromString("emulated")
	require.NoError(t, err)
	assert.Equal(t, Emulated, mode)

	mode, err = ModeFromString("live")
	require.NoError(t, err)
	assert.Equal(t, LiveBackend, mode)

	_, err = ModeFromString("hybrid")
	assert.Error(t, err)
}
