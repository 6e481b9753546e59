package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxesports/esports-hub/handlers"
	"github.com/maxesports/esports-hub/middleware"
	"github.com/maxesports/esports-hub/models"
	"github.com/maxesports/esports-hub/repositories"
	"github.com/maxesports/esports-hub/routes"
	"github.com/maxesports/esports-hub/services"
	"github.com/maxesports/esports-hub/storage"
)

const testSecret = "test-secret"

// In-memory repositories with the same ordering and not-found semantics as
// the postgres implementations.

type memTournamentRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]models.Tournament
}

func newMemTournamentRepo() *memTournamentRepo {
	return &memTournamentRepo{nextID: 1, rows: make(map[int]models.Tournament)}
}

func (m *memTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.nextID
	m.nextID++
	t.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	m.rows[t.ID] = *t
	return nil
}

func (m *memTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &row, nil
}

func (m *memTournamentRepo) List(_ context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Tournament, 0, len(m.rows))
	for _, row := range m.rows {
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memTournamentRepo) Update(_ context.Context, t *models.Tournament) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	m.rows[t.ID] = *t
	return nil
}

func (m *memTournamentRepo) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

type memTeamMemberRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]models.TeamMember
}

func newMemTeamMemberRepo() *memTeamMemberRepo {
	return &memTeamMemberRepo{nextID: 1, rows: make(map[int]models.TeamMember)}
}

func (m *memTeamMemberRepo) Create(_ context.Context, member *models.TeamMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	member.ID = m.nextID
	m.nextID++
	member.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	m.rows[member.ID] = *member
	return nil
}

func (m *memTeamMemberRepo) GetByID(_ context.Context, id int) (*models.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, repositories.ErrTeamMemberNotFound
	}
	return &row, nil
}

func (m *memTeamMemberRepo) List(_ context.Context) ([]models.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.TeamMember, 0, len(m.rows))
	for id := 1; id < m.nextID; id++ {
		if row, ok := m.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memTeamMemberRepo) Update(_ context.Context, member *models.TeamMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[member.ID]; !ok {
		return repositories.ErrTeamMemberNotFound
	}
	m.rows[member.ID] = *member
	return nil
}

func (m *memTeamMemberRepo) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

type memUserRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, rows: make(map[int]models.User)}
}

func (m *memUserRepo) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Email == u.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	u.ID = m.nextID
	m.nextID++
	u.CreatedAt = time.Now()
	m.rows[u.ID] = *u
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

type memUploader struct{}

func (memUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (*storage.UploadResult, error) {
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}
func (memUploader) Delete(context.Context, string) error { return nil }
func (memUploader) GetPublicURL(key string) string       { return "https://cdn.example.com/" + key }

type testApp struct {
	router   *chi.Mux
	authSvc  services.AuthService
	tourRepo *memTournamentRepo
}

func newTestApp(t *testing.T, policy middleware.AdminPolicy, uploader storage.FileUploader) *testApp {
	t.Helper()

	tourRepo := newMemTournamentRepo()
	teamRepo := newMemTeamMemberRepo()
	userRepo := newMemUserRepo()

	tournamentSvc := services.NewTournamentService(tourRepo, uploader, services.NopNotifier{})
	teamSvc := services.NewTeamService(teamRepo, uploader, services.NopNotifier{})
	authSvc := services.NewAuthService(userRepo, testSecret)

	require.NoError(t, authSvc.EnsureAdmin(context.Background(), "admin@maxesports.in", "Admin", "s3cret"))

	router := chi.NewRouter()
	routes.Setup(router, routes.Deps{
		AuthHandler:       handlers.NewAuthHandler(authSvc, false),
		TournamentHandler: handlers.NewTournamentHandler(tournamentSvc),
		TeamHandler:       handlers.NewTeamHandler(teamSvc),
		WebSocketHandler:  handlers.NewWebSocketHandler(nil),
		SessionSecret:     testSecret,
		AdminPolicy:       policy,
	})

	return &testApp{router: router, authSvc: authSvc, tourRepo: tourRepo}
}

func (app *testApp) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func adminToken(t *testing.T, app *testApp) string {
	t.Helper()
	_, token, err := app.authSvc.Login(context.Background(), models.Credentials{
		Email:    "admin@maxesports.in",
		Password: "s3cret",
	})
	require.NoError(t, err)
	return token
}

func playerToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": 99,
		"email":   "player@maxesports.in",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func validTournamentBody() map[string]any {
	return map[string]any{
		"title":       "Cup A",
		"description": "d",
		"game":        "BGMI",
		"status":      "upcoming",
		"startDate":   "2026-03-01T18:00:00Z",
		"prizePool":   "₹1,000",
		"format":      "Squad",
	}
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPublicReads(t *testing.T) {
	app := newTestApp(t, middleware.AllowAllAuthenticated, nil)

	t.Run("empty list is 200 with an empty array", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/tournaments", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("bad id is 400", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/tournaments/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing id is 404", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/tournaments/42", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("team list is public", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/team", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestMutationsAreGated(t *testing.T) {
	app := newTestApp(t, middleware.AllowEmails("admin@maxesports.in"), nil)

	t.Run("create without a session is 401 and persists nothing", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/tournaments", "", validTournamentBody())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		list := app.request(t, http.MethodGet, "/api/tournaments", "", nil)
		assert.JSONEq(t, "[]", list.Body.String())
	})

	t.Run("delete without a session is 401", func(t *testing.T) {
		rec := app.request(t, http.MethodDelete, "/api/tournaments/1", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("session rejected by the policy is 403", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/tournaments", playerToken(t), validTournamentBody())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/tournaments", adminToken(t, app), validTournamentBody())
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestCreateTournamentValidation(t *testing.T) {
	app := newTestApp(t, middleware.AllowAllAuthenticated, nil)
	token := adminToken(t, app)

	t.Run("missing title is 400 with the field path", func(t *testing.T) {
		body := validTournamentBody()
		body["title"] = ""
		rec := app.request(t, http.MethodPost, "/api/tournaments", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decodeBody[map[string]string](t, rec)
		assert.Equal(t, "title", resp["field"])
		assert.NotEmpty(t, resp["message"])

		// Nothing was persisted.
		list := app.request(t, http.MethodGet, "/api/tournaments", "", nil)
		assert.JSONEq(t, "[]", list.Body.String())
	})

	t.Run("status outside the closed set is 400", func(t *testing.T) {
		body := validTournamentBody()
		body["status"] = "cancelled"
		rec := app.request(t, http.MethodPost, "/api/tournaments", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeBody[map[string]string](t, rec)
		assert.Equal(t, "status", resp["field"])
	})

	t.Run("unknown extra fields are dropped, not rejected", func(t *testing.T) {
		body := validTournamentBody()
		body["title"] = "Extra Fields Cup"
		body["sponsor"] = "ignored"
		rec := app.request(t, http.MethodPost, "/api/tournaments", token, body)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("malformed JSON is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tournaments", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// TestTournamentLifecycle walks the whole admin flow: create, patch one
// field, delete twice, read back.
func TestTournamentLifecycle(t *testing.T) {
	app := newTestApp(t, middleware.AllowAllAuthenticated, nil)
	token := adminToken(t, app)

	// Create.
	rec := app.request(t, http.MethodPost, "/api/tournaments", token, validTournamentBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[models.Tournament](t, rec)
	assert.Positive(t, created.ID)
	assert.Equal(t, "Cup A", created.Title)
	assert.False(t, created.CreatedAt.IsZero())

	// Get returns what create returned.
	rec = app.request(t, http.MethodGet, fmt.Sprintf("/api/tournaments/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody[models.Tournament](t, rec)
	assert.Equal(t, created, fetched)

	// Partial patch: only status changes.
	rec = app.request(t, http.MethodPut, fmt.Sprintf("/api/tournaments/%d", created.ID), token,
		map[string]any{"status": "live"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[models.Tournament](t, rec)
	assert.Equal(t, models.StatusLive, updated.Status)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.PrizePool, updated.PrizePool)
	assert.True(t, created.StartDate.Equal(updated.StartDate))
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	// Delete twice: both 204.
	rec = app.request(t, http.MethodDelete, fmt.Sprintf("/api/tournaments/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	rec = app.request(t, http.MethodDelete, fmt.Sprintf("/api/tournaments/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Gone.
	rec = app.request(t, http.MethodGet, fmt.Sprintf("/api/tournaments/%d", created.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateMissingTournamentIs404(t *testing.T) {
	app := newTestApp(t, middleware.AllowAllAuthenticated, nil)
	rec := app.request(t, http.MethodPut, "/api/tournaments/42", adminToken(t, app),
		map[string]any{"status": "live"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrderingAndFilter(t *testing.T) {
	app := newTestApp(t, middleware.AllowAllAuthenticated, nil)
	token := adminToken(t, app)

	// Insert out of chronological order.
	for i, date := range []string{"2026-02-01T00:00:00Z", "2026-04-01T00:00:00Z", "2026-03-01T00:00:00Z"} {
		body := validTournamentBody()
		body["title"] = fmt.Sprintf("Cup %d", i)
		body["startDate"] = date
		rec := app.request(t, http.MethodPost, "/api/tournaments", token, body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := app.request(t, http.MethodGet, "/api/tournaments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]models.Tournament](t, rec)
	require.Len(t, list, 3)
	for i := 0; i < len(list)-1; i++ {
		assert.False(t, list[i].StartDate.Before(list[i+1].StartDate), "list must be start date descending")
	}

	// Status filter.
	rec = app.request(t, http.MethodGet, "/api/tournaments?status=upcoming", "", nil)
	assert.Len(t, decodeBody[[]models.Tournament](t, rec), 3)
	rec = app.request(t, http.MethodGet, "/api/tournaments?status=live", "", nil)
	assert.Len(t, decodeBody[[]models.Tournament](t, rec), 0)
	rec = app.request(t, http.MethodGet, "/api/tournaments?status=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeamMemberEndpoints(t *testing.T) {
	app := newTestApp(t, middleware.AllowAllAuthenticated, nil)
	token := adminToken(t, app)

	rec := app.request(t, http.MethodPost, "/api/team", token, map[string]any{
		"name": "Rohit",
		"role": "IGL",
		"game": "BGMI",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[models.TeamMember](t, rec)

	t.Run("missing name is 400 with field path", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/team", token, map[string]any{
			"role": "Player",
			"game": "BGMI",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeBody[map[string]string](t, rec)
		assert.Equal(t, "name", resp["field"])
	})

	t.Run("update patches a subset", func(t *testing.T) {
		rec := app.request(t, http.MethodPut, fmt.Sprintf("/api/team/%d", created.ID), token,
			map[string]any{"role": "Owner", "isManagement": true})
		require.Equal(t, http.StatusOK, rec.Code)
		updated := decodeBody[models.TeamMember](t, rec)
		assert.Equal(t, "Owner", updated.Role)
		assert.Equal(t, "Rohit", updated.Name)
		assert.True(t, updated.IsManagement)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		rec := app.request(t, http.MethodDelete, fmt.Sprintf("/api/team/%d", created.ID), token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = app.request(t, http.MethodDelete, fmt.Sprintf("/api/team/%d", created.ID), token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		list := app.request(t, http.MethodGet, "/api/team", "", nil)
		assert.JSONEq(t, "[]", list.Body.String())
	})
}

func TestSessionEndpoints(t *testing.T) {
	app := newTestApp(t, middleware.AllowAllAuthenticated, nil)

	t.Run("login with valid credentials sets the session cookie", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/login", "", map[string]any{
			"email":    "admin@maxesports.in",
			"password": "s3cret",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var sessionCookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == middleware.SessionCookieName {
				sessionCookie = c
			}
		}
		require.NotNil(t, sessionCookie)
		assert.True(t, sessionCookie.HttpOnly)
		assert.NotEmpty(t, sessionCookie.Value)

		// The cookie resolves the identity endpoint.
		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		req.AddCookie(sessionCookie)
		userRec := httptest.NewRecorder()
		app.router.ServeHTTP(userRec, req)
		assert.Equal(t, http.StatusOK, userRec.Code)
		assert.Contains(t, userRec.Body.String(), "admin@maxesports.in")
	})

	t.Run("login with wrong password is 401", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/login", "", map[string]any{
			"email":    "admin@maxesports.in",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("identity endpoint without a session is 401", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/auth/user", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/logout", "", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		cookies := rec.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Empty(t, cookies[0].Value)
	})
}

func TestImageUpload(t *testing.T) {
	multipartRequest := func(t *testing.T, path, token string) *http.Request {
		t.Helper()
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Disposition": {`form-data; name="image"; filename="banner.png"`},
			"Content-Type":        {"image/png"},
		})
		require.NoError(t, err)
		_, err = part.Write([]byte("fake png bytes"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, path, &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}

	t.Run("uploads disabled answers 503", func(t *testing.T) {
		app := newTestApp(t, middleware.AllowAllAuthenticated, nil)
		token := adminToken(t, app)

		create := app.request(t, http.MethodPost, "/api/tournaments", token, validTournamentBody())
		created := decodeBody[models.Tournament](t, create)

		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, multipartRequest(t, fmt.Sprintf("/api/tournaments/%d/image", created.ID), token))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("upload stores the public URL", func(t *testing.T) {
		app := newTestApp(t, middleware.AllowAllAuthenticated, memUploader{})
		token := adminToken(t, app)

		create := app.request(t, http.MethodPost, "/api/tournaments", token, validTournamentBody())
		created := decodeBody[models.Tournament](t, create)

		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, multipartRequest(t, fmt.Sprintf("/api/tournaments/%d/image", created.ID), token))
		require.Equal(t, http.StatusOK, rec.Code)
		updated := decodeBody[models.Tournament](t, rec)
		require.NotNil(t, updated.ImageURL)
		assert.Contains(t, *updated.ImageURL, "https://cdn.example.com/tournaments/")
	})
}
