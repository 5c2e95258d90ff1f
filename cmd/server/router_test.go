package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/config"
	"github.com/phrazzld/kanban-api/internal/mocks"
	"github.com/phrazzld/kanban-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *mocks.MemoryDB) {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	db := mocks.NewMemoryDB()
	st := stores{
		users:    db.UserStore(),
		tokens:   db.TokenStore(),
		boards:   db.BoardStore(),
		tasks:    db.TaskStore(),
		comments: db.CommentStore(),
		tx:       db.TxRunner(),
	}
	svcs, err := newServices(st, &mocks.MockPasswordHasher{}, &mocks.MockTokenSigner{}, log)
	require.NoError(t, err)

	return newRouter(svcs, config.ServerConfig{CORSAllowedOrigins: []string{"http://localhost:3000"}}, log), db
}

// call sends a JSON request and decodes the JSON response into out, if given.
func call(t *testing.T, h http.Handler, method, path, token string, body, out any) int {
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
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

type authBody struct {
	Token    string    `json:"token"`
	Fullname string    `json:"fullname"`
	Email    string    `json:"email"`
	UserID   uuid.UUID `json:"user_id"`
}

func TestBoardWorkflow(t *testing.T) {
	h, db := newTestRouter(t)

	var registered authBody
	status := call(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullname":          "Alice Smith",
		"email":             "alice@example.com",
		"password":          "password123",
		"repeated_password": "password123",
	}, &registered)
	require.Equal(t, http.StatusCreated, status)

	var login authBody
	status = call(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	}, &login)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, registered.Token, login.Token)
	token := login.Token

	var board struct {
		ID uuid.UUID `json:"id"`
	}
	status = call(t, h, http.MethodPost, "/api/boards", token, map[string]any{
		"title": "Sprint 1",
	}, &board)
	require.Equal(t, http.StatusCreated, status)

	var task struct {
		ID       uuid.UUID `json:"id"`
		Priority string    `json:"priority"`
	}
	status = call(t, h, http.MethodPost, "/api/tasks", token, map[string]any{
		"board":    board.ID,
		"title":    "Fix bug",
		"status":   "to-do",
		"priority": "high",
	}, &task)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "high", task.Priority)

	var detail struct {
		Title              string `json:"title"`
		MemberCount        int    `json:"member_count"`
		TicketCount        int    `json:"ticket_count"`
		TasksToDoCount     int    `json:"tasks_to_do_count"`
		TasksHighPrioCount int    `json:"tasks_high_prio_count"`
		Tasks              []struct {
			ID uuid.UUID `json:"id"`
		} `json:"tasks"`
	}
	status = call(t, h, http.MethodGet, "/api/boards/"+board.ID.String(), token, nil, &detail)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Sprint 1", detail.Title)
	assert.Equal(t, 1, detail.MemberCount)
	assert.Equal(t, 1, detail.TicketCount)
	assert.Equal(t, 1, detail.TasksToDoCount)
	assert.Equal(t, 1, detail.TasksHighPrioCount)
	require.Len(t, detail.Tasks, 1)
	assert.Equal(t, task.ID, detail.Tasks[0].ID)

	commentsPath := "/api/tasks/" + task.ID.String() + "/comments"
	status = call(t, h, http.MethodPost, commentsPath, token, map[string]string{"content": "looks good"}, nil)
	require.Equal(t, http.StatusCreated, status)

	var comments []struct {
		Author  string `json:"author"`
		Content string `json:"content"`
	}
	status = call(t, h, http.MethodGet, commentsPath, token, nil, &comments)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, comments, 1)
	assert.Equal(t, "Alice Smith", comments[0].Author)
	assert.Equal(t, "looks good", comments[0].Content)

	status = call(t, h, http.MethodDelete, "/api/boards/"+board.ID.String(), token, nil, nil)
	require.Equal(t, http.StatusNoContent, status)
	assert.Zero(t, db.TaskCount())
	assert.Zero(t, db.CommentCount())
}

func TestStaticTaskRoutesAreNotTaskIDs(t *testing.T) {
	h, _ := newTestRouter(t)

	var res authBody
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullname":          "Bob Jones",
		"email":             "bob@example.com",
		"password":          "password123",
		"repeated_password": "password123",
	}, &res))

	for _, path := range []string{"/api/tasks", "/api/tasks/assigned-to-me", "/api/tasks/reviewing"} {
		var tasks []any
		assert.Equal(t, http.StatusOK, call(t, h, http.MethodGet, path, res.Token, nil, &tasks), path)
		assert.Empty(t, tasks, path)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h, _ := newTestRouter(t)

	for _, path := range []string{"/api/boards", "/api/tasks", "/api/auth/email?email=a@b.co"} {
		assert.Equal(t, http.StatusUnauthorized, call(t, h, http.MethodGet, path, "", nil, nil), path)
	}
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/boards", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunMigrationsRejectsUnknownCommand(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	err := runMigrations(context.Background(), nil, "drop-everything", log)
	assert.ErrorContains(t, err, "unknown migration command")
}
