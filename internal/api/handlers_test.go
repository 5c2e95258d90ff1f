package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/api"
	"github.com/phrazzld/kanban-api/internal/api/middleware"
	"github.com/phrazzld/kanban-api/internal/api/shared"
	"github.com/phrazzld/kanban-api/internal/mocks"
	"github.com/phrazzld/kanban-api/internal/platform/logger"
	"github.com/phrazzld/kanban-api/internal/service"
	"github.com/stretchr/testify/require"
)

// testServer serves the handlers over in-memory stores.
type testServer struct {
	db      *mocks.MemoryDB
	handler http.Handler
}

type testUser struct {
	ID    uuid.UUID
	Token string
	Email string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	db := mocks.NewMemoryDB()
	tx := db.TxRunner()

	authSvc, err := service.NewAuthService(db.UserStore(), db.TokenStore(), tx,
		&mocks.MockPasswordHasher{}, &mocks.MockTokenSigner{}, log)
	require.NoError(t, err)
	boardSvc, err := service.NewBoardService(db.BoardStore(), db.TaskStore(), tx, log)
	require.NoError(t, err)
	taskSvc, err := service.NewTaskService(db.TaskStore(), db.BoardStore(), db.UserStore(), tx, log)
	require.NoError(t, err)
	commentSvc, err := service.NewCommentService(db.CommentStore(), db.TaskStore(), db.BoardStore(), tx, log)
	require.NoError(t, err)

	authHandler := api.NewAuthHandler(authSvc, log)
	boardHandler := api.NewBoardHandler(boardSvc, log)
	taskHandler := api.NewTaskHandler(taskSvc, log)
	commentHandler := api.NewCommentHandler(commentSvc, log)
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get("/auth/email", authHandler.LookupEmail)

		r.Get("/boards", boardHandler.List)
		r.Post("/boards", boardHandler.Create)
		r.Get("/boards/{boardID}", boardHandler.Get)
		r.Patch("/boards/{boardID}", boardHandler.Update)
		r.Delete("/boards/{boardID}", boardHandler.Delete)

		r.Get("/tasks", taskHandler.List)
		r.Post("/tasks", taskHandler.Create)
		r.Get("/tasks/assigned-to-me", taskHandler.AssignedToMe)
		r.Get("/tasks/reviewing", taskHandler.Reviewing)
		r.Get("/tasks/{taskID}", taskHandler.Get)
		r.Patch("/tasks/{taskID}", taskHandler.Update)
		r.Delete("/tasks/{taskID}", taskHandler.Delete)

		r.Get("/tasks/{taskID}/comments", commentHandler.List)
		r.Post("/tasks/{taskID}/comments", commentHandler.Create)
		r.Delete("/tasks/{taskID}/comments/{commentID}", commentHandler.Delete)
	})

	return &testServer{db: db, handler: r}
}

// do sends a request with an optional bearer token and JSON body.
// A string body is sent verbatim.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// register creates a user through the API.
func (s *testServer) register(t *testing.T, fullname string) testUser {
	t.Helper()
	email := strings.ToLower(strings.ReplaceAll(fullname, " ", ".")) + "@example.com"
	rec := s.do(t, http.MethodPost, "/auth/register", "", api.RegisterRequest{
		Fullname:         fullname,
		Email:            email,
		Password:         "password123",
		RepeatedPassword: "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[api.AuthResponse](t, rec)
	return testUser{ID: res.UserID, Token: res.Token, Email: email}
}

// createBoard creates a board owned by owner.
func (s *testServer) createBoard(t *testing.T, owner testUser, title string, members ...uuid.UUID) uuid.UUID {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/boards", owner.Token, api.CreateBoardRequest{
		Title:   title,
		Members: members,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[boardSummary](t, rec).ID
}

// createTask creates a to-do task with medium priority.
func (s *testServer) createTask(t *testing.T, user testUser, board uuid.UUID, title string) uuid.UUID {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/tasks", user.Token, map[string]any{
		"board":    board,
		"title":    title,
		"status":   "to-do",
		"priority": "medium",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[taskView](t, rec).ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	return decode[shared.ErrorResponse](t, rec)
}

// Response shapes as a client sees them.

type userSummary struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Fullname string    `json:"fullname"`
}

type boardSummary struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	OwnerID            uuid.UUID `json:"owner_id"`
	MemberCount        int       `json:"member_count"`
	TicketCount        int       `json:"ticket_count"`
	TasksToDoCount     int       `json:"tasks_to_do_count"`
	TasksHighPrioCount int       `json:"tasks_high_prio_count"`
}

type boardDetail struct {
	boardSummary
	Members []userSummary `json:"members"`
	Tasks   []taskView    `json:"tasks"`
}

type taskView struct {
	ID            uuid.UUID    `json:"id"`
	Board         uuid.UUID    `json:"board"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Status        string       `json:"status"`
	Priority      string       `json:"priority"`
	Assignee      *userSummary `json:"assignee"`
	Reviewer      *userSummary `json:"reviewer"`
	DueDate       *string      `json:"due_date"`
	CreatedBy     uuid.UUID    `json:"created_by"`
	CommentsCount int          `json:"comments_count"`
}

type commentView struct {
	ID      uuid.UUID `json:"id"`
	Author  string    `json:"author"`
	Content string    `json:"content"`
}
