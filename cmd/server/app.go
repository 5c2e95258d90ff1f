package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/kanban-api/internal/config"
	"github.com/phrazzld/kanban-api/internal/platform/postgres"
	"github.com/phrazzld/kanban-api/internal/service"
	"github.com/phrazzld/kanban-api/internal/service/auth"
	"github.com/phrazzld/kanban-api/internal/store"
)

// stores groups the repositories the services are built on.
type stores struct {
	users    store.UserStore
	tokens   store.TokenStore
	boards   store.BoardStore
	tasks    store.TaskStore
	comments store.CommentStore
	tx       store.TxRunner
}

// services groups the application services the handlers call.
type services struct {
	auth     service.AuthService
	boards   service.BoardService
	tasks    service.TaskService
	comments service.CommentService
}

// application holds the shared dependencies of the running server.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	db       *sql.DB
	services *services
}

// newApplication wires the PostgreSQL stores, the auth primitives and the
// services on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	signer, err := auth.NewTokenSigner(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)

	st := stores{
		users:    postgres.NewPostgresUserStore(db, logger),
		tokens:   postgres.NewPostgresTokenStore(db, logger),
		boards:   postgres.NewPostgresBoardStore(db, logger),
		tasks:    postgres.NewPostgresTaskStore(db, logger),
		comments: postgres.NewPostgresCommentStore(db, logger),
		tx:       store.NewTxRunner(db),
	}

	svcs, err := newServices(st, hasher, signer, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("application initialized")
	return &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		services: svcs,
	}, nil
}

// newServices builds every service over st.
func newServices(
	st stores,
	hasher auth.PasswordHasher,
	signer auth.TokenSigner,
	logger *slog.Logger,
) (*services, error) {
	var (
		svcs services
		err  error
	)

	svcs.auth, err = service.NewAuthService(st.users, st.tokens, st.tx, hasher, signer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}
	svcs.boards, err = service.NewBoardService(st.boards, st.tasks, st.tx, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create board service: %w", err)
	}
	svcs.tasks, err = service.NewTaskService(st.tasks, st.boards, st.users, st.tx, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	svcs.comments, err = service.NewCommentService(st.comments, st.tasks, st.boards, st.tx, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment service: %w", err)
	}
	return &svcs, nil
}

// Run serves HTTP until ctx is canceled, then shuts down and releases the
// database.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	router := newRouter(app.services, app.config.Server, app.logger)
	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) cleanup() {
	if app.db != nil {
		closeDB(app.db, app.logger)
	}
	app.logger.Info("application shutdown completed")
}
