package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/platform/logger"
	"github.com/phrazzld/kanban-api/internal/service/auth"
	"github.com/phrazzld/kanban-api/internal/store"
)

// RegisterParams is the input of AuthService.Register.
type RegisterParams struct {
	Fullname         string
	Email            string
	Password         string
	RepeatedPassword string
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token    string    `json:"token"`
	Fullname string    `json:"fullname"`
	Email    string    `json:"email"`
	UserID   uuid.UUID `json:"user_id"`
}

// AuthService handles registration, login and bearer token authentication.
type AuthService interface {
	// Register creates a user and issues its token in one transaction.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login verifies the credentials and returns the user's token, creating
	// it if the user has none. Repeated logins return the same token.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// LookupByEmail returns the public profile of the user with email.
	LookupByEmail(ctx context.Context, email string) (*domain.UserSummary, error)

	// Authenticate resolves a bearer token to the id of its user.
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

// dummyPassword is hashed once and compared against on logins with an
// unknown email, so they take as long as logins with a wrong password.
const dummyPassword = "dummy-password-for-timing"

type authServiceImpl struct {
	users  store.UserStore
	tokens store.TokenStore
	tx     store.TxRunner
	hasher auth.PasswordHasher
	signer auth.TokenSigner
	logger *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates an AuthService.
// It returns an error if any of the required dependencies are nil.
func NewAuthService(
	users store.UserStore,
	tokens store.TokenStore,
	tx store.TxRunner,
	hasher auth.PasswordHasher,
	signer auth.TokenSigner,
	logger *slog.Logger,
) (AuthService, error) {
	if users == nil || tokens == nil || tx == nil {
		return nil, domain.NewValidationError("stores", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil || signer == nil {
		return nil, domain.NewValidationError("auth", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &authServiceImpl{
		users:  users,
		tokens: tokens,
		tx:     tx,
		hasher: hasher,
		signer: signer,
		logger: logger.With(slog.String("component", "auth_service")),
	}, nil
}

// Register implements AuthService.Register
func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.validateRegistration(params)
	if err != nil {
		log.Debug("registration rejected", slog.String("error", err.Error()))
		return nil, err
	}

	user.HashedPassword, err = s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, NewServiceError("auth", "register", err)
	}
	user.Password = ""

	var token *domain.AuthToken
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			if errors.Is(err, store.ErrEmailExists) {
				return domain.NewValidationError("email", "user with this email already exists.", err)
			}
			return err
		}
		issued, err := s.issueToken(ctx, s.tokens.WithTx(tx), user.ID)
		if err != nil {
			return err
		}
		token = issued
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			log.Debug("registration rejected", slog.String("error", err.Error()))
		} else {
			log.Error("failed to register user", slog.String("error", err.Error()))
		}
		return nil, wrapUnexpected("auth", "register", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return newAuthResult(user, token), nil
}

// validateRegistration builds the user and reports every invalid field at once.
func (s *authServiceImpl) validateRegistration(params RegisterParams) (*domain.User, error) {
	var errs domain.ValidationErrors

	user, err := domain.NewUser(params.Fullname, params.Email, params.Password)
	if err != nil {
		var many domain.ValidationErrors
		if !errors.As(err, &many) {
			return nil, err
		}
		errs = append(errs, many...)
	}

	switch {
	case params.RepeatedPassword == "":
		errs = append(errs, domain.NewValidationError("repeated_password", "This field is required.", nil))
	case params.RepeatedPassword != params.Password:
		errs = append(errs, domain.NewValidationError("repeated_password", "Passwords do not match.", nil))
	}

	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return user, nil
}

// Login implements AuthService.Login
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error("failed to load user for login", slog.String("error", err.Error()))
			return nil, NewServiceError("auth", "login", err)
		}
		// Spend the same bcrypt time as a wrong password would.
		_ = s.hasher.Compare(s.timingHash(), password)
		log.Debug("login failed: unknown email")
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Error("failed to compare password", slog.String("error", err.Error()))
		}
		log.Debug("login failed: wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, s.tokens, user.ID)
	if err != nil {
		log.Error("failed to issue token", slog.String("error", err.Error()))
		return nil, NewServiceError("auth", "login", err)
	}

	log.Debug("user logged in", slog.String("user_id", user.ID.String()))
	return newAuthResult(user, token), nil
}

func (s *authServiceImpl) timingHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Error("failed to hash dummy password", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// issueToken returns the user's token, signing and storing a new one if
// the user has none yet.
func (s *authServiceImpl) issueToken(
	ctx context.Context,
	tokens store.TokenStore,
	userID uuid.UUID,
) (*domain.AuthToken, error) {
	if existing, err := tokens.GetByUserID(ctx, userID); err == nil {
		return existing, nil
	} else if !errors.Is(err, store.ErrTokenNotFound) {
		return nil, err
	}

	key, err := s.signer.Sign(ctx, userID)
	if err != nil {
		return nil, err
	}
	token, err := domain.NewAuthToken(userID, key)
	if err != nil {
		return nil, err
	}
	// A concurrent login may have stored a token first; GetOrCreate returns it.
	return tokens.GetOrCreate(ctx, token)
}

// LookupByEmail implements AuthService.LookupByEmail
func (s *authServiceImpl) LookupByEmail(ctx context.Context, email string) (*domain.UserSummary, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.NewValidationError("email", "Email is required.", domain.ErrEmptyEmail)
	}

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to look up user by email",
			slog.String("error", err.Error()))
		return nil, NewServiceError("auth", "lookup_by_email", err)
	}

	summary := user.Summary()
	return &summary, nil
}

// Authenticate implements AuthService.Authenticate
// The token must carry a valid signature and still be on record for the
// user it names.
func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.signer.Verify(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}

	record, err := s.tokens.GetByKey(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			log.Debug("token not on record", slog.String("user_id", claims.UserID.String()))
			return uuid.Nil, auth.ErrInvalidToken
		}
		log.Error("failed to load token", slog.String("error", err.Error()))
		return uuid.Nil, NewServiceError("auth", "authenticate", err)
	}
	if record.UserID != claims.UserID {
		log.Warn("token record belongs to a different user",
			slog.String("claimed_user_id", claims.UserID.String()))
		return uuid.Nil, auth.ErrInvalidToken
	}
	return record.UserID, nil
}

func newAuthResult(user *domain.User, token *domain.AuthToken) *AuthResult {
	return &AuthResult{
		Token:    token.Key,
		Fullname: user.Fullname,
		Email:    user.Email,
		UserID:   user.ID,
	}
}
