package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/keyxmakerx/itemhub/internal/apperror"
)

// invalidCredentials is the single message for every failed login, so a
// caller cannot tell an unknown email from a wrong password.
const invalidCredentials = "Invalid email or password"

// dummyPassword is hashed once at startup. Logins for unknown emails are
// compared against it so they cost the same as a real password check.
const dummyPassword = "itemhub-timing-equalizer"

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (user *User, token string, err error)
	Login(ctx context.Context, input LoginInput) (user *User, token string, err error)
	CurrentUser(ctx context.Context, userID int64) (*User, error)
}

// authService implements AuthService with a pluggable hasher and token
// manager.
type authService struct {
	repo      UserRepository
	hasher    PasswordHasher
	tokens    TokenManager
	dummyHash string
	now       func() time.Time
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo UserRepository, hasher PasswordHasher, tokens TokenManager) AuthService {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		slog.Warn("failed to precompute dummy password hash", slog.Any("error", err))
	}
	return &authService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummyHash,
		now:       time.Now,
	}
}

// Signup creates a new account and returns it together with a fresh
// session token.
func (s *authService) Signup(ctx context.Context, input SignupInput) (*User, string, error) {
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, "", apperror.NewValidation("Validation failed",
			apperror.FieldError{Field: "name", Message: "Name is required"})
	}

	// Check if email is already taken before doing expensive hashing.
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, "", apperror.NewConflict("Email already registered")
	}

	hash, err := s.hasher.Hash(input.Password)
	if errors.Is(err, ErrPasswordTooLong) {
		return nil, "", apperror.NewValidation("Validation failed",
			apperror.FieldError{Field: "password", Message: "Password is too long"})
	}
	if err != nil {
		return nil, "", apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	now := s.now().UTC()
	user := &User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if appErr := apperror.As(err); appErr != nil {
			return nil, "", appErr
		}
		return nil, "", apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", apperror.NewInternal(fmt.Errorf("issuing token: %w", err))
	}

	slog.Info("user signed up",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// Login authenticates a user by email and password and returns a fresh
// session token.
func (s *authService) Login(ctx context.Context, input LoginInput) (*User, string, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if apperror.IsNotFound(err) {
			// Burn the same bcrypt time as a real check.
			s.hasher.Verify(input.Password, s.dummyHash)
			return nil, "", apperror.NewUnauthorized(invalidCredentials)
		}
		return nil, "", apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, "", apperror.NewUnauthorized(invalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", apperror.NewInternal(fmt.Errorf("issuing token: %w", err))
	}

	slog.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// CurrentUser loads the account behind an authenticated request. A token
// whose user has since been deleted yields NotFound.
func (s *authService) CurrentUser(ctx context.Context, userID int64) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}
	return user, nil
}
