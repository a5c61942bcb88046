package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

// SessionStore is the token side of authentication.
type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
	Destroy(ctx context.Context, token string) error
}

type AuthService struct {
	users    UserRepo
	sessions SessionStore
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserRepo, sessions SessionStore, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, sessions: sessions, logger: logger}
}

// SignUpInput is a registration request.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// SignUp registers a client account and opens a session for it.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*domain.User, string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return nil, "", &apperrors.ErrValidation{Field: "name", Message: "name is required"}
	}
	if !strings.Contains(in.Email, "@") {
		return nil, "", &apperrors.ErrValidation{Field: "email", Message: "invalid email"}
	}
	if len(in.Password) < 8 {
		return nil, "", &apperrors.ErrValidation{Field: "password", Message: "password must be at least 8 characters"}
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", &apperrors.ErrValidation{Field: "email", Message: "email already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, token, nil
}

// SignIn verifies credentials and opens a session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.VerifyCredentials(ctx, strings.ToLower(strings.TrimSpace(email)), password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SignOut destroys the session token.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// Authenticate resolves a bearer token to a user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, &apperrors.ErrUnauthorized{Message: "session expired or invalid"}
	}
	if !user.IsActive {
		return nil, &apperrors.ErrUnauthorized{Message: "account disabled"}
	}
	return user, nil
}

// ChangePassword re-checks the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return &apperrors.ErrUnauthorized{Message: "current password is incorrect"}
	}
	if len(next) < 8 {
		return &apperrors.ErrValidation{Field: "password", Message: "password must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.users.Update(ctx, user)
}

// DeleteAccount removes the user after a password check and drops the
// active session.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID, password, token string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return &apperrors.ErrUnauthorized{Message: "password is incorrect"}
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	if token != "" {
		if err := s.sessions.Destroy(ctx, token); err != nil {
			s.logger.Warn("session destroy failed after account deletion", zap.Error(err))
		}
	}
	return nil
}
