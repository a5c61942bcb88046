package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

func TestAuthService_SignUp(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessions()
	svc := NewAuthService(users, sessions, zap.NewNop())

	user, token, err := svc.SignUp(context.Background(), SignUpInput{
		Name:     "Joana Neto",
		Email:    "  Joana@Exemplo.AO ",
		Password: "segredo-forte",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, "joana@exemplo.ao", user.Email, "email is normalized")
	assert.Equal(t, domain.RoleClient, user.Role)
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("segredo-forte")))

	resolved, err := sessions.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved)
}

func TestAuthService_SignUpValidation(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), newMockSessions(), zap.NewNop())

	tests := []struct {
		name  string
		in    SignUpInput
		field string
	}{
		{"missing name", SignUpInput{Email: "a@b.ao", Password: "12345678"}, "name"},
		{"bad email", SignUpInput{Name: "x", Email: "not-an-email", Password: "12345678"}, "email"},
		{"short password", SignUpInput{Name: "x", Email: "a@b.ao", Password: "curto"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.SignUp(context.Background(), tt.in)
			var validation *apperrors.ErrValidation
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestAuthService_SignUpDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), newMockSessions(), zap.NewNop())

	_, _, err := svc.SignUp(context.Background(), SignUpInput{Name: "a", Email: "a@b.ao", Password: "12345678"})
	require.NoError(t, err)

	_, _, err = svc.SignUp(context.Background(), SignUpInput{Name: "b", Email: "a@b.ao", Password: "12345678"})
	var validation *apperrors.ErrValidation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "email", validation.Field)
}

func TestAuthService_SignInAndOut(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessions()
	svc := NewAuthService(users, sessions, zap.NewNop())

	// The mock repo compares PasswordHash as plaintext.
	require.NoError(t, users.Create(context.Background(), &domain.User{
		Name: "c", Email: "c@b.ao", PasswordHash: "segredo-forte", Role: domain.RoleClient, IsActive: true,
	}))

	user, token, err := svc.SignIn(context.Background(), "C@b.ao", "segredo-forte")
	require.NoError(t, err)
	assert.Equal(t, "c@b.ao", user.Email)

	authed, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	require.NoError(t, svc.SignOut(context.Background(), token))
	_, err = svc.Authenticate(context.Background(), token)
	var unauthorized *apperrors.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
}

func TestAuthService_SignInWrongPassword(t *testing.T) {
	users := newMockUserRepo()
	svc := NewAuthService(users, newMockSessions(), zap.NewNop())

	require.NoError(t, users.Create(context.Background(), &domain.User{
		Email: "c@b.ao", PasswordHash: "certa", IsActive: true,
	}))

	_, _, err := svc.SignIn(context.Background(), "c@b.ao", "errada")
	var unauthorized *apperrors.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
}

func TestAuthService_AuthenticateInactiveAccount(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessions()
	svc := NewAuthService(users, sessions, zap.NewNop())

	user := &domain.User{Email: "d@b.ao", IsActive: false}
	require.NoError(t, users.Create(context.Background(), user))
	token, err := sessions.Create(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	var unauthorized *apperrors.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
}

func TestAuthService_ChangePassword(t *testing.T) {
	users := newMockUserRepo()
	svc := NewAuthService(users, newMockSessions(), zap.NewNop())

	hash, err := bcrypt.GenerateFromPassword([]byte("antiga-1234"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &domain.User{Email: "e@b.ao", PasswordHash: string(hash), IsActive: true}
	require.NoError(t, users.Create(context.Background(), user))

	var unauthorized *apperrors.ErrUnauthorized
	err = svc.ChangePassword(context.Background(), user.ID, "errada", "nova-senha-123")
	require.ErrorAs(t, err, &unauthorized)

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "antiga-1234", "nova-senha-123"))

	updated, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("nova-senha-123")))
}

func TestAuthService_DeleteAccount(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessions()
	svc := NewAuthService(users, sessions, zap.NewNop())

	hash, err := bcrypt.GenerateFromPassword([]byte("apagar-me-12"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &domain.User{Email: "f@b.ao", PasswordHash: string(hash), IsActive: true}
	require.NoError(t, users.Create(context.Background(), user))
	token, err := sessions.Create(context.Background(), user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(context.Background(), user.ID, "apagar-me-12", token))

	_, err = users.GetByID(context.Background(), user.ID)
	var notFound *apperrors.ErrNotFound
	require.ErrorAs(t, err, &notFound)

	_, err = sessions.Resolve(context.Background(), token)
	var unauthorized *apperrors.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
}
