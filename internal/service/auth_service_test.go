package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
)

func newAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60}
	return NewAuthService(cfg, repo, zap.NewNop()), repo
}

func seedAccount(t *testing.T, repo *fakeUserRepo, email, password string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{Name: "Seeded", Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, repo := newAuthService(t)
	seeded := seedAccount(t, repo, "admin@ticketsystem.com", "admin123", domain.RoleAdmin)

	user, token, exp, err := svc.Login(context.Background(), "admin@ticketsystem.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)
	assert.False(t, exp.IsZero())
	require.NotNil(t, user.LastLogin)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	stored, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, repo := newAuthService(t)
	seedAccount(t, repo, "user@ticketsystem.com", "user123", domain.RoleUser)

	_, _, _, unknownEmail := svc.Login(context.Background(), "nobody@ticketsystem.com", "user123")
	require.Error(t, unknownEmail)
	_, _, _, wrongPassword := svc.Login(context.Background(), "user@ticketsystem.com", "bad")
	require.Error(t, wrongPassword)

	// indistinguishable to the caller
	assert.Equal(t, http.StatusBadRequest, statusOf(unknownEmail))
	assert.Equal(t, unknownEmail.Error(), wrongPassword.Error())
}
