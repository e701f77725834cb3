package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

func newUserService() (*UserService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	// MinCost keeps hashing fast under test
	return NewUserService(repo, bcrypt.MinCost, nil), repo
}

func TestUserCreateValidation(t *testing.T) {
	svc, _ := newUserService()
	admin := testUser("a1", domain.RoleAdmin)

	_, err := svc.Create(context.Background(), admin, UserCreateInput{Email: "x@y.z", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, err = svc.Create(context.Background(), admin, UserCreateInput{Name: "X", Email: "x@y.z", Password: "pw", Role: "manager"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestUserCreateDefaultsAndHash(t *testing.T) {
	svc, _ := newUserService()
	admin := testUser("a1", domain.RoleAdmin)

	user, err := svc.Create(context.Background(), admin, UserCreateInput{
		Name:     "New User",
		Email:    "New.User@Ticketsystem.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "new.user@ticketsystem.com", user.Email)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, auth.ComparePassword(user.PasswordHash, "secret123"))
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	svc, _ := newUserService()
	admin := testUser("a1", domain.RoleAdmin)

	input := UserCreateInput{Name: "A", Email: "dup@ticketsystem.com", Password: "pw"}
	_, err := svc.Create(context.Background(), admin, input)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), admin, input)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(err))
}

func TestUserDelete(t *testing.T) {
	svc, repo := newUserService()
	admin := testUser("a1", domain.RoleAdmin)

	created, err := svc.Create(context.Background(), admin, UserCreateInput{
		Name: "Doomed", Email: "doomed@ticketsystem.com", Password: "pw",
	})
	require.NoError(t, err)

	// admins may not remove their own account
	err = svc.Delete(context.Background(), admin, admin.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	err = svc.Delete(context.Background(), admin, "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	require.NoError(t, svc.Delete(context.Background(), admin, created.ID))
	_, err = repo.GetByID(context.Background(), created.ID)
	assert.Error(t, err)
}
