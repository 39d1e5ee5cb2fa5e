package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rogerio-castellano/pos-manager/internal/models"
	"github.com/rogerio-castellano/pos-manager/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *repo.InMemoryUserRepository) {
	users := repo.NewInMemoryUserRepository()
	return NewService(users, NewTokenIssuer("test-secret", time.Minute)), users
}

func TestRegister_StoresHashAndReturnsToken(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "cashier", "s3cret!")
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	stored, err := users.GetByUsername(ctx, "cashier")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", stored.PasswordHash)
	assert.True(t, CheckPassword(stored.PasswordHash, "s3cret!"))

	username, err := svc.Tokens().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cashier", username)
}

func TestRegister_RejectsShortCredentials(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Register(context.Background(), "ab", "s3cret!")
	assert.ErrorIs(t, err, ErrWeakCredentials)

	_, _, err = svc.Register(context.Background(), "cashier", "12345")
	assert.ErrorIs(t, err, ErrWeakCredentials)
}

func TestRegister_DuplicateLeavesExistingUser(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "cashier", "first-pass")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "cashier", "second-pass")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	stored, err := users.GetByUsername(ctx, "cashier")
	require.NoError(t, err)
	assert.True(t, CheckPassword(stored.PasswordHash, "first-pass"))
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, _, err := svc.Register(ctx, "cashier", "s3cret!")
	require.NoError(t, err)

	token, err := svc.Authenticate(ctx, "cashier", "s3cret!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Authenticate(ctx, "cashier", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()

	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	_, err = users.CreateUser(ctx, models.User{Username: "retired", PasswordHash: hash, IsActive: false})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "retired", "s3cret!")
	assert.ErrorIs(t, err, ErrInactiveUser)

	_, err = svc.Authenticate(ctx, "retired", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnknownUserStillComparesHash(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, _, err := svc.Register(ctx, "cashier", "s3cret!")
	require.NoError(t, err)

	var hashes []string
	svc.checkPassword = func(hash, password string) bool {
		hashes = append(hashes, hash)
		return CheckPassword(hash, password)
	}

	_, err = svc.Authenticate(ctx, "nobody", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "cashier", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.Len(t, hashes, 2)
	assert.Equal(t, dummyHash(), hashes[0])
	assert.NotEqual(t, hashes[0], hashes[1])
	assert.False(t, CheckPassword(dummyHash(), "s3cret!"))
}

func TestAuthenticate_TrimsUsername(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, _, err := svc.Register(ctx, " bob ", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)

	_, err = svc.Authenticate(ctx, " bob ", "s3cret!")
	assert.NoError(t, err)
	_, err = svc.Authenticate(ctx, "bob", "s3cret!")
	assert.NoError(t, err)
}
