package service

import (
	"context"
	"testing"

	"cyberacademy/internal/repository/memory"
	"cyberacademy/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(store *memory.Store) UserService {
	return NewUserService(store, "test-secret", newValidator(), nopLogger())
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(memory.New())

	u, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "s3cure-pass", FullName: "Alice"})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "s3cure-pass", u.PasswordHash)
	assert.Equal(t, 1, u.Level)

	token, logged, err := svc.Login(ctx, "alice", "s3cure-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	claims, err := util.ValidateJWT(token, "test-secret")
	require.NoError(t, err)
	id, err := util.UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(memory.New())
	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "s3cure-pass"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody", "s3cure-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(memory.New())
	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "s3cure-pass"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "alice", Email: "other@example.com", Password: "s3cure-pass"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "s3cure-pass"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc := newUserService(memory.New())

	tests := map[string]RegisterRequest{
		"short password": {Username: "alice", Email: "alice@example.com", Password: "short"},
		"bad email":      {Username: "alice", Email: "not-an-email", Password: "s3cure-pass"},
		"no username":    {Email: "alice@example.com", Password: "s3cure-pass"},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestProgressSummary(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	user := mustCreateUser(t, store, "learner", 250)

	p, err := newUserService(store).Progress(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 250, p.XP)
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, []string{}, p.Badges)

	_, err = newUserService(store).Progress(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
