package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiwoajasa245/quran-reader/internal/database/dbtest"
)

func TestRepository(t *testing.T) {
	repo := NewRepository(dbtest.New(t))
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, User{Email: "repo@example.com", Password: "hash"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "01", created.Reciter)

	_, err = repo.CreateUser(ctx, User{Email: "repo@example.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	byEmail, err := repo.GetUserByEmail(ctx, "repo@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.Password)

	updated, err := repo.UpdateUserProfile(ctx, created.ID, UpdateProfileRequest{UserName: "qari", Reciter: "03"})
	require.NoError(t, err)
	assert.Equal(t, "qari", updated.UserName)
	assert.Equal(t, "03", updated.Reciter)

	byID, err := repo.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "03", byID.Reciter)

	_, err = repo.GetUserByID(ctx, -1)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.UpdateUserProfile(ctx, -1, UpdateProfileRequest{Reciter: "01"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
