package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bearister/auth-service/internal/models"
	"github.com/bearister/auth-service/pkg/database"
	appErr "github.com/bearister/auth-service/pkg/errors"
	"github.com/bearister/auth-service/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Use(zap.NewNop())
	db, err := database.Open(context.Background(), database.DriverSQLite, "file::memory:", "test")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func strPtr(s string) *string { return &s }

func TestUserRepository_CreateNormalizesEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	u := &models.User{FullName: "Ada", Email: "  Ada@Example.COM ", PasswordHash: "h", AgreeTerms: true}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.Equal(t, "ada@example.com", u.Email)

	var got models.User
	require.NoError(t, repo.FindByEmail(ctx, "ADA@example.com", &got))
	assert.Equal(t, u.ID, got.ID)
	assert.False(t, got.IsVerified)
	assert.False(t, got.IsSuperadmin)
}

func TestUserRepository_CreateRejectsCaseInsensitiveDuplicate(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{FullName: "A", Email: "A@x.com", PasswordHash: "h"}))
	err := repo.Create(ctx, &models.User{FullName: "B", Email: "a@X.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserRepository_StorageConstraintCatchesRacedDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{FullName: "A", Email: "race@x.com", PasswordHash: "h"}))

	// Skip the pre-check, as a concurrent registration would.
	base := NewBaseRepository[models.User](db)
	err := base.Create(ctx, &models.User{FullName: "B", Email: "RACE@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserRepository_PhoneUniqueness(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	a := &models.User{FullName: "A", Email: "a@x.com", PasswordHash: "h", Phone: strPtr("555")}
	b := &models.User{FullName: "B", Email: "b@x.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	_, err := repo.UpdateFields(ctx, b.ID, UserUpdate{Phone: strPtr("555")})
	assert.ErrorIs(t, err, ErrPhoneTaken)
}

func TestUserRepository_FindForLoginSeparatesRoles(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{FullName: "Root", Email: "root@x.com", PasswordHash: "h", IsSuperadmin: true}))
	require.NoError(t, repo.Create(ctx, &models.User{FullName: "User", Email: "user@x.com", PasswordHash: "h"}))

	var u models.User
	require.NoError(t, repo.FindForLogin(ctx, "root@x.com", true, &u))
	assert.True(t, u.IsSuperadmin)

	err := repo.FindForLogin(ctx, "root@x.com", false, &u)
	assert.True(t, appErr.IsCode(err, appErr.CodeNotFound))

	err = repo.FindForLogin(ctx, "user@x.com", true, &u)
	assert.True(t, appErr.IsCode(err, appErr.CodeNotFound))

	require.NoError(t, repo.FindForLogin(ctx, "USER@x.com", false, &u))
	assert.Equal(t, "user@x.com", u.Email)
}

func TestUserRepository_UpdateFields(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	u := &models.User{FullName: "Old", Email: "old@x.com", PasswordHash: "h", VerificationToken: strPtr("digest")}
	require.NoError(t, repo.Create(ctx, u))

	verified := true
	got, err := repo.UpdateFields(ctx, u.ID, UserUpdate{
		FullName:               strPtr("New"),
		Email:                  strPtr("New@X.com"),
		IsVerified:             &verified,
		ClearVerificationToken: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "New", got.FullName)
	assert.Equal(t, "new@x.com", got.Email)
	assert.True(t, got.IsVerified)
	assert.Nil(t, got.VerificationToken)
	assert.Equal(t, "h", got.PasswordHash)
}

func TestUserRepository_UpdateFieldsEmailCollision(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	a := &models.User{FullName: "A", Email: "a@x.com", PasswordHash: "h"}
	b := &models.User{FullName: "B", Email: "b@x.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	_, err := repo.UpdateFields(ctx, b.ID, UserUpdate{Email: strPtr("A@X.COM")})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Re-submitting your own address is not a collision.
	_, err = repo.UpdateFields(ctx, b.ID, UserUpdate{Email: strPtr("B@x.com")})
	assert.NoError(t, err)
}

func TestUserRepository_UpdateFieldsNotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.UpdateFields(context.Background(), 404, UserUpdate{FullName: strPtr("x")})
	assert.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}
