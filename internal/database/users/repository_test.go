package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ebookshelf/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}))
	return db
}

func TestRepository_Create(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	user, err := repo.Create("reader", "reader@example.com", "hash")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.IsAdmin)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRepository_Create_DuplicateEmail(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	_, err := repo.Create("reader", "reader@example.com", "hash")
	require.NoError(t, err)

	_, err = repo.Create("otherreader", "reader@example.com", "hash")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRepository_Create_DuplicateUsername(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	_, err := repo.Create("reader", "reader@example.com", "hash")
	require.NoError(t, err)

	_, err = repo.Create("reader", "other@example.com", "hash")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRepository_Getters(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	created, err := repo.Create("reader", "reader@example.com", "hash")
	require.NoError(t, err)

	byID, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "reader", byID.Username)

	byEmail, err := repo.GetByEmail("reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byUsername, err := repo.GetByUsername("reader")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)

	_, err = repo.GetByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_SetAdmin(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	created, err := repo.Create("reader", "reader@example.com", "hash")
	require.NoError(t, err)

	require.NoError(t, repo.SetAdmin(created.ID, true))

	promoted, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	assert.ErrorIs(t, repo.SetAdmin(9999, true), ErrNotFound)
}

func TestRepository_Count(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	_, err = repo.Create("reader", "reader@example.com", "hash")
	require.NoError(t, err)

	count, err = repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
