package books

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
	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.Book{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *entities.User {
	t.Helper()
	user := &entities.User{Username: "uploader", Email: "uploader@example.com", PasswordHash: "hash", IsAdmin: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func testBook(title string, uploaderID uint) *entities.Book {
	return &entities.Book{
		Title:         title,
		Author:        "Author",
		CoverFilename: title + ".jpg",
		PDFFilename:   title + ".pdf",
		UploaderID:    uploaderID,
	}
}

func TestRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := createTestUser(t, db)

	t.Run("valid book", func(t *testing.T) {
		book := testBook("Valid", user.ID)
		require.NoError(t, repo.Create(book))
		assert.NotZero(t, book.ID)
	})

	t.Run("missing title", func(t *testing.T) {
		book := testBook("", user.ID)
		assert.ErrorIs(t, repo.Create(book), ErrTitleRequired)
	})

	t.Run("missing author", func(t *testing.T) {
		book := testBook("No Author", user.ID)
		book.Author = ""
		assert.ErrorIs(t, repo.Create(book), ErrAuthorRequired)
	})

	t.Run("missing uploader", func(t *testing.T) {
		book := testBook("No Uploader", 0)
		assert.ErrorIs(t, repo.Create(book), ErrUploaderRequired)
	})
}

func TestRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := createTestUser(t, db)

	book := testBook("Fetched", user.ID)
	require.NoError(t, repo.Create(book))

	got, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fetched", got.Title)
	assert.Equal(t, "uploader", got.Uploader.Username)

	_, err = repo.GetByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Find(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := createTestUser(t, db)

	for _, title := range []string{"Abcdef", "Zebra", "ABCD"} {
		require.NoError(t, repo.Create(testBook(title, user.ID)))
	}

	t.Run("empty query returns all in insertion order", func(t *testing.T) {
		found, err := repo.Find("")
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, "Abcdef", found[0].Title)
		assert.Equal(t, "Zebra", found[1].Title)
		assert.Equal(t, "ABCD", found[2].Title)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		found, err := repo.Find("abc")
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "Abcdef", found[0].Title)
		assert.Equal(t, "ABCD", found[1].Title)
	})

	t.Run("no results", func(t *testing.T) {
		found, err := repo.Find("nonexistent")
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestRepository_FindByUploader(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := createTestUser(t, db)

	other := &entities.User{Username: "other", Email: "other@example.com", PasswordHash: "hash"}
	require.NoError(t, db.Create(other).Error)

	require.NoError(t, repo.Create(testBook("Mine", user.ID)))
	require.NoError(t, repo.Create(testBook("Theirs", other.ID)))

	found, err := repo.FindByUploader(user.ID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Mine", found[0].Title)
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := createTestUser(t, db)

	book := testBook("Doomed", user.ID)
	require.NoError(t, repo.Create(book))

	require.NoError(t, repo.Delete(book.ID))

	_, err := repo.GetByID(book.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(book.ID), ErrNotFound)
}

func TestRepository_AssetReferences(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := createTestUser(t, db)

	require.NoError(t, repo.Create(testBook("One", user.ID)))
	require.NoError(t, repo.Create(testBook("Two", user.ID)))

	covers, pdfs, err := repo.AssetReferences()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"One.jpg", "Two.jpg"}, covers)
	assert.ElementsMatch(t, []string{"One.pdf", "Two.pdf"}, pdfs)
}
