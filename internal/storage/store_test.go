package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "covers"), filepath.Join(dir, "books"))
	require.NoError(t, err)
	return store
}

func TestStore_Save(t *testing.T) {
	store := setupTestStore(t)

	t.Run("stores a cover", func(t *testing.T) {
		ref, err := store.Save(KindCover, strings.NewReader("image-bytes"), "cover.jpg")
		require.NoError(t, err)
		assert.Equal(t, "cover.jpg", ref)

		path, err := store.Resolve(KindCover, ref)
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "image-bytes", string(data))
	})

	t.Run("stores a pdf", func(t *testing.T) {
		ref, err := store.Save(KindPDF, strings.NewReader("pdf-bytes"), "book.pdf")
		require.NoError(t, err)
		assert.Equal(t, "book.pdf", ref)
	})

	t.Run("rejects a disallowed extension", func(t *testing.T) {
		_, err := store.Save(KindPDF, strings.NewReader("payload"), "malware.exe")
		assert.ErrorIs(t, err, ErrInvalidFileType)

		_, err = store.Save(KindCover, strings.NewReader("payload"), "notes.pdf")
		assert.ErrorIs(t, err, ErrInvalidFileType)
	})

	t.Run("sanitizes traversal attempts", func(t *testing.T) {
		ref, err := store.Save(KindCover, strings.NewReader("x"), "../../etc/passwd.png")
		require.NoError(t, err)
		assert.Equal(t, "passwd.png", ref)
	})

	t.Run("collision gets a numeric suffix", func(t *testing.T) {
		first, err := store.Save(KindPDF, strings.NewReader("first"), "same.pdf")
		require.NoError(t, err)
		second, err := store.Save(KindPDF, strings.NewReader("second"), "same.pdf")
		require.NoError(t, err)
		third, err := store.Save(KindPDF, strings.NewReader("third"), "same.pdf")
		require.NoError(t, err)

		assert.Equal(t, "same.pdf", first)
		assert.Equal(t, "same-1.pdf", second)
		assert.Equal(t, "same-2.pdf", third)

		// Original content is untouched
		path, err := store.Resolve(KindPDF, first)
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "first", string(data))
	})

	t.Run("never truncates a file it did not create", func(t *testing.T) {
		taken := filepath.Join(store.roots[KindPDF], "taken.pdf")
		require.NoError(t, os.WriteFile(taken, []byte("already here"), 0o644))

		ref, err := store.Save(KindPDF, strings.NewReader("newcomer"), "taken.pdf")
		require.NoError(t, err)
		assert.Equal(t, "taken-1.pdf", ref)

		data, err := os.ReadFile(taken)
		require.NoError(t, err)
		assert.Equal(t, "already here", string(data))
	})
}

func TestStore_Open(t *testing.T) {
	store := setupTestStore(t)

	ref, err := store.Save(KindPDF, strings.NewReader("content"), "book.pdf")
	require.NoError(t, err)

	f, err := store.Open(KindPDF, ref)
	require.NoError(t, err)
	defer f.Close()

	_, err = store.Open(KindPDF, "missing.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Resolve(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Resolve(KindCover, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Resolve(KindCover, "missing.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Resolve(Kind("bogus"), "file.jpg")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)

	ref, err := store.Save(KindCover, strings.NewReader("x"), "cover.jpg")
	require.NoError(t, err)

	require.NoError(t, store.Delete(KindCover, ref))
	_, err = store.Resolve(KindCover, ref)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op
	assert.NoError(t, store.Delete(KindCover, ref))
	assert.NoError(t, store.Delete(KindCover, ""))
}

// backdate pushes a stored file's mtime past the sweep grace period.
func backdate(t *testing.T, store *Store, kind Kind, ref string) {
	t.Helper()
	path, err := store.Resolve(kind, ref)
	require.NoError(t, err)
	stale := time.Now().Add(-2 * SweepGracePeriod)
	require.NoError(t, os.Chtimes(path, stale, stale))
}

func TestStore_Sweep(t *testing.T) {
	store := setupTestStore(t)

	liveCover, err := store.Save(KindCover, strings.NewReader("x"), "live.jpg")
	require.NoError(t, err)
	livePDF, err := store.Save(KindPDF, strings.NewReader("x"), "live.pdf")
	require.NoError(t, err)
	orphanCover, err := store.Save(KindCover, strings.NewReader("x"), "orphan.jpg")
	require.NoError(t, err)
	orphanPDF, err := store.Save(KindPDF, strings.NewReader("x"), "orphan.pdf")
	require.NoError(t, err)
	backdate(t, store, KindCover, orphanCover)
	backdate(t, store, KindPDF, orphanPDF)

	removed, err := store.Sweep(map[Kind][]string{
		KindCover: {liveCover},
		KindPDF:   {livePDF},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	// Referenced files survive, orphans are gone
	_, err = store.Resolve(KindCover, liveCover)
	assert.NoError(t, err)
	_, err = store.Resolve(KindPDF, livePDF)
	assert.NoError(t, err)
	_, err = store.Resolve(KindCover, "orphan.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Resolve(KindPDF, "orphan.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	// A second sweep removes nothing
	removed, err = store.Sweep(map[Kind][]string{
		KindCover: {liveCover},
		KindPDF:   {livePDF},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestStore_Sweep_LeavesRecentFiles(t *testing.T) {
	store := setupTestStore(t)

	// A file saved moments ago may belong to an upload whose catalog
	// record has not been written yet, so it must not be reclaimed even
	// when nothing references it.
	ref, err := store.Save(KindPDF, strings.NewReader("in-flight"), "fresh.pdf")
	require.NoError(t, err)

	removed, err := store.Sweep(map[Kind][]string{})
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	_, err = store.Resolve(KindPDF, ref)
	assert.NoError(t, err)

	// Once past the grace period the same file is fair game.
	backdate(t, store, KindPDF, ref)
	removed, err = store.Sweep(map[Kind][]string{})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = store.Resolve(KindPDF, ref)
	assert.ErrorIs(t, err, ErrNotFound)
}
