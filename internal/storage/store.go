// Package storage persists uploaded book assets (cover images and PDF
// files) on disk. Each asset kind has its own root directory; stored
// references are bare filenames relative to that root, which is what the
// catalog records in the database.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ebookshelf/internal/utils"
)

var (
	ErrInvalidFileType = errors.New("file type is not allowed")
	ErrNotFound        = errors.New("asset not found")
	ErrUnknownKind     = errors.New("unknown asset kind")
)

// Kind identifies the class of a stored asset.
type Kind string

const (
	KindCover Kind = "cover"
	KindPDF   Kind = "pdf"
)

// allowedExtensions maps each kind to its lowercase extension allow-list.
var allowedExtensions = map[Kind][]string{
	KindCover: {".jpg", ".jpeg", ".png"},
	KindPDF:   {".pdf"},
}

// Store manages asset files across per-kind root directories.
type Store struct {
	roots map[Kind]string
}

// NewStore creates a store with the given root directories, creating them
// if they do not exist yet.
func NewStore(coversDir, pdfsDir string) (*Store, error) {
	roots := map[Kind]string{
		KindCover: coversDir,
		KindPDF:   pdfsDir,
	}
	for kind, root := range roots {
		if root == "" {
			return nil, fmt.Errorf("storage root for %s assets is not configured", kind)
		}
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s storage root: %w", kind, err)
		}
	}
	return &Store{roots: roots}, nil
}

// Save validates the upload against the kind's extension allow-list,
// sanitizes the filename and writes the stream under the kind's root.
// It returns the stored reference to record in the catalog.
//
// A name collision does not overwrite the existing file: the new file gets
// a numeric suffix before the extension and the uniquified name is returned.
func (s *Store) Save(kind Kind, r io.Reader, originalFilename string) (string, error) {
	root, ok := s.roots[kind]
	if !ok {
		return "", ErrUnknownKind
	}

	ext := strings.ToLower(filepath.Ext(originalFilename))
	if !extensionAllowed(kind, ext) {
		return "", fmt.Errorf("%w: %q for %s", ErrInvalidFileType, ext, kind)
	}

	name, dst, err := createUnique(root, utils.SanitizeFilename(originalFilename))
	if err != nil {
		return "", fmt.Errorf("failed to create %s file: %w", kind, err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(filepath.Join(root, name))
		return "", fmt.Errorf("failed to write %s file: %w", kind, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(filepath.Join(root, name))
		return "", fmt.Errorf("failed to write %s file: %w", kind, err)
	}

	return name, nil
}

// Open returns a reader over the stored asset. The caller must close it.
// A reference whose file is missing from disk reports ErrNotFound even when
// a catalog record still points at it.
func (s *Store) Open(kind Kind, ref string) (*os.File, error) {
	path, err := s.Resolve(kind, ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Resolve returns the on-disk path for a stored reference, verifying the
// file exists. The reference is re-sanitized so stale or tampered database
// values cannot escape the storage root.
func (s *Store) Resolve(kind Kind, ref string) (string, error) {
	root, ok := s.roots[kind]
	if !ok {
		return "", ErrUnknownKind
	}
	if ref == "" {
		return "", ErrNotFound
	}

	path := filepath.Join(root, utils.SanitizeFilename(ref))
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	if info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}

// Delete removes the stored asset. Deleting a reference that is already
// absent is a no-op, so the operation is idempotent.
func (s *Store) Delete(kind Kind, ref string) error {
	root, ok := s.roots[kind]
	if !ok {
		return ErrUnknownKind
	}
	if ref == "" {
		return nil
	}

	err := os.Remove(filepath.Join(root, utils.SanitizeFilename(ref)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// extensionAllowed reports whether ext is on the allow-list for kind.
func extensionAllowed(kind Kind, ext string) bool {
	for _, allowed := range allowedExtensions[kind] {
		if ext == allowed {
			return true
		}
	}
	return false
}

// createUnique exclusively creates a file for name under root, trying
// name itself first and then "-N" suffixed variants before the extension.
// O_EXCL makes collision handling safe against a concurrent save of the
// same name: the loser of the race moves on to the next suffix instead of
// truncating the winner's file.
func createUnique(root, name string) (string, *os.File, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 1; ; i++ {
		f, err := os.OpenFile(filepath.Join(root, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return candidate, f, nil
		}
		if !os.IsExist(err) {
			return "", nil, err
		}
		candidate = fmt.Sprintf("%s-%d%s", base, i, ext)
	}
}
