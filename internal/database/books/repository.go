// Package books provides database operations for the book catalog.
package books

import (
	"errors"

	"gorm.io/gorm"

	"ebookshelf/internal/entities"
)

var (
	ErrNotFound         = errors.New("book not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrAuthorRequired   = errors.New("author is required")
	ErrUploaderRequired = errors.New("uploader is required")
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create validates and inserts a new book record. The asset references are
// expected to point at files already persisted by the storage layer.
func (r *Repository) Create(book *entities.Book) error {
	if book.Title == "" {
		return ErrTitleRequired
	}
	if book.Author == "" {
		return ErrAuthorRequired
	}
	if book.UploaderID == 0 {
		return ErrUploaderRequired
	}

	return r.db.Create(book).Error
}

// GetByID retrieves a book with its uploader preloaded.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Uploader").First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// Find lists books whose title contains the query, case-insensitively.
// An empty query returns the full catalog. Results come back in insertion
// order (ascending id).
func (r *Repository) Find(titleQuery string) ([]entities.Book, error) {
	var books []entities.Book
	q := r.db.Order("id ASC")
	if titleQuery != "" {
		q = q.Where("LOWER(title) LIKE LOWER(?)", "%"+titleQuery+"%")
	}
	err := q.Find(&books).Error
	return books, err
}

// FindByUploader lists books uploaded by the given user, in insertion order.
func (r *Repository) FindByUploader(uploaderID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("uploader_id = ?", uploaderID).Order("id ASC").Find(&books).Error
	return books, err
}

// Delete removes a book record. The caller is responsible for sequencing the
// removal of the associated asset files after this commits.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AssetReferences returns every cover and PDF filename referenced by any
// book record. Used by the orphan sweep to decide which files are live.
func (r *Repository) AssetReferences() (covers []string, pdfs []string, err error) {
	err = r.db.Model(&entities.Book{}).Where("cover_filename <> ''").Pluck("cover_filename", &covers).Error
	if err != nil {
		return nil, nil, err
	}
	err = r.db.Model(&entities.Book{}).Where("pdf_filename <> ''").Pluck("pdf_filename", &pdfs).Error
	if err != nil {
		return nil, nil, err
	}
	return covers, pdfs, nil
}

// Count returns the number of books in the catalog.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}
