package entities

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:150;not null" json:"email"`
	PasswordHash string    `gorm:"size:200;not null" json:"-"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

type Book struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"index;size:100;not null" json:"title"`
	Author        string    `gorm:"size:100;not null" json:"author"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	CoverFilename string    `gorm:"size:200" json:"cover_filename"`
	PDFFilename   string    `gorm:"column:pdf_filename;size:200" json:"pdf_filename"`
	UploaderID    uint      `gorm:"index;not null" json:"uploader_id"`
	Uploader      User      `gorm:"foreignKey:UploaderID" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (Book) TableName() string {
	return "books"
}
