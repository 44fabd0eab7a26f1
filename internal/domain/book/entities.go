package book

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("book not found in local library")
	ErrNoCopies   = errors.New("book is not available for borrowing")
	ErrAtCapacity = errors.New("all copies already in the library")
	ErrDuplicate  = errors.New("this book is already in the library")
)

// Book is one catalog entry. available_copies moves only through approved
// borrow/return resolutions and always stays within [0, total_copies].
type Book struct {
	ID              uint64    `gorm:"primaryKey;column:id" json:"id"`
	GoogleBooksID   string    `gorm:"column:google_books_id;size:64;not null;uniqueIndex:ux_books_google_id" json:"google_books_id"`
	Title           string    `gorm:"column:title;type:text;not null" json:"title"`
	Authors         []string  `gorm:"column:authors;serializer:json;type:text" json:"authors"`
	Thumbnail       string    `gorm:"column:thumbnail;type:text" json:"thumbnail"`
	TotalCopies     int       `gorm:"column:total_copies;not null;default:1" json:"total_copies"`
	AvailableCopies int       `gorm:"column:available_copies;not null;default:1" json:"available_copies"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Book) TableName() string { return "books" }

// DecodeAuthors parses the JSON author list as stored in the books table.
// Joined projections hand the column back raw, so they share this.
func DecodeAuthors(raw string) []string {
	if raw == "" {
		return nil
	}
	var authors []string
	if err := json.Unmarshal([]byte(raw), &authors); err != nil {
		// legacy rows may hold a bare string
		return []string{raw}
	}
	return authors
}
