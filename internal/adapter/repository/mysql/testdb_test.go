package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	bookDomain "library-backend/internal/domain/book"
	requestDomain "library-backend/internal/domain/request"
	userDomain "library-backend/internal/domain/user"
)

// openTestDB gives each test an isolated in-memory sqlite with the full
// schema. The domain models carry no MySQL-only column types, so they
// migrate as-is.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&userDomain.User{}, &bookDomain.Book{}, &requestDomain.Request{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *userDomain.User {
	t.Helper()
	u := &userDomain.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: userDomain.RoleUser}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedBook(t *testing.T, db *gorm.DB, googleID string, total, available int) *bookDomain.Book {
	t.Helper()
	b := &bookDomain.Book{
		GoogleBooksID:   googleID,
		Title:           "Title " + googleID,
		Authors:         []string{"Author " + googleID},
		TotalCopies:     total,
		AvailableCopies: available,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed book: %v", err)
	}
	return b
}

func seedRequest(t *testing.T, db *gorm.DB, req *requestDomain.Request) *requestDomain.Request {
	t.Helper()
	if req.RequestDate.IsZero() {
		req.RequestDate = time.Now().UTC()
	}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return req
}

func hex32(c byte) string {
	b := make([]byte, 32)
	for i := range b {
		b[i] = c
	}
	return string(b)
}
