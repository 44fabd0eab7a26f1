package mysql

import (
	"context"

	"gorm.io/gorm"

	bookDomain "library-backend/internal/domain/book"
)

type BookRepository struct{ db *gorm.DB }

func NewBookRepository(db *gorm.DB) *BookRepository { return &BookRepository{db: db} }

func (r *BookRepository) Create(ctx context.Context, b *bookDomain.Book) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookRepository) GetByID(ctx context.Context, id uint64) (*bookDomain.Book, error) {
	var out bookDomain.Book
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *BookRepository) GetByGoogleID(ctx context.Context, googleID string) (*bookDomain.Book, error) {
	var out bookDomain.Book
	res := r.db.WithContext(ctx).Where("google_books_id = ?", googleID).First(&out)
	return &out, res.Error
}

func (r *BookRepository) List(ctx context.Context) ([]bookDomain.Book, error) {
	var out []bookDomain.Book
	res := r.db.WithContext(ctx).Order("title ASC").Find(&out)
	return out, res.Error
}

// AdjustAvailability moves available_copies by delta in one guarded UPDATE.
// The UPDATE takes the row lock, so concurrent resolutions for the same book
// serialize here, and the WHERE guard keeps the counter inside
// [0, total_copies] regardless of what the caller checked earlier.
func (r *BookRepository) AdjustAvailability(ctx context.Context, id uint64, delta int) error {
	tx := r.db.WithContext(ctx).Model(&bookDomain.Book{}).Where("id = ?", id)
	if delta < 0 {
		tx = tx.Where("available_copies >= ?", -delta)
	} else {
		tx = tx.Where("available_copies + ? <= total_copies", delta)
	}
	res := tx.UpdateColumn("available_copies", gorm.Expr("available_copies + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if delta < 0 {
			return bookDomain.ErrNoCopies
		}
		return bookDomain.ErrAtCapacity
	}
	return nil
}
