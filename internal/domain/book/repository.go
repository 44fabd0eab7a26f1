package book

import "context"

type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id uint64) (*Book, error)
	GetByGoogleID(ctx context.Context, googleID string) (*Book, error)
	List(ctx context.Context) ([]Book, error)

	// AdjustAvailability applies a guarded atomic delta to available_copies.
	// A decrement that would go below zero returns ErrNoCopies; an increment
	// that would exceed total_copies returns ErrAtCapacity. Either way the
	// row is left untouched.
	AdjustAvailability(ctx context.Context, id uint64, delta int) error
}
