package bookmock

import (
	"context"

	domain "library-backend/internal/domain/book"
)

// Repo is a function-backed mock satisfying book.Repository. Fill in the
// fields a test needs; the rest default to no-ops or gorm-style not-found.
type Repo struct {
	CreateFn             func(ctx context.Context, b *domain.Book) error
	GetByIDFn            func(ctx context.Context, id uint64) (*domain.Book, error)
	GetByGoogleIDFn      func(ctx context.Context, googleID string) (*domain.Book, error)
	ListFn               func(ctx context.Context) ([]domain.Book, error)
	AdjustAvailabilityFn func(ctx context.Context, id uint64, delta int) error
}

func (m *Repo) Create(ctx context.Context, b *domain.Book) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Book, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByGoogleID(ctx context.Context, googleID string) (*domain.Book, error) {
	if m.GetByGoogleIDFn != nil {
		return m.GetByGoogleIDFn(ctx, googleID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.Book, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *Repo) AdjustAvailability(ctx context.Context, id uint64, delta int) error {
	if m.AdjustAvailabilityFn != nil {
		return m.AdjustAvailabilityFn(ctx, id, delta)
	}
	return nil
}
