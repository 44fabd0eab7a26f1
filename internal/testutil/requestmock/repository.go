package requestmock

import (
	"context"

	domain "library-backend/internal/domain/request"
)

// Repo is a function-backed mock satisfying request.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, r *domain.Request) error
	SaveFn                    func(ctx context.Context, r *domain.Request) error
	GetByRequestIDFn          func(ctx context.Context, requestID string) (*domain.Request, error)
	GetByRequestIDForUpdateFn func(ctx context.Context, requestID string) (*domain.Request, error)
	GetActiveBorrowFn         func(ctx context.Context, userID, bookID uint64) (*domain.Request, error)
	GetLatestIssuedBorrowFn   func(ctx context.Context, userID, bookID uint64) (*domain.Request, error)
	GetPendingReturnFn        func(ctx context.Context, userID, bookID uint64) (*domain.Request, error)
	ListUserLoansFn           func(ctx context.Context, userID uint64, limit, offset int) ([]domain.LoanRow, int64, error)
	ListLedgerFn              func(ctx context.Context, userID *uint64) ([]domain.LedgerRow, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Request) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, r *domain.Request) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRequestID(ctx context.Context, requestID string) (*domain.Request, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*domain.Request, error) {
	if m.GetByRequestIDForUpdateFn != nil {
		return m.GetByRequestIDForUpdateFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetActiveBorrow(ctx context.Context, userID, bookID uint64) (*domain.Request, error) {
	if m.GetActiveBorrowFn != nil {
		return m.GetActiveBorrowFn(ctx, userID, bookID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetLatestIssuedBorrow(ctx context.Context, userID, bookID uint64) (*domain.Request, error) {
	if m.GetLatestIssuedBorrowFn != nil {
		return m.GetLatestIssuedBorrowFn(ctx, userID, bookID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetPendingReturn(ctx context.Context, userID, bookID uint64) (*domain.Request, error) {
	if m.GetPendingReturnFn != nil {
		return m.GetPendingReturnFn(ctx, userID, bookID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListUserLoans(ctx context.Context, userID uint64, limit, offset int) ([]domain.LoanRow, int64, error) {
	if m.ListUserLoansFn != nil {
		return m.ListUserLoansFn(ctx, userID, limit, offset)
	}
	return nil, 0, context.Canceled
}

func (m *Repo) ListLedger(ctx context.Context, userID *uint64) ([]domain.LedgerRow, error) {
	if m.ListLedgerFn != nil {
		return m.ListLedgerFn(ctx, userID)
	}
	return nil, context.Canceled
}
