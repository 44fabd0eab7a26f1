package uow

import (
	"context"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/request"
	"library-backend/internal/domain/user"
)

// Repos bundles the repositories rebound to one transaction.
type Repos struct {
	Books    book.Repository
	Requests request.Repository
	Users    user.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn inside a single all-or-nothing transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error

	// WithinRequestTx locks the ledger row first, then passes it in. Two
	// concurrent resolutions of the same request serialize here.
	WithinRequestTx(ctx context.Context, requestID string, fn func(r Repos, req *request.Request) error) error
}
