package request

import (
	"context"
	"time"
)

// LoanRow is a user-facing projection: a borrow-type ledger row joined with
// its book.
type LoanRow struct {
	RequestID     string     `gorm:"column:request_id"`
	BookID        uint64     `gorm:"column:book_id"`
	RequestType   Type       `gorm:"column:request_type"`
	Status        Status     `gorm:"column:status"`
	RequestDate   time.Time  `gorm:"column:request_date"`
	IssueDate     *time.Time `gorm:"column:issue_date"`
	ReturnDueDate *time.Time `gorm:"column:return_due_date"`
	ReturnDate    *time.Time `gorm:"column:return_date"`
	BookTitle     string     `gorm:"column:book_title"`
	BookAuthors   string     `gorm:"column:book_authors"`
	BookThumbnail string     `gorm:"column:book_thumbnail"`
}

// LedgerRow is the admin projection: every ledger row joined with user and
// book, plus the paired original borrow's dates for return-type rows (looked
// up by recency, not a stored FK).
type LedgerRow struct {
	RequestID             string     `gorm:"column:request_id"`
	UserID                uint64     `gorm:"column:user_id"`
	BookID                uint64     `gorm:"column:book_id"`
	RequestType           Type       `gorm:"column:request_type"`
	Status                Status     `gorm:"column:status"`
	RequestDate           time.Time  `gorm:"column:request_date"`
	IssueDate             *time.Time `gorm:"column:issue_date"`
	ReturnDueDate         *time.Time `gorm:"column:return_due_date"`
	ReturnDate            *time.Time `gorm:"column:return_date"`
	ResolvedAt            *time.Time `gorm:"column:resolved_at"`
	UserName              string     `gorm:"column:user_name"`
	BookTitle             string     `gorm:"column:book_title"`
	BookAuthors           string     `gorm:"column:book_authors"`
	OriginalIssueDate     *time.Time `gorm:"column:original_issue_date"`
	OriginalReturnDueDate *time.Time `gorm:"column:original_return_due_date"`
	OriginalResolvedAt    *time.Time `gorm:"column:original_resolved_at"`
}

type Repository interface {
	Create(ctx context.Context, r *Request) error
	Save(ctx context.Context, r *Request) error
	GetByRequestID(ctx context.Context, requestID string) (*Request, error)

	// GetByRequestIDForUpdate takes an exclusive row lock; only meaningful
	// inside a transaction.
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*Request, error)

	// GetActiveBorrow returns the user's borrow-type row for the book in
	// pending/approved/borrowed state, newest first.
	GetActiveBorrow(ctx context.Context, userID, bookID uint64) (*Request, error)

	// GetLatestIssuedBorrow returns the most recently issued open loan
	// (approved/borrowed), the pairing target for a return resolution.
	GetLatestIssuedBorrow(ctx context.Context, userID, bookID uint64) (*Request, error)

	GetPendingReturn(ctx context.Context, userID, bookID uint64) (*Request, error)

	ListUserLoans(ctx context.Context, userID uint64, limit, offset int) ([]LoanRow, int64, error)

	// ListLedger returns the enriched admin projection; userID narrows it to
	// one user when non-nil.
	ListLedger(ctx context.Context, userID *uint64) ([]LedgerRow, error)
}
