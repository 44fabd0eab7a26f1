package borrowing

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	bookDomain "library-backend/internal/domain/book"
	requestDomain "library-backend/internal/domain/request"
	"library-backend/pkg/id"
)

const defaultPageSize = 12

type Usecase struct {
	books    bookDomain.Repository
	requests requestDomain.Repository
	log      zerolog.Logger
}

func NewUsecase(books bookDomain.Repository, requests requestDomain.Repository, log zerolog.Logger) *Usecase {
	return &Usecase{books: books, requests: requests, log: log}
}

// SubmitBorrow creates a pending borrow request. Availability is checked
// here only as an early rejection; the authoritative check happens at
// approval time, so no copy is reserved yet.
func (u *Usecase) SubmitBorrow(ctx context.Context, userID, bookID uint64) (*SubmitDTO, error) {
	b, err := u.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookDomain.ErrNotFound
		}
		return nil, err
	}
	if b.AvailableCopies <= 0 {
		return nil, bookDomain.ErrNoCopies
	}

	// One active borrow request per (user, book): pending or already issued.
	active, err := u.requests.GetActiveBorrow(ctx, userID, bookID)
	switch {
	case err == nil:
		if active.Status == requestDomain.StatusPending {
			return nil, requestDomain.ErrBorrowPending
		}
		return nil, requestDomain.ErrAlreadyBorrowed
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	req := &requestDomain.Request{
		RequestID:   id.NewID32(),
		UserID:      userID,
		BookID:      bookID,
		RequestType: requestDomain.TypeBorrow,
		Status:      requestDomain.StatusPending,
		RequestDate: time.Now().UTC(),
	}
	if err := u.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	u.log.Info().Uint64("user_id", userID).Uint64("book_id", bookID).
		Str("request_id", req.RequestID).Msg("borrow request submitted")

	return &SubmitDTO{
		RequestID: req.RequestID,
		Message:   "Borrow request submitted and pending admin approval",
	}, nil
}

// SubmitReturn creates a pending return request for the user's open loan on
// the book. The due date is not copied onto the return row; dashboards
// inherit it from the paired borrow row by lookup.
func (u *Usecase) SubmitReturn(ctx context.Context, userID, bookID uint64) (*SubmitDTO, error) {
	if _, err := u.requests.GetLatestIssuedBorrow(ctx, userID, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, requestDomain.ErrNotBorrowed
		}
		return nil, err
	}

	if _, err := u.requests.GetPendingReturn(ctx, userID, bookID); err == nil {
		return nil, requestDomain.ErrReturnPending
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	req := &requestDomain.Request{
		RequestID:   id.NewID32(),
		UserID:      userID,
		BookID:      bookID,
		RequestType: requestDomain.TypeReturn,
		Status:      requestDomain.StatusPending,
		RequestDate: time.Now().UTC(),
	}
	if err := u.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	u.log.Info().Uint64("user_id", userID).Uint64("book_id", bookID).
		Str("request_id", req.RequestID).Msg("return request submitted")

	return &SubmitDTO{
		RequestID: req.RequestID,
		Message:   "Return request submitted successfully",
	}, nil
}

// ListUserLoans pages through the user's borrow history, newest issue first.
func (u *Usecase) ListUserLoans(ctx context.Context, userID uint64, page, limit int) (*LoanPage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if page < 0 {
		page = 0
	}

	rows, total, err := u.requests.ListUserLoans(ctx, userID, limit, page*limit)
	if err != nil {
		return nil, err
	}

	loans := make([]LoanDTO, 0, len(rows))
	for _, row := range rows {
		label, ok := requestDomain.DisplayStatus(row.RequestType, row.Status)
		if !ok {
			u.log.Warn().Str("request_id", row.RequestID).
				Str("request_type", string(row.RequestType)).Str("status", string(row.Status)).
				Msg("no display label for ledger row")
			label = "Unknown"
		}
		loans = append(loans, LoanDTO{
			RequestID:     row.RequestID,
			BookID:        row.BookID,
			Title:         row.BookTitle,
			Authors:       bookDomain.DecodeAuthors(row.BookAuthors),
			Thumbnail:     row.BookThumbnail,
			RequestType:   string(row.RequestType),
			Status:        string(row.Status),
			StatusLabel:   label,
			RequestDate:   row.RequestDate,
			IssueDate:     row.IssueDate,
			ReturnDueDate: row.ReturnDueDate,
			ReturnDate:    row.ReturnDate,
		})
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &LoanPage{
		Loans:       loans,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
	}, nil
}
