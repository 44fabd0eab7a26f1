package resolution

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	bookDomain "library-backend/internal/domain/book"
	requestDomain "library-backend/internal/domain/request"
	"library-backend/internal/domain/uow"
	"library-backend/internal/testutil/bookmock"
	"library-backend/internal/testutil/requestmock"
	"library-backend/internal/testutil/uowmock"
)

// fakeTx hands the callback the seeded row, like the locked-row transaction
// does, and reports whether the callback returned an error (= rollback).
func fakeTx(row *requestDomain.Request, books *bookmock.Repo, requests *requestmock.Repo, rolledBack *bool) *uowmock.UoW {
	return &uowmock.UoW{
		WithinRequestTxFn: func(ctx context.Context, requestID string, fn func(r uow.Repos, req *requestDomain.Request) error) error {
			if row == nil || row.RequestID != requestID {
				return requestDomain.ErrNotFound
			}
			err := fn(uow.Repos{Books: books, Requests: requests}, row)
			if err != nil && rolledBack != nil {
				*rolledBack = true
			}
			return err
		},
	}
}

func pendingBorrow(reqID string) *requestDomain.Request {
	return &requestDomain.Request{
		RequestID:   reqID,
		UserID:      7,
		BookID:      5,
		RequestType: requestDomain.TypeBorrow,
		Status:      requestDomain.StatusPending,
		RequestDate: time.Now().UTC(),
	}
}

func TestResolve_ApproveBorrow_StampsLoan(t *testing.T) {
	reqID := strings.Repeat("a", 32)
	row := pendingBorrow(reqID)

	var delta int
	books := &bookmock.Repo{
		AdjustAvailabilityFn: func(ctx context.Context, id uint64, d int) error {
			delta = d
			return nil
		},
	}
	saved := 0
	requests := &requestmock.Repo{
		SaveFn: func(ctx context.Context, r *requestDomain.Request) error { saved++; return nil },
	}
	u := NewUsecase(fakeTx(row, books, requests, nil), requests, zerolog.Nop())

	dto, err := u.Resolve(context.Background(), ResolveInput{RequestID: reqID, Decision: requestDomain.DecisionApproved, AdminID: 1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if delta != -1 {
		t.Fatalf("availability delta = %d, want -1", delta)
	}
	if row.Status != requestDomain.StatusBorrowed {
		t.Fatalf("status = %s, want borrowed", row.Status)
	}
	if row.IssueDate == nil || row.ReturnDueDate == nil {
		t.Fatal("loan dates not stamped")
	}
	if got := row.ReturnDueDate.Sub(*row.IssueDate); got != 15*24*time.Hour {
		t.Fatalf("loan period = %v, want 15 days", got)
	}
	if row.ResolvedAt == nil || row.ResolvedBy == nil || *row.ResolvedBy != 1 {
		t.Fatalf("resolution audit missing: %+v", row)
	}
	if saved != 1 {
		t.Fatalf("saves = %d, want 1", saved)
	}
	if dto.Status != string(requestDomain.StatusBorrowed) {
		t.Fatalf("dto status = %q", dto.Status)
	}
}

func TestResolve_RejectBorrow_NoCounterTouch(t *testing.T) {
	reqID := strings.Repeat("b", 32)
	row := pendingBorrow(reqID)

	books := &bookmock.Repo{
		AdjustAvailabilityFn: func(ctx context.Context, id uint64, d int) error {
			t.Fatal("availability must not change on rejection")
			return nil
		},
	}
	requests := &requestmock.Repo{
		SaveFn: func(ctx context.Context, r *requestDomain.Request) error { return nil },
	}
	u := NewUsecase(fakeTx(row, books, requests, nil), requests, zerolog.Nop())

	dto, err := u.Resolve(context.Background(), ResolveInput{RequestID: reqID, Decision: requestDomain.DecisionRejected, AdminID: 1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if row.Status != requestDomain.StatusRejected {
		t.Fatalf("status = %s, want rejected", row.Status)
	}
	if row.IssueDate != nil || row.ReturnDueDate != nil {
		t.Fatal("rejected borrow must not carry loan dates")
	}
	if row.ResolvedAt == nil || row.ResolvedBy == nil {
		t.Fatal("resolution audit missing")
	}
	if !strings.Contains(dto.Message, "rejected successfully") {
		t.Fatalf("message = %q", dto.Message)
	}
}

func TestResolve_InvalidDecision(t *testing.T) {
	u := NewUsecase(&uowmock.UoW{}, &requestmock.Repo{}, zerolog.Nop())

	_, err := u.Resolve(context.Background(), ResolveInput{RequestID: strings.Repeat("a", 32), Decision: "maybe", AdminID: 1})
	if !errors.Is(err, requestDomain.ErrInvalidDecision) {
		t.Fatalf("err = %v, want ErrInvalidDecision", err)
	}
}

func TestResolve_NotFound(t *testing.T) {
	u := NewUsecase(fakeTx(nil, &bookmock.Repo{}, &requestmock.Repo{}, nil), &requestmock.Repo{}, zerolog.Nop())

	_, err := u.Resolve(context.Background(), ResolveInput{RequestID: strings.Repeat("f", 32), Decision: requestDomain.DecisionApproved, AdminID: 1})
	if !errors.Is(err, requestDomain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolve_SecondResolutionFails(t *testing.T) {
	reqID := strings.Repeat("c", 32)
	row := pendingBorrow(reqID)
	row.Status = requestDomain.StatusBorrowed // first resolution already applied

	u := NewUsecase(fakeTx(row, &bookmock.Repo{}, &requestmock.Repo{}, nil), &requestmock.Repo{}, zerolog.Nop())

	_, err := u.Resolve(context.Background(), ResolveInput{RequestID: reqID, Decision: requestDomain.DecisionApproved, AdminID: 1})
	if !errors.Is(err, requestDomain.ErrNotPending) {
		t.Fatalf("err = %v, want ErrNotPending", err)
	}
	if !strings.Contains(err.Error(), "current status: borrowed") {
		t.Fatalf("err = %v, want current status in message", err)
	}
}

func TestResolve_ApproveBorrow_NoCopiesRollsBack(t *testing.T) {
	reqID := strings.Repeat("d", 32)
	row := pendingBorrow(reqID)

	books := &bookmock.Repo{
		AdjustAvailabilityFn: func(ctx context.Context, id uint64, d int) error {
			return bookDomain.ErrNoCopies
		},
	}
	requests := &requestmock.Repo{
		SaveFn: func(ctx context.Context, r *requestDomain.Request) error {
			t.Fatal("row must not be saved when the decrement fails")
			return nil
		},
	}
	var rolledBack bool
	u := NewUsecase(fakeTx(row, books, requests, &rolledBack), requests, zerolog.Nop())

	_, err := u.Resolve(context.Background(), ResolveInput{RequestID: reqID, Decision: requestDomain.DecisionApproved, AdminID: 1})
	if !errors.Is(err, bookDomain.ErrNoCopies) {
		t.Fatalf("err = %v, want ErrNoCopies", err)
	}
	if !rolledBack {
		t.Fatal("transaction must roll back")
	}
}

func TestResolve_ApproveReturn_ClosesPairAndRestocks(t *testing.T) {
	reqID := strings.Repeat("e", 32)
	issue := time.Now().UTC().Add(-10 * 24 * time.Hour)
	row := &requestDomain.Request{
		RequestID:   reqID,
		UserID:      7,
		BookID:      5,
		RequestType: requestDomain.TypeReturn,
		Status:      requestDomain.StatusPending,
		RequestDate: time.Now().UTC(),
	}
	borrow := &requestDomain.Request{
		RequestID:   strings.Repeat("0", 32),
		UserID:      7,
		BookID:      5,
		RequestType: requestDomain.TypeBorrow,
		Status:      requestDomain.StatusBorrowed,
		IssueDate:   &issue,
	}

	var delta int
	books := &bookmock.Repo{
		AdjustAvailabilityFn: func(ctx context.Context, id uint64, d int) error {
			delta = d
			return nil
		},
	}
	var savedIDs []string
	requests := &requestmock.Repo{
		GetLatestIssuedBorrowFn: func(ctx context.Context, userID, bookID uint64) (*requestDomain.Request, error) {
			return borrow, nil
		},
		SaveFn: func(ctx context.Context, r *requestDomain.Request) error {
			savedIDs = append(savedIDs, r.RequestID)
			return nil
		},
	}
	u := NewUsecase(fakeTx(row, books, requests, nil), requests, zerolog.Nop())

	_, err := u.Resolve(context.Background(), ResolveInput{RequestID: reqID, Decision: requestDomain.DecisionApproved, AdminID: 1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if delta != 1 {
		t.Fatalf("availability delta = %d, want +1", delta)
	}
	if row.Status != requestDomain.StatusReturned || row.ReturnDate == nil {
		t.Fatalf("return row not closed: %+v", row)
	}
	if borrow.Status != requestDomain.StatusReturned || borrow.ReturnDate == nil {
		t.Fatalf("paired borrow not closed: %+v", borrow)
	}
	if len(savedIDs) != 2 {
		t.Fatalf("saves = %v, want return row and paired borrow", savedIDs)
	}
}

func TestResolve_ApproveReturn_MissingPairStillCompletes(t *testing.T) {
	reqID := strings.Repeat("1", 32)
	row := &requestDomain.Request{
		RequestID:   reqID,
		UserID:      7,
		BookID:      5,
		RequestType: requestDomain.TypeReturn,
		Status:      requestDomain.StatusPending,
	}

	var delta int
	books := &bookmock.Repo{
		AdjustAvailabilityFn: func(ctx context.Context, id uint64, d int) error {
			delta = d
			return nil
		},
	}
	requests := &requestmock.Repo{
		GetLatestIssuedBorrowFn: func(ctx context.Context, userID, bookID uint64) (*requestDomain.Request, error) {
			return nil, gorm.ErrRecordNotFound
		},
		SaveFn: func(ctx context.Context, r *requestDomain.Request) error { return nil },
	}
	u := NewUsecase(fakeTx(row, books, requests, nil), requests, zerolog.Nop())

	_, err := u.Resolve(context.Background(), ResolveInput{RequestID: reqID, Decision: requestDomain.DecisionApproved, AdminID: 1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if row.Status != requestDomain.StatusReturned {
		t.Fatalf("status = %s, want returned", row.Status)
	}
	if delta != 1 {
		t.Fatalf("availability delta = %d, want +1", delta)
	}
}

func TestResolve_ApproveReturn_AtCapacitySwallowed(t *testing.T) {
	reqID := strings.Repeat("2", 32)
	row := &requestDomain.Request{
		RequestID:   reqID,
		UserID:      7,
		BookID:      5,
		RequestType: requestDomain.TypeReturn,
		Status:      requestDomain.StatusPending,
	}

	books := &bookmock.Repo{
		AdjustAvailabilityFn: func(ctx context.Context, id uint64, d int) error {
			return bookDomain.ErrAtCapacity
		},
	}
	requests := &requestmock.Repo{
		GetLatestIssuedBorrowFn: func(ctx context.Context, userID, bookID uint64) (*requestDomain.Request, error) {
			return nil, gorm.ErrRecordNotFound
		},
		SaveFn: func(ctx context.Context, r *requestDomain.Request) error { return nil },
	}
	u := NewUsecase(fakeTx(row, books, requests, nil), requests, zerolog.Nop())

	if _, err := u.Resolve(context.Background(), ResolveInput{RequestID: reqID, Decision: requestDomain.DecisionApproved, AdminID: 1}); err != nil {
		t.Fatalf("capacity ceiling must not fail the return: %v", err)
	}
}

func TestListUserHistory_PairedDates(t *testing.T) {
	issue := time.Now().UTC().Add(-5 * 24 * time.Hour)
	due := issue.Add(15 * 24 * time.Hour)
	requests := &requestmock.Repo{
		ListLedgerFn: func(ctx context.Context, userID *uint64) ([]requestDomain.LedgerRow, error) {
			return []requestDomain.LedgerRow{{
				RequestID:             strings.Repeat("3", 32),
				UserID:                *userID,
				UserName:              "Ana",
				BookTitle:             "Dune",
				BookAuthors:           `["Frank Herbert"]`,
				RequestType:           requestDomain.TypeReturn,
				Status:                requestDomain.StatusPending,
				RequestDate:           time.Now().UTC(),
				OriginalIssueDate:     &issue,
				OriginalReturnDueDate: &due,
			}}, nil
		},
	}
	u := NewUsecase(&uowmock.UoW{}, requests, zerolog.Nop())

	rows, err := u.ListUserHistory(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListUserHistory: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].StatusLabel != "Return Request Pending" {
		t.Fatalf("label = %q", rows[0].StatusLabel)
	}
	if rows[0].OriginalIssueDate == nil || !rows[0].OriginalIssueDate.Equal(issue) {
		t.Fatalf("original issue date not carried: %+v", rows[0])
	}
}
