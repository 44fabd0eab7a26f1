package resolution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	bookDomain "library-backend/internal/domain/book"
	requestDomain "library-backend/internal/domain/request"
	"library-backend/internal/domain/uow"
)

// loanPeriodDays is how long an approved borrow runs before it is due.
const loanPeriodDays = 15

type Usecase struct {
	uow      uow.UnitOfWork
	requests requestDomain.Repository
	log      zerolog.Logger
}

// NewUsecase takes the unit of work for resolution flows and a plain request
// repository for the read-only projections.
func NewUsecase(tx uow.UnitOfWork, requests requestDomain.Repository, log zerolog.Logger) *Usecase {
	return &Usecase{uow: tx, requests: requests, log: log}
}

// Resolve applies an admin decision to a pending request. The ledger row is
// locked for the whole transaction: a second resolution of the same request
// observes a non-pending status and fails instead of re-applying effects.
// All writes of one call commit or roll back together.
func (u *Usecase) Resolve(ctx context.Context, in ResolveInput) (*ResolutionDTO, error) {
	if in.Decision != requestDomain.DecisionApproved && in.Decision != requestDomain.DecisionRejected {
		return nil, requestDomain.ErrInvalidDecision
	}

	var dto *ResolutionDTO
	err := u.uow.WithinRequestTx(ctx, in.RequestID, func(r uow.Repos, req *requestDomain.Request) error {
		if req.Status != requestDomain.StatusPending {
			return fmt.Errorf("%w (current status: %s)", requestDomain.ErrNotPending, req.Status)
		}

		now := time.Now().UTC()
		req.ResolvedAt = &now
		req.ResolvedBy = &in.AdminID

		if in.Decision == requestDomain.DecisionRejected {
			req.Status = requestDomain.StatusRejected
			if err := r.Requests.Save(ctx, req); err != nil {
				return err
			}
			dto = resolved(req, "rejected")
			return nil
		}

		switch req.RequestType {
		case requestDomain.TypeBorrow:
			return u.approveBorrow(ctx, r, req, now, &dto)
		case requestDomain.TypeReturn:
			return u.approveReturn(ctx, r, req, now, &dto)
		default:
			return fmt.Errorf("unknown request type %q", req.RequestType)
		}
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("request_id", in.RequestID).Str("decision", string(in.Decision)).
		Uint64("admin_id", in.AdminID).Msg("request resolved")
	return dto, nil
}

// approveBorrow issues the loan. The guarded decrement is the authoritative
// availability check; the one at submission time was advisory only.
func (u *Usecase) approveBorrow(ctx context.Context, r uow.Repos, req *requestDomain.Request, now time.Time, dto **ResolutionDTO) error {
	if err := r.Books.AdjustAvailability(ctx, req.BookID, -1); err != nil {
		return err
	}

	due := now.AddDate(0, 0, loanPeriodDays)
	req.Status = requestDomain.StatusBorrowed
	req.IssueDate = &now
	req.ReturnDueDate = &due
	if err := r.Requests.Save(ctx, req); err != nil {
		return err
	}
	*dto = resolved(req, "approved")
	return nil
}

// approveReturn closes the loan: the return row and its paired borrow row
// (most recent open loan by issue date) both become returned, and the copy
// goes back on the shelf.
func (u *Usecase) approveReturn(ctx context.Context, r uow.Repos, req *requestDomain.Request, now time.Time, dto **ResolutionDTO) error {
	req.Status = requestDomain.StatusReturned
	req.ReturnDate = &now
	if err := r.Requests.Save(ctx, req); err != nil {
		return err
	}

	borrow, err := r.Requests.GetLatestIssuedBorrow(ctx, req.UserID, req.BookID)
	switch {
	case err == nil:
		borrow.Status = requestDomain.StatusReturned
		borrow.ReturnDate = &now
		if err := r.Requests.Save(ctx, borrow); err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// loan already closed between submission and approval
		u.log.Warn().Str("request_id", req.RequestID).
			Uint64("user_id", req.UserID).Uint64("book_id", req.BookID).
			Msg("no open borrow row paired with return request")
	default:
		return err
	}

	if err := r.Books.AdjustAvailability(ctx, req.BookID, 1); err != nil {
		if errors.Is(err, bookDomain.ErrAtCapacity) {
			u.log.Warn().Uint64("book_id", req.BookID).
				Msg("return approved with all copies already on the shelf")
		} else {
			return err
		}
	}
	*dto = resolved(req, "approved")
	return nil
}

func resolved(req *requestDomain.Request, action string) *ResolutionDTO {
	return &ResolutionDTO{
		RequestID: req.RequestID,
		Status:    string(req.Status),
		Message:   fmt.Sprintf("Request %s %s successfully", req.RequestID, action),
	}
}

// ListAllRequests is the admin dashboard projection over the whole ledger.
func (u *Usecase) ListAllRequests(ctx context.Context) ([]LedgerDTO, error) {
	rows, err := u.requests.ListLedger(ctx, nil)
	if err != nil {
		return nil, err
	}
	return u.toLedgerDTOs(rows), nil
}

// ListUserHistory is the same projection narrowed to one user.
func (u *Usecase) ListUserHistory(ctx context.Context, userID uint64) ([]LedgerDTO, error) {
	rows, err := u.requests.ListLedger(ctx, &userID)
	if err != nil {
		return nil, err
	}
	return u.toLedgerDTOs(rows), nil
}

func (u *Usecase) toLedgerDTOs(rows []requestDomain.LedgerRow) []LedgerDTO {
	out := make([]LedgerDTO, 0, len(rows))
	for _, row := range rows {
		label, ok := requestDomain.DisplayStatus(row.RequestType, row.Status)
		if !ok {
			u.log.Warn().Str("request_id", row.RequestID).
				Str("request_type", string(row.RequestType)).Str("status", string(row.Status)).
				Msg("no display label for ledger row")
			label = "Unknown"
		}
		out = append(out, LedgerDTO{
			RequestID:             row.RequestID,
			UserID:                row.UserID,
			UserName:              row.UserName,
			BookID:                row.BookID,
			BookTitle:             row.BookTitle,
			BookAuthors:           bookDomain.DecodeAuthors(row.BookAuthors),
			RequestType:           string(row.RequestType),
			Status:                string(row.Status),
			StatusLabel:           label,
			RequestDate:           row.RequestDate,
			IssueDate:             row.IssueDate,
			ReturnDueDate:         row.ReturnDueDate,
			ReturnDate:            row.ReturnDate,
			ResolvedAt:            row.ResolvedAt,
			OriginalIssueDate:     row.OriginalIssueDate,
			OriginalReturnDueDate: row.OriginalReturnDueDate,
			OriginalResolvedAt:    row.OriginalResolvedAt,
		})
	}
	return out
}
