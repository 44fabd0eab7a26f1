package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	requestDomain "library-backend/internal/domain/request"
)

type RequestRepository struct{ db *gorm.DB }

func NewRequestRepository(db *gorm.DB) *RequestRepository { return &RequestRepository{db: db} }

func (r *RequestRepository) Create(ctx context.Context, req *requestDomain.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *RequestRepository) Save(ctx context.Context, req *requestDomain.Request) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *RequestRepository) GetByRequestID(ctx context.Context, requestID string) (*requestDomain.Request, error) {
	var out requestDomain.Request
	res := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&out)
	return &out, res.Error
}

func (r *RequestRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*requestDomain.Request, error) {
	tx := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "mysql" {
		// sqlite (tests) rejects FOR UPDATE; its single writer serializes anyway
		tx = tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	var out requestDomain.Request
	res := tx.Where("request_id = ?", requestID).First(&out)
	return &out, res.Error
}

func (r *RequestRepository) GetActiveBorrow(ctx context.Context, userID, bookID uint64) (*requestDomain.Request, error) {
	var out requestDomain.Request
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND request_type = ? AND status IN ?",
			userID, bookID, requestDomain.TypeBorrow,
			[]requestDomain.Status{requestDomain.StatusPending, requestDomain.StatusApproved, requestDomain.StatusBorrowed}).
		Order("request_date DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *RequestRepository) GetLatestIssuedBorrow(ctx context.Context, userID, bookID uint64) (*requestDomain.Request, error) {
	var out requestDomain.Request
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND request_type = ? AND status IN ?",
			userID, bookID, requestDomain.TypeBorrow,
			[]requestDomain.Status{requestDomain.StatusApproved, requestDomain.StatusBorrowed}).
		Order("issue_date DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *RequestRepository) GetPendingReturn(ctx context.Context, userID, bookID uint64) (*requestDomain.Request, error) {
	var out requestDomain.Request
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND request_type = ? AND status = ?",
			userID, bookID, requestDomain.TypeReturn, requestDomain.StatusPending).
		Order("request_date DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *RequestRepository) ListUserLoans(ctx context.Context, userID uint64, limit, offset int) ([]requestDomain.LoanRow, int64, error) {
	base := r.db.WithContext(ctx).
		Table("book_records AS br").
		Where("br.user_id = ? AND br.request_type = ? AND br.status IN ?",
			userID, requestDomain.TypeBorrow,
			[]requestDomain.Status{requestDomain.StatusApproved, requestDomain.StatusBorrowed, requestDomain.StatusReturned})

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []requestDomain.LoanRow
	err := base.Session(&gorm.Session{}).
		Select("br.request_id, br.book_id, br.request_type, br.status, br.request_date, br.issue_date, br.return_due_date, br.return_date, " +
			"b.title AS book_title, b.authors AS book_authors, b.thumbnail AS book_thumbnail").
		Joins("JOIN books b ON b.id = br.book_id").
		Order("br.issue_date DESC, br.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, total, err
}

// ListLedger builds the admin projection. The original-borrow columns come
// from a correlated recency lookup, mirroring how a return row pairs with
// its borrow row in the lifecycle engine.
func (r *RequestRepository) ListLedger(ctx context.Context, userID *uint64) ([]requestDomain.LedgerRow, error) {
	const originalBorrow = `(SELECT r2.%s FROM book_records r2
		WHERE r2.book_id = br.book_id AND r2.user_id = br.user_id
		AND r2.request_type = 'borrow' AND r2.status IN ('borrowed','returned','approved')
		ORDER BY r2.issue_date DESC, r2.id DESC LIMIT 1)`

	tx := r.db.WithContext(ctx).
		Table("book_records AS br").
		Select("br.request_id, br.user_id, br.book_id, br.request_type, br.status, br.request_date, "+
			"br.issue_date, br.return_due_date, br.return_date, br.resolved_at, "+
			"u.name AS user_name, b.title AS book_title, b.authors AS book_authors, "+
			sub(originalBorrow, "issue_date")+" AS original_issue_date, "+
			sub(originalBorrow, "return_due_date")+" AS original_return_due_date, "+
			sub(originalBorrow, "resolved_at")+" AS original_resolved_at").
		Joins("JOIN users u ON u.id = br.user_id").
		Joins("JOIN books b ON b.id = br.book_id").
		Order("br.created_at DESC, br.id DESC")

	if userID != nil {
		tx = tx.Where("br.user_id = ?", *userID)
	}

	var rows []requestDomain.LedgerRow
	err := tx.Scan(&rows).Error
	return rows, err
}

func sub(tmpl, column string) string { return fmt.Sprintf(tmpl, column) }
