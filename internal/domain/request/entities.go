package request

import (
	"errors"
	"time"
)

type Type string

const (
	TypeBorrow Type = "borrow"
	TypeReturn Type = "return"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusBorrowed Status = "borrowed"
	StatusRejected Status = "rejected"
	StatusReturned Status = "returned"
	// StatusApproved is a legacy alias: rows written by the old system carry
	// it where new rows get borrowed/returned. Lookups treat it as active.
	StatusApproved Status = "approved"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

var (
	ErrNotFound        = errors.New("request not found")
	ErrNotPending      = errors.New("request is not pending")
	ErrInvalidDecision = errors.New("invalid action specified")
	ErrAlreadyBorrowed = errors.New("you have already borrowed this book")
	ErrBorrowPending   = errors.New("you already have a pending borrow request for this book")
	ErrNotBorrowed     = errors.New("you have not borrowed this book or it is already returned")
	ErrReturnPending   = errors.New("a return request for this book is already pending")
)

// Request is one ledger row. A borrow row is created pending, resolved once
// by an admin, and flips to returned only as a side effect of its paired
// return row being approved. request_date is immutable; issue_date and
// return_due_date exist only on approved borrows.
type Request struct {
	ID            uint64     `gorm:"primaryKey;column:id" json:"-"`
	RequestID     string     `gorm:"column:request_id;type:char(32);not null;uniqueIndex:ux_book_records_request_id" json:"request_id"`
	UserID        uint64     `gorm:"column:user_id;not null;index:idx_records_user_book,priority:1" json:"user_id"`
	BookID        uint64     `gorm:"column:book_id;not null;index:idx_records_user_book,priority:2" json:"book_id"`
	RequestType   Type       `gorm:"column:request_type;type:varchar(16);not null;index:idx_records_user_book,priority:3" json:"request_type"`
	Status        Status     `gorm:"column:status;type:varchar(16);not null;default:'pending';index:idx_records_user_book,priority:4" json:"status"`
	RequestDate   time.Time  `gorm:"column:request_date;not null" json:"request_date"`
	IssueDate     *time.Time `gorm:"column:issue_date" json:"issue_date"`
	ReturnDueDate *time.Time `gorm:"column:return_due_date" json:"return_due_date"`
	ReturnDate    *time.Time `gorm:"column:return_date" json:"return_date"`
	ResolvedAt    *time.Time `gorm:"column:resolved_at" json:"resolved_at"`
	ResolvedBy    *uint64    `gorm:"column:resolved_by" json:"resolved_by"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Request) TableName() string { return "book_records" }
