package resolution

import (
	"time"

	requestDomain "library-backend/internal/domain/request"
)

type ResolveInput struct {
	RequestID string
	Decision  requestDomain.Decision
	AdminID   uint64
}

type ResolutionDTO struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// LedgerDTO is one admin dashboard row. For return-type rows the Original*
// fields carry the paired borrow's dates, looked up by recency.
type LedgerDTO struct {
	RequestID             string     `json:"request_id"`
	UserID                uint64     `json:"user_id"`
	UserName              string     `json:"user_name"`
	BookID                uint64     `json:"book_id"`
	BookTitle             string     `json:"book_title"`
	BookAuthors           []string   `json:"authors"`
	RequestType           string     `json:"request_type"`
	Status                string     `json:"status"`
	StatusLabel           string     `json:"status_label"`
	RequestDate           time.Time  `json:"request_date"`
	IssueDate             *time.Time `json:"issue_date"`
	ReturnDueDate         *time.Time `json:"return_due_date"`
	ReturnDate            *time.Time `json:"return_date"`
	ResolvedAt            *time.Time `json:"resolved_at"`
	OriginalIssueDate     *time.Time `json:"original_issue_date"`
	OriginalReturnDueDate *time.Time `json:"original_return_due_date"`
	OriginalResolvedAt    *time.Time `json:"original_resolved_at"`
}
