package borrowing

import "time"

type SubmitDTO struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
}

type LoanDTO struct {
	RequestID     string     `json:"request_id"`
	BookID        uint64     `json:"book_id"`
	Title         string     `json:"title"`
	Authors       []string   `json:"authors"`
	Thumbnail     string     `json:"thumbnail,omitempty"`
	RequestType   string     `json:"request_type"`
	Status        string     `json:"status"`
	StatusLabel   string     `json:"status_label"`
	RequestDate   time.Time  `json:"request_date"`
	IssueDate     *time.Time `json:"issue_date"`
	ReturnDueDate *time.Time `json:"return_due_date"`
	ReturnDate    *time.Time `json:"return_date"`
}

type LoanPage struct {
	Loans       []LoanDTO `json:"borrowed_books"`
	Total       int64     `json:"total_borrowed_books"`
	CurrentPage int       `json:"current_page"`
	TotalPages  int       `json:"total_pages"`
}
