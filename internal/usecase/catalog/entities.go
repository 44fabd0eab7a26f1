package catalog

// BookResult is one search hit: Google Books metadata merged with local
// availability when the book is in the library.
type BookResult struct {
	ID              string   `json:"id"`
	LocalID         *uint64  `json:"local_db_id"`
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Publisher       string   `json:"publisher,omitempty"`
	PublishedDate   string   `json:"published_date,omitempty"`
	Description     string   `json:"description,omitempty"`
	Thumbnail       string   `json:"thumbnail,omitempty"`
	InLibrary       bool     `json:"is_in_local_library"`
	IsAvailable     bool     `json:"is_available"`
	TotalCopies     int      `json:"total_copies"`
	AvailableCopies int      `json:"available_copies"`
}

type SearchPage struct {
	Books       []BookResult `json:"books"`
	TotalItems  int          `json:"total_items"`
	CurrentPage int          `json:"current_page"`
	MaxResults  int          `json:"max_results"`
	TotalPages  int          `json:"total_pages"`
}
