package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	bookDomain "library-backend/internal/domain/book"
	"library-backend/internal/metadata"
	"library-backend/pkg/cache"
)

var ErrEmptyQuery = errors.New("search query is required")

const defaultMaxResults = 10

type Usecase struct {
	books    bookDomain.Repository
	meta     metadata.Client
	cache    cache.Cache
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewUsecase wires the catalog read path. The cache sits in front of the
// metadata API only; local copy counters are always read live.
func NewUsecase(books bookDomain.Repository, meta metadata.Client, c cache.Cache, cacheTTL time.Duration, log zerolog.Logger) *Usecase {
	return &Usecase{books: books, meta: meta, cache: c, cacheTTL: cacheTTL, log: log}
}

// Search proxies the Google Books volume search and merges local copy counts
// into each hit. Non-admin callers only see books with available copies.
func (u *Usecase) Search(ctx context.Context, query string, startIndex, maxResults int, isAdmin bool) (*SearchPage, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if startIndex < 0 {
		startIndex = 0
	}

	result, err := u.searchUpstream(ctx, query, startIndex, maxResults)
	if err != nil {
		return nil, err
	}

	books := make([]BookResult, 0, len(result.Volumes))
	for _, v := range result.Volumes {
		br := BookResult{
			ID:            v.ID,
			Title:         v.Title,
			Authors:       v.Authors,
			Publisher:     v.Publisher,
			PublishedDate: v.PublishedDate,
			Description:   v.Description,
			Thumbnail:     v.Thumbnail,
		}
		local, err := u.books.GetByGoogleID(ctx, v.ID)
		switch {
		case err == nil:
			br.LocalID = &local.ID
			br.InLibrary = true
			br.TotalCopies = local.TotalCopies
			br.AvailableCopies = local.AvailableCopies
			br.IsAvailable = local.AvailableCopies > 0
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
		if !isAdmin && !br.IsAvailable {
			continue
		}
		books = append(books, br)
	}

	totalPages := 0
	if maxResults > 0 {
		totalPages = (len(books) + maxResults - 1) / maxResults
	}
	return &SearchPage{
		Books:       books,
		TotalItems:  len(books),
		CurrentPage: startIndex / maxResults,
		MaxResults:  maxResults,
		TotalPages:  totalPages,
	}, nil
}

// searchUpstream reads through the cache; only the upstream response is
// cached, never the merged availability.
func (u *Usecase) searchUpstream(ctx context.Context, query string, startIndex, maxResults int) (*metadata.SearchResult, error) {
	key := fmt.Sprintf("gbooks:search:%s:%d:%d", query, startIndex, maxResults)

	var cached metadata.SearchResult
	found, err := u.cache.Get(ctx, key, &cached)
	if err != nil {
		u.log.Warn().Err(err).Str("key", key).Msg("search cache read failed")
	}
	if found {
		return &cached, nil
	}

	result, err := u.meta.Search(ctx, query, startIndex, maxResults)
	if err != nil {
		return nil, err
	}
	if err := u.cache.Set(ctx, key, result, u.cacheTTL); err != nil {
		u.log.Warn().Err(err).Str("key", key).Msg("search cache write failed")
	}
	return result, nil
}

// AddBook creates a catalog entry from a Google Books volume. All copies
// start available.
func (u *Usecase) AddBook(ctx context.Context, googleID string, totalCopies int) (*bookDomain.Book, error) {
	if totalCopies <= 0 {
		totalCopies = 1
	}

	v, err := u.meta.GetVolume(ctx, googleID)
	if err != nil {
		return nil, err
	}

	if _, err := u.books.GetByGoogleID(ctx, googleID); err == nil {
		return nil, bookDomain.ErrDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	b := &bookDomain.Book{
		GoogleBooksID:   googleID,
		Title:           v.Title,
		Authors:         v.Authors,
		Thumbnail:       metadata.CoverURL(googleID),
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
	}
	if err := u.books.Create(ctx, b); err != nil {
		return nil, err
	}

	u.log.Info().Uint64("book_id", b.ID).Str("google_books_id", googleID).
		Int("total_copies", totalCopies).Msg("book added to library")
	return b, nil
}

// GetBook is the cached catalog read. The lifecycle engine never calls this;
// its availability checks always hit the committed row.
func (u *Usecase) GetBook(ctx context.Context, bookID uint64) (*bookDomain.Book, error) {
	key := fmt.Sprintf("book:%d", bookID)

	var cached bookDomain.Book
	found, err := u.cache.Get(ctx, key, &cached)
	if err != nil {
		u.log.Warn().Err(err).Str("key", key).Msg("book cache read failed")
	}
	if found {
		return &cached, nil
	}

	b, err := u.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookDomain.ErrNotFound
		}
		return nil, err
	}
	if err := u.cache.Set(ctx, key, b, u.cacheTTL); err != nil {
		u.log.Warn().Err(err).Str("key", key).Msg("book cache write failed")
	}
	return b, nil
}

// ListBooks returns the whole local catalog (admin view).
func (u *Usecase) ListBooks(ctx context.Context) ([]bookDomain.Book, error) {
	return u.books.List(ctx)
}
