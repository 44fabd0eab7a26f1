package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	bookDomain "library-backend/internal/domain/book"
	"library-backend/internal/metadata"
	"library-backend/internal/testutil/bookmock"
)

// fakeMeta is a function-backed metadata client.
type fakeMeta struct {
	SearchFn    func(ctx context.Context, query string, startIndex, maxResults int) (*metadata.SearchResult, error)
	GetVolumeFn func(ctx context.Context, volumeID string) (*metadata.Volume, error)
}

func (f *fakeMeta) Search(ctx context.Context, query string, startIndex, maxResults int) (*metadata.SearchResult, error) {
	if f.SearchFn != nil {
		return f.SearchFn(ctx, query, startIndex, maxResults)
	}
	return nil, context.Canceled
}

func (f *fakeMeta) GetVolume(ctx context.Context, volumeID string) (*metadata.Volume, error) {
	if f.GetVolumeFn != nil {
		return f.GetVolumeFn(ctx, volumeID)
	}
	return nil, context.Canceled
}

// mapCache is an in-memory Cache good enough for read-through tests.
type mapCache struct{ m map[string][]byte }

func newMapCache() *mapCache { return &mapCache{m: map[string][]byte{}} }

func (c *mapCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.m[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.m[key] = raw
	return nil
}

func (c *mapCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.m, k)
	}
	return nil
}

func (c *mapCache) Ping(ctx context.Context) error { return nil }

func twoVolumes() *metadata.SearchResult {
	return &metadata.SearchResult{
		Volumes: []metadata.Volume{
			{ID: "vol-in-lib", Title: "Dune", Authors: []string{"Frank Herbert"}},
			{ID: "vol-external", Title: "Solaris", Authors: []string{"Stanislaw Lem"}},
		},
		TotalItems: 2,
	}
}

func booksWith(inLibrary map[string]*bookDomain.Book) *bookmock.Repo {
	return &bookmock.Repo{
		GetByGoogleIDFn: func(ctx context.Context, googleID string) (*bookDomain.Book, error) {
			if b, ok := inLibrary[googleID]; ok {
				return b, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
}

func TestSearch_MergesLocalAvailability(t *testing.T) {
	local := map[string]*bookDomain.Book{
		"vol-in-lib": {ID: 9, GoogleBooksID: "vol-in-lib", TotalCopies: 3, AvailableCopies: 2},
	}
	meta := &fakeMeta{
		SearchFn: func(ctx context.Context, query string, startIndex, maxResults int) (*metadata.SearchResult, error) {
			return twoVolumes(), nil
		},
	}
	u := NewUsecase(booksWith(local), meta, newMapCache(), time.Minute, zerolog.Nop())

	page, err := u.Search(context.Background(), "dune", 0, 10, true)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page.Books) != 2 {
		t.Fatalf("admin sees %d books, want 2", len(page.Books))
	}
	hit := page.Books[0]
	if !hit.InLibrary || hit.LocalID == nil || *hit.LocalID != 9 {
		t.Fatalf("local merge missing: %+v", hit)
	}
	if !hit.IsAvailable || hit.AvailableCopies != 2 {
		t.Fatalf("availability wrong: %+v", hit)
	}
	if page.Books[1].InLibrary {
		t.Fatalf("external volume marked in-library: %+v", page.Books[1])
	}
}

func TestSearch_NonAdminOnlySeesAvailable(t *testing.T) {
	local := map[string]*bookDomain.Book{
		"vol-in-lib": {ID: 9, GoogleBooksID: "vol-in-lib", TotalCopies: 3, AvailableCopies: 1},
	}
	meta := &fakeMeta{
		SearchFn: func(ctx context.Context, query string, startIndex, maxResults int) (*metadata.SearchResult, error) {
			return twoVolumes(), nil
		},
	}
	u := NewUsecase(booksWith(local), meta, newMapCache(), time.Minute, zerolog.Nop())

	page, err := u.Search(context.Background(), "dune", 0, 10, false)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page.Books) != 1 || page.Books[0].ID != "vol-in-lib" {
		t.Fatalf("non-admin result: %+v", page.Books)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	u := NewUsecase(&bookmock.Repo{}, &fakeMeta{}, newMapCache(), time.Minute, zerolog.Nop())

	if _, err := u.Search(context.Background(), "", 0, 10, false); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestSearch_CachesUpstreamOnly(t *testing.T) {
	calls := 0
	available := 2
	books := &bookmock.Repo{
		GetByGoogleIDFn: func(ctx context.Context, googleID string) (*bookDomain.Book, error) {
			if googleID != "vol-in-lib" {
				return nil, gorm.ErrRecordNotFound
			}
			return &bookDomain.Book{ID: 9, GoogleBooksID: googleID, TotalCopies: 3, AvailableCopies: available}, nil
		},
	}
	meta := &fakeMeta{
		SearchFn: func(ctx context.Context, query string, startIndex, maxResults int) (*metadata.SearchResult, error) {
			calls++
			return twoVolumes(), nil
		},
	}
	u := NewUsecase(books, meta, newMapCache(), time.Minute, zerolog.Nop())

	if _, err := u.Search(context.Background(), "dune", 0, 10, true); err != nil {
		t.Fatalf("first search: %v", err)
	}

	// Second search hits the cache for the upstream response but must still
	// see the fresh local counter.
	available = 0
	page, err := u.Search(context.Background(), "dune", 0, 10, true)
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if calls != 1 {
		t.Fatalf("upstream calls = %d, want 1", calls)
	}
	if page.Books[0].IsAvailable {
		t.Fatalf("stale availability served from cache: %+v", page.Books[0])
	}
}

func TestAddBook_Success(t *testing.T) {
	var created *bookDomain.Book
	books := &bookmock.Repo{
		GetByGoogleIDFn: func(ctx context.Context, googleID string) (*bookDomain.Book, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateFn: func(ctx context.Context, b *bookDomain.Book) error {
			created = b
			return nil
		},
	}
	meta := &fakeMeta{
		GetVolumeFn: func(ctx context.Context, volumeID string) (*metadata.Volume, error) {
			return &metadata.Volume{ID: volumeID, Title: "Dune", Authors: []string{"Frank Herbert"}}, nil
		},
	}
	u := NewUsecase(books, meta, newMapCache(), time.Minute, zerolog.Nop())

	b, err := u.AddBook(context.Background(), "vol-1", 4)
	if err != nil {
		t.Fatalf("AddBook: %v", err)
	}
	if created == nil || created.TotalCopies != 4 || created.AvailableCopies != 4 {
		t.Fatalf("created = %+v", created)
	}
	if b.Thumbnail == "" {
		t.Fatal("cover URL not set")
	}
}

func TestAddBook_DefaultsToOneCopy(t *testing.T) {
	books := &bookmock.Repo{
		GetByGoogleIDFn: func(ctx context.Context, googleID string) (*bookDomain.Book, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateFn: func(ctx context.Context, b *bookDomain.Book) error { return nil },
	}
	meta := &fakeMeta{
		GetVolumeFn: func(ctx context.Context, volumeID string) (*metadata.Volume, error) {
			return &metadata.Volume{ID: volumeID, Title: "Dune"}, nil
		},
	}
	u := NewUsecase(books, meta, newMapCache(), time.Minute, zerolog.Nop())

	b, err := u.AddBook(context.Background(), "vol-1", 0)
	if err != nil {
		t.Fatalf("AddBook: %v", err)
	}
	if b.TotalCopies != 1 || b.AvailableCopies != 1 {
		t.Fatalf("copies = %d/%d, want 1/1", b.AvailableCopies, b.TotalCopies)
	}
}

func TestAddBook_Duplicate(t *testing.T) {
	books := &bookmock.Repo{
		GetByGoogleIDFn: func(ctx context.Context, googleID string) (*bookDomain.Book, error) {
			return &bookDomain.Book{ID: 9, GoogleBooksID: googleID}, nil
		},
	}
	meta := &fakeMeta{
		GetVolumeFn: func(ctx context.Context, volumeID string) (*metadata.Volume, error) {
			return &metadata.Volume{ID: volumeID, Title: "Dune"}, nil
		},
	}
	u := NewUsecase(books, meta, newMapCache(), time.Minute, zerolog.Nop())

	if _, err := u.AddBook(context.Background(), "vol-1", 2); !errors.Is(err, bookDomain.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestAddBook_VolumeNotFound(t *testing.T) {
	meta := &fakeMeta{
		GetVolumeFn: func(ctx context.Context, volumeID string) (*metadata.Volume, error) {
			return nil, metadata.ErrVolumeNotFound
		},
	}
	u := NewUsecase(&bookmock.Repo{}, meta, newMapCache(), time.Minute, zerolog.Nop())

	if _, err := u.AddBook(context.Background(), "ghost", 1); !errors.Is(err, metadata.ErrVolumeNotFound) {
		t.Fatalf("err = %v, want ErrVolumeNotFound", err)
	}
}

func TestGetBook_ReadThrough(t *testing.T) {
	calls := 0
	books := &bookmock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*bookDomain.Book, error) {
			calls++
			return &bookDomain.Book{ID: id, Title: "Dune"}, nil
		},
	}
	u := NewUsecase(books, &fakeMeta{}, newMapCache(), time.Minute, zerolog.Nop())

	if _, err := u.GetBook(context.Background(), 9); err != nil {
		t.Fatalf("first get: %v", err)
	}
	b, err := u.GetBook(context.Background(), 9)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if calls != 1 {
		t.Fatalf("repo calls = %d, want 1", calls)
	}
	if b.Title != "Dune" {
		t.Fatalf("cached book = %+v", b)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	books := &bookmock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*bookDomain.Book, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	u := NewUsecase(books, &fakeMeta{}, newMapCache(), time.Minute, zerolog.Nop())

	if _, err := u.GetBook(context.Background(), 404); !errors.Is(err, bookDomain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
