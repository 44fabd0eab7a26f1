package metadata

import (
	"context"
	"errors"
)

var ErrVolumeNotFound = errors.New("book not found in Google Books")

// Volume is the slice of a Google Books volume the catalog cares about.
type Volume struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"published_date"`
	Description   string   `json:"description"`
	Thumbnail     string   `json:"thumbnail"`
}

type SearchResult struct {
	Volumes    []Volume `json:"volumes"`
	TotalItems int      `json:"total_items"`
}

// Client is the external book-metadata lookup collaborator.
type Client interface {
	Search(ctx context.Context, query string, startIndex, maxResults int) (*SearchResult, error)
	GetVolume(ctx context.Context, volumeID string) (*Volume, error)
}
