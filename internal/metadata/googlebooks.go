package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultBaseURL = "https://www.googleapis.com/books/v1"

// GoogleBooksClient implements Client against the public volumes API.
type GoogleBooksClient struct {
	baseURL string
	httpc   *http.Client
}

func NewGoogleBooksClient(baseURL string, timeout time.Duration) *GoogleBooksClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &GoogleBooksClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// wire format of the volumes API
type gbVolume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title         string   `json:"title"`
		Authors       []string `json:"authors"`
		Publisher     string   `json:"publisher"`
		PublishedDate string   `json:"publishedDate"`
		Description   string   `json:"description"`
		ImageLinks    struct {
			Thumbnail      string `json:"thumbnail"`
			SmallThumbnail string `json:"smallThumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

type gbSearchResponse struct {
	TotalItems int        `json:"totalItems"`
	Items      []gbVolume `json:"items"`
}

func (c *GoogleBooksClient) Search(ctx context.Context, query string, startIndex, maxResults int) (*SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("startIndex", strconv.Itoa(startIndex))
	q.Set("maxResults", strconv.Itoa(maxResults))

	var resp gbSearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/volumes?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	out := &SearchResult{TotalItems: resp.TotalItems, Volumes: make([]Volume, 0, len(resp.Items))}
	for _, item := range resp.Items {
		out.Volumes = append(out.Volumes, mapVolume(item))
	}
	return out, nil
}

func (c *GoogleBooksClient) GetVolume(ctx context.Context, volumeID string) (*Volume, error) {
	var item gbVolume
	err := c.getJSON(ctx, c.baseURL+"/volumes/"+url.PathEscape(volumeID), &item)
	if err != nil {
		return nil, err
	}
	if item.VolumeInfo.Title == "" && item.ID == "" {
		return nil, ErrVolumeNotFound
	}
	v := mapVolume(item)
	return &v, nil
}

func (c *GoogleBooksClient) getJSON(ctx context.Context, rawURL string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("google books request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrVolumeNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("google books: unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func mapVolume(item gbVolume) Volume {
	info := item.VolumeInfo
	title := info.Title
	if title == "" {
		title = "Unknown Title"
	}
	authors := info.Authors
	if len(authors) == 0 {
		authors = []string{"Unknown Author"}
	}
	thumb := info.ImageLinks.Thumbnail
	if thumb == "" {
		thumb = info.ImageLinks.SmallThumbnail
	}
	return Volume{
		ID:            item.ID,
		Title:         title,
		Authors:       authors,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		Description:   info.Description,
		Thumbnail:     thumb,
	}
}

// CoverURL is the stable front-cover URL stored with a catalog entry.
func CoverURL(volumeID string) string {
	return "http://books.google.com/books/content?id=" + url.QueryEscape(volumeID) +
		"&printsec=frontcover&img=1&zoom=1&edge=curl&source=gbs-api"
}
