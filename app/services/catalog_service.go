package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/bookstore/config"
	"github.com/shashiranjanraj/bookstore/pkg/cache"
	httpclient "github.com/shashiranjanraj/bookstore/pkg/http"
	"github.com/shashiranjanraj/bookstore/pkg/event"
	"github.com/shashiranjanraj/bookstore/pkg/logger"
	"github.com/shashiranjanraj/bookstore/pkg/metrics"
)

// CatalogBook is a Google Books volume normalised to the store's book shape.
type CatalogBook struct {
	GoogleID        string   `json:"google_id"`
	Title           string   `json:"title"`
	Authors         string   `json:"authors"`
	Publisher       string   `json:"publisher"`
	PublicationDate *string  `json:"publication_date"`
	Description     string   `json:"description"`
	CoverImageURL   *string  `json:"cover_image_url"`
	ISBN            *string  `json:"isbn"`
	Category        string   `json:"category"`
	AverageRating   *float64 `json:"average_rating"`
	RatingsCount    int      `json:"ratings_count"`
}

// AdvancedQuery holds the field filters of an advanced search. Empty fields
// are ignored.
type AdvancedQuery struct {
	Title     string
	Author    string
	ISBN      string
	Publisher string
	Subject   string
	Keyword   string
	OrderBy   string // relevance | newest
	PrintType string // all | books | magazines
	Lang      string
}

type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		Publisher           string   `json:"publisher"`
		PublishedDate       string   `json:"publishedDate"`
		Description         string   `json:"description"`
		Categories          []string `json:"categories"`
		AverageRating       *float64 `json:"averageRating"`
		RatingsCount        int      `json:"ratingsCount"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks *struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

type volumeList struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

// CatalogService wraps the Google Books volumes API. Results are cached in
// Redis for cfg.CacheTTL when a cache is available.
type CatalogService struct {
	cfg    config.CatalogConfig
	client *httpclient.Client
	cache  *cache.Store
	events *event.Bus
}

func NewCatalogService(cfg config.CatalogConfig, client *httpclient.Client, store *cache.Store, events *event.Bus) *CatalogService {
	if client == nil {
		client = httpclient.NewClient(cfg.Timeout)
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 15
	}
	return &CatalogService{cfg: cfg, client: client, cache: store, events: events}
}

// Search runs a free-text query.
func (s *CatalogService) Search(ctx context.Context, q string) ([]CatalogBook, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	return s.list(ctx, "search", url.Values{
		"q":            {q},
		"maxResults":   {strconv.Itoa(s.cfg.MaxResults)},
		"langRestrict": {s.cfg.Language},
	})
}

// AdvancedSearch combines field filters into one Google query.
func (s *CatalogService) AdvancedSearch(ctx context.Context, a AdvancedQuery) ([]CatalogBook, error) {
	var terms []string
	add := func(prefix, v string) {
		if v = strings.TrimSpace(v); v != "" {
			terms = append(terms, prefix+v)
		}
	}
	add("intitle:", a.Title)
	add("inauthor:", a.Author)
	add("isbn:", a.ISBN)
	add("inpublisher:", a.Publisher)
	add("subject:", a.Subject)
	add("", a.Keyword)
	if len(terms) == 0 {
		return nil, ErrEmptyQuery
	}

	return s.list(ctx, "advanced", url.Values{
		"q":            {strings.Join(terms, " ")},
		"maxResults":   {strconv.Itoa(s.cfg.MaxResults)},
		"orderBy":      {orDefault(a.OrderBy, "relevance")},
		"printType":    {orDefault(a.PrintType, "all")},
		"langRestrict": {orDefault(a.Lang, s.cfg.Language)},
	})
}

func (s *CatalogService) ByAuthor(ctx context.Context, author string) ([]CatalogBook, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		return nil, ErrEmptyQuery
	}
	return s.list(ctx, "author", url.Values{
		"q":            {"inauthor:" + author},
		"maxResults":   {strconv.Itoa(s.cfg.MaxResults)},
		"langRestrict": {s.cfg.Language},
	})
}

// ByISBN returns at most one volume.
func (s *CatalogService) ByISBN(ctx context.Context, isbn string) ([]CatalogBook, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, ErrEmptyQuery
	}
	return s.list(ctx, "isbn", url.Values{
		"q":          {"isbn:" + isbn},
		"maxResults": {"1"},
	})
}

// ByGoogleID fetches one volume. ErrCatalogNotFound when Google has no such
// volume.
func (s *CatalogService) ByGoogleID(ctx context.Context, googleID string) (*CatalogBook, error) {
	googleID = strings.TrimSpace(googleID)
	if googleID == "" {
		return nil, ErrEmptyQuery
	}

	cacheKey := "volume:" + googleID
	var cached CatalogBook
	if s.cache.Get(ctx, cacheKey, &cached) {
		metrics.ObserveCache("catalog", true)
		return &cached, nil
	}
	metrics.ObserveCache("catalog", false)

	var v volume
	status, err := s.fetch(ctx, "id", "/"+url.PathEscape(googleID), url.Values{}, &v)
	if status == http.StatusNotFound {
		return nil, ErrCatalogNotFound
	}
	if err != nil {
		return nil, err
	}
	if v.ID == "" {
		return nil, ErrCatalogNotFound
	}

	book := normalizeVolume(v)
	s.remember(ctx, cacheKey, book)
	return &book, nil
}

func (s *CatalogService) list(ctx context.Context, op string, params url.Values) ([]CatalogBook, error) {
	cacheKey := "list:" + params.Encode()
	var cached []CatalogBook
	if s.cache.Get(ctx, cacheKey, &cached) {
		metrics.ObserveCache("catalog", true)
		return cached, nil
	}
	metrics.ObserveCache("catalog", false)

	var out volumeList
	if _, err := s.fetch(ctx, op, "", params, &out); err != nil {
		return nil, err
	}

	books := make([]CatalogBook, 0, len(out.Items))
	for _, v := range out.Items {
		books = append(books, normalizeVolume(v))
	}
	s.remember(ctx, cacheKey, books)
	return books, nil
}

// fetch performs one GET against the volumes API and decodes the body into
// dest. It returns the upstream status so callers can special-case 404.
func (s *CatalogService) fetch(ctx context.Context, op, path string, params url.Values, dest interface{}) (int, error) {
	if s.cfg.APIKey == "" {
		return 0, ErrCatalogUnconfigured
	}

	req := s.client.Get(s.cfg.BaseURL+path).
		Retry(2, 200*time.Millisecond).
		WithContext(ctx)
	for k, vs := range params {
		for _, v := range vs {
			req.Query(k, v)
		}
	}
	req.Query("key", s.cfg.APIKey)

	resp, err := req.Send()
	if err == nil {
		if resp.StatusCode == http.StatusNotFound {
			return resp.StatusCode, ErrCatalogNotFound
		}
		err = resp.Throw()
	}
	if err == nil {
		err = resp.JSON(dest)
	}
	if err != nil {
		logger.WithCtx(ctx).Error("catalog lookup failed", "op", op, "error", err)
		s.events.Fire(EventCatalogLookupFailed, CatalogLookupFailed{Op: op, Err: err})
		return statusOf(resp), fmt.Errorf("%w: %s: %v", ErrCatalogUnavailable, op, err)
	}
	return resp.StatusCode, nil
}

func (s *CatalogService) remember(ctx context.Context, key string, v interface{}) {
	if err := s.cache.Set(ctx, key, v, s.cfg.CacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache write failed", "key", key, "error", err)
	}
}

func statusOf(resp *httpclient.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func normalizeVolume(v volume) CatalogBook {
	info := v.VolumeInfo
	b := CatalogBook{
		GoogleID:      v.ID,
		Title:         orDefault(info.Title, "Untitled"),
		Authors:       "Unknown Author",
		Publisher:     orDefault(info.Publisher, "N/A"),
		Description:   orDefault(info.Description, "No description available."),
		Category:      "General",
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
	}
	if len(info.Authors) > 0 {
		b.Authors = strings.Join(info.Authors, ", ")
	}
	if info.PublishedDate != "" {
		d := info.PublishedDate
		if len(d) > 10 {
			d = d[:10]
		}
		b.PublicationDate = &d
	}
	if info.ImageLinks != nil && info.ImageLinks.Thumbnail != "" {
		thumb := info.ImageLinks.Thumbnail
		b.CoverImageURL = &thumb
	}
	for _, id := range info.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			isbn := id.Identifier
			b.ISBN = &isbn
			break
		}
	}
	if len(info.Categories) > 0 {
		b.Category = info.Categories[0]
	}
	return b
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
