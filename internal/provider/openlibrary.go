package provider

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

const defaultBooksBaseURL = "https://openlibrary.org"

// BooksClient searches Open Library for books.
type BooksClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
}

// NewBooksClient creates a book search client.
// Rate limited to 2 requests per second, burst of 5.
func NewBooksClient(baseURL string, logger *slog.Logger) *BooksClient {
	if baseURL == "" {
		baseURL = defaultBooksBaseURL
	}
	return &BooksClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 5),
		logger:      logger,
		baseURL:     baseURL,
	}
}

// Name implements Provider.
func (c *BooksClient) Name() string { return "openlibrary" }

// Category implements Provider.
func (c *BooksClient) Category() domain.Category { return domain.CategoryBook }

type bookSearchResponse struct {
	NumFound int `json:"numFound"`
	Docs     []struct {
		Key              string   `json:"key"`
		Title            string   `json:"title"`
		AuthorName       []string `json:"author_name"`
		FirstPublishYear int      `json:"first_publish_year"`
		ISBN             []string `json:"isbn"`
		CoverID          int64    `json:"cover_i"`
	} `json:"docs"`
}

// Search implements Provider.
func (c *BooksClient) Search(ctx context.Context, query string) ([]*domain.Thing, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(maxResults))
	params.Set("fields", "key,title,author_name,first_publish_year,isbn,cover_i")

	searchURL := c.baseURL + "/search.json?" + params.Encode()

	c.logger.Debug("searching books", "query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var searchResp bookSearchResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("book search results", "query", query, "count", searchResp.NumFound)

	things := make([]*domain.Thing, 0, len(searchResp.Docs))
	for _, doc := range searchResp.Docs {
		if doc.Title == "" {
			continue
		}

		// ISBN is the authoritative identity; the work key is the fallback.
		identity := ""
		if len(doc.ISBN) > 0 {
			identity = "isbn:" + doc.ISBN[0]
		}

		author := ""
		if len(doc.AuthorName) > 0 {
			author = doc.AuthorName[0]
		}

		publishYear := ""
		if doc.FirstPublishYear > 0 {
			publishYear = strconv.Itoa(doc.FirstPublishYear)
		}

		imageURL := ""
		if doc.CoverID != 0 {
			imageURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", doc.CoverID)
		}

		things = append(things, &domain.Thing{
			Title:    doc.Title,
			Category: domain.CategoryBook,
			Source:   c.Name(),
			ImageURL: imageURL,
			Metadata: domain.ThingMetadata{
				ProviderIdentity: identity,
				ProviderRawID:    doc.Key,
				Author:           author,
				PublishYear:      publishYear,
			},
		})
	}

	return things, nil
}
