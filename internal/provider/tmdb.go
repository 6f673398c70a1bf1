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

const defaultMediaBaseURL = "https://api.themoviedb.org/3"

// MediaClient searches TMDB for films and shows.
type MediaClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
	apiKey      string
}

// NewMediaClient creates a film/show search client.
// Rate limited to 4 requests per second, well under TMDB's cap.
func NewMediaClient(baseURL, apiKey string, logger *slog.Logger) *MediaClient {
	if baseURL == "" {
		baseURL = defaultMediaBaseURL
	}
	return &MediaClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 10),
		logger:      logger,
		baseURL:     baseURL,
		apiKey:      apiKey,
	}
}

// Name implements Provider.
func (c *MediaClient) Name() string { return "tmdb" }

// Category implements Provider.
func (c *MediaClient) Category() domain.Category { return domain.CategoryMedia }

type mediaSearchResponse struct {
	Results []struct {
		ID           int64  `json:"id"`
		MediaType    string `json:"media_type"`
		Title        string `json:"title"`          // movies
		Name         string `json:"name"`           // tv
		Overview     string `json:"overview"`
		PosterPath   string `json:"poster_path"`
		ReleaseDate  string `json:"release_date"`   // movies
		FirstAirDate string `json:"first_air_date"` // tv
	} `json:"results"`
}

// Search implements Provider.
func (c *MediaClient) Search(ctx context.Context, query string) ([]*domain.Thing, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("api_key", c.apiKey)
	params.Set("include_adult", "false")

	searchURL := c.baseURL + "/search/multi?" + params.Encode()

	c.logger.Debug("searching media", "query", query)

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

	var searchResp mediaSearchResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	things := make([]*domain.Thing, 0, maxResults)
	for _, r := range searchResp.Results {
		if len(things) == maxResults {
			break
		}
		if r.MediaType != "movie" && r.MediaType != "tv" {
			continue
		}

		title := r.Title
		if title == "" {
			title = r.Name
		}
		if title == "" {
			continue
		}

		releaseDate := r.ReleaseDate
		if releaseDate == "" {
			releaseDate = r.FirstAirDate
		}
		releaseYear := ""
		if len(releaseDate) >= 4 {
			releaseYear = releaseDate[:4]
		}

		imageURL := ""
		if r.PosterPath != "" {
			imageURL = "https://image.tmdb.org/t/p/w500" + r.PosterPath
		}

		things = append(things, &domain.Thing{
			Title:       title,
			Category:    domain.CategoryMedia,
			Source:      c.Name(),
			Description: cleanDescription(r.Overview),
			ImageURL:    imageURL,
			Metadata: domain.ThingMetadata{
				ProviderIdentity: r.MediaType + "/" + strconv.FormatInt(r.ID, 10),
				ProviderRawID:    strconv.FormatInt(r.ID, 10),
				ReleaseYear:      releaseYear,
			},
		})
	}

	return things, nil
}
