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

const defaultPlacesBaseURL = "https://nominatim.openstreetmap.org"

// PlacesClient searches an OSM-compatible geocoding API for places.
type PlacesClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
}

// NewPlacesClient creates a places search client.
// Rate limited to 1 request per second per the Nominatim usage policy.
func NewPlacesClient(baseURL string, logger *slog.Logger) *PlacesClient {
	if baseURL == "" {
		baseURL = defaultPlacesBaseURL
	}
	return &PlacesClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:      logger,
		baseURL:     baseURL,
	}
}

// Name implements Provider.
func (c *PlacesClient) Name() string { return "places" }

// Category implements Provider.
func (c *PlacesClient) Category() domain.Category { return domain.CategoryPlace }

type placeResult struct {
	PlaceID     int64  `json:"place_id"`
	OSMType     string `json:"osm_type"`
	OSMID       int64  `json:"osm_id"`
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
	Type        string `json:"type"`
}

// Search implements Provider.
func (c *PlacesClient) Search(ctx context.Context, query string) ([]*domain.Thing, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(maxResults))

	searchURL := c.baseURL + "/search?" + params.Encode()

	c.logger.Debug("searching places", "query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "beenthere-server")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var results []placeResult
	if err := json.UnmarshalRead(resp.Body, &results); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	things := make([]*domain.Thing, 0, len(results))
	for _, r := range results {
		title := r.Name
		if title == "" {
			title = r.DisplayName
		}
		if title == "" {
			continue
		}

		// osm_type+osm_id is the stable identity; place_id is
		// installation-specific and only a fallback.
		identity := ""
		if r.OSMType != "" && r.OSMID != 0 {
			identity = r.OSMType + "/" + strconv.FormatInt(r.OSMID, 10)
		}

		things = append(things, &domain.Thing{
			Title:    title,
			Category: domain.CategoryPlace,
			Source:   c.Name(),
			Metadata: domain.ThingMetadata{
				ProviderIdentity: identity,
				ProviderRawID:    strconv.FormatInt(r.PlaceID, 10),
				Address:          r.DisplayName,
			},
		})
	}

	return things, nil
}
