package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	domainerrors "github.com/beenthereapp/beenthere-server/internal/errors"
	"github.com/beenthereapp/beenthere-server/internal/provider"
	"github.com/beenthereapp/beenthere-server/internal/search"
	"github.com/beenthereapp/beenthere-server/internal/store"
)

// CatalogService resolves external and manual input into canonical
// catalog entries and serves catalog search, both against the external
// providers and the local full-text index.
type CatalogService struct {
	store       *store.Store
	providers   []provider.Provider
	searchIndex *search.Index
	logger      *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	st *store.Store,
	providers []provider.Provider,
	searchIndex *search.Index,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		store:       st,
		providers:   providers,
		searchIndex: searchIndex,
		logger:      logger,
	}
}

// SearchProviders queries the external catalog providers for candidate
// entries. An unavailable provider contributes zero candidates; outages
// are never surfaced to the caller.
func (s *CatalogService) SearchProviders(ctx context.Context, query string, category domain.Category) ([]*domain.Thing, error) {
	if query == "" {
		return nil, domainerrors.Validation("query is required")
	}
	if category != "" && !category.Valid() {
		return nil, domainerrors.Validationf("invalid category: %s", category)
	}

	var candidates []*domain.Thing
	for _, p := range s.providers {
		if category != "" && p.Category() != category {
			continue
		}

		results, err := p.Search(ctx, query)
		if err != nil {
			s.logger.Warn("provider search failed",
				"provider", p.Name(),
				"query", query,
				"error", err,
			)
			continue
		}
		candidates = append(candidates, results...)
	}

	return candidates, nil
}

// ResolveThingRequest carries either a provider candidate (as returned
// by SearchProviders) or a manual entry.
type ResolveThingRequest struct {
	Title       string               `json:"title" validate:"required,max=500"`
	Category    domain.Category      `json:"category" validate:"required"`
	Description string               `json:"description" validate:"max=5000" required:"false"`
	ImageURL    string               `json:"image_url" validate:"max=2000" required:"false"`
	Source      string               `json:"source" required:"false"`
	Metadata    domain.ThingMetadata `json:"metadata" required:"false"`
}

// ResolveThing deduplicates the request against the existing catalog and
// returns the canonical entry, creating it on first sighting.
func (s *CatalogService) ResolveThing(ctx context.Context, userID string, req ResolveThingRequest) (*domain.Thing, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if !req.Category.Valid() {
		return nil, domainerrors.Validationf("invalid category: %s", req.Category)
	}

	candidate := &domain.Thing{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Source:      req.Source,
		Metadata:    req.Metadata,
		CreatedBy:   userID,
	}

	fromProvider := req.Source != "" && req.Source != domain.SourceManual &&
		(req.Metadata.ProviderIdentity != "" || req.Metadata.ProviderRawID != "")

	var (
		thing   *domain.Thing
		created bool
		err     error
	)
	if fromProvider {
		thing, created, err = s.store.ResolveProviderThing(ctx, candidate)
	} else {
		thing, created, err = s.store.ResolveManualThing(ctx, candidate)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve thing: %w", err)
	}

	if created {
		s.logger.Info("thing created",
			"thing_id", thing.ID,
			"title", thing.Title,
			"category", thing.Category,
			"source", thing.Source,
		)
	}

	return thing, nil
}

// GetThing retrieves one catalog entry.
func (s *CatalogService) GetThing(ctx context.Context, thingID string) (*domain.Thing, error) {
	thing, err := s.store.GetThing(ctx, thingID)
	if err != nil {
		if errors.Is(err, store.ErrThingNotFound) {
			return nil, domainerrors.NotFound("thing not found")
		}
		return nil, fmt.Errorf("get thing: %w", err)
	}
	return thing, nil
}

// SearchCatalog runs a full-text search over the local catalog.
func (s *CatalogService) SearchCatalog(ctx context.Context, params search.Params) (*search.Result, error) {
	result, err := s.searchIndex.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	return result, nil
}

// ReindexAll rebuilds the full-text index from the store. Called at
// startup when the index mapping version changed.
func (s *CatalogService) ReindexAll(ctx context.Context) error {
	things, err := s.store.ListAllThings(ctx)
	if err != nil {
		return fmt.Errorf("list things: %w", err)
	}

	if err := s.searchIndex.IndexThings(things); err != nil {
		return fmt.Errorf("index things: %w", err)
	}

	s.logger.Info("catalog reindexed", "count", len(things))
	return nil
}
