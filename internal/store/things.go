package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/id"
	"github.com/beenthereapp/beenthere-server/internal/sse"
)

const (
	thingPrefix           = "thing:"
	thingByIdentityPrefix = "idx:things:identity:"  // Authoritative provider dedup: {source}:{identity}
	thingByRawIDPrefix    = "idx:things:raw:"       // Fallback provider dedup: {source}:{rawID}
	thingByTitlePrefix    = "idx:things:title:"     // Manual dedup: {category}:{title}
	thingByCreatorPrefix  = "idx:things:createdby:" // Listing: {userID}:{thingID}
)

var (
	// ErrThingNotFound is returned when a catalog entry cannot be found.
	ErrThingNotFound = errors.New("thing not found")
)

// GetThing retrieves a catalog entry by ID.
func (s *Store) GetThing(_ context.Context, thingID string) (*domain.Thing, error) {
	key := []byte(thingPrefix + thingID)

	var thing domain.Thing
	if err := s.get(key, &thing); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrThingNotFound
		}
		return nil, fmt.Errorf("get thing: %w", err)
	}

	return &thing, nil
}

// GetThingsByIDs retrieves multiple catalog entries, skipping missing ones.
func (s *Store) GetThingsByIDs(ctx context.Context, ids []string) ([]*domain.Thing, error) {
	things := make([]*domain.Thing, 0, len(ids))
	for _, thingID := range ids {
		thing, err := s.GetThing(ctx, thingID)
		if err != nil {
			if errors.Is(err, ErrThingNotFound) {
				continue
			}
			return nil, err
		}
		things = append(things, thing)
	}
	return things, nil
}

// ResolveProviderThing finds an existing catalog entry for a provider-sourced
// candidate or creates one. Dedup checks the provider identity first (ISBN,
// place identifier, media identifier), then falls back to the provider's own
// record id. Blank candidate fields never overwrite populated fields on an
// existing entry; populated candidate fields fill blanks.
func (s *Store) ResolveProviderThing(_ context.Context, candidate *domain.Thing) (*domain.Thing, bool, error) {
	if candidate.Metadata.ProviderIdentity == "" && candidate.Metadata.ProviderRawID == "" {
		return nil, false, fmt.Errorf("provider candidate carries no identity")
	}

	var (
		resolved *domain.Thing
		created  bool
	)

	err := s.update(func(txn *badger.Txn) error {
		resolved = nil
		created = false

		existingID, err := s.lookupProviderThingID(txn, candidate)
		if err != nil {
			return err
		}

		if existingID != "" {
			var existing domain.Thing
			if err := getInTxn(txn, []byte(thingPrefix+existingID), &existing); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					// Dangling index entry; fall through to creation.
					return s.createThingInTxn(txn, candidate, &resolved, &created)
				}
				return fmt.Errorf("get existing thing: %w", err)
			}

			if fillMissingFields(&existing, candidate) {
				existing.Touch()
				if err := setInTxn(txn, []byte(thingPrefix+existing.ID), &existing); err != nil {
					return err
				}
			}

			resolved = &existing
			return nil
		}

		return s.createThingInTxn(txn, candidate, &resolved, &created)
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.afterThingCreated(resolved)
	}

	return resolved, created, nil
}

// ResolveManualThing finds an existing manual catalog entry by exact
// (title, category) match or creates one.
func (s *Store) ResolveManualThing(_ context.Context, candidate *domain.Thing) (*domain.Thing, bool, error) {
	if candidate.Title == "" {
		return nil, false, fmt.Errorf("manual entry requires a title")
	}
	candidate.Source = domain.SourceManual

	titleKey := []byte(thingByTitlePrefix + string(candidate.Category) + ":" + candidate.Title)

	var (
		resolved *domain.Thing
		created  bool
	)

	err := s.update(func(txn *badger.Txn) error {
		resolved = nil
		created = false

		item, err := txn.Get(titleKey)
		if err == nil {
			var existingID string
			if err := item.Value(func(val []byte) error {
				existingID = string(val)
				return nil
			}); err != nil {
				return err
			}

			var existing domain.Thing
			if err := getInTxn(txn, []byte(thingPrefix+existingID), &existing); err == nil {
				resolved = &existing
				return nil
			}
			// Dangling index entry; fall through to creation.
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("lookup thing by title: %w", err)
		}

		return s.createThingInTxn(txn, candidate, &resolved, &created)
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.afterThingCreated(resolved)
	}

	return resolved, created, nil
}

// lookupProviderThingID resolves a provider candidate to an existing thing ID
// within txn. Returns empty string when no match exists.
func (s *Store) lookupProviderThingID(txn *badger.Txn, candidate *domain.Thing) (string, error) {
	readIndex := func(key []byte) (string, error) {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		var thingID string
		err = item.Value(func(val []byte) error {
			thingID = string(val)
			return nil
		})
		return thingID, err
	}

	if candidate.Metadata.ProviderIdentity != "" {
		thingID, err := readIndex([]byte(thingByIdentityPrefix + candidate.Source + ":" + candidate.Metadata.ProviderIdentity))
		if err != nil {
			return "", fmt.Errorf("lookup thing by provider identity: %w", err)
		}
		if thingID != "" {
			return thingID, nil
		}
	}

	if candidate.Metadata.ProviderRawID != "" {
		thingID, err := readIndex([]byte(thingByRawIDPrefix + candidate.Source + ":" + candidate.Metadata.ProviderRawID))
		if err != nil {
			return "", fmt.Errorf("lookup thing by provider raw id: %w", err)
		}
		if thingID != "" {
			return thingID, nil
		}
	}

	return "", nil
}

// createThingInTxn persists candidate as a new catalog entry with its dedup
// and creator indexes inside txn.
func (s *Store) createThingInTxn(txn *badger.Txn, candidate *domain.Thing, resolved **domain.Thing, created *bool) error {
	thing := *candidate
	thing.ID = id.MustGenerate("thing")
	thing.InitTimestamps()
	thing.CommentCount = 0

	if err := setInTxn(txn, []byte(thingPrefix+thing.ID), &thing); err != nil {
		return fmt.Errorf("save thing: %w", err)
	}

	if thing.IsProviderSourced() {
		if thing.Metadata.ProviderIdentity != "" {
			identityKey := []byte(thingByIdentityPrefix + thing.Source + ":" + thing.Metadata.ProviderIdentity)
			if err := txn.Set(identityKey, []byte(thing.ID)); err != nil {
				return err
			}
		}
		if thing.Metadata.ProviderRawID != "" {
			rawKey := []byte(thingByRawIDPrefix + thing.Source + ":" + thing.Metadata.ProviderRawID)
			if err := txn.Set(rawKey, []byte(thing.ID)); err != nil {
				return err
			}
		}
	} else {
		titleKey := []byte(thingByTitlePrefix + string(thing.Category) + ":" + thing.Title)
		if err := txn.Set(titleKey, []byte(thing.ID)); err != nil {
			return err
		}
	}

	if thing.CreatedBy != "" {
		creatorKey := []byte(thingByCreatorPrefix + thing.CreatedBy + ":" + thing.ID)
		if err := txn.Set(creatorKey, []byte{}); err != nil {
			return err
		}
	}

	*resolved = &thing
	*created = true
	return nil
}

// afterThingCreated emits the SSE event and schedules search indexing.
func (s *Store) afterThingCreated(thing *domain.Thing) {
	s.eventEmitter.Emit(sse.NewThingCreatedEvent(thing))

	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.IndexThing(context.Background(), thing); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to index thing for search", "thing_id", thing.ID, "error", err)
				}
			}
		}()
	}
}

// fillMissingFields copies populated candidate fields into blank fields of
// existing. Populated fields on existing are never overwritten. Reports
// whether anything changed.
func fillMissingFields(existing, candidate *domain.Thing) bool {
	changed := false

	if existing.Description == "" && candidate.Description != "" {
		existing.Description = candidate.Description
		changed = true
	}
	if existing.ImageURL == "" && candidate.ImageURL != "" {
		existing.ImageURL = candidate.ImageURL
		changed = true
	}
	if existing.Metadata.ProviderRawID == "" && candidate.Metadata.ProviderRawID != "" {
		existing.Metadata.ProviderRawID = candidate.Metadata.ProviderRawID
		changed = true
	}
	if existing.Metadata.Address == "" && candidate.Metadata.Address != "" {
		existing.Metadata.Address = candidate.Metadata.Address
		changed = true
	}
	if existing.Metadata.Author == "" && candidate.Metadata.Author != "" {
		existing.Metadata.Author = candidate.Metadata.Author
		changed = true
	}
	if existing.Metadata.PublishYear == "" && candidate.Metadata.PublishYear != "" {
		existing.Metadata.PublishYear = candidate.Metadata.PublishYear
		changed = true
	}
	if existing.Metadata.ReleaseYear == "" && candidate.Metadata.ReleaseYear != "" {
		existing.Metadata.ReleaseYear = candidate.Metadata.ReleaseYear
		changed = true
	}

	return changed
}

// ListThingsByCreator returns all catalog entries first sighted by a user.
func (s *Store) ListThingsByCreator(ctx context.Context, userID string) ([]*domain.Thing, error) {
	prefix := []byte(thingByCreatorPrefix + userID + ":")
	var thingIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false // Only need keys

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			thingID := key[strings.LastIndex(key, ":")+1:]
			thingIDs = append(thingIDs, thingID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list things by creator: %w", err)
	}

	return s.GetThingsByIDs(ctx, thingIDs)
}

// ListAllThings returns every catalog entry without pagination.
// Used for bulk operations like search reindexing.
func (s *Store) ListAllThings(_ context.Context) ([]*domain.Thing, error) {
	var things []*domain.Thing

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(thingPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var thing domain.Thing
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &thing)
			})
			if err != nil {
				continue // Skip malformed entries
			}
			things = append(things, &thing)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list all things: %w", err)
	}

	return things, nil
}
