package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/id"
	"github.com/beenthereapp/beenthere-server/internal/sse"
)

const (
	recommendationPrefix         = "rec:"
	recommendationByTriplePrefix = "idx:recs:triple:" // Idempotency reservation: {from}:{to}:{thing} -> recID
	recommendationByToPrefix     = "idx:recs:to:"     // Received listing: {toUserID}:{recID}
	recommendationByFromPrefix   = "idx:recs:from:"   // Given listing: {fromUserID}:{recID}
)

var (
	// ErrRecommendationNotFound is returned when a recommendation cannot be found.
	ErrRecommendationNotFound = errors.New("recommendation not found")
)

// FindOrCreateRecommendation resolves the (from, to, thing) triple to its
// single edge, creating it if absent. Callers may invoke this speculatively
// on every save action; re-creating an existing triple returns the existing
// edge unchanged.
func (s *Store) FindOrCreateRecommendation(_ context.Context, rec *domain.Recommendation) (*domain.Recommendation, bool, error) {
	if rec.FromUserID == "" || rec.ToUserID == "" || rec.ThingID == "" {
		return nil, false, fmt.Errorf("recommendation requires from, to and thing")
	}

	tripleKey := []byte(recommendationByTriplePrefix + rec.TripleKey())

	var (
		result  *domain.Recommendation
		created bool
	)

	err := s.update(func(txn *badger.Txn) error {
		result = nil
		created = false

		item, err := txn.Get(tripleKey)
		if err == nil {
			var existingID string
			if err := item.Value(func(val []byte) error {
				existingID = string(val)
				return nil
			}); err != nil {
				return err
			}

			var existing domain.Recommendation
			if err := getInTxn(txn, []byte(recommendationPrefix+existingID), &existing); err != nil {
				return fmt.Errorf("get existing recommendation: %w", err)
			}
			result = &existing
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("lookup recommendation by triple: %w", err)
		}

		fresh := *rec
		fresh.ID = id.MustGenerate("rec")
		fresh.InitTimestamps()

		if err := setInTxn(txn, []byte(recommendationPrefix+fresh.ID), &fresh); err != nil {
			return fmt.Errorf("save recommendation: %w", err)
		}
		if err := txn.Set(tripleKey, []byte(fresh.ID)); err != nil {
			return err
		}
		toKey := []byte(recommendationByToPrefix + fresh.ToUserID + ":" + fresh.ID)
		if err := txn.Set(toKey, []byte{}); err != nil {
			return err
		}
		fromKey := []byte(recommendationByFromPrefix + fresh.FromUserID + ":" + fresh.ID)
		if err := txn.Set(fromKey, []byte{}); err != nil {
			return err
		}

		result = &fresh
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.eventEmitter.Emit(sse.NewRecommendationCreatedEvent(result))
	}

	return result, created, nil
}

// GetRecommendation retrieves a recommendation by ID.
func (s *Store) GetRecommendation(_ context.Context, recID string) (*domain.Recommendation, error) {
	key := []byte(recommendationPrefix + recID)

	var rec domain.Recommendation
	if err := s.get(key, &rec); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrRecommendationNotFound
		}
		return nil, fmt.Errorf("get recommendation: %w", err)
	}

	return &rec, nil
}

// ListRecommendationsReceived returns edges pointing at a user, newest first.
func (s *Store) ListRecommendationsReceived(ctx context.Context, userID string) ([]*domain.Recommendation, error) {
	return s.listRecommendationsByIndex(ctx, recommendationByToPrefix+userID+":")
}

// ListRecommendationsGiven returns edges originating from a user, newest first.
func (s *Store) ListRecommendationsGiven(ctx context.Context, userID string) ([]*domain.Recommendation, error) {
	return s.listRecommendationsByIndex(ctx, recommendationByFromPrefix+userID+":")
}

func (s *Store) listRecommendationsByIndex(ctx context.Context, indexPrefix string) ([]*domain.Recommendation, error) {
	prefix := []byte(indexPrefix)
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false // Only need keys

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, key[strings.LastIndex(key, ":")+1:])
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan recommendation index: %w", err)
	}

	recs := make([]*domain.Recommendation, 0, len(ids))
	for _, recID := range ids {
		rec, err := s.GetRecommendation(ctx, recID)
		if err != nil {
			if errors.Is(err, ErrRecommendationNotFound) {
				continue
			}
			return nil, err
		}
		recs = append(recs, rec)
	}

	slices.SortFunc(recs, func(a, b *domain.Recommendation) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return recs, nil
}
