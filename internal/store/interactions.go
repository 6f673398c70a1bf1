package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/id"
	"github.com/beenthereapp/beenthere-server/internal/sse"
)

const (
	interactionPrefix            = "interaction:"
	interactionByUserThingPrefix = "idx:interactions:user_thing:" // Uniqueness reservation: {userID}:{thingID} -> interactionID
	interactionByUserPrefix      = "idx:interactions:user:"       // Listing: {userID}:{interactionID}
	interactionByThingPrefix     = "idx:interactions:thing:"      // Listing: {thingID}:{interactionID}
)

var (
	// ErrInteractionNotFound is returned when an interaction cannot be found.
	ErrInteractionNotFound = errors.New("interaction not found")
)

// UpsertInteraction creates or updates a user's interaction with a thing.
// At most one interaction ever exists per (user, thing); the uniqueness
// reservation and the write happen in one transaction so concurrent upserts
// for the same pair converge on a single record. A soft-deleted interaction
// is revived in place.
func (s *Store) UpsertInteraction(_ context.Context, in *domain.Interaction) (*domain.Interaction, bool, error) {
	if in.UserID == "" || in.ThingID == "" {
		return nil, false, fmt.Errorf("interaction requires user and thing")
	}

	pairKey := []byte(interactionByUserThingPrefix + in.UserID + ":" + in.ThingID)

	var (
		result  *domain.Interaction
		created bool
	)

	err := s.update(func(txn *badger.Txn) error {
		result = nil
		created = false

		item, err := txn.Get(pairKey)
		if err == nil {
			var existingID string
			if err := item.Value(func(val []byte) error {
				existingID = string(val)
				return nil
			}); err != nil {
				return err
			}

			var existing domain.Interaction
			if err := getInTxn(txn, []byte(interactionPrefix+existingID), &existing); err != nil {
				return fmt.Errorf("get existing interaction: %w", err)
			}

			// Update in place, reviving a soft-deleted record.
			existing.State = in.State
			existing.Visibility = in.Visibility
			existing.Rating = in.Rating
			existing.Notes = in.Notes
			existing.Content = in.Content
			existing.PhotoPaths = in.PhotoPaths
			if in.UserName != "" {
				existing.UserName = in.UserName
			}
			existing.DeletedAt = nil
			existing.Touch()

			if err := setInTxn(txn, []byte(interactionPrefix+existing.ID), &existing); err != nil {
				return fmt.Errorf("save interaction: %w", err)
			}

			result = &existing
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("lookup interaction by pair: %w", err)
		}

		fresh := *in
		fresh.ID = id.MustGenerate("int")
		fresh.InitTimestamps()
		fresh.LikedBy = nil
		fresh.CommentCount = 0

		if err := setInTxn(txn, []byte(interactionPrefix+fresh.ID), &fresh); err != nil {
			return fmt.Errorf("save interaction: %w", err)
		}
		if err := txn.Set(pairKey, []byte(fresh.ID)); err != nil {
			return err
		}
		userKey := []byte(interactionByUserPrefix + fresh.UserID + ":" + fresh.ID)
		if err := txn.Set(userKey, []byte{}); err != nil {
			return err
		}
		thingKey := []byte(interactionByThingPrefix + fresh.ThingID + ":" + fresh.ID)
		if err := txn.Set(thingKey, []byte{}); err != nil {
			return err
		}

		result = &fresh
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.eventEmitter.Emit(sse.NewInteractionUpsertedEvent(result))

	return result, created, nil
}

// GetInteraction retrieves an interaction by ID.
// Soft-deleted interactions are treated as not found.
func (s *Store) GetInteraction(_ context.Context, interactionID string) (*domain.Interaction, error) {
	key := []byte(interactionPrefix + interactionID)

	var in domain.Interaction
	if err := s.get(key, &in); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrInteractionNotFound
		}
		return nil, fmt.Errorf("get interaction: %w", err)
	}

	if in.IsDeleted() {
		return nil, ErrInteractionNotFound
	}

	return &in, nil
}

// GetInteractionForUserThing retrieves the single interaction for a (user, thing) pair.
func (s *Store) GetInteractionForUserThing(ctx context.Context, userID, thingID string) (*domain.Interaction, error) {
	pairKey := []byte(interactionByUserThingPrefix + userID + ":" + thingID)

	var interactionID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pairKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			interactionID = string(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrInteractionNotFound
		}
		return nil, fmt.Errorf("lookup interaction by pair: %w", err)
	}

	return s.GetInteraction(ctx, interactionID)
}

// DeleteInteraction soft-deletes an interaction. The (user, thing) reservation
// stays in place so a later re-log revives the same record instead of
// creating a second one.
func (s *Store) DeleteInteraction(ctx context.Context, interactionID string) error {
	in, err := s.GetInteraction(ctx, interactionID)
	if err != nil {
		return err
	}

	in.MarkDeleted()

	err = s.update(func(txn *badger.Txn) error {
		return setInTxn(txn, []byte(interactionPrefix+in.ID), in)
	})
	if err != nil {
		return fmt.Errorf("soft delete interaction: %w", err)
	}

	s.eventEmitter.Emit(sse.NewInteractionDeletedEvent(in))

	return nil
}

// LikeInteraction adds userID to the interaction's like set.
// Reports whether the like was newly added; re-liking is a no-op.
func (s *Store) LikeInteraction(ctx context.Context, interactionID, userID string) (bool, error) {
	return s.mutateLikes(ctx, interactionID, func(in *domain.Interaction) bool {
		return in.AddLike(userID)
	})
}

// UnlikeInteraction removes userID from the interaction's like set.
// Reports whether the like was present; re-unliking is a no-op.
func (s *Store) UnlikeInteraction(ctx context.Context, interactionID, userID string) (bool, error) {
	return s.mutateLikes(ctx, interactionID, func(in *domain.Interaction) bool {
		return in.RemoveLike(userID)
	})
}

func (s *Store) mutateLikes(_ context.Context, interactionID string, mutate func(*domain.Interaction) bool) (bool, error) {
	var changed bool

	err := s.update(func(txn *badger.Txn) error {
		var in domain.Interaction
		if err := getInTxn(txn, []byte(interactionPrefix+interactionID), &in); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrInteractionNotFound
			}
			return fmt.Errorf("get interaction: %w", err)
		}
		if in.IsDeleted() {
			return ErrInteractionNotFound
		}

		changed = mutate(&in)
		if !changed {
			return nil
		}

		in.Touch()
		return setInTxn(txn, []byte(interactionPrefix+in.ID), &in)
	})
	if err != nil {
		return false, err
	}

	return changed, nil
}

// ListInteractionsByUser returns all live interactions authored by a user.
func (s *Store) ListInteractionsByUser(ctx context.Context, userID string) ([]*domain.Interaction, error) {
	return s.listInteractionsByIndex(ctx, interactionByUserPrefix+userID+":")
}

// ListInteractionsByThing returns all live interactions on a thing.
func (s *Store) ListInteractionsByThing(ctx context.Context, thingID string) ([]*domain.Interaction, error) {
	return s.listInteractionsByIndex(ctx, interactionByThingPrefix+thingID+":")
}

// ListInteractionsForUsers returns all live interactions authored by any of
// the given users. Used by the feed builder.
func (s *Store) ListInteractionsForUsers(ctx context.Context, userIDs []string) ([]*domain.Interaction, error) {
	var all []*domain.Interaction
	for _, userID := range userIDs {
		interactions, err := s.ListInteractionsByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		all = append(all, interactions...)
	}
	return all, nil
}

func (s *Store) listInteractionsByIndex(ctx context.Context, indexPrefix string) ([]*domain.Interaction, error) {
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
		return nil, fmt.Errorf("scan interaction index: %w", err)
	}

	interactions := make([]*domain.Interaction, 0, len(ids))
	for _, interactionID := range ids {
		in, err := s.GetInteraction(ctx, interactionID)
		if err != nil {
			if errors.Is(err, ErrInteractionNotFound) {
				continue // Soft-deleted or dangling index entry
			}
			return nil, err
		}
		interactions = append(interactions, in)
	}

	return interactions, nil
}
