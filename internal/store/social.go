package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/id"
)

const (
	followPrefix           = "follow:"
	followByPairPrefix     = "idx:follows:pair:"     // Idempotency reservation: {follower}:{followee} -> followID
	followByFollowerPrefix = "idx:follows:follower:" // Following listing: {follower}:{followID}
	followByFolloweePrefix = "idx:follows:followee:" // Followers listing: {followee}:{followID}
)

var (
	// ErrFollowNotFound is returned when a follow edge cannot be found.
	ErrFollowNotFound = errors.New("follow not found")
)

// CreateFollow creates a follow edge from follower to followee.
// Re-following returns the existing edge unchanged.
func (s *Store) CreateFollow(_ context.Context, followerID, followeeID string) (*domain.Follow, bool, error) {
	if followerID == "" || followeeID == "" {
		return nil, false, fmt.Errorf("follow requires follower and followee")
	}
	if followerID == followeeID {
		return nil, false, fmt.Errorf("cannot follow yourself")
	}

	pairKey := []byte(followByPairPrefix + followerID + ":" + followeeID)

	var (
		result  *domain.Follow
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

			var existing domain.Follow
			if err := getInTxn(txn, []byte(followPrefix+existingID), &existing); err != nil {
				return fmt.Errorf("get existing follow: %w", err)
			}
			result = &existing
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("lookup follow by pair: %w", err)
		}

		fresh := domain.Follow{
			FollowerID: followerID,
			FolloweeID: followeeID,
		}
		fresh.ID = id.MustGenerate("fol")
		fresh.InitTimestamps()

		if err := setInTxn(txn, []byte(followPrefix+fresh.ID), &fresh); err != nil {
			return fmt.Errorf("save follow: %w", err)
		}
		if err := txn.Set(pairKey, []byte(fresh.ID)); err != nil {
			return err
		}
		followerKey := []byte(followByFollowerPrefix + followerID + ":" + fresh.ID)
		if err := txn.Set(followerKey, []byte(followeeID)); err != nil {
			return err
		}
		followeeKey := []byte(followByFolloweePrefix + followeeID + ":" + fresh.ID)
		if err := txn.Set(followeeKey, []byte(followerID)); err != nil {
			return err
		}

		result = &fresh
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return result, created, nil
}

// DeleteFollow removes the follow edge from follower to followee.
// Unfollowing a user who was never followed is a no-op.
func (s *Store) DeleteFollow(_ context.Context, followerID, followeeID string) error {
	pairKey := []byte(followByPairPrefix + followerID + ":" + followeeID)

	return s.update(func(txn *badger.Txn) error {
		item, err := txn.Get(pairKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lookup follow by pair: %w", err)
		}

		var followID string
		if err := item.Value(func(val []byte) error {
			followID = string(val)
			return nil
		}); err != nil {
			return err
		}

		if err := txn.Delete([]byte(followPrefix + followID)); err != nil {
			return err
		}
		if err := txn.Delete(pairKey); err != nil {
			return err
		}
		followerKey := []byte(followByFollowerPrefix + followerID + ":" + followID)
		if err := txn.Delete(followerKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		followeeKey := []byte(followByFolloweePrefix + followeeID + ":" + followID)
		if err := txn.Delete(followeeKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		return nil
	})
}

// IsFollowing reports whether follower follows followee.
func (s *Store) IsFollowing(_ context.Context, followerID, followeeID string) (bool, error) {
	return s.exists([]byte(followByPairPrefix + followerID + ":" + followeeID))
}

// ListFollowing returns the IDs of every user the follower follows.
func (s *Store) ListFollowing(_ context.Context, followerID string) ([]string, error) {
	return s.scanFollowIndex(followByFollowerPrefix + followerID + ":")
}

// ListFollowers returns the IDs of every user following followee.
func (s *Store) ListFollowers(_ context.Context, followeeID string) ([]string, error) {
	return s.scanFollowIndex(followByFolloweePrefix + followeeID + ":")
}

// scanFollowIndex collects the counterpart user IDs stored as index values.
func (s *Store) scanFollowIndex(indexPrefix string) ([]string, error) {
	prefix := []byte(indexPrefix)
	var userIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				if len(val) > 0 {
					userIDs = append(userIDs, string(val))
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan follow index: %w", err)
	}

	return userIDs, nil
}

// GetFollow retrieves a follow edge for a (follower, followee) pair.
func (s *Store) GetFollow(ctx context.Context, followerID, followeeID string) (*domain.Follow, error) {
	pairKey := []byte(followByPairPrefix + followerID + ":" + followeeID)

	var followID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pairKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			followID = string(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrFollowNotFound
		}
		return nil, fmt.Errorf("lookup follow by pair: %w", err)
	}

	var follow domain.Follow
	if err := s.get([]byte(followPrefix+followID), &follow); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrFollowNotFound
		}
		return nil, fmt.Errorf("get follow: %w", err)
	}

	return &follow, nil
}
