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
)

const (
	commentPrefix        = "comment:"
	commentByThingPrefix = "idx:comments:thing:" // Listing: {thingID}:{commentID}
)

var (
	// ErrCommentNotFound is returned when a comment cannot be found.
	ErrCommentNotFound = errors.New("comment not found")
)

// CreateComment persists a comment and bumps the thing's comment count in
// one transaction.
func (s *Store) CreateComment(_ context.Context, comment *domain.Comment) error {
	if comment.ThingID == "" || comment.AuthorID == "" {
		return fmt.Errorf("comment requires thing and author")
	}

	comment.ID = id.MustGenerate("cmt")
	comment.InitTimestamps()

	key := []byte(commentPrefix + comment.ID)
	thingIdxKey := []byte(commentByThingPrefix + comment.ThingID + ":" + comment.ID)
	thingKey := []byte(thingPrefix + comment.ThingID)

	return s.update(func(txn *badger.Txn) error {
		var thing domain.Thing
		if err := getInTxn(txn, thingKey, &thing); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrThingNotFound
			}
			return fmt.Errorf("get thing: %w", err)
		}

		if err := setInTxn(txn, key, comment); err != nil {
			return fmt.Errorf("save comment: %w", err)
		}
		if err := txn.Set(thingIdxKey, []byte{}); err != nil {
			return err
		}

		thing.CommentCount++
		thing.Touch()
		return setInTxn(txn, thingKey, &thing)
	})
}

// GetComment retrieves a comment by ID.
// Soft-deleted comments are treated as not found.
func (s *Store) GetComment(_ context.Context, commentID string) (*domain.Comment, error) {
	key := []byte(commentPrefix + commentID)

	var comment domain.Comment
	if err := s.get(key, &comment); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	if comment.IsDeleted() {
		return nil, ErrCommentNotFound
	}

	return &comment, nil
}

// DeleteComment soft-deletes a comment and decrements the thing's comment
// count in one transaction. Deleting an already-deleted comment is a no-op.
func (s *Store) DeleteComment(_ context.Context, commentID string) error {
	key := []byte(commentPrefix + commentID)

	return s.update(func(txn *badger.Txn) error {
		var comment domain.Comment
		if err := getInTxn(txn, key, &comment); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return fmt.Errorf("get comment: %w", err)
		}
		if comment.IsDeleted() {
			return nil
		}

		comment.MarkDeleted()
		if err := setInTxn(txn, key, &comment); err != nil {
			return fmt.Errorf("save comment: %w", err)
		}

		var thing domain.Thing
		thingKey := []byte(thingPrefix + comment.ThingID)
		if err := getInTxn(txn, thingKey, &thing); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil // Thing gone; nothing to decrement
			}
			return fmt.Errorf("get thing: %w", err)
		}

		if thing.CommentCount > 0 {
			thing.CommentCount--
		}
		thing.Touch()
		return setInTxn(txn, thingKey, &thing)
	})
}

// ListCommentsByThing returns all live comments on a thing, oldest first.
func (s *Store) ListCommentsByThing(ctx context.Context, thingID string) ([]*domain.Comment, error) {
	prefix := []byte(commentByThingPrefix + thingID + ":")
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
		return nil, fmt.Errorf("list comments by thing: %w", err)
	}

	comments := make([]*domain.Comment, 0, len(ids))
	for _, commentID := range ids {
		comment, err := s.GetComment(ctx, commentID)
		if err != nil {
			if errors.Is(err, ErrCommentNotFound) {
				continue // Soft-deleted
			}
			return nil, err
		}
		comments = append(comments, comment)
	}

	slices.SortFunc(comments, func(a, b *domain.Comment) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return comments, nil
}
