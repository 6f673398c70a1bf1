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
	tagPrefix         = "tag:"
	tagByPairPrefix   = "idx:tags:pair:"   // One tag per (sourceInteraction, taggedUser): {interactionID}:{taggedUserID} -> tagID
	tagByTaggedPrefix = "idx:tags:tagged:" // Inbox listing: {taggedUserID}:{tagID}
	tagByTaggerPrefix = "idx:tags:tagger:" // Outbox listing: {taggerID}:{tagID}
)

var (
	// ErrTagNotFound is returned when a tag cannot be found.
	ErrTagNotFound = errors.New("tag not found")
	// ErrTagExists is returned when the interaction already tags that user.
	ErrTagExists = errors.New("tag already exists")
	// ErrTagResolved is returned when accepting or declining a terminal tag.
	ErrTagResolved = errors.New("tag already resolved")
)

// CreateTag records a pending co-experience assertion. One tag exists per
// (source interaction, tagged user); re-tagging returns ErrTagExists.
func (s *Store) CreateTag(_ context.Context, tag *domain.Tag) error {
	if tag.SourceInteractionID == "" || tag.TaggedUserID == "" {
		return fmt.Errorf("tag requires source interaction and tagged user")
	}

	tag.ID = id.MustGenerate("tag")
	tag.InitTimestamps()
	tag.Status = domain.TagPending

	key := []byte(tagPrefix + tag.ID)
	pairKey := []byte(tagByPairPrefix + tag.SourceInteractionID + ":" + tag.TaggedUserID)

	err := s.update(func(txn *badger.Txn) error {
		_, err := txn.Get(pairKey)
		if err == nil {
			return ErrTagExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check tag exists: %w", err)
		}

		if err := setInTxn(txn, key, tag); err != nil {
			return fmt.Errorf("save tag: %w", err)
		}
		if err := txn.Set(pairKey, []byte(tag.ID)); err != nil {
			return err
		}
		taggedKey := []byte(tagByTaggedPrefix + tag.TaggedUserID + ":" + tag.ID)
		if err := txn.Set(taggedKey, []byte{}); err != nil {
			return err
		}
		taggerKey := []byte(tagByTaggerPrefix + tag.TaggerID + ":" + tag.ID)
		return txn.Set(taggerKey, []byte{})
	})
	if err != nil {
		return err
	}

	s.eventEmitter.Emit(sse.NewTagCreatedEvent(tag))

	return nil
}

// GetTag retrieves a tag by ID.
func (s *Store) GetTag(_ context.Context, tagID string) (*domain.Tag, error) {
	key := []byte(tagPrefix + tagID)

	var tag domain.Tag
	if err := s.get(key, &tag); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}

	return &tag, nil
}

// ResolveTag transitions a pending tag to a terminal status inside one
// transaction. Returns ErrTagResolved if the tag already reached a terminal
// status, so side effects guarded by this call run at most once.
func (s *Store) ResolveTag(_ context.Context, tagID string, status domain.TagStatus) (*domain.Tag, error) {
	if !status.Terminal() {
		return nil, fmt.Errorf("tag can only resolve to a terminal status")
	}

	var result *domain.Tag

	err := s.update(func(txn *badger.Txn) error {
		result = nil

		var tag domain.Tag
		if err := getInTxn(txn, []byte(tagPrefix+tagID), &tag); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrTagNotFound
			}
			return fmt.Errorf("get tag: %w", err)
		}

		if tag.Status.Terminal() {
			return ErrTagResolved
		}

		tag.Status = status
		tag.Touch()

		if err := setInTxn(txn, []byte(tagPrefix+tag.ID), &tag); err != nil {
			return fmt.Errorf("save tag: %w", err)
		}

		result = &tag
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.eventEmitter.Emit(sse.NewTagResolvedEvent(result))

	return result, nil
}

// ListPendingTagsForUser returns tags awaiting a user's decision, newest first.
func (s *Store) ListPendingTagsForUser(ctx context.Context, userID string) ([]*domain.Tag, error) {
	tags, err := s.listTagsByIndex(ctx, tagByTaggedPrefix+userID+":")
	if err != nil {
		return nil, err
	}

	pending := tags[:0]
	for _, tag := range tags {
		if tag.Status == domain.TagPending {
			pending = append(pending, tag)
		}
	}

	return pending, nil
}

// ListTagsByTagger returns all tags a user has asserted, newest first.
func (s *Store) ListTagsByTagger(ctx context.Context, taggerID string) ([]*domain.Tag, error) {
	return s.listTagsByIndex(ctx, tagByTaggerPrefix+taggerID+":")
}

func (s *Store) listTagsByIndex(ctx context.Context, indexPrefix string) ([]*domain.Tag, error) {
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
		return nil, fmt.Errorf("scan tag index: %w", err)
	}

	tags := make([]*domain.Tag, 0, len(ids))
	for _, tagID := range ids {
		tag, err := s.GetTag(ctx, tagID)
		if err != nil {
			if errors.Is(err, ErrTagNotFound) {
				continue
			}
			return nil, err
		}
		tags = append(tags, tag)
	}

	slices.SortFunc(tags, func(a, b *domain.Tag) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return tags, nil
}
