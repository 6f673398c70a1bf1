package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

const (
	invitationPrefix          = "invitation:"
	invitationByCodePrefix    = "idx:invitations:code:"    // Public redemption lookup
	invitationByInviterPrefix = "idx:invitations:inviter:" // Listing: {inviterID}:{invitationID}
)

var (
	// ErrInvitationNotFound is returned when an invitation cannot be found.
	ErrInvitationNotFound = errors.New("invitation not found")
	// ErrInvitationCodeExists is returned when an invitation code already exists.
	ErrInvitationCodeExists = errors.New("invitation code already exists")
)

// CreateInvitation persists a new invitation, reserving its code atomically.
// Returns ErrInvitationCodeExists on collision so the caller can regenerate
// and retry.
func (s *Store) CreateInvitation(_ context.Context, inv *domain.Invitation) error {
	key := []byte(invitationPrefix + inv.ID)
	codeKey := []byte(invitationByCodePrefix + inv.Code)
	inviterKey := []byte(invitationByInviterPrefix + inv.InviterID + ":" + inv.ID)

	return s.update(func(txn *badger.Txn) error {
		_, err := txn.Get(codeKey)
		if err == nil {
			return ErrInvitationCodeExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check code exists: %w", err)
		}

		if err := setInTxn(txn, key, inv); err != nil {
			return fmt.Errorf("save invitation: %w", err)
		}
		if err := txn.Set(codeKey, []byte(inv.ID)); err != nil {
			return err
		}
		return txn.Set(inviterKey, []byte{})
	})
}

// GetInvitation retrieves an invitation by ID.
func (s *Store) GetInvitation(_ context.Context, invitationID string) (*domain.Invitation, error) {
	key := []byte(invitationPrefix + invitationID)

	var inv domain.Invitation
	if err := s.get(key, &inv); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}

	return &inv, nil
}

// GetInvitationByCode retrieves an invitation by its public code.
// This is the primary lookup method for the redemption flow.
func (s *Store) GetInvitationByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	codeKey := []byte(invitationByCodePrefix + code)

	var invitationID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(codeKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			invitationID = string(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("lookup invitation by code: %w", err)
	}

	return s.GetInvitation(ctx, invitationID)
}

// RecordInvitationUse appends userID to the invitation's redemption sets in
// one transaction. Reports whether this was the user's first redemption of
// the code; repeat redemptions leave the sets unchanged.
func (s *Store) RecordInvitationUse(_ context.Context, code, userID string, isNewAccount bool) (*domain.Invitation, bool, error) {
	codeKey := []byte(invitationByCodePrefix + code)

	var (
		result   *domain.Invitation
		firstUse bool
	)

	err := s.update(func(txn *badger.Txn) error {
		result = nil
		firstUse = false

		item, err := txn.Get(codeKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrInvitationNotFound
		}
		if err != nil {
			return fmt.Errorf("lookup invitation by code: %w", err)
		}

		var invitationID string
		if err := item.Value(func(val []byte) error {
			invitationID = string(val)
			return nil
		}); err != nil {
			return err
		}

		var inv domain.Invitation
		if err := getInTxn(txn, []byte(invitationPrefix+invitationID), &inv); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrInvitationNotFound
			}
			return fmt.Errorf("get invitation: %w", err)
		}

		firstUse = inv.RecordUse(userID, isNewAccount)
		if firstUse {
			inv.Touch()
			if err := setInTxn(txn, []byte(invitationPrefix+inv.ID), &inv); err != nil {
				return fmt.Errorf("save invitation: %w", err)
			}
		}

		result = &inv
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return result, firstUse, nil
}

// ListInvitationsByInviter returns all invitations created by a user.
func (s *Store) ListInvitationsByInviter(ctx context.Context, inviterID string) ([]*domain.Invitation, error) {
	prefix := []byte(invitationByInviterPrefix + inviterID + ":")
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
		return nil, fmt.Errorf("list invitations by inviter: %w", err)
	}

	invitations := make([]*domain.Invitation, 0, len(ids))
	for _, invitationID := range ids {
		inv, err := s.GetInvitation(ctx, invitationID)
		if err != nil {
			if errors.Is(err, ErrInvitationNotFound) {
				continue
			}
			return nil, err
		}
		invitations = append(invitations, inv)
	}

	return invitations, nil
}
