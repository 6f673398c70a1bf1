package domain

import "slices"

// Invitation is a redeemable referral code binding an inviter to a Thing.
// Invitations are never deleted; each redemption appends to UsedBy, and
// redemptions by brand-new accounts also append to ConvertedUsers.
type Invitation struct {
	Syncable
	Code           string   `json:"code"`
	InviterID      string   `json:"inviter_id"`
	InviterName    string   `json:"inviter_name"`
	ThingID        string   `json:"thing_id"`
	InteractionID  string   `json:"interaction_id,omitempty"` // inviter's interaction at share time, if any
	UsedBy         []string `json:"used_by,omitempty"`
	ConvertedUsers []string `json:"converted_users,omitempty"`
}

// WasUsedBy reports whether userID has already redeemed this invitation.
func (i *Invitation) WasUsedBy(userID string) bool {
	return slices.Contains(i.UsedBy, userID)
}

// RecordUse appends userID to UsedBy (and ConvertedUsers when the
// redeemer is a new account). Idempotent set-union.
// Returns true if this was the first redemption by userID.
func (i *Invitation) RecordUse(userID string, isNewAccount bool) bool {
	first := !i.WasUsedBy(userID)
	if first {
		i.UsedBy = append(i.UsedBy, userID)
	}
	if isNewAccount && !slices.Contains(i.ConvertedUsers, userID) {
		i.ConvertedUsers = append(i.ConvertedUsers, userID)
	}
	return first
}
