// Package access decides whether a user may act on a campaign-scoped
// resource.
package access

import (
	"encoding/json"
	"errors"
)

type Role string

const (
	RolePlayer     Role = "PLAYER"
	RoleGameMaster Role = "GM"
)

var (
	// ErrCampaignNotFound means the campaign itself does not exist.
	ErrCampaignNotFound = errors.New("campaign not found")
	// ErrForbidden means the campaign exists but the user lacks the
	// required membership or role. Existence is the only fact this leaks.
	ErrForbidden = errors.New("forbidden")
)

// Satisfies reports whether r meets a minimum role requirement. A game
// master satisfies any player-level check.
func (r Role) Satisfies(min Role) bool {
	if r == RoleGameMaster {
		return true
	}
	return r == min
}

// Store is the membership/campaign lookup the checker runs on.
type Store interface {
	CampaignExists(campaignID uint) (bool, error)
	MembershipRole(campaignID, userID uint) (Role, bool, error)
}

type Checker struct {
	store Store
}

func NewChecker(store Store) *Checker {
	return &Checker{store: store}
}

// Role returns the user's role in the campaign, if any.
func (c *Checker) Role(campaignID, userID uint) (Role, bool, error) {
	return c.store.MembershipRole(campaignID, userID)
}

// Require checks that the user holds at least min within the campaign.
// It returns the actual role on success, ErrCampaignNotFound when the
// campaign is absent, and ErrForbidden otherwise.
func (c *Checker) Require(campaignID, userID uint, min Role) (Role, error) {
	role, member, err := c.store.MembershipRole(campaignID, userID)

	if err != nil {
		return "", err
	}

	if !member {
		exists, err := c.store.CampaignExists(campaignID)
		if err != nil {
			return "", err
		}
		if !exists {
			return "", ErrCampaignNotFound
		}
		return "", ErrForbidden
	}

	if !role.Satisfies(min) {
		return "", ErrForbidden
	}

	return role, nil
}

// CanMutateCharacter reports whether userID may modify a character owned by
// ownerID in the given campaign: the owner may, and so may any GM of the
// campaign. Other players may not, membership notwithstanding.
func (c *Checker) CanMutateCharacter(campaignID, ownerID, userID uint) (bool, error) {
	role, member, err := c.store.MembershipRole(campaignID, userID)

	if err != nil {
		return false, err
	}

	if !member {
		return false, nil
	}

	if userID == ownerID {
		return true, nil
	}

	return role == RoleGameMaster, nil
}

// InviteRegenAllowed reads the campaign settings document and reports
// whether invite-code regeneration is permitted. Only an explicit
// allow_invite_regen:false disables it; absent or unreadable settings
// permit regeneration.
func InviteRegenAllowed(settings []byte) bool {
	if len(settings) == 0 {
		return true
	}

	var doc struct {
		AllowInviteRegen *bool `json:"allow_invite_regen"`
	}

	if err := json.Unmarshal(settings, &doc); err != nil {
		return true
	}

	return doc.AllowInviteRegen == nil || *doc.AllowInviteRegen
}
