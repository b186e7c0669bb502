// Package store persists the console session: a bearer token slot and a
// profile slot that are always written and cleared together.
package store

import (
	"nexuscomply/pkg/domain"
	dErrors "nexuscomply/pkg/domain-errors"
)

// ErrNotFound is returned by Load when no complete session is persisted.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "no persisted session")

// Profile is the persisted, token-free part of the principal.
type Profile struct {
	Username               string      `json:"username"`
	Email                  string      `json:"email"`
	Role                   domain.Role `json:"role"`
	Region                 string      `json:"region"`
	FullName               string      `json:"fullName"`
	PasswordChangeRequired bool        `json:"passwordChangeRequired"`
}

// Snapshot is the content of both slots.
type Snapshot struct {
	Token   string
	Profile Profile
}

// FromPrincipal splits a principal into its two slots.
func FromPrincipal(p *domain.Principal) Snapshot {
	return Snapshot{
		Token: p.Token,
		Profile: Profile{
			Username:               p.Username,
			Email:                  p.Email,
			Role:                   p.Role,
			Region:                 p.Region,
			FullName:               p.FullName,
			PasswordChangeRequired: p.PasswordChangeRequired,
		},
	}
}

// Principal rebuilds the principal held in the snapshot.
func (s Snapshot) Principal() *domain.Principal {
	return &domain.Principal{
		Username:               s.Profile.Username,
		Email:                  s.Profile.Email,
		Role:                   s.Profile.Role,
		Region:                 s.Profile.Region,
		FullName:               s.Profile.FullName,
		PasswordChangeRequired: s.Profile.PasswordChangeRequired,
		Token:                  s.Token,
	}
}
