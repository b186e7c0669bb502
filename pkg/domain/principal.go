package domain

// Principal is the authenticated identity held for the session.
// The token travels in its own slot and is never serialized with the profile.
type Principal struct {
	Username               string `json:"username"`
	Email                  string `json:"email,omitempty"`
	Role                   Role   `json:"role"`
	Region                 string `json:"region,omitempty"`
	FullName               string `json:"fullName,omitempty"`
	PasswordChangeRequired bool   `json:"passwordChangeRequired"`
	Token                  string `json:"-"`
}

// Clone returns a copy callers may keep without sharing state with the session.
func (p *Principal) Clone() *Principal {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
