package models

import "time"

// TokenInfo is what can be read from a session token without its signing key
type TokenInfo struct {
	Subject   string
	Issuer    string
	Roles     []string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// Expired reports whether the token carries an expiry that is before now
func (i *TokenInfo) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}
