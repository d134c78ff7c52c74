package domain

import (
	"time"

	"github.com/google/uuid"
)

// APIToken is a server-side record of an issued JWT so that tokens can
// be revoked and audited. Only the SHA-256 hash of the token is stored.
type APIToken struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	KeyHash   string     `json:"-"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Revoked   bool       `json:"revoked"`
	CreatedAt time.Time  `json:"created_at"`
}

// Valid reports whether the token is neither revoked nor expired.
func (t *APIToken) Valid() bool {
	if t.Revoked {
		return false
	}
	if t.ExpiresAt != nil && time.Now().After(*t.ExpiresAt) {
		return false
	}
	return true
}
