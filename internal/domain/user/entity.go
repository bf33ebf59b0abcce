package user

import (
	"time"
)

type (
	ID   int64
	User struct {
		ID       ID
		GoogleID string
		Email    string
		Name     string
		Picture  string

		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Credential is the stored OAuth grant of a user. Token fields hold
	// ciphertext; plaintext never reaches the repository.
	Credential struct {
		UserID       ID
		AccessToken  string
		RefreshToken string
		TokenType    string
		ExpiresAt    *time.Time
		UpdatedAt    time.Time
	}
)

// Expired treats an unknown expiry as expired.
func (c *Credential) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Before(*c.ExpiresAt)
}
