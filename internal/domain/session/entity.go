package session

import (
	"time"

	"github.com/google/uuid"

	"dataroom-api/internal/domain/user"
)

type (
	ID      = uuid.UUID
	Session struct {
		ID        ID
		UserID    user.ID
		CreatedAt time.Time
		ExpiresAt time.Time
	}

	// AuthToken is a one-time handle handed to the frontend after the OAuth
	// callback and traded for a session.
	AuthToken struct {
		Token     string
		UserID    user.ID
		ExpiresAt time.Time
	}
)

func (t *AuthToken) Expired(now time.Time) bool { return !now.Before(t.ExpiresAt) }
