package session

import (
	"time"

	"github.com/google/uuid"
)

type (
	Session struct {
		ID        uuid.UUID
		UserID    int64
		CreatedAt time.Time
		ExpiresAt time.Time
	}
	AuthToken struct {
		Token     string
		UserID    int64
		ExpiresAt time.Time
	}
)
