package session

import (
	"context"
	"time"

	"dataroom-api/internal/domain/user"
)

type Repository interface {
	CreateSession(ctx context.Context, userID user.ID, expiresAt time.Time) (*Session, error)
	// FetchSession returns nil for unknown or expired sessions.
	FetchSession(ctx context.Context, id ID) (*Session, error)
	DeleteSession(ctx context.Context, id ID) error
	DeleteUserSessions(ctx context.Context, userID user.ID) error
	PurgeExpired(ctx context.Context) (int64, error)

	CreateAuthToken(ctx context.Context, token AuthToken) error
	// ConsumeAuthToken deletes the token and returns it, expired or not.
	ConsumeAuthToken(ctx context.Context, token string) (*AuthToken, error)
}
