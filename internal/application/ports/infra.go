package ports

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"dataroom-api/internal/infrastructure/jwt"
	"dataroom-api/internal/infrastructure/mq"
	"dataroom-api/internal/infrastructure/storage"
)

type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, limit int64) (int64, error)
	Open(ctx context.Context, key string) (*storage.Object, error)
	Delete(ctx context.Context, key string) error
}

type EventPublisher interface {
	Publish(e mq.Event)
}

type TokenSigner interface {
	GenerateSessionToken(sessionID uuid.UUID, userID int64, expiresAt time.Time) (string, error)
	ValidateSessionToken(token string) (*jwt.SessionClaims, error)
	GenerateState() (string, error)
	ValidateState(state string) error
}
