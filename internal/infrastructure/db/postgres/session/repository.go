package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"dataroom-api/internal/domain/session"
	"dataroom-api/internal/domain/user"
	"dataroom-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) session.Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateSession(ctx context.Context, userID user.ID, expiresAt time.Time) (*session.Session, error) {
	s := new(Session)
	err := r.db.QueryRow(ctx, InsertSession, int64(userID), expiresAt).Scan(
		&s.ID,
		&s.UserID,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	return fromDBModel(s), nil
}

func (r *Repository) FetchSession(ctx context.Context, id session.ID) (*session.Session, error) {
	s := new(Session)
	err := r.db.QueryRow(ctx, SelectActiveSession, id).Scan(
		&s.ID,
		&s.UserID,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(s), nil
}

func (r *Repository) DeleteSession(ctx context.Context, id session.ID) error {
	_, err := r.db.Exec(ctx, DeleteSessionByID, id)
	return err
}

func (r *Repository) DeleteUserSessions(ctx context.Context, userID user.ID) error {
	_, err := r.db.Exec(ctx, DeleteSessionsForUser, int64(userID))
	return err
}

// PurgeExpired drops stale sessions and auth tokens and reports how many
// sessions went.
func (r *Repository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, DeleteExpiredSessions)
	if err != nil {
		return 0, err
	}
	if _, err = r.db.Exec(ctx, DeleteExpiredAuthTokens); err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (r *Repository) CreateAuthToken(ctx context.Context, t session.AuthToken) error {
	_, err := r.db.Exec(ctx, InsertAuthToken, t.Token, int64(t.UserID), t.ExpiresAt)
	return err
}

func (r *Repository) ConsumeAuthToken(ctx context.Context, token string) (*session.AuthToken, error) {
	t := new(AuthToken)
	err := r.db.QueryRow(ctx, ConsumeAuthToken, token).Scan(
		&t.Token,
		&t.UserID,
		&t.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return tokenFromDBModel(t), nil
}
