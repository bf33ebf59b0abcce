package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dataroom-api/internal/domain/user"
	"dataroom-api/internal/infrastructure/db/postgres"
)

var ErrEmailAlreadyExists = errors.New("email already belongs to another account")

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

func scanUser(row pgx.Row) (*User, error) {
	u := new(User)
	err := row.Scan(
		&u.ID,
		&u.GoogleID,
		&u.Email,
		&u.Name,
		&u.Picture,

		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *Repository) FetchUserByID(ctx context.Context, id user.ID) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, SelectUserByID, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) UpsertGoogleUser(ctx context.Context, req user.User) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(
		ctx,
		UpsertGoogleUser,
		req.GoogleID, req.Email, req.Name, req.Picture,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func scanKeys(rows pgx.Rows) ([]string, error) {
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}

// DeleteUser removes the user row in one transaction with its file rows.
// The row lock makes imports racing the delete fail on the foreign key
// instead of leaving rows (and blobs) the cascade would drop unseen.
// Credentials, sessions and auth tokens go through ON DELETE CASCADE.
func (r *Repository) DeleteUser(ctx context.Context, id user.ID) (_ *user.User, _ []string, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var locked int64
	if err = tx.QueryRow(ctx, LockUserByID, int64(id)).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = tx.Rollback(ctx)
			return nil, nil, nil
		}
		return nil, nil, err
	}

	rows, err := tx.Query(ctx, DeleteUserFiles, int64(id))
	if err != nil {
		return nil, nil, err
	}
	keys, err := scanKeys(rows)
	if err != nil {
		return nil, nil, err
	}

	u, err := scanUser(tx.QueryRow(ctx, DeleteUserByID, int64(id)))
	if err != nil {
		return nil, nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit tx: %w", err)
	}

	return fromDBModel(u), keys, nil
}

func (r *Repository) FetchCredential(ctx context.Context, id user.ID) (*user.Credential, error) {
	c := new(Credential)
	err := r.db.QueryRow(ctx, SelectCredential, int64(id)).Scan(
		&c.UserID,
		&c.AccessToken,
		&c.RefreshToken,
		&c.TokenType,
		&c.ExpiresAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return credentialFromDBModel(c), nil
}

// SaveCredential upserts the grant. An empty refresh token keeps the stored one.
func (r *Repository) SaveCredential(ctx context.Context, req user.Credential) error {
	_, err := r.db.Exec(
		ctx,
		UpsertCredential,
		int64(req.UserID), req.AccessToken, req.RefreshToken, req.TokenType, req.ExpiresAt,
	)
	return err
}
