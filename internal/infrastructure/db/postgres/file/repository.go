package file

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dataroom-api/internal/domain/file"
	"dataroom-api/internal/domain/user"
	"dataroom-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) file.Repository {
	return &Repository{db: db}
}

func scanFile(row pgx.Row) (*File, error) {
	f := new(File)
	err := row.Scan(
		&f.ID,
		&f.UserID,

		&f.Name,
		&f.MimeType,
		&f.SizeBytes,
		&f.GoogleDriveID,
		&f.StorageKey,

		&f.CreatedAt,
	)
	return f, err
}

func (r *Repository) FetchUserFiles(ctx context.Context, userID user.ID) (file.Files, error) {
	rows, err := r.db.Query(ctx, SelectUserFiles, int64(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fs := Files{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(fs), nil
}

func (r *Repository) fetchOne(ctx context.Context, query string, args ...any) (*file.File, error) {
	f, err := scanFile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) FetchUserFile(ctx context.Context, userID user.ID, id file.ID) (*file.File, error) {
	return r.fetchOne(ctx, SelectUserFile, int64(userID), int64(id))
}

func (r *Repository) FetchByDriveID(ctx context.Context, userID user.ID, driveID string) (*file.File, error) {
	return r.fetchOne(ctx, SelectUserFileByDriveID, int64(userID), driveID)
}

func (r *Repository) CreateFile(ctx context.Context, req file.File) (*file.File, error) {
	f, err := scanFile(r.db.QueryRow(
		ctx,
		InsertFile,
		int64(req.UserID), req.Name, req.MimeType, req.SizeBytes, req.GoogleDriveID, req.StorageKey,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, file.ErrAlreadyImported
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) ReplaceFile(ctx context.Context, oldID file.ID, req file.File) (_ *file.File, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, DeleteFileByID, int64(oldID)); err != nil {
		return nil, err
	}

	f, err := scanFile(tx.QueryRow(
		ctx,
		InsertFile,
		int64(req.UserID), req.Name, req.MimeType, req.SizeBytes, req.GoogleDriveID, req.StorageKey,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			err = file.ErrAlreadyImported
		}
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return fromDBModel(f), nil
}

func (r *Repository) DeleteUserFile(ctx context.Context, userID user.ID, id file.ID) (*file.File, error) {
	return r.fetchOne(ctx, DeleteUserFile, int64(userID), int64(id))
}
