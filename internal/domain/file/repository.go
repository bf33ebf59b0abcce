package file

import (
	"context"
	"errors"

	"dataroom-api/internal/domain/user"
)

// ErrAlreadyImported is returned by writes that hit the (user, drive file)
// uniqueness constraint.
var ErrAlreadyImported = errors.New("file already imported")

type Repository interface {
	FetchUserFiles(ctx context.Context, userID user.ID) (Files, error)
	FetchUserFile(ctx context.Context, userID user.ID, id ID) (*File, error)
	FetchByDriveID(ctx context.Context, userID user.ID, driveID string) (*File, error)
	CreateFile(ctx context.Context, req File) (*File, error)
	// ReplaceFile deletes the file with oldID and inserts req in one transaction.
	ReplaceFile(ctx context.Context, oldID ID, req File) (*File, error)
	DeleteUserFile(ctx context.Context, userID user.ID, id ID) (*File, error)
}
