package services

import (
	"errors"
	"fmt"

	"dataroom-api/internal/domain/drive"
	"dataroom-api/internal/domain/file"
)

var (
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrReauthRequired    = errors.New("google authorization expired")
	ErrInvalidState      = errors.New("invalid or expired oauth state")
	ErrMissingCode       = errors.New("missing authorization code")
	ErrMissingAuthToken  = errors.New("auth token is required")
	ErrInvalidAuthToken  = errors.New("invalid auth token")
	ErrAuthTokenExpired  = errors.New("auth token expired")
	ErrUserNotFound      = errors.New("user not found")
	ErrFileIDRequired    = errors.New("drive file id is required")
	ErrFileNotFound      = errors.New("file not found")
	ErrBlobMissing       = errors.New("file not found on disk")
	ErrFolderImport      = errors.New("folders cannot be imported")
	ErrUnsupportedType   = errors.New("unsupported google workspace file type")
	ErrFileTooLarge      = errors.New("file exceeds the maximum import size")
	ErrDriveFileNotFound = errors.New("file not found in google drive")
	ErrDriveUnavailable  = errors.New("google drive request failed")
)

// AlreadyImportedError carries the existing import so the caller can offer
// an overwrite.
type AlreadyImportedError struct {
	File *file.File
}

func (e *AlreadyImportedError) Error() string { return file.ErrAlreadyImported.Error() }

func (e *AlreadyImportedError) Is(target error) bool { return target == file.ErrAlreadyImported }

// driveFailure tags an error returned by the Drive client so that it can be
// told apart from local failures. The original error stays reachable.
func driveFailure(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrDriveUnavailable, err)
}

func mapDriveError(err error) error {
	switch {
	case errors.Is(err, ErrReauthRequired):
		return ErrReauthRequired
	case errors.Is(err, drive.ErrNotFound):
		return ErrDriveFileNotFound
	case errors.Is(err, drive.ErrFolder):
		return ErrFolderImport
	case errors.Is(err, drive.ErrUnsupportedWorkspace):
		return ErrUnsupportedType
	}
	return err
}
