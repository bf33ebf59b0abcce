package ports

import (
	"context"

	"dataroom-api/internal/domain/drive"
	"dataroom-api/internal/domain/file"
	"dataroom-api/internal/domain/session"
	"dataroom-api/internal/domain/user"
	"dataroom-api/internal/infrastructure/storage"
)

type (
	// LoginResult is what a completed OAuth callback hands to the transport:
	// a session cookie value and a one-time token for the frontend.
	LoginResult struct {
		User         *user.User
		SessionToken string
		AuthToken    string
	}
	FolderListing struct {
		Page        *drive.Page
		Breadcrumbs []drive.Frame
	}
	PickerConfig struct {
		DeveloperKey string
		ClientID     string
		AccessToken  string
	}
)

type AuthService interface {
	LoginURL() (string, error)
	HandleCallback(ctx context.Context, code, state string) (*LoginResult, error)
	ExchangeAuthToken(ctx context.Context, token string) (*LoginResult, error)
	Authenticate(ctx context.Context, sessionToken string) (*session.Session, error)
	Status(ctx context.Context, s *session.Session) (*user.User, error)
	CurrentUser(ctx context.Context, id user.ID) (*user.User, error)
	Logout(ctx context.Context, id session.ID) error
}

type AccountService interface {
	DeleteAccount(ctx context.Context, id user.ID) error
}

type DriveService interface {
	ListFolder(ctx context.Context, userID user.ID, folderID, pageToken string, includePath bool) (*FolderListing, error)
	PickerConfig(ctx context.Context, userID user.ID) (*PickerConfig, error)
}

type FileService interface {
	ListFiles(ctx context.Context, userID user.ID) (file.Files, error)
	GetFile(ctx context.Context, userID user.ID, id file.ID) (*file.File, error)
	OpenFile(ctx context.Context, userID user.ID, id file.ID) (*file.File, *storage.Object, error)
	ImportFile(ctx context.Context, userID user.ID, driveFileID string, overwrite bool) (*file.File, error)
	DeleteFile(ctx context.Context, userID user.ID, id file.ID) error
}
