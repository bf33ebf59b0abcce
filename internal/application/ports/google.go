package ports

import (
	"context"
	"io"

	"golang.org/x/oauth2"

	"dataroom-api/internal/domain/drive"
	"dataroom-api/internal/infrastructure/google"
)

type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
	UserInfo(ctx context.Context, tok *oauth2.Token) (*google.Profile, error)
}

type DriveClient interface {
	List(ctx context.Context, accessToken, folderID, pageToken string) (*drive.Page, error)
	Probe(ctx context.Context, accessToken string) error
	Get(ctx context.Context, accessToken, fileID string) (*drive.Item, error)
	Download(ctx context.Context, accessToken, fileID string) (io.ReadCloser, error)
	Export(ctx context.Context, accessToken, fileID, mimeType string) (io.ReadCloser, error)
}
