package services

import (
	"context"

	"dataroom-api/internal/application/ports"
	"dataroom-api/internal/domain/drive"
	"dataroom-api/internal/domain/user"
)

// maxPathDepth bounds the parent walk for breadcrumbs.
const maxPathDepth = 20

type DriveService struct {
	creds    *Credentials
	drive    ports.DriveClient
	clientID string
	apiKey   string
}

func NewDriveService(creds *Credentials, client ports.DriveClient, clientID, apiKey string) ports.DriveService {
	return &DriveService{
		creds:    creds,
		drive:    client,
		clientID: clientID,
		apiKey:   apiKey,
	}
}

func (ds *DriveService) ListFolder(
	ctx context.Context,
	userID user.ID,
	folderID, pageToken string,
	includePath bool,
) (*ports.FolderListing, error) {
	if folderID == "" {
		folderID = drive.RootFolderID
	}

	out := &ports.FolderListing{}
	err := ds.creds.Do(ctx, userID, func(accessToken string) error {
		page, err := ds.drive.List(ctx, accessToken, folderID, pageToken)
		if err != nil {
			return driveFailure(err)
		}
		out.Page = page
		if includePath {
			out.Breadcrumbs, err = ds.path(ctx, accessToken, folderID)
		}
		return driveFailure(err)
	})
	if err != nil {
		return nil, mapDriveError(err)
	}

	drive.SortFoldersFirst(out.Page.Items)

	return out, nil
}

// path returns the trail from My Drive to folderID. The walk stops at the
// first item without parents, which is the Drive root, or at maxPathDepth.
func (ds *DriveService) path(ctx context.Context, accessToken, folderID string) ([]drive.Frame, error) {
	b := drive.NewBreadcrumbs()
	if folderID == drive.RootFolderID {
		return b.Frames(), nil
	}

	var chain []drive.Frame
	id := folderID
	for i := 0; i < maxPathDepth; i++ {
		item, err := ds.drive.Get(ctx, accessToken, id)
		if err != nil {
			return nil, err
		}
		if len(item.Parents) == 0 {
			break
		}
		chain = append(chain, drive.Frame{ID: item.ID, Name: item.Name})
		id = item.Parents[0]
	}

	for i := len(chain) - 1; i >= 0; i-- {
		b.Push(chain[i])
	}
	return b.Frames(), nil
}

func (ds *DriveService) PickerConfig(ctx context.Context, userID user.ID) (*ports.PickerConfig, error) {
	token, err := ds.creds.AccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ports.PickerConfig{
		DeveloperKey: ds.apiKey,
		ClientID:     ds.clientID,
		AccessToken:  token,
	}, nil
}
