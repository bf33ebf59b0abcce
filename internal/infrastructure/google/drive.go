package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	domain "dataroom-api/internal/domain/drive"
)

const (
	PageSize   = 50
	listFields = "nextPageToken, files(id, name, mimeType, size, modifiedTime, iconLink, thumbnailLink)"
	getFields  = "id, name, mimeType, size, modifiedTime, iconLink, thumbnailLink, parents"
)

// Drive is a per-call Drive v3 client; every method takes the caller's
// plaintext access token.
type Drive struct {
	opts []option.ClientOption
}

func NewDrive(opts ...option.ClientOption) *Drive {
	return &Drive{opts: opts}
}

func (d *Drive) service(ctx context.Context, accessToken string) (*drive.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, d.opts...)
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive client: %w", err)
	}
	return srv, nil
}

func mapError(err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch gErr.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", domain.ErrUnauthorized, gErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", domain.ErrNotFound, gErr.Message)
		}
	}
	return err
}

func quote(id string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(id)
}

func toItem(f *drive.File) *domain.Item {
	it := &domain.Item{
		ID:            f.Id,
		Name:          f.Name,
		MimeType:      f.MimeType,
		Size:          f.Size,
		IconLink:      f.IconLink,
		ThumbnailLink: f.ThumbnailLink,
		Parents:       f.Parents,
	}
	if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
		it.ModifiedTime = &t
	}
	return it
}

func (d *Drive) List(ctx context.Context, accessToken, folderID, pageToken string) (*domain.Page, error) {
	srv, err := d.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	call := srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed = false", quote(folderID))).
		PageSize(PageSize).
		OrderBy("folder,name").
		Fields(googleapi.Field(listFields)).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	r, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list files: %w", mapError(err))
	}

	page := &domain.Page{Items: make(domain.Items, 0, len(r.Files)), NextPageToken: r.NextPageToken}
	for _, f := range r.Files {
		page.Items = append(page.Items, toItem(f))
	}
	return page, nil
}

// Probe lists a single entry to confirm the token carries Drive access.
func (d *Drive) Probe(ctx context.Context, accessToken string) error {
	srv, err := d.service(ctx, accessToken)
	if err != nil {
		return err
	}
	if _, err = srv.Files.List().PageSize(1).Fields("files(id)").Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to probe drive: %w", mapError(err))
	}
	return nil
}

func (d *Drive) Get(ctx context.Context, accessToken, fileID string) (*domain.Item, error) {
	srv, err := d.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	f, err := srv.Files.Get(fileID).
		SupportsAllDrives(true).
		Fields(googleapi.Field(getFields)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to get file metadata: %w", mapError(err))
	}
	return toItem(f), nil
}

// Download streams the raw bytes of a regular file. The caller closes the body.
func (d *Drive) Download(ctx context.Context, accessToken, fileID string) (io.ReadCloser, error) {
	srv, err := d.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	resp, err := srv.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("unable to download file: %w", mapError(err))
	}
	return resp.Body, nil
}

// Export streams a Workspace document converted to mimeType.
func (d *Drive) Export(ctx context.Context, accessToken, fileID, mimeType string) (io.ReadCloser, error) {
	srv, err := d.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	resp, err := srv.Files.Export(fileID, mimeType).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("unable to export file: %w", mapError(err))
	}
	return resp.Body, nil
}
