package drive

import (
	"errors"
	"time"
)

const (
	FolderMimeType  = "application/vnd.google-apps.folder"
	WorkspacePrefix = "application/vnd.google-apps."
	RootFolderID    = "root"
	RootFolderName  = "My Drive"
)

var (
	ErrUnauthorized = errors.New("drive: access token rejected")
	ErrNotFound     = errors.New("drive: file not found")
)

type (
	Item struct {
		ID            string
		Name          string
		MimeType      string
		Size          int64
		ModifiedTime  *time.Time
		IconLink      string
		ThumbnailLink string
		Parents       []string
	}
	Items []*Item

	Page struct {
		Items         Items
		NextPageToken string
	}
)

func (i *Item) IsFolder() bool { return i.MimeType == FolderMimeType }

// IsWorkspace reports whether the item is a native Google document that has
// no downloadable bytes of its own.
func (i *Item) IsWorkspace() bool {
	return len(i.MimeType) > len(WorkspacePrefix) && i.MimeType[:len(WorkspacePrefix)] == WorkspacePrefix
}
