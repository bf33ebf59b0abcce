package file

import (
	"time"
)

type (
	File struct {
		ID     int64
		UserID int64

		Name          string
		MimeType      string
		SizeBytes     int64
		GoogleDriveID string
		StorageKey    string

		CreatedAt time.Time
	}
	Files []*File
)
