package file

import (
	"time"

	"dataroom-api/internal/domain/user"
)

type (
	ID   int64
	File struct {
		ID     ID
		UserID user.ID

		Name          string
		MimeType      string
		SizeBytes     int64
		GoogleDriveID string
		StorageKey    string

		CreatedAt time.Time
	}
	Files []*File
)
