package file

import "time"

type (
	File struct {
		ID            int64     `json:"id"`
		Name          string    `json:"name"`
		MimeType      string    `json:"mime_type"`
		Size          int64     `json:"size"`
		GoogleDriveID string    `json:"google_drive_id"`
		CreatedAt     time.Time `json:"created_at"`
	}
	Files []File

	ImportRequest struct {
		FileID    string `json:"fileId"`
		Overwrite bool   `json:"overwrite"`
	}
	ConflictResponse struct {
		Error string `json:"error"`
		File  File   `json:"file"`
	}
)
