package mq

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoutingFileImported   = "file.imported"
	RoutingFileDeleted    = "file.deleted"
	RoutingAccountDeleted = "account.deleted"
)

var RoutingKeys = []string{RoutingFileImported, RoutingFileDeleted, RoutingAccountDeleted}

type (
	Event struct {
		Id     uuid.UUID    `json:"event_id"`
		TS     time.Time    `json:"time_stamp"`
		Action string       `json:"event_action"`
		UserID int64        `json:"user_id"`
		File   *FilePayload `json:"file,omitempty"`
	}
	FilePayload struct {
		ID            int64  `json:"id"`
		Name          string `json:"name"`
		MimeType      string `json:"mime_type"`
		SizeBytes     int64  `json:"size_bytes"`
		GoogleDriveID string `json:"google_drive_id"`
		Overwrite     bool   `json:"overwrite,omitempty"`
	}
)

func NewEvent(action string, userID int64, file *FilePayload) Event {
	return Event{
		Id:     uuid.New(),
		TS:     time.Now().UTC(),
		Action: action,
		UserID: userID,
		File:   file,
	}
}
