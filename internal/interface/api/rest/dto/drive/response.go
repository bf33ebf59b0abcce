package drive

import (
	"dataroom-api/internal/domain/drive"
)

type (
	// Item mirrors the Drive v3 file resource the SPA already understands;
	// size is a decimal string and absent for folders and Workspace files.
	Item struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		MimeType      string `json:"mimeType"`
		Size          string `json:"size,omitempty"`
		ModifiedTime  string `json:"modifiedTime,omitempty"`
		IconLink      string `json:"iconLink,omitempty"`
		ThumbnailLink string `json:"thumbnailLink,omitempty"`
	}
	Listing struct {
		Files         []Item        `json:"files"`
		NextPageToken *string       `json:"nextPageToken"`
		Breadcrumbs   []drive.Frame `json:"breadcrumbs,omitempty"`
	}
	PickerConfig struct {
		DeveloperKey string `json:"developerKey"`
		ClientID     string `json:"clientId"`
		AccessToken  string `json:"accessToken"`
	}
)
