package drive

import (
	"strconv"
	"time"

	"dataroom-api/internal/application/ports"
	"dataroom-api/internal/domain/drive"
)

func ToResponseItem(it drive.Item) Item {
	out := Item{
		ID:            it.ID,
		Name:          it.Name,
		MimeType:      it.MimeType,
		IconLink:      it.IconLink,
		ThumbnailLink: it.ThumbnailLink,
	}
	if !it.IsFolder() && !it.IsWorkspace() {
		out.Size = strconv.FormatInt(it.Size, 10)
	}
	if it.ModifiedTime != nil {
		out.ModifiedTime = it.ModifiedTime.UTC().Format(time.RFC3339)
	}
	return out
}

func ToResponseListing(l *ports.FolderListing) Listing {
	out := Listing{
		Files:       make([]Item, 0, len(l.Page.Items)),
		Breadcrumbs: l.Breadcrumbs,
	}
	for _, it := range l.Page.Items {
		out.Files = append(out.Files, ToResponseItem(*it))
	}
	if l.Page.NextPageToken != "" {
		token := l.Page.NextPageToken
		out.NextPageToken = &token
	}
	return out
}

func ToResponsePickerConfig(p *ports.PickerConfig) PickerConfig {
	return PickerConfig{
		DeveloperKey: p.DeveloperKey,
		ClientID:     p.ClientID,
		AccessToken:  p.AccessToken,
	}
}
