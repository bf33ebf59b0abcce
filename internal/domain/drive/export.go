package drive

import (
	"errors"
)

var (
	ErrFolder               = errors.New("folders cannot be imported")
	ErrUnsupportedWorkspace = errors.New("unsupported workspace file type")
)

type Export struct {
	MimeType  string
	Extension string
}

var exports = map[string]Export{
	"application/vnd.google-apps.document":     {MimeType: "application/pdf", Extension: ".pdf"},
	"application/vnd.google-apps.spreadsheet":  {MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Extension: ".xlsx"},
	"application/vnd.google-apps.presentation": {MimeType: "application/pdf", Extension: ".pdf"},
}

// ExportFor returns how a Drive item should be materialised. ok is false for
// regular files, which are downloaded as-is.
func ExportFor(item *Item) (exp Export, ok bool, err error) {
	if item.IsFolder() {
		return Export{}, false, ErrFolder
	}
	if !item.IsWorkspace() {
		return Export{}, false, nil
	}
	exp, ok = exports[item.MimeType]
	if !ok {
		return Export{}, false, ErrUnsupportedWorkspace
	}
	return exp, true, nil
}
