package validator

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"dataroom-api/internal/domain/drive"
	"dataroom-api/internal/domain/file"
)

const maxPageTokenLen = 1024

var (
	driveIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,256}$`)

	ErrInvalidFolderID  = errors.New("invalid folderId")
	ErrInvalidPageToken = errors.New("invalid pageToken")
	ErrInvalidFileID    = errors.New("file id must be a positive integer")
)

// ValidateFolderID accepts a Drive id or "root"; empty means root.
func ValidateFolderID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return drive.RootFolderID, nil
	}
	if !driveIDRe.MatchString(s) {
		return "", ErrInvalidFolderID
	}
	return s, nil
}

func ValidatePageToken(s string) (string, error) {
	if len(s) > maxPageTokenLen || strings.ContainsAny(s, " \t\r\n") {
		return "", ErrInvalidPageToken
	}
	return s, nil
}

// IsDriveID reports whether s looks like a Drive file id.
func IsDriveID(s string) bool { return driveIDRe.MatchString(s) }

func ParseFileID(s string) (file.ID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidFileID
	}
	return file.ID(id), nil
}

// ParseBool treats "true", "1" and "yes" as true, anything else as false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
