package file

import (
	"dataroom-api/internal/domain/file"
)

func ToResponseFile(fDomain file.File) File {
	return File{
		ID:            int64(fDomain.ID),
		Name:          fDomain.Name,
		MimeType:      fDomain.MimeType,
		Size:          fDomain.SizeBytes,
		GoogleDriveID: fDomain.GoogleDriveID,
		CreatedAt:     fDomain.CreatedAt,
	}
}

func ToResponseFiles(fsDomain file.Files) Files {
	fs := make(Files, len(fsDomain))
	for idx, f := range fsDomain {
		fs[idx] = ToResponseFile(*f)
	}

	return fs
}
