package file

import (
	domain "dataroom-api/internal/domain/file"
	"dataroom-api/internal/domain/user"
)

func fromDBModel(model *File) *domain.File {
	return &domain.File{
		ID:     domain.ID(model.ID),
		UserID: user.ID(model.UserID),

		Name:          model.Name,
		MimeType:      model.MimeType,
		SizeBytes:     model.SizeBytes,
		GoogleDriveID: model.GoogleDriveID,
		StorageKey:    model.StorageKey,

		CreatedAt: model.CreatedAt,
	}
}

func fromDBModels(models Files) domain.Files {
	fs := make(domain.Files, len(models))
	for idx, f := range models {
		fs[idx] = fromDBModel(f)
	}

	return fs
}
