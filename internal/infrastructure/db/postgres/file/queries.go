package file

const (
	fileColumns = `id, user_id, name, mime_type, size_bytes, google_drive_id, storage_key, created_at`

	SelectUserFiles = `
		SELECT ` + fileColumns + `
		FROM imported_files
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	SelectUserFile = `
		SELECT ` + fileColumns + `
		FROM imported_files
		WHERE user_id = $1 AND id = $2
	`
	SelectUserFileByDriveID = `
		SELECT ` + fileColumns + `
		FROM imported_files
		WHERE user_id = $1 AND google_drive_id = $2
	`
	InsertFile = `
		INSERT INTO imported_files (user_id, name, mime_type, size_bytes, google_drive_id, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + fileColumns
	DeleteFileByID = `DELETE FROM imported_files WHERE id = $1`
	DeleteUserFile = `
		DELETE FROM imported_files
		WHERE user_id = $1 AND id = $2
		RETURNING ` + fileColumns
)
