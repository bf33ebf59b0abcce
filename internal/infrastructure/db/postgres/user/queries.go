package user

const (
	SelectUserByID = `
		SELECT id, google_id, email, name, picture, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	// A new google_id with a taken email fails on users_email_key.
	UpsertGoogleUser = `
		INSERT INTO users (google_id, email, name, picture)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (google_id) DO UPDATE
		SET email = EXCLUDED.email,
		    name = EXCLUDED.name,
		    picture = EXCLUDED.picture,
		    updated_at = now()
		RETURNING id, google_id, email, name, picture, created_at, updated_at
	`
	LockUserByID = `
		SELECT id FROM users WHERE id = $1 FOR UPDATE
	`
	DeleteUserFiles = `
		DELETE FROM imported_files
		WHERE user_id = $1
		RETURNING storage_key
	`
	DeleteUserByID = `
		DELETE FROM users
		WHERE id = $1
		RETURNING id, google_id, email, name, picture, created_at, updated_at
	`
	SelectCredential = `
		SELECT user_id, access_token, refresh_token, token_type, expires_at, updated_at
		FROM oauth_credentials
		WHERE user_id = $1
	`
	UpsertCredential = `
		INSERT INTO oauth_credentials (user_id, access_token, refresh_token, token_type, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    refresh_token = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), oauth_credentials.refresh_token),
		    token_type = EXCLUDED.token_type,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = now()
	`
)
