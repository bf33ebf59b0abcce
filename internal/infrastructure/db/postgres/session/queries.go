package session

const (
	InsertSession = `
		INSERT INTO sessions (user_id, expires_at)
		VALUES ($1, $2)
		RETURNING id, user_id, created_at, expires_at
	`
	SelectActiveSession = `
		SELECT id, user_id, created_at, expires_at
		FROM sessions
		WHERE id = $1 AND expires_at > now()
	`
	DeleteSessionByID     = `DELETE FROM sessions WHERE id = $1`
	DeleteSessionsForUser = `DELETE FROM sessions WHERE user_id = $1`
	DeleteExpiredSessions = `DELETE FROM sessions WHERE expires_at <= now()`

	InsertAuthToken = `
		INSERT INTO auth_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`
	ConsumeAuthToken = `
		DELETE FROM auth_tokens
		WHERE token = $1
		RETURNING token, user_id, expires_at
	`
	DeleteExpiredAuthTokens = `DELETE FROM auth_tokens WHERE expires_at <= now()`
)
