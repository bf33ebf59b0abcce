package user

import (
	"time"
)

type (
	User struct {
		ID       int64
		GoogleID string
		Email    string
		Name     string
		Picture  string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Credential struct {
		UserID       int64
		AccessToken  string
		RefreshToken string
		TokenType    string
		ExpiresAt    *time.Time
		UpdatedAt    time.Time
	}
)
