package session

import (
	domain "dataroom-api/internal/domain/session"
	"dataroom-api/internal/domain/user"
)

func fromDBModel(model *Session) *domain.Session {
	return &domain.Session{
		ID:        model.ID,
		UserID:    user.ID(model.UserID),
		CreatedAt: model.CreatedAt,
		ExpiresAt: model.ExpiresAt,
	}
}

func tokenFromDBModel(model *AuthToken) *domain.AuthToken {
	return &domain.AuthToken{
		Token:     model.Token,
		UserID:    user.ID(model.UserID),
		ExpiresAt: model.ExpiresAt,
	}
}
