package user

import (
	domain "dataroom-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	return &domain.User{
		ID:       domain.ID(model.ID),
		GoogleID: model.GoogleID,
		Email:    model.Email,
		Name:     model.Name,
		Picture:  model.Picture,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func credentialFromDBModel(model *Credential) *domain.Credential {
	return &domain.Credential{
		UserID:       domain.ID(model.UserID),
		AccessToken:  model.AccessToken,
		RefreshToken: model.RefreshToken,
		TokenType:    model.TokenType,
		ExpiresAt:    model.ExpiresAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
