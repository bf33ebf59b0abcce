package user

import (
	"dataroom-api/internal/domain/user"
)

func ToResponseUser(uDomain user.User) User {
	return User{
		ID:        int64(uDomain.ID),
		Email:     uDomain.Email,
		Name:      uDomain.Name,
		Picture:   uDomain.Picture,
		CreatedAt: uDomain.CreatedAt,
	}
}
