package auth

import (
	"dataroom-api/internal/interface/api/rest/dto/user"
)

type (
	LoginResponse struct {
		AuthURL string `json:"auth_url"`
	}
	ExchangeRequest struct {
		Token string `json:"token"`
	}
	StatusResponse struct {
		Authenticated bool       `json:"authenticated"`
		User          *user.User `json:"user,omitempty"`
	}
	MessageResponse struct {
		Message string `json:"message"`
	}
)
