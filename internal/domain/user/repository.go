package user

import (
	"context"
)

type Repository interface {
	FetchUserByID(ctx context.Context, id ID) (*User, error)
	UpsertGoogleUser(ctx context.Context, req User) (*User, error)
	// DeleteUser removes the user with everything it owns and returns the
	// storage keys of the imported files that went with it.
	DeleteUser(ctx context.Context, id ID) (*User, []string, error)

	FetchCredential(ctx context.Context, id ID) (*Credential, error)
	SaveCredential(ctx context.Context, req Credential) error
}
