// Package crypto encrypts OAuth tokens before they reach the database.
package crypto

import (
	"context"
	"errors"
)

var ErrMalformedCiphertext = errors.New("malformed ciphertext")

type Encryptor interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}
