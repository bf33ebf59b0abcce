package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"dataroom-api/internal/application/ports"
	"dataroom-api/internal/domain/drive"
	"dataroom-api/internal/domain/user"
	"dataroom-api/internal/infrastructure/crypto"
)

// Credentials owns the stored Google grant of each user: it encrypts tokens
// on the way in and hands out a usable access token on the way out.
type Credentials struct {
	users    user.Repository
	enc      crypto.Encryptor
	oauth    ports.OAuthProvider
	log      *zap.Logger
	mCounter *prometheus.CounterVec
	now      func() time.Time
}

func NewCredentials(
	users user.Repository,
	enc crypto.Encryptor,
	oauth ports.OAuthProvider,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) *Credentials {
	return &Credentials{
		users:    users,
		enc:      enc,
		oauth:    oauth,
		log:      logger,
		mCounter: mCounter,
		now:      time.Now,
	}
}

// Save stores tok for the user. An empty refresh token leaves the stored one
// in place.
func (c *Credentials) Save(ctx context.Context, userID user.ID, tok *oauth2.Token) error {
	access, err := c.enc.Encrypt(ctx, tok.AccessToken)
	if err != nil {
		return fmt.Errorf("encrypt access token: %w", err)
	}
	var refresh string
	if tok.RefreshToken != "" {
		if refresh, err = c.enc.Encrypt(ctx, tok.RefreshToken); err != nil {
			return fmt.Errorf("encrypt refresh token: %w", err)
		}
	}

	cred := user.Credential{
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tok.Type(),
	}
	if !tok.Expiry.IsZero() {
		exp := tok.Expiry.UTC()
		cred.ExpiresAt = &exp
	}

	return c.users.SaveCredential(ctx, cred)
}

func (c *Credentials) load(ctx context.Context, userID user.ID) (*user.Credential, error) {
	cred, err := c.users.FetchCredential(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrReauthRequired
	}
	return cred, nil
}

func (c *Credentials) refresh(ctx context.Context, cred *user.Credential) (string, error) {
	if cred.RefreshToken == "" {
		return "", ErrReauthRequired
	}
	rt, err := c.enc.Decrypt(ctx, cred.RefreshToken)
	if err != nil {
		c.log.Error("decrypt refresh token", zap.Int64("user_id", int64(cred.UserID)), zap.Error(err))
		return "", ErrReauthRequired
	}

	tok, err := c.oauth.Refresh(ctx, rt)
	if err != nil {
		c.mCounter.WithLabelValues("token_refresh_failed_total").Inc()
		c.log.Warn("token refresh failed", zap.Int64("user_id", int64(cred.UserID)), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrReauthRequired, err)
	}
	if err = c.Save(ctx, cred.UserID, tok); err != nil {
		return "", err
	}
	c.mCounter.WithLabelValues("token_refresh_total").Inc()

	return tok.AccessToken, nil
}

// AccessToken returns a plaintext access token, refreshing it first when the
// stored one has expired or has no known expiry.
func (c *Credentials) AccessToken(ctx context.Context, userID user.ID) (string, error) {
	token, _, err := c.accessToken(ctx, userID)
	return token, err
}

func (c *Credentials) accessToken(ctx context.Context, userID user.ID) (string, bool, error) {
	cred, err := c.load(ctx, userID)
	if err != nil {
		return "", false, err
	}
	if cred.Expired(c.now()) {
		token, err := c.refresh(ctx, cred)
		return token, true, err
	}
	token, err := c.enc.Decrypt(ctx, cred.AccessToken)
	if err != nil {
		c.log.Error("decrypt access token", zap.Int64("user_id", int64(userID)), zap.Error(err))
		return "", false, ErrReauthRequired
	}
	return token, false, nil
}

// Do runs fn with a valid access token. A Drive 401 triggers one refresh and
// one retry, unless the token was already refreshed for this call.
func (c *Credentials) Do(ctx context.Context, userID user.ID, fn func(accessToken string) error) error {
	token, refreshed, err := c.accessToken(ctx, userID)
	if err != nil {
		return err
	}

	err = fn(token)
	if !errors.Is(err, drive.ErrUnauthorized) {
		return err
	}
	if refreshed {
		return fmt.Errorf("%w: %v", ErrReauthRequired, err)
	}

	cred, err := c.load(ctx, userID)
	if err != nil {
		return err
	}
	if token, err = c.refresh(ctx, cred); err != nil {
		return err
	}

	if err = fn(token); errors.Is(err, drive.ErrUnauthorized) {
		return fmt.Errorf("%w: %v", ErrReauthRequired, err)
	}
	return err
}
