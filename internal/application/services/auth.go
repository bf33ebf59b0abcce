package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"dataroom-api/internal/application/ports"
	"dataroom-api/internal/domain/session"
	"dataroom-api/internal/domain/user"
)

const (
	AuthTokenTTL   = 5 * time.Minute
	authTokenBytes = 32
)

type AuthService struct {
	users      user.Repository
	sessions   session.Repository
	creds      *Credentials
	oauth      ports.OAuthProvider
	drive      ports.DriveClient
	signer     ports.TokenSigner
	sessionTTL time.Duration
	log        *zap.Logger
	mCounter   *prometheus.CounterVec
	now        func() time.Time
}

func NewAuthService(
	users user.Repository,
	sessions session.Repository,
	creds *Credentials,
	oauth ports.OAuthProvider,
	drive ports.DriveClient,
	signer ports.TokenSigner,
	sessionTTL time.Duration,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		creds:      creds,
		oauth:      oauth,
		drive:      drive,
		signer:     signer,
		sessionTTL: sessionTTL,
		log:        logger,
		mCounter:   mCounter,
		now:        time.Now,
	}
}

func (as *AuthService) LoginURL() (string, error) {
	state, err := as.signer.GenerateState()
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return as.oauth.AuthURL(state), nil
}

func (as *AuthService) HandleCallback(ctx context.Context, code, state string) (*ports.LoginResult, error) {
	if err := as.signer.ValidateState(state); err != nil {
		return nil, ErrInvalidState
	}
	if code == "" {
		return nil, ErrMissingCode
	}

	tok, err := as.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	profile, err := as.oauth.UserInfo(ctx, tok)
	if err != nil {
		return nil, err
	}
	if err = as.drive.Probe(ctx, tok.AccessToken); err != nil {
		as.log.Warn("drive probe after login failed", zap.String("email", profile.Email), zap.Error(err))
	}

	u, err := as.users.UpsertGoogleUser(ctx, user.User{
		GoogleID: profile.ID,
		Email:    profile.Email,
		Name:     profile.Name,
		Picture:  profile.Picture,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	if err = as.creds.Save(ctx, u.ID, tok); err != nil {
		return nil, fmt.Errorf("save credential: %w", err)
	}

	if n, err := as.sessions.PurgeExpired(ctx); err != nil {
		as.log.Warn("purge expired sessions", zap.Error(err))
	} else if n > 0 {
		as.log.Info("purged expired sessions", zap.Int64("count", n))
	}

	sessionToken, err := as.newSession(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	authToken, err := randomToken()
	if err != nil {
		return nil, err
	}
	if err = as.sessions.CreateAuthToken(ctx, session.AuthToken{
		Token:     authToken,
		UserID:    u.ID,
		ExpiresAt: as.now().Add(AuthTokenTTL),
	}); err != nil {
		return nil, fmt.Errorf("create auth token: %w", err)
	}

	as.mCounter.WithLabelValues("login_total").Inc()

	return &ports.LoginResult{User: u, SessionToken: sessionToken, AuthToken: authToken}, nil
}

// ExchangeAuthToken trades a one-time callback token for a session. The token
// is consumed even when it turns out to be expired.
func (as *AuthService) ExchangeAuthToken(ctx context.Context, token string) (*ports.LoginResult, error) {
	if token == "" {
		return nil, ErrMissingAuthToken
	}

	t, err := as.sessions.ConsumeAuthToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrInvalidAuthToken
	}
	if t.Expired(as.now()) {
		return nil, ErrAuthTokenExpired
	}

	u, err := as.users.FetchUserByID(ctx, t.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidAuthToken
	}

	sessionToken, err := as.newSession(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{User: u, SessionToken: sessionToken}, nil
}

func (as *AuthService) newSession(ctx context.Context, userID user.ID) (string, error) {
	s, err := as.sessions.CreateSession(ctx, userID, as.now().Add(as.sessionTTL))
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	token, err := as.signer.GenerateSessionToken(s.ID, int64(userID), s.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Authenticate resolves a session cookie to a live session row.
func (as *AuthService) Authenticate(ctx context.Context, sessionToken string) (*session.Session, error) {
	claims, err := as.signer.ValidateSessionToken(sessionToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	id, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	s, err := as.sessions.FetchSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil || int64(s.UserID) != claims.UserID {
		return nil, ErrUnauthenticated
	}
	return s, nil
}

// Status reports the signed-in user, or nil when the session is missing or
// the user has no stored Google grant.
func (as *AuthService) Status(ctx context.Context, s *session.Session) (*user.User, error) {
	if s == nil {
		return nil, nil
	}
	u, err := as.users.FetchUserByID(ctx, s.UserID)
	if err != nil || u == nil {
		return nil, err
	}
	cred, err := as.users.FetchCredential(ctx, s.UserID)
	if err != nil || cred == nil {
		return nil, err
	}
	return u, nil
}

func (as *AuthService) CurrentUser(ctx context.Context, id user.ID) (*user.User, error) {
	u, err := as.users.FetchUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (as *AuthService) Logout(ctx context.Context, id session.ID) error {
	return as.sessions.DeleteSession(ctx, id)
}

func randomToken() (string, error) {
	b := make([]byte, authTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate auth token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
