package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionAudience = "session"
	stateAudience   = "oauth-state"
	StateTTL        = 10 * time.Minute
)

var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	secret []byte
	now    func() time.Time
}

func New(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

// SessionClaims is the payload of the session cookie. The server-side session
// row named by SessionID stays authoritative.
type SessionClaims struct {
	SessionID string `json:"sid"`
	UserID    int64  `json:"uid"`
	jwt.RegisteredClaims
}

func (s *Service) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) parse(tokenStr, audience string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

func (s *Service) GenerateSessionToken(sessionID uuid.UUID, userID int64, expiresAt time.Time) (string, error) {
	return s.sign(SessionClaims{
		SessionID: sessionID.String(),
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
}

func (s *Service) ValidateSessionToken(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := s.parse(tokenStr, sessionAudience, claims); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateState returns a signed, short-lived OAuth state value.
func (s *Service) GenerateState() (string, error) {
	now := s.now()
	return s.sign(jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Audience:  jwt.ClaimStrings{stateAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(StateTTL)),
	})
}

func (s *Service) ValidateState(state string) error {
	return s.parse(state, stateAudience, &jwt.RegisteredClaims{})
}
