package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dataroom-api/internal/application/ports"
	"dataroom-api/internal/application/services"
	"dataroom-api/internal/domain/session"
)

const (
	SessionCookie = "dataroom_session"
	CtxSession    = "session"
)

// Cookies writes the session cookie. Secure is off only for local development.
type Cookies struct {
	Secure bool
	MaxAge int
}

func (ck Cookies) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, ck.MaxAge, "/", "", ck.Secure, true)
}

func (ck Cookies) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", ck.Secure, true)
}

// sessionToken reads the cookie first, then an "Authorization: Bearer" header.
func sessionToken(c *gin.Context) string {
	if v, err := c.Cookie(SessionCookie); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// SessionMiddleware attaches the caller's session, if any, to the context.
// Requests without a valid session pass through unauthenticated; lookup
// failures other than a rejected token are logged.
func SessionMiddleware(logger *zap.Logger, authService ports.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}
		s, err := authService.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil && s != nil:
			c.Set(CtxSession, s)
		case err != nil && !errors.Is(err, services.ErrUnauthenticated):
			logger.Error("Authenticate() error", zap.Error(err))
		}
		c.Next()
	}
}

func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionFrom(c) == nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "Not authenticated"},
			)
			return
		}
		c.Next()
	}
}

func SessionFrom(c *gin.Context) *session.Session {
	v, ok := c.Get(CtxSession)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}
