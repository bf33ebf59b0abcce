package rest

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dataroom-api/internal/application/ports"
	"dataroom-api/internal/application/services"
	"dataroom-api/internal/interface/api/rest/dto/auth"
	userDTO "dataroom-api/internal/interface/api/rest/dto/user"
	"dataroom-api/internal/interface/api/rest/middleware"
)

type AuthController struct {
	responder
	accountService ports.AccountService
	frontendURL    string
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	authService ports.AuthService,
	accountService ports.AccountService,
	cookies middleware.Cookies,
	frontendURL string,
) *AuthController {
	ac := &AuthController{
		responder: responder{
			logger:      logger,
			authService: authService,
			cookies:     cookies,
		},
		accountService: accountService,
		frontendURL:    frontendURL,
	}

	r.GET(RouteAuthLogin, ac.LoginHandler)
	r.GET(RouteAuthCallback, ac.CallbackHandler)
	r.POST(RouteAuthExchange, ac.ExchangeHandler)
	r.GET(RouteAuthStatus, ac.StatusHandler)
	r.GET(RouteAuthMe, middleware.RequireSession(), ac.MeHandler)
	r.POST(RouteAuthLogout, ac.LogoutHandler)
	r.DELETE(RouteAuthAccount, middleware.RequireSession(), ac.DeleteAccountHandler)

	return ac
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	authURL, err := ac.authService.LoginURL()
	if err != nil {
		ac.fail(c, "LoginURL()", err)
		return
	}

	c.JSON(http.StatusOK, auth.LoginResponse{AuthURL: authURL})
}

// CallbackHandler finishes the Google redirect and sends the browser back to
// the SPA with either a one-time token or an error message.
func (ac *AuthController) CallbackHandler(c *gin.Context) {
	if gErr := c.Query("error"); gErr != "" {
		ac.redirect(c, url.Values{"auth": {"error"}, "message": {gErr}})
		return
	}

	res, err := ac.authService.HandleCallback(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		msg := "Authentication failed"
		switch {
		case errors.Is(err, services.ErrInvalidState):
			msg = "Invalid or expired OAuth state"
		case errors.Is(err, services.ErrMissingCode):
			msg = "Missing authorization code"
		default:
			ac.logger.Error("HandleCallback() error", zap.Error(err))
		}
		ac.redirect(c, url.Values{"auth": {"error"}, "message": {msg}})
		return
	}

	ac.cookies.Set(c, res.SessionToken)
	ac.redirect(c, url.Values{"auth": {"success"}, "token": {res.AuthToken}})
}

func (ac *AuthController) redirect(c *gin.Context, q url.Values) {
	c.Redirect(http.StatusFound, ac.frontendURL+"?"+q.Encode())
}

func (ac *AuthController) ExchangeHandler(c *gin.Context) {
	var req auth.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	res, err := ac.authService.ExchangeAuthToken(c.Request.Context(), req.Token)
	if err != nil {
		ac.fail(c, "ExchangeAuthToken()", err)
		return
	}

	ac.cookies.Set(c, res.SessionToken)
	u := userDTO.ToResponseUser(*res.User)
	c.JSON(http.StatusOK, auth.StatusResponse{Authenticated: true, User: &u})
}

func (ac *AuthController) StatusHandler(c *gin.Context) {
	u, err := ac.authService.Status(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		ac.logger.Error("Status() error", zap.Error(err))
	}
	if u == nil {
		c.JSON(http.StatusOK, auth.StatusResponse{Authenticated: false})
		return
	}

	resp := userDTO.ToResponseUser(*u)
	c.JSON(http.StatusOK, auth.StatusResponse{Authenticated: true, User: &resp})
}

func (ac *AuthController) MeHandler(c *gin.Context) {
	s := middleware.SessionFrom(c)
	u, err := ac.authService.CurrentUser(c.Request.Context(), s.UserID)
	if err != nil {
		ac.fail(c, "CurrentUser()", err)
		return
	}

	c.JSON(http.StatusOK, userDTO.ToResponseUser(*u))
}

func (ac *AuthController) LogoutHandler(c *gin.Context) {
	ac.endSession(c)
	c.JSON(http.StatusOK, auth.MessageResponse{Message: "Logged out successfully"})
}

func (ac *AuthController) DeleteAccountHandler(c *gin.Context) {
	s := middleware.SessionFrom(c)
	if err := ac.accountService.DeleteAccount(c.Request.Context(), s.UserID); err != nil {
		ac.fail(c, "DeleteAccount()", err)
		return
	}

	ac.cookies.Clear(c)
	c.JSON(http.StatusOK, auth.MessageResponse{Message: "Account deleted successfully"})
}
