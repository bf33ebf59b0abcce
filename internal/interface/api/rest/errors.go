package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dataroom-api/internal/application/ports"
	"dataroom-api/internal/application/services"
	fileDTO "dataroom-api/internal/interface/api/rest/dto/file"
	"dataroom-api/internal/interface/api/rest/middleware"
)

const reauthMessage = "Google authorization expired, please sign in again"

var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrUnauthenticated, http.StatusUnauthorized, "Not authenticated"},
	{services.ErrInvalidState, http.StatusBadRequest, "Invalid or expired OAuth state"},
	{services.ErrMissingCode, http.StatusBadRequest, "Missing authorization code"},
	{services.ErrMissingAuthToken, http.StatusBadRequest, "Token is required"},
	{services.ErrInvalidAuthToken, http.StatusUnauthorized, "Invalid token"},
	{services.ErrAuthTokenExpired, http.StatusUnauthorized, "Token expired"},
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrFileIDRequired, http.StatusBadRequest, "fileId is required"},
	{services.ErrFileNotFound, http.StatusNotFound, "File not found"},
	{services.ErrBlobMissing, http.StatusNotFound, "File not found on disk"},
	{services.ErrFolderImport, http.StatusBadRequest, "Folders cannot be imported"},
	{services.ErrUnsupportedType, http.StatusBadRequest, "This Google Workspace file type is not supported"},
	{services.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "File exceeds the maximum import size"},
	{services.ErrDriveFileNotFound, http.StatusNotFound, "File not found in Google Drive"},
	{services.ErrDriveUnavailable, http.StatusBadGateway, "Google Drive request failed"},
}

// responder turns service errors into the JSON error contract. A lost Google
// grant also ends the caller's session.
type responder struct {
	logger      *zap.Logger
	authService ports.AuthService
	cookies     middleware.Cookies
}

func (rs *responder) fail(c *gin.Context, op string, err error) {
	var dup *services.AlreadyImportedError
	if errors.As(err, &dup) {
		c.JSON(http.StatusConflict, fileDTO.ConflictResponse{
			Error: "File already imported",
			File:  fileDTO.ToResponseFile(*dup.File),
		})
		return
	}

	if errors.Is(err, services.ErrReauthRequired) {
		rs.endSession(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": reauthMessage, "reauth": true})
		return
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			if e.status >= http.StatusInternalServerError {
				rs.logger.Error(op+" error", zap.Error(err))
			}
			c.JSON(e.status, gin.H{"error": e.message})
			return
		}
	}

	rs.logger.Error(op+" error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func (rs *responder) endSession(c *gin.Context) {
	if s := middleware.SessionFrom(c); s != nil {
		if err := rs.authService.Logout(c.Request.Context(), s.ID); err != nil {
			rs.logger.Error("Logout() error", zap.Error(err))
		}
	}
	rs.cookies.Clear(c)
}
