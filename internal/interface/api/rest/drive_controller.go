package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dataroom-api/internal/application/ports"
	driveDTO "dataroom-api/internal/interface/api/rest/dto/drive"
	"dataroom-api/internal/interface/api/rest/middleware"
	"dataroom-api/internal/interface/api/rest/validator"
)

type DriveController struct {
	responder
	driveService ports.DriveService
}

func NewDriveController(
	r *gin.Engine,
	logger *zap.Logger,
	driveService ports.DriveService,
	authService ports.AuthService,
	cookies middleware.Cookies,
) *DriveController {
	dc := &DriveController{
		responder: responder{
			logger:      logger,
			authService: authService,
			cookies:     cookies,
		},
		driveService: driveService,
	}

	r.GET(RouteFilesDrive, middleware.RequireSession(), dc.ListDriveHandler)
	r.GET(RouteFilesPicker, middleware.RequireSession(), dc.PickerConfigHandler)

	return dc
}

func (dc *DriveController) ListDriveHandler(c *gin.Context) {
	folderID, err := validator.ValidateFolderID(c.Query("folderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pageToken, err := validator.ValidatePageToken(c.Query("pageToken"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	includePath := validator.ParseBool(c.Query("includePath"))

	s := middleware.SessionFrom(c)
	listing, err := dc.driveService.ListFolder(c.Request.Context(), s.UserID, folderID, pageToken, includePath)
	if err != nil {
		dc.fail(c, "ListFolder()", err)
		return
	}

	c.JSON(http.StatusOK, driveDTO.ToResponseListing(listing))
}

func (dc *DriveController) PickerConfigHandler(c *gin.Context) {
	s := middleware.SessionFrom(c)
	cfg, err := dc.driveService.PickerConfig(c.Request.Context(), s.UserID)
	if err != nil {
		dc.fail(c, "PickerConfig()", err)
		return
	}

	c.JSON(http.StatusOK, driveDTO.ToResponsePickerConfig(cfg))
}
