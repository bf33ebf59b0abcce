package rest

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dataroom-api/internal/application/ports"
	"dataroom-api/internal/interface/api/rest/dto/auth"
	fileDTO "dataroom-api/internal/interface/api/rest/dto/file"
	"dataroom-api/internal/interface/api/rest/middleware"
	"dataroom-api/internal/interface/api/rest/validator"
)

type FileController struct {
	responder
	fileService ports.FileService
}

func NewFileController(
	r *gin.Engine,
	logger *zap.Logger,
	fileService ports.FileService,
	authService ports.AuthService,
	cookies middleware.Cookies,
) *FileController {
	fc := &FileController{
		responder: responder{
			logger:      logger,
			authService: authService,
			cookies:     cookies,
		},
		fileService: fileService,
	}

	requireSession := middleware.RequireSession()
	r.GET(RouteFiles, requireSession, fc.ListFilesHandler)
	r.POST(RouteFilesImport, requireSession, fc.ImportFileHandler)
	r.GET(RouteFile, requireSession, fc.GetFileHandler)
	r.GET(RouteFileView, requireSession, fc.ViewFileHandler)
	r.GET(RouteFileDownload, requireSession, fc.DownloadFileHandler)
	r.DELETE(RouteFile, requireSession, fc.DeleteFileHandler)

	return fc
}

func (fc *FileController) ListFilesHandler(c *gin.Context) {
	s := middleware.SessionFrom(c)
	files, err := fc.fileService.ListFiles(c.Request.Context(), s.UserID)
	if err != nil {
		fc.fail(c, "ListFiles()", err)
		return
	}

	c.JSON(http.StatusOK, fileDTO.ToResponseFiles(files))
}

func (fc *FileController) ImportFileHandler(c *gin.Context) {
	var req fileDTO.ImportRequest
	err := c.ShouldBindJSON(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	// an empty body is a request without a fileId
	if req.FileID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileId is required"})
		return
	}
	if !validator.IsDriveID(req.FileID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fileId"})
		return
	}

	s := middleware.SessionFrom(c)
	f, err := fc.fileService.ImportFile(c.Request.Context(), s.UserID, req.FileID, req.Overwrite)
	if err != nil {
		fc.fail(c, "ImportFile()", err)
		return
	}

	c.JSON(http.StatusCreated, fileDTO.ToResponseFile(*f))
}

func (fc *FileController) GetFileHandler(c *gin.Context) {
	id, err := validator.ParseFileID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := middleware.SessionFrom(c)
	f, err := fc.fileService.GetFile(c.Request.Context(), s.UserID, id)
	if err != nil {
		fc.fail(c, "GetFile()", err)
		return
	}

	c.JSON(http.StatusOK, fileDTO.ToResponseFile(*f))
}

func (fc *FileController) ViewFileHandler(c *gin.Context)     { fc.serveFile(c, "inline") }
func (fc *FileController) DownloadFileHandler(c *gin.Context) { fc.serveFile(c, "attachment") }

// serveFile streams the stored blob; http.ServeContent handles Range and
// conditional requests.
func (fc *FileController) serveFile(c *gin.Context, disposition string) {
	id, err := validator.ParseFileID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := middleware.SessionFrom(c)
	f, obj, err := fc.fileService.OpenFile(c.Request.Context(), s.UserID, id)
	if err != nil {
		fc.fail(c, "OpenFile()", err)
		return
	}
	defer obj.Close()

	cd := mime.FormatMediaType(disposition, map[string]string{"filename": f.Name})
	if cd == "" {
		cd = disposition
	}
	c.Header("Content-Disposition", cd)
	c.Header("X-Content-Type-Options", "nosniff")
	if f.MimeType != "" {
		c.Header("Content-Type", f.MimeType)
	}

	http.ServeContent(c.Writer, c.Request, f.Name, obj.ModTime, obj)
}

func (fc *FileController) DeleteFileHandler(c *gin.Context) {
	id, err := validator.ParseFileID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := middleware.SessionFrom(c)
	if err = fc.fileService.DeleteFile(c.Request.Context(), s.UserID, id); err != nil {
		fc.fail(c, "DeleteFile()", err)
		return
	}

	c.JSON(http.StatusOK, auth.MessageResponse{Message: "File deleted successfully"})
}
