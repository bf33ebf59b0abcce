package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dataroom-api/internal/application/services"
	"dataroom-api/internal/domain/file"
	"dataroom-api/internal/domain/session"
	"dataroom-api/internal/domain/user"
	"dataroom-api/internal/infrastructure/storage"
)

var testFile = &file.File{
	ID:            3,
	UserID:        testUserID,
	Name:          "Q3 Report.pdf",
	MimeType:      "application/pdf",
	SizeBytes:     12,
	GoogleDriveID: "drive-1",
	StorageKey:    "7/abc_q3-report.pdf",
	CreatedAt:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
}

func setupFileRouter(fs *FakeFileService) (*FakeAuthService, *gin.Engine) {
	as := &FakeAuthService{}
	r := newTestRouter(as)
	NewFileController(r, zap.NewNop(), fs, as, testCookies)
	return as, r
}

func TestFileController_RequiresSession(t *testing.T) {
	_, r := setupFileRouter(&FakeFileService{})

	routes := []struct{ method, path string }{
		{http.MethodGet, RouteFiles},
		{http.MethodPost, RouteFilesImport},
		{http.MethodGet, "/api/files/3"},
		{http.MethodGet, "/api/files/3/view"},
		{http.MethodGet, "/api/files/3/download"},
		{http.MethodDelete, "/api/files/3"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rr := doReq(t, r, rt.method, rt.path, nil, nil)
			require.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "Not authenticated", decode(t, rr)["error"])
		})
	}
}

func TestFileController_ListFiles(t *testing.T) {
	fs := &FakeFileService{ListFilesFunc: func(_ context.Context, id user.ID) (file.Files, error) {
		assert.Equal(t, testUserID, id)
		return file.Files{testFile}, nil
	}}
	_, r := setupFileRouter(fs)

	rr := doReq(t, r, http.MethodGet, RouteFiles, nil, authed())
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":3,"name":"Q3 Report.pdf","mime_type":"application/pdf","size":12,"google_drive_id":"drive-1","created_at":"2026-03-01T00:00:00Z"}]`, rr.Body.String())
}

func TestFileController_ListFilesEmpty(t *testing.T) {
	fs := &FakeFileService{ListFilesFunc: func(context.Context, user.ID) (file.Files, error) { return nil, nil }}
	_, r := setupFileRouter(fs)

	rr := doReq(t, r, http.MethodGet, RouteFiles, nil, authed())
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestFileController_Import(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		result     *file.File
		err        error
		wantStatus int
		wantErr    string
		wantReauth bool
	}{
		{name: "400 invalid json", body: "nope", wantStatus: http.StatusBadRequest, wantErr: "invalid json"},
		{name: "400 empty body", body: "", wantStatus: http.StatusBadRequest, wantErr: "fileId is required"},
		{name: "400 null body", body: "null", wantStatus: http.StatusBadRequest, wantErr: "fileId is required"},
		{name: "400 missing file id", body: map[string]any{"overwrite": true}, wantStatus: http.StatusBadRequest, wantErr: "fileId is required"},
		{name: "400 malformed file id", body: map[string]any{"fileId": "../etc"}, wantStatus: http.StatusBadRequest, wantErr: "invalid fileId"},
		{name: "400 folder", body: map[string]any{"fileId": "f1"}, err: services.ErrFolderImport, wantStatus: http.StatusBadRequest, wantErr: "Folders cannot be imported"},
		{name: "400 unsupported workspace", body: map[string]any{"fileId": "f1"}, err: services.ErrUnsupportedType, wantStatus: http.StatusBadRequest, wantErr: "This Google Workspace file type is not supported"},
		{name: "404 not in drive", body: map[string]any{"fileId": "f1"}, err: services.ErrDriveFileNotFound, wantStatus: http.StatusNotFound, wantErr: "File not found in Google Drive"},
		{name: "413 too large", body: map[string]any{"fileId": "f1"}, err: services.ErrFileTooLarge, wantStatus: http.StatusRequestEntityTooLarge, wantErr: "File exceeds the maximum import size"},
		{name: "502 drive failure", body: map[string]any{"fileId": "f1"}, err: fmt.Errorf("%w: %w", services.ErrDriveUnavailable, errors.New("503")), wantStatus: http.StatusBadGateway, wantErr: "Google Drive request failed"},
		{name: "401 reauth", body: map[string]any{"fileId": "f1"}, err: services.ErrReauthRequired, wantStatus: http.StatusUnauthorized, wantErr: reauthMessage, wantReauth: true},
		{name: "201 created", body: map[string]any{"fileId": "f1"}, result: testFile, wantStatus: http.StatusCreated},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			fs := &FakeFileService{ImportFileFunc: func(_ context.Context, id user.ID, driveID string, overwrite bool) (*file.File, error) {
				assert.Equal(t, testUserID, id)
				assert.Equal(t, "f1", driveID)
				return tt.result, tt.err
			}}
			as, r := setupFileRouter(fs)

			rr := doReq(t, r, http.MethodPost, RouteFilesImport, tt.body, authed())
			require.Equal(t, tt.wantStatus, rr.Code)
			m := decode(t, rr)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, m["error"])
				if tt.wantReauth {
					assert.Equal(t, true, m["reauth"])
					assert.Equal(t, []session.ID{testSessionID}, as.LoggedOut)
					v, ok := cookieValue(t, rr.Header())
					require.True(t, ok)
					assert.Empty(t, v)
				}
				return
			}
			assert.Equal(t, "Q3 Report.pdf", m["name"])
		})
	}
}

func TestFileController_ImportConflict(t *testing.T) {
	var gotOverwrite []bool
	fs := &FakeFileService{ImportFileFunc: func(_ context.Context, _ user.ID, _ string, overwrite bool) (*file.File, error) {
		gotOverwrite = append(gotOverwrite, overwrite)
		if !overwrite {
			return nil, &services.AlreadyImportedError{File: testFile}
		}
		return testFile, nil
	}}
	_, r := setupFileRouter(fs)

	rr := doReq(t, r, http.MethodPost, RouteFilesImport, map[string]any{"fileId": "drive-1"}, authed())
	require.Equal(t, http.StatusConflict, rr.Code)
	m := decode(t, rr)
	assert.Equal(t, "File already imported", m["error"])
	assert.Equal(t, float64(3), m["file"].(map[string]any)["id"])

	rr = doReq(t, r, http.MethodPost, RouteFilesImport, map[string]any{"fileId": "drive-1", "overwrite": true}, authed())
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, []bool{false, true}, gotOverwrite)
}

func TestFileController_GetFile(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
		wantErr    string
	}{
		{name: "400 bad id", path: "/api/files/abc", wantStatus: http.StatusBadRequest, wantErr: "file id must be a positive integer"},
		{name: "404 not found", path: "/api/files/9", err: services.ErrFileNotFound, wantStatus: http.StatusNotFound, wantErr: "File not found"},
		{name: "500 db error", path: "/api/files/9", err: errors.New("db"), wantStatus: http.StatusInternalServerError, wantErr: "Internal server error"},
		{name: "200 ok", path: "/api/files/3", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			fs := &FakeFileService{GetFileFunc: func(_ context.Context, _ user.ID, id file.ID) (*file.File, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				assert.Equal(t, file.ID(3), id)
				return testFile, nil
			}}
			_, r := setupFileRouter(fs)

			rr := doReq(t, r, http.MethodGet, tt.path, nil, authed())
			require.Equal(t, tt.wantStatus, rr.Code)
			m := decode(t, rr)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, m["error"])
				return
			}
			assert.Equal(t, "drive-1", m["google_drive_id"])
		})
	}
}

func openObject(t *testing.T, content string) *storage.Object {
	t.Helper()
	p := filepath.Join(t.TempDir(), "blob")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	f, err := os.Open(p)
	require.NoError(t, err)
	return &storage.Object{ReadSeekCloser: f, Size: int64(len(content)), ModTime: time.Now()}
}

func TestFileController_ViewAndDownload(t *testing.T) {
	tests := []struct {
		path        string
		disposition string
	}{
		{"/api/files/3/view", `inline; filename="Q3 Report.pdf"`},
		{"/api/files/3/download", `attachment; filename="Q3 Report.pdf"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			fs := &FakeFileService{OpenFileFunc: func(context.Context, user.ID, file.ID) (*file.File, *storage.Object, error) {
				return testFile, openObject(t, "%PDF-content"), nil
			}}
			_, r := setupFileRouter(fs)

			rr := doReq(t, r, http.MethodGet, tt.path, nil, authed())
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
			assert.Equal(t, tt.disposition, rr.Header().Get("Content-Disposition"))
			assert.Equal(t, "%PDF-content", rr.Body.String())
		})
	}
}

func TestFileController_DownloadRange(t *testing.T) {
	fs := &FakeFileService{OpenFileFunc: func(context.Context, user.ID, file.ID) (*file.File, *storage.Object, error) {
		return testFile, openObject(t, "0123456789"), nil
	}}
	_, r := setupFileRouter(fs)

	headers := authed()
	headers["Range"] = "bytes=2-4"
	rr := doReq(t, r, http.MethodGet, "/api/files/3/download", nil, headers)
	require.Equal(t, http.StatusPartialContent, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, "234", string(body))
}

func TestFileController_ViewMissingBlob(t *testing.T) {
	fs := &FakeFileService{OpenFileFunc: func(context.Context, user.ID, file.ID) (*file.File, *storage.Object, error) {
		return nil, nil, services.ErrBlobMissing
	}}
	_, r := setupFileRouter(fs)

	rr := doReq(t, r, http.MethodGet, "/api/files/3/view", nil, authed())
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "File not found on disk", decode(t, rr)["error"])
}

func TestFileController_Delete(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   map[string]any
	}{
		{name: "404 unknown", err: services.ErrFileNotFound, wantStatus: http.StatusNotFound, wantBody: map[string]any{"error": "File not found"}},
		{name: "200 ok", wantStatus: http.StatusOK, wantBody: map[string]any{"message": "File deleted successfully"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			fs := &FakeFileService{DeleteFileFunc: func(_ context.Context, uid user.ID, id file.ID) error {
				assert.Equal(t, testUserID, uid)
				assert.Equal(t, file.ID(3), id)
				return tt.err
			}}
			_, r := setupFileRouter(fs)

			rr := doReq(t, r, http.MethodDelete, "/api/files/3", nil, authed())
			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantBody, decode(t, rr))
		})
	}
}
