package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dataroom-api/internal/application/ports"
	"dataroom-api/internal/application/services"
	"dataroom-api/internal/domain/file"
	"dataroom-api/internal/domain/session"
	"dataroom-api/internal/domain/user"
	"dataroom-api/internal/infrastructure/storage"
	"dataroom-api/internal/interface/api/rest/middleware"
)

const (
	goodToken  = "good-session"
	testUserID = user.ID(7)
)

var testSessionID = uuid.MustParse("8f14e45f-ceea-467f-a0e6-6a1f3e3c1d11")

type FakeAuthService struct {
	LoginURLFunc          func() (string, error)
	HandleCallbackFunc    func(ctx context.Context, code, state string) (*ports.LoginResult, error)
	ExchangeAuthTokenFunc func(ctx context.Context, token string) (*ports.LoginResult, error)
	StatusFunc            func(ctx context.Context, s *session.Session) (*user.User, error)
	CurrentUserFunc       func(ctx context.Context, id user.ID) (*user.User, error)
	LoggedOut             []session.ID
}

func (f *FakeAuthService) LoginURL() (string, error) {
	if f.LoginURLFunc == nil {
		return "", errors.New("not used")
	}
	return f.LoginURLFunc()
}
func (f *FakeAuthService) HandleCallback(ctx context.Context, code, state string) (*ports.LoginResult, error) {
	if f.HandleCallbackFunc == nil {
		return nil, errors.New("not used")
	}
	return f.HandleCallbackFunc(ctx, code, state)
}
func (f *FakeAuthService) ExchangeAuthToken(ctx context.Context, token string) (*ports.LoginResult, error) {
	if f.ExchangeAuthTokenFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ExchangeAuthTokenFunc(ctx, token)
}

// Authenticate accepts only goodToken.
func (f *FakeAuthService) Authenticate(_ context.Context, token string) (*session.Session, error) {
	if token != goodToken {
		return nil, services.ErrUnauthenticated
	}
	return &session.Session{ID: testSessionID, UserID: testUserID, ExpiresAt: time.Now().Add(time.Hour)}, nil
}
func (f *FakeAuthService) Status(ctx context.Context, s *session.Session) (*user.User, error) {
	if f.StatusFunc == nil {
		return nil, errors.New("not used")
	}
	return f.StatusFunc(ctx, s)
}
func (f *FakeAuthService) CurrentUser(ctx context.Context, id user.ID) (*user.User, error) {
	if f.CurrentUserFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CurrentUserFunc(ctx, id)
}
func (f *FakeAuthService) Logout(_ context.Context, id session.ID) error {
	f.LoggedOut = append(f.LoggedOut, id)
	return nil
}

type FakeAccountService struct {
	DeleteAccountFunc func(ctx context.Context, id user.ID) error
}

func (f *FakeAccountService) DeleteAccount(ctx context.Context, id user.ID) error {
	if f.DeleteAccountFunc == nil {
		return errors.New("not used")
	}
	return f.DeleteAccountFunc(ctx, id)
}

type FakeFileService struct {
	ListFilesFunc  func(ctx context.Context, userID user.ID) (file.Files, error)
	GetFileFunc    func(ctx context.Context, userID user.ID, id file.ID) (*file.File, error)
	OpenFileFunc   func(ctx context.Context, userID user.ID, id file.ID) (*file.File, *storage.Object, error)
	ImportFileFunc func(ctx context.Context, userID user.ID, driveFileID string, overwrite bool) (*file.File, error)
	DeleteFileFunc func(ctx context.Context, userID user.ID, id file.ID) error
}

func (f *FakeFileService) ListFiles(ctx context.Context, userID user.ID) (file.Files, error) {
	if f.ListFilesFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ListFilesFunc(ctx, userID)
}
func (f *FakeFileService) GetFile(ctx context.Context, userID user.ID, id file.ID) (*file.File, error) {
	if f.GetFileFunc == nil {
		return nil, errors.New("not used")
	}
	return f.GetFileFunc(ctx, userID, id)
}
func (f *FakeFileService) OpenFile(ctx context.Context, userID user.ID, id file.ID) (*file.File, *storage.Object, error) {
	if f.OpenFileFunc == nil {
		return nil, nil, errors.New("not used")
	}
	return f.OpenFileFunc(ctx, userID, id)
}
func (f *FakeFileService) ImportFile(ctx context.Context, userID user.ID, driveFileID string, overwrite bool) (*file.File, error) {
	if f.ImportFileFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ImportFileFunc(ctx, userID, driveFileID, overwrite)
}
func (f *FakeFileService) DeleteFile(ctx context.Context, userID user.ID, id file.ID) error {
	if f.DeleteFileFunc == nil {
		return errors.New("not used")
	}
	return f.DeleteFileFunc(ctx, userID, id)
}

type FakeDriveService struct {
	ListFolderFunc   func(ctx context.Context, userID user.ID, folderID, pageToken string, includePath bool) (*ports.FolderListing, error)
	PickerConfigFunc func(ctx context.Context, userID user.ID) (*ports.PickerConfig, error)
}

func (f *FakeDriveService) ListFolder(ctx context.Context, userID user.ID, folderID, pageToken string, includePath bool) (*ports.FolderListing, error) {
	if f.ListFolderFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ListFolderFunc(ctx, userID, folderID, pageToken, includePath)
}
func (f *FakeDriveService) PickerConfig(ctx context.Context, userID user.ID) (*ports.PickerConfig, error) {
	if f.PickerConfigFunc == nil {
		return nil, errors.New("not used")
	}
	return f.PickerConfigFunc(ctx, userID)
}

func newTestRouter(authService ports.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.SessionMiddleware(zap.NewNop(), authService))
	return r
}

var testCookies = middleware.Cookies{Secure: true, MaxAge: 3600}

func authed() map[string]string {
	return map[string]string{"Cookie": middleware.SessionCookie + "=" + goodToken}
}

func doReq(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	return m
}
