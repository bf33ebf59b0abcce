package services

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"dataroom-api/internal/application/ports"
	"dataroom-api/internal/domain/drive"
	"dataroom-api/internal/domain/file"
	"dataroom-api/internal/domain/user"
	"dataroom-api/internal/infrastructure/mq"
	"dataroom-api/internal/infrastructure/storage"
)

const (
	octetStream = "application/octet-stream"
	sniffLen    = 3072
)

type FileService struct {
	files    file.Repository
	blobs    ports.BlobStore
	creds    *Credentials
	drive    ports.DriveClient
	events   ports.EventPublisher
	maxBytes int64
	log      *zap.Logger
	mCounter *prometheus.CounterVec
}

func NewFileService(
	files file.Repository,
	blobs ports.BlobStore,
	creds *Credentials,
	client ports.DriveClient,
	events ports.EventPublisher,
	maxBytes int64,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.FileService {
	return &FileService{
		files:    files,
		blobs:    blobs,
		creds:    creds,
		drive:    client,
		events:   events,
		maxBytes: maxBytes,
		log:      logger,
		mCounter: mCounter,
	}
}

func (fs *FileService) ListFiles(ctx context.Context, userID user.ID) (file.Files, error) {
	return fs.files.FetchUserFiles(ctx, userID)
}

func (fs *FileService) GetFile(ctx context.Context, userID user.ID, id file.ID) (*file.File, error) {
	f, err := fs.files.FetchUserFile(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFileNotFound
	}
	return f, nil
}

// OpenFile returns the metadata and an open blob. The caller closes the blob.
func (fs *FileService) OpenFile(ctx context.Context, userID user.ID, id file.ID) (*file.File, *storage.Object, error) {
	f, err := fs.GetFile(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	obj, err := fs.blobs.Open(ctx, f.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fs.log.Warn("blob missing for file", zap.Int64("file_id", int64(f.ID)), zap.String("key", f.StorageKey))
			return nil, nil, ErrBlobMissing
		}
		return nil, nil, err
	}
	return f, obj, nil
}

type download struct {
	name     string
	mimeType string
	body     io.ReadCloser
}

// fetch resolves the Drive item and opens its content, exporting Workspace
// documents.
func (fs *FileService) fetch(ctx context.Context, userID user.ID, driveFileID string) (*download, error) {
	var dl *download
	err := fs.creds.Do(ctx, userID, func(accessToken string) error {
		item, err := fs.drive.Get(ctx, accessToken, driveFileID)
		if err != nil {
			return driveFailure(err)
		}

		exp, exported, err := drive.ExportFor(item)
		if err != nil {
			return err
		}
		if !exported && fs.maxBytes > 0 && item.Size > fs.maxBytes {
			return ErrFileTooLarge
		}

		dl = &download{name: displayName(item.Name), mimeType: item.MimeType}
		if exported {
			dl.name = withExtension(dl.name, exp.Extension)
			dl.mimeType = exp.MimeType
			dl.body, err = fs.drive.Export(ctx, accessToken, driveFileID, exp.MimeType)
		} else {
			dl.body, err = fs.drive.Download(ctx, accessToken, driveFileID)
		}
		return driveFailure(err)
	})
	if err != nil {
		return nil, mapDriveError(err)
	}
	return dl, nil
}

// ImportFile copies a Drive file into the user's repository. An existing
// import of the same Drive file is an *AlreadyImportedError unless overwrite
// is set, in which case the new copy replaces it.
func (fs *FileService) ImportFile(ctx context.Context, userID user.ID, driveFileID string, overwrite bool) (*file.File, error) {
	if driveFileID == "" {
		return nil, ErrFileIDRequired
	}

	existing, err := fs.files.FetchByDriveID(ctx, userID, driveFileID)
	if err != nil {
		return nil, err
	}
	if existing != nil && !overwrite {
		return nil, &AlreadyImportedError{File: existing}
	}

	dl, err := fs.fetch(ctx, userID, driveFileID)
	if err != nil {
		return nil, err
	}
	defer dl.body.Close()

	content := io.Reader(dl.body)
	if dl.mimeType == "" || dl.mimeType == octetStream {
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(dl.body, head)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, driveFailure(err)
		}
		head = head[:n]
		dl.mimeType = mimetype.Detect(head).String()
		content = io.MultiReader(bytes.NewReader(head), dl.body)
	}

	key := storageKey(userID, dl.name)
	size, err := fs.blobs.Put(ctx, key, content, fs.maxBytes)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, err
	}

	rec := file.File{
		UserID:        userID,
		Name:          dl.name,
		MimeType:      dl.mimeType,
		SizeBytes:     size,
		GoogleDriveID: driveFileID,
		StorageKey:    key,
	}

	var f *file.File
	if existing != nil {
		f, err = fs.files.ReplaceFile(ctx, existing.ID, rec)
	} else {
		f, err = fs.files.CreateFile(ctx, rec)
	}
	if err != nil {
		fs.removeBlob(ctx, key)
		if errors.Is(err, file.ErrAlreadyImported) {
			if other, ferr := fs.files.FetchByDriveID(ctx, userID, driveFileID); ferr == nil && other != nil {
				return nil, &AlreadyImportedError{File: other}
			}
		}
		return nil, err
	}
	if existing != nil {
		fs.removeBlob(ctx, existing.StorageKey)
	}

	fs.events.Publish(mq.NewEvent(mq.RoutingFileImported, int64(userID), &mq.FilePayload{
		ID:            int64(f.ID),
		Name:          f.Name,
		MimeType:      f.MimeType,
		SizeBytes:     f.SizeBytes,
		GoogleDriveID: f.GoogleDriveID,
		Overwrite:     existing != nil,
	}))
	fs.mCounter.WithLabelValues("file_imported_total").Inc()

	return f, nil
}

// DeleteFile removes the row first, then the blob. An unknown id changes
// nothing.
func (fs *FileService) DeleteFile(ctx context.Context, userID user.ID, id file.ID) error {
	f, err := fs.files.DeleteUserFile(ctx, userID, id)
	if err != nil {
		return err
	}
	if f == nil {
		return ErrFileNotFound
	}
	fs.removeBlob(ctx, f.StorageKey)

	fs.events.Publish(mq.NewEvent(mq.RoutingFileDeleted, int64(userID), &mq.FilePayload{
		ID:            int64(f.ID),
		Name:          f.Name,
		MimeType:      f.MimeType,
		SizeBytes:     f.SizeBytes,
		GoogleDriveID: f.GoogleDriveID,
	}))
	fs.mCounter.WithLabelValues("file_deleted_total").Inc()

	return nil
}

func (fs *FileService) removeBlob(ctx context.Context, key string) {
	if err := fs.blobs.Delete(ctx, key); err != nil {
		fs.log.Error("delete blob", zap.String("key", key), zap.Error(err))
	}
}
