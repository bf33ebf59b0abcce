package google

import (
	"context"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	domain "dataroom-api/internal/domain/drive"
)

// DriveAPI is the set of Drive calls the application makes.
type DriveAPI interface {
	List(ctx context.Context, accessToken, folderID, pageToken string) (*domain.Page, error)
	Probe(ctx context.Context, accessToken string) error
	Get(ctx context.Context, accessToken, fileID string) (*domain.Item, error)
	Download(ctx context.Context, accessToken, fileID string) (io.ReadCloser, error)
	Export(ctx context.Context, accessToken, fileID, mimeType string) (io.ReadCloser, error)
}

// InstrumentedDrive records the latency of every call. For Download and
// Export only the time to the first byte is observed.
type InstrumentedDrive struct {
	next    DriveAPI
	latency *prometheus.HistogramVec
}

func NewInstrumentedDrive(next DriveAPI, latency *prometheus.HistogramVec) *InstrumentedDrive {
	return &InstrumentedDrive{next: next, latency: latency}
}

func (d *InstrumentedDrive) observe(op string, start time.Time) {
	d.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (d *InstrumentedDrive) List(ctx context.Context, accessToken, folderID, pageToken string) (*domain.Page, error) {
	defer d.observe("list", time.Now())
	return d.next.List(ctx, accessToken, folderID, pageToken)
}

func (d *InstrumentedDrive) Probe(ctx context.Context, accessToken string) error {
	defer d.observe("probe", time.Now())
	return d.next.Probe(ctx, accessToken)
}

func (d *InstrumentedDrive) Get(ctx context.Context, accessToken, fileID string) (*domain.Item, error) {
	defer d.observe("get", time.Now())
	return d.next.Get(ctx, accessToken, fileID)
}

func (d *InstrumentedDrive) Download(ctx context.Context, accessToken, fileID string) (io.ReadCloser, error) {
	defer d.observe("download", time.Now())
	return d.next.Download(ctx, accessToken, fileID)
}

func (d *InstrumentedDrive) Export(ctx context.Context, accessToken, fileID, mimeType string) (io.ReadCloser, error) {
	defer d.observe("export", time.Now())
	return d.next.Export(ctx, accessToken, fileID, mimeType)
}
