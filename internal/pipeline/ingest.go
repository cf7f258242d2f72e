package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/incident-ingest-service/internal/domain"
	"github.com/couchcryptid/incident-ingest-service/internal/observability"
	"github.com/couchcryptid/incident-ingest-service/internal/workbook"
)

// Upload is one spreadsheet received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Summary describes how an upload was processed. It is for logs and tooling
// only; callers of the HTTP endpoint never see it.
type Summary struct {
	UploadID string
	Rows     int
	Accepted int
	Rejected int
	Keys     []string
}

// RecordWriter hands normalized incidents to the store.
type RecordWriter interface {
	Write(ctx context.Context, incidents []domain.Incident) []string
}

// Ingester runs decode, normalize and write for a single upload.
type Ingester struct {
	writer   RecordWriter
	archiver *Archiver
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewIngester creates an Ingester. A nil archiver disables upload archiving.
func NewIngester(w RecordWriter, archiver *Archiver, logger *slog.Logger, metrics *observability.Metrics) *Ingester {
	return &Ingester{
		writer:   w,
		archiver: archiver,
		logger:   logger,
		metrics:  metrics,
	}
}

// Ingest decodes the upload, normalizes every row and issues the writes.
// A decode failure is returned as a *workbook.FormatError before any write
// is attempted. Otherwise it returns once every write has been issued.
func (in *Ingester) Ingest(ctx context.Context, up Upload) (Summary, error) {
	start := time.Now()
	summary := Summary{UploadID: uuid.NewString()}
	logger := in.logger.With("upload_id", summary.UploadID, "filename", up.Filename)

	in.metrics.UploadSize.Observe(float64(len(up.Data)))
	if in.archiver != nil {
		if path, err := in.archiver.Save(summary.UploadID, up); err != nil {
			logger.Warn("archive upload failed", "error", err)
		} else {
			logger.Debug("upload archived", "path", path)
		}
	}

	kind := workbook.Detect(up.Data, up.Filename, up.ContentType)
	rows, err := workbook.Decode(up.Data, kind)
	if err != nil {
		in.metrics.Uploads.WithLabelValues("rejected").Inc()
		logger.Warn("upload rejected", "format", string(kind), "error", err)
		return summary, err
	}
	summary.Rows = len(rows)
	in.metrics.RowsDecoded.Add(float64(len(rows)))

	incidents := make([]domain.Incident, 0, len(rows))
	for i, row := range rows {
		inc, ok := domain.NormalizeRow(row)
		if !ok {
			summary.Rejected++
			in.metrics.RowsRejected.Inc()
			logger.Debug("row dropped, coordinates did not parse",
				"row_index", i,
				"latitude", row.Get(domain.ColLatitude).String(),
				"longitude", row.Get(domain.ColLongitude).String(),
			)
			continue
		}
		incidents = append(incidents, inc)
	}
	summary.Accepted = len(incidents)

	summary.Keys = in.writer.Write(ctx, incidents)

	in.metrics.Uploads.WithLabelValues("accepted").Inc()
	in.metrics.UploadDuration.Observe(time.Since(start).Seconds())
	logger.Info("upload processed",
		"format", string(kind),
		"rows", summary.Rows,
		"accepted", summary.Accepted,
		"rejected", summary.Rejected,
	)
	return summary, nil
}
