package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/incident-ingest-service/internal/domain"
	"github.com/couchcryptid/incident-ingest-service/internal/observability"
)

// Store persists incidents under store-generated keys.
type Store interface {
	// NewKey returns a unique, lexically sortable key. It must be safe for
	// concurrent use.
	NewKey() string

	// Put writes the full record under key.
	Put(ctx context.Context, key string, incident domain.Incident) error
}

// Writer issues one independent store write per incident. Writes are
// fire-and-forget: Write never waits for them and their errors are only
// logged and counted.
type Writer struct {
	store        Store
	logger       *slog.Logger
	metrics      *observability.Metrics
	writeTimeout time.Duration

	mu       sync.Mutex
	draining bool
	inflight sync.WaitGroup
}

// NewWriter creates a Writer bound to store. writeTimeout bounds each
// individual write; zero means no bound.
func NewWriter(store Store, logger *slog.Logger, metrics *observability.Metrics, writeTimeout time.Duration) *Writer {
	return &Writer{
		store:        store,
		logger:       logger,
		metrics:      metrics,
		writeTimeout: writeTimeout,
	}
}

// Write assigns a key to each incident in order and starts its write. It
// returns the issued keys without waiting for any write to finish. The
// writes outlive ctx's cancellation but keep its values. Once Drain has been
// called no new writes start: the incidents are counted as failed and no
// keys are returned.
func (w *Writer) Write(ctx context.Context, incidents []domain.Incident) []string {
	base := context.WithoutCancel(ctx)
	keys := make([]string, 0, len(incidents))

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draining {
		if len(incidents) > 0 {
			w.metrics.WriteFailures.Add(float64(len(incidents)))
			w.logger.Error("incident writes dropped, writer is draining", "count", len(incidents))
		}
		return keys
	}

	for _, inc := range incidents {
		key := w.store.NewKey()
		keys = append(keys, key)

		w.metrics.RecordsIssued.Inc()
		w.metrics.WritesInFlight.Inc()
		w.inflight.Add(1)
		go w.put(base, key, inc)
	}
	return keys
}

func (w *Writer) put(ctx context.Context, key string, inc domain.Incident) {
	defer w.inflight.Done()
	defer w.metrics.WritesInFlight.Dec()

	if w.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.writeTimeout)
		defer cancel()
	}

	if err := w.store.Put(ctx, key, inc); err != nil {
		w.metrics.WriteFailures.Inc()
		w.logger.Error("incident write failed", "key", key, "error", err)
		return
	}
	w.metrics.RecordsWritten.Inc()
}

// Drain stops the Writer from starting new writes and blocks until every
// issued write has finished or ctx is done. It is meant for process
// shutdown, not for the request path.
func (w *Writer) Drain(ctx context.Context) error {
	w.mu.Lock()
	w.draining = true
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
