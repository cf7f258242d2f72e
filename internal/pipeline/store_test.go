package pipeline_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/couchcryptid/incident-ingest-service/internal/domain"
)

// --- mocks ---

type put struct {
	key      string
	incident domain.Incident
	ctxErr   error
}

type mockStore struct {
	mu   sync.Mutex
	next int
	puts []put

	err  error
	gate chan struct{} // when non-nil, Put blocks until closed
}

func (m *mockStore) NewKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("key-%04d", m.next)
}

func (m *mockStore) Put(ctx context.Context, key string, inc domain.Incident) error {
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.puts = append(m.puts, put{key: key, incident: inc, ctxErr: ctx.Err()})
	return nil
}

func (m *mockStore) byKey() map[string]domain.Incident {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.Incident, len(m.puts))
	for _, p := range m.puts {
		out[p.key] = p.incident
	}
	return out
}

func (m *mockStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.puts)
}

type pingStore struct {
	mockStore
	pingErr error
}

func (p *pingStore) Ping(context.Context) error { return p.pingErr }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
