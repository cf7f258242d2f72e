package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/incident-ingest-service/internal/domain"
	"github.com/couchcryptid/incident-ingest-service/internal/pushid"
)

var testIncident = domain.Incident{
	Title:       "Kidnapping",
	Description: "N/A",
	Time:        "2021-01-01 14:00",
	Lat:         6.5,
	Lon:         3.3,
	County:      "Lagos",
	Actor:       "N/A",
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "incidents.db")
	s, err := OpenSQLite(context.Background(), path, pushid.New())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	key := s.NewKey()
	require.NoError(t, s.Put(ctx, key, testIncident))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, testIncident, got)
}

func TestStore_Get_Missing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestStore_Put_DuplicateKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "dup", testIncident))
	err := s.Put(ctx, "dup", testIncident)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert incident dup")
}

func TestStore_List_KeyOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var keys []string
	for _, county := range []string{"Lagos", "Ogun", "Oyo"} {
		inc := testIncident
		inc.County = county
		key := s.NewKey()
		keys = append(keys, key)
		require.NoError(t, s.Put(ctx, key, inc))
	}

	recs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for i, rec := range recs {
		assert.Equal(t, keys[i], rec.ID)
	}
	assert.Equal(t, "Oyo", recs[2].County)
}

func TestStore_List_ByteOrderAcrossPunctuation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Push key alphabet order: '-' < digits < upper < '_' < lower.
	for _, key := range []string{"a", "_", "Z", "0", "-"} {
		require.NoError(t, s.Put(ctx, key, testIncident))
	}

	recs, err := s.List(ctx)
	require.NoError(t, err)
	got := make([]string, len(recs))
	for i, rec := range recs {
		got[i] = rec.ID
	}
	assert.Equal(t, []string{"-", "0", "Z", "_", "a"}, got)
}

func TestListQuery(t *testing.T) {
	assert.Contains(t, listQuery(DriverPostgres), `ORDER BY id COLLATE "C"`)
	assert.NotContains(t, listQuery(DriverSQLite), "COLLATE")
	assert.True(t, strings.HasSuffix(listQuery(DriverSQLite), "ORDER BY id"))
}

func TestStore_ConcurrentPuts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Put(ctx, s.NewKey(), testIncident)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	recs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 20)
}

func TestStore_Ping(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpenSQLite_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path, pushid.New())
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "k1", testIncident))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path, pushid.New())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "Lagos", got.County)
}
