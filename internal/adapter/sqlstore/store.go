// Package sqlstore persists incidents to a SQL table through sqlx. SQLite
// (modernc.org/sqlite, pure Go) and PostgreSQL (lib/pq) are supported.
package sqlstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"   // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/couchcryptid/incident-ingest-service/internal/domain"
	"github.com/couchcryptid/incident-ingest-service/internal/pushid"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

const schema = `
CREATE TABLE IF NOT EXISTS incidents (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	"time"      TEXT NOT NULL,
	lat         DOUBLE PRECISION NOT NULL,
	lon         DOUBLE PRECISION NOT NULL,
	county      TEXT NOT NULL,
	actor       TEXT NOT NULL
)`

const insertIncident = `
INSERT INTO incidents (id, title, description, "time", lat, lon, county, actor)
VALUES (:id, :title, :description, :time, :lat, :lon, :county, :actor)`

// Record is an incident together with its key.
type Record struct {
	ID string `db:"id"`
	domain.Incident
}

// Store writes incidents as rows keyed by push key. It implements
// pipeline.Store.
type Store struct {
	*pushid.Generator

	db *sqlx.DB
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(ctx context.Context, path string, keys *pushid.Generator) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	dsn := path + "?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	s, err := open(ctx, DriverSQLite, dsn, keys)
	if err != nil {
		return nil, err
	}
	// SQLite only supports one writer.
	s.db.SetMaxOpenConns(1)
	return s, nil
}

// OpenPostgres connects to the database at url.
func OpenPostgres(ctx context.Context, url string, keys *pushid.Generator) (*Store, error) {
	return open(ctx, DriverPostgres, url, keys)
}

func open(ctx context.Context, driver, dsn string, keys *pushid.Generator) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create incidents table: %w", err)
	}
	return &Store{Generator: keys, db: db}, nil
}

// Put inserts one incident. Keys are never reused, so a conflict is an error.
func (s *Store) Put(ctx context.Context, key string, incident domain.Incident) error {
	if _, err := s.db.NamedExecContext(ctx, insertIncident, Record{ID: key, Incident: incident}); err != nil {
		return fmt.Errorf("insert incident %s: %w", key, err)
	}
	return nil
}

// Get loads the incident stored under key.
func (s *Store) Get(ctx context.Context, key string) (domain.Incident, error) {
	var rec Record
	err := s.db.GetContext(ctx, &rec, s.db.Rebind(
		`SELECT id, title, description, "time", lat, lon, county, actor FROM incidents WHERE id = ?`), key)
	if err != nil {
		return domain.Incident{}, fmt.Errorf("get incident %s: %w", key, err)
	}
	return rec.Incident, nil
}

// List returns every stored incident in byte-wise key order, which is
// creation order.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	var recs []Record
	if err := s.db.SelectContext(ctx, &recs, listQuery(s.db.DriverName())); err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	return recs, nil
}

// listQuery orders by id byte-wise. SQLite's default BINARY collation already
// does; Postgres needs the "C" collation, since locale collations rank '-' and
// '_' differently from ASCII.
func listQuery(driver string) string {
	order := "id"
	if driver == DriverPostgres {
		order = `id COLLATE "C"`
	}
	return `SELECT id, title, description, "time", lat, lon, county, actor FROM incidents ORDER BY ` + order
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
