// Package firebase stores incidents in a Firebase Realtime Database as a flat
// collection: <path>/<push key> -> incident.
package firebase

import (
	"context"
	"fmt"

	firebasesdk "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"github.com/couchcryptid/incident-ingest-service/internal/domain"
	"github.com/couchcryptid/incident-ingest-service/internal/pushid"
)

// Config selects the database and credentials.
type Config struct {
	DatabaseURL     string
	ProjectID       string
	CredentialsFile string // empty uses Application Default Credentials
	Path            string // collection path, e.g. "incidents"
}

// childSetter is the part of *db.Ref the store needs.
type childSetter interface {
	set(ctx context.Context, key string, v any) error
}

type refSetter struct {
	ref *db.Ref
}

func (r refSetter) set(ctx context.Context, key string, v any) error {
	return r.ref.Child(key).Set(ctx, v)
}

// Store writes incidents under client-generated push keys. It implements
// pipeline.Store.
type Store struct {
	*pushid.Generator

	children childSetter
	path     string
}

// NewStore initializes the Firebase app and database client.
func NewStore(ctx context.Context, cfg Config, keys *pushid.Generator) (*Store, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebasesdk.NewApp(ctx, &firebasesdk.Config{
		DatabaseURL: cfg.DatabaseURL,
		ProjectID:   cfg.ProjectID,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize realtime database client: %w", err)
	}

	return &Store{
		Generator: keys,
		children:  refSetter{ref: client.NewRef(cfg.Path)},
		path:      cfg.Path,
	}, nil
}

// Put sets <path>/<key> to the full incident.
func (s *Store) Put(ctx context.Context, key string, incident domain.Incident) error {
	if err := s.children.set(ctx, key, incident); err != nil {
		return fmt.Errorf("set %s/%s: %w", s.path, key, err)
	}
	return nil
}
