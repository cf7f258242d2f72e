package pipeline

import "context"

// Pinger is implemented by stores that can verify their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreReadiness reports the service ready when its store is reachable.
// Stores without a Ping method are always considered ready.
type StoreReadiness struct {
	store Store
}

// NewStoreReadiness wraps store for the /readyz endpoint.
func NewStoreReadiness(store Store) *StoreReadiness {
	return &StoreReadiness{store: store}
}

// CheckReadiness returns the store's ping error, if any.
func (r *StoreReadiness) CheckReadiness(ctx context.Context) error {
	if p, ok := r.store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
