package valkey

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/pkg/metrics"
)

// Store implements ports.KeyValueStore using Valkey (Redis-compatible).
type Store struct {
	client valkey.Client
}

// New creates a new Valkey client.
func New(addr string) (*Store, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Store{client: client}, nil
}

// Get retrieves a value by key, or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		metrics.StoreOperations.WithLabelValues("valkey", "get", "miss").Inc()
		return nil, domain.ErrNotFound
	}
	if err != nil {
		metrics.StoreOperations.WithLabelValues("valkey", "get", "error").Inc()
		return nil, fmt.Errorf("valkey get %q: %w", key, err)
	}
	metrics.StoreOperations.WithLabelValues("valkey", "get", "ok").Inc()
	return b, nil
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	err := s.client.Do(ctx, s.client.B().Set().Key(key).Value(valkey.BinaryString(value)).Build()).Error()
	if err != nil {
		metrics.StoreOperations.WithLabelValues("valkey", "set", "error").Inc()
		return fmt.Errorf("valkey set %q: %w", key, err)
	}
	metrics.StoreOperations.WithLabelValues("valkey", "set", "ok").Inc()
	return nil
}

// Delete removes a key.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(key).Build()).Error()
}

// Ping checks the connection, used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (s *Store) Close() {
	s.client.Close()
}
