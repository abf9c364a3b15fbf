// Package store selects the campaign storage backend from configuration.
package store

import (
	"context"
	"fmt"

	"github.com/samirrijal/fieldproof/internal/adapters/kvstore"
	"github.com/samirrijal/fieldproof/internal/adapters/postgres"
	"github.com/samirrijal/fieldproof/internal/adapters/valkey"
	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/ports"
	"github.com/samirrijal/fieldproof/internal/pkg/config"
)

// Repository is a campaign repository that can also be bulk-loaded.
type Repository interface {
	ports.CampaignRepository
	Replace(ctx context.Context, campaigns []domain.Campaign) error
}

// Handle is an open backend.
type Handle struct {
	Repo  Repository
	Name  string
	ping  func(context.Context) error
	close func()
}

// Ping checks the backend connection.
func (h *Handle) Ping(ctx context.Context) error { return h.ping(ctx) }

// Close releases the backend.
func (h *Handle) Close() { h.close() }

// Open connects the backend named by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (*Handle, error) {
	prefix := cfg.Storage.KeyPrefix

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		kv := kvstore.NewMemory()
		return &Handle{
			Repo:  kvstore.NewCampaignStore(kv, prefix),
			Name:  config.DriverMemory,
			ping:  kv.Ping,
			close: func() {},
		}, nil

	case config.DriverSQLite:
		kv, err := kvstore.OpenSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return &Handle{
			Repo:  kvstore.NewCampaignStore(kv, prefix),
			Name:  config.DriverSQLite,
			ping:  kv.Ping,
			close: func() { _ = kv.Close() },
		}, nil

	case config.DriverValkey:
		kv, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			return nil, fmt.Errorf("valkey: %w", err)
		}
		return &Handle{
			Repo:  kvstore.NewCampaignStore(kv, prefix),
			Name:  config.DriverValkey,
			ping:  kv.Ping,
			close: kv.Close,
		}, nil

	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return &Handle{
			Repo:  postgres.NewCampaignRepo(db),
			Name:  config.DriverPostgres,
			ping:  db.Ping,
			close: db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
