package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/api/http/handlers"
	"github.com/spec-kit/event-service/internal/config"
	"github.com/spec-kit/event-service/internal/persistence"
	"github.com/spec-kit/event-service/internal/repository"
	"github.com/spec-kit/event-service/internal/repository/memory"
	"github.com/spec-kit/event-service/internal/repository/mongostore"
)

// stores holds the repositories of the selected backend together with the
// probes readiness should check and a function releasing connections.
type stores struct {
	users         repository.UserRepository
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	probes        map[string]handlers.Pinger
	close         func()
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.MigrateUp(cfg.Postgres.DSN, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		pool := pg.PoolHandle()
		return &stores{
			users:         repository.NewUserRepository(pool),
			events:        repository.NewEventRepository(pool),
			registrations: repository.NewRegistrationRepository(pool),
			probes:        map[string]handlers.Pinger{"postgres": pg},
			close:         pg.Close,
		}, nil

	case config.StoreDriverMongo:
		m, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := mongostore.EnsureIndexes(ctx, m.Database); err != nil {
			m.Close(context.Background())
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return &stores{
			users:         mongostore.NewUserRepository(m.Database),
			events:        mongostore.NewEventRepository(m.Database),
			registrations: mongostore.NewRegistrationRepository(m.Database),
			probes:        map[string]handlers.Pinger{"mongo": m},
			close: func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				m.Close(closeCtx)
			},
		}, nil

	case config.StoreDriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return &stores{
			users:         store.Users,
			events:        store.Events,
			registrations: store.Registrations,
			probes:        map[string]handlers.Pinger{},
			close:         func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
