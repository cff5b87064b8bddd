package app

import (
	"context"
	"fmt"

	"TODOAPP_BACK-END/internal/config"
	"TODOAPP_BACK-END/internal/logging"
	"TODOAPP_BACK-END/internal/store"
	"TODOAPP_BACK-END/internal/store/memory"
	"TODOAPP_BACK-END/internal/store/mongo"
	"TODOAPP_BACK-END/internal/store/postgres"
)

// OpenStore connects the backend selected by cfg.Storage.Driver. Postgres
// schemas are migrated before the store is returned.
func OpenStore(ctx context.Context, cfg *config.Config, log logging.Logger) (store.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return memory.New(), nil

	case config.DriverPostgres:
		st, err := postgres.Open(ctx, cfg.GetDSN(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close(ctx)
			return nil, err
		}
		log.Info(ctx, "connected to postgres", "host", cfg.Database.Host, "database", cfg.Database.Name)
		return st, nil

	case config.DriverMongo:
		st, err := mongo.Open(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("open mongo: %w", err)
		}
		log.Info(ctx, "connected to mongo", "database", cfg.Mongo.Database)
		return st, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
