package store

import (
	"context"
	"fmt"

	"github.com/justyntemme/mushaf-t/internal/config"
)

// KV is the durable key/value backend behind the Store. Values are strings;
// structured values are JSON encoded by the Store.
type KV interface {
	// Get returns ok=false when the key has never been written
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// OpenKV opens the backend selected by the storage config
func OpenKV(ctx context.Context, cfg config.Storage) (KV, error) {
	switch cfg.Driver {
	case config.StorageSQLite, "":
		return OpenSQLite(cfg.SQLitePath)
	case config.StorageRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case config.StorageMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
