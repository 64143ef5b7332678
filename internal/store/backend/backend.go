// Package backend opens the blob store selected by the configuration.
package backend

import (
	"context"
	"fmt"
	"log"

	"bankai/backend/internal/config"
	"bankai/backend/internal/store"
	"bankai/backend/internal/store/file"
	"bankai/backend/internal/store/memory"
	pgstore "bankai/backend/internal/store/postgres"
	"bankai/backend/internal/store/redisstore"
)

// Open returns the blob store and a close function. A configured backend
// that cannot be reached is an error; there is no silent fallback to memory.
func Open(ctx context.Context, cfg config.Config) (store.BlobStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend() {
	case "postgres":
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres unavailable: %w", err)
		}
		log.Println("[store] backend: postgres")
		return pg, pg.Close, nil
	case "redis":
		rs := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisKeyPrefix)
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, nil, fmt.Errorf("redis unavailable: %w", err)
		}
		log.Println("[store] backend: redis")
		return rs, rs.Close, nil
	case "file":
		fs, err := file.New(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[store] backend: file (%s)", cfg.DataDir)
		return fs, noop, nil
	default:
		log.Println("[store] backend: in-memory")
		return memory.New(), noop, nil
	}
}
