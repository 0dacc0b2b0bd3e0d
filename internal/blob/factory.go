package blob

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"hub-go/internal/config"
	"hub-go/internal/hub"
)

// NewStoreFromConfig creates a BlobStore implementation based on the blob
// config type.
func NewStoreFromConfig(ctx context.Context, cfg config.BlobConfig) (hub.BlobStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem blob store requires fs_root to be set")
		}
		return NewFileSystemStore(cfg.FSRoot)
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite blob store requires sqlite_path to be set")
		}
		return NewSQLiteStore(cfg.SQLitePath)
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis blob store requires redis_addr to be set")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedisStore(client), nil
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown blob store type: %s", cfg.Type)
	}
}
