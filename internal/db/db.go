// Package db opens the key-value backend selected by configuration.
package db

import (
	"context"
	"fmt"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/config"
	mongokv "github.com/BruksfildServices01/barberbook/internal/infra/kv/mongo"
	postgreskv "github.com/BruksfildServices01/barberbook/internal/infra/kv/postgres"
	rediskv "github.com/BruksfildServices01/barberbook/internal/infra/kv/redis"
	s3kv "github.com/BruksfildServices01/barberbook/internal/infra/kv/s3"
	sqlitekv "github.com/BruksfildServices01/barberbook/internal/infra/kv/sqlite"
	"github.com/BruksfildServices01/barberbook/internal/kv"
	"github.com/BruksfildServices01/barberbook/internal/metrics"
)

// Backend is the opened store. Store is namespaced and instrumented; Redis is
// set only for the redis driver so pub/sub can share the connection.
type Backend struct {
	Store kv.Store
	Redis *goredis.Client

	raw kv.Store
}

func (b *Backend) Close() error { return b.raw.Close() }

func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log *zap.Logger) (*Backend, error) {
	raw, err := openDriver(ctx, cfg)
	if err != nil {
		return nil, err
	}

	b := &Backend{raw: raw}
	if rs, ok := raw.(*rediskv.Store); ok {
		b.Redis = rs.Client()
	}
	b.Store = metrics.InstrumentStore(kv.WithNamespace(raw, cfg.StoreNamespace), m)

	log.Info("store opened",
		zap.String("driver", string(raw.Driver())),
		zap.String("namespace", cfg.StoreNamespace),
	)
	return b, nil
}

func openDriver(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch kv.Driver(cfg.StoreDriver) {
	case kv.DriverMemory:
		return kv.NewMemory(), nil
	case kv.DriverRedis:
		return rediskv.New(ctx, rediskv.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case kv.DriverPostgres:
		return postgreskv.Open(cfg.DBUrl)
	case kv.DriverSQLite:
		return sqlitekv.Open(cfg.SQLitePath)
	case kv.DriverS3:
		return s3kv.New(ctx, s3kv.Config{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PathStyle:       cfg.S3PathStyle,
		})
	case kv.DriverMongo:
		return mongokv.New(ctx, mongokv.Config{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
