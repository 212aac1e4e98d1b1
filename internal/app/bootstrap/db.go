// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/internportal/internal/app/system/blobstore"
	"github.com/dalemusser/internportal/internal/app/system/indexes"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and opens the artifact store.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("ping MongoDB: %w", err)
	}

	blobs, err := openBlobStore(ctx, appCfg)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, err
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool", appCfg.MongoMaxPoolSize),
		zap.Uint64("min_pool", appCfg.MongoMinPoolSize),
		zap.String("storage", appCfg.StorageType))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Blobs:         blobs,
		Auth:          &AuthDeps{},
	}, nil
}

func openBlobStore(ctx context.Context, appCfg AppConfig) (blobstore.Store, error) {
	switch appCfg.StorageType {
	case "s3":
		s, err := blobstore.NewS3(ctx, blobstore.S3Config{
			Region: appCfg.StorageS3Region,
			Bucket: appCfg.StorageS3Bucket,
			Prefix: appCfg.StorageS3Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("open S3 storage: %w", err)
		}
		return s, nil
	default:
		l, err := blobstore.NewLocal(appCfg.StorageLocalPath)
		if err != nil {
			return nil, fmt.Errorf("open local storage: %w", err)
		}
		return l, nil
	}
}

// EnsureSchema creates the unique and lookup indexes every collection relies on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
}
