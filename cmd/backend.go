package cmd

import (
	"context"

	"ColdVault/internal/config"
	"ColdVault/internal/engine"
	"ColdVault/internal/glacier"
	"ColdVault/internal/inventory"
	"ColdVault/internal/s3"
	"ColdVault/internal/storage"
)

// openEngine loads the configuration, resolves the destination (flag
// override wins over the configured default) and builds the engine on top
// of the matching backend. The caller must Close the returned backend.
func openEngine(ctx context.Context, destinationFlag string) (*engine.Engine, storage.Backend, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	dest, err := cfg.Destination(destinationFlag)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.ValidateFor(dest); err != nil {
		return nil, nil, nil, err
	}
	backend, err := openBackend(ctx, cfg, dest)
	if err != nil {
		return nil, nil, nil, err
	}
	return engine.New(backend), backend, cfg, nil
}

func openBackend(ctx context.Context, cfg *config.Config, destination string) (storage.Backend, error) {
	switch destination {
	case config.DestinationGlacier:
		return openGlacierBackend(ctx, cfg)
	default:
		client, err := newS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewS3(client), nil
	}
}

func openGlacierBackend(ctx context.Context, cfg *config.Config) (*storage.GlacierBackend, error) {
	cold, err := glacier.New(ctx, glacier.Options{
		Region:    cfg.AWS.Region,
		AccessKey: cfg.AWS.AccessKey,
		SecretKey: cfg.AWS.SecretKey,
		Vault:     cfg.AWS.GlacierVault,
	})
	if err != nil {
		return nil, err
	}

	inv, err := inventory.Open(cfg.Inventory.Path)
	if err != nil {
		return nil, err
	}

	// The checkpoint store is optional: without an S3 bucket the glacier
	// backend works, only inventory backup/restore is unavailable.
	var checkpoint inventory.ObjectStore
	if cfg.AWS.S3Bucket != "" {
		client, err := newS3Client(ctx, cfg)
		if err != nil {
			_ = inv.Close()
			return nil, err
		}
		checkpoint = client
	}
	return storage.NewGlacier(cold, inv, checkpoint), nil
}

func newS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	return s3.New(ctx, s3.Options{
		Region:    cfg.AWS.Region,
		AccessKey: cfg.AWS.AccessKey,
		SecretKey: cfg.AWS.SecretKey,
		Bucket:    cfg.AWS.S3Bucket,
		Prefix:    cfg.AWS.S3Prefix,
		Endpoint:  cfg.AWS.Endpoint,
	})
}
