package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"variant-manager/core/config"
	"variant-manager/core/database"
	"variant-manager/core/logger"
	"variant-manager/core/storage"
	"variant-manager/feature/variant/catalog"
	"variant-manager/feature/variant/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles the dependencies shared by the commands.
type runtime struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *gorm.DB
	store *store.Store
	cache *catalog.Cache
}

// bootstrap loads configuration, connects the item database and builds the
// attribute catalog cache.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}

	st := store.New(db)
	if cfg.Variant.AutoMigrate {
		if err := st.Migrate(ctx); err != nil {
			return nil, err
		}
	}

	ttl := time.Duration(cfg.Variant.CatalogTTLSeconds) * time.Second
	return &runtime{
		cfg:   cfg,
		log:   logg,
		db:    db,
		store: st,
		cache: catalog.NewCache(st, ttl),
	}, nil
}

func (r *runtime) storage() (storage.Client, error) {
	client, err := storage.NewClient(r.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
