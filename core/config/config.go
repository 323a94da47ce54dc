package config

import (
	"reflect"
	"strings"

	"variant-manager/core/database"
	"variant-manager/core/logger"
	"variant-manager/core/server"
	"variant-manager/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage used by catalog imports.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the item database.
	Database database.Config `mapstructure:"database"`
	// Variant holds configuration for variant generation and the attribute catalog.
	Variant VariantConfig `mapstructure:"variant"`
}

// VariantConfig holds settings for the variant feature.
type VariantConfig struct {
	// CatalogTTLSeconds bounds how long a loaded attribute catalog is reused.
	// Zero keeps it until it is invalidated explicitly.
	CatalogTTLSeconds int `mapstructure:"catalog_ttl_seconds" default:"0"`
	// CatalogObject is the object key of the catalog document in the storage bucket.
	CatalogObject string `mapstructure:"catalog_object" default:"catalog/ItemAttributes.json"`
	// AutoMigrate creates or updates the variant tables on startup.
	AutoMigrate bool `mapstructure:"auto_migrate" default:"true"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Missing .env is fine (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// SERVER_PORT -> server.port
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues walks the struct and registers every mapstructure key with its
// 'default' tag value, so AutomaticEnv can resolve nested keys.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
