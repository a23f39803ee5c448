package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"cpq_engine/internal/domain/entities"

	"github.com/shopspring/decimal"
)

const (
	StorageMemory   = "memory"
	StorageDynamoDB = "dynamodb"

	CatalogSourceFile     = "file"
	CatalogSourceDynamoDB = "dynamodb"
)

// Config is the process configuration read from the environment.
//
// Supported env vars:
//   - PORT (default: 8080)
//   - APP_ENV (default: development; "production" switches to JSON logs)
//   - QUOTE_STORAGE: memory | dynamodb (default: memory)
//   - CATALOG_SOURCE: file | dynamodb (default: file)
//   - CATALOG_FILE (optional; empty loads the embedded seed catalog)
//   - DISCOUNT_RULES_FILE (optional YAML rule table)
//   - BUNDLE_DISCOUNT_RATE (default: 0.10; ignored when DISCOUNT_RULES_FILE is set)
type Config struct {
	Port               int
	AppEnv             string
	QuoteStorage       string
	CatalogSource      string
	CatalogFile        string
	DiscountRulesFile  string
	BundleDiscountRate decimal.Decimal
}

func Load() (Config, error) {
	cfg := Config{
		AppEnv:            getenvDefault("APP_ENV", "development"),
		QuoteStorage:      strings.ToLower(getenvDefault("QUOTE_STORAGE", StorageMemory)),
		CatalogSource:     strings.ToLower(getenvDefault("CATALOG_SOURCE", CatalogSourceFile)),
		CatalogFile:       strings.TrimSpace(os.Getenv("CATALOG_FILE")),
		DiscountRulesFile: strings.TrimSpace(os.Getenv("DISCOUNT_RULES_FILE")),
	}

	port, err := strconv.Atoi(getenvDefault("PORT", "8080"))
	if err != nil || port <= 0 {
		return Config{}, fmt.Errorf("%w: PORT must be a positive integer", entities.ErrInvalidInput)
	}
	cfg.Port = port

	switch cfg.QuoteStorage {
	case StorageMemory, StorageDynamoDB:
	default:
		return Config{}, fmt.Errorf("%w: QUOTE_STORAGE %q", entities.ErrInvalidInput, cfg.QuoteStorage)
	}
	switch cfg.CatalogSource {
	case CatalogSourceFile, CatalogSourceDynamoDB:
	default:
		return Config{}, fmt.Errorf("%w: CATALOG_SOURCE %q", entities.ErrInvalidInput, cfg.CatalogSource)
	}

	rate, err := decimal.NewFromString(getenvDefault("BUNDLE_DISCOUNT_RATE", "0.10"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: BUNDLE_DISCOUNT_RATE: %v", entities.ErrInvalidInput, err)
	}
	cfg.BundleDiscountRate = rate

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
