package repository

import (
	"fmt"
	"os"
	"time"

	"cpq_engine/internal/domain/entities"

	"github.com/shopspring/decimal"
)

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseMoney reads a stored decimal string; an empty attribute is zero.
func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stored money value %q: %w", s, err)
	}
	return v, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func quoteConflict(id string, version int) error {
	return fmt.Errorf("%w: quote %q version %d was superseded", entities.ErrConflict, id, version)
}
