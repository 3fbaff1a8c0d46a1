// Package profiles loads the business profile table from the configured
// backing store and freezes it into a calculator.Table.
package profiles

import (
	"context"
	"database/sql"
	"fmt"

	"consultancy-workers/internal/common/config"
	"consultancy-workers/internal/common/errors"
	"consultancy-workers/internal/common/logger"
	"consultancy-workers/internal/common/metrics"
	"consultancy-workers/pkg/calculator"

	"github.com/redis/go-redis/v9"
)

// Source yields the rows of the profile table in display order.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]calculator.BusinessProfile, error)
}

// Backends carries the optional clients a source may need.
type Backends struct {
	Redis    *redis.Client
	Postgres *sql.DB
}

// NewSource picks the source named by calculator.profile_source.
func NewSource(cfg config.CalculatorConfig, b Backends) (Source, error) {
	switch cfg.ProfileSource {
	case "", config.ProfileSourceConfig:
		return NewConfigSource(cfg.Profiles), nil
	case config.ProfileSourceRedis:
		if b.Redis == nil {
			return nil, fmt.Errorf("profile source %q needs a redis client", cfg.ProfileSource)
		}
		return NewRedisSource(b.Redis, cfg.RedisKey), nil
	case config.ProfileSourcePostgres:
		if b.Postgres == nil {
			return nil, fmt.Errorf("profile source %q needs a postgres connection", cfg.ProfileSource)
		}
		return NewPostgresSource(b.Postgres, cfg.PostgresTable), nil
	default:
		return nil, fmt.Errorf("unknown profile source %q", cfg.ProfileSource)
	}
}

// LoadTable reads src once and builds the immutable lookup table.
func LoadTable(ctx context.Context, src Source, log logger.Logger) (*calculator.Table, error) {
	rows, err := src.Load(ctx)
	if err != nil {
		return nil, errors.NewProfileSourceFailedError(src.Name(), err)
	}

	table, err := calculator.NewTable(rows)
	if err != nil {
		return nil, errors.NewProfileTableInvalidError(err)
	}

	metrics.ProfileTableSize.Set(float64(table.Len()))
	log.Info("profile table loaded", map[string]interface{}{
		"source":        src.Name(),
		"businessTypes": table.IDs(),
	})
	return table, nil
}
