package profiles

import (
	"context"
	"database/sql"
	"fmt"

	"consultancy-workers/internal/common/config"
	"consultancy-workers/pkg/calculator"

	"github.com/lib/pq"
)

// PostgresSource reads rows ordered by their position column.
type PostgresSource struct {
	db    *sql.DB
	table string
}

func NewPostgresSource(db *sql.DB, table string) *PostgresSource {
	return &PostgresSource{db: db, table: table}
}

func (s *PostgresSource) Name() string { return config.ProfileSourcePostgres }

func (s *PostgresSource) query() string {
	return fmt.Sprintf(
		"SELECT id, baseline_hours, saved_hours FROM %s ORDER BY position",
		pq.QuoteIdentifier(s.table),
	)
}

func (s *PostgresSource) Load(ctx context.Context) ([]calculator.BusinessProfile, error) {
	rows, err := s.db.QueryContext(ctx, s.query())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []calculator.BusinessProfile
	for rows.Next() {
		var p calculator.BusinessProfile
		if err := rows.Scan(&p.ID, &p.BaselineHours, &p.SavedHours); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}
	return out, nil
}
