package profiles

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"consultancy-workers/internal/common/config"
	apperrors "consultancy-workers/internal/common/errors"
	"consultancy-workers/internal/common/logger"
	"consultancy-workers/pkg/calculator"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestConfigSource(t *testing.T) {
	t.Run("falls back to built-in table", func(t *testing.T) {
		rows, err := NewConfigSource(nil).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, calculator.DefaultProfiles, rows)

		rows[0].BaselineHours = 1
		assert.Equal(t, 40, calculator.DefaultProfiles[0].BaselineHours)
	})

	t.Run("maps inline rows", func(t *testing.T) {
		rows, err := NewConfigSource([]config.ProfileConfig{
			{ID: "Bakery", BaselineHours: 20, SavedHours: 5},
		}).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []calculator.BusinessProfile{{ID: "Bakery", BaselineHours: 20, SavedHours: 5}}, rows)
	})
}

func TestRedisSource_RoundTrip(t *testing.T) {
	_, client := newRedis(t)
	src := NewRedisSource(client, "consultancy:profiles")
	ctx := context.Background()

	require.NoError(t, src.Store(ctx, calculator.DefaultProfiles))

	rows, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, calculator.DefaultProfiles, rows)
}

func TestRedisSource_Layout(t *testing.T) {
	mr, client := newRedis(t)
	mr.HSet("consultancy:profiles", "agency", "60:20")
	mr.HSet("consultancy:profiles", "coach", "30:8")
	_, err := mr.Push("consultancy:profiles:order", "coach", "agency")
	require.NoError(t, err)

	rows, err := NewRedisSource(client, "consultancy:profiles").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []calculator.BusinessProfile{
		{ID: "coach", BaselineHours: 30, SavedHours: 8},
		{ID: "agency", BaselineHours: 60, SavedHours: 20},
	}, rows)
}

func TestRedisSource_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mr *miniredis.Miniredis)
		want  string
	}{
		{
			name:  "empty order list",
			setup: func(mr *miniredis.Miniredis) {},
			want:  "is empty",
		},
		{
			name: "id missing from hash",
			setup: func(mr *miniredis.Miniredis) {
				mr.Push("p:order", "ghost")
			},
			want: `profile "ghost" listed`,
		},
		{
			name: "malformed value",
			setup: func(mr *miniredis.Miniredis) {
				mr.Push("p:order", "agency")
				mr.HSet("p", "agency", "sixty")
			},
			want: "malformed value",
		},
		{
			name: "non-numeric hours",
			setup: func(mr *miniredis.Miniredis) {
				mr.Push("p:order", "agency")
				mr.HSet("p", "agency", "60:x")
			},
			want: "saved hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr, client := newRedis(t)
			tt.setup(mr)

			_, err := NewRedisSource(client, "p").Load(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPostgresSource(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	query := regexp.QuoteMeta(`SELECT id, baseline_hours, saved_hours FROM "business_profiles" ORDER BY position`)

	t.Run("reads rows in order", func(t *testing.T) {
		mock.ExpectQuery(query).WillReturnRows(
			sqlmock.NewRows([]string{"id", "baseline_hours", "saved_hours"}).
				AddRow("freelancer", 40, 10).
				AddRow("agency", 60, 20),
		)

		rows, err := NewPostgresSource(db, "business_profiles").Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []calculator.BusinessProfile{
			{ID: "freelancer", BaselineHours: 40, SavedHours: 10},
			{ID: "agency", BaselineHours: 60, SavedHours: 20},
		}, rows)
	})

	t.Run("query failure", func(t *testing.T) {
		mock.ExpectQuery(query).WillReturnError(errors.New("relation does not exist"))

		_, err := NewPostgresSource(db, "business_profiles").Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "relation does not exist")
	})

	t.Run("scan failure", func(t *testing.T) {
		mock.ExpectQuery(query).WillReturnRows(
			sqlmock.NewRows([]string{"id", "baseline_hours", "saved_hours"}).
				AddRow("agency", "lots", 20),
		)

		_, err := NewPostgresSource(db, "business_profiles").Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scan")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSource(t *testing.T) {
	_, client := newRedis(t)
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	backends := Backends{Redis: client, Postgres: db}

	src, err := NewSource(config.CalculatorConfig{}, backends)
	require.NoError(t, err)
	assert.IsType(t, &ConfigSource{}, src)

	src, err = NewSource(config.CalculatorConfig{ProfileSource: "redis", RedisKey: "k"}, backends)
	require.NoError(t, err)
	assert.IsType(t, &RedisSource{}, src)

	src, err = NewSource(config.CalculatorConfig{ProfileSource: "postgres", PostgresTable: "t"}, backends)
	require.NoError(t, err)
	assert.IsType(t, &PostgresSource{}, src)

	_, err = NewSource(config.CalculatorConfig{ProfileSource: "redis"}, Backends{})
	assert.Error(t, err)

	_, err = NewSource(config.CalculatorConfig{ProfileSource: "postgres"}, Backends{})
	assert.Error(t, err)

	_, err = NewSource(config.CalculatorConfig{ProfileSource: "s3"}, backends)
	assert.Error(t, err)
}

type stubSource struct {
	rows []calculator.BusinessProfile
	err  error
}

func (s stubSource) Name() string { return "stub" }

func (s stubSource) Load(context.Context) ([]calculator.BusinessProfile, error) {
	return s.rows, s.err
}

func TestLoadTable(t *testing.T) {
	log := logger.NewTestLogger(t)

	t.Run("builds table", func(t *testing.T) {
		table, err := LoadTable(context.Background(), stubSource{rows: calculator.DefaultProfiles}, log)
		require.NoError(t, err)
		assert.Equal(t, len(calculator.DefaultProfiles), table.Len())

		res, err := table.ComputeSavings("Enterprise-SaaS")
		require.NoError(t, err)
		assert.Equal(t, 37.5, res.PercentSaved)
	})

	t.Run("source failure is retryable", func(t *testing.T) {
		_, err := LoadTable(context.Background(), stubSource{err: errors.New("connection refused")}, log)
		require.Error(t, err)

		var stdErr *apperrors.StandardError
		require.True(t, errors.As(err, &stdErr))
		assert.Equal(t, apperrors.ErrCodeProfileSourceFailed, stdErr.Code)
		assert.True(t, stdErr.Retryable)
	})

	t.Run("invalid rows", func(t *testing.T) {
		_, err := LoadTable(context.Background(), stubSource{rows: []calculator.BusinessProfile{
			{ID: "agency", BaselineHours: 10, SavedHours: 20},
		}}, log)
		require.Error(t, err)

		var stdErr *apperrors.StandardError
		require.True(t, errors.As(err, &stdErr))
		assert.Equal(t, apperrors.ErrCodeProfileTableInvalid, stdErr.Code)
	})
}
