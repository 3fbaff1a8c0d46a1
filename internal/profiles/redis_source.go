package profiles

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"consultancy-workers/internal/common/config"
	"consultancy-workers/pkg/calculator"

	"github.com/redis/go-redis/v9"
)

// RedisSource reads the table from two keys:
//
//	<key>        hash   id -> "baseline:saved"
//	<key>:order  list   ids in display order
type RedisSource struct {
	client *redis.Client
	key    string
}

func NewRedisSource(client *redis.Client, key string) *RedisSource {
	return &RedisSource{client: client, key: key}
}

func (s *RedisSource) Name() string { return config.ProfileSourceRedis }

func (s *RedisSource) OrderKey() string { return s.key + ":order" }

func (s *RedisSource) Load(ctx context.Context) ([]calculator.BusinessProfile, error) {
	order, err := s.client.LRange(ctx, s.OrderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.OrderKey(), err)
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("%s is empty", s.OrderKey())
	}

	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}

	out := make([]calculator.BusinessProfile, 0, len(order))
	for _, id := range order {
		raw, ok := values[id]
		if !ok {
			return nil, fmt.Errorf("profile %q listed in %s but missing from %s", id, s.OrderKey(), s.key)
		}
		baseline, saved, err := parseHours(raw)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", id, err)
		}
		out = append(out, calculator.BusinessProfile{ID: id, BaselineHours: baseline, SavedHours: saved})
	}
	return out, nil
}

// Store writes profiles in the layout Load expects, replacing both keys.
func (s *RedisSource) Store(ctx context.Context, profiles []calculator.BusinessProfile) error {
	fields := make(map[string]interface{}, len(profiles))
	ids := make([]interface{}, len(profiles))
	for i, p := range profiles {
		fields[p.ID] = fmt.Sprintf("%d:%d", p.BaselineHours, p.SavedHours)
		ids[i] = p.ID
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key, s.OrderKey())
		if len(profiles) > 0 {
			pipe.HSet(ctx, s.key, fields)
			pipe.RPush(ctx, s.OrderKey(), ids...)
		}
		return nil
	})
	return err
}

func parseHours(raw string) (int, int, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed value %q, want baseline:saved", raw)
	}
	baseline, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("baseline hours %q: %w", parts[0], err)
	}
	saved, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("saved hours %q: %w", parts[1], err)
	}
	return baseline, saved, nil
}
