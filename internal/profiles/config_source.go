package profiles

import (
	"context"

	"consultancy-workers/internal/common/config"
	"consultancy-workers/pkg/calculator"
)

// ConfigSource serves the inline calculator.profiles rows, or the built-in
// table when none are configured.
type ConfigSource struct {
	rows []config.ProfileConfig
}

func NewConfigSource(rows []config.ProfileConfig) *ConfigSource {
	return &ConfigSource{rows: rows}
}

func (s *ConfigSource) Name() string { return config.ProfileSourceConfig }

func (s *ConfigSource) Load(context.Context) ([]calculator.BusinessProfile, error) {
	if len(s.rows) == 0 {
		return append([]calculator.BusinessProfile(nil), calculator.DefaultProfiles...), nil
	}

	out := make([]calculator.BusinessProfile, len(s.rows))
	for i, r := range s.rows {
		out[i] = calculator.BusinessProfile{
			ID:            r.ID,
			BaselineHours: r.BaselineHours,
			SavedHours:    r.SavedHours,
		}
	}
	return out, nil
}
