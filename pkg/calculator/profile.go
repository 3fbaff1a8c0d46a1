// pkg/calculator/profile.go
package calculator

import (
	"fmt"
	"strings"
)

// BusinessProfile is one row of the lookup table.
type BusinessProfile struct {
	ID            string `json:"id" mapstructure:"id"`
	BaselineHours int    `json:"baselineHours" mapstructure:"baseline_hours"`
	SavedHours    int    `json:"savedHours" mapstructure:"saved_hours"`
}

// Table is an ordered, read-only set of business profiles. It is safe for
// concurrent use because nothing mutates it after NewTable returns.
type Table struct {
	profiles []BusinessProfile
	index    map[string]int
}

// DefaultProfiles is the table shipped with the site.
var DefaultProfiles = []BusinessProfile{
	{ID: "freelancer", BaselineHours: 40, SavedHours: 10},
	{ID: "agency", BaselineHours: 60, SavedHours: 20},
	{ID: "enterprise-saas", BaselineHours: 80, SavedHours: 30},
	{ID: "ecommerce", BaselineHours: 50, SavedHours: 15},
	{ID: "coach", BaselineHours: 30, SavedHours: 8},
	{ID: "startup", BaselineHours: 55, SavedHours: 18},
}

var defaultTable = MustNewTable(DefaultProfiles)

// Default returns the table built from DefaultProfiles.
func Default() *Table {
	return defaultTable
}

// NewTable copies profiles into a new table. IDs are lower-cased; a row is
// rejected when its ID is empty or duplicated, its baseline is not positive,
// or its saved hours fall outside [0, baseline].
func NewTable(profiles []BusinessProfile) (*Table, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile table is empty")
	}

	t := &Table{
		profiles: make([]BusinessProfile, 0, len(profiles)),
		index:    make(map[string]int, len(profiles)),
	}

	for i, p := range profiles {
		id := strings.ToLower(strings.TrimSpace(p.ID))
		switch {
		case id == "":
			return nil, fmt.Errorf("profile %d: id is required", i)
		case p.BaselineHours <= 0:
			return nil, fmt.Errorf("profile %q: baseline hours must be positive, got %d", id, p.BaselineHours)
		case p.SavedHours < 0:
			return nil, fmt.Errorf("profile %q: saved hours must not be negative, got %d", id, p.SavedHours)
		case p.SavedHours > p.BaselineHours:
			return nil, fmt.Errorf("profile %q: saved hours %d exceed baseline %d", id, p.SavedHours, p.BaselineHours)
		}
		if _, dup := t.index[id]; dup {
			return nil, fmt.Errorf("profile %q: duplicate id", id)
		}

		t.index[id] = len(t.profiles)
		t.profiles = append(t.profiles, BusinessProfile{
			ID:            id,
			BaselineHours: p.BaselineHours,
			SavedHours:    p.SavedHours,
		})
	}

	return t, nil
}

// MustNewTable is NewTable for static data; it panics on invalid rows.
func MustNewTable(profiles []BusinessProfile) *Table {
	t, err := NewTable(profiles)
	if err != nil {
		panic(err)
	}
	return t
}

// IDs returns the business type identifiers in table order.
func (t *Table) IDs() []string {
	ids := make([]string, len(t.profiles))
	for i, p := range t.profiles {
		ids[i] = p.ID
	}
	return ids
}

// Profiles returns a copy of the rows in table order.
func (t *Table) Profiles() []BusinessProfile {
	out := make([]BusinessProfile, len(t.profiles))
	copy(out, t.profiles)
	return out
}

// Lookup finds a profile by its already-normalized id.
func (t *Table) Lookup(id string) (BusinessProfile, bool) {
	i, ok := t.index[id]
	if !ok {
		return BusinessProfile{}, false
	}
	return t.profiles[i], true
}

// Len reports the number of rows.
func (t *Table) Len() int {
	return len(t.profiles)
}
