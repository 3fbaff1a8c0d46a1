// pkg/calculator/savings.go
package calculator

import (
	"fmt"
	"math"
	"strings"
)

// SavingsResult is the derived metrics record for one business type.
type SavingsResult struct {
	BusinessType  string  `json:"businessType"`
	BaselineHours int     `json:"baselineHours"`
	SavedHours    int     `json:"savedHours"`
	NewHours      int     `json:"newHours"`
	PercentSaved  float64 `json:"percentSaved"`
}

// ComputeSavings looks up businessType case-insensitively and derives the
// savings metrics. Unknown types fail with *UnknownBusinessTypeError and no
// partial result.
func (t *Table) ComputeSavings(businessType string) (*SavingsResult, error) {
	key := strings.ToLower(businessType)

	profile, ok := t.Lookup(key)
	if !ok {
		return nil, &UnknownBusinessTypeError{
			Input:      businessType,
			ValidTypes: t.IDs(),
		}
	}

	newHours := profile.BaselineHours - profile.SavedHours
	if newHours < 0 {
		newHours = 0
	}

	return &SavingsResult{
		BusinessType:  key,
		BaselineHours: profile.BaselineHours,
		SavedHours:    profile.SavedHours,
		NewHours:      newHours,
		PercentSaved:  round1(float64(profile.SavedHours) / float64(profile.BaselineHours) * 100),
	}, nil
}

// ComputeSavingsValue coerces an arbitrary value (typically a decoded job
// variable) to a string before computing. nil is treated as "".
func (t *Table) ComputeSavingsValue(v interface{}) (*SavingsResult, error) {
	return t.ComputeSavings(coerce(v))
}

// ComputeSavings runs against the default table.
func ComputeSavings(businessType string) (*SavingsResult, error) {
	return defaultTable.ComputeSavings(businessType)
}

func coerce(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// round1 rounds half away from zero to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
