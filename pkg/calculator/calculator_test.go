package calculator

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSavings_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected SavingsResult
	}{
		{
			name:  "freelancer",
			input: "freelancer",
			expected: SavingsResult{
				BusinessType:  "freelancer",
				BaselineHours: 40,
				SavedHours:    10,
				NewHours:      30,
				PercentSaved:  25.0,
			},
		},
		{
			name:  "startup rounds to one decimal",
			input: "startup",
			expected: SavingsResult{
				BusinessType:  "startup",
				BaselineHours: 55,
				SavedHours:    18,
				NewHours:      37,
				PercentSaved:  32.7,
			},
		},
		{
			name:  "enterprise-saas",
			input: "enterprise-saas",
			expected: SavingsResult{
				BusinessType:  "enterprise-saas",
				BaselineHours: 80,
				SavedHours:    30,
				NewHours:      50,
				PercentSaved:  37.5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ComputeSavings(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *res)
		})
	}
}

func TestComputeSavings_AllProfilesHoldInvariants(t *testing.T) {
	table := Default()

	for _, p := range table.Profiles() {
		t.Run(p.ID, func(t *testing.T) {
			res, err := table.ComputeSavings(p.ID)
			require.NoError(t, err)

			want := p.BaselineHours - p.SavedHours
			if want < 0 {
				want = 0
			}
			assert.Equal(t, want, res.NewHours)
			assert.GreaterOrEqual(t, res.NewHours, 0)

			assert.GreaterOrEqual(t, res.PercentSaved, 0.0)
			assert.LessOrEqual(t, res.PercentSaved, 100.0)
			expected := math.Round(float64(p.SavedHours)/float64(p.BaselineHours)*100*10) / 10
			assert.Equal(t, expected, res.PercentSaved)
		})
	}
}

func TestComputeSavings_CaseInsensitive(t *testing.T) {
	lower, err := ComputeSavings("agency")
	require.NoError(t, err)

	for _, in := range []string{"Agency", "AGENCY", "aGeNcY"} {
		res, err := ComputeSavings(in)
		require.NoError(t, err, in)
		assert.Equal(t, lower, res, in)
		assert.Equal(t, "agency", res.BusinessType)
	}
}

func TestComputeSavings_UnknownInput(t *testing.T) {
	table := Default()

	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "nil", input: nil, want: ""},
		{name: "nil string pointer", input: (*string)(nil), want: ""},
		{name: "nonexistent", input: "nonexistent", want: "nonexistent"},
		{name: "keeps original casing", input: "Made-Up", want: "Made-Up"},
		{name: "number", input: 42, want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := table.ComputeSavingsValue(tt.input)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnknownBusinessType))

			ute, ok := AsUnknownBusinessType(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, ute.Input)
			assert.Equal(t, table.IDs(), ute.ValidTypes)
		})
	}
}

func TestComputeSavings_MadeUpMessageListsIDs(t *testing.T) {
	_, err := ComputeSavings("made-up")
	require.Error(t, err)
	assert.Equal(t,
		`unknown business type "made-up": valid types are freelancer, agency, enterprise-saas, ecommerce, coach, startup`,
		err.Error())
}

func TestComputeSavings_WrappedErrorStillMatches(t *testing.T) {
	_, err := ComputeSavings("nope")
	wrapped := fmt.Errorf("compute: %w", err)

	ute, ok := AsUnknownBusinessType(wrapped)
	require.True(t, ok)
	assert.Equal(t, "nope", ute.Input)
}

func TestComputeSavings_Idempotent(t *testing.T) {
	first, err := ComputeSavings("coach")
	require.NoError(t, err)
	second, err := ComputeSavings("coach")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)

	first.SavedHours = 999
	third, err := ComputeSavings("coach")
	require.NoError(t, err)
	assert.Equal(t, 8, third.SavedHours)
}

func TestComputeSavings_ValidTypesNotShared(t *testing.T) {
	_, err := ComputeSavings("x")
	ute, _ := AsUnknownBusinessType(err)
	ute.ValidTypes[0] = "tampered"

	assert.Equal(t, "freelancer", Default().IDs()[0])
}

func TestComputeSavings_Concurrent(t *testing.T) {
	table := Default()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := table.IDs()[i%table.Len()]
			res, err := table.ComputeSavings(id)
			assert.NoError(t, err)
			assert.Equal(t, id, res.BusinessType)
		}(i)
	}
	wg.Wait()
}

func TestNewTable_Validation(t *testing.T) {
	tests := []struct {
		name     string
		profiles []BusinessProfile
		errMsg   string
	}{
		{name: "empty", profiles: nil, errMsg: "profile table is empty"},
		{name: "missing id", profiles: []BusinessProfile{{ID: " ", BaselineHours: 1}}, errMsg: "id is required"},
		{name: "zero baseline", profiles: []BusinessProfile{{ID: "a", BaselineHours: 0}}, errMsg: "baseline hours must be positive"},
		{name: "negative saved", profiles: []BusinessProfile{{ID: "a", BaselineHours: 5, SavedHours: -1}}, errMsg: "must not be negative"},
		{name: "saved over baseline", profiles: []BusinessProfile{{ID: "a", BaselineHours: 5, SavedHours: 6}}, errMsg: "exceed baseline"},
		{
			name: "duplicate after normalization",
			profiles: []BusinessProfile{
				{ID: "Agency", BaselineHours: 5, SavedHours: 1},
				{ID: "agency", BaselineHours: 5, SavedHours: 1},
			},
			errMsg: "duplicate id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewTable(tt.profiles)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewTable_WithoutEnterpriseSaaS(t *testing.T) {
	table, err := NewTable([]BusinessProfile{
		{ID: "Freelancer", BaselineHours: 40, SavedHours: 10},
		{ID: "startup", BaselineHours: 55, SavedHours: 18},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"freelancer", "startup"}, table.IDs())

	_, err = table.ComputeSavings("enterprise-saas")
	ute, ok := AsUnknownBusinessType(err)
	require.True(t, ok)
	assert.Equal(t, []string{"freelancer", "startup"}, ute.ValidTypes)
}

func TestNewTable_FullSavingsGivesZeroNewHours(t *testing.T) {
	table := MustNewTable([]BusinessProfile{{ID: "bot", BaselineHours: 12, SavedHours: 12}})

	res, err := table.ComputeSavings("BOT")
	require.NoError(t, err)
	assert.Equal(t, 0, res.NewHours)
	assert.Equal(t, 100.0, res.PercentSaved)
}

func TestMustNewTable_Panics(t *testing.T) {
	assert.Panics(t, func() { MustNewTable(nil) })
}

func TestEvaluate(t *testing.T) {
	ok := Default().Evaluate("Ecommerce")
	require.True(t, ok.OK())
	assert.Nil(t, ok.Unknown)
	assert.Equal(t, "ecommerce", ok.Result.BusinessType)
	assert.Equal(t, 35, ok.Result.NewHours)
	assert.Equal(t, 30.0, ok.Result.PercentSaved)

	bad := Default().Evaluate("")
	assert.False(t, bad.OK())
	assert.Nil(t, bad.Result)
	require.NotNil(t, bad.Unknown)
	assert.Equal(t, Default().IDs(), bad.Unknown.ValidTypes)
}

func TestEvaluateValue(t *testing.T) {
	ok := Default().EvaluateValue("AGENCY")
	require.True(t, ok.OK())
	assert.Equal(t, "agency", ok.Result.BusinessType)

	tests := []struct {
		in   interface{}
		want string
	}{
		{float64(42), "42"},
		{nil, ""},
		{true, "true"},
		{strings.Repeat("a", 65), strings.Repeat("a", 65)},
	}
	for _, tt := range tests {
		out := Default().EvaluateValue(tt.in)
		assert.False(t, out.OK())
		require.NotNil(t, out.Unknown)
		assert.Equal(t, tt.want, out.Unknown.Input)
	}
}

func TestRound1_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 0.3, round1(0.25))
	assert.Equal(t, -0.3, round1(-0.25))
	assert.Equal(t, 26.7, round1(26.66666))
}
