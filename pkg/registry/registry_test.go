package registry

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shippedRegistryPath(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "configs", "activity-registry.json")
}

func TestShippedRegistryIsValid(t *testing.T) {
	reg, err := LoadRegistry(shippedRegistryPath(t))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{"compute-savings", "select-highlight"} {
		a, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.NotEmpty(t, a.OutputSchema)
	}
}

func TestComputeSavingsOutputSchema(t *testing.T) {
	reg, err := LoadRegistry(shippedRegistryPath(t))
	require.NoError(t, err)
	a, ok := reg.Find("compute-savings")
	require.True(t, ok)

	valid := map[string]interface{}{
		"savings": map[string]interface{}{
			"businessType": "agency", "baselineHours": 60, "savedHours": 20,
			"newHours": 40, "percentSaved": 33.3,
		},
		"display": map[string]interface{}{
			"baselineHours": "60", "savedHours": "20", "newHours": "40", "percentSaved": "33.3%",
		},
	}
	assert.NoError(t, a.ValidateOutput(valid))

	missing := map[string]interface{}{"savings": valid["savings"]}
	err = a.ValidateOutput(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display")

	tooMuch := map[string]interface{}{
		"savings": map[string]interface{}{
			"businessType": "agency", "baselineHours": 60, "savedHours": 20,
			"newHours": 40, "percentSaved": 133.3,
		},
		"display": valid["display"],
	}
	assert.Error(t, a.ValidateOutput(tooMuch))

	assert.NoError(t, a.ValidateInput(map[string]interface{}{"businessType": nil}))
	assert.NoError(t, a.ValidateInput(map[string]interface{}{"businessType": 7}))
	assert.Error(t, a.ValidateInput([]interface{}{"agency"}))
}

func TestValidate(t *testing.T) {
	base := func() Activity {
		return Activity{ID: "a", DisplayName: "A", TaskType: "a", Category: "c"}
	}

	tests := []struct {
		name    string
		reg     ActivityRegistry
		wantErr string
	}{
		{"empty", ActivityRegistry{}, "no activities"},
		{"missing id", ActivityRegistry{Activities: []Activity{{DisplayName: "A", TaskType: "a", Category: "c"}}}, "ID"},
		{"missing task type", ActivityRegistry{Activities: []Activity{{ID: "a", DisplayName: "A", Category: "c"}}}, "TaskType"},
		{"duplicate id", ActivityRegistry{Activities: []Activity{base(), base()}}, "duplicate activity ID"},
		{"bad schema", ActivityRegistry{Activities: []Activity{func() Activity {
			a := base()
			a.OutputSchema = map[string]interface{}{"type": "objekt"}
			return a
		}()}}, "outputSchema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAddSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")

	reg := New()
	require.NoError(t, reg.Add(Activity{ID: "compute-savings", DisplayName: "Compute Savings", TaskType: "compute-savings", Category: "consultancy"}))
	assert.Error(t, reg.Add(Activity{ID: "compute-savings", TaskType: "other"}))
	assert.Error(t, reg.Add(Activity{ID: "other", TaskType: "compute-savings"}))

	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg.Activities, loaded.Activities)

	a, ok := loaded.FindByID("compute-savings")
	require.True(t, ok)
	assert.Nil(t, a.OutputSchema)
	assert.NoError(t, a.ValidateOutput(map[string]interface{}{"anything": true}))

	_, ok = loaded.Find("missing")
	assert.False(t, ok)
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
