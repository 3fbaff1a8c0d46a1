package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const businessTypeSchema = `{
  "type": "object",
  "properties": {
    "businessType": {"type": ["string", "null"]}
  },
  "required": ["businessType"]
}`

func TestValidate(t *testing.T) {
	s := MustCompile(businessTypeSchema)

	tests := []struct {
		name     string
		doc      map[string]interface{}
		valid    bool
		errField string
		errCode  string
	}{
		{"string value", map[string]interface{}{"businessType": "agency"}, true, "", ""},
		{"null value", map[string]interface{}{"businessType": nil}, true, "", ""},
		{"missing", map[string]interface{}{}, false, "businessType", "REQUIRED"},
		{"wrong type", map[string]interface{}{"businessType": 42}, false, "businessType", "INVALID_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Validate(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				require.NotEmpty(t, res.Errors)
				assert.True(t, res.HasErrors(tt.errField), "errors: %v", res.GetErrorMessages())
				assert.Equal(t, tt.errCode, res.Errors[0].Code)
			}
		})
	}
}

func TestCompileRejectsBadSchema(t *testing.T) {
	_, err := Compile(`{"type": "objekt"}`)
	assert.Error(t, err)

	assert.Panics(t, func() { MustCompile(`not json`) })
}

func TestGetErrorMessages(t *testing.T) {
	vr := &ValidationResult{Errors: []ValidationError{{Field: "a", Message: "bad"}}}
	assert.Equal(t, []string{"a: bad"}, vr.GetErrorMessages())
}
