// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// New returns an empty registry stamped with the current time.
func New() *ActivityRegistry {
	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Activities:  []Activity{},
	}
}

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry as indented JSON, creating parent directories.
func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Touch bumps LastUpdated.
func (r *ActivityRegistry) Touch() {
	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)
}

// Find returns the activity bound to taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// FindByID returns the activity with the given registry id.
func (r *ActivityRegistry) FindByID(id string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Add appends a, refusing duplicate ids or task types.
func (r *ActivityRegistry) Add(a Activity) error {
	if _, ok := r.FindByID(a.ID); ok {
		return fmt.Errorf("activity with ID %s already exists", a.ID)
	}
	if _, ok := r.Find(a.TaskType); ok {
		return fmt.Errorf("task type %s is already registered", a.TaskType)
	}
	r.Activities = append(r.Activities, a)
	r.Touch()
	return nil
}

// Validate checks required fields and uniqueness, then compiles every
// declared schema.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, a := range r.Activities {
		switch {
		case a.ID == "":
			return fmt.Errorf("activity missing required field: ID")
		case a.DisplayName == "":
			return fmt.Errorf("activity %s missing required field: DisplayName", a.ID)
		case a.TaskType == "":
			return fmt.Errorf("activity %s missing required field: TaskType", a.ID)
		case a.Category == "":
			return fmt.Errorf("activity %s missing required field: Category", a.ID)
		case ids[a.ID]:
			return fmt.Errorf("duplicate activity ID: %s", a.ID)
		case taskTypes[a.TaskType]:
			return fmt.Errorf("duplicate task type: %s", a.TaskType)
		}
		ids[a.ID] = true
		taskTypes[a.TaskType] = true
	}

	return r.ValidateSchemas()
}

// ValidateSchemas compiles every non-empty input and output schema.
func (r *ActivityRegistry) ValidateSchemas() error {
	var problems []string
	for _, a := range r.Activities {
		for name, schema := range map[string]map[string]interface{}{
			"inputSchema":  a.InputSchema,
			"outputSchema": a.OutputSchema,
		} {
			if len(schema) == 0 {
				continue
			}
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
				problems = append(problems, fmt.Sprintf("%s.%s: %v", a.ID, name, err))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid schemas: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ValidateOutput checks data against the activity's output schema. An
// activity without an output schema accepts anything.
func (a *Activity) ValidateOutput(data interface{}) error {
	return validateAgainst(a.OutputSchema, data)
}

// ValidateInput checks data against the activity's input schema.
func (a *Activity) ValidateInput(data interface{}) error {
	return validateAgainst(a.InputSchema, data)
}

func validateAgainst(schema map[string]interface{}, data interface{}) error {
	if len(schema) == 0 {
		return nil
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(data))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("data validation failed: %v", errs)
	}
	return nil
}
