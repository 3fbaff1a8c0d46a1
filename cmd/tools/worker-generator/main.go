// cmd/tools/worker-generator/main.go
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"consultancy-workers/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Name         string
	PackageName  string
	TaskType     string
	Category     string
	Description  string
	ErrorCodes   []string
	InputFields  []Field
	OutputFields []Field
	InputSchema  string
}

// Field is one top-level schema property turned into a struct field.
type Field struct {
	GoName  string
	GoType  string
	JSONTag string
	Comment string
}

func goTypeFromJSONType(jsonType interface{}) string {
	switch jt := jsonType.(type) {
	case string:
		switch jt {
		case "string":
			return "string"
		case "integer":
			return "int"
		case "number":
			return "float64"
		case "boolean":
			return "bool"
		case "object":
			return "map[string]interface{}"
		case "array":
			return "[]interface{}"
		}
	case []interface{}:
		// ["string", "null"] and friends: the first non-null type wins.
		for _, t := range jt {
			if s, ok := t.(string); ok && s != "null" {
				return goTypeFromJSONType(s)
			}
		}
	}
	return "interface{}"
}

// fieldsFromSchema extracts sorted struct fields from a schema's properties.
func fieldsFromSchema(schema map[string]interface{}) []Field {
	props, _ := schema["properties"].(map[string]interface{})
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		details, ok := props[name].(map[string]interface{})
		if !ok {
			continue
		}
		desc, _ := details["description"].(string)
		fields = append(fields, Field{
			GoName:  goName(name),
			GoType:  goTypeFromJSONType(details["type"]),
			JSONTag: fmt.Sprintf("`json:\"%s\"`", name),
			Comment: desc,
		})
	}
	return fields
}

// goName turns "business-type" or "businessType" into "BusinessType".
func goName(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}

const configTemplate = `package {{ .PackageName }}

import (
	"fmt"
	"time"

	"consultancy-workers/internal/common/config"
)

type Config struct {
	Enabled        bool          ` + "`mapstructure:\"enabled\"`" + `
	MaxJobsActive  int           ` + "`mapstructure:\"max_jobs_active\"`" + `
	Timeout        time.Duration ` + "`mapstructure:\"timeout\"`" + `
	ValidateOutput bool          ` + "`mapstructure:\"validate_output\"`" + `
}

func DefaultConfig() *Config {
	return &Config{Enabled: true, MaxJobsActive: 5, Timeout: 5 * time.Second, ValidateOutput: true}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, custom *Config) *Config {
	if custom != nil {
		return custom
	}
	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}
	wc := config.GetWorkerConfig(appConfig, TaskType)
	cfg.Enabled = wc.Enabled
	cfg.ValidateOutput = wc.ValidateOutput
	if wc.MaxJobsActive > 0 {
		cfg.MaxJobsActive = wc.MaxJobsActive
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
`

const modelsTemplate = `package {{ .PackageName }}

type Input struct {
{{- range .InputFields }}
	{{ .GoName }} {{ .GoType }} {{ .JSONTag }}{{ if .Comment }} // {{ .Comment }}{{ end }}
{{- end }}
}

type Output struct {
{{- range .OutputFields }}
	{{ .GoName }} {{ .GoType }} {{ .JSONTag }}{{ if .Comment }} // {{ .Comment }}{{ end }}
{{- end }}
}
`

const validationTemplate = `package {{ .PackageName }}

import "consultancy-workers/internal/common/validation"

var inputSchema = validation.MustCompile(` + "`{{ .InputSchema }}`" + `)

func GetInputSchema() *validation.Schema {
	return inputSchema
}
`

const serviceTemplate = `package {{ .PackageName }}

import (
	"context"

	"consultancy-workers/internal/common/errors"
	"consultancy-workers/internal/common/logger"
)

type ServiceInterface interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}

type Service struct {
	logger logger.Logger
}

func NewService(log logger.Logger) *Service {
	return &Service{logger: log}
}

// Execute implements {{ .Name }}: {{ .Description }}
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, errors.NewInternalError(errNotImplemented)
}
`

const handlerTemplate = `package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"consultancy-workers/internal/common/config"
	"consultancy-workers/internal/common/errors"
	"consultancy-workers/internal/common/logger"
	"consultancy-workers/internal/common/metrics"
	"consultancy-workers/internal/common/observability"
	"consultancy-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "{{ .TaskType }}"

var errNotImplemented = stderrors.New("{{ .TaskType }} is not implemented")

// Possible BPMN error codes:{{ range .ErrorCodes }} {{ . }}{{ end }}

type Handler struct {
	config        *Config
	logger        logger.Logger
	service       ServiceInterface
	errorHandler  *errors.ErrorHandler
	activity      *registry.Activity
	observability *observability.Observability
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Registry      *registry.ActivityRegistry
	Observability *observability.Observability
	Logger        logger.Logger
	Service       ServiceInterface
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"worker": TaskType})

	h := &Handler{
		config:        workerConfig,
		logger:        log,
		service:       opts.Service,
		errorHandler:  errors.NewErrorHandler(log),
		observability: opts.Observability,
	}
	if h.service == nil {
		h.service = NewService(log)
	}
	if opts.Registry != nil {
		activity, ok := opts.Registry.Find(TaskType)
		if !ok && workerConfig.ValidateOutput {
			return nil, fmt.Errorf("activity registry has no entry for %s", TaskType)
		}
		h.activity = activity
	}
	return h, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err == nil {
		var output *Output
		if output, err = h.Execute(ctx, input); err == nil {
			err = h.completeJob(ctx, client, job, output)
			if err == nil {
				duration := time.Since(startTime)
				metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
				metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(duration.Seconds())
				h.observability.RecordJob(ctx, TaskType, "completed", duration)
				return
			}
			h.logger.Error("Failed to complete job", map[string]interface{}{"jobKey": job.GetKey(), "error": err})
			return
		}
	}

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	failCtx, failCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer failCancel()
	h.observability.RecordJob(failCtx, TaskType, "failed", time.Since(startTime))
	if sendErr := h.errorHandler.HandleJobError(failCtx, client, job, err); sendErr != nil {
		h.logger.Error("Failed to report job error", map[string]interface{}{"jobKey": job.GetKey(), "error": sendErr})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output, err := h.service.Execute(ctx, input)
	if err != nil {
		return nil, err
	}
	if h.config.ValidateOutput && h.activity != nil {
		if err := h.activity.ValidateOutput(output); err != nil {
			return nil, errors.NewOutputSchemaViolationError(TaskType, err)
		}
	}
	return output, nil
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}
	result, err := GetInputSchema().Validate(variables)
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}
	if !result.Valid {
		return nil, errors.NewValidationFailedError(result.GetErrorMessages())
	}

	input := &Input{}
	if err := json.Unmarshal([]byte(job.GetVariables()), input); err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}
	return input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		return err
	}
	_, err = cmd.Send(ctx)
	return err
}
`

var templates = []struct {
	name string
	body string
}{
	{"config.go", configTemplate},
	{"models.go", modelsTemplate},
	{"validation.go", validationTemplate},
	{"service.go", serviceTemplate},
	{"handler.go", handlerTemplate},
}

// workerData prepares template data for one registry activity.
func workerData(a *registry.Activity) (WorkerData, error) {
	inputSchema := a.InputSchema
	if inputSchema == nil {
		inputSchema = map[string]interface{}{"type": "object"}
	}
	raw, err := json.MarshalIndent(inputSchema, "", "  ")
	if err != nil {
		return WorkerData{}, fmt.Errorf("failed to encode input schema: %w", err)
	}
	if bytes.ContainsRune(raw, '`') {
		return WorkerData{}, fmt.Errorf("input schema of %s contains a backtick", a.ID)
	}

	return WorkerData{
		Name:         a.DisplayName,
		PackageName:  strings.ReplaceAll(a.ID, "-", ""),
		TaskType:     a.TaskType,
		Category:     a.Category,
		Description:  strings.TrimSpace(a.Description),
		ErrorCodes:   a.ErrorCodes,
		InputFields:  fieldsFromSchema(a.InputSchema),
		OutputFields: fieldsFromSchema(a.OutputSchema),
		InputSchema:  string(raw),
	}, nil
}

// generate writes a worker scaffold for activityID under
// outputDir/<category>/<id> and returns the written paths. Existing files
// are never overwritten.
func generate(reg *registry.ActivityRegistry, activityID, outputDir string) ([]string, error) {
	activity, ok := reg.FindByID(activityID)
	if !ok {
		return nil, fmt.Errorf("activity %q not found in registry", activityID)
	}
	if activity.TaskType == "" {
		return nil, fmt.Errorf("activity %q has no task type", activityID)
	}

	data, err := workerData(activity)
	if err != nil {
		return nil, err
	}

	workerDir := filepath.Join(outputDir, strings.ToLower(activity.Category), activity.ID)
	if err := os.MkdirAll(workerDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", workerDir, err)
	}

	var written []string
	for _, t := range templates {
		tmpl, err := template.New(t.name).Parse(t.body)
		if err != nil {
			return written, fmt.Errorf("failed to parse template %s: %w", t.name, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return written, fmt.Errorf("failed to render %s: %w", t.name, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return written, fmt.Errorf("generated %s does not parse: %w", t.name, err)
		}

		path := filepath.Join(workerDir, t.name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err != nil {
			return written, fmt.Errorf("failed to create %s: %w", path, err)
		}
		_, err = f.Write(src)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func main() {
	activity := flag.String("activity", "", "Activity ID from registry (e.g., compute-savings)")
	outputDir := flag.String("output", "./internal/workers/", "Output directory for the generated worker")
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to the activity registry JSON file")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator --activity <id> [--output <dir>] [--registry <path>]")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}

	written, err := generate(reg, *activity, *outputDir)
	for _, path := range written {
		fmt.Printf("✓ Generated %s\n", path)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Implement Execute in service.go\n")
	fmt.Printf("  2. Add handler_test.go using internal/common/camunda/camundatest\n")
	fmt.Printf("  3. Register the handler in cmd/worker-manager/main.go\n")
	fmt.Printf("  4. Add workers.%s to configs/config.yaml\n", *activity)
}
