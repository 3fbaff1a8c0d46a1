package selecthighlight

import (
	"context"
	"fmt"
	"time"

	"consultancy-workers/internal/common/config"
	"consultancy-workers/internal/common/errors"
	"consultancy-workers/internal/common/logger"
	"consultancy-workers/internal/common/metrics"
	"consultancy-workers/internal/common/observability"
	"consultancy-workers/internal/highlight"
	"consultancy-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "select-highlight"

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
	Card          *highlight.Card
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
		card := opts.Card
		if card == nil && opts.AppConfig != nil {
			var err error
			if card, err = CardFromConfig(opts.AppConfig.Highlight); err != nil {
				return nil, fmt.Errorf("invalid highlight variants: %w", err)
			}
		}
		h.service = NewService(card, log)
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

	h.logger.Info("Processing highlight selection", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err, startTime)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err, startTime)
		return
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		h.recordFailure(ctx, err, startTime)
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err,
		})
		return
	}

	duration := time.Since(startTime)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(duration.Seconds())
	h.observability.RecordJob(ctx, TaskType, "completed", duration)

	h.logger.Info("Highlight selected", map[string]interface{}{
		"jobKey":  job.GetKey(),
		"variant": output.Highlight.Key,
	})
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
	if v, ok := variables["variant"].(string); ok {
		input.Variant = v
	}
	if t, ok := variables["toggle"].(bool); ok {
		input.Toggle = t
	}
	return input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	_, err = cmd.Send(ctx)
	return err
}

func (h *Handler) recordFailure(ctx context.Context, err error, startTime time.Time) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	h.observability.RecordJob(ctx, TaskType, "failed", time.Since(startTime))
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, startTime time.Time) {
	h.recordFailure(ctx, err, startTime)

	// The job context may already be spent; reporting the failure gets its own.
	reportCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if sendErr := h.errorHandler.HandleJobError(reportCtx, client, job, err); sendErr != nil {
		h.logger.Error("Failed to report job error", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  sendErr,
		})
	}
}
