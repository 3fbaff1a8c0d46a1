// internal/common/camunda/worker.go
package camunda

import (
	"fmt"
	"time"

	"consultancy-workers/internal/common/config"
	"consultancy-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/google/uuid"
)

// JobHandler is implemented by every worker package's Handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// JobWorkerFactory is the part of zbc.Client needed to open workers.
type JobWorkerFactory interface {
	NewJobWorker() worker.JobWorkerBuilderStep1
}

var _ JobWorkerFactory = zbc.Client(nil)

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
	name     string
}

// WorkerName builds the name reported to the broker for activated jobs.
func WorkerName(appName, taskType string) string {
	return fmt.Sprintf("%s-%s-%s", appName, taskType, uuid.NewString()[:8])
}

// StartWorker opens a job worker for taskType. It returns nil when the
// worker is disabled in configuration.
func StartWorker(
	client JobWorkerFactory,
	appName string,
	taskType string,
	wcfg config.WorkerConfig,
	handler JobHandler,
	log logger.Logger,
) *CamundaWorker {
	log = log.WithFields(map[string]interface{}{"taskType": taskType})
	if !wcfg.Enabled {
		log.Info("worker disabled", nil)
		return nil
	}

	name := WorkerName(appName, taskType)
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		Name(name).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started", map[string]interface{}{
		"worker":        name,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})

	return &CamundaWorker{
		worker:   jobWorker,
		logger:   log,
		taskType: taskType,
		name:     name,
	}
}

func (w *CamundaWorker) Name() string {
	return w.name
}

// Stop closes the job worker and waits for in-flight jobs.
func (w *CamundaWorker) Stop() {
	if w == nil {
		return
	}
	w.logger.Info("stopping worker", map[string]interface{}{"worker": w.name})
	w.worker.Close()
	w.worker.AwaitClose()
}
