package camunda

import (
	"context"
	"time"

	"guard-matching/internal/common/config"
	"guard-matching/internal/common/errors"
	"guard-matching/internal/common/metrics"
	"guard-matching/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// JobHandler is implemented by every worker. The returned error has already
// been reported to the broker; it is only used for instrumentation.
type JobHandler interface {
	Handle(ctx context.Context, client worker.JobClient, job entities.Job) error
}

// Instrument adapts h to the zeebe handler signature, wrapping each job in a
// span and recording the job metrics under taskType.
func Instrument(taskType string, h JobHandler, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		ctx, span := obs.StartSpan(context.Background(), taskType,
			attribute.Int64("job.key", job.Key),
			attribute.Int64("process.instance.key", job.ProcessInstanceKey),
		)
		defer span.End()

		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		start := time.Now()
		err := h.Handle(ctx, client, job)
		elapsed := time.Since(start)

		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())

		status := "completed"
		if err != nil {
			status = "failed"
			code := errors.Normalize(err).Code
			metrics.WorkerJobsFailed.WithLabelValues(taskType, string(code)).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, string(code))
		} else {
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		}

		obs.RecordJobProcessed(ctx, taskType, status)
		obs.RecordJobDuration(ctx, taskType, elapsed, status)
	}
}

// StartWorker opens a job worker for taskType with the per-worker limits.
func StartWorker(client zbc.Client, taskType string, cfg config.WorkerConfig, handler worker.JobHandler) worker.JobWorker {
	return client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(cfg.MaxJobsActive).
		Timeout(config.GetDuration(cfg.Timeout)).
		Open()
}
