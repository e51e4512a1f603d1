package camunda

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// CompleteJob completes job with output serialised as process variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("build complete command for job %d: %w", job.Key, err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return mapZeebeError(err, "complete_job", 0)
	}
	return nil
}
