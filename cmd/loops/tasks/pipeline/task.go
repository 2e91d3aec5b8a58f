package pipeline

import (
	"context"
	"log"

	"github.com/edubba/edubba/cmd/loops/metrics"
	"github.com/edubba/edubba/cmd/loops/recurring"
	"github.com/edubba/edubba/pkg/domain"
	kdb "github.com/edubba/edubba/pkg/domain/pipeline/db"
)

// initial value for task: artifacts recomputed so far.
func Seed() int {
	return 0
}

// Task drains the pipeline recomputation queue, one artifact per cycle.
//
// A recomputation which fails leaves the artifact flagged stale and its
// queue entry consumed, so the task logs it and carries on; only
// infrastructure errors break the loop.
func Task(
	logger *log.Logger,
	dbPipeline kdb.PipelineInterface,
) recurring.Task[int] {
	return func(ctx context.Context, recomputed int) (int, bool, error) {
		popped, err := dbPipeline.PickAndCompute(ctx, func(status domain.PipelineStatus) error {
			logger.Printf(
				"artifact %d: quality = %.4f (stale = %v)",
				status.ArtifactId, status.QualityScore, status.Stale,
			)
			return nil
		})
		if err != nil {
			if !popped {
				metrics.PipelineRecompute.WithLabelValues("error").Inc()
				return recomputed, false, err
			}

			// the artifact stays stale; it will be retried when it is
			// queued again.
			logger.Printf("recomputation failed: %s", err)
			metrics.PipelineRecompute.WithLabelValues("failed").Inc()
			return recomputed + 1, true, nil
		}
		if !popped {
			return recomputed, false, nil
		}

		metrics.PipelineRecompute.WithLabelValues("ok").Inc()
		return recomputed + 1, true, nil
	}
}
