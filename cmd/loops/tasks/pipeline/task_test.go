package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/edubba/edubba/cmd/loops/tasks/pipeline"
	"github.com/edubba/edubba/pkg/domain"
	pipelinemock "github.com/edubba/edubba/pkg/domain/pipeline/db/mock"
)

func TestTask(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	t.Run("when an artifact is recomputed, it continues with the backlog", func(t *testing.T) {
		ipipeline := pipelinemock.NewPipelineInterface()
		ipipeline.Impl.PickAndCompute = func(_ context.Context, callback func(domain.PipelineStatus) error) (bool, error) {
			if err := callback(domain.PipelineStatus{ArtifactId: 9, QualityScore: 0.62}); err != nil {
				return true, err
			}
			return true, nil
		}

		testee := pipeline.Task(logger, ipipeline)

		recomputed, ok, err := testee(context.Background(), pipeline.Seed())
		if err != nil {
			t.Fatalf("task causes error: %+v", err)
		}
		if !ok {
			t.Error("task should report backlog")
		}
		if recomputed != 1 {
			t.Errorf("recomputed count should be 1. actual = %d", recomputed)
		}
	})

	t.Run("when the queue is empty, it reports no backlog", func(t *testing.T) {
		ipipeline := pipelinemock.NewPipelineInterface()
		ipipeline.Impl.PickAndCompute = func(context.Context, func(domain.PipelineStatus) error) (bool, error) {
			return false, nil
		}

		testee := pipeline.Task(logger, ipipeline)

		recomputed, ok, err := testee(context.Background(), 3)
		if err != nil {
			t.Fatalf("task causes error: %+v", err)
		}
		if ok {
			t.Error("task should report no backlog")
		}
		if recomputed != 3 {
			t.Errorf("recomputed count should stay 3. actual = %d", recomputed)
		}
	})

	t.Run("when a recomputation fails, it logs and carries on", func(t *testing.T) {
		ipipeline := pipelinemock.NewPipelineInterface()
		ipipeline.Impl.PickAndCompute = func(context.Context, func(domain.PipelineStatus) error) (bool, error) {
			return true, errors.New("division by zero layer")
		}

		testee := pipeline.Task(logger, ipipeline)

		recomputed, ok, err := testee(context.Background(), pipeline.Seed())
		if err != nil {
			t.Fatalf("a failed recomputation should not break the loop: %+v", err)
		}
		if !ok {
			t.Error("task should keep draining the queue")
		}
		if recomputed != 1 {
			t.Errorf("the consumed entry should count. actual = %d", recomputed)
		}
	})

	t.Run("when the database is unreachable, it breaks with the error", func(t *testing.T) {
		fakeError := errors.New("fake error")
		ipipeline := pipelinemock.NewPipelineInterface()
		ipipeline.Impl.PickAndCompute = func(context.Context, func(domain.PipelineStatus) error) (bool, error) {
			return false, fakeError
		}

		testee := pipeline.Task(logger, ipipeline)

		_, ok, err := testee(context.Background(), pipeline.Seed())
		if !errors.Is(err, fakeError) {
			t.Fatalf("task should propagate the error. actual = %+v", err)
		}
		if ok {
			t.Error("task should not report backlog on error")
		}
	})
}
