package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/edubba/edubba/cmd/loops/recurring"
	"github.com/edubba/edubba/cmd/loops/tasks/evidencecheck"
	"github.com/edubba/edubba/cmd/loops/tasks/pipeline"
	"github.com/edubba/edubba/pkg/domain/edubba"
	"github.com/edubba/edubba/pkg/loop"
)

// LoopType names the background loops this daemon can run.
type LoopType string

const (
	LoopPipeline      LoopType = "pipeline"
	LoopEvidenceCheck LoopType = "evidencecheck"
)

func (t LoopType) String() string {
	return string(t)
}

func AsLoopType(s string) (LoopType, error) {
	switch t := LoopType(s); t {
	case LoopPipeline, LoopEvidenceCheck:
		return t, nil
	default:
		return "", fmt.Errorf("unknown loop type: %s (should be one of -- pipeline|evidencecheck)", s)
	}
}

type LoggerOptions func(*log.Logger) *log.Logger

func byLogger(l *log.Logger, opt ...LoggerOptions) *log.Logger {
	for _, o := range opt {
		l = o(l)
	}
	return l
}

func Copied() LoggerOptions {
	return func(l *log.Logger) *log.Logger {
		return log.New(l.Writer(), l.Prefix(), l.Flags())
	}
}

func WithPrefix(pre string) LoggerOptions {
	return func(l *log.Logger) *log.Logger {
		l.SetPrefix(pre)
		return l
	}
}

// Wrapper for monitoring loop tasks
//
//	Log the start and end of each time a task is executed. Essentially, it executes a task.
func monitor[T any](logger *log.Logger, task loop.Task[T]) loop.Task[T] {
	// counter for execution of the task
	var counter uint64
	return func(ctx context.Context, t T) (ret T, next loop.Next) {
		counter += 1
		timestamp := time.Now()

		logger.Printf("task start: #0x%X: ", counter)

		defer func() {
			logger.Printf(
				"task end: #0x%X (takes %s): %s\n with value = %#v",
				counter, time.Since(timestamp), next, ret,
			)
		}()

		ret, next = task(ctx, t)
		return
	}
}

// Manifest for starting a loop, which determines how the loop should behave.
type LoopManifest struct {
	// which loop to run
	Type LoopType

	// Policy for the looping
	Policy recurring.Policy
}

func StartLoop(
	ctx context.Context,
	logger *log.Logger,
	edb edubba.Edubba,
	manifest LoopManifest,
) error {
	switch manifest.Type {
	case LoopPipeline:
		return StartPipelineLoop(ctx, logger, edb, manifest)
	case LoopEvidenceCheck:
		return StartEvidenceCheckLoop(ctx, logger, edb, manifest)
	default:
		return fmt.Errorf("unknown loop type: %s", manifest.Type)
	}
}

// Start the loop recomputing per-artifact pipeline rollups.
func StartPipelineLoop(
	ctx context.Context,
	logger *log.Logger,
	edb edubba.Edubba,
	manifest LoopManifest,
) error {
	l := byLogger(logger, Copied(), WithPrefix("[pipeline loop]"))
	_, err := loop.Start(
		ctx, pipeline.Seed(),
		monitor(
			l,
			pipeline.Task(
				l, edb.Pipeline().Database(),
			).Applied(manifest.Policy),
		),
	)
	return err
}

// Start the loop probing evidence references for reachability.
func StartEvidenceCheckLoop(
	ctx context.Context,
	logger *log.Logger,
	edb edubba.Edubba,
	manifest LoopManifest,
) error {
	l := byLogger(logger, Copied(), WithPrefix("[evidence check loop]"))
	_, err := loop.Start(
		ctx, evidencecheck.Seed(),
		monitor(
			l,
			evidencecheck.Task(
				l, edb.Evidence().Database(), http.DefaultClient,
			).Applied(manifest.Policy),
		),
		loop.WithTimeout(30*time.Second),
	)
	return err
}
