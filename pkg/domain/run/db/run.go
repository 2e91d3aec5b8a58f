package db

import (
	"context"

	"github.com/edubba/edubba/pkg/domain"
)

type RunInterface interface {
	// Register records a new annotation run and issues its run id.
	//
	// Args
	//
	// - context.Context
	//
	// - domain.RunSpec: profile of the producer opening the run.
	//
	// Returns
	//
	// - domain.Run: the run as registered.
	//
	// - error: ErrInvalid when the spec breaks the source_type rules.
	Register(ctx context.Context, spec domain.RunSpec) (domain.Run, error)

	// Get retrieves runs.
	//
	// Args
	//
	// - context.Context
	//
	// - []string: run ids
	//
	// Returns
	//
	// - map[string]domain.Run: mapping runId->Run.
	// Ids without a run are just omitted.
	//
	// - error
	Get(ctx context.Context, runIds []string) (map[string]domain.Run, error)
}
