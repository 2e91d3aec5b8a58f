package db

import (
	"context"

	"github.com/edubba/edubba/pkg/domain"
)

type PipelineInterface interface {
	// GetStatus reads the per-artifact rollup of consensus coverage.
	//
	// Args
	//
	// - context.Context
	//
	// - int64: artifactId
	//
	// Returns
	//
	// - domain.PipelineStatus: the stored rollup. An artifact which has
	// never been aggregated reads as all zero counters, flagged stale.
	//
	// - error: ErrMissing when the artifact does not exist.
	GetStatus(ctx context.Context, artifactId int64) (domain.PipelineStatus, error)

	// PickAndCompute pops one queued artifact and recomputes its rollup
	// from the consensus flags, in a single transaction.
	//
	// Args
	//
	// - context.Context
	//
	// - callback func(domain.PipelineStatus) error: called with the fresh
	// rollup just before it is committed.
	// If this handler returns error, the recomputation is rolled back and
	// the artifact stays queued.
	//
	// Returns
	//
	// - bool: true when an artifact was taken from the queue.
	//
	// - error: a failed recomputation. Even then the queue entry is
	// consumed and the status row is flagged stale, so that one broken
	// artifact cannot wedge the queue. The caller logs it and carries on.
	PickAndCompute(ctx context.Context, callback func(domain.PipelineStatus) error) (bool, error)
}
