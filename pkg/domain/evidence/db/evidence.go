package db

import (
	"context"

	"github.com/edubba/edubba/pkg/domain"
)

type EvidenceInterface interface {
	// Attach appends an evidence item to a claim's ledger and queues its
	// reference for a reachability check, in one transaction.
	//
	// Args
	//
	// - context.Context
	//
	// - domain.EvidenceSpec: the item to append.
	//
	// Returns
	//
	// - domain.Evidence: the item as appended.
	//
	// - error:
	// ErrMissing (when the claim is not found),
	// ErrInvalid (when the spec does not validate).
	Attach(ctx context.Context, spec domain.EvidenceSpec) (domain.Evidence, error)

	// ListByClaim lists a claim's evidence ledger, oldest first.
	//
	// Args
	//
	// - context.Context
	//
	// - string: claim id
	//
	// Returns
	//
	// - []domain.Evidence
	//
	// - error: ErrMissing when the claim is not found.
	ListByClaim(ctx context.Context, claimId string) ([]domain.Evidence, error)

	// PopCheck pops a queued reference check.
	//
	// Args
	//
	// - context.Context
	//
	// - func(domain.EvidenceCheck) error: handler for the popped check.
	//   If this handler returns error, the popped check will be rolled back.
	//   Otherwise, it is removed from the queue.
	//
	// Returns
	//
	// - bool: if a check is popped
	//
	// - error
	PopCheck(ctx context.Context, callback func(domain.EvidenceCheck) error) (bool, error)
}
