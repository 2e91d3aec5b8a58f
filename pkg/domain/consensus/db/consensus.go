package db

import (
	"context"

	"github.com/edubba/edubba/pkg/domain"
)

type ConsensusInterface interface {
	// Resolve reports the consensus view of a target entity.
	//
	// When a claim on the target is flagged authoritative, the result is
	// decided and carries that claim. The flag is found by one indexed
	// lookup, so resolving a decided target never scans its competitors.
	//
	// Args
	//
	// - context.Context
	//
	// - domain.TargetRef: the target entity, qualified by claim kind.
	//
	// Returns
	//
	// - domain.ConsensusResult: decided (with the authoritative claim),
	// ambiguous (with the competing claims, ranked) or unannotated.
	//
	// - error: ErrMissing when the target entity does not exist.
	Resolve(ctx context.Context, target domain.TargetRef) (domain.ConsensusResult, error)
}
