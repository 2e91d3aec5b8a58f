package db

import (
	"context"

	"github.com/edubba/edubba/pkg/domain"
)

type DecisionInterface interface {
	// Record commits a decision on a claim: it appends the new head to
	// the claim's decision chain and re-adjudicates the consensus on the
	// claim's target, all in one transaction.
	//
	// Args
	//
	// - context.Context
	//
	// - domain.DecisionSpec: the verdict to commit. Its Supersedes has
	// to cite the chain head the decider saw (nil for a claim never
	// decided before).
	//
	// Returns
	//
	// - domain.RecordResult: the new chain head and the claim as the
	// adjudication left it.
	//
	// - error:
	// domain.ErrDecisionOutdated (when the chain has advanced past the
	// cited head; re-read the claim and retry against the new head),
	// ErrMissing (when the claim is not found),
	// ErrInvalid (when the spec does not validate).
	Record(ctx context.Context, spec domain.DecisionSpec) (domain.RecordResult, error)

	// ListByClaim lists the decision chain of a claim, newest first.
	//
	// Args
	//
	// - context.Context
	//
	// - string: claim id
	//
	// Returns
	//
	// - []domain.Decision
	//
	// - error: ErrMissing when the claim is not found.
	ListByClaim(ctx context.Context, claimId string) ([]domain.Decision, error)
}
