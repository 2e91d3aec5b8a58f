package db

import (
	"context"

	"github.com/edubba/edubba/pkg/domain"
)

type ClaimInterface interface {
	// Register records a new claim.
	//
	// Claims from an import run may be accepted outright in the same
	// transaction, when they outrank the current consensus on their
	// target (see domain.ImportAutoAccept).
	//
	// Args
	//
	// - context.Context
	//
	// - domain.ClaimSpec: the assertion to record.
	//
	// Returns
	//
	// - domain.Claim: the claim as registered, decision chain included.
	//
	// - error:
	// domain.ErrClaimExists (when the producing run has already asserted
	// the same fact about the same target; it carries the id of the
	// existing claim),
	// domain.ErrInvalidTarget (when the target entity does not exist),
	// ErrMissing (when the run is not found),
	// ErrInvalid (when the spec does not validate).
	Register(ctx context.Context, spec domain.ClaimSpec) (domain.Claim, error)

	// Get retrieves claims, with their producing run and the head of
	// their decision chain.
	//
	// Args
	//
	// - context.Context
	//
	// - []string: claim ids
	//
	// Returns
	//
	// - map[string]domain.Claim: mapping claimId->Claim.
	// Ids without a claim are just omitted.
	//
	// - error
	Get(ctx context.Context, claimIds []string) (map[string]domain.Claim, error)

	// ListByTarget lists the claims asserted on one target entity,
	// newest run first.
	//
	// Args
	//
	// - context.Context
	//
	// - domain.TargetRef: the target entity.
	//
	// Returns
	//
	// - []domain.Claim
	//
	// - error: ErrMissing when the target entity does not exist.
	ListByTarget(ctx context.Context, target domain.TargetRef) ([]domain.Claim, error)
}
