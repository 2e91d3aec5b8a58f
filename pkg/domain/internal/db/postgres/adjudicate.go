package postgres

import (
	"context"
	"errors"
	"fmt"

	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	"github.com/edubba/edubba/pkg/domain"
	domerr "github.com/edubba/edubba/pkg/domain/errors"
	kpgerr "github.com/edubba/edubba/pkg/domain/errors/dberrors/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
)

// ClaimTarget looks up the target of the claim.
func ClaimTarget(ctx context.Context, conn kpool.Queryer, claimId string) (domain.TargetRef, error) {
	kind, id := "", int64(0)
	if err := conn.QueryRow(
		ctx,
		`select "claim_kind", `+TargetExpr+` from "claims" where "claim_id" = $1`,
		claimId,
	).Scan(&kind, &id); err != nil {
		if err == pgx.ErrNoRows {
			return domain.TargetRef{}, kpgerr.Missing{
				Table:    "claims",
				Identity: fmt.Sprintf("claim_id='%s'", claimId),
			}
		}
		return domain.TargetRef{}, err
	}
	k, err := domain.AsClaimKind(kind)
	if err != nil {
		return domain.TargetRef{}, fmt.Errorf(
			"%w: claim %s: %s", domerr.ErrConsistencyViolation, claimId, err,
		)
	}
	return domain.TargetRef{Kind: k, Id: id}, nil
}

// Adjudicate recomputes the consensus over the claims on the target from
// the heads of their decision chains, and queues the owning artifact for
// pipeline status recomputation.
//
// The caller has to run it inside a transaction.
//
// It returns the id of the claim elected as consensus, nil when the
// target is left without one.
func Adjudicate(ctx context.Context, tx kpool.Queryer, target domain.TargetRef) (*string, error) {
	if err := LockClaimsOnTarget(ctx, tx, target); err != nil {
		return nil, err
	}
	claims, err := ClaimsOnTarget(ctx, tx, target)
	if err != nil {
		return nil, err
	}

	var winnerId *string
	if winner, ok := domain.ElectConsensus(claims); ok {
		winnerId = &winner.ClaimId
	}

	if _, err := tx.Exec(
		ctx,
		`update "claims" set "is_consensus" = false
		where "claim_kind" = $1 and `+TargetExpr+` = $2
			and "is_consensus" and "claim_id" is distinct from $3`,
		string(target.Kind), target.Id, winnerId,
	); err != nil {
		return nil, err
	}
	if winnerId != nil {
		if _, err := tx.Exec(
			ctx,
			`update "claims" set "is_consensus" = true
			where "claim_id" = $1 and not "is_consensus"`,
			*winnerId,
		); err != nil {
			return nil, err
		}
	}

	if err := QueueOwnerOf(ctx, tx, target); err != nil {
		return nil, err
	}
	return winnerId, nil
}

// RecordDecision commits a decision inside tx: it appends the new head to
// the claim's decision chain, advances the claim to it, and re-adjudicates
// the target the claim is on.
//
// When spec.Supersedes is not the head of the chain anymore (or cites a
// decision of another claim), it fails with domain.ErrDecisionOutdated.
// The caller should roll back, re-read the claim, and let the user retry
// against the new head.
func RecordDecision(ctx context.Context, tx kpool.Queryer, spec domain.DecisionSpec) (domain.Decision, error) {
	target, err := ClaimTarget(ctx, tx, spec.ClaimId)
	if err != nil {
		return domain.Decision{}, err
	}

	// Take the claim row locks up front so that writers on one target
	// queue up in a single well-ordered place.
	if err := LockClaimsOnTarget(ctx, tx, target); err != nil {
		return domain.Decision{}, err
	}

	d := domain.Decision{
		DecisionId:   uuid.NewString(),
		ClaimId:      spec.ClaimId,
		Verdict:      spec.Verdict,
		Method:       spec.Method,
		Rationale:    spec.Rationale,
		DecidedBy:    spec.DecidedBy,
		SupersedesId: spec.Supersedes,
	}
	if err := tx.QueryRow(
		ctx,
		`insert into "decisions" (
			"decision_id", "claim_id", "verdict", "decision_method",
			"rationale", "decided_by", "supersedes_id"
		) values ($1, $2, $3, $4, $5, $6, $7)
		returning "decided_at"`,
		d.DecisionId, d.ClaimId, string(d.Verdict), string(d.Method),
		d.Rationale, d.DecidedBy, d.SupersedesId,
	).Scan(&d.DecidedAt); err != nil {
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) {
			return domain.Decision{}, err
		}
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation &&
			pgErr.ConstraintName == "decisions_supersedes_id_key":
			// someone else has already superseded the same head.
			return domain.Decision{}, domain.ErrDecisionOutdated
		case pgErr.Code == pgerrcode.ForeignKeyViolation &&
			pgErr.ConstraintName == "decisions_supersedes_same_claim":
			// the cited head is not a decision of this claim.
			return domain.Decision{}, domain.ErrDecisionOutdated
		case pgErr.Code == pgerrcode.ForeignKeyViolation:
			return domain.Decision{}, kpgerr.Missing{
				Table: pgErr.TableName,
				Identity: fmt.Sprintf(
					"claim_id='%s' (constraint: %s)",
					spec.ClaimId, pgErr.ConstraintName,
				),
			}
		}
		return domain.Decision{}, err
	}

	ctag, err := tx.Exec(
		ctx,
		`update "claims" set "current_decision_id" = $1
		where "claim_id" = $2 and "current_decision_id" is not distinct from $3`,
		d.DecisionId, d.ClaimId, d.SupersedesId,
	)
	if err != nil {
		return domain.Decision{}, err
	}
	if ctag.RowsAffected() != 1 {
		return domain.Decision{}, domain.ErrDecisionOutdated
	}

	if _, err := Adjudicate(ctx, tx, target); err != nil {
		return domain.Decision{}, err
	}

	return d, nil
}
