package postgres

import (
	"context"
	"fmt"

	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	xe "github.com/edubba/edubba/pkg/errors"
	"github.com/edubba/edubba/pkg/domain"
	domerr "github.com/edubba/edubba/pkg/domain/errors"
	kpgerr "github.com/edubba/edubba/pkg/domain/errors/dberrors/postgres"
	kpgintr "github.com/edubba/edubba/pkg/domain/internal/db/postgres"
)

type decisionPG struct { // implements kdb.DecisionInterface

	// connection pool for PostgreSQL
	pool kpool.Pool
}

func New(pool kpool.Pool) *decisionPG {
	return &decisionPG{pool: pool}
}

func (d *decisionPG) Record(ctx context.Context, spec domain.DecisionSpec) (domain.RecordResult, error) {
	if err := spec.Validate(); err != nil {
		return domain.RecordResult{}, err
	}

	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return domain.RecordResult{}, xe.Wrap(err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return domain.RecordResult{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	decision, err := kpgintr.RecordDecision(ctx, tx, spec)
	if err != nil {
		return domain.RecordResult{}, err
	}

	claims, err := kpgintr.GetClaims(ctx, tx, []string{spec.ClaimId})
	if err != nil {
		return domain.RecordResult{}, err
	}
	claim, ok := claims[spec.ClaimId]
	if !ok {
		return domain.RecordResult{}, kpgerr.Missing{
			Table:    "claims",
			Identity: fmt.Sprintf("claim_id='%s'", spec.ClaimId),
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.RecordResult{}, xe.Wrap(err)
	}
	return domain.RecordResult{Decision: decision, Claim: claim}, nil
}

func (d *decisionPG) ListByClaim(ctx context.Context, claimId string) ([]domain.Decision, error) {
	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	found := false
	if err := conn.QueryRow(
		ctx,
		`select exists (select 1 from "claims" where "claim_id" = $1)`,
		claimId,
	).Scan(&found); err != nil {
		return nil, err
	}
	if !found {
		return nil, kpgerr.Missing{
			Table:    "claims",
			Identity: fmt.Sprintf("claim_id='%s'", claimId),
		}
	}

	rows, err := conn.Query(
		ctx,
		`select
			"decision_id", "verdict", "decision_method",
			"rationale", "decided_by",
			"supersedes_id" is not null as "has_supersedes",
			coalesce("supersedes_id", '') as "supersedes_id",
			"decided_at"
		from "decisions"
		where "claim_id" = $1
		order by "decided_at" desc, "decision_id"`,
		claimId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decisions := []domain.Decision{}
	for rows.Next() {
		dec := domain.Decision{ClaimId: claimId}
		var (
			verdict       string
			method        string
			hasSupersedes bool
			supersedes    string
		)
		if err := rows.Scan(
			&dec.DecisionId, &verdict, &method,
			&dec.Rationale, &dec.DecidedBy,
			&hasSupersedes, &supersedes, &dec.DecidedAt,
		); err != nil {
			return nil, err
		}
		v, err := domain.AsVerdict(verdict)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: decision %s: %s", domerr.ErrConsistencyViolation, dec.DecisionId, err,
			)
		}
		dec.Verdict = v
		m, err := domain.AsDecisionMethod(method)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: decision %s: %s", domerr.ErrConsistencyViolation, dec.DecisionId, err,
			)
		}
		dec.Method = m
		if hasSupersedes {
			dec.SupersedesId = &supersedes
		}
		decisions = append(decisions, dec)
	}
	return decisions, nil
}
