package postgres

import (
	"context"
	"errors"
	"fmt"

	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	xe "github.com/edubba/edubba/pkg/errors"
	"github.com/edubba/edubba/pkg/domain"
	kpgerr "github.com/edubba/edubba/pkg/domain/errors/dberrors/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	pgerrcode "github.com/jackc/pgerrcode"
)

type evidencePG struct { // implements kdb.EvidenceInterface

	// connection pool for PostgreSQL
	pool kpool.Pool
}

func New(pool kpool.Pool) *evidencePG {
	return &evidencePG{pool: pool}
}

func (e *evidencePG) Attach(ctx context.Context, spec domain.EvidenceSpec) (domain.Evidence, error) {
	if err := spec.Validate(); err != nil {
		return domain.Evidence{}, err
	}

	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return domain.Evidence{}, xe.Wrap(err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return domain.Evidence{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	ev := domain.Evidence{
		EvidenceId:    uuid.NewString(),
		ClaimId:       spec.ClaimId,
		Type:          spec.Type,
		Reference:     spec.Reference,
		SupportsClaim: spec.SupportsClaim,
		AddedBy:       spec.AddedBy,
		Note:          spec.Note,
	}
	if err := tx.QueryRow(
		ctx,
		`insert into "evidence" (
			"evidence_id", "claim_id", "evidence_type",
			"reference", "supports_claim", "added_by", "note"
		) values ($1, $2, $3, $4, $5, $6, $7)
		returning "added_at"`,
		ev.EvidenceId, ev.ClaimId, string(ev.Type),
		ev.Reference, ev.SupportsClaim, ev.AddedBy, ev.Note,
	).Scan(&ev.AddedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return domain.Evidence{}, kpgerr.Missing{
				Table:    "claims",
				Identity: fmt.Sprintf("claim_id='%s'", spec.ClaimId),
			}
		}
		return domain.Evidence{}, err
	}

	if _, err := tx.Exec(
		ctx,
		`insert into "evidence_check_queue" ("evidence_id", "reference")
		values ($1, $2)`,
		ev.EvidenceId, ev.Reference,
	); err != nil {
		return domain.Evidence{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Evidence{}, xe.Wrap(err)
	}
	return ev, nil
}

func (e *evidencePG) ListByClaim(ctx context.Context, claimId string) ([]domain.Evidence, error) {
	conn, err := e.pool.Acquire(ctx)
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
			"evidence_id", "evidence_type", "reference",
			"supports_claim", "added_by", "note", "added_at"
		from "evidence"
		where "claim_id" = $1
		order by "added_at", "evidence_id"`,
		claimId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := []domain.Evidence{}
	for rows.Next() {
		ev := domain.Evidence{ClaimId: claimId}
		evidenceType := ""
		if err := rows.Scan(
			&ev.EvidenceId, &evidenceType, &ev.Reference,
			&ev.SupportsClaim, &ev.AddedBy, &ev.Note, &ev.AddedAt,
		); err != nil {
			return nil, err
		}
		t, err := domain.AsEvidenceType(evidenceType)
		if err != nil {
			return nil, err
		}
		ev.Type = t
		ledger = append(ledger, ev)
	}
	return ledger, nil
}

func (e *evidencePG) PopCheck(ctx context.Context, callback func(domain.EvidenceCheck) error) (bool, error) {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return false, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(
		ctx,
		`
		with "picked" as (
			select "evidence_id", "reference", "queued_at"
			from "evidence_check_queue"
			limit 1 for update skip locked
		),
		"consumed" as (
			delete from "evidence_check_queue"
			where "evidence_id" in (select "evidence_id" from "picked")
		)
		select * from "picked";
		`,
	)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	check := domain.EvidenceCheck{}
	pop := false
	for rows.Next() {
		if err := rows.Scan(&check.EvidenceId, &check.Reference, &check.QueuedAt); err != nil {
			return false, err
		}
		pop = true
	}
	if err := rows.Err(); err != nil {
		return false, err
	}

	if pop && callback != nil {
		if err := callback(check); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return false, xe.Wrap(err)
	}

	return pop, nil
}
