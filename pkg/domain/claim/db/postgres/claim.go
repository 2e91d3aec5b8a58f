package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	xe "github.com/edubba/edubba/pkg/errors"
	"github.com/edubba/edubba/pkg/domain"
	kpgerr "github.com/edubba/edubba/pkg/domain/errors/dberrors/postgres"
	kpgintr "github.com/edubba/edubba/pkg/domain/internal/db/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	pgerrcode "github.com/jackc/pgerrcode"
)

type claimPG struct { // implements kdb.ClaimInterface

	// connection pool for PostgreSQL
	pool kpool.Pool
}

func New(pool kpool.Pool) *claimPG {
	return &claimPG{pool: pool}
}

func (c *claimPG) Register(ctx context.Context, spec domain.ClaimSpec) (domain.Claim, error) {
	if err := spec.Validate(); err != nil {
		return domain.Claim{}, err
	}

	payload, err := json.Marshal(spec.Body)
	if err != nil {
		return domain.Claim{}, err
	}
	target := spec.Body.Target()
	targetColumn, err := kpgintr.TargetColumn(target.Kind)
	if err != nil {
		return domain.Claim{}, err
	}

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return domain.Claim{}, xe.Wrap(err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return domain.Claim{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	runs, err := kpgintr.GetRuns(ctx, tx, []string{spec.RunId})
	if err != nil {
		return domain.Claim{}, err
	}
	run, ok := runs[spec.RunId]
	if !ok {
		return domain.Claim{}, kpgerr.Missing{
			Table:    "annotation_runs",
			Identity: fmt.Sprintf("run_id='%s'", spec.RunId),
		}
	}

	claimId := uuid.NewString()
	if _, err := tx.Exec(
		ctx,
		fmt.Sprintf(
			`insert into "claims" (
				"claim_id", "claim_kind", %q, "payload",
				"confidence", "note", "run_id"
			) values ($1, $2, $3, $4::jsonb, $5, $6, $7)`,
			targetColumn,
		),
		claimId, string(target.Kind), target.Id, string(payload),
		spec.Confidence, spec.Note, spec.RunId,
	); err != nil {
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) {
			return domain.Claim{}, err
		}
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation &&
			pgErr.ConstraintName == "claims_identity":
			// the run has already asserted the same fact. find it so
			// the caller can answer with the existing claim.
			if err := tx.Rollback(ctx); err != nil {
				return domain.Claim{}, err
			}
			existing := ""
			if err := conn.QueryRow(
				ctx,
				`select "claim_id" from "claims"
				where "claim_kind" = $1 and `+kpgintr.TargetExpr+` = $2
					and md5("payload"::text) = md5($3::jsonb::text)
					and "run_id" = $4`,
				string(target.Kind), target.Id, string(payload), spec.RunId,
			).Scan(&existing); err != nil {
				return domain.Claim{}, err
			}
			return domain.Claim{}, domain.ErrClaimExists{ClaimId: existing}
		case pgErr.Code == pgerrcode.ForeignKeyViolation &&
			pgErr.ConstraintName == "claims_run_id_fkey":
			return domain.Claim{}, kpgerr.Missing{
				Table:    "annotation_runs",
				Identity: fmt.Sprintf("run_id='%s'", spec.RunId),
			}
		case pgErr.Code == pgerrcode.ForeignKeyViolation:
			return domain.Claim{}, fmt.Errorf(
				"%w: %s (constraint: %s)",
				domain.ErrInvalidTarget, target, pgErr.ConstraintName,
			)
		}
		return domain.Claim{}, err
	}

	// a fresh claim can shift what the pipeline expects of the artifact.
	if err := kpgintr.QueueOwnerOf(ctx, tx, target); err != nil {
		return domain.Claim{}, err
	}

	if run.SourceType == domain.SourceImport {
		if err := autoAccept(ctx, tx, run, claimId, target, spec.Confidence); err != nil {
			return domain.Claim{}, err
		}
	}

	claims, err := kpgintr.GetClaims(ctx, tx, []string{claimId})
	if err != nil {
		return domain.Claim{}, err
	}
	registered, ok := claims[claimId]
	if !ok {
		return domain.Claim{}, kpgerr.Missing{
			Table:    "claims",
			Identity: fmt.Sprintf("claim_id='%s'", claimId),
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Claim{}, xe.Wrap(err)
	}
	return registered, nil
}

// autoAccept applies the import default decision to a just registered
// claim when it outranks the current consensus on its target.
func autoAccept(
	ctx context.Context, tx kpool.Tx, run domain.Run,
	claimId string, target domain.TargetRef, confidence *float64,
) error {
	if err := kpgintr.LockClaimsOnTarget(ctx, tx, target); err != nil {
		return err
	}
	claims, err := kpgintr.ClaimsOnTarget(ctx, tx, target)
	if err != nil {
		return err
	}

	var current *domain.Claim
	for _, cl := range claims {
		if cl.IsConsensus {
			current = &cl
			break
		}
	}
	if !domain.ImportAutoAccept(current, confidence) {
		return nil
	}

	_, err = kpgintr.RecordDecision(ctx, tx, domain.DecisionSpec{
		ClaimId:   claimId,
		Verdict:   domain.VerdictAccept,
		Method:    domain.MethodImportDefault,
		DecidedBy: run.Actor(),
	})
	return err
}

func (c *claimPG) Get(ctx context.Context, claimIds []string) (map[string]domain.Claim, error) {
	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	return kpgintr.GetClaims(ctx, conn, claimIds)
}

func (c *claimPG) ListByTarget(ctx context.Context, target domain.TargetRef) ([]domain.Claim, error) {
	table, idColumn, err := kpgintr.TargetTable(target.Kind)
	if err != nil {
		return nil, err
	}

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	if ok, err := kpgintr.TargetExists(ctx, conn, target); err != nil {
		return nil, err
	} else if !ok {
		return nil, kpgerr.Missing{
			Table:    table,
			Identity: fmt.Sprintf("%s=%d", idColumn, target.Id),
		}
	}

	return kpgintr.ClaimsOnTarget(ctx, conn, target)
}
