package postgres

import (
	"context"
	"errors"
	"fmt"

	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	xe "github.com/edubba/edubba/pkg/errors"
	"github.com/edubba/edubba/pkg/domain"
	kpgerr "github.com/edubba/edubba/pkg/domain/errors/dberrors/postgres"
	kpgintr "github.com/edubba/edubba/pkg/domain/internal/db/postgres"
	"github.com/jackc/pgx/v4"
)

type pipelinePG struct { // implements kdb.PipelineInterface

	// connection pool for PostgreSQL
	pool kpool.Pool
}

func New(pool kpool.Pool) *pipelinePG {
	return &pipelinePG{pool: pool}
}

func (p *pipelinePG) GetStatus(ctx context.Context, artifactId int64) (domain.PipelineStatus, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return domain.PipelineStatus{}, xe.Wrap(err)
	}
	defer conn.Release()

	status := domain.PipelineStatus{ArtifactId: artifactId}
	var physical, graphemic, reading, linguistic, semantic domain.LayerStatus
	if err := conn.QueryRow(
		ctx,
		`select
			"physical_expected", "physical_covered",
			"graphemic_expected", "graphemic_covered",
			"reading_expected", "reading_covered",
			"linguistic_expected", "linguistic_covered",
			"semantic_expected", "semantic_covered",
			"quality_score", "stale", "computed_at"
		from "pipeline_status"
		where "artifact_id" = $1`,
		artifactId,
	).Scan(
		&physical.Expected, &physical.Covered,
		&graphemic.Expected, &graphemic.Covered,
		&reading.Expected, &reading.Covered,
		&linguistic.Expected, &linguistic.Covered,
		&semantic.Expected, &semantic.Covered,
		&status.QualityScore, &status.Stale, &status.ComputedAt,
	); err != nil {
		if err != pgx.ErrNoRows {
			return domain.PipelineStatus{}, err
		}

		found := false
		if err := conn.QueryRow(
			ctx,
			`select exists (select 1 from "artifacts" where "artifact_id" = $1)`,
			artifactId,
		).Scan(&found); err != nil {
			return domain.PipelineStatus{}, err
		}
		if !found {
			return domain.PipelineStatus{}, kpgerr.Missing{
				Table:    "artifacts",
				Identity: fmt.Sprintf("artifact_id=%d", artifactId),
			}
		}
		// never aggregated. everything is still to do.
		return domain.ZeroPipelineStatus(artifactId), nil
	}

	status.Layers = map[domain.PipelineLayer]domain.LayerStatus{
		domain.LayerPhysical:   physical,
		domain.LayerGraphemic:  graphemic,
		domain.LayerReading:    reading,
		domain.LayerLinguistic: linguistic,
		domain.LayerSemantic:   semantic,
	}
	return status, nil
}

func (p *pipelinePG) PickAndCompute(ctx context.Context, callback func(domain.PipelineStatus) error) (bool, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return false, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	artifactId := int64(0)
	if err := tx.QueryRow(
		ctx,
		`select "artifact_id" from "pipeline_queue"
		limit 1 for update skip locked`,
	).Scan(&artifactId); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, err
	}

	status, err := compute(ctx, tx, artifactId)
	if err != nil {
		// release the queue row lock first, or consuming the row in the
		// fresh transaction below waits on ourselves.
		tx.Rollback(ctx)
		if ferr := p.consumeAsStale(ctx, artifactId); ferr != nil {
			err = errors.Join(err, ferr)
		}
		return true, fmt.Errorf("pipeline status of artifact %d: %w", artifactId, err)
	}

	if err := tx.QueryRow(
		ctx,
		`insert into "pipeline_status" (
			"artifact_id",
			"physical_expected", "physical_covered",
			"graphemic_expected", "graphemic_covered",
			"reading_expected", "reading_covered",
			"linguistic_expected", "linguistic_covered",
			"semantic_expected", "semantic_covered",
			"quality_score", "stale", "computed_at"
		) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, false, now())
		on conflict ("artifact_id") do update set
			"physical_expected" = excluded."physical_expected",
			"physical_covered" = excluded."physical_covered",
			"graphemic_expected" = excluded."graphemic_expected",
			"graphemic_covered" = excluded."graphemic_covered",
			"reading_expected" = excluded."reading_expected",
			"reading_covered" = excluded."reading_covered",
			"linguistic_expected" = excluded."linguistic_expected",
			"linguistic_covered" = excluded."linguistic_covered",
			"semantic_expected" = excluded."semantic_expected",
			"semantic_covered" = excluded."semantic_covered",
			"quality_score" = excluded."quality_score",
			"stale" = false,
			"computed_at" = now()
		returning "computed_at"`,
		artifactId,
		status.Layers[domain.LayerPhysical].Expected, status.Layers[domain.LayerPhysical].Covered,
		status.Layers[domain.LayerGraphemic].Expected, status.Layers[domain.LayerGraphemic].Covered,
		status.Layers[domain.LayerReading].Expected, status.Layers[domain.LayerReading].Covered,
		status.Layers[domain.LayerLinguistic].Expected, status.Layers[domain.LayerLinguistic].Covered,
		status.Layers[domain.LayerSemantic].Expected, status.Layers[domain.LayerSemantic].Covered,
		status.QualityScore,
	).Scan(&status.ComputedAt); err != nil {
		return false, err
	}

	if _, err := tx.Exec(
		ctx,
		`delete from "pipeline_queue" where "artifact_id" = $1`,
		artifactId,
	); err != nil {
		return false, err
	}

	if callback != nil {
		if err := callback(status); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, xe.Wrap(err)
	}
	return true, nil
}

// compute counts, per layer, the artifact's units and how many of them a
// consensus claim settles.
func compute(ctx context.Context, conn kpool.Queryer, artifactId int64) (domain.PipelineStatus, error) {
	var physical, graphemic, reading, linguistic, semantic domain.LayerStatus
	if err := conn.QueryRow(
		ctx,
		`select
			-- physical
			(select count(distinct "artifact_id") from "claims"
				where "claim_kind" = 'fragment_join' and "artifact_id" = $1),
			(select count(distinct "artifact_id") from "claims"
				where "claim_kind" = 'fragment_join' and "artifact_id" = $1
					and "is_consensus"),
			-- graphemic
			(select count(*) from "sign_instances"
				inner join "lines" using ("line_id")
				inner join "surfaces" using ("surface_id")
				where "artifact_id" = $1),
			(select count(*) from "sign_instances" as "si"
				inner join "lines" using ("line_id")
				inner join "surfaces" using ("surface_id")
				where "artifact_id" = $1 and exists (
					select 1 from "claims"
					where "claim_kind" = 'sign_reading' and "is_consensus"
						and `+kpgintr.TargetExpr+` = "si"."sign_instance_id"
				)),
			-- reading
			(select count(*) from "lines"
				inner join "surfaces" using ("surface_id")
				where "artifact_id" = $1),
			(select count(*) from "lines" as "l"
				inner join "surfaces" using ("surface_id")
				where "artifact_id" = $1
					and exists (
						select 1 from "sign_instances" as "si"
						where "si"."line_id" = "l"."line_id"
					)
					and not exists (
						select 1 from "sign_instances" as "si"
						where "si"."line_id" = "l"."line_id" and not exists (
							select 1 from "claims"
							where "claim_kind" = 'sign_reading' and "is_consensus"
								and `+kpgintr.TargetExpr+` = "si"."sign_instance_id"
						)
					)),
			-- linguistic
			(select count(*) from "tokens"
				inner join "lines" using ("line_id")
				inner join "surfaces" using ("surface_id")
				where "artifact_id" = $1),
			(select count(*) from "tokens" as "t"
				inner join "lines" using ("line_id")
				inner join "surfaces" using ("surface_id")
				where "artifact_id" = $1 and exists (
					select 1 from "claims"
					where "claim_kind" = 'lemmatization' and "is_consensus"
						and `+kpgintr.TargetExpr+` = "t"."token_id"
				)),
			-- semantic
			(select count(*) from "lines"
				inner join "surfaces" using ("surface_id")
				where "artifact_id" = $1),
			(select count(*) from "lines" as "l"
				inner join "surfaces" using ("surface_id")
				where "artifact_id" = $1 and exists (
					select 1 from "claims"
					where "claim_kind" = 'translation' and "is_consensus"
						and `+kpgintr.TargetExpr+` = "l"."line_id"
				))`,
		artifactId,
	).Scan(
		&physical.Expected, &physical.Covered,
		&graphemic.Expected, &graphemic.Covered,
		&reading.Expected, &reading.Covered,
		&linguistic.Expected, &linguistic.Covered,
		&semantic.Expected, &semantic.Covered,
	); err != nil {
		return domain.PipelineStatus{}, err
	}

	status := domain.PipelineStatus{
		ArtifactId: artifactId,
		Layers: map[domain.PipelineLayer]domain.LayerStatus{
			domain.LayerPhysical:   physical,
			domain.LayerGraphemic:  graphemic,
			domain.LayerReading:    reading,
			domain.LayerLinguistic: linguistic,
			domain.LayerSemantic:   semantic,
		},
	}
	status.QualityScore = domain.QualityScore(status.Layers)
	return status, nil
}

// consumeAsStale takes a failed artifact out of the queue and leaves a
// visible mark on its status row. An artifact with no row needs none: it
// already reads as stale.
func (p *pipelinePG) consumeAsStale(ctx context.Context, artifactId int64) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(
		ctx,
		`delete from "pipeline_queue" where "artifact_id" = $1`,
		artifactId,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		`update "pipeline_status" set "stale" = true where "artifact_id" = $1`,
		artifactId,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
