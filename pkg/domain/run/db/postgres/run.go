package postgres

import (
	"context"

	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	xe "github.com/edubba/edubba/pkg/errors"
	"github.com/edubba/edubba/pkg/domain"
	kpgintr "github.com/edubba/edubba/pkg/domain/internal/db/postgres"
	"github.com/google/uuid"
)

type runPG struct { // implements kdb.RunInterface

	// connection pool for PostgreSQL
	pool kpool.Pool
}

func New(pool kpool.Pool) *runPG {
	return &runPG{pool: pool}
}

func (r *runPG) Register(ctx context.Context, spec domain.RunSpec) (domain.Run, error) {
	if err := spec.Validate(); err != nil {
		return domain.Run{}, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return domain.Run{}, xe.Wrap(err)
	}
	defer conn.Release()

	run := domain.Run{
		RunId:        uuid.NewString(),
		SourceType:   spec.SourceType,
		SourceName:   spec.SourceName,
		ModelVersion: spec.ModelVersion,
		ScholarId:    spec.ScholarId,
		Method:       spec.Method,
		CorpusScope:  spec.CorpusScope,
	}
	if err := conn.QueryRow(
		ctx,
		`insert into "annotation_runs" (
			"run_id", "source_type", "source_name",
			"model_version", "scholar_id", "method", "corpus_scope"
		) values ($1, $2, $3, nullif($4, ''), nullif($5, ''), $6, $7)
		returning "created_at"`,
		run.RunId, string(run.SourceType), run.SourceName,
		run.ModelVersion, run.ScholarId, run.Method, run.CorpusScope,
	).Scan(&run.CreatedAt); err != nil {
		return domain.Run{}, err
	}

	return run, nil
}

func (r *runPG) Get(ctx context.Context, runIds []string) (map[string]domain.Run, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	return kpgintr.GetRuns(ctx, conn, runIds)
}
