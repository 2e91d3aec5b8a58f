package postgres

import (
	"context"
	"fmt"

	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	"github.com/edubba/edubba/pkg/domain"
	domerr "github.com/edubba/edubba/pkg/domain/errors"
)

// GetRuns fetches annotation runs by id. Ids without a run are omitted.
func GetRuns(ctx context.Context, conn kpool.Queryer, runIds []string) (map[string]domain.Run, error) {
	rows, err := conn.Query(
		ctx,
		`select
			"run_id", "source_type", "source_name",
			coalesce("model_version", '') as "model_version",
			coalesce("scholar_id", '') as "scholar_id",
			"method", "corpus_scope", "created_at"
		from "annotation_runs"
		where "run_id" = any($1::varchar[])`,
		runIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string]domain.Run{}
	for rows.Next() {
		r := domain.Run{}
		sourceType := ""
		if err := rows.Scan(
			&r.RunId, &sourceType, &r.SourceName,
			&r.ModelVersion, &r.ScholarId,
			&r.Method, &r.CorpusScope, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		st, err := domain.AsSourceType(sourceType)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: run %s: %s", domerr.ErrConsistencyViolation, r.RunId, err,
			)
		}
		r.SourceType = st
		result[r.RunId] = r
	}
	return result, nil
}
