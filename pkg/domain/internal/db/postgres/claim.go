package postgres

import (
	"context"
	"fmt"

	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	"github.com/edubba/edubba/pkg/domain"
	domerr "github.com/edubba/edubba/pkg/domain/errors"
	"github.com/jackc/pgx/v4"
)

// TargetExpr is the target id of a claim row, whichever column holds it.
//
// "claims" keeps one foreign key column per claim kind and exactly one of
// them is set, so the coalesce over all of them is the target id.
const TargetExpr = `coalesce(
	"sign_instance_id", "token_id", "line_id",
	"artifact_id", "mention_token_id", "entity_id"
)`

// TargetColumn names the "claims" column holding the target id of the kind.
func TargetColumn(kind domain.ClaimKind) (string, error) {
	switch kind {
	case domain.KindSignReading:
		return "sign_instance_id", nil
	case domain.KindLemmatization:
		return "token_id", nil
	case domain.KindTranslation:
		return "line_id", nil
	case domain.KindFragmentJoin:
		return "artifact_id", nil
	case domain.KindEntityMention:
		return "mention_token_id", nil
	case domain.KindEntityRelationship:
		return "entity_id", nil
	default:
		return "", fmt.Errorf("%w: unknown claim kind: %s", domerr.ErrInvalid, kind)
	}
}

// TargetTable names the corpus table (and its id column) a claim kind
// targets.
func TargetTable(kind domain.ClaimKind) (table string, idColumn string, err error) {
	switch kind {
	case domain.KindSignReading:
		return "sign_instances", "sign_instance_id", nil
	case domain.KindLemmatization, domain.KindEntityMention:
		return "tokens", "token_id", nil
	case domain.KindTranslation:
		return "lines", "line_id", nil
	case domain.KindFragmentJoin:
		return "artifacts", "artifact_id", nil
	case domain.KindEntityRelationship:
		return "entities", "entity_id", nil
	default:
		return "", "", fmt.Errorf("%w: unknown claim kind: %s", domerr.ErrInvalid, kind)
	}
}

// claimSelection reads claim rows out of a CTE named "c" (any narrowing of
// "claims"), joined with the producing run and the head of the decision
// chain. scanClaims consumes its rows.
const claimSelection = `
select
	"c"."claim_id", "c"."claim_kind", "c"."payload",
	"c"."confidence" is not null as "has_confidence",
	coalesce("c"."confidence", 0) as "confidence",
	"c"."note", "c"."is_consensus", "c"."created_at",
	"r"."run_id", "r"."source_type", "r"."source_name",
	coalesce("r"."model_version", '') as "model_version",
	coalesce("r"."scholar_id", '') as "scholar_id",
	"r"."method", "r"."corpus_scope",
	"r"."created_at" as "run_created_at",
	"d"."decision_id" is not null as "has_decision",
	coalesce("d"."decision_id", '') as "decision_id",
	coalesce("d"."verdict", '') as "verdict",
	coalesce("d"."decision_method", '') as "decision_method",
	coalesce("d"."rationale", '') as "rationale",
	coalesce("d"."decided_by", '') as "decided_by",
	"d"."supersedes_id" is not null as "has_supersedes",
	coalesce("d"."supersedes_id", '') as "supersedes_id",
	coalesce("d"."decided_at", to_timestamp(0)) as "decided_at"
from "c"
inner join "annotation_runs" as "r" using ("run_id")
left join "decisions" as "d" on "c"."current_decision_id" = "d"."decision_id"
order by "run_created_at" desc, "c"."claim_id"
`

func scanClaims(rows pgx.Rows) ([]domain.Claim, error) {
	claims := []domain.Claim{}
	for rows.Next() {
		var (
			c             domain.Claim
			kind          string
			payload       []byte
			hasConfidence bool
			confidence    float64
			sourceType    string
			hasDecision   bool
			d             domain.Decision
			verdict       string
			method        string
			hasSupersedes bool
			supersedes    string
		)
		if err := rows.Scan(
			&c.ClaimId, &kind, &payload,
			&hasConfidence, &confidence,
			&c.Note, &c.IsConsensus, &c.CreatedAt,
			&c.ProducedBy.RunId, &sourceType, &c.ProducedBy.SourceName,
			&c.ProducedBy.ModelVersion, &c.ProducedBy.ScholarId,
			&c.ProducedBy.Method, &c.ProducedBy.CorpusScope,
			&c.ProducedBy.CreatedAt,
			&hasDecision, &d.DecisionId, &verdict, &method,
			&d.Rationale, &d.DecidedBy,
			&hasSupersedes, &supersedes, &d.DecidedAt,
		); err != nil {
			return nil, err
		}

		k, err := domain.AsClaimKind(kind)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: claim %s: %s", domerr.ErrConsistencyViolation, c.ClaimId, err,
			)
		}
		body, err := domain.UnmarshalClaimBody(k, payload)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: claim %s: %s", domerr.ErrConsistencyViolation, c.ClaimId, err,
			)
		}
		c.Body = body

		st, err := domain.AsSourceType(sourceType)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: run %s: %s", domerr.ErrConsistencyViolation, c.ProducedBy.RunId, err,
			)
		}
		c.ProducedBy.SourceType = st

		if hasConfidence {
			c.Confidence = &confidence
		}

		if hasDecision {
			d.ClaimId = c.ClaimId
			v, err := domain.AsVerdict(verdict)
			if err != nil {
				return nil, fmt.Errorf(
					"%w: decision %s: %s", domerr.ErrConsistencyViolation, d.DecisionId, err,
				)
			}
			d.Verdict = v
			m, err := domain.AsDecisionMethod(method)
			if err != nil {
				return nil, fmt.Errorf(
					"%w: decision %s: %s", domerr.ErrConsistencyViolation, d.DecisionId, err,
				)
			}
			d.Method = m
			if hasSupersedes {
				d.SupersedesId = &supersedes
			}
			c.CurrentDecision = &d
		}

		claims = append(claims, c)
	}
	return claims, nil
}

// GetClaims fetches claims by id, with the producing run and the head of
// the decision chain. Ids without a claim are simply omitted.
func GetClaims(ctx context.Context, conn kpool.Queryer, claimIds []string) (map[string]domain.Claim, error) {
	rows, err := conn.Query(
		ctx,
		`with "c" as (select * from "claims" where "claim_id" = any($1::varchar[]))`+claimSelection,
		claimIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claims, err := scanClaims(rows)
	if err != nil {
		return nil, err
	}
	result := map[string]domain.Claim{}
	for _, c := range claims {
		result[c.ClaimId] = c
	}
	return result, nil
}

// ClaimsOnTarget lists the claims asserted on the target, newest run first.
func ClaimsOnTarget(ctx context.Context, conn kpool.Queryer, target domain.TargetRef) ([]domain.Claim, error) {
	rows, err := conn.Query(
		ctx,
		`with "c" as (
			select * from "claims"
			where "claim_kind" = $1 and `+TargetExpr+` = $2
		)`+claimSelection,
		string(target.Kind), target.Id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClaims(rows)
}

// ConsensusOnTarget fetches the claim flagged authoritative for the target.
// A partial index on the flag makes this a single direct lookup.
//
// It is (nil, nil) when no claim on the target holds the flag.
func ConsensusOnTarget(ctx context.Context, conn kpool.Queryer, target domain.TargetRef) (*domain.Claim, error) {
	rows, err := conn.Query(
		ctx,
		`with "c" as (
			select * from "claims"
			where "claim_kind" = $1 and `+TargetExpr+` = $2 and "is_consensus"
		)`+claimSelection,
		string(target.Kind), target.Id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claims, err := scanClaims(rows)
	if err != nil {
		return nil, err
	}
	switch len(claims) {
	case 0:
		return nil, nil
	case 1:
		return &claims[0], nil
	default:
		return nil, fmt.Errorf(
			"%w: multiple consensus claims on %s", domerr.ErrConsistencyViolation, target,
		)
	}
}

// LockClaimsOnTarget locks the claim rows on the target, in claim id order
// so that concurrent adjudications of one target queue up instead of
// deadlocking.
func LockClaimsOnTarget(ctx context.Context, conn kpool.Queryer, target domain.TargetRef) error {
	rows, err := conn.Query(
		ctx,
		`select "claim_id" from "claims"
		where "claim_kind" = $1 and `+TargetExpr+` = $2
		order by "claim_id" for update`,
		string(target.Kind), target.Id,
	)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := rows.Scan(nil); err != nil {
			return err
		}
	}
	return nil
}

// TargetExists reports whether the corpus entity the target points at exists.
func TargetExists(ctx context.Context, conn kpool.Queryer, target domain.TargetRef) (bool, error) {
	table, idColumn, err := TargetTable(target.Kind)
	if err != nil {
		return false, err
	}
	found := false
	if err := conn.QueryRow(
		ctx,
		fmt.Sprintf(`select exists (select 1 from %q where %q = $1)`, table, idColumn),
		target.Id,
	).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

// OwnerArtifact resolves the artifact the target belongs to.
//
// Entity targets live outside any single artifact, so for them it is
// (nil, nil).
func OwnerArtifact(ctx context.Context, conn kpool.Queryer, target domain.TargetRef) (*int64, error) {
	query := ""
	switch target.Kind {
	case domain.KindFragmentJoin:
		query = `select "artifact_id" from "artifacts" where "artifact_id" = $1`
	case domain.KindSignReading:
		query = `
			select "s"."artifact_id" from "sign_instances"
			inner join "lines" using ("line_id")
			inner join "surfaces" as "s" using ("surface_id")
			where "sign_instance_id" = $1
		`
	case domain.KindTranslation:
		query = `
			select "s"."artifact_id" from "lines"
			inner join "surfaces" as "s" using ("surface_id")
			where "line_id" = $1
		`
	case domain.KindLemmatization, domain.KindEntityMention:
		query = `
			select "s"."artifact_id" from "tokens"
			inner join "lines" using ("line_id")
			inner join "surfaces" as "s" using ("surface_id")
			where "token_id" = $1
		`
	case domain.KindEntityRelationship:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown claim kind: %s", domerr.ErrInvalid, target.Kind)
	}

	artifactId := int64(0)
	if err := conn.QueryRow(ctx, query, target.Id).Scan(&artifactId); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &artifactId, nil
}

// QueueArtifact enqueues the artifact for pipeline status recomputation.
// Already queued artifacts are left as they are.
func QueueArtifact(ctx context.Context, conn kpool.Queryer, artifactId int64) error {
	_, err := conn.Exec(
		ctx,
		`insert into "pipeline_queue" ("artifact_id") values ($1)
		on conflict do nothing`,
		artifactId,
	)
	return err
}

// QueueOwnerOf enqueues the artifact owning the target, if any.
func QueueOwnerOf(ctx context.Context, conn kpool.Queryer, target domain.TargetRef) error {
	artifactId, err := OwnerArtifact(ctx, conn, target)
	if err != nil {
		return err
	}
	if artifactId == nil {
		return nil
	}
	return QueueArtifact(ctx, conn, *artifactId)
}
