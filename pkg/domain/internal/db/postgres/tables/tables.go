// test fixtures over the postgres tables.
package tables

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	"github.com/jackc/pgconn"
)

func withCause(v any, reason error) error {
	return fmt.Errorf("error caused inserting record %+v: %w", v, reason)
}

// table-level operations for PostgreSQL.
//
// Note: this package DOES NOT verify/guarantee consistencies of records.
type Tables struct {
	ctx  context.Context
	pool kpool.Pool
}

func New(ctx context.Context, pool kpool.Pool) *Tables {
	return &Tables{
		ctx: ctx, pool: pool,
	}
}

func (f *Tables) acquire() (kpool.Conn, error) {
	return f.pool.Acquire(f.ctx)
}

func shouldEffect(ctag pgconn.CommandTag, require int) error {
	aff := ctag.RowsAffected()
	if int64(require) <= aff {
		return nil
	}
	_, file, line, ok := runtime.Caller(1)
	if ok {
		return fmt.Errorf("added rows are not enough @ %s:%d", file, line)
	} else {
		return errors.New("added rows are not enough")
	}
}

func (f *Tables) InsertArtifact(a *Artifact) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "artifacts" ("artifact_id", "museum_number") values ($1, $2)`,
		a.ArtifactId, a.MuseumNumber,
	)
	if err != nil {
		return withCause(a, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) InsertSurface(s *Surface) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "surfaces" ("surface_id", "artifact_id", "label") values ($1, $2, $3)`,
		s.SurfaceId, s.ArtifactId, s.Label,
	)
	if err != nil {
		return withCause(s, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) InsertLine(l *Line) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "lines" ("line_id", "surface_id", "line_number") values ($1, $2, $3)`,
		l.LineId, l.SurfaceId, l.LineNumber,
	)
	if err != nil {
		return withCause(l, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) InsertToken(tok *Token) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "tokens" ("token_id", "line_id", "position") values ($1, $2, $3)`,
		tok.TokenId, tok.LineId, tok.Position,
	)
	if err != nil {
		return withCause(tok, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) InsertSignInstance(si *SignInstance) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "sign_instances" ("sign_instance_id", "line_id", "position")
		values ($1, $2, $3)`,
		si.SignInstanceId, si.LineId, si.Position,
	)
	if err != nil {
		return withCause(si, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) InsertEntity(e *Entity) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "entities" ("entity_id", "entity_type", "canonical_name")
		values ($1, $2, $3)`,
		e.EntityId, e.EntityType, e.CanonicalName,
	)
	if err != nil {
		return withCause(e, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) InsertAnnotationRun(r *AnnotationRun) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "annotation_runs" (
			"run_id", "source_type", "source_name", "model_version",
			"scholar_id", "method", "corpus_scope", "created_at"
		) values ($1, $2, $3, $4, $5, $6, $7, coalesce($8, now()))`,
		r.RunId, r.SourceType, r.SourceName, r.ModelVersion,
		r.ScholarId, r.Method, r.CorpusScope, r.CreatedAt,
	)
	if err != nil {
		return withCause(r, err)
	}
	return shouldEffect(ctag, 1)
}

// insert a record into "claims", current_decision_id left null.
//
// Use SetCurrentDecision after inserting decisions to point the head,
// since the head cites a decision record.
func (f *Tables) InsertClaim(c *Claim) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "claims" (
			"claim_id", "claim_kind",
			"sign_instance_id", "token_id", "line_id",
			"artifact_id", "mention_token_id", "entity_id",
			"payload", "confidence", "note", "run_id",
			"is_consensus", "created_at"
		) values (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9::jsonb, $10, $11, $12, $13, coalesce($14, now())
		)`,
		c.ClaimId, c.ClaimKind,
		c.SignInstanceId, c.TokenId, c.LineId,
		c.ArtifactId, c.MentionTokenId, c.EntityId,
		c.Payload, c.Confidence, c.Note, c.RunId,
		c.IsConsensus, c.CreatedAt,
	)
	if err != nil {
		return withCause(c, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) SetCurrentDecision(claimId string, decisionId string) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`update "claims" set "current_decision_id" = $1 where "claim_id" = $2`,
		decisionId, claimId,
	)
	if err != nil {
		return withCause(struct{ ClaimId, DecisionId string }{claimId, decisionId}, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) InsertDecision(d *Decision) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "decisions" (
			"decision_id", "claim_id", "verdict", "decision_method",
			"rationale", "decided_by", "supersedes_id", "decided_at"
		) values ($1, $2, $3, $4, $5, $6, $7, coalesce($8, now()))`,
		d.DecisionId, d.ClaimId, d.Verdict, d.DecisionMethod,
		d.Rationale, d.DecidedBy, d.SupersedesId, d.DecidedAt,
	)
	if err != nil {
		return withCause(d, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) InsertEvidence(e *Evidence) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "evidence" (
			"evidence_id", "claim_id", "evidence_type", "reference",
			"supports_claim", "added_by", "note", "added_at"
		) values ($1, $2, $3, $4, $5, $6, $7, coalesce($8, now()))`,
		e.EvidenceId, e.ClaimId, e.EvidenceType, e.Reference,
		e.SupportsClaim, e.AddedBy, e.Note, e.AddedAt,
	)
	if err != nil {
		return withCause(e, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) InsertEvidenceCheck(c *EvidenceCheck) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "evidence_check_queue" ("evidence_id", "reference", "queued_at")
		values ($1, $2, coalesce($3, now()))`,
		c.EvidenceId, c.Reference, c.QueuedAt,
	)
	if err != nil {
		return withCause(c, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) InsertDiscussionThread(th *DiscussionThread) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "discussion_threads" (
			"thread_id", "claim_id", "title", "status",
			"opened_by", "resolution_decision_id", "opened_at"
		) values ($1, $2, $3, $4, $5, $6, coalesce($7, now()))`,
		th.ThreadId, th.ClaimId, th.Title, th.Status,
		th.OpenedBy, th.ResolutionDecisionId, th.OpenedAt,
	)
	if err != nil {
		return withCause(th, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) InsertDiscussionPost(p *DiscussionPost) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "discussion_posts" (
			"post_id", "thread_id", "reply_to", "post_type",
			"author_id", "body", "posted_at"
		) values ($1, $2, $3, $4, $5, $6, coalesce($7, now()))`,
		p.PostId, p.ThreadId, p.ReplyTo, p.PostType,
		p.AuthorId, p.Body, p.PostedAt,
	)
	if err != nil {
		return withCause(p, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) InsertPipelineStatus(s *PipelineStatus) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "pipeline_status" (
			"artifact_id",
			"physical_expected", "physical_covered",
			"graphemic_expected", "graphemic_covered",
			"reading_expected", "reading_covered",
			"linguistic_expected", "linguistic_covered",
			"semantic_expected", "semantic_covered",
			"quality_score", "stale", "computed_at"
		) values (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, coalesce($14, now())
		)`,
		s.ArtifactId,
		s.PhysicalExpected, s.PhysicalCovered,
		s.GraphemicExpected, s.GraphemicCovered,
		s.ReadingExpected, s.ReadingCovered,
		s.LinguisticExpected, s.LinguisticCovered,
		s.SemanticExpected, s.SemanticCovered,
		s.QualityScore, s.Stale, s.ComputedAt,
	)
	if err != nil {
		return withCause(s, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) InsertPipelineQueue(q *PipelineQueue) error {
	conn, err := f.acquire()
	if err != nil {
		return err
	}
	defer conn.Release()

	ctag, err := conn.Exec(
		f.ctx,
		`insert into "pipeline_queue" ("artifact_id", "queued_at")
		values ($1, coalesce($2, now()))`,
		q.ArtifactId, q.QueuedAt,
	)
	if err != nil {
		return withCause(q, err)
	}
	return shouldEffect(ctag, 1)
}

// Declare premise of test.
type Operation struct {
	Artifacts     []Artifact
	Surfaces      []Surface
	Lines         []Line
	Tokens        []Token
	SignInstances []SignInstance
	Entities      []Entity

	Runs      []AnnotationRun
	Claims    []Claim
	Decisions []Decision

	Evidence       []Evidence
	EvidenceChecks []EvidenceCheck

	Threads []DiscussionThread
	Posts   []DiscussionPost

	PipelineStatus []PipelineStatus
	PipelineQueue  []PipelineQueue
}

func (prem *Operation) Apply(ctx context.Context, pool kpool.Pool) error {
	tbls := New(ctx, pool)

	for _, a := range prem.Artifacts {
		if err := tbls.InsertArtifact(&a); err != nil {
			return err
		}
	}
	for _, s := range prem.Surfaces {
		if err := tbls.InsertSurface(&s); err != nil {
			return err
		}
	}
	for _, l := range prem.Lines {
		if err := tbls.InsertLine(&l); err != nil {
			return err
		}
	}
	for _, tok := range prem.Tokens {
		if err := tbls.InsertToken(&tok); err != nil {
			return err
		}
	}
	for _, si := range prem.SignInstances {
		if err := tbls.InsertSignInstance(&si); err != nil {
			return err
		}
	}
	for _, e := range prem.Entities {
		if err := tbls.InsertEntity(&e); err != nil {
			return err
		}
	}

	for _, r := range prem.Runs {
		if err := tbls.InsertAnnotationRun(&r); err != nil {
			return err
		}
	}

	// claims go in before their decisions, and the head pointer is set
	// afterwards since it cites a decision.
	for _, c := range prem.Claims {
		if err := tbls.InsertClaim(&c); err != nil {
			return err
		}
	}
	for _, d := range prem.Decisions {
		if err := tbls.InsertDecision(&d); err != nil {
			return err
		}
	}
	for _, c := range prem.Claims {
		if c.CurrentDecisionId == nil {
			continue
		}
		if err := tbls.SetCurrentDecision(c.ClaimId, *c.CurrentDecisionId); err != nil {
			return err
		}
	}

	for _, e := range prem.Evidence {
		if err := tbls.InsertEvidence(&e); err != nil {
			return err
		}
	}
	for _, c := range prem.EvidenceChecks {
		if err := tbls.InsertEvidenceCheck(&c); err != nil {
			return err
		}
	}

	for _, th := range prem.Threads {
		if err := tbls.InsertDiscussionThread(&th); err != nil {
			return err
		}
	}
	// posts reply only to earlier posts, so declared order works.
	for _, p := range prem.Posts {
		if err := tbls.InsertDiscussionPost(&p); err != nil {
			return err
		}
	}

	for _, s := range prem.PipelineStatus {
		if err := tbls.InsertPipelineStatus(&s); err != nil {
			return err
		}
	}
	for _, q := range prem.PipelineQueue {
		if err := tbls.InsertPipelineQueue(&q); err != nil {
			return err
		}
	}

	return nil
}
