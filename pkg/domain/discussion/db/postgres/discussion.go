package postgres

import (
	"context"
	"errors"
	"fmt"

	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	xe "github.com/edubba/edubba/pkg/errors"
	"github.com/edubba/edubba/pkg/domain"
	domerr "github.com/edubba/edubba/pkg/domain/errors"
	kpgerr "github.com/edubba/edubba/pkg/domain/errors/dberrors/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	pgerrcode "github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
)

type discussionPG struct { // implements kdb.DiscussionInterface

	// connection pool for PostgreSQL
	pool kpool.Pool
}

func New(pool kpool.Pool) *discussionPG {
	return &discussionPG{pool: pool}
}

func (d *discussionPG) Open(ctx context.Context, spec domain.ThreadSpec) (domain.Thread, error) {
	if err := spec.Validate(); err != nil {
		return domain.Thread{}, err
	}

	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return domain.Thread{}, xe.Wrap(err)
	}
	defer conn.Release()

	th := domain.Thread{
		ThreadId: uuid.NewString(),
		ClaimId:  spec.ClaimId,
		Title:    spec.Title,
		Status:   domain.ThreadOpen,
		OpenedBy: spec.OpenedBy,
		Posts:    []domain.Post{},
	}
	if err := conn.QueryRow(
		ctx,
		`insert into "discussion_threads" (
			"thread_id", "claim_id", "title", "opened_by"
		) values ($1, $2, $3, $4)
		returning "opened_at"`,
		th.ThreadId, th.ClaimId, th.Title, th.OpenedBy,
	).Scan(&th.OpenedAt); err != nil {
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) {
			return domain.Thread{}, err
		}
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return domain.Thread{}, domain.ErrThreadExists
		case pgerrcode.ForeignKeyViolation:
			return domain.Thread{}, kpgerr.Missing{
				Table:    "claims",
				Identity: fmt.Sprintf("claim_id='%s'", spec.ClaimId),
			}
		}
		return domain.Thread{}, err
	}

	return th, nil
}

func (d *discussionPG) Post(ctx context.Context, spec domain.PostSpec) (domain.Post, error) {
	if err := spec.Validate(); err != nil {
		return domain.Post{}, err
	}

	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return domain.Post{}, xe.Wrap(err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return domain.Post{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	status := ""
	if err := tx.QueryRow(
		ctx,
		`select "status" from "discussion_threads"
		where "thread_id" = $1 for update`,
		spec.ThreadId,
	).Scan(&status); err != nil {
		if err == pgx.ErrNoRows {
			return domain.Post{}, kpgerr.Missing{
				Table:    "discussion_threads",
				Identity: fmt.Sprintf("thread_id='%s'", spec.ThreadId),
			}
		}
		return domain.Post{}, err
	}
	st, err := domain.AsThreadStatus(status)
	if err != nil {
		return domain.Post{}, fmt.Errorf(
			"%w: thread %s: %s", domerr.ErrConsistencyViolation, spec.ThreadId, err,
		)
	}
	if st != domain.ThreadOpen {
		return domain.Post{}, domain.ErrThreadNotOpen
	}

	p := domain.Post{
		PostId:   uuid.NewString(),
		ThreadId: spec.ThreadId,
		ReplyTo:  spec.ReplyTo,
		Type:     spec.Type,
		AuthorId: spec.AuthorId,
		Body:     spec.Body,
	}
	if err := tx.QueryRow(
		ctx,
		`insert into "discussion_posts" (
			"post_id", "thread_id", "reply_to", "post_type", "author_id", "body"
		) values ($1, $2, $3, $4, $5, $6)
		returning "posted_at"`,
		p.PostId, p.ThreadId, p.ReplyTo, string(p.Type), p.AuthorId, p.Body,
	).Scan(&p.PostedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			pgErr.Code == pgerrcode.ForeignKeyViolation &&
			pgErr.ConstraintName == "posts_reply_same_thread" {
			return domain.Post{}, domain.ErrUnrelatedReply
		}
		return domain.Post{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Post{}, xe.Wrap(err)
	}
	return p, nil
}

func (d *discussionPG) Resolve(ctx context.Context, threadId string, decisionId string) (domain.Thread, error) {
	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return domain.Thread{}, xe.Wrap(err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return domain.Thread{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	// the WHERE clause carries the whole rule: only an open thread, and
	// only with a decision of its own claim.
	ctag, err := tx.Exec(
		ctx,
		`update "discussion_threads" as "t"
		set "status" = 'resolved', "resolution_decision_id" = "d"."decision_id"
		from "decisions" as "d"
		where "t"."thread_id" = $1 and "t"."status" = 'open'
			and "d"."decision_id" = $2 and "d"."claim_id" = "t"."claim_id"`,
		threadId, decisionId,
	)
	if err != nil {
		return domain.Thread{}, err
	}
	if ctag.RowsAffected() != 1 {
		return domain.Thread{}, diagnoseResolve(ctx, tx, threadId, decisionId)
	}

	th, err := getThread(ctx, tx, threadId)
	if err != nil {
		return domain.Thread{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Thread{}, xe.Wrap(err)
	}
	return th, nil
}

// diagnoseResolve tells why the conditional resolve matched nothing.
func diagnoseResolve(ctx context.Context, conn kpool.Queryer, threadId string, decisionId string) error {
	threadClaim := ""
	if err := conn.QueryRow(
		ctx,
		`select "claim_id" from "discussion_threads" where "thread_id" = $1`,
		threadId,
	).Scan(&threadClaim); err != nil {
		if err == pgx.ErrNoRows {
			return kpgerr.Missing{
				Table:    "discussion_threads",
				Identity: fmt.Sprintf("thread_id='%s'", threadId),
			}
		}
		return err
	}

	decisionClaim := ""
	if err := conn.QueryRow(
		ctx,
		`select "claim_id" from "decisions" where "decision_id" = $1`,
		decisionId,
	).Scan(&decisionClaim); err != nil {
		if err == pgx.ErrNoRows {
			return kpgerr.Missing{
				Table:    "decisions",
				Identity: fmt.Sprintf("decision_id='%s'", decisionId),
			}
		}
		return err
	}

	if threadClaim != decisionClaim {
		return domain.ErrUnrelatedDecision
	}
	return domain.ErrInvalidThreadStateChanging
}

func (d *discussionPG) Archive(ctx context.Context, threadId string) (domain.Thread, error) {
	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return domain.Thread{}, xe.Wrap(err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return domain.Thread{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	ctag, err := tx.Exec(
		ctx,
		`update "discussion_threads" set "status" = 'archived'
		where "thread_id" = $1 and "status" in ('open', 'resolved')`,
		threadId,
	)
	if err != nil {
		return domain.Thread{}, err
	}
	if ctag.RowsAffected() != 1 {
		found := false
		if err := tx.QueryRow(
			ctx,
			`select exists (
				select 1 from "discussion_threads" where "thread_id" = $1
			)`,
			threadId,
		).Scan(&found); err != nil {
			return domain.Thread{}, err
		}
		if !found {
			return domain.Thread{}, kpgerr.Missing{
				Table:    "discussion_threads",
				Identity: fmt.Sprintf("thread_id='%s'", threadId),
			}
		}
		return domain.Thread{}, domain.ErrInvalidThreadStateChanging
	}

	th, err := getThread(ctx, tx, threadId)
	if err != nil {
		return domain.Thread{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Thread{}, xe.Wrap(err)
	}
	return th, nil
}

func (d *discussionPG) Get(ctx context.Context, threadId string) (domain.Thread, error) {
	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return domain.Thread{}, xe.Wrap(err)
	}
	defer conn.Release()

	return getThread(ctx, conn, threadId)
}

func getThread(ctx context.Context, conn kpool.Queryer, threadId string) (domain.Thread, error) {
	th := domain.Thread{ThreadId: threadId}
	var (
		status        string
		hasResolution bool
		resolution    string
	)
	if err := conn.QueryRow(
		ctx,
		`select
			"claim_id", "title", "status", "opened_by", "opened_at",
			"resolution_decision_id" is not null as "has_resolution",
			coalesce("resolution_decision_id", '') as "resolution_decision_id"
		from "discussion_threads"
		where "thread_id" = $1`,
		threadId,
	).Scan(
		&th.ClaimId, &th.Title, &status, &th.OpenedBy, &th.OpenedAt,
		&hasResolution, &resolution,
	); err != nil {
		if err == pgx.ErrNoRows {
			return domain.Thread{}, kpgerr.Missing{
				Table:    "discussion_threads",
				Identity: fmt.Sprintf("thread_id='%s'", threadId),
			}
		}
		return domain.Thread{}, err
	}
	st, err := domain.AsThreadStatus(status)
	if err != nil {
		return domain.Thread{}, fmt.Errorf(
			"%w: thread %s: %s", domerr.ErrConsistencyViolation, threadId, err,
		)
	}
	th.Status = st
	if hasResolution {
		th.ResolutionDecisionId = &resolution
	}

	rows, err := conn.Query(
		ctx,
		`select
			"post_id",
			"reply_to" is not null as "has_reply_to",
			coalesce("reply_to", '') as "reply_to",
			"post_type", "author_id", "body", "posted_at"
		from "discussion_posts"
		where "thread_id" = $1
		order by "posted_at", "post_id"`,
		threadId,
	)
	if err != nil {
		return domain.Thread{}, err
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		p := domain.Post{ThreadId: threadId}
		var (
			hasReplyTo bool
			replyTo    string
			postType   string
		)
		if err := rows.Scan(
			&p.PostId, &hasReplyTo, &replyTo,
			&postType, &p.AuthorId, &p.Body, &p.PostedAt,
		); err != nil {
			return domain.Thread{}, err
		}
		t, err := domain.AsPostType(postType)
		if err != nil {
			return domain.Thread{}, fmt.Errorf(
				"%w: post %s: %s", domerr.ErrConsistencyViolation, p.PostId, err,
			)
		}
		p.Type = t
		if hasReplyTo {
			p.ReplyTo = &replyTo
		}
		posts = append(posts, p)
	}
	th.Posts = posts

	return th, nil
}
