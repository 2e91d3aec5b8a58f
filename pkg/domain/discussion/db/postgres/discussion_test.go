package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/edubba/edubba/internal/testutils/dbenv"
	"github.com/edubba/edubba/pkg/conn/db/postgres/scanner"
	"github.com/edubba/edubba/pkg/domain"
	kpgdiscussion "github.com/edubba/edubba/pkg/domain/discussion/db/postgres"
	domerr "github.com/edubba/edubba/pkg/domain/errors"
	"github.com/edubba/edubba/pkg/domain/internal/db/postgres/tables"
	. "github.com/edubba/edubba/pkg/domain/internal/db/postgres/testhelpers"
	"github.com/edubba/edubba/pkg/utils/cmp"
	"github.com/edubba/edubba/pkg/utils/try"
)

type threadRow struct {
	ThreadId      string `sql:"thread_id"`
	ClaimId       string `sql:"claim_id"`
	Title         string `sql:"title"`
	Status        string `sql:"status"`
	OpenedBy      string `sql:"opened_by"`
	HasResolution bool   `sql:"has_resolution"`
	Resolution    string `sql:"resolution"`
}

const threadRowQuery = `
select
	"thread_id", "claim_id", "title", "status", "opened_by",
	"resolution_decision_id" is not null as "has_resolution",
	coalesce("resolution_decision_id", '') as "resolution"
from "discussion_threads"
`

func TestDiscussion_Open(t *testing.T) {
	poolBroaker := dbenv.NewPoolBroaker(context.Background(), t)

	runCreatedAt := try.To(ISO8601("2025-10-20T09:00:00+00:00")).OrFatal(t)
	given := tables.Operation{
		Artifacts:     []tables.Artifact{{ArtifactId: 100, MuseumNumber: "BM 010001"}},
		Surfaces:      []tables.Surface{{SurfaceId: 200, ArtifactId: 100, Label: "obverse"}},
		Lines:         []tables.Line{{LineId: 300, SurfaceId: 200, LineNumber: 1}},
		SignInstances: []tables.SignInstance{{SignInstanceId: 400, LineId: 300, Position: 1}},
		Runs: []tables.AnnotationRun{
			{
				RunId: Padding36("run-human"), SourceType: "human",
				SourceName: "edubba-web", ScholarId: Ref("scholar-7"),
				Method: "manual collation", CorpusScope: "girsu-ur3",
				CreatedAt: &runCreatedAt,
			},
		},
		Claims: []tables.Claim{
			{
				ClaimId: Padding36("claim-1"), ClaimKind: "sign_reading",
				SignInstanceId: Ref[int64](400),
				Payload:        `{"signInstanceId": 400, "value": "dub"}`,
				RunId:          Padding36("run-human"), CreatedAt: &runCreatedAt,
			},
		},
	}

	t.Run("When a thread is opened on a claim, it starts open and empty", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}
		conn := try.To(pgpool.Acquire(ctx)).OrFatal(t)
		defer conn.Release()

		testee := kpgdiscussion.New(pgpool)

		before := try.To(PGNow(ctx, conn)).OrFatal(t)
		actual := try.To(testee.Open(ctx, domain.ThreadSpec{
			ClaimId:  Padding36("claim-1"),
			Title:    "dub or ka?",
			OpenedBy: "scholar-7",
		})).OrFatal(t)
		after := try.To(PGNow(ctx, conn)).OrFatal(t)

		if actual.ThreadId == "" {
			t.Error("thread id is not issued")
		}
		if actual.OpenedAt.Before(before) || actual.OpenedAt.After(after) {
			t.Errorf(
				"opened_at is out of range. (actual, range) = (%s, [%s, %s])",
				actual.OpenedAt, before, after,
			)
		}
		expected := domain.Thread{
			ThreadId: actual.ThreadId,
			ClaimId:  Padding36("claim-1"),
			Title:    "dub or ka?",
			Status:   domain.ThreadOpen,
			OpenedBy: "scholar-7",
			OpenedAt: actual.OpenedAt,
			Posts:    []domain.Post{},
		}
		if !actual.Equal(expected) {
			t.Errorf(
				"unexpected thread:\n- actual   : %+v\n- expected : %+v",
				actual, expected,
			)
		}

		records := try.To(
			scanner.New[threadRow]().QueryAll(ctx, conn, threadRowQuery),
		).OrFatal(t)
		expectedRecords := []threadRow{
			{
				ThreadId: actual.ThreadId, ClaimId: Padding36("claim-1"),
				Title: "dub or ka?", Status: "open", OpenedBy: "scholar-7",
			},
		}
		if !cmp.SliceEq(records, expectedRecords) {
			t.Errorf(
				"unexpected thread records:\n- actual   : %+v\n- expected : %+v",
				records, expectedRecords,
			)
		}
	})

	t.Run("When the claim already has a thread, it denies another", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}
		conn := try.To(pgpool.Acquire(ctx)).OrFatal(t)
		defer conn.Release()

		testee := kpgdiscussion.New(pgpool)

		try.To(testee.Open(ctx, domain.ThreadSpec{
			ClaimId:  Padding36("claim-1"),
			Title:    "dub or ka?",
			OpenedBy: "scholar-7",
		})).OrFatal(t)

		_, err := testee.Open(ctx, domain.ThreadSpec{
			ClaimId:  Padding36("claim-1"),
			Title:    "another take",
			OpenedBy: "scholar-9",
		})
		if !errors.Is(err, domain.ErrThreadExists) {
			t.Errorf("unexpected error: %+v", err)
		}

		count := try.To(scanner.New[int64]().QueryAll(
			ctx, conn, `select count(*) from "discussion_threads"`,
		)).OrFatal(t)
		if !cmp.SliceEq(count, []int64{1}) {
			t.Errorf("unexpected number of threads: %+v", count)
		}
	})

	t.Run("When the claim does not exist, it denies the thread", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}

		testee := kpgdiscussion.New(pgpool)

		_, err := testee.Open(ctx, domain.ThreadSpec{
			ClaimId:  Padding36("claim-ghost"),
			Title:    "dub or ka?",
			OpenedBy: "scholar-7",
		})
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %+v", err)
		}
	})

	t.Run("it denies invalid specs:", func(t *testing.T) {
		for name, spec := range map[string]domain.ThreadSpec{
			"without claimId":  {Title: "dub or ka?", OpenedBy: "scholar-7"},
			"without title":    {ClaimId: Padding36("claim-1"), OpenedBy: "scholar-7"},
			"without openedBy": {ClaimId: Padding36("claim-1"), Title: "dub or ka?"},
		} {
			t.Run(name, func(t *testing.T) {
				ctx := context.Background()
				pgpool := poolBroaker.GetPool(ctx, t)
				if err := given.Apply(ctx, pgpool); err != nil {
					t.Fatal(err)
				}

				testee := kpgdiscussion.New(pgpool)

				_, err := testee.Open(ctx, spec)
				if !errors.Is(err, domerr.ErrInvalid) {
					t.Errorf("unexpected error: %+v", err)
				}
			})
		}
	})
}

func TestDiscussion_Post(t *testing.T) {
	poolBroaker := dbenv.NewPoolBroaker(context.Background(), t)

	runCreatedAt := try.To(ISO8601("2025-10-20T09:00:00+00:00")).OrFatal(t)
	openedAt := try.To(ISO8601("2025-10-21T09:00:00+00:00")).OrFatal(t)
	given := tables.Operation{
		Artifacts:     []tables.Artifact{{ArtifactId: 100, MuseumNumber: "BM 010001"}},
		Surfaces:      []tables.Surface{{SurfaceId: 200, ArtifactId: 100, Label: "obverse"}},
		Lines:         []tables.Line{{LineId: 300, SurfaceId: 200, LineNumber: 1}},
		SignInstances: []tables.SignInstance{{SignInstanceId: 400, LineId: 300, Position: 1}},
		Runs: []tables.AnnotationRun{
			{
				RunId: Padding36("run-human"), SourceType: "human",
				SourceName: "edubba-web", ScholarId: Ref("scholar-7"),
				Method: "manual collation", CorpusScope: "girsu-ur3",
				CreatedAt: &runCreatedAt,
			},
		},
		Claims: []tables.Claim{
			{
				ClaimId: Padding36("claim-1"), ClaimKind: "sign_reading",
				SignInstanceId: Ref[int64](400),
				Payload:        `{"signInstanceId": 400, "value": "dub"}`,
				RunId:          Padding36("run-human"), CreatedAt: &runCreatedAt,
			},
			{
				ClaimId: Padding36("claim-2"), ClaimKind: "sign_reading",
				SignInstanceId: Ref[int64](400),
				Payload:        `{"signInstanceId": 400, "value": "ka"}`,
				RunId:          Padding36("run-human"), CreatedAt: &runCreatedAt,
			},
		},
		Threads: []tables.DiscussionThread{
			{
				ThreadId: Padding36("thread-1"), ClaimId: Padding36("claim-1"),
				Title: "dub or ka?", Status: "open", OpenedBy: "scholar-7",
				OpenedAt: &openedAt,
			},
			{
				ThreadId: Padding36("thread-2"), ClaimId: Padding36("claim-2"),
				Title: "on the competing reading", Status: "open",
				OpenedBy: "scholar-9", OpenedAt: &openedAt,
			},
		},
	}

	t.Run("When a post is appended to an open thread, it is recorded", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}
		conn := try.To(pgpool.Acquire(ctx)).OrFatal(t)
		defer conn.Release()

		testee := kpgdiscussion.New(pgpool)

		before := try.To(PGNow(ctx, conn)).OrFatal(t)
		actual := try.To(testee.Post(ctx, domain.PostSpec{
			ThreadId: Padding36("thread-1"),
			Type:     domain.PostObservation,
			AuthorId: "scholar-9",
			Body:     "the lower wedge is damaged",
		})).OrFatal(t)
		after := try.To(PGNow(ctx, conn)).OrFatal(t)

		if actual.PostId == "" {
			t.Error("post id is not issued")
		}
		if actual.PostedAt.Before(before) || actual.PostedAt.After(after) {
			t.Errorf(
				"posted_at is out of range. (actual, range) = (%s, [%s, %s])",
				actual.PostedAt, before, after,
			)
		}
		expected := domain.Post{
			PostId:   actual.PostId,
			ThreadId: Padding36("thread-1"),
			Type:     domain.PostObservation,
			AuthorId: "scholar-9",
			Body:     "the lower wedge is damaged",
			PostedAt: actual.PostedAt,
		}
		if !actual.Equal(expected) {
			t.Errorf(
				"unexpected post:\n- actual   : %+v\n- expected : %+v",
				actual, expected,
			)
		}
	})

	t.Run("When a post replies to a post of the thread, it is recorded", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}
		postedAt := try.To(ISO8601("2025-10-21T10:00:00+00:00")).OrFatal(t)
		holding := tables.Operation{
			Posts: []tables.DiscussionPost{
				{
					PostId: Padding36("post-1"), ThreadId: Padding36("thread-1"),
					PostType: "observation", AuthorId: "scholar-9",
					Body: "the lower wedge is damaged", PostedAt: &postedAt,
				},
			},
		}
		if err := holding.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}

		testee := kpgdiscussion.New(pgpool)

		actual := try.To(testee.Post(ctx, domain.PostSpec{
			ThreadId: Padding36("thread-1"),
			ReplyTo:  Ref(Padding36("post-1")),
			Type:     domain.PostCounterargument,
			AuthorId: "scholar-7",
			Body:     "the damage does not reach the wedge",
		})).OrFatal(t)

		if r := actual.ReplyTo; r == nil || *r != Padding36("post-1") {
			t.Errorf("the post does not reply to post-1: %+v", r)
		}
	})

	t.Run("When a post replies to a post of another thread, it is denied", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}
		postedAt := try.To(ISO8601("2025-10-21T10:00:00+00:00")).OrFatal(t)
		holding := tables.Operation{
			Posts: []tables.DiscussionPost{
				{
					PostId: Padding36("post-other"), ThreadId: Padding36("thread-2"),
					PostType: "observation", AuthorId: "scholar-9",
					Body: "this belongs elsewhere", PostedAt: &postedAt,
				},
			},
		}
		if err := holding.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}
		conn := try.To(pgpool.Acquire(ctx)).OrFatal(t)
		defer conn.Release()

		testee := kpgdiscussion.New(pgpool)

		_, err := testee.Post(ctx, domain.PostSpec{
			ThreadId: Padding36("thread-1"),
			ReplyTo:  Ref(Padding36("post-other")),
			Type:     domain.PostCounterargument,
			AuthorId: "scholar-7",
			Body:     "replying across threads",
		})
		if !errors.Is(err, domain.ErrUnrelatedReply) {
			t.Errorf("unexpected error: %+v", err)
		}

		count := try.To(scanner.New[int64]().QueryAll(
			ctx, conn,
			`select count(*) from "discussion_posts" where "thread_id" = $1`,
			Padding36("thread-1"),
		)).OrFatal(t)
		if !cmp.SliceEq(count, []int64{0}) {
			t.Errorf("posts are recorded unexpectedly: %+v", count)
		}
	})

	t.Run("When the thread is not open, it denies the post", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}
		testee := kpgdiscussion.New(pgpool)

		try.To(testee.Archive(ctx, Padding36("thread-1"))).OrFatal(t)

		_, err := testee.Post(ctx, domain.PostSpec{
			ThreadId: Padding36("thread-1"),
			Type:     domain.PostObservation,
			AuthorId: "scholar-9",
			Body:     "too late",
		})
		if !errors.Is(err, domain.ErrThreadNotOpen) {
			t.Errorf("unexpected error: %+v", err)
		}
	})

	t.Run("When the thread does not exist, it denies the post", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}

		testee := kpgdiscussion.New(pgpool)

		_, err := testee.Post(ctx, domain.PostSpec{
			ThreadId: Padding36("thread-ghost"),
			Type:     domain.PostObservation,
			AuthorId: "scholar-9",
			Body:     "to nowhere",
		})
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %+v", err)
		}
	})

	t.Run("it denies invalid specs:", func(t *testing.T) {
		for name, spec := range map[string]domain.PostSpec{
			"without threadId": {
				Type: domain.PostObservation, AuthorId: "scholar-9", Body: "x",
			},
			"with unknown post type": {
				ThreadId: Padding36("thread-1"), Type: domain.PostType("rant"),
				AuthorId: "scholar-9", Body: "x",
			},
			"without authorId": {
				ThreadId: Padding36("thread-1"), Type: domain.PostObservation,
				Body: "x",
			},
			"without body": {
				ThreadId: Padding36("thread-1"), Type: domain.PostObservation,
				AuthorId: "scholar-9",
			},
		} {
			t.Run(name, func(t *testing.T) {
				ctx := context.Background()
				pgpool := poolBroaker.GetPool(ctx, t)
				if err := given.Apply(ctx, pgpool); err != nil {
					t.Fatal(err)
				}

				testee := kpgdiscussion.New(pgpool)

				_, err := testee.Post(ctx, spec)
				if !errors.Is(err, domerr.ErrInvalid) {
					t.Errorf("unexpected error: %+v", err)
				}
			})
		}
	})
}

func TestDiscussion_Resolve(t *testing.T) {
	poolBroaker := dbenv.NewPoolBroaker(context.Background(), t)

	runCreatedAt := try.To(ISO8601("2025-10-20T09:00:00+00:00")).OrFatal(t)
	openedAt := try.To(ISO8601("2025-10-21T09:00:00+00:00")).OrFatal(t)
	decidedAt := try.To(ISO8601("2025-10-22T10:00:00+00:00")).OrFatal(t)
	given := tables.Operation{
		Artifacts:     []tables.Artifact{{ArtifactId: 100, MuseumNumber: "BM 010001"}},
		Surfaces:      []tables.Surface{{SurfaceId: 200, ArtifactId: 100, Label: "obverse"}},
		Lines:         []tables.Line{{LineId: 300, SurfaceId: 200, LineNumber: 1}},
		SignInstances: []tables.SignInstance{{SignInstanceId: 400, LineId: 300, Position: 1}},
		Runs: []tables.AnnotationRun{
			{
				RunId: Padding36("run-human"), SourceType: "human",
				SourceName: "edubba-web", ScholarId: Ref("scholar-7"),
				Method: "manual collation", CorpusScope: "girsu-ur3",
				CreatedAt: &runCreatedAt,
			},
		},
		Claims: []tables.Claim{
			{
				ClaimId: Padding36("claim-1"), ClaimKind: "sign_reading",
				SignInstanceId: Ref[int64](400),
				Payload:        `{"signInstanceId": 400, "value": "dub"}`,
				RunId:          Padding36("run-human"), CreatedAt: &runCreatedAt,
			},
			{
				ClaimId: Padding36("claim-2"), ClaimKind: "sign_reading",
				SignInstanceId: Ref[int64](400),
				Payload:        `{"signInstanceId": 400, "value": "ka"}`,
				RunId:          Padding36("run-human"), CreatedAt: &runCreatedAt,
			},
		},
		Decisions: []tables.Decision{
			{
				DecisionId: Padding36("decision-1"),
				ClaimId:    Padding36("claim-1"),
				Verdict:    "accept", DecisionMethod: "editorial",
				Rationale: "the assembly agreed",
				DecidedBy: "scholar-7", DecidedAt: &decidedAt,
			},
			{
				DecisionId: Padding36("decision-other"),
				ClaimId:    Padding36("claim-2"),
				Verdict:    "reject", DecisionMethod: "editorial",
				Rationale: "not this one",
				DecidedBy: "scholar-7", DecidedAt: &decidedAt,
			},
		},
		Threads: []tables.DiscussionThread{
			{
				ThreadId: Padding36("thread-1"), ClaimId: Padding36("claim-1"),
				Title: "dub or ka?", Status: "open", OpenedBy: "scholar-7",
				OpenedAt: &openedAt,
			},
		},
	}

	t.Run("When a thread is resolved by a decision of its claim, it is settled", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}

		testee := kpgdiscussion.New(pgpool)

		actual := try.To(testee.Resolve(
			ctx, Padding36("thread-1"), Padding36("decision-1"),
		)).OrFatal(t)

		expected := domain.Thread{
			ThreadId:             Padding36("thread-1"),
			ClaimId:              Padding36("claim-1"),
			Title:                "dub or ka?",
			Status:               domain.ThreadResolved,
			OpenedBy:             "scholar-7",
			OpenedAt:             openedAt,
			ResolutionDecisionId: Ref(Padding36("decision-1")),
			Posts:                []domain.Post{},
		}
		if !actual.Equal(expected) {
			t.Errorf(
				"unexpected thread:\n- actual   : %+v\n- expected : %+v",
				actual, expected,
			)
		}
	})

	t.Run("When the decision is of another claim, it refuses to settle", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}
		conn := try.To(pgpool.Acquire(ctx)).OrFatal(t)
		defer conn.Release()

		testee := kpgdiscussion.New(pgpool)

		_, err := testee.Resolve(
			ctx, Padding36("thread-1"), Padding36("decision-other"),
		)
		if !errors.Is(err, domain.ErrUnrelatedDecision) {
			t.Errorf("unexpected error: %+v", err)
		}

		status := try.To(scanner.New[string]().QueryAll(
			ctx, conn,
			`select "status" from "discussion_threads" where "thread_id" = $1`,
			Padding36("thread-1"),
		)).OrFatal(t)
		if !cmp.SliceEq(status, []string{"open"}) {
			t.Errorf("the thread is settled unexpectedly: %+v", status)
		}
	})

	t.Run("When the thread is already settled, it refuses", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}

		testee := kpgdiscussion.New(pgpool)

		try.To(testee.Resolve(
			ctx, Padding36("thread-1"), Padding36("decision-1"),
		)).OrFatal(t)

		_, err := testee.Resolve(
			ctx, Padding36("thread-1"), Padding36("decision-1"),
		)
		if !errors.Is(err, domain.ErrInvalidThreadStateChanging) {
			t.Errorf("unexpected error: %+v", err)
		}
	})

	t.Run("When the thread does not exist, it returns an error", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}

		testee := kpgdiscussion.New(pgpool)

		_, err := testee.Resolve(
			ctx, Padding36("thread-ghost"), Padding36("decision-1"),
		)
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %+v", err)
		}
	})

	t.Run("When the decision does not exist, it returns an error", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}

		testee := kpgdiscussion.New(pgpool)

		_, err := testee.Resolve(
			ctx, Padding36("thread-1"), Padding36("decision-ghost"),
		)
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %+v", err)
		}
	})
}

func TestDiscussion_Archive(t *testing.T) {
	poolBroaker := dbenv.NewPoolBroaker(context.Background(), t)

	runCreatedAt := try.To(ISO8601("2025-10-20T09:00:00+00:00")).OrFatal(t)
	openedAt := try.To(ISO8601("2025-10-21T09:00:00+00:00")).OrFatal(t)
	decidedAt := try.To(ISO8601("2025-10-22T10:00:00+00:00")).OrFatal(t)
	given := tables.Operation{
		Artifacts:     []tables.Artifact{{ArtifactId: 100, MuseumNumber: "BM 010001"}},
		Surfaces:      []tables.Surface{{SurfaceId: 200, ArtifactId: 100, Label: "obverse"}},
		Lines:         []tables.Line{{LineId: 300, SurfaceId: 200, LineNumber: 1}},
		SignInstances: []tables.SignInstance{{SignInstanceId: 400, LineId: 300, Position: 1}},
		Runs: []tables.AnnotationRun{
			{
				RunId: Padding36("run-human"), SourceType: "human",
				SourceName: "edubba-web", ScholarId: Ref("scholar-7"),
				Method: "manual collation", CorpusScope: "girsu-ur3",
				CreatedAt: &runCreatedAt,
			},
		},
		Claims: []tables.Claim{
			{
				ClaimId: Padding36("claim-1"), ClaimKind: "sign_reading",
				SignInstanceId: Ref[int64](400),
				Payload:        `{"signInstanceId": 400, "value": "dub"}`,
				RunId:          Padding36("run-human"), CreatedAt: &runCreatedAt,
			},
		},
		Decisions: []tables.Decision{
			{
				DecisionId: Padding36("decision-1"),
				ClaimId:    Padding36("claim-1"),
				Verdict:    "accept", DecisionMethod: "editorial",
				Rationale: "the assembly agreed",
				DecidedBy: "scholar-7", DecidedAt: &decidedAt,
			},
		},
		Threads: []tables.DiscussionThread{
			{
				ThreadId: Padding36("thread-1"), ClaimId: Padding36("claim-1"),
				Title: "dub or ka?", Status: "open", OpenedBy: "scholar-7",
				OpenedAt: &openedAt,
			},
		},
	}

	t.Run("When an open thread is archived, it is closed as is", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}

		testee := kpgdiscussion.New(pgpool)

		actual := try.To(testee.Archive(ctx, Padding36("thread-1"))).OrFatal(t)

		if actual.Status != domain.ThreadArchived {
			t.Errorf("the thread is not archived: %s", actual.Status)
		}
		if actual.ResolutionDecisionId != nil {
			t.Errorf(
				"an unresolved thread carries a resolution: %+v",
				actual.ResolutionDecisionId,
			)
		}
	})

	t.Run("When a resolved thread is archived, it keeps its resolution", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}

		testee := kpgdiscussion.New(pgpool)

		try.To(testee.Resolve(
			ctx, Padding36("thread-1"), Padding36("decision-1"),
		)).OrFatal(t)

		actual := try.To(testee.Archive(ctx, Padding36("thread-1"))).OrFatal(t)

		if actual.Status != domain.ThreadArchived {
			t.Errorf("the thread is not archived: %s", actual.Status)
		}
		if r := actual.ResolutionDecisionId; r == nil || *r != Padding36("decision-1") {
			t.Errorf("the resolution is dropped: %+v", r)
		}
	})

	t.Run("When the thread is already archived, it refuses", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}

		testee := kpgdiscussion.New(pgpool)

		try.To(testee.Archive(ctx, Padding36("thread-1"))).OrFatal(t)

		_, err := testee.Archive(ctx, Padding36("thread-1"))
		if !errors.Is(err, domain.ErrInvalidThreadStateChanging) {
			t.Errorf("unexpected error: %+v", err)
		}
	})

	t.Run("When the thread does not exist, it returns an error", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)

		testee := kpgdiscussion.New(pgpool)

		_, err := testee.Archive(ctx, Padding36("thread-ghost"))
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %+v", err)
		}
	})
}

func TestDiscussion_Get(t *testing.T) {
	poolBroaker := dbenv.NewPoolBroaker(context.Background(), t)

	t.Run("it returns the thread with its posts, oldest first", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)

		runCreatedAt := try.To(ISO8601("2025-10-20T09:00:00+00:00")).OrFatal(t)
		openedAt := try.To(ISO8601("2025-10-21T09:00:00+00:00")).OrFatal(t)
		postedAt1 := try.To(ISO8601("2025-10-21T10:00:00+00:00")).OrFatal(t)
		postedAt2 := try.To(ISO8601("2025-10-21T11:00:00+00:00")).OrFatal(t)
		given := tables.Operation{
			Artifacts:     []tables.Artifact{{ArtifactId: 100, MuseumNumber: "BM 010001"}},
			Surfaces:      []tables.Surface{{SurfaceId: 200, ArtifactId: 100, Label: "obverse"}},
			Lines:         []tables.Line{{LineId: 300, SurfaceId: 200, LineNumber: 1}},
			SignInstances: []tables.SignInstance{{SignInstanceId: 400, LineId: 300, Position: 1}},
			Runs: []tables.AnnotationRun{
				{
					RunId: Padding36("run-human"), SourceType: "human",
					SourceName: "edubba-web", ScholarId: Ref("scholar-7"),
					Method: "manual collation", CorpusScope: "girsu-ur3",
					CreatedAt: &runCreatedAt,
				},
			},
			Claims: []tables.Claim{
				{
					ClaimId: Padding36("claim-1"), ClaimKind: "sign_reading",
					SignInstanceId: Ref[int64](400),
					Payload:        `{"signInstanceId": 400, "value": "dub"}`,
					RunId:          Padding36("run-human"), CreatedAt: &runCreatedAt,
				},
			},
			Threads: []tables.DiscussionThread{
				{
					ThreadId: Padding36("thread-1"), ClaimId: Padding36("claim-1"),
					Title: "dub or ka?", Status: "open", OpenedBy: "scholar-7",
					OpenedAt: &openedAt,
				},
			},
			Posts: []tables.DiscussionPost{
				{
					PostId: Padding36("post-1"), ThreadId: Padding36("thread-1"),
					PostType: "observation", AuthorId: "scholar-9",
					Body: "the lower wedge is damaged", PostedAt: &postedAt1,
				},
				{
					PostId: Padding36("post-2"), ThreadId: Padding36("thread-1"),
					ReplyTo:  Ref(Padding36("post-1")),
					PostType: "counterargument", AuthorId: "scholar-7",
					Body: "the damage does not reach the wedge", PostedAt: &postedAt2,
				},
			},
		}
		if err := given.Apply(ctx, pgpool); err != nil {
			t.Fatal(err)
		}

		testee := kpgdiscussion.New(pgpool)

		actual := try.To(testee.Get(ctx, Padding36("thread-1"))).OrFatal(t)

		expected := domain.Thread{
			ThreadId: Padding36("thread-1"),
			ClaimId:  Padding36("claim-1"),
			Title:    "dub or ka?",
			Status:   domain.ThreadOpen,
			OpenedBy: "scholar-7",
			OpenedAt: openedAt,
			Posts: []domain.Post{
				{
					PostId:   Padding36("post-1"),
					ThreadId: Padding36("thread-1"),
					Type:     domain.PostObservation,
					AuthorId: "scholar-9",
					Body:     "the lower wedge is damaged",
					PostedAt: postedAt1,
				},
				{
					PostId:   Padding36("post-2"),
					ThreadId: Padding36("thread-1"),
					ReplyTo:  Ref(Padding36("post-1")),
					Type:     domain.PostCounterargument,
					AuthorId: "scholar-7",
					Body:     "the damage does not reach the wedge",
					PostedAt: postedAt2,
				},
			},
		}
		if !actual.Equal(expected) {
			t.Errorf(
				"unexpected thread:\n- actual   : %+v\n- expected : %+v",
				actual, expected,
			)
		}
	})

	t.Run("When the thread does not exist, it returns an error", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)

		testee := kpgdiscussion.New(pgpool)

		_, err := testee.Get(ctx, Padding36("thread-ghost"))
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %+v", err)
		}
	})
}
