package db

import (
	"context"

	"github.com/edubba/edubba/pkg/domain"
)

type DiscussionInterface interface {
	// Open opens the deliberation thread of a claim. A claim holds at
	// most one thread.
	//
	// Args
	//
	// - context.Context
	//
	// - domain.ThreadSpec
	//
	// Returns
	//
	// - domain.Thread: the thread as opened, without posts.
	//
	// - error:
	// domain.ErrThreadExists (when the claim is already discussed),
	// ErrMissing (when the claim is not found),
	// ErrInvalid (when the spec does not validate).
	Open(ctx context.Context, spec domain.ThreadSpec) (domain.Thread, error)

	// Post appends a post to an open thread.
	//
	// Args
	//
	// - context.Context
	//
	// - domain.PostSpec: its ReplyTo, when set, has to name a post of
	// the same thread.
	//
	// Returns
	//
	// - domain.Post: the post as appended.
	//
	// - error:
	// domain.ErrThreadNotOpen (when the thread is resolved or archived),
	// domain.ErrUnrelatedReply (when ReplyTo points outside the thread),
	// ErrMissing (when the thread is not found),
	// ErrInvalid (when the spec does not validate).
	Post(ctx context.Context, spec domain.PostSpec) (domain.Post, error)

	// Resolve settles an open thread with a decision of its claim.
	//
	// Args
	//
	// - context.Context
	//
	// - string: thread id
	//
	// - string: decision id. It has to belong to the thread's claim.
	//
	// Returns
	//
	// - domain.Thread: the thread as resolved, posts included.
	//
	// - error:
	// domain.ErrUnrelatedDecision (when the decision belongs to another
	// claim),
	// domain.ErrInvalidThreadStateChanging (when the thread is not open),
	// ErrMissing (when the thread or the decision is not found).
	Resolve(ctx context.Context, threadId string, decisionId string) (domain.Thread, error)

	// Archive closes a thread for good. Open and resolved threads can be
	// archived; archived is terminal.
	//
	// Args
	//
	// - context.Context
	//
	// - string: thread id
	//
	// Returns
	//
	// - domain.Thread: the thread as archived, posts included.
	//
	// - error:
	// domain.ErrInvalidThreadStateChanging (when the thread is archived
	// already),
	// ErrMissing (when the thread is not found).
	Archive(ctx context.Context, threadId string) (domain.Thread, error)

	// Get retrieves a thread with its posts, oldest post first.
	//
	// Args
	//
	// - context.Context
	//
	// - string: thread id
	//
	// Returns
	//
	// - domain.Thread
	//
	// - error: ErrMissing when the thread is not found.
	Get(ctx context.Context, threadId string) (domain.Thread, error)
}
