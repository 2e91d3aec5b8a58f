package domain

import (
	"fmt"
	"time"

	domerr "github.com/edubba/edubba/pkg/domain/errors"
	"github.com/edubba/edubba/pkg/utils/cmp"
)

// ThreadStatus is the lifecycle state of a DiscussionThread.
type ThreadStatus string

const (
	ThreadOpen     ThreadStatus = "open"
	ThreadResolved ThreadStatus = "resolved"
	ThreadArchived ThreadStatus = "archived"
)

func (s ThreadStatus) String() string {
	return string(s)
}

func AsThreadStatus(s string) (ThreadStatus, error) {
	switch ts := ThreadStatus(s); ts {
	case ThreadOpen, ThreadResolved, ThreadArchived:
		return ts, nil
	default:
		return "", fmt.Errorf("%w: unknown thread status: %s", domerr.ErrInvalid, s)
	}
}

// CanTransitTo reports whether a thread in status s may move to next.
//
// open goes to resolved or archived, resolved goes to archived,
// and archived is terminal.
func (s ThreadStatus) CanTransitTo(next ThreadStatus) bool {
	switch s {
	case ThreadOpen:
		return next == ThreadResolved || next == ThreadArchived
	case ThreadResolved:
		return next == ThreadArchived
	default:
		return false
	}
}

// PostType tells what role a post plays in its thread.
type PostType string

const (
	PostObservation     PostType = "observation"
	PostCounterargument PostType = "counterargument"
	PostEvidence        PostType = "evidence"
	PostQuestion        PostType = "question"
	PostSynthesis       PostType = "synthesis"
	PostEndorsement     PostType = "endorsement"
)

func (t PostType) String() string {
	return string(t)
}

func AsPostType(s string) (PostType, error) {
	switch t := PostType(s); t {
	case PostObservation, PostCounterargument, PostEvidence,
		PostQuestion, PostSynthesis, PostEndorsement:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown post type: %s", domerr.ErrInvalid, s)
	}
}

var (
	// a thread for the claim exists already. there is one thread per claim.
	ErrThreadExists = fmt.Errorf(
		"%w: discussion thread exists for the claim", domerr.ErrConflict,
	)

	// posting needs the thread to be open.
	ErrThreadNotOpen = fmt.Errorf(
		"%w: discussion thread is not open", domerr.ErrConflict,
	)

	// the requested status change is not in the thread lifecycle.
	ErrInvalidThreadStateChanging = fmt.Errorf(
		"%w: invalid thread state changing", domerr.ErrConflict,
	)

	// resolving needs a decision of the thread's own claim.
	ErrUnrelatedDecision = fmt.Errorf(
		"%w: decision does not belong to the thread's claim", domerr.ErrInvalid,
	)

	// replying needs a post of the same thread.
	ErrUnrelatedReply = fmt.Errorf(
		"%w: reply_to post does not belong to the thread", domerr.ErrInvalid,
	)
)

// ThreadSpec is a request to open a DiscussionThread on a claim.
type ThreadSpec struct {
	ClaimId  string
	Title    string
	OpenedBy string
}

func (s ThreadSpec) Validate() error {
	if s.ClaimId == "" {
		return fmt.Errorf("%w: claimId is required", domerr.ErrInvalid)
	}
	if s.Title == "" {
		return fmt.Errorf("%w: title is required", domerr.ErrInvalid)
	}
	if s.OpenedBy == "" {
		return fmt.Errorf("%w: openedBy is required", domerr.ErrInvalid)
	}
	return nil
}

// PostSpec is a request to append a post to an open thread.
type PostSpec struct {
	ThreadId string
	ReplyTo  *string
	Type     PostType
	AuthorId string
	Body     string
}

func (s PostSpec) Validate() error {
	if s.ThreadId == "" {
		return fmt.Errorf("%w: threadId is required", domerr.ErrInvalid)
	}
	if _, err := AsPostType(s.Type.String()); err != nil {
		return err
	}
	if s.AuthorId == "" {
		return fmt.Errorf("%w: authorId is required", domerr.ErrInvalid)
	}
	if s.Body == "" {
		return fmt.Errorf("%w: body is required", domerr.ErrInvalid)
	}
	return nil
}

// Post is one message in a DiscussionThread. Immutable.
type Post struct {
	PostId   string
	ThreadId string

	// the post this one answers. nil for a top-level post.
	ReplyTo *string

	Type     PostType
	AuthorId string
	Body     string
	PostedAt time.Time
}

func (p Post) Equal(other Post) bool {
	return p.PostId == other.PostId &&
		p.ThreadId == other.ThreadId &&
		cmp.PEqEq(p.ReplyTo, other.ReplyTo) &&
		p.Type == other.Type &&
		p.AuthorId == other.AuthorId &&
		p.Body == other.Body &&
		p.PostedAt.Equal(other.PostedAt)
}

// Thread is a deliberation thread tied to one claim.
type Thread struct {
	ThreadId string
	ClaimId  string
	Title    string
	Status   ThreadStatus
	OpenedBy string
	OpenedAt time.Time

	// the decision which settled the thread.
	// non-nil iff Status is ThreadResolved or the thread was resolved
	// before it was archived.
	ResolutionDecisionId *string

	// posts in posting order, oldest first.
	Posts []Post
}

func (t Thread) Equal(other Thread) bool {
	return t.ThreadId == other.ThreadId &&
		t.ClaimId == other.ClaimId &&
		t.Title == other.Title &&
		t.Status == other.Status &&
		t.OpenedBy == other.OpenedBy &&
		t.OpenedAt.Equal(other.OpenedAt) &&
		cmp.PEqEq(t.ResolutionDecisionId, other.ResolutionDecisionId) &&
		cmp.SliceEqWith(t.Posts, other.Posts, func(a, b Post) bool { return a.Equal(b) })
}
