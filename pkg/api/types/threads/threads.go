package threads

import (
	"github.com/edubba/edubba/pkg/utils/cmp"
	"github.com/edubba/edubba/pkg/utils/rfctime"
)

// Spec is the request body for opening a discussion thread on a claim.
//
// The opener is taken from the run token, not from the body.
type Spec struct {
	ClaimId string `json:"claimId"`
	Title   string `json:"title"`
}

func (s *Spec) Equal(o *Spec) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	return s.ClaimId == o.ClaimId && s.Title == o.Title
}

// PostSpec is the request body for replying in a thread.
type PostSpec struct {
	ReplyTo *string `json:"replyTo,omitempty"`
	Type    string  `json:"type"`
	Body    string  `json:"body"`
}

func (s *PostSpec) Equal(o *PostSpec) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	return cmp.PEqEq(s.ReplyTo, o.ReplyTo) &&
		s.Type == o.Type &&
		s.Body == o.Body
}

// ResolveSpec is the request body for resolving a thread: the decision,
// already committed for the thread's claim, which settles it.
type ResolveSpec struct {
	DecisionId string `json:"decisionId"`
}

type Post struct {
	PostId   string          `json:"postId"`
	ThreadId string          `json:"threadId"`
	ReplyTo  *string         `json:"replyTo,omitempty"`
	Type     string          `json:"type"`
	AuthorId string          `json:"authorId"`
	Body     string          `json:"body"`
	PostedAt rfctime.RFC3339 `json:"postedAt"`
}

func (p *Post) Equal(o *Post) bool {
	if p == nil || o == nil {
		return p == nil && o == nil
	}
	return p.PostId == o.PostId &&
		p.ThreadId == o.ThreadId &&
		cmp.PEqEq(p.ReplyTo, o.ReplyTo) &&
		p.Type == o.Type &&
		p.AuthorId == o.AuthorId &&
		p.Body == o.Body &&
		p.PostedAt.Equal(&o.PostedAt)
}

type Detail struct {
	ThreadId string          `json:"threadId"`
	ClaimId  string          `json:"claimId"`
	Title    string          `json:"title"`
	Status   string          `json:"status"`
	OpenedBy string          `json:"openedBy"`
	OpenedAt rfctime.RFC3339 `json:"openedAt"`

	ResolutionDecisionId *string `json:"resolutionDecisionId,omitempty"`

	// posts in posting order, oldest first.
	Posts []Post `json:"posts"`
}

func (d *Detail) Equal(o *Detail) bool {
	if d == nil || o == nil {
		return d == nil && o == nil
	}
	return d.ThreadId == o.ThreadId &&
		d.ClaimId == o.ClaimId &&
		d.Title == o.Title &&
		d.Status == o.Status &&
		d.OpenedBy == o.OpenedBy &&
		d.OpenedAt.Equal(&o.OpenedAt) &&
		cmp.PEqEq(d.ResolutionDecisionId, o.ResolutionDecisionId) &&
		cmp.SliceEqWith(d.Posts, o.Posts, func(a, b Post) bool { return a.Equal(&b) })
}
