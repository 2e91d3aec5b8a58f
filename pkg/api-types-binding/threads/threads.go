package threads

import (
	apithreads "github.com/edubba/edubba/pkg/api/types/threads"
	"github.com/edubba/edubba/pkg/domain"
	"github.com/edubba/edubba/pkg/utils/rfctime"
	"github.com/edubba/edubba/pkg/utils/slices"
)

func ComposePost(p domain.Post) apithreads.Post {
	return apithreads.Post{
		PostId:   p.PostId,
		ThreadId: p.ThreadId,
		ReplyTo:  p.ReplyTo,
		Type:     p.Type.String(),
		AuthorId: p.AuthorId,
		Body:     p.Body,
		PostedAt: rfctime.New(p.PostedAt),
	}
}

func ComposeDetail(t domain.Thread) apithreads.Detail {
	return apithreads.Detail{
		ThreadId:             t.ThreadId,
		ClaimId:              t.ClaimId,
		Title:                t.Title,
		Status:               t.Status.String(),
		OpenedBy:             t.OpenedBy,
		OpenedAt:             rfctime.New(t.OpenedAt),
		ResolutionDecisionId: t.ResolutionDecisionId,
		Posts:                slices.Map(t.Posts, ComposePost),
	}
}
