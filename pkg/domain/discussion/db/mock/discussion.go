package mock

import (
	"context"
	"errors"

	"github.com/edubba/edubba/pkg/domain"
	kdb "github.com/edubba/edubba/pkg/domain/discussion/db"
	dbmock "github.com/edubba/edubba/pkg/domain/internal/db/mock"
)

type DiscussionInterface struct {
	Impl struct {
		Open    func(ctx context.Context, spec domain.ThreadSpec) (domain.Thread, error)
		Post    func(ctx context.Context, spec domain.PostSpec) (domain.Post, error)
		Resolve func(ctx context.Context, threadId string, decisionId string) (domain.Thread, error)
		Archive func(ctx context.Context, threadId string) (domain.Thread, error)
		Get     func(ctx context.Context, threadId string) (domain.Thread, error)
	}

	Calls struct {
		Open    dbmock.CallLog[domain.ThreadSpec]
		Post    dbmock.CallLog[domain.PostSpec]
		Resolve dbmock.CallLog[struct {
			ThreadId   string
			DecisionId string
		}]
		Archive dbmock.CallLog[string]
		Get     dbmock.CallLog[string]
	}
}

func NewDiscussionInterface() *DiscussionInterface {
	return &DiscussionInterface{}
}

var _ kdb.DiscussionInterface = &DiscussionInterface{}

func (m *DiscussionInterface) Open(ctx context.Context, spec domain.ThreadSpec) (domain.Thread, error) {
	m.Calls.Open = append(m.Calls.Open, spec)
	if m.Impl.Open != nil {
		return m.Impl.Open(ctx, spec)
	}

	panic(errors.New("it should not be called"))
}

func (m *DiscussionInterface) Post(ctx context.Context, spec domain.PostSpec) (domain.Post, error) {
	m.Calls.Post = append(m.Calls.Post, spec)
	if m.Impl.Post != nil {
		return m.Impl.Post(ctx, spec)
	}

	panic(errors.New("it should not be called"))
}

func (m *DiscussionInterface) Resolve(ctx context.Context, threadId string, decisionId string) (domain.Thread, error) {
	m.Calls.Resolve = append(m.Calls.Resolve, struct {
		ThreadId   string
		DecisionId string
	}{ThreadId: threadId, DecisionId: decisionId})
	if m.Impl.Resolve != nil {
		return m.Impl.Resolve(ctx, threadId, decisionId)
	}

	panic(errors.New("it should not be called"))
}

func (m *DiscussionInterface) Archive(ctx context.Context, threadId string) (domain.Thread, error) {
	m.Calls.Archive = append(m.Calls.Archive, threadId)
	if m.Impl.Archive != nil {
		return m.Impl.Archive(ctx, threadId)
	}

	panic(errors.New("it should not be called"))
}

func (m *DiscussionInterface) Get(ctx context.Context, threadId string) (domain.Thread, error) {
	m.Calls.Get = append(m.Calls.Get, threadId)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, threadId)
	}

	panic(errors.New("it should not be called"))
}
