package mock

import (
	"context"
	"errors"

	"github.com/edubba/edubba/pkg/domain"
	kdb "github.com/edubba/edubba/pkg/domain/claim/db"
	dbmock "github.com/edubba/edubba/pkg/domain/internal/db/mock"
)

type ClaimInterface struct {
	Impl struct {
		Register     func(ctx context.Context, spec domain.ClaimSpec) (domain.Claim, error)
		Get          func(ctx context.Context, claimIds []string) (map[string]domain.Claim, error)
		ListByTarget func(ctx context.Context, target domain.TargetRef) ([]domain.Claim, error)
	}

	Calls struct {
		Register     dbmock.CallLog[domain.ClaimSpec]
		Get          dbmock.CallLog[[]string]
		ListByTarget dbmock.CallLog[domain.TargetRef]
	}
}

func NewClaimInterface() *ClaimInterface {
	return &ClaimInterface{}
}

var _ kdb.ClaimInterface = &ClaimInterface{}

func (m *ClaimInterface) Register(ctx context.Context, spec domain.ClaimSpec) (domain.Claim, error) {
	m.Calls.Register = append(m.Calls.Register, spec)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, spec)
	}

	panic(errors.New("it should not be called"))
}

func (m *ClaimInterface) Get(ctx context.Context, claimIds []string) (map[string]domain.Claim, error) {
	m.Calls.Get = append(m.Calls.Get, claimIds)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, claimIds)
	}

	panic(errors.New("it should not be called"))
}

func (m *ClaimInterface) ListByTarget(ctx context.Context, target domain.TargetRef) ([]domain.Claim, error) {
	m.Calls.ListByTarget = append(m.Calls.ListByTarget, target)
	if m.Impl.ListByTarget != nil {
		return m.Impl.ListByTarget(ctx, target)
	}

	panic(errors.New("it should not be called"))
}
