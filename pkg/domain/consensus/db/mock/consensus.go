package mock

import (
	"context"
	"errors"

	"github.com/edubba/edubba/pkg/domain"
	kdb "github.com/edubba/edubba/pkg/domain/consensus/db"
	dbmock "github.com/edubba/edubba/pkg/domain/internal/db/mock"
)

type ConsensusInterface struct {
	Impl struct {
		Resolve func(ctx context.Context, target domain.TargetRef) (domain.ConsensusResult, error)
	}

	Calls struct {
		Resolve dbmock.CallLog[domain.TargetRef]
	}
}

func NewConsensusInterface() *ConsensusInterface {
	return &ConsensusInterface{}
}

var _ kdb.ConsensusInterface = &ConsensusInterface{}

func (m *ConsensusInterface) Resolve(ctx context.Context, target domain.TargetRef) (domain.ConsensusResult, error) {
	m.Calls.Resolve = append(m.Calls.Resolve, target)
	if m.Impl.Resolve != nil {
		return m.Impl.Resolve(ctx, target)
	}

	panic(errors.New("it should not be called"))
}
