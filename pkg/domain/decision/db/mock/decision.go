package mock

import (
	"context"
	"errors"

	"github.com/edubba/edubba/pkg/domain"
	kdb "github.com/edubba/edubba/pkg/domain/decision/db"
	dbmock "github.com/edubba/edubba/pkg/domain/internal/db/mock"
)

type DecisionInterface struct {
	Impl struct {
		Record      func(ctx context.Context, spec domain.DecisionSpec) (domain.RecordResult, error)
		ListByClaim func(ctx context.Context, claimId string) ([]domain.Decision, error)
	}

	Calls struct {
		Record      dbmock.CallLog[domain.DecisionSpec]
		ListByClaim dbmock.CallLog[string]
	}
}

func NewDecisionInterface() *DecisionInterface {
	return &DecisionInterface{}
}

var _ kdb.DecisionInterface = &DecisionInterface{}

func (m *DecisionInterface) Record(ctx context.Context, spec domain.DecisionSpec) (domain.RecordResult, error) {
	m.Calls.Record = append(m.Calls.Record, spec)
	if m.Impl.Record != nil {
		return m.Impl.Record(ctx, spec)
	}

	panic(errors.New("it should not be called"))
}

func (m *DecisionInterface) ListByClaim(ctx context.Context, claimId string) ([]domain.Decision, error) {
	m.Calls.ListByClaim = append(m.Calls.ListByClaim, claimId)
	if m.Impl.ListByClaim != nil {
		return m.Impl.ListByClaim(ctx, claimId)
	}

	panic(errors.New("it should not be called"))
}
