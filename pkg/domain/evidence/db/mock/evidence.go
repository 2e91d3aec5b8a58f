package mock

import (
	"context"
	"errors"

	"github.com/edubba/edubba/pkg/domain"
	kdb "github.com/edubba/edubba/pkg/domain/evidence/db"
	dbmock "github.com/edubba/edubba/pkg/domain/internal/db/mock"
)

type EvidenceInterface struct {
	Impl struct {
		Attach      func(ctx context.Context, spec domain.EvidenceSpec) (domain.Evidence, error)
		ListByClaim func(ctx context.Context, claimId string) ([]domain.Evidence, error)
		PopCheck    func(ctx context.Context, callback func(domain.EvidenceCheck) error) (bool, error)
	}

	Calls struct {
		Attach      dbmock.CallLog[domain.EvidenceSpec]
		ListByClaim dbmock.CallLog[string]
		PopCheck    dbmock.CallLog[struct{}]
	}
}

func NewEvidenceInterface() *EvidenceInterface {
	return &EvidenceInterface{}
}

var _ kdb.EvidenceInterface = &EvidenceInterface{}

func (m *EvidenceInterface) Attach(ctx context.Context, spec domain.EvidenceSpec) (domain.Evidence, error) {
	m.Calls.Attach = append(m.Calls.Attach, spec)
	if m.Impl.Attach != nil {
		return m.Impl.Attach(ctx, spec)
	}

	panic(errors.New("it should not be called"))
}

func (m *EvidenceInterface) ListByClaim(ctx context.Context, claimId string) ([]domain.Evidence, error) {
	m.Calls.ListByClaim = append(m.Calls.ListByClaim, claimId)
	if m.Impl.ListByClaim != nil {
		return m.Impl.ListByClaim(ctx, claimId)
	}

	panic(errors.New("it should not be called"))
}

func (m *EvidenceInterface) PopCheck(ctx context.Context, callback func(domain.EvidenceCheck) error) (bool, error) {
	m.Calls.PopCheck = append(m.Calls.PopCheck, struct{}{})
	if m.Impl.PopCheck != nil {
		return m.Impl.PopCheck(ctx, callback)
	}

	panic(errors.New("it should not be called"))
}
