package mock

import (
	"context"
	"errors"

	"github.com/edubba/edubba/pkg/domain"
	dbmock "github.com/edubba/edubba/pkg/domain/internal/db/mock"
	kdb "github.com/edubba/edubba/pkg/domain/pipeline/db"
)

type PipelineInterface struct {
	Impl struct {
		GetStatus      func(ctx context.Context, artifactId int64) (domain.PipelineStatus, error)
		PickAndCompute func(ctx context.Context, callback func(domain.PipelineStatus) error) (bool, error)
	}

	Calls struct {
		GetStatus      dbmock.CallLog[int64]
		PickAndCompute dbmock.CallLog[struct{}]
	}
}

func NewPipelineInterface() *PipelineInterface {
	return &PipelineInterface{}
}

var _ kdb.PipelineInterface = &PipelineInterface{}

func (m *PipelineInterface) GetStatus(ctx context.Context, artifactId int64) (domain.PipelineStatus, error) {
	m.Calls.GetStatus = append(m.Calls.GetStatus, artifactId)
	if m.Impl.GetStatus != nil {
		return m.Impl.GetStatus(ctx, artifactId)
	}

	panic(errors.New("it should not be called"))
}

func (m *PipelineInterface) PickAndCompute(ctx context.Context, callback func(domain.PipelineStatus) error) (bool, error) {
	m.Calls.PickAndCompute = append(m.Calls.PickAndCompute, struct{}{})
	if m.Impl.PickAndCompute != nil {
		return m.Impl.PickAndCompute(ctx, callback)
	}

	panic(errors.New("it should not be called"))
}
