package mock

import (
	"context"
	"errors"

	"github.com/edubba/edubba/pkg/domain"
	dbmock "github.com/edubba/edubba/pkg/domain/internal/db/mock"
	kdb "github.com/edubba/edubba/pkg/domain/run/db"
)

type RunInterface struct {
	Impl struct {
		Register func(ctx context.Context, spec domain.RunSpec) (domain.Run, error)
		Get      func(ctx context.Context, runIds []string) (map[string]domain.Run, error)
	}

	Calls struct {
		Register dbmock.CallLog[domain.RunSpec]
		Get      dbmock.CallLog[[]string]
	}
}

func NewRunInterface() *RunInterface {
	return &RunInterface{}
}

var _ kdb.RunInterface = &RunInterface{}

func (m *RunInterface) Register(ctx context.Context, spec domain.RunSpec) (domain.Run, error) {
	m.Calls.Register = append(m.Calls.Register, spec)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, spec)
	}

	panic(errors.New("it should not be called"))
}

func (m *RunInterface) Get(ctx context.Context, runIds []string) (map[string]domain.Run, error) {
	m.Calls.Get = append(m.Calls.Get, runIds)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, runIds)
	}

	panic(errors.New("it should not be called"))
}
