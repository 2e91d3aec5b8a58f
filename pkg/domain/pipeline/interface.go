package pipeline

import (
	"github.com/edubba/edubba/pkg/domain/pipeline/db"
)

type Interface interface {
	Database() db.PipelineInterface
}

type impl struct {
	database db.PipelineInterface
}

func New(database db.PipelineInterface) Interface {
	return &impl{database: database}
}

func (i *impl) Database() db.PipelineInterface {
	return i.database
}
