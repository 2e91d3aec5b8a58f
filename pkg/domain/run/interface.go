package run

import (
	"github.com/edubba/edubba/pkg/domain/run/db"
)

type Interface interface {
	Database() db.RunInterface
}

type impl struct {
	database db.RunInterface
}

func New(database db.RunInterface) Interface {
	return &impl{database: database}
}

func (i *impl) Database() db.RunInterface {
	return i.database
}
