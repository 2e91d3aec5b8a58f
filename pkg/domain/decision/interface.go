package decision

import (
	"github.com/edubba/edubba/pkg/domain/decision/db"
)

type Interface interface {
	Database() db.DecisionInterface
}

type impl struct {
	database db.DecisionInterface
}

func New(database db.DecisionInterface) Interface {
	return &impl{database: database}
}

func (i *impl) Database() db.DecisionInterface {
	return i.database
}
