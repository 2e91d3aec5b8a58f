package consensus

import (
	"github.com/edubba/edubba/pkg/domain/consensus/db"
)

type Interface interface {
	Database() db.ConsensusInterface
}

type impl struct {
	database db.ConsensusInterface
}

func New(database db.ConsensusInterface) Interface {
	return &impl{database: database}
}

func (i *impl) Database() db.ConsensusInterface {
	return i.database
}
