package evidence

import (
	"github.com/edubba/edubba/pkg/domain/evidence/db"
)

type Interface interface {
	Database() db.EvidenceInterface
}

type impl struct {
	database db.EvidenceInterface
}

func New(database db.EvidenceInterface) Interface {
	return &impl{database: database}
}

func (i *impl) Database() db.EvidenceInterface {
	return i.database
}
