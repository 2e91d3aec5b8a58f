package claim

import (
	"github.com/edubba/edubba/pkg/domain/claim/db"
)

type Interface interface {
	Database() db.ClaimInterface
}

type impl struct {
	database db.ClaimInterface
}

func New(database db.ClaimInterface) Interface {
	return &impl{database: database}
}

func (i *impl) Database() db.ClaimInterface {
	return i.database
}
