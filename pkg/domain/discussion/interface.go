package discussion

import (
	"github.com/edubba/edubba/pkg/domain/discussion/db"
)

type Interface interface {
	Database() db.DiscussionInterface
}

type impl struct {
	database db.DiscussionInterface
}

func New(database db.DiscussionInterface) Interface {
	return &impl{database: database}
}

func (i *impl) Database() db.DiscussionInterface {
	return i.database
}
