package keychain

import (
	"github.com/edubba/edubba/pkg/domain/keychain/db"
)

type Interface interface {
	Database() db.KeychainInterface
}

type impl struct {
	database db.KeychainInterface
}

func New(database db.KeychainInterface) Interface {
	return &impl{database: database}
}

func (i *impl) Database() db.KeychainInterface {
	return i.database
}
