package mock

import (
	"context"
	"errors"

	dbmock "github.com/edubba/edubba/pkg/domain/internal/db/mock"
	kdb "github.com/edubba/edubba/pkg/domain/keychain/db"
	"github.com/edubba/edubba/pkg/keychain"
)

type KeychainInterface struct {
	Impl struct {
		Lock        func(ctx context.Context, name string, criticalSection func(ctx context.Context) error) error
		GetKeychain func(ctx context.Context, name string) (keychain.Keychain, error)
	}

	Calls struct {
		Lock        dbmock.CallLog[string]
		GetKeychain dbmock.CallLog[string]
	}
}

func NewKeychainInterface() *KeychainInterface {
	return &KeychainInterface{}
}

var _ kdb.KeychainInterface = &KeychainInterface{}

func (m *KeychainInterface) Lock(ctx context.Context, name string, criticalSection func(ctx context.Context) error) error {
	m.Calls.Lock = append(m.Calls.Lock, name)
	if m.Impl.Lock != nil {
		return m.Impl.Lock(ctx, name, criticalSection)
	}

	panic(errors.New("it should not be called"))
}

func (m *KeychainInterface) GetKeychain(ctx context.Context, name string) (keychain.Keychain, error) {
	m.Calls.GetKeychain = append(m.Calls.GetKeychain, name)
	if m.Impl.GetKeychain != nil {
		return m.Impl.GetKeychain(ctx, name)
	}

	panic(errors.New("it should not be called"))
}
