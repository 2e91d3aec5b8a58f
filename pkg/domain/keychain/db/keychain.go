package db

import (
	"context"

	"github.com/edubba/edubba/pkg/keychain"
)

type KeychainInterface interface {
	// Lock locks a keychain entry by name and executes the critical section.
	//
	// The entry is created if it does not exist yet, so the first caller
	// and later ones serialize on the same row.
	//
	// Args
	//
	// - context.Context
	//
	// - string: name of the keychain.
	//
	// - criticalSection: executed while holding the lock. If and only if
	// in the critical section, you can update the keychain.
	// If this returns error, the transaction is rolled back.
	//
	// Returns
	//
	// - error
	Lock(ctx context.Context, name string, criticalSection func(ctx context.Context) error) error

	// GetKeychain loads the keychain stored under the name.
	//
	// Args
	//
	// - context.Context
	//
	// - string: name of the keychain.
	//
	// Returns
	//
	// - keychain.Keychain: the keychain, holding its unexpired keys.
	// A name never stored yet yields an empty keychain.
	//
	// - error
	GetKeychain(ctx context.Context, name string) (keychain.Keychain, error)
}
