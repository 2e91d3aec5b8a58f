package provider

import (
	"context"
	"errors"
	"time"

	kdb "github.com/edubba/edubba/pkg/domain/keychain/db"
	"github.com/edubba/edubba/pkg/keychain"
	"github.com/edubba/edubba/pkg/keychain/key"
	"github.com/google/uuid"
)

var ErrBadNewKey = errors.New("new key is bad. It does not satisfy the requirements")

type KeyProvider interface {
	// Provide returns a key from the keychain.
	// If no key satisfies options in the keychain, it issues a new key.
	Provide(ctx context.Context, option ...keychain.KeyRequirement) (string, key.Key, error)

	// GetKeychain returns the refreshed keychain backing this provider.
	GetKeychain(ctx context.Context) (keychain.Keychain, error)
}

// Signing keys for run tokens: HS256, rotated every 3 hours.
var DefaultKeyPolicy = key.HS256(3*time.Hour, 2048/8)

type Option func(*keyProvider)

func WithPolicy(policy key.KeyPolicy) Option {
	return func(kp *keyProvider) {
		kp.policy = policy
	}
}

func New(
	keychainName string,
	dbKeychain kdb.KeychainInterface,
	options ...Option,
) KeyProvider {
	base := &keyProvider{
		keychainName: keychainName,
		policy:       DefaultKeyPolicy,
		dbKeychain:   dbKeychain,
	}
	for _, option := range options {
		option(base)
	}
	return base
}

type keyProvider struct {
	policy       key.KeyPolicy
	keychainName string
	dbKeychain   kdb.KeychainInterface
}

func (kp *keyProvider) Provide(ctx context.Context, req ...keychain.KeyRequirement) (string, key.Key, error) {
	kc, err := kp.GetKeychain(ctx)
	if err != nil {
		return "", nil, err
	}

	kid, k, ok := kc.GetKey(req...)
	if !ok {
		// issue a new key, but only one issuer at a time per keychain.
		if err := kp.dbKeychain.Lock(ctx, kc.Name(), func(ctx context.Context) error {
			_kid := uuid.NewString()
			_key, err := kp.policy.Issue()
			if err != nil {
				return err
			}
			for _, r := range req {
				if !r(_kid, _key) {
					return ErrBadNewKey
				}
			}
			kc.Set(_kid, _key)
			kid, k = _kid, _key
			return kc.Update(ctx)
		}); err != nil {
			return "", nil, err
		}
	}

	return kid, k, nil
}

func (kp *keyProvider) GetKeychain(ctx context.Context) (keychain.Keychain, error) {
	return kp.dbKeychain.GetKeychain(ctx, kp.keychainName)
}
