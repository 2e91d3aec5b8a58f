package key

import (
	"bytes"
	"fmt"
	"time"

	"github.com/edubba/edubba/pkg/utils/base64marshall"
	"github.com/edubba/edubba/pkg/utils/rfctime"
	"github.com/golang-jwt/jwt/v5"
)

type Key interface {
	// Name of the algorithm
	Alg() string

	// Expiration time of the key
	Exp() time.Time

	// Key to sign messages.
	//
	// Almost always it is Private key
	ToSign() any

	// Key to verify messages.
	//
	// Almost always it is Public key.
	ToVerify() any

	// Equal returns true if the key is equal to the other key
	Equal(k Key) bool

	// String returns the key in string format
	String() string

	// Marshal returns the key in MarshalKey format
	Marshal() MarshalKey

	// unmarshal unmarshals the key from MarshalKey format
	unmarshal(MarshalKey) error
}

// MarshalKey is the persistence form of a Key.
type MarshalKey struct {
	// Algorithm of this key
	Alg string `json:"alg"`

	// Expiration time of this key
	Exp rfctime.RFC3339 `json:"exp"`

	// Key to sign messages.
	//
	// Almost always it is Private key
	ToSign base64marshall.Bytes `json:"toSign"`

	// Key to verify messages.
	//
	// Almost always it is Public key.
	ToVerify base64marshall.Bytes `json:"toVerify"`
}

func (k MarshalKey) String() string {
	return fmt.Sprintf(
		"Key{Alg: %s, Exp: %s, ToSign: (%d bytes), ToVerify: (%d bytes)}",
		k.Alg, k.Exp,
		len(k.ToSign.Bytes()), len(k.ToVerify.Bytes()),
	)
}

func (k MarshalKey) Equal(other MarshalKey) bool {
	return k.Alg == other.Alg &&
		k.Exp.Equal(&other.Exp) &&
		bytes.Equal(k.ToSign.Bytes(), other.ToSign.Bytes()) &&
		bytes.Equal(k.ToVerify.Bytes(), other.ToVerify.Bytes())
}

func Unmarshal(m MarshalKey) (Key, error) {
	switch m.Alg {
	case jwt.SigningMethodHS256.Name:
		k := &hs256Key{}
		if err := k.unmarshal(m); err != nil {
			return nil, err
		}
		return k, nil
	default:
		return nil, fmt.Errorf("unsupported algorithm: %s", m.Alg)
	}
}

type KeyPolicy interface {
	// Issue a new key
	Issue() (Key, error)
}
