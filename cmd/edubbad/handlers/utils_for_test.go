package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edubba/edubba/cmd/edubbad/handlers"
	"github.com/edubba/edubba/pkg/domain"
	mockkeyprovider "github.com/edubba/edubba/pkg/domain/keychain/provider/mockKeyprovider"
	"github.com/edubba/edubba/pkg/keychain"
	"github.com/edubba/edubba/pkg/keychain/key"
	"github.com/edubba/edubba/pkg/utils/try"
)

// signedRunToken builds a key provider backed by a single fresh key and
// a token it would verify, as if the run had just been registered.
func signedRunToken(t *testing.T, run domain.Run) (*mockkeyprovider.MockKeyProvider, string) {
	t.Helper()

	k := try.To(key.HS256(3*time.Hour, 2048/8).Issue()).OrFatal(t)
	kc := keychain.New("signkeyforruntoken", map[string]key.Key{"test-kid": k}, nil)

	kp := mockkeyprovider.New(t)
	kp.Impl.Provide = func(context.Context, ...keychain.KeyRequirement) (string, key.Key, error) {
		return "test-kid", k, nil
	}
	kp.Impl.GetKeychain = func(context.Context) (keychain.Keychain, error) {
		return kc, nil
	}

	token := try.To(keychain.NewJWS(
		"test-kid", k,
		handlers.RunTokenClaim{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "test-token-id",
				Subject:   run.RunId,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			RunId:      run.RunId,
			SourceType: run.SourceType.String(),
			Actor:      run.Actor(),
		},
	)).OrFatal(t)

	return kp, token
}
