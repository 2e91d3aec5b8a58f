package handlers

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apierr "github.com/edubba/edubba/pkg/api/types/errors"
	"github.com/edubba/edubba/pkg/domain"
	keyprovider "github.com/edubba/edubba/pkg/domain/keychain/provider"
	"github.com/edubba/edubba/pkg/keychain"
)

// RunTokenClaim is the payload of a run token.
//
// Registering an annotation run issues one; every write endpoint
// requires one, and reads the producing run and the acting identity
// from it instead of trusting the request body.
type RunTokenClaim struct {
	jwt.RegisteredClaims

	// private claims
	RunId      string `json:"edubba/runId"`
	SourceType string `json:"edubba/sourceType"`
	Actor      string `json:"edubba/actor"`
}

// lifetime of a run token. Producers re-register a run when it expires.
const runTokenTTL = 3 * time.Hour

// IssueRunToken signs a token binding writes to the run.
func IssueRunToken(kp keyprovider.KeyProvider, run domain.Run, c echo.Context) (string, error) {
	ctx := c.Request().Context()
	exp := time.Now().Add(runTokenTTL)

	kid, k, err := kp.Provide(ctx, keychain.WithExpAfter(exp))
	if err != nil {
		return "", err
	}

	return keychain.NewJWS(
		kid, k,
		RunTokenClaim{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   run.RunId,
				ExpiresAt: jwt.NewNumericDate(exp),
			},

			RunId:      run.RunId,
			SourceType: run.SourceType.String(),
			Actor:      run.Actor(),
		},
	)
}

const runTokenContextKey = "edubba/runToken"

// RequireRunToken guards write endpoints: it verifies the bearer token
// against the keychain and stores the claim for the handler.
func RequireRunToken(kp keyprovider.KeyProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			header := c.Request().Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return apierr.Unauthorized("run token is required", nil)
			}

			kc, err := kp.GetKeychain(ctx)
			if err != nil {
				return apierr.InternalServerError(err)
			}

			claim, err := keychain.VerifyJWS[*RunTokenClaim](kc, token)
			if err != nil {
				return apierr.Unauthorized("invalid token", err)
			}

			c.Set(runTokenContextKey, claim)
			return next(c)
		}
	}
}

// RunTokenFrom reads the verified claim RequireRunToken stored.
func RunTokenFrom(c echo.Context) (*RunTokenClaim, bool) {
	claim, ok := c.Get(runTokenContextKey).(*RunTokenClaim)
	return claim, ok && claim != nil
}
