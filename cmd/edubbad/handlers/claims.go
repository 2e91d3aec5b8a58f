package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apiclaims "github.com/edubba/edubba/pkg/api/types/claims"
	apierr "github.com/edubba/edubba/pkg/api/types/errors"
	bindclaims "github.com/edubba/edubba/pkg/api-types-binding/claims"
	binddecisions "github.com/edubba/edubba/pkg/api-types-binding/decisions"
	"github.com/edubba/edubba/pkg/cache"
	"github.com/edubba/edubba/pkg/domain"
	kclaim "github.com/edubba/edubba/pkg/domain/claim/db"
	kdecision "github.com/edubba/edubba/pkg/domain/decision/db"
	domerr "github.com/edubba/edubba/pkg/domain/errors"
	"github.com/edubba/edubba/pkg/utils/slices"
)

// SubmitClaimHandler records a claim on behalf of the token's run.
//
// Submitting the same assertion twice is not an error: the existing
// claim is returned with status 200 instead of 201, so bulk imports can
// replay their input safely.
func SubmitClaimHandler(
	dbClaim kclaim.ClaimInterface,
	consensusCache *cache.Store[domain.ConsensusResult],
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		token, ok := RunTokenFrom(c)
		if !ok {
			return apierr.Unauthorized("run token is required", nil)
		}

		spec := apiclaims.Spec{}
		if err := c.Bind(&spec); err != nil {
			return apierr.BadRequest("broken request body", err)
		}

		kind, err := domain.AsClaimKind(spec.Kind)
		if err != nil {
			return apierr.BadRequest("unknown claim kind", err)
		}
		body, err := domain.UnmarshalClaimBody(kind, spec.Payload)
		if err != nil {
			return apierr.BadRequest("broken claim payload", err)
		}

		claim, err := dbClaim.Register(ctx, domain.ClaimSpec{
			RunId:      token.RunId,
			Body:       body,
			Confidence: spec.Confidence,
			Note:       spec.Note,
		})
		status := http.StatusCreated
		if err != nil {
			exists := domain.ErrClaimExists{}
			switch {
			case errors.As(err, &exists):
				// idempotent replay: answer with the claim already stored.
				claims, err := dbClaim.Get(ctx, []string{exists.ClaimId})
				if err != nil {
					return apierr.InternalServerError(err)
				}
				found, ok := claims[exists.ClaimId]
				if !ok {
					return apierr.InternalServerError(fmt.Errorf(
						"%w: duplicate of claim %s, which is gone",
						domerr.ErrConsistencyViolation, exists.ClaimId,
					))
				}
				claim, status = found, http.StatusOK
			case errors.Is(err, domain.ErrInvalidTarget):
				return apierr.BadRequest("claim target does not exist", err)
			case errors.Is(err, domerr.ErrMissing):
				return apierr.NotFound()
			case errors.Is(err, domerr.ErrInvalid):
				return apierr.BadRequest("invalid claim spec", err)
			default:
				return apierr.InternalServerError(err)
			}
		}

		// a new claim changes the competitor set; an imported one may even
		// have been auto-accepted. Either way the cached view is off.
		if status == http.StatusCreated {
			consensusCache.Invalidate(claim.Target().String())
		}

		return c.JSON(status, bindclaims.ComposeDetail(claim))
	}
}

// FindClaimHandler lists the claims asserted on one target entity,
// newest run first.
func FindClaimHandler(dbClaim kclaim.ClaimInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		target, err := targetFromQuery(c.QueryParam("kind"), c.QueryParam("target"))
		if err != nil {
			return apierr.BadRequest(
				`query parameters "kind" and "target" are required`, err,
			)
		}

		claims, err := dbClaim.ListByTarget(ctx, target)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, slices.Map(claims, bindclaims.ComposeDetail))
	}
}

// GetClaimHandler reads one claim with its head decision.
func GetClaimHandler(dbClaim kclaim.ClaimInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		claimId := c.Param(paramKey)

		claims, err := dbClaim.Get(ctx, []string{claimId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		claim, ok := claims[claimId]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, bindclaims.ComposeDetail(claim))
	}
}

// RecordDecisionHandler commits a decision on a claim and re-adjudicates
// the consensus on the claim's target.
func RecordDecisionHandler(
	dbDecision kdecision.DecisionInterface,
	consensusCache *cache.Store[domain.ConsensusResult],
	pipelineCache *cache.Store[domain.PipelineStatus],
	paramKey string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		claimId := c.Param(paramKey)

		token, ok := RunTokenFrom(c)
		if !ok {
			return apierr.Unauthorized("run token is required", nil)
		}

		spec := struct {
			Verdict    string  `json:"verdict"`
			Method     string  `json:"method"`
			Rationale  string  `json:"rationale,omitempty"`
			Supersedes *string `json:"supersedes,omitempty"`
		}{}
		if err := c.Bind(&spec); err != nil {
			return apierr.BadRequest("broken request body", err)
		}

		verdict, err := domain.AsVerdict(spec.Verdict)
		if err != nil {
			return apierr.BadRequest("unknown verdict", err)
		}
		method, err := domain.AsDecisionMethod(spec.Method)
		if err != nil {
			return apierr.BadRequest("unknown decision method", err)
		}

		result, err := dbDecision.Record(ctx, domain.DecisionSpec{
			ClaimId:    claimId,
			Verdict:    verdict,
			Method:     method,
			Rationale:  spec.Rationale,
			DecidedBy:  token.Actor,
			Supersedes: spec.Supersedes,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrDecisionOutdated):
				return apierr.Conflict(
					"decision chain has advanced",
					apierr.WithAdvice("re-read the claim and retry against the new head"),
					apierr.WithError(err),
				)
			case errors.Is(err, domain.ErrRationaleRequired):
				return apierr.BadRequest("editorial decisions require a rationale", err)
			case errors.Is(err, domerr.ErrMissing):
				return apierr.NotFound()
			case errors.Is(err, domerr.ErrInvalid):
				return apierr.BadRequest("invalid decision spec", err)
			default:
				return apierr.InternalServerError(err)
			}
		}

		consensusCache.Invalidate(result.Claim.Target().String())
		// the decision may touch any artifact rollup reachable from the
		// target; the rollups are recomputed asynchronously anyway, so just
		// drop them all.
		pipelineCache.Flush()

		return c.JSON(http.StatusCreated, bindclaims.ComposeAdjudicated(result))
	}
}

// ListDecisionHandler reads a claim's decision chain, newest first.
func ListDecisionHandler(dbDecision kdecision.DecisionInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		claimId := c.Param(paramKey)

		decisions, err := dbDecision.ListByClaim(ctx, claimId)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(
			http.StatusOK,
			slices.Map(decisions, binddecisions.ComposeDetail),
		)
	}
}

func targetFromQuery(kind string, target string) (domain.TargetRef, error) {
	k, err := domain.AsClaimKind(kind)
	if err != nil {
		return domain.TargetRef{}, err
	}
	id, err := strconv.ParseInt(target, 10, 64)
	if err != nil {
		return domain.TargetRef{}, fmt.Errorf(
			"%w: target should be an integer id: %s", domerr.ErrInvalid, target,
		)
	}
	return domain.TargetRef{Kind: k, Id: id}, nil
}
