package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/edubba/edubba/pkg/api/types/errors"
	apievidence "github.com/edubba/edubba/pkg/api/types/evidence"
	bindevidence "github.com/edubba/edubba/pkg/api-types-binding/evidence"
	"github.com/edubba/edubba/pkg/domain"
	domerr "github.com/edubba/edubba/pkg/domain/errors"
	kevidence "github.com/edubba/edubba/pkg/domain/evidence/db"
	"github.com/edubba/edubba/pkg/utils/slices"
)

// AttachEvidenceHandler appends an evidence item to a claim's ledger.
func AttachEvidenceHandler(dbEvidence kevidence.EvidenceInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		claimId := c.Param(paramKey)

		token, ok := RunTokenFrom(c)
		if !ok {
			return apierr.Unauthorized("run token is required", nil)
		}

		spec := apievidence.Spec{}
		if err := c.Bind(&spec); err != nil {
			return apierr.BadRequest("broken request body", err)
		}

		etype, err := domain.AsEvidenceType(spec.Type)
		if err != nil {
			return apierr.BadRequest("unknown evidence type", err)
		}

		ev, err := dbEvidence.Attach(ctx, domain.EvidenceSpec{
			ClaimId:       claimId,
			Type:          etype,
			Reference:     spec.Reference,
			SupportsClaim: spec.SupportsClaim,
			AddedBy:       token.Actor,
			Note:          spec.Note,
		})
		if err != nil {
			switch {
			case errors.Is(err, domerr.ErrMissing):
				return apierr.NotFound()
			case errors.Is(err, domerr.ErrInvalid):
				return apierr.BadRequest("invalid evidence spec", err)
			default:
				return apierr.InternalServerError(err)
			}
		}

		return c.JSON(http.StatusCreated, bindevidence.ComposeDetail(ev))
	}
}

// ListEvidenceHandler reads a claim's evidence ledger, oldest first.
func ListEvidenceHandler(dbEvidence kevidence.EvidenceInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		claimId := c.Param(paramKey)

		ledger, err := dbEvidence.ListByClaim(ctx, claimId)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, slices.Map(ledger, bindevidence.ComposeDetail))
	}
}
