package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/edubba/edubba/pkg/api/types/errors"
	apiruns "github.com/edubba/edubba/pkg/api/types/runs"
	bindruns "github.com/edubba/edubba/pkg/api-types-binding/runs"
	"github.com/edubba/edubba/pkg/domain"
	domerr "github.com/edubba/edubba/pkg/domain/errors"
	keyprovider "github.com/edubba/edubba/pkg/domain/keychain/provider"
	krun "github.com/edubba/edubba/pkg/domain/run/db"
)

// RunRegisterHandler opens an annotation run and issues its run token.
func RunRegisterHandler(dbRun krun.RunInterface, kp keyprovider.KeyProvider) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		spec := apiruns.Spec{}
		if err := c.Bind(&spec); err != nil {
			return apierr.BadRequest("broken request body", err)
		}

		sourceType, err := domain.AsSourceType(spec.SourceType)
		if err != nil {
			return apierr.BadRequest("unknown sourceType", err)
		}

		run, err := dbRun.Register(ctx, domain.RunSpec{
			SourceType:   sourceType,
			SourceName:   spec.SourceName,
			ModelVersion: spec.ModelVersion,
			ScholarId:    spec.ScholarId,
			Method:       spec.Method,
			CorpusScope:  spec.CorpusScope,
		})
		if err != nil {
			if errors.Is(err, domerr.ErrInvalid) {
				return apierr.BadRequest("invalid run spec", err)
			}
			return apierr.InternalServerError(err)
		}

		token, err := IssueRunToken(kp, run, c)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusCreated, apiruns.Registered{
			Run:   bindruns.ComposeDetail(run),
			Token: token,
		})
	}
}

// GetRunHandler reads one annotation run.
func GetRunHandler(dbRun krun.RunInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		runId := c.Param(paramKey)

		runs, err := dbRun.Get(ctx, []string{runId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		run, ok := runs[runId]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, bindruns.ComposeDetail(run))
	}
}
