package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apierr "github.com/edubba/edubba/pkg/api/types/errors"
	bindpipeline "github.com/edubba/edubba/pkg/api-types-binding/pipeline"
	"github.com/edubba/edubba/pkg/cache"
	"github.com/edubba/edubba/pkg/domain"
	domerr "github.com/edubba/edubba/pkg/domain/errors"
	kpipeline "github.com/edubba/edubba/pkg/domain/pipeline/db"
)

// GetPipelineStatusHandler reads the per-artifact pipeline rollup.
//
// The rollup is recomputed in the background, so the stored row (and a
// fortiori the cached one) may be flagged stale; the flag is part of the
// response and the client decides whether stale is good enough.
func GetPipelineStatusHandler(
	dbPipeline kpipeline.PipelineInterface,
	pipelineCache *cache.Store[domain.PipelineStatus],
	paramKey string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		artifactId, err := strconv.ParseInt(c.Param(paramKey), 10, 64)
		if err != nil {
			return apierr.BadRequest("artifact id should be an integer", err)
		}
		key := strconv.FormatInt(artifactId, 10)

		status, ok := pipelineCache.Get(key)
		if !ok {
			status, err = dbPipeline.GetStatus(ctx, artifactId)
			if err != nil {
				if errors.Is(err, domerr.ErrMissing) {
					return apierr.NotFound()
				}
				return apierr.InternalServerError(err)
			}
			pipelineCache.Set(key, status)
		}

		return c.JSON(http.StatusOK, bindpipeline.ComposeStatus(status))
	}
}
