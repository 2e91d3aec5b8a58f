package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/edubba/edubba/pkg/api/types/errors"
	bindconsensus "github.com/edubba/edubba/pkg/api-types-binding/consensus"
	"github.com/edubba/edubba/pkg/cache"
	"github.com/edubba/edubba/pkg/domain"
	kconsensus "github.com/edubba/edubba/pkg/domain/consensus/db"
	domerr "github.com/edubba/edubba/pkg/domain/errors"
)

// GetConsensusHandler reports the consensus view of one target entity.
//
// Results are cached per target; claim submission and decision commits
// invalidate the entry, so a hit is at worst one TTL behind a write
// which raced the read.
func GetConsensusHandler(
	dbConsensus kconsensus.ConsensusInterface,
	consensusCache *cache.Store[domain.ConsensusResult],
	kindKey string,
	targetKey string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		target, err := targetFromQuery(c.Param(kindKey), c.Param(targetKey))
		if err != nil {
			return apierr.BadRequest("broken target reference", err)
		}

		result, ok := consensusCache.Get(target.String())
		if !ok {
			result, err = dbConsensus.Resolve(ctx, target)
			if err != nil {
				if errors.Is(err, domerr.ErrMissing) {
					return apierr.NotFound()
				}
				return apierr.InternalServerError(err)
			}
			consensusCache.Set(target.String(), result)
		}

		return c.JSON(http.StatusOK, bindconsensus.ComposeResult(result))
	}
}
