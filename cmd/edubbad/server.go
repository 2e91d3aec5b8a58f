package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/edubba/edubba/cmd/edubbad/handlers"
	"github.com/edubba/edubba/pkg/cache"
	"github.com/edubba/edubba/pkg/domain"
	"github.com/edubba/edubba/pkg/domain/edubba"
	keyprovider "github.com/edubba/edubba/pkg/domain/keychain/provider"
	"github.com/edubba/edubba/pkg/utils/echoutil"
)

var API_ROOT = "/api"

func api(subpath string) string {
	if !strings.HasSuffix(subpath, "/") {
		subpath += "/"
	}
	return fmt.Sprintf("%s/%s", API_ROOT, subpath)
}

// lifetimes of the read caches. Writes invalidate entries they can name,
// so the TTL only bounds how long a racing write can go unnoticed.
const (
	consensusCacheTTL = 30 * time.Second
	pipelineCacheTTL  = 30 * time.Second
)

func BuildServer(edb edubba.Edubba, loglevel string) *echo.Echo {

	e := echo.New()

	echoutil.SetLevel(e, loglevel)

	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}

	e.Pre(middleware.AddTrailingSlash())

	// logging for server-side latency.
	e.Use(echoutil.LogHandlerFunc)

	signKeyProviderForRunToken := keyprovider.New(
		edb.Config().Keychains().SignKeyForRunToken().Name(),
		edb.Keychain().Database(),
	)
	requireToken := handlers.RequireRunToken(signKeyProviderForRunToken)

	consensusCache := cache.New[domain.ConsensusResult](consensusCacheTTL, consensusCacheTTL)
	pipelineCache := cache.New[domain.PipelineStatus](pipelineCacheTTL, pipelineCacheTTL)

	e.POST(api("runs"), handlers.RunRegisterHandler(
		edb.Run().Database(),
		signKeyProviderForRunToken,
	))
	e.GET(api("runs/:runId"), handlers.GetRunHandler(
		edb.Run().Database(),
		"runId",
	))

	e.POST(api("claims"), handlers.SubmitClaimHandler(
		edb.Claim().Database(),
		consensusCache,
	), requireToken)
	e.GET(api("claims"), handlers.FindClaimHandler(
		edb.Claim().Database(),
	))
	e.GET(api("claims/:claimId"), handlers.GetClaimHandler(
		edb.Claim().Database(),
		"claimId",
	))

	e.GET(api("claims/:claimId/decisions"), handlers.ListDecisionHandler(
		edb.Decision().Database(),
		"claimId",
	))
	e.POST(api("claims/:claimId/decisions"), handlers.RecordDecisionHandler(
		edb.Decision().Database(),
		consensusCache,
		pipelineCache,
		"claimId",
	), requireToken)

	e.GET(api("claims/:claimId/evidence"), handlers.ListEvidenceHandler(
		edb.Evidence().Database(),
		"claimId",
	))
	e.POST(api("claims/:claimId/evidence"), handlers.AttachEvidenceHandler(
		edb.Evidence().Database(),
		"claimId",
	), requireToken)

	e.POST(api("threads"), handlers.OpenThreadHandler(
		edb.Discussion().Database(),
	), requireToken)
	e.GET(api("threads/:threadId"), handlers.GetThreadHandler(
		edb.Discussion().Database(),
		"threadId",
	))
	e.POST(api("threads/:threadId/posts"), handlers.PostToThreadHandler(
		edb.Discussion().Database(),
		"threadId",
	), requireToken)
	e.PUT(api("threads/:threadId/resolve"), handlers.ResolveThreadHandler(
		edb.Discussion().Database(),
		"threadId",
	), requireToken)
	e.PUT(api("threads/:threadId/archive"), handlers.ArchiveThreadHandler(
		edb.Discussion().Database(),
		"threadId",
	), requireToken)

	e.GET(api("consensus/:kind/:targetId"), handlers.GetConsensusHandler(
		edb.Consensus().Database(),
		consensusCache,
		"kind", "targetId",
	))

	e.GET(api("artifacts/:artifactId/pipeline"), handlers.GetPipelineStatusHandler(
		edb.Pipeline().Database(),
		pipelineCache,
		"artifactId",
	))

	return e
}
