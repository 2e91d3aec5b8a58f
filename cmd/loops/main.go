package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/edubba/edubba/cmd/loops/metrics"
	"github.com/edubba/edubba/cmd/loops/recurring"
	configs "github.com/edubba/edubba/pkg/configs/backend"
	"github.com/edubba/edubba/pkg/domain/edubba"
	"github.com/edubba/edubba/pkg/utils/args"
	"github.com/edubba/edubba/pkg/utils/filewatch"
	"github.com/edubba/edubba/pkg/utils/try"
)

func main() {
	logger := log.Default()
	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill, syscall.SIGTERM,
	)
	defer cancel()

	pconfig := flag.String(
		"config", os.Getenv("EDUBBA_BACKEND_CONFIG"), "path to config file",
	)
	pSchemaRepo := flag.String(
		"schema-repo", os.Getenv("EDUBBA_SCHEMA"), "schema repository path",
	)
	loopType := args.Parser(AsLoopType)
	flag.Var(loopType, "type", "one of loop type (pipeline|evidencecheck)")
	policy := args.Parser(recurring.ParsePolicy)
	flag.Var(
		policy, "policy",
		`loop policy (syntax: forever[:COOLDOWN]|backlog).`+
			` "forever[:COOLDOWN]" = run forever until error. When backlog is over, `+
			`wait COOLDOWN (optional duration. default: 0) as inteval.`+
			` "backlog" = run until error or backlog is over.`,
	)
	pMetricsPort := flag.Int(
		"metrics-port",
		func() int {
			if p, err := strconv.Atoi(os.Getenv("EDUBBA_METRICS_PORT")); err == nil {
				return p
			}
			return 0
		}(),
		"port to expose /metrics on (0 = off)",
	)
	flag.Parse()

	if !loopType.IsSet() || !policy.IsSet() {
		logger.Fatal("flags -type and -policy are required")
	}

	{
		// watch config
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, *pconfig)
		if err != nil {
			logger.Fatal(err)
		}
		defer cancel()
		ctx = wctx
	}

	conf := try.To(configs.LoadBackendConfig(*pconfig)).OrFatal(logger)

	edb := try.To(edubba.New(
		ctx, conf.Edubba(),
		edubba.WithSchemaRepository(*pSchemaRepo),
	)).OrFatal(logger)

	{
		ctx_, ccan := edb.Schema().Database().Context(ctx)
		defer ccan()
		ctx = ctx_
	}

	if port := *pMetricsPort; 0 < port {
		go func() {
			if err := metrics.Serve(ctx, port); err != nil {
				logger.Printf("metrics server stopped with error: %s", err)
			}
		}()
	}

	logger.Printf(
		`start loop "%s" /w policy "%s"`,
		loopType.Value().String(), policy.Value().String(),
	)

	err := StartLoop(
		ctx, logger, edb,
		LoopManifest{
			Type:   loopType.Value(),
			Policy: recurring.UntilError(policy.Value()),
		},
	)

	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		logger.Fatal(err, "(loop context is cancelled by:", context.Cause(ctx), ")")
	}
	logger.Fatal(err)
}
