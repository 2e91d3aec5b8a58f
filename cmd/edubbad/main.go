package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	configs "github.com/edubba/edubba/pkg/configs/backend"
	"github.com/edubba/edubba/pkg/domain/edubba"
	"github.com/edubba/edubba/pkg/utils/filewatch"
)

func main() {

	pconfig := flag.String(
		"config", os.Getenv("EDUBBA_BACKEND_CONFIG"), "path to config file",
	)
	schemaRepo := flag.String("schema-repo", os.Getenv("EDUBBA_SCHEMA"), "schema repository path")
	loglevel := flag.String("loglevel", "warn", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")

	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	conf, err := configs.LoadBackendConfig(*pconfig)
	if err != nil {
		log.Fatalf("can not read configuration: %s", err)
	}

	// restart on config change, rather than run with a stale one.
	{
		wctx, wcancel, err := filewatch.UntilModifyContext(ctx, *pconfig)
		if err != nil {
			log.Fatalf("can not watch configuration: %s", err)
		}
		defer wcancel()
		ctx = wctx
	}

	edb, err := edubba.New(
		ctx, conf.Edubba(),
		edubba.WithSchemaRepository(*schemaRepo),
	)
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}
	{
		sctx, scancel := edb.Schema().Database().Context(ctx)
		defer scancel()
		ctx = sctx
	}

	server := BuildServer(edb, *loglevel)
	for _, r := range server.Routes() {
		server.Logger.Debugf("- mount handler: %s %s", strings.ToUpper(r.Method), r.Path)
	}

	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		addr := fmt.Sprintf(":%d", conf.Port())
		var err error
		if *pcert != "" && *pkey != "" {
			err = server.StartTLS(addr, *pcert, *pkey)
		} else {
			err = server.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			ch <- err
		}
	}()

	exit := 0
	select {
	case <-ctx.Done(): // wait
		if err := ctx.Err(); err != nil {
			server.Logger.Infof("context has been done: %s, cause: %s", err, context.Cause(ctx))
			exit = 1
		}
	case err := <-ch:
		if err != nil {
			server.Logger.Error("server stops with error:", err)
			exit = 1
		}
	}

	{
		server.Logger.Info("shutting down...")
		qctx, qcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer qcancel()

		if err := server.Shutdown(qctx); err != nil {
			server.Logger.Fatalf("Shutdown with error. %+v", err)
			os.Exit(1)
		}
		os.Exit(exit)
	}
}
