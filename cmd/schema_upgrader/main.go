package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/edubba/edubba/pkg/domain/edubba/db/postgres"
	"github.com/edubba/edubba/pkg/utils/try"
)

func main() {
	logger := log.Default()
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt, os.Kill,
	)
	defer cancel()

	port := 5432
	if sp := os.Getenv("DB_PORT"); sp != "" {
		if p, err := strconv.Atoi(sp); err == nil {
			port = p
		}
	}

	pHost := flag.String("host", os.Getenv("DB_HOST"), "The host of the database.")
	pPort := flag.Int("port", port, "The port of the database.")
	pUser := flag.String("user", os.Getenv("DB_USER"), "The user of the database.")
	pPass := flag.String("pass", os.Getenv("DB_PASSWORD"), "The password of the database.")
	pDatabase := flag.String("database", os.Getenv("DB_NAME"), "The name of the database.")
	pSchema := flag.String(
		"schema", os.Getenv("EDUBBA_SCHEMA"),
		"The path to the schema repository directory.",
	)
	flag.Parse()

	if *pSchema == "" {
		logger.Fatal("flag -schema (or env EDUBBA_SCHEMA) is required")
	}

	db := try.To(postgres.New(
		ctx,
		fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s",
			*pUser, *pPass, *pHost, *pPort, *pDatabase,
		),
		postgres.WithSchemaRepository(*pSchema),
	)).OrFatal(logger)
	defer db.Close()

	if err := db.Schema().Upgrade(ctx); err != nil {
		logger.Fatal(err)
	}

	version := try.To(db.Schema().Version(ctx)).OrFatal(logger)
	logger.Printf("schema is up to date (version %d)", version)
}
