package dbenv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tctx "github.com/edubba/edubba/internal/testutils/context"
	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	kpgschema "github.com/edubba/edubba/pkg/domain/schema/db/postgres"
	"github.com/edubba/edubba/pkg/utils"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Name of the environment variable holding a connection string for the test database.
const EnvPostgres = "EDUBBA_TEST_POSTGRES"

// Name of the environment variable holding a connection string for a scratch
// database reserved for schema tests.
//
// Its "public" schema is dropped and rebuilt by each test.
// Never point it at the database named by EnvPostgres.
const EnvPostgresBlank = "EDUBBA_TEST_POSTGRES_BLANK"

type pg struct {
	pool *pgxpool.Pool
}

func (p *pg) GetPool(ctx context.Context, t *testing.T) kpool.Pool {
	t.Cleanup(func() {
		t.Helper()
		ClearTables(ctx, p.pool, t)
	})

	ClearTables(ctx, p.pool, t)
	return kpool.Wrap(p.pool)
}

// PoolBroaker is a interface to get a pool.
type PoolBroaker interface {
	// GetPool returns a pool.
	//
	// Tables are cleaned up before returning and after t.
	GetPool(ctx context.Context, t *testing.T) kpool.Pool
}

// NewPoolBroaker returns a PoolBroaker against the database named by EDUBBA_TEST_POSTGRES.
//
// Tests needing one are skipped when the variable is not set.
//
// The schema repository, found upward from the test's working directory,
// is applied before the first pool is handed out.
//
// # Args
//
// - ctx: When this context is canceled, the database connection behind the pool will be lost.
//
// - t: scope of the PoolBroaker.
// When this test is finished, the broaker will be shutdown.
func NewPoolBroaker(ctx context.Context, t *testing.T) PoolBroaker {
	t.Helper()

	dburi := os.Getenv(EnvPostgres)
	if dburi == "" {
		t.Skipf("set %s to a connection string to run this test", EnvPostgres)
	}

	ctx, cancel := tctx.WithTest(ctx, t)
	t.Cleanup(cancel)

	pool, err := pgxpool.Connect(ctx, dburi)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	repository, err := utils.SearchFilePathtoUpward(
		wd, filepath.Join("db", "schema", "versions"),
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := kpgschema.New(kpool.Wrap(pool), *repository).Upgrade(ctx); err != nil {
		t.Fatal(err)
	}

	return &pg{pool: pool}
}

// NewBlankPool returns a pool against the scratch database named by
// EDUBBA_TEST_POSTGRES_BLANK, with its "public" schema reset to empty.
//
// Tests needing one are skipped when the variable is not set.
func NewBlankPool(ctx context.Context, t *testing.T) kpool.Pool {
	t.Helper()

	dburi := os.Getenv(EnvPostgresBlank)
	if dburi == "" {
		t.Skipf("set %s to a connection string to run this test", EnvPostgresBlank)
	}

	pool, err := pgxpool.Connect(ctx, dburi)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	conn, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Release()

	if _, err := conn.Exec(
		ctx, `drop schema "public" cascade; create schema "public";`,
	); err != nil {
		t.Fatal(err)
	}

	return kpool.Wrap(pool)
}

func ClearTables(ctx context.Context, p *pgxpool.Pool, t *testing.T) {
	t.Helper()

	conn, err := p.Acquire(ctx)
	defer conn.Release()

	if err != nil {
		t.Errorf("fail to clean-up tables.: %v", err)
	}

	for _, command := range []string{
		`truncate "artifacts" RESTART IDENTITY cascade`,
		`truncate "entities" RESTART IDENTITY cascade`,
		`truncate "annotation_runs" RESTART IDENTITY cascade`,
		`truncate "keychain" RESTART IDENTITY cascade`,
		`truncate "keychain_keys" RESTART IDENTITY cascade`,
		// by cascade, all row in tables should be deleted.
	} {
		_, err = conn.Exec(ctx, command)
		if err != nil {
			t.Errorf("fail to clean-up tables.: %v", err)
		}
	}
}
