package postgres

import (
	"context"
	"encoding/json"
	"time"

	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	xe "github.com/edubba/edubba/pkg/errors"
	"github.com/edubba/edubba/pkg/keychain"
	"github.com/edubba/edubba/pkg/keychain/key"
	"github.com/jackc/pgx/v4"
)

type keychainPG struct { // implements kdb.KeychainInterface

	// connection pool for PostgreSQL
	pool kpool.Pool
}

func New(pool kpool.Pool) *keychainPG {
	return &keychainPG{pool: pool}
}

func (kcp *keychainPG) Lock(ctx context.Context, name string, criticalSection func(ctx context.Context) error) error {
	tx, err := kcp.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(
		ctx,
		`
		with
		"old" as (
			select "name" from "keychain"
			where "name" = $1 for update
		),
		"new" as (
			insert into "keychain" ("name") values ($1)
			on conflict ("name") do nothing
			returning "name"
		)
		select * from "old"
		union all
		select * from "new"
		`,
		name,
	).Scan(nil); err != nil {
		return err
	}

	if err := criticalSection(ctx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (kcp *keychainPG) GetKeychain(ctx context.Context, name string) (keychain.Keychain, error) {
	conn, err := kcp.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	raw := []byte{}
	if err := conn.QueryRow(
		ctx,
		`select "keys" from "keychain_keys" where "name" = $1`,
		name,
	).Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			// never stored. start empty.
			return keychain.New(name, nil, kcp.save), nil
		}
		return nil, err
	}

	marshalled := map[string]key.MarshalKey{}
	if err := json.Unmarshal(raw, &marshalled); err != nil {
		return nil, err
	}

	now := time.Now()
	keys := map[string]key.Key{}
	for kid, m := range marshalled {
		k, err := key.Unmarshal(m)
		if err != nil {
			return nil, err
		}
		if !k.Exp().After(now) {
			continue
		}
		keys[kid] = k
	}
	return keychain.New(name, keys, kcp.save), nil
}

func (kcp *keychainPG) save(ctx context.Context, name string, keys map[string]key.MarshalKey) error {
	marshalled, err := json.Marshal(keys)
	if err != nil {
		return err
	}

	conn, err := kcp.pool.Acquire(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Release()

	_, err = conn.Exec(
		ctx,
		`insert into "keychain_keys" ("name", "keys") values ($1, $2::jsonb)
		on conflict ("name") do update set "keys" = excluded."keys"`,
		name, string(marshalled),
	)
	return err
}
