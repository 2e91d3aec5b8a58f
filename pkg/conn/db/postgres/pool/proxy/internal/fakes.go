// Package internal provides fake pool/conn/tx implementations
// for testing proxies over them.
//
// Each Fake* returns the value preset in its Next* field.
package internal

import (
	"context"

	kpool "github.com/edubba/edubba/pkg/conn/db/postgres/pool"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type FakePool struct {
	NextAcquire struct {
		Conn kpool.Conn
		Err  error
	}
	NextAcquireAllIdle []kpool.Conn
	NextBegin          struct {
		Tx  kpool.Tx
		Err error
	}
	NextBeginTx struct {
		Tx  kpool.Tx
		Err error
	}
	NextConfig *pgxpool.Config
	NextPing   error
}

var _ kpool.Pool = &FakePool{}

func (f *FakePool) Acquire(context.Context) (kpool.Conn, error) {
	return f.NextAcquire.Conn, f.NextAcquire.Err
}
func (f *FakePool) AcquireAllIdle(context.Context) []kpool.Conn {
	return f.NextAcquireAllIdle
}
func (f *FakePool) Begin(context.Context) (kpool.Tx, error) {
	return f.NextBegin.Tx, f.NextBegin.Err
}
func (f *FakePool) BeginTx(context.Context, pgx.TxOptions) (kpool.Tx, error) {
	return f.NextBeginTx.Tx, f.NextBeginTx.Err
}
func (f *FakePool) Config() *pgxpool.Config {
	return f.NextConfig
}
func (f *FakePool) Ping(context.Context) error {
	return f.NextPing
}

type FakeConn struct {
	NextBegin struct {
		Tx  kpool.Tx
		Err error
	}
	NextBeginTx struct {
		Tx  kpool.Tx
		Err error
	}
	NextExec struct {
		Tag pgconn.CommandTag
		Err error
	}
	NextQuery struct {
		Rows pgx.Rows
		Err  error
	}
	NextQueryRow pgx.Row
	NextPing     error
	Released     int
}

var _ kpool.Conn = &FakeConn{}

func (f *FakeConn) Begin(context.Context) (kpool.Tx, error) {
	return f.NextBegin.Tx, f.NextBegin.Err
}
func (f *FakeConn) BeginTx(context.Context, pgx.TxOptions) (kpool.Tx, error) {
	return f.NextBeginTx.Tx, f.NextBeginTx.Err
}
func (f *FakeConn) Release() {
	f.Released += 1
}
func (f *FakeConn) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return f.NextExec.Tag, f.NextExec.Err
}
func (f *FakeConn) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return f.NextQuery.Rows, f.NextQuery.Err
}
func (f *FakeConn) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return f.NextQueryRow
}
func (f *FakeConn) Ping(context.Context) error {
	return f.NextPing
}
func (f *FakeConn) Conn() *pgx.Conn {
	return nil
}

type FakeTx struct {
	NextBegin struct {
		Tx  kpool.Tx
		Err error
	}
	NextCommit   error
	NextRollback error
	NextExec     struct {
		Tag pgconn.CommandTag
		Err error
	}
	NextQuery struct {
		Rows pgx.Rows
		Err  error
	}
	NextQueryRow pgx.Row
}

var _ kpool.Tx = &FakeTx{}

func (f *FakeTx) Begin(context.Context) (kpool.Tx, error) {
	return f.NextBegin.Tx, f.NextBegin.Err
}
func (f *FakeTx) Commit(context.Context) error {
	return f.NextCommit
}
func (f *FakeTx) Rollback(context.Context) error {
	return f.NextRollback
}
func (f *FakeTx) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return f.NextExec.Tag, f.NextExec.Err
}
func (f *FakeTx) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return f.NextQuery.Rows, f.NextQuery.Err
}
func (f *FakeTx) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return f.NextQueryRow
}
func (f *FakeTx) Conn() *pgx.Conn {
	return nil
}
