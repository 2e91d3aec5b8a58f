package db

import "context"

// SchemaInterface manages the database schema.
type SchemaInterface interface {
	// Upgrade applies schema versions newer than the database holds,
	// in version order, in one transaction.
	Upgrade(ctx context.Context) error

	// Version returns the schema version of the database.
	//
	// A database without the version table is version 0.
	Version(ctx context.Context) (int, error)

	// Context derives a context which is cancelled when the schema
	// repository holds a newer version than the database.
	//
	// Daemons treat that cancel as a shutdown signal: restart after
	// an upgrade, rather than run against an unknown schema.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
