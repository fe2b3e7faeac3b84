/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package driver

import (
	"context"
	"log/slog"

	"github.com/luandevpro/typeorm/metadata"
)

// Row is the neutral record shape exchanged between repositories and
// drivers. Keys are column names from the entity metadata.
type Row map[string]any

// Registry is the read-only view a driver holds of the connection that
// owns it. The connection sets it before Connect and it stays valid
// until Disconnect returns.
type Registry interface {
	Logger() *slog.Logger
}

// Driver is the storage backend contract. A driver owns one underlying
// session (a connection pool, an SDK client) between Connect and
// Disconnect and performs all row-level operations for the repositories
// of its connection.
type Driver interface {
	Connect(ctx context.Context, opts *Options) error

	// Disconnect tears down the session. Calling it when no session is
	// open is a no-op.
	Disconnect(ctx context.Context) error

	SetRegistry(r Registry)

	// EnsureSchema creates the backing table for m when it does not exist.
	EnsureSchema(ctx context.Context, m *metadata.EntityMetadata) error

	Insert(ctx context.Context, m *metadata.EntityMetadata, row Row) error

	Update(ctx context.Context, m *metadata.EntityMetadata, key any, row Row) error

	Remove(ctx context.Context, m *metadata.EntityMetadata, key any) error

	// FindOne loads the row identified by the primary key value.
	// It returns (nil, nil) when no row matches.
	FindOne(ctx context.Context, m *metadata.EntityMetadata, key any) (Row, error)

	// Find loads the rows matching every column/value pair in criteria.
	// A nil or empty criteria loads all rows of the entity.
	Find(ctx context.Context, m *metadata.EntityMetadata, criteria Row) ([]Row, error)
}
