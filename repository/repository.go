/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/luandevpro/typeorm/driver"
	"github.com/luandevpro/typeorm/errors"
	"github.com/luandevpro/typeorm/metadata"
	"github.com/luandevpro/typeorm/subscriber"
)

// Conn is the slice of a connection a repository depends on.
type Conn interface {
	Driver() driver.Driver
	IsConnected() bool
}

// Repository performs persistence operations for one entity type. It is
// created by the connection when metadata is registered and stays bound
// to that metadata and its broadcaster for its whole lifetime.
type Repository struct {
	conn        Conn
	metadata    *metadata.EntityMetadata
	broadcaster *subscriber.Broadcaster
}

// New binds a repository to its connection, metadata, and broadcaster.
func New(conn Conn, m *metadata.EntityMetadata, b *subscriber.Broadcaster) *Repository {
	return &Repository{conn: conn, metadata: m, broadcaster: b}
}

// Metadata returns the entity metadata the repository serves.
func (r *Repository) Metadata() *metadata.EntityMetadata {
	return r.metadata
}

// Broadcaster returns the lifecycle broadcaster bound to the repository.
func (r *Repository) Broadcaster() *subscriber.Broadcaster {
	return r.broadcaster
}

// Insert persists a new entity. The before-insert event fires ahead of
// the write, so subscribers may still adjust the entity. When the
// primary column is generated and the entity carries no key, a fresh
// UUID is assigned and written back to the entity.
func (r *Repository) Insert(ctx context.Context, entity any) error {
	if err := r.ready(); err != nil {
		return err
	}
	if err := r.broadcaster.Dispatch(ctx, subscriber.BeforeInsert, entity); err != nil {
		return err
	}
	row, err := encode(entity)
	if err != nil {
		return err
	}
	if err := r.fillGeneratedKey(entity, row); err != nil {
		return err
	}
	if err := r.conn.Driver().Insert(ctx, r.metadata, row); err != nil {
		return err
	}
	return r.broadcaster.Dispatch(ctx, subscriber.AfterInsert, entity)
}

// Update rewrites the stored row identified by the entity's primary key.
func (r *Repository) Update(ctx context.Context, entity any) error {
	if err := r.ready(); err != nil {
		return err
	}
	if err := r.broadcaster.Dispatch(ctx, subscriber.BeforeUpdate, entity); err != nil {
		return err
	}
	row, err := encode(entity)
	if err != nil {
		return err
	}
	key, err := r.primaryKeyValue(row)
	if err != nil {
		return err
	}
	if err := r.conn.Driver().Update(ctx, r.metadata, key, row); err != nil {
		return err
	}
	return r.broadcaster.Dispatch(ctx, subscriber.AfterUpdate, entity)
}

// Remove deletes the stored row identified by the entity's primary key.
func (r *Repository) Remove(ctx context.Context, entity any) error {
	if err := r.ready(); err != nil {
		return err
	}
	if err := r.broadcaster.Dispatch(ctx, subscriber.BeforeRemove, entity); err != nil {
		return err
	}
	row, err := encode(entity)
	if err != nil {
		return err
	}
	key, err := r.primaryKeyValue(row)
	if err != nil {
		return err
	}
	if err := r.conn.Driver().Remove(ctx, r.metadata, key); err != nil {
		return err
	}
	return r.broadcaster.Dispatch(ctx, subscriber.AfterRemove, entity)
}

// FindOne loads the row with the given primary key value. A missing row
// fails with NotFoundError. After-load events carry the raw row.
func (r *Repository) FindOne(ctx context.Context, key any) (driver.Row, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	row, err := r.conn.Driver().FindOne(ctx, r.metadata, key)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errors.NewNotFoundError(string(r.metadata.Target), fmt.Sprint(key))
	}
	if err := r.broadcaster.Dispatch(ctx, subscriber.AfterLoad, row); err != nil {
		return nil, err
	}
	return row, nil
}

// Find loads the rows matching every column/value pair in criteria; nil
// criteria loads the whole entity set. Criteria pass to the driver
// untouched. After-load events fire once per row.
func (r *Repository) Find(ctx context.Context, criteria driver.Row) ([]driver.Row, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	rows, err := r.conn.Driver().Find(ctx, r.metadata, criteria)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := r.broadcaster.Dispatch(ctx, subscriber.AfterLoad, row); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (r *Repository) ready() error {
	if !r.conn.IsConnected() {
		return errors.ErrNotConnected
	}
	return nil
}

// fillGeneratedKey assigns a UUID to an empty generated string primary
// key, in both the outgoing row and the caller's entity.
func (r *Repository) fillGeneratedKey(entity any, row driver.Row) error {
	pc := r.metadata.PrimaryColumn()
	if pc == nil || !pc.Generated || pc.Type != metadata.TypeString {
		return nil
	}
	switch v := row[pc.Name].(type) {
	case nil:
	case string:
		if v != "" {
			return nil
		}
	default:
		return nil
	}
	id := uuid.NewString()
	row[pc.Name] = id
	return decode(driver.Row{pc.Name: id}, entity)
}

func (r *Repository) primaryKeyValue(row driver.Row) (any, error) {
	pc := r.metadata.PrimaryColumn()
	if pc == nil {
		return nil, errors.NewValidationError("columns", "metadata declares no primary column")
	}
	v, ok := row[pc.Name]
	if !ok || v == nil {
		return nil, errors.NewValidationError(pc.Name, "primary key value is required")
	}
	if s, isString := v.(string); isString && s == "" {
		return nil, errors.NewValidationError(pc.Name, "primary key value is required")
	}
	return v, nil
}
