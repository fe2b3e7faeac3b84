/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

// Package mock provides an in-memory driver implementation for testing
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/luandevpro/typeorm/driver"
	"github.com/luandevpro/typeorm/errors"
	"github.com/luandevpro/typeorm/metadata"
)

func init() {
	driver.Register("mock", func() driver.Driver { return New() })
}

// Driver is an in-memory implementation of driver.Driver for testing
type Driver struct {
	mu        sync.RWMutex
	tables    map[metadata.Target]map[string]driver.Row
	calls     []string
	registry  driver.Registry
	connected bool

	connectError error
	schemaError  error
	insertError  error
	updateError  error
	removeError  error
	findError    error
}

// New creates a new mock Driver
func New() *Driver {
	return &Driver{
		tables: make(map[metadata.Target]map[string]driver.Row),
	}
}

// WithConnectError makes Connect return an error
func (d *Driver) WithConnectError(err error) *Driver {
	d.connectError = err
	return d
}

// WithSchemaError makes EnsureSchema return an error
func (d *Driver) WithSchemaError(err error) *Driver {
	d.schemaError = err
	return d
}

// WithInsertError makes Insert return an error
func (d *Driver) WithInsertError(err error) *Driver {
	d.insertError = err
	return d
}

// WithUpdateError makes Update return an error
func (d *Driver) WithUpdateError(err error) *Driver {
	d.updateError = err
	return d
}

// WithRemoveError makes Remove return an error
func (d *Driver) WithRemoveError(err error) *Driver {
	d.removeError = err
	return d
}

// WithFindError makes FindOne and Find return an error
func (d *Driver) WithFindError(err error) *Driver {
	d.findError = err
	return d
}

// Connect opens the in-memory session
func (d *Driver) Connect(ctx context.Context, opts *driver.Options) error {
	d.record("connect")
	if d.connectError != nil {
		return d.connectError
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = true
	return nil
}

// Disconnect closes the in-memory session
func (d *Driver) Disconnect(ctx context.Context) error {
	d.record("disconnect")
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = false
	return nil
}

// SetRegistry stores the registry view handed over by the connection
func (d *Driver) SetRegistry(r driver.Registry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registry = r
}

// EnsureSchema creates the in-memory table for the entity
func (d *Driver) EnsureSchema(ctx context.Context, m *metadata.EntityMetadata) error {
	d.record(fmt.Sprintf("ensure-schema:%s", m.Target))
	if d.schemaError != nil {
		return d.schemaError
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.tables[m.Target]; !ok {
		d.tables[m.Target] = make(map[string]driver.Row)
	}
	return nil
}

// Insert stores a row under its primary key value
func (d *Driver) Insert(ctx context.Context, m *metadata.EntityMetadata, row driver.Row) error {
	d.record(fmt.Sprintf("insert:%s", m.Target))
	if d.insertError != nil {
		return d.insertError
	}

	key, err := rowKey(m, row)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	table := d.table(m.Target)
	table[key] = cloneRow(row)
	return nil
}

// Update rewrites the row stored under key
func (d *Driver) Update(ctx context.Context, m *metadata.EntityMetadata, key any, row driver.Row) error {
	d.record(fmt.Sprintf("update:%s", m.Target))
	if d.updateError != nil {
		return d.updateError
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	table := d.table(m.Target)
	k := fmt.Sprint(key)
	if _, exists := table[k]; !exists {
		return errors.NewNotFoundError(string(m.Target), k)
	}
	table[k] = cloneRow(row)
	return nil
}

// Remove deletes the row stored under key
func (d *Driver) Remove(ctx context.Context, m *metadata.EntityMetadata, key any) error {
	d.record(fmt.Sprintf("remove:%s", m.Target))
	if d.removeError != nil {
		return d.removeError
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	table := d.table(m.Target)
	k := fmt.Sprint(key)
	if _, exists := table[k]; !exists {
		return errors.NewNotFoundError(string(m.Target), k)
	}
	delete(table, k)
	return nil
}

// FindOne loads the row stored under key, or (nil, nil) when absent
func (d *Driver) FindOne(ctx context.Context, m *metadata.EntityMetadata, key any) (driver.Row, error) {
	d.record(fmt.Sprintf("find-one:%s", m.Target))
	if d.findError != nil {
		return nil, d.findError
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	table, ok := d.tables[m.Target]
	if !ok {
		return nil, nil
	}
	row, ok := table[fmt.Sprint(key)]
	if !ok {
		return nil, nil
	}
	return cloneRow(row), nil
}

// Find loads the stored rows of the entity matching every criteria pair
func (d *Driver) Find(ctx context.Context, m *metadata.EntityMetadata, criteria driver.Row) ([]driver.Row, error) {
	d.record(fmt.Sprintf("find:%s", m.Target))
	if d.findError != nil {
		return nil, d.findError
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	table := d.tables[m.Target]
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]driver.Row, 0, len(table))
	for _, k := range keys {
		if matches(table[k], criteria) {
			out = append(out, cloneRow(table[k]))
		}
	}
	return out, nil
}

// Helper methods for testing

// Registry returns the registry view set by the connection
func (d *Driver) Registry() driver.Registry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.registry
}

// Connected reports whether the in-memory session is open
func (d *Driver) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// Calls returns the recorded operation log
func (d *Driver) Calls() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.calls))
	copy(out, d.calls)
	return out
}

// Rows returns a copy of the stored rows for a target
func (d *Driver) Rows(target metadata.Target) map[string]driver.Row {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]driver.Row, len(d.tables[target]))
	for k, row := range d.tables[target] {
		out[k] = cloneRow(row)
	}
	return out
}

// SetRow directly stores a row under a key (for testing)
func (d *Driver) SetRow(target metadata.Target, key string, row driver.Row) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.table(target)[key] = cloneRow(row)
}

// Clear removes all stored rows
func (d *Driver) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tables = make(map[metadata.Target]map[string]driver.Row)
}

func (d *Driver) record(call string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, call)
}

// table returns the target's row map, creating it if needed.
// Callers must hold the write lock.
func (d *Driver) table(target metadata.Target) map[string]driver.Row {
	t, ok := d.tables[target]
	if !ok {
		t = make(map[string]driver.Row)
		d.tables[target] = t
	}
	return t
}

func rowKey(m *metadata.EntityMetadata, row driver.Row) (string, error) {
	pc := m.PrimaryColumn()
	if pc == nil {
		return "", errors.NewValidationError("columns", "metadata declares no primary column")
	}
	v, ok := row[pc.Name]
	if !ok || v == nil {
		return "", errors.NewValidationError(pc.Name, "row carries no primary key value")
	}
	return fmt.Sprint(v), nil
}

func matches(row, criteria driver.Row) bool {
	for name, want := range criteria {
		got, ok := row[name]
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func cloneRow(row driver.Row) driver.Row {
	out := make(driver.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
