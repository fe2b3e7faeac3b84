/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package metadata

import (
	"fmt"

	"github.com/luandevpro/typeorm/errors"
)

// Target is the stable type-identity token of a mapped entity type.
// Callers supply it explicitly at registration and at every lookup; the
// registry never derives identity through reflection.
type Target string

// ColumnType enumerates the portable column types drivers know how to map.
type ColumnType string

const (
	TypeString    ColumnType = "string"
	TypeText      ColumnType = "text"
	TypeInteger   ColumnType = "integer"
	TypeFloat     ColumnType = "float"
	TypeBoolean   ColumnType = "boolean"
	TypeTimestamp ColumnType = "timestamp"
	TypeJSON      ColumnType = "json"
)

var columnTypes = map[ColumnType]struct{}{
	TypeString:    {},
	TypeText:      {},
	TypeInteger:   {},
	TypeFloat:     {},
	TypeBoolean:   {},
	TypeTimestamp: {},
	TypeJSON:      {},
}

// ColumnMetadata describes one persisted column of an entity.
type ColumnMetadata struct {
	Name      string
	Type      ColumnType
	Primary   bool
	Generated bool
	Nullable  bool
	Unique    bool
}

// EntityMetadata binds a target token to its persisted shape.
// Instances are immutable once registered with a connection.
type EntityMetadata struct {
	Target  Target
	Table   string
	Columns []*ColumnMetadata

	// Indexes holds driver-specific key patterns, for example DynamoDB
	// single-table macros such as "USER#{ID}". Keys and templates are
	// opaque to the registry core.
	Indexes map[string]string
}

// PrimaryColumn returns the declared primary column, or nil.
func (m *EntityMetadata) PrimaryColumn() *ColumnMetadata {
	for _, c := range m.Columns {
		if c.Primary {
			return c
		}
	}
	return nil
}

// Column returns the column with the given name, or nil.
func (m *EntityMetadata) Column(name string) *ColumnMetadata {
	for _, c := range m.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ColumnNames returns the column names in declaration order.
func (m *EntityMetadata) ColumnNames() []string {
	names := make([]string, 0, len(m.Columns))
	for _, c := range m.Columns {
		names = append(names, c.Name)
	}
	return names
}

// Validate checks that the metadata is complete enough to register.
func (m *EntityMetadata) Validate() error {
	if m.Target == "" {
		return errors.NewValidationError("target", "must not be empty")
	}
	if m.Table == "" {
		return errors.NewValidationError("table", "must not be empty")
	}
	if len(m.Columns) == 0 {
		return errors.NewValidationError("columns", "at least one column is required")
	}

	primaries := 0
	seen := make(map[string]struct{}, len(m.Columns))
	for _, c := range m.Columns {
		if c == nil {
			return errors.NewValidationError("columns", "nil column")
		}
		if c.Name == "" {
			return errors.NewValidationError("columns", "column name must not be empty")
		}
		if _, dup := seen[c.Name]; dup {
			return errors.NewValidationError(c.Name, "duplicate column name")
		}
		seen[c.Name] = struct{}{}
		if _, ok := columnTypes[c.Type]; !ok {
			return errors.NewValidationError(c.Name, fmt.Sprintf("unknown column type %q", c.Type))
		}
		if c.Generated && !c.Primary {
			return errors.NewValidationError(c.Name, "generated is only valid on the primary column")
		}
		if c.Primary {
			primaries++
		}
	}
	if primaries > 1 {
		return errors.NewValidationError("columns", "at most one primary column is allowed")
	}
	return nil
}
