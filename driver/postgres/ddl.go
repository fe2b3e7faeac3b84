/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/luandevpro/typeorm/metadata"
)

// columnSQLType maps a portable column type to its PostgreSQL type.
func columnSQLType(t metadata.ColumnType) (string, error) {
	switch t {
	case metadata.TypeString, metadata.TypeText:
		return "text", nil
	case metadata.TypeInteger:
		return "bigint", nil
	case metadata.TypeFloat:
		return "double precision", nil
	case metadata.TypeBoolean:
		return "boolean", nil
	case metadata.TypeTimestamp:
		return "timestamptz", nil
	case metadata.TypeJSON:
		return "jsonb", nil
	default:
		return "", fmt.Errorf("postgres: unsupported column type %q", t)
	}
}

// createTableDDL renders the CREATE TABLE IF NOT EXISTS statement for an
// entity. Identifiers are quoted because they come from caller-supplied
// metadata.
func createTableDDL(m *metadata.EntityMetadata) (string, error) {
	defs := make([]string, 0, len(m.Columns))
	for _, c := range m.Columns {
		sqlType, err := columnSQLType(c.Type)
		if err != nil {
			return "", err
		}
		parts := []string{pq.QuoteIdentifier(c.Name), sqlType}
		if c.Primary {
			parts = append(parts, "PRIMARY KEY")
		} else {
			if !c.Nullable {
				parts = append(parts, "NOT NULL")
			}
			if c.Unique {
				parts = append(parts, "UNIQUE")
			}
		}
		defs = append(defs, "  "+strings.Join(parts, " "))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)",
		pq.QuoteIdentifier(m.Table), strings.Join(defs, ",\n")), nil
}
