/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package metadata

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/luandevpro/typeorm/errors"
)

// columnDefinition mirrors one column entry of a definitions document.
type columnDefinition struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Primary   bool   `yaml:"primary,omitempty"`
	Generated bool   `yaml:"generated,omitempty"`
	Nullable  bool   `yaml:"nullable,omitempty"`
	Unique    bool   `yaml:"unique,omitempty"`
}

// entityDefinition mirrors one entity block of a definitions document.
type entityDefinition struct {
	Name    string             `yaml:"name"`
	Table   string             `yaml:"table"`
	Columns []columnDefinition `yaml:"columns"`
	Indexes map[string]string  `yaml:"indexes,omitempty"`
}

type definitionsFile struct {
	Entities []entityDefinition `yaml:"entities"`
}

// Load parses a YAML entity-definitions document and returns validated
// metadata in declaration order.
func Load(r io.Reader) ([]*EntityMetadata, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read entity definitions: %w", err)
	}

	var file definitionsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse entity definitions: %w", err)
	}
	if len(file.Entities) == 0 {
		return nil, errors.NewValidationError("entities", "no entity definitions found")
	}

	metadatas := make([]*EntityMetadata, 0, len(file.Entities))
	for _, def := range file.Entities {
		m := &EntityMetadata{
			Target:  Target(def.Name),
			Table:   def.Table,
			Indexes: def.Indexes,
		}
		for _, col := range def.Columns {
			m.Columns = append(m.Columns, &ColumnMetadata{
				Name:      col.Name,
				Type:      ColumnType(col.Type),
				Primary:   col.Primary,
				Generated: col.Generated,
				Nullable:  col.Nullable,
				Unique:    col.Unique,
			})
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("entity %q: %w", def.Name, err)
		}
		metadatas = append(metadatas, m)
	}
	return metadatas, nil
}

// LoadFile reads and parses the entity-definitions file at path.
func LoadFile(path string) ([]*EntityMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open entity definitions: %w", err)
	}
	defer f.Close()
	return Load(f)
}
