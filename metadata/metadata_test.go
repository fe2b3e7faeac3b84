/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package metadata

import (
	"testing"

	"github.com/luandevpro/typeorm/errors"
)

func validUser() *EntityMetadata {
	return &EntityMetadata{
		Target: "User",
		Table:  "users",
		Columns: []*ColumnMetadata{
			{Name: "id", Type: TypeString, Primary: true, Generated: true},
			{Name: "email", Type: TypeString, Unique: true},
			{Name: "age", Type: TypeInteger, Nullable: true},
			{Name: "created_at", Type: TypeTimestamp},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid metadata passes", func(t *testing.T) {
		if err := validUser().Validate(); err != nil {
			t.Fatalf("expected valid metadata, got %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*EntityMetadata)
	}{
		{
			name:   "empty target",
			mutate: func(m *EntityMetadata) { m.Target = "" },
		},
		{
			name:   "empty table",
			mutate: func(m *EntityMetadata) { m.Table = "" },
		},
		{
			name:   "no columns",
			mutate: func(m *EntityMetadata) { m.Columns = nil },
		},
		{
			name:   "unnamed column",
			mutate: func(m *EntityMetadata) { m.Columns[1].Name = "" },
		},
		{
			name:   "duplicate column name",
			mutate: func(m *EntityMetadata) { m.Columns[2].Name = "email" },
		},
		{
			name:   "unknown column type",
			mutate: func(m *EntityMetadata) { m.Columns[1].Type = "varchar" },
		},
		{
			name:   "generated without primary",
			mutate: func(m *EntityMetadata) { m.Columns[1].Generated = true },
		},
		{
			name:   "two primary columns",
			mutate: func(m *EntityMetadata) { m.Columns[1].Primary = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validUser()
			tt.mutate(m)
			err := m.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.IsValidationError(err) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestPrimaryColumn(t *testing.T) {
	m := validUser()
	pc := m.PrimaryColumn()
	if pc == nil {
		t.Fatal("expected a primary column")
	}
	if pc.Name != "id" {
		t.Errorf("expected primary column %q, got %q", "id", pc.Name)
	}

	m.Columns[0].Primary = false
	if got := m.PrimaryColumn(); got != nil {
		t.Errorf("expected nil primary column, got %q", got.Name)
	}
}

func TestColumn(t *testing.T) {
	m := validUser()
	if c := m.Column("email"); c == nil || c.Type != TypeString {
		t.Errorf("unexpected column lookup result: %+v", c)
	}
	if c := m.Column("missing"); c != nil {
		t.Errorf("expected nil for unknown column, got %+v", c)
	}
}

func TestColumnNames(t *testing.T) {
	m := validUser()
	got := m.ColumnNames()
	want := []string{"id", "email", "age", "created_at"}
	if len(got) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
