/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

// Package testmodels holds entity structs and metadata used by the
// integration tests. They double as mapping examples for the README.
package testmodels

import (
	"time"

	"github.com/luandevpro/typeorm/metadata"
)

// User is a relational test entity backed by the users table.
type User struct {

	// Unique identifier, generated when left empty.
	ID string `json:"id,omitempty"`

	// Login email, unique per user.
	Email string `json:"email,omitempty"`

	// Display name.
	Name string `json:"name,omitempty"`

	Age    int64 `json:"age,omitempty"`
	Active bool  `json:"active,omitempty"`

	// Free-form preferences stored as a JSON document.
	Settings map[string]any `json:"settings,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// UserMetadata describes User for registration on a connection.
func UserMetadata() *metadata.EntityMetadata {
	return &metadata.EntityMetadata{
		Target: "User",
		Table:  "users",
		Columns: []*metadata.ColumnMetadata{
			{Name: "id", Type: metadata.TypeString, Primary: true, Generated: true},
			{Name: "email", Type: metadata.TypeString, Unique: true},
			{Name: "name", Type: metadata.TypeString, Nullable: true},
			{Name: "age", Type: metadata.TypeInteger, Nullable: true},
			{Name: "active", Type: metadata.TypeBoolean, Nullable: true},
			{Name: "settings", Type: metadata.TypeJSON, Nullable: true},
			{Name: "createdAt", Type: metadata.TypeTimestamp, Nullable: true},
		},
	}
}
