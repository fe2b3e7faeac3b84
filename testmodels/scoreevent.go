/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package testmodels

import (
	"github.com/go-openapi/strfmt"

	"github.com/luandevpro/typeorm/metadata"
)

// ScoreEvent is a key-value test entity stored under composite
// SYSTEM#/EVENT# keys.
type ScoreEvent struct {

	// Unique identifier for the event.
	// Required: true
	ID string `json:"id,omitempty"`

	// Rating system the event belongs to.
	// Required: true
	System string `json:"system,omitempty"`

	// Points awarded by the event.
	Score float64 `json:"score,omitempty"`

	// Timestamp when the event was recorded.
	// Format: date-time
	RecordedAt strfmt.DateTime `json:"recordedAt,omitempty"`
}

// ScoreEventMetadata describes ScoreEvent with explicit key templates
// so events cluster under their rating system.
func ScoreEventMetadata() *metadata.EntityMetadata {
	return &metadata.EntityMetadata{
		Target: "ScoreEvent",
		Table:  "score_events",
		Columns: []*metadata.ColumnMetadata{
			{Name: "id", Type: metadata.TypeString, Primary: true, Generated: true},
			{Name: "system", Type: metadata.TypeString},
			{Name: "score", Type: metadata.TypeFloat, Nullable: true},
			{Name: "recordedAt", Type: metadata.TypeTimestamp, Nullable: true},
		},
		Indexes: map[string]string{
			"PK": "SYSTEM#{system}",
			"SK": "EVENT#{id}",
		},
	}
}
