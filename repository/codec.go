/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package repository

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/luandevpro/typeorm/driver"
)

// encode flattens an entity into a row keyed by column name. Field
// mapping follows json struct tags, the wire shape entities already
// declare.
func encode(entity any) (driver.Row, error) {
	row := driver.Row{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &row,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build entity encoder: %w", err)
	}
	if err := dec.Decode(entity); err != nil {
		return nil, fmt.Errorf("failed to encode entity: %w", err)
	}
	return row, nil
}

// decode fills dest from a row. Numeric widths are relaxed because
// drivers scan into whatever width the backend reports, and timestamp
// strings are revived through RFC 3339 or the field's own text
// unmarshaler.
func decode(row driver.Row, dest any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           dest,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to build entity decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(row)); err != nil {
		return fmt.Errorf("failed to decode entity: %w", err)
	}
	return nil
}
