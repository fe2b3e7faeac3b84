/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package schema

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/luandevpro/typeorm/driver"
	"github.com/luandevpro/typeorm/metadata"
)

// Registry is the slice of a connection the creator reads.
type Registry interface {
	Metadatas() []*metadata.EntityMetadata
	Driver() driver.Driver
	Logger() *slog.Logger
}

// Creator materializes missing backing tables for registered entities.
type Creator struct {
	registry Registry
}

// NewCreator builds a creator over the given registry view.
func NewCreator(r Registry) *Creator {
	return &Creator{registry: r}
}

// Create walks the registered metadata in registration order and asks
// the driver to ensure each backing table, stopping at the first
// failure. Tables already present are left untouched by the drivers.
func (c *Creator) Create(ctx context.Context) error {
	drv := c.registry.Driver()
	log := c.registry.Logger()
	for _, m := range c.registry.Metadatas() {
		log.Debug("ensuring schema", "target", string(m.Target), "table", m.Table)
		if err := drv.EnsureSchema(ctx, m); err != nil {
			return fmt.Errorf("failed to ensure schema for %q: %w", m.Target, err)
		}
	}
	return nil
}
