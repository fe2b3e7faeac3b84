/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package typeorm

import (
	"context"
	"log/slog"
	"sync"

	"github.com/luandevpro/typeorm/driver"
	"github.com/luandevpro/typeorm/errors"
	"github.com/luandevpro/typeorm/metadata"
	"github.com/luandevpro/typeorm/repository"
	"github.com/luandevpro/typeorm/schema"
	"github.com/luandevpro/typeorm/subscriber"
)

// pair associates registered metadata with the repository built for it.
// The pair list is the only join index between the two collections;
// matching is by metadata pointer identity.
type pair struct {
	metadata   *metadata.EntityMetadata
	repository *repository.Repository
}

// Connection is the registry of one configured driver session and every
// entity type mapped over it. Registration appends to the collections;
// entries are never replaced or removed for the connection's lifetime.
type Connection struct {
	mu sync.RWMutex

	drv    driver.Driver
	logger *slog.Logger
	opts   *driver.Options

	connected bool

	metadatas    []*metadata.EntityMetadata
	repositories []*repository.Repository
	broadcasters []*subscriber.Broadcaster
	subscribers  []subscriber.Subscriber
	pairs        []pair
}

// Option adjusts a connection at construction time.
type Option func(*Connection)

// WithLogger replaces the connection logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds an unconnected registry over the given driver.
func New(drv driver.Driver, opts ...Option) *Connection {
	c := &Connection{
		drv:    drv,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	drv.SetRegistry(c)
	return c
}

// Open resolves the named driver from options, builds a connection, and
// connects it.
func Open(ctx context.Context, opts *driver.Options, options ...Option) (*Connection, error) {
	drv, err := driver.New(opts.Type)
	if err != nil {
		return nil, err
	}
	c := New(drv, options...)
	if err := c.Connect(ctx, opts); err != nil {
		return nil, err
	}
	return c, nil
}

// Connect establishes the driver session. When the options request
// automatic schema creation, backing tables for every registered entity
// are ensured before Connect returns; a schema failure surfaces to the
// caller but leaves the session established.
func (c *Connection) Connect(ctx context.Context, opts *driver.Options) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return errors.ErrAlreadyConnected
	}
	if err := c.drv.Connect(ctx, opts); err != nil {
		c.mu.Unlock()
		return errors.NewConnectionError("connect", err)
	}
	c.connected = true
	c.opts = opts
	auto := opts != nil && opts.AutoSchemaCreate
	c.mu.Unlock()

	c.logger.Debug("driver session established", "driver", driverType(opts))

	if auto {
		return c.Synchronize(ctx)
	}
	return nil
}

// Synchronize ensures backing schema for every entity registered so
// far. Connect runs this automatically when the options request it, so
// an explicit call is only needed for entities registered after
// connecting.
func (c *Connection) Synchronize(ctx context.Context) error {
	c.mu.RLock()
	connected := c.connected
	c.mu.RUnlock()
	if !connected {
		return errors.ErrNotConnected
	}
	return schema.NewCreator(c).Create(ctx)
}

// Close tears down the driver session. Registered metadata,
// repositories, broadcasters, and subscribers survive and serve a later
// reconnect.
func (c *Connection) Close(ctx context.Context) error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return errors.ErrNotConnected
	}
	c.connected = false
	c.mu.Unlock()

	if err := c.drv.Disconnect(ctx); err != nil {
		return errors.NewConnectionError("close", err)
	}
	c.logger.Debug("driver session closed", "driver", driverType(c.Options()))
	return nil
}

// AddMetadatas registers entity metadata and builds a repository and a
// broadcaster for each entry. The whole batch is validated first:
// invalid metadata or a target that is already registered (or repeated
// inside the batch) rejects every entry and leaves the connection
// untouched. Each broadcaster snapshots the subscribers known at this
// moment.
func (c *Connection) AddMetadatas(ms ...*metadata.EntityMetadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	batch := make(map[metadata.Target]struct{}, len(ms))
	for _, m := range ms {
		if m == nil {
			return errors.ErrInvalidInput
		}
		if err := m.Validate(); err != nil {
			return err
		}
		if _, dup := batch[m.Target]; dup {
			return errors.NewDuplicateMetadataError(string(m.Target))
		}
		for _, existing := range c.metadatas {
			if existing.Target == m.Target {
				return errors.NewDuplicateMetadataError(string(m.Target))
			}
		}
		batch[m.Target] = struct{}{}
	}

	for _, m := range ms {
		b := subscriber.NewBroadcaster(m.Target, c.subscribers)
		repo := repository.New(c, m, b)
		c.metadatas = append(c.metadatas, m)
		c.repositories = append(c.repositories, repo)
		c.broadcasters = append(c.broadcasters, b)
		c.pairs = append(c.pairs, pair{metadata: m, repository: repo})
		c.logger.Debug("registered entity metadata", "target", string(m.Target), "table", m.Table)
	}
	return nil
}

// AddSubscribers registers lifecycle subscribers. They are seen only by
// broadcasters built after this call; repositories that already exist
// keep their snapshot.
func (c *Connection) AddSubscribers(subs ...subscriber.Subscriber) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range subs {
		if s == nil {
			return errors.ErrInvalidInput
		}
	}
	c.subscribers = append(c.subscribers, subs...)
	return nil
}

// GetMetadata returns the metadata registered for target.
func (c *Connection) GetMetadata(target metadata.Target) (*metadata.EntityMetadata, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, m := range c.metadatas {
		if m.Target == target {
			return m, nil
		}
	}
	return nil, errors.NewMetadataNotFoundError(string(target))
}

// GetRepository returns the repository paired with the metadata
// registered for target.
func (c *Connection) GetRepository(target metadata.Target) (*repository.Repository, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, m := range c.metadatas {
		if m.Target == target {
			for _, p := range c.pairs {
				if p.metadata == m {
					return p.repository, nil
				}
			}
			break
		}
	}
	return nil, errors.NewRepositoryNotFoundError(string(target))
}

// GetBroadcaster returns the broadcaster serving target.
func (c *Connection) GetBroadcaster(target metadata.Target) (*subscriber.Broadcaster, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, b := range c.broadcasters {
		if b.Target() == target {
			return b, nil
		}
	}
	return nil, errors.NewBroadcasterNotFoundError(string(target))
}

// Metadatas returns the registered metadata in registration order.
func (c *Connection) Metadatas() []*metadata.EntityMetadata {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*metadata.EntityMetadata, len(c.metadatas))
	copy(out, c.metadatas)
	return out
}

// Repositories returns the repositories in registration order.
func (c *Connection) Repositories() []*repository.Repository {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*repository.Repository, len(c.repositories))
	copy(out, c.repositories)
	return out
}

// Broadcasters returns the broadcasters in registration order.
func (c *Connection) Broadcasters() []*subscriber.Broadcaster {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*subscriber.Broadcaster, len(c.broadcasters))
	copy(out, c.broadcasters)
	return out
}

// Subscribers returns the registered subscribers in registration order.
func (c *Connection) Subscribers() []subscriber.Subscriber {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]subscriber.Subscriber, len(c.subscribers))
	copy(out, c.subscribers)
	return out
}

// Options returns the driver options of the current or last session.
func (c *Connection) Options() *driver.Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts
}

// Driver returns the connection's driver.
func (c *Connection) Driver() driver.Driver {
	return c.drv
}

// IsConnected reports whether a driver session is established.
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Logger returns the connection logger.
func (c *Connection) Logger() *slog.Logger {
	return c.logger
}

func driverType(opts *driver.Options) string {
	if opts == nil {
		return ""
	}
	return opts.Type
}
